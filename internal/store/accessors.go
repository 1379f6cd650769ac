package store

import "github.com/ajitpratap0/hospital-links/internal/models"

// Accessors never fail. A miss returns the zero view, which is invalid and
// holds no links. Every view is a copy; changing it does not touch the store.

// Staff returns the staff member behind id.
func (s *Store) Staff(id models.ID) models.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staffView(id)
}

// Patient returns the patient behind id.
func (s *Store) Patient(id models.ID) models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patientView(id)
}

// Room returns the room behind id.
func (s *Store) Room(id models.ID) models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomView(id)
}

// Hospital returns the hospital behind id.
func (s *Store) Hospital(id models.ID) models.Hospital {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hospitalView(id)
}

// StaffHospital returns the hospital employing the staff member.
func (s *Store) StaffHospital(id models.ID) models.Hospital {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hospitalView(s.staffView(id).Hospital)
}

// StaffRoom returns the room the staff member is assigned to.
func (s *Store) StaffRoom(id models.ID) models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomView(s.staffView(id).Room)
}

// PatientHospital returns the hospital the patient is registered in.
func (s *Store) PatientHospital(id models.ID) models.Hospital {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hospitalView(s.patientView(id).Hospital)
}

// PatientRoom returns the room the patient is placed in.
func (s *Store) PatientRoom(id models.ID) models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.roomView(s.patientView(id).Room)
}

// RoomHospital returns the hospital owning the room.
func (s *Store) RoomHospital(id models.ID) models.Hospital {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hospitalView(s.roomView(id).Hospital)
}

// RoomStaff returns the caretaker assigned to the room.
func (s *Store) RoomStaff(id models.ID) models.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.staffView(s.roomView(id).Staff)
}

// HospitalStaffByName finds an employed staff member by name.
func (s *Store) HospitalStaffByName(hospital models.ID, first, last string) models.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hospitals[hospital]
	if !ok {
		return models.Staff{}
	}
	key := models.PersonKey{FirstName: first, LastName: last}
	for _, id := range h.Staff {
		if st, ok := s.staff[id]; ok && st.IsValid() && st.Key() == key {
			return s.staffView(id)
		}
	}
	return models.Staff{}
}

// HospitalPatientByName finds a registered patient by name.
func (s *Store) HospitalPatientByName(hospital models.ID, first, last string) models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hospitals[hospital]
	if !ok {
		return models.Patient{}
	}
	return s.findPatient(h.Patients, models.PersonKey{FirstName: first, LastName: last})
}

// HospitalRoomByName finds an owned room by name.
func (s *Store) HospitalRoomByName(hospital models.ID, name string) models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hospitals[hospital]
	if !ok || name == "" {
		return models.Room{}
	}
	for _, id := range h.Rooms {
		if r, ok := s.rooms[id]; ok && r.Name == name {
			return s.roomView(id)
		}
	}
	return models.Room{}
}

// RoomPatientByName finds a patient in the room by name.
func (s *Store) RoomPatientByName(room models.ID, first, last string) models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[room]
	if !ok {
		return models.Patient{}
	}
	return s.findPatient(r.Patients, models.PersonKey{FirstName: first, LastName: last})
}

// HospitalStaffList returns the employed staff in the order they joined.
func (s *Store) HospitalStaffList(hospital models.ID) []models.Staff {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.hospitalView(hospital).Staff
	out := make([]models.Staff, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.staffView(id))
	}
	return out
}

// HospitalPatientList returns the registered patients in the order they joined.
func (s *Store) HospitalPatientList(hospital models.ID) []models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patientViews(s.hospitalView(hospital).Patients)
}

// HospitalRoomList returns the owned rooms in the order they were added.
func (s *Store) HospitalRoomList(hospital models.ID) []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.hospitalView(hospital).Rooms
	out := make([]models.Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.roomView(id))
	}
	return out
}

// RoomPatientList returns the patients in the room in the order they joined.
func (s *Store) RoomPatientList(room models.ID) []models.Patient {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patientViews(s.roomView(room).Patients)
}

// HospitalStatus returns the membership counts of a hospital.
func (s *Store) HospitalStatus(id models.ID) models.HospitalStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.hospitals[id]
	if !ok {
		return models.HospitalStatus{}
	}
	return models.HospitalStatus{
		Name:     h.Name,
		Staff:    len(h.Staff),
		Patients: len(h.Patients),
		Rooms:    len(h.Rooms),
	}
}

// RoomStatus returns the raw state needed to summarize a room.
func (s *Store) RoomStatus(id models.ID) models.RoomStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.rooms[id]
	if !ok {
		return models.RoomStatus{}
	}
	return models.RoomStatus{
		Name:     r.Name,
		HasStaff: !r.Staff.IsZero(),
		Patients: len(r.Patients),
	}
}

func (s *Store) findPatient(ids []models.ID, key models.PersonKey) models.Patient {
	for _, id := range ids {
		if p, ok := s.patients[id]; ok && p.IsValid() && p.Key() == key {
			return *p
		}
	}
	return models.Patient{}
}

func (s *Store) patientViews(ids []models.ID) []models.Patient {
	out := make([]models.Patient, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.patientView(id))
	}
	return out
}

func (s *Store) staffView(id models.ID) models.Staff {
	if st, ok := s.staff[id]; ok {
		return *st
	}
	return models.Staff{}
}

func (s *Store) patientView(id models.ID) models.Patient {
	if p, ok := s.patients[id]; ok {
		return *p
	}
	return models.Patient{}
}

func (s *Store) roomView(id models.ID) models.Room {
	r, ok := s.rooms[id]
	if !ok {
		return models.Room{}
	}
	v := *r
	v.Patients = cloneIDs(r.Patients)
	return v
}

func (s *Store) hospitalView(id models.ID) models.Hospital {
	h, ok := s.hospitals[id]
	if !ok {
		return models.Hospital{}
	}
	v := *h
	v.Staff = cloneIDs(h.Staff)
	v.Patients = cloneIDs(h.Patients)
	v.Rooms = cloneIDs(h.Rooms)
	return v
}

package store

import (
	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
)

// EmployStaff links a staff member to the hospital. The staff member must
// have a role.
func (s *Store) EmployStaff(hospital, staff models.ID) error {
	return s.establish(links.KindHospitalStaff, hospital, staff)
}

// DismissStaff severs the employment of a staff member.
func (s *Store) DismissStaff(hospital, staff models.ID) error {
	return s.sever(links.KindHospitalStaff, hospital, staff)
}

// RegisterPatient links a patient to the hospital.
func (s *Store) RegisterPatient(hospital, patient models.ID) error {
	return s.establish(links.KindHospitalPatient, hospital, patient)
}

// DischargePatient severs the registration of a patient.
func (s *Store) DischargePatient(hospital, patient models.ID) error {
	return s.sever(links.KindHospitalPatient, hospital, patient)
}

// AddRoom makes the hospital the owner of the room.
func (s *Store) AddRoom(hospital, room models.ID) error {
	return s.establish(links.KindHospitalRoom, hospital, room)
}

// RemoveRoom severs the ownership of a room.
func (s *Store) RemoveRoom(hospital, room models.ID) error {
	return s.sever(links.KindHospitalRoom, hospital, room)
}

// AddPatient places a patient in the room.
func (s *Store) AddPatient(room, patient models.ID) error {
	return s.establish(links.KindRoomPatient, room, patient)
}

// RemovePatient takes a patient out of the room.
func (s *Store) RemovePatient(room, patient models.ID) error {
	return s.sever(links.KindRoomPatient, room, patient)
}

// AssignStaff makes the staff member the caretaker of the room. A room has
// at most one caretaker.
func (s *Store) AssignStaff(room, staff models.ID) error {
	return s.establish(links.KindRoomStaff, room, staff)
}

// UnassignStaff severs the room's caretaker assignment, whoever holds it.
func (s *Store) UnassignStaff(room models.ID) error {
	s.mu.Lock()
	var l links.Link
	var err error
	r, ok := s.rooms[room]
	switch {
	case !ok:
		err = unknown(links.OpSever, links.KindRoomStaff, "room", room)
	case r.Staff.IsZero():
		e := links.Fail(links.OpSever, links.KindRoomStaff, links.ReasonNotLinked, "no staff assigned")
		e.Subject = roomLabel(r)
		err = e
	default:
		l, err = s.link(links.OpSever, links.KindRoomStaff, room, r.Staff)
		if err == nil {
			err = l.Sever()
		}
	}
	s.mu.Unlock()
	return s.emit(links.OpSever, links.KindRoomStaff, l.Subject, l.Peer, err)
}

// Confirm runs the member half of establishing a link on its own. The member
// accepts only if the container has already recorded it, so calling Confirm
// directly can never create a one-sided link.
func (s *Store) Confirm(kind links.Kind, container, member models.ID) error {
	s.mu.Lock()
	l, err := s.link(links.OpConfirm, kind, container, member)
	if err == nil {
		err = l.Confirm()
	}
	s.mu.Unlock()
	return s.emit(links.OpConfirm, kind, l.Subject, l.Peer, err)
}

// Release runs the member half of severing a link on its own. The member
// refuses while its container still holds it.
func (s *Store) Release(kind links.Kind, member models.ID) error {
	s.mu.Lock()
	l, err := s.peerLink(links.OpRelease, kind, member)
	if err == nil {
		err = l.Release()
	}
	s.mu.Unlock()
	return s.emit(links.OpRelease, kind, l.Subject, l.Peer, err)
}

// Leave severs a link starting from the member end: the member clears its
// reference first and the container then drops the member.
func (s *Store) Leave(kind links.Kind, member models.ID) error {
	s.mu.Lock()
	l, err := s.peerLink(links.OpLeave, kind, member)
	if err == nil {
		err = l.Leave()
	}
	s.mu.Unlock()
	return s.emit(links.OpLeave, kind, l.Subject, l.Peer, err)
}

func (s *Store) establish(kind links.Kind, container, member models.ID) error {
	s.mu.Lock()
	l, err := s.link(links.OpEstablish, kind, container, member)
	if err == nil {
		err = l.Establish()
	}
	s.mu.Unlock()
	return s.emit(links.OpEstablish, kind, l.Subject, l.Peer, err)
}

func (s *Store) sever(kind links.Kind, container, member models.ID) error {
	s.mu.Lock()
	l, err := s.link(links.OpSever, kind, container, member)
	if err == nil {
		err = l.Sever()
	}
	s.mu.Unlock()
	return s.emit(links.OpSever, kind, l.Subject, l.Peer, err)
}

// peerLink binds member to the container it currently references for kind.
func (s *Store) peerLink(op links.Op, kind links.Kind, member models.ID) (links.Link, error) {
	ref, err := s.memberRef(op, kind, member)
	if err != nil {
		return links.Link{}, err
	}
	if ref.IsZero() {
		return links.Link{}, links.Fail(op, kind, links.ReasonNotLinked, "no link present")
	}
	return s.link(op, kind, *ref, member)
}

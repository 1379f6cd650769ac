package store

import (
	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
)

// RenameStaff changes the name of a staff member. Both names must be set and
// the staff member must hold no link, otherwise a container could end up
// indexing it under a stale key.
func (s *Store) RenameStaff(id models.ID, first, last string) error {
	s.mu.Lock()
	var label string
	var err error
	if st, ok := s.staff[id]; ok {
		label = staffLabel(st)
		err = renamePerson(&st.Person, label, first, last, st.IsLinked())
	} else {
		err = unknown(links.OpRename, "", "staff", id)
	}
	s.mu.Unlock()
	return s.emit(links.OpRename, "", label, "", err)
}

// RenamePatient changes the name of a patient under the same rules as
// RenameStaff.
func (s *Store) RenamePatient(id models.ID, first, last string) error {
	s.mu.Lock()
	var label string
	var err error
	if p, ok := s.patients[id]; ok {
		label = patientLabel(p)
		err = renamePerson(&p.Person, label, first, last, p.IsLinked())
	} else {
		err = unknown(links.OpRename, "", "patient", id)
	}
	s.mu.Unlock()
	return s.emit(links.OpRename, "", label, "", err)
}

func renamePerson(p *models.Person, label, first, last string, linked bool) error {
	for _, f := range []struct{ field, value string }{{"first name", first}, {"last name", last}} {
		if err := models.ValidateName(f.field, f.value); err != nil {
			return subjectFail(links.OpRename, links.ReasonInvalidIdentity, label, err.Error())
		}
	}
	if linked {
		return subjectFail(links.OpRename, links.ReasonLinkedEntity, label, "cannot rename while linked")
	}
	p.FirstName, p.LastName = first, last
	return nil
}

// RenameRoom changes the name of an unlinked room.
func (s *Store) RenameRoom(id models.ID, name string) error {
	s.mu.Lock()
	var label string
	var err error
	r, ok := s.rooms[id]
	if ok {
		label = roomLabel(r)
		err = renameGuard(label, name, r.IsLinked())
		if err == nil {
			r.Name = name
		}
	} else {
		err = unknown(links.OpRename, "", "room", id)
	}
	s.mu.Unlock()
	return s.emit(links.OpRename, "", label, "", err)
}

// RenameHospital changes the name of a hospital with no members.
func (s *Store) RenameHospital(id models.ID, name string) error {
	s.mu.Lock()
	var label string
	var err error
	h, ok := s.hospitals[id]
	if ok {
		label = hospitalLabel(h)
		err = renameGuard(label, name, h.IsLinked())
		if err == nil {
			h.Name = name
		}
	} else {
		err = unknown(links.OpRename, "", "hospital", id)
	}
	s.mu.Unlock()
	return s.emit(links.OpRename, "", label, "", err)
}

func renameGuard(label, name string, linked bool) error {
	if err := models.ValidateName("name", name); err != nil {
		return subjectFail(links.OpRename, links.ReasonInvalidIdentity, label, err.Error())
	}
	if linked {
		return subjectFail(links.OpRename, links.ReasonLinkedEntity, label, "cannot rename while linked")
	}
	return nil
}

// SetAge changes the age of a staff member or patient. Ages outside [0,200]
// are refused and leave the age unchanged.
func (s *Store) SetAge(id models.ID, age int) error {
	s.mu.Lock()
	label, p, err := s.personLocked(id)
	if err == nil {
		if verr := models.ValidateAge(age); verr != nil {
			err = subjectFail(links.OpUpdate, links.ReasonInvalidField, label, verr.Error())
		} else {
			p.Age = age
		}
	}
	s.mu.Unlock()
	return s.emit(links.OpUpdate, "", label, "", err)
}

// SetRole changes the role of a staff member. The role may change while the
// staff member is employed but never to empty.
func (s *Store) SetRole(id models.ID, role string) error {
	s.mu.Lock()
	var label string
	var err error
	st, ok := s.staff[id]
	switch {
	case !ok:
		err = unknown(links.OpUpdate, "", "staff", id)
	default:
		label = staffLabel(st)
		if verr := models.ValidateRole(role); verr != nil {
			err = subjectFail(links.OpUpdate, links.ReasonInvalidField, label, verr.Error())
		} else {
			st.Role = role
		}
	}
	s.mu.Unlock()
	return s.emit(links.OpUpdate, "", label, "", err)
}

// SetCondition records a non-empty condition for a patient.
func (s *Store) SetCondition(id models.ID, condition string) error {
	s.mu.Lock()
	var label string
	var err error
	p, ok := s.patients[id]
	switch {
	case !ok:
		err = unknown(links.OpUpdate, "", "patient", id)
	default:
		label = patientLabel(p)
		if verr := models.ValidateCondition(condition); verr != nil {
			err = subjectFail(links.OpUpdate, links.ReasonInvalidField, label, verr.Error())
		} else {
			p.Condition = condition
		}
	}
	s.mu.Unlock()
	return s.emit(links.OpUpdate, "", label, "", err)
}

// ClearCondition marks a patient healthy.
func (s *Store) ClearCondition(id models.ID) error {
	s.mu.Lock()
	var label string
	var err error
	if p, ok := s.patients[id]; ok {
		label = patientLabel(p)
		p.Condition = ""
	} else {
		err = unknown(links.OpUpdate, "", "patient", id)
	}
	s.mu.Unlock()
	return s.emit(links.OpUpdate, "", label, "", err)
}

func (s *Store) personLocked(id models.ID) (string, *models.Person, error) {
	if st, ok := s.staff[id]; ok {
		return staffLabel(st), &st.Person, nil
	}
	if p, ok := s.patients[id]; ok {
		return patientLabel(p), &p.Person, nil
	}
	return "", nil, unknown(links.OpUpdate, "", "person", id)
}

func subjectFail(op links.Op, reason links.Reason, subject, detail string) *links.Error {
	e := links.Fail(op, "", reason, detail)
	e.Subject = subject
	return e
}

package store

import (
	"errors"
	"fmt"

	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
)

// IntegrityError describes one broken invariant found by Check.
type IntegrityError struct {
	Kind    links.Kind
	Subject models.ID
	Peer    models.ID
	Problem string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity %s: %s -> %s: %s", e.Kind, e.Subject, e.Peer, e.Problem)
}

// Check audits the whole arena. It verifies that every link is symmetric,
// that no container holds two members with the same key and that no entity
// references a handle missing from the arena. It returns nil when the arena
// is consistent.
func (s *Store) Check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var errs []error
	report := func(kind links.Kind, subject, peer models.ID, format string, args ...any) {
		errs = append(errs, &IntegrityError{Kind: kind, Subject: subject, Peer: peer, Problem: fmt.Sprintf(format, args...)})
	}

	for _, h := range s.hospitals {
		seenStaff := make(map[models.PersonKey]bool)
		for _, id := range h.Staff {
			st, ok := s.staff[id]
			switch {
			case !ok:
				report(links.KindHospitalStaff, h.ID, id, "staff missing from arena")
			case st.Hospital != h.ID:
				report(links.KindHospitalStaff, h.ID, id, "staff references %q", st.Hospital)
			case seenStaff[st.Key()]:
				report(links.KindHospitalStaff, h.ID, id, "duplicate key %s", st.FullName())
			default:
				seenStaff[st.Key()] = true
			}
		}
		seenPatients := make(map[models.PersonKey]bool)
		for _, id := range h.Patients {
			p, ok := s.patients[id]
			switch {
			case !ok:
				report(links.KindHospitalPatient, h.ID, id, "patient missing from arena")
			case p.Hospital != h.ID:
				report(links.KindHospitalPatient, h.ID, id, "patient references %q", p.Hospital)
			case seenPatients[p.Key()]:
				report(links.KindHospitalPatient, h.ID, id, "duplicate key %s", p.FullName())
			default:
				seenPatients[p.Key()] = true
			}
		}
		seenRooms := make(map[string]bool)
		for _, id := range h.Rooms {
			r, ok := s.rooms[id]
			switch {
			case !ok:
				report(links.KindHospitalRoom, h.ID, id, "room missing from arena")
			case r.Hospital != h.ID:
				report(links.KindHospitalRoom, h.ID, id, "room references %q", r.Hospital)
			case seenRooms[r.Name]:
				report(links.KindHospitalRoom, h.ID, id, "duplicate name %s", r.Name)
			default:
				seenRooms[r.Name] = true
			}
		}
	}

	for _, r := range s.rooms {
		seen := make(map[models.PersonKey]bool)
		for _, id := range r.Patients {
			p, ok := s.patients[id]
			switch {
			case !ok:
				report(links.KindRoomPatient, r.ID, id, "patient missing from arena")
			case p.Room != r.ID:
				report(links.KindRoomPatient, r.ID, id, "patient references %q", p.Room)
			case seen[p.Key()]:
				report(links.KindRoomPatient, r.ID, id, "duplicate key %s", p.FullName())
			default:
				seen[p.Key()] = true
			}
		}
		if !r.Staff.IsZero() {
			st, ok := s.staff[r.Staff]
			switch {
			case !ok:
				report(links.KindRoomStaff, r.ID, r.Staff, "staff missing from arena")
			case st.Room != r.ID:
				report(links.KindRoomStaff, r.ID, r.Staff, "staff references %q", st.Room)
			}
		}
		if !r.Hospital.IsZero() {
			h, ok := s.hospitals[r.Hospital]
			if !ok || !containsID(h.Rooms, r.ID) {
				report(links.KindHospitalRoom, r.Hospital, r.ID, "hospital does not hold the room")
			}
		}
	}

	for _, st := range s.staff {
		if !st.Hospital.IsZero() {
			h, ok := s.hospitals[st.Hospital]
			if !ok || !containsID(h.Staff, st.ID) {
				report(links.KindHospitalStaff, st.Hospital, st.ID, "hospital does not hold the staff member")
			}
		}
		if !st.Room.IsZero() {
			r, ok := s.rooms[st.Room]
			if !ok || r.Staff != st.ID {
				report(links.KindRoomStaff, st.Room, st.ID, "room does not hold the staff member")
			}
		}
	}

	for _, p := range s.patients {
		if !p.Hospital.IsZero() {
			h, ok := s.hospitals[p.Hospital]
			if !ok || !containsID(h.Patients, p.ID) {
				report(links.KindHospitalPatient, p.Hospital, p.ID, "hospital does not hold the patient")
			}
		}
		if !p.Room.IsZero() {
			r, ok := s.rooms[p.Room]
			if !ok || !containsID(r.Patients, p.ID) {
				report(links.KindRoomPatient, p.Room, p.ID, "room does not hold the patient")
			}
		}
	}

	return errors.Join(errs...)
}

func containsID(ids []models.ID, id models.ID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

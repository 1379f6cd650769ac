// Package store holds entities in an in-memory arena addressed by opaque
// handles and mediates every relationship between them through the links
// protocol.
package store

import (
	"fmt"
	"sync"

	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
)

// Store is the entity arena. Containers and members refer to each other by
// handle only, so a handle whose entity was deleted simply fails lookup.
// A single lock guards the whole arena for the duration of each operation,
// which keeps the two phases of a link atomic with respect to any other
// mutation.
type Store struct {
	mu        sync.RWMutex
	staff     map[models.ID]*models.Staff
	patients  map[models.ID]*models.Patient
	rooms     map[models.ID]*models.Room
	hospitals map[models.ID]*models.Hospital
	order     []models.ID
	observer  links.Observer
}

// Option configures a Store.
type Option func(*Store)

// WithObserver sets the observer notified after every operation.
func WithObserver(o links.Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		staff:     make(map[models.ID]*models.Staff),
		patients:  make(map[models.ID]*models.Patient),
		rooms:     make(map[models.ID]*models.Room),
		hospitals: make(map[models.ID]*models.Hospital),
		observer:  links.Nop,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateStaff adds an unlinked staff member. An out-of-range age is stored
// as 0. Staff with empty names may be created but can never be linked.
func (s *Store) CreateStaff(first, last string, age int, role string) models.ID {
	st := &models.Staff{
		ID:     models.NewID(),
		Person: models.NewPerson(first, last, age),
		Role:   role,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.staff[st.ID] = st
	s.order = append(s.order, st.ID)
	return st.ID
}

// CreatePatient adds an unlinked patient.
func (s *Store) CreatePatient(first, last string, age int, condition string) models.ID {
	p := &models.Patient{
		ID:        models.NewID(),
		Person:    models.NewPerson(first, last, age),
		Condition: condition,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patients[p.ID] = p
	s.order = append(s.order, p.ID)
	return p.ID
}

// CreateRoom adds an unlinked room.
func (s *Store) CreateRoom(name string) models.ID {
	r := &models.Room{ID: models.NewID(), Name: name}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rooms[r.ID] = r
	s.order = append(s.order, r.ID)
	return r.ID
}

// CreateHospital adds a hospital with no members.
func (s *Store) CreateHospital(name string) models.ID {
	h := &models.Hospital{ID: models.NewID(), Name: name}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hospitals[h.ID] = h
	s.order = append(s.order, h.ID)
	return h.ID
}

// Kind returns the kind of entity behind id, or "" for an unknown handle.
func (s *Store) Kind(id models.ID) models.EntityKind {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.kindLocked(id)
}

func (s *Store) kindLocked(id models.ID) models.EntityKind {
	if _, ok := s.staff[id]; ok {
		return models.KindStaff
	}
	if _, ok := s.patients[id]; ok {
		return models.KindPatient
	}
	if _, ok := s.rooms[id]; ok {
		return models.KindRoom
	}
	if _, ok := s.hospitals[id]; ok {
		return models.KindHospital
	}
	return ""
}

// IDs returns the handles of every entity of the given kind in creation order.
func (s *Store) IDs(kind models.EntityKind) []models.ID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ID
	for _, id := range s.order {
		if s.kindLocked(id) == kind {
			out = append(out, id)
		}
	}
	return out
}

// Stats returns entity totals.
func (s *Store) Stats() models.StoreStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.StoreStats{
		Staff:     len(s.staff),
		Patients:  len(s.patients),
		Rooms:     len(s.rooms),
		Hospitals: len(s.hospitals),
	}
}

// Delete removes an entity from the arena. It refuses while the entity holds
// any link; sever them first (lifecycle.Manager does this).
func (s *Store) Delete(id models.ID) error {
	s.mu.Lock()
	label, err := s.deleteLocked(id)
	s.mu.Unlock()
	return s.emit(links.OpDelete, "", label, "", err)
}

func (s *Store) deleteLocked(id models.ID) (string, error) {
	var linked bool
	var label string
	switch s.kindLocked(id) {
	case models.KindStaff:
		st := s.staff[id]
		label, linked = staffLabel(st), st.IsLinked()
		if !linked {
			delete(s.staff, id)
		}
	case models.KindPatient:
		p := s.patients[id]
		label, linked = patientLabel(p), p.IsLinked()
		if !linked {
			delete(s.patients, id)
		}
	case models.KindRoom:
		r := s.rooms[id]
		label, linked = roomLabel(r), r.IsLinked()
		if !linked {
			delete(s.rooms, id)
		}
	case models.KindHospital:
		h := s.hospitals[id]
		label, linked = hospitalLabel(h), h.IsLinked()
		if !linked {
			delete(s.hospitals, id)
		}
	default:
		return string(id), links.Fail(links.OpDelete, "", links.ReasonUnknownEntity, "no entity %s", id)
	}
	if linked {
		e := links.Fail(links.OpDelete, "", links.ReasonLinkedEntity, "entity still holds links")
		e.Subject = label
		return label, e
	}
	s.order = removeID(s.order, id)
	return label, nil
}

// emit notifies the observer and passes err through. It must be called
// without the lock held.
func (s *Store) emit(op links.Op, kind links.Kind, subject, peer string, err error) error {
	s.observer.Observe(links.EventFor(op, kind, subject, peer, err))
	return err
}

func staffLabel(st *models.Staff) string {
	return fmt.Sprintf("staff %q", st.FullName())
}

func patientLabel(p *models.Patient) string {
	return fmt.Sprintf("patient %q", p.FullName())
}

func roomLabel(r *models.Room) string {
	return fmt.Sprintf("room %q", r.Name)
}

func hospitalLabel(h *models.Hospital) string {
	return fmt.Sprintf("hospital %q", h.Name)
}

func removeID(ids []models.ID, id models.ID) []models.ID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func cloneIDs(ids []models.ID) []models.ID {
	if len(ids) == 0 {
		return nil
	}
	out := make([]models.ID, len(ids))
	copy(out, ids)
	return out
}

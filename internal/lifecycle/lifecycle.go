// Package lifecycle tears entities down. An entity first severs every link it
// still holds through the public store operations, so each peer container
// updates its own collection, and only then leaves the arena.
package lifecycle

import (
	"fmt"

	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
	"github.com/ajitpratap0/hospital-links/internal/store"
)

// Severed is one link cut during a teardown.
type Severed struct {
	Kind      links.Kind `json:"kind"`
	Container models.ID  `json:"container"`
	Member    models.ID  `json:"member"`
}

// Report summarizes a teardown.
type Report struct {
	ID      models.ID         `json:"id"`
	Kind    models.EntityKind `json:"kind"`
	Severed []Severed         `json:"severed"`
	Deleted bool              `json:"deleted"`
}

// Manager destroys entities held by a store.
type Manager struct {
	store *store.Store
}

// NewManager creates a new lifecycle manager.
func NewManager(st *store.Store) *Manager {
	return &Manager{store: st}
}

// Plan lists the links Destroy would sever for id, in the order it would
// sever them. Nothing is changed.
func (m *Manager) Plan(id models.ID) (*Report, error) {
	kind := m.store.Kind(id)
	report := &Report{ID: id, Kind: kind}

	switch kind {
	case models.KindStaff:
		st := m.store.Staff(id)
		if !st.Room.IsZero() {
			report.add(links.KindRoomStaff, st.Room, id)
		}
		if !st.Hospital.IsZero() {
			report.add(links.KindHospitalStaff, st.Hospital, id)
		}
	case models.KindPatient:
		p := m.store.Patient(id)
		if !p.Room.IsZero() {
			report.add(links.KindRoomPatient, p.Room, id)
		}
		if !p.Hospital.IsZero() {
			report.add(links.KindHospitalPatient, p.Hospital, id)
		}
	case models.KindRoom:
		// Room views are snapshots, so severing while iterating is safe.
		r := m.store.Room(id)
		for _, p := range r.Patients {
			report.add(links.KindRoomPatient, id, p)
		}
		if !r.Staff.IsZero() {
			report.add(links.KindRoomStaff, id, r.Staff)
		}
		if !r.Hospital.IsZero() {
			report.add(links.KindHospitalRoom, r.Hospital, id)
		}
	case models.KindHospital:
		h := m.store.Hospital(id)
		for _, r := range h.Rooms {
			report.add(links.KindHospitalRoom, id, r)
		}
		for _, st := range h.Staff {
			report.add(links.KindHospitalStaff, id, st)
		}
		for _, p := range h.Patients {
			report.add(links.KindHospitalPatient, id, p)
		}
	default:
		return nil, links.Fail(links.OpDelete, "", links.ReasonUnknownEntity, "no entity %s", id)
	}
	return report, nil
}

// Destroy severs every link of id and removes it from the store. The cascade
// stops at the first refused step and returns the partial report together
// with the error; nothing is retried.
func (m *Manager) Destroy(id models.ID) (*Report, error) {
	plan, err := m.Plan(id)
	if err != nil {
		return nil, err
	}
	report := &Report{ID: plan.ID, Kind: plan.Kind}
	for _, sv := range plan.Severed {
		if err := m.sever(sv); err != nil {
			return report, fmt.Errorf("destroying %s %s: %w", plan.Kind, id, err)
		}
		report.Severed = append(report.Severed, sv)
	}
	if err := m.store.Delete(id); err != nil {
		return report, fmt.Errorf("destroying %s %s: %w", plan.Kind, id, err)
	}
	report.Deleted = true
	return report, nil
}

// DestroyStaff destroys a staff member: room assignment, then employment.
func (m *Manager) DestroyStaff(id models.ID) (*Report, error) {
	return m.destroyKind(models.KindStaff, id)
}

// DestroyPatient destroys a patient: room placement, then registration.
func (m *Manager) DestroyPatient(id models.ID) (*Report, error) {
	return m.destroyKind(models.KindPatient, id)
}

// DestroyRoom destroys a room: its patients, its staff, then its hospital.
func (m *Manager) DestroyRoom(id models.ID) (*Report, error) {
	return m.destroyKind(models.KindRoom, id)
}

// DestroyHospital destroys a hospital: its rooms, its staff, then its
// patients.
func (m *Manager) DestroyHospital(id models.ID) (*Report, error) {
	return m.destroyKind(models.KindHospital, id)
}

func (m *Manager) destroyKind(kind models.EntityKind, id models.ID) (*Report, error) {
	if got := m.store.Kind(id); got != kind {
		return nil, links.Fail(links.OpDelete, "", links.ReasonUnknownEntity, "no %s %s", kind, id)
	}
	return m.Destroy(id)
}

func (m *Manager) sever(sv Severed) error {
	switch sv.Kind {
	case links.KindHospitalStaff:
		return m.store.DismissStaff(sv.Container, sv.Member)
	case links.KindHospitalPatient:
		return m.store.DischargePatient(sv.Container, sv.Member)
	case links.KindHospitalRoom:
		return m.store.RemoveRoom(sv.Container, sv.Member)
	case links.KindRoomPatient:
		return m.store.RemovePatient(sv.Container, sv.Member)
	case links.KindRoomStaff:
		return m.store.UnassignStaff(sv.Container)
	}
	return links.Fail(links.OpSever, sv.Kind, links.ReasonUnknownEntity, "unknown relationship")
}

func (r *Report) add(kind links.Kind, container, member models.ID) {
	r.Severed = append(r.Severed, Severed{Kind: kind, Container: container, Member: member})
}

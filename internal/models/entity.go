package models

import "github.com/google/uuid"

// ID is an opaque handle to an entity held by a store. The zero ID means
// "no entity" and is what an empty link slot holds.
type ID string

// NewID returns a fresh random handle.
func NewID() ID {
	return ID(uuid.New().String())
}

// IsZero reports whether the handle is empty.
func (id ID) IsZero() bool { return id == "" }

// EntityKind classifies the kind of entity behind a handle.
type EntityKind string

const (
	KindStaff    EntityKind = "staff"
	KindPatient  EntityKind = "patient"
	KindRoom     EntityKind = "room"
	KindHospital EntityKind = "hospital"
)

// ValidEntityKinds is the set of all valid entity kinds.
var ValidEntityKinds = []EntityKind{
	KindStaff,
	KindPatient,
	KindRoom,
	KindHospital,
}

// IsValid returns true if the entity kind is recognized.
func (ek EntityKind) IsValid() bool {
	for i := range ValidEntityKinds {
		if ek == ValidEntityKinds[i] {
			return true
		}
	}
	return false
}

// Staff is a medical worker. A staff member needs a role before a hospital
// will employ them.
type Staff struct {
	Person
	ID       ID     `json:"id"`
	Role     string `json:"role,omitempty"`
	Hospital ID     `json:"hospital,omitempty"`
	Room     ID     `json:"room,omitempty"`
}

// IsLinked reports whether the staff member holds any link.
func (s Staff) IsLinked() bool {
	return !s.Hospital.IsZero() || !s.Room.IsZero()
}

// Patient is a person treated in a hospital. An empty condition means healthy.
type Patient struct {
	Person
	ID        ID     `json:"id"`
	Condition string `json:"condition,omitempty"`
	Hospital  ID     `json:"hospital,omitempty"`
	Room      ID     `json:"room,omitempty"`
}

// IsHealthy reports whether the patient has no recorded condition.
func (p Patient) IsHealthy() bool { return p.Condition == "" }

// IsLinked reports whether the patient holds any link.
func (p Patient) IsLinked() bool {
	return !p.Hospital.IsZero() || !p.Room.IsZero()
}

// Room is a treatment room: a set of patients, at most one assigned staff
// member and at most one owning hospital.
type Room struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Hospital ID     `json:"hospital,omitempty"`
	Staff    ID     `json:"staff,omitempty"`
	Patients []ID   `json:"patients,omitempty"`
}

// IsValid reports whether the room has a name and may take part in links.
func (r Room) IsValid() bool { return r.Name != "" }

// IsLinked reports whether the room holds any link in either direction.
func (r Room) IsLinked() bool {
	return !r.Hospital.IsZero() || !r.Staff.IsZero() || len(r.Patients) > 0
}

// Hospital employs staff, registers patients and owns rooms.
type Hospital struct {
	ID       ID     `json:"id"`
	Name     string `json:"name"`
	Staff    []ID   `json:"staff,omitempty"`
	Patients []ID   `json:"patients,omitempty"`
	Rooms    []ID   `json:"rooms,omitempty"`
}

// IsValid reports whether the hospital has a name and may take part in links.
func (h Hospital) IsValid() bool { return h.Name != "" }

// IsLinked reports whether any staff, patient or room is linked to the hospital.
func (h Hospital) IsLinked() bool {
	return len(h.Staff) > 0 || len(h.Patients) > 0 || len(h.Rooms) > 0
}

// HospitalStatus holds aggregate membership counts of a hospital.
type HospitalStatus struct {
	Name     string `json:"name"`
	Staff    int    `json:"staff"`
	Patients int    `json:"patients"`
	Rooms    int    `json:"rooms"`
}

// RoomStatus holds the raw state needed to summarize a room.
type RoomStatus struct {
	Name     string `json:"name"`
	HasStaff bool   `json:"has_staff"`
	Patients int    `json:"patients"`
}

// StoreStats holds entity totals of a store.
type StoreStats struct {
	Staff     int `json:"staff"`
	Patients  int `json:"patients"`
	Rooms     int `json:"rooms"`
	Hospitals int `json:"hospitals"`
}

package store

import (
	"errors"

	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
)

var errNoRole = errors.New("staff member has no role")

// collection is the container end backed by a member list with unique
// identity keys.
type collection struct {
	valid  bool
	ids    *[]models.ID
	member models.ID
	// sameKey reports whether the entity behind id shares the member's key.
	sameKey func(id models.ID) bool
	// pos remembers where Erase removed the member so that a rollback
	// restores the original order.
	pos int
}

func (c *collection) Valid() bool { return c.valid }

func (c *collection) find() (models.ID, bool) {
	for _, id := range *c.ids {
		if c.sameKey(id) {
			return id, true
		}
	}
	return "", false
}

func (c *collection) Occupied() bool {
	_, ok := c.find()
	return ok
}

func (c *collection) Holds() bool {
	id, ok := c.find()
	return ok && id == c.member
}

func (c *collection) Record() {
	ids := *c.ids
	if c.pos >= 0 && c.pos < len(ids) {
		ids = append(ids, "")
		copy(ids[c.pos+1:], ids[c.pos:])
		ids[c.pos] = c.member
		*c.ids = ids
		c.pos = -1
		return
	}
	*c.ids = append(ids, c.member)
	c.pos = -1
}

func (c *collection) Erase() {
	ids := *c.ids
	for i, id := range ids {
		if id == c.member {
			c.pos = i
			*c.ids = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// slot is the container end backed by a single reference, used for the
// staff member assigned to a room.
type slot struct {
	valid  bool
	ref    *models.ID
	member models.ID
}

func (c *slot) Valid() bool    { return c.valid }
func (c *slot) Occupied() bool { return !c.ref.IsZero() }
func (c *slot) Holds() bool    { return *c.ref == c.member }
func (c *slot) Record()        { *c.ref = c.member }

func (c *slot) Erase() {
	if *c.ref == c.member {
		*c.ref = ""
	}
}

// memberSlot is the member end: the member's single reference to its
// container for one relationship kind.
type memberSlot struct {
	valid        bool
	ref          *models.ID
	container    models.ID
	precondition func() error
}

func (m *memberSlot) Valid() bool { return m.valid }

func (m *memberSlot) Precondition() error {
	if m.precondition == nil {
		return nil
	}
	return m.precondition()
}

func (m *memberSlot) Linked() bool   { return !m.ref.IsZero() }
func (m *memberSlot) LinkedTo() bool { return *m.ref == m.container }
func (m *memberSlot) Bind()          { *m.ref = m.container }

func (m *memberSlot) Unbind() {
	if *m.ref == m.container {
		*m.ref = ""
	}
}

// link binds container and member for kind. Both handles must resolve to
// entities of the kinds the relationship expects.
func (s *Store) link(op links.Op, kind links.Kind, container, member models.ID) (links.Link, error) {
	switch kind {
	case links.KindHospitalStaff, links.KindHospitalPatient, links.KindHospitalRoom:
		h, ok := s.hospitals[container]
		if !ok {
			return links.Link{}, unknown(op, kind, "hospital", container)
		}
		return s.hospitalLink(op, kind, h, member)
	case links.KindRoomPatient, links.KindRoomStaff:
		r, ok := s.rooms[container]
		if !ok {
			return links.Link{}, unknown(op, kind, "room", container)
		}
		return s.roomLink(op, kind, r, member)
	}
	return links.Link{}, links.Fail(op, kind, links.ReasonUnknownEntity, "unknown relationship %q", kind)
}

func (s *Store) hospitalLink(op links.Op, kind links.Kind, h *models.Hospital, member models.ID) (links.Link, error) {
	l := links.Link{Kind: kind, Subject: hospitalLabel(h)}
	switch kind {
	case links.KindHospitalStaff:
		st, ok := s.staff[member]
		if !ok {
			return links.Link{}, unknown(op, kind, "staff", member)
		}
		l.Peer = staffLabel(st)
		l.Container = &collection{valid: h.IsValid(), ids: &h.Staff, member: member, sameKey: s.sameStaffKey(st.Key()), pos: -1}
		l.Member = &memberSlot{valid: st.IsValid(), ref: &st.Hospital, container: h.ID, precondition: func() error {
			if st.Role == "" {
				return errNoRole
			}
			return nil
		}}
	case links.KindHospitalPatient:
		p, ok := s.patients[member]
		if !ok {
			return links.Link{}, unknown(op, kind, "patient", member)
		}
		l.Peer = patientLabel(p)
		l.Container = &collection{valid: h.IsValid(), ids: &h.Patients, member: member, sameKey: s.samePatientKey(p.Key()), pos: -1}
		l.Member = &memberSlot{valid: p.IsValid(), ref: &p.Hospital, container: h.ID}
	default:
		r, ok := s.rooms[member]
		if !ok {
			return links.Link{}, unknown(op, kind, "room", member)
		}
		l.Peer = roomLabel(r)
		l.Container = &collection{valid: h.IsValid(), ids: &h.Rooms, member: member, sameKey: s.sameRoomName(r.Name), pos: -1}
		l.Member = &memberSlot{valid: r.IsValid(), ref: &r.Hospital, container: h.ID}
	}
	return l, nil
}

func (s *Store) roomLink(op links.Op, kind links.Kind, r *models.Room, member models.ID) (links.Link, error) {
	l := links.Link{Kind: kind, Subject: roomLabel(r)}
	if kind == links.KindRoomPatient {
		p, ok := s.patients[member]
		if !ok {
			return links.Link{}, unknown(op, kind, "patient", member)
		}
		l.Peer = patientLabel(p)
		l.Container = &collection{valid: r.IsValid(), ids: &r.Patients, member: member, sameKey: s.samePatientKey(p.Key()), pos: -1}
		l.Member = &memberSlot{valid: p.IsValid(), ref: &p.Room, container: r.ID}
		return l, nil
	}
	st, ok := s.staff[member]
	if !ok {
		return links.Link{}, unknown(op, kind, "staff", member)
	}
	l.Peer = staffLabel(st)
	l.Container = &slot{valid: r.IsValid(), ref: &r.Staff, member: member}
	l.Member = &memberSlot{valid: st.IsValid(), ref: &st.Room, container: r.ID}
	return l, nil
}

// memberRef returns the member's reference slot for kind.
func (s *Store) memberRef(op links.Op, kind links.Kind, member models.ID) (*models.ID, error) {
	switch kind {
	case links.KindHospitalStaff, links.KindRoomStaff:
		st, ok := s.staff[member]
		if !ok {
			return nil, unknown(op, kind, "staff", member)
		}
		if kind == links.KindHospitalStaff {
			return &st.Hospital, nil
		}
		return &st.Room, nil
	case links.KindHospitalPatient, links.KindRoomPatient:
		p, ok := s.patients[member]
		if !ok {
			return nil, unknown(op, kind, "patient", member)
		}
		if kind == links.KindHospitalPatient {
			return &p.Hospital, nil
		}
		return &p.Room, nil
	case links.KindHospitalRoom:
		r, ok := s.rooms[member]
		if !ok {
			return nil, unknown(op, kind, "room", member)
		}
		return &r.Hospital, nil
	}
	return nil, links.Fail(op, kind, links.ReasonUnknownEntity, "unknown relationship %q", kind)
}

func (s *Store) sameStaffKey(key models.PersonKey) func(models.ID) bool {
	return func(id models.ID) bool {
		st, ok := s.staff[id]
		return ok && st.Key() == key
	}
}

func (s *Store) samePatientKey(key models.PersonKey) func(models.ID) bool {
	return func(id models.ID) bool {
		p, ok := s.patients[id]
		return ok && p.Key() == key
	}
}

func (s *Store) sameRoomName(name string) func(models.ID) bool {
	return func(id models.ID) bool {
		r, ok := s.rooms[id]
		return ok && r.Name == name
	}
}

func unknown(op links.Op, kind links.Kind, what string, id models.ID) *links.Error {
	return links.Fail(op, kind, links.ReasonUnknownEntity, "no %s %s", what, id)
}

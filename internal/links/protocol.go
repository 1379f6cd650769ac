// Package links implements the two-sided protocol every relationship between
// entities goes through.
//
// A link always has a container end (a hospital or a room) and a member end.
// Links are only ever established from the container side: the container
// records the member provisionally and then asks the member to confirm. The
// member re-checks everything from its own side and refuses to confirm a link
// the container has not recorded. Severing may start from either end; the
// initiating end clears its reference first and the peer refuses to clear its
// own half while the initiator still holds the link.
package links

// Kind names a relationship between a container and a member.
type Kind string

const (
	KindHospitalStaff   Kind = "hospital_staff"
	KindHospitalPatient Kind = "hospital_patient"
	KindHospitalRoom    Kind = "hospital_room"
	KindRoomPatient     Kind = "room_patient"
	KindRoomStaff       Kind = "room_staff"
)

// ValidKinds is the set of all relationship kinds.
var ValidKinds = []Kind{
	KindHospitalStaff,
	KindHospitalPatient,
	KindHospitalRoom,
	KindRoomPatient,
	KindRoomStaff,
}

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	for _, v := range ValidKinds {
		if k == v {
			return true
		}
	}
	return false
}

// Op names an operation reported to observers.
type Op string

const (
	OpEstablish Op = "establish"
	OpConfirm   Op = "confirm"
	OpSever     Op = "sever"
	OpRelease   Op = "release"
	OpLeave     Op = "leave"
	OpRename    Op = "rename"
	OpUpdate    Op = "update"
	OpDelete    Op = "delete"
)

// Container is the container end of one relationship, bound to one
// prospective or current member.
type Container interface {
	// Valid reports whether the container has its identifying data.
	Valid() bool
	// Occupied reports whether the member's identity key, or the single
	// slot for slot relationships, is already taken.
	Occupied() bool
	// Holds reports whether a lookup by the member's identity key yields
	// exactly this member.
	Holds() bool
	Record()
	Erase()
}

// Member is the member end of one relationship, bound to one container.
type Member interface {
	Valid() bool
	// Precondition returns a non-nil error when a kind-specific requirement
	// is not met. The error text becomes the detail of the refusal.
	Precondition() error
	// Linked reports whether the member already holds a link of this kind.
	Linked() bool
	// LinkedTo reports whether the member references this container.
	LinkedTo() bool
	Bind()
	Unbind()
}

// Link binds both ends of one relationship.
type Link struct {
	Kind      Kind
	Container Container
	Member    Member
	// Subject and Peer label the container and the member in errors.
	Subject string
	Peer    string
}

func (l Link) fail(op Op, reason Reason, detail string) *Error {
	e := Fail(op, l.Kind, reason, detail)
	e.Subject = l.Subject
	e.Peer = l.Peer
	return e
}

// Establish links the member to the container. Either both ends end up
// linked or neither changes.
func (l Link) Establish() error {
	if !l.Container.Valid() {
		return l.fail(OpEstablish, ReasonInvalidIdentity, "container has no name")
	}
	if l.Container.Occupied() {
		return l.fail(OpEstablish, ReasonDuplicateMembership, "already present")
	}
	// The member looks itself up in the container during Confirm.
	l.Container.Record()
	if err := l.confirm(); err != nil {
		l.Container.Erase()
		err.Op = OpEstablish
		return err
	}
	return nil
}

// Confirm completes the member half of Establish. Called on its own it is
// how a member would try to link one-way, which it refuses.
func (l Link) Confirm() error {
	if err := l.confirm(); err != nil {
		return err
	}
	return nil
}

func (l Link) confirm() *Error {
	if !l.Container.Holds() {
		return l.fail(OpConfirm, ReasonOneSidedLink, "container has not recorded the member")
	}
	if !l.Member.Valid() {
		return l.fail(OpConfirm, ReasonInvalidIdentity, "member has no name")
	}
	if err := l.Member.Precondition(); err != nil {
		return l.fail(OpConfirm, ReasonMissingPrecondition, err.Error())
	}
	if l.Member.Linked() {
		return l.fail(OpConfirm, ReasonAlreadyLinked, "member is linked elsewhere")
	}
	l.Member.Bind()
	return nil
}

// Sever unlinks the member starting from the container end.
func (l Link) Sever() error {
	if !l.Container.Holds() {
		return l.fail(OpSever, ReasonNotLinked, "member not present")
	}
	l.Container.Erase()
	if err := l.release(); err != nil {
		l.Container.Record()
		err.Op = OpSever
		return err
	}
	return nil
}

// Release completes the member half of Sever. It refuses while the container
// still holds the member.
func (l Link) Release() error {
	if err := l.release(); err != nil {
		return err
	}
	return nil
}

func (l Link) release() *Error {
	if !l.Member.LinkedTo() {
		return l.fail(OpRelease, ReasonNotLinked, "no link present")
	}
	if l.Container.Holds() {
		return l.fail(OpRelease, ReasonPeerNotYetCleared, "link has to be terminated by the container first")
	}
	l.Member.Unbind()
	return nil
}

// Leave unlinks the member starting from the member end.
func (l Link) Leave() error {
	if !l.Member.LinkedTo() {
		return l.fail(OpLeave, ReasonNotLinked, "no link present")
	}
	l.Member.Unbind()
	if err := l.drop(); err != nil {
		l.Member.Bind()
		return err
	}
	return nil
}

// drop completes the container half of Leave.
func (l Link) drop() *Error {
	if !l.Container.Holds() {
		return l.fail(OpLeave, ReasonNotLinked, "member not present")
	}
	if l.Member.LinkedTo() {
		return l.fail(OpLeave, ReasonPeerNotYetCleared, "link has to be terminated by the member first")
	}
	l.Container.Erase()
	return nil
}

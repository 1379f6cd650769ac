package links

import (
	"errors"
	"fmt"
)

// Reason classifies why an operation was refused. Every Reason is an error
// so callers can match it with errors.Is.
type Reason string

const (
	ReasonInvalidIdentity     Reason = "invalid_identity"
	ReasonDuplicateMembership Reason = "duplicate_membership"
	ReasonAlreadyLinked       Reason = "already_linked"
	ReasonOneSidedLink        Reason = "one_sided_link_rejected"
	ReasonNotLinked           Reason = "not_linked"
	ReasonPeerNotYetCleared   Reason = "peer_not_yet_cleared"
	ReasonMissingPrecondition Reason = "missing_precondition"
	ReasonInvalidField        Reason = "invalid_field"
	ReasonLinkedEntity        Reason = "linked_entity"
	ReasonUnknownEntity       Reason = "unknown_entity"
)

// Sentinel errors, one per reason.
var (
	ErrInvalidIdentity     error = ReasonInvalidIdentity
	ErrDuplicateMembership error = ReasonDuplicateMembership
	ErrAlreadyLinked       error = ReasonAlreadyLinked
	ErrOneSidedLink        error = ReasonOneSidedLink
	ErrNotLinked           error = ReasonNotLinked
	ErrPeerNotYetCleared   error = ReasonPeerNotYetCleared
	ErrMissingPrecondition error = ReasonMissingPrecondition
	ErrInvalidField        error = ReasonInvalidField
	ErrLinkedEntity        error = ReasonLinkedEntity
	ErrUnknownEntity       error = ReasonUnknownEntity
)

// ValidReasons lists every reason code.
var ValidReasons = []Reason{
	ReasonInvalidIdentity,
	ReasonDuplicateMembership,
	ReasonAlreadyLinked,
	ReasonOneSidedLink,
	ReasonNotLinked,
	ReasonPeerNotYetCleared,
	ReasonMissingPrecondition,
	ReasonInvalidField,
	ReasonLinkedEntity,
	ReasonUnknownEntity,
}

func (r Reason) Error() string { return string(r) }

// IsValid returns true if the reason is recognized.
func (r Reason) IsValid() bool {
	for _, v := range ValidReasons {
		if r == v {
			return true
		}
	}
	return false
}

// Error describes a refused operation. It unwraps to its Reason.
type Error struct {
	Op      Op
	Kind    Kind
	Subject string
	Peer    string
	Reason  Reason
	Detail  string
}

func (e *Error) Error() string {
	msg := string(e.Op)
	if e.Kind != "" {
		msg += " " + string(e.Kind)
	}
	if e.Subject != "" {
		msg += " " + e.Subject
	}
	if e.Peer != "" {
		msg += " <-> " + e.Peer
	}
	msg += ": " + string(e.Reason)
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Reason }

// Fail builds an *Error for op on kind.
func Fail(op Op, kind Kind, reason Reason, detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{Op: op, Kind: kind, Reason: reason, Detail: detail}
}

// ReasonOf extracts the reason from err. It returns "" for nil and for
// errors that carry no reason.
func ReasonOf(err error) Reason {
	if err == nil {
		return ""
	}
	var r Reason
	if errors.As(err, &r) {
		return r
	}
	return ""
}

package links

import "errors"

// Event reports the outcome of one operation to an Observer. Reason is empty
// when the operation succeeded.
type Event struct {
	Op      Op     `json:"op"`
	Kind    Kind   `json:"kind,omitempty"`
	Subject string `json:"subject,omitempty"`
	Peer    string `json:"peer,omitempty"`
	Reason  Reason `json:"reason,omitempty"`
	Err     error  `json:"-"`
}

// OK reports whether the operation succeeded.
func (e Event) OK() bool { return e.Reason == "" && e.Err == nil }

// EventFor builds the event for op from the result err. Details carried by an
// *Error take precedence over the fallback labels.
func EventFor(op Op, kind Kind, subject, peer string, err error) Event {
	ev := Event{Op: op, Kind: kind, Subject: subject, Peer: peer, Err: err}
	if err == nil {
		return ev
	}
	ev.Reason = ReasonOf(err)
	var e *Error
	if errors.As(err, &e) {
		ev.Op = e.Op
		if e.Kind != "" {
			ev.Kind = e.Kind
		}
		if e.Subject != "" {
			ev.Subject = e.Subject
		}
		if e.Peer != "" {
			ev.Peer = e.Peer
		}
	}
	return ev
}

// Observer receives an Event for every operation a store performs,
// successful or refused. Observers run outside the store lock and must not
// block.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Event)

// Observe calls f(ev).
func (f ObserverFunc) Observe(ev Event) { f(ev) }

// Nop discards every event.
var Nop Observer = ObserverFunc(func(Event) {})

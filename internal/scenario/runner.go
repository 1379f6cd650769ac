package scenario

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/ajitpratap0/hospital-links/internal/lifecycle"
	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
	"github.com/ajitpratap0/hospital-links/internal/roster"
	"github.com/ajitpratap0/hospital-links/internal/store"
)

// StepResult is the outcome of one step.
type StepResult struct {
	Index  int          `json:"index"`
	Do     string       `json:"do"`
	Note   string       `json:"note,omitempty"`
	Expect links.Reason `json:"expect,omitempty"`
	Got    links.Reason `json:"got,omitempty"`
	Error  string       `json:"error,omitempty"`
	Match  bool         `json:"match"`
}

// Result summarizes a run.
type Result struct {
	Name      string            `json:"name"`
	Steps     []StepResult      `json:"steps"`
	Failures  int               `json:"failures"`
	Stats     models.StoreStats `json:"stats"`
	Integrity string            `json:"integrity,omitempty"`
}

// OK reports whether every step matched and the store passed its audit.
func (r *Result) OK() bool { return r.Failures == 0 && r.Integrity == "" }

// Runner executes scripts, each against a fresh store.
type Runner struct {
	out      io.Writer
	logger   *slog.Logger
	observer links.Observer
	failFast bool
}

// NewRunner creates a runner. Print steps write to out; observer, when not
// nil, receives every store event.
func NewRunner(out io.Writer, logger *slog.Logger, observer links.Observer, failFast bool) *Runner {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{out: out, logger: logger, observer: observer, failFast: failFast}
}

type ref struct {
	id   models.ID
	kind models.EntityKind
}

// run is the state of one script execution.
type run struct {
	*Runner
	st   *store.Store
	lm   *lifecycle.Manager
	refs map[string]ref
}

// Run executes sc. Mismatching steps are recorded in the result; the error is
// reserved for cancellation and for failing to write output.
func (r *Runner) Run(ctx context.Context, sc *Script) (*Result, error) {
	var opts []store.Option
	if r.observer != nil {
		opts = append(opts, store.WithObserver(r.observer))
	}
	st := store.New(opts...)
	x := &run{Runner: r, st: st, lm: lifecycle.NewManager(st), refs: make(map[string]ref)}
	x.create(sc.Entities)

	res := &Result{Name: sc.Name}
	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		err := x.exec(step)
		var werr *writeError
		if errors.As(err, &werr) {
			return res, fmt.Errorf("scenario %s step %d: %w", sc.Name, i+1, werr)
		}
		sr := StepResult{
			Index:  i + 1,
			Do:     step.Do,
			Note:   step.Note,
			Expect: step.Expected(),
			Got:    links.ReasonOf(err),
		}
		if err != nil {
			sr.Error = err.Error()
		}
		sr.Match = sr.Got == sr.Expect && (err == nil || sr.Got != "")
		if !sr.Match {
			res.Failures++
			r.logger.Warn("step outcome mismatch", "scenario", sc.Name, "step", sr.Index, "do", sr.Do,
				"expect", orOK(sr.Expect), "got", orOK(sr.Got), "error", sr.Error)
		}
		res.Steps = append(res.Steps, sr)
		if !sr.Match && r.failFast {
			break
		}
	}

	if err := st.Check(); err != nil {
		res.Integrity = err.Error()
		r.logger.Error("integrity check failed", "scenario", sc.Name, "error", err)
	}
	res.Stats = st.Stats()
	r.logger.Info("scenario finished", "scenario", sc.Name, "steps", len(res.Steps), "failures", res.Failures)
	return res, nil
}

func (x *run) create(e Entities) {
	for _, d := range e.Staff {
		x.refs[d.Ref] = ref{id: x.st.CreateStaff(d.First, d.Last, d.Age, d.Role), kind: models.KindStaff}
	}
	for _, d := range e.Patients {
		x.refs[d.Ref] = ref{id: x.st.CreatePatient(d.First, d.Last, d.Age, d.Condition), kind: models.KindPatient}
	}
	for _, d := range e.Rooms {
		x.refs[d.Ref] = ref{id: x.st.CreateRoom(d.Name), kind: models.KindRoom}
	}
	for _, d := range e.Hospitals {
		x.refs[d.Ref] = ref{id: x.st.CreateHospital(d.Name), kind: models.KindHospital}
	}
}

func (x *run) exec(step Step) error {
	c, m, t := x.refs[step.Container], x.refs[step.Member], x.refs[step.Target]
	s := x.st
	switch step.Do {
	case ActionEmployStaff:
		return s.EmployStaff(c.id, m.id)
	case ActionDismissStaff:
		return s.DismissStaff(c.id, m.id)
	case ActionRegisterPatient:
		return s.RegisterPatient(c.id, m.id)
	case ActionDischargePatient:
		return s.DischargePatient(c.id, m.id)
	case ActionAddRoom:
		return s.AddRoom(c.id, m.id)
	case ActionRemoveRoom:
		return s.RemoveRoom(c.id, m.id)
	case ActionAddPatient:
		return s.AddPatient(c.id, m.id)
	case ActionRemovePatient:
		return s.RemovePatient(c.id, m.id)
	case ActionAssignStaff:
		return s.AssignStaff(c.id, m.id)
	case ActionUnassignStaff:
		return s.UnassignStaff(c.id)
	case ActionConfirm:
		return s.Confirm(links.Kind(step.Kind), c.id, m.id)
	case ActionRelease:
		return s.Release(links.Kind(step.Kind), m.id)
	case ActionLeave:
		return s.Leave(links.Kind(step.Kind), m.id)
	case ActionRename:
		return x.rename(t, step)
	case ActionSetAge:
		return s.SetAge(t.id, step.Age)
	case ActionSetRole:
		return s.SetRole(t.id, step.Role)
	case ActionSetCondition:
		return s.SetCondition(t.id, step.Condition)
	case ActionClearCondition:
		return s.ClearCondition(t.id)
	case ActionDestroy:
		report, err := x.lm.Destroy(t.id)
		if report != nil {
			x.logger.Debug("destroyed", "target", step.Target, "severed", len(report.Severed), "deleted", report.Deleted)
		}
		return err
	case ActionPrint:
		return x.print(t, step.View)
	case ActionCheck:
		return s.Check()
	}
	return fmt.Errorf("unknown action %q", step.Do)
}

func (x *run) rename(t ref, step Step) error {
	switch t.kind {
	case models.KindStaff:
		return x.st.RenameStaff(t.id, step.First, step.Last)
	case models.KindPatient:
		return x.st.RenamePatient(t.id, step.First, step.Last)
	case models.KindRoom:
		return x.st.RenameRoom(t.id, step.Name)
	default:
		return x.st.RenameHospital(t.id, step.Name)
	}
}

// writeError marks failures of the output writer so that Run can tell them
// apart from refused operations.
type writeError struct{ err error }

func (e *writeError) Error() string { return "writing output: " + e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

func (x *run) print(t ref, view string) error {
	err := x.render(t, view)
	if err != nil {
		return &writeError{err: err}
	}
	return nil
}

func (x *run) render(t ref, view string) error {
	s, w := x.st, x.out
	switch view {
	case ViewStatus:
		return writeln(w, roster.StatusLine(s, t.id))
	case ViewPatients:
		if t.kind == models.KindRoom {
			return roster.WriteRoomPatients(w, s, t.id)
		}
		return roster.WriteHospitalPatients(w, s, t.id)
	case ViewStaff:
		if t.kind == models.KindRoom {
			return writeln(w, roster.StaffLine(s, s.RoomStaff(t.id).ID))
		}
		return roster.WriteHospitalStaff(w, s, t.id)
	case ViewRooms:
		return roster.WriteHospitalRooms(w, s, t.id)
	case ViewHospital:
		return writeln(w, roster.HospitalLine(s, x.linkedHospital(t)))
	case ViewRoster:
		return roster.WriteHospital(w, s, t.id)
	}
	return writeln(w, line(s, t))
}

func (x *run) linkedHospital(t ref) models.ID {
	switch t.kind {
	case models.KindStaff:
		return x.st.StaffHospital(t.id).ID
	case models.KindPatient:
		return x.st.PatientHospital(t.id).ID
	case models.KindRoom:
		return x.st.RoomHospital(t.id).ID
	}
	return t.id
}

func line(s *store.Store, t ref) string {
	switch t.kind {
	case models.KindStaff:
		return roster.StaffLine(s, t.id)
	case models.KindPatient:
		return roster.PatientLine(s, t.id)
	case models.KindRoom:
		return roster.RoomLine(s, t.id)
	}
	return roster.HospitalLine(s, t.id)
}

func writeln(w io.Writer, s string) error {
	_, err := fmt.Fprintln(w, s)
	return err
}

func orOK(r links.Reason) string {
	if r == "" {
		return ExpectOK
	}
	return string(r)
}

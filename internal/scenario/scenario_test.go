package scenario_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ajitpratap0/hospital-links/internal/events"
	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
	"github.com/ajitpratap0/hospital-links/internal/scenario"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const small = `
name: small
entities:
  staff:
    - {ref: alex, first: Alex, last: White, age: 44, role: surgeon}
    - {ref: jane, first: Jane, last: Doe, age: 30}
  patients:
    - {ref: mark, first: Mark, last: Blair, age: 31}
  rooms:
    - {ref: ward, name: Ward1}
  hospitals:
    - {ref: general, name: General}
steps:
  - {do: add_room, container: general, member: ward}
  - {do: add_patient, container: ward, member: mark}
  - {do: add_patient, container: ward, member: mark, expect: duplicate_membership}
  - {do: employ_staff, container: general, member: jane, expect: missing_precondition}
  - {do: set_role, target: jane, role: nurse}
  - {do: employ_staff, container: general, member: jane}
  - {do: print, target: ward}
  - {do: print, target: general, view: status}
  - {do: destroy, target: ward}
  - {do: print, target: mark}
  - {do: check}
`

func TestRun_SmallScript(t *testing.T) {
	sc, err := scenario.Parse([]byte(small))
	require.NoError(t, err)

	var out strings.Builder
	rec := &events.Recorder{}
	res, err := scenario.NewRunner(&out, newTestLogger(), rec, false).Run(context.Background(), sc)
	require.NoError(t, err)
	assert.True(t, res.OK(), "result: %+v", res)

	want := []scenario.StepResult{
		{Index: 1, Do: "add_room", Match: true},
		{Index: 2, Do: "add_patient", Match: true},
		{Index: 3, Do: "add_patient", Expect: links.ReasonDuplicateMembership, Got: links.ReasonDuplicateMembership, Match: true},
		{Index: 4, Do: "employ_staff", Expect: links.ReasonMissingPrecondition, Got: links.ReasonMissingPrecondition, Match: true},
		{Index: 5, Do: "set_role", Match: true},
		{Index: 6, Do: "employ_staff", Match: true},
		{Index: 7, Do: "print", Match: true},
		{Index: 8, Do: "print", Match: true},
		{Index: 9, Do: "destroy", Match: true},
		{Index: 10, Do: "print", Match: true},
		{Index: 11, Do: "check", Match: true},
	}
	if diff := cmp.Diff(want, res.Steps, cmpopts.IgnoreFields(scenario.StepResult{}, "Error")); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, strings.Join([]string{
		"ROOM: Ward1 | STAFF: NOT ASSIGNED | PATIENTS: 1",
		"HOSPITAL: 'General' HAS 1 STAFF, 0 PATIENTS, 1 ROOM",
		"PATIENT: Mark Blair, 31 | HEALTHY",
		"",
	}, "\n"), out.String())

	assert.Equal(t, models.StoreStats{Staff: 2, Patients: 1, Hospitals: 1}, res.Stats)
	assert.Len(t, rec.Rejected(), 2)
}

func TestRun_ReportsMismatch(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name: wrong
entities:
  patients: [{ref: p, first: A, last: B, age: 1}]
  rooms: [{ref: r, name: R}]
steps:
  - {do: remove_patient, container: r, member: p}
  - {do: add_patient, container: r, member: p, expect: already_linked}
  - {do: add_patient, container: r, member: p, expect: duplicate_membership}
`))
	require.NoError(t, err)

	res, err := scenario.NewRunner(nil, newTestLogger(), nil, false).Run(context.Background(), sc)
	require.NoError(t, err)
	assert.False(t, res.OK())
	assert.Equal(t, 2, res.Failures)
	assert.Equal(t, links.ReasonNotLinked, res.Steps[0].Got)
	assert.Equal(t, links.Reason(""), res.Steps[1].Got)
	assert.True(t, res.Steps[2].Match)

	res, err = scenario.NewRunner(nil, newTestLogger(), nil, true).Run(context.Background(), sc)
	require.NoError(t, err)
	assert.Len(t, res.Steps, 1, "fail fast stops at the first mismatch")
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := scenario.NewRunner(nil, newTestLogger(), nil, false).Run(ctx, scenario.Demo())
	require.ErrorIs(t, err, context.Canceled)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRun_WriteFailureStopsRun(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name: print
entities:
  rooms: [{ref: r, name: R}]
steps:
  - {do: print, target: r}
  - {do: check}
`))
	require.NoError(t, err)

	res, err := scenario.NewRunner(failingWriter{}, newTestLogger(), nil, false).Run(context.Background(), sc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, res.Steps)
}

func TestDemo(t *testing.T) {
	var out strings.Builder
	res, err := scenario.NewRunner(&out, newTestLogger(), nil, false).Run(context.Background(), scenario.Demo())
	require.NoError(t, err)

	for _, st := range res.Steps {
		assert.True(t, st.Match, "step %d (%s): expect %q got %q: %s", st.Index, st.Do, st.Expect, st.Got, st.Error)
	}
	assert.True(t, res.OK())

	text := out.String()
	assert.Contains(t, text, "STAFF: Alexander White, 44 | surgeon\n")
	assert.Contains(t, text, "STAFF: NULL\n")
	assert.Contains(t, text, "ROOM: 'TestRoom' HAS PATIENTS:\n")
	assert.Contains(t, text, "ROOM: 'observation' IS EMPTY!\n")
	assert.Contains(t, text, "HOSPITAL: 'St. Patrick's psychiatric' HAS 2 STAFF, 1 PATIENT, 0 ROOMS\n")
	assert.Contains(t, text, "STAFF: Dylan Mackintosh, 14 | physician's kid\n")
	assert.True(t, strings.HasSuffix(text, "HOSPITAL: NULL\n"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "no steps",
			yaml: "name: x\n",
			want: "Steps",
		},
		{
			name: "unknown action",
			yaml: "name: x\nsteps: [{do: fly}]\n",
			want: "action",
		},
		{
			name: "unknown reason",
			yaml: "name: x\nsteps: [{do: check, expect: exploded}]\n",
			want: "expect",
		},
		{
			name: "missing ref",
			yaml: "name: x\nsteps: [{do: add_patient, container: r, member: p}]\n",
			want: `unknown container ref "r"`,
		},
		{
			name: "wrong kind",
			yaml: "name: x\nentities:\n  rooms: [{ref: r, name: R}]\n  patients: [{ref: p, first: A, last: B}]\nsteps: [{do: employ_staff, container: r, member: p}]\n",
			want: `container "r" is a room, want hospital`,
		},
		{
			name: "missing kind",
			yaml: "name: x\nentities:\n  patients: [{ref: p, first: A, last: B}]\nsteps: [{do: leave, member: p}]\n",
			want: "kind is required",
		},
		{
			name: "duplicate ref",
			yaml: "name: x\nentities:\n  rooms: [{ref: r, name: A}, {ref: r, name: B}]\nsteps: [{do: check}]\n",
			want: `duplicate entity ref "r"`,
		},
		{
			name: "bad yaml",
			yaml: "name: [",
			want: "failed to parse script YAML",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, os.WriteFile(path, []byte(small), 0o600))

	sc, err := scenario.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "small", sc.Name)
	assert.Len(t, sc.Steps, 11)

	_, err = scenario.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

package lifecycle_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/hospital-links/internal/lifecycle"
	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
	"github.com/ajitpratap0/hospital-links/internal/store"
)

type ward struct {
	s        *store.Store
	lm       *lifecycle.Manager
	hospital models.ID
	room     models.ID
	staff    models.ID
	patient  models.ID
}

// newWard links one hospital, room, staff member and patient in every
// possible way.
func newWard(t *testing.T) *ward {
	t.Helper()
	s := store.New()
	w := &ward{
		s:        s,
		lm:       lifecycle.NewManager(s),
		hospital: s.CreateHospital("General"),
		room:     s.CreateRoom("Ward1"),
		staff:    s.CreateStaff("Alex", "White", 44, "surgeon"),
		patient:  s.CreatePatient("Mark", "Blair", 31, ""),
	}
	require.NoError(t, s.AddRoom(w.hospital, w.room))
	require.NoError(t, s.EmployStaff(w.hospital, w.staff))
	require.NoError(t, s.AssignStaff(w.room, w.staff))
	require.NoError(t, s.RegisterPatient(w.hospital, w.patient))
	require.NoError(t, s.AddPatient(w.room, w.patient))
	return w
}

func TestLifecycle_DestroyRoom(t *testing.T) {
	w := newWard(t)
	require.Equal(t, 1, w.s.HospitalStatus(w.hospital).Rooms)

	report, err := w.lm.DestroyRoom(w.room)
	require.NoError(t, err)

	assert.True(t, report.Deleted)
	assert.Equal(t, models.KindRoom, report.Kind)
	assert.Equal(t, []lifecycle.Severed{
		{Kind: links.KindRoomPatient, Container: w.room, Member: w.patient},
		{Kind: links.KindRoomStaff, Container: w.room, Member: w.staff},
		{Kind: links.KindHospitalRoom, Container: w.hospital, Member: w.room},
	}, report.Severed)

	assert.False(t, w.s.PatientRoom(w.patient).IsValid())
	assert.False(t, w.s.HospitalRoomByName(w.hospital, "Ward1").IsValid())
	assert.Equal(t, 0, w.s.HospitalStatus(w.hospital).Rooms)
	assert.True(t, w.s.Staff(w.staff).Room.IsZero())
	// The patient stays registered with the hospital.
	assert.Equal(t, w.hospital, w.s.PatientHospital(w.patient).ID)
	require.NoError(t, w.s.Check())
}

func TestLifecycle_DestroyHospital(t *testing.T) {
	w := newWard(t)

	report, err := w.lm.DestroyHospital(w.hospital)
	require.NoError(t, err)
	assert.Equal(t, []lifecycle.Severed{
		{Kind: links.KindHospitalRoom, Container: w.hospital, Member: w.room},
		{Kind: links.KindHospitalStaff, Container: w.hospital, Member: w.staff},
		{Kind: links.KindHospitalPatient, Container: w.hospital, Member: w.patient},
	}, report.Severed)

	assert.Equal(t, models.EntityKind(""), w.s.Kind(w.hospital))
	assert.False(t, w.s.RoomHospital(w.room).IsValid())
	assert.False(t, w.s.StaffHospital(w.staff).IsValid())
	assert.False(t, w.s.PatientHospital(w.patient).IsValid())
	// Room level links survive.
	assert.Equal(t, w.staff, w.s.RoomStaff(w.room).ID)
	require.NoError(t, w.s.Check())
}

func TestLifecycle_DestroyStaffAndPatient(t *testing.T) {
	w := newWard(t)

	report, err := w.lm.DestroyStaff(w.staff)
	require.NoError(t, err)
	assert.Equal(t, []lifecycle.Severed{
		{Kind: links.KindRoomStaff, Container: w.room, Member: w.staff},
		{Kind: links.KindHospitalStaff, Container: w.hospital, Member: w.staff},
	}, report.Severed)

	report, err = w.lm.DestroyPatient(w.patient)
	require.NoError(t, err)
	assert.Equal(t, []lifecycle.Severed{
		{Kind: links.KindRoomPatient, Container: w.room, Member: w.patient},
		{Kind: links.KindHospitalPatient, Container: w.hospital, Member: w.patient},
	}, report.Severed)

	assert.False(t, w.s.RoomStaff(w.room).IsValid())
	assert.Equal(t, models.HospitalStatus{Name: "General", Rooms: 1}, w.s.HospitalStatus(w.hospital))
	assert.Equal(t, models.StoreStats{Rooms: 1, Hospitals: 1}, w.s.Stats())
	require.NoError(t, w.s.Check())
}

func TestLifecycle_PlanChangesNothing(t *testing.T) {
	w := newWard(t)

	report, err := w.lm.Plan(w.hospital)
	require.NoError(t, err)
	assert.Len(t, report.Severed, 3)
	assert.False(t, report.Deleted)
	assert.Equal(t, 1, w.s.HospitalStatus(w.hospital).Rooms)
}

func TestLifecycle_UnlinkedEntity(t *testing.T) {
	s := store.New()
	lm := lifecycle.NewManager(s)
	id := s.CreatePatient("Lone", "Walker", 40, "")

	report, err := lm.Destroy(id)
	require.NoError(t, err)
	assert.Empty(t, report.Severed)
	assert.True(t, report.Deleted)
}

func TestLifecycle_WrongOrUnknownHandle(t *testing.T) {
	w := newWard(t)

	_, err := w.lm.DestroyRoom(w.patient)
	require.ErrorIs(t, err, links.ErrUnknownEntity)
	assert.Equal(t, w.room, w.s.PatientRoom(w.patient).ID)

	_, err = w.lm.Destroy("missing")
	require.ErrorIs(t, err, links.ErrUnknownEntity)

	_, err = w.lm.DestroyPatient(w.patient)
	require.NoError(t, err)
	_, err = w.lm.DestroyPatient(w.patient)
	require.ErrorIs(t, err, links.ErrUnknownEntity)
}

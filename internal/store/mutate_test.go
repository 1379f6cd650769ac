package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/hospital-links/internal/links"
)

func TestStore_RenameGuard(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.RegisterPatient(f.hospital, f.patient))

	err := f.s.RenamePatient(f.patient, "Marcus", "Blair")
	require.ErrorIs(t, err, links.ErrLinkedEntity)
	assert.Equal(t, "Mark", f.s.Patient(f.patient).FirstName)

	err = f.s.RenameHospital(f.hospital, "City")
	require.ErrorIs(t, err, links.ErrLinkedEntity)
	assert.Equal(t, "General", f.s.Hospital(f.hospital).Name)

	require.NoError(t, f.s.DischargePatient(f.hospital, f.patient))
	require.NoError(t, f.s.RenamePatient(f.patient, "Marcus", "Blair"))
	assert.Equal(t, "Marcus", f.s.Patient(f.patient).FirstName)
	require.NoError(t, f.s.RenameHospital(f.hospital, "City"))
	assert.Equal(t, "City", f.s.Hospital(f.hospital).Name)
}

func TestStore_RenameRejectsEmpty(t *testing.T) {
	f := newFixture(t)

	err := f.s.RenameStaff(f.staff, "", "White")
	require.ErrorIs(t, err, links.ErrInvalidIdentity)
	err = f.s.RenameStaff(f.staff, "Alex", "")
	require.ErrorIs(t, err, links.ErrInvalidIdentity)
	err = f.s.RenameRoom(f.room, "")
	require.ErrorIs(t, err, links.ErrInvalidIdentity)
	assert.Equal(t, "Alex White", f.s.Staff(f.staff).FullName())
	assert.Equal(t, "Ward1", f.s.Room(f.room).Name)

	require.NoError(t, f.s.RenameStaff(f.staff, "Alexa", "Whyte"))
	assert.Equal(t, "Alexa Whyte", f.s.Staff(f.staff).FullName())
	require.NoError(t, f.s.RenameRoom(f.room, "Ward9"))
	assert.Equal(t, "Ward9", f.s.Room(f.room).Name)
}

func TestStore_RenameRoomWhileHoldingMembers(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.s.AssignStaff(f.room, f.staff))

	err := f.s.RenameRoom(f.room, "Ward2")
	require.ErrorIs(t, err, links.ErrLinkedEntity)

	err = f.s.RenameStaff(f.staff, "Al", "White")
	require.ErrorIs(t, err, links.ErrLinkedEntity)
	assert.Equal(t, links.OpRename, f.lastEvent(t).Op)
	assert.Equal(t, `staff "Alex White"`, f.lastEvent(t).Subject)
}

func TestStore_FieldUpdates(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.s.SetAge(f.staff, 45))
	assert.Equal(t, 45, f.s.Staff(f.staff).Age)
	err := f.s.SetAge(f.patient, 201)
	require.ErrorIs(t, err, links.ErrInvalidField)
	assert.Equal(t, 31, f.s.Patient(f.patient).Age)

	err = f.s.SetRole(f.staff, "")
	require.ErrorIs(t, err, links.ErrInvalidField)
	assert.Equal(t, "surgeon", f.s.Staff(f.staff).Role)

	require.NoError(t, f.s.EmployStaff(f.hospital, f.staff))
	require.NoError(t, f.s.SetRole(f.staff, "doctor"))
	assert.Equal(t, "doctor", f.s.Staff(f.staff).Role)

	assert.True(t, f.s.Patient(f.patient).IsHealthy())
	err = f.s.SetCondition(f.patient, "")
	require.ErrorIs(t, err, links.ErrInvalidField)
	require.NoError(t, f.s.SetCondition(f.patient, "flu"))
	assert.Equal(t, "flu", f.s.Patient(f.patient).Condition)
	require.NoError(t, f.s.ClearCondition(f.patient))
	assert.True(t, f.s.Patient(f.patient).IsHealthy())

	err = f.s.SetCondition(f.staff, "flu")
	require.ErrorIs(t, err, links.ErrUnknownEntity)
	err = f.s.SetAge("missing", 3)
	require.ErrorIs(t, err, links.ErrUnknownEntity)
}

// Package roster renders human-readable summaries of hospitals, rooms, staff
// and patients. It only reads through accessors and never changes state.
package roster

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ajitpratap0/hospital-links/internal/models"
)

// Reader is the read-only view a roster needs. *store.Store satisfies it.
type Reader interface {
	Staff(id models.ID) models.Staff
	Patient(id models.ID) models.Patient
	Room(id models.ID) models.Room
	Hospital(id models.ID) models.Hospital
	HospitalStatus(id models.ID) models.HospitalStatus
}

const null = "NULL"

// StaffLine renders "STAFF: first last, age | role | hospital | room".
// Unset parts are left out.
func StaffLine(r Reader, id models.ID) string {
	st := r.Staff(id)
	if !st.IsValid() {
		return "STAFF: " + null
	}
	parts := []string{personHead(st.Person)}
	if st.Role != "" {
		parts = append(parts, st.Role)
	}
	parts = appendLinks(r, parts, st.Hospital, st.Room)
	return "STAFF: " + strings.Join(parts, " | ")
}

// PatientLine renders "PATIENT: first last, age | condition | hospital |
// room". A patient without condition shows HEALTHY.
func PatientLine(r Reader, id models.ID) string {
	p := r.Patient(id)
	if !p.IsValid() {
		return "PATIENT: " + null
	}
	condition := p.Condition
	if p.IsHealthy() {
		condition = "HEALTHY"
	}
	parts := appendLinks(r, []string{personHead(p.Person), condition}, p.Hospital, p.Room)
	return "PATIENT: " + strings.Join(parts, " | ")
}

// RoomLine renders "ROOM: name | STAFF: first last | PATIENTS: n".
func RoomLine(r Reader, id models.ID) string {
	rm := r.Room(id)
	if !rm.IsValid() {
		return "ROOM: " + null
	}
	staff := "NOT ASSIGNED"
	if st := r.Staff(rm.Staff); st.IsValid() {
		staff = st.FullName()
	}
	patients := "NONE"
	if n := len(rm.Patients); n > 0 {
		patients = strconv.Itoa(n)
	}
	return fmt.Sprintf("ROOM: %s | STAFF: %s | PATIENTS: %s", rm.Name, staff, patients)
}

// HospitalLine renders "HOSPITAL: name".
func HospitalLine(r Reader, id models.ID) string {
	h := r.Hospital(id)
	if !h.IsValid() {
		return "HOSPITAL: " + null
	}
	return "HOSPITAL: " + h.Name
}

// StatusLine renders the membership counts of a hospital.
func StatusLine(r Reader, id models.ID) string {
	st := r.HospitalStatus(id)
	return fmt.Sprintf("HOSPITAL: '%s' HAS %d STAFF, %s, %s",
		st.Name, st.Staff, plural(st.Patients, "PATIENT"), plural(st.Rooms, "ROOM"))
}

// WriteRoomPatients lists the patients in a room.
func WriteRoomPatients(w io.Writer, r Reader, id models.ID) error {
	rm := r.Room(id)
	return writeList(w, fmt.Sprintf("ROOM: '%s' ", rm.Name), "IS EMPTY!", "HAS PATIENTS:", rm.Patients, func(p models.ID) string {
		return PatientLine(r, p)
	})
}

// WriteHospitalPatients lists the patients registered in a hospital.
func WriteHospitalPatients(w io.Writer, r Reader, id models.ID) error {
	h := r.Hospital(id)
	return writeList(w, hospitalHead(h), "HAS NO PATIENTS!", "HAS PATIENTS:", h.Patients, func(p models.ID) string {
		return PatientLine(r, p)
	})
}

// WriteHospitalStaff lists the staff employed by a hospital.
func WriteHospitalStaff(w io.Writer, r Reader, id models.ID) error {
	h := r.Hospital(id)
	return writeList(w, hospitalHead(h), "HAS NO STAFF!", "HAS STAFF:", h.Staff, func(st models.ID) string {
		return StaffLine(r, st)
	})
}

// WriteHospitalRooms lists the names of the rooms owned by a hospital.
func WriteHospitalRooms(w io.Writer, r Reader, id models.ID) error {
	h := r.Hospital(id)
	return writeList(w, hospitalHead(h), "HAS NO ROOMS!", "HAS ROOMS:", h.Rooms, func(rm models.ID) string {
		return r.Room(rm).Name
	})
}

// WriteHospital writes the full roster of a hospital: status, rooms, staff
// and patients.
func WriteHospital(w io.Writer, r Reader, id models.ID) error {
	if _, err := fmt.Fprintln(w, StatusLine(r, id)); err != nil {
		return err
	}
	for _, write := range []func(io.Writer, Reader, models.ID) error{
		WriteHospitalRooms, WriteHospitalStaff, WriteHospitalPatients,
	} {
		if err := write(w, r, id); err != nil {
			return err
		}
	}
	return nil
}

func writeList(w io.Writer, head, empty, full string, ids []models.ID, line func(models.ID) string) error {
	if len(ids) == 0 {
		_, err := fmt.Fprintln(w, head+empty)
		return err
	}
	var b strings.Builder
	b.WriteString(head + full + "\n")
	for _, id := range ids {
		b.WriteString(line(id) + "\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func hospitalHead(h models.Hospital) string {
	return fmt.Sprintf("HOSPITAL: '%s' ", h.Name)
}

func personHead(p models.Person) string {
	return fmt.Sprintf("%s, %d", p.FullName(), p.Age)
}

func appendLinks(r Reader, parts []string, hospital, room models.ID) []string {
	if h := r.Hospital(hospital); h.IsValid() {
		parts = append(parts, h.Name)
	}
	if rm := r.Room(room); rm.IsValid() {
		parts = append(parts, rm.Name)
	}
	return parts
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %sS", n, noun)
}

// Package scenario drives a store from a YAML script. A script declares
// entities under local refs and a list of steps, each optionally stating the
// outcome it expects. The runner reports every step whose outcome differs.
package scenario

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/hospital-links/internal/links"
	"github.com/ajitpratap0/hospital-links/internal/models"
)

//go:embed scripts/demo.yaml
var demoScript []byte

// Actions understood by the runner.
const (
	ActionEmployStaff      = "employ_staff"
	ActionDismissStaff     = "dismiss_staff"
	ActionRegisterPatient  = "register_patient"
	ActionDischargePatient = "discharge_patient"
	ActionAddRoom          = "add_room"
	ActionRemoveRoom       = "remove_room"
	ActionAddPatient       = "add_patient"
	ActionRemovePatient    = "remove_patient"
	ActionAssignStaff      = "assign_staff"
	ActionUnassignStaff    = "unassign_staff"
	ActionConfirm          = "confirm"
	ActionRelease          = "release"
	ActionLeave            = "leave"
	ActionRename           = "rename"
	ActionSetAge           = "set_age"
	ActionSetRole          = "set_role"
	ActionSetCondition     = "set_condition"
	ActionClearCondition   = "clear_condition"
	ActionDestroy          = "destroy"
	ActionPrint            = "print"
	ActionCheck            = "check"
)

// Print views.
const (
	ViewLine     = "line"
	ViewStatus   = "status"
	ViewPatients = "patients"
	ViewStaff    = "staff"
	ViewRooms    = "rooms"
	ViewHospital = "hospital"
	ViewRoster   = "roster"
)

// ExpectOK is the expectation of a step that must succeed.
const ExpectOK = "ok"

// Script is a parsed scenario.
type Script struct {
	Name     string   `yaml:"name" json:"name" validate:"required"`
	Entities Entities `yaml:"entities" json:"entities"`
	Steps    []Step   `yaml:"steps" json:"steps" validate:"required,min=1,dive"`
}

// Entities declares everything a script works with. Empty names are allowed
// so that scripts can exercise invalid entities.
type Entities struct {
	Staff     []PersonDef `yaml:"staff" json:"staff,omitempty" validate:"dive"`
	Patients  []PersonDef `yaml:"patients" json:"patients,omitempty" validate:"dive"`
	Rooms     []NamedDef  `yaml:"rooms" json:"rooms,omitempty" validate:"dive"`
	Hospitals []NamedDef  `yaml:"hospitals" json:"hospitals,omitempty" validate:"dive"`
}

// PersonDef declares a staff member or patient. Role applies to staff and
// Condition to patients.
type PersonDef struct {
	Ref       string `yaml:"ref" json:"ref" validate:"required"`
	First     string `yaml:"first" json:"first"`
	Last      string `yaml:"last" json:"last"`
	Age       int    `yaml:"age" json:"age"`
	Role      string `yaml:"role,omitempty" json:"role,omitempty"`
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`
}

// NamedDef declares a room or hospital.
type NamedDef struct {
	Ref  string `yaml:"ref" json:"ref" validate:"required"`
	Name string `yaml:"name" json:"name"`
}

// Step is one action. Which fields apply depends on Do.
type Step struct {
	Do        string `yaml:"do" json:"do" validate:"required,action"`
	Container string `yaml:"container,omitempty" json:"container,omitempty"`
	Member    string `yaml:"member,omitempty" json:"member,omitempty"`
	Target    string `yaml:"target,omitempty" json:"target,omitempty"`
	Kind      string `yaml:"kind,omitempty" json:"kind,omitempty" validate:"omitempty,linkkind"`
	First     string `yaml:"first,omitempty" json:"first,omitempty"`
	Last      string `yaml:"last,omitempty" json:"last,omitempty"`
	Name      string `yaml:"name,omitempty" json:"name,omitempty"`
	Age       int    `yaml:"age,omitempty" json:"age,omitempty"`
	Role      string `yaml:"role,omitempty" json:"role,omitempty"`
	Condition string `yaml:"condition,omitempty" json:"condition,omitempty"`
	View      string `yaml:"view,omitempty" json:"view,omitempty" validate:"omitempty,oneof=line status patients staff rooms hospital roster"`
	Expect    string `yaml:"expect,omitempty" json:"expect,omitempty" validate:"omitempty,expect"`
	Note      string `yaml:"note,omitempty" json:"note,omitempty"`
}

// Expected returns the reason the step should produce, or "" for success.
func (st Step) Expected() links.Reason {
	if st.Expect == "" || st.Expect == ExpectOK {
		return ""
	}
	return links.Reason(st.Expect)
}

// shape lists the refs an action needs: container, member and target.
type shape struct {
	container, member, target models.EntityKind
	kind                      bool
}

// Reference kinds for member-side actions depend on Kind and are checked at
// run time; "any" marks a ref of any entity kind.
const anyKind models.EntityKind = "any"

var shapes = map[string]shape{
	ActionEmployStaff:      {container: models.KindHospital, member: models.KindStaff},
	ActionDismissStaff:     {container: models.KindHospital, member: models.KindStaff},
	ActionRegisterPatient:  {container: models.KindHospital, member: models.KindPatient},
	ActionDischargePatient: {container: models.KindHospital, member: models.KindPatient},
	ActionAddRoom:          {container: models.KindHospital, member: models.KindRoom},
	ActionRemoveRoom:       {container: models.KindHospital, member: models.KindRoom},
	ActionAddPatient:       {container: models.KindRoom, member: models.KindPatient},
	ActionRemovePatient:    {container: models.KindRoom, member: models.KindPatient},
	ActionAssignStaff:      {container: models.KindRoom, member: models.KindStaff},
	ActionUnassignStaff:    {container: models.KindRoom},
	ActionConfirm:          {container: anyKind, member: anyKind, kind: true},
	ActionRelease:          {member: anyKind, kind: true},
	ActionLeave:            {member: anyKind, kind: true},
	ActionRename:           {target: anyKind},
	ActionSetAge:           {target: anyKind},
	ActionSetRole:          {target: models.KindStaff},
	ActionSetCondition:     {target: models.KindPatient},
	ActionClearCondition:   {target: models.KindPatient},
	ActionDestroy:          {target: anyKind},
	ActionPrint:            {target: anyKind},
	ActionCheck:            {},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("action", func(fl validator.FieldLevel) bool {
		_, ok := shapes[fl.Field().String()]
		return ok
	})
	_ = v.RegisterValidation("linkkind", func(fl validator.FieldLevel) bool {
		return links.Kind(fl.Field().String()).IsValid()
	})
	_ = v.RegisterValidation("expect", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return s == ExpectOK || links.Reason(s).IsValid()
	})
	return v
}

// Load reads and validates a script file.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", path, err)
	}
	return sc, nil
}

// Parse decodes and validates a YAML script.
func Parse(data []byte) (*Script, error) {
	var sc Script
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("failed to parse script YAML: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Demo returns the built-in walkthrough script.
func Demo() *Script {
	sc, err := Parse(demoScript)
	if err != nil {
		panic(fmt.Sprintf("embedded demo script: %v", err))
	}
	return sc
}

// Validate checks field rules and that every step refers to declared
// entities of the right kind.
func (sc *Script) Validate() error {
	if err := validate.Struct(sc); err != nil {
		return fmt.Errorf("invalid script: %w", err)
	}
	refs, err := sc.refKinds()
	if err != nil {
		return err
	}
	var errs []error
	for i, st := range sc.Steps {
		sh := shapes[st.Do]
		if sh.kind && st.Kind == "" {
			errs = append(errs, fmt.Errorf("step %d (%s): kind is required", i+1, st.Do))
		}
		for _, ref := range []struct {
			field string
			value string
			want  models.EntityKind
		}{
			{"container", st.Container, sh.container},
			{"member", st.Member, sh.member},
			{"target", st.Target, sh.target},
		} {
			if ref.want == "" {
				continue
			}
			got, ok := refs[ref.value]
			switch {
			case ref.value == "":
				errs = append(errs, fmt.Errorf("step %d (%s): %s is required", i+1, st.Do, ref.field))
			case !ok:
				errs = append(errs, fmt.Errorf("step %d (%s): unknown %s ref %q", i+1, st.Do, ref.field, ref.value))
			case ref.want != anyKind && got != ref.want:
				errs = append(errs, fmt.Errorf("step %d (%s): %s %q is a %s, want %s", i+1, st.Do, ref.field, ref.value, got, ref.want))
			}
		}
	}
	return errors.Join(errs...)
}

func (sc *Script) refKinds() (map[string]models.EntityKind, error) {
	refs := make(map[string]models.EntityKind)
	add := func(ref string, kind models.EntityKind) error {
		if _, dup := refs[ref]; dup {
			return fmt.Errorf("duplicate entity ref %q", ref)
		}
		refs[ref] = kind
		return nil
	}
	for _, d := range sc.Entities.Staff {
		if err := add(d.Ref, models.KindStaff); err != nil {
			return nil, err
		}
	}
	for _, d := range sc.Entities.Patients {
		if err := add(d.Ref, models.KindPatient); err != nil {
			return nil, err
		}
	}
	for _, d := range sc.Entities.Rooms {
		if err := add(d.Ref, models.KindRoom); err != nil {
			return nil, err
		}
	}
	for _, d := range sc.Entities.Hospitals {
		if err := add(d.Ref, models.KindHospital); err != nil {
			return nil, err
		}
	}
	return refs, nil
}

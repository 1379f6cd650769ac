package models

// Person holds the identity fields shared by staff members and patients.
type Person struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       int    `json:"age"`
}

// NewPerson builds a person, storing age 0 when age is out of range.
func NewPerson(first, last string, age int) Person {
	if ValidateAge(age) != nil {
		age = 0
	}
	return Person{FirstName: first, LastName: last, Age: age}
}

// IsValid reports whether both names are set. Only valid people may be linked.
func (p Person) IsValid() bool {
	return p.FirstName != "" && p.LastName != ""
}

// Key returns the identity key of the person.
func (p Person) Key() PersonKey {
	return PersonKey{FirstName: p.FirstName, LastName: p.LastName}
}

// FullName returns "first last".
func (p Person) FullName() string {
	return p.FirstName + " " + p.LastName
}

// PersonKey identifies a person inside a container. Two people with the same
// key are the same person as far as membership is concerned.
type PersonKey struct {
	FirstName string
	LastName  string
}

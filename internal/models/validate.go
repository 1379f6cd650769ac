package models

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateAge checks that age lies within [0,200].
func ValidateAge(age int) error {
	if err := validate.Var(age, "gte=0,lte=200"); err != nil {
		return fmt.Errorf("age %d outside [0;200]", age)
	}
	return nil
}

// ValidateName checks that an identifying name is not empty.
func ValidateName(field, value string) error {
	if err := validate.Var(value, "required"); err != nil {
		return fmt.Errorf("%s must not be empty", field)
	}
	return nil
}

// ValidateRole checks that a staff role is set.
func ValidateRole(role string) error {
	return ValidateName("role", role)
}

// ValidateCondition checks that a patient condition is set. Clearing a
// condition has its own operation.
func ValidateCondition(condition string) error {
	return ValidateName("condition", condition)
}

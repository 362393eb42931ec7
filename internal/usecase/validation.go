package usecase

import (
	"fmt"
	"regexp"
	"strings"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Intake form steps, in the order the stepped variant presents them.
const (
	StepHomeInfo = 1 + iota
	StepEnergyConcerns
	StepContactInfo
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateCreateLeadInput checks the whole intake submission. Home age and
// concerns are optional; everything else is required.
func ValidateCreateLeadInput(input CreateLeadInput) []ValidationError {
	var errors []ValidationError
	errors = append(errors, ValidateLeadStep(input, StepHomeInfo)...)
	errors = append(errors, ValidateLeadStep(input, StepEnergyConcerns)...)
	errors = append(errors, ValidateLeadStep(input, StepContactInfo)...)
	return errors
}

// ValidateLeadStep checks only the fields shown on one page of the stepped
// form, so the front-end can gate forward navigation per step. The single-page
// variant runs all three steps at once.
func ValidateLeadStep(input CreateLeadInput, step int) []ValidationError {
	var errors []ValidationError

	switch step {
	case StepHomeInfo:
		if strings.TrimSpace(input.Address) == "" {
			errors = append(errors, ValidationError{"address", "Address is required"})
		}
		if input.IsHomeowner == "" {
			errors = append(errors, ValidationError{"is_homeowner", "Please select an option"})
		} else if input.IsHomeowner != "yes" && input.IsHomeowner != "no" {
			errors = append(errors, ValidationError{"is_homeowner", "Must be yes or no"})
		}

	case StepEnergyConcerns:
		// Concerns are optional free text; nothing to gate here.

	case StepContactInfo:
		if strings.TrimSpace(input.Name) == "" {
			errors = append(errors, ValidationError{"name", "Name is required"})
		}
		if strings.TrimSpace(input.Email) == "" {
			errors = append(errors, ValidationError{"email", "Email is required"})
		} else if !emailPattern.MatchString(input.Email) {
			errors = append(errors, ValidationError{"email", "Please enter a valid email"})
		}
		if strings.TrimSpace(input.Phone) == "" {
			errors = append(errors, ValidationError{"phone", "Phone number is required"})
		}
	}

	return errors
}

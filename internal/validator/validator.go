package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationError represents a single failed field check.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
	Rule    string      `json:"rule,omitempty"`
}

type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	if len(ve) == 1 {
		return fmt.Sprintf("validation failed: %s %s", ve[0].Field, ve[0].Message)
	}
	return fmt.Sprintf("validation failed: %d field errors", len(ve))
}

// Validator wraps struct validation and the domain business rules.
type Validator struct {
	validate *validator.Validate
	business *BusinessValidator
}

// New creates a validator with all custom rules registered.
func New() *Validator {
	return &Validator{
		validate: newValidate(),
		business: NewBusinessValidator(),
	}
}

// Validate runs struct tag validation; returns nil or ValidationErrors.
func (v *Validator) Validate(s interface{}) error {
	if err := v.validate.Struct(s); err != nil {
		ve := ToValidationErrors(err)
		if len(ve) > 0 {
			return ve
		}
		return err
	}
	return nil
}

// Business returns the business rule validator.
func (v *Validator) Business() *BusinessValidator {
	return v.business
}

// ToValidationErrors converts go-playground errors into the API shape.
func ToValidationErrors(err error) ValidationErrors {
	var errs ValidationErrors

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs
	}

	for _, fe := range verrs {
		errs = append(errs, ValidationError{
			Field:   fe.Field(),
			Message: errorMessage(fe),
			Value:   fe.Value(),
			Rule:    fe.Tag(),
		})
	}

	return errs
}

// errorMessage returns user-friendly error messages
func errorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", err.Param())
	case "uuid4":
		return "must be a valid UUID"
	case "progress_notes":
		return "must not exceed 500 characters"
	case "score_range":
		return "must be between 0 and the maximum score"
	default:
		return fmt.Sprintf("validation failed for rule '%s'", err.Tag())
	}
}

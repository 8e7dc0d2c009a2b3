package validator

import (
	"strings"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/go-playground/validator/v10"
)

func newValidate() *validator.Validate {
	validate := validator.New()
	registerBusinessRules(validate)
	return validate
}

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{validate: newValidate()}
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateProgressCreate validates progress creation business rules
func (bv *BusinessValidator) ValidateProgressCreate(req *models.CreateProgressRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Score cannot exceed the activity maximum
	if req.Score > req.MaxScore {
		errors = append(errors, ValidationError{
			Field:   "score",
			Message: "cannot exceed max_score",
			Value:   req.Score,
			Rule:    "score_range",
		})
	}

	if req.MaxScore < 1 {
		errors = append(errors, ValidationError{
			Field:   "max_score",
			Message: "must be at least 1",
			Value:   req.MaxScore,
			Rule:    "score_range",
		})
	}

	return errors
}

// ValidateProgressUpdate rejects attempts to rewrite scoring after the first
// submission. Only time spent, completion flag and notes stay mutable.
func (bv *BusinessValidator) ValidateProgressUpdate(req *models.UpdateProgressRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Score != nil {
		errors = append(errors, ValidationError{
			Field:   "score",
			Message: "is locked after the first attempt",
			Value:   *req.Score,
			Rule:    "locked_field",
		})
	}
	if req.MaxScore != nil {
		errors = append(errors, ValidationError{
			Field:   "max_score",
			Message: "is locked after the first attempt",
			Value:   *req.MaxScore,
			Rule:    "locked_field",
		})
	}
	if req.AttemptNumber != nil {
		errors = append(errors, ValidationError{
			Field:   "attempt_number",
			Message: "is locked after the first attempt",
			Value:   *req.AttemptNumber,
			Rule:    "locked_field",
		})
	}

	return errors
}

// ValidateExerciseResult validates a raw exercise submission
func (bv *BusinessValidator) ValidateExerciseResult(req *models.SubmitExerciseResultRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Score > req.MaxScore {
		errors = append(errors, ValidationError{
			Field:   "score",
			Message: "cannot exceed max_score",
			Value:   req.Score,
			Rule:    "score_range",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func registerBusinessRules(validate *validator.Validate) {
	// Notes validation (max 500 characters)
	validate.RegisterValidation("progress_notes", func(fl validator.FieldLevel) bool {
		notes := fl.Field().String()
		return len(notes) <= 500
	})

	// Nickname validation (1-100 characters, not blank)
	validate.RegisterValidation("student_nickname", func(fl validator.FieldLevel) bool {
		nickname := strings.TrimSpace(fl.Field().String())
		return len(nickname) >= 1 && len(nickname) <= 100
	})

	// Content name validation (1-200 characters)
	validate.RegisterValidation("content_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 1 && len(name) <= 200
	})

	// Sort keys accepted by the progress listing
	validate.RegisterValidation("progress_sort", func(fl validator.FieldLevel) bool {
		// Unknown keys are not an error, they fall back to completed_at;
		// this rule only blocks obviously malformed input.
		key := fl.Field().String()
		return len(key) <= 50
	})
}

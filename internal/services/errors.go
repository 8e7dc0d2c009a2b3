package services

import (
	"errors"
	"fmt"

	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

// ValidationErrors is surfaced by services and mapped to 400 by handlers.
type ValidationErrors = validator.ValidationErrors

// ===== SENTINEL ERRORS =====

var (
	// Generic
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrNotFound         = errors.New("resource not found")

	// Progress
	ErrProgressNotFound        = errors.New("progress record not found")
	ErrProgressAlreadyRecorded = errors.New("progress already recorded for this activity")

	// Students and parents
	ErrStudentNotFound = errors.New("student not found")
	ErrStudentNotOwned = errors.New("student does not belong to this parent")
	ErrStudentLimit    = errors.New("student profile limit reached")
	ErrParentNotFound  = errors.New("parent account not found")

	// Content
	ErrLanguageNotFound = errors.New("language not found")
	ErrLevelNotFound    = errors.New("level not found")
	ErrStageNotFound    = errors.New("stage not found")
	ErrActivityNotFound = errors.New("activity not found")
	ErrExerciseNotFound = errors.New("exercise not found")

	// Purchases
	ErrPurchaseNotFound  = errors.New("purchase not found")
	ErrLevelLocked       = errors.New("level has not been unlocked")
	ErrLevelAlreadyOwned = errors.New("level already purchased")
)

// ===== CUSTOM ERROR TYPES =====

// PermissionError carries the context of a denied action.
type PermissionError struct {
	UserID   string
	ID       uint
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied: user %s cannot %s %s %d: %s",
		e.UserID, e.Action, e.Resource, e.ID, e.Reason)
}

func NewPermissionError(userID string, id uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		ID:       id,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}

// BusinessRuleError signals a domain rule violation (422).
type BusinessRuleError struct {
	Rule    string
	Message string
	Context map[string]interface{}
}

func (e *BusinessRuleError) Error() string {
	return fmt.Sprintf("business rule violation (%s): %s", e.Rule, e.Message)
}

func NewBusinessRuleError(rule, message string, ctx map[string]interface{}) *BusinessRuleError {
	return &BusinessRuleError{
		Rule:    rule,
		Message: message,
		Context: ctx,
	}
}

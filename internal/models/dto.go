package models

import (
	"time"
)

type CreateProgressRequest struct {
	StudentID        string  `json:"student_id" validate:"required,uuid4"`
	ActivityID       uint    `json:"activity_id" validate:"required"`
	Score            float64 `json:"score" validate:"min=0"`
	MaxScore         float64 `json:"max_score" validate:"required,min=1"`
	TimeSpentSeconds int     `json:"time_spent_seconds" validate:"min=0"`
	IsCompleted      *bool   `json:"is_completed"`
	Notes            *string `json:"notes" validate:"omitempty,max=500"`
}

// UpdateProgressRequest carries the only mutable fields. Score, MaxScore and
// AttemptNumber are locked after the first submission; their presence in a
// request is a validation error, so they are captured here for the check.
type UpdateProgressRequest struct {
	TimeSpentSeconds *int    `json:"time_spent_seconds" validate:"omitempty,min=0"`
	IsCompleted      *bool   `json:"is_completed"`
	Notes            *string `json:"notes" validate:"omitempty,max=500"`

	Score         *float64 `json:"score"`
	MaxScore      *float64 `json:"max_score"`
	AttemptNumber *int     `json:"attempt_number"`
}

type SubmitExerciseResultRequest struct {
	ExerciseID         uint    `json:"exercise_id" validate:"required"`
	Score              float64 `json:"score" validate:"min=0"`
	MaxScore           float64 `json:"max_score" validate:"required,min=1"`
	TimeTakenInSeconds int     `json:"time_taken_in_seconds" validate:"min=0"`
}

// ===== PAGINATION & FILTERING =====

type ListProgressParams struct {
	StudentID   *string    `json:"student_id" form:"student_id"`
	ActivityID  *uint      `json:"activity_id" form:"activity_id"`
	StageID     *uint      `json:"stage_id" form:"stage_id"`
	LevelID     *uint      `json:"level_id" form:"level_id"`
	MinScore    *float64   `json:"min_score" form:"min_score"`
	MaxScore    *float64   `json:"max_score" form:"max_score"`
	IsCompleted *bool      `json:"is_completed" form:"is_completed"`
	FromDate    *time.Time `json:"from_date" form:"from_date"`
	ToDate      *time.Time `json:"to_date" form:"to_date"`

	Page           int    `json:"page" form:"page" validate:"min=0"`
	Size           int    `json:"size" form:"size" validate:"min=0,max=100"`
	SortBy         string `json:"sort_by" form:"sort_by"`
	SortDescending bool   `json:"sort_descending" form:"sort_descending"`
}

type PagedResponse struct {
	Data            interface{} `json:"data"`
	PageNumber      int         `json:"page_number"`
	PageSize        int         `json:"page_size"`
	TotalCount      int64       `json:"total_count"`
	TotalPages      int         `json:"total_pages"`
	HasPreviousPage bool        `json:"has_previous_page"`
	HasNextPage     bool        `json:"has_next_page"`
}

// ===== ERROR RESPONSES =====

type ValidationErrorResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   string `json:"value"`
	Code    string `json:"code"`
}

type ErrorResponse struct {
	Error            string                    `json:"error"`
	Message          string                    `json:"message"`
	Code             string                    `json:"code"`
	Details          interface{}               `json:"details,omitempty"`
	Timestamp        time.Time                 `json:"timestamp"`
	Path             string                    `json:"path"`
	ValidationErrors []ValidationErrorResponse `json:"validation_errors,omitempty"`
}

type SuccessResponse struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

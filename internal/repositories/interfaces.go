package repositories

import (
	"time"
)

// ===== SHARED FILTER STRUCTS =====

type ProgressFilters struct {
	StudentID  *string  `json:"student_id"`
	StudentIDs []string `json:"student_ids"` // scope to a set of students (parent scoping)
	ActivityID *uint    `json:"activity_id"`
	StageID    *uint    `json:"stage_id"` // via activity
	LevelID    *uint    `json:"level_id"` // via activity -> stage

	MinScore    *float64 `json:"min_score"` // raw score, not percentage
	MaxScore    *float64 `json:"max_score"`
	IsCompleted *bool    `json:"is_completed"`

	DateFrom *time.Time `json:"date_from"` // inclusive, on completed_at
	DateTo   *time.Time `json:"date_to"`

	Limit     int    `json:"limit"`
	Offset    int    `json:"offset"`
	SortBy    string `json:"sort_by"`    // "score", "timespentseconds", "completedat"
	SortOrder string `json:"sort_order"` // "asc", "desc"
}

type StudentFilters struct {
	ParentID *string `json:"parent_id"`
	Limit    int     `json:"limit"`
	Offset   int     `json:"offset"`
}

type PurchaseFilters struct {
	UserID        *string `json:"user_id"`
	LevelID       *uint   `json:"level_id"`
	PaymentStatus *string `json:"payment_status"`
	Limit         int     `json:"limit"`
	Offset        int     `json:"offset"`
}

// ===== SHARED STATISTICS STRUCTS =====

// ProgressAggregates carries the SQL-side rollups for a student.
type ProgressAggregates struct {
	TotalCompleted int64 `json:"total_completed"`
	TotalAttempted int64 `json:"total_attempted"` // distinct activities
	TotalTimeSpent int64 `json:"total_time_spent"`
	TotalRecords   int64 `json:"total_records"`
}

type StageActivityCount struct {
	StageID   uint   `json:"stage_id"`
	StageName string `json:"stage_name"`
	Count     int    `json:"count"`
}

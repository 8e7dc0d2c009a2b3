package models

import (
	"time"
)

// StudentProgress records the first completed attempt of a student on an
// activity. One row per (student, activity); the unique index enforces
// first-attempt-wins even under concurrent submissions.
type StudentProgress struct {
	ID uint `json:"id" gorm:"primaryKey"`

	// StudentID goes NULL when the student profile is deleted so the
	// scoring history survives for reporting.
	StudentID  *string `json:"student_id" gorm:"size:255;uniqueIndex:idx_progress_student_activity;constraint:OnDelete:SET NULL"`
	ActivityID uint    `json:"activity_id" gorm:"not null;index;uniqueIndex:idx_progress_student_activity;constraint:OnDelete:CASCADE"`

	// Scoring
	Score         float64 `json:"score" gorm:"not null"`
	MaxScore      float64 `json:"max_score" gorm:"not null"`
	AttemptNumber int     `json:"attempt_number" gorm:"not null;default:1"`
	// No column default: a gorm default tag would drop an explicit false
	// from the INSERT and let the column default overwrite it.
	IsCompleted bool `json:"is_completed" gorm:"not null"`

	// Timing
	TimeSpentSeconds int       `json:"time_spent_seconds" gorm:"not null;default:0"`
	CompletedAt      time.Time `json:"completed_at" gorm:"not null;index"`

	Notes *string `json:"notes" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student  *Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Activity Activity `json:"activity" gorm:"foreignKey:ActivityID"`
}

func (StudentProgress) TableName() string {
	return "student_progress"
}

// PercentageScore returns the raw percentage, 0 when MaxScore is not positive.
func (p *StudentProgress) PercentageScore() float64 {
	if p.MaxScore <= 0 {
		return 0
	}
	return p.Score / p.MaxScore * 100
}

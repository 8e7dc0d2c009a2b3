package models

import (
	"time"

	"gorm.io/gorm"
)

// Student is a child profile owned by a parent account. Students never
// authenticate themselves; all access goes through the parent.
type Student struct {
	ID       string `json:"id" gorm:"primaryKey;size:255"`
	ParentID string `json:"parent_id" gorm:"not null;index;size:255"`

	Nickname  string  `json:"nickname" gorm:"not null;size:100"`
	AvatarURL *string `json:"avatar_url" gorm:"size:500"`
	BirthYear *int    `json:"birth_year"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Parent   User              `json:"-" gorm:"foreignKey:ParentID"`
	Progress []StudentProgress `json:"progress,omitempty" gorm:"foreignKey:StudentID"`
}

func (Student) TableName() string {
	return "students"
}

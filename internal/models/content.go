package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Content hierarchy: Language -> Level -> Stage -> Activity -> Exercise.
// Display names come in the three app languages (English, Tamil, Sinhala).

type Language struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"not null;size:100"`
	Code string `json:"code" gorm:"uniqueIndex;not null;size:10"` // e.g. "en", "ta", "si"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Levels []Level `json:"levels,omitempty" gorm:"foreignKey:LanguageID"`
}

func (Language) TableName() string {
	return "languages"
}

type Level struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	LanguageID uint `json:"language_id" gorm:"not null;index"`

	NameEn string `json:"name_en" gorm:"not null;size:200"`
	NameTa string `json:"name_ta" gorm:"size:200"`
	NameSi string `json:"name_si" gorm:"size:200"`

	SequenceOrder int  `json:"sequence_order" gorm:"not null;default:1"`
	IsFree        bool `json:"is_free" gorm:"default:false"` // level 1 ships free

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Language Language `json:"-" gorm:"foreignKey:LanguageID"`
	Stages   []Stage  `json:"stages,omitempty" gorm:"foreignKey:LevelID"`
}

func (Level) TableName() string {
	return "levels"
}

type Stage struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	LevelID uint `json:"level_id" gorm:"not null;index"`

	NameEn string `json:"name_en" gorm:"not null;size:200"`
	NameTa string `json:"name_ta" gorm:"size:200"`
	NameSi string `json:"name_si" gorm:"size:200"`

	SequenceOrder int `json:"sequence_order" gorm:"not null;default:1"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Level      Level      `json:"-" gorm:"foreignKey:LevelID"`
	Activities []Activity `json:"activities,omitempty" gorm:"foreignKey:StageID"`
}

func (Stage) TableName() string {
	return "stages"
}

type ActivityType struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:100"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (ActivityType) TableName() string {
	return "activity_types"
}

// MainActivity groups activities inside a stage (e.g. "Letters", "Numbers").
type MainActivity struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	StageID uint `json:"stage_id" gorm:"not null;index"`

	NameEn string `json:"name_en" gorm:"not null;size:200"`
	NameTa string `json:"name_ta" gorm:"size:200"`
	NameSi string `json:"name_si" gorm:"size:200"`

	SequenceOrder int `json:"sequence_order" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Stage Stage `json:"-" gorm:"foreignKey:StageID"`
}

func (MainActivity) TableName() string {
	return "main_activities"
}

type Activity struct {
	ID             uint  `json:"id" gorm:"primaryKey"`
	StageID        uint  `json:"stage_id" gorm:"not null;index"`
	MainActivityID *uint `json:"main_activity_id" gorm:"index"`
	ActivityTypeID *uint `json:"activity_type_id" gorm:"index"`

	NameEn string `json:"name_en" gorm:"not null;size:200"`
	NameTa string `json:"name_ta" gorm:"size:200"`
	NameSi string `json:"name_si" gorm:"size:200"`

	SequenceOrder int            `json:"sequence_order" gorm:"not null;default:1"`
	DetailsJSON   datatypes.JSON `json:"details_json" gorm:"type:jsonb"` // client rendering payload

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Stage        Stage         `json:"stage" gorm:"foreignKey:StageID"`
	MainActivity *MainActivity `json:"-" gorm:"foreignKey:MainActivityID"`
	ActivityType *ActivityType `json:"-" gorm:"foreignKey:ActivityTypeID"`
	Exercises    []Exercise    `json:"exercises,omitempty" gorm:"foreignKey:ActivityID"`
}

func (Activity) TableName() string {
	return "activities"
}

type Exercise struct {
	ID         uint `json:"id" gorm:"primaryKey"`
	ActivityID uint `json:"activity_id" gorm:"not null;index"`

	JSONData      datatypes.JSON `json:"json_data" gorm:"type:jsonb"`
	SequenceOrder int            `json:"sequence_order" gorm:"not null;default:1"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Activity Activity `json:"activity" gorm:"foreignKey:ActivityID;constraint:OnDelete:CASCADE"`
}

func (Exercise) TableName() string {
	return "exercises"
}

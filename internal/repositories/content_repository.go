package repositories

import (
	"context"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"gorm.io/gorm"
)

// LanguageRepository interface for language operations
type LanguageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, language *models.Language) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Language, error)
	GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Language, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Language, error)
}

// LevelRepository interface for level operations
type LevelRepository interface {
	Create(ctx context.Context, tx *gorm.DB, level *models.Level) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Level, error)
	Update(ctx context.Context, tx *gorm.DB, level *models.Level) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	ListByLanguage(ctx context.Context, tx *gorm.DB, languageID uint) ([]*models.Level, error)
	List(ctx context.Context, tx *gorm.DB) ([]*models.Level, error)
	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

// StageRepository interface for stage operations
type StageRepository interface {
	Create(ctx context.Context, tx *gorm.DB, stage *models.Stage) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Stage, error)
	Update(ctx context.Context, tx *gorm.DB, stage *models.Stage) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	ListByLevel(ctx context.Context, tx *gorm.DB, levelID uint) ([]*models.Stage, error)
	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

// ActivityRepository interface for activity operations
type ActivityRepository interface {
	Create(ctx context.Context, tx *gorm.DB, activity *models.Activity) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Activity, error)
	GetByIDWithStage(ctx context.Context, tx *gorm.DB, id uint) (*models.Activity, error) // Include stage -> level
	Update(ctx context.Context, tx *gorm.DB, activity *models.Activity) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	ListByStage(ctx context.Context, tx *gorm.DB, stageID uint) ([]*models.Activity, error)
	ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

// ExerciseRepository interface for exercise operations
type ExerciseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, exercise *models.Exercise) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exercise, error)
	Update(ctx context.Context, tx *gorm.DB, exercise *models.Exercise) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	ListByActivity(ctx context.Context, tx *gorm.DB, activityID uint) ([]*models.Exercise, error)
}

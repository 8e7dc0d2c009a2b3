package repositories

import (
	"context"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"gorm.io/gorm"
)

// ProgressRepository interface for student progress operations
type ProgressRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, progress *models.StudentProgress) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProgress, error)
	GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProgress, error) // Include student, activity -> stage -> level
	Update(ctx context.Context, tx *gorm.DB, progress *models.StudentProgress) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters ProgressFilters) ([]*models.StudentProgress, int64, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.StudentProgress, error)
	GetByStudentAndActivity(ctx context.Context, tx *gorm.DB, studentID string, activityID uint) (*models.StudentProgress, error)

	// Validation and checks
	ExistsByStudentAndActivity(ctx context.Context, tx *gorm.DB, studentID string, activityID uint) (bool, error)

	// Statistics
	GetAggregates(ctx context.Context, tx *gorm.DB, studentID string) (*ProgressAggregates, error)
}

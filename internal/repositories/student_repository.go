package repositories

import (
	"context"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"gorm.io/gorm"
)

// StudentRepository interface for child profile operations
type StudentRepository interface {
	// Basic CRUD operations
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error // soft delete

	// Query operations
	GetByParent(ctx context.Context, tx *gorm.DB, parentID string) ([]*models.Student, error)
	ListIDsByParent(ctx context.Context, tx *gorm.DB, parentID string) ([]string, error)

	// Validation and checks
	ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error)
}

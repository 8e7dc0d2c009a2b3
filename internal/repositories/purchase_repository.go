package repositories

import (
	"context"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"gorm.io/gorm"
)

// PurchaseRepository interface for level purchase operations
type PurchaseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, purchase *models.LevelPurchase) error
	GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string) (*models.LevelPurchase, error)
	Update(ctx context.Context, tx *gorm.DB, purchase *models.LevelPurchase) error

	// Query operations
	List(ctx context.Context, tx *gorm.DB, filters PurchaseFilters) ([]*models.LevelPurchase, int64, error)
	GetByUserAndLevel(ctx context.Context, tx *gorm.DB, userID string, levelID uint) ([]*models.LevelPurchase, error)

	// Validation and checks
	HasCompletedPurchase(ctx context.Context, tx *gorm.DB, userID string, levelID uint) (bool, error)
}

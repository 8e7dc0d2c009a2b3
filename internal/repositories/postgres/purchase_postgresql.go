package postgres

import (
	"context"
	"fmt"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"gorm.io/gorm"
)

type PurchasePostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewPurchasePostgreSQL(db *gorm.DB) repositories.PurchaseRepository {
	return &PurchasePostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (p *PurchasePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *PurchasePostgreSQL) Create(ctx context.Context, tx *gorm.DB, purchase *models.LevelPurchase) error {
	db := p.getDB(tx)
	return db.WithContext(ctx).Create(purchase).Error
}

func (p *PurchasePostgreSQL) GetBySessionID(ctx context.Context, tx *gorm.DB, sessionID string) (*models.LevelPurchase, error) {
	db := p.getDB(tx)
	var purchase models.LevelPurchase
	if err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		First(&purchase).Error; err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (p *PurchasePostgreSQL) Update(ctx context.Context, tx *gorm.DB, purchase *models.LevelPurchase) error {
	db := p.getDB(tx)
	return db.WithContext(ctx).Save(purchase).Error
}

func (p *PurchasePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.PurchaseFilters) ([]*models.LevelPurchase, int64, error) {
	db := p.getDB(tx)
	var purchases []*models.LevelPurchase
	var total int64

	query := db.WithContext(ctx).Model(&models.LevelPurchase{})
	if filters.UserID != nil {
		query = query.Where("user_id = ?", *filters.UserID)
	}
	if filters.LevelID != nil {
		query = query.Where("level_id = ?", *filters.LevelID)
	}
	if filters.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filters.PaymentStatus)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = p.helpers.ApplyPaginationAndSort(query, "purchased_at", "desc", filters.Limit, filters.Offset)

	if err := query.Preload("Level").Find(&purchases).Error; err != nil {
		return nil, 0, err
	}

	return purchases, total, nil
}

func (p *PurchasePostgreSQL) GetByUserAndLevel(ctx context.Context, tx *gorm.DB, userID string, levelID uint) ([]*models.LevelPurchase, error) {
	db := p.getDB(tx)
	var purchases []*models.LevelPurchase
	if err := db.WithContext(ctx).
		Where("user_id = ? AND level_id = ?", userID, levelID).
		Order("purchased_at DESC").
		Find(&purchases).Error; err != nil {
		return nil, fmt.Errorf("failed to get purchases by user and level: %w", err)
	}
	return purchases, nil
}

func (p *PurchasePostgreSQL) HasCompletedPurchase(ctx context.Context, tx *gorm.DB, userID string, levelID uint) (bool, error) {
	db := p.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.LevelPurchase{}).
		Where("user_id = ? AND level_id = ? AND payment_status = ?", userID, levelID, models.PaymentCompleted).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lakshiga/Trilingo-Backend/internal/cache"
	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type ProgressPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewProgressPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ProgressRepository {
	return &ProgressPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (p *ProgressPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return p.db
}

func (p *ProgressPostgreSQL) Create(ctx context.Context, tx *gorm.DB, progress *models.StudentProgress) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Create(progress).Error; err != nil {
		return err
	}

	p.invalidateStudentCache(ctx, progress.StudentID)
	return nil
}

func (p *ProgressPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProgress, error) {
	db := p.getDB(tx)
	cacheKey := fmt.Sprintf("id:%d", id)
	var progress models.StudentProgress

	err := p.cacheManager.Fast.CacheOrExecute(ctx, cacheKey, &progress, cache.FastCacheConfig.TTL, func() (interface{}, error) {
		var dbProgress models.StudentProgress
		if err := db.WithContext(ctx).First(&dbProgress, id).Error; err != nil {
			return nil, err
		}
		return &dbProgress, nil
	})

	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (p *ProgressPostgreSQL) GetByIDWithDetails(ctx context.Context, tx *gorm.DB, id uint) (*models.StudentProgress, error) {
	db := p.getDB(tx)
	var progress models.StudentProgress
	if err := db.WithContext(ctx).
		Preload("Student").
		Preload("Activity").
		Preload("Activity.Stage").
		Preload("Activity.Stage.Level").
		First(&progress, id).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (p *ProgressPostgreSQL) Update(ctx context.Context, tx *gorm.DB, progress *models.StudentProgress) error {
	db := p.getDB(tx)
	if err := db.WithContext(ctx).Save(progress).Error; err != nil {
		return err
	}

	p.cacheManager.Fast.Delete(ctx, fmt.Sprintf("id:%d", progress.ID))
	p.invalidateStudentCache(ctx, progress.StudentID)
	return nil
}

func (p *ProgressPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := p.getDB(tx)

	var progress models.StudentProgress
	if err := db.WithContext(ctx).First(&progress, id).Error; err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(&models.StudentProgress{}, id).Error; err != nil {
		return err
	}

	p.cacheManager.Fast.Delete(ctx, fmt.Sprintf("id:%d", id))
	p.invalidateStudentCache(ctx, progress.StudentID)
	return nil
}

func (p *ProgressPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ProgressFilters) ([]*models.StudentProgress, int64, error) {
	db := p.getDB(tx)
	var records []*models.StudentProgress
	var total int64

	// apply filters first
	query := db.WithContext(ctx).Model(&models.StudentProgress{})
	query = p.helpers.ApplyProgressFilters(query, filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// then sorting and pagination
	query = p.helpers.ApplyProgressSort(query, filters.SortBy, filters.SortOrder)
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	if err := query.
		Preload("Student").
		Preload("Activity").
		Preload("Activity.Stage").
		Preload("Activity.Stage.Level").
		Find(&records).Error; err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (p *ProgressPostgreSQL) GetByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.StudentProgress, error) {
	db := p.getDB(tx)
	var records []*models.StudentProgress
	if err := db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("completed_at DESC").
		Preload("Activity").
		Preload("Activity.Stage").
		Preload("Activity.Stage.Level").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to get progress by student: %w", err)
	}
	return records, nil
}

func (p *ProgressPostgreSQL) GetByStudentAndActivity(ctx context.Context, tx *gorm.DB, studentID string, activityID uint) (*models.StudentProgress, error) {
	db := p.getDB(tx)
	var progress models.StudentProgress
	if err := db.WithContext(ctx).
		Where("student_id = ? AND activity_id = ?", studentID, activityID).
		First(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func (p *ProgressPostgreSQL) ExistsByStudentAndActivity(ctx context.Context, tx *gorm.DB, studentID string, activityID uint) (bool, error) {
	db := p.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.StudentProgress{}).
		Where("student_id = ? AND activity_id = ?", studentID, activityID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (p *ProgressPostgreSQL) GetAggregates(ctx context.Context, tx *gorm.DB, studentID string) (*repositories.ProgressAggregates, error) {
	db := p.getDB(tx)
	var aggregates repositories.ProgressAggregates

	err := db.WithContext(ctx).
		Model(&models.StudentProgress{}).
		Select(`
			COUNT(*) as total_records,
			COUNT(CASE WHEN is_completed THEN 1 END) as total_completed,
			COUNT(DISTINCT activity_id) as total_attempted,
			COALESCE(SUM(time_spent_seconds), 0) as total_time_spent`).
		Where("student_id = ?", studentID).
		Scan(&aggregates).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get progress aggregates: %w", err)
	}

	return &aggregates, nil
}

// invalidateStudentCache drops the cached summary and stats for a student
// after any write touching their records.
func (p *ProgressPostgreSQL) invalidateStudentCache(ctx context.Context, studentID *string) {
	if studentID == nil {
		return
	}
	p.cacheManager.Stats.InvalidatePattern(ctx, fmt.Sprintf("student:%s:*", *studentID))
}

// IsDuplicateProgress reports whether err is the unique index violation for
// a repeated (student, activity) submission.
func IsDuplicateProgress(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

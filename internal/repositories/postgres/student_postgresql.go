package postgres

import (
	"context"
	"fmt"

	"github.com/Lakshiga/Trilingo-Backend/internal/cache"
	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type StudentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewStudentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.StudentRepository {
	return &StudentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (s *StudentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(student).Error; err != nil {
		return err
	}

	s.cacheManager.Fast.Delete(ctx, fmt.Sprintf("parent:%s:students", student.ParentID))
	return nil
}

func (s *StudentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error) {
	db := s.getDB(tx)
	var student models.Student
	if err := db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &student, nil
}

func (s *StudentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Save(student).Error; err != nil {
		return err
	}

	s.cacheManager.Fast.Delete(ctx, fmt.Sprintf("parent:%s:students", student.ParentID))
	return nil
}

func (s *StudentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	db := s.getDB(tx)

	var student models.Student
	if err := db.WithContext(ctx).First(&student, "id = ?", id).Error; err != nil {
		return err
	}

	// Soft delete; progress rows keep their student_id until the row is
	// hard-deleted, at which point the FK sets it NULL.
	if err := db.WithContext(ctx).Delete(&student).Error; err != nil {
		return err
	}

	s.cacheManager.Fast.Delete(ctx, fmt.Sprintf("parent:%s:students", student.ParentID))
	return nil
}

func (s *StudentPostgreSQL) GetByParent(ctx context.Context, tx *gorm.DB, parentID string) ([]*models.Student, error) {
	db := s.getDB(tx)
	var students []*models.Student
	if err := db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC").
		Find(&students).Error; err != nil {
		return nil, fmt.Errorf("failed to get students by parent: %w", err)
	}
	return students, nil
}

func (s *StudentPostgreSQL) ListIDsByParent(ctx context.Context, tx *gorm.DB, parentID string) ([]string, error) {
	db := s.getDB(tx)
	var ids []string
	if err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("parent_id = ?", parentID).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list student ids by parent: %w", err)
	}
	return ids, nil
}

func (s *StudentPostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id string) (bool, error) {
	db := s.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

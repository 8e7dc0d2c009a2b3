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

// Content repositories share a cache manager; reads on the learning path are
// hot and the data changes only through admin tooling.

// ===== LANGUAGE =====

type LanguagePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewLanguagePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.LanguageRepository {
	return &LanguagePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (l *LanguagePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return l.db
}

func (l *LanguagePostgreSQL) Create(ctx context.Context, tx *gorm.DB, language *models.Language) error {
	db := l.getDB(tx)
	return db.WithContext(ctx).Create(language).Error
}

func (l *LanguagePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Language, error) {
	db := l.getDB(tx)
	var language models.Language
	if err := db.WithContext(ctx).First(&language, id).Error; err != nil {
		return nil, err
	}
	return &language, nil
}

func (l *LanguagePostgreSQL) GetByCode(ctx context.Context, tx *gorm.DB, code string) (*models.Language, error) {
	db := l.getDB(tx)
	var language models.Language
	if err := db.WithContext(ctx).Where("code = ?", code).First(&language).Error; err != nil {
		return nil, err
	}
	return &language, nil
}

func (l *LanguagePostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Language, error) {
	db := l.getDB(tx)
	var languages []*models.Language
	cacheKey := "list:languages"

	err := l.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &languages, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbLanguages []*models.Language
		if err := db.WithContext(ctx).Order("id ASC").Find(&dbLanguages).Error; err != nil {
			return nil, err
		}
		return dbLanguages, nil
	})

	return languages, err
}

// ===== LEVEL =====

type LevelPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewLevelPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.LevelRepository {
	return &LevelPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (l *LevelPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return l.db
}

func (l *LevelPostgreSQL) Create(ctx context.Context, tx *gorm.DB, level *models.Level) error {
	db := l.getDB(tx)
	if err := db.WithContext(ctx).Create(level).Error; err != nil {
		return err
	}
	l.cacheManager.Content.InvalidatePattern(ctx, "list:*")
	return nil
}

func (l *LevelPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Level, error) {
	db := l.getDB(tx)
	var level models.Level
	if err := db.WithContext(ctx).First(&level, id).Error; err != nil {
		return nil, err
	}
	return &level, nil
}

func (l *LevelPostgreSQL) Update(ctx context.Context, tx *gorm.DB, level *models.Level) error {
	db := l.getDB(tx)
	if err := db.WithContext(ctx).Save(level).Error; err != nil {
		return err
	}
	l.cacheManager.Content.InvalidatePattern(ctx, "list:*")
	return nil
}

func (l *LevelPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := l.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Level{}, id).Error; err != nil {
		return err
	}
	l.cacheManager.Content.InvalidatePattern(ctx, "list:*")
	return nil
}

func (l *LevelPostgreSQL) ListByLanguage(ctx context.Context, tx *gorm.DB, languageID uint) ([]*models.Level, error) {
	db := l.getDB(tx)
	var levels []*models.Level
	cacheKey := fmt.Sprintf("list:levels:language:%d", languageID)

	err := l.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &levels, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbLevels []*models.Level
		if err := db.WithContext(ctx).
			Where("language_id = ?", languageID).
			Order("sequence_order ASC").
			Find(&dbLevels).Error; err != nil {
			return nil, err
		}
		return dbLevels, nil
	})

	return levels, err
}

func (l *LevelPostgreSQL) List(ctx context.Context, tx *gorm.DB) ([]*models.Level, error) {
	db := l.getDB(tx)
	var levels []*models.Level
	if err := db.WithContext(ctx).Order("sequence_order ASC").Find(&levels).Error; err != nil {
		return nil, err
	}
	return levels, nil
}

func (l *LevelPostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := l.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Level{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ===== STAGE =====

type StagePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewStagePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.StageRepository {
	return &StagePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (s *StagePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *StagePostgreSQL) Create(ctx context.Context, tx *gorm.DB, stage *models.Stage) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Create(stage).Error; err != nil {
		return err
	}
	s.cacheManager.Content.InvalidatePattern(ctx, "list:*")
	return nil
}

func (s *StagePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Stage, error) {
	db := s.getDB(tx)
	var stage models.Stage
	if err := db.WithContext(ctx).First(&stage, id).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

func (s *StagePostgreSQL) Update(ctx context.Context, tx *gorm.DB, stage *models.Stage) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Save(stage).Error; err != nil {
		return err
	}
	s.cacheManager.InvalidateContent(ctx, stage.ID)
	return nil
}

func (s *StagePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := s.getDB(tx)
	if err := db.WithContext(ctx).Delete(&models.Stage{}, id).Error; err != nil {
		return err
	}
	s.cacheManager.InvalidateContent(ctx, id)
	return nil
}

func (s *StagePostgreSQL) ListByLevel(ctx context.Context, tx *gorm.DB, levelID uint) ([]*models.Stage, error) {
	db := s.getDB(tx)
	var stages []*models.Stage
	cacheKey := fmt.Sprintf("list:stages:level:%d", levelID)

	err := s.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &stages, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbStages []*models.Stage
		if err := db.WithContext(ctx).
			Where("level_id = ?", levelID).
			Order("sequence_order ASC").
			Find(&dbStages).Error; err != nil {
			return nil, err
		}
		return dbStages, nil
	})

	return stages, err
}

func (s *StagePostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := s.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Stage{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ===== ACTIVITY =====

type ActivityPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewActivityPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ActivityRepository {
	return &ActivityPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (a *ActivityPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *ActivityPostgreSQL) Create(ctx context.Context, tx *gorm.DB, activity *models.Activity) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Create(activity).Error; err != nil {
		return err
	}
	cache.InvalidateContentCache(ctx, a.cacheManager, activity.ID, activity.StageID)
	return nil
}

func (a *ActivityPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Activity, error) {
	db := a.getDB(tx)
	cacheKey := fmt.Sprintf("activity:%d", id)
	var activity models.Activity

	err := a.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &activity, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbActivity models.Activity
		if err := db.WithContext(ctx).First(&dbActivity, id).Error; err != nil {
			return nil, err
		}
		return &dbActivity, nil
	})

	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (a *ActivityPostgreSQL) GetByIDWithStage(ctx context.Context, tx *gorm.DB, id uint) (*models.Activity, error) {
	db := a.getDB(tx)
	var activity models.Activity
	if err := db.WithContext(ctx).
		Preload("Stage").
		Preload("Stage.Level").
		First(&activity, id).Error; err != nil {
		return nil, err
	}
	return &activity, nil
}

func (a *ActivityPostgreSQL) Update(ctx context.Context, tx *gorm.DB, activity *models.Activity) error {
	db := a.getDB(tx)
	if err := db.WithContext(ctx).Save(activity).Error; err != nil {
		return err
	}
	cache.InvalidateContentCache(ctx, a.cacheManager, activity.ID, activity.StageID)
	return nil
}

func (a *ActivityPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := a.getDB(tx)

	var activity models.Activity
	if err := db.WithContext(ctx).First(&activity, id).Error; err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(&activity).Error; err != nil {
		return err
	}

	cache.InvalidateContentCache(ctx, a.cacheManager, id, activity.StageID)
	return nil
}

func (a *ActivityPostgreSQL) ListByStage(ctx context.Context, tx *gorm.DB, stageID uint) ([]*models.Activity, error) {
	db := a.getDB(tx)
	var activities []*models.Activity
	cacheKey := fmt.Sprintf("stage:%d:activities", stageID)

	err := a.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &activities, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbActivities []*models.Activity
		if err := db.WithContext(ctx).
			Where("stage_id = ?", stageID).
			Order("sequence_order ASC").
			Find(&dbActivities).Error; err != nil {
			return nil, err
		}
		return dbActivities, nil
	})

	return activities, err
}

func (a *ActivityPostgreSQL) ExistsByID(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	db := a.getDB(tx)
	var count int64
	if err := db.WithContext(ctx).Model(&models.Activity{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ===== EXERCISE =====

type ExercisePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewExercisePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ExerciseRepository {
	return &ExercisePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (e *ExercisePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *ExercisePostgreSQL) Create(ctx context.Context, tx *gorm.DB, exercise *models.Exercise) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Create(exercise).Error; err != nil {
		return err
	}
	e.cacheManager.Content.Delete(ctx, fmt.Sprintf("activity:%d:exercises", exercise.ActivityID))
	return nil
}

func (e *ExercisePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exercise, error) {
	db := e.getDB(tx)
	var exercise models.Exercise
	if err := db.WithContext(ctx).First(&exercise, id).Error; err != nil {
		return nil, err
	}
	return &exercise, nil
}

func (e *ExercisePostgreSQL) Update(ctx context.Context, tx *gorm.DB, exercise *models.Exercise) error {
	db := e.getDB(tx)
	if err := db.WithContext(ctx).Save(exercise).Error; err != nil {
		return err
	}
	e.cacheManager.Content.Delete(ctx, fmt.Sprintf("activity:%d:exercises", exercise.ActivityID))
	return nil
}

func (e *ExercisePostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	db := e.getDB(tx)

	var exercise models.Exercise
	if err := db.WithContext(ctx).First(&exercise, id).Error; err != nil {
		return err
	}

	if err := db.WithContext(ctx).Delete(&exercise).Error; err != nil {
		return err
	}

	e.cacheManager.Content.Delete(ctx, fmt.Sprintf("activity:%d:exercises", exercise.ActivityID))
	return nil
}

func (e *ExercisePostgreSQL) ListByActivity(ctx context.Context, tx *gorm.DB, activityID uint) ([]*models.Exercise, error) {
	db := e.getDB(tx)
	var exercises []*models.Exercise
	cacheKey := fmt.Sprintf("activity:%d:exercises", activityID)

	err := e.cacheManager.Content.CacheOrExecute(ctx, cacheKey, &exercises, cache.ContentCacheConfig.TTL, func() (interface{}, error) {
		var dbExercises []*models.Exercise
		if err := db.WithContext(ctx).
			Where("activity_id = ?", activityID).
			Order("sequence_order ASC").
			Find(&dbExercises).Error; err != nil {
			return nil, err
		}
		return dbExercises, nil
	})

	return exercises, err
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Lakshiga/Trilingo-Backend/internal/cache"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories/casdoor"
)

// PostgreSQLRepository implements the main Repository interface
type PostgreSQLRepository struct {
	db           *gorm.DB
	redisClient  *redis.Client
	cacheManager *cache.CacheManager

	// Repository instances
	progress repositories.ProgressRepository
	student  repositories.StudentRepository
	language repositories.LanguageRepository
	level    repositories.LevelRepository
	stage    repositories.StageRepository
	activity repositories.ActivityRepository
	exercise repositories.ExerciseRepository
	purchase repositories.PurchaseRepository
	user     repositories.UserRepository
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB            *gorm.DB
	RedisClient   *redis.Client
	CasdoorConfig casdoor.CasdoorConfig
}

// NewPostgreSQLRepository creates a new repository manager with all sub-repositories
func NewPostgreSQLRepository(config RepositoryConfig) repositories.Repository {
	cacheManager := cache.NewCacheManager(config.RedisClient)

	repo := &PostgreSQLRepository{
		db:           config.DB,
		redisClient:  config.RedisClient,
		cacheManager: cacheManager,
	}

	// Initialize sub-repositories with caching
	repo.progress = NewProgressPostgreSQL(config.DB, config.RedisClient)
	repo.student = NewStudentPostgreSQL(config.DB, config.RedisClient)
	repo.language = NewLanguagePostgreSQL(config.DB, config.RedisClient)
	repo.level = NewLevelPostgreSQL(config.DB, config.RedisClient)
	repo.stage = NewStagePostgreSQL(config.DB, config.RedisClient)
	repo.activity = NewActivityPostgreSQL(config.DB, config.RedisClient)
	repo.exercise = NewExercisePostgreSQL(config.DB, config.RedisClient)
	repo.purchase = NewPurchasePostgreSQL(config.DB)

	// User repository uses Casdoor
	repo.user = casdoor.NewUserCasdoor(config.CasdoorConfig, config.RedisClient)

	return repo
}

// Progress returns the progress repository
func (r *PostgreSQLRepository) Progress() repositories.ProgressRepository {
	return r.progress
}

// Student returns the student repository
func (r *PostgreSQLRepository) Student() repositories.StudentRepository {
	return r.student
}

// Language returns the language repository
func (r *PostgreSQLRepository) Language() repositories.LanguageRepository {
	return r.language
}

// Level returns the level repository
func (r *PostgreSQLRepository) Level() repositories.LevelRepository {
	return r.level
}

// Stage returns the stage repository
func (r *PostgreSQLRepository) Stage() repositories.StageRepository {
	return r.stage
}

// Activity returns the activity repository
func (r *PostgreSQLRepository) Activity() repositories.ActivityRepository {
	return r.activity
}

// Exercise returns the exercise repository
func (r *PostgreSQLRepository) Exercise() repositories.ExerciseRepository {
	return r.exercise
}

// Purchase returns the level purchase repository
func (r *PostgreSQLRepository) Purchase() repositories.PurchaseRepository {
	return r.purchase
}

// User returns the user repository
func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.user
}

// WithTransaction executes a function within a database transaction
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Create a new repository instance with the transaction
		txRepo := &PostgreSQLRepository{
			db:           tx,
			redisClient:  r.redisClient,
			cacheManager: r.cacheManager,
		}

		// Initialize sub-repositories with transaction
		txRepo.progress = NewProgressPostgreSQL(tx, r.redisClient)
		txRepo.student = NewStudentPostgreSQL(tx, r.redisClient)
		txRepo.language = NewLanguagePostgreSQL(tx, r.redisClient)
		txRepo.level = NewLevelPostgreSQL(tx, r.redisClient)
		txRepo.stage = NewStagePostgreSQL(tx, r.redisClient)
		txRepo.activity = NewActivityPostgreSQL(tx, r.redisClient)
		txRepo.exercise = NewExercisePostgreSQL(tx, r.redisClient)
		txRepo.purchase = NewPurchasePostgreSQL(tx)

		// User repository doesn't need transaction (it's external)
		txRepo.user = r.user

		return fn(txRepo)
	})
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.redisClient != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes all connections
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	if r.redisClient != nil {
		if err := r.redisClient.Close(); err != nil {
			return fmt.Errorf("failed to close Redis: %w", err)
		}
	}

	return nil
}

// RepositoryManager implements the RepositoryManager interface
type RepositoryManager struct {
	config RepositoryConfig
	repo   repositories.Repository
}

// NewRepositoryManager creates a new repository manager
func NewRepositoryManager(config RepositoryConfig) repositories.RepositoryManager {
	return &RepositoryManager{
		config: config,
	}
}

// Initialize initializes all repositories and connections
func (rm *RepositoryManager) Initialize() error {
	if rm.config.DB == nil {
		return fmt.Errorf("database connection is required")
	}

	sqlDB, err := rm.config.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}

	if rm.config.RedisClient != nil {
		if _, err := rm.config.RedisClient.Ping(ctx).Result(); err != nil {
			return fmt.Errorf("Redis connection failed: %w", err)
		}
	}

	rm.repo = NewPostgreSQLRepository(rm.config)

	return nil
}

// GetRepository returns the repository instance
func (rm *RepositoryManager) GetRepository() repositories.Repository {
	return rm.repo
}

// HealthCheck checks the health of all repository connections
func (rm *RepositoryManager) HealthCheck(ctx context.Context) error {
	if rm.repo == nil {
		return fmt.Errorf("repository not initialized")
	}

	return rm.repo.Ping(ctx)
}

// Shutdown gracefully shuts down all repository connections
func (rm *RepositoryManager) Shutdown(ctx context.Context) error {
	if rm.repo == nil {
		return nil
	}

	return rm.repo.Close()
}

// CacheStats returns cache statistics for monitoring
func (r *PostgreSQLRepository) CacheStats(ctx context.Context) (map[string]interface{}, error) {
	if r.redisClient == nil {
		return map[string]interface{}{
			"cache_enabled": false,
		}, nil
	}

	stats := make(map[string]interface{})
	stats["cache_enabled"] = true

	info, err := r.redisClient.Info(ctx, "memory", "stats").Result()
	if err != nil {
		return stats, fmt.Errorf("failed to get cache info: %w", err)
	}

	stats["redis_info"] = info

	prefixes := []string{"progress:", "content:", "user:", "stats:", "exists:", "fast:"}
	for _, prefix := range prefixes {
		keys, err := r.redisClient.Keys(ctx, prefix+"*").Result()
		if err == nil {
			stats[prefix+"count"] = len(keys)
		}
	}

	return stats, nil
}

// WarmupCache preloads frequently accessed data into cache
func (r *PostgreSQLRepository) WarmupCache(ctx context.Context) error {
	if r.cacheManager == nil {
		return nil
	}

	return r.cacheManager.WarmupCache(ctx)
}

// ClearCache clears all cache data (use with caution)
func (r *PostgreSQLRepository) ClearCache(ctx context.Context) error {
	if r.cacheManager == nil {
		return nil
	}

	return r.cacheManager.ClearAll(ctx)
}

package pkg

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Lakshiga/Trilingo-Backend/internal/config"
	"github.com/Lakshiga/Trilingo-Backend/internal/models"
)

// InitDatabase opens the PostgreSQL connection and migrates the schema.
// TranslateError is required so unique index violations surface as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func InitDatabase(cfg *config.Config) (*gorm.DB, error) {
	gormLogLevel := logger.Warn
	if cfg.IsProduction() {
		gormLogLevel = logger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(gormLogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Language{},
		&models.Level{},
		&models.Stage{},
		&models.ActivityType{},
		&models.MainActivity{},
		&models.Activity{},
		&models.Exercise{},
		&models.StudentProgress{},
		&models.LevelPurchase{},
	)
}

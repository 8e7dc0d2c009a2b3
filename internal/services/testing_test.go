package services

import (
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories/postgres"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

// setupTestDB opens an isolated in-memory database with the same error
// translation the production setup uses, so unique index violations
// surface as gorm.ErrDuplicatedKey here too.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// A pooled in-memory sqlite connection would get its own empty database.
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
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
	))

	return db
}

func newTestRepo(db *gorm.DB) repositories.Repository {
	return postgres.NewPostgreSQLRepository(postgres.RepositoryConfig{DB: db})
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type contentSeed struct {
	Language   models.Language
	Level      models.Level
	Stage      models.Stage
	Activities []models.Activity
}

// seedContent creates one language/level/stage chain with the requested
// number of activities.
func seedContent(t *testing.T, db *gorm.DB, activityCount int) *contentSeed {
	t.Helper()

	seed := &contentSeed{
		Language: models.Language{Name: "English", Code: "en"},
	}
	require.NoError(t, db.Create(&seed.Language).Error)

	seed.Level = models.Level{LanguageID: seed.Language.ID, NameEn: "Level 1", SequenceOrder: 1, IsFree: true}
	require.NoError(t, db.Create(&seed.Level).Error)

	seed.Stage = models.Stage{LevelID: seed.Level.ID, NameEn: "Letters", SequenceOrder: 1}
	require.NoError(t, db.Create(&seed.Stage).Error)

	for i := 0; i < activityCount; i++ {
		activity := models.Activity{
			StageID:       seed.Stage.ID,
			NameEn:        fmt.Sprintf("Activity %d", i+1),
			SequenceOrder: i + 1,
		}
		require.NoError(t, db.Create(&activity).Error)
		seed.Activities = append(seed.Activities, activity)
	}

	return seed
}

func seedParent(t *testing.T, db *gorm.DB, id string) *models.User {
	t.Helper()

	parent := &models.User{
		ID:       id,
		FullName: "Parent " + id,
		Email:    id + "@example.com",
		Role:     models.RoleParent,
	}
	require.NoError(t, db.Create(parent).Error)
	return parent
}

func seedStudent(t *testing.T, db *gorm.DB, parentID, nickname string) *models.Student {
	t.Helper()

	student := &models.Student{
		ID:       uuid.New().String(),
		ParentID: parentID,
		Nickname: nickname,
	}
	require.NoError(t, db.Create(student).Error)
	return student
}

type progressTestEnv struct {
	db      *gorm.DB
	repo    repositories.Repository
	service ProgressService
}

func newProgressTestEnv(t *testing.T) *progressTestEnv {
	t.Helper()

	db := setupTestDB(t)
	repo := newTestRepo(db)
	return &progressTestEnv{
		db:      db,
		repo:    repo,
		service: NewProgressService(repo, db, testLogger(), validator.New(), nil),
	}
}

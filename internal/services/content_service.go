package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

type contentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	progress  ProgressService
}

func NewContentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, progress ProgressService) ContentService {
	return &contentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		progress:  progress,
	}
}

// ===== LANGUAGES =====

func (s *contentService) ListLanguages(ctx context.Context) ([]*models.Language, error) {
	languages, err := s.repo.Language().List(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("failed to list languages: %w", err)
	}
	return languages, nil
}

// ===== LEVELS =====

func (s *contentService) CreateLevel(ctx context.Context, req *CreateLevelRequest) (*models.Level, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	if _, err := s.repo.Language().GetByID(ctx, s.db, req.LanguageID); err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLanguageNotFound
		}
		return nil, fmt.Errorf("failed to get language: %w", err)
	}

	level := &models.Level{
		LanguageID:    req.LanguageID,
		NameEn:        req.NameEn,
		NameTa:        req.NameTa,
		NameSi:        req.NameSi,
		SequenceOrder: req.SequenceOrder,
		IsFree:        req.IsFree,
	}

	if err := s.repo.Level().Create(ctx, s.db, level); err != nil {
		return nil, fmt.Errorf("failed to create level: %w", err)
	}

	s.logger.Info("Level created", "level_id", level.ID, "language_id", level.LanguageID)
	return level, nil
}

func (s *contentService) GetLevel(ctx context.Context, id uint) (*models.Level, error) {
	level, err := s.repo.Level().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}
	return level, nil
}

func (s *contentService) ListLevels(ctx context.Context, languageID *uint) ([]*models.Level, error) {
	var levels []*models.Level
	var err error

	if languageID != nil {
		levels, err = s.repo.Level().ListByLanguage(ctx, s.db, *languageID)
	} else {
		levels, err = s.repo.Level().List(ctx, s.db)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list levels: %w", err)
	}
	return levels, nil
}

func (s *contentService) UpdateLevel(ctx context.Context, id uint, req *UpdateLevelRequest) (*models.Level, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	level, err := s.GetLevel(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NameEn != nil {
		level.NameEn = *req.NameEn
	}
	if req.NameTa != nil {
		level.NameTa = *req.NameTa
	}
	if req.NameSi != nil {
		level.NameSi = *req.NameSi
	}
	if req.SequenceOrder != nil {
		level.SequenceOrder = *req.SequenceOrder
	}
	if req.IsFree != nil {
		level.IsFree = *req.IsFree
	}

	if err := s.repo.Level().Update(ctx, s.db, level); err != nil {
		return nil, fmt.Errorf("failed to update level: %w", err)
	}
	return level, nil
}

func (s *contentService) DeleteLevel(ctx context.Context, id uint) error {
	if _, err := s.GetLevel(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Level().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete level: %w", err)
	}
	return nil
}

// ===== STAGES =====

func (s *contentService) CreateStage(ctx context.Context, req *CreateStageRequest) (*models.Stage, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Level().ExistsByID(ctx, s.db, req.LevelID)
	if err != nil {
		return nil, fmt.Errorf("failed to check level: %w", err)
	}
	if !exists {
		return nil, ErrLevelNotFound
	}

	stage := &models.Stage{
		LevelID:       req.LevelID,
		NameEn:        req.NameEn,
		NameTa:        req.NameTa,
		NameSi:        req.NameSi,
		SequenceOrder: req.SequenceOrder,
	}

	if err := s.repo.Stage().Create(ctx, s.db, stage); err != nil {
		return nil, fmt.Errorf("failed to create stage: %w", err)
	}

	s.logger.Info("Stage created", "stage_id", stage.ID, "level_id", stage.LevelID)
	return stage, nil
}

func (s *contentService) GetStage(ctx context.Context, id uint) (*models.Stage, error) {
	stage, err := s.repo.Stage().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStageNotFound
		}
		return nil, fmt.Errorf("failed to get stage: %w", err)
	}
	return stage, nil
}

func (s *contentService) ListStagesByLevel(ctx context.Context, levelID uint) ([]*models.Stage, error) {
	exists, err := s.repo.Level().ExistsByID(ctx, s.db, levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to check level: %w", err)
	}
	if !exists {
		return nil, ErrLevelNotFound
	}

	stages, err := s.repo.Stage().ListByLevel(ctx, s.db, levelID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stages: %w", err)
	}
	return stages, nil
}

func (s *contentService) UpdateStage(ctx context.Context, id uint, req *UpdateStageRequest) (*models.Stage, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	stage, err := s.GetStage(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.NameEn != nil {
		stage.NameEn = *req.NameEn
	}
	if req.NameTa != nil {
		stage.NameTa = *req.NameTa
	}
	if req.NameSi != nil {
		stage.NameSi = *req.NameSi
	}
	if req.SequenceOrder != nil {
		stage.SequenceOrder = *req.SequenceOrder
	}

	if err := s.repo.Stage().Update(ctx, s.db, stage); err != nil {
		return nil, fmt.Errorf("failed to update stage: %w", err)
	}
	return stage, nil
}

func (s *contentService) DeleteStage(ctx context.Context, id uint) error {
	if _, err := s.GetStage(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Stage().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete stage: %w", err)
	}
	return nil
}

// ===== ACTIVITIES =====

func (s *contentService) CreateActivity(ctx context.Context, req *CreateActivityRequest) (*models.Activity, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Stage().ExistsByID(ctx, s.db, req.StageID)
	if err != nil {
		return nil, fmt.Errorf("failed to check stage: %w", err)
	}
	if !exists {
		return nil, ErrStageNotFound
	}

	activity := &models.Activity{
		StageID:        req.StageID,
		MainActivityID: req.MainActivityID,
		ActivityTypeID: req.ActivityTypeID,
		NameEn:         req.NameEn,
		NameTa:         req.NameTa,
		NameSi:         req.NameSi,
		SequenceOrder:  req.SequenceOrder,
		DetailsJSON:    datatypes.JSON(req.DetailsJSON),
	}

	if err := s.repo.Activity().Create(ctx, s.db, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	s.logger.Info("Activity created", "activity_id", activity.ID, "stage_id", activity.StageID)
	return activity, nil
}

func (s *contentService) GetActivity(ctx context.Context, id uint) (*models.Activity, error) {
	activity, err := s.repo.Activity().GetByIDWithStage(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	return activity, nil
}

func (s *contentService) ListActivitiesByStage(ctx context.Context, stageID uint) ([]*models.Activity, error) {
	exists, err := s.repo.Stage().ExistsByID(ctx, s.db, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to check stage: %w", err)
	}
	if !exists {
		return nil, ErrStageNotFound
	}

	activities, err := s.repo.Activity().ListByStage(ctx, s.db, stageID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

func (s *contentService) UpdateActivity(ctx context.Context, id uint, req *UpdateActivityRequest) (*models.Activity, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	activity, err := s.repo.Activity().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrActivityNotFound
		}
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	if req.NameEn != nil {
		activity.NameEn = *req.NameEn
	}
	if req.NameTa != nil {
		activity.NameTa = *req.NameTa
	}
	if req.NameSi != nil {
		activity.NameSi = *req.NameSi
	}
	if req.SequenceOrder != nil {
		activity.SequenceOrder = *req.SequenceOrder
	}
	if len(req.DetailsJSON) > 0 {
		activity.DetailsJSON = datatypes.JSON(req.DetailsJSON)
	}

	if err := s.repo.Activity().Update(ctx, s.db, activity); err != nil {
		return nil, fmt.Errorf("failed to update activity: %w", err)
	}
	return activity, nil
}

func (s *contentService) DeleteActivity(ctx context.Context, id uint) error {
	if _, err := s.repo.Activity().GetByID(ctx, s.db, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrActivityNotFound
		}
		return fmt.Errorf("failed to get activity: %w", err)
	}
	if err := s.repo.Activity().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete activity: %w", err)
	}
	return nil
}

// ===== EXERCISES =====

func (s *contentService) CreateExercise(ctx context.Context, req *CreateExerciseRequest) (*models.Exercise, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exists, err := s.repo.Activity().ExistsByID(ctx, s.db, req.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check activity: %w", err)
	}
	if !exists {
		return nil, ErrActivityNotFound
	}

	exercise := &models.Exercise{
		ActivityID:    req.ActivityID,
		JSONData:      datatypes.JSON(req.JSONData),
		SequenceOrder: req.SequenceOrder,
	}

	if err := s.repo.Exercise().Create(ctx, s.db, exercise); err != nil {
		return nil, fmt.Errorf("failed to create exercise: %w", err)
	}

	s.logger.Info("Exercise created", "exercise_id", exercise.ID, "activity_id", exercise.ActivityID)
	return exercise, nil
}

func (s *contentService) GetExercise(ctx context.Context, id uint) (*models.Exercise, error) {
	exercise, err := s.repo.Exercise().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExerciseNotFound
		}
		return nil, fmt.Errorf("failed to get exercise: %w", err)
	}
	return exercise, nil
}

func (s *contentService) ListExercisesByActivity(ctx context.Context, activityID uint) ([]*models.Exercise, error) {
	exists, err := s.repo.Activity().ExistsByID(ctx, s.db, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check activity: %w", err)
	}
	if !exists {
		return nil, ErrActivityNotFound
	}

	exercises, err := s.repo.Exercise().ListByActivity(ctx, s.db, activityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list exercises: %w", err)
	}
	return exercises, nil
}

func (s *contentService) UpdateExercise(ctx context.Context, id uint, req *UpdateExerciseRequest) (*models.Exercise, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	exercise, err := s.GetExercise(ctx, id)
	if err != nil {
		return nil, err
	}

	if len(req.JSONData) > 0 {
		exercise.JSONData = datatypes.JSON(req.JSONData)
	}
	if req.SequenceOrder != nil {
		exercise.SequenceOrder = *req.SequenceOrder
	}

	if err := s.repo.Exercise().Update(ctx, s.db, exercise); err != nil {
		return nil, fmt.Errorf("failed to update exercise: %w", err)
	}
	return exercise, nil
}

func (s *contentService) DeleteExercise(ctx context.Context, id uint) error {
	if _, err := s.GetExercise(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Exercise().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete exercise: %w", err)
	}
	return nil
}

// ===== EXERCISE SUBMISSIONS =====

// SubmitExerciseResult resolves the exercise to its activity and records the
// result through the progress pipeline, so the first-attempt rule and the
// ownership guard apply the same way as a direct submission.
func (s *contentService) SubmitExerciseResult(ctx context.Context, studentID string, req *models.SubmitExerciseResultRequest, parentID string) (*ProgressResponse, error) {
	if verrs := s.validator.Business().ValidateExerciseResult(req); len(verrs) > 0 {
		return nil, verrs
	}

	exercise, err := s.GetExercise(ctx, req.ExerciseID)
	if err != nil {
		return nil, err
	}

	progressReq := &models.CreateProgressRequest{
		StudentID:        studentID,
		ActivityID:       exercise.ActivityID,
		Score:            req.Score,
		MaxScore:         req.MaxScore,
		TimeSpentSeconds: req.TimeTakenInSeconds,
	}

	return s.progress.Create(ctx, progressReq, parentID)
}

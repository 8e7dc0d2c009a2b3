package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/utils"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

type progressService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	notifier  NotificationEventService // optional, nil when events are disabled
}

func NewProgressService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifier NotificationEventService) ProgressService {
	return &progressService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *progressService) Create(ctx context.Context, req *models.CreateProgressRequest, parentID string) (*ProgressResponse, error) {
	s.logger.Info("Recording student progress",
		"student_id", req.StudentID,
		"activity_id", req.ActivityID,
		"parent_id", parentID)

	if verrs := s.validator.Business().ValidateProgressCreate(req); len(verrs) > 0 {
		return nil, verrs
	}

	if err := s.ValidateStudentOwnership(ctx, req.StudentID, parentID); err != nil {
		return nil, err
	}

	exists, err := s.repo.Activity().ExistsByID(ctx, s.db, req.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check activity: %w", err)
	}
	if !exists {
		return nil, ErrActivityNotFound
	}

	recorded, err := s.repo.Progress().ExistsByStudentAndActivity(ctx, s.db, req.StudentID, req.ActivityID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing progress: %w", err)
	}
	if recorded {
		return nil, ErrProgressAlreadyRecorded
	}

	isCompleted := true
	if req.IsCompleted != nil {
		isCompleted = *req.IsCompleted
	}

	progress := &models.StudentProgress{
		StudentID:        &req.StudentID,
		ActivityID:       req.ActivityID,
		Score:            req.Score,
		MaxScore:         req.MaxScore,
		AttemptNumber:    1,
		IsCompleted:      isCompleted,
		TimeSpentSeconds: req.TimeSpentSeconds,
		CompletedAt:      time.Now().UTC(),
		Notes:            req.Notes,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		return txRepo.Progress().Create(ctx, nil, progress)
	})
	if err != nil {
		// A concurrent submission can slip past the existence check; the
		// unique index turns the race into a duplicate key error.
		if repositories.IsDuplicateError(err) {
			return nil, ErrProgressAlreadyRecorded
		}
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}

	s.logger.Info("Progress recorded",
		"progress_id", progress.ID,
		"student_id", req.StudentID,
		"activity_id", req.ActivityID)

	if s.notifier != nil {
		if err := s.notifier.NotifyProgressRecorded(ctx, progress); err != nil {
			s.logger.Error("Failed to publish progress event", "progress_id", progress.ID, "error", err)
		}
	}

	return s.getResponseByID(ctx, progress.ID)
}

func (s *progressService) GetByID(ctx context.Context, id uint, parentID string) (*ProgressResponse, error) {
	progress, err := s.repo.Progress().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if err := s.checkRecordOwnership(ctx, progress, parentID, "view"); err != nil {
		return nil, err
	}

	return s.toResponse(progress), nil
}

func (s *progressService) Update(ctx context.Context, id uint, req *models.UpdateProgressRequest, parentID string) (*ProgressResponse, error) {
	s.logger.Info("Updating student progress", "progress_id", id, "parent_id", parentID)

	if verrs := s.validator.Business().ValidateProgressUpdate(req); len(verrs) > 0 {
		return nil, verrs
	}

	progress, err := s.repo.Progress().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to get progress: %w", err)
	}

	if err := s.checkRecordOwnership(ctx, progress, parentID, "update"); err != nil {
		return nil, err
	}

	if req.TimeSpentSeconds != nil {
		progress.TimeSpentSeconds = *req.TimeSpentSeconds
	}
	if req.IsCompleted != nil {
		progress.IsCompleted = *req.IsCompleted
	}
	if req.Notes != nil {
		progress.Notes = req.Notes
	}

	if err := s.repo.Progress().Update(ctx, s.db, progress); err != nil {
		return nil, fmt.Errorf("failed to update progress: %w", err)
	}

	return s.getResponseByID(ctx, id)
}

func (s *progressService) Delete(ctx context.Context, id uint, parentID string) error {
	s.logger.Info("Deleting student progress", "progress_id", id, "parent_id", parentID)

	progress, err := s.repo.Progress().GetByIDWithDetails(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrProgressNotFound
		}
		return fmt.Errorf("failed to get progress: %w", err)
	}

	if err := s.checkRecordOwnership(ctx, progress, parentID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Progress().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete progress: %w", err)
	}

	return nil
}

// ===== QUERY OPERATIONS =====

func (s *progressService) GetByStudent(ctx context.Context, studentID, parentID string) ([]*ProgressResponse, error) {
	if err := s.ValidateStudentOwnership(ctx, studentID, parentID); err != nil {
		return nil, err
	}

	records, err := s.repo.Progress().GetByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student progress: %w", err)
	}

	return s.toResponses(records), nil
}

// List returns progress visible to a parent. With an explicit student filter
// the student must belong to the parent; without one the listing is scoped
// to every student of that parent.
func (s *progressService) List(ctx context.Context, params *models.ListProgressParams, parentID string) (*ProgressListResponse, error) {
	filters := buildProgressFilters(params)

	if params.StudentID != nil && *params.StudentID != "" {
		if err := s.ValidateStudentOwnership(ctx, *params.StudentID, parentID); err != nil {
			return nil, err
		}
		filters.StudentID = params.StudentID
	} else {
		studentIDs, err := s.repo.Student().ListIDsByParent(ctx, s.db, parentID)
		if err != nil {
			return nil, fmt.Errorf("failed to list students: %w", err)
		}
		if len(studentIDs) == 0 {
			return emptyProgressList(params), nil
		}
		filters.StudentIDs = studentIDs
	}

	return s.list(ctx, params, filters)
}

// ListAll is the unscoped listing for admin callers.
func (s *progressService) ListAll(ctx context.Context, params *models.ListProgressParams) (*ProgressListResponse, error) {
	filters := buildProgressFilters(params)
	if params.StudentID != nil && *params.StudentID != "" {
		filters.StudentID = params.StudentID
	}
	return s.list(ctx, params, filters)
}

func (s *progressService) list(ctx context.Context, params *models.ListProgressParams, filters repositories.ProgressFilters) (*ProgressListResponse, error) {
	records, total, err := s.repo.Progress().List(ctx, s.db, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list progress: %w", err)
	}

	page, size := normalizePage(params)
	return &ProgressListResponse{
		Items:           s.toResponses(records),
		PageNumber:      page,
		PageSize:        size,
		TotalCount:      total,
		TotalPages:      totalPages(total, size),
		HasPreviousPage: page > 1,
		HasNextPage:     page < totalPages(total, size),
	}, nil
}

// ===== AGGREGATIONS =====

func (s *progressService) GetSummary(ctx context.Context, studentID, parentID string) (*ProgressSummaryResponse, error) {
	if err := s.ValidateStudentOwnership(ctx, studentID, parentID); err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, s.db, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	records, err := s.repo.Progress().GetByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student progress: %w", err)
	}

	summary := &ProgressSummaryResponse{
		StudentID:           studentID,
		StudentNickname:     student.Nickname,
		AverageScorePercent: averageScorePercent(records),
		RecentActivities:    s.toResponses(takeRecent(records, 5)),
	}

	attempted := make(map[uint]struct{})
	for _, record := range records {
		if record.IsCompleted {
			summary.TotalActivitiesCompleted++
		}
		summary.TotalTimeSpentSeconds += record.TimeSpentSeconds
		attempted[record.ActivityID] = struct{}{}

		if summary.LastActivityDate == nil || record.CompletedAt.After(*summary.LastActivityDate) {
			completedAt := record.CompletedAt
			summary.LastActivityDate = &completedAt
		}
	}
	summary.TotalActivitiesAttempted = len(attempted)
	summary.TotalTimeSpentFormatted = utils.FormatTimeSpent(summary.TotalTimeSpentSeconds)

	return summary, nil
}

func (s *progressService) GetStats(ctx context.Context, studentID, parentID string) (*StudentStatsResponse, error) {
	if err := s.ValidateStudentOwnership(ctx, studentID, parentID); err != nil {
		return nil, err
	}

	student, err := s.repo.Student().GetByID(ctx, s.db, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	records, err := s.repo.Progress().GetByStudent(ctx, s.db, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student progress: %w", err)
	}

	stats := &StudentStatsResponse{
		StudentID:           studentID,
		StudentNickname:     student.Nickname,
		ActivitiesByStage:   make(map[string]int),
		AverageScoreByStage: make(map[string]float64),
		RecentProgress:      s.toResponses(takeRecent(records, 10)),
	}

	attempted := make(map[uint]struct{})
	scorable := make([]*models.StudentProgress, 0, len(records))
	for _, record := range records {
		stats.TotalTimeSpentSeconds += record.TimeSpentSeconds
		attempted[record.ActivityID] = struct{}{}
		if !record.IsCompleted {
			continue
		}
		stats.TotalCompleted++
		if record.MaxScore > 0 {
			scorable = append(scorable, record)
		}
	}
	stats.TotalAttempted = len(attempted)
	stats.TotalTimeSpentFormatted = utils.FormatTimeSpent(stats.TotalTimeSpentSeconds)

	if len(scorable) > 0 {
		best, worst := scorable[0], scorable[0]
		var sum float64
		for _, record := range scorable {
			pct := record.PercentageScore()
			sum += pct
			if pct > best.PercentageScore() {
				best = record
			}
			if pct < worst.PercentageScore() {
				worst = record
			}
		}
		stats.AverageScorePercent = round2(sum / float64(len(scorable)))
		stats.BestScorePercent = round2(best.PercentageScore())
		stats.WorstScorePercent = round2(worst.PercentageScore())
		stats.BestActivity = s.toResponse(best)
		stats.WorstActivity = s.toResponse(worst)
	}

	s.groupByStage(records, stats)

	return stats, nil
}

// groupByStage fills the per-stage counters. Every record with a resolvable
// stage is counted; only the per-stage average is restricted to completed,
// scorable records. Records whose activity cannot be resolved to a stage are
// left out of the groups but still count in the totals above.
func (s *progressService) groupByStage(records []*models.StudentProgress, stats *StudentStatsResponse) {
	type stageAcc struct {
		count int
		sum   float64
		n     int
	}
	byStage := make(map[string]*stageAcc)

	for _, record := range records {
		stageName := resolveStageName(record)
		if stageName == "" {
			continue
		}
		acc := byStage[stageName]
		if acc == nil {
			acc = &stageAcc{}
			byStage[stageName] = acc
		}
		acc.count++
		if record.IsCompleted && record.MaxScore > 0 {
			acc.sum += record.PercentageScore()
			acc.n++
		}
	}

	for name, acc := range byStage {
		stats.ActivitiesByStage[name] = acc.count
		if acc.n > 0 {
			stats.AverageScoreByStage[name] = round2(acc.sum / float64(acc.n))
		}
	}
}

// ===== PERMISSION CHECKS =====

// ValidateStudentOwnership fails closed: a missing student and a student
// owned by another parent produce the same error, so probing cannot reveal
// whether a profile exists.
func (s *progressService) ValidateStudentOwnership(ctx context.Context, studentID, parentID string) error {
	student, err := s.repo.Student().GetByID(ctx, s.db, studentID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return NewPermissionError(parentID, 0, "student", "access", "student not accessible")
		}
		return fmt.Errorf("failed to get student: %w", err)
	}

	if student.ParentID != parentID {
		return NewPermissionError(parentID, 0, "student", "access", "student not accessible")
	}

	return nil
}

func (s *progressService) checkRecordOwnership(ctx context.Context, progress *models.StudentProgress, parentID, action string) error {
	if progress.StudentID == nil {
		return NewPermissionError(parentID, progress.ID, "progress", action, "student profile no longer exists")
	}
	if err := s.ValidateStudentOwnership(ctx, *progress.StudentID, parentID); err != nil {
		return NewPermissionError(parentID, progress.ID, "progress", action, "record not accessible")
	}
	return nil
}

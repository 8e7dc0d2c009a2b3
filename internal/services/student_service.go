package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

// maxStudentsPerParent caps the number of child profiles on one account.
const maxStudentsPerParent = 10

type studentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	notifier  NotificationEventService
}

func NewStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, notifier NotificationEventService) StudentService {
	return &studentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		notifier:  notifier,
	}
}

func (s *studentService) Create(ctx context.Context, req *CreateStudentRequest, parentID string) (*StudentResponse, error) {
	s.logger.Info("Creating student profile", "parent_id", parentID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	existing, err := s.repo.Student().GetByParent(ctx, s.db, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	if len(existing) >= maxStudentsPerParent {
		return nil, ErrStudentLimit
	}

	student := &models.Student{
		ID:        uuid.New().String(),
		ParentID:  parentID,
		Nickname:  req.Nickname,
		AvatarURL: req.AvatarURL,
		BirthYear: req.BirthYear,
	}

	if err := s.repo.Student().Create(ctx, s.db, student); err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("Student profile created", "student_id", student.ID, "parent_id", parentID)

	if s.notifier != nil {
		notification := &NotificationRequest{
			Type:     models.NotificationStudentCreated,
			Title:    "New student profile",
			Message:  fmt.Sprintf("Profile %q was created", student.Nickname),
			Priority: models.PriorityLow,
		}
		if err := s.notifier.SendBulkNotification(ctx, []string{parentID}, notification); err != nil {
			s.logger.Error("Failed to publish student event", "student_id", student.ID, "error", err)
		}
	}

	return s.toResponse(ctx, student)
}

func (s *studentService) GetByID(ctx context.Context, id, parentID string) (*StudentResponse, error) {
	student, err := s.getOwned(ctx, id, parentID, "view")
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, student)
}

func (s *studentService) GetByParent(ctx context.Context, parentID string) ([]*StudentResponse, error) {
	students, err := s.repo.Student().GetByParent(ctx, s.db, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}

	responses := make([]*StudentResponse, 0, len(students))
	for _, student := range students {
		resp, err := s.toResponse(ctx, student)
		if err != nil {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

func (s *studentService) Update(ctx context.Context, id string, req *UpdateStudentRequest, parentID string) (*StudentResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	student, err := s.getOwned(ctx, id, parentID, "update")
	if err != nil {
		return nil, err
	}

	if req.Nickname != nil {
		student.Nickname = *req.Nickname
	}
	if req.AvatarURL != nil {
		student.AvatarURL = req.AvatarURL
	}
	if req.BirthYear != nil {
		student.BirthYear = req.BirthYear
	}

	if err := s.repo.Student().Update(ctx, s.db, student); err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	return s.toResponse(ctx, student)
}

func (s *studentService) Delete(ctx context.Context, id, parentID string) error {
	s.logger.Info("Deleting student profile", "student_id", id, "parent_id", parentID)

	if _, err := s.getOwned(ctx, id, parentID, "delete"); err != nil {
		return err
	}

	if err := s.repo.Student().Delete(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	return nil
}

// getOwned resolves a student and verifies parent ownership, failing closed
// on both a missing profile and a foreign one.
func (s *studentService) getOwned(ctx context.Context, id, parentID, action string) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, s.db, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, NewPermissionError(parentID, 0, "student", action, "student not accessible")
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}

	if student.ParentID != parentID {
		return nil, NewPermissionError(parentID, 0, "student", action, "student not accessible")
	}

	return student, nil
}

func (s *studentService) toResponse(ctx context.Context, student *models.Student) (*StudentResponse, error) {
	aggregates, err := s.repo.Progress().GetAggregates(ctx, s.db, student.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get progress aggregates: %w", err)
	}

	return &StudentResponse{
		Student:       student,
		ProgressCount: aggregates.TotalRecords,
	}, nil
}

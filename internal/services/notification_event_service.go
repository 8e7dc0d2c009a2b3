package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Lakshiga/Trilingo-Backend/internal/events"
	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

// Kafka topics this service publishes to.
const (
	TopicProgress      = "student-progress-events"
	TopicNotifications = "notification-events"
)

// ===== EVENT PAYLOADS =====

type ProgressRecordedEvent struct {
	ProgressID  uint      `json:"progress_id"`
	StudentID   string    `json:"student_id"`
	ActivityID  uint      `json:"activity_id"`
	Score       float64   `json:"score"`
	MaxScore    float64   `json:"max_score"`
	IsCompleted bool      `json:"is_completed"`
	CompletedAt time.Time `json:"completed_at"`
}

type LevelUnlockedEvent struct {
	UserID  string `json:"user_id"`
	LevelID uint   `json:"level_id"`
}

type BulkNotificationEvent struct {
	UserIDs  []string                    `json:"user_ids"`
	Type     models.NotificationType     `json:"type"`
	Title    string                      `json:"title"`
	Message  string                      `json:"message"`
	Priority models.NotificationPriority `json:"priority"`
}

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationEventService(repo repositories.Repository, eventPublisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: eventPublisher,
		logger:         logger,
		validator:      validator,
	}
}

func (s *notificationEventService) NotifyProgressRecorded(ctx context.Context, progress *models.StudentProgress) error {
	studentID := ""
	if progress.StudentID != nil {
		studentID = *progress.StudentID
	}

	event := events.NewEvent(string(models.NotificationProgressRecorded), ProgressRecordedEvent{
		ProgressID:  progress.ID,
		StudentID:   studentID,
		ActivityID:  progress.ActivityID,
		Score:       progress.Score,
		MaxScore:    progress.MaxScore,
		IsCompleted: progress.IsCompleted,
		CompletedAt: progress.CompletedAt,
	})

	if err := s.eventPublisher.Publish(ctx, TopicProgress, event); err != nil {
		return fmt.Errorf("failed to publish progress event: %w", err)
	}

	s.logger.Debug("Progress event published", "progress_id", progress.ID)
	return nil
}

func (s *notificationEventService) NotifyLevelUnlocked(ctx context.Context, userID string, levelID uint) error {
	event := events.NewEvent(string(models.NotificationLevelUnlocked), LevelUnlockedEvent{
		UserID:  userID,
		LevelID: levelID,
	})

	if err := s.eventPublisher.Publish(ctx, TopicNotifications, event); err != nil {
		return fmt.Errorf("failed to publish unlock event: %w", err)
	}

	s.logger.Debug("Unlock event published", "user_id", userID, "level_id", levelID)
	return nil
}

func (s *notificationEventService) SendBulkNotification(ctx context.Context, userIDs []string, notification *NotificationRequest) error {
	if err := s.validator.Validate(notification); err != nil {
		return err
	}

	event := events.NewEvent("system.bulk_notification", BulkNotificationEvent{
		UserIDs:  userIDs,
		Type:     notification.Type,
		Title:    notification.Title,
		Message:  notification.Message,
		Priority: notification.Priority,
	})

	if err := s.eventPublisher.Publish(ctx, TopicNotifications, event); err != nil {
		return fmt.Errorf("failed to publish bulk notification: %w", err)
	}

	return nil
}

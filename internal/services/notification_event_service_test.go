package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshiga/Trilingo-Backend/internal/events"
	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

func newNotifierEnv(t *testing.T) (NotificationEventService, *events.MockEventPublisher) {
	t.Helper()

	env := newProgressTestEnv(t)
	publisher := events.NewMockEventPublisher(testLogger())
	return NewNotificationEventService(env.repo, publisher, testLogger(), validator.New()), publisher
}

func TestNotificationEventService_NotifyProgressRecorded(t *testing.T) {
	svc, publisher := newNotifierEnv(t)

	studentID := "student-1"
	progress := &models.StudentProgress{
		StudentID:   &studentID,
		ActivityID:  7,
		Score:       8,
		MaxScore:    10,
		IsCompleted: true,
		CompletedAt: time.Now().UTC(),
	}
	progress.ID = 42

	require.NoError(t, svc.NotifyProgressRecorded(context.Background(), progress))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)

	event := published[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, string(models.NotificationProgressRecorded), event.Type)
	assert.Equal(t, "learning-service", event.Source)
	assert.Equal(t, "1.0", event.Version)
	assert.False(t, event.Timestamp.IsZero())

	payload, ok := event.Data.(ProgressRecordedEvent)
	require.True(t, ok)
	assert.Equal(t, uint(42), payload.ProgressID)
	assert.Equal(t, "student-1", payload.StudentID)
	assert.Equal(t, 8.0, payload.Score)
}

func TestNotificationEventService_NotifyLevelUnlocked(t *testing.T) {
	svc, publisher := newNotifierEnv(t)

	require.NoError(t, svc.NotifyLevelUnlocked(context.Background(), "parent-1", 3))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, string(models.NotificationLevelUnlocked), published[0].Type)

	payload, ok := published[0].Data.(LevelUnlockedEvent)
	require.True(t, ok)
	assert.Equal(t, "parent-1", payload.UserID)
	assert.Equal(t, uint(3), payload.LevelID)
}

func TestNotificationEventService_SendBulkNotification(t *testing.T) {
	svc, publisher := newNotifierEnv(t)

	notification := &NotificationRequest{
		Type:     models.NotificationStudentCreated,
		Title:    "New student profile",
		Message:  "Profile was created",
		Priority: models.PriorityLow,
	}
	require.NoError(t, svc.SendBulkNotification(context.Background(), []string{"parent-1", "parent-2"}, notification))

	published := publisher.GetPublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, "system.bulk_notification", published[0].Type)

	payload, ok := published[0].Data.(BulkNotificationEvent)
	require.True(t, ok)
	assert.Equal(t, []string{"parent-1", "parent-2"}, payload.UserIDs)
	assert.Equal(t, models.NotificationStudentCreated, payload.Type)
}

func TestNotificationEventService_SendBulkNotification_Invalid(t *testing.T) {
	svc, publisher := newNotifierEnv(t)

	// A missing title never reaches the broker.
	err := svc.SendBulkNotification(context.Background(), []string{"parent-1"}, &NotificationRequest{
		Type:    models.NotificationStudentCreated,
		Message: "no title",
	})

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Empty(t, publisher.GetPublishedEvents())
}

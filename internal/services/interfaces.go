package services

import (
	"context"
	"time"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateStudentRequest = validator.CreateStudentRequest
type UpdateStudentRequest = validator.UpdateStudentRequest
type CreateLevelRequest = validator.CreateLevelRequest
type UpdateLevelRequest = validator.UpdateLevelRequest
type CreateStageRequest = validator.CreateStageRequest
type UpdateStageRequest = validator.UpdateStageRequest
type CreateActivityRequest = validator.CreateActivityRequest
type UpdateActivityRequest = validator.UpdateActivityRequest
type CreateExerciseRequest = validator.CreateExerciseRequest
type UpdateExerciseRequest = validator.UpdateExerciseRequest
type PaymentSessionRequest = validator.PaymentSessionRequest
type ChatbotRequest = validator.ChatbotRequest

type ProgressResponse struct {
	*models.StudentProgress
	PercentageScore    float64 `json:"percentage_score"` // rounded to 2 decimals
	TimeSpentFormatted string  `json:"time_spent_formatted"`

	StudentNickname string `json:"student_nickname,omitempty"`

	ActivityNameEn string `json:"activity_name_en,omitempty"`
	ActivityNameTa string `json:"activity_name_ta,omitempty"`
	ActivityNameSi string `json:"activity_name_si,omitempty"`

	StageID   uint   `json:"stage_id,omitempty"`
	StageName string `json:"stage_name,omitempty"`
	LevelID   uint   `json:"level_id,omitempty"`
	LevelName string `json:"level_name,omitempty"`
}

type ProgressListResponse struct {
	Items           []*ProgressResponse `json:"items"`
	PageNumber      int                 `json:"page_number"`
	PageSize        int                 `json:"page_size"`
	TotalCount      int64               `json:"total_count"`
	TotalPages      int                 `json:"total_pages"`
	HasPreviousPage bool                `json:"has_previous_page"`
	HasNextPage     bool                `json:"has_next_page"`
}

type ProgressSummaryResponse struct {
	StudentID       string `json:"student_id"`
	StudentNickname string `json:"student_nickname"`

	TotalActivitiesCompleted int    `json:"total_activities_completed"`
	TotalActivitiesAttempted int    `json:"total_activities_attempted"` // distinct activities
	TotalTimeSpentSeconds    int    `json:"total_time_spent_seconds"`
	TotalTimeSpentFormatted  string `json:"total_time_spent_formatted"`

	// AverageScorePercent is only computed when every record carries a
	// positive MaxScore; a single malformed record zeroes it out.
	AverageScorePercent float64 `json:"average_score_percent"`

	LastActivityDate *time.Time `json:"last_activity_date"` // nil with no records

	RecentActivities []*ProgressResponse `json:"recent_activities"` // newest 5
}

type StudentStatsResponse struct {
	StudentID       string `json:"student_id"`
	StudentNickname string `json:"student_nickname"`

	TotalCompleted          int     `json:"total_completed"`
	TotalAttempted          int     `json:"total_attempted"` // distinct activities
	TotalTimeSpentSeconds   int     `json:"total_time_spent_seconds"`
	TotalTimeSpentFormatted string  `json:"total_time_spent_formatted"`
	AverageScorePercent     float64 `json:"average_score_percent"`

	// Best and worst are picked among completed records with a positive
	// MaxScore only.
	BestScorePercent  float64           `json:"best_score_percent"`
	WorstScorePercent float64           `json:"worst_score_percent"`
	BestActivity      *ProgressResponse `json:"best_activity,omitempty"`
	WorstActivity     *ProgressResponse `json:"worst_activity,omitempty"`

	ActivitiesByStage   map[string]int     `json:"activities_by_stage"`
	AverageScoreByStage map[string]float64 `json:"average_score_by_stage"`

	RecentProgress []*ProgressResponse `json:"recent_progress"` // newest 10
}

type StudentResponse struct {
	*models.Student
	ProgressCount int64 `json:"progress_count"`
}

type LevelResponse struct {
	*models.Level
	Unlocked bool `json:"unlocked"`
}

type CheckoutSessionResponse struct {
	SessionID  string  `json:"session_id"`
	SessionURL string  `json:"session_url"`
	LevelID    uint    `json:"level_id"`
	Amount     float64 `json:"amount"`
	Currency   string  `json:"currency"`
	Free       bool    `json:"free"` // granted without checkout
}

type PurchaseResponse struct {
	*models.LevelPurchase
}

type ChatbotResponse struct {
	Reply     string    `json:"reply"`
	Timestamp time.Time `json:"timestamp"`
}

type NotificationRequest struct {
	Type     models.NotificationType     `json:"type" validate:"required"`
	Title    string                      `json:"title" validate:"required,max=200"`
	Message  string                      `json:"message" validate:"required,max=1000"`
	Priority models.NotificationPriority `json:"priority"`
}

// ===== SERVICE INTERFACES =====

type ProgressService interface {
	// Core CRUD operations
	Create(ctx context.Context, req *models.CreateProgressRequest, parentID string) (*ProgressResponse, error)
	GetByID(ctx context.Context, id uint, parentID string) (*ProgressResponse, error)
	Update(ctx context.Context, id uint, req *models.UpdateProgressRequest, parentID string) (*ProgressResponse, error)
	Delete(ctx context.Context, id uint, parentID string) error

	// Query operations
	GetByStudent(ctx context.Context, studentID, parentID string) ([]*ProgressResponse, error)
	List(ctx context.Context, params *models.ListProgressParams, parentID string) (*ProgressListResponse, error)
	ListAll(ctx context.Context, params *models.ListProgressParams) (*ProgressListResponse, error)

	// Aggregations
	GetSummary(ctx context.Context, studentID, parentID string) (*ProgressSummaryResponse, error)
	GetStats(ctx context.Context, studentID, parentID string) (*StudentStatsResponse, error)

	// Permission checks
	ValidateStudentOwnership(ctx context.Context, studentID, parentID string) error
}

type StudentService interface {
	Create(ctx context.Context, req *CreateStudentRequest, parentID string) (*StudentResponse, error)
	GetByID(ctx context.Context, id, parentID string) (*StudentResponse, error)
	GetByParent(ctx context.Context, parentID string) ([]*StudentResponse, error)
	Update(ctx context.Context, id string, req *UpdateStudentRequest, parentID string) (*StudentResponse, error)
	Delete(ctx context.Context, id, parentID string) error
}

type ContentService interface {
	// Languages
	ListLanguages(ctx context.Context) ([]*models.Language, error)

	// Levels
	CreateLevel(ctx context.Context, req *CreateLevelRequest) (*models.Level, error)
	GetLevel(ctx context.Context, id uint) (*models.Level, error)
	ListLevels(ctx context.Context, languageID *uint) ([]*models.Level, error)
	UpdateLevel(ctx context.Context, id uint, req *UpdateLevelRequest) (*models.Level, error)
	DeleteLevel(ctx context.Context, id uint) error

	// Stages
	CreateStage(ctx context.Context, req *CreateStageRequest) (*models.Stage, error)
	GetStage(ctx context.Context, id uint) (*models.Stage, error)
	ListStagesByLevel(ctx context.Context, levelID uint) ([]*models.Stage, error)
	UpdateStage(ctx context.Context, id uint, req *UpdateStageRequest) (*models.Stage, error)
	DeleteStage(ctx context.Context, id uint) error

	// Activities
	CreateActivity(ctx context.Context, req *CreateActivityRequest) (*models.Activity, error)
	GetActivity(ctx context.Context, id uint) (*models.Activity, error)
	ListActivitiesByStage(ctx context.Context, stageID uint) ([]*models.Activity, error)
	UpdateActivity(ctx context.Context, id uint, req *UpdateActivityRequest) (*models.Activity, error)
	DeleteActivity(ctx context.Context, id uint) error

	// Exercises
	CreateExercise(ctx context.Context, req *CreateExerciseRequest) (*models.Exercise, error)
	GetExercise(ctx context.Context, id uint) (*models.Exercise, error)
	ListExercisesByActivity(ctx context.Context, activityID uint) ([]*models.Exercise, error)
	UpdateExercise(ctx context.Context, id uint, req *UpdateExerciseRequest) (*models.Exercise, error)
	DeleteExercise(ctx context.Context, id uint) error

	// Exercise submissions feed the progress tracker
	SubmitExerciseResult(ctx context.Context, studentID string, req *models.SubmitExerciseResultRequest, parentID string) (*ProgressResponse, error)
}

type PaymentService interface {
	CreateCheckoutSession(ctx context.Context, req *PaymentSessionRequest, userID string) (*CheckoutSessionResponse, error)
	VerifyPayment(ctx context.Context, sessionID, userID string) (*PurchaseResponse, error)
	CheckLevelAccess(ctx context.Context, userID string, levelID uint) (bool, error)
	ListPurchases(ctx context.Context, userID string, page, size int) ([]*PurchaseResponse, int64, error)
}

type ChatbotService interface {
	Ask(ctx context.Context, req *ChatbotRequest, userID string) (*ChatbotResponse, error)
}

type ReportService interface {
	// ExportStudentProgress renders the full history as an xlsx workbook.
	ExportStudentProgress(ctx context.Context, studentID, parentID string) ([]byte, string, error)
}

type NotificationEventService interface {
	NotifyProgressRecorded(ctx context.Context, progress *models.StudentProgress) error
	NotifyLevelUnlocked(ctx context.Context, userID string, levelID uint) error
	SendBulkNotification(ctx context.Context, userIDs []string, notification *NotificationRequest) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	// Core service getters
	Progress() ProgressService
	Student() StudentService
	Content() ContentService
	Payment() PaymentService
	Chatbot() ChatbotService
	Report() ReportService
	Notification() NotificationEventService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

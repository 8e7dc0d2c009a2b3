package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/Lakshiga/Trilingo-Backend/internal/events"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	EnableDebugLogging bool
	LogLevel           slog.Level

	// Service-specific configurations
	Progress ServiceConfig
	Content  ServiceConfig
	Payment  ServiceConfig
	Chatbot  ServiceConfig

	DefaultTimeout time.Duration
}

type ServiceConfig struct {
	Enabled      bool
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ServiceManagerDeps carries the external dependencies the services need
// beyond the repository layer.
type ServiceManagerDeps struct {
	EventPublisher   events.EventPublisher
	CheckoutProvider CheckoutProvider
	PaymentConfig    PaymentConfig
	ChatbotConfig    ChatbotConfig
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	deps      ServiceManagerDeps
	config    ServiceManagerConfig

	// Service instances
	progressService ProgressService
	studentService  StudentService
	contentService  ContentService
	paymentService  PaymentService
	chatbotService  ChatbotService
	reportService   ReportService
	notifier        NotificationEventService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps ServiceManagerDeps, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		deps:      deps,
		config:    config,
	}
}

// NewDefaultServiceManager creates a service manager with default configuration
func NewDefaultServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, deps ServiceManagerDeps) ServiceManager {
	config := ServiceManagerConfig{
		EnableDebugLogging: false,
		LogLevel:           slog.LevelInfo,

		Progress: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     5 * time.Minute,
		},
		Content: ServiceConfig{
			Enabled:      true,
			CacheEnabled: true,
			CacheTTL:     30 * time.Minute,
		},
		Payment: ServiceConfig{
			Enabled: true,
		},
		Chatbot: ServiceConfig{
			Enabled: true,
		},

		DefaultTimeout: 30 * time.Second,
	}

	return NewServiceManager(db, repo, logger, validator, deps, config)
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if sm.deps.EventPublisher != nil {
		sm.notifier = NewNotificationEventService(sm.repo, sm.deps.EventPublisher, sm.logger, sm.validator)
		sm.logger.Info("Notification event service initialized")
	}

	if sm.config.Progress.Enabled {
		sm.progressService = NewProgressService(sm.repo, sm.db, sm.logger, sm.validator, sm.notifier)
		sm.logger.Info("Progress service initialized")
	}

	sm.studentService = NewStudentService(sm.repo, sm.db, sm.logger, sm.validator, sm.notifier)
	sm.logger.Info("Student service initialized")

	if sm.config.Content.Enabled {
		sm.contentService = NewContentService(sm.repo, sm.db, sm.logger, sm.validator, sm.progressService)
		sm.logger.Info("Content service initialized")
	}

	if sm.config.Payment.Enabled {
		sm.paymentService = NewPaymentService(sm.repo, sm.db, sm.logger, sm.validator, sm.deps.CheckoutProvider, sm.deps.PaymentConfig, sm.notifier)
		sm.logger.Info("Payment service initialized")
	}

	if sm.config.Chatbot.Enabled {
		sm.chatbotService = NewChatbotService(sm.deps.ChatbotConfig, sm.logger, sm.validator)
		sm.logger.Info("Chatbot service initialized")
	}

	sm.reportService = NewReportService(sm.progressService, sm.logger)
	sm.logger.Info("Report service initialized")

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Progress() ProgressService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Progress.Enabled && sm.progressService != nil {
		return sm.progressService
	}

	panic("progress service not enabled or not initialized")
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.studentService != nil {
		return sm.studentService
	}

	panic("student service not initialized")
}

func (sm *serviceManager) Content() ContentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Content.Enabled && sm.contentService != nil {
		return sm.contentService
	}

	panic("content service not enabled or not initialized")
}

func (sm *serviceManager) Payment() PaymentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Payment.Enabled && sm.paymentService != nil {
		return sm.paymentService
	}

	panic("payment service not enabled or not initialized")
}

func (sm *serviceManager) Chatbot() ChatbotService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.config.Chatbot.Enabled && sm.chatbotService != nil {
		return sm.chatbotService
	}

	panic("chatbot service not enabled or not initialized")
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.reportService != nil {
		return sm.reportService
	}

	panic("report service not initialized")
}

func (sm *serviceManager) Notification() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}

	if sm.notifier != nil {
		return sm.notifier
	}

	panic("notification service not initialized")
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.deps.EventPublisher != nil {
		if err := sm.deps.EventPublisher.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// WithTimeout creates a context with the default timeout
func (sm *serviceManager) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, sm.config.DefaultTimeout)
}

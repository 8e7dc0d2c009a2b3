package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Lakshiga/Trilingo-Backend/internal/models"
	"github.com/Lakshiga/Trilingo-Backend/internal/repositories"
	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

// CheckoutProvider is the external payment gateway.
type CheckoutProvider interface {
	CreateSession(ctx context.Context, params CheckoutSessionParams) (*CheckoutSession, error)
	GetSession(ctx context.Context, sessionID string) (*CheckoutSession, error)
}

type CheckoutSessionParams struct {
	UserID      string
	LevelID     uint
	Description string
	Amount      float64
	Currency    string
	SuccessURL  string
	CancelURL   string
}

type CheckoutSession struct {
	ID       string
	URL      string
	Paid     bool
	Amount   float64
	Currency string
}

// PaymentConfig carries the pricing applied to paid levels.
type PaymentConfig struct {
	LevelPrice float64
	Currency   string
}

type paymentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
	provider  CheckoutProvider
	config    PaymentConfig
	notifier  NotificationEventService
}

func NewPaymentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator, provider CheckoutProvider, config PaymentConfig, notifier NotificationEventService) PaymentService {
	return &paymentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
		provider:  provider,
		config:    config,
		notifier:  notifier,
	}
}

func (s *paymentService) CreateCheckoutSession(ctx context.Context, req *PaymentSessionRequest, userID string) (*CheckoutSessionResponse, error) {
	s.logger.Info("Creating checkout session", "user_id", userID, "level_id", req.LevelID)

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	level, err := s.repo.Level().GetByID(ctx, s.db, req.LevelID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to get level: %w", err)
	}

	owned, err := s.repo.Purchase().HasCompletedPurchase(ctx, s.db, userID, req.LevelID)
	if err != nil {
		return nil, fmt.Errorf("failed to check purchases: %w", err)
	}
	if owned {
		return nil, ErrLevelAlreadyOwned
	}

	// Free levels skip the gateway round trip and are granted immediately.
	if level.IsFree {
		return s.grantFreeLevel(ctx, userID, level)
	}

	session, err := s.provider.CreateSession(ctx, CheckoutSessionParams{
		UserID:      userID,
		LevelID:     level.ID,
		Description: fmt.Sprintf("Unlock level %q", level.NameEn),
		Amount:      s.config.LevelPrice,
		Currency:    s.config.Currency,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	purchase := &models.LevelPurchase{
		UserID:        userID,
		LevelID:       level.ID,
		SessionID:     session.ID,
		PaymentStatus: models.PaymentPending,
		Amount:        session.Amount,
		Currency:      session.Currency,
		PurchasedAt:   time.Now().UTC(),
	}

	if err := s.repo.Purchase().Create(ctx, s.db, purchase); err != nil {
		return nil, fmt.Errorf("failed to create purchase: %w", err)
	}

	return &CheckoutSessionResponse{
		SessionID:  session.ID,
		SessionURL: session.URL,
		LevelID:    level.ID,
		Amount:     session.Amount,
		Currency:   session.Currency,
	}, nil
}

func (s *paymentService) grantFreeLevel(ctx context.Context, userID string, level *models.Level) (*CheckoutSessionResponse, error) {
	now := time.Now().UTC()
	purchase := &models.LevelPurchase{
		UserID:        userID,
		LevelID:       level.ID,
		SessionID:     fmt.Sprintf("%s-%s", models.FreeLevelSessionID, uuid.New().String()),
		PaymentStatus: models.PaymentCompleted,
		Amount:        0,
		Currency:      s.config.Currency,
		PurchasedAt:   now,
		CompletedAt:   &now,
	}

	if err := s.repo.Purchase().Create(ctx, s.db, purchase); err != nil {
		return nil, fmt.Errorf("failed to grant free level: %w", err)
	}

	s.logger.Info("Free level granted", "user_id", userID, "level_id", level.ID)

	if s.notifier != nil {
		if err := s.notifier.NotifyLevelUnlocked(ctx, userID, level.ID); err != nil {
			s.logger.Error("Failed to publish unlock event", "level_id", level.ID, "error", err)
		}
	}

	return &CheckoutSessionResponse{
		SessionID: purchase.SessionID,
		LevelID:   level.ID,
		Currency:  purchase.Currency,
		Free:      true,
	}, nil
}

func (s *paymentService) VerifyPayment(ctx context.Context, sessionID, userID string) (*PurchaseResponse, error) {
	purchase, err := s.repo.Purchase().GetBySessionID(ctx, s.db, sessionID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrPurchaseNotFound
		}
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	if purchase.UserID != userID {
		return nil, NewPermissionError(userID, purchase.ID, "purchase", "verify", "purchase belongs to another account")
	}

	if purchase.PaymentStatus == models.PaymentCompleted {
		return &PurchaseResponse{LevelPurchase: purchase}, nil
	}

	session, err := s.provider.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payment session: %w", err)
	}

	if session.Paid {
		now := time.Now().UTC()
		purchase.PaymentStatus = models.PaymentCompleted
		purchase.CompletedAt = &now
	} else {
		purchase.PaymentStatus = models.PaymentFailed
	}

	if err := s.repo.Purchase().Update(ctx, s.db, purchase); err != nil {
		return nil, fmt.Errorf("failed to update purchase: %w", err)
	}

	s.logger.Info("Payment verified",
		"session_id", sessionID,
		"user_id", userID,
		"status", purchase.PaymentStatus)

	if purchase.PaymentStatus == models.PaymentCompleted && s.notifier != nil {
		if err := s.notifier.NotifyLevelUnlocked(ctx, userID, purchase.LevelID); err != nil {
			s.logger.Error("Failed to publish unlock event", "level_id", purchase.LevelID, "error", err)
		}
	}

	return &PurchaseResponse{LevelPurchase: purchase}, nil
}

func (s *paymentService) CheckLevelAccess(ctx context.Context, userID string, levelID uint) (bool, error) {
	level, err := s.repo.Level().GetByID(ctx, s.db, levelID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return false, ErrLevelNotFound
		}
		return false, fmt.Errorf("failed to get level: %w", err)
	}

	if level.IsFree {
		return true, nil
	}

	return s.repo.Purchase().HasCompletedPurchase(ctx, s.db, userID, levelID)
}

func (s *paymentService) ListPurchases(ctx context.Context, userID string, page, size int) ([]*PurchaseResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	filters := repositories.PurchaseFilters{
		UserID: &userID,
		Limit:  size,
		Offset: (page - 1) * size,
	}

	purchases, total, err := s.repo.Purchase().List(ctx, s.db, filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list purchases: %w", err)
	}

	responses := make([]*PurchaseResponse, 0, len(purchases))
	for _, purchase := range purchases {
		responses = append(responses, &PurchaseResponse{LevelPurchase: purchase})
	}
	return responses, total, nil
}

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

// ChatbotConfig points at the upstream assistant API.
type ChatbotConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

type chatbotService struct {
	config    ChatbotConfig
	client    *http.Client
	logger    *slog.Logger
	validator *validator.Validator
}

func NewChatbotService(config ChatbotConfig, logger *slog.Logger, validator *validator.Validator) ChatbotService {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &chatbotService{
		config:    config,
		client:    &http.Client{Timeout: timeout},
		logger:    logger,
		validator: validator,
	}
}

type chatbotUpstreamRequest struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}

type chatbotUpstreamResponse struct {
	Reply string `json:"reply"`
}

// Ask proxies a parent's question to the assistant API. The service never
// stores conversation history; each request stands alone.
func (s *chatbotService) Ask(ctx context.Context, req *ChatbotRequest, userID string) (*ChatbotResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatbotUpstreamRequest{
		Message: req.Message,
		UserID:  userID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chatbot request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build chatbot request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("chatbot request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.logger.Error("Chatbot upstream error", "status", resp.StatusCode, "user_id", userID)
		return nil, fmt.Errorf("chatbot upstream returned status %d", resp.StatusCode)
	}

	var upstream chatbotUpstreamResponse
	if err := json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
		return nil, fmt.Errorf("failed to decode chatbot response: %w", err)
	}

	return &ChatbotResponse{
		Reply:     upstream.Reply,
		Timestamp: time.Now().UTC(),
	}, nil
}

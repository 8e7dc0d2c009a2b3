package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lakshiga/Trilingo-Backend/internal/validator"
)

func TestChatbotService_Ask(t *testing.T) {
	var gotAuth string
	var gotBody chatbotUpstreamRequest

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(chatbotUpstreamResponse{Reply: "Try the letters stage next."})
	}))
	defer upstream.Close()

	svc := NewChatbotService(ChatbotConfig{Endpoint: upstream.URL, APIKey: "secret"}, testLogger(), validator.New())

	resp, err := svc.Ask(context.Background(), &ChatbotRequest{Message: "What should we practice?"}, "parent-1")
	require.NoError(t, err)

	assert.Equal(t, "Try the letters stage next.", resp.Reply)
	assert.False(t, resp.Timestamp.IsZero())
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "What should we practice?", gotBody.Message)
	assert.Equal(t, "parent-1", gotBody.UserID)
}

func TestChatbotService_Ask_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	svc := NewChatbotService(ChatbotConfig{Endpoint: upstream.URL}, testLogger(), validator.New())

	_, err := svc.Ask(context.Background(), &ChatbotRequest{Message: "hello"}, "parent-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestChatbotService_Ask_EmptyMessageRejected(t *testing.T) {
	called := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer upstream.Close()

	svc := NewChatbotService(ChatbotConfig{Endpoint: upstream.URL}, testLogger(), validator.New())

	_, err := svc.Ask(context.Background(), &ChatbotRequest{}, "parent-1")

	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.False(t, called, "invalid requests never reach the upstream")
}

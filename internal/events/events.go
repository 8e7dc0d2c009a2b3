package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventSource  = "learning-service"
	EventVersion = "1.0"
)

// Event is the envelope every message published to the broker uses.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// NewEvent builds an envelope with the service identity filled in.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventPublisher abstracts the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event *Event) error
	Close() error
}

// Package push hands reminder notifications to an external delivery worker.
// The API process never talks to device push services directly: it publishes
// a JSON message to a broker queue (RabbitMQ or a Redis list), or only logs
// it in development.
package push

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageType tells the client which screen a notification opens.
type MessageType string

// Notification types.
const (
	TypeDaily        MessageType = "daily"
	TypeSetQuestion  MessageType = "set_question"
	TypeInspiration  MessageType = "inspiration"
	TypeMonthlyGoals MessageType = "monthly_goals"
)

// ErrNoToken is returned when a message has no device token.
var ErrNoToken = errors.New("push message has no device token")

// Message is one notification for one device.
type Message struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"userId"`
	Token     string            `json:"token"`
	Type      MessageType       `json:"type"`
	Title     string            `json:"title"`
	Body      string            `json:"body"`
	Data      map[string]string `json:"data,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// NewMessage builds a message with a fresh ID. The type is copied into Data
// so clients can route on it without parsing the envelope.
func NewMessage(userID uuid.UUID, token string, typ MessageType, title, body string) Message {
	return Message{
		ID:        uuid.New(),
		UserID:    userID,
		Token:     token,
		Type:      typ,
		Title:     title,
		Body:      body,
		Data:      map[string]string{"type": string(typ)},
		CreatedAt: time.Now().UTC(),
	}
}

// Validate checks the fields every gateway needs.
func (m Message) Validate() error {
	if m.Token == "" {
		return ErrNoToken
	}
	if m.Type == "" {
		return errors.New("push message has no type")
	}
	return nil
}

func (m Message) encode() ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	body, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal push message: %w", err)
	}
	return body, nil
}

// Publisher hands messages to the delivery side.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/metrics"
	"github.com/yoman-app/yoman-api/internal/platform/push"
)

// PushTask delivers one push message to the gateway. The task shares its ID
// with the message.
type PushTask struct {
	msg       push.Message
	payload   []byte
	status    TaskStatus
	publisher push.Publisher
}

// NewPushTask validates msg and wraps it in a pending task.
func NewPushTask(msg push.Message, publisher push.Publisher) (*PushTask, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push message: %w", err)
	}
	return &PushTask{
		msg:       msg,
		payload:   payload,
		status:    TaskStatusPending,
		publisher: publisher,
	}, nil
}

// PushDecoder rebuilds stored push tasks bound to publisher.
func PushDecoder(publisher push.Publisher) Decoder {
	return func(id uuid.UUID, payload []byte) (Task, error) {
		var msg push.Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal push message: %w", err)
		}
		msg.ID = id
		return NewPushTask(msg, publisher)
	}
}

// ID implements Task.
func (t *PushTask) ID() uuid.UUID { return t.msg.ID }

// Type implements Task.
func (t *PushTask) Type() string { return TaskTypePushDelivery }

// Payload implements Task.
func (t *PushTask) Payload() []byte { return t.payload }

// Status implements Task.
func (t *PushTask) Status() TaskStatus { return t.status }

// Message returns the message being delivered.
func (t *PushTask) Message() push.Message { return t.msg }

// Execute publishes the message and counts the outcome per message type.
func (t *PushTask) Execute(ctx context.Context) error {
	t.status = TaskStatusProcessing
	if err := t.publisher.Publish(ctx, t.msg); err != nil {
		t.status = TaskStatusFailed
		metrics.RemindersFailed.WithLabelValues(string(t.msg.Type)).Inc()
		return fmt.Errorf("failed to publish %s message: %w", t.msg.Type, err)
	}
	t.status = TaskStatusCompleted
	metrics.RemindersSent.WithLabelValues(string(t.msg.Type)).Inc()
	return nil
}

package push

import (
	"context"
	"log/slog"

	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/redact"
)

// LogPublisher only logs messages. Used in development.
type LogPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger.With(slog.String("component", "push_log"))}
}

// Publish implements Publisher.
func (p *LogPublisher) Publish(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	logger.FromContextOrDefault(ctx, p.logger).Info("push message",
		slog.String("message_id", msg.ID.String()),
		slog.String("user_id", msg.UserID.String()),
		slog.String("type", string(msg.Type)),
		slog.String("title", msg.Title),
		slog.String("token", redact.String(msg.Token)))
	return nil
}

// Close implements Publisher.
func (p *LogPublisher) Close() error { return nil }

package push

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/yoman-app/yoman-api/internal/config"
)

// New builds the publisher selected by cfg.Driver. redisClient is required
// for the redis driver.
func New(cfg config.PushConfig, redisClient ListPusher, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case "", "log":
		return NewLogPublisher(logger), nil
	case "redis":
		if redisClient == nil {
			return nil, errors.New("push driver redis requires a redis client")
		}
		return NewRedisPublisher(redisClient, cfg.Queue), nil
	case "rabbitmq":
		return DialRabbit(cfg.RabbitMQURL, cfg.Queue)
	default:
		return nil, fmt.Errorf("unknown push driver %q", cfg.Driver)
	}
}

package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
)

// Request describes the inspiration wanted for one reminder.
type Request struct {
	// Topics are the user's reminder topics; may be empty.
	Topics []string
	// Day is the local day the reminder is for.
	Day time.Time
}

// Generator produces one short inspiration line for a reminder.
type Generator interface {
	Inspiration(ctx context.Context, req Request) (string, error)
}

var topicPrompts = map[string][]string{
	domain.TopicWellbeing: {
		"מה עשה לך טוב היום, גם אם היה קטן?",
		"איך הגוף שלך מרגיש עכשיו? כתבי משפט אחד.",
	},
	domain.TopicTimeManagement: {
		"מה הדבר האחד שאם תעשי היום, היום ייחשב מוצלח?",
		"על מה השקעת הכי הרבה זמן היום, והאם זה היה שווה?",
	},
	domain.TopicGratitude: {
		"על מה את מודה היום?",
		"מי האיר לך את היום? כתבי לו תודה קטנה, גם אם רק ביומן.",
	},
	domain.TopicRelease: {
		"מה את מוכנה לשחרר היום?",
		"איזו מחשבה חוזרת אפשר להניח בצד, לפחות להיום?",
	},
	domain.TopicStrengths: {
		"באיזה רגע היום הרגשת במיטבך?",
		"איזו חוזקה שלך באה לידי ביטוי היום?",
	},
}

var generalPrompts = []string{
	"רגע של כתיבה: מה עובר עלייך היום?",
	"שלוש מילים שמתארות את היום שלך.",
	"מה למדת היום על עצמך?",
	"מה היית רוצה לזכור מהיום הזה בעוד שנה?",
}

// Fallback rotates through built-in prompts by day, preferring the user's
// topics. It never fails.
type Fallback struct{}

// Inspiration implements Generator.
func (Fallback) Inspiration(_ context.Context, req Request) (string, error) {
	pool := make([]string, 0, len(generalPrompts))
	for _, topic := range req.Topics {
		pool = append(pool, topicPrompts[topic]...)
	}
	if len(pool) == 0 {
		pool = generalPrompts
	}

	day := req.Day
	if day.IsZero() {
		day = time.Now()
	}
	return pool[day.YearDay()%len(pool)], nil
}

// withFallback tries primary first and falls back on any error.
type withFallback struct {
	primary  Generator
	fallback Generator
	logger   *slog.Logger
}

// WithFallback returns a Generator that uses Fallback whenever primary fails.
// A nil primary means Fallback only.
func WithFallback(primary Generator, log *slog.Logger) Generator {
	if primary == nil {
		return Fallback{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &withFallback{
		primary:  primary,
		fallback: Fallback{},
		logger:   log.With(slog.String("component", "inspiration")),
	}
}

func (g *withFallback) Inspiration(ctx context.Context, req Request) (string, error) {
	text, err := g.primary.Inspiration(ctx, req)
	if err == nil && text != "" {
		return text, nil
	}
	logger.FromContextOrDefault(ctx, g.logger).Warn("inspiration generation failed, using built-in prompt",
		slog.Any("error", err))
	return g.fallback.Inspiration(ctx, req)
}

package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/domain/progress"
	"github.com/yoman-app/yoman-api/internal/generation"
	"github.com/yoman-app/yoman-api/internal/hebcal"
	"github.com/yoman-app/yoman-api/internal/metrics"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/platform/push"
	"github.com/yoman-app/yoman-api/internal/store"
	"github.com/yoman-app/yoman-api/internal/task"
)

const (
	// dailyWindow is how long after a user's reminder time the reminder is
	// still sent, so a missed tick does not lose it.
	dailyWindow = 5 * time.Minute

	// claimTTL outlives the day a claim is keyed on.
	claimTTL = 48 * time.Hour
)

// Skip reasons reported in metrics.
const (
	skipNotWorkDay = "not_work_day"
	skipDayOff     = "day_off"
	skipDuplicate  = "duplicate"
	skipNoClock    = "invalid_reminder_time"
)

// Submitter queues tasks for delivery. *task.TaskRunner implements it.
type Submitter interface {
	Submit(ctx context.Context, t task.Task) error
}

// Config holds the scheduler settings.
type Config struct {
	// MonthlyHour is the local hour the monthly goals reminder goes out.
	MonthlyHour int
	Vacations   []hebcal.Vacation
	Location    *time.Location
}

// Scheduler produces reminders once a minute.
type Scheduler struct {
	users       store.UserStore
	sets        store.QuestionSetStore
	resolver    progress.Service
	inspiration generation.Generator
	publisher   push.Publisher
	submitter   Submitter
	deduper     Deduper
	cfg         Config
	now         func() time.Time
	logger      *slog.Logger
}

// NewScheduler creates a Scheduler. A nil deduper falls back to a
// LocalDeduper; a nil generator to the built-in prompts.
func NewScheduler(
	users store.UserStore,
	sets store.QuestionSetStore,
	resolver progress.Service,
	inspiration generation.Generator,
	publisher push.Publisher,
	submitter Submitter,
	deduper Deduper,
	cfg Config,
	logger *slog.Logger,
) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Location == nil {
		cfg.Location = resolver.Location()
	}
	if deduper == nil {
		deduper = NewLocalDeduper()
	}
	if inspiration == nil {
		inspiration = generation.Fallback{}
	}
	return &Scheduler{
		users:       users,
		sets:        sets,
		resolver:    resolver,
		inspiration: inspiration,
		publisher:   publisher,
		submitter:   submitter,
		deduper:     deduper,
		cfg:         cfg,
		now:         time.Now,
		logger:      logger.With(slog.String("component", "reminder_scheduler")),
	}
}

// Run ticks every minute until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.logger.Info("reminder scheduler started",
		slog.String("timezone", s.cfg.Location.String()),
		slog.Int("monthly_hour", s.cfg.MonthlyHour))

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	s.Tick(ctx, s.now())
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return nil
		case t := <-ticker.C:
			s.Tick(ctx, t)
		}
	}
}

// Tick sends every reminder due at now.
func (s *Scheduler) Tick(ctx context.Context, now time.Time) {
	local := now.In(s.cfg.Location)
	log := s.logger.With(slog.String("tick", local.Format("2006-01-02 15:04")))
	ctx = logger.WithLogger(ctx, log)

	users, err := s.users.ListPushRecipients(ctx)
	if err != nil {
		log.Error("failed to list push recipients", slog.String("error", err.Error()))
		return
	}
	if len(users) == 0 {
		return
	}

	if local.Hour() == s.cfg.MonthlyHour && hebcal.IsFirstOfHebrewMonth(local) {
		s.sendMonthlyGoals(ctx, users, local)
	}
	s.sendDaily(ctx, users, local)
}

func (s *Scheduler) sendMonthlyGoals(ctx context.Context, users []*domain.User, local time.Time) {
	sent := 0
	for _, user := range users {
		msg := push.NewMessage(user.ID, user.Profile.PushToken, push.TypeMonthlyGoals, monthlyGoalsTitle, monthlyGoalsBody)
		if s.deliver(ctx, user, local, string(push.TypeMonthlyGoals), msg) {
			sent++
		}
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("monthly goals reminders queued",
		slog.String("month_key", hebcal.MonthKeyFor(local).String()),
		slog.Int("count", sent))
}

func (s *Scheduler) sendDaily(ctx context.Context, users []*domain.User, local time.Time) {
	var due []*domain.User
	for _, user := range users {
		hour, minute, err := user.Profile.ReminderClock()
		if err != nil {
			metrics.RemindersSkipped.WithLabelValues(skipNoClock).Inc()
			continue
		}
		at := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, local.Location())
		if local.Before(at) || local.Sub(at) >= dailyWindow {
			continue
		}
		if !user.Profile.WorksOn(local.Weekday()) {
			metrics.RemindersSkipped.WithLabelValues(skipNotWorkDay).Inc()
			continue
		}
		due = append(due, user)
	}
	if len(due) == 0 {
		return
	}

	log := logger.FromContextOrDefault(ctx, s.logger)
	if hebcal.IsDayOff(local, s.cfg.Vacations) {
		metrics.RemindersSkipped.WithLabelValues(skipDayOff).Add(float64(len(due)))
		log.Debug("daily reminders skipped on day off", slog.Int("count", len(due)))
		return
	}

	catalog, err := s.sets.List(ctx)
	if err != nil {
		log.Error("failed to load question sets", slog.String("error", err.Error()))
		return
	}

	for _, user := range due {
		// The message is composed inside the claim so a duplicate tick does not
		// call the generator again.
		s.claim(ctx, user, local, "daily", func() error {
			msg := s.composeDaily(ctx, user, catalog, local)
			return s.submit(ctx, msg)
		})
	}
}

// composeDaily picks today's question when the user has one, otherwise a
// generic or inspirational reminder by density.
func (s *Scheduler) composeDaily(
	ctx context.Context,
	user *domain.User,
	catalog []*domain.QuestionSet,
	local time.Time,
) push.Message {
	token := user.Profile.PushToken

	today := s.resolver.Today(user.ActiveSet, catalog, user.OptOuts, local)
	if today.Question != nil {
		msg := push.NewMessage(user.ID, token, push.TypeSetQuestion,
			setQuestionTitle(today.Resolution.Set), clip(today.Question.Prompt()))
		msg.Data["setId"] = today.Resolution.Set.ID.String()
		msg.Data["questionIndex"] = fmt.Sprint(today.Index)
		return msg
	}

	if user.Profile.ReminderDensity == domain.DensityHigh {
		text, err := s.inspiration.Inspiration(ctx, generation.Request{
			Topics: user.Profile.ReminderTopics,
			Day:    local,
		})
		if err == nil && text != "" {
			return push.NewMessage(user.ID, token, push.TypeInspiration, inspirationTitle, clip(text))
		}
		logger.FromContextOrDefault(ctx, s.logger).Warn("inspiration unavailable, sending daily reminder",
			slog.String("user_id", user.ID.String()))
	}

	return push.NewMessage(user.ID, token, push.TypeDaily, dailyTitle, dailyBody)
}

// deliver submits msg once per user, kind and local day.
func (s *Scheduler) deliver(ctx context.Context, user *domain.User, local time.Time, kind string, msg push.Message) bool {
	return s.claim(ctx, user, local, kind, func() error {
		return s.submit(ctx, msg)
	})
}

func (s *Scheduler) claim(ctx context.Context, user *domain.User, local time.Time, kind string, fn func() error) bool {
	key := fmt.Sprintf("%s:%s:%s", kind, user.ID, local.Format(time.DateOnly))
	ran, err := s.deduper.Once(ctx, key, claimTTL, fn)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to queue reminder",
			slog.String("user_id", user.ID.String()),
			slog.String("kind", kind),
			slog.String("error", err.Error()))
		return false
	}
	if !ran {
		metrics.RemindersSkipped.WithLabelValues(skipDuplicate).Inc()
	}
	return ran
}

func (s *Scheduler) submit(ctx context.Context, msg push.Message) error {
	t, err := task.NewPushTask(msg, s.publisher)
	if err != nil {
		return err
	}
	return s.submitter.Submit(ctx, t)
}

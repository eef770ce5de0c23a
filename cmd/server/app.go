package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/yoman-app/yoman-api/internal/config"
	"github.com/yoman-app/yoman-api/internal/domain/progress"
	"github.com/yoman-app/yoman-api/internal/generation"
	"github.com/yoman-app/yoman-api/internal/metrics"
	"github.com/yoman-app/yoman-api/internal/platform/cache"
	"github.com/yoman-app/yoman-api/internal/platform/gemini"
	"github.com/yoman-app/yoman-api/internal/platform/objectstore"
	"github.com/yoman-app/yoman-api/internal/platform/postgres"
	"github.com/yoman-app/yoman-api/internal/platform/push"
	"github.com/yoman-app/yoman-api/internal/reminder"
	"github.com/yoman-app/yoman-api/internal/service"
	"github.com/yoman-app/yoman-api/internal/service/auth"
	"github.com/yoman-app/yoman-api/internal/store"
	"github.com/yoman-app/yoman-api/internal/task"
)

const reminderDedupePrefix = "yoman:reminder:"

// application holds every long-lived dependency of the server.
type application struct {
	config   *config.Config
	logger   *slog.Logger
	db       *sql.DB
	redis    *redis.Client
	location *time.Location

	services   services
	jwtService auth.JWTService
	registry   *prometheus.Registry

	publisher  push.Publisher
	taskRunner *task.TaskRunner
	scheduler  *reminder.Scheduler
}

// services groups the business services the router exposes.
type services struct {
	users    service.UserService
	profiles service.ProfileService
	sets     service.SetService
	progress service.ProgressService
	journal  service.JournalService
	goals    service.GoalsService
	calendar service.CalendarService
	uploads  service.UploadService
}

// newApplication wires stores, adapters, services and background workers.
// Optional adapters (Redis, object storage, Gemini) are skipped when their
// configuration is empty.
func newApplication(ctx context.Context, cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	loc, err := cfg.Server.Location()
	if err != nil {
		return nil, err
	}

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app := &application{
		config:     cfg,
		logger:     log,
		db:         db,
		location:   loc,
		jwtService: jwtService,
	}

	users := postgres.NewPostgresUserStore(db, log)
	entries := postgres.NewPostgresEntryStore(db, log)
	goalsStore := postgres.NewPostgresGoalsStore(db, log)
	pgSets := postgres.NewPostgresQuestionSetStore(db, log)

	var sets store.QuestionSetStore = pgSets
	var listPusher push.ListPusher
	var deduper reminder.Deduper = reminder.NewLocalDeduper()
	if cfg.Redis.Enabled() {
		client, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, err
		}
		app.redis = client
		listPusher = client
		ttl := time.Duration(cfg.Redis.CatalogTTLSeconds) * time.Second
		sets = cache.NewCachedSetStore(pgSets, client, ttl, log)
		deduper = cache.NewDeduper(client, reminderDedupePrefix)
		log.Info("redis connected", slog.Duration("catalog_ttl", ttl))
	}

	publisher, err := push.New(cfg.Push, listPusher, log)
	if err != nil {
		app.closeAdapters()
		return nil, fmt.Errorf("failed to initialize push publisher: %w", err)
	}
	app.publisher = publisher

	var presigner service.Presigner
	if cfg.Storage.Enabled() {
		bucket, err := objectstore.NewBucket(ctx, cfg.Storage)
		if err != nil {
			app.closeAdapters()
			return nil, fmt.Errorf("failed to initialize object storage: %w", err)
		}
		presigner = bucket
	} else {
		log.Info("object storage not configured, uploads disabled")
	}

	var primary generation.Generator
	if cfg.LLM.GeminiAPIKey != "" {
		gen, err := gemini.NewGenerator(ctx, log, cfg.LLM)
		if err != nil {
			app.closeAdapters()
			return nil, fmt.Errorf("failed to initialize gemini generator: %w", err)
		}
		primary = gen
	}
	inspiration := generation.WithFallback(primary, log)

	resolver := progress.NewService(loc)
	hasher := auth.NewBcryptHasher(cfg.Auth.BCryptCost)
	app.services = services{
		users:    service.NewUserService(users, hasher, db, log),
		profiles: service.NewProfileService(users, db, log),
		sets:     service.NewSetService(sets, db, log),
		progress: service.NewProgressService(users, sets, entries, resolver, db, log),
		journal:  service.NewJournalService(users, sets, entries, db, loc, log),
		goals:    service.NewGoalsService(goalsStore, loc, log),
		calendar: service.NewCalendarService(loc, cfg.Reminders.Vacations),
		uploads:  service.NewUploadService(presigner, log),
	}

	runnerCfg := task.DefaultTaskRunnerConfig()
	runnerCfg.WorkerCount = cfg.Reminders.Workers
	runnerCfg.QueueSize = cfg.Reminders.QueueSize
	app.taskRunner = task.NewTaskRunner(postgres.NewPostgresTaskStore(db, log), runnerCfg, log)
	app.taskRunner.RegisterDecoder(task.TaskTypePushDelivery, task.PushDecoder(publisher))

	if cfg.Reminders.Enabled {
		app.scheduler = reminder.NewScheduler(
			users,
			sets,
			resolver,
			inspiration,
			publisher,
			app.taskRunner,
			deduper,
			reminder.Config{
				MonthlyHour: cfg.Reminders.MonthlyHour,
				Vacations:   cfg.Reminders.Vacations,
				Location:    loc,
			},
			log,
		)
	}

	app.registry = prometheus.NewRegistry()
	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(app.registry)

	return app, nil
}

// closeAdapters releases external connections opened during wiring.
func (app *application) closeAdapters() {
	if app.publisher != nil {
		if err := app.publisher.Close(); err != nil {
			app.logger.Error("failed to close push publisher", slog.String("error", err.Error()))
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("failed to close redis client", slog.String("error", err.Error()))
		}
	}
}

package main

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/yoman-app/yoman-api/internal/api"
	"github.com/yoman-app/yoman-api/internal/api/middleware"
	"github.com/yoman-app/yoman-api/internal/service/auth"
)

// routerDeps carries everything setupRouter needs, so tests can build the
// router without a database.
type routerDeps struct {
	services    services
	jwtService  auth.JWTService
	gatherer    prometheus.Gatherer
	corsOrigins []string
	location    *time.Location
	health      func(ctx context.Context) error
	logger      *slog.Logger
}

func (app *application) routerDeps() routerDeps {
	return routerDeps{
		services:    app.services,
		jwtService:  app.jwtService,
		gatherer:    app.registry,
		corsOrigins: app.config.Server.CORSOrigins,
		location:    app.location,
		health:      app.db.PingContext,
		logger:      app.logger,
	}
}

// setupRouter builds the chi router with every API route.
func setupRouter(deps routerDeps) http.Handler {
	loc := deps.location

	authHandler := api.NewAuthHandler(deps.services.users, deps.jwtService, deps.logger)
	profileHandler := api.NewProfileHandler(deps.services.users, deps.services.profiles, deps.logger)
	setHandler := api.NewSetHandler(deps.services.sets, deps.services.progress, deps.services.journal, deps.logger)
	entryHandler := api.NewEntryHandler(deps.services.journal, loc, deps.logger)
	goalsHandler := api.NewGoalsHandler(deps.services.goals, deps.logger)
	calendarHandler := api.NewCalendarHandler(deps.services.calendar, loc)
	uploadHandler := api.NewUploadHandler(deps.services.uploads)
	authMiddleware := middleware.NewAuthMiddleware(deps.jwtService)

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(middleware.Trace(deps.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   deps.corsOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler)

	r.Get("/health", healthHandler(deps.health))
	if deps.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Put("/auth/password", authHandler.ChangePassword)

			r.Route("/profile", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Put("/", profileHandler.Update)
				r.Delete("/", profileHandler.Delete)
				r.Put("/push-token", profileHandler.SavePushToken)
			})

			r.Get("/today", setHandler.Today)
			r.Route("/sets", func(r chi.Router) {
				r.Get("/", setHandler.List)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", setHandler.Get)
					r.Post("/register", setHandler.Register)
					r.Post("/opt-in", setHandler.OptIn)
					r.Post("/opt-out", setHandler.OptOut)
					r.Post("/questions/{index}/answer", setHandler.Answer)
				})
			})

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", entryHandler.List)
				r.Post("/", entryHandler.Create)
				r.Get("/days", entryHandler.Days)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", entryHandler.Get)
					r.Put("/", entryHandler.Update)
					r.Delete("/", entryHandler.Delete)
					r.Post("/archive", entryHandler.Archive)
				})
			})

			r.Get("/goals/{monthKey}", goalsHandler.Get)
			r.Put("/goals/{monthKey}", goalsHandler.Save)

			r.Get("/calendar/today", calendarHandler.Today)
			r.Get("/calendar/day", calendarHandler.Day)
			r.Get("/calendar/months", calendarHandler.Months)

			r.Post("/uploads", uploadHandler.Presign)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Post("/sets", setHandler.Create)
				r.Put("/sets/{id}", setHandler.Update)
				r.Delete("/sets/{id}", setHandler.Delete)
			})
		})
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if check != nil {
			if err := check(r.Context()); err != nil {
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"status":"unavailable"}`))
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}
}

package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yoman-app/yoman-api/internal/api/shared"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/service"
)

// GoalsHandler serves monthly goals.
type GoalsHandler struct {
	goals  service.GoalsService
	logger *slog.Logger
}

// NewGoalsHandler creates a new GoalsHandler.
func NewGoalsHandler(goals service.GoalsService, logger *slog.Logger) *GoalsHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for GoalsHandler")
	}
	return &GoalsHandler{
		goals:  goals,
		logger: logger.With(slog.String("component", "goals_handler")),
	}
}

// Get handles GET /api/goals/{monthKey}. "current" selects the Hebrew month
// containing today.
func (h *GoalsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	view, err := h.goals.Get(r.Context(), userID, chi.URLParam(r, "monthKey"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newGoalsResponse(view))
}

// Save handles PUT /api/goals/{monthKey}.
func (h *GoalsHandler) Save(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req GoalsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	view, err := h.goals.Save(r.Context(), userID, chi.URLParam(r, "monthKey"), domain.MonthlyGoals{
		Professional: req.Professional,
		Personal:     req.Personal,
		Spiritual:    req.Spiritual,
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newGoalsResponse(view))
}

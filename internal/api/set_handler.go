package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/yoman-app/yoman-api/internal/api/shared"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/platform/logger"
	"github.com/yoman-app/yoman-api/internal/service"
)

// SetHandler serves the question set catalog and the user's progress
// through it.
type SetHandler struct {
	sets     service.SetService
	progress service.ProgressService
	journal  service.JournalService
	logger   *slog.Logger
}

// NewSetHandler creates a new SetHandler.
func NewSetHandler(
	sets service.SetService,
	progress service.ProgressService,
	journal service.JournalService,
	logger *slog.Logger,
) *SetHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for SetHandler")
	}
	return &SetHandler{
		sets:     sets,
		progress: progress,
		journal:  journal,
		logger:   logger.With(slog.String("component", "set_handler")),
	}
}

// List handles GET /api/sets.
func (h *SetHandler) List(w http.ResponseWriter, r *http.Request) {
	sets, err := h.sets.List(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list question sets")
		return
	}
	if sets == nil {
		sets = []*domain.QuestionSet{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sets)
}

// Get handles GET /api/sets/{id}.
func (h *SetHandler) Get(w http.ResponseWriter, r *http.Request) {
	_, setID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	set, err := h.sets.Get(r.Context(), setID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, set)
}

// Today handles GET /api/today.
func (h *SetHandler) Today(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	view, err := h.progress.Today(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newTodayResponse(view))
}

// Register handles POST /api/sets/{id}/register.
func (h *SetHandler) Register(w http.ResponseWriter, r *http.Request) {
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	pointer, err := h.progress.Register(r.Context(), userID, setID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pointer)
}

// OptIn handles POST /api/sets/{id}/opt-in.
func (h *SetHandler) OptIn(w http.ResponseWriter, r *http.Request) {
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	pointer, err := h.progress.OptIn(r.Context(), userID, setID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, pointer)
}

// OptOut handles POST /api/sets/{id}/opt-out.
func (h *SetHandler) OptOut(w http.ResponseWriter, r *http.Request) {
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if err := h.progress.OptOut(r.Context(), userID, setID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Answer handles POST /api/sets/{id}/questions/{index}/answer. The
// response is written only after the answer and the advanced pointer are
// committed.
func (h *SetHandler) Answer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	userID, setID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		log.Warn("invalid question index", slog.String("value", chi.URLParam(r, "index")))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid question index")
		return
	}
	var req AnswerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	res, err := h.journal.AnswerQuestion(r.Context(), userID, setID, index, req.Text)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("question answered",
		slog.String("set_id", setID.String()),
		slog.Int("index", index),
		slog.Bool("completed", res.Completed))
	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		Entry:     res.Entry,
		ActiveSet: res.Pointer,
		Completed: res.Completed,
	})
}

// Create handles POST /api/admin/sets.
func (h *SetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	set, err := h.sets.Create(r.Context(), req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("question set created",
		slog.String("set_id", set.ID.String()),
		slog.String("type", string(set.Type)))
	shared.RespondWithJSON(w, r, http.StatusCreated, set)
}

// Update handles PUT /api/admin/sets/{id}.
func (h *SetHandler) Update(w http.ResponseWriter, r *http.Request) {
	_, setID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	var req SetRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	set, err := h.sets.Update(r.Context(), setID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, set)
}

// Delete handles DELETE /api/admin/sets/{id}.
func (h *SetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, setID, ok := handleUserIDAndPathUUID(w, r, "id", h.logger)
	if !ok {
		return
	}
	if err := h.sets.Delete(r.Context(), setID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("question set deleted",
		slog.String("set_id", setID.String()))
	w.WriteHeader(http.StatusNoContent)
}

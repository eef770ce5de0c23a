package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/yoman-app/yoman-api/internal/api/shared"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/service"
)

// EntryHandler serves diary entries.
type EntryHandler struct {
	journal service.JournalService
	loc     *time.Location
	now     func() time.Time
	logger  *slog.Logger
}

// NewEntryHandler creates a new EntryHandler. Query dates are interpreted
// in loc.
func NewEntryHandler(journal service.JournalService, loc *time.Location, logger *slog.Logger) *EntryHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for EntryHandler")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &EntryHandler{
		journal: journal,
		loc:     loc,
		now:     time.Now,
		logger:  logger.With(slog.String("component", "entry_handler")),
	}
}

// List handles GET /api/entries. It accepts either month=YYYY-MM or a
// from/to date range (to inclusive); with neither it lists the current
// month. archived=true includes archived entries.
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	archived, err := queryBool(r, "archived")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var entries []*domain.Entry
	if month := r.URL.Query().Get("month"); month != "" || r.URL.Query().Get("from") == "" {
		year, mon, perr := h.parseMonth(month)
		if perr != nil {
			HandleAPIError(w, r, perr, "")
			return
		}
		entries, err = h.journal.ListMonth(r.Context(), userID, year, mon, archived)
	} else {
		from, to, rerr := h.parseRange(r)
		if rerr != nil {
			HandleAPIError(w, r, rerr, "")
			return
		}
		entries, err = h.journal.ListRange(r.Context(), userID, from, to, archived)
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if entries == nil {
		entries = []*domain.Entry{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entries)
}

// Days handles GET /api/entries/days?from=&to= for the calendar grid.
func (h *EntryHandler) Days(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	from, to, err := h.parseRange(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	days, err := h.journal.EntryDays(r.Context(), userID, from, to)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	resp := EntryDaysResponse{Days: make([]string, 0, len(days))}
	for _, d := range days {
		resp.Days = append(resp.Days, d.In(h.loc).Format(time.DateOnly))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// Create handles POST /api/entries.
func (h *EntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req EntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	entry, err := h.journal.Create(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, entry)
}

// Get handles GET /api/entries/{id}.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}
	entry, err := h.journal.Get(r.Context(), userID, entryID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entry)
}

// Update handles PUT /api/entries/{id}.
func (h *EntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}
	var req EntryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	entry, err := h.journal.Update(r.Context(), userID, entryID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entry)
}

// Delete handles DELETE /api/entries/{id}.
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}
	if err := h.journal.Delete(r.Context(), userID, entryID); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Archive handles POST /api/entries/{id}/archive. The body may set
// "archived": false to restore an entry.
func (h *EntryHandler) Archive(w http.ResponseWriter, r *http.Request) {
	userID, entryID, ok := handleUserIDAndPathUUID(w, r, "id", nil)
	if !ok {
		return
	}
	archived := true
	var req ArchiveRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if !errors.Is(err, shared.ErrEmptyBody) {
			shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
			return
		}
	} else if req.Archived != nil {
		archived = *req.Archived
	}
	entry, err := h.journal.Archive(r.Context(), userID, entryID, archived)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, entry)
}

func (h *EntryHandler) parseMonth(raw string) (int, time.Month, error) {
	if raw == "" {
		now := h.now().In(h.loc)
		return now.Year(), now.Month(), nil
	}
	t, err := time.ParseInLocation("2006-01", raw, h.loc)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: month must be YYYY-MM", domain.ErrInvalidFormat)
	}
	return t.Year(), t.Month(), nil
}

// parseRange reads from and to as local dates and returns the half-open
// window [from, to+1 day).
func (h *EntryHandler) parseRange(r *http.Request) (time.Time, time.Time, error) {
	from, okFrom, err := queryDate(r, "from", h.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	to, okTo, err := queryDate(r, "to", h.loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !okFrom || !okTo {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from and to are required", domain.ErrValidation)
	}
	return from, to.AddDate(0, 0, 1), nil
}

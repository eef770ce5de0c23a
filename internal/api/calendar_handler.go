package api

import (
	"net/http"
	"time"

	"github.com/yoman-app/yoman-api/internal/api/shared"
	"github.com/yoman-app/yoman-api/internal/service"
)

// CalendarHandler exposes Hebrew calendar facts to the client.
type CalendarHandler struct {
	calendar service.CalendarService
	loc      *time.Location
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendar service.CalendarService, loc *time.Location) *CalendarHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &CalendarHandler{calendar: calendar, loc: loc}
}

// Today handles GET /api/calendar/today.
func (h *CalendarHandler) Today(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, newDayResponse(h.calendar.Today()))
}

// Day handles GET /api/calendar/day?date=YYYY-MM-DD.
func (h *CalendarHandler) Day(w http.ResponseWriter, r *http.Request) {
	date, ok, err := queryDate(r, "date", h.loc)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid date: required field")
		return
	}
	// Noon keeps the Hebrew date on the civil day regardless of DST.
	noon := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, h.loc)
	shared.RespondWithJSON(w, r, http.StatusOK, newDayResponse(h.calendar.Day(noon)))
}

// Months handles GET /api/calendar/months?before=&after=.
func (h *CalendarHandler) Months(w http.ResponseWriter, r *http.Request) {
	before, err := queryInt(r, "before", 1)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	after, err := queryInt(r, "after", 1)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newMonthResponses(h.calendar.Months(before, after)))
}

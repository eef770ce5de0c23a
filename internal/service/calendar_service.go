package service

import (
	"time"

	"github.com/yoman-app/yoman-api/internal/hebcal"
)

// DayInfo describes one local day in Hebrew calendar terms.
type DayInfo struct {
	Date         time.Time
	HebrewDate   string
	HebrewShort  string
	MonthKey     string
	MonthLabel   string
	Holidays     []string
	DayOff       bool
	FirstOfMonth bool
}

// CalendarService answers Hebrew calendar questions for the client.
type CalendarService interface {
	Today() DayInfo
	Day(t time.Time) DayInfo

	// Months returns before+1+after Hebrew month windows around now.
	Months(before, after int) []hebcal.MonthWindow
}

type calendarService struct {
	loc       *time.Location
	vacations []hebcal.Vacation
	now       func() time.Time
}

// NewCalendarService creates a CalendarService for loc. vacations are the
// configured school-style vacation ranges counted as days off.
func NewCalendarService(loc *time.Location, vacations []hebcal.Vacation) CalendarService {
	if loc == nil {
		loc = time.Local
	}
	return &calendarService{loc: loc, vacations: vacations, now: time.Now}
}

func (s *calendarService) Today() DayInfo {
	return s.Day(s.now())
}

func (s *calendarService) Day(t time.Time) DayInfo {
	local := t.In(s.loc)
	key := hebcal.MonthKeyFor(local)
	return DayInfo{
		Date:         local,
		HebrewDate:   hebcal.FormatLong(local),
		HebrewShort:  hebcal.FormatShort(local),
		MonthKey:     key.String(),
		MonthLabel:   key.Label(),
		Holidays:     hebcal.HolidayNames(local, s.vacations),
		DayOff:       hebcal.IsDayOff(local, s.vacations),
		FirstOfMonth: hebcal.IsFirstOfHebrewMonth(local),
	}
}

func (s *calendarService) Months(before, after int) []hebcal.MonthWindow {
	const maxSpan = 24
	before = min(before, maxSpan)
	after = min(after, maxSpan)
	return hebcal.MonthBoundaries(s.now(), before, after, s.loc)
}

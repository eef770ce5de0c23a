// Package progress decides which question set a user is working on and which
// of its questions belongs to today.
package progress

import (
	"time"

	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/hebcal"
)

// Today is everything the home screen needs about the current day.
type Today struct {
	Resolution Resolution
	// Index is today's question index; meaningful only when Question is set.
	Index int
	// Question is nil when there is no effective set or it has no questions.
	Question   domain.Question
	Date       hebcal.Date
	HebrewDate string
	MonthKey   hebcal.MonthKey
}

// Service defines the interface for set resolution operations
type Service interface {
	// Resolve picks the effective set for the user at now
	Resolve(
		pointer *domain.ActiveSetPointer,
		catalog []*domain.QuestionSet,
		optOuts domain.OptOutSet,
		now time.Time,
	) Resolution

	// TodayIndex maps the start of a set to today's question index
	TodayIndex(startedAt time.Time, totalQuestions int, now time.Time) int

	// Today combines resolution, day offset and the Hebrew date for now
	Today(
		pointer *domain.ActiveSetPointer,
		catalog []*domain.QuestionSet,
		optOuts domain.OptOutSet,
		now time.Time,
	) Today

	// Location returns the time zone the service evaluates days in
	Location() *time.Location
}

// defaultService evaluates every rule in a fixed location.
type defaultService struct {
	loc *time.Location
}

// NewService creates a service that evaluates days in loc. A nil loc means
// time.Local.
func NewService(loc *time.Location) Service {
	if loc == nil {
		loc = time.Local
	}
	return &defaultService{loc: loc}
}

func (s *defaultService) Location() *time.Location {
	return s.loc
}

func (s *defaultService) Resolve(
	pointer *domain.ActiveSetPointer,
	catalog []*domain.QuestionSet,
	optOuts domain.OptOutSet,
	now time.Time,
) Resolution {
	return Resolve(pointer, catalog, optOuts, now.In(s.loc))
}

func (s *defaultService) TodayIndex(startedAt time.Time, totalQuestions int, now time.Time) int {
	return TodayIndex(startedAt, totalQuestions, now.In(s.loc))
}

func (s *defaultService) Today(
	pointer *domain.ActiveSetPointer,
	catalog []*domain.QuestionSet,
	optOuts domain.OptOutSet,
	now time.Time,
) Today {
	local := now.In(s.loc)
	today := Today{
		Resolution: Resolve(pointer, catalog, optOuts, local),
		Date:       hebcal.FromTime(local),
		HebrewDate: hebcal.FormatLong(local),
		MonthKey:   hebcal.MonthKeyFor(local),
	}

	if !today.Resolution.Found() || today.Resolution.Set.Total() == 0 {
		return today
	}

	set := today.Resolution.Set
	today.Index = TodayIndex(today.Resolution.Pointer.StartedAt, set.Total(), local)
	today.Question = set.Questions.At(today.Index)
	return today
}

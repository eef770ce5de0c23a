package progress

import (
	"time"

	"github.com/yoman-app/yoman-api/internal/hebcal"
)

// TodayIndex maps the days elapsed since startedAt to a question index.
//
// The difference is counted in calendar days between the local dates of
// startedAt and now (both taken in now's location), then clamped to
// [0, totalQuestions-1]. A zero startedAt counts as now. For
// totalQuestions <= 0 the result is 0 and the caller must not show a
// question.
func TodayIndex(startedAt time.Time, totalQuestions int, now time.Time) int {
	if totalQuestions <= 0 {
		return 0
	}
	if startedAt.IsZero() {
		return 0
	}

	days := hebcal.DaysBetween(startedAt.In(now.Location()), now)
	switch {
	case days < 0:
		return 0
	case days > totalQuestions-1:
		return totalQuestions - 1
	default:
		return days
	}
}

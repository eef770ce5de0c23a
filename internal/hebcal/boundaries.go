package hebcal

import "time"

// MonthWindow is the Gregorian span of one Hebrew month. End is the last
// instant before the next month starts, so [Start, End] is inclusive.
type MonthWindow struct {
	Key   MonthKey
	Start time.Time
	End   time.Time
	Label string
}

// Contains reports whether t falls inside the window.
func (w MonthWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// MonthBoundaries returns before+1+after consecutive month windows centred on
// the Hebrew month containing now, oldest first. Negative counts are treated
// as zero. Boundaries are local midnights in loc (time.Local when nil).
func MonthBoundaries(now time.Time, before, after int, loc *time.Location) []MonthWindow {
	if loc == nil {
		loc = time.Local
	}
	if before < 0 {
		before = 0
	}
	if after < 0 {
		after = 0
	}

	key := MonthKeyFor(now.In(loc))
	for i := 0; i < before; i++ {
		key = key.Prev()
	}

	windows := make([]MonthWindow, 0, before+1+after)
	start := key.FirstDay(loc)
	for i := 0; i < before+1+after; i++ {
		next := key.Next()
		nextStart := next.FirstDay(loc)
		windows = append(windows, MonthWindow{
			Key:   key,
			Start: start,
			End:   nextStart.Add(-time.Nanosecond),
			Label: key.Label(),
		})
		key, start = next, nextStart
	}
	return windows
}

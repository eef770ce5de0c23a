package hebcal

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidMonthKey is returned when a month key cannot be parsed or names a
// month that does not exist in its year.
var ErrInvalidMonthKey = errors.New("invalid hebrew month key")

var monthKeyPattern = regexp.MustCompile(`^(\d+)-(\d{2})$`)

// MonthKey identifies a Hebrew month. Its string form "{year}-{MM}" is the
// persisted key for monthly question sets and monthly goals.
type MonthKey struct {
	Year  int
	Month Month
}

// MonthKeyFor returns the key of the Hebrew month containing t.
func MonthKeyFor(t time.Time) MonthKey {
	d := FromTime(t)
	return MonthKey{Year: d.Year, Month: d.Month}
}

// ParseMonthKey parses the "{year}-{MM}" form produced by String.
func ParseMonthKey(s string) (MonthKey, error) {
	m := monthKeyPattern.FindStringSubmatch(s)
	if m == nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	year, err := strconv.Atoi(m[1])
	if err != nil {
		return MonthKey{}, fmt.Errorf("%w: %q", ErrInvalidMonthKey, s)
	}
	month, _ := strconv.Atoi(m[2])
	key := MonthKey{Year: year, Month: Month(month)}
	if !key.Valid() {
		return MonthKey{}, fmt.Errorf("%w: %q has no such month", ErrInvalidMonthKey, s)
	}
	return key, nil
}

// String renders the key with a zero-padded month, e.g. "5786-02".
func (k MonthKey) String() string {
	return fmt.Sprintf("%d-%02d", k.Year, int(k.Month))
}

// Valid reports whether the month exists in the key's year.
func (k MonthKey) Valid() bool {
	return k.Year >= 1 && k.Month >= Nisan && int(k.Month) <= MonthsInYear(k.Year)
}

// FirstDay returns local midnight of day 1 of the month in loc.
func (k MonthKey) FirstDay(loc *time.Location) time.Time {
	return Date{Year: k.Year, Month: k.Month, Day: 1}.Time(loc)
}

// Days returns the length of the month.
func (k MonthKey) Days() int {
	return DaysInMonth(k.Month, k.Year)
}

// Next returns the following Hebrew month. The year number changes after Elul.
func (k MonthKey) Next() MonthKey {
	switch {
	case k.Month == Elul:
		return MonthKey{Year: k.Year + 1, Month: Tishrei}
	case k.Month == Adar2, k.Month == Adar1 && !IsLeapYear(k.Year):
		return MonthKey{Year: k.Year, Month: Nisan}
	default:
		return MonthKey{Year: k.Year, Month: k.Month + 1}
	}
}

// Prev returns the preceding Hebrew month.
func (k MonthKey) Prev() MonthKey {
	switch k.Month {
	case Tishrei:
		return MonthKey{Year: k.Year - 1, Month: Elul}
	case Nisan:
		return MonthKey{Year: k.Year, Month: Month(MonthsInYear(k.Year))}
	default:
		return MonthKey{Year: k.Year, Month: k.Month - 1}
	}
}

// Label renders the month and year in Hebrew, e.g. "אדר תשפ״ו".
func (k MonthKey) Label() string {
	return MonthName(k.Year, k.Month) + " " + Gematriya(k.Year)
}

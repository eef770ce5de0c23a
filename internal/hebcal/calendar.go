package hebcal

import (
	"fmt"
	"time"
)

// Month is a Hebrew calendar month.
type Month int

// Hebrew months in hebcal numbering. The civil year starts at Tishrei, so a
// year runs Tishrei..Adar (or Adar II) and then Nisan..Elul.
const (
	Nisan Month = iota + 1
	Iyyar
	Sivan
	Tamuz
	Av
	Elul
	Tishrei
	Cheshvan
	Kislev
	Tevet
	Shvat
	Adar1
	Adar2
)

// Adar is the single Adar of a common year; it shares its number with Adar I.
const Adar = Adar1

// epoch is the rata die of the day before 1 Tishrei AM 1.
const epoch int64 = -1373428

// unixEpochRD is the rata die of 1970-01-01 (rata die 1 is 0001-01-01).
const unixEpochRD int64 = 719163

// Date is a day in the Hebrew calendar.
type Date struct {
	Year  int
	Month Month
	Day   int
}

// String renders the date as "year-MM-DD" in Hebrew numbering.
func (d Date) String() string {
	return fmt.Sprintf("%d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// IsLeapYear reports whether the Hebrew year has thirteen months.
func IsLeapYear(year int) bool {
	return (1+year*7)%19 < 7
}

// MonthsInYear returns 12 or 13.
func MonthsInYear(year int) int {
	if IsLeapYear(year) {
		return 13
	}
	return 12
}

// elapsedDays returns the number of days from the epoch to 1 Tishrei of year,
// applying the molad and postponement (dehiyyot) rules.
func elapsedDays(year int) int64 {
	prev := int64(year - 1)
	monthsElapsed := 235*(prev/19) + 12*(prev%19) + ((prev%19)*7+1)/19
	partsElapsed := 204 + 793*(monthsElapsed%1080)
	hoursElapsed := 5 + 12*monthsElapsed + 793*(monthsElapsed/1080) + partsElapsed/1080
	parts := partsElapsed%1080 + 1080*(hoursElapsed%24)
	day := 1 + 29*monthsElapsed + hoursElapsed/24

	altDay := day
	if parts >= 19440 ||
		(day%7 == 2 && parts >= 9924 && !IsLeapYear(year)) ||
		(day%7 == 1 && parts >= 16789 && IsLeapYear(year-1)) {
		altDay++
	}
	switch altDay % 7 {
	case 0, 3, 5:
		altDay++
	}
	return altDay
}

// DaysInYear returns the length of the Hebrew year (353..355 or 383..385).
func DaysInYear(year int) int {
	return int(elapsedDays(year+1) - elapsedDays(year))
}

func longCheshvan(year int) bool {
	return DaysInYear(year)%10 == 5
}

func shortKislev(year int) bool {
	return DaysInYear(year)%10 == 3
}

// DaysInMonth returns 29 or 30.
func DaysInMonth(month Month, year int) int {
	switch {
	case month == Iyyar, month == Tamuz, month == Elul, month == Tevet, month == Adar2:
		return 29
	case month == Adar1 && !IsLeapYear(year):
		return 29
	case month == Cheshvan && !longCheshvan(year):
		return 29
	case month == Kislev && shortKislev(year):
		return 29
	default:
		return 30
	}
}

// Valid reports whether the date exists in the Hebrew calendar.
func (d Date) Valid() bool {
	if d.Year < 1 || d.Month < Nisan || int(d.Month) > MonthsInYear(d.Year) {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Month, d.Year)
}

// rataDie converts a Hebrew date to a day count (rata die).
func (d Date) rataDie() int64 {
	days := int64(d.Day)
	if d.Month < Tishrei {
		for m := Tishrei; int(m) <= MonthsInYear(d.Year); m++ {
			days += int64(DaysInMonth(m, d.Year))
		}
		for m := Nisan; m < d.Month; m++ {
			days += int64(DaysInMonth(m, d.Year))
		}
	} else {
		for m := Tishrei; m < d.Month; m++ {
			days += int64(DaysInMonth(m, d.Year))
		}
	}
	return epoch + elapsedDays(d.Year) + days - 1
}

func newYear(year int) int64 {
	return epoch + elapsedDays(year)
}

// fromRataDie converts a day count to a Hebrew date.
func fromRataDie(rd int64) Date {
	year := int(float64(rd-epoch)/365.24682220597794) - 1
	if year < 1 {
		year = 1
	}
	for newYear(year+1) <= rd {
		year++
	}

	month := Tishrei
	if rd >= (Date{Year: year, Month: Nisan, Day: 1}).rataDie() {
		month = Nisan
	}
	for rd > (Date{Year: year, Month: month, Day: DaysInMonth(month, year)}).rataDie() {
		month++
	}
	first := Date{Year: year, Month: month, Day: 1}.rataDie()
	return Date{Year: year, Month: month, Day: int(rd-first) + 1}
}

// civilRataDie returns the rata die of the calendar date shown by t in its own location.
func civilRataDie(t time.Time) int64 {
	y, m, d := t.Date()
	unixDays := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
	return unixDays + unixEpochRD
}

// civilTime returns local midnight of the given rata die in loc.
func civilTime(rd int64, loc *time.Location) time.Time {
	u := time.Unix((rd-unixEpochRD)*86400, 0).UTC()
	if loc == nil {
		loc = time.Local
	}
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, loc)
}

// FromTime returns the Hebrew date of the civil date of t. The Hebrew day is
// taken to start at midnight, not at sunset.
func FromTime(t time.Time) Date {
	return fromRataDie(civilRataDie(t))
}

// Time returns local midnight of the Hebrew date in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return civilTime(d.rataDie(), loc)
}

// AddDays shifts the date by n days (n may be negative).
func (d Date) AddDays(n int) Date {
	return fromRataDie(d.rataDie() + int64(n))
}

// Weekday returns the day of the week of the Hebrew date.
func (d Date) Weekday() time.Weekday {
	// rata die 1 (0001-01-01) was a Monday.
	return time.Weekday(((d.rataDie() % 7) + 7) % 7)
}

// DaysBetween returns the number of civil days from a to b, ignoring the time
// of day. DST transitions do not affect the result.
func DaysBetween(a, b time.Time) int {
	return int(civilRataDie(b) - civilRataDie(a))
}

// IsFirstOfHebrewMonth reports whether t falls on Rosh Chodesh day 1.
func IsFirstOfHebrewMonth(t time.Time) bool {
	return FromTime(t).Day == 1
}

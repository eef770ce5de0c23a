package hebcal

import (
	"time"
)

// HolidayKind groups holidays by how the school calendar treats them.
type HolidayKind string

const (
	KindMajor       HolidayKind = "major"
	KindMinor       HolidayKind = "minor"
	KindModern      HolidayKind = "modern"
	KindFast        HolidayKind = "fast"
	KindRoshChodesh HolidayKind = "rosh_chodesh"
)

// Holiday is a named day in the Israeli Hebrew calendar.
type Holiday struct {
	Name   string
	Kind   HolidayKind
	DayOff bool
}

// Vacation is an inclusive range of civil dates in YYYY-MM-DD form.
type Vacation struct {
	Start string `mapstructure:"start" json:"start" validate:"required,datetime=2006-01-02"`
	End   string `mapstructure:"end" json:"end" validate:"required,datetime=2006-01-02"`
}

// DefaultVacations holds the Ministry of Education summer breaks.
var DefaultVacations = []Vacation{
	{Start: "2024-06-21", End: "2024-08-31"},
	{Start: "2025-06-20", End: "2025-08-31"},
	{Start: "2026-06-19", End: "2026-08-31"},
	{Start: "2027-06-18", End: "2027-08-31"},
	{Start: "2028-06-20", End: "2028-08-31"},
}

// SummerVacationName is the display name of a configured vacation day.
const SummerVacationName = "חופש גדול"

func (v Vacation) contains(dateKey string) bool {
	return dateKey >= v.Start && dateKey <= v.End
}

type fixedHoliday struct {
	month   Month
	day     int
	length  int
	holiday Holiday
}

// Holidays observed on the same Hebrew date every year (Israeli schedule).
var fixedHolidays = []fixedHoliday{
	{Tishrei, 1, 2, Holiday{Name: "ראש השנה", Kind: KindMajor, DayOff: true}},
	{Tishrei, 10, 1, Holiday{Name: "יום כיפור", Kind: KindMajor, DayOff: true}},
	{Tishrei, 15, 1, Holiday{Name: "סוכות", Kind: KindMajor, DayOff: true}},
	{Tishrei, 16, 5, Holiday{Name: "חול המועד סוכות", Kind: KindMinor, DayOff: true}},
	{Tishrei, 21, 1, Holiday{Name: "הושענא רבה", Kind: KindMinor, DayOff: true}},
	{Tishrei, 22, 1, Holiday{Name: "שמיני עצרת", Kind: KindMajor, DayOff: true}},
	{Kislev, 25, 8, Holiday{Name: "חנוכה", Kind: KindMinor, DayOff: true}},
	{Tevet, 10, 1, Holiday{Name: "עשרה בטבת", Kind: KindFast}},
	{Shvat, 15, 1, Holiday{Name: "ט״ו בשבט", Kind: KindMinor}},
	{Nisan, 15, 1, Holiday{Name: "פסח", Kind: KindMajor, DayOff: true}},
	{Nisan, 16, 5, Holiday{Name: "חול המועד פסח", Kind: KindMinor, DayOff: true}},
	{Nisan, 21, 1, Holiday{Name: "שביעי של פסח", Kind: KindMajor, DayOff: true}},
	{Iyyar, 18, 1, Holiday{Name: "ל״ג בעומר", Kind: KindMinor}},
	{Iyyar, 28, 1, Holiday{Name: "יום ירושלים", Kind: KindModern}},
	{Sivan, 6, 1, Holiday{Name: "שבועות", Kind: KindMajor, DayOff: true}},
	{Av, 15, 1, Holiday{Name: "ט״ו באב", Kind: KindMinor}},
}

// HolidaysOn returns the holidays falling on the civil date of t. Shabbat is
// not reported. The result is empty (not nil) on ordinary days.
func HolidaysOn(t time.Time) []Holiday {
	d := FromTime(t)
	rd := d.rataDie()
	out := []Holiday{}

	for _, f := range fixedHolidays {
		first := Date{Year: d.Year, Month: f.month, Day: f.day}.rataDie()
		if rd >= first && rd < first+int64(f.length) {
			out = append(out, f.holiday)
		}
	}

	for _, m := range movableHolidays(d.Year) {
		if m.date == d {
			out = append(out, m.holiday)
		}
	}

	if d.Day == 30 || (d.Day == 1 && d.Month != Tishrei) {
		out = append(out, Holiday{Name: "ראש חודש " + roshChodeshMonth(d), Kind: KindRoshChodesh})
	}
	return out
}

// IsDayOff reports whether t is a school holiday or falls in one of the
// vacation ranges. Rosh Chodesh, minor fasts and ordinary Shabbatot are not
// days off.
func IsDayOff(t time.Time, vacations []Vacation) bool {
	for _, h := range HolidaysOn(t) {
		if h.DayOff {
			return true
		}
	}
	key := t.Format(time.DateOnly)
	for _, v := range vacations {
		if v.contains(key) {
			return true
		}
	}
	return false
}

// HolidayNames lists the display names for t, including a configured vacation.
func HolidayNames(t time.Time, vacations []Vacation) []string {
	holidays := HolidaysOn(t)
	names := make([]string, 0, len(holidays)+1)
	for _, h := range holidays {
		names = append(names, h.Name)
	}
	key := t.Format(time.DateOnly)
	for _, v := range vacations {
		if v.contains(key) {
			names = append(names, SummerVacationName)
			break
		}
	}
	return names
}

func roshChodeshMonth(d Date) string {
	if d.Day == 30 {
		k := MonthKey{Year: d.Year, Month: d.Month}.Next()
		return MonthName(k.Year, k.Month)
	}
	return MonthName(d.Year, d.Month)
}

type datedHoliday struct {
	date    Date
	holiday Holiday
}

// movableHolidays returns holidays whose date depends on the weekday or the
// leap-year structure of the year.
func movableHolidays(year int) []datedHoliday {
	purimMonth := Adar
	if IsLeapYear(year) {
		purimMonth = Adar2
	}

	out := []datedHoliday{
		{Date{year, purimMonth, 14}, Holiday{Name: "פורים", Kind: KindMinor, DayOff: true}},
		{Date{year, purimMonth, 15}, Holiday{Name: "שושן פורים", Kind: KindMinor, DayOff: true}},
		{postponeShabbat(Date{year, Tishrei, 3}), Holiday{Name: "צום גדליה", Kind: KindFast}},
		{postponeShabbat(Date{year, Tamuz, 17}), Holiday{Name: "שבעה עשר בתמוז", Kind: KindFast}},
		{postponeShabbat(Date{year, Av, 9}), Holiday{Name: "תשעה באב", Kind: KindFast, DayOff: true}},
	}

	// Yom HaShoah moves off Friday and Sunday.
	shoah := Date{year, Nisan, 27}
	switch shoah.Weekday() {
	case time.Friday:
		shoah = Date{year, Nisan, 26}
	case time.Sunday:
		shoah = Date{year, Nisan, 28}
	}
	out = append(out, datedHoliday{shoah, Holiday{Name: "יום השואה", Kind: KindModern}})

	atzmaut := Date{year, Iyyar, 5}
	switch atzmaut.Weekday() {
	case time.Friday:
		atzmaut = Date{year, Iyyar, 4}
	case time.Saturday:
		atzmaut = Date{year, Iyyar, 3}
	case time.Monday:
		atzmaut = Date{year, Iyyar, 6}
	}
	out = append(out,
		datedHoliday{atzmaut.AddDays(-1), Holiday{Name: "יום הזיכרון", Kind: KindModern}},
		datedHoliday{atzmaut, Holiday{Name: "יום העצמאות", Kind: KindModern, DayOff: true}},
	)
	return out
}

func postponeShabbat(d Date) Date {
	if d.Weekday() == time.Saturday {
		return d.AddDays(1)
	}
	return d
}

package hebcal

import (
	"strconv"
	"time"
)

var monthNames = map[Month]string{
	Nisan:    "ניסן",
	Iyyar:    "אייר",
	Sivan:    "סיון",
	Tamuz:    "תמוז",
	Av:       "אב",
	Elul:     "אלול",
	Tishrei:  "תשרי",
	Cheshvan: "חשון",
	Kislev:   "כסלו",
	Tevet:    "טבת",
	Shvat:    "שבט",
}

var dayNames = [7]string{"ראשון", "שני", "שלישי", "רביעי", "חמישי", "שישי", "שבת"}

// MonthName returns the Hebrew name of the month. In leap years the two
// Adars are distinguished as אדר א׳ and אדר ב׳.
func MonthName(year int, month Month) string {
	switch month {
	case Adar1:
		if IsLeapYear(year) {
			return "אדר א" + geresh
		}
		return "אדר"
	case Adar2:
		return "אדר ב" + geresh
	}
	if name, ok := monthNames[month]; ok {
		return name
	}
	return strconv.Itoa(int(month))
}

// DayName returns the Hebrew weekday name (ראשון..שבת).
func DayName(w time.Weekday) string {
	return dayNames[int(w)%7]
}

// FormatShort renders the Hebrew date of t as day, month and year, e.g.
// "ט״ו אדר תשפ״ו".
func FormatShort(t time.Time) string {
	d := FromTime(t)
	return DayOrdinal(d.Day) + " " + MonthName(d.Year, d.Month) + " " + Gematriya(d.Year)
}

// FormatLong prefixes FormatShort with the weekday, e.g.
// "יום שלישי, ט״ו אדר תשפ״ו".
func FormatLong(t time.Time) string {
	return "יום " + DayName(t.Weekday()) + ", " + FormatShort(t)
}

// FormatMonthYear renders the Hebrew month and year of t, e.g. "אדר תשפ״ו".
func FormatMonthYear(t time.Time) string {
	return MonthKeyFor(t).Label()
}

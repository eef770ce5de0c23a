package hebcal

import (
	"strconv"
	"strings"
)

const (
	geresh    = "׳"
	gershayim = "״"
)

var (
	hundreds = []struct {
		value  int
		letter rune
	}{
		{400, 'ת'},
		{300, 'ש'},
		{200, 'ר'},
		{100, 'ק'},
	}
	tens  = []rune{0, 'י', 'כ', 'ל', 'מ', 'נ', 'ס', 'ע', 'פ', 'צ'}
	units = []rune{0, 'א', 'ב', 'ג', 'ד', 'ה', 'ו', 'ז', 'ח', 'ט'}
)

// Gematriya renders n in Hebrew letter numerals with geresh/gershayim
// punctuation. Thousands are dropped, so 5786 renders as תשפ״ו. Values that
// have no letter form (n <= 0 or exact thousands) fall back to decimal.
func Gematriya(n int) string {
	if n <= 0 {
		return strconv.Itoa(n)
	}
	rest := n % 1000
	if rest == 0 {
		return strconv.Itoa(n)
	}

	letters := make([]rune, 0, 6)
	for _, h := range hundreds {
		for rest >= h.value {
			letters = append(letters, h.letter)
			rest -= h.value
		}
	}
	switch rest {
	case 15:
		letters = append(letters, 'ט', 'ו')
	case 16:
		letters = append(letters, 'ט', 'ז')
	default:
		if t := rest / 10; t > 0 {
			letters = append(letters, tens[t])
		}
		if u := rest % 10; u > 0 {
			letters = append(letters, units[u])
		}
	}

	if len(letters) == 1 {
		return string(letters) + geresh
	}
	var b strings.Builder
	b.WriteString(string(letters[:len(letters)-1]))
	b.WriteString(gershayim)
	b.WriteRune(letters[len(letters)-1])
	return b.String()
}

// DayOrdinal renders a day of month (1..30) in gematria. Any other value is
// returned as its decimal string.
func DayOrdinal(day int) string {
	if day < 1 || day > 30 {
		return strconv.Itoa(day)
	}
	return Gematriya(day)
}

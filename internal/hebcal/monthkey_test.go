package hebcal

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthKeyString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "5786-02", MonthKey{5786, Iyyar}.String())
	assert.Equal(t, "5786-12", MonthKey{5786, Adar}.String())
	assert.Equal(t, "5787-08", MonthKeyFor(civil(jerusalem(t), 2026, 10, 17)).String())
}

func TestParseMonthKey(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    MonthKey
		wantErr bool
	}{
		{name: "regular month", input: "5786-02", want: MonthKey{5786, Iyyar}},
		{name: "Adar II in a leap year", input: "5784-13", want: MonthKey{5784, Adar2}},
		{name: "Adar II in a common year", input: "5785-13", wantErr: true},
		{name: "month zero", input: "5785-00", wantErr: true},
		{name: "unpadded month", input: "5786-2", wantErr: true},
		{name: "three digit month", input: "5786-002", wantErr: true},
		{name: "garbage", input: "adar", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseMonthKey(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidMonthKey)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.input, got.String())
		})
	}
}

func TestMonthKeyNextPrev(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		from MonthKey
		next MonthKey
	}{
		{"Elul rolls the year", MonthKey{5785, Elul}, MonthKey{5786, Tishrei}},
		{"Adar to Nisan in a common year", MonthKey{5785, Adar}, MonthKey{5785, Nisan}},
		{"Adar I to Adar II in a leap year", MonthKey{5784, Adar1}, MonthKey{5784, Adar2}},
		{"Adar II to Nisan", MonthKey{5784, Adar2}, MonthKey{5784, Nisan}},
		{"Tishrei to Cheshvan", MonthKey{5787, Tishrei}, MonthKey{5787, Cheshvan}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.next, tc.from.Next())
			assert.Equal(t, tc.from, tc.next.Prev())
		})
	}
}

func TestMonthKeyRoundTrip(t *testing.T) {
	t.Parallel()
	loc := jerusalem(t)
	pattern := regexp.MustCompile(`^\d+-\d{2}$`)

	key := MonthKey{Year: 5780, Month: Tishrei}
	for i := 0; i < 120; i++ {
		first := key.FirstDay(loc)
		assert.Equal(t, key, MonthKeyFor(first), "first day of %s", key)
		assert.Equal(t, key, MonthKeyFor(first.AddDate(0, 0, key.Days()-1)), "last day of %s", key)
		assert.Regexp(t, pattern, key.String())

		parsed, err := ParseMonthKey(key.String())
		require.NoError(t, err)
		assert.Equal(t, key, parsed)

		key = key.Next()
	}
}

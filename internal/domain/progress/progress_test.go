package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoman-app/yoman-api/internal/domain"
)

var (
	curatedID = uuid.MustParse("aaaaaaaa-0000-0000-0000-000000000001")
	monthlyID = uuid.MustParse("bbbbbbbb-0000-0000-0000-000000000002")
	lastID    = uuid.MustParse("cccccccc-0000-0000-0000-000000000003")
)

func jerusalem(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jerusalem")
	require.NoError(t, err)
	return loc
}

func questions(n int) domain.Questions {
	qs := make(domain.Questions, n)
	for i := range qs {
		qs[i] = domain.PlainQuestion{Text: "שאלה " + string(rune('א'+i))}
	}
	return qs
}

// catalog holds a curated set, the monthly set of Cheshvan 5787 and the
// monthly set of the previous month.
func catalog() []*domain.QuestionSet {
	return []*domain.QuestionSet{
		{ID: curatedID, Title: "S1", Type: domain.SetTypeCurated, Questions: questions(5)},
		{ID: monthlyID, Title: "S2", Type: domain.SetTypeMonthly, MonthKey: "5787-08", Questions: questions(29)},
		{ID: lastID, Title: "S3", Type: domain.SetTypeMonthly, MonthKey: "5787-07", Questions: questions(30)},
	}
}

func TestResolvePrecedence(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, jerusalem(t)) // 6 Cheshvan 5787
	started := now.AddDate(0, 0, -2)
	pointer := &domain.ActiveSetPointer{SetID: curatedID, CurrentQuestionIndex: 2, StartedAt: started}

	// Explicit pointer wins over the monthly default.
	res := Resolve(pointer, catalog(), nil, now)
	require.True(t, res.Found())
	assert.Equal(t, curatedID, res.Set.ID)
	assert.Equal(t, *pointer, *res.Pointer)
	assert.False(t, res.Implicit)
	assert.Equal(t, SourceExplicit, res.Source())

	// The explicit set is deleted: fall through to this month's set.
	withoutS1 := catalog()[1:]
	res = Resolve(pointer, withoutS1, nil, now)
	require.True(t, res.Found())
	assert.Equal(t, monthlyID, res.Set.ID)
	assert.Equal(t, monthlyID, res.Pointer.SetID)
	assert.Equal(t, 0, res.Pointer.CurrentQuestionIndex)
	assert.Equal(t, now, res.Pointer.StartedAt)
	assert.True(t, res.Implicit)
	assert.Equal(t, SourceMonthly, res.Source())

	// Opting out of the monthly set leaves nothing.
	res = Resolve(pointer, withoutS1, domain.NewOptOutSet(monthlyID), now)
	assert.False(t, res.Found())
	assert.Nil(t, res.Set)
	assert.Equal(t, SourceNone, res.Source())
}

func TestResolveExplicitOverridesOptOut(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, jerusalem(t))
	pointer := domain.StartSet(monthlyID, now)

	res := Resolve(pointer, catalog(), domain.NewOptOutSet(monthlyID), now)
	require.True(t, res.Found())
	assert.Equal(t, monthlyID, res.Set.ID)
	assert.False(t, res.Implicit)
}

func TestResolveDoesNotAliasPointer(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, jerusalem(t))
	pointer := domain.StartSet(curatedID, now)

	res := Resolve(pointer, catalog(), nil, now)
	res.Pointer.CurrentQuestionIndex = 3
	assert.Equal(t, 0, pointer.CurrentQuestionIndex)
}

func TestResolveNoPointer(t *testing.T) {
	t.Parallel()
	loc := jerusalem(t)

	testCases := []struct {
		name   string
		now    time.Time
		wantID uuid.UUID
		found  bool
	}{
		{"Cheshvan picks its monthly set", time.Date(2026, 10, 17, 9, 0, 0, 0, loc), monthlyID, true},
		{"Tishrei picks the earlier set", time.Date(2026, 9, 20, 9, 0, 0, 0, loc), lastID, true},
		{"Kislev has no monthly set", time.Date(2026, 11, 20, 9, 0, 0, 0, loc), uuid.Nil, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			res := Resolve(nil, catalog(), domain.OptOutSet{}, tc.now)
			assert.Equal(t, tc.found, res.Found())
			if tc.found {
				assert.Equal(t, tc.wantID, res.Set.ID)
			}
		})
	}
}

func TestResolveEmptyCatalog(t *testing.T) {
	t.Parallel()
	pointer := domain.StartSet(curatedID, time.Now())

	assert.False(t, Resolve(pointer, nil, nil, time.Now()).Found())
}

func TestMonthlySetFor(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, jerusalem(t))

	set := MonthlySetFor(catalog(), now)
	require.NotNil(t, set)
	assert.Equal(t, monthlyID, set.ID)
	assert.Nil(t, MonthlySetFor(catalog()[:1], now))
}

func TestTodayIndex(t *testing.T) {
	t.Parallel()
	loc := jerusalem(t)
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, loc)

	testCases := []struct {
		name      string
		startedAt time.Time
		total     int
		expected  int
	}{
		{"started today", now.Add(-2 * time.Hour), 5, 0},
		{"started three days ago", now.AddDate(0, 0, -3), 5, 3},
		{"started ten days ago is clamped", now.AddDate(0, 0, -10), 5, 4},
		{"empty set", now.AddDate(0, 0, -3), 0, 0},
		{"negative total", now.AddDate(0, 0, -3), -1, 0},
		{"missing start counts as now", time.Time{}, 5, 0},
		{"start in the future", now.AddDate(0, 0, 2), 5, 0},
		{"late last night counts as one day", time.Date(2026, 10, 16, 23, 59, 0, 0, loc), 5, 1},
		{"start stored in UTC", time.Date(2026, 10, 15, 22, 30, 0, 0, time.UTC), 5, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, TodayIndex(tc.startedAt, tc.total, now))
		})
	}
}

func TestTodayIndexAcrossDaylightSavingEnd(t *testing.T) {
	t.Parallel()
	loc := jerusalem(t)
	startedAt := time.Date(2026, 10, 23, 0, 30, 0, 0, loc)

	// Clocks fall back on 25 Oct 2026; each local day must still advance by one.
	prev := -1
	for day := 0; day < 5; day++ {
		now := time.Date(2026, 10, 23+day, 0, 15, 0, 0, loc)
		idx := TodayIndex(startedAt, 10, now)
		assert.Equal(t, day, idx, "day %d", day)
		assert.Equal(t, prev+1, idx, "monotonic by one per day")
		prev = idx
	}
}

func TestServiceToday(t *testing.T) {
	t.Parallel()
	loc := jerusalem(t)
	svc := NewService(loc)
	assert.Equal(t, loc, svc.Location())

	// 06:30 UTC on 17 Oct 2026 is 09:30 in Jerusalem.
	now := time.Date(2026, 10, 17, 6, 30, 0, 0, time.UTC)
	pointer := &domain.ActiveSetPointer{SetID: curatedID, StartedAt: time.Date(2026, 10, 15, 8, 0, 0, 0, loc)}

	today := svc.Today(pointer, catalog(), nil, now)
	require.True(t, today.Resolution.Found())
	assert.Equal(t, 2, today.Index)
	require.NotNil(t, today.Question)
	assert.Equal(t, "שאלה ג", today.Question.Prompt())
	assert.Equal(t, "5787-08", today.MonthKey.String())
	assert.Equal(t, 6, today.Date.Day)
	assert.Equal(t, "יום שבת, ו׳ חשון תשפ״ז", today.HebrewDate)
}

func TestServiceTodayWithoutSet(t *testing.T) {
	t.Parallel()
	svc := NewService(jerusalem(t))
	now := time.Date(2026, 11, 20, 9, 0, 0, 0, time.UTC)

	today := svc.Today(nil, catalog(), nil, now)
	assert.False(t, today.Resolution.Found())
	assert.Nil(t, today.Question)
	assert.Equal(t, 0, today.Index)
	assert.NotEmpty(t, today.HebrewDate)
}

func TestServiceTodayZeroQuestionSet(t *testing.T) {
	t.Parallel()
	svc := NewService(jerusalem(t))
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)
	empty := []*domain.QuestionSet{{ID: curatedID, Type: domain.SetTypeCurated}}

	today := svc.Today(domain.StartSet(curatedID, now.AddDate(0, 0, -3)), empty, nil, now)
	assert.True(t, today.Resolution.Found())
	assert.Nil(t, today.Question)
	assert.Equal(t, 0, today.Index)
}

func TestNewServiceDefaultsToLocal(t *testing.T) {
	t.Parallel()
	assert.Equal(t, time.Local, NewService(nil).Location())
}

package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/store"
)

// newMockDB returns a sqlmock database for services that open transactions.
// Callers queue one expectTx per transaction.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, mock
}

func expectTx(mock sqlmock.Sqlmock, commit bool) {
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	if u.ActiveSet != nil {
		p := *u.ActiveSet
		c.ActiveSet = &p
	}
	c.OptOuts = domain.NewOptOutSet(u.OptOuts.IDs()...)
	c.Profile.WorkDays = append([]int(nil), u.Profile.WorkDays...)
	c.Profile.ReminderTopics = append([]string(nil), u.Profile.ReminderTopics...)
	return &c
}

type memUsers struct {
	users     map[uuid.UUID]*domain.User
	createErr error
	locked    []uuid.UUID
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{users: map[uuid.UUID]*domain.User{}}
	for _, u := range users {
		m.users[u.ID] = cloneUser(u)
	}
	return m
}

func (m *memUsers) Create(_ context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (m *memUsers) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.locked = append(m.locked, id)
	return m.GetByID(ctx, id)
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memUsers) Update(_ context.Context, user *domain.User) error {
	existing, ok := m.users[user.ID]
	if !ok {
		return store.ErrUserNotFound
	}
	updated := cloneUser(user)
	updated.ActiveSet = existing.ActiveSet
	updated.OptOuts = existing.OptOuts
	updated.Profile.PushToken = existing.Profile.PushToken
	m.users[user.ID] = updated
	return nil
}

func (m *memUsers) SetPushToken(_ context.Context, id uuid.UUID, token string) error {
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Profile.PushToken = token
	return nil
}

func (m *memUsers) SetActiveSet(_ context.Context, id uuid.UUID, pointer *domain.ActiveSetPointer) error {
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	if pointer == nil {
		u.ActiveSet = nil
		return nil
	}
	p := *pointer
	u.ActiveSet = &p
	return nil
}

func (m *memUsers) AddOptOut(_ context.Context, userID, setID uuid.UUID) error {
	u, ok := m.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	if u.OptOuts == nil {
		u.OptOuts = domain.NewOptOutSet()
	}
	u.OptOuts.Add(setID)
	return nil
}

func (m *memUsers) RemoveOptOut(_ context.Context, userID, setID uuid.UUID) error {
	u, ok := m.users[userID]
	if !ok {
		return store.ErrUserNotFound
	}
	u.OptOuts.Remove(setID)
	return nil
}

func (m *memUsers) ListPushRecipients(_ context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range m.users {
		if u.Profile.PushToken != "" {
			out = append(out, cloneUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *memUsers) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

func (m *memUsers) WithTx(*sql.Tx) store.UserStore { return m }

type memSets struct {
	sets        map[uuid.UUID]*domain.QuestionSet
	invalidated int
}

func newMemSets(sets ...*domain.QuestionSet) *memSets {
	m := &memSets{sets: map[uuid.UUID]*domain.QuestionSet{}}
	for _, s := range sets {
		m.sets[s.ID] = s
	}
	return m
}

func (m *memSets) Create(_ context.Context, set *domain.QuestionSet) error {
	m.sets[set.ID] = set
	return nil
}

func (m *memSets) GetByID(_ context.Context, id uuid.UUID) (*domain.QuestionSet, error) {
	s, ok := m.sets[id]
	if !ok {
		return nil, store.ErrSetNotFound
	}
	return s, nil
}

func (m *memSets) GetMonthly(_ context.Context, monthKey string) (*domain.QuestionSet, error) {
	for _, s := range m.sets {
		if s.IsMonthly() && s.MonthKey == monthKey {
			return s, nil
		}
	}
	return nil, store.ErrSetNotFound
}

func (m *memSets) List(_ context.Context) ([]*domain.QuestionSet, error) {
	out := make([]*domain.QuestionSet, 0, len(m.sets))
	for _, s := range m.sets {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (m *memSets) Update(_ context.Context, set *domain.QuestionSet) error {
	if _, ok := m.sets[set.ID]; !ok {
		return store.ErrSetNotFound
	}
	m.sets[set.ID] = set
	return nil
}

func (m *memSets) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.sets[id]; !ok {
		return store.ErrSetNotFound
	}
	delete(m.sets, id)
	return nil
}

func (m *memSets) WithTx(*sql.Tx) store.QuestionSetStore { return m }

func (m *memSets) Invalidate(context.Context) { m.invalidated++ }

type memEntries struct {
	entries []*domain.Entry
}

func (m *memEntries) Create(_ context.Context, entry *domain.Entry) error {
	c := *entry
	m.entries = append(m.entries, &c)
	return nil
}

func (m *memEntries) GetByID(_ context.Context, userID, id uuid.UUID) (*domain.Entry, error) {
	for _, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			c := *e
			return &c, nil
		}
	}
	return nil, store.ErrEntryNotFound
}

func (m *memEntries) FindAnswer(_ context.Context, userID, setID uuid.UUID, index int, dayStart, dayEnd time.Time) (*domain.Entry, error) {
	for _, e := range m.entries {
		if e.UserID == userID && e.Answers(setID, index) && !e.Date.Before(dayStart) && e.Date.Before(dayEnd) {
			c := *e
			return &c, nil
		}
	}
	return nil, store.ErrEntryNotFound
}

func (m *memEntries) List(_ context.Context, q store.EntryQuery) ([]*domain.Entry, error) {
	var out []*domain.Entry
	for _, e := range m.entries {
		if e.UserID != q.UserID || e.Date.Before(q.From) || !e.Date.Before(q.To) {
			continue
		}
		if e.Archived && !q.IncludeArchived {
			continue
		}
		c := *e
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (m *memEntries) Days(ctx context.Context, q store.EntryQuery, loc *time.Location) ([]time.Time, error) {
	entries, _ := m.List(ctx, q)
	seen := map[string]bool{}
	var days []time.Time
	for i := len(entries) - 1; i >= 0; i-- {
		y, mo, d := entries[i].Date.In(loc).Date()
		day := time.Date(y, mo, d, 0, 0, 0, 0, loc)
		if key := day.Format(time.DateOnly); !seen[key] {
			seen[key] = true
			days = append(days, day)
		}
	}
	return days, nil
}

func (m *memEntries) Update(_ context.Context, entry *domain.Entry) error {
	for i, e := range m.entries {
		if e.ID == entry.ID && e.UserID == entry.UserID {
			c := *entry
			m.entries[i] = &c
			return nil
		}
	}
	return store.ErrEntryNotFound
}

func (m *memEntries) Delete(_ context.Context, userID, id uuid.UUID) error {
	for i, e := range m.entries {
		if e.ID == id && e.UserID == userID {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return store.ErrEntryNotFound
}

func (m *memEntries) WithTx(*sql.Tx) store.EntryStore { return m }

type memGoals struct {
	goals map[string]*domain.MonthlyGoals
}

func (m *memGoals) key(userID uuid.UUID, monthKey string) string {
	return userID.String() + "/" + monthKey
}

func (m *memGoals) Get(_ context.Context, userID uuid.UUID, monthKey string) (*domain.MonthlyGoals, error) {
	g, ok := m.goals[m.key(userID, monthKey)]
	if !ok {
		return nil, store.ErrNotFound
	}
	c := *g
	return &c, nil
}

func (m *memGoals) Upsert(_ context.Context, goals *domain.MonthlyGoals) error {
	if m.goals == nil {
		m.goals = map[string]*domain.MonthlyGoals{}
	}
	c := *goals
	m.goals[m.key(goals.UserID, goals.MonthKey)] = &c
	return nil
}

func (m *memGoals) WithTx(*sql.Tx) store.MonthlyGoalsStore { return m }

var errWrongPassword = errors.New("wrong password")

// fakeHasher prefixes passwords instead of hashing them.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (fakeHasher) Compare(hashed, password string) error {
	if hashed != "hashed:"+password {
		return errWrongPassword
	}
	return nil
}

func jerusalem(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jerusalem")
	require.NoError(t, err)
	return loc
}

func testQuestions(n int) domain.Questions {
	qs := make(domain.Questions, n)
	for i := range qs {
		qs[i] = domain.PlainQuestion{Text: "שאלה " + string(rune('א'+i))}
	}
	return qs
}

func curatedSet(title string, n int) *domain.QuestionSet {
	return &domain.QuestionSet{
		ID:        uuid.New(),
		Title:     title,
		Type:      domain.SetTypeCurated,
		Questions: testQuestions(n),
	}
}

func monthlySet(title, monthKey string, n int) *domain.QuestionSet {
	return &domain.QuestionSet{
		ID:        uuid.New(),
		Title:     title,
		Type:      domain.SetTypeMonthly,
		MonthKey:  monthKey,
		Questions: testQuestions(n),
	}
}

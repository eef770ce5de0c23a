package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/hebcal"
	"github.com/yoman-app/yoman-api/internal/platform/objectstore"
	"github.com/yoman-app/yoman-api/internal/service"
)

// MockUserService implements service.UserService.
type MockUserService struct {
	RegisterFn       func(ctx context.Context, email, password string) (*domain.User, error)
	AuthenticateFn   func(ctx context.Context, email, password string) (*domain.User, error)
	GetUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	UpdatePasswordFn func(ctx context.Context, userID uuid.UUID, newPassword string) error
	SetRoleFn        func(ctx context.Context, email string, role domain.Role) (*domain.User, error)
	DeleteUserFn     func(ctx context.Context, userID uuid.UUID) error
}

func (m *MockUserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if m.RegisterFn == nil {
		return nil, ErrNotConfigured
	}
	return m.RegisterFn(ctx, email, password)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.AuthenticateFn == nil {
		return nil, ErrNotConfigured
	}
	return m.AuthenticateFn(ctx, email, password)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.GetUserFn == nil {
		return nil, ErrNotConfigured
	}
	return m.GetUserFn(ctx, userID)
}

func (m *MockUserService) UpdatePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if m.UpdatePasswordFn == nil {
		return ErrNotConfigured
	}
	return m.UpdatePasswordFn(ctx, userID, newPassword)
}

func (m *MockUserService) SetRole(ctx context.Context, email string, role domain.Role) (*domain.User, error) {
	if m.SetRoleFn == nil {
		return nil, ErrNotConfigured
	}
	return m.SetRoleFn(ctx, email, role)
}

func (m *MockUserService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteUserFn == nil {
		return ErrNotConfigured
	}
	return m.DeleteUserFn(ctx, userID)
}

// MockProfileService implements service.ProfileService.
type MockProfileService struct {
	GetFn           func(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	UpdateFn        func(ctx context.Context, userID uuid.UUID, profile domain.Profile) (*domain.Profile, error)
	SavePushTokenFn func(ctx context.Context, userID uuid.UUID, token string) error
}

func (m *MockProfileService) Get(ctx context.Context, userID uuid.UUID) (*domain.Profile, error) {
	if m.GetFn == nil {
		return nil, ErrNotConfigured
	}
	return m.GetFn(ctx, userID)
}

func (m *MockProfileService) Update(ctx context.Context, userID uuid.UUID, profile domain.Profile) (*domain.Profile, error) {
	if m.UpdateFn == nil {
		return nil, ErrNotConfigured
	}
	return m.UpdateFn(ctx, userID, profile)
}

func (m *MockProfileService) SavePushToken(ctx context.Context, userID uuid.UUID, token string) error {
	if m.SavePushTokenFn == nil {
		return ErrNotConfigured
	}
	return m.SavePushTokenFn(ctx, userID, token)
}

// MockSetService implements service.SetService.
type MockSetService struct {
	ListFn   func(ctx context.Context) ([]*domain.QuestionSet, error)
	GetFn    func(ctx context.Context, id uuid.UUID) (*domain.QuestionSet, error)
	CreateFn func(ctx context.Context, in service.SetInput) (*domain.QuestionSet, error)
	UpdateFn func(ctx context.Context, id uuid.UUID, in service.SetInput) (*domain.QuestionSet, error)
	DeleteFn func(ctx context.Context, id uuid.UUID) error
}

func (m *MockSetService) List(ctx context.Context) ([]*domain.QuestionSet, error) {
	if m.ListFn == nil {
		return nil, ErrNotConfigured
	}
	return m.ListFn(ctx)
}

func (m *MockSetService) Get(ctx context.Context, id uuid.UUID) (*domain.QuestionSet, error) {
	if m.GetFn == nil {
		return nil, ErrNotConfigured
	}
	return m.GetFn(ctx, id)
}

func (m *MockSetService) Create(ctx context.Context, in service.SetInput) (*domain.QuestionSet, error) {
	if m.CreateFn == nil {
		return nil, ErrNotConfigured
	}
	return m.CreateFn(ctx, in)
}

func (m *MockSetService) Update(ctx context.Context, id uuid.UUID, in service.SetInput) (*domain.QuestionSet, error) {
	if m.UpdateFn == nil {
		return nil, ErrNotConfigured
	}
	return m.UpdateFn(ctx, id, in)
}

func (m *MockSetService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn == nil {
		return ErrNotConfigured
	}
	return m.DeleteFn(ctx, id)
}

// MockProgressService implements service.ProgressService.
type MockProgressService struct {
	TodayFn    func(ctx context.Context, userID uuid.UUID) (*service.TodayView, error)
	RegisterFn func(ctx context.Context, userID, setID uuid.UUID) (*domain.ActiveSetPointer, error)
	OptOutFn   func(ctx context.Context, userID, setID uuid.UUID) error
	OptInFn    func(ctx context.Context, userID, setID uuid.UUID) (*domain.ActiveSetPointer, error)
}

func (m *MockProgressService) Today(ctx context.Context, userID uuid.UUID) (*service.TodayView, error) {
	if m.TodayFn == nil {
		return nil, ErrNotConfigured
	}
	return m.TodayFn(ctx, userID)
}

func (m *MockProgressService) Register(ctx context.Context, userID, setID uuid.UUID) (*domain.ActiveSetPointer, error) {
	if m.RegisterFn == nil {
		return nil, ErrNotConfigured
	}
	return m.RegisterFn(ctx, userID, setID)
}

func (m *MockProgressService) OptOut(ctx context.Context, userID, setID uuid.UUID) error {
	if m.OptOutFn == nil {
		return ErrNotConfigured
	}
	return m.OptOutFn(ctx, userID, setID)
}

func (m *MockProgressService) OptIn(ctx context.Context, userID, setID uuid.UUID) (*domain.ActiveSetPointer, error) {
	if m.OptInFn == nil {
		return nil, ErrNotConfigured
	}
	return m.OptInFn(ctx, userID, setID)
}

// MockJournalService implements service.JournalService.
type MockJournalService struct {
	CreateFn    func(ctx context.Context, userID uuid.UUID, in service.EntryInput) (*domain.Entry, error)
	GetFn       func(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error)
	UpdateFn    func(ctx context.Context, userID, entryID uuid.UUID, in service.EntryInput) (*domain.Entry, error)
	DeleteFn    func(ctx context.Context, userID, entryID uuid.UUID) error
	ArchiveFn   func(ctx context.Context, userID, entryID uuid.UUID, archived bool) (*domain.Entry, error)
	ListMonthFn func(ctx context.Context, userID uuid.UUID, year int, month time.Month, includeArchived bool) ([]*domain.Entry, error)
	ListRangeFn func(ctx context.Context, userID uuid.UUID, from, to time.Time, includeArchived bool) ([]*domain.Entry, error)
	EntryDaysFn func(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]time.Time, error)
	AnswerFn    func(ctx context.Context, userID, setID uuid.UUID, index int, text string) (*service.AnswerResult, error)
}

func (m *MockJournalService) Create(ctx context.Context, userID uuid.UUID, in service.EntryInput) (*domain.Entry, error) {
	if m.CreateFn == nil {
		return nil, ErrNotConfigured
	}
	return m.CreateFn(ctx, userID, in)
}

func (m *MockJournalService) Get(ctx context.Context, userID, entryID uuid.UUID) (*domain.Entry, error) {
	if m.GetFn == nil {
		return nil, ErrNotConfigured
	}
	return m.GetFn(ctx, userID, entryID)
}

func (m *MockJournalService) Update(ctx context.Context, userID, entryID uuid.UUID, in service.EntryInput) (*domain.Entry, error) {
	if m.UpdateFn == nil {
		return nil, ErrNotConfigured
	}
	return m.UpdateFn(ctx, userID, entryID, in)
}

func (m *MockJournalService) Delete(ctx context.Context, userID, entryID uuid.UUID) error {
	if m.DeleteFn == nil {
		return ErrNotConfigured
	}
	return m.DeleteFn(ctx, userID, entryID)
}

func (m *MockJournalService) Archive(ctx context.Context, userID, entryID uuid.UUID, archived bool) (*domain.Entry, error) {
	if m.ArchiveFn == nil {
		return nil, ErrNotConfigured
	}
	return m.ArchiveFn(ctx, userID, entryID, archived)
}

func (m *MockJournalService) ListMonth(
	ctx context.Context,
	userID uuid.UUID,
	year int,
	month time.Month,
	includeArchived bool,
) ([]*domain.Entry, error) {
	if m.ListMonthFn == nil {
		return nil, ErrNotConfigured
	}
	return m.ListMonthFn(ctx, userID, year, month, includeArchived)
}

func (m *MockJournalService) ListRange(
	ctx context.Context,
	userID uuid.UUID,
	from, to time.Time,
	includeArchived bool,
) ([]*domain.Entry, error) {
	if m.ListRangeFn == nil {
		return nil, ErrNotConfigured
	}
	return m.ListRangeFn(ctx, userID, from, to, includeArchived)
}

func (m *MockJournalService) EntryDays(ctx context.Context, userID uuid.UUID, from, to time.Time) ([]time.Time, error) {
	if m.EntryDaysFn == nil {
		return nil, ErrNotConfigured
	}
	return m.EntryDaysFn(ctx, userID, from, to)
}

func (m *MockJournalService) AnswerQuestion(
	ctx context.Context,
	userID, setID uuid.UUID,
	index int,
	text string,
) (*service.AnswerResult, error) {
	if m.AnswerFn == nil {
		return nil, ErrNotConfigured
	}
	return m.AnswerFn(ctx, userID, setID, index, text)
}

// MockGoalsService implements service.GoalsService.
type MockGoalsService struct {
	ResolveKeyFn func(key string) (hebcal.MonthKey, error)
	GetFn        func(ctx context.Context, userID uuid.UUID, key string) (*service.GoalsView, error)
	SaveFn       func(ctx context.Context, userID uuid.UUID, key string, goals domain.MonthlyGoals) (*service.GoalsView, error)
}

func (m *MockGoalsService) ResolveKey(key string) (hebcal.MonthKey, error) {
	if m.ResolveKeyFn == nil {
		return hebcal.MonthKey{}, ErrNotConfigured
	}
	return m.ResolveKeyFn(key)
}

func (m *MockGoalsService) Get(ctx context.Context, userID uuid.UUID, key string) (*service.GoalsView, error) {
	if m.GetFn == nil {
		return nil, ErrNotConfigured
	}
	return m.GetFn(ctx, userID, key)
}

func (m *MockGoalsService) Save(
	ctx context.Context,
	userID uuid.UUID,
	key string,
	goals domain.MonthlyGoals,
) (*service.GoalsView, error) {
	if m.SaveFn == nil {
		return nil, ErrNotConfigured
	}
	return m.SaveFn(ctx, userID, key, goals)
}

// MockUploadService implements service.UploadService.
type MockUploadService struct {
	PresignFn func(ctx context.Context, userID uuid.UUID, kind service.UploadKind, contentType string) (*objectstore.Upload, error)
}

func (m *MockUploadService) Presign(
	ctx context.Context,
	userID uuid.UUID,
	kind service.UploadKind,
	contentType string,
) (*objectstore.Upload, error) {
	if m.PresignFn == nil {
		return nil, ErrNotConfigured
	}
	return m.PresignFn(ctx, userID, kind, contentType)
}

var (
	_ service.UserService     = (*MockUserService)(nil)
	_ service.ProfileService  = (*MockProfileService)(nil)
	_ service.SetService      = (*MockSetService)(nil)
	_ service.ProgressService = (*MockProgressService)(nil)
	_ service.JournalService  = (*MockJournalService)(nil)
	_ service.GoalsService    = (*MockGoalsService)(nil)
	_ service.UploadService   = (*MockUploadService)(nil)
)

package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/hebcal"
	"github.com/yoman-app/yoman-api/internal/mocks"
	"github.com/yoman-app/yoman-api/internal/platform/objectstore"
	"github.com/yoman-app/yoman-api/internal/service"
)

func TestProfileHandler(t *testing.T) {
	userID := uuid.New()
	profile := domain.DefaultProfile()
	profile.PushToken = "secret-endpoint"

	var saved domain.Profile
	var token string
	users := &mocks.MockUserService{
		GetUserFn: func(_ context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, Email: "dana@example.com", Role: domain.RoleUser, Profile: profile}, nil
		},
		DeleteUserFn: func(context.Context, uuid.UUID) error { return nil },
	}
	profiles := &mocks.MockProfileService{
		UpdateFn: func(_ context.Context, _ uuid.UUID, p domain.Profile) (*domain.Profile, error) {
			saved = p
			return &p, nil
		},
		SavePushTokenFn: func(_ context.Context, _ uuid.UUID, tok string) error {
			token = tok
			return nil
		},
	}
	h := NewProfileHandler(users, profiles, testLogger())
	r := chi.NewRouter()
	r.Use(asUser(userID, domain.RoleUser))
	r.Get("/api/profile", h.Get)
	r.Put("/api/profile", h.Update)
	r.Put("/api/profile/push-token", h.SavePushToken)
	r.Delete("/api/profile", h.Delete)

	rec := doRequest(t, r, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-endpoint")
	assert.True(t, decodeBody[ProfileResponse](t, rec).PushEnabled)

	rec = doRequest(t, r, http.MethodPut, "/api/profile",
		`{"name":"דנה","workDays":[0,1,2],"reminderTime":"21:00","reminderDensity":"high"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []int{0, 1, 2}, saved.WorkDays)
	assert.Equal(t, domain.DensityHigh, saved.ReminderDensity)

	rec = doRequest(t, r, http.MethodPut, "/api/profile", `{"workDays":[7]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = doRequest(t, r, http.MethodPut, "/api/profile", `{"reminderDensity":"always"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodPut, "/api/profile/push-token", PushTokenRequest{Token: "new-endpoint"})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "new-endpoint", token)

	rec = doRequest(t, r, http.MethodDelete, "/api/profile", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProfileHandler_Unauthenticated(t *testing.T) {
	h := NewProfileHandler(&mocks.MockUserService{}, &mocks.MockProfileService{}, testLogger())
	rec := doRequest(t, http.HandlerFunc(h.Get), http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGoalsHandler(t *testing.T) {
	userID := uuid.New()
	goals := &mocks.MockGoalsService{
		GetFn: func(_ context.Context, uid uuid.UUID, key string) (*service.GoalsView, error) {
			if key != "current" && key != "5787-08" {
				return nil, domain.ErrInvalidFormat
			}
			return &service.GoalsView{
				Goals: domain.EmptyGoals(uid, hebcal.MonthKey{Year: 5787, Month: 8}),
				Label: "חשוון תשפ״ז",
				Prev:  "5787-07",
				Next:  "5787-09",
			}, nil
		},
		SaveFn: func(_ context.Context, uid uuid.UUID, key string, g domain.MonthlyGoals) (*service.GoalsView, error) {
			g.MonthKey = key
			return &service.GoalsView{Goals: &g, Prev: "5787-07", Next: "5787-09"}, nil
		},
	}
	h := NewGoalsHandler(goals, testLogger())
	r := chi.NewRouter()
	r.Use(asUser(userID, domain.RoleUser))
	r.Get("/api/goals/{monthKey}", h.Get)
	r.Put("/api/goals/{monthKey}", h.Save)

	rec := doRequest(t, r, http.MethodGet, "/api/goals/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[GoalsResponse](t, rec)
	assert.Equal(t, "5787-08", resp.Goals.MonthKey)
	assert.Equal(t, "5787-07", resp.Prev)
	assert.NotNil(t, resp.Goals.Spiritual)

	rec = doRequest(t, r, http.MethodGet, "/api/goals/cheshvan", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, r, http.MethodPut, "/api/goals/5787-08",
		`{"professional":[{"text":"לסיים את הדוח","completed":false}],"personal":[],"spiritual":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "לסיים את הדוח", decodeBody[GoalsResponse](t, rec).Goals.Professional[0].Text)
}

func TestCalendarHandler(t *testing.T) {
	loc := jerusalemLoc(t)
	h := NewCalendarHandler(service.NewCalendarService(loc, hebcal.DefaultVacations), loc)
	r := chi.NewRouter()
	r.Get("/api/calendar/today", h.Today)
	r.Get("/api/calendar/day", h.Day)
	r.Get("/api/calendar/months", h.Months)

	rec := doRequest(t, r, http.MethodGet, "/api/calendar/day?date=2026-09-21", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	day := decodeBody[DayResponse](t, rec)
	assert.Equal(t, "2026-09-21", day.Date)
	assert.True(t, day.DayOff)
	assert.NotEmpty(t, day.Holidays)

	rec = doRequest(t, r, http.MethodGet, "/api/calendar/day?date=2026-10-12", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	day = decodeBody[DayResponse](t, rec)
	assert.True(t, day.FirstOfMonth)
	assert.Equal(t, "5787-08", day.MonthKey)

	rec = doRequest(t, r, http.MethodGet, "/api/calendar/months?before=1&after=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]MonthResponse](t, rec), 4)

	assert.Equal(t, http.StatusOK, doRequest(t, r, http.MethodGet, "/api/calendar/today", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, r, http.MethodGet, "/api/calendar/day", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doRequest(t, r, http.MethodGet, "/api/calendar/months?before=-1", nil).Code)
}

func TestUploadHandler(t *testing.T) {
	userID := uuid.New()
	uploads := &mocks.MockUploadService{
		PresignFn: func(_ context.Context, _ uuid.UUID, kind service.UploadKind, ct string) (*objectstore.Upload, error) {
			return &objectstore.Upload{
				Key:       string(kind) + "/x.jpg",
				UploadURL: "https://bucket.example.com/x.jpg?sig=1",
				Method:    http.MethodPut,
				ExpiresAt: time.Now().Add(15 * time.Minute),
			}, nil
		},
	}
	h := NewUploadHandler(uploads)

	user := chi.NewRouter()
	user.Use(asUser(userID, domain.RoleUser))
	user.Post("/api/uploads", h.Presign)

	rec := doRequest(t, user, http.MethodPost, "/api/uploads", UploadRequest{Kind: "entry", ContentType: "image/jpeg"})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "entry/x.jpg", decodeBody[objectstore.Upload](t, rec).Key)

	rec = doRequest(t, user, http.MethodPost, "/api/uploads", UploadRequest{Kind: "set", ContentType: "image/jpeg"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, user, http.MethodPost, "/api/uploads", UploadRequest{Kind: "avatar", ContentType: "image/jpeg"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	admin := chi.NewRouter()
	admin.Use(asUser(userID, domain.RoleAdmin))
	admin.Post("/api/uploads", h.Presign)
	rec = doRequest(t, admin, http.MethodPost, "/api/uploads", UploadRequest{Kind: "set", ContentType: "image/png"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	uploads.PresignFn = func(context.Context, uuid.UUID, service.UploadKind, string) (*objectstore.Upload, error) {
		return nil, service.ErrUploadsDisabled
	}
	rec = doRequest(t, user, http.MethodPost, "/api/uploads", UploadRequest{Kind: "entry", ContentType: "image/jpeg"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

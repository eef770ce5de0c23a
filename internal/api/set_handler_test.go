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
	"github.com/yoman-app/yoman-api/internal/domain/progress"
	"github.com/yoman-app/yoman-api/internal/mocks"
	"github.com/yoman-app/yoman-api/internal/service"
	"github.com/yoman-app/yoman-api/internal/store"
)

type setDeps struct {
	sets     *mocks.MockSetService
	progress *mocks.MockProgressService
	journal  *mocks.MockJournalService
}

func newSetRouter(d setDeps, userID uuid.UUID) http.Handler {
	h := NewSetHandler(d.sets, d.progress, d.journal, testLogger())
	r := chi.NewRouter()
	r.Use(asUser(userID, domain.RoleUser))
	r.Get("/api/sets", h.List)
	r.Get("/api/sets/{id}", h.Get)
	r.Get("/api/today", h.Today)
	r.Post("/api/sets/{id}/register", h.Register)
	r.Post("/api/sets/{id}/opt-out", h.OptOut)
	r.Post("/api/sets/{id}/opt-in", h.OptIn)
	r.Post("/api/sets/{id}/questions/{index}/answer", h.Answer)
	r.Post("/api/admin/sets", h.Create)
	r.Put("/api/admin/sets/{id}", h.Update)
	r.Delete("/api/admin/sets/{id}", h.Delete)
	return r
}

func sampleSet() *domain.QuestionSet {
	return &domain.QuestionSet{
		ID:    uuid.New(),
		Title: "חשבון נפש",
		Type:  domain.SetTypeCurated,
		Questions: domain.Questions{
			domain.PlainQuestion{Text: "מה למדת השבוע?"},
			domain.PlainQuestion{Text: "על מה את מודה?"},
		},
	}
}

func TestSetHandler_ListAndGet(t *testing.T) {
	set := sampleSet()
	d := setDeps{sets: &mocks.MockSetService{
		ListFn: func(context.Context) ([]*domain.QuestionSet, error) { return nil, nil },
		GetFn: func(_ context.Context, id uuid.UUID) (*domain.QuestionSet, error) {
			if id != set.ID {
				return nil, store.ErrSetNotFound
			}
			return set, nil
		},
	}}
	router := newSetRouter(d, uuid.New())

	rec := doRequest(t, router, http.MethodGet, "/api/sets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = doRequest(t, router, http.MethodGet, "/api/sets/"+set.ID.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[map[string]any](t, rec)
	assert.Equal(t, set.Title, got["title"])
	assert.Len(t, got["questions"], 2)

	rec = doRequest(t, router, http.MethodGet, "/api/sets/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Question set not found", errorMessage(t, rec))

	rec = doRequest(t, router, http.MethodGet, "/api/sets/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetHandler_Today(t *testing.T) {
	userID := uuid.New()
	set := sampleSet()
	loc, err := time.LoadLocation("Asia/Jerusalem")
	require.NoError(t, err)

	d := setDeps{progress: &mocks.MockProgressService{
		TodayFn: func(_ context.Context, id uuid.UUID) (*service.TodayView, error) {
			assert.Equal(t, userID, id)
			return &service.TodayView{
				Set:        set,
				Source:     progress.SourceExplicit,
				Index:      1,
				Question:   set.Questions[1],
				HebrewDate: "ו׳ חשוון תשפ״ז",
				MonthKey:   "5787-08",
				Date:       time.Date(2026, 10, 17, 9, 0, 0, 0, loc),
			}, nil
		},
	}}

	rec := doRequest(t, newSetRouter(d, userID), http.MethodGet, "/api/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[TodayResponse](t, rec)
	assert.Equal(t, "2026-10-17", resp.Date)
	assert.Equal(t, "explicit", resp.Source)
	require.NotNil(t, resp.QuestionIndex)
	assert.Equal(t, 1, *resp.QuestionIndex)
	require.NotNil(t, resp.Question)
	assert.Equal(t, "על מה את מודה?", resp.Question.Text)

	d.progress.TodayFn = func(context.Context, uuid.UUID) (*service.TodayView, error) {
		return &service.TodayView{Source: progress.SourceNone, Date: time.Date(2026, 10, 17, 9, 0, 0, 0, loc)}, nil
	}
	rec = doRequest(t, newSetRouter(d, userID), http.MethodGet, "/api/today", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = decodeBody[TodayResponse](t, rec)
	assert.Equal(t, "none", resp.Source)
	assert.Nil(t, resp.Question)
	assert.Nil(t, resp.QuestionIndex)
}

func TestSetHandler_Answer(t *testing.T) {
	userID := uuid.New()
	setID := uuid.New()
	now := time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC)

	var gotIndex int
	var gotText string
	d := setDeps{journal: &mocks.MockJournalService{
		AnswerFn: func(_ context.Context, uid, sid uuid.UUID, index int, text string) (*service.AnswerResult, error) {
			assert.Equal(t, userID, uid)
			assert.Equal(t, setID, sid)
			gotIndex, gotText = index, text
			if index > 1 {
				return nil, service.ErrQuestionOutOfRange
			}
			return &service.AnswerResult{
				Entry:     &domain.Entry{ID: uuid.New(), UserID: uid, Text: text, Date: now},
				Pointer:   &domain.ActiveSetPointer{SetID: sid, CurrentQuestionIndex: 1, StartedAt: now},
				Completed: index == 1,
			}, nil
		},
	}}
	router := newSetRouter(d, userID)
	path := "/api/sets/" + setID.String() + "/questions/"

	rec := doRequest(t, router, http.MethodPost, path+"0/answer", AnswerRequest{Text: "הרבה"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[AnswerResponse](t, rec)
	assert.Equal(t, 0, gotIndex)
	assert.Equal(t, "הרבה", gotText)
	assert.Equal(t, 1, resp.ActiveSet.CurrentQuestionIndex)
	assert.False(t, resp.Completed)

	rec = doRequest(t, router, http.MethodPost, path+"1/answer", AnswerRequest{Text: "הכל"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decodeBody[AnswerResponse](t, rec).Completed)

	rec = doRequest(t, router, http.MethodPost, path+"5/answer", AnswerRequest{Text: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Question index out of range", errorMessage(t, rec))

	rec = doRequest(t, router, http.MethodPost, path+"first/answer", AnswerRequest{Text: "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid question index", errorMessage(t, rec))

	rec = doRequest(t, router, http.MethodPost, path+"0/answer", AnswerRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetHandler_Progress(t *testing.T) {
	userID := uuid.New()
	setID := uuid.New()
	now := time.Now().UTC()
	d := setDeps{progress: &mocks.MockProgressService{
		RegisterFn: func(_ context.Context, _, sid uuid.UUID) (*domain.ActiveSetPointer, error) {
			return domain.StartSet(sid, now), nil
		},
		OptInFn: func(_ context.Context, _, sid uuid.UUID) (*domain.ActiveSetPointer, error) {
			return domain.StartSet(sid, now), nil
		},
		OptOutFn: func(_ context.Context, _, sid uuid.UUID) error {
			if sid != setID {
				return service.ErrNotMonthlySet
			}
			return nil
		},
	}}
	router := newSetRouter(d, userID)
	base := "/api/sets/" + setID.String()

	for _, action := range []string{"/register", "/opt-in"} {
		rec := doRequest(t, router, http.MethodPost, base+action, nil)
		require.Equal(t, http.StatusOK, rec.Code, action)
		p := decodeBody[domain.ActiveSetPointer](t, rec)
		assert.Equal(t, setID, p.SetID)
		assert.Zero(t, p.CurrentQuestionIndex)
	}

	rec := doRequest(t, router, http.MethodPost, base+"/opt-out", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/sets/"+uuid.NewString()+"/opt-out", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Only monthly sets can be declined", errorMessage(t, rec))
}

func TestSetHandler_AdminWrites(t *testing.T) {
	var created service.SetInput
	d := setDeps{sets: &mocks.MockSetService{
		CreateFn: func(_ context.Context, in service.SetInput) (*domain.QuestionSet, error) {
			created = in
			if in.MonthKey == "5787-08" {
				return nil, store.ErrMonthKeyTaken
			}
			set := sampleSet()
			set.Title = in.Title
			return set, nil
		},
		DeleteFn: func(context.Context, uuid.UUID) error { return store.ErrSetNotFound },
	}}
	router := newSetRouter(d, uuid.New())

	rec := doRequest(t, router, http.MethodPost, "/api/admin/sets",
		`{"title":"אלול","questions":["מה מחכה לך?",{"text":"ומה לא?","imageUrl":"https://cdn.example.com/q.png"}]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "אלול", created.Title)
	require.Len(t, created.Questions, 2)
	assert.Equal(t, "https://cdn.example.com/q.png", created.Questions[1].Image())

	rec = doRequest(t, router, http.MethodPost, "/api/admin/sets",
		`{"title":"חשוון","type":"monthly","monthKey":"5787-08","questions":["?"]}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doRequest(t, router, http.MethodPost, "/api/admin/sets", `{"title":"ריק","questions":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, router, http.MethodDelete, "/api/admin/sets/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/hebcal"
	"github.com/yoman-app/yoman-api/internal/service"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// RefreshTokenRequest is the body of POST /api/auth/refresh.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// ChangePasswordRequest is the body of PUT /api/auth/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required,max=72"`
	NewPassword     string `json:"newPassword"     validate:"required,min=8,max=72"`
}

// AuthResponse is returned by every endpoint that issues tokens.
type AuthResponse struct {
	UserID       uuid.UUID   `json:"userId"`
	Role         domain.Role `json:"role"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	// ExpiresAt is RFC 3339 and applies to the access token.
	ExpiresAt string `json:"expiresAt"`
}

// ProfileRequest is the body of PUT /api/profile. Omitted fields fall back
// to the defaults.
type ProfileRequest struct {
	Name            string                 `json:"name"            validate:"max=80"`
	WorkDays        []int                  `json:"workDays"        validate:"max=7,dive,gte=0,lte=6"`
	ReminderTime    string                 `json:"reminderTime"`
	ReminderDensity domain.ReminderDensity `json:"reminderDensity" validate:"omitempty,oneof=low medium high"`
	ReminderTopics  []string               `json:"reminderTopics"  validate:"max=10"`
	Onboarded       bool                   `json:"onboarded"`
}

func (p ProfileRequest) toDomain() domain.Profile {
	return domain.Profile{
		Name:            p.Name,
		WorkDays:        p.WorkDays,
		ReminderTime:    p.ReminderTime,
		ReminderDensity: p.ReminderDensity,
		ReminderTopics:  p.ReminderTopics,
		Onboarded:       p.Onboarded,
	}
}

// ProfileResponse is the profile as seen by its owner.
type ProfileResponse struct {
	UserID  uuid.UUID      `json:"userId"`
	Email   string         `json:"email"`
	Role    domain.Role    `json:"role"`
	Profile domain.Profile `json:"profile"`
	// PushEnabled reports whether a push token is registered.
	PushEnabled bool                     `json:"pushEnabled"`
	ActiveSet   *domain.ActiveSetPointer `json:"activeSet,omitempty"`
}

// PushTokenRequest is the body of PUT /api/profile/push-token. An empty
// token unsubscribes.
type PushTokenRequest struct {
	Token string `json:"token" validate:"max=4096"`
}

// SetRequest is the body of the admin set endpoints.
type SetRequest struct {
	Title            string             `json:"title"            validate:"required,max=200"`
	Description      string             `json:"description"      validate:"max=5000"`
	ShortDescription string             `json:"shortDescription" validate:"max=300"`
	Emoji            string             `json:"emoji"            validate:"max=16"`
	CoverImageURL    string             `json:"coverImageUrl"    validate:"omitempty,url"`
	Questions        domain.Questions   `json:"questions"        validate:"required,min=1"`
	Creator          *domain.Creator    `json:"creator"`
	Enrichment       *domain.Enrichment `json:"enrichment"`
	Type             domain.SetType     `json:"type"             validate:"omitempty,oneof=curated monthly"`
	MonthKey         string             `json:"monthKey"`
}

func (s SetRequest) toInput() service.SetInput {
	return service.SetInput{
		Title:            s.Title,
		Description:      s.Description,
		ShortDescription: s.ShortDescription,
		Emoji:            s.Emoji,
		CoverImageURL:    s.CoverImageURL,
		Questions:        s.Questions,
		Creator:          s.Creator,
		Enrichment:       s.Enrichment,
		Type:             s.Type,
		MonthKey:         s.MonthKey,
	}
}

// AnswerRequest is the body of POST /api/sets/{id}/questions/{index}/answer.
type AnswerRequest struct {
	Text string `json:"text" validate:"required,max=20000"`
}

// AnswerResponse is returned once the answer and the advanced pointer are
// committed.
type AnswerResponse struct {
	Entry     *domain.Entry            `json:"entry"`
	ActiveSet *domain.ActiveSetPointer `json:"activeSet"`
	Completed bool                     `json:"completed"`
}

// TodayResponse is the home screen payload.
type TodayResponse struct {
	Date       string                   `json:"date"`
	HebrewDate string                   `json:"hebrewDate"`
	MonthKey   string                   `json:"monthKey"`
	Source     string                   `json:"source"`
	Set        *domain.QuestionSet      `json:"set,omitempty"`
	ActiveSet  *domain.ActiveSetPointer `json:"activeSet,omitempty"`
	// QuestionIndex and Question are set only when Set is.
	QuestionIndex *int          `json:"questionIndex,omitempty"`
	Question      *QuestionBody `json:"question,omitempty"`
	Answer        *domain.Entry `json:"answer,omitempty"`
}

// QuestionBody is one question as sent to clients.
type QuestionBody struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

func newTodayResponse(v *service.TodayView) TodayResponse {
	resp := TodayResponse{
		Date:       v.Date.Format(time.DateOnly),
		HebrewDate: v.HebrewDate,
		MonthKey:   v.MonthKey,
		Source:     string(v.Source),
		Set:        v.Set,
		ActiveSet:  v.Pointer,
		Answer:     v.Answer,
	}
	if v.Set != nil && v.Question != nil {
		idx := v.Index
		resp.QuestionIndex = &idx
		resp.Question = &QuestionBody{Text: v.Question.Prompt(), ImageURL: v.Question.Image()}
	}
	return resp
}

// EntryRequest is the body of entry create and update.
type EntryRequest struct {
	Text        string     `json:"text"        validate:"max=20000"`
	ImageURL    string     `json:"imageUrl"    validate:"omitempty,url"`
	Date        *time.Time `json:"date"`
	EnergyLevel int        `json:"energyLevel" validate:"gte=0,lte=5"`
}

func (e EntryRequest) toInput() service.EntryInput {
	return service.EntryInput{
		Text:        e.Text,
		ImageURL:    e.ImageURL,
		Date:        e.Date,
		EnergyLevel: e.EnergyLevel,
	}
}

// ArchiveRequest is the optional body of POST /api/entries/{id}/archive.
// A missing body archives.
type ArchiveRequest struct {
	Archived *bool `json:"archived"`
}

// EntryDaysResponse lists the local dates that have at least one entry.
type EntryDaysResponse struct {
	Days []string `json:"days"`
}

// GoalsRequest is the body of PUT /api/goals/{monthKey}.
type GoalsRequest struct {
	Professional []domain.Goal `json:"professional" validate:"max=10"`
	Personal     []domain.Goal `json:"personal"     validate:"max=10"`
	Spiritual    []domain.Goal `json:"spiritual"    validate:"max=10"`
}

// GoalsResponse is one month's goals with navigation keys.
type GoalsResponse struct {
	Goals *domain.MonthlyGoals `json:"goals"`
	Label string               `json:"label"`
	Prev  string               `json:"prev"`
	Next  string               `json:"next"`
}

func newGoalsResponse(v *service.GoalsView) GoalsResponse {
	return GoalsResponse{Goals: v.Goals, Label: v.Label, Prev: v.Prev, Next: v.Next}
}

// DayResponse describes one day in Hebrew calendar terms.
type DayResponse struct {
	Date         string   `json:"date"`
	HebrewDate   string   `json:"hebrewDate"`
	HebrewShort  string   `json:"hebrewShort"`
	MonthKey     string   `json:"monthKey"`
	MonthLabel   string   `json:"monthLabel"`
	Holidays     []string `json:"holidays"`
	DayOff       bool     `json:"dayOff"`
	FirstOfMonth bool     `json:"firstOfMonth"`
}

func newDayResponse(d service.DayInfo) DayResponse {
	holidays := d.Holidays
	if holidays == nil {
		holidays = []string{}
	}
	return DayResponse{
		Date:         d.Date.Format(time.DateOnly),
		HebrewDate:   d.HebrewDate,
		HebrewShort:  d.HebrewShort,
		MonthKey:     d.MonthKey,
		MonthLabel:   d.MonthLabel,
		Holidays:     holidays,
		DayOff:       d.DayOff,
		FirstOfMonth: d.FirstOfMonth,
	}
}

// MonthResponse is one Hebrew month as a Gregorian date window; End is
// inclusive.
type MonthResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func newMonthResponses(windows []hebcal.MonthWindow) []MonthResponse {
	out := make([]MonthResponse, 0, len(windows))
	for _, w := range windows {
		out = append(out, MonthResponse{
			Key:   w.Key.String(),
			Label: w.Label,
			Start: w.Start.Format(time.DateOnly),
			End:   w.End.Format(time.DateOnly),
		})
	}
	return out
}

// UploadRequest is the body of POST /api/uploads.
type UploadRequest struct {
	Kind        string `json:"kind"        validate:"required,oneof=entry set"`
	ContentType string `json:"contentType" validate:"required,max=100"`
}

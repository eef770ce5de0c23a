package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/hebcal"
)

// SetType distinguishes hand-picked sets from sets bound to a Hebrew month.
type SetType string

// Possible question set types.
const (
	SetTypeCurated SetType = "curated"
	SetTypeMonthly SetType = "monthly"
)

// Validation errors for QuestionSet.
var (
	ErrEmptySetID         = errors.New("question set ID cannot be empty")
	ErrEmptySetTitle      = errors.New("question set title cannot be empty")
	ErrNoQuestions        = errors.New("question set must contain at least one question")
	ErrEmptyQuestionText  = errors.New("question text cannot be empty")
	ErrInvalidSetType     = errors.New("invalid question set type")
	ErrMissingMonthKey    = errors.New("monthly question set requires a month key")
	ErrUnexpectedMonthKey = errors.New("only monthly question sets carry a month key")
)

// Creator credits the author of a question set.
type Creator struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// Enrichment is optional background material shown with a set.
type Enrichment struct {
	Content    string `json:"content,omitempty"`
	ArticleURL string `json:"articleUrl,omitempty"`
}

// QuestionSet is an ordered, named sequence of journaling prompts. Monthly
// sets are tied to one Hebrew month through MonthKey.
type QuestionSet struct {
	ID               uuid.UUID   `json:"id"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	ShortDescription string      `json:"shortDescription,omitempty"`
	Emoji            string      `json:"emoji"`
	CoverImageURL    string      `json:"coverImageUrl,omitempty"`
	Questions        Questions   `json:"questions"`
	Creator          *Creator    `json:"creator,omitempty"`
	Enrichment       *Enrichment `json:"enrichment,omitempty"`
	Type             SetType     `json:"type"`
	MonthKey         string      `json:"monthKey,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// NewQuestionSet creates a validated set with a fresh ID. An empty type
// defaults to curated.
func NewQuestionSet(title string, setType SetType, monthKey string, questions Questions) (*QuestionSet, error) {
	if setType == "" {
		setType = SetTypeCurated
	}
	now := time.Now().UTC()
	set := &QuestionSet{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		Questions: questions,
		Type:      setType,
		MonthKey:  monthKey,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	return set, nil
}

// Validate checks the set's invariants. A monthly set must carry a month key
// naming a real Hebrew month; curated sets must not carry one. A valid month
// key is rewritten to its canonical spelling ("05786-02" becomes "5786-02"),
// the form lookups and the unique index compare.
func (s *QuestionSet) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySetID
	}
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptySetTitle
	}
	if len(s.Questions) == 0 {
		return ErrNoQuestions
	}
	for i, q := range s.Questions {
		if q == nil || strings.TrimSpace(q.Prompt()) == "" {
			return fmt.Errorf("%w: question %d", ErrEmptyQuestionText, i)
		}
	}

	switch s.Type {
	case SetTypeMonthly:
		if s.MonthKey == "" {
			return ErrMissingMonthKey
		}
		key, err := hebcal.ParseMonthKey(s.MonthKey)
		if err != nil {
			return err
		}
		s.MonthKey = key.String()
	case SetTypeCurated:
		if s.MonthKey != "" {
			return ErrUnexpectedMonthKey
		}
	default:
		return ErrInvalidSetType
	}

	return nil
}

// IsMonthly reports whether the set is a monthly set.
func (s *QuestionSet) IsMonthly() bool {
	return s.Type == SetTypeMonthly
}

// IsMonthlyFor reports whether s is the monthly set for the given month key.
func (s *QuestionSet) IsMonthlyFor(key hebcal.MonthKey) bool {
	return s.IsMonthly() && s.MonthKey == key.String()
}

// Total returns the number of questions in the set.
func (s *QuestionSet) Total() int {
	return len(s.Questions)
}

package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// Validation errors for Entry.
var (
	ErrEmptyEntryID       = errors.New("entry ID cannot be empty")
	ErrEmptyEntryUserID   = errors.New("entry user ID cannot be empty")
	ErrEmptyEntryContent  = errors.New("entry must have text or an image")
	ErrInvalidEnergyLevel = errors.New("energy level must be between 1 and 5")
	ErrEntryTooLong       = errors.New("entry text is too long")
	ErrOrphanQuestion     = errors.New("question index requires a set ID")
)

// MaxEntryTextBytes bounds the stored HTML of a single entry.
const MaxEntryTextBytes = 200_000

// Entry is one diary entry. Text is rich HTML produced by the editor. Entries
// written in answer to a set question carry SetID and QuestionIndex.
type Entry struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"userId"`
	Text          string     `json:"text"`
	Date          time.Time  `json:"date"`
	ImageURL      string     `json:"imageUrl,omitempty"`
	SetID         *uuid.UUID `json:"setId,omitempty"`
	QuestionIndex *int       `json:"questionIndex,omitempty"`
	QuestionText  string     `json:"questionText,omitempty"`
	EnergyLevel   int        `json:"energyLevel,omitempty"` // 0 when unset
	Archived      bool       `json:"archived"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// NewEntry creates a free-form entry dated at.
func NewEntry(userID uuid.UUID, text, imageURL string, at time.Time) (*Entry, error) {
	now := time.Now().UTC()
	entry := &Entry{
		ID:        uuid.New(),
		UserID:    userID,
		Text:      text,
		Date:      at,
		ImageURL:  strings.TrimSpace(imageURL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// NewAnswerEntry creates an entry answering question index of set. The entry
// is dated at local noon of day so it never slides to a neighbouring day.
func NewAnswerEntry(userID uuid.UUID, set *QuestionSet, index int, text string, day time.Time) (*Entry, error) {
	setID := set.ID
	idx := index
	prompt := ""
	if q := set.Questions.At(index); q != nil {
		prompt = q.Prompt()
	}

	entry, err := NewEntry(userID, text, "", Noon(day))
	if err != nil {
		return nil, err
	}
	entry.SetID = &setID
	entry.QuestionIndex = &idx
	entry.QuestionText = prompt
	return entry, nil
}

// Validate checks the entry fields.
func (e *Entry) Validate() error {
	if e.ID == uuid.Nil {
		return ErrEmptyEntryID
	}
	if e.UserID == uuid.Nil {
		return ErrEmptyEntryUserID
	}
	if len(e.Text) > MaxEntryTextBytes {
		return ErrEntryTooLong
	}
	if strings.TrimSpace(StripHTML(e.Text)) == "" && e.ImageURL == "" {
		return ErrEmptyEntryContent
	}
	if e.EnergyLevel != 0 && (e.EnergyLevel < 1 || e.EnergyLevel > 5) {
		return ErrInvalidEnergyLevel
	}
	if e.QuestionIndex != nil && e.SetID == nil {
		return ErrOrphanQuestion
	}
	return nil
}

// Answers reports whether the entry answers question index of setID.
func (e *Entry) Answers(setID uuid.UUID, index int) bool {
	return e.SetID != nil && *e.SetID == setID &&
		e.QuestionIndex != nil && *e.QuestionIndex == index
}

// Excerpt returns the plain text of the entry, cut to at most n runes with an
// ellipsis when truncated. n <= 0 returns the full text.
func (e *Entry) Excerpt(n int) string {
	text := strings.Join(strings.Fields(StripHTML(e.Text)), " ")
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	return string([]rune(text)[:n]) + "…"
}

// StripHTML returns the text content of an HTML fragment.
func StripHTML(fragment string) string {
	if fragment == "" {
		return ""
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or malformed input
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "br", "p", "div", "li":
				b.WriteByte(' ')
			}
		}
	}
}

// Noon returns 12:00 on the civil date of t in t's location.
func Noon(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same civil date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	return ay == by && am == bm && ad == bd
}

package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNegativeQuestionIndex is returned for a pointer with a negative index.
var ErrNegativeQuestionIndex = errors.New("question index cannot be negative")

// ActiveSetPointer records which question set a user is working through and
// where they are in it. It is owned by the user record.
type ActiveSetPointer struct {
	SetID                uuid.UUID `json:"setId"`
	CurrentQuestionIndex int       `json:"currentQuestionIndex"`
	StartedAt            time.Time `json:"startedAt"`
}

// StartSet returns a pointer at the first question of setID.
func StartSet(setID uuid.UUID, now time.Time) *ActiveSetPointer {
	return &ActiveSetPointer{SetID: setID, CurrentQuestionIndex: 0, StartedAt: now}
}

// Validate checks the pointer fields.
func (p *ActiveSetPointer) Validate() error {
	if p.SetID == uuid.Nil {
		return ErrEmptySetID
	}
	if p.CurrentQuestionIndex < 0 {
		return ErrNegativeQuestionIndex
	}
	return nil
}

// Advance returns a copy of the pointer moved past answeredIndex, clamped to
// the last question. StartedAt is preserved.
func (p ActiveSetPointer) Advance(answeredIndex, total int) *ActiveSetPointer {
	next := answeredIndex + 1
	if next > total-1 {
		next = total - 1
	}
	if next < 0 {
		next = 0
	}
	p.CurrentQuestionIndex = next
	return &p
}

// PointsAt reports whether the pointer references setID. A nil pointer
// references nothing.
func (p *ActiveSetPointer) PointsAt(setID uuid.UUID) bool {
	return p != nil && p.SetID == setID
}

// OptOutSet holds the IDs of monthly sets a user has declined.
type OptOutSet map[uuid.UUID]struct{}

// NewOptOutSet builds a set from a list of IDs.
func NewOptOutSet(ids ...uuid.UUID) OptOutSet {
	s := make(OptOutSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id was declined. A nil set contains nothing.
func (s OptOutSet) Contains(id uuid.UUID) bool {
	_, ok := s[id]
	return ok
}

// Add records a decline.
func (s OptOutSet) Add(id uuid.UUID) {
	s[id] = struct{}{}
}

// Remove clears a decline.
func (s OptOutSet) Remove(id uuid.UUID) {
	delete(s, id)
}

// IDs lists the declined set IDs in no particular order.
func (s OptOutSet) IDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	return ids
}

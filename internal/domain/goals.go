package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yoman-app/yoman-api/internal/hebcal"
)

// MaxGoalsPerCategory bounds each goal list.
const MaxGoalsPerCategory = 10

// Validation errors for MonthlyGoals.
var (
	ErrEmptyGoalText   = errors.New("goal text cannot be empty")
	ErrTooManyGoals    = errors.New("too many goals in one category")
	ErrEmptyGoalUserID = errors.New("goals user ID cannot be empty")
)

// GoalCategory names one of the three goal lists.
type GoalCategory string

// Goal categories.
const (
	GoalProfessional GoalCategory = "professional"
	GoalPersonal     GoalCategory = "personal"
	GoalSpiritual    GoalCategory = "spiritual"
)

// Goal is a single monthly goal.
type Goal struct {
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
}

// MonthlyGoals are a user's professional, personal and spiritual goals for
// one Hebrew month.
type MonthlyGoals struct {
	UserID       uuid.UUID `json:"-"`
	MonthKey     string    `json:"monthKey"`
	Professional []Goal    `json:"professional"`
	Personal     []Goal    `json:"personal"`
	Spiritual    []Goal    `json:"spiritual"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// EmptyGoals returns the goals shown for a month that was never saved.
func EmptyGoals(userID uuid.UUID, key hebcal.MonthKey) *MonthlyGoals {
	return &MonthlyGoals{
		UserID:       userID,
		MonthKey:     key.String(),
		Professional: []Goal{},
		Personal:     []Goal{},
		Spiritual:    []Goal{},
	}
}

// Validate checks the month key and every goal.
func (g *MonthlyGoals) Validate() error {
	if g.UserID == uuid.Nil {
		return ErrEmptyGoalUserID
	}
	if _, err := hebcal.ParseMonthKey(g.MonthKey); err != nil {
		return err
	}
	for category, goals := range g.byCategory() {
		if len(goals) > MaxGoalsPerCategory {
			return fmt.Errorf("%w: %s", ErrTooManyGoals, category)
		}
		for i, goal := range goals {
			if strings.TrimSpace(goal.Text) == "" {
				return fmt.Errorf("%w: %s[%d]", ErrEmptyGoalText, category, i)
			}
		}
	}
	return nil
}

// Normalize trims goal texts and drops blank goals. Clients send the raw
// input rows, including empty ones.
func (g *MonthlyGoals) Normalize() {
	g.Professional = compactGoals(g.Professional)
	g.Personal = compactGoals(g.Personal)
	g.Spiritual = compactGoals(g.Spiritual)
}

// Progress returns the number of completed goals and the total.
func (g *MonthlyGoals) Progress() (completed, total int) {
	for _, goals := range g.byCategory() {
		for _, goal := range goals {
			total++
			if goal.Completed {
				completed++
			}
		}
	}
	return completed, total
}

func (g *MonthlyGoals) byCategory() map[GoalCategory][]Goal {
	return map[GoalCategory][]Goal{
		GoalProfessional: g.Professional,
		GoalPersonal:     g.Personal,
		GoalSpiritual:    g.Spiritual,
	}
}

func compactGoals(goals []Goal) []Goal {
	out := make([]Goal, 0, len(goals))
	for _, goal := range goals {
		goal.Text = strings.TrimSpace(goal.Text)
		if goal.Text != "" {
			out = append(out, goal)
		}
	}
	return out
}

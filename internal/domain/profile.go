package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ReminderDensity controls how often and what kind of reminders a user gets.
type ReminderDensity string

// Possible reminder densities.
const (
	DensityLow    ReminderDensity = "low"
	DensityMedium ReminderDensity = "medium"
	DensityHigh   ReminderDensity = "high"
)

// Reminder topics offered during onboarding.
const (
	TopicWellbeing      = "וולביינג"
	TopicTimeManagement = "ניהול זמן"
	TopicGratitude      = "הכרת טוב"
	TopicRelease        = "שחרור"
	TopicStrengths      = "חוזקות"
)

// ReminderTopics lists the supported topics in display order.
var ReminderTopics = []string{
	TopicWellbeing,
	TopicTimeManagement,
	TopicGratitude,
	TopicRelease,
	TopicStrengths,
}

// Default profile values.
const (
	DefaultReminderTime    = "07:30"
	DefaultReminderDensity = DensityMedium
)

// Validation errors for Profile.
var (
	ErrInvalidWorkDay         = errors.New("work days must be between 0 (Sunday) and 6 (Saturday)")
	ErrInvalidReminderTime    = errors.New("reminder time must be HH:MM")
	ErrInvalidReminderDensity = errors.New("invalid reminder density")
	ErrInvalidReminderTopic   = errors.New("invalid reminder topic")
	ErrProfileNameTooLong     = errors.New("profile name is too long")
)

var reminderTimePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Profile holds the user's onboarding answers and reminder settings.
type Profile struct {
	Name            string          `json:"name"`
	WorkDays        []int           `json:"workDays"`
	ReminderTime    string          `json:"reminderTime"`
	ReminderDensity ReminderDensity `json:"reminderDensity"`
	ReminderTopics  []string        `json:"reminderTopics"`
	PushToken       string          `json:"-"`
	Onboarded       bool            `json:"onboarded"`
}

// DefaultProfile returns the settings a new user starts with: Sunday to
// Thursday, 07:30, medium density.
func DefaultProfile() Profile {
	return Profile{
		WorkDays:        []int{0, 1, 2, 3, 4},
		ReminderTime:    DefaultReminderTime,
		ReminderDensity: DefaultReminderDensity,
		ReminderTopics:  []string{},
	}
}

// Validate checks the profile settings.
func (p Profile) Validate() error {
	if len([]rune(p.Name)) > 100 {
		return ErrProfileNameTooLong
	}
	for _, d := range p.WorkDays {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: %d", ErrInvalidWorkDay, d)
		}
	}
	if !reminderTimePattern.MatchString(p.ReminderTime) {
		return fmt.Errorf("%w: %q", ErrInvalidReminderTime, p.ReminderTime)
	}
	switch p.ReminderDensity {
	case DensityLow, DensityMedium, DensityHigh:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidReminderDensity, p.ReminderDensity)
	}
	for _, topic := range p.ReminderTopics {
		if !isKnownTopic(topic) {
			return fmt.Errorf("%w: %q", ErrInvalidReminderTopic, topic)
		}
	}
	return nil
}

// WorksOn reports whether w is one of the user's work days.
func (p Profile) WorksOn(w time.Weekday) bool {
	for _, d := range p.WorkDays {
		if d == int(w) {
			return true
		}
	}
	return false
}

// ReminderClock parses ReminderTime into hour and minute.
func (p Profile) ReminderClock() (hour, minute int, err error) {
	if !reminderTimePattern.MatchString(p.ReminderTime) {
		return 0, 0, ErrInvalidReminderTime
	}
	parts := strings.SplitN(p.ReminderTime, ":", 2)
	hour, _ = strconv.Atoi(parts[0])
	minute, _ = strconv.Atoi(parts[1])
	return hour, minute, nil
}

// Normalize removes duplicate work days and topics, keeping first occurrences.
func (p *Profile) Normalize() {
	p.Name = strings.TrimSpace(p.Name)

	seenDays := make(map[int]bool, len(p.WorkDays))
	days := make([]int, 0, len(p.WorkDays))
	for _, d := range p.WorkDays {
		if !seenDays[d] {
			seenDays[d] = true
			days = append(days, d)
		}
	}
	p.WorkDays = days

	seenTopics := make(map[string]bool, len(p.ReminderTopics))
	topics := make([]string, 0, len(p.ReminderTopics))
	for _, t := range p.ReminderTopics {
		if !seenTopics[t] {
			seenTopics[t] = true
			topics = append(topics, t)
		}
	}
	p.ReminderTopics = topics
}

func isKnownTopic(topic string) bool {
	for _, t := range ReminderTopics {
		if t == topic {
			return true
		}
	}
	return false
}

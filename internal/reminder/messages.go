package reminder

import (
	"strings"
	"unicode/utf8"

	"github.com/yoman-app/yoman-api/internal/domain"
)

// Notification texts.
const (
	monthlyGoalsTitle = "מטרות חודש חדש"
	monthlyGoalsBody  = "הקדישי רגע לתכנון – מקצועי, אישי ולנפש"

	dailyTitle = "יומן"
	dailyBody  = "איך עבר היום? כמה דקות של כתיבה מחכות לך"

	inspirationTitle = "השראה להיום"
)

// maxBodyRunes bounds the notification body shown on the lock screen.
const maxBodyRunes = 180

func setQuestionTitle(set *domain.QuestionSet) string {
	if set.Emoji == "" {
		return set.Title
	}
	return set.Emoji + " " + set.Title
}

func clip(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= maxBodyRunes {
		return s
	}
	return string([]rune(s)[:maxBodyRunes-1]) + "…"
}

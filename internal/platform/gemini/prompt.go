package gemini

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/yoman-app/yoman-api/internal/generation"
	"github.com/yoman-app/yoman-api/internal/hebcal"
)

const promptText = `את/ה כותב/ת התראות קצרות לאפליקציית יומן אישי בעברית.
כתוב/כתבי משפט השראה אחד, עד 20 מילים, שמזמין לכתוב ביומן היום.
{{- if .Topics}}
נושאים שהמשתמשת בחרה: {{.Topics}}.
{{- end}}
התאריך העברי: {{.HebrewDate}}.
החזר/י רק את המשפט, בלי מרכאות ובלי הסברים.`

var promptTemplate = template.Must(template.New("inspiration").Parse(promptText))

type promptData struct {
	Topics     string
	HebrewDate string
}

// createPrompt renders the prompt for req.
func createPrompt(req generation.Request) (string, error) {
	data := promptData{Topics: strings.Join(req.Topics, ", ")}
	if !req.Day.IsZero() {
		data.HebrewDate = hebcal.FormatLong(req.Day)
	}

	var buf bytes.Buffer
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}

// cleanResponse trims whitespace and wrapping quotes the model sometimes adds.
func cleanResponse(text string) string {
	text = strings.TrimSpace(text)
	text = strings.Trim(text, "\"'“”״")
	return strings.TrimSpace(text)
}

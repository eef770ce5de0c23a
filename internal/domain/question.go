package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Question is one prompt of a question set. It is a closed sum type: the only
// implementations are PlainQuestion and IllustratedQuestion.
type Question interface {
	// Prompt returns the question text shown to the user.
	Prompt() string
	// Image returns the illustration URL, or "" for plain questions.
	Image() string
	isQuestion()
}

// PlainQuestion is a text-only prompt.
type PlainQuestion struct {
	Text string
}

func (q PlainQuestion) Prompt() string { return q.Text }
func (q PlainQuestion) Image() string  { return "" }
func (PlainQuestion) isQuestion()      {}

// IllustratedQuestion is a prompt shown together with an image.
type IllustratedQuestion struct {
	Text     string
	ImageURL string
}

func (q IllustratedQuestion) Prompt() string { return q.Text }
func (q IllustratedQuestion) Image() string  { return q.ImageURL }
func (IllustratedQuestion) isQuestion()      {}

// NewQuestion builds the matching variant: an empty image yields a
// PlainQuestion.
func NewQuestion(text, imageURL string) Question {
	text = strings.TrimSpace(text)
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" {
		return PlainQuestion{Text: text}
	}
	return IllustratedQuestion{Text: text, ImageURL: imageURL}
}

// Questions is an ordered list of prompts. Its JSON form accepts both legacy
// shapes: a bare string, or an object {"text", "imageUrl"}.
type Questions []Question

type questionJSON struct {
	Text     string `json:"text"`
	ImageURL string `json:"imageUrl,omitempty"`
}

// MarshalJSON always writes the object form.
func (qs Questions) MarshalJSON() ([]byte, error) {
	out := make([]questionJSON, 0, len(qs))
	for _, q := range qs {
		if q == nil {
			continue
		}
		out = append(out, questionJSON{Text: q.Prompt(), ImageURL: q.Image()})
	}
	return json.Marshal(out)
}

// UnmarshalJSON normalises strings and objects into Question variants.
func (qs *Questions) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: questions must be an array: %v", ErrInvalidFormat, err)
	}

	out := make(Questions, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		switch {
		case len(item) > 0 && item[0] == '"':
			var text string
			if err := json.Unmarshal(item, &text); err != nil {
				return fmt.Errorf("%w: question %d: %v", ErrInvalidFormat, i, err)
			}
			out = append(out, NewQuestion(text, ""))
		case len(item) > 0 && item[0] == '{':
			var obj questionJSON
			if err := json.Unmarshal(item, &obj); err != nil {
				return fmt.Errorf("%w: question %d: %v", ErrInvalidFormat, i, err)
			}
			out = append(out, NewQuestion(obj.Text, obj.ImageURL))
		default:
			return fmt.Errorf("%w: question %d must be a string or an object", ErrInvalidFormat, i)
		}
	}
	*qs = out
	return nil
}

// At returns the question at index i, or nil when i is out of range.
func (qs Questions) At(i int) Question {
	if i < 0 || i >= len(qs) {
		return nil
	}
	return qs[i]
}

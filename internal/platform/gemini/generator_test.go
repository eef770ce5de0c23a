package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoman-app/yoman-api/internal/config"
	"github.com/yoman-app/yoman-api/internal/domain"
	"github.com/yoman-app/yoman-api/internal/generation"
	"google.golang.org/genai"
)

type fakeModels struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	calls     int
	prompts   []string
	model     string
}

func (f *fakeModels) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	_ *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	i := f.calls
	f.calls++
	f.model = model
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompts = append(f.prompts, p.Text)
		}
	}
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	if err != nil {
		return nil, err
	}
	if i < len(f.responses) {
		return f.responses[i], nil
	}
	return textResponse("ברירת מחדל"), nil
}

func textResponse(parts ...string) *genai.GenerateContentResponse {
	content := &genai.Content{Role: "model"}
	for _, p := range parts {
		content.Parts = append(content.Parts, &genai.Part{Text: p})
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: content, FinishReason: genai.FinishReasonStop}},
	}
}

func testGenerator(models contentGenerator, retries int) (*Generator, *[]time.Duration) {
	g := newGenerator(models, nil, config.LLMConfig{Model: "gemini-2.0-flash", MaxRetries: retries, RetryDelaySeconds: 1})
	var slept []time.Duration
	g.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return g, &slept
}

func TestInspiration(t *testing.T) {
	models := &fakeModels{responses: []*genai.GenerateContentResponse{textResponse("  \"מה שימח אותך היום?\" ")}}
	g, slept := testGenerator(models, 2)

	text, err := g.Inspiration(context.Background(), generation.Request{
		Topics: []string{domain.TopicGratitude},
		Day:    time.Date(2026, 10, 12, 7, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "מה שימח אותך היום?", text)
	assert.Equal(t, 1, models.calls)
	assert.Equal(t, "gemini-2.0-flash", models.model)
	require.Len(t, models.prompts, 1)
	assert.Contains(t, models.prompts[0], domain.TopicGratitude)
	assert.Empty(t, *slept)
}

func TestInspirationRetriesTransientErrors(t *testing.T) {
	models := &fakeModels{
		errs:      []error{errors.New("503 unavailable"), errors.New("503 unavailable")},
		responses: []*genai.GenerateContentResponse{nil, nil, textResponse("כתבי שורה אחת")},
	}
	g, slept := testGenerator(models, 2)

	text, err := g.Inspiration(context.Background(), generation.Request{})
	require.NoError(t, err)
	assert.Equal(t, "כתבי שורה אחת", text)
	assert.Equal(t, 3, models.calls)

	require.Len(t, *slept, 2)
	assert.GreaterOrEqual(t, (*slept)[0], 500*time.Millisecond)
	assert.Less(t, (*slept)[0], time.Second)
	assert.GreaterOrEqual(t, (*slept)[1], time.Second)
	assert.Less(t, (*slept)[1], 2*time.Second)
}

func TestInspirationGivesUpAfterRetries(t *testing.T) {
	boom := errors.New("connection reset")
	models := &fakeModels{errs: []error{boom, boom, boom}}
	g, _ := testGenerator(models, 1)

	_, err := g.Inspiration(context.Background(), generation.Request{})
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Equal(t, 2, models.calls)
}

func TestInspirationPermanentErrors(t *testing.T) {
	blocked := textResponse("x")
	blocked.Candidates[0].FinishReason = genai.FinishReasonSafety

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want error
	}{
		{name: "blocked", resp: blocked, want: generation.ErrContentBlocked},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: generation.ErrInvalidResponse},
		{name: "empty text", resp: textResponse("   "), want: generation.ErrInvalidResponse},
		{name: "nil content", resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, want: generation.ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			models := &fakeModels{responses: []*genai.GenerateContentResponse{tt.resp}}
			g, slept := testGenerator(models, 3)

			_, err := g.Inspiration(context.Background(), generation.Request{})
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 1, models.calls)
			assert.Empty(t, *slept)
		})
	}
}

func TestInspirationStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	models := &fakeModels{errs: []error{context.Canceled}}
	g, _ := testGenerator(models, 3)

	_, err := g.Inspiration(ctx, generation.Request{})
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Equal(t, 1, models.calls)
}

func TestExtractTextSkipsThoughts(t *testing.T) {
	resp := textResponse("שורה")
	resp.Candidates[0].Content.Parts = append([]*genai.Part{{Text: "thinking...", Thought: true}}, resp.Candidates[0].Content.Parts...)

	text, err := extractText(resp)
	require.NoError(t, err)
	assert.Equal(t, "שורה", text)
}

func TestCreatePrompt(t *testing.T) {
	prompt, err := createPrompt(generation.Request{
		Topics: []string{domain.TopicRelease, domain.TopicStrengths},
		Day:    time.Date(2026, 10, 12, 12, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, prompt, domain.TopicRelease+", "+domain.TopicStrengths)
	assert.Contains(t, prompt, "חשון")

	prompt, err = createPrompt(generation.Request{})
	require.NoError(t, err)
	assert.NotContains(t, prompt, "נושאים")
}

func TestNewGeneratorValidatesConfig(t *testing.T) {
	_, err := NewGenerator(context.Background(), nil, config.LLMConfig{Model: "m"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)

	_, err = NewGenerator(context.Background(), nil, config.LLMConfig{GeminiAPIKey: "k"})
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

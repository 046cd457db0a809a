package gemini

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/fluentdeck/fluentdeck-api/internal/config"
	"github.com/fluentdeck/fluentdeck-api/internal/generation"
)

func TestNewGeneratorConfigValidation(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	t.Run("nil_logger", func(t *testing.T) {
		_, err := NewGenerator(ctx, nil, config.LLMConfig{GeminiAPIKey: "k", ModelName: "m"})
		assert.Error(t, err)
	})

	t.Run("missing_api_key", func(t *testing.T) {
		_, err := NewGenerator(ctx, log, config.LLMConfig{ModelName: "m"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})

	t.Run("missing_model_name", func(t *testing.T) {
		_, err := NewGenerator(ctx, log, config.LLMConfig{GeminiAPIKey: "k"})
		assert.ErrorIs(t, err, generation.ErrInvalidConfig)
	})
}

func TestParseResponse(t *testing.T) {
	t.Run("complete_payload", func(t *testing.T) {
		content, err := parseResponse(`{
			"source_text": "der Hund",
			"target_text": "собака",
			"example_sentence": "Der Hund schläft.",
			"example_translation": "Собака спит.",
			"part_of_speech": "noun"
		}`)
		require.NoError(t, err)
		assert.Equal(t, "der Hund", content.SourceText)
		assert.Equal(t, "собака", content.TargetText)
		assert.Equal(t, "noun", content.PartOfSpeech)
	})

	t.Run("part_of_speech_optional", func(t *testing.T) {
		content, err := parseResponse(`{
			"target_text": "dog",
			"example_sentence": "The dog sleeps.",
			"example_translation": "Собака спит."
		}`)
		require.NoError(t, err)
		assert.Empty(t, content.PartOfSpeech)
	})

	t.Run("fenced_payload", func(t *testing.T) {
		content, err := parseResponse("```json\n{\"target_text\":\"dog\",\"example_sentence\":\"a\",\"example_translation\":\"b\"}\n```")
		require.NoError(t, err)
		assert.Equal(t, "dog", content.TargetText)
	})

	t.Run("not_json", func(t *testing.T) {
		_, err := parseResponse("Here is your flashcard: dog")
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("missing_required_field", func(t *testing.T) {
		_, err := parseResponse(`{"target_text": "dog", "example_sentence": "The dog sleeps."}`)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})

	t.Run("whitespace_only_field", func(t *testing.T) {
		_, err := parseResponse(`{"target_text": "  ", "example_sentence": "a", "example_translation": "b"}`)
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
	})
}

func TestClassifyAPIError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{name: "deadline", err: context.DeadlineExceeded, transient: true},
		{name: "rate_limited", err: genai.APIError{Code: 429}, transient: true},
		{name: "server_error", err: genai.APIError{Code: 503}, transient: true},
		{name: "bad_request", err: genai.APIError{Code: 400}, transient: false},
		{name: "unknown_transport", err: fmt.Errorf("connection reset"), transient: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classified := classifyAPIError(tt.err)
			assert.Equal(t, tt.transient, isTransient(classified))
		})
	}
}

func TestCreatePrompt(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	g := &Generator{logger: log}

	var err error
	g.promptTemplate, err = template.New("card").Parse(defaultPromptTemplate)
	require.NoError(t, err)

	prompt, err := g.createPrompt("Haus", "de", "en")
	require.NoError(t, err)
	assert.Contains(t, prompt, `"Haus"`)
	assert.Contains(t, prompt, "de")
	assert.Contains(t, prompt, "en")
}

package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"text/template"
	"time"

	"google.golang.org/genai"

	"github.com/fluentdeck/fluentdeck-api/internal/config"
	"github.com/fluentdeck/fluentdeck-api/internal/generation"
)

// defaultPromptTemplate instructs the model to return a single JSON
// object matching responseSchema. Kept in code rather than a file so the
// deployable artifact is self-contained.
const defaultPromptTemplate = `You are a language tutor building a vocabulary flashcard.
The learner is studying {{.SourceLanguage}} and speaks {{.TargetLanguage}}.

For the {{.SourceLanguage}} word or phrase "{{.SourceText}}", respond with a single JSON object
and nothing else, using exactly these keys:

{
  "source_text": the word or phrase in {{.SourceLanguage}}, in its dictionary form,
  "target_text": its translation into {{.TargetLanguage}},
  "example_sentence": one natural example sentence in {{.SourceLanguage}} using the word,
  "example_translation": that sentence translated into {{.TargetLanguage}},
  "part_of_speech": the part of speech in English (for example "noun"), or omit the key if unclear
}`

// Generator implements generation.Generator using the Gemini API.
type Generator struct {
	logger         *slog.Logger
	config         config.LLMConfig
	promptTemplate *template.Template
	client         *genai.Client
}

// Ensure Generator implements the generation.Generator interface
var _ generation.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini-backed generator from the LLM
// configuration. Returns ErrInvalidConfig when required settings are
// missing or the client cannot be constructed.
func NewGenerator(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Generator, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}

	if cfg.ModelName == "" {
		return nil, fmt.Errorf("%w: model name cannot be empty", generation.ErrInvalidConfig)
	}

	promptTemplate, err := template.New("card").Parse(defaultPromptTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse prompt template: %v",
			generation.ErrInvalidConfig, err)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create Gemini client: %v",
			generation.ErrInvalidConfig, err)
	}

	return &Generator{
		logger:         logger,
		config:         cfg,
		promptTemplate: promptTemplate,
		client:         client,
	}, nil
}

// GenerateCard implements generation.Generator.
func (g *Generator) GenerateCard(
	ctx context.Context,
	sourceText, sourceLanguage, targetLanguage string,
) (*generation.CardContent, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, fmt.Errorf("%w: source text cannot be empty", generation.ErrInvalidResponse)
	}

	prompt, err := g.createPrompt(sourceText, sourceLanguage, targetLanguage)
	if err != nil {
		return nil, err
	}

	raw, err := g.callWithRetry(ctx, prompt)
	if err != nil {
		return nil, err
	}

	content, err := parseResponse(raw)
	if err != nil {
		g.logger.WarnContext(ctx, "model returned unusable card content",
			slog.String("source_text", sourceText),
			slog.String("error", err.Error()))
		return nil, err
	}

	// The model sometimes rewrites the headword; keep the learner's
	// input when the model leaves source_text empty.
	if content.SourceText == "" {
		content.SourceText = sourceText
	}

	return content, nil
}

// createPrompt renders the prompt template for one word.
func (g *Generator) createPrompt(sourceText, sourceLanguage, targetLanguage string) (string, error) {
	var buf bytes.Buffer
	err := g.promptTemplate.Execute(&buf, promptData{
		SourceText:     sourceText,
		SourceLanguage: sourceLanguage,
		TargetLanguage: targetLanguage,
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute prompt template: %v",
			generation.ErrGenerationFailed, err)
	}
	return buf.String(), nil
}

// callWithRetry calls the Gemini API with a bounded per-attempt timeout
// and a small fixed retry budget. Only transient failures are retried;
// blocked content and malformed responses return immediately.
func (g *Generator) callWithRetry(ctx context.Context, prompt string) (string, error) {
	maxRetries := g.config.MaxRetries
	baseDelay := time.Duration(g.config.RetryDelaySeconds) * time.Second
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff with jitter between attempts.
			delay := baseDelay<<(attempt-1) + time.Duration(rng.Int63n(int64(time.Second)))
			g.logger.InfoContext(ctx, "retrying Gemini call",
				slog.Int("attempt", attempt+1),
				slog.Duration("delay", delay))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", generation.ErrTransientFailure, ctx.Err())
			}
		}

		raw, err := g.callOnce(ctx, prompt)
		if err == nil {
			return raw, nil
		}

		if !isTransient(err) {
			return "", err
		}
		lastErr = err
	}

	return "", fmt.Errorf("%w: retries exhausted: %v", generation.ErrTransientFailure, lastErr)
}

// callOnce performs a single generation request under the configured timeout.
func (g *Generator) callOnce(ctx context.Context, prompt string) (string, error) {
	timeout := time.Duration(g.config.RequestTimeoutSeconds) * time.Second
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(
		callCtx,
		g.config.ModelName,
		genai.Text(prompt),
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", classifyAPIError(err)
	}

	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: %s", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("%w: empty response", generation.ErrInvalidResponse)
	}

	return text, nil
}

// classifyAPIError maps transport errors onto the generation taxonomy.
// Rate limits, server-side failures, and deadline expiry are transient;
// everything else is a hard generation failure.
func classifyAPIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
		}
		return fmt.Errorf("%w: %v", generation.ErrGenerationFailed, err)
	}

	// Unknown transport errors (connection resets and the like) are
	// worth one more attempt.
	return fmt.Errorf("%w: %v", generation.ErrTransientFailure, err)
}

// isTransient reports whether the classified error may be retried.
func isTransient(err error) bool {
	return errors.Is(err, generation.ErrTransientFailure)
}

// parseResponse decodes and validates the model's JSON payload.
// A payload missing any required field is ErrInvalidResponse; the caller
// must not retry it.
func parseResponse(raw string) (*generation.CardContent, error) {
	cleaned := stripCodeFences(raw)

	var schema responseSchema
	if err := json.Unmarshal([]byte(cleaned), &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}

	if strings.TrimSpace(schema.TargetText) == "" ||
		strings.TrimSpace(schema.ExampleSentence) == "" ||
		strings.TrimSpace(schema.ExampleTranslation) == "" {
		return nil, fmt.Errorf("%w: missing required fields", generation.ErrInvalidResponse)
	}

	return &generation.CardContent{
		SourceText:         strings.TrimSpace(schema.SourceText),
		TargetText:         strings.TrimSpace(schema.TargetText),
		ExampleSentence:    strings.TrimSpace(schema.ExampleSentence),
		ExampleTranslation: strings.TrimSpace(schema.ExampleTranslation),
		PartOfSpeech:       strings.TrimSpace(schema.PartOfSpeech),
	}, nil
}

// stripCodeFences removes a surrounding markdown code fence, which some
// models emit despite the JSON MIME type hint.
func stripCodeFences(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

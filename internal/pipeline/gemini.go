package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-processor/internal/config"
	"github.com/dvloznov/statement-processor/internal/logger"
)

var (
	// ErrNoCandidates is returned when Gemini answers without any candidate.
	ErrNoCandidates = errors.New("no candidates returned from Gemini")

	// ErrTruncatedResponse is returned when generation stopped at the output
	// token limit before producing any content.
	ErrTruncatedResponse = errors.New("Gemini response truncated at MAX_TOKENS")

	// ErrEmptyResponse is returned when the first candidate has no text.
	ErrEmptyResponse = errors.New("empty response from Gemini")
)

// GeminiClient wraps a genai client with the generation settings shared by
// extraction and insight calls.
type GeminiClient struct {
	client           *genai.Client
	model            string
	generation       genai.GenerateContentConfig
	tokenWarnAbove   int32
	extractionPrompt string
	insightsPrompt   string
	extractTimeout   time.Duration
	insightsTimeout  time.Duration
}

// NewGeminiClient creates a Gemini API client from cfg. Prompt files named in
// cfg are read once here; missing files fall back to the built-in prompts.
func NewGeminiClient(ctx context.Context, cfg *config.Config) (*GeminiClient, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("NewGeminiClient: %w", config.ErrMissingAPIKey)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			APIVersion: cfg.APIVersion,
			BaseURL:    cfg.GeminiBaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("NewGeminiClient: create genai client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModelName
	}
	warnAbove := cfg.TokenWarningThreshold
	if warnAbove <= 0 {
		warnAbove = DefaultTokenWarningThreshold
	}

	return &GeminiClient{
		client: client,
		model:  model,
		generation: genai.GenerateContentConfig{
			Temperature:      genai.Ptr(cfg.Temperature),
			TopK:             genai.Ptr(cfg.TopK),
			TopP:             genai.Ptr(cfg.TopP),
			MaxOutputTokens:  cfg.MaxOutputTokens,
			ResponseMIMEType: "application/json",
		},
		tokenWarnAbove:   warnAbove,
		extractionPrompt: loadPrompt(cfg.ExtractionPromptPath, defaultExtractionPrompt),
		insightsPrompt:   loadPrompt(cfg.InsightsPromptPath, defaultInsightsPrompt),
		extractTimeout:   cfg.ExtractionTimeout,
		insightsTimeout:  cfg.InsightsTimeout,
	}, nil
}

// Extractor returns a DocumentExtractor backed by this client.
func (c *GeminiClient) Extractor() *GeminiExtractor {
	return &GeminiExtractor{client: c}
}

// InsightGenerator returns an InsightGenerator backed by this client.
func (c *GeminiClient) InsightGenerator() *GeminiInsightGenerator {
	return &GeminiInsightGenerator{client: c}
}

// generate sends one user turn and returns the text of the first candidate.
func (c *GeminiClient) generate(ctx context.Context, timeout time.Duration, parts ...*genai.Part) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	log := logger.FromContext(ctx)
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}

	generation := c.generation
	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, &generation)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if usage := resp.UsageMetadata; usage != nil {
		log.Debug().Int32("total_tokens", usage.TotalTokenCount).Str("model", c.model).Msg("Gemini call finished")
		if usage.TotalTokenCount > c.tokenWarnAbove {
			log.Warn().
				Int32("total_tokens", usage.TotalTokenCount).
				Int32("threshold", c.tokenWarnAbove).
				Msg("High token usage; consider shorter prompts or pre-processing")
		}
	}

	if len(resp.Candidates) == 0 {
		return "", ErrNoCandidates
	}
	cand := resp.Candidates[0]
	if cand.FinishReason == genai.FinishReasonMaxTokens && (cand.Content == nil || len(cand.Content.Parts) == 0) {
		return "", ErrTruncatedResponse
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

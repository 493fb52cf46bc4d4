package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/dvloznov/statement-processor/internal/logger"
	"github.com/dvloznov/statement-processor/internal/statement"
)

// GeminiInsightGenerator asks Gemini for short observations about a
// validated statement.
type GeminiInsightGenerator struct {
	client *GeminiClient
}

// GenerateInsights returns the model's insights for rec. A reply that is not
// an {"insights": [...]} object is returned verbatim as a single insight.
func (g *GeminiInsightGenerator) GenerateInsights(ctx context.Context, rec *statement.StatementRecord) ([]string, error) {
	payload, err := json.Marshal(map[string]any{"fields": rec})
	if err != nil {
		return nil, fmt.Errorf("GeminiInsightGenerator: marshal record: %w", err)
	}

	text, err := g.client.generate(ctx, g.client.insightsTimeout,
		genai.NewPartFromText(g.client.insightsPrompt),
		genai.NewPartFromText(string(payload)),
	)
	if err != nil {
		return nil, fmt.Errorf("GeminiInsightGenerator: %w", err)
	}

	obj, err := decodeModelObject(text)
	if err == nil {
		if insights, ok := insightsOf(obj); ok {
			return insights, nil
		}
	}

	log := logger.FromContext(ctx)
	log.Debug().Str("raw", truncate(text, maxRawTextInWarning)).Msg("Insights reply was not an insights object; keeping raw text")
	return []string{text}, nil
}

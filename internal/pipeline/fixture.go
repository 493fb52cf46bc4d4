package pipeline

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/dvloznov/statement-processor/internal/statement"
)

//go:embed fixtures/canonical_statement.json
var canonicalStatementJSON []byte

type canonicalFixture struct {
	Fields   map[string]any `json:"fields"`
	Insights []string       `json:"insights"`
}

func loadCanonicalFixture() (canonicalFixture, error) {
	var f canonicalFixture
	if err := json.Unmarshal(canonicalStatementJSON, &f); err != nil {
		return f, fmt.Errorf("loadCanonicalFixture: %w", err)
	}
	return f, nil
}

// FixtureExtractor returns the canonical statement for every document
// without calling a model. Used by test mode.
type FixtureExtractor struct{}

func (FixtureExtractor) Extract(ctx context.Context, doc *Document) (Extraction, error) {
	f, err := loadCanonicalFixture()
	if err != nil {
		return Extraction{}, err
	}
	return Extraction{Fields: f.Fields, RawText: string(canonicalStatementJSON)}, nil
}

// FixtureInsightGenerator returns the canonical insights.
type FixtureInsightGenerator struct{}

func (FixtureInsightGenerator) GenerateInsights(ctx context.Context, rec *statement.StatementRecord) ([]string, error) {
	f, err := loadCanonicalFixture()
	if err != nil {
		return nil, err
	}
	return f.Insights, nil
}

package pipeline_test

import (
	"context"

	"github.com/dvloznov/statement-processor/internal/pipeline"
	"github.com/dvloznov/statement-processor/internal/statement"
)

// MockDocumentSource is a mock implementation of DocumentSource for testing.
type MockDocumentSource struct {
	FetchFunc func(ctx context.Context, ref string) ([]byte, error)
	calls     []string
}

func (m *MockDocumentSource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	m.calls = append(m.calls, ref)
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, ref)
	}
	return []byte("%PDF-1.4 mock"), nil
}

// MockExtractor is a mock implementation of DocumentExtractor for testing.
type MockExtractor struct {
	ExtractFunc func(ctx context.Context, doc *pipeline.Document) (pipeline.Extraction, error)
	calls       int
}

func (m *MockExtractor) Extract(ctx context.Context, doc *pipeline.Document) (pipeline.Extraction, error) {
	m.calls++
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, doc)
	}
	return pipeline.Extraction{ModelUsed: true, Fields: map[string]any{}}, nil
}

// MockInsightGenerator is a mock implementation of InsightGenerator for testing.
type MockInsightGenerator struct {
	GenerateInsightsFunc func(ctx context.Context, rec *statement.StatementRecord) ([]string, error)
	calls                int
}

func (m *MockInsightGenerator) GenerateInsights(ctx context.Context, rec *statement.StatementRecord) ([]string, error) {
	m.calls++
	if m.GenerateInsightsFunc != nil {
		return m.GenerateInsightsFunc(ctx, rec)
	}
	return []string{}, nil
}

var (
	_ pipeline.DocumentSource    = (*MockDocumentSource)(nil)
	_ pipeline.DocumentExtractor = (*MockExtractor)(nil)
	_ pipeline.InsightGenerator  = (*MockInsightGenerator)(nil)
)

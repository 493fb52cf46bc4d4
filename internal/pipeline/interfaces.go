package pipeline

import (
	"context"

	"github.com/dvloznov/statement-processor/internal/statement"
)

// DocumentSource loads the bytes of a statement by reference.
// storage.Service satisfies it.
type DocumentSource interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// Extraction is what a DocumentExtractor produced, even when it failed.
type Extraction struct {
	// Fields is the "fields" mapping of the model response, or nil.
	Fields map[string]any

	// RawText is the unparsed model response, kept for debugging when the
	// response was not valid JSON.
	RawText string

	// ModelUsed records whether a generative model was asked at all.
	ModelUsed bool
}

// DocumentExtractor turns a statement document into raw structured fields.
// This interface enables swapping the Gemini implementation for fixtures.
type DocumentExtractor interface {
	// Extract returns the extraction for doc. On error the returned
	// Extraction still carries whatever partial output exists.
	Extract(ctx context.Context, doc *Document) (Extraction, error)
}

// InsightGenerator produces human-readable observations for a validated record.
type InsightGenerator interface {
	// GenerateInsights returns the insights for rec. Transport and service
	// failures are returned as errors; the caller decides the fallback.
	GenerateInsights(ctx context.Context, rec *statement.StatementRecord) ([]string, error)
}

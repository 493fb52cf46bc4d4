package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dvloznov/statement-processor/internal/logger"
	"github.com/dvloznov/statement-processor/internal/statement"
)

// ErrEmptySource is returned by Process when no statement reference is given.
var ErrEmptySource = errors.New("statement source must not be empty")

// Processor turns one statement document into an output record.
type Processor struct {
	pipeline *Pipeline
}

// NewProcessor wires the production pipeline around the given collaborators.
func NewProcessor(src DocumentSource, ext DocumentExtractor, gen InsightGenerator) *Processor {
	return &Processor{pipeline: NewStatementPipeline(src, ext, gen)}
}

// NewFixtureProcessor returns a processor that never reads the document or
// calls a model. Every run yields the canonical statement.
func NewFixtureProcessor() *Processor {
	return &Processor{pipeline: NewFixturePipeline()}
}

// Result is the outcome of one run.
type Result struct {
	RunID  string
	Source string
	Output *statement.Output
}

// Process runs the pipeline for ref (a local path or gs:// URI).
//
// Collaborator failures never fail the run: they surface as quality
// warnings or an empty insights list. An error is returned only for an
// empty ref or a cancelled context.
func (p *Processor) Process(ctx context.Context, ref string) (*Result, error) {
	if ref == "" {
		return nil, ErrEmptySource
	}

	runID := uuid.NewString()
	log := logger.WithRun(logger.FromContext(ctx), runID, ref)
	ctx = logger.WithContext(ctx, log)

	start := time.Now()
	log.Info().Msg("Processing statement")

	state := &PipelineState{RunID: runID, Source: ref}
	if err := p.pipeline.Execute(ctx, state); err != nil {
		return nil, fmt.Errorf("Process: %w", err)
	}

	out := &statement.Output{
		Fields:   state.Record,
		Insights: state.Insights,
		Quality:  state.Quality,
	}

	log.Info().
		Int("transactions", len(out.Fields.Transactions)).
		Int("warnings", len(out.Quality.Warnings)).
		Bool("gemini_extraction_used", out.Quality.GeminiExtractionUsed).
		Dur("elapsed", time.Since(start)).
		Msg("Statement processed")

	return &Result{RunID: runID, Source: ref, Output: out}, nil
}

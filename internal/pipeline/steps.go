package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvloznov/statement-processor/internal/logger"
	"github.com/dvloznov/statement-processor/internal/statement"
)

// PipelineStep represents a single step in statement processing.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	RunID  string
	Source string

	Document   *Document
	Extraction Extraction
	Record     *statement.StatementRecord
	Balance    statement.BalanceCheck
	Insights   []string
	Quality    statement.QualityReport

	// Issues collects non-fatal problems in the order they were found.
	// They end up as quality warnings.
	Issues []error
}

func (s *PipelineState) addIssue(err error) {
	s.Issues = append(s.Issues, err)
}

// Step 1: FetchDocumentStep loads the statement bytes.
type FetchDocumentStep struct {
	Source DocumentSource
}

func (s *FetchDocumentStep) Execute(ctx context.Context, state *PipelineState) error {
	if _, err := DetectMIMEType(state.Source); err != nil {
		state.addIssue(&statement.ExtractionError{Err: err})
		return nil
	}

	data, err := s.Source.Fetch(ctx, state.Source)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		state.addIssue(&statement.ExtractionError{Err: err})
		return nil
	}

	doc, err := NewDocument(state.Source, data)
	if err != nil {
		state.addIssue(&statement.ExtractionError{Err: err})
		return nil
	}
	state.Document = doc
	log := logger.FromContext(ctx)
	log.Debug().Str("mime_type", doc.MIMEType).Int("bytes", len(doc.Data)).Msg("Document loaded")
	return nil
}

// Step 2: ExtractStep asks the extractor for raw fields. It is skipped when
// no document could be loaded and the extractor needs one.
type ExtractStep struct {
	Extractor       DocumentExtractor
	RequireDocument bool
}

func (s *ExtractStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.RequireDocument && state.Document == nil {
		return nil
	}

	ext, err := s.Extractor.Extract(ctx, state.Document)
	state.Extraction = ext
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("Extraction failed")
		state.Extraction.Fields = nil

		// A response whose "fields" is not an object is a shape problem,
		// not a failed call.
		var se *statement.StructureError
		if errors.As(err, &se) {
			state.addIssue(se)
			return nil
		}

		if errors.Is(err, ErrMalformedResponse) && ext.RawText != "" {
			err = fmt.Errorf("%w (raw response: %s)", err, truncate(ext.RawText, maxRawTextInWarning))
		}
		state.addIssue(&statement.ExtractionError{Err: err})
	}
	return nil
}

// Step 3: NormalizeStep decodes the raw fields into a typed record and masks
// the account number.
type NormalizeStep struct{}

func (s *NormalizeStep) Execute(ctx context.Context, state *PipelineState) error {
	rec, issues := statement.DecodeFields(state.Extraction.Fields)
	statement.MaskAccountInfo(&rec.AccountInfo)
	state.Record = rec
	state.Issues = append(state.Issues, issues...)

	if len(issues) > 0 {
		log := logger.FromContext(ctx)
		log.Debug().Int("issues", len(issues)).Msg("Fields decoded with problems")
	}
	return nil
}

// Step 4: ValidateStep reconciles opening and closing balances.
type ValidateStep struct{}

func (s *ValidateStep) Execute(ctx context.Context, state *PipelineState) error {
	if state.Record == nil {
		state.Record = statement.NewStatementRecord()
	}
	state.Balance = statement.ValidateBalances(&state.Record.Summary)
	if state.Balance.Mismatch {
		log := logger.FromContext(ctx)
		log.Warn().
			Str("expected_closing", state.Balance.Expected.StringFixed(2)).
			Str("difference", state.Balance.Difference.StringFixed(2)).
			Msg("Closing balance does not reconcile")
	}
	return nil
}

// Step 5: EnrichStep asks for insights. Failures leave the insights empty.
type EnrichStep struct {
	Generator InsightGenerator
}

func (s *EnrichStep) Execute(ctx context.Context, state *PipelineState) error {
	insights, err := s.Generator.GenerateInsights(ctx, state.Record)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Msg("Insight generation failed")
		insights = nil
	}
	if insights == nil {
		insights = []string{}
	}
	state.Insights = insights
	return nil
}

// Step 6: ScoreStep builds the quality report.
type ScoreStep struct{}

func (s *ScoreStep) Execute(ctx context.Context, state *PipelineState) error {
	state.Quality = statement.ScoreQuality(state.Record, state.Issues, state.Extraction.ModelUsed)
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewStatementPipeline creates the standard six-step pipeline.
func NewStatementPipeline(src DocumentSource, ext DocumentExtractor, gen InsightGenerator) *Pipeline {
	return NewPipeline(
		&FetchDocumentStep{Source: src},
		&ExtractStep{Extractor: ext, RequireDocument: true},
		&NormalizeStep{},
		&ValidateStep{},
		&EnrichStep{Generator: gen},
		&ScoreStep{},
	)
}

// NewFixturePipeline replaces fetching and extraction with the canonical
// fixture; the record still goes through every post-processing step.
func NewFixturePipeline() *Pipeline {
	return NewPipeline(
		&ExtractStep{Extractor: FixtureExtractor{}},
		&NormalizeStep{},
		&ValidateStep{},
		&EnrichStep{Generator: FixtureInsightGenerator{}},
		&ScoreStep{},
	)
}

package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/option"

	"github.com/dvloznov/statement-processor/internal/logger"
)

// ReportRepository writes statement reports to BigQuery. It holds one
// client for its lifetime; call Close when done.
type ReportRepository struct {
	client  *bigquery.Client
	dataset string
	table   string
}

// NewReportRepository creates a repository writing to project.dataset.table.
// An empty table means DefaultReportsTable.
func NewReportRepository(ctx context.Context, project, dataset, table string, opts ...option.ClientOption) (*ReportRepository, error) {
	if project == "" {
		return nil, fmt.Errorf("NewReportRepository: project must not be empty")
	}
	if dataset == "" {
		return nil, fmt.Errorf("NewReportRepository: dataset must not be empty")
	}
	if table == "" {
		table = DefaultReportsTable
	}

	client, err := bigquery.NewClient(ctx, project, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewReportRepository: creating client: %w", err)
	}
	return &ReportRepository{client: client, dataset: dataset, table: table}, nil
}

// Close closes the BigQuery client connection.
func (r *ReportRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// EnsureTable creates the reports table when it does not exist yet.
func (r *ReportRepository) EnsureTable(ctx context.Context) error {
	q := r.client.Query(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS `+"`%s.%s.%s`"+` (
			report_id              STRING NOT NULL,
			run_id                 STRING NOT NULL,
			source_uri             STRING NOT NULL,
			bank_name              STRING,
			statement_month        STRING,
			statement_year         STRING,
			transaction_count      INT64 NOT NULL,
			balance_mismatch       BOOL NOT NULL,
			warning_count          INT64 NOT NULL,
			gemini_extraction_used BOOL NOT NULL,
			report_json            JSON NOT NULL,
			created_ts             TIMESTAMP NOT NULL
		)
	`, r.client.Project(), r.dataset, r.table))

	if err := runQuery(ctx, q); err != nil {
		return fmt.Errorf("EnsureTable: %w", err)
	}
	return nil
}

// InsertReport inserts row using DML INSERT, so the row is queryable
// immediately instead of sitting in the streaming buffer.
func (r *ReportRepository) InsertReport(ctx context.Context, row *ReportRow) error {
	log := logger.FromContext(ctx)

	q := r.client.Query(fmt.Sprintf(`
		INSERT INTO `+"`%s.%s.%s`"+` (
			report_id, run_id, source_uri,
			bank_name, statement_month, statement_year,
			transaction_count, balance_mismatch, warning_count,
			gemini_extraction_used, report_json, created_ts
		)
		VALUES (
			@report_id, @run_id, @source_uri,
			@bank_name, @statement_month, @statement_year,
			@transaction_count, @balance_mismatch, @warning_count,
			@gemini_extraction_used, PARSE_JSON(@report_json), @created_ts
		)
	`, r.client.Project(), r.dataset, r.table))

	q.Parameters = []bigquery.QueryParameter{
		{Name: "report_id", Value: row.ReportID},
		{Name: "run_id", Value: row.RunID},
		{Name: "source_uri", Value: row.SourceURI},
		{Name: "bank_name", Value: row.BankName},
		{Name: "statement_month", Value: row.StatementMonth},
		{Name: "statement_year", Value: row.StatementYear},
		{Name: "transaction_count", Value: row.TransactionCount},
		{Name: "balance_mismatch", Value: row.BalanceMismatch},
		{Name: "warning_count", Value: row.WarningCount},
		{Name: "gemini_extraction_used", Value: row.GeminiExtractionUsed},
		{Name: "report_json", Value: row.ReportJSON.JSONVal},
		{Name: "created_ts", Value: row.CreatedTS},
	}

	if err := runQuery(ctx, q); err != nil {
		return fmt.Errorf("InsertReport: %w", err)
	}

	log.Info().
		Str("report_id", row.ReportID).
		Str("table", r.dataset+"."+r.table).
		Msg("Statement report stored")
	return nil
}

func runQuery(ctx context.Context, q *bigquery.Query) error {
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("running query: %w", err)
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("waiting for job: %w", err)
	}
	if err := status.Err(); err != nil {
		return fmt.Errorf("job error: %w", err)
	}
	return nil
}

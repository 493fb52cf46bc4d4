package bigquery

import (
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"

	"github.com/dvloznov/statement-processor/internal/statement"
)

// DefaultReportsTable is the table processed statements are written to.
const DefaultReportsTable = "statement_reports"

// ReportRow is one processed statement in finance.statement_reports.
type ReportRow struct {
	ReportID  string `bigquery:"report_id"`  // REQUIRED
	RunID     string `bigquery:"run_id"`     // REQUIRED
	SourceURI string `bigquery:"source_uri"` // REQUIRED

	BankName       bigquery.NullString `bigquery:"bank_name"`
	StatementMonth bigquery.NullString `bigquery:"statement_month"`
	StatementYear  bigquery.NullString `bigquery:"statement_year"`

	TransactionCount     int64 `bigquery:"transaction_count"`
	BalanceMismatch      bool  `bigquery:"balance_mismatch"`
	WarningCount         int64 `bigquery:"warning_count"`
	GeminiExtractionUsed bool  `bigquery:"gemini_extraction_used"`

	ReportJSON bigquery.NullJSON `bigquery:"report_json"` // REQUIRED (JSON)
	CreatedTS  time.Time         `bigquery:"created_ts"`
}

// NewReportRow flattens out into a row. The full output record is kept
// verbatim in report_json.
func NewReportRow(runID, sourceURI string, out *statement.Output) (*ReportRow, error) {
	if out == nil || out.Fields == nil {
		return nil, fmt.Errorf("NewReportRow: output has no fields")
	}

	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("NewReportRow: marshal output: %w", err)
	}

	info := out.Fields.AccountInfo
	mismatch := out.Fields.Summary.BalanceMismatchWarning

	return &ReportRow{
		ReportID:             uuid.NewString(),
		RunID:                runID,
		SourceURI:            sourceURI,
		BankName:             nullString(info.BankName),
		StatementMonth:       nullString(info.StatementMonth),
		StatementYear:        nullString(info.StatementYear),
		TransactionCount:     int64(len(out.Fields.Transactions)),
		BalanceMismatch:      mismatch != nil && *mismatch,
		WarningCount:         int64(len(out.Quality.Warnings)),
		GeminiExtractionUsed: out.Quality.GeminiExtractionUsed,
		ReportJSON:           bigquery.NullJSON{JSONVal: string(raw), Valid: true},
		CreatedTS:            time.Now().UTC(),
	}, nil
}

func nullString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: s != ""}
}

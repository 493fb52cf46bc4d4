package statement

import "errors"

// Quality warnings with fixed wording; callers match on them.
const (
	WarningNoTransactions      = "No transactions extracted."
	WarningUnexpectedStructure = "Unexpected JSON structure from Gemini."
)

// ScoreQuality builds the quality report for one run.
//
// issues are the problems collected by earlier stages, in order. A
// structural problem with the fields mapping or the transactions section
// itself replaces the empty-transactions warning. An *ExtractionError is
// reported as "Extraction failed: <cause>"; every other issue by its text.
//
// DuplicatesDetected is always false. Duplicate detection (for example on
// date+amount+description) is not implemented; the field is kept so
// consumers can rely on it being present.
func ScoreQuality(rec *StatementRecord, issues []error, modelUsed bool) QualityReport {
	q := QualityReport{
		Warnings:             []string{},
		GeminiExtractionUsed: modelUsed,
	}

	var other []string
	unreadable := false
	for _, err := range issues {
		if err == nil {
			continue
		}
		var se *StructureError
		if errors.As(err, &se) && (se.Path == KeyTransactions || se.Path == KeyFields) {
			unreadable = true
			continue
		}
		var ee *ExtractionError
		if errors.As(err, &ee) {
			other = append(other, "Extraction failed: "+ee.Err.Error())
			continue
		}
		other = append(other, err.Error())
	}

	switch {
	case unreadable:
		q.Warnings = append(q.Warnings, WarningUnexpectedStructure)
	case rec == nil || len(rec.Transactions) == 0:
		q.Warnings = append(q.Warnings, WarningNoTransactions)
	}
	q.Warnings = append(q.Warnings, other...)

	return q
}

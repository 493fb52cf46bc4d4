package statement

// AccountInfo is the statement header as returned by the extractor.
// All fields are optional; an absent field is not an error.
type AccountInfo struct {
	BankName            string `json:"bank_name,omitempty"`
	AccountHolderName   string `json:"account_holder_name,omitempty"`
	MaskedAccountNumber string `json:"masked_account_number,omitempty"`
	StatementMonth      string `json:"statement_month,omitempty"`
	StatementYear       string `json:"statement_year,omitempty"`
	AccountType         string `json:"account_type,omitempty"`

	// AccountNumber is the raw, unmasked identifier. It lives only until
	// MaskAccountInfo runs and is never serialized.
	AccountNumber *string `json:"-"`
}

// Summary holds the statement totals. Amounts are nil when the extractor
// omitted them or returned something that could not be parsed.
type Summary struct {
	OpeningBalance      *float64 `json:"opening_balance"`
	ClosingBalance      *float64 `json:"closing_balance"`
	TotalCredits        *float64 `json:"total_credits"`
	TotalDebits         *float64 `json:"total_debits"`
	AverageDailyBalance *float64 `json:"average_daily_balance"`
	OverdraftCount      int      `json:"overdraft_count"`
	NSFCount            int      `json:"nsf_count"`

	// BalanceMismatchWarning is only ever set to true; it stays nil (and
	// absent from JSON) when balances reconcile or cannot be checked.
	BalanceMismatchWarning *bool `json:"balance_mismatch_warning,omitempty"`
}

// Transaction is one statement line.
type Transaction struct {
	Date        string   `json:"date"` // YYYY-MM-DD expected, not validated
	Description string   `json:"description"`
	Amount      float64  `json:"amount"` // IN = positive, OUT = negative
	Balance     *float64 `json:"balance"`
	Category    string   `json:"category"`
}

// StatementRecord is the structured representation of one bank statement.
type StatementRecord struct {
	AccountInfo  AccountInfo   `json:"account_info"`
	Summary      Summary       `json:"summary"`
	Transactions []Transaction `json:"transactions"`
}

// QualityReport describes how reliable an extraction was. It is derived
// per run and never fed back into the record.
type QualityReport struct {
	OCRConfidence        *float64 `json:"ocr_confidence"`
	Warnings             []string `json:"warnings"`
	DuplicatesDetected   bool     `json:"duplicates_detected"`
	GeminiExtractionUsed bool     `json:"gemini_extraction_used"`
}

// Output is the final record handed to callers for persistence.
type Output struct {
	Fields   *StatementRecord `json:"fields"`
	Insights []string         `json:"insights"`
	Quality  QualityReport    `json:"quality"`
}

// NewStatementRecord returns an empty record whose slices serialize as [].
func NewStatementRecord() *StatementRecord {
	return &StatementRecord{Transactions: []Transaction{}}
}

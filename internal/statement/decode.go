package statement

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// KeyFields is the key of the record inside an extractor response.
const KeyFields = "fields"

// Top-level keys of the extracted fields mapping.
const (
	KeyAccountInfo  = "account_info"
	KeySummary      = "summary"
	KeyTransactions = "transactions"
)

// maxCount bounds overdraft and NSF counts so the int conversion is exact
// on every platform.
const maxCount = math.MaxInt32

// summaryAmountKeys are the summary fields run through NormalizeAmount.
var summaryAmountKeys = []string{
	"opening_balance",
	"closing_balance",
	"total_credits",
	"total_debits",
	"average_daily_balance",
}

// DecodeFields converts the loosely typed "fields" mapping returned by an
// extractor into a StatementRecord.
//
// It never fails outright: sections with the wrong JSON type are skipped and
// reported as *StructureError values so the caller can surface them as
// quality warnings. A nil mapping decodes to an empty record.
func DecodeFields(raw map[string]any) (*StatementRecord, []error) {
	rec := NewStatementRecord()
	var issues []error

	if info, ok, err := section(raw, KeyAccountInfo); err != nil {
		issues = append(issues, err)
	} else if ok {
		issues = append(issues, decodeAccountInfo(info, &rec.AccountInfo)...)
	}

	if sum, ok, err := section(raw, KeySummary); err != nil {
		issues = append(issues, err)
	} else if ok {
		issues = append(issues, decodeSummary(sum, &rec.Summary)...)
	}

	txs, txIssues := decodeTransactions(raw[KeyTransactions])
	rec.Transactions = txs
	issues = append(issues, txIssues...)

	return rec, issues
}

// section returns raw[key] as a mapping. Absent or null sections are not
// an error.
func section(raw map[string]any, key string) (map[string]any, bool, error) {
	v, ok := raw[key]
	if !ok || v == nil {
		return nil, false, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false, structureErr(key, "is %T, want object", v)
	}
	return m, true, nil
}

func decodeAccountInfo(m map[string]any, info *AccountInfo) []error {
	var issues []error

	fields := []struct {
		key string
		dst *string
	}{
		{"bank_name", &info.BankName},
		{"account_holder_name", &info.AccountHolderName},
		{"masked_account_number", &info.MaskedAccountNumber},
		{"statement_month", &info.StatementMonth},
		{"statement_year", &info.StatementYear},
		{"account_type", &info.AccountType},
	}
	for _, f := range fields {
		s, err := optionalString(m, f.key)
		if err != nil {
			issues = append(issues, &StructureError{Path: KeyAccountInfo + "." + f.key, Err: err})
			continue
		}
		if s != nil {
			*f.dst = *s
		}
	}

	// A raw account number is kept even when empty: its presence alone
	// means the masker must run.
	if _, ok := m["account_number"]; ok {
		s, err := optionalString(m, "account_number")
		if err != nil {
			issues = append(issues, &StructureError{Path: KeyAccountInfo + ".account_number", Err: err})
			s = nil
		}
		if s == nil {
			empty := ""
			s = &empty
		}
		info.AccountNumber = s
	}

	return issues
}

func decodeSummary(m map[string]any, sum *Summary) []error {
	var issues []error

	targets := map[string]**float64{
		"opening_balance":       &sum.OpeningBalance,
		"closing_balance":       &sum.ClosingBalance,
		"total_credits":         &sum.TotalCredits,
		"total_debits":          &sum.TotalDebits,
		"average_daily_balance": &sum.AverageDailyBalance,
	}
	for _, key := range summaryAmountKeys {
		v, ok := m[key]
		if !ok {
			continue
		}
		f, err := NormalizeAmount(v)
		if err != nil {
			issues = append(issues, &StructureError{Path: KeySummary + "." + key, Err: err})
			continue
		}
		*targets[key] = f
	}

	for _, c := range []struct {
		key string
		dst *int
	}{
		{"overdraft_count", &sum.OverdraftCount},
		{"nsf_count", &sum.NSFCount},
	} {
		n, err := optionalCount(m, c.key)
		if err != nil {
			issues = append(issues, &StructureError{Path: KeySummary + "." + c.key, Err: err})
			continue
		}
		*c.dst = n
	}

	return issues
}

func decodeTransactions(v any) ([]Transaction, []error) {
	txs := []Transaction{}
	if v == nil {
		return txs, nil
	}

	items, ok := v.([]any)
	if !ok {
		return txs, []error{structureErr(KeyTransactions, "is %T, want array", v)}
	}

	var issues []error
	for i, item := range items {
		path := fmt.Sprintf("%s[%d]", KeyTransactions, i)

		obj, ok := item.(map[string]any)
		if !ok {
			issues = append(issues, structureErr(path, "is %T, want object", item))
			continue
		}

		var tx Transaction
		for _, f := range []struct {
			key string
			dst *string
		}{
			{"date", &tx.Date},
			{"description", &tx.Description},
			{"category", &tx.Category},
		} {
			s, err := optionalString(obj, f.key)
			if err != nil {
				issues = append(issues, &StructureError{Path: path + "." + f.key, Err: err})
				continue
			}
			if s != nil {
				*f.dst = *s
			}
		}

		amount, err := NormalizeAmount(obj["amount"])
		switch {
		case err != nil:
			issues = append(issues, &StructureError{Path: path + ".amount", Err: err})
		case amount == nil:
			issues = append(issues, structureErr(path+".amount", "missing or unparseable"))
		default:
			tx.Amount = *amount
		}

		balance, err := NormalizeAmount(obj["balance"])
		if err != nil {
			issues = append(issues, &StructureError{Path: path + ".balance", Err: err})
		} else {
			tx.Balance = balance
		}

		txs = append(txs, tx)
	}

	return txs, issues
}

// optionalString reads a string-like field. Numbers are formatted without
// a trailing ".0" so a statement_year of 2025 reads back as "2025".
func optionalString(m map[string]any, key string) (*string, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		return &s, nil
	case float64:
		s := strconv.FormatFloat(val, 'f', -1, 64)
		return &s, nil
	case int:
		s := strconv.Itoa(val)
		return &s, nil
	default:
		return nil, fmt.Errorf("%w: field %q has type %T, want string", ErrUnexpectedStructure, key, v)
	}
}

func optionalCount(m map[string]any, key string) (int, error) {
	v, ok := m[key]
	if !ok || v == nil {
		return 0, nil
	}
	f, err := NormalizeAmount(v)
	if err != nil {
		return 0, err
	}
	if f == nil {
		return 0, nil
	}
	n := *f
	switch {
	case n < 0:
		return 0, fmt.Errorf("%w: count %q is negative (%v)", ErrUnexpectedStructure, key, n)
	case n != math.Trunc(n):
		return 0, fmt.Errorf("%w: count %q is not a whole number (%v)", ErrUnexpectedStructure, key, n)
	case n > maxCount:
		return 0, fmt.Errorf("%w: count %q is out of range (%v)", ErrUnexpectedStructure, key, n)
	}
	return int(n), nil
}

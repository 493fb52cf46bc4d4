package statement

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFields_FullRecord(t *testing.T) {
	raw := map[string]any{
		"account_info": map[string]any{
			"bank_name":           "HDFC Bank",
			"account_holder_name": "BARATH R",
			"account_number":      "5010-0098-7712-3456",
			"statement_month":     "October",
			"statement_year":      2025.0,
			"account_type":        "savings",
		},
		"summary": map[string]any{
			"opening_balance": "₹15,000.00",
			"closing_balance": 17350.0,
			"total_credits":   "9,000",
			"total_debits":    "6650",
			"overdraft_count": 1.0,
			"nsf_count":       "2",
		},
		"transactions": []any{
			map[string]any{"date": "2025-10-01", "description": "Salary UPI", "amount": 9000.0, "balance": 24000.0, "category": "Income"},
			map[string]any{"date": "2025-10-03", "description": "ATM Withdrawal", "amount": "-2,000", "balance": nil, "category": "ATM Cash"},
		},
	}

	rec, issues := DecodeFields(raw)

	require.Empty(t, issues)
	assert.Equal(t, "HDFC Bank", rec.AccountInfo.BankName)
	assert.Equal(t, "2025", rec.AccountInfo.StatementYear)
	require.NotNil(t, rec.AccountInfo.AccountNumber)
	assert.Equal(t, "5010-0098-7712-3456", *rec.AccountInfo.AccountNumber)

	require.NotNil(t, rec.Summary.OpeningBalance)
	assert.Equal(t, 15000.0, *rec.Summary.OpeningBalance)
	assert.Equal(t, 9000.0, *rec.Summary.TotalCredits)
	assert.Equal(t, 6650.0, *rec.Summary.TotalDebits)
	assert.Nil(t, rec.Summary.AverageDailyBalance)
	assert.Equal(t, 1, rec.Summary.OverdraftCount)
	assert.Equal(t, 2, rec.Summary.NSFCount)

	require.Len(t, rec.Transactions, 2)
	assert.Equal(t, -2000.0, rec.Transactions[1].Amount)
	assert.Nil(t, rec.Transactions[1].Balance)
	require.NotNil(t, rec.Transactions[0].Balance)
	assert.Equal(t, 24000.0, *rec.Transactions[0].Balance)
}

func TestDecodeFields_NilIsEmptyRecord(t *testing.T) {
	rec, issues := DecodeFields(nil)

	assert.Empty(t, issues)
	require.NotNil(t, rec)
	assert.NotNil(t, rec.Transactions)
	assert.Empty(t, rec.Transactions)
	assert.Nil(t, rec.AccountInfo.AccountNumber)
}

func TestDecodeFields_UnparseableAmountBecomesNil(t *testing.T) {
	rec, issues := DecodeFields(map[string]any{
		"summary": map[string]any{"opening_balance": "n/a", "closing_balance": "100"},
	})

	assert.Empty(t, issues)
	assert.Nil(t, rec.Summary.OpeningBalance)
	require.NotNil(t, rec.Summary.ClosingBalance)
	assert.Equal(t, 100.0, *rec.Summary.ClosingBalance)
}

func TestDecodeFields_StructuralProblems(t *testing.T) {
	rec, issues := DecodeFields(map[string]any{
		"account_info": "HDFC",
		"summary":      map[string]any{"opening_balance": true},
		"transactions": map[string]any{"0": "x"},
	})

	require.Len(t, issues, 3)
	assert.Empty(t, rec.Transactions)

	paths := make([]string, 0, len(issues))
	for _, err := range issues {
		var se *StructureError
		require.True(t, errors.As(err, &se), "issue %v is not a StructureError", err)
		paths = append(paths, se.Path)
	}
	assert.Equal(t, []string{"account_info", "summary.opening_balance", "transactions"}, paths)

	assert.ErrorIs(t, issues[0], ErrUnexpectedStructure)
	assert.ErrorIs(t, issues[1], ErrUnsupportedAmount)
	assert.ErrorIs(t, issues[2], ErrUnexpectedStructure)
}

func TestDecodeFields_InvalidCounts(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"fractional", "overdraft_count", 1.7},
		{"negative", "nsf_count", -1.0},
		{"negative string", "nsf_count", "-3"},
		{"too large", "nsf_count", 1e12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, issues := DecodeFields(map[string]any{
				"summary": map[string]any{tt.key: tt.value},
			})

			require.Len(t, issues, 1)
			var se *StructureError
			require.True(t, errors.As(issues[0], &se), "issue %v is not a StructureError", issues[0])
			assert.Equal(t, KeySummary+"."+tt.key, se.Path)
			assert.ErrorIs(t, issues[0], ErrUnexpectedStructure)
			assert.Zero(t, rec.Summary.OverdraftCount)
			assert.Zero(t, rec.Summary.NSFCount)
		})
	}
}

func TestDecodeFields_BadTransactionEntriesAreSkipped(t *testing.T) {
	rec, issues := DecodeFields(map[string]any{
		"transactions": []any{
			"not an object",
			map[string]any{"date": "2025-10-12", "description": "Swiggy", "amount": -350.0, "category": "Food"},
		},
	})

	require.Len(t, rec.Transactions, 1)
	assert.Equal(t, "Swiggy", rec.Transactions[0].Description)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Error(), "transactions[0]")
}

func TestDecodeFields_EmptyAccountNumberStillMasks(t *testing.T) {
	rec, _ := DecodeFields(map[string]any{
		"account_info": map[string]any{"account_number": nil},
	})

	require.NotNil(t, rec.AccountInfo.AccountNumber)
	MaskAccountInfo(&rec.AccountInfo)
	assert.Equal(t, "****", rec.AccountInfo.MaskedAccountNumber)
}

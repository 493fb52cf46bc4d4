package statement

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBalances(t *testing.T) {
	tests := []struct {
		name         string
		summary      Summary
		wantChecked  bool
		wantMismatch bool
	}{
		{
			name:        "reconciles exactly",
			summary:     Summary{OpeningBalance: ptr(15000), TotalCredits: ptr(9000), TotalDebits: ptr(6650), ClosingBalance: ptr(17350)},
			wantChecked: true,
		},
		{
			name:         "off by ten",
			summary:      Summary{OpeningBalance: ptr(15000), TotalCredits: ptr(9000), TotalDebits: ptr(6650), ClosingBalance: ptr(17360)},
			wantChecked:  true,
			wantMismatch: true,
		},
		{
			name:        "exactly at tolerance",
			summary:     Summary{OpeningBalance: ptr(100), TotalCredits: ptr(0), TotalDebits: ptr(0), ClosingBalance: ptr(105)},
			wantChecked: true,
		},
		{
			name:         "just over tolerance",
			summary:      Summary{OpeningBalance: ptr(100), ClosingBalance: ptr(105.01)},
			wantChecked:  true,
			wantMismatch: true,
		},
		{
			name:        "missing credits and debits default to zero",
			summary:     Summary{OpeningBalance: ptr(500), ClosingBalance: ptr(502.5)},
			wantChecked: true,
		},
		{
			name:    "missing opening",
			summary: Summary{ClosingBalance: ptr(17360), TotalCredits: ptr(9000)},
		},
		{
			name:    "missing closing",
			summary: Summary{OpeningBalance: ptr(15000), TotalDebits: ptr(10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.summary
			check := ValidateBalances(&s)

			assert.Equal(t, tt.wantChecked, check.Checked)
			assert.Equal(t, tt.wantMismatch, check.Mismatch)
			if tt.wantMismatch {
				require.NotNil(t, s.BalanceMismatchWarning)
				assert.True(t, *s.BalanceMismatchWarning)
			} else {
				assert.Nil(t, s.BalanceMismatchWarning)
			}
		})
	}
}

func TestValidateBalances_DifferenceIsReported(t *testing.T) {
	s := Summary{OpeningBalance: ptr(15000), TotalCredits: ptr(9000), TotalDebits: ptr(6650), ClosingBalance: ptr(17360)}

	check := ValidateBalances(&s)

	assert.Equal(t, "17350", check.Expected.String())
	assert.Equal(t, "10", check.Difference.String())
}

func TestValidateBalances_FlagAbsentFromJSONWhenConsistent(t *testing.T) {
	s := Summary{OpeningBalance: ptr(15000), TotalCredits: ptr(9000), TotalDebits: ptr(6650), ClosingBalance: ptr(17350)}
	ValidateBalances(&s)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "balance_mismatch_warning")
}

func TestValidateBalances_NilSummary(t *testing.T) {
	assert.False(t, ValidateBalances(nil).Checked)
}

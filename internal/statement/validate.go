package statement

import "github.com/shopspring/decimal"

// BalanceTolerance is the largest closing-balance discrepancy, in statement
// currency units, that is still treated as consistent.
const BalanceTolerance = 5.0

var tolerance = decimal.NewFromFloat(BalanceTolerance)

// BalanceCheck is the outcome of reconciling a summary.
type BalanceCheck struct {
	// Checked is false when opening or closing balance is unknown.
	Checked    bool
	Expected   decimal.Decimal
	Difference decimal.Decimal
	Mismatch   bool
}

// CheckBalances computes opening + credits - debits and compares it with
// the stated closing balance. Missing credits or debits count as zero.
func CheckBalances(s Summary) BalanceCheck {
	if s.OpeningBalance == nil || s.ClosingBalance == nil {
		return BalanceCheck{}
	}

	expected := decimal.NewFromFloat(*s.OpeningBalance).
		Add(decimalOrZero(s.TotalCredits)).
		Sub(decimalOrZero(s.TotalDebits))
	diff := decimal.NewFromFloat(*s.ClosingBalance).Sub(expected).Abs()

	return BalanceCheck{
		Checked:    true,
		Expected:   expected,
		Difference: diff,
		Mismatch:   diff.GreaterThan(tolerance),
	}
}

// ValidateBalances flags s when its balances do not reconcile. It only ever
// adds the warning; a consistent or uncheckable summary is left untouched.
func ValidateBalances(s *Summary) BalanceCheck {
	if s == nil {
		return BalanceCheck{}
	}
	check := CheckBalances(*s)
	if check.Mismatch {
		flag := true
		s.BalanceMismatchWarning = &flag
	}
	return check
}

func decimalOrZero(f *float64) decimal.Decimal {
	if f == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*f)
}

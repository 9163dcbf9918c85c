// Package cashcount totals a physical cash count and compares it with the
// balance the books expect.
package cashcount

import (
	"github.com/shopspring/decimal"

	"github.com/Mshaban73/Cashier/internal/domain"
)

// Denominations is the fixed set of note and coin values, largest first.
var Denominations = []decimal.Decimal{
	decimal.NewFromInt(200),
	decimal.NewFromInt(100),
	decimal.NewFromInt(50),
	decimal.NewFromInt(20),
	decimal.NewFromInt(10),
	decimal.NewFromInt(5),
	decimal.NewFromInt(1),
	decimal.RequireFromString("0.5"),
}

// IsDenomination reports whether value belongs to the fixed set.
func IsDenomination(value decimal.Decimal) bool {
	for _, d := range Denominations {
		if d.Equal(value) {
			return true
		}
	}
	return false
}

// ComputeTotal sums value*count over set. Values in counts that are not in set
// are ignored, and denominations with no (or a non-positive) count add nothing.
func ComputeTotal(counts []domain.CashDenomination, set []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, value := range set {
		total = total.Add(value.Mul(decimal.NewFromInt(int64(countOf(counts, value)))))
	}
	return total
}

func countOf(counts []domain.CashDenomination, value decimal.Decimal) int {
	n := 0
	for _, c := range counts {
		if c.Count > 0 && c.Value.Equal(value) {
			n += c.Count
		}
	}
	return n
}

// Positive keeps the entries of the fixed set with a count above zero, in set
// order, merging repeated values.
func Positive(counts []domain.CashDenomination) []domain.CashDenomination {
	out := make([]domain.CashDenomination, 0, len(Denominations))
	for _, value := range Denominations {
		if n := countOf(counts, value); n > 0 {
			out = append(out, domain.CashDenomination{Value: value, Count: n})
		}
	}
	return out
}

// ComputeVariance returns counted - system with its classification.
func ComputeVariance(counted decimal.Decimal, system decimal.Decimal) domain.CashVariance {
	variance := counted.Sub(system)
	return domain.CashVariance{
		Counted:   counted,
		System:    system,
		Variance:  variance,
		Status:    Classify(variance),
		Magnitude: variance.Abs(),
	}
}

func Classify(variance decimal.Decimal) domain.VarianceStatus {
	switch variance.Sign() {
	case 0:
		return domain.VarianceBalanced
	case -1:
		return domain.VarianceShortage
	default:
		return domain.VarianceSurplus
	}
}

// Reconcile totals counts over the fixed set and compares with system.
func Reconcile(counts []domain.CashDenomination, system decimal.Decimal) domain.CashVariance {
	return ComputeVariance(ComputeTotal(counts, Denominations), system)
}

package cashcount

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Mshaban73/Cashier/internal/domain"
)

func d(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func TestReconcileBalancedCount(t *testing.T) {
	counts := []domain.CashDenomination{
		{Value: d("200"), Count: 2},
		{Value: d("50"), Count: 1},
	}
	got := Reconcile(counts, d("450"))
	if !got.Counted.Equal(d("450")) {
		t.Fatalf("expected counted 450, got %s", got.Counted)
	}
	if !got.Variance.IsZero() || got.Status != domain.VarianceBalanced {
		t.Fatalf("expected balanced, got %+v", got)
	}
}

func TestComputeVarianceClassification(t *testing.T) {
	cases := []struct {
		counted   string
		system    string
		status    domain.VarianceStatus
		magnitude string
	}{
		{"100", "100", domain.VarianceBalanced, "0"},
		{"50", "100", domain.VarianceShortage, "50"},
		{"150", "100", domain.VarianceSurplus, "50"},
	}
	for _, tc := range cases {
		got := ComputeVariance(d(tc.counted), d(tc.system))
		if got.Status != tc.status {
			t.Fatalf("%s vs %s: expected %s, got %s", tc.counted, tc.system, tc.status, got.Status)
		}
		if !got.Magnitude.Equal(d(tc.magnitude)) {
			t.Fatalf("%s vs %s: expected magnitude %s, got %s", tc.counted, tc.system, tc.magnitude, got.Magnitude)
		}
	}
}

func TestComputeTotalIgnoresUnknownAndNonPositive(t *testing.T) {
	counts := []domain.CashDenomination{
		{Value: d("0.5"), Count: 3},
		{Value: d("7"), Count: 10},
		{Value: d("10"), Count: -2},
		{Value: d("1"), Count: 0},
	}
	if got := ComputeTotal(counts, Denominations); !got.Equal(d("1.5")) {
		t.Fatalf("expected 1.5, got %s", got)
	}
	if got := ComputeTotal(nil, Denominations); !got.IsZero() {
		t.Fatalf("expected zero for empty count, got %s", got)
	}
}

func TestPositiveKeepsSetOrderAndMergesRepeats(t *testing.T) {
	got := Positive([]domain.CashDenomination{
		{Value: d("5"), Count: 1},
		{Value: d("200"), Count: 0},
		{Value: d("100"), Count: 2},
		{Value: d("5.0"), Count: 2},
	})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %+v", got)
	}
	if !got[0].Value.Equal(d("100")) || got[0].Count != 2 {
		t.Fatalf("unexpected first entry %+v", got[0])
	}
	if !got[1].Value.Equal(d("5")) || got[1].Count != 3 {
		t.Fatalf("unexpected second entry %+v", got[1])
	}
}

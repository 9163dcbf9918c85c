// Package ledger implements the treasury: an append-only list of income and
// expense entries, its running balance, filtered views and backup merge.
//
// Every function here is pure. Callers hold the collection and replace it with
// the returned value.
package ledger

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mshaban73/Cashier/internal/domain"
	"github.com/Mshaban73/Cashier/internal/xid"
)

// NewTransaction builds an entry stamped with now. description and amount are
// required; amount must parse as a non-negative decimal.
func NewTransaction(description string, amount string, kind domain.TransactionKind, now time.Time) (domain.Transaction, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return domain.Transaction{}, fmt.Errorf("%w: description is required", domain.ErrValidation)
	}
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("%w: amount %q is not a number", domain.ErrValidation, amount)
	}
	if value.IsNegative() {
		return domain.Transaction{}, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	if !kind.Valid() {
		return domain.Transaction{}, fmt.Errorf("%w: unknown kind %q", domain.ErrValidation, kind)
	}

	return domain.Transaction{
		ID:          xid.NewAt("", now),
		Timestamp:   now,
		Description: description,
		Amount:      value,
		Kind:        kind,
	}, nil
}

// AddTransaction appends a new entry and returns it with the grown collection.
// The input slice is never written to.
func AddTransaction(transactions []domain.Transaction, description string, amount string, kind domain.TransactionKind, now time.Time) (domain.Transaction, []domain.Transaction, error) {
	tx, err := NewTransaction(description, amount, kind, now)
	if err != nil {
		return domain.Transaction{}, transactions, err
	}
	next := make([]domain.Transaction, 0, len(transactions)+1)
	next = append(next, transactions...)
	next = append(next, tx)
	return tx, next, nil
}

// ComputeSummary totals the whole collection, never a filtered subset.
func ComputeSummary(transactions []domain.Transaction) domain.Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range transactions {
		switch tx.Kind {
		case domain.KindIncome:
			income = income.Add(tx.Amount)
		case domain.KindExpense:
			expense = expense.Add(tx.Amount)
		}
	}
	return domain.Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
	}
}

// SortChronological returns a copy ordered by timestamp ascending. Entries
// sharing a timestamp keep their relative order.
func SortChronological(transactions []domain.Transaction) []domain.Transaction {
	sorted := slices.Clone(transactions)
	slices.SortStableFunc(sorted, func(a, b domain.Transaction) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	return sorted
}

// ComputeRunningBalances annotates each entry, in chronological order, with the
// balance after it.
func ComputeRunningBalances(transactions []domain.Transaction) []domain.RunningEntry {
	sorted := SortChronological(transactions)
	out := make([]domain.RunningEntry, 0, len(sorted))
	balance := decimal.Zero
	for _, tx := range sorted {
		balance = balance.Add(tx.Signed())
		out = append(out, domain.RunningEntry{Transaction: tx, RunningBalance: balance})
	}
	return out
}

// FilterView narrows running-balance entries and returns them most recent
// first. The query is a case-insensitive substring of the description; each
// present date bound is inclusive and widened to the whole day.
func FilterView(entries []domain.RunningEntry, filter domain.TransactionFilter) []domain.RunningEntry {
	query := strings.ToLower(strings.TrimSpace(filter.Query))

	var from, to string
	if filter.Start != nil {
		from = domain.FormatDay(*filter.Start)
	}
	if filter.End != nil {
		to = domain.FormatDay(*filter.End)
	}

	out := make([]domain.RunningEntry, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		if query != "" && !strings.Contains(strings.ToLower(entry.Description), query) {
			continue
		}
		// Entries fall on the calendar day of the zone they were stamped in.
		day := domain.FormatDay(entry.Timestamp)
		if filter.Start != nil && day < from {
			continue
		}
		if filter.End != nil && day > to {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// View is ComputeRunningBalances followed by FilterView.
func View(transactions []domain.Transaction, filter domain.TransactionFilter) []domain.RunningEntry {
	return FilterView(ComputeRunningBalances(transactions), filter)
}

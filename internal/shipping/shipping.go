// Package shipping keeps the daily shipping and collections worksheet: one
// record per calendar day of a tracked year, holding payment-channel totals,
// a cash count and a receivables snapshot.
package shipping

import (
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mshaban73/Cashier/internal/cashcount"
	"github.com/Mshaban73/Cashier/internal/domain"
)

// Ledger is an immutable snapshot. Mutating methods return a new Ledger and
// leave the receiver untouched.
type Ledger struct {
	year    int
	records map[string]domain.DailyShippingRecord
}

func New(year int, records map[string]domain.DailyShippingRecord) Ledger {
	if records == nil {
		records = map[string]domain.DailyShippingRecord{}
	}
	return Ledger{year: year, records: records}
}

func (l Ledger) Year() int {
	return l.year
}

// Records returns the materialised records keyed by date, for persistence.
func (l Ledger) Records() map[string]domain.DailyShippingRecord {
	return maps.Clone(l.records)
}

// Record returns the stored record for date, or the zero record.
func (l Ledger) Record(date string) (domain.DailyShippingRecord, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return domain.DailyShippingRecord{}, err
	}
	return l.recordAt(day), nil
}

func (l Ledger) recordAt(day time.Time) domain.DailyShippingRecord {
	if day.Year() != l.year {
		return domain.ZeroShippingRecord()
	}
	rec, ok := l.records[domain.FormatDay(day)]
	if !ok {
		return domain.ZeroShippingRecord()
	}
	return rec.Clone()
}

func (l Ledger) trackedDay(date string) (time.Time, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return time.Time{}, err
	}
	if day.Year() != l.year {
		return time.Time{}, fmt.Errorf("%w: %s is outside tracked year %d", domain.ErrValidation, date, l.year)
	}
	return day, nil
}

func (l Ledger) with(writes map[string]domain.DailyShippingRecord) Ledger {
	next := make(map[string]domain.DailyShippingRecord, len(l.records)+len(writes))
	maps.Copy(next, l.records)
	maps.Copy(next, writes)
	return Ledger{year: l.year, records: next}
}

// CoerceAmount parses raw as a decimal, yielding zero for anything that is not
// a number.
func CoerceAmount(raw string) decimal.Decimal {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero
	}
	return value
}

// SetPaymentChannel overwrites one channel's amount for date.
func (l Ledger) SetPaymentChannel(date string, channel domain.PaymentChannel, amount decimal.Decimal) (Ledger, error) {
	day, err := l.trackedDay(date)
	if err != nil {
		return l, err
	}
	if !channel.Valid() {
		return l, fmt.Errorf("%w: unknown payment channel %q", domain.ErrValidation, channel)
	}
	rec := l.recordAt(day)
	rec.Payments[channel] = amount
	return l.with(map[string]domain.DailyShippingRecord{domain.FormatDay(day): rec}), nil
}

// SetCashDetails replaces the cash count for date, keeping only denominations
// of the fixed set with a positive count.
func (l Ledger) SetCashDetails(date string, counts []domain.CashDenomination) (Ledger, error) {
	day, err := l.trackedDay(date)
	if err != nil {
		return l, err
	}
	rec := l.recordAt(day)
	rec.CashDetails = cashcount.Positive(counts)
	return l.with(map[string]domain.DailyShippingRecord{domain.FormatDay(day): rec}), nil
}

// PropagateReceivables writes total into every tracked day from fromDate to
// the end of the year. Earlier days are not touched.
func (l Ledger) PropagateReceivables(fromDate string, total decimal.Decimal) (Ledger, error) {
	from, err := domain.ParseDay(fromDate)
	if err != nil {
		return l, err
	}
	if from.Year() > l.year {
		return l, nil
	}
	start := time.Date(l.year, time.January, 1, 0, 0, 0, 0, time.UTC)
	if from.After(start) {
		start = from
	}
	end := time.Date(l.year+1, time.January, 1, 0, 0, 0, 0, time.UTC)

	writes := make(map[string]domain.DailyShippingRecord, 366)
	for day := start; day.Before(end); day = day.AddDate(0, 0, 1) {
		rec := l.recordAt(day)
		rec.Receivables = total
		writes[domain.FormatDay(day)] = rec
	}
	return l.with(writes), nil
}

func totalsOf(rec domain.DailyShippingRecord) domain.DailyTotals {
	balances := decimal.Zero
	for _, channel := range domain.PaymentChannels {
		balances = balances.Add(rec.Payments[channel])
	}
	cash := cashcount.ComputeTotal(rec.CashDetails, cashcount.Denominations)
	return domain.DailyTotals{
		TotalBalances: balances,
		CashTotal:     cash,
		Receivables:   rec.Receivables,
		GrandTotal:    balances.Add(cash).Add(rec.Receivables),
	}
}

// DailyTotals sums the channels, the counted cash and the receivables of date.
func (l Ledger) DailyTotals(date string) (domain.DailyTotals, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return domain.DailyTotals{}, err
	}
	return totalsOf(l.recordAt(day)), nil
}

// DayOverDayDifference is grandTotal(date) - grandTotal(date - 1 day). The day
// before January 1 is outside the tracked year and counts as zero.
func (l Ledger) DayOverDayDifference(date string) (decimal.Decimal, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return decimal.Zero, err
	}
	return l.differenceAt(day), nil
}

func (l Ledger) differenceAt(day time.Time) decimal.Decimal {
	today := totalsOf(l.recordAt(day)).GrandTotal
	previous := totalsOf(l.recordAt(day.AddDate(0, 0, -1))).GrandTotal
	return today.Sub(previous)
}

// Day bundles the record of date with its totals and difference.
func (l Ledger) Day(date string) (domain.ShippingDay, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return domain.ShippingDay{}, err
	}
	rec := l.recordAt(day)
	return domain.ShippingDay{
		Date:       domain.FormatDay(day),
		Record:     rec,
		Totals:     totalsOf(rec),
		Difference: l.differenceAt(day),
	}, nil
}

// YearTable lists every day of the tracked year in calendar order.
func (l Ledger) YearTable() domain.ShippingYear {
	dates := domain.DaysOfYear(l.year)
	table := domain.ShippingYear{Year: l.year, Days: make([]domain.ShippingDay, 0, len(dates))}
	previous := decimal.Zero
	for _, date := range dates {
		day, _ := domain.ParseDay(date)
		rec := l.recordAt(day)
		totals := totalsOf(rec)
		table.Days = append(table.Days, domain.ShippingDay{
			Date:       date,
			Record:     rec,
			Totals:     totals,
			Difference: totals.GrandTotal.Sub(previous),
		})
		previous = totals.GrandTotal
	}
	return table
}

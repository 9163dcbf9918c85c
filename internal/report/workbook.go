package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Mshaban73/Cashier/internal/domain"
)

const (
	ShippingSheet = "Shipping"
	TreasurySheet = "Treasury"

	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func amountCell(v decimal.Decimal) float64 {
	return v.InexactFloat64()
}

func newWorkbook(sheet string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cellName, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cellName, &values)
}

// ShippingWorkbook lays the year table out one row per day: the seven
// channels, cash, receivables, the totals and the day-over-day difference.
func ShippingWorkbook(table domain.ShippingYear) (*excelize.File, error) {
	f, err := newWorkbook(ShippingSheet)
	if err != nil {
		return nil, err
	}

	header := []any{"date"}
	for _, channel := range domain.PaymentChannels {
		header = append(header, string(channel))
	}
	header = append(header, "channels_total", "cash", "receivables", "grand_total", "difference")
	if err := writeRow(f, ShippingSheet, 1, header); err != nil {
		f.Close()
		return nil, err
	}

	for i, day := range table.Days {
		row := []any{day.Date}
		for _, channel := range domain.PaymentChannels {
			row = append(row, amountCell(day.Record.Payments[channel]))
		}
		row = append(row,
			amountCell(day.Totals.TotalBalances),
			amountCell(day.Totals.CashTotal),
			amountCell(day.Totals.Receivables),
			amountCell(day.Totals.GrandTotal),
			amountCell(day.Difference),
		)
		if err := writeRow(f, ShippingSheet, i+2, row); err != nil {
			f.Close()
			return nil, fmt.Errorf("shipping row %s: %w", day.Date, err)
		}
	}

	if err := f.SetPanes(ShippingSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// TreasuryWorkbook writes the running ledger in the order given followed by
// the summary totals.
func TreasuryWorkbook(entries []domain.RunningEntry, summary domain.Summary) (*excelize.File, error) {
	f, err := newWorkbook(TreasurySheet)
	if err != nil {
		return nil, err
	}

	if err := writeRow(f, TreasurySheet, 1, []any{"id", "date", "description", "type", "amount", "running_balance"}); err != nil {
		f.Close()
		return nil, err
	}
	for i, e := range entries {
		row := []any{e.ID, e.Timestamp.Format("2006-01-02 15:04:05"), e.Description, string(e.Kind), amountCell(e.Amount), amountCell(e.RunningBalance)}
		if err := writeRow(f, TreasurySheet, i+2, row); err != nil {
			f.Close()
			return nil, fmt.Errorf("treasury row %s: %w", e.ID, err)
		}
	}

	next := len(entries) + 3
	totals := [][]any{
		{"total_income", amountCell(summary.TotalIncome)},
		{"total_expense", amountCell(summary.TotalExpense)},
		{"balance", amountCell(summary.Balance)},
	}
	for i, row := range totals {
		if err := writeRow(f, TreasurySheet, next+i, row); err != nil {
			f.Close()
			return nil, err
		}
	}
	return f, nil
}

// Package report renders service views for people: markdown for the
// terminal and xlsx workbooks for spreadsheets.
package report

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Mshaban73/Cashier/internal/customers"
	"github.com/Mshaban73/Cashier/internal/domain"
)

type Renderer struct {
	Currency string
}

func New(currency string) Renderer {
	return Renderer{Currency: currency}
}

func (r Renderer) amount(v decimal.Decimal) string {
	return FormatAmount(v, r.Currency)
}

// cell escapes text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func (r Renderer) Summary(s domain.Summary) string {
	var b strings.Builder
	b.WriteString("# Treasury\n\n")
	b.WriteString("| | |\n|:---|---:|\n")
	fmt.Fprintf(&b, "| Income | %s |\n", r.amount(s.TotalIncome))
	fmt.Fprintf(&b, "| Expense | %s |\n", r.amount(s.TotalExpense))
	fmt.Fprintf(&b, "| **Balance** | **%s** |\n", r.amount(s.Balance))
	return b.String()
}

// Transactions renders a ledger view in the order given.
func (r Renderer) Transactions(entries []domain.RunningEntry) string {
	var b strings.Builder
	b.WriteString("# Transactions\n\n")
	if len(entries) == 0 {
		b.WriteString("_No transactions._\n")
		return b.String()
	}
	b.WriteString("| Date | Description | Type | Amount | Balance |\n")
	b.WriteString("|:---|:---|:---|---:|---:|\n")
	for _, e := range entries {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			e.Timestamp.Format("2006-01-02 15:04"),
			cell(e.Description),
			e.Kind,
			r.amount(e.Signed()),
			r.amount(e.RunningBalance),
		)
	}
	return b.String()
}

func (r Renderer) CashCount(v domain.CashVariance) string {
	var b strings.Builder
	b.WriteString("# Cash count\n\n")
	fmt.Fprintf(&b, "- Counted: %s\n", r.amount(v.Counted))
	fmt.Fprintf(&b, "- Expected: %s\n", r.amount(v.System))
	switch v.Status {
	case domain.VarianceShortage:
		fmt.Fprintf(&b, "- **Shortage of %s**\n", r.amount(v.Magnitude))
	case domain.VarianceSurplus:
		fmt.Fprintf(&b, "- **Surplus of %s**\n", r.amount(v.Magnitude))
	default:
		b.WriteString("- **Balanced**\n")
	}
	return b.String()
}

func (r Renderer) ShippingDay(day domain.ShippingDay) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Shipping %s\n\n", day.Date)
	b.WriteString("| Channel | Amount |\n|:---|---:|\n")
	for _, channel := range domain.PaymentChannels {
		fmt.Fprintf(&b, "| %s | %s |\n", channel, r.amount(day.Record.Payments[channel]))
	}

	if len(day.Record.CashDetails) > 0 {
		b.WriteString("\n| Denomination | Count | Subtotal |\n|---:|---:|---:|\n")
		for _, c := range day.Record.CashDetails {
			fmt.Fprintf(&b, "| %s | %d | %s |\n", c.Value, c.Count, r.amount(c.Value.Mul(decimal.NewFromInt(int64(c.Count)))))
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "- Channels: %s\n", r.amount(day.Totals.TotalBalances))
	fmt.Fprintf(&b, "- Cash: %s\n", r.amount(day.Totals.CashTotal))
	fmt.Fprintf(&b, "- Receivables: %s\n", r.amount(day.Totals.Receivables))
	fmt.Fprintf(&b, "- **Grand total: %s**\n", r.amount(day.Totals.GrandTotal))
	fmt.Fprintf(&b, "- Difference from previous day: %s\n", SignedAmount(day.Difference, r.Currency))
	return b.String()
}

// ShippingYear renders the year table. With activeOnly, days whose grand
// total and difference are both zero are left out.
func (r Renderer) ShippingYear(table domain.ShippingYear, activeOnly bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Shipping %d\n\n", table.Year)
	b.WriteString("| Date | Channels | Cash | Receivables | Grand total | Difference |\n")
	b.WriteString("|:---|---:|---:|---:|---:|---:|\n")
	rows := 0
	for _, day := range table.Days {
		if activeOnly && day.Totals.GrandTotal.IsZero() && day.Difference.IsZero() {
			continue
		}
		rows++
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			day.Date,
			r.amount(day.Totals.TotalBalances),
			r.amount(day.Totals.CashTotal),
			r.amount(day.Totals.Receivables),
			r.amount(day.Totals.GrandTotal),
			SignedAmount(day.Difference, r.Currency),
		)
	}
	if rows == 0 {
		b.WriteString("\n_No activity._\n")
	}
	return b.String()
}

func (r Renderer) Customers(list []domain.CustomerBalance) string {
	var b strings.Builder
	b.WriteString("# Customers\n\n")
	if len(list) == 0 {
		b.WriteString("_No customers._\n")
		return b.String()
	}
	b.WriteString("| ID | Name | Entries | Balance |\n|:---|:---|---:|---:|\n")
	total := decimal.Zero
	for _, c := range list {
		total = total.Add(c.Balance)
		fmt.Fprintf(&b, "| %s | %s | %d | %s |\n", c.ID, cell(c.Name), len(c.Transactions), r.amount(c.Balance))
	}
	fmt.Fprintf(&b, "\n**Total receivables: %s**\n", r.amount(total))
	return b.String()
}

// Customer renders one customer's entries in insertion order.
func (r Renderer) Customer(c domain.CustomerBalance) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", cell(c.Name))
	if len(c.Transactions) == 0 {
		b.WriteString("_No entries._\n")
	} else {
		b.WriteString("| Date | Description | Amount |\n|:---|:---|---:|\n")
		for _, tx := range c.Transactions {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", tx.Timestamp.Format("2006-01-02 15:04"), cell(tx.Description), SignedAmount(tx.Amount, r.Currency))
		}
	}
	fmt.Fprintf(&b, "\n**Balance: %s**\n", r.amount(customers.Balance(c.Customer)))
	return b.String()
}

package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	KindIncome  TransactionKind = "ايراد"
	KindExpense TransactionKind = "مصروف"
)

func (k TransactionKind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// ParseKind accepts the stored Arabic labels and the English aliases used by the API and CLI.
func ParseKind(raw string) (TransactionKind, bool) {
	switch raw {
	case string(KindIncome), "income":
		return KindIncome, true
	case string(KindExpense), "expense":
		return KindExpense, true
	default:
		return "", false
	}
}

// Transaction is a treasury entry. Field names follow the backup file.
type Transaction struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        TransactionKind `json:"type"`
}

// Signed returns +amount for income and -amount for expense.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

type Summary struct {
	TotalIncome  decimal.Decimal `json:"total_income"`
	TotalExpense decimal.Decimal `json:"total_expense"`
	Balance      decimal.Decimal `json:"balance"`
}

type RunningEntry struct {
	Transaction
	RunningBalance decimal.Decimal `json:"running_balance"`
}

// TransactionFilter bounds are calendar days. Only their date part is used.
type TransactionFilter struct {
	Query string
	Start *time.Time
	End   *time.Time
}

type CashDenomination struct {
	Value decimal.Decimal `json:"value"`
	Count int             `json:"count"`
}

type CustomerTransaction struct {
	ID          string          `json:"id"`
	Timestamp   time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type Customer struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Transactions []CustomerTransaction `json:"transactions"`
}

// UnmarshalJSON tolerates stored customers whose transactions field is not a
// list; such a customer loads with no transactions and a zero balance.
func (c *Customer) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID           string          `json:"id"`
		Name         string          `json:"name"`
		Transactions json.RawMessage `json:"transactions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.ID = raw.ID
	c.Name = raw.Name
	c.Transactions = nil
	if len(raw.Transactions) > 0 {
		var txs []CustomerTransaction
		if err := json.Unmarshal(raw.Transactions, &txs); err == nil {
			c.Transactions = txs
		}
	}
	return nil
}

type CustomerBalance struct {
	Customer
	Balance decimal.Decimal `json:"balance"`
}

type PaymentChannel string

const (
	ChannelFawry    PaymentChannel = "fawry"
	ChannelInstapay PaymentChannel = "instapay"
	ChannelCards    PaymentChannel = "cards"
	ChannelAman     PaymentChannel = "aman"
	ChannelBedayti  PaymentChannel = "bedayti"
	ChannelCash     PaymentChannel = "cash"
	ChannelMasary   PaymentChannel = "masary"
)

// PaymentChannels is the fixed channel set, in worksheet column order.
var PaymentChannels = []PaymentChannel{
	ChannelFawry,
	ChannelInstapay,
	ChannelCards,
	ChannelAman,
	ChannelBedayti,
	ChannelCash,
	ChannelMasary,
}

func (c PaymentChannel) Valid() bool {
	for _, known := range PaymentChannels {
		if c == known {
			return true
		}
	}
	return false
}

type DailyShippingRecord struct {
	Payments    map[PaymentChannel]decimal.Decimal `json:"payments"`
	CashDetails []CashDenomination                 `json:"cashDetails"`
	Receivables decimal.Decimal                    `json:"receivables"`
}

// ZeroShippingRecord is the default for a day that was never written.
func ZeroShippingRecord() DailyShippingRecord {
	payments := make(map[PaymentChannel]decimal.Decimal, len(PaymentChannels))
	for _, channel := range PaymentChannels {
		payments[channel] = decimal.Zero
	}
	return DailyShippingRecord{
		Payments:    payments,
		CashDetails: []CashDenomination{},
		Receivables: decimal.Zero,
	}
}

// Clone returns a deep copy so snapshots never share the payments map.
func (r DailyShippingRecord) Clone() DailyShippingRecord {
	out := ZeroShippingRecord()
	for channel, amount := range r.Payments {
		out.Payments[channel] = amount
	}
	out.CashDetails = append(out.CashDetails, r.CashDetails...)
	out.Receivables = r.Receivables
	return out
}

type DailyTotals struct {
	TotalBalances decimal.Decimal `json:"total_balances"`
	CashTotal     decimal.Decimal `json:"cash_total"`
	Receivables   decimal.Decimal `json:"receivables"`
	GrandTotal    decimal.Decimal `json:"grand_total"`
}

type ShippingDay struct {
	Date       string              `json:"date"`
	Record     DailyShippingRecord `json:"record"`
	Totals     DailyTotals         `json:"totals"`
	Difference decimal.Decimal     `json:"difference"`
}

type ShippingYear struct {
	Year int           `json:"year"`
	Days []ShippingDay `json:"days"`
}

// Clone copies the table deeply so the copy shares no maps or slices.
func (y ShippingYear) Clone() ShippingYear {
	out := ShippingYear{Year: y.Year, Days: make([]ShippingDay, len(y.Days))}
	for i, day := range y.Days {
		day.Record = day.Record.Clone()
		out.Days[i] = day
	}
	return out
}

type VarianceStatus string

const (
	VarianceBalanced VarianceStatus = "balanced"
	VarianceShortage VarianceStatus = "shortage"
	VarianceSurplus  VarianceStatus = "surplus"
)

type CashVariance struct {
	Counted   decimal.Decimal `json:"counted"`
	System    decimal.Decimal `json:"system"`
	Variance  decimal.Decimal `json:"variance"`
	Status    VarianceStatus  `json:"status"`
	Magnitude decimal.Decimal `json:"magnitude"`
}

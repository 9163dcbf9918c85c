// Package customers keeps per-customer debt ledgers. A positive amount adds
// debt, a negative one is a payment; the balance is always recomputed from
// the entries and never stored.
package customers

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Mshaban73/Cashier/internal/domain"
	"github.com/Mshaban73/Cashier/internal/xid"
)

// DefaultDescription labels an entry entered without a description.
const DefaultDescription = "معاملة"

// AddCustomer appends a new customer. A name that is blank after trimming is
// rejected and the list is returned as is.
func AddCustomer(list []domain.Customer, name string, now time.Time) (domain.Customer, []domain.Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Customer{}, list, fmt.Errorf("%w: customer name is required", domain.ErrValidation)
	}
	customer := domain.Customer{
		ID:           xid.NewAt("cust", now),
		Name:         name,
		Transactions: []domain.CustomerTransaction{},
	}
	next := make([]domain.Customer, 0, len(list)+1)
	next = append(next, list...)
	next = append(next, customer)
	return customer, next, nil
}

// ParseAmount accepts any finite signed decimal.
func ParseAmount(raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", domain.ErrValidation, raw)
	}
	return value, nil
}

// AddTransaction appends an entry to the customer with customerID and returns
// the updated customer together with the new list.
func AddTransaction(list []domain.Customer, customerID string, description string, amount string, now time.Time) (domain.Customer, []domain.Customer, error) {
	value, err := ParseAmount(amount)
	if err != nil {
		return domain.Customer{}, list, err
	}
	idx := indexOf(list, customerID)
	if idx < 0 {
		return domain.Customer{}, list, fmt.Errorf("%w: customer %q", domain.ErrNotFound, customerID)
	}

	description = strings.TrimSpace(description)
	if description == "" {
		description = DefaultDescription
	}

	updated := list[idx]
	txs := make([]domain.CustomerTransaction, 0, len(updated.Transactions)+1)
	txs = append(txs, updated.Transactions...)
	txs = append(txs, domain.CustomerTransaction{
		ID:          xid.NewAt("ctx", now),
		Timestamp:   now,
		Description: description,
		Amount:      value,
	})
	updated.Transactions = txs

	next := make([]domain.Customer, len(list))
	copy(next, list)
	next[idx] = updated
	return updated, next, nil
}

func indexOf(list []domain.Customer, customerID string) int {
	for i, c := range list {
		if c.ID == customerID {
			return i
		}
	}
	return -1
}

// Find returns the customer with id.
func Find(list []domain.Customer, id string) (domain.Customer, bool) {
	idx := indexOf(list, id)
	if idx < 0 {
		return domain.Customer{}, false
	}
	return list[idx], true
}

// Balance is the signed sum of the customer's entries; zero when there are none.
func Balance(c domain.Customer) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range c.Transactions {
		total = total.Add(tx.Amount)
	}
	return total
}

// TotalReceivables is the sum of every customer's balance.
func TotalReceivables(list []domain.Customer) decimal.Decimal {
	total := decimal.Zero
	for _, c := range list {
		total = total.Add(Balance(c))
	}
	return total
}

// WithBalances pairs each customer with its derived balance.
func WithBalances(list []domain.Customer) []domain.CustomerBalance {
	out := make([]domain.CustomerBalance, 0, len(list))
	for _, c := range list {
		out = append(out, domain.CustomerBalance{Customer: c, Balance: Balance(c)})
	}
	return out
}

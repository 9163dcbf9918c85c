// Package service holds the application state and is the only place it
// changes. Each method computes a new snapshot through the engines, swaps it
// in, then writes the affected named entry back to the store.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/Mshaban73/Cashier/internal/cache"
	"github.com/Mshaban73/Cashier/internal/cashcount"
	"github.com/Mshaban73/Cashier/internal/customers"
	"github.com/Mshaban73/Cashier/internal/domain"
	"github.com/Mshaban73/Cashier/internal/ledger"
	"github.com/Mshaban73/Cashier/internal/logger"
	"github.com/Mshaban73/Cashier/internal/shipping"
	"github.com/Mshaban73/Cashier/internal/store"
	"github.com/Mshaban73/Cashier/internal/validation"
)

const defaultTableTTL = 5 * time.Minute

type Options struct {
	// Year is the tracked shipping year. Zero means the clock's current year.
	Year     int
	Clock    func() time.Time
	TableTTL time.Duration
	Log      *logrus.Entry
}

type Service struct {
	mu sync.Mutex

	kv       store.KV
	tables   cache.ShippingTableCache
	tableTTL time.Duration
	log      *logrus.Entry
	now      func() time.Time
	year     int

	transactions []domain.Transaction
	shipping     shipping.Ledger
	customers    []domain.Customer
}

func New(kv store.KV, tables cache.ShippingTableCache, opts Options) *Service {
	if tables == nil {
		tables = cache.NoopShippingTableCache{}
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.TableTTL <= 0 {
		opts.TableTTL = defaultTableTTL
	}
	if opts.Log == nil {
		opts.Log = logger.Component(nil, "service")
	}
	if opts.Year == 0 {
		opts.Year = opts.Clock().Year()
	}

	return &Service{
		kv:       kv,
		tables:   tables,
		tableTTL: opts.TableTTL,
		log:      opts.Log,
		now:      opts.Clock,
		year:     opts.Year,
		shipping: shipping.New(opts.Year, nil),
	}
}

func (s *Service) Year() int {
	return s.year
}

// Load replaces the in-memory state with the stored entries. An entry that
// cannot be read is logged and starts empty.
func (s *Service) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	txs, err := store.Load(ctx, s.kv, store.KeyTreasury, []domain.Transaction{})
	s.warnPersistence(store.KeyTreasury, "load", err)
	records, err := store.Load(ctx, s.kv, store.KeyShipping, map[string]domain.DailyShippingRecord{})
	s.warnPersistence(store.KeyShipping, "load", err)
	list, err := store.Load(ctx, s.kv, store.KeyCustomers, []domain.Customer{})
	s.warnPersistence(store.KeyCustomers, "load", err)

	s.transactions = txs
	s.shipping = shipping.New(s.year, records)
	s.customers = list
	s.invalidateTables(ctx)

	s.log.WithFields(logrus.Fields{
		"transactions":  len(txs),
		"shipping_days": len(records),
		"customers":     len(list),
		"year":          s.year,
	}).Info("state loaded")
}

func (s *Service) warnPersistence(key string, op string, err error) {
	if err == nil {
		return
	}
	s.log.WithError(err).WithFields(logrus.Fields{"key": key, "op": op}).Warn("persistence failure, continuing with in-memory state")
}

func persist[T any](ctx context.Context, s *Service, key string, value T) {
	s.warnPersistence(key, "save", store.Save(ctx, s.kv, key, value))
}

func cleanText(raw string) (string, error) {
	text, err := validation.CleanText(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	return text, nil
}

func (s *Service) invalidateTables(ctx context.Context) {
	if err := s.tables.Delete(ctx, cache.ShippingTableKey(s.year)); err != nil {
		s.log.WithError(err).Debug("shipping table cache invalidation failed")
	}
}

// Treasury

func (s *Service) AddTransaction(ctx context.Context, description string, amount string, kind domain.TransactionKind) (domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	description, err := cleanText(description)
	if err != nil {
		return domain.Transaction{}, err
	}
	tx, next, err := ledger.AddTransaction(s.transactions, description, amount, kind, s.now())
	if err != nil {
		return domain.Transaction{}, err
	}
	s.transactions = next
	persist(ctx, s, store.KeyTreasury, s.transactions)

	s.log.WithFields(logrus.Fields{"id": tx.ID, "type": tx.Kind, "amount": tx.Amount.String()}).Info("treasury transaction added")
	return tx, nil
}

func (s *Service) Summary(_ context.Context) domain.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.ComputeSummary(s.transactions)
}

// TransactionsView returns running-balance entries matching filter, newest first.
func (s *Service) TransactionsView(_ context.Context, filter domain.TransactionFilter) []domain.RunningEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ledger.View(s.transactions, filter)
}

// ExportBackup returns the backup file body and its download name.
func (s *Service) ExportBackup(_ context.Context) ([]byte, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := ledger.ExportBackup(s.transactions)
	if err != nil {
		return nil, "", fmt.Errorf("export backup: %w", err)
	}
	return data, ledger.BackupFilename(s.now()), nil
}

// ImportBackup merges a backup file into the treasury and returns the
// resulting number of transactions. A malformed file changes nothing.
func (s *Service) ImportBackup(ctx context.Context, data []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := ledger.ImportBackup(s.transactions, data)
	if err != nil {
		s.log.WithError(err).Info("backup import rejected")
		return len(s.transactions), err
	}
	before := len(s.transactions)
	s.transactions = merged
	persist(ctx, s, store.KeyTreasury, s.transactions)

	s.log.WithFields(logrus.Fields{"before": before, "after": len(merged)}).Info("backup imported")
	return len(merged), nil
}

// CountTreasuryCash compares a physical count with the treasury balance.
func (s *Service) CountTreasuryCash(_ context.Context, counts []domain.CashDenomination) domain.CashVariance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cashcount.Reconcile(counts, ledger.ComputeSummary(s.transactions).Balance)
}

// Shipping

// SetPaymentChannel stores rawAmount for channel on date. Input that is not a
// number is stored as zero.
func (s *Service) SetPaymentChannel(ctx context.Context, date string, channel domain.PaymentChannel, rawAmount string) (domain.ShippingDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.shipping.SetPaymentChannel(date, channel, shipping.CoerceAmount(rawAmount))
	if err != nil {
		return domain.ShippingDay{}, err
	}
	return s.commitShipping(ctx, next, date)
}

func (s *Service) SetCashDetails(ctx context.Context, date string, counts []domain.CashDenomination) (domain.ShippingDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := s.shipping.SetCashDetails(date, counts)
	if err != nil {
		return domain.ShippingDay{}, err
	}
	return s.commitShipping(ctx, next, date)
}

func (s *Service) commitShipping(ctx context.Context, next shipping.Ledger, date string) (domain.ShippingDay, error) {
	s.shipping = next
	persist(ctx, s, store.KeyShipping, s.shipping.Records())
	s.invalidateTables(ctx)
	return s.shipping.Day(date)
}

func (s *Service) ShippingDay(_ context.Context, date string) (domain.ShippingDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping.Day(date)
}

// ShippingYear returns every day of the tracked year, served from the table
// cache when it holds a fresh copy.
func (s *Service) ShippingYear(ctx context.Context) domain.ShippingYear {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := cache.ShippingTableKey(s.year)
	if cached, ok, err := s.tables.Get(ctx, key); err == nil && ok {
		return *cached
	} else if err != nil {
		s.log.WithError(err).Debug("shipping table cache read failed")
	}

	table := s.shipping.YearTable()
	if err := s.tables.Set(ctx, key, &table, s.tableTTL); err != nil {
		s.log.WithError(err).Debug("shipping table cache write failed")
	}
	return table
}

// Customers

func (s *Service) AddCustomer(ctx context.Context, name string) (domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, err := cleanText(name)
	if err != nil {
		return domain.Customer{}, err
	}
	customer, next, err := customers.AddCustomer(s.customers, name, s.now())
	if err != nil {
		return domain.Customer{}, err
	}
	s.customers = next
	persist(ctx, s, store.KeyCustomers, s.customers)

	s.log.WithField("id", customer.ID).Info("customer added")
	return customer, nil
}

// AddCustomerTransaction records a debt (positive) or payment (negative) and
// writes the new receivables total into every shipping day from day onwards.
func (s *Service) AddCustomerTransaction(ctx context.Context, day string, customerID string, description string, amount string) (domain.CustomerBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := domain.ParseDay(day); err != nil {
		return domain.CustomerBalance{}, err
	}
	description, err := cleanText(description)
	if err != nil {
		return domain.CustomerBalance{}, err
	}
	updated, nextCustomers, err := customers.AddTransaction(s.customers, customerID, description, amount, s.now())
	if err != nil {
		return domain.CustomerBalance{}, err
	}
	total := customers.TotalReceivables(nextCustomers)
	nextShipping, err := s.shipping.PropagateReceivables(day, total)
	if err != nil {
		return domain.CustomerBalance{}, err
	}

	s.customers = nextCustomers
	s.shipping = nextShipping
	persist(ctx, s, store.KeyCustomers, s.customers)
	persist(ctx, s, store.KeyShipping, s.shipping.Records())
	s.invalidateTables(ctx)

	s.log.WithFields(logrus.Fields{
		"customer":    customerID,
		"from":        day,
		"receivables": total.String(),
	}).Info("customer transaction added")
	return domain.CustomerBalance{Customer: updated, Balance: customers.Balance(updated)}, nil
}

func (s *Service) Customers(_ context.Context) []domain.CustomerBalance {
	s.mu.Lock()
	defer s.mu.Unlock()
	return customers.WithBalances(s.customers)
}

func (s *Service) Customer(_ context.Context, id string) (domain.CustomerBalance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := customers.Find(s.customers, id)
	if !ok {
		return domain.CustomerBalance{}, fmt.Errorf("%w: customer %q", domain.ErrNotFound, id)
	}
	return domain.CustomerBalance{Customer: c, Balance: customers.Balance(c)}, nil
}

func (s *Service) TotalReceivables(_ context.Context) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return customers.TotalReceivables(s.customers)
}

// Today is the service clock's current date, the default day for actions
// that are not given one.
func (s *Service) Today() string {
	return domain.FormatDay(s.now())
}

package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/Mshaban73/Cashier/internal/domain"
	"github.com/Mshaban73/Cashier/internal/logger"
	"github.com/Mshaban73/Cashier/internal/report"
	"github.com/Mshaban73/Cashier/internal/service"
)

const (
	maxJSONBody   = 1 << 20
	maxBackupBody = 16 << 20
)

type API struct {
	service       *service.Service
	allowedOrigin string
	limiter       *rate.Limiter
	log           *logrus.Entry
}

// New builds the API. ratePerSecond <= 0 disables rate limiting.
func New(svc *service.Service, allowedOrigin string, ratePerSecond int, log *logrus.Entry) *API {
	if log == nil {
		log = logger.Component(nil, "httpapi")
	}
	var limiter *rate.Limiter
	if ratePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSecond), ratePerSecond*2)
	}
	return &API{
		service:       svc,
		allowedOrigin: allowedOrigin,
		limiter:       limiter,
		log:           log,
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(a.requestLogger)
	r.Use(a.securityHeaders)
	r.Use(a.rateLimit)

	r.Get("/healthz", a.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/treasury", func(r chi.Router) {
			r.Get("/transactions", a.handleListTransactions)
			r.Post("/transactions", a.handleAddTransaction)
			r.Get("/summary", a.handleSummary)
			r.Get("/backup", a.handleExportBackup)
			r.Post("/backup", a.handleImportBackup)
			r.Post("/cash-count", a.handleTreasuryCashCount)
			r.Get("/export.xlsx", a.handleTreasuryWorkbook)
		})

		r.Route("/shipping", func(r chi.Router) {
			r.Get("/", a.handleShippingYear)
			r.Get("/export.xlsx", a.handleShippingWorkbook)
			r.Get("/{date}", a.handleShippingDay)
			r.Put("/{date}/payments/{channel}", a.handleSetPayment)
			r.Put("/{date}/cash", a.handleSetCash)
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", a.handleListCustomers)
			r.Post("/", a.handleAddCustomer)
			r.Get("/{id}", a.handleGetCustomer)
			r.Post("/{id}/transactions", a.handleAddCustomerTransaction)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, errors.New("not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeMethodNotAllowed(w)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"at":   time.Now().UTC().Format(time.RFC3339),
		"year": a.service.Year(),
	})
}

// amountInput accepts an amount sent either as a JSON number or a string, so
// raw form input can be passed through unchanged.
type amountInput string

func (v *amountInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = amountInput(s)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*v = ""
		return nil
	}
	*v = amountInput(data)
	return nil
}

// Treasury

func parseFilter(r *http.Request) (domain.TransactionFilter, error) {
	q := r.URL.Query()
	filter := domain.TransactionFilter{Query: strings.TrimSpace(q.Get("q"))}
	if raw := strings.TrimSpace(q.Get("start")); raw != "" {
		start, err := domain.ParseDay(raw)
		if err != nil {
			return filter, err
		}
		filter.Start = &start
	}
	if raw := strings.TrimSpace(q.Get("end")); raw != "" {
		end, err := domain.ParseDay(raw)
		if err != nil {
			return filter, err
		}
		filter.End = &end
	}
	return filter, nil
}

func (a *API) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": a.service.TransactionsView(r.Context(), filter),
		"summary":      a.service.Summary(r.Context()),
	})
}

type addTransactionRequest struct {
	Description string      `json:"description"`
	Amount      amountInput `json:"amount"`
	Type        string      `json:"type"`
}

func (a *API) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req addTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	kind, ok := domain.ParseKind(strings.TrimSpace(req.Type))
	if !ok {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%w: unknown type %q", domain.ErrValidation, req.Type))
		return
	}

	tx, err := a.service.AddTransaction(r.Context(), req.Description, string(req.Amount), kind)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"transaction": tx,
		"summary":     a.service.Summary(r.Context()),
	})
}

func (a *API) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.Summary(r.Context()))
}

func (a *API) handleExportBackup(w http.ResponseWriter, r *http.Request) {
	data, filename, err := a.service.ExportBackup(r.Context())
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (a *API) handleImportBackup(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBackupBody))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, errors.New("backup file too large"))
		return
	}
	n, err := a.service.ImportBackup(r.Context(), data)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": n,
		"summary":      a.service.Summary(r.Context()),
	})
}

type cashCountRequest struct {
	Counts []domain.CashDenomination `json:"counts"`
}

func (a *API) handleTreasuryCashCount(w http.ResponseWriter, r *http.Request) {
	var req cashCountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, a.service.CountTreasuryCash(r.Context(), req.Counts))
}

func (a *API) handleTreasuryWorkbook(w http.ResponseWriter, r *http.Request) {
	entries := a.service.TransactionsView(r.Context(), domain.TransactionFilter{})
	f, err := report.TreasuryWorkbook(entries, a.service.Summary(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", report.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "treasury_"+a.service.Today()+".xlsx"))
	if err := f.Write(w); err != nil {
		a.log.WithError(err).Warn("write treasury workbook")
	}
}

// Shipping

func (a *API) handleShippingYear(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.service.ShippingYear(r.Context()))
}

func (a *API) handleShippingWorkbook(w http.ResponseWriter, r *http.Request) {
	f, err := report.ShippingWorkbook(a.service.ShippingYear(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", report.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "shipping_"+strconv.Itoa(a.service.Year())+".xlsx"))
	if err := f.Write(w); err != nil {
		a.log.WithError(err).Warn("write shipping workbook")
	}
}

func (a *API) handleShippingDay(w http.ResponseWriter, r *http.Request) {
	day, err := a.service.ShippingDay(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

type setPaymentRequest struct {
	Amount amountInput `json:"amount"`
}

func (a *API) handleSetPayment(w http.ResponseWriter, r *http.Request) {
	var req setPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	channel := domain.PaymentChannel(strings.ToLower(chi.URLParam(r, "channel")))
	day, err := a.service.SetPaymentChannel(r.Context(), chi.URLParam(r, "date"), channel, string(req.Amount))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

func (a *API) handleSetCash(w http.ResponseWriter, r *http.Request) {
	var req cashCountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	day, err := a.service.SetCashDetails(r.Context(), chi.URLParam(r, "date"), req.Counts)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, day)
}

// Customers

func (a *API) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"customers":         a.service.Customers(r.Context()),
		"total_receivables": a.service.TotalReceivables(r.Context()),
	})
}

type addCustomerRequest struct {
	Name string `json:"name"`
}

func (a *API) handleAddCustomer(w http.ResponseWriter, r *http.Request) {
	var req addCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	customer, err := a.service.AddCustomer(r.Context(), req.Name)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"customer": customer})
}

func (a *API) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := a.service.Customer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"customer": customer})
}

// addCustomerTransactionRequest carries the shipping day the entry was made
// against; receivables are rewritten from that day on. Empty means today.
type addCustomerTransactionRequest struct {
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      amountInput `json:"amount"`
}

func (a *API) handleAddCustomerTransaction(w http.ResponseWriter, r *http.Request) {
	var req addCustomerTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	day := strings.TrimSpace(req.Date)
	if day == "" {
		day = a.service.Today()
	}
	customer, err := a.service.AddCustomerTransaction(r.Context(), day, chi.URLParam(r, "id"), req.Description, string(req.Amount))
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"customer":          customer,
		"total_receivables": a.service.TotalReceivables(r.Context()),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrImportFormat):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (a *API) writeServiceError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= 500 {
		a.log.WithError(err).Error("internal error")
	}
	writeError(w, status, err)
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	return nil
}

func writeMethodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func writeError(w http.ResponseWriter, status int, err error) {
	// 4xx messages are user-facing; 5xx responses never carry internal detail.
	msg := err.Error()
	if status >= 500 {
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

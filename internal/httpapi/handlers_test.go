package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Mshaban73/Cashier/internal/cache"
	"github.com/Mshaban73/Cashier/internal/domain"
	"github.com/Mshaban73/Cashier/internal/report"
	"github.com/Mshaban73/Cashier/internal/service"
	"github.com/Mshaban73/Cashier/internal/store/memory"
)

// newTestAPI builds a full API over an in-memory store so handler tests
// exercise the complete request path.
func newTestAPI(t *testing.T) *API {
	t.Helper()

	svc := service.New(memory.New(), cache.NewMemoryShippingTableCache(time.Minute), service.Options{
		Year:  2024,
		Clock: func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) },
	})
	svc.Load(context.Background())
	return New(svc, "*", 0, nil)
}

func do(t *testing.T, h http.Handler, method string, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dest); err != nil {
		t.Fatalf("decode body: %v", err)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestAPI(t).Handler()
	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var body map[string]any
	decodeBody(t, rec, &body)
	if body["ok"] != true {
		t.Fatalf("expected ok:true, got %v", body["ok"])
	}
}

func TestTreasuryFlow(t *testing.T) {
	h := newTestAPI(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/treasury/transactions", `{"description":"بيع","amount":1000,"type":"income"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodPost, "/api/v1/treasury/transactions", `{"description":"مصاريف","amount":"300","type":"مصروف"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(t, h, http.MethodGet, "/api/v1/treasury/summary", "")
	var summary domain.Summary
	decodeBody(t, rec, &summary)
	if !summary.Balance.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("expected balance 700, got %s", summary.Balance)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/treasury/transactions?q=%D8%A8%D9%8A%D8%B9", "")
	var list struct {
		Transactions []domain.RunningEntry `json:"transactions"`
	}
	decodeBody(t, rec, &list)
	if len(list.Transactions) != 1 || !list.Transactions[0].RunningBalance.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("unexpected filtered list %+v", list.Transactions)
	}
}

func TestAddTransactionValidation(t *testing.T) {
	h := newTestAPI(t).Handler()
	cases := []string{
		`{"description":"","amount":10,"type":"income"}`,
		`{"description":"x","amount":"ten","type":"income"}`,
		`{"description":"x","amount":10,"type":"loan"}`,
		`{"description":"x","amount":10,"type":"income","extra":1}`,
	}
	for _, body := range cases {
		rec := do(t, h, http.MethodPost, "/api/v1/treasury/transactions", body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", body, rec.Code)
		}
	}
	rec := do(t, h, http.MethodGet, "/api/v1/treasury/transactions?start=yesterday", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad start date, got %d", rec.Code)
	}
}

func TestBackupExportImport(t *testing.T) {
	source := newTestAPI(t).Handler()
	do(t, source, http.MethodPost, "/api/v1/treasury/transactions", `{"description":"بيع","amount":1000,"type":"income"}`)

	rec := do(t, source, http.MethodGet, "/api/v1/treasury/backup", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "backup_treasury_2024-03-10.json") {
		t.Fatalf("unexpected content disposition %q", got)
	}
	backup := rec.Body.String()

	target := newTestAPI(t).Handler()
	rec = do(t, target, http.MethodPost, "/api/v1/treasury/backup", backup)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Transactions int `json:"transactions"`
	}
	decodeBody(t, rec, &body)
	if body.Transactions != 1 {
		t.Fatalf("expected 1 transaction, got %d", body.Transactions)
	}

	rec = do(t, target, http.MethodPost, "/api/v1/treasury/backup", `{"transactions":[{"id":"x"}]}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "invalid backup file") {
		t.Fatalf("expected invalid backup file, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTreasuryCashCount(t *testing.T) {
	h := newTestAPI(t).Handler()
	do(t, h, http.MethodPost, "/api/v1/treasury/transactions", `{"description":"بيع","amount":450,"type":"income"}`)

	rec := do(t, h, http.MethodPost, "/api/v1/treasury/cash-count", `{"counts":[{"value":200,"count":2},{"value":50,"count":1}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var v domain.CashVariance
	decodeBody(t, rec, &v)
	if v.Status != domain.VarianceBalanced || !v.Counted.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("unexpected variance %+v", v)
	}
}

func TestShippingEndpoints(t *testing.T) {
	h := newTestAPI(t).Handler()

	rec := do(t, h, http.MethodPut, "/api/v1/shipping/2024-03-10/payments/fawry", `{"amount":"100"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = do(t, h, http.MethodPut, "/api/v1/shipping/2024-03-10/payments/masary", `{"amount":"oops"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("bad numeric input must coerce, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodPut, "/api/v1/shipping/2024-03-10/cash", `{"counts":[{"value":50,"count":1},{"value":10,"count":3},{"value":5,"count":0}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/shipping/2024-03-10", "")
	var day domain.ShippingDay
	decodeBody(t, rec, &day)
	if !day.Totals.GrandTotal.Equal(decimal.NewFromInt(180)) || len(day.Record.CashDetails) != 2 {
		t.Fatalf("unexpected day %+v", day)
	}

	rec = do(t, h, http.MethodPut, "/api/v1/shipping/2024-03-10/payments/paypal", `{"amount":"1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown channel, got %d", rec.Code)
	}
	rec = do(t, h, http.MethodPut, "/api/v1/shipping/2025-01-01/payments/cash", `{"amount":"1"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 outside tracked year, got %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/shipping", "")
	var table domain.ShippingYear
	decodeBody(t, rec, &table)
	if table.Year != 2024 || len(table.Days) != 366 {
		t.Fatalf("unexpected table year=%d days=%d", table.Year, len(table.Days))
	}
}

func TestShippingWorkbookDownload(t *testing.T) {
	h := newTestAPI(t).Handler()
	do(t, h, http.MethodPut, "/api/v1/shipping/2024-01-01/payments/cash", `{"amount":25}`)

	rec := do(t, h, http.MethodGet, "/api/v1/shipping/export.xlsx", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != report.XLSXContentType {
		t.Fatalf("unexpected content type %q", got)
	}
	f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if v, _ := f.GetCellValue(report.ShippingSheet, "A2"); v != "2024-01-01" {
		t.Fatalf("unexpected first date %q", v)
	}
}

func TestCustomerFlowPropagatesReceivables(t *testing.T) {
	h := newTestAPI(t).Handler()

	rec := do(t, h, http.MethodPost, "/api/v1/customers", `{"name":"أحمد"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		Customer domain.Customer `json:"customer"`
	}
	decodeBody(t, rec, &created)

	rec = do(t, h, http.MethodPost, "/api/v1/customers/"+created.Customer.ID+"/transactions", `{"date":"2024-03-10","amount":500}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	for date, want := range map[string]int64{"2024-03-09": 0, "2024-03-10": 500, "2024-12-31": 500} {
		rec = do(t, h, http.MethodGet, "/api/v1/shipping/"+date, "")
		var day domain.ShippingDay
		decodeBody(t, rec, &day)
		if !day.Record.Receivables.Equal(decimal.NewFromInt(want)) {
			t.Fatalf("%s: expected %d, got %s", date, want, day.Record.Receivables)
		}
	}

	rec = do(t, h, http.MethodGet, "/api/v1/customers", "")
	var list struct {
		Customers        []domain.CustomerBalance `json:"customers"`
		TotalReceivables decimal.Decimal          `json:"total_receivables"`
	}
	decodeBody(t, rec, &list)
	if len(list.Customers) != 1 || !list.TotalReceivables.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("unexpected customers %+v", list)
	}
}

func TestCustomerErrors(t *testing.T) {
	h := newTestAPI(t).Handler()

	if rec := do(t, h, http.MethodPost, "/api/v1/customers", `{"name":"   "}`); rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for blank name, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/customers/missing/transactions", `{"amount":5}`); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown customer, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/customers/missing", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

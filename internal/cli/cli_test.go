package cli

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"

	"github.com/Mshaban73/Cashier/internal/domain"
	"github.com/Mshaban73/Cashier/internal/report"
	"github.com/Mshaban73/Cashier/internal/service"
	"github.com/Mshaban73/Cashier/internal/store/memory"
)

type harness struct {
	env *Env
	out *bytes.Buffer
	err *bytes.Buffer
}

func newHarness() *harness {
	svc := service.New(memory.New(), nil, service.Options{
		Year:  2024,
		Clock: func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) },
	})
	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	h.env = &Env{
		Out:      h.out,
		Err:      h.err,
		Renderer: report.New("USD"),
		Plain:    true,
		Open:     func(context.Context) (*service.Service, error) { return svc, nil },
	}
	return h
}

func (h *harness) run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	h.out.Reset()
	h.err.Reset()
	top := flag.NewFlagSet("cashier", flag.ContinueOnError)
	commander := subcommands.NewCommander(top, "cashier")
	commander.Output = h.out
	commander.Error = h.err
	Register(commander, h.env)
	if err := top.Parse(args); err != nil {
		t.Fatalf("parse: %v", err)
	}
	return commander.Execute(context.Background())
}

func TestParseCounts(t *testing.T) {
	counts, err := parseCounts([]string{"200=2", "0.5=4"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(counts) != 2 || counts[1].Count != 4 || counts[1].Value.String() != "0.5" {
		t.Fatalf("unexpected counts %+v", counts)
	}
	for _, bad := range []string{"200", "x=1", "50=-1", "50=a"} {
		if _, err := parseCounts([]string{bad}); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%q: expected validation error, got %v", bad, err)
		}
	}
}

func TestTreasuryCommands(t *testing.T) {
	h := newHarness()
	if st := h.run(t, "add", "-k", "income", "-m", "بيع", "1000"); st != subcommands.ExitSuccess {
		t.Fatalf("add income: %v %s", st, h.err)
	}
	if st := h.run(t, "add", "-k", "expense", "-m", "مصاريف", "300"); st != subcommands.ExitSuccess {
		t.Fatalf("add expense: %v %s", st, h.err)
	}
	if st := h.run(t, "summary"); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), "$700.00") {
		t.Fatalf("summary: %v %s", st, h.out)
	}
	if st := h.run(t, "count", "200=2", "50=1"); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), "Shortage of $250.00") {
		t.Fatalf("count: %v %s", st, h.out)
	}
	if st := h.run(t, "add", "-k", "expense", "-m", "", "5"); st != subcommands.ExitUsageError {
		t.Fatalf("expected usage error for blank description, got %v", st)
	}
}

func TestExportImportCommands(t *testing.T) {
	h := newHarness()
	h.run(t, "add", "-m", "بيع", "1000")

	path := filepath.Join(t.TempDir(), "backup.json")
	if st := h.run(t, "export", "-o", path); st != subcommands.ExitSuccess {
		t.Fatalf("export: %v %s", st, h.err)
	}

	other := newHarness()
	if st := other.run(t, "import", path); st != subcommands.ExitSuccess || !strings.Contains(other.out.String(), "1 transactions") {
		t.Fatalf("import: %v %s %s", st, other.out, other.err)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`{"transactions": 3}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if st := other.run(t, "import", bad); st != subcommands.ExitUsageError || !strings.Contains(other.err.String(), "invalid backup file") {
		t.Fatalf("expected invalid backup file, got %v %s", st, other.err)
	}
}

func TestShippingAndCustomerCommands(t *testing.T) {
	h := newHarness()
	if st := h.run(t, "channel", "-d", "2024-03-10", "fawry", "100"); st != subcommands.ExitSuccess {
		t.Fatalf("channel: %v %s", st, h.err)
	}
	if st := h.run(t, "cash", "-d", "2024-03-10", "50=1", "10=3"); st != subcommands.ExitSuccess {
		t.Fatalf("cash: %v %s", st, h.err)
	}

	if st := h.run(t, "customer-add", "أحمد"); st != subcommands.ExitSuccess {
		t.Fatalf("customer-add: %v %s", st, h.err)
	}
	id := strings.TrimSpace(h.out.String()[strings.LastIndex(h.out.String(), "id ")+3:])

	if st := h.run(t, "debt", "-d", "2024-03-10", id, "500"); st != subcommands.ExitSuccess {
		t.Fatalf("debt: %v %s", st, h.err)
	}
	if st := h.run(t, "day", "-d", "2024-03-10"); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), "Grand total: $680.00") {
		t.Fatalf("day: %v %s", st, h.out)
	}
	if st := h.run(t, "customers"); st != subcommands.ExitSuccess || !strings.Contains(h.out.String(), "Total receivables: $500.00") {
		t.Fatalf("customers: %v %s", st, h.out)
	}
	if st := h.run(t, "debt", "missing", "5"); st != subcommands.ExitUsageError {
		t.Fatalf("expected usage error for unknown customer, got %v", st)
	}
	if st := h.run(t, "channel", "-d", "2024-03-10", "paypal", "1"); st != subcommands.ExitUsageError {
		t.Fatalf("expected usage error for unknown channel, got %v", st)
	}
}

func TestXLSXCommand(t *testing.T) {
	h := newHarness()
	path := filepath.Join(t.TempDir(), "shipping.xlsx")
	if st := h.run(t, "xlsx", "-o", path); st != subcommands.ExitSuccess {
		t.Fatalf("xlsx: %v %s", st, h.err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected workbook on disk: %v", err)
	}
	if st := h.run(t, "xlsx", "-w", "nope"); st != subcommands.ExitUsageError {
		t.Fatalf("expected usage error, got %v", st)
	}
}

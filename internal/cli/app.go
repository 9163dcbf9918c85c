// Package cli implements the cashier command line on top of the service.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/Mshaban73/Cashier/internal/domain"
	"github.com/Mshaban73/Cashier/internal/report"
	"github.com/Mshaban73/Cashier/internal/service"
)

// Env is shared by every command. The service is opened on first use so
// that help and usage never touch the store.
type Env struct {
	Out      io.Writer
	Err      io.Writer
	Renderer report.Renderer
	// Plain prints markdown as is instead of rendering it for a terminal.
	Plain bool

	Open func(ctx context.Context) (*service.Service, error)

	svc *service.Service
}

func (e *Env) service(ctx context.Context) (*service.Service, error) {
	if e.svc != nil {
		return e.svc, nil
	}
	if e.Open == nil {
		return nil, errors.New("no store configured")
	}
	svc, err := e.Open(ctx)
	if err != nil {
		return nil, err
	}
	e.svc = svc
	return svc, nil
}

// Register adds every command to c, grouped like the screens of the app.
func Register(c *subcommands.Commander, env *Env) {
	c.Register(&summaryCmd{env: env}, "treasury")
	c.Register(&txCmd{env: env}, "treasury")
	c.Register(&addCmd{env: env}, "treasury")
	c.Register(&countCmd{env: env}, "treasury")
	c.Register(&exportCmd{env: env}, "treasury")
	c.Register(&importCmd{env: env}, "treasury")

	c.Register(&dayCmd{env: env}, "shipping")
	c.Register(&yearCmd{env: env}, "shipping")
	c.Register(&channelCmd{env: env}, "shipping")
	c.Register(&cashCmd{env: env}, "shipping")
	c.Register(&xlsxCmd{env: env}, "shipping")

	c.Register(&customersCmd{env: env}, "customers")
	c.Register(&customerAddCmd{env: env}, "customers")
	c.Register(&debtCmd{env: env}, "customers")
}

func (e *Env) printMarkdown(md string) {
	if e.Plain {
		fmt.Fprint(e.Out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(e.Out, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(e.Out, md)
		return
	}
	fmt.Fprint(e.Out, out)
}

// fail reports err and maps it to an exit status: invalid input is a usage
// error, anything else a failure.
func (e *Env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintf(e.Err, "Error: %v\n", err)
	if errors.Is(err, domain.ErrValidation) || errors.Is(err, domain.ErrImportFormat) || errors.Is(err, domain.ErrNotFound) {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// parseCounts reads denomination counts written as value=count.
func parseCounts(args []string) ([]domain.CashDenomination, error) {
	counts := make([]domain.CashDenomination, 0, len(args))
	for _, arg := range args {
		rawValue, rawCount, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not value=count", domain.ErrValidation, arg)
		}
		value, err := decimal.NewFromString(strings.TrimSpace(rawValue))
		if err != nil {
			return nil, fmt.Errorf("%w: denomination %q is not a number", domain.ErrValidation, rawValue)
		}
		count, err := strconv.Atoi(strings.TrimSpace(rawCount))
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w: count %q is not a non-negative integer", domain.ErrValidation, rawCount)
		}
		counts = append(counts, domain.CashDenomination{Value: value, Count: count})
	}
	return counts, nil
}

package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/Mshaban73/Cashier/internal/domain"
)

type summaryCmd struct {
	env *Env
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "show treasury income, expense and balance" }
func (*summaryCmd) Usage() string {
	return `cashier summary

  Prints the totals over every treasury transaction.
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	c.env.printMarkdown(c.env.Renderer.Summary(svc.Summary(ctx)))
	return subcommands.ExitSuccess
}

type txCmd struct {
	env   *Env
	query string
	start string
	end   string
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list treasury transactions with running balance" }
func (*txCmd) Usage() string {
	return `cashier tx [-q <text>] [-s <YYYY-MM-DD>] [-e <YYYY-MM-DD>]

  Lists transactions newest first. Each bound is inclusive and optional.
`
}

func (c *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.query, "q", "", "Case-insensitive text to look for in descriptions.")
	f.StringVar(&c.start, "s", "", "Earliest day to include.")
	f.StringVar(&c.end, "e", "", "Latest day to include.")
}

func (c *txCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	filter := domain.TransactionFilter{Query: c.query}
	if c.start != "" {
		start, err := domain.ParseDay(c.start)
		if err != nil {
			return c.env.fail(err)
		}
		filter.Start = &start
	}
	if c.end != "" {
		end, err := domain.ParseDay(c.end)
		if err != nil {
			return c.env.fail(err)
		}
		filter.End = &end
	}

	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	c.env.printMarkdown(c.env.Renderer.Transactions(svc.TransactionsView(ctx, filter)))
	return subcommands.ExitSuccess
}

type addCmd struct {
	env         *Env
	kind        string
	description string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a treasury income or expense" }
func (*addCmd) Usage() string {
	return `cashier add -k <income|expense> -m <description> <amount>

Usage Examples:
$ cashier add -k income -m "بيع" 1000
$ cashier add -k expense -m "مصاريف" 300
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "k", "income", "Transaction type: income or expense.")
	f.StringVar(&c.description, "m", "", "Description (required).")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(c.env.Err, "Error: exactly one amount is required.")
		return subcommands.ExitUsageError
	}
	kind, ok := domain.ParseKind(c.kind)
	if !ok {
		fmt.Fprintf(c.env.Err, "Error: unknown type %q.\n", c.kind)
		return subcommands.ExitUsageError
	}

	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	tx, err := svc.AddTransaction(ctx, c.description, f.Arg(0), kind)
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "Added %s %s (%s)\n", tx.Kind, tx.Amount, tx.ID)
	c.env.printMarkdown(c.env.Renderer.Summary(svc.Summary(ctx)))
	return subcommands.ExitSuccess
}

type countCmd struct {
	env *Env
}

func (*countCmd) Name() string     { return "count" }
func (*countCmd) Synopsis() string { return "compare a cash count with the treasury balance" }
func (*countCmd) Usage() string {
	return `cashier count <value>=<count>...

  Totals the counted notes and coins and reports a shortage or surplus against
  the treasury balance. Values outside 200 100 50 20 10 5 1 0.5 are ignored.

Usage Examples:
$ cashier count 200=2 50=1
`
}
func (*countCmd) SetFlags(*flag.FlagSet) {}

func (c *countCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	counts, err := parseCounts(f.Args())
	if err != nil {
		return c.env.fail(err)
	}
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	c.env.printMarkdown(c.env.Renderer.CashCount(svc.CountTreasuryCash(ctx, counts)))
	return subcommands.ExitSuccess
}

type exportCmd struct {
	env    *Env
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write the treasury backup file" }
func (*exportCmd) Usage() string {
	return `cashier export [-o <file>]

  Writes every treasury transaction to a backup file, by default
  backup_treasury_<today>.json in the current directory. Use -o - for stdout.
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.output, "o", "", "Output file.")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	data, filename, err := svc.ExportBackup(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	if c.output == "-" {
		_, _ = c.env.Out.Write(data)
		return subcommands.ExitSuccess
	}
	if c.output != "" {
		filename = c.output
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "Backup written to %s\n", filename)
	return subcommands.ExitSuccess
}

type importCmd struct {
	env *Env
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "merge a treasury backup file" }
func (*importCmd) Usage() string {
	return `cashier import <file>

  Merges the backup into the treasury. Entries with an id already present are
  replaced by the file's version. A malformed file changes nothing.
`
}
func (*importCmd) SetFlags(*flag.FlagSet) {}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(c.env.Err, "Error: exactly one backup file is required.")
		return subcommands.ExitUsageError
	}
	data, err := os.ReadFile(strings.TrimSpace(f.Arg(0)))
	if err != nil {
		return c.env.fail(err)
	}
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	n, err := svc.ImportBackup(ctx, data)
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "Imported, %d transactions in the treasury\n", n)
	return subcommands.ExitSuccess
}

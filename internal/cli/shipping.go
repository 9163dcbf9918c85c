package cli

import (
	"context"
	"flag"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/subcommands"

	"github.com/Mshaban73/Cashier/internal/domain"
	"github.com/Mshaban73/Cashier/internal/report"
	"github.com/Mshaban73/Cashier/internal/service"
)

func dayOrToday(svc *service.Service, date string) string {
	if date == "" {
		return svc.Today()
	}
	return date
}

type dayCmd struct {
	env  *Env
	date string
}

func (*dayCmd) Name() string     { return "day" }
func (*dayCmd) Synopsis() string { return "show one day of the shipping worksheet" }
func (*dayCmd) Usage() string {
	return `cashier day [-d <YYYY-MM-DD>]

  Shows the channels, cash count, receivables, grand total and the difference
  from the previous day.
`
}

func (c *dayCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Day to show. Defaults to today.")
}

func (c *dayCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	day, err := svc.ShippingDay(ctx, dayOrToday(svc, c.date))
	if err != nil {
		return c.env.fail(err)
	}
	c.env.printMarkdown(c.env.Renderer.ShippingDay(day))
	return subcommands.ExitSuccess
}

type yearCmd struct {
	env *Env
	all bool
}

func (*yearCmd) Name() string     { return "year" }
func (*yearCmd) Synopsis() string { return "show the shipping worksheet for the tracked year" }
func (*yearCmd) Usage() string {
	return `cashier year [-all]

  Lists the days with activity. -all lists every day of the year.
`
}

func (c *yearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Include days without activity.")
}

func (c *yearCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	c.env.printMarkdown(c.env.Renderer.ShippingYear(svc.ShippingYear(ctx), !c.all))
	return subcommands.ExitSuccess
}

type channelCmd struct {
	env  *Env
	date string
}

func (*channelCmd) Name() string     { return "channel" }
func (*channelCmd) Synopsis() string { return "set a payment channel amount for a day" }
func (*channelCmd) Usage() string {
	return `cashier channel [-d <YYYY-MM-DD>] <channel> <amount>

  Overwrites the channel amount. Channels: fawry instapay cards aman bedayti cash masary.
  An amount that is not a number is stored as 0.
`
}

func (c *channelCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Day to update. Defaults to today.")
}

func (c *channelCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(c.env.Err, "Error: a channel and an amount are required.")
		return subcommands.ExitUsageError
	}
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	channel := domain.PaymentChannel(strings.ToLower(f.Arg(0)))
	day, err := svc.SetPaymentChannel(ctx, dayOrToday(svc, c.date), channel, f.Arg(1))
	if err != nil {
		return c.env.fail(err)
	}
	c.env.printMarkdown(c.env.Renderer.ShippingDay(day))
	return subcommands.ExitSuccess
}

type cashCmd struct {
	env  *Env
	date string
}

func (*cashCmd) Name() string     { return "cash" }
func (*cashCmd) Synopsis() string { return "replace the cash count of a shipping day" }
func (*cashCmd) Usage() string {
	return `cashier cash [-d <YYYY-MM-DD>] <value>=<count>...

  Replaces the day's cash count. Zero counts are dropped.

Usage Examples:
$ cashier cash -d 2024-03-10 50=1 10=3
`
}

func (c *cashCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Day to update. Defaults to today.")
}

func (c *cashCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	counts, err := parseCounts(f.Args())
	if err != nil {
		return c.env.fail(err)
	}
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	day, err := svc.SetCashDetails(ctx, dayOrToday(svc, c.date), counts)
	if err != nil {
		return c.env.fail(err)
	}
	c.env.printMarkdown(c.env.Renderer.ShippingDay(day))
	return subcommands.ExitSuccess
}

type xlsxCmd struct {
	env    *Env
	what   string
	output string
}

func (*xlsxCmd) Name() string     { return "xlsx" }
func (*xlsxCmd) Synopsis() string { return "export the shipping year or the treasury to a spreadsheet" }
func (*xlsxCmd) Usage() string {
	return `cashier xlsx [-w shipping|treasury] [-o <file>]
`
}

func (c *xlsxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.what, "w", "shipping", "What to export: shipping or treasury.")
	f.StringVar(&c.output, "o", "", "Output file. Defaults to <what>_<year or day>.xlsx.")
}

func (c *xlsxCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}

	var filename string
	var writeErr error
	switch c.what {
	case "shipping":
		filename = "shipping_" + strconv.Itoa(svc.Year()) + ".xlsx"
		f, err := report.ShippingWorkbook(svc.ShippingYear(ctx))
		if err != nil {
			return c.env.fail(err)
		}
		defer f.Close()
		if c.output != "" {
			filename = c.output
		}
		writeErr = f.SaveAs(filename)
	case "treasury":
		filename = "treasury_" + svc.Today() + ".xlsx"
		f, err := report.TreasuryWorkbook(svc.TransactionsView(ctx, domain.TransactionFilter{}), svc.Summary(ctx))
		if err != nil {
			return c.env.fail(err)
		}
		defer f.Close()
		if c.output != "" {
			filename = c.output
		}
		writeErr = f.SaveAs(filename)
	default:
		fmt.Fprintf(c.env.Err, "Error: unknown export %q.\n", c.what)
		return subcommands.ExitUsageError
	}
	if writeErr != nil {
		return c.env.fail(writeErr)
	}
	fmt.Fprintf(c.env.Out, "Spreadsheet written to %s\n", filename)
	return subcommands.ExitSuccess
}

package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"
)

type customersCmd struct {
	env *Env
	id  string
}

func (*customersCmd) Name() string     { return "customers" }
func (*customersCmd) Synopsis() string { return "list customers and their balances" }
func (*customersCmd) Usage() string {
	return `cashier customers [-id <customer id>]

  Lists every customer with the outstanding total, or one customer's entries.
`
}

func (c *customersCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.id, "id", "", "Show the entries of this customer.")
}

func (c *customersCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	if c.id != "" {
		customer, err := svc.Customer(ctx, c.id)
		if err != nil {
			return c.env.fail(err)
		}
		c.env.printMarkdown(c.env.Renderer.Customer(customer))
		return subcommands.ExitSuccess
	}
	c.env.printMarkdown(c.env.Renderer.Customers(svc.Customers(ctx)))
	return subcommands.ExitSuccess
}

type customerAddCmd struct {
	env *Env
}

func (*customerAddCmd) Name() string     { return "customer-add" }
func (*customerAddCmd) Synopsis() string { return "create a customer" }
func (*customerAddCmd) Usage() string {
	return `cashier customer-add <name>
`
}
func (*customerAddCmd) SetFlags(*flag.FlagSet) {}

func (c *customerAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	customer, err := svc.AddCustomer(ctx, strings.Join(f.Args(), " "))
	if err != nil {
		return c.env.fail(err)
	}
	fmt.Fprintf(c.env.Out, "Customer %s created with id %s\n", customer.Name, customer.ID)
	return subcommands.ExitSuccess
}

type debtCmd struct {
	env         *Env
	date        string
	description string
}

func (*debtCmd) Name() string     { return "debt" }
func (*debtCmd) Synopsis() string { return "record a customer debt or payment" }
func (*debtCmd) Usage() string {
	return `cashier debt [-d <YYYY-MM-DD>] [-m <description>] <customer id> <amount>

  A positive amount adds debt, a negative one records a payment. The new
  receivables total is written into every shipping day from -d to year end.
`
}

func (c *debtCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", "", "Shipping day the entry belongs to. Defaults to today.")
	f.StringVar(&c.description, "m", "", "Description.")
}

func (c *debtCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(c.env.Err, "Error: a customer id and an amount are required.")
		return subcommands.ExitUsageError
	}
	svc, err := c.env.service(ctx)
	if err != nil {
		return c.env.fail(err)
	}
	customer, err := svc.AddCustomerTransaction(ctx, dayOrToday(svc, c.date), f.Arg(0), c.description, f.Arg(1))
	if err != nil {
		return c.env.fail(err)
	}
	c.env.printMarkdown(c.env.Renderer.Customer(customer))
	return subcommands.ExitSuccess
}

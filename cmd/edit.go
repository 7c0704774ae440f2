package cmd

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/bitbaby"
	"github.com/etnz/bitbaby/date"
)

// addCmd holds the flags for the 'add' subcommand.
type addCmd struct {
	pair   string
	amount string
	profit string
	status string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "append a row to the ledger" }
func (*addCmd) Usage() string {
	return `bb add [-pair <pair>] [-amount <amount>] [-profit <text>] [-status hit|miss|over]

  Appends a row. Without flags the row is empty; fees are derived from the amount.

Usage Examples:
$ bb add -pair BTC/USDT -amount 1,250.50 -status over
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.pair, "pair", "", "Trading pair, e.g. BTC/USDT.")
	f.StringVar(&c.amount, "amount", "", "Trade amount, in USDT.")
	f.StringVar(&c.profit, "profit", "", "Target profit, free text.")
	f.StringVar(&c.status, "status", string(bitbaby.StatusHit), "Target status: hit, miss or over.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	id := s.AddRow()
	for _, e := range []struct {
		field bitbaby.Field
		value string
	}{
		{bitbaby.FieldPair, c.pair},
		{bitbaby.FieldAmount, c.amount},
		{bitbaby.FieldProfit, c.profit},
		{bitbaby.FieldStatus, c.status},
	} {
		if err := s.Edit(id, e.field, e.value); err != nil {
			fmt.Fprintf(stderr, "Error editing row: %v\n", err)
			return subcommands.ExitFailure
		}
	}
	l := s.Ledger()
	r, _ := l.Row(id)
	fmt.Fprintln(stdout, describeRow(l.Len(), r))
	return closeSession(ctx, s)
}

type rmCmd struct{}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete a row from the ledger" }
func (*rmCmd) Usage() string {
	return `bb rm <row>

  Deletes the row with this number, as displayed by 'bb show'.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (*rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(stderr, "rm expects exactly one row number")
		return subcommands.ExitUsageError
	}
	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	id, err := rowID(s, f.Arg(0))
	if err == nil {
		err = s.DeleteRow(id)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error deleting row: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Deleted row %s\n", f.Arg(0))
	return closeSession(ctx, s)
}

type setCmd struct{}

func (*setCmd) Name() string     { return "set" }
func (*setCmd) Synopsis() string { return "edit a cell of the ledger" }
func (*setCmd) Usage() string {
	return `bb set <row> <field> <value>

  Writes value into a field of the row. Fields are pair, amount, profit and
  status. Fee columns follow the amount and cannot be set.

Usage Examples:
$ bb set 2 amount 3000
$ bb set 2 status miss
`
}

func (*setCmd) SetFlags(*flag.FlagSet) {}

func (*setCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprintln(stderr, "set expects a row number, a field and a value")
		return subcommands.ExitUsageError
	}
	field, err := bitbaby.ParseField(f.Arg(1))
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	status := edit(s, f.Arg(0), field, strings.Join(f.Args()[2:], " "))
	if status != subcommands.ExitSuccess {
		return status
	}
	return closeSession(ctx, s)
}

// edit applies one cell edit and prints the resulting row.
func edit(s *bitbaby.Session, row string, field bitbaby.Field, value string) subcommands.ExitStatus {
	id, err := rowID(s, row)
	if err == nil {
		err = s.Edit(id, field, value)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error editing row: %v\n", err)
		return subcommands.ExitFailure
	}
	r, _ := s.Ledger().Row(id)
	fmt.Fprintln(stdout, describeRow(rowNumber(s, id), r))
	return subcommands.ExitSuccess
}

func rowNumber(s *bitbaby.Session, id string) int {
	i := 0
	for r := range s.Ledger().Rows() {
		i++
		if r.ID == id {
			return i
		}
	}
	return 0
}

type dateCmd struct{}

func (*dateCmd) Name() string     { return "date" }
func (*dateCmd) Synopsis() string { return "display or set the trade date" }
func (*dateCmd) Usage() string {
	return `bb date [<date>]

  Without argument, prints the trade date. Otherwise sets it; the date is
  "today", "yesterday" or YYYY-MM-DD.
`
}

func (*dateCmd) SetFlags(*flag.FlagSet) {}

func (*dateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if f.NArg() > 0 {
		d, err := date.Resolve(f.Arg(0), date.Today())
		if err != nil {
			fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
		s.SetDate(d.String())
	}
	fmt.Fprintln(stdout, s.Ledger().Date())
	return closeSession(ctx, s)
}

type resetCmd struct {
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "replace every row with the demo rows" }
func (*resetCmd) Usage() string {
	return `bb reset [-y]

  Replaces all rows with the demo rows after confirmation. The trade date is
  kept. Without a terminal, -y is required.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation.")
}

func (c *resetCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	done := s.Reset(func() bool {
		return c.yes || confirm("Reset all rows to the demo data?")
	})
	if !done {
		fmt.Fprintln(stdout, "Reset cancelled")
	} else {
		fmt.Fprintln(stdout, "Ledger reset to the demo rows")
	}
	return closeSession(ctx, s)
}

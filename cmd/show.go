package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"golang.org/x/term"

	"github.com/etnz/bitbaby/renderer"
)

type showCmd struct {
	style string
	width int
	raw   bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the ledger with its fee totals" }
func (*showCmd) Usage() string {
	return `bb show [-style <style>] [-width <columns>] [-raw]

  Displays every row of the ledger, its three fee tiers, and the totals.
  Output is styled for the terminal; use -raw to print plain markdown.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.style, "style", "dark", "Terminal style: dark, light, notty or ascii.")
	f.IntVar(&c.width, "width", 0, "Word wrap width, the terminal width by default.")
	f.BoolVar(&c.raw, "raw", false, "Print markdown without terminal styling.")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	md := renderer.RenderSnapshot(s.Snapshot())
	if c.raw {
		fmt.Fprint(stdout, md)
		return closeSession(ctx, s)
	}

	out, err := renderer.Terminal(md, c.wrapWidth(), c.style)
	if err != nil {
		fmt.Fprintf(stderr, "Error rendering ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprint(stdout, out)
	return closeSession(ctx, s)
}

func (c *showCmd) wrapWidth() int {
	if c.width > 0 {
		return c.width
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 100
}

type totalsCmd struct{}

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "print the sum of each fee tier" }
func (*totalsCmd) Usage() string {
	return `bb totals

  Prints the totals of the L1, L2 and L3 fee columns.
`
}

func (*totalsCmd) SetFlags(*flag.FlagSet) {}

func (*totalsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	labels := s.Totals().Labels()
	fmt.Fprintf(stdout, "L1 %s\nL2 %s\nL3 %s\n", labels[0], labels[1], labels[2])
	return closeSession(ctx, s)
}

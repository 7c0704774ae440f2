package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/bitbaby"
	"github.com/etnz/bitbaby/date"
	"github.com/etnz/bitbaby/renderer"
)

type replCmd struct{}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "edit the ledger interactively" }
func (*replCmd) Usage() string {
	return `bb repl

  Starts an interactive session. Edits are saved automatically shortly after
  the last change, and on exit. Type "help" for the list of commands.
`
}

func (*replCmd) SetFlags(*flag.FlagSet) {}

const replHelp = `commands:
  show                     display the ledger
  totals                   display the fee totals
  add [pair [amount]]      append a row
  rm <row>                 delete a row
  set <row> <field> <text> edit a cell (pair, amount, profit, status)
  date [<date>]            display or set the trade date
  reset                    replace every row with the demo rows
  csv [<dir>]              export data.csv
  png [<dir>]              export a PNG snapshot
  md | html                print a snapshot
  save                     save now
  quit                     save and exit
`

func (*replCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	scanner := bufio.NewScanner(stdin)
	ask := func(prompt string) bool {
		fmt.Fprintf(stdout, "%s [y/N] ", prompt)
		if !scanner.Scan() {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "y", "yes":
			return true
		}
		return false
	}

	fmt.Fprintf(stdout, "BitBaby ledger %s, %d rows. Type help for commands.\n", s.Ledger().Date(), s.Ledger().Len())
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			break
		}
		if quit := runLine(ctx, s, scanner.Text(), ask); quit {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "Error reading input: %v\n", err)
	}
	return closeSession(ctx, s)
}

// runLine executes one repl line and reports whether the repl should stop.
func runLine(ctx context.Context, s *bitbaby.Session, line string, ask func(string) bool) (quit bool) {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "help", "?":
		fmt.Fprint(stdout, replHelp)
	case "quit", "exit", "q":
		return true
	case "show":
		out, err := renderer.Terminal(renderer.RenderSnapshot(s.Snapshot()), 100, "notty")
		if err != nil {
			fmt.Fprintf(stderr, "Error rendering ledger: %v\n", err)
			return false
		}
		fmt.Fprint(stdout, out)
	case "totals":
		labels := s.Totals().Labels()
		fmt.Fprintf(stdout, "L1 %s  L2 %s  L3 %s\n", labels[0], labels[1], labels[2])
	case "add":
		id := s.AddRow()
		if len(args) > 1 {
			_ = s.Edit(id, bitbaby.FieldPair, args[1])
		}
		if len(args) > 2 {
			_ = s.Edit(id, bitbaby.FieldAmount, args[2])
		}
		r, _ := s.Ledger().Row(id)
		fmt.Fprintln(stdout, describeRow(rowNumber(s, id), r))
	case "rm":
		if len(args) != 2 {
			fmt.Fprintln(stderr, "usage: rm <row>")
			return false
		}
		id, err := rowID(s, args[1])
		if err == nil {
			err = s.DeleteRow(id)
		}
		if err != nil {
			fmt.Fprintf(stderr, "Error deleting row: %v\n", err)
		}
	case "set":
		if len(args) < 3 {
			fmt.Fprintln(stderr, "usage: set <row> <field> <text>")
			return false
		}
		field, err := bitbaby.ParseField(args[2])
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return false
		}
		edit(s, args[1], field, restOf(line, 3))
	case "date":
		if len(args) > 1 {
			d, err := date.Resolve(args[1], date.Today())
			if err != nil {
				fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
				return false
			}
			s.SetDate(d.String())
		}
		fmt.Fprintln(stdout, s.Ledger().Date())
	case "reset":
		if s.Reset(func() bool { return ask("Reset all rows to the demo data?") }) {
			fmt.Fprintln(stdout, "Ledger reset to the demo rows")
		} else {
			fmt.Fprintln(stdout, "Reset cancelled")
		}
	case "csv":
		path, err := s.ExportCSV(exportDir(optArg(args, 1)))
		if err != nil {
			fmt.Fprintf(stderr, "Error exporting CSV: %v\n", err)
			return false
		}
		fmt.Fprintf(stdout, "Exported %s\n", path)
	case "png", "md", "html":
		if err := writeSnapshot(ctx, s, args[0], optArg(args, 1)); err != nil {
			fmt.Fprintf(stderr, "Error exporting snapshot: %v\n", err)
		}
	case "save":
		if err := s.Flush(ctx); err != nil {
			fmt.Fprintf(stderr, "Error saving ledger: %v\n", err)
			return false
		}
		fmt.Fprintln(stdout, "Saved")
	default:
		fmt.Fprintf(stderr, "unknown command %q, type help\n", args[0])
	}
	return false
}

func optArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

// restOf returns line without its first n words, inner spacing kept.
func restOf(line string, n int) string {
	rest := strings.TrimSpace(line)
	for range n {
		i := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\t' })
		if i < 0 {
			return ""
		}
		rest = strings.TrimLeft(rest[i:], " \t")
	}
	return rest
}

// Package cmd implements the CLI application to manage the fee ledger.
package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/google/subcommands"
	"github.com/rs/zerolog/log"
	"golang.org/x/term"

	"github.com/etnz/bitbaby"
)

// Commands lists every subcommand of the application.
var Commands = []subcommands.Command{
	&showCmd{},
	&totalsCmd{},
	&addCmd{},
	&rmCmd{},
	&setCmd{},
	&dateCmd{},
	&resetCmd{},
	&exportCSVCmd{},
	&snapshotCmd{},
	&replCmd{},
	&topicCmd{},
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, group(cmd.Name()))
	}
}

func group(name string) string {
	switch name {
	case "show", "totals", "repl":
		return "view"
	case "topic":
		return "help"
	case "export-csv", "snapshot":
		return "export"
	}
	return "edit"
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to the configuration file (bitbaby.yaml in . or $HOME/.config/bitbaby by default)")
var verbose = flag.Bool("v", false, "Verbose logging")

// cfg is the configuration loaded by Setup.
var cfg = DefaultConfig()

// Standard streams, replaced in tests.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// isTerminal reports whether stdin is an interactive terminal.
var isTerminal = func() bool { return term.IsTerminal(int(os.Stdin.Fd())) }

// Setup loads the configuration and configures logging. It must be called
// after the global flags are parsed.
func Setup() error {
	c, err := LoadConfig(*configFile)
	if err != nil {
		return err
	}
	cfg = c
	SetupLogging(cfg.Log.Level, *verbose)
	return nil
}

// OpenSession opens the configured ledger.
func OpenSession(ctx context.Context) (*bitbaby.Session, error) {
	store := bitbaby.NewFileStore(cfg.Store.Dir)
	s, err := bitbaby.Open(ctx, store,
		bitbaby.WithKey(cfg.Store.Key),
		bitbaby.WithDebounce(cfg.Autosave.Debounce),
		bitbaby.WithLogger(log.Logger),
	)
	if err != nil {
		return nil, err
	}
	if s.Recovered() {
		fmt.Fprintf(stderr, "Warning: the saved ledger could not be read, a copy was kept as %s.corrupt and the demo rows were loaded.\n", cfg.Store.Key)
	}
	return s, nil
}

// closeSession saves s and turns a failure into an exit status.
func closeSession(ctx context.Context, s *bitbaby.Session) subcommands.ExitStatus {
	if err := s.Close(ctx); err != nil {
		fmt.Fprintf(stderr, "Error saving ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// rowID resolves a displayed row number to a row ID.
func rowID(s *bitbaby.Session, arg string) (string, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil {
		return "", fmt.Errorf("invalid row number %q", arg)
	}
	return s.RowID(n)
}

// confirm asks a yes/no question on the terminal. Without a terminal the answer is no.
func confirm(prompt string) bool {
	if !isTerminal() {
		return false
	}
	fmt.Fprintf(stdout, "%s [y/N] ", prompt)
	line, err := bufio.NewReader(stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// describeRow formats the i-th row on a single line.
func describeRow(i int, r *bitbaby.Row) string {
	f := r.Fees()
	pair := r.Pair
	if pair == "" {
		pair = bitbaby.Placeholder
	}
	return fmt.Sprintf("#%d %s amount=%q L1=%s L2=%s L3=%s status=%s", i, pair, r.Amount(), f.L1, f.L2, f.L3, r.Status)
}

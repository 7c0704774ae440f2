package cmd

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/require"

	"github.com/etnz/bitbaby"
)

// setupTest points the application at a temporary store and captures the standard streams.
func setupTest(t *testing.T) (dir string, out, errOut *bytes.Buffer) {
	t.Helper()
	dir = t.TempDir()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}

	oldCfg, oldIn, oldOut, oldErr, oldTerm := cfg, stdin, stdout, stderr, isTerminal
	t.Cleanup(func() {
		cfg, stdin, stdout, stderr, isTerminal = oldCfg, oldIn, oldOut, oldErr, oldTerm
	})

	cfg = DefaultConfig()
	cfg.Store.Dir = filepath.Join(dir, "store")
	cfg.Export.Dir = filepath.Join(dir, "export")
	cfg.Export.Scale = 1
	cfg.Autosave.Debounce = time.Hour
	stdin = strings.NewReader("")
	stdout, stderr = out, errOut
	isTerminal = func() bool { return false }
	return dir, out, errOut
}

// run executes c with args the way the commander would.
func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(f)
	require.NoError(t, f.Parse(args))
	return c.Execute(context.Background(), f)
}

// stored reads the ledger saved in the test store.
func stored(t *testing.T) *bitbaby.Ledger {
	t.Helper()
	f, err := os.Open(filepath.Join(cfg.Store.Dir, cfg.Store.Key+".json"))
	require.NoError(t, err)
	defer f.Close()
	l, err := bitbaby.DecodeLedger(f)
	require.NoError(t, err)
	return l
}

// cells returns the displayed text of field in every stored row.
func cells(t *testing.T, field bitbaby.Field) []string {
	t.Helper()
	var got []string
	for r := range stored(t).Rows() {
		got = append(got, r.Cell(field))
	}
	return got
}

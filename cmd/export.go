package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/etnz/bitbaby"
	"github.com/etnz/bitbaby/renderer"
)

type exportCSVCmd struct {
	dir string
}

func (*exportCSVCmd) Name() string     { return "export-csv" }
func (*exportCSVCmd) Synopsis() string { return "export the ledger as data.csv" }
func (*exportCSVCmd) Usage() string {
	return `bb export-csv [-o <dir>]

  Writes the ledger as data.csv into the export directory.
`
}

func (c *exportCSVCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "o", "", "Output directory, export.dir by default.")
}

func (c *exportCSVCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	path, err := s.ExportCSV(exportDir(c.dir))
	if err != nil {
		fmt.Fprintf(stderr, "Error exporting CSV: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout, "Exported %s\n", path)
	return closeSession(ctx, s)
}

type snapshotCmd struct {
	format string
	dir    string
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "export a snapshot of the ledger as an image or a document" }
func (*snapshotCmd) Usage() string {
	return `bb snapshot [-format png|md|html] [-o <dir>]

  Renders the ledger and its totals. PNG snapshots are written into the export
  directory as BitBaby_PnL_<timestamp>.png; md and html are printed.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "format", "png", "Snapshot format: png, md or html.")
	f.StringVar(&c.dir, "o", "", "Output directory of png snapshots, export.dir by default.")
}

func (c *snapshotCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format := strings.ToLower(c.format)
	switch format {
	case "png", "md", "html":
	default:
		fmt.Fprintf(stderr, "Error: unknown snapshot format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	s, err := OpenSession(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := writeSnapshot(ctx, s, format, c.dir); err != nil {
		fmt.Fprintf(stderr, "Error exporting snapshot: %v\n", err)
		return subcommands.ExitFailure
	}
	return closeSession(ctx, s)
}

// writeSnapshot renders the session in format; png goes to a file, the others to stdout.
func writeSnapshot(ctx context.Context, s *bitbaby.Session, format, dir string) error {
	switch format {
	case "md":
		fmt.Fprint(stdout, renderer.RenderSnapshot(s.Snapshot()))
	case "html":
		html, err := renderer.HTML(renderer.RenderSnapshot(s.Snapshot()))
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, html)
	default:
		r, err := renderer.NewPNG(cfg.Export.Scale, cfg.Export.Background)
		if err != nil {
			return err
		}
		path, err := s.ExportPNG(ctx, r, exportDir(dir))
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "Exported %s\n", path)
	}
	return nil
}

// exportDir returns dir, or the configured export directory, and makes sure it exists.
func exportDir(dir string) string {
	if dir == "" {
		dir = cfg.Export.Dir
	}
	if err := os.MkdirAll(filepath.Clean(dir), 0o755); err != nil {
		fmt.Fprintf(stderr, "Warning: %v\n", err)
	}
	return dir
}

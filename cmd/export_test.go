package cmd

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSV(t *testing.T) {
	dir, out, _ := setupTest(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &exportCSVCmd{}, "-o", dir))

	data, err := os.ReadFile(filepath.Join(dir, "data.csv"))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Pair,Amount,L1,L2,L3,Profit,Status", lines[0])
	assert.Contains(t, out.String(), "data.csv")
}

func TestExportCSVDefaultDir(t *testing.T) {
	setupTest(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &exportCSVCmd{}))
	assert.FileExists(t, filepath.Join(cfg.Export.Dir, "data.csv"))
}

func TestSnapshotMarkdown(t *testing.T) {
	_, out, _ := setupTest(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &snapshotCmd{}, "-format", "md"))
	assert.Contains(t, out.String(), "# BitBaby PnL ")
	assert.Contains(t, out.String(), "| Total | 140.00 U | 70.00 U | 35.00 U |")
}

func TestSnapshotHTML(t *testing.T) {
	_, out, _ := setupTest(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &snapshotCmd{}, "-format", "HTML"))
	assert.Contains(t, out.String(), "<table>")
	assert.Contains(t, out.String(), "140.00 U")
}

func TestSnapshotPNG(t *testing.T) {
	dir, _, _ := setupTest(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &snapshotCmd{}, "-o", dir))

	matches, err := filepath.Glob(filepath.Join(dir, "BitBaby_PnL_*.png"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	f, err := os.Open(matches[0])
	require.NoError(t, err)
	defer f.Close()
	_, err = png.Decode(f)
	assert.NoError(t, err)
}

func TestSnapshotErrors(t *testing.T) {
	dir, _, _ := setupTest(t)
	assert.Equal(t, subcommands.ExitUsageError, run(t, &snapshotCmd{}, "-format", "gif"))

	cfg.Export.Background = "not a color"
	assert.Equal(t, subcommands.ExitFailure, run(t, &snapshotCmd{}, "-o", dir))
	matches, _ := filepath.Glob(filepath.Join(dir, "*.png"))
	assert.Empty(t, matches)
}

func TestShow(t *testing.T) {
	_, out, _ := setupTest(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &showCmd{}, "-raw"))
	assert.Contains(t, out.String(), "| ETH/USDT | 5000 | 100.00 | 50.00 | 25.00 | - | Target hit |")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &showCmd{}, "-style", "notty", "-width", "160"))
	assert.Contains(t, out.String(), "DOGE/USDT")
	assert.Contains(t, out.String(), "140.00 U")
}

func TestTopic(t *testing.T) {
	_, out, errOut := setupTest(t)
	require.Equal(t, subcommands.ExitSuccess, run(t, &topicCmd{}))
	assert.Contains(t, out.String(), "* fees:")

	out.Reset()
	require.Equal(t, subcommands.ExitSuccess, run(t, &topicCmd{}, "fees"))
	assert.Contains(t, out.String(), "| L3 | 0.5% |")

	assert.Equal(t, subcommands.ExitFailure, run(t, &topicCmd{}, "nope"))
	assert.Contains(t, errOut.String(), `topic "nope" not found`)
}

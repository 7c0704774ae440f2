package bitbaby

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"time"
)

// ErrNoRasterizer is returned when an image export has no renderer to delegate to.
var ErrNoRasterizer = errors.New("snapshot renderer unavailable")

// Placeholder is the text shown for an empty cell in a snapshot.
const Placeholder = "-"

// Cell is the read-only text of one snapshot cell.
type Cell struct {
	Text  string
	Tag   Tag    // sign class of numeric cells
	Class string // status class of the status cell, "" otherwise
}

// Snapshot is a detached, read-only textual projection of a ledger.
//
// It has the ledger columns in order, without any action column, and a
// footer with the fee totals.
type Snapshot struct {
	Date      string
	Header    []string
	Rows      [][]Cell
	Totals    [3]string
	TotalTags [3]Tag
}

// TakeSnapshot projects l into a Snapshot. The snapshot shares nothing with l.
func TakeSnapshot(l *Ledger) *Snapshot {
	s := &Snapshot{
		Date:   l.date,
		Header: append([]string(nil), CSVHeader...),
		Rows:   make([][]Cell, 0, len(l.rows)),
	}
	if s.Date == "" {
		s.Date = "DATE"
	}
	for _, r := range l.rows {
		cells := make([]Cell, 0, len(Fields))
		for _, f := range Fields {
			cells = append(cells, snapshotCell(r, f))
		}
		s.Rows = append(s.Rows, cells)
	}

	totals := AggregateText(s.feeCells())
	s.Totals = totals.Labels()
	for i, c := range totals.Levels() {
		s.TotalTags[i] = c.Tag()
	}
	return s
}

func snapshotCell(r *Row, f Field) Cell {
	switch f {
	case FieldStatus:
		return Cell{Text: r.Status.Label(), Class: r.Status.Class()}
	case FieldL1, FieldL2, FieldL3:
		text := r.Cell(f)
		return Cell{Text: text, Tag: ParseSignedCents(text).Tag()}
	}
	text := r.Cell(f)
	if text == "" {
		text = Placeholder
	}
	return Cell{Text: text}
}

// feeCells iterates over the fee text of each row.
func (s *Snapshot) feeCells() iter.Seq[[3]string] {
	return func(yield func([3]string) bool) {
		for _, row := range s.Rows {
			if !yield([3]string{row[2].Text, row[3].Text, row[4].Text}) {
				return
			}
		}
	}
}

// Rasterizer renders a snapshot into an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, s *Snapshot, w io.Writer) error
}

// PNGFilename returns the name of an image export made at t.
func PNGFilename(t time.Time) string {
	return fmt.Sprintf("BitBaby_PnL_%d.png", t.UnixMilli())
}

package bitbaby

import (
	"errors"
	"fmt"
	"iter"
	"slices"
)

var (
	// ErrRowNotFound is returned when no row has the requested ID or index.
	ErrRowNotFound = errors.New("row not found")
	// ErrUnknownField is returned for a column name that does not exist.
	ErrUnknownField = errors.New("unknown field")
	// ErrReadOnlyField is returned when editing a derived fee column.
	ErrReadOnlyField = errors.New("read-only field")
)

// Effect tells the caller what an edit invalidated.
type Effect int

const (
	// EffectSave means only persistence must be scheduled.
	EffectSave Effect = iota
	// EffectStatus means the status presentation changed.
	EffectStatus
	// EffectTotals means fees changed and totals must be recomputed.
	EffectTotals
)

// Ledger is the trade date and the ordered rows recorded for it.
//
// Row order is insertion order, it is also the storage and export order.
type Ledger struct {
	date string
	rows []*Row
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{rows: make([]*Row, 0)}
}

// Date returns the trade date, as a YYYY-MM-DD string or "" when unset.
func (l *Ledger) Date() string { return l.date }

// SetDate sets the trade date.
func (l *Ledger) SetDate(d string) { l.date = d }

// Len returns the number of rows.
func (l *Ledger) Len() int { return len(l.rows) }

// Rows iterates over rows in order.
func (l *Ledger) Rows() iter.Seq[*Row] { return slices.Values(l.rows) }

// Row returns the row with this id.
func (l *Ledger) Row(id string) (*Row, error) {
	i := l.index(id)
	if i < 0 {
		return nil, fmt.Errorf("%w: %q", ErrRowNotFound, id)
	}
	return l.rows[i], nil
}

// RowAt returns the i-th row, starting at 0.
func (l *Ledger) RowAt(i int) (*Row, error) {
	if i < 0 || i >= len(l.rows) {
		return nil, fmt.Errorf("%w: index %d out of %d rows", ErrRowNotFound, i+1, len(l.rows))
	}
	return l.rows[i], nil
}

func (l *Ledger) index(id string) int {
	return slices.IndexFunc(l.rows, func(r *Row) bool { return r.ID == id })
}

// Append appends rows at the end of the ledger.
func (l *Ledger) Append(rows ...*Row) {
	l.rows = append(l.rows, rows...)
}

// AddRow appends an empty row with the default status and returns it.
func (l *Ledger) AddRow() *Row {
	r := NewRow("", "", "", StatusHit)
	l.Append(r)
	return r
}

// DeleteRow removes the row with this id.
func (l *Ledger) DeleteRow(id string) error {
	i := l.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrRowNotFound, id)
	}
	l.rows = slices.Delete(l.rows, i, i+1)
	return nil
}

// Edit writes value into the field of the row with this id.
// Fee columns cannot be edited, they follow the amount.
func (l *Ledger) Edit(id string, field Field, value string) (Effect, error) {
	r, err := l.Row(id)
	if err != nil {
		return EffectSave, err
	}
	switch field {
	case FieldAmount:
		r.SetAmount(value)
		return EffectTotals, nil
	case FieldPair:
		r.Pair = value
		return EffectSave, nil
	case FieldProfit:
		r.Profit = value
		return EffectSave, nil
	case FieldStatus:
		r.Status = ParseStatus(value)
		return EffectStatus, nil
	case FieldL1, FieldL2, FieldL3:
		return EffectSave, fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	default:
		return EffectSave, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
}

// ResetToDemo replaces every row with the demo set. The date is kept.
func (l *Ledger) ResetToDemo() {
	l.rows = demoRows()
}

// Clone returns a deep copy of l, detached from it.
func (l *Ledger) Clone() *Ledger {
	c := &Ledger{date: l.date, rows: make([]*Row, 0, len(l.rows))}
	for _, r := range l.rows {
		c.rows = append(c.rows, r.clone())
	}
	return c
}

// NewDemoLedger returns a ledger holding only the demo rows.
func NewDemoLedger() *Ledger {
	return &Ledger{rows: demoRows()}
}

func demoRows() []*Row {
	return []*Row{
		NewRow("ETH/USDT", "5000", "", StatusHit),
		NewRow("SOL/USDT", "1200", "", StatusOver),
		NewRow("DOGE/USDT", "800", "", StatusMiss),
	}
}

package bitbaby

import "iter"

// Totals holds the per tier sums of the ledger fees.
type Totals struct {
	L1, L2, L3 Cents
}

// Aggregate sums the fee tiers of rows.
//
// It reads the fees stored on each row, which always equal the value derived
// from the row amount since they can only be written by Row.SetAmount.
func Aggregate(rows iter.Seq[*Row]) Totals {
	var t Totals
	for r := range rows {
		f := r.Fees()
		t.L1 += f.L1
		t.L2 += f.L2
		t.L3 += f.L3
	}
	return t
}

// AggregateText sums fee tiers given as displayed text, re-parsing each cell.
// It is used where text is the only source, like a detached snapshot.
func AggregateText(cells iter.Seq[[3]string]) Totals {
	var t Totals
	for c := range cells {
		t.L1 += ParseSignedCents(c[0])
		t.L2 += ParseSignedCents(c[1])
		t.L3 += ParseSignedCents(c[2])
	}
	return t
}

// Levels returns the three sums, L1 first.
func (t Totals) Levels() [3]Cents { return [3]Cents{t.L1, t.L2, t.L3} }

// Labels returns the footer text of each tier, e.g. "100.00 U".
func (t Totals) Labels() [3]string {
	var labels [3]string
	for i, c := range t.Levels() {
		labels[i] = c.String() + " U"
	}
	return labels
}

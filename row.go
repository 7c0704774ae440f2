package bitbaby

import (
	"fmt"

	"github.com/google/uuid"
)

// Field names a column of the ledger.
type Field string

const (
	FieldPair   Field = "pair"
	FieldAmount Field = "amount"
	FieldL1     Field = "l1"
	FieldL2     Field = "l2"
	FieldL3     Field = "l3"
	FieldProfit Field = "profit"
	FieldStatus Field = "status"
)

// Fields lists all columns in display order.
var Fields = []Field{FieldPair, FieldAmount, FieldL1, FieldL2, FieldL3, FieldProfit, FieldStatus}

// Editable reports whether users can write the field. Fee columns are derived.
func (f Field) Editable() bool {
	switch f {
	case FieldPair, FieldAmount, FieldProfit, FieldStatus:
		return true
	}
	return false
}

// ParseField parses a column name.
func ParseField(s string) (Field, error) {
	for _, f := range Fields {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Row is one ledger entry.
//
// Pair, Amount and Profit hold the text as typed by the user. The fees are
// derived from Amount and can only change through SetAmount.
type Row struct {
	ID     string
	Pair   string
	Profit string
	Status Status

	amount string
	fees   Fees
}

// NewRow returns a row with a fresh ID and its fees computed from amount.
func NewRow(pair, amount, profit string, status Status) *Row {
	r := &Row{
		ID:     uuid.NewString(),
		Pair:   pair,
		Profit: profit,
		Status: ParseStatus(string(status)),
	}
	r.SetAmount(amount)
	return r
}

// Amount returns the amount text as typed.
func (r *Row) Amount() string { return r.amount }

// SetAmount updates the amount text and recomputes the fees.
func (r *Row) SetAmount(amount string) {
	r.amount = amount
	r.fees = ComputeFees(ParseCents(amount))
}

// Fees returns the fees derived from the current amount.
func (r *Row) Fees() Fees { return r.fees }

// Cell returns the displayed text of field f.
func (r *Row) Cell(f Field) string {
	switch f {
	case FieldPair:
		return r.Pair
	case FieldAmount:
		return r.amount
	case FieldL1:
		return r.fees.L1.String()
	case FieldL2:
		return r.fees.L2.String()
	case FieldL3:
		return r.fees.L3.String()
	case FieldProfit:
		return r.Profit
	case FieldStatus:
		return string(r.Status)
	}
	return ""
}

// clone returns a copy of r that shares nothing with it.
func (r *Row) clone() *Row {
	c := *r
	return &c
}

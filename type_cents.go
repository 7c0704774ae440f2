package bitbaby

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Cents is a monetary amount counted in hundredths.
//
// All money arithmetic in this package happens on Cents so that repeated
// additions never accumulate binary floating point errors.
type Cents int64

// display formats cents with two fraction digits and en-US grouping, without symbol.
var display = money.NewFormatter(2, ".", ",", "", "1")

// String returns the displayed text of c, e.g. "1,234.57".
func (c Cents) String() string { return display.Format(int64(c)) }

// Decimal returns the exact value of c in major units.
func (c Cents) Decimal() decimal.Decimal { return decimal.New(int64(c), -2) }

// Tag classifies the sign of c for presentation purposes.
func (c Cents) Tag() Tag {
	switch {
	case c > 0:
		return TagPos
	case c < 0:
		return TagNeg
	default:
		return TagMuted
	}
}

// Tag is a presentation class derived from the sign of a value.
// It carries no meaning beyond styling.
type Tag int

const (
	TagMuted Tag = iota
	TagPos
	TagNeg
)

func (t Tag) String() string {
	switch t {
	case TagPos:
		return "pos"
	case TagNeg:
		return "neg"
	default:
		return "muted"
	}
}

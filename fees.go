package bitbaby

import "github.com/shopspring/decimal"

// Fee tier rates, applied to the amount of a row.
var (
	RateL1 = decimal.RequireFromString("0.02")
	RateL2 = decimal.RequireFromString("0.01")
	RateL3 = decimal.RequireFromString("0.005")
)

// Fees holds the three tiered fee values derived from a row amount.
type Fees struct {
	L1, L2, L3 Cents
}

// ComputeFees derives the three fee tiers of amount.
// Each tier is rounded to the nearest cent on its own, never derived from another tier.
func ComputeFees(amount Cents) Fees {
	return Fees{
		L1: applyRate(amount, RateL1),
		L2: applyRate(amount, RateL2),
		L3: applyRate(amount, RateL3),
	}
}

func applyRate(amount Cents, rate decimal.Decimal) Cents {
	return Cents(decimal.NewFromInt(int64(amount)).Mul(rate).Round(0).IntPart())
}

// Text returns the displayed text of the three tiers.
func (f Fees) Text() [3]string {
	return [3]string{f.L1.String(), f.L2.String(), f.L3.String()}
}

// Levels returns the three tiers as an array, L1 first.
func (f Fees) Levels() [3]Cents { return [3]Cents{f.L1, f.L2, f.L3} }

package bitbaby

import (
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Normalize cleans loosely formatted numeric text into a canonical decimal text.
//
// Whitespace and thousands separators are removed, then every character that
// is not a digit, a '.' or a '-' is dropped. When several '.' are present the
// first one is the decimal point and the following fractional segments are
// concatenated ("1.2.3" gives "1.23"). A '-' survives only at position 0.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if unicode.IsSpace(r) || r == ',' {
			continue
		}
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	s := b.String()

	if parts := strings.Split(s, "."); len(parts) > 2 {
		s = parts[0] + "." + strings.Join(parts[1:], "")
	}

	if i := strings.LastIndexByte(s, '-'); i > 0 {
		lead := strings.HasPrefix(s, "-")
		s = strings.ReplaceAll(s, "-", "")
		if lead {
			s = "-" + s
		}
	}
	return s
}

// NormalizeAmount is Normalize for amounts, which are never negative: the sign
// is discarded wherever it appears, so "-50" and "5-0" both give "50".
func NormalizeAmount(raw string) string {
	return strings.ReplaceAll(Normalize(raw), "-", "")
}

// ParseCents parses an amount into cents.
//
// Empty or sign-only input is zero, anything else is rounded half away from
// zero to the nearest cent. Parse failures silently yield zero.
func ParseCents(raw string) Cents {
	return parseNormalized(NormalizeAmount(raw))
}

// ParseSignedCents is like ParseCents but keeps a leading minus sign. It is
// used on free-text figures such as profit, never on fee bases.
func ParseSignedCents(raw string) Cents {
	return parseNormalized(Normalize(raw))
}

func parseNormalized(s string) Cents {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = strings.TrimSuffix(s, ".")
	if s == "" {
		return 0
	}
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0
	}
	d = d.Shift(2).Round(0)
	if d.GreaterThan(maxCents) {
		return 0
	}
	c := Cents(d.IntPart())
	if neg {
		c = -c
	}
	return c
}

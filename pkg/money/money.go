package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Cents is an exact monetary amount in minor currency units. All engine
// arithmetic happens on this type; decimal strings exist only at the
// persistence and presentation boundaries.
type Cents int64

var oneHundred = decimal.NewFromInt(100)

// ParseAmount converts a decimal amount string such as "120.00" into cents,
// rounding half away from zero on sub-cent input.
func ParseAmount(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Cents(d.Mul(oneHundred).Round(0).IntPart()), nil
}

// MustParseAmount parses an amount and panics on error. Intended for tests and
// package-level variable initialization only.
func MustParseAmount(s string) Cents {
	c, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FormatAmount renders cents as a fixed 2-decimal-place string, the storage
// and wire representation (12000 cents -> "120.00").
func FormatAmount(c Cents) string {
	return decimal.New(int64(c), -2).StringFixed(2)
}

// String implements fmt.Stringer using the storage representation.
func (c Cents) String() string {
	return FormatAmount(c)
}

package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// bpsDenominator is the fixed-point scale for interest rates: a rate string
// "0.2000" becomes the integer numerator 2000 over 10000.
const bpsDenominator = 10_000

// maxRateBps caps the per-period rate at 100%. Anything above that is a
// configuration mistake, not a lending product.
const maxRateBps = 10_000

// Rate is a per-period interest rate held as an exact integer count of basis
// points. Parsing is the only place non-integer arithmetic touches the money
// pipeline; every multiplication afterwards is pure int64.
type Rate struct {
	bps int64
}

// ParseRate converts a decimal rate string such as "0.2000" (20% per period)
// into basis points, rounding to the nearest point. It rejects malformed,
// negative, and out-of-range input rather than letting garbage propagate into
// interest computation.
func ParseRate(s string) (Rate, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid interest rate %q: %w", s, err)
	}

	bps := d.Mul(decimal.NewFromInt(bpsDenominator)).Round(0).IntPart()
	if bps < 0 {
		return Rate{}, fmt.Errorf("invalid interest rate %q: must not be negative", s)
	}
	if bps > maxRateBps {
		return Rate{}, fmt.Errorf("invalid interest rate %q: exceeds 100%% per period", s)
	}

	return Rate{bps: bps}, nil
}

// MustParseRate parses a rate and panics on error. Intended for tests and
// package-level variable initialization only.
func MustParseRate(s string) Rate {
	r, err := ParseRate(s)
	if err != nil {
		panic(err)
	}
	return r
}

// BasisPoints returns the integer numerator over 10000.
func (r Rate) BasisPoints() int64 {
	return r.bps
}

// Apply computes floor(principal * bps / 10000) in exact integer arithmetic.
// Truncation toward zero means fractional cents are dropped, never rounded up.
func (r Rate) Apply(principal Cents) Cents {
	return Cents(int64(principal) * r.bps / bpsDenominator)
}

// String returns the canonical 4-decimal-place storage form, e.g. "0.2000".
func (r Rate) String() string {
	return decimal.New(r.bps, -4).StringFixed(4)
}

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// scannable is satisfied by both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

var oneHundred = decimal.NewFromInt(100)

// numericFromCents renders cents as the NUMERIC(12,2) column value.
func numericFromCents(c money.Cents) decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// centsFromNumeric converts a scanned NUMERIC(12,2) back into cents.
func centsFromNumeric(d decimal.Decimal) money.Cents {
	return money.Cents(d.Mul(oneHundred).Round(0).IntPart())
}

// mapNotFound translates pgx's no-rows sentinel into the port-level one.
func mapNotFound(err error, what string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", what, port.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", what, err)
}

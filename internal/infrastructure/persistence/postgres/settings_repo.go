package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lendtrack/lendtrack/pkg/money"
	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

// settingsRowID pins app_settings to a single row.
const settingsRowID = 1

// SettingsRepo implements port.SettingsRepository on the single-row
// app_settings table.
type SettingsRepo struct {
	pool *pgxpool.Pool
}

// NewSettingsRepo creates a new PostgreSQL-backed settings repository.
func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// Get returns the working capital. A missing row reads as zero, so the
// application works before settings were ever saved.
func (r *SettingsRepo) Get(ctx context.Context) (money.Cents, error) {
	var wc decimal.Decimal
	query := `SELECT working_capital FROM app_settings WHERE id = $1`
	err := pgdb.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, settingsRowID).Scan(&wc)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get settings: %w", err)
	}
	return centsFromNumeric(wc), nil
}

// UpsertWorkingCapital stores the working capital on the singleton row.
func (r *SettingsRepo) UpsertWorkingCapital(ctx context.Context, workingCapital money.Cents) error {
	query := `
		INSERT INTO app_settings (id, working_capital, updated_at)
		VALUES ($1,$2,$3)
		ON CONFLICT (id) DO UPDATE SET
			working_capital = EXCLUDED.working_capital,
			updated_at      = EXCLUDED.updated_at
	`
	_, err := pgdb.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		settingsRowID, numericFromCents(workingCapital), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

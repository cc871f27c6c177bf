package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/pkg/money"
	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

// CollateralRepo implements port.CollateralRepository.
type CollateralRepo struct {
	pool *pgxpool.Pool
}

// NewCollateralRepo creates a new PostgreSQL-backed collateral repository.
func NewCollateralRepo(pool *pgxpool.Pool) *CollateralRepo {
	return &CollateralRepo{pool: pool}
}

const collateralColumns = `
	id, loan_id, description, estimated_value, serial_number,
	image_paths, returned_at, notes, created_at
`

// Save upserts a collateral item.
func (r *CollateralRepo) Save(ctx context.Context, c model.Collateral) error {
	query := `
		INSERT INTO collateral (
			id, loan_id, description, estimated_value, serial_number,
			image_paths, returned_at, notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		ON CONFLICT (id) DO UPDATE SET
			description     = EXCLUDED.description,
			estimated_value = EXCLUDED.estimated_value,
			serial_number   = EXCLUDED.serial_number,
			image_paths     = EXCLUDED.image_paths,
			returned_at     = EXCLUDED.returned_at,
			notes           = EXCLUDED.notes
	`
	var estimated *decimal.Decimal
	if v := c.EstimatedValue(); v != nil {
		d := numericFromCents(*v)
		estimated = &d
	}
	_, err := pgdb.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		c.ID(), c.LoanID(), c.Description(), estimated, c.SerialNumber(),
		c.ImagePaths(), c.ReturnedAt(), c.Notes(), c.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save collateral: %w", err)
	}
	return nil
}

// FindByID retrieves one collateral item scoped to its loan.
func (r *CollateralRepo) FindByID(ctx context.Context, loanID, id uuid.UUID) (model.Collateral, error) {
	query := `SELECT ` + collateralColumns + ` FROM collateral WHERE loan_id = $1 AND id = $2`
	row := pgdb.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, loanID, id)
	c, err := scanCollateralRow(row)
	if err != nil {
		return model.Collateral{}, mapNotFound(err, "find collateral")
	}
	return c, nil
}

// FindByLoanID retrieves a loan's collateral items in creation order.
func (r *CollateralRepo) FindByLoanID(ctx context.Context, loanID uuid.UUID) ([]model.Collateral, error) {
	query := `SELECT ` + collateralColumns + ` FROM collateral WHERE loan_id = $1 ORDER BY created_at`
	rows, err := pgdb.QuerierFrom(ctx, r.pool).Query(ctx, query, loanID)
	if err != nil {
		return nil, fmt.Errorf("query collateral: %w", err)
	}
	defer rows.Close()

	var items []model.Collateral
	for rows.Next() {
		c, err := scanCollateralRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// Delete removes a collateral item.
func (r *CollateralRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := pgdb.QuerierFrom(ctx, r.pool).Exec(ctx, `DELETE FROM collateral WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete collateral: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete collateral: %w", port.ErrNotFound)
	}
	return nil
}

func scanCollateralRow(s scannable) (model.Collateral, error) {
	var (
		id, loanID   uuid.UUID
		description  string
		estimated    *decimal.Decimal
		serialNumber string
		imagePaths   []string
		returnedAt   *time.Time
		notes        string
		createdAt    time.Time
	)
	err := s.Scan(
		&id, &loanID, &description, &estimated, &serialNumber,
		&imagePaths, &returnedAt, &notes, &createdAt,
	)
	if err != nil {
		return model.Collateral{}, err
	}

	var estimatedCents *money.Cents
	if estimated != nil {
		v := centsFromNumeric(*estimated)
		estimatedCents = &v
	}
	return model.ReconstructCollateral(
		id, loanID, description, estimatedCents, serialNumber,
		imagePaths, returnedAt, notes, createdAt,
	), nil
}

package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/valueobject"
	"github.com/lendtrack/lendtrack/pkg/money"
	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

// LoanRepo implements port.LoanRepository.
type LoanRepo struct {
	pool *pgxpool.Pool
}

// NewLoanRepo creates a new PostgreSQL-backed loan repository.
func NewLoanRepo(pool *pgxpool.Pool) *LoanRepo {
	return &LoanRepo{pool: pool}
}

const loanColumns = `
	id, customer_id, principal_amount, interest_rate,
	start_date, due_date, status, notes, created_at, updated_at
`

// Save upserts a loan.
func (r *LoanRepo) Save(ctx context.Context, loan model.Loan) error {
	query := `
		INSERT INTO loans (
			id, customer_id, principal_amount, interest_rate,
			start_date, due_date, status, notes, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			status     = EXCLUDED.status,
			notes      = EXCLUDED.notes,
			updated_at = EXCLUDED.updated_at
	`
	_, err := pgdb.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		loan.ID(), loan.CustomerID(),
		numericFromCents(loan.Principal()), loan.InterestRate().String(),
		loan.StartDate(), loan.DueDate(),
		loan.Status().String(), loan.Notes(),
		loan.CreatedAt(), loan.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save loan: %w", err)
	}
	return nil
}

// FindByID retrieves a loan by ID.
func (r *LoanRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans WHERE id = $1`
	row := pgdb.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, id)
	loan, err := scanLoanRow(row)
	if err != nil {
		return model.Loan{}, mapNotFound(err, "find loan")
	}
	return loan, nil
}

// FindAll retrieves loans, optionally filtered by status, newest first.
func (r *LoanRepo) FindAll(ctx context.Context, status *valueobject.LoanStatus) ([]model.Loan, error) {
	query := `SELECT ` + loanColumns + ` FROM loans`
	var args []any
	if status != nil {
		query += ` WHERE status = $1`
		args = append(args, status.String())
	}
	query += ` ORDER BY created_at DESC`

	rows, err := pgdb.QuerierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query loans: %w", err)
	}
	defer rows.Close()

	var loans []model.Loan
	for rows.Next() {
		loan, err := scanLoanRow(rows)
		if err != nil {
			return nil, err
		}
		loans = append(loans, loan)
	}
	return loans, rows.Err()
}

func scanLoanRow(s scannable) (model.Loan, error) {
	var (
		id, customerID       uuid.UUID
		principal            decimal.Decimal
		rateStr              string
		startDate, dueDate   time.Time
		statusStr, notes     string
		createdAt, updatedAt time.Time
	)
	err := s.Scan(
		&id, &customerID, &principal, &rateStr,
		&startDate, &dueDate, &statusStr, &notes,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.Loan{}, err
	}

	status, err := valueobject.NewLoanStatus(statusStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse loan status: %w", err)
	}
	rate, err := money.ParseRate(rateStr)
	if err != nil {
		return model.Loan{}, fmt.Errorf("parse interest rate: %w", err)
	}

	return model.ReconstructLoan(
		id, customerID,
		centsFromNumeric(principal), rate,
		startDate, dueDate,
		status, notes,
		createdAt, updatedAt,
	), nil
}

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
	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

// CycleRepo implements port.CycleRepository.
type CycleRepo struct {
	pool *pgxpool.Pool
}

// NewCycleRepo creates a new PostgreSQL-backed billing-cycle repository.
func NewCycleRepo(pool *pgxpool.Pool) *CycleRepo {
	return &CycleRepo{pool: pool}
}

const cycleColumns = `
	id, loan_id, cycle_number, cycle_start_date, cycle_end_date,
	opening_principal, interest_charged, total_due, total_paid, balance, status
`

// Save upserts a billing cycle.
func (r *CycleRepo) Save(ctx context.Context, cycle model.BillingCycle) error {
	query := `
		INSERT INTO billing_cycles (
			id, loan_id, cycle_number, cycle_start_date, cycle_end_date,
			opening_principal, interest_charged, total_due, total_paid, balance, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			total_paid = EXCLUDED.total_paid,
			balance    = EXCLUDED.balance,
			status     = EXCLUDED.status
	`
	state := cycle.State()
	_, err := pgdb.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		cycle.ID(), cycle.LoanID(), cycle.CycleNumber(),
		cycle.StartDate(), cycle.EndDate(),
		numericFromCents(state.OpeningPrincipal), numericFromCents(state.InterestCharged),
		numericFromCents(state.TotalDue), numericFromCents(state.TotalPaid),
		numericFromCents(state.Balance), cycle.Status().String(),
	)
	if err != nil {
		return fmt.Errorf("save cycle: %w", err)
	}
	return nil
}

// FindByLoanID retrieves all cycles of a loan in cycle order.
func (r *CycleRepo) FindByLoanID(ctx context.Context, loanID uuid.UUID) ([]model.BillingCycle, error) {
	query := `SELECT ` + cycleColumns + ` FROM billing_cycles WHERE loan_id = $1 ORDER BY cycle_number`
	return r.queryCycles(ctx, query, loanID)
}

// FindActiveByLoanID retrieves the loan's most recent OPEN or OVERDUE cycle.
// Strict cycle-number ordering guarantees payments never land on a stale
// cycle when an older one was left open by mistake.
func (r *CycleRepo) FindActiveByLoanID(ctx context.Context, loanID uuid.UUID) (model.BillingCycle, error) {
	query := `
		SELECT ` + cycleColumns + `
		FROM billing_cycles
		WHERE loan_id = $1 AND status IN ('OPEN', 'OVERDUE')
		ORDER BY cycle_number DESC
		LIMIT 1
	`
	row := pgdb.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, loanID)
	cycle, err := scanCycleRow(row)
	if err != nil {
		return model.BillingCycle{}, mapNotFound(err, "find active cycle")
	}
	return cycle, nil
}

// FindExpiredOpen retrieves OPEN cycles whose period ended before asOf with a
// positive balance remaining. These are the rollover candidates.
func (r *CycleRepo) FindExpiredOpen(ctx context.Context, asOf time.Time) ([]model.BillingCycle, error) {
	query := `
		SELECT ` + cycleColumns + `
		FROM billing_cycles
		WHERE status = 'OPEN' AND cycle_end_date < $1 AND balance > 0
		ORDER BY cycle_end_date
	`
	return r.queryCycles(ctx, query, asOf)
}

func (r *CycleRepo) queryCycles(ctx context.Context, query string, args ...any) ([]model.BillingCycle, error) {
	rows, err := pgdb.QuerierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query cycles: %w", err)
	}
	defer rows.Close()

	var cycles []model.BillingCycle
	for rows.Next() {
		cycle, err := scanCycleRow(rows)
		if err != nil {
			return nil, err
		}
		cycles = append(cycles, cycle)
	}
	return cycles, rows.Err()
}

func scanCycleRow(s scannable) (model.BillingCycle, error) {
	var (
		id, loanID                            uuid.UUID
		cycleNumber                           int
		startDate, endDate                    time.Time
		opening, interest, due, paid, balance decimal.Decimal
		statusStr                             string
	)
	err := s.Scan(
		&id, &loanID, &cycleNumber, &startDate, &endDate,
		&opening, &interest, &due, &paid, &balance, &statusStr,
	)
	if err != nil {
		return model.BillingCycle{}, err
	}

	status, err := valueobject.NewCycleStatus(statusStr)
	if err != nil {
		return model.BillingCycle{}, fmt.Errorf("parse cycle status: %w", err)
	}

	state := model.CycleState{
		OpeningPrincipal: centsFromNumeric(opening),
		InterestCharged:  centsFromNumeric(interest),
		TotalDue:         centsFromNumeric(due),
		TotalPaid:        centsFromNumeric(paid),
		Balance:          centsFromNumeric(balance),
	}
	return model.ReconstructBillingCycle(id, loanID, cycleNumber, startDate, endDate, state, status), nil
}

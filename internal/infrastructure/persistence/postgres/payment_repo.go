package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lendtrack/lendtrack/internal/domain/model"
	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

// PaymentRepo implements port.PaymentRepository.
type PaymentRepo struct {
	pool *pgxpool.Pool
}

// NewPaymentRepo creates a new PostgreSQL-backed payment repository.
func NewPaymentRepo(pool *pgxpool.Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

const paymentColumns = `id, loan_id, cycle_id, amount, paid_at, note, created_at`

// Save inserts a payment. Payments are append-only.
func (r *PaymentRepo) Save(ctx context.Context, p model.Payment) error {
	query := `
		INSERT INTO payments (id, loan_id, cycle_id, amount, paid_at, note, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`
	_, err := pgdb.QuerierFrom(ctx, r.pool).Exec(ctx, query,
		p.ID(), p.LoanID(), p.CycleID(),
		numericFromCents(p.Amount()), p.PaidAt(), p.Note(), p.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("save payment: %w", err)
	}
	return nil
}

// FindByLoanID retrieves a loan's payments, newest first.
func (r *PaymentRepo) FindByLoanID(ctx context.Context, loanID uuid.UUID) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE loan_id = $1 ORDER BY paid_at DESC`
	return r.queryPayments(ctx, query, loanID)
}

// FindAll retrieves every payment, newest first.
func (r *PaymentRepo) FindAll(ctx context.Context) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY paid_at DESC`
	return r.queryPayments(ctx, query)
}

// HasAnyForLoan reports whether the loan has ever received a payment.
func (r *PaymentRepo) HasAnyForLoan(ctx context.Context, loanID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payments WHERE loan_id = $1)`
	var exists bool
	if err := pgdb.QuerierFrom(ctx, r.pool).QueryRow(ctx, query, loanID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check payment history: %w", err)
	}
	return exists, nil
}

func (r *PaymentRepo) queryPayments(ctx context.Context, query string, args ...any) ([]model.Payment, error) {
	rows, err := pgdb.QuerierFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	var payments []model.Payment
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func scanPaymentRow(s scannable) (model.Payment, error) {
	var (
		id, loanID, cycleID uuid.UUID
		amount              decimal.Decimal
		paidAt              time.Time
		note                string
		createdAt           time.Time
	)
	if err := s.Scan(&id, &loanID, &cycleID, &amount, &paidAt, &note, &createdAt); err != nil {
		return model.Payment{}, fmt.Errorf("scan payment: %w", err)
	}
	return model.ReconstructPayment(id, loanID, cycleID, centsFromNumeric(amount), paidAt, note, createdAt), nil
}

package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/lendtrack/lendtrack/internal/domain/port"
	pgdb "github.com/lendtrack/lendtrack/pkg/postgres"
)

// ReportRepo implements port.ReportRepository with aggregate SQL. These are
// read models only; nothing here writes back into the engine's tables.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepo creates a new PostgreSQL-backed report repository.
func NewReportRepo(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// DashboardStats computes the dashboard aggregates. Capital outstanding is
// the summed balance over OPEN and OVERDUE cycles; expected-this-cycle sums
// total due over OPEN cycles only.
func (r *ReportRepo) DashboardStats(ctx context.Context, monthStart time.Time) (port.DashboardStats, error) {
	q := pgdb.QuerierFrom(ctx, r.pool)
	var stats port.DashboardStats

	countQuery := `
		SELECT
			COUNT(*) FILTER (WHERE status = 'ACTIVE'),
			COUNT(*) FILTER (WHERE status = 'OVERDUE')
		FROM loans
	`
	if err := q.QueryRow(ctx, countQuery).Scan(&stats.ActiveLoans, &stats.OverdueLoans); err != nil {
		return port.DashboardStats{}, fmt.Errorf("count loans: %w", err)
	}

	var outstanding, expected, collected decimal.Decimal
	sumQuery := `
		SELECT COALESCE(SUM(balance), 0)
		FROM billing_cycles
		WHERE status IN ('OPEN', 'OVERDUE')
	`
	if err := q.QueryRow(ctx, sumQuery).Scan(&outstanding); err != nil {
		return port.DashboardStats{}, fmt.Errorf("sum outstanding: %w", err)
	}

	expectedQuery := `
		SELECT COALESCE(SUM(total_due), 0)
		FROM billing_cycles
		WHERE status = 'OPEN'
	`
	if err := q.QueryRow(ctx, expectedQuery).Scan(&expected); err != nil {
		return port.DashboardStats{}, fmt.Errorf("sum expected: %w", err)
	}

	collectedQuery := `
		SELECT COALESCE(SUM(amount), 0)
		FROM payments
		WHERE paid_at >= $1
	`
	if err := q.QueryRow(ctx, collectedQuery, monthStart).Scan(&collected); err != nil {
		return port.DashboardStats{}, fmt.Errorf("sum collected: %w", err)
	}

	stats.CapitalOutstanding = centsFromNumeric(outstanding)
	stats.ExpectedThisCycle = centsFromNumeric(expected)
	stats.CollectedThisMonth = centsFromNumeric(collected)
	return stats, nil
}

// OverdueLoanIDs returns the most recently touched overdue loans.
func (r *ReportRepo) OverdueLoanIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	query := `
		SELECT id FROM loans
		WHERE status = 'OVERDUE'
		ORDER BY updated_at DESC
		LIMIT $1
	`
	rows, err := pgdb.QuerierFrom(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query overdue loans: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan overdue loan: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MonthlyRows aggregates issuance by loan start month, collections by payment
// month and interest by cycle start month, merged into one row per month,
// most recent first.
func (r *ReportRepo) MonthlyRows(ctx context.Context) ([]port.MonthlyReportRow, error) {
	q := pgdb.QuerierFrom(ctx, r.pool)
	byMonth := make(map[string]*port.MonthlyReportRow)
	row := func(month string) *port.MonthlyReportRow {
		if _, ok := byMonth[month]; !ok {
			byMonth[month] = &port.MonthlyReportRow{Month: month}
		}
		return byMonth[month]
	}

	issuedQuery := `
		SELECT TO_CHAR(start_date, 'YYYY-MM'), COUNT(*), COALESCE(SUM(principal_amount), 0)
		FROM loans
		GROUP BY 1
	`
	rows, err := q.Query(ctx, issuedQuery)
	if err != nil {
		return nil, fmt.Errorf("query issued loans: %w", err)
	}
	for rows.Next() {
		var (
			month     string
			count     int
			principal decimal.Decimal
		)
		if err := rows.Scan(&month, &count, &principal); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan issued row: %w", err)
		}
		m := row(month)
		m.LoansIssued = count
		m.TotalPrincipal = centsFromNumeric(principal)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	collectedQuery := `
		SELECT TO_CHAR(paid_at, 'YYYY-MM'), COALESCE(SUM(amount), 0)
		FROM payments
		GROUP BY 1
	`
	rows, err = q.Query(ctx, collectedQuery)
	if err != nil {
		return nil, fmt.Errorf("query collections: %w", err)
	}
	for rows.Next() {
		var (
			month     string
			collected decimal.Decimal
		)
		if err := rows.Scan(&month, &collected); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan collection row: %w", err)
		}
		row(month).TotalCollected = centsFromNumeric(collected)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	interestQuery := `
		SELECT TO_CHAR(cycle_start_date, 'YYYY-MM'), COALESCE(SUM(interest_charged), 0)
		FROM billing_cycles
		GROUP BY 1
	`
	rows, err = q.Query(ctx, interestQuery)
	if err != nil {
		return nil, fmt.Errorf("query interest: %w", err)
	}
	for rows.Next() {
		var (
			month    string
			interest decimal.Decimal
		)
		if err := rows.Scan(&month, &interest); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan interest row: %w", err)
		}
		row(month).InterestCharged = centsFromNumeric(interest)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]port.MonthlyReportRow, 0, len(byMonth))
	for _, m := range byMonth {
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month > out[j].Month })
	return out, nil
}

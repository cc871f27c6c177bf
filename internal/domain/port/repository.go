package port

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/domain/event"
	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/valueobject"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// ---------------------------------------------------------------------------
// Repository ports (driven/secondary adapters)
// ---------------------------------------------------------------------------

// Repositories resolve the ambient transaction started by TxManager from the
// context, so a use case can span several of them atomically.

// CustomerRepository persists and retrieves customers.
type CustomerRepository interface {
	Save(ctx context.Context, c model.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Customer, error)
	FindAll(ctx context.Context) ([]model.Customer, error)
}

// LoanRepository persists and retrieves loans.
type LoanRepository interface {
	Save(ctx context.Context, loan model.Loan) error
	FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error)
	FindAll(ctx context.Context, status *valueobject.LoanStatus) ([]model.Loan, error)
}

// CycleRepository persists and retrieves billing cycles.
type CycleRepository interface {
	Save(ctx context.Context, cycle model.BillingCycle) error
	FindByLoanID(ctx context.Context, loanID uuid.UUID) ([]model.BillingCycle, error)
	// FindActiveByLoanID returns the loan's most recent OPEN or OVERDUE
	// cycle, by strict cycle-number ordering, so a payment can never land
	// on a stale cycle.
	FindActiveByLoanID(ctx context.Context, loanID uuid.UUID) (model.BillingCycle, error)
	// FindExpiredOpen returns OPEN cycles whose end date has passed while a
	// positive balance remains. Candidates for rollover.
	FindExpiredOpen(ctx context.Context, asOf time.Time) ([]model.BillingCycle, error)
}

// PaymentRepository persists and retrieves payments.
type PaymentRepository interface {
	Save(ctx context.Context, p model.Payment) error
	FindByLoanID(ctx context.Context, loanID uuid.UUID) ([]model.Payment, error)
	FindAll(ctx context.Context) ([]model.Payment, error)
	// HasAnyForLoan reports whether the loan has ever received a payment,
	// which selects the rollover policy.
	HasAnyForLoan(ctx context.Context, loanID uuid.UUID) (bool, error)
}

// CollateralRepository persists and retrieves collateral items.
type CollateralRepository interface {
	Save(ctx context.Context, c model.Collateral) error
	FindByID(ctx context.Context, loanID, id uuid.UUID) (model.Collateral, error)
	FindByLoanID(ctx context.Context, loanID uuid.UUID) ([]model.Collateral, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

// ---------------------------------------------------------------------------
// Audit log port
// ---------------------------------------------------------------------------

// AuditEntry is one append-only audit record. Metadata is marshalled to JSONB.
type AuditEntry struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   uuid.UUID
	Metadata   map[string]any
}

// AuditLogRepository appends audit records.
type AuditLogRepository interface {
	Record(ctx context.Context, entry AuditEntry) error
}

// ---------------------------------------------------------------------------
// Settings port
// ---------------------------------------------------------------------------

// SettingsRepository stores the single application settings row.
type SettingsRepository interface {
	Get(ctx context.Context) (money.Cents, error)
	UpsertWorkingCapital(ctx context.Context, workingCapital money.Cents) error
}

// ---------------------------------------------------------------------------
// Reporting ports (read models)
// ---------------------------------------------------------------------------

// DashboardStats aggregates the numbers the dashboard shows. Working capital
// is not part of it; that comes from settings.
type DashboardStats struct {
	ActiveLoans        int
	OverdueLoans       int
	CapitalOutstanding money.Cents
	ExpectedThisCycle  money.Cents
	CollectedThisMonth money.Cents
}

// MonthlyReportRow is one month of issuance/collection/interest aggregates.
type MonthlyReportRow struct {
	Month           string // "YYYY-MM"
	LoansIssued     int
	TotalPrincipal  money.Cents
	TotalCollected  money.Cents
	InterestCharged money.Cents
}

// ReportRepository serves aggregate queries. These are read models; they never
// feed values back into the engine.
type ReportRepository interface {
	DashboardStats(ctx context.Context, monthStart time.Time) (DashboardStats, error)
	OverdueLoanIDs(ctx context.Context, limit int) ([]uuid.UUID, error)
	MonthlyRows(ctx context.Context) ([]MonthlyReportRow, error)
}

// ---------------------------------------------------------------------------
// Transaction port
// ---------------------------------------------------------------------------

// TxManager runs fn inside a single database transaction. Repository calls
// made with the context passed to fn join that transaction.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Event publisher port
// ---------------------------------------------------------------------------

// EventPublisher publishes domain events to external consumers.
type EventPublisher interface {
	Publish(ctx context.Context, events ...event.DomainEvent) error
}

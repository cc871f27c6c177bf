package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/domain/event"
	"github.com/lendtrack/lendtrack/internal/domain/valueobject"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// ---------------------------------------------------------------------------
// Loan aggregate root
// ---------------------------------------------------------------------------

// Loan is an immutable aggregate. Mutations return a new copy.
type Loan struct {
	id           uuid.UUID
	customerID   uuid.UUID
	principal    money.Cents
	interestRate money.Rate
	startDate    time.Time
	dueDate      time.Time
	status       valueobject.LoanStatus
	notes        string
	createdAt    time.Time
	updatedAt    time.Time
	domainEvents []event.DomainEvent
}

// NewLoan issues a loan. The loan starts ACTIVE; its first billing cycle is
// created separately by the caller from the same principal and rate.
func NewLoan(
	customerID uuid.UUID,
	principal money.Cents,
	interestRate money.Rate,
	startDate, dueDate time.Time,
	notes string,
	now time.Time,
) (Loan, error) {
	if customerID == uuid.Nil {
		return Loan{}, errors.New("customer ID is required")
	}
	if principal <= 0 {
		return Loan{}, errors.New("principal must be greater than zero")
	}
	if !dueDate.After(startDate) {
		return Loan{}, errors.New("due date must be after start date")
	}

	loan := Loan{
		id:           uuid.New(),
		customerID:   customerID,
		principal:    principal,
		interestRate: interestRate,
		startDate:    startDate,
		dueDate:      dueDate,
		status:       valueobject.LoanStatusActive,
		notes:        notes,
		createdAt:    now,
		updatedAt:    now,
	}

	loan.domainEvents = append(loan.domainEvents, event.NewLoanCreated(
		loan.id, customerID,
		money.FormatAmount(principal), interestRate.String(),
		startDate, dueDate,
	))

	return loan, nil
}

// ReconstructLoan rebuilds a Loan aggregate from persistence.
func ReconstructLoan(
	id, customerID uuid.UUID,
	principal money.Cents,
	interestRate money.Rate,
	startDate, dueDate time.Time,
	status valueobject.LoanStatus,
	notes string,
	createdAt, updatedAt time.Time,
) Loan {
	return Loan{
		id:           id,
		customerID:   customerID,
		principal:    principal,
		interestRate: interestRate,
		startDate:    startDate,
		dueDate:      dueDate,
		status:       status,
		notes:        notes,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// MarkOverdue transitions ACTIVE -> OVERDUE. Marking an already overdue loan
// is a no-op, since every unpaid rollover re-marks its loan.
func (l Loan) MarkOverdue(now time.Time) (Loan, error) {
	if l.status.Equal(valueobject.LoanStatusOverdue) {
		return l, nil
	}
	if !l.status.Equal(valueobject.LoanStatusActive) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusOverdue
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	return next, nil
}

// Settle transitions ACTIVE/OVERDUE -> SETTLED and emits LoanSettled. A loan
// settles only when its currently active cycle closes with balance <= 0.
func (l Loan) Settle(now time.Time) (Loan, error) {
	if l.status.Equal(valueobject.LoanStatusSettled) {
		return l, valueobject.ErrInvalidStatusTransition
	}
	next := l
	next.status = valueobject.LoanStatusSettled
	next.updatedAt = now
	next.domainEvents = copyEvents(l.domainEvents)
	next.domainEvents = append(next.domainEvents, event.NewLoanSettled(l.id))
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (l Loan) ID() uuid.UUID                      { return l.id }
func (l Loan) CustomerID() uuid.UUID              { return l.customerID }
func (l Loan) Principal() money.Cents             { return l.principal }
func (l Loan) InterestRate() money.Rate           { return l.interestRate }
func (l Loan) StartDate() time.Time               { return l.startDate }
func (l Loan) DueDate() time.Time                 { return l.dueDate }
func (l Loan) Status() valueobject.LoanStatus     { return l.status }
func (l Loan) Notes() string                      { return l.notes }
func (l Loan) CreatedAt() time.Time               { return l.createdAt }
func (l Loan) UpdatedAt() time.Time               { return l.updatedAt }
func (l Loan) DomainEvents() []event.DomainEvent  { return l.domainEvents }

// ClearEvents returns a copy with an empty event list.
func (l Loan) ClearEvents() Loan {
	next := l
	next.domainEvents = nil
	return next
}

func copyEvents(evts []event.DomainEvent) []event.DomainEvent {
	if evts == nil {
		return nil
	}
	out := make([]event.DomainEvent, len(evts))
	copy(out, evts)
	return out
}

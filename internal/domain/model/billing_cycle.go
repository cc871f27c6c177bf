package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/domain/valueobject"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// ---------------------------------------------------------------------------
// BillingCycle aggregate
// ---------------------------------------------------------------------------

// BillingCycle is one persisted billing period of a loan: the pure CycleState
// plus the identity, numbering, dates and status the engine itself knows
// nothing about. Immutable; mutations return a new copy.
type BillingCycle struct {
	id          uuid.UUID
	loanID      uuid.UUID
	cycleNumber int
	startDate   time.Time
	endDate     time.Time
	state       CycleState
	status      valueobject.CycleStatus
}

// NewBillingCycle opens a cycle for a loan from engine-produced state.
func NewBillingCycle(
	loanID uuid.UUID,
	cycleNumber int,
	startDate, endDate time.Time,
	state CycleState,
) (BillingCycle, error) {
	if loanID == uuid.Nil {
		return BillingCycle{}, errors.New("loan ID is required")
	}
	if cycleNumber < 1 {
		return BillingCycle{}, errors.New("cycle number must be positive")
	}
	if !endDate.After(startDate) {
		return BillingCycle{}, errors.New("cycle end date must be after start date")
	}

	return BillingCycle{
		id:          uuid.New(),
		loanID:      loanID,
		cycleNumber: cycleNumber,
		startDate:   startDate,
		endDate:     endDate,
		state:       state,
		status:      valueobject.CycleStatusOpen,
	}, nil
}

// ReconstructBillingCycle rebuilds a BillingCycle from persistence.
func ReconstructBillingCycle(
	id, loanID uuid.UUID,
	cycleNumber int,
	startDate, endDate time.Time,
	state CycleState,
	status valueobject.CycleStatus,
) BillingCycle {
	return BillingCycle{
		id:          id,
		loanID:      loanID,
		cycleNumber: cycleNumber,
		startDate:   startDate,
		endDate:     endDate,
		state:       state,
		status:      status,
	}
}

// ---------------------------------------------------------------------------
// State transitions
// ---------------------------------------------------------------------------

// RecordPayment applies a payment through the engine. The cycle closes when
// the resulting balance reaches zero or below; an overpaid balance stays
// negative on the closed cycle.
func (c BillingCycle) RecordPayment(amount money.Cents) (BillingCycle, error) {
	if c.status.Equal(valueobject.CycleStatusClosed) {
		return c, errors.New("cannot apply a payment to a closed cycle")
	}
	next := c
	next.state = c.state.ApplyPayment(amount)
	if next.state.Settled() {
		next.status = valueobject.CycleStatusClosed
	}
	return next, nil
}

// MarkOverdue transitions OPEN -> OVERDUE when the period has ended with an
// outstanding balance.
func (c BillingCycle) MarkOverdue() (BillingCycle, error) {
	if !c.status.Equal(valueobject.CycleStatusOpen) {
		return c, valueobject.ErrInvalidStatusTransition
	}
	next := c
	next.status = valueobject.CycleStatusOverdue
	return next, nil
}

// ---------------------------------------------------------------------------
// Accessors
// ---------------------------------------------------------------------------

func (c BillingCycle) ID() uuid.UUID                   { return c.id }
func (c BillingCycle) LoanID() uuid.UUID               { return c.loanID }
func (c BillingCycle) CycleNumber() int                { return c.cycleNumber }
func (c BillingCycle) StartDate() time.Time            { return c.startDate }
func (c BillingCycle) EndDate() time.Time              { return c.endDate }
func (c BillingCycle) State() CycleState               { return c.state }
func (c BillingCycle) Status() valueobject.CycleStatus { return c.status }

// Balance is shorthand for the engine state's balance.
func (c BillingCycle) Balance() money.Cents { return c.state.Balance }

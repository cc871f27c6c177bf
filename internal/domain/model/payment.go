package model

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/pkg/money"
)

// Payment is the immutable record of one payment applied to a billing cycle.
type Payment struct {
	id        uuid.UUID
	loanID    uuid.UUID
	cycleID   uuid.UUID
	amount    money.Cents
	paidAt    time.Time
	note      string
	createdAt time.Time
}

// NewPayment records a payment. The engine tolerates zero payments, but
// recording one is a service-layer mistake, so it is rejected here.
func NewPayment(loanID, cycleID uuid.UUID, amount money.Cents, paidAt time.Time, note string, now time.Time) (Payment, error) {
	if loanID == uuid.Nil {
		return Payment{}, errors.New("loan ID is required")
	}
	if cycleID == uuid.Nil {
		return Payment{}, errors.New("cycle ID is required")
	}
	if amount <= 0 {
		return Payment{}, errors.New("payment amount must be greater than zero")
	}
	return Payment{
		id:        uuid.New(),
		loanID:    loanID,
		cycleID:   cycleID,
		amount:    amount,
		paidAt:    paidAt,
		note:      note,
		createdAt: now,
	}, nil
}

// ReconstructPayment rebuilds a Payment from persistence.
func ReconstructPayment(id, loanID, cycleID uuid.UUID, amount money.Cents, paidAt time.Time, note string, createdAt time.Time) Payment {
	return Payment{
		id:        id,
		loanID:    loanID,
		cycleID:   cycleID,
		amount:    amount,
		paidAt:    paidAt,
		note:      note,
		createdAt: createdAt,
	}
}

func (p Payment) ID() uuid.UUID        { return p.id }
func (p Payment) LoanID() uuid.UUID    { return p.loanID }
func (p Payment) CycleID() uuid.UUID   { return p.cycleID }
func (p Payment) Amount() money.Cents  { return p.amount }
func (p Payment) PaidAt() time.Time    { return p.paidAt }
func (p Payment) Note() string         { return p.note }
func (p Payment) CreatedAt() time.Time { return p.createdAt }

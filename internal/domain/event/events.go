package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/pkg/events"
)

// DomainEvent is an alias for the shared pkg/events.DomainEvent interface.
type DomainEvent = events.DomainEvent

// ---------------------------------------------------------------------------
// Loan events
// ---------------------------------------------------------------------------

// LoanCreated is raised when a loan is issued with its first billing cycle.
type LoanCreated struct {
	events.BaseEvent
	CustomerID   uuid.UUID `json:"customer_id"`
	Principal    string    `json:"principal"`
	InterestRate string    `json:"interest_rate"`
	StartDate    time.Time `json:"start_date"`
	DueDate      time.Time `json:"due_date"`
}

func NewLoanCreated(loanID, customerID uuid.UUID, principal, interestRate string, startDate, dueDate time.Time) LoanCreated {
	return LoanCreated{
		BaseEvent:    events.NewBaseEvent("lendtrack.loan.created", loanID, "Loan"),
		CustomerID:   customerID,
		Principal:    principal,
		InterestRate: interestRate,
		StartDate:    startDate,
		DueDate:      dueDate,
	}
}

// LoanSettled is raised when a payment brings the active cycle's balance to
// zero or below.
type LoanSettled struct {
	events.BaseEvent
}

func NewLoanSettled(loanID uuid.UUID) LoanSettled {
	return LoanSettled{
		BaseEvent: events.NewBaseEvent("lendtrack.loan.settled", loanID, "Loan"),
	}
}

// ---------------------------------------------------------------------------
// Payment events
// ---------------------------------------------------------------------------

// PaymentRecorded is raised when a payment is applied to a billing cycle.
type PaymentRecorded struct {
	events.BaseEvent
	PaymentID    uuid.UUID `json:"payment_id"`
	CycleID      uuid.UUID `json:"cycle_id"`
	Amount       string    `json:"amount"`
	CycleBalance string    `json:"cycle_balance"`
}

func NewPaymentRecorded(loanID, paymentID, cycleID uuid.UUID, amount, cycleBalance string) PaymentRecorded {
	return PaymentRecorded{
		BaseEvent:    events.NewBaseEvent("lendtrack.payment.recorded", loanID, "Loan"),
		PaymentID:    paymentID,
		CycleID:      cycleID,
		Amount:       amount,
		CycleBalance: cycleBalance,
	}
}

// ---------------------------------------------------------------------------
// Cycle events
// ---------------------------------------------------------------------------

// CycleRolledOver is raised when an unpaid cycle closes overdue and a new one
// opens from its remaining balance.
type CycleRolledOver struct {
	events.BaseEvent
	PreviousCycleID uuid.UUID `json:"previous_cycle_id"`
	NewCycleID      uuid.UUID `json:"new_cycle_id"`
	CycleNumber     int       `json:"cycle_number"`
	OpeningBalance  string    `json:"opening_balance"`
	InterestCharged string    `json:"interest_charged"`
}

func NewCycleRolledOver(loanID, previousCycleID, newCycleID uuid.UUID, cycleNumber int, openingBalance, interestCharged string) CycleRolledOver {
	return CycleRolledOver{
		BaseEvent:       events.NewBaseEvent("lendtrack.cycle.rolled_over", loanID, "Loan"),
		PreviousCycleID: previousCycleID,
		NewCycleID:      newCycleID,
		CycleNumber:     cycleNumber,
		OpeningBalance:  openingBalance,
		InterestCharged: interestCharged,
	}
}

// ---------------------------------------------------------------------------
// Collateral events
// ---------------------------------------------------------------------------

// CollateralAdded is raised when a collateral item is attached to a loan.
type CollateralAdded struct {
	events.BaseEvent
	LoanID      uuid.UUID `json:"loan_id"`
	Description string    `json:"description"`
}

func NewCollateralAdded(collateralID, loanID uuid.UUID, description string) CollateralAdded {
	return CollateralAdded{
		BaseEvent:   events.NewBaseEvent("lendtrack.collateral.added", collateralID, "Collateral"),
		LoanID:      loanID,
		Description: description,
	}
}

// CollateralReturned is raised when a collateral item is returned to the
// borrower.
type CollateralReturned struct {
	events.BaseEvent
	LoanID uuid.UUID `json:"loan_id"`
}

func NewCollateralReturned(collateralID, loanID uuid.UUID) CollateralReturned {
	return CollateralReturned{
		BaseEvent: events.NewBaseEvent("lendtrack.collateral.returned", collateralID, "Collateral"),
		LoanID:    loanID,
	}
}

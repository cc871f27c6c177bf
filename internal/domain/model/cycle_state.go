package model

import (
	"github.com/lendtrack/lendtrack/pkg/money"
)

// ---------------------------------------------------------------------------
// Billing-cycle interest engine
// ---------------------------------------------------------------------------
//
// Everything below is pure: no I/O, no clock, no identifiers. A CycleState is
// an immutable snapshot of one billing period in integer cents; operations
// return new values. Callers own persistence, auditing, and atomicity.

// CycleState is one billing period's monetary state.
//
// Invariant: TotalDue == OpeningPrincipal + InterestCharged after every
// operation. Balance may go negative on overpayment; it is never clamped,
// because settlement downstream is the test Balance <= 0.
type CycleState struct {
	OpeningPrincipal money.Cents
	InterestCharged  money.Cents
	TotalDue         money.Cents
	TotalPaid        money.Cents
	Balance          money.Cents
}

// CalculateInterest returns the interest charge for a principal at the given
// per-period rate: floor(principal * bps / 10000), exact integer arithmetic.
func CalculateInterest(principal money.Cents, rate money.Rate) money.Cents {
	return rate.Apply(principal)
}

// NewCycleState materializes a fresh cycle from an opening principal. Used for
// a loan's first cycle and, via NextCycleState, for compounding rollovers.
func NewCycleState(openingPrincipal money.Cents, rate money.Rate) CycleState {
	interest := CalculateInterest(openingPrincipal, rate)
	totalDue := openingPrincipal + interest
	return CycleState{
		OpeningPrincipal: openingPrincipal,
		InterestCharged:  interest,
		TotalDue:         totalDue,
		TotalPaid:        0,
		Balance:          totalDue,
	}
}

// NextCycleState derives a compounding rollover cycle: the entire unpaid
// balance, interest included, becomes the new opening principal and accrues
// interest again.
func NextCycleState(previousBalance money.Cents, rate money.Rate) CycleState {
	return NewCycleState(previousBalance, rate)
}

// PenaltyCycleFromRemaining derives the rollover cycle for a loan that has
// received at least one payment. The formula is deliberately identical to
// NextCycleState; the separate constructor marks the policy branch, pending a
// product decision on whether penalty rollovers should ever diverge.
func PenaltyCycleFromRemaining(remainingBalance money.Cents, rate money.Rate) CycleState {
	return NewCycleState(remainingBalance, rate)
}

// GraceCycleFromRemaining derives the rollover cycle for a loan that has never
// received a payment: the balance carries forward with no new interest.
func GraceCycleFromRemaining(remainingBalance money.Cents) CycleState {
	return CycleState{
		OpeningPrincipal: remainingBalance,
		InterestCharged:  0,
		TotalDue:         remainingBalance,
		TotalPaid:        0,
		Balance:          remainingBalance,
	}
}

// RolloverPolicy selects how an unpaid balance rolls into the next cycle.
type RolloverPolicy int

const (
	// RolloverNoInterestGrace carries the balance forward without new
	// interest. Applied when the loan has never received any payment.
	RolloverNoInterestGrace RolloverPolicy = iota
	// RolloverCompoundPenalty charges fresh interest on the remaining
	// balance. Applied when the loan has received at least one payment.
	RolloverCompoundPenalty
)

// Rollover derives the next cycle's opening state from a closed-out cycle's
// remaining balance under the given policy.
func Rollover(previousBalance money.Cents, rate money.Rate, policy RolloverPolicy) CycleState {
	if policy == RolloverNoInterestGrace {
		return GraceCycleFromRemaining(previousBalance)
	}
	return PenaltyCycleFromRemaining(previousBalance, rate)
}

// ApplyPayment returns the state with the payment added to TotalPaid and the
// balance recomputed. A zero payment is a valid no-op; an overpayment yields a
// negative balance. Rejecting non-positive amounts is the service layer's job.
func (s CycleState) ApplyPayment(payment money.Cents) CycleState {
	totalPaid := s.TotalPaid + payment
	return CycleState{
		OpeningPrincipal: s.OpeningPrincipal,
		InterestCharged:  s.InterestCharged,
		TotalDue:         s.TotalDue,
		TotalPaid:        totalPaid,
		Balance:          s.TotalDue - totalPaid,
	}
}

// Settled reports whether the cycle is paid off. Overpayment counts.
func (s CycleState) Settled() bool {
	return s.Balance <= 0
}

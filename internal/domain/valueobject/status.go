package valueobject

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// LoanStatus – immutable value object
// ---------------------------------------------------------------------------

// LoanStatus represents the lifecycle stage of a loan.
type LoanStatus struct {
	value string
}

const (
	loanStatusActive  = "ACTIVE"
	loanStatusOverdue = "OVERDUE"
	loanStatusSettled = "SETTLED"
)

var (
	LoanStatusActive  = LoanStatus{value: loanStatusActive}
	LoanStatusOverdue = LoanStatus{value: loanStatusOverdue}
	LoanStatusSettled = LoanStatus{value: loanStatusSettled}
)

var validLoanStatuses = map[string]LoanStatus{
	loanStatusActive:  LoanStatusActive,
	loanStatusOverdue: LoanStatusOverdue,
	loanStatusSettled: LoanStatusSettled,
}

// NewLoanStatus creates a LoanStatus from a raw string.
func NewLoanStatus(s string) (LoanStatus, error) {
	v, ok := validLoanStatuses[s]
	if !ok {
		return LoanStatus{}, fmt.Errorf("invalid loan status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s LoanStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s LoanStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s LoanStatus) Equal(other LoanStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// CycleStatus – immutable value object
// ---------------------------------------------------------------------------

// CycleStatus represents the lifecycle stage of a billing cycle.
type CycleStatus struct {
	value string
}

const (
	cycleStatusOpen    = "OPEN"
	cycleStatusClosed  = "CLOSED"
	cycleStatusOverdue = "OVERDUE"
)

var (
	CycleStatusOpen    = CycleStatus{value: cycleStatusOpen}
	CycleStatusClosed  = CycleStatus{value: cycleStatusClosed}
	CycleStatusOverdue = CycleStatus{value: cycleStatusOverdue}
)

var validCycleStatuses = map[string]CycleStatus{
	cycleStatusOpen:    CycleStatusOpen,
	cycleStatusClosed:  CycleStatusClosed,
	cycleStatusOverdue: CycleStatusOverdue,
}

// NewCycleStatus creates a CycleStatus from a raw string.
func NewCycleStatus(s string) (CycleStatus, error) {
	v, ok := validCycleStatuses[s]
	if !ok {
		return CycleStatus{}, fmt.Errorf("invalid cycle status: %q", s)
	}
	return v, nil
}

// String returns the string representation of the status.
func (s CycleStatus) String() string { return s.value }

// IsZero returns true if the status has not been initialised.
func (s CycleStatus) IsZero() bool { return s.value == "" }

// Equal returns true when both statuses carry the same value.
func (s CycleStatus) Equal(other CycleStatus) bool { return s.value == other.value }

// ---------------------------------------------------------------------------
// Sentinel errors
// ---------------------------------------------------------------------------

var (
	ErrInvalidStatusTransition = errors.New("invalid status transition")
)

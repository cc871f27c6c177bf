package dto

import (
	"time"

	"github.com/google/uuid"
)

// Monetary amounts cross this boundary as fixed 2-decimal-place strings
// ("120.00") and interest rates as 4-decimal-place strings ("0.2000"); the
// engine's integer cents never leak into transport payloads.

// ---------------------------------------------------------------------------
// Customer DTOs
// ---------------------------------------------------------------------------

// CreateCustomerRequest carries the data for registering a customer.
type CreateCustomerRequest struct {
	UserID           string     `json:"-"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Email            string     `json:"email"`
	NationalIDNumber string     `json:"national_id_number"`
	NationalIDType   string     `json:"national_id_type"`
	NationalIDExpiry *time.Time `json:"national_id_expiry"`
	NationalIDImages []string   `json:"national_id_image_paths"`
	Notes            string     `json:"notes"`
}

// UpdateCustomerRequest carries replacement details for a customer.
type UpdateCustomerRequest struct {
	UserID           string     `json:"-"`
	CustomerID       uuid.UUID  `json:"-"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone"`
	Email            string     `json:"email"`
	NationalIDNumber string     `json:"national_id_number"`
	NationalIDType   string     `json:"national_id_type"`
	NationalIDExpiry *time.Time `json:"national_id_expiry"`
	NationalIDImages []string   `json:"national_id_image_paths"`
	Notes            string     `json:"notes"`
}

// CustomerResponse is the transport representation of a customer.
type CustomerResponse struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Phone            string     `json:"phone,omitempty"`
	Email            string     `json:"email,omitempty"`
	NationalIDNumber string     `json:"national_id_number,omitempty"`
	NationalIDType   string     `json:"national_id_type,omitempty"`
	NationalIDExpiry *time.Time `json:"national_id_expiry,omitempty"`
	NationalIDImages []string   `json:"national_id_image_paths,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	Active           bool       `json:"active"`
	CreatedAt        time.Time  `json:"created_at"`
}

// ---------------------------------------------------------------------------
// Loan DTOs
// ---------------------------------------------------------------------------

// CollateralItem is one collateral entry supplied at loan creation or later.
type CollateralItem struct {
	Description    string   `json:"description"`
	EstimatedValue string   `json:"estimated_value,omitempty"`
	SerialNumber   string   `json:"serial_number,omitempty"`
	ImagePaths     []string `json:"image_paths,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// CreateLoanRequest carries the data for issuing a loan with its first cycle.
type CreateLoanRequest struct {
	UserID          string           `json:"-"`
	CustomerID      uuid.UUID        `json:"customer_id"`
	PrincipalAmount string           `json:"principal_amount"`
	InterestRate    string           `json:"interest_rate,omitempty"`
	StartDate       time.Time        `json:"start_date"`
	DueDate         time.Time        `json:"due_date"`
	Notes           string           `json:"notes,omitempty"`
	CollateralItems []CollateralItem `json:"collateral_items,omitempty"`
}

// CycleResponse is the transport representation of a billing cycle.
type CycleResponse struct {
	ID               uuid.UUID `json:"id"`
	CycleNumber      int       `json:"cycle_number"`
	StartDate        time.Time `json:"cycle_start_date"`
	EndDate          time.Time `json:"cycle_end_date"`
	OpeningPrincipal string    `json:"opening_principal"`
	InterestCharged  string    `json:"interest_charged"`
	TotalDue         string    `json:"total_due"`
	TotalPaid        string    `json:"total_paid"`
	Balance          string    `json:"balance"`
	Status           string    `json:"status"`
}

// CollateralResponse is the transport representation of a collateral item.
type CollateralResponse struct {
	ID             uuid.UUID  `json:"id"`
	LoanID         uuid.UUID  `json:"loan_id"`
	Description    string     `json:"description"`
	EstimatedValue string     `json:"estimated_value,omitempty"`
	SerialNumber   string     `json:"serial_number,omitempty"`
	ImagePaths     []string   `json:"image_paths,omitempty"`
	ReturnedAt     *time.Time `json:"returned_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
}

// LoanResponse is the transport representation of a loan.
type LoanResponse struct {
	ID              uuid.UUID            `json:"id"`
	CustomerID      uuid.UUID            `json:"customer_id"`
	Customer        *CustomerResponse    `json:"customer,omitempty"`
	PrincipalAmount string               `json:"principal_amount"`
	InterestRate    string               `json:"interest_rate"`
	StartDate       time.Time            `json:"start_date"`
	DueDate         time.Time            `json:"due_date"`
	Status          string               `json:"status"`
	Notes           string               `json:"notes,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	Cycles          []CycleResponse      `json:"cycles,omitempty"`
	Collateral      []CollateralResponse `json:"collateral,omitempty"`
	Payments        []PaymentResponse    `json:"payments,omitempty"`
}

// ---------------------------------------------------------------------------
// Payment DTOs
// ---------------------------------------------------------------------------

// RecordPaymentRequest carries the data for applying a payment to a loan's
// active cycle.
type RecordPaymentRequest struct {
	UserID string    `json:"-"`
	LoanID uuid.UUID `json:"-"`
	Amount string    `json:"amount"`
	PaidAt time.Time `json:"paid_at"`
	Note   string    `json:"note,omitempty"`
}

// PaymentResponse is the transport representation of a payment.
type PaymentResponse struct {
	ID           uuid.UUID `json:"id"`
	LoanID       uuid.UUID `json:"loan_id"`
	CycleID      uuid.UUID `json:"cycle_id"`
	Amount       string    `json:"amount"`
	PaidAt       time.Time `json:"paid_at"`
	Note         string    `json:"note,omitempty"`
	CycleBalance string    `json:"cycle_balance"`
	LoanStatus   string    `json:"loan_status"`
}

// ---------------------------------------------------------------------------
// Rollover DTOs
// ---------------------------------------------------------------------------

// RolloverResponse reports how many cycles a rollover run processed.
type RolloverResponse struct {
	RolledOver int `json:"rolled_over"`
}

// ---------------------------------------------------------------------------
// Reporting DTOs
// ---------------------------------------------------------------------------

// DashboardResponse aggregates the dashboard numbers plus recent activity.
type DashboardResponse struct {
	ActiveLoans        int         `json:"active_loans"`
	OverdueLoans       int         `json:"overdue_loans"`
	CapitalOutstanding string      `json:"capital_outstanding"`
	ExpectedThisCycle  string      `json:"expected_this_cycle"`
	CollectedThisMonth string      `json:"collected_this_month"`
	WorkingCapital     string      `json:"working_capital"`
	OverdueLoanIDs     []uuid.UUID `json:"overdue_loan_ids,omitempty"`

	RecentLoans    []LoanResponse    `json:"recent_loans,omitempty"`
	RecentPayments []PaymentResponse `json:"recent_payments,omitempty"`
}

// MonthlyReportRow is one month of aggregates in the monthly report.
type MonthlyReportRow struct {
	Month           string `json:"month"`
	LoansIssued     int    `json:"loans_issued"`
	TotalPrincipal  string `json:"total_principal"`
	TotalCollected  string `json:"total_collected"`
	InterestCharged string `json:"interest_charged"`
}

// SettingsResponse is the transport representation of app settings.
type SettingsResponse struct {
	WorkingCapital string `json:"working_capital"`
}

// UpdateSettingsRequest carries a working-capital change.
type UpdateSettingsRequest struct {
	UserID         string `json:"-"`
	WorkingCapital string `json:"working_capital"`
}

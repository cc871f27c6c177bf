package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/internal/domain/valueobject"
)

// GetLoanUseCase retrieves a loan with its customer, cycles, collateral and
// payments.
type GetLoanUseCase struct {
	loanRepo       port.LoanRepository
	customerRepo   port.CustomerRepository
	cycleRepo      port.CycleRepository
	collateralRepo port.CollateralRepository
	paymentRepo    port.PaymentRepository
}

// NewGetLoanUseCase wires dependencies.
func NewGetLoanUseCase(
	loanRepo port.LoanRepository,
	customerRepo port.CustomerRepository,
	cycleRepo port.CycleRepository,
	collateralRepo port.CollateralRepository,
	paymentRepo port.PaymentRepository,
) *GetLoanUseCase {
	return &GetLoanUseCase{
		loanRepo:       loanRepo,
		customerRepo:   customerRepo,
		cycleRepo:      cycleRepo,
		collateralRepo: collateralRepo,
		paymentRepo:    paymentRepo,
	}
}

// Execute assembles the full loan view.
func (uc *GetLoanUseCase) Execute(ctx context.Context, loanID uuid.UUID) (dto.LoanResponse, error) {
	loan, err := uc.loanRepo.FindByID(ctx, loanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find loan: %w", err)
	}

	resp := dto.FromLoan(loan)

	customer, err := uc.customerRepo.FindByID(ctx, loan.CustomerID())
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find customer: %w", err)
	}
	customerResp := dto.FromCustomer(customer)
	resp.Customer = &customerResp

	cycles, err := uc.cycleRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find cycles: %w", err)
	}
	for _, c := range cycles {
		resp.Cycles = append(resp.Cycles, dto.FromCycle(c))
	}

	collateral, err := uc.collateralRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find collateral: %w", err)
	}
	for _, c := range collateral {
		resp.Collateral = append(resp.Collateral, dto.FromCollateral(c))
	}

	payments, err := uc.paymentRepo.FindByLoanID(ctx, loanID)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find payments: %w", err)
	}
	for _, p := range payments {
		resp.Payments = append(resp.Payments, dto.FromPayment(p))
	}

	return resp, nil
}

// ListLoansUseCase lists loans, optionally filtered by status.
type ListLoansUseCase struct {
	loanRepo port.LoanRepository
}

// NewListLoansUseCase wires dependencies.
func NewListLoansUseCase(loanRepo port.LoanRepository) *ListLoansUseCase {
	return &ListLoansUseCase{loanRepo: loanRepo}
}

// Execute returns loans without child collections. An empty status string
// means no filter.
func (uc *ListLoansUseCase) Execute(ctx context.Context, status string) ([]dto.LoanResponse, error) {
	var filter *valueobject.LoanStatus
	if status != "" {
		s, err := valueobject.NewLoanStatus(status)
		if err != nil {
			return nil, fmt.Errorf("parse status filter: %w", err)
		}
		filter = &s
	}

	loans, err := uc.loanRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find loans: %w", err)
	}

	out := make([]dto.LoanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, dto.FromLoan(l))
	}
	return out, nil
}

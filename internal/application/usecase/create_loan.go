package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/domain/event"
	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// DefaultInterestRate applies when a loan is issued without an explicit rate.
const DefaultInterestRate = "0.2000"

// CreateLoanUseCase issues a loan together with its first billing cycle and
// any collateral items, atomically.
type CreateLoanUseCase struct {
	customerRepo   port.CustomerRepository
	loanRepo       port.LoanRepository
	cycleRepo      port.CycleRepository
	collateralRepo port.CollateralRepository
	auditRepo      port.AuditLogRepository
	tx             port.TxManager
	publisher      port.EventPublisher
}

// NewCreateLoanUseCase wires dependencies.
func NewCreateLoanUseCase(
	customerRepo port.CustomerRepository,
	loanRepo port.LoanRepository,
	cycleRepo port.CycleRepository,
	collateralRepo port.CollateralRepository,
	auditRepo port.AuditLogRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
) *CreateLoanUseCase {
	return &CreateLoanUseCase{
		customerRepo:   customerRepo,
		loanRepo:       loanRepo,
		cycleRepo:      cycleRepo,
		collateralRepo: collateralRepo,
		auditRepo:      auditRepo,
		tx:             tx,
		publisher:      publisher,
	}
}

// Execute creates the loan, cycle 1 and collateral in one transaction.
func (uc *CreateLoanUseCase) Execute(ctx context.Context, req dto.CreateLoanRequest) (dto.LoanResponse, error) {
	now := time.Now().UTC()

	principal, err := money.ParseAmount(req.PrincipalAmount)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("parse principal: %w", err)
	}
	if principal <= 0 {
		return dto.LoanResponse{}, fmt.Errorf("principal must be greater than zero")
	}

	rateStr := req.InterestRate
	if rateStr == "" {
		rateStr = DefaultInterestRate
	}
	rate, err := money.ParseRate(rateStr)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("parse interest rate: %w", err)
	}

	if _, err := uc.customerRepo.FindByID(ctx, req.CustomerID); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("find customer: %w", err)
	}

	loan, err := model.NewLoan(req.CustomerID, principal, rate, req.StartDate, req.DueDate, req.Notes, now)
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("new loan: %w", err)
	}

	firstCycle, err := model.NewBillingCycle(loan.ID(), 1, loan.StartDate(), loan.DueDate(), model.NewCycleState(principal, rate))
	if err != nil {
		return dto.LoanResponse{}, fmt.Errorf("new billing cycle: %w", err)
	}

	var (
		collateral []model.Collateral
		pending    []event.DomainEvent
	)

	err = uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := uc.loanRepo.Save(ctx, loan); err != nil {
			return fmt.Errorf("save loan: %w", err)
		}
		if err := uc.cycleRepo.Save(ctx, firstCycle); err != nil {
			return fmt.Errorf("save first cycle: %w", err)
		}

		for _, item := range req.CollateralItems {
			col, err := newCollateralFromItem(loan.ID(), item, now)
			if err != nil {
				return err
			}
			if err := uc.collateralRepo.Save(ctx, col); err != nil {
				return fmt.Errorf("save collateral: %w", err)
			}
			if err := uc.auditRepo.Record(ctx, port.AuditEntry{
				UserID:     req.UserID,
				Action:     "COLLATERAL_ADDED",
				EntityType: "collateral",
				EntityID:   col.ID(),
				Metadata:   map[string]any{"after": dto.FromCollateral(col)},
			}); err != nil {
				return fmt.Errorf("audit collateral: %w", err)
			}
			pending = append(pending, col.DomainEvents()...)
			collateral = append(collateral, col)
		}

		if err := uc.auditRepo.Record(ctx, port.AuditEntry{
			UserID:     req.UserID,
			Action:     "LOAN_CREATED",
			EntityType: "loan",
			EntityID:   loan.ID(),
			Metadata: map[string]any{
				"after":        dto.FromLoan(loan),
				"initialCycle": dto.FromCycle(firstCycle),
			},
		}); err != nil {
			return fmt.Errorf("audit loan: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.LoanResponse{}, err
	}

	pending = append(loan.DomainEvents(), pending...)
	if err := uc.publisher.Publish(ctx, pending...); err != nil {
		return dto.LoanResponse{}, fmt.Errorf("publish events: %w", err)
	}

	resp := dto.FromLoan(loan)
	resp.Cycles = []dto.CycleResponse{dto.FromCycle(firstCycle)}
	for _, col := range collateral {
		resp.Collateral = append(resp.Collateral, dto.FromCollateral(col))
	}
	return resp, nil
}

func newCollateralFromItem(loanID uuid.UUID, item dto.CollateralItem, now time.Time) (model.Collateral, error) {
	var estimated *money.Cents
	if item.EstimatedValue != "" {
		v, err := money.ParseAmount(item.EstimatedValue)
		if err != nil {
			return model.Collateral{}, fmt.Errorf("parse collateral value: %w", err)
		}
		estimated = &v
	}
	col, err := model.NewCollateral(loanID, item.Description, estimated, item.SerialNumber, item.ImagePaths, item.Notes, now)
	if err != nil {
		return model.Collateral{}, fmt.Errorf("new collateral: %w", err)
	}
	return col, nil
}

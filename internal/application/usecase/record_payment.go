package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/domain/event"
	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// RecordPaymentUseCase applies a payment to a loan's most recent open or
// overdue billing cycle, closing the cycle and settling the loan when the
// balance reaches zero or below.
type RecordPaymentUseCase struct {
	loanRepo    port.LoanRepository
	cycleRepo   port.CycleRepository
	paymentRepo port.PaymentRepository
	auditRepo   port.AuditLogRepository
	tx          port.TxManager
	publisher   port.EventPublisher
}

// NewRecordPaymentUseCase wires dependencies.
func NewRecordPaymentUseCase(
	loanRepo port.LoanRepository,
	cycleRepo port.CycleRepository,
	paymentRepo port.PaymentRepository,
	auditRepo port.AuditLogRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{
		loanRepo:    loanRepo,
		cycleRepo:   cycleRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		publisher:   publisher,
	}
}

// Execute records the payment. The read-compute-write sequence runs in one
// transaction so concurrent payments against the same loan cannot apply to a
// stale cycle.
func (uc *RecordPaymentUseCase) Execute(ctx context.Context, req dto.RecordPaymentRequest) (dto.PaymentResponse, error) {
	now := time.Now().UTC()

	amount, err := money.ParseAmount(req.Amount)
	if err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("parse amount: %w", err)
	}
	if amount <= 0 {
		return dto.PaymentResponse{}, fmt.Errorf("payment amount must be greater than zero")
	}

	var (
		payment model.Payment
		updated model.BillingCycle
		loan    model.Loan
		pending []event.DomainEvent
	)

	err = uc.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		loan, err = uc.loanRepo.FindByID(ctx, req.LoanID)
		if err != nil {
			return fmt.Errorf("find loan: %w", err)
		}

		cycle, err := uc.cycleRepo.FindActiveByLoanID(ctx, req.LoanID)
		if err != nil {
			return fmt.Errorf("find active cycle: %w", err)
		}

		payment, err = model.NewPayment(req.LoanID, cycle.ID(), amount, req.PaidAt, req.Note, now)
		if err != nil {
			return fmt.Errorf("new payment: %w", err)
		}
		if err := uc.paymentRepo.Save(ctx, payment); err != nil {
			return fmt.Errorf("save payment: %w", err)
		}

		updated, err = cycle.RecordPayment(amount)
		if err != nil {
			return fmt.Errorf("apply payment: %w", err)
		}
		if err := uc.cycleRepo.Save(ctx, updated); err != nil {
			return fmt.Errorf("save cycle: %w", err)
		}

		pending = append(pending, event.NewPaymentRecorded(
			loan.ID(), payment.ID(), cycle.ID(),
			money.FormatAmount(amount), money.FormatAmount(updated.Balance()),
		))

		if updated.State().Settled() {
			loan, err = loan.Settle(now)
			if err != nil {
				return fmt.Errorf("settle loan: %w", err)
			}
			if err := uc.loanRepo.Save(ctx, loan); err != nil {
				return fmt.Errorf("save loan: %w", err)
			}
			pending = append(pending, loan.DomainEvents()...)
		}

		if err := uc.auditRepo.Record(ctx, port.AuditEntry{
			UserID:     req.UserID,
			Action:     "PAYMENT_RECORDED",
			EntityType: "payment",
			EntityID:   payment.ID(),
			Metadata: map[string]any{
				"payment":         dto.FromPayment(payment),
				"newCycleBalance": money.FormatAmount(updated.Balance()),
			},
		}); err != nil {
			return fmt.Errorf("audit payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return dto.PaymentResponse{}, err
	}

	if err := uc.publisher.Publish(ctx, pending...); err != nil {
		return dto.PaymentResponse{}, fmt.Errorf("publish events: %w", err)
	}

	resp := dto.FromPayment(payment)
	resp.CycleBalance = money.FormatAmount(updated.Balance())
	resp.LoanStatus = loan.Status().String()
	return resp, nil
}

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

// rolloverActor identifies scheduled rollover runs in the audit log.
const rolloverActor = "system-cron"

// RolloverCyclesUseCase finds every open cycle whose period has ended with an
// outstanding balance, marks it (and its loan) overdue, and opens the next
// cycle from the remaining balance.
//
// The rollover policy depends on loan-level payment history: a loan that has
// never received any payment rolls forward without new interest; a loan with
// at least one payment ever compounds interest on the remainder.
type RolloverCyclesUseCase struct {
	loanRepo    port.LoanRepository
	cycleRepo   port.CycleRepository
	paymentRepo port.PaymentRepository
	auditRepo   port.AuditLogRepository
	tx          port.TxManager
	publisher   port.EventPublisher
}

// NewRolloverCyclesUseCase wires dependencies.
func NewRolloverCyclesUseCase(
	loanRepo port.LoanRepository,
	cycleRepo port.CycleRepository,
	paymentRepo port.PaymentRepository,
	auditRepo port.AuditLogRepository,
	tx port.TxManager,
	publisher port.EventPublisher,
) *RolloverCyclesUseCase {
	return &RolloverCyclesUseCase{
		loanRepo:    loanRepo,
		cycleRepo:   cycleRepo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		tx:          tx,
		publisher:   publisher,
	}
}

// Execute rolls over all expired cycles as of now, each in its own
// transaction, and returns how many were processed.
func (uc *RolloverCyclesUseCase) Execute(ctx context.Context) (dto.RolloverResponse, error) {
	now := time.Now().UTC()

	expired, err := uc.cycleRepo.FindExpiredOpen(ctx, now)
	if err != nil {
		return dto.RolloverResponse{}, fmt.Errorf("find expired cycles: %w", err)
	}

	var pending []event.DomainEvent
	rolled := 0

	for _, cycle := range expired {
		var evt event.CycleRolledOver
		err := uc.tx.RunInTx(ctx, func(ctx context.Context) error {
			var err error
			evt, err = uc.rolloverOne(ctx, cycle, now)
			return err
		})
		if err != nil {
			return dto.RolloverResponse{RolledOver: rolled}, fmt.Errorf("rollover cycle %s: %w", cycle.ID(), err)
		}
		pending = append(pending, evt)
		rolled++
	}

	if len(pending) > 0 {
		if err := uc.publisher.Publish(ctx, pending...); err != nil {
			return dto.RolloverResponse{RolledOver: rolled}, fmt.Errorf("publish events: %w", err)
		}
	}

	return dto.RolloverResponse{RolledOver: rolled}, nil
}

func (uc *RolloverCyclesUseCase) rolloverOne(ctx context.Context, cycle model.BillingCycle, now time.Time) (event.CycleRolledOver, error) {
	overdue, err := cycle.MarkOverdue()
	if err != nil {
		return event.CycleRolledOver{}, fmt.Errorf("mark cycle overdue: %w", err)
	}
	if err := uc.cycleRepo.Save(ctx, overdue); err != nil {
		return event.CycleRolledOver{}, fmt.Errorf("save overdue cycle: %w", err)
	}

	loan, err := uc.loanRepo.FindByID(ctx, cycle.LoanID())
	if err != nil {
		return event.CycleRolledOver{}, fmt.Errorf("find loan: %w", err)
	}
	loan, err = loan.MarkOverdue(now)
	if err != nil {
		return event.CycleRolledOver{}, fmt.Errorf("mark loan overdue: %w", err)
	}
	if err := uc.loanRepo.Save(ctx, loan); err != nil {
		return event.CycleRolledOver{}, fmt.Errorf("save loan: %w", err)
	}

	hasPayments, err := uc.paymentRepo.HasAnyForLoan(ctx, loan.ID())
	if err != nil {
		return event.CycleRolledOver{}, fmt.Errorf("check payment history: %w", err)
	}
	policy := model.RolloverNoInterestGrace
	if hasPayments {
		policy = model.RolloverCompoundPenalty
	}

	nextState := model.Rollover(cycle.Balance(), loan.InterestRate(), policy)
	nextCycle, err := model.NewBillingCycle(
		loan.ID(),
		cycle.CycleNumber()+1,
		cycle.EndDate(),
		cycle.EndDate().AddDate(0, 1, 0),
		nextState,
	)
	if err != nil {
		return event.CycleRolledOver{}, fmt.Errorf("new cycle: %w", err)
	}
	if err := uc.cycleRepo.Save(ctx, nextCycle); err != nil {
		return event.CycleRolledOver{}, fmt.Errorf("save next cycle: %w", err)
	}

	if err := uc.auditRepo.Record(ctx, port.AuditEntry{
		UserID:     rolloverActor,
		Action:     "CYCLE_ROLLED_OVER",
		EntityType: "loan",
		EntityID:   loan.ID(),
		Metadata: map[string]any{
			"previousCycle": cycle.ID(),
			"newCycle":      nextCycle.ID(),
			"compounded":    hasPayments,
		},
	}); err != nil {
		return event.CycleRolledOver{}, fmt.Errorf("audit rollover: %w", err)
	}

	return event.NewCycleRolledOver(
		loan.ID(), cycle.ID(), nextCycle.ID(), nextCycle.CycleNumber(),
		money.FormatAmount(nextState.OpeningPrincipal),
		money.FormatAmount(nextState.InterestCharged),
	), nil
}

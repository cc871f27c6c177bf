package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendtrack/lendtrack/internal/application/usecase"
	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/valueobject"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// expiredCycle builds an OPEN cycle whose period ended in the past, carrying
// the given outstanding balance.
func expiredCycle(t *testing.T, loanID uuid.UUID, balance money.Cents) model.BillingCycle {
	t.Helper()
	start := time.Now().UTC().AddDate(0, -2, 0)
	end := start.AddDate(0, 1, 0)
	state := model.CycleState{
		OpeningPrincipal: balance,
		InterestCharged:  0,
		TotalDue:         balance,
		TotalPaid:        0,
		Balance:          balance,
	}
	return model.ReconstructBillingCycle(uuid.New(), loanID, 1, start, end, state, valueobject.CycleStatusOpen)
}

func overdueCandidateLoan(t *testing.T) model.Loan {
	t.Helper()
	start := time.Now().UTC().AddDate(0, -2, 0)
	return model.ReconstructLoan(
		uuid.New(), uuid.New(),
		10000, money.MustParseRate("0.2000"),
		start, start.AddDate(0, 1, 0),
		valueobject.LoanStatusActive, "",
		start, start,
	)
}

func TestRolloverCycles_Execute(t *testing.T) {
	t.Run("never-paid loan rolls over without new interest", func(t *testing.T) {
		loan := overdueCandidateLoan(t)
		cycle := expiredCycle(t, loan.ID(), 12000)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ uuid.UUID) (model.Loan, error) { return loan, nil },
		}
		cycleRepo := &mockCycleRepository{
			findExpiredFunc: func(_ context.Context, _ time.Time) ([]model.BillingCycle, error) {
				return []model.BillingCycle{cycle}, nil
			},
		}
		paymentRepo := &mockPaymentRepository{
			hasAnyFunc: func(_ context.Context, _ uuid.UUID) (bool, error) { return false, nil },
		}
		auditRepo := &mockAuditLogRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRolloverCyclesUseCase(loanRepo, cycleRepo, paymentRepo, auditRepo, &mockTxManager{}, publisher)

		resp, err := uc.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, resp.RolledOver)

		// first save marks the old cycle overdue, second opens the next cycle
		require.Len(t, cycleRepo.savedCycles, 2)
		assert.True(t, cycleRepo.savedCycles[0].Status().Equal(valueobject.CycleStatusOverdue))

		next := cycleRepo.savedCycles[1]
		assert.Equal(t, 2, next.CycleNumber())
		assert.Equal(t, cycle.EndDate(), next.StartDate())
		assert.Equal(t, cycle.EndDate().AddDate(0, 1, 0), next.EndDate())
		assert.Equal(t, money.Cents(12000), next.State().OpeningPrincipal)
		assert.Equal(t, money.Cents(0), next.State().InterestCharged)
		assert.Equal(t, money.Cents(12000), next.State().TotalDue)

		require.Len(t, loanRepo.savedLoans, 1)
		assert.True(t, loanRepo.savedLoans[0].Status().Equal(valueobject.LoanStatusOverdue))

		require.Len(t, auditRepo.entries, 1)
		assert.Equal(t, "CYCLE_ROLLED_OVER", auditRepo.entries[0].Action)
		assert.Equal(t, "system-cron", auditRepo.entries[0].UserID)
		assert.Equal(t, false, auditRepo.entries[0].Metadata["compounded"])
		assert.Len(t, publisher.publishedEvents, 1)
	})

	t.Run("previously-paid loan compounds interest on the remainder", func(t *testing.T) {
		loan := overdueCandidateLoan(t)
		cycle := expiredCycle(t, loan.ID(), 4000)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ uuid.UUID) (model.Loan, error) { return loan, nil },
		}
		cycleRepo := &mockCycleRepository{
			findExpiredFunc: func(_ context.Context, _ time.Time) ([]model.BillingCycle, error) {
				return []model.BillingCycle{cycle}, nil
			},
		}
		paymentRepo := &mockPaymentRepository{
			hasAnyFunc: func(_ context.Context, _ uuid.UUID) (bool, error) { return true, nil },
		}
		auditRepo := &mockAuditLogRepository{}

		uc := usecase.NewRolloverCyclesUseCase(loanRepo, cycleRepo, paymentRepo, auditRepo, &mockTxManager{}, &mockEventPublisher{})

		resp, err := uc.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 1, resp.RolledOver)

		require.Len(t, cycleRepo.savedCycles, 2)
		next := cycleRepo.savedCycles[1]
		assert.Equal(t, money.Cents(4000), next.State().OpeningPrincipal)
		assert.Equal(t, money.Cents(800), next.State().InterestCharged)
		assert.Equal(t, money.Cents(4800), next.State().TotalDue)
		assert.Equal(t, true, auditRepo.entries[0].Metadata["compounded"])
	})

	t.Run("repeated rollover compounds on the full carried balance", func(t *testing.T) {
		loan := overdueCandidateLoan(t)
		cycle := expiredCycle(t, loan.ID(), 4800)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ uuid.UUID) (model.Loan, error) { return loan, nil },
		}
		cycleRepo := &mockCycleRepository{
			findExpiredFunc: func(_ context.Context, _ time.Time) ([]model.BillingCycle, error) {
				return []model.BillingCycle{cycle}, nil
			},
		}
		paymentRepo := &mockPaymentRepository{
			hasAnyFunc: func(_ context.Context, _ uuid.UUID) (bool, error) { return true, nil },
		}

		uc := usecase.NewRolloverCyclesUseCase(loanRepo, cycleRepo, paymentRepo, &mockAuditLogRepository{}, &mockTxManager{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background())

		require.NoError(t, err)
		next := cycleRepo.savedCycles[1]
		assert.Equal(t, money.Cents(960), next.State().InterestCharged)
		assert.Equal(t, money.Cents(5760), next.State().TotalDue)
	})

	t.Run("no expired cycles is a no-op", func(t *testing.T) {
		cycleRepo := &mockCycleRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewRolloverCyclesUseCase(&mockLoanRepository{}, cycleRepo, &mockPaymentRepository{}, &mockAuditLogRepository{}, &mockTxManager{}, publisher)

		resp, err := uc.Execute(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 0, resp.RolledOver)
		assert.Empty(t, cycleRepo.savedCycles)
		assert.Empty(t, publisher.publishedEvents)
	})

	t.Run("fails when fetching expired cycles fails", func(t *testing.T) {
		cycleRepo := &mockCycleRepository{
			findExpiredFunc: func(_ context.Context, _ time.Time) ([]model.BillingCycle, error) {
				return nil, fmt.Errorf("database unavailable")
			},
		}

		uc := usecase.NewRolloverCyclesUseCase(&mockLoanRepository{}, cycleRepo, &mockPaymentRepository{}, &mockAuditLogRepository{}, &mockTxManager{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find expired cycles")
	})

	t.Run("stops and reports progress when one rollover fails", func(t *testing.T) {
		loan := overdueCandidateLoan(t)
		first := expiredCycle(t, loan.ID(), 12000)
		second := expiredCycle(t, loan.ID(), 6000)

		loanRepo := &mockLoanRepository{
			findByIDFunc: func(_ context.Context, _ uuid.UUID) (model.Loan, error) { return loan, nil },
		}
		saves := 0
		cycleRepo := &mockCycleRepository{
			findExpiredFunc: func(_ context.Context, _ time.Time) ([]model.BillingCycle, error) {
				return []model.BillingCycle{first, second}, nil
			},
			saveFunc: func(_ context.Context, _ model.BillingCycle) error {
				saves++
				if saves > 2 {
					return fmt.Errorf("database unavailable")
				}
				return nil
			},
		}

		uc := usecase.NewRolloverCyclesUseCase(loanRepo, cycleRepo, &mockPaymentRepository{}, &mockAuditLogRepository{}, &mockTxManager{}, &mockEventPublisher{})

		resp, err := uc.Execute(context.Background())

		require.Error(t, err)
		assert.Equal(t, 1, resp.RolledOver)
	})
}

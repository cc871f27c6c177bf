package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/application/usecase"
	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/internal/domain/valueobject"
	"github.com/lendtrack/lendtrack/pkg/money"
)

func TestDashboard_Execute(t *testing.T) {
	t.Run("assembles stats, settings and recent activity", func(t *testing.T) {
		overdueID := uuid.New()
		reportRepo := &mockReportRepository{
			statsFunc: func(ctx context.Context, monthStart time.Time) (port.DashboardStats, error) {
				// Month start is the first of the current UTC month.
				assert.Equal(t, 1, monthStart.Day())
				assert.Equal(t, time.UTC, monthStart.Location())
				return port.DashboardStats{
					ActiveLoans:        3,
					OverdueLoans:       1,
					CapitalOutstanding: 36000,
					ExpectedThisCycle:  24000,
					CollectedThisMonth: 8000,
				}, nil
			},
			overdueIDsFunc: func(ctx context.Context, limit int) ([]uuid.UUID, error) {
				assert.Equal(t, 10, limit)
				return []uuid.UUID{overdueID}, nil
			},
		}
		settingsRepo := &mockSettingsRepository{workingCapital: 500000}

		now := time.Now().UTC()
		loan := model.ReconstructLoan(
			uuid.New(), uuid.New(), 10000, money.MustParseRate("0.2000"),
			now.AddDate(0, -1, 0), now, valueobject.LoanStatusActive, "", now, now,
		)
		payment := model.ReconstructPayment(uuid.New(), loan.ID(), uuid.New(), 8000, now, "", now)

		loanRepo := &mockLoanRepository{
			findAllFunc: func(ctx context.Context, status *valueobject.LoanStatus) ([]model.Loan, error) {
				assert.Nil(t, status)
				return []model.Loan{loan}, nil
			},
		}
		paymentRepo := &mockPaymentRepository{
			findAllFunc: func(ctx context.Context) ([]model.Payment, error) {
				return []model.Payment{payment}, nil
			},
		}

		uc := usecase.NewDashboardUseCase(reportRepo, settingsRepo, loanRepo, paymentRepo)
		resp, err := uc.Execute(context.Background())
		require.NoError(t, err)

		assert.Equal(t, 3, resp.ActiveLoans)
		assert.Equal(t, 1, resp.OverdueLoans)
		assert.Equal(t, "360.00", resp.CapitalOutstanding)
		assert.Equal(t, "240.00", resp.ExpectedThisCycle)
		assert.Equal(t, "80.00", resp.CollectedThisMonth)
		assert.Equal(t, "5000.00", resp.WorkingCapital)
		assert.Equal(t, []uuid.UUID{overdueID}, resp.OverdueLoanIDs)
		require.Len(t, resp.RecentLoans, 1)
		assert.Equal(t, loan.ID(), resp.RecentLoans[0].ID)
		require.Len(t, resp.RecentPayments, 1)
		assert.Equal(t, "80.00", resp.RecentPayments[0].Amount)
	})

	t.Run("caps recent lists at five entries", func(t *testing.T) {
		now := time.Now().UTC()
		var loans []model.Loan
		for i := 0; i < 8; i++ {
			loans = append(loans, model.ReconstructLoan(
				uuid.New(), uuid.New(), 10000, money.MustParseRate("0.2000"),
				now.AddDate(0, -1, 0), now, valueobject.LoanStatusActive, "", now, now,
			))
		}
		loanRepo := &mockLoanRepository{
			findAllFunc: func(ctx context.Context, status *valueobject.LoanStatus) ([]model.Loan, error) {
				return loans, nil
			},
		}

		uc := usecase.NewDashboardUseCase(&mockReportRepository{}, &mockSettingsRepository{}, loanRepo, &mockPaymentRepository{})
		resp, err := uc.Execute(context.Background())
		require.NoError(t, err)

		assert.Len(t, resp.RecentLoans, 5)
		assert.Empty(t, resp.RecentPayments)
	})

	t.Run("stats failure propagates", func(t *testing.T) {
		reportRepo := &mockReportRepository{
			statsFunc: func(ctx context.Context, monthStart time.Time) (port.DashboardStats, error) {
				return port.DashboardStats{}, fmt.Errorf("connection refused")
			},
		}

		uc := usecase.NewDashboardUseCase(reportRepo, &mockSettingsRepository{}, &mockLoanRepository{}, &mockPaymentRepository{})
		_, err := uc.Execute(context.Background())
		assert.ErrorContains(t, err, "dashboard stats")
	})
}

func TestMonthlyReport_Execute(t *testing.T) {
	t.Run("formats cent aggregates as amounts", func(t *testing.T) {
		reportRepo := &mockReportRepository{
			monthlyRowsFunc: func(ctx context.Context) ([]port.MonthlyReportRow, error) {
				return []port.MonthlyReportRow{
					{Month: "2026-08", LoansIssued: 2, TotalPrincipal: 30000, TotalCollected: 12000, InterestCharged: 6000},
					{Month: "2026-07", LoansIssued: 1, TotalPrincipal: 10000, TotalCollected: 12000, InterestCharged: 2000},
				}, nil
			},
		}

		uc := usecase.NewMonthlyReportUseCase(reportRepo)
		rows, err := uc.Execute(context.Background())
		require.NoError(t, err)

		require.Len(t, rows, 2)
		assert.Equal(t, "2026-08", rows[0].Month)
		assert.Equal(t, 2, rows[0].LoansIssued)
		assert.Equal(t, "300.00", rows[0].TotalPrincipal)
		assert.Equal(t, "120.00", rows[0].TotalCollected)
		assert.Equal(t, "60.00", rows[0].InterestCharged)
		assert.Equal(t, "2026-07", rows[1].Month)
	})

	t.Run("no data yields an empty slice", func(t *testing.T) {
		uc := usecase.NewMonthlyReportUseCase(&mockReportRepository{})
		rows, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.Empty(t, rows)
	})
}

func updateSettingsRequest(workingCapital string) dto.UpdateSettingsRequest {
	return dto.UpdateSettingsRequest{UserID: "owner", WorkingCapital: workingCapital}
}

func TestUpdateSettings_Execute(t *testing.T) {
	t.Run("persists the new working capital and audits the change", func(t *testing.T) {
		settingsRepo := &mockSettingsRepository{workingCapital: 100000}
		auditRepo := &mockAuditLogRepository{}

		uc := usecase.NewUpdateSettingsUseCase(settingsRepo, auditRepo, &mockTxManager{})
		resp, err := uc.Execute(context.Background(), updateSettingsRequest("2500.00"))
		require.NoError(t, err)

		assert.Equal(t, "2500.00", resp.WorkingCapital)
		assert.Equal(t, money.Cents(250000), settingsRepo.workingCapital)

		require.Len(t, auditRepo.entries, 1)
		entry := auditRepo.entries[0]
		assert.Equal(t, "SETTINGS_UPDATED", entry.Action)
		assert.Equal(t, "1000.00", entry.Metadata["before"])
		assert.Equal(t, "2500.00", entry.Metadata["after"])
	})

	t.Run("rejects negative working capital", func(t *testing.T) {
		uc := usecase.NewUpdateSettingsUseCase(&mockSettingsRepository{}, &mockAuditLogRepository{}, &mockTxManager{})
		_, err := uc.Execute(context.Background(), updateSettingsRequest("-1.00"))
		assert.Error(t, err)
	})

	t.Run("rejects malformed amounts", func(t *testing.T) {
		uc := usecase.NewUpdateSettingsUseCase(&mockSettingsRepository{}, &mockAuditLogRepository{}, &mockTxManager{})
		_, err := uc.Execute(context.Background(), updateSettingsRequest("lots"))
		assert.Error(t, err)
	})
}

func TestGetSettings_Execute(t *testing.T) {
	t.Run("zero before first save", func(t *testing.T) {
		uc := usecase.NewGetSettingsUseCase(&mockSettingsRepository{})
		resp, err := uc.Execute(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "0.00", resp.WorkingCapital)
	})
}

package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// recentLimit caps the recent-activity lists on the dashboard.
const recentLimit = 5

// DashboardUseCase serves the dashboard aggregates.
type DashboardUseCase struct {
	reportRepo   port.ReportRepository
	settingsRepo port.SettingsRepository
	loanRepo     port.LoanRepository
	paymentRepo  port.PaymentRepository
}

// NewDashboardUseCase wires dependencies.
func NewDashboardUseCase(
	reportRepo port.ReportRepository,
	settingsRepo port.SettingsRepository,
	loanRepo port.LoanRepository,
	paymentRepo port.PaymentRepository,
) *DashboardUseCase {
	return &DashboardUseCase{
		reportRepo:   reportRepo,
		settingsRepo: settingsRepo,
		loanRepo:     loanRepo,
		paymentRepo:  paymentRepo,
	}
}

// Execute computes the dashboard numbers as of now.
func (uc *DashboardUseCase) Execute(ctx context.Context) (dto.DashboardResponse, error) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats, err := uc.reportRepo.DashboardStats(ctx, monthStart)
	if err != nil {
		return dto.DashboardResponse{}, fmt.Errorf("dashboard stats: %w", err)
	}

	workingCapital, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		return dto.DashboardResponse{}, fmt.Errorf("get settings: %w", err)
	}

	overdueIDs, err := uc.reportRepo.OverdueLoanIDs(ctx, 10)
	if err != nil {
		return dto.DashboardResponse{}, fmt.Errorf("overdue loans: %w", err)
	}

	// Recent activity rides on the repos' newest-first ordering.
	loans, err := uc.loanRepo.FindAll(ctx, nil)
	if err != nil {
		return dto.DashboardResponse{}, fmt.Errorf("find loans: %w", err)
	}
	recentLoans := make([]dto.LoanResponse, 0, recentLimit)
	for _, l := range loans[:min(len(loans), recentLimit)] {
		recentLoans = append(recentLoans, dto.FromLoan(l))
	}

	payments, err := uc.paymentRepo.FindAll(ctx)
	if err != nil {
		return dto.DashboardResponse{}, fmt.Errorf("find payments: %w", err)
	}
	recentPayments := make([]dto.PaymentResponse, 0, recentLimit)
	for _, p := range payments[:min(len(payments), recentLimit)] {
		recentPayments = append(recentPayments, dto.FromPayment(p))
	}

	return dto.DashboardResponse{
		ActiveLoans:        stats.ActiveLoans,
		OverdueLoans:       stats.OverdueLoans,
		CapitalOutstanding: money.FormatAmount(stats.CapitalOutstanding),
		ExpectedThisCycle:  money.FormatAmount(stats.ExpectedThisCycle),
		CollectedThisMonth: money.FormatAmount(stats.CollectedThisMonth),
		WorkingCapital:     money.FormatAmount(workingCapital),
		OverdueLoanIDs:     overdueIDs,
		RecentLoans:        recentLoans,
		RecentPayments:     recentPayments,
	}, nil
}

// MonthlyReportUseCase serves the month-by-month issuance/collection report.
type MonthlyReportUseCase struct {
	reportRepo port.ReportRepository
}

// NewMonthlyReportUseCase wires dependencies.
func NewMonthlyReportUseCase(reportRepo port.ReportRepository) *MonthlyReportUseCase {
	return &MonthlyReportUseCase{reportRepo: reportRepo}
}

// Execute returns report rows, most recent month first.
func (uc *MonthlyReportUseCase) Execute(ctx context.Context) ([]dto.MonthlyReportRow, error) {
	rows, err := uc.reportRepo.MonthlyRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly rows: %w", err)
	}

	out := make([]dto.MonthlyReportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.MonthlyReportRow{
			Month:           r.Month,
			LoansIssued:     r.LoansIssued,
			TotalPrincipal:  money.FormatAmount(r.TotalPrincipal),
			TotalCollected:  money.FormatAmount(r.TotalCollected),
			InterestCharged: money.FormatAmount(r.InterestCharged),
		})
	}
	return out, nil
}

// ListPaymentsUseCase lists all recorded payments.
type ListPaymentsUseCase struct {
	paymentRepo port.PaymentRepository
}

// NewListPaymentsUseCase wires dependencies.
func NewListPaymentsUseCase(paymentRepo port.PaymentRepository) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{paymentRepo: paymentRepo}
}

// Execute returns every payment, newest first.
func (uc *ListPaymentsUseCase) Execute(ctx context.Context) ([]dto.PaymentResponse, error) {
	payments, err := uc.paymentRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("find payments: %w", err)
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, dto.FromPayment(p))
	}
	return out, nil
}

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
	"github.com/lendtrack/lendtrack/internal/domain/event"
	"github.com/lendtrack/lendtrack/internal/domain/model"
	"github.com/lendtrack/lendtrack/internal/domain/port"
	"github.com/lendtrack/lendtrack/internal/domain/valueobject"
	"github.com/lendtrack/lendtrack/pkg/money"
)

// --- Mock implementations ---

type mockCustomerRepository struct {
	savedCustomer *model.Customer
	saveFunc      func(ctx context.Context, c model.Customer) error
	findByIDFunc  func(ctx context.Context, id uuid.UUID) (model.Customer, error)
	findAllFunc   func(ctx context.Context) ([]model.Customer, error)
}

func (m *mockCustomerRepository) Save(ctx context.Context, c model.Customer) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	m.savedCustomer = &c
	return nil
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Customer{}, port.ErrNotFound
}

func (m *mockCustomerRepository) FindAll(ctx context.Context) ([]model.Customer, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

type mockLoanRepository struct {
	savedLoans   []model.Loan
	saveFunc     func(ctx context.Context, loan model.Loan) error
	findByIDFunc func(ctx context.Context, id uuid.UUID) (model.Loan, error)
	findAllFunc  func(ctx context.Context, status *valueobject.LoanStatus) ([]model.Loan, error)
}

func (m *mockLoanRepository) Save(ctx context.Context, loan model.Loan) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, loan)
	}
	m.savedLoans = append(m.savedLoans, loan)
	return nil
}

func (m *mockLoanRepository) FindByID(ctx context.Context, id uuid.UUID) (model.Loan, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Loan{}, port.ErrNotFound
}

func (m *mockLoanRepository) FindAll(ctx context.Context, status *valueobject.LoanStatus) ([]model.Loan, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, status)
	}
	return nil, nil
}

type mockCycleRepository struct {
	savedCycles      []model.BillingCycle
	saveFunc         func(ctx context.Context, cycle model.BillingCycle) error
	findByLoanIDFunc func(ctx context.Context, loanID uuid.UUID) ([]model.BillingCycle, error)
	findActiveFunc   func(ctx context.Context, loanID uuid.UUID) (model.BillingCycle, error)
	findExpiredFunc  func(ctx context.Context, asOf time.Time) ([]model.BillingCycle, error)
}

func (m *mockCycleRepository) Save(ctx context.Context, cycle model.BillingCycle) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, cycle)
	}
	m.savedCycles = append(m.savedCycles, cycle)
	return nil
}

func (m *mockCycleRepository) FindByLoanID(ctx context.Context, loanID uuid.UUID) ([]model.BillingCycle, error) {
	if m.findByLoanIDFunc != nil {
		return m.findByLoanIDFunc(ctx, loanID)
	}
	return nil, nil
}

func (m *mockCycleRepository) FindActiveByLoanID(ctx context.Context, loanID uuid.UUID) (model.BillingCycle, error) {
	if m.findActiveFunc != nil {
		return m.findActiveFunc(ctx, loanID)
	}
	return model.BillingCycle{}, port.ErrNotFound
}

func (m *mockCycleRepository) FindExpiredOpen(ctx context.Context, asOf time.Time) ([]model.BillingCycle, error) {
	if m.findExpiredFunc != nil {
		return m.findExpiredFunc(ctx, asOf)
	}
	return nil, nil
}

type mockPaymentRepository struct {
	savedPayments []model.Payment
	saveFunc      func(ctx context.Context, p model.Payment) error
	findByLoanID  func(ctx context.Context, loanID uuid.UUID) ([]model.Payment, error)
	findAllFunc   func(ctx context.Context) ([]model.Payment, error)
	hasAnyFunc    func(ctx context.Context, loanID uuid.UUID) (bool, error)
}

func (m *mockPaymentRepository) Save(ctx context.Context, p model.Payment) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, p)
	}
	m.savedPayments = append(m.savedPayments, p)
	return nil
}

func (m *mockPaymentRepository) FindByLoanID(ctx context.Context, loanID uuid.UUID) ([]model.Payment, error) {
	if m.findByLoanID != nil {
		return m.findByLoanID(ctx, loanID)
	}
	return nil, nil
}

func (m *mockPaymentRepository) FindAll(ctx context.Context) ([]model.Payment, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return nil, nil
}

func (m *mockPaymentRepository) HasAnyForLoan(ctx context.Context, loanID uuid.UUID) (bool, error) {
	if m.hasAnyFunc != nil {
		return m.hasAnyFunc(ctx, loanID)
	}
	return false, nil
}

type mockCollateralRepository struct {
	savedCollateral []model.Collateral
	deletedIDs      []uuid.UUID
	saveFunc        func(ctx context.Context, c model.Collateral) error
	findByIDFunc    func(ctx context.Context, loanID, id uuid.UUID) (model.Collateral, error)
	findByLoanID    func(ctx context.Context, loanID uuid.UUID) ([]model.Collateral, error)
}

func (m *mockCollateralRepository) Save(ctx context.Context, c model.Collateral) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, c)
	}
	m.savedCollateral = append(m.savedCollateral, c)
	return nil
}

func (m *mockCollateralRepository) FindByID(ctx context.Context, loanID, id uuid.UUID) (model.Collateral, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, loanID, id)
	}
	return model.Collateral{}, port.ErrNotFound
}

func (m *mockCollateralRepository) FindByLoanID(ctx context.Context, loanID uuid.UUID) ([]model.Collateral, error) {
	if m.findByLoanID != nil {
		return m.findByLoanID(ctx, loanID)
	}
	return nil, nil
}

func (m *mockCollateralRepository) Delete(ctx context.Context, id uuid.UUID) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return nil
}

type mockAuditLogRepository struct {
	entries    []port.AuditEntry
	recordFunc func(ctx context.Context, entry port.AuditEntry) error
}

func (m *mockAuditLogRepository) Record(ctx context.Context, entry port.AuditEntry) error {
	if m.recordFunc != nil {
		return m.recordFunc(ctx, entry)
	}
	m.entries = append(m.entries, entry)
	return nil
}

type mockSettingsRepository struct {
	workingCapital money.Cents
	getFunc        func(ctx context.Context) (money.Cents, error)
	upsertFunc     func(ctx context.Context, wc money.Cents) error
}

func (m *mockSettingsRepository) Get(ctx context.Context) (money.Cents, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx)
	}
	return m.workingCapital, nil
}

func (m *mockSettingsRepository) UpsertWorkingCapital(ctx context.Context, wc money.Cents) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, wc)
	}
	m.workingCapital = wc
	return nil
}

type mockReportRepository struct {
	statsFunc       func(ctx context.Context, monthStart time.Time) (port.DashboardStats, error)
	overdueIDsFunc  func(ctx context.Context, limit int) ([]uuid.UUID, error)
	monthlyRowsFunc func(ctx context.Context) ([]port.MonthlyReportRow, error)
}

func (m *mockReportRepository) DashboardStats(ctx context.Context, monthStart time.Time) (port.DashboardStats, error) {
	if m.statsFunc != nil {
		return m.statsFunc(ctx, monthStart)
	}
	return port.DashboardStats{}, nil
}

func (m *mockReportRepository) OverdueLoanIDs(ctx context.Context, limit int) ([]uuid.UUID, error) {
	if m.overdueIDsFunc != nil {
		return m.overdueIDsFunc(ctx, limit)
	}
	return nil, nil
}

func (m *mockReportRepository) MonthlyRows(ctx context.Context) ([]port.MonthlyReportRow, error) {
	if m.monthlyRowsFunc != nil {
		return m.monthlyRowsFunc(ctx)
	}
	return nil, nil
}

type mockTxManager struct {
	runFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.runFunc != nil {
		return m.runFunc(ctx, fn)
	}
	return fn(ctx)
}

type mockEventPublisher struct {
	publishedEvents []event.DomainEvent
	publishFunc     func(ctx context.Context, evts ...event.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

// --- Tests ---

func existingCustomer(t *testing.T) model.Customer {
	t.Helper()
	c, err := model.NewCustomer("Maria Santos", "+63 917 555 0101", "", model.NationalID{}, "", time.Now().UTC())
	require.NoError(t, err)
	return c
}

func validCreateLoanRequest(customerID uuid.UUID) dto.CreateLoanRequest {
	start := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	return dto.CreateLoanRequest{
		UserID:          "user-1",
		CustomerID:      customerID,
		PrincipalAmount: "100.00",
		StartDate:       start,
		DueDate:         start.AddDate(0, 1, 0),
	}
}

func TestCreateLoan_Execute(t *testing.T) {
	t.Run("creates loan with first cycle at the default rate", func(t *testing.T) {
		customer := existingCustomer(t)
		customerRepo := &mockCustomerRepository{
			findByIDFunc: func(_ context.Context, _ uuid.UUID) (model.Customer, error) {
				return customer, nil
			},
		}
		loanRepo := &mockLoanRepository{}
		cycleRepo := &mockCycleRepository{}
		collateralRepo := &mockCollateralRepository{}
		auditRepo := &mockAuditLogRepository{}
		publisher := &mockEventPublisher{}

		uc := usecase.NewCreateLoanUseCase(customerRepo, loanRepo, cycleRepo, collateralRepo, auditRepo, &mockTxManager{}, publisher)

		resp, err := uc.Execute(context.Background(), validCreateLoanRequest(customer.ID()))

		require.NoError(t, err)
		assert.Equal(t, "100.00", resp.PrincipalAmount)
		assert.Equal(t, "0.2000", resp.InterestRate)
		assert.Equal(t, "ACTIVE", resp.Status)

		require.Len(t, loanRepo.savedLoans, 1)
		require.Len(t, cycleRepo.savedCycles, 1)
		cycle := cycleRepo.savedCycles[0]
		assert.Equal(t, 1, cycle.CycleNumber())
		assert.Equal(t, money.Cents(10000), cycle.State().OpeningPrincipal)
		assert.Equal(t, money.Cents(2000), cycle.State().InterestCharged)
		assert.Equal(t, money.Cents(12000), cycle.State().TotalDue)
		assert.Equal(t, money.Cents(12000), cycle.State().Balance)

		require.Len(t, resp.Cycles, 1)
		assert.Equal(t, "120.00", resp.Cycles[0].TotalDue)

		require.NotEmpty(t, auditRepo.entries)
		assert.Equal(t, "LOAN_CREATED", auditRepo.entries[len(auditRepo.entries)-1].Action)
		assert.NotEmpty(t, publisher.publishedEvents)
	})

	t.Run("honors an explicit interest rate", func(t *testing.T) {
		customer := existingCustomer(t)
		customerRepo := &mockCustomerRepository{
			findByIDFunc: func(_ context.Context, _ uuid.UUID) (model.Customer, error) {
				return customer, nil
			},
		}
		cycleRepo := &mockCycleRepository{}

		uc := usecase.NewCreateLoanUseCase(customerRepo, &mockLoanRepository{}, cycleRepo, &mockCollateralRepository{}, &mockAuditLogRepository{}, &mockTxManager{}, &mockEventPublisher{})

		req := validCreateLoanRequest(customer.ID())
		req.PrincipalAmount = "100.33"
		req.InterestRate = "0.2001"
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "0.2001", resp.InterestRate)
		require.Len(t, cycleRepo.savedCycles, 1)
		assert.Equal(t, money.Cents(2007), cycleRepo.savedCycles[0].State().InterestCharged)
		assert.Equal(t, money.Cents(12040), cycleRepo.savedCycles[0].State().TotalDue)
	})

	t.Run("saves collateral items with the loan", func(t *testing.T) {
		customer := existingCustomer(t)
		customerRepo := &mockCustomerRepository{
			findByIDFunc: func(_ context.Context, _ uuid.UUID) (model.Customer, error) {
				return customer, nil
			},
		}
		collateralRepo := &mockCollateralRepository{}
		auditRepo := &mockAuditLogRepository{}

		uc := usecase.NewCreateLoanUseCase(customerRepo, &mockLoanRepository{}, &mockCycleRepository{}, collateralRepo, auditRepo, &mockTxManager{}, &mockEventPublisher{})

		req := validCreateLoanRequest(customer.ID())
		req.CollateralItems = []dto.CollateralItem{
			{Description: "Gold necklace", EstimatedValue: "250.00"},
			{Description: "Motorbike", SerialNumber: "MB-2291"},
		}
		resp, err := uc.Execute(context.Background(), req)

		require.NoError(t, err)
		require.Len(t, collateralRepo.savedCollateral, 2)
		assert.Equal(t, resp.ID, collateralRepo.savedCollateral[0].LoanID())
		assert.Equal(t, "Gold necklace", collateralRepo.savedCollateral[0].Description())

		var actions []string
		for _, e := range auditRepo.entries {
			actions = append(actions, e.Action)
		}
		assert.Contains(t, actions, "COLLATERAL_ADDED")
	})

	t.Run("rejects a non-positive principal", func(t *testing.T) {
		uc := usecase.NewCreateLoanUseCase(&mockCustomerRepository{}, &mockLoanRepository{}, &mockCycleRepository{}, &mockCollateralRepository{}, &mockAuditLogRepository{}, &mockTxManager{}, &mockEventPublisher{})

		req := validCreateLoanRequest(uuid.New())
		req.PrincipalAmount = "0.00"
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "principal must be greater than zero")
	})

	t.Run("rejects a malformed interest rate", func(t *testing.T) {
		uc := usecase.NewCreateLoanUseCase(&mockCustomerRepository{}, &mockLoanRepository{}, &mockCycleRepository{}, &mockCollateralRepository{}, &mockAuditLogRepository{}, &mockTxManager{}, &mockEventPublisher{})

		req := validCreateLoanRequest(uuid.New())
		req.InterestRate = "twenty percent"
		_, err := uc.Execute(context.Background(), req)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "parse interest rate")
	})

	t.Run("fails when the customer does not exist", func(t *testing.T) {
		uc := usecase.NewCreateLoanUseCase(&mockCustomerRepository{}, &mockLoanRepository{}, &mockCycleRepository{}, &mockCollateralRepository{}, &mockAuditLogRepository{}, &mockTxManager{}, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), validCreateLoanRequest(uuid.New()))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "find customer")
	})

	t.Run("fails when the transaction fails", func(t *testing.T) {
		customer := existingCustomer(t)
		customerRepo := &mockCustomerRepository{
			findByIDFunc: func(_ context.Context, _ uuid.UUID) (model.Customer, error) {
				return customer, nil
			},
		}
		tx := &mockTxManager{
			runFunc: func(_ context.Context, _ func(ctx context.Context) error) error {
				return fmt.Errorf("database unavailable")
			},
		}

		uc := usecase.NewCreateLoanUseCase(customerRepo, &mockLoanRepository{}, &mockCycleRepository{}, &mockCollateralRepository{}, &mockAuditLogRepository{}, tx, &mockEventPublisher{})

		_, err := uc.Execute(context.Background(), validCreateLoanRequest(customer.ID()))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "database unavailable")
	})
}

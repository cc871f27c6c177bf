package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/application/usecase"
	"github.com/lendtrack/lendtrack/internal/domain/port"
)

// Compile-time assertion that Handler implements LoanServiceServer.
var _ LoanServiceServer = (*Handler)(nil)

// Handler implements the LoanServiceServer gRPC interface.
type Handler struct {
	UnimplementedLoanServiceServer
	createLoan    *usecase.CreateLoanUseCase
	getLoan       *usecase.GetLoanUseCase
	recordPayment *usecase.RecordPaymentUseCase
	rollover      *usecase.RolloverCyclesUseCase
	logger        *slog.Logger
}

// NewHandler creates a new gRPC Handler.
func NewHandler(
	createLoan *usecase.CreateLoanUseCase,
	getLoan *usecase.GetLoanUseCase,
	recordPayment *usecase.RecordPaymentUseCase,
	rollover *usecase.RolloverCyclesUseCase,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		createLoan:    createLoan,
		getLoan:       getLoan,
		recordPayment: recordPayment,
		rollover:      rollover,
		logger:        logger,
	}
}

// Proto-aligned request/response message types. Monetary amounts travel as
// fixed 2-decimal strings and rates as 4-decimal strings, matching the REST
// payloads; timestamps are RFC 3339.

// CycleMsg represents the proto BillingCycle message.
type CycleMsg struct {
	ID               string `json:"id"`
	CycleNumber      int32  `json:"cycle_number"`
	StartDate        string `json:"cycle_start_date"`
	EndDate          string `json:"cycle_end_date"`
	OpeningPrincipal string `json:"opening_principal"`
	InterestCharged  string `json:"interest_charged"`
	TotalDue         string `json:"total_due"`
	TotalPaid        string `json:"total_paid"`
	Balance          string `json:"balance"`
	Status           string `json:"status"`
}

// CollateralMsg represents the proto CollateralItem message.
type CollateralMsg struct {
	ID             string   `json:"id"`
	Description    string   `json:"description"`
	EstimatedValue string   `json:"estimated_value,omitempty"`
	SerialNumber   string   `json:"serial_number,omitempty"`
	ImagePaths     []string `json:"image_paths,omitempty"`
	ReturnedAt     string   `json:"returned_at,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// LoanMsg represents the proto Loan message.
type LoanMsg struct {
	ID              string           `json:"id"`
	CustomerID      string           `json:"customer_id"`
	PrincipalAmount string           `json:"principal_amount"`
	InterestRate    string           `json:"interest_rate"`
	StartDate       string           `json:"start_date"`
	DueDate         string           `json:"due_date"`
	Status          string           `json:"status"`
	Notes           string           `json:"notes,omitempty"`
	Cycles          []*CycleMsg      `json:"cycles,omitempty"`
	Collateral      []*CollateralMsg `json:"collateral,omitempty"`
}

// PaymentMsg represents the proto Payment message.
type PaymentMsg struct {
	ID           string `json:"id"`
	LoanID       string `json:"loan_id"`
	CycleID      string `json:"cycle_id"`
	Amount       string `json:"amount"`
	PaidAt       string `json:"paid_at"`
	Note         string `json:"note,omitempty"`
	CycleBalance string `json:"cycle_balance"`
	LoanStatus   string `json:"loan_status"`
}

// CreateLoanRequest represents the proto CreateLoanRequest message.
type CreateLoanRequest struct {
	CustomerID      string           `json:"customer_id"`
	PrincipalAmount string           `json:"principal_amount"`
	InterestRate    string           `json:"interest_rate"`
	StartDate       string           `json:"start_date"`
	DueDate         string           `json:"due_date"`
	Notes           string           `json:"notes"`
	Collateral      []*CollateralMsg `json:"collateral"`
	UserID          string           `json:"user_id"`
}

// GetLoanRequest represents the proto GetLoanRequest message.
type GetLoanRequest struct {
	LoanID string `json:"loan_id"`
}

// RecordPaymentRequest represents the proto RecordPaymentRequest message.
type RecordPaymentRequest struct {
	LoanID string `json:"loan_id"`
	Amount string `json:"amount"`
	PaidAt string `json:"paid_at"`
	Note   string `json:"note"`
	UserID string `json:"user_id"`
}

// RolloverCyclesRequest represents the proto RolloverCyclesRequest message.
type RolloverCyclesRequest struct{}

// RolloverCyclesResponse represents the proto RolloverCyclesResponse message.
type RolloverCyclesResponse struct {
	RolledOver int32 `json:"rolled_over"`
}

// CreateLoan issues a new loan with its first billing cycle.
func (h *Handler) CreateLoan(ctx context.Context, req *CreateLoanRequest) (*LoanMsg, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	customerID, err := uuid.Parse(req.CustomerID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "customer_id must be a UUID")
	}
	startDate, err := parseDate(req.StartDate, "start_date")
	if err != nil {
		return nil, err
	}
	dueDate, err := parseDate(req.DueDate, "due_date")
	if err != nil {
		return nil, err
	}

	dtoReq := dto.CreateLoanRequest{
		UserID:          userIDOrAnonymous(req.UserID),
		CustomerID:      customerID,
		PrincipalAmount: req.PrincipalAmount,
		InterestRate:    req.InterestRate,
		StartDate:       startDate,
		DueDate:         dueDate,
		Notes:           req.Notes,
	}
	for _, item := range req.Collateral {
		if item == nil {
			continue
		}
		dtoReq.CollateralItems = append(dtoReq.CollateralItems, dto.CollateralItem{
			Description:    item.Description,
			EstimatedValue: item.EstimatedValue,
			SerialNumber:   item.SerialNumber,
			ImagePaths:     item.ImagePaths,
			Notes:          item.Notes,
		})
	}

	resp, err := h.createLoan.Execute(ctx, dtoReq)
	if err != nil {
		return nil, h.mapError("CreateLoan", err)
	}

	h.logger.InfoContext(ctx, "CreateLoan succeeded", "loan_id", resp.ID, "principal", resp.PrincipalAmount)
	return loanMsgFrom(resp), nil
}

// GetLoan returns a loan with its cycles, collateral, and payments.
func (h *Handler) GetLoan(ctx context.Context, req *GetLoanRequest) (*LoanMsg, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "loan_id must be a UUID")
	}

	resp, err := h.getLoan.Execute(ctx, loanID)
	if err != nil {
		return nil, h.mapError("GetLoan", err)
	}
	return loanMsgFrom(resp), nil
}

// RecordPayment applies a payment to the loan's active cycle.
func (h *Handler) RecordPayment(ctx context.Context, req *RecordPaymentRequest) (*PaymentMsg, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	loanID, err := uuid.Parse(req.LoanID)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "loan_id must be a UUID")
	}
	paidAt := time.Now().UTC()
	if req.PaidAt != "" {
		paidAt, err = parseDate(req.PaidAt, "paid_at")
		if err != nil {
			return nil, err
		}
	}

	resp, err := h.recordPayment.Execute(ctx, dto.RecordPaymentRequest{
		UserID: userIDOrAnonymous(req.UserID),
		LoanID: loanID,
		Amount: req.Amount,
		PaidAt: paidAt,
		Note:   req.Note,
	})
	if err != nil {
		return nil, h.mapError("RecordPayment", err)
	}

	h.logger.InfoContext(ctx, "RecordPayment succeeded",
		"loan_id", resp.LoanID, "amount", resp.Amount, "cycle_balance", resp.CycleBalance)
	return &PaymentMsg{
		ID:           resp.ID.String(),
		LoanID:       resp.LoanID.String(),
		CycleID:      resp.CycleID.String(),
		Amount:       resp.Amount,
		PaidAt:       resp.PaidAt.Format(time.RFC3339),
		Note:         resp.Note,
		CycleBalance: resp.CycleBalance,
		LoanStatus:   resp.LoanStatus,
	}, nil
}

// RolloverCycles rolls every expired open cycle into its successor.
func (h *Handler) RolloverCycles(ctx context.Context, req *RolloverCyclesRequest) (*RolloverCyclesResponse, error) {
	resp, err := h.rollover.Execute(ctx)
	if err != nil {
		return nil, h.mapError("RolloverCycles", err)
	}

	h.logger.InfoContext(ctx, "RolloverCycles succeeded", "rolled_over", resp.RolledOver)
	return &RolloverCyclesResponse{RolledOver: int32(resp.RolledOver)}, nil
}

// mapError translates use-case errors into gRPC status codes.
func (h *Handler) mapError(method string, err error) error {
	if errors.Is(err, port.ErrNotFound) {
		return status.Error(codes.NotFound, err.Error())
	}
	h.logger.Error(method+" failed", "error", err)
	return status.Error(codes.InvalidArgument, err.Error())
}

func parseDate(s, field string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, status.Errorf(codes.InvalidArgument, "%s must be RFC 3339", field)
	}
	return t, nil
}

func userIDOrAnonymous(userID string) string {
	if userID == "" {
		return "anonymous"
	}
	return userID
}

func loanMsgFrom(resp dto.LoanResponse) *LoanMsg {
	msg := &LoanMsg{
		ID:              resp.ID.String(),
		CustomerID:      resp.CustomerID.String(),
		PrincipalAmount: resp.PrincipalAmount,
		InterestRate:    resp.InterestRate,
		StartDate:       resp.StartDate.Format(time.RFC3339),
		DueDate:         resp.DueDate.Format(time.RFC3339),
		Status:          resp.Status,
		Notes:           resp.Notes,
	}
	for _, c := range resp.Cycles {
		msg.Cycles = append(msg.Cycles, &CycleMsg{
			ID:               c.ID.String(),
			CycleNumber:      int32(c.CycleNumber),
			StartDate:        c.StartDate.Format(time.RFC3339),
			EndDate:          c.EndDate.Format(time.RFC3339),
			OpeningPrincipal: c.OpeningPrincipal,
			InterestCharged:  c.InterestCharged,
			TotalDue:         c.TotalDue,
			TotalPaid:        c.TotalPaid,
			Balance:          c.Balance,
			Status:           c.Status,
		})
	}
	for _, col := range resp.Collateral {
		m := &CollateralMsg{
			ID:             col.ID.String(),
			Description:    col.Description,
			EstimatedValue: col.EstimatedValue,
			SerialNumber:   col.SerialNumber,
			ImagePaths:     col.ImagePaths,
			Notes:          col.Notes,
		}
		if col.ReturnedAt != nil {
			m.ReturnedAt = col.ReturnedAt.Format(time.RFC3339)
		}
		msg.Collateral = append(msg.Collateral, m)
	}
	return msg
}

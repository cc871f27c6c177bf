package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/application/usecase"
)

// LoanHandler exposes loan, payment and collateral operations over REST.
type LoanHandler struct {
	createLoan       *usecase.CreateLoanUseCase
	getLoan          *usecase.GetLoanUseCase
	listLoans        *usecase.ListLoansUseCase
	recordPayment    *usecase.RecordPaymentUseCase
	addCollateral    *usecase.AddCollateralUseCase
	updateCollateral *usecase.UpdateCollateralUseCase
	returnCollateral *usecase.ReturnCollateralUseCase
	removeCollateral *usecase.RemoveCollateralUseCase
	logger           *slog.Logger
}

// NewLoanHandler creates the loan REST handler.
func NewLoanHandler(
	createLoan *usecase.CreateLoanUseCase,
	getLoan *usecase.GetLoanUseCase,
	listLoans *usecase.ListLoansUseCase,
	recordPayment *usecase.RecordPaymentUseCase,
	addCollateral *usecase.AddCollateralUseCase,
	updateCollateral *usecase.UpdateCollateralUseCase,
	returnCollateral *usecase.ReturnCollateralUseCase,
	removeCollateral *usecase.RemoveCollateralUseCase,
	logger *slog.Logger,
) *LoanHandler {
	return &LoanHandler{
		createLoan:       createLoan,
		getLoan:          getLoan,
		listLoans:        listLoans,
		recordPayment:    recordPayment,
		addCollateral:    addCollateral,
		updateCollateral: updateCollateral,
		returnCollateral: returnCollateral,
		removeCollateral: removeCollateral,
		logger:           logger,
	}
}

// RegisterRoutes attaches loan routes to the given mux.
func (h *LoanHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/loans", h.handleCreate)
	mux.HandleFunc("GET /api/loans", h.handleList)
	mux.HandleFunc("GET /api/loans/{id}", h.handleGet)
	mux.HandleFunc("POST /api/loans/{id}/payments", h.handleRecordPayment)
	mux.HandleFunc("POST /api/loans/{id}/collateral", h.handleAddCollateral)
	mux.HandleFunc("PUT /api/loans/{id}/collateral/{cid}", h.handleUpdateCollateral)
	mux.HandleFunc("POST /api/loans/{id}/collateral/{cid}/return", h.handleReturnCollateral)
	mux.HandleFunc("DELETE /api/loans/{id}/collateral/{cid}", h.handleRemoveCollateral)
}

func (h *LoanHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateLoanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = requestUser(r)

	resp, err := h.createLoan.Execute(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create loan failed", "error", err)
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *LoanHandler) handleList(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listLoans.Execute(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list loans failed", "error", err)
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "invalid loan id")
	if !ok {
		return
	}

	resp, err := h.getLoan.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) handleRecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "invalid loan id")
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.LoanID = id
	req.UserID = requestUser(r)

	resp, err := h.recordPayment.Execute(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "record payment failed", "loan_id", id, "error", err)
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *LoanHandler) handleAddCollateral(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id", "invalid loan id")
	if !ok {
		return
	}

	var item dto.CollateralItem
	if !decodeBody(w, r, &item) {
		return
	}

	resp, err := h.addCollateral.Execute(r.Context(), id, item, requestUser(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *LoanHandler) handleUpdateCollateral(w http.ResponseWriter, r *http.Request) {
	loanID, cid, ok := collateralPath(w, r)
	if !ok {
		return
	}

	var item dto.CollateralItem
	if !decodeBody(w, r, &item) {
		return
	}

	resp, err := h.updateCollateral.Execute(r.Context(), loanID, cid, item, requestUser(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) handleReturnCollateral(w http.ResponseWriter, r *http.Request) {
	loanID, cid, ok := collateralPath(w, r)
	if !ok {
		return
	}

	resp, err := h.returnCollateral.Execute(r.Context(), loanID, cid, requestUser(r))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *LoanHandler) handleRemoveCollateral(w http.ResponseWriter, r *http.Request) {
	loanID, cid, ok := collateralPath(w, r)
	if !ok {
		return
	}

	if err := h.removeCollateral.Execute(r.Context(), loanID, cid, requestUser(r)); err != nil {
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathUUID(w http.ResponseWriter, r *http.Request, name, errMsg string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusBadRequest, errMsg)
		return uuid.Nil, false
	}
	return id, true
}

func collateralPath(w http.ResponseWriter, r *http.Request) (loanID, cid uuid.UUID, ok bool) {
	loanID, ok = pathUUID(w, r, "id", "invalid loan id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	cid, ok = pathUUID(w, r, "cid", "invalid collateral id")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	return loanID, cid, true
}

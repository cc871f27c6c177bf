package rest

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/application/usecase"
)

// CustomerHandler exposes customer operations over REST.
type CustomerHandler struct {
	create *usecase.CreateCustomerUseCase
	update *usecase.UpdateCustomerUseCase
	get    *usecase.GetCustomerUseCase
	list   *usecase.ListCustomersUseCase
	logger *slog.Logger
}

// NewCustomerHandler creates the customer REST handler.
func NewCustomerHandler(
	create *usecase.CreateCustomerUseCase,
	update *usecase.UpdateCustomerUseCase,
	get *usecase.GetCustomerUseCase,
	list *usecase.ListCustomersUseCase,
	logger *slog.Logger,
) *CustomerHandler {
	return &CustomerHandler{create: create, update: update, get: get, list: list, logger: logger}
}

// RegisterRoutes attaches customer routes to the given mux.
func (h *CustomerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/customers", h.handleCreate)
	mux.HandleFunc("GET /api/customers", h.handleList)
	mux.HandleFunc("GET /api/customers/{id}", h.handleGet)
	mux.HandleFunc("PUT /api/customers/{id}", h.handleUpdate)
}

func (h *CustomerHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = requestUser(r)

	resp, err := h.create.Execute(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "create customer failed", "error", err)
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *CustomerHandler) handleList(w http.ResponseWriter, r *http.Request) {
	resp, err := h.list.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list customers failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	resp, err := h.get.Execute(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *CustomerHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var req dto.UpdateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.CustomerID = id
	req.UserID = requestUser(r)

	resp, err := h.update.Execute(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "update customer failed", "error", err)
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

package rest

import (
	"log/slog"
	"net/http"

	"github.com/lendtrack/lendtrack/internal/application/dto"
	"github.com/lendtrack/lendtrack/internal/application/usecase"
)

// ReportHandler exposes the dashboard, reports, payment list and settings.
type ReportHandler struct {
	dashboard      *usecase.DashboardUseCase
	monthlyReport  *usecase.MonthlyReportUseCase
	listPayments   *usecase.ListPaymentsUseCase
	getSettings    *usecase.GetSettingsUseCase
	updateSettings *usecase.UpdateSettingsUseCase
	logger         *slog.Logger
}

// NewReportHandler creates the reporting REST handler.
func NewReportHandler(
	dashboard *usecase.DashboardUseCase,
	monthlyReport *usecase.MonthlyReportUseCase,
	listPayments *usecase.ListPaymentsUseCase,
	getSettings *usecase.GetSettingsUseCase,
	updateSettings *usecase.UpdateSettingsUseCase,
	logger *slog.Logger,
) *ReportHandler {
	return &ReportHandler{
		dashboard:      dashboard,
		monthlyReport:  monthlyReport,
		listPayments:   listPayments,
		getSettings:    getSettings,
		updateSettings: updateSettings,
		logger:         logger,
	}
}

// RegisterRoutes attaches reporting routes to the given mux.
func (h *ReportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/dashboard", h.handleDashboard)
	mux.HandleFunc("GET /api/reports/monthly", h.handleMonthlyReport)
	mux.HandleFunc("GET /api/payments", h.handleListPayments)
	mux.HandleFunc("GET /api/settings", h.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", h.handleUpdateSettings)
}

func (h *ReportHandler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.dashboard.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "dashboard query failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportHandler) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	resp, err := h.monthlyReport.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "monthly report failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportHandler) handleListPayments(w http.ResponseWriter, r *http.Request) {
	resp, err := h.listPayments.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list payments failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportHandler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	resp, err := h.getSettings.Execute(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ReportHandler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSettingsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.UserID = requestUser(r)

	resp, err := h.updateSettings.Execute(r.Context(), req)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

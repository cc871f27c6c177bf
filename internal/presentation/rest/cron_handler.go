package rest

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lendtrack/lendtrack/internal/application/usecase"
)

// CronHandler exposes the scheduled rollover run. The scheduler authenticates
// with a shared bearer secret; an empty secret disables the endpoint.
type CronHandler struct {
	rollover *usecase.RolloverCyclesUseCase
	secret   string
	logger   *slog.Logger
}

// NewCronHandler creates the cron REST handler.
func NewCronHandler(rollover *usecase.RolloverCyclesUseCase, secret string, logger *slog.Logger) *CronHandler {
	return &CronHandler{rollover: rollover, secret: secret, logger: logger}
}

// RegisterRoutes attaches the rollover route to the given mux.
func (h *CronHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/cron/rollover", h.handleRollover)
}

func (h *CronHandler) handleRollover(w http.ResponseWriter, r *http.Request) {
	if !h.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	resp, err := h.rollover.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "rollover run failed",
			"rolled_over", resp.RolledOver, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.logger.InfoContext(r.Context(), "rollover run complete", "rolled_over", resp.RolledOver)
	writeJSON(w, http.StatusOK, resp)
}

func (h *CronHandler) authorized(r *http.Request) bool {
	if h.secret == "" {
		return false
	}
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(h.secret)) == 1
}

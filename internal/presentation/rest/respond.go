package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/lendtrack/lendtrack/internal/domain/port"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeUseCaseError maps a use-case error onto an HTTP status. Anything that
// is not a missing entity is treated as a bad request; the use cases validate
// before they touch storage.
func writeUseCaseError(w http.ResponseWriter, err error) {
	if errors.Is(err, port.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeError(w, http.StatusBadRequest, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// requestUser identifies the acting user for audit records. With no session
// layer in front of this service, the caller supplies it as a header.
func requestUser(r *http.Request) string {
	if u := r.Header.Get("X-User-ID"); u != "" {
		return u
	}
	return "anonymous"
}

package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/backend-labs/storefront/internal/service/models/apperror"
)

// JSON writes data with the given status.
func JSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.ErrorContext(r.Context(), "Error writing response", "error", err)
	}
}

// Message writes {"message": msg} with the given status.
func Message(w http.ResponseWriter, r *http.Request, status int, msg string) {
	JSON(w, r, status, map[string]string{"message": msg})
}

// Error answers with the status matching a business failure, or 500 with a
// generic message for anything else. The underlying error is logged, never sent.
func Error(w http.ResponseWriter, r *http.Request, err error, logMsg string) {
	var appErr *apperror.Error
	if !errors.As(err, &appErr) {
		slog.ErrorContext(r.Context(), logMsg, "error", err)
		Message(w, r, http.StatusInternalServerError, "Server error")

		return
	}

	slog.InfoContext(r.Context(), logMsg, "error", err, "kind", appErr.Kind.String())
	Message(w, r, StatusOf(appErr.Kind), appErr.Message)
}

// StatusOf maps a failure kind to its HTTP status.
func StatusOf(kind apperror.Kind) int {
	switch kind {
	case apperror.KindBadRequest:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

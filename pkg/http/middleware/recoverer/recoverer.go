package recoverer

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/corray333/backend-labs/storefront/pkg/http/respond"
)

// NewRecovererMiddleware turns a handler panic into a 500 with a JSON
// message body. http.ErrAbortHandler is re-raised so the server aborts the
// connection.
func NewRecovererMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			slog.ErrorContext(r.Context(), "Handler panicked", "panic", rec, "stack", string(debug.Stack()))

			if r.Header.Get("Connection") != "Upgrade" {
				respond.Message(w, r, http.StatusInternalServerError, "Server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}

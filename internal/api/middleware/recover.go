package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/bookshelf-api/internal/platform/logger"
)

// Recover turns a panic in a handler into an error passed to handleError,
// so the client still receives the canonical internal error response.
func Recover(handleError ErrorHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				logger.FromContextOrDefault(r.Context(), slog.Default()).
					Debug("recovered from panic", slog.String("stack", string(debug.Stack())))
				handleError(w, r, fmt.Errorf("panic: %v", rec))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

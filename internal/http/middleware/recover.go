package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	logctx "github.com/pribylovaa/supabase-auth-gateway/internal/pkg/log"
)

// Recover перехватывает панику обработчика: запись в лог со стеком
// и 500 конвертом вместо оборванного соединения.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logctx.From(r.Context()).Error("panic recovered",
						slog.Any("panic", rec),
						slog.String("stack", string(debug.Stack())),
					)

					writeEnvelope(w, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout ограничивает обработку запроса общим дедлайном.
// Дедлайн распространяется через контекст и на исходящие вызовы бэкенда.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

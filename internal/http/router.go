package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/supabase-auth-gateway/internal/config"
	"github.com/pribylovaa/supabase-auth-gateway/internal/http/handlers"
	"github.com/pribylovaa/supabase-auth-gateway/internal/http/middleware"
	"github.com/pribylovaa/supabase-auth-gateway/internal/identity"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger  *slog.Logger
	Cookies config.CookiesConfig
	Timeout time.Duration
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(client *identity.Client, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(client, opts.Cookies)

	// Auth API.
	root.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/sign_in", h.SignIn)
		r.Post("/sign_up", h.SignUp)
		r.Get("/sign_out", h.SignOut)
		r.Post("/reset_password", h.ResetPassword)

		// Три ссылки из писем — один протокол ?token_hash&type&next.
		r.Get("/confirm", h.Confirm)
		r.Get("/reset_password_confirm", h.Confirm)
		r.Get("/invite_confirm", h.Confirm)

		// Приглашать может только аутентифицированный вызывающий.
		r.With(middleware.Authenticate(client, opts.Cookies)).Post("/invite", h.Invite)
	})

	root.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Application up and running"))
	})

	// Заглушки клиентских страниц: на них указывают redirect_to в письмах.
	staticPage := func(body string) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(body))
		}
	}
	root.Get("/welcome", staticPage("WELCOME"))
	root.Get("/reset_password", staticPage("RESET PASSWORD"))
	root.Get("/update_profile", staticPage("UPDATE_PROFILE"))

	return root
}

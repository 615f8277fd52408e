package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	logctx "github.com/pribylovaa/supabase-auth-gateway/internal/pkg/log"
)

// Confirm — обработчик ссылок из писем бэкенда (подтверждение
// регистрации, сброс пароля, приглашение): один и тот же протокол
// ?token_hash&type&next на трёх маршрутах. JSON не возвращает никогда,
// только 303-редиректы:
//   - нет token_hash или type → сразу на next (или "/");
//   - токен не прошёл проверку → на "/";
//   - иначе → на next.
func (h *Handlers) Confirm(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	next := normalizeNext(q.Get("next"))

	tokenHash := q.Get("token_hash")
	tokenType := q.Get("type")
	if tokenHash == "" || tokenType == "" {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}

	if err := h.identity.VerifyLinkToken(r.Context(), tokenType, tokenHash); err != nil {
		logctx.From(r.Context()).Warn("link token rejected", slog.String("err", err.Error()))

		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, next, http.StatusSeeOther)
}

// normalizeNext приводит next к локальному пути с ведущим слэшем.
// Protocol-relative ссылки (//host) не пропускаем — открытый редирект.
func normalizeNext(next string) string {
	if next == "" {
		return "/"
	}

	if !strings.HasPrefix(next, "/") {
		next = "/" + next
	}

	if strings.HasPrefix(next, "//") {
		return "/"
	}

	return next
}

package middleware

import (
	"net/http"
	"strings"

	"github.com/pribylovaa/supabase-auth-gateway/internal/config"
	"github.com/pribylovaa/supabase-auth-gateway/internal/identity"
)

// SessionCookies записывает пару HTTP-only кук сессии.
// Инвариант: access и refresh всегда выставляются вместе.
func SessionCookies(w http.ResponseWriter, cfg config.CookiesConfig, s *identity.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.AccessName,
		Value:    s.AccessToken,
		Path:     "/",
		HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     cfg.RefreshName,
		Value:    s.RefreshToken,
		Path:     "/",
		HttpOnly: true,
	})
}

// BearerToken извлекает токен из заголовка "Authorization: Bearer <token>".
// Возвращает пустую строку, если заголовка нет или схема другая.
func BearerToken(r *http.Request) string {
	const prefix = "Bearer "

	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(h[len(prefix):])
}

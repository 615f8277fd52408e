package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/pribylovaa/supabase-auth-gateway/internal/config"
	"github.com/pribylovaa/supabase-auth-gateway/internal/identity"
)

// Authenticate — процедура аутентификации запроса с тихим продлением
// сессии. Порядок:
//
//  1. bearer из Authorization, иначе access-кука по имени из конфигурации;
//  2. проверка токена у бэкенда (заведомо просроченный не проверяем);
//  3. при отказе — обмен refresh-куки на новую пару токенов с
//     перезаписью обеих кук теми же атрибутами, что и при входе;
//  4. иначе 401.
//
// Терминальные состояния: пользователь и актуальный access-токен в
// контексте (identity.CtxUser, identity.CtxAuthToken) либо отказ.
func Authenticate(client *identity.Client, cookies config.CookiesConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				if r.Header.Get("Cookie") == "" {
					writeEnvelope(w, http.StatusUnauthorized, "Invalid request")
					return
				}

				c, err := r.Cookie(cookies.AccessName)
				if err != nil || c.Value == "" {
					writeEnvelope(w, http.StatusUnauthorized, "Invalid access token")
					return
				}
				token = c.Value
			}

			ctx := r.Context()

			// Просроченный токен бэкенд отвергнет гарантированно —
			// сразу идём на продление.
			stale := false
			if claims, err := identity.PeekClaims(token); err == nil {
				stale = claims.Expired(time.Now())
			}

			if !stale {
				if user, err := client.GetUserByToken(ctx, token); err == nil {
					proceed(w, r, next, user, token)
					return
				}
			}

			var refresh string
			if c, err := r.Cookie(cookies.RefreshName); err == nil {
				refresh = c.Value
			}

			session, err := client.RefreshSession(ctx, token, refresh)
			if err != nil {
				writeEnvelope(w, http.StatusUnauthorized, "User is unauthorized")
				return
			}

			SessionCookies(w, cookies, session)

			user := session.User
			if user == nil {
				if user, err = client.GetUserByToken(ctx, session.AccessToken); err != nil {
					writeEnvelope(w, http.StatusUnauthorized, "User is unauthorized")
					return
				}
			}

			proceed(w, r, next, user, session.AccessToken)
		})
	}
}

func proceed(w http.ResponseWriter, r *http.Request, next http.Handler, user *identity.User, token string) {
	ctx := context.WithValue(r.Context(), identity.CtxUser, user)
	ctx = context.WithValue(ctx, identity.CtxAuthToken, token)

	next.ServeHTTP(w, r.WithContext(ctx))
}

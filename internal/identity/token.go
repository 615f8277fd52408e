package identity

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims — минимум клеймов access-токена, нужный шлюзу:
// subject для логов и срок жизни для быстрой отбраковки.
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// PeekClaims разбирает access-токен БЕЗ проверки подписи: ключ подписи
// принадлежит бэкенду, шлюз токенам не доверяет и решений по клеймам
// не принимает. Используется для логов и для пропуска заведомо
// провального запроса пользователя по просроченному токену.
func PeekClaims(raw string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("identity: malformed access token: %w", err)
	}

	out := &TokenClaims{}

	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	return out, nil
}

// Expired сообщает, истёк ли токен на момент now.
// Токен без exp просроченным не считается.
func (c *TokenClaims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}

	return now.After(c.ExpiresAt)
}

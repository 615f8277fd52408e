// handlers — REST-обработчики шлюза. Каждый обработчик: валидация формы
// запроса, один вызов бэкенда, конверт {message, content, status}.
// Ссылочные подтверждения (confirm.go) — исключение: только редиректы.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/supabase-auth-gateway/internal/config"
	"github.com/pribylovaa/supabase-auth-gateway/internal/identity"
	"github.com/pribylovaa/supabase-auth-gateway/internal/models"
)

type Handlers struct {
	identity *identity.Client
	cookies  config.CookiesConfig
}

func New(client *identity.Client, cookies config.CookiesConfig) *Handlers {
	return &Handlers{identity: client, cookies: cookies}
}

func writeJSON(w http.ResponseWriter, status int, resp models.Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func decode(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// badRequest отделяет ошибки класса «виноват клиент» (4xx бэкенда)
// от сбоев бэкенда/транспорта (5xx шлюза).
func badRequest(err error) bool {
	return errors.Is(err, identity.ErrInvalidCredentials) ||
		errors.Is(err, identity.ErrUnauthenticated) ||
		errors.Is(err, identity.ErrNotFound)
}

package identity

import (
	"errors"
	"fmt"
	"net/http"
)

// Классифицированные исходы вызовов бэкенда. Хендлеры сводят их к
// конверту 4xx/5xx, логи и тесты различают причину.
var (
	// ErrInvalidCredentials — бэкенд отверг входные данные (4xx на
	// выпуске токена, слабый пароль на регистрации и т.п.).
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	// ErrUnauthenticated — токен отсутствует/просрочен/отозван.
	ErrUnauthenticated = errors.New("identity: unauthenticated")
	// ErrNotFound — сущность не найдена.
	ErrNotFound = errors.New("identity: not found")
	// ErrProvider — ошибка на стороне бэкенда (5xx и прочие неожиданные коды).
	ErrProvider = errors.New("identity: provider error")
	// ErrTransport — сетевая ошибка до/во время обмена.
	ErrTransport = errors.New("identity: transport error")
)

// apiError — тело ошибки GoTrue; поля меняются от ручки к ручке,
// поэтому собираем все известные варианты.
type apiError struct {
	Message          string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Code             int    `json:"code"`
}

func (e apiError) text() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	case e.Error != "":
		return e.Error
	default:
		return "unknown error"
	}
}

// classify переводит HTTP-статус бэкенда в классифицированную ошибку.
func classify(status int, body apiError) error {
	var base error
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		base = ErrUnauthenticated
	case status == http.StatusNotFound:
		base = ErrNotFound
	case status >= 400 && status < 500:
		base = ErrInvalidCredentials
	default:
		base = ErrProvider
	}

	return fmt.Errorf("%w: status %d: %s", base, status, body.text())
}

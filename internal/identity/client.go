// identity — клиент бэкенда идентификации (GoTrue REST API).
//
// Каждая операция шлюза отображается в один REST-вызов; ошибки бэкенда
// и транспорта классифицируются (errors.go), наружу не паникуем.
// Клиент ничего не кэширует и не хранит: вся сессионная логика на
// стороне бэкенда.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pribylovaa/supabase-auth-gateway/internal/config"
	logctx "github.com/pribylovaa/supabase-auth-gateway/internal/pkg/log"
)

// apiPrefix — корень auth-эндпойнтов бэкенда.
const apiPrefix = "/auth/v1"

// Фиксированные точки возврата, которые бэкенд вшивает в письма.
const (
	welcomePath       = "/welcome"
	resetPasswordPath = "/reset_password"
	updateProfilePath = "/update_profile"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	serviceKey string
	publicHost string
	log        *slog.Logger
}

// New собирает клиент по конфигурации шлюза.
func New(cfg config.Config, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}

	timeout := cfg.Timeouts.Service
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.Supabase.BaseURL(),
		serviceKey: cfg.Supabase.ServiceKey,
		publicHost: strings.TrimRight(cfg.Supabase.PublicHost, "/"),
		log:        log,
	}
}

// CreateAccount регистрирует нового пользователя; профиль уезжает в
// user_metadata, ссылка подтверждения ведёт на /welcome шлюза.
//
// Бэкенд отвечает по-разному: при включённом подтверждении почты —
// объект пользователя, при автоподтверждении — сессия целиком.
func (c *Client) CreateAccount(ctx context.Context, email, password string, profile Profile) (*User, error) {
	const op = "identity.CreateAccount"

	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     profile,
	}

	var raw json.RawMessage
	if err := c.do(ctx, op, http.MethodPost, "/signup", c.redirectTo(welcomePath), "", body, &raw); err != nil {
		return nil, err
	}

	var probe struct {
		AccessToken string `json:"access_token"`
		User        *User  `json:"user"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrProvider, err)
	}

	if probe.AccessToken != "" && probe.User != nil {
		return probe.User, nil
	}

	var user User
	if err := json.Unmarshal(raw, &user); err != nil || user.ID == "" {
		return nil, fmt.Errorf("%s: %w: unexpected signup response", op, ErrProvider)
	}

	return &user, nil
}

// Login выполняет парольный вход и возвращает сессию
// {access_token, refresh_token, user}.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "identity.Login"

	q := url.Values{"grant_type": {"password"}}
	body := map[string]string{"email": email, "password": password}

	var session Session
	if err := c.do(ctx, op, http.MethodPost, "/token", q, "", body, &session); err != nil {
		return nil, err
	}

	if session.AccessToken == "" || session.RefreshToken == "" {
		return nil, fmt.Errorf("%s: %w: incomplete session in response", op, ErrProvider)
	}

	return &session, nil
}

// RefreshSession обменивает refresh-токен на новую пару токенов.
// Текущий access-токен нужен только для логов: сам обмен его не требует.
func (c *Client) RefreshSession(ctx context.Context, accessToken, refreshToken string) (*Session, error) {
	const op = "identity.RefreshSession"

	if refreshToken == "" {
		return nil, fmt.Errorf("%s: %w: empty refresh token", op, ErrUnauthenticated)
	}

	if claims, err := PeekClaims(accessToken); err == nil {
		logctx.From(ctx).Debug("session_refresh_attempt", slog.String("sub", claims.Subject))
	}

	q := url.Values{"grant_type": {"refresh_token"}}
	body := map[string]string{"refresh_token": refreshToken}

	var session Session
	if err := c.do(ctx, op, http.MethodPost, "/token", q, "", body, &session); err != nil {
		return nil, err
	}

	if session.AccessToken == "" || session.RefreshToken == "" {
		return nil, fmt.Errorf("%s: %w: incomplete session in response", op, ErrProvider)
	}

	return &session, nil
}

// Logout инвалидирует сессию на стороне бэкенда. Куки клиента при этом
// не трогаются: протухшая кука уткнётся в GetUserByToken и попадёт в
// идемпотентную ветку "уже разлогинен".
func (c *Client) Logout(ctx context.Context, accessToken string) error {
	const op = "identity.Logout"

	return c.do(ctx, op, http.MethodPost, "/logout", nil, accessToken, nil, nil)
}

// VerifyLinkToken проверяет одноразовый токен из письма. Один примитив
// на три сценария: подтверждение регистрации, сброс пароля, приглашение.
func (c *Client) VerifyLinkToken(ctx context.Context, tokenType, tokenHash string) error {
	const op = "identity.VerifyLinkToken"

	body := map[string]string{"type": tokenType, "token_hash": tokenHash}

	return c.do(ctx, op, http.MethodPost, "/verify", nil, "", body, nil)
}

// GetUserByToken разрешает access-токен в пользователя.
func (c *Client) GetUserByToken(ctx context.Context, accessToken string) (*User, error) {
	const op = "identity.GetUserByToken"

	if accessToken == "" {
		return nil, fmt.Errorf("%s: %w: empty access token", op, ErrUnauthenticated)
	}

	var user User
	if err := c.do(ctx, op, http.MethodGet, "/user", nil, accessToken, nil, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// IsAuthenticated — булево удобство поверх GetUserByToken.
func (c *Client) IsAuthenticated(ctx context.Context, accessToken string) bool {
	_, err := c.GetUserByToken(ctx, accessToken)
	return err == nil
}

// RequestPasswordReset просит бэкенд отправить письмо сброса пароля;
// ссылка из письма ведёт на /reset_password шлюза.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	const op = "identity.RequestPasswordReset"

	body := map[string]string{"email": email}

	return c.do(ctx, op, http.MethodPost, "/recover", c.redirectTo(resetPasswordPath), "", body, nil)
}

// InviteUser отправляет приглашение на email; профиль уезжает в
// user_metadata, ссылка из письма ведёт на /update_profile шлюза.
// Админская операция: авторизуется сервисным ключом.
func (c *Client) InviteUser(ctx context.Context, email string, profile Profile) (*User, error) {
	const op = "identity.InviteUser"

	body := map[string]any{
		"email": email,
		"data":  profile,
	}

	var user User
	if err := c.do(ctx, op, http.MethodPost, "/invite", c.redirectTo(updateProfilePath), "", body, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

// redirectTo — query-параметр redirect_to с точкой возврата на шлюзе.
func (c *Client) redirectTo(path string) url.Values {
	return url.Values{"redirect_to": {c.publicHost + path}}
}

// do выполняет один REST-вызов бэкенда: собирает запрос, подписывает
// сервисным ключом (или пользовательским bearer), классифицирует ответ
// и пишет одну итоговую запись в лог.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, bearer string, body, out any) error {
	start := time.Now()

	endpoint := c.baseURL + apiPrefix + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}

	req.Header.Set("apikey", c.serviceKey)
	if bearer == "" {
		bearer = c.serviceKey
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// Сквозной request id: из контекста, иначе новый.
	rid, _ := ctx.Value(CtxRequestID).(string)
	if rid == "" {
		rid = uuid.NewString()
	}
	req.Header.Set("X-Request-Id", rid)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logCall(ctx, op, rid, 0, start)
		return fmt.Errorf("%s: %w: %v", op, ErrTransport, err)
	}
	defer resp.Body.Close()

	c.logCall(ctx, op, rid, resp.StatusCode, start)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body apiError
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return fmt.Errorf("%s: %w", op, classify(resp.StatusCode, body))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: %w: decode response: %v", op, ErrProvider, err)
		}
	}

	return nil
}

// logCall — одна итоговая запись на исходящий вызов.
// Payload и заголовки не логируем.
func (c *Client) logCall(ctx context.Context, op, rid string, status int, start time.Time) {
	l := logctx.From(ctx)
	if l == slog.Default() {
		l = c.log
	}

	l.LogAttrs(ctx, slog.LevelInfo, "identity",
		slog.String("op", op),
		slog.String("request_id", rid),
		slog.Int("status", status),
		slog.Duration("dur", time.Since(start)),
	)
}

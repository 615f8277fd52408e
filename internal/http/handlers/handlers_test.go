package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/pribylovaa/supabase-auth-gateway/internal/config"
	"github.com/pribylovaa/supabase-auth-gateway/internal/identity"
	"github.com/pribylovaa/supabase-auth-gateway/internal/models"
	"github.com/stretchr/testify/require"
)

// fakeGoTrue — бэкенд идентификации для тестов обработчиков.
// Считает вызовы по эндпойнтам и хранит единственный «живой» токен,
// который Logout инвалидирует (для проверки идемпотентности выхода).
type fakeGoTrue struct {
	mu        sync.Mutex
	calls     map[string]int
	liveToken string
	lastQuery map[string]string
	lastAuth  map[string]string
}

func newFakeGoTrue() *fakeGoTrue {
	return &fakeGoTrue{
		calls:     map[string]int{},
		liveToken: "live-token",
		lastQuery: map[string]string{},
		lastAuth:  map[string]string{},
	}
}

func (f *fakeGoTrue) bump(name string, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[name]++
	f.lastQuery[name] = r.URL.RawQuery
	f.lastAuth[name] = r.Header.Get("Authorization")
}

func (f *fakeGoTrue) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeGoTrue) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeGoTrue) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		f.bump("token", r)

		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if r.URL.Query().Get("grant_type") != "password" || body.Email != "a@b.com" || body.Password != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"live-token","refresh_token":"refresh-1","token_type":"bearer","user":{"id":"user-1","email":"a@b.com","role":"authenticated"}}`))
	})

	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		f.bump("signup", r)

		var body struct {
			Email string `json:"email"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.Email == "taken@b.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"msg":"User already registered"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-new","email":"` + body.Email + `","role":"authenticated"}`))
	})

	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		f.bump("user", r)

		f.mu.Lock()
		live := f.liveToken
		f.mu.Unlock()

		if live == "" || r.Header.Get("Authorization") != "Bearer "+live {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"a@b.com","role":"authenticated"}`))
	})

	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		f.bump("logout", r)

		f.mu.Lock()
		live := f.liveToken
		f.mu.Unlock()

		if live == "" || r.Header.Get("Authorization") != "Bearer "+live {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}

		f.mu.Lock()
		f.liveToken = ""
		f.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	})

	mux.HandleFunc("POST /auth/v1/recover", func(w http.ResponseWriter, r *http.Request) {
		f.bump("recover", r)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	mux.HandleFunc("POST /auth/v1/verify", func(w http.ResponseWriter, r *http.Request) {
		f.bump("verify", r)

		var body struct {
			Type      string `json:"type"`
			TokenHash string `json:"token_hash"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.TokenHash != "good-hash" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"Token has expired or is invalid"}`))
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})

	mux.HandleFunc("POST /auth/v1/invite", func(w http.ResponseWriter, r *http.Request) {
		f.bump("invite", r)

		var body struct {
			Email string `json:"email"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-invited","email":"` + body.Email + `"}`))
	})

	return mux
}

func setup(t *testing.T) (*Handlers, *fakeGoTrue) {
	t.Helper()

	backend := newFakeGoTrue()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	cfg := config.Config{
		Supabase: config.SupabaseConfig{
			URL:        srv.URL,
			ServiceKey: "service-key",
			PublicHost: "http://localhost:8080",
		},
		Cookies:  config.CookiesConfig{AccessName: "access_token", RefreshName: "refresh_token"},
		Timeouts: config.TimeoutConfig{Service: 5 * time.Second},
	}

	client := identity.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(client, cfg.Cookies), backend
}

// setupClosed — обработчики поверх заведомо недоступного бэкенда.
func setupClosed(t *testing.T) *Handlers {
	t.Helper()

	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	cfg := config.Config{
		Supabase: config.SupabaseConfig{
			URL:        srv.URL,
			ServiceKey: "service-key",
			PublicHost: "http://localhost:8080",
		},
		Cookies:  config.CookiesConfig{AccessName: "access_token", RefreshName: "refresh_token"},
		Timeouts: config.TimeoutConfig{Service: time.Second},
	}

	client := identity.New(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return New(client, cfg.Cookies)
}

// envelope — типизированный конверт для разбора ответов в тестах.
type envelope struct {
	Message string             `json:"message"`
	Content json.RawMessage    `json:"content"`
	Status  bool               `json:"status"`
	user    *identity.User     `json:"-"`
	viols   []models.Violation `json:"-"`
}

func decodeResp(t *testing.T, body []byte) envelope {
	t.Helper()

	var env envelope
	require.NoError(t, json.Unmarshal(body, &env))

	if len(env.Content) > 0 && env.Content[0] == '{' {
		_ = json.Unmarshal(env.Content, &env.user)
	}
	if len(env.Content) > 0 && env.Content[0] == '[' {
		_ = json.Unmarshal(env.Content, &env.viols)
	}

	return env
}

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pribylovaa/supabase-auth-gateway/internal/http/middleware"
	"github.com/pribylovaa/supabase-auth-gateway/internal/identity"
	"github.com/pribylovaa/supabase-auth-gateway/internal/models"
	logctx "github.com/pribylovaa/supabase-auth-gateway/internal/pkg/log"
)

// SignIn — POST /api/v1/auth/sign_in. Парольный вход; при успехе пишет
// пару сессионных кук и возвращает пользователя в content.
func (h *Handlers) SignIn(w http.ResponseWriter, r *http.Request) {
	var req models.SignInRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Response{
			Message: "Invalid credentials",
			Content: models.Violations(err),
		})
		return
	}

	session, err := h.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		logctx.From(r.Context()).Error("login failed", slog.String("err", err.Error()))

		if badRequest(err) {
			writeJSON(w, http.StatusBadRequest, models.Response{Message: "Invalid credentials"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.Response{Message: "Could not log in user."})
		return
	}

	middleware.SessionCookies(w, h.cookies, session)

	writeJSON(w, http.StatusOK, models.Response{
		Message: "Successfully logged in",
		Content: session.User,
		Status:  true,
	})
}

// SignUp — POST /api/v1/auth/sign_up. Регистрация; куки не выставляются —
// сессия появится после подтверждения почты и входа.
func (h *Handlers) SignUp(w http.ResponseWriter, r *http.Request) {
	var req models.SignUpRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Response{
			Message: "All fields are required",
			Content: models.Violations(err),
		})
		return
	}

	profile := identity.Profile{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
	}

	user, err := h.identity.CreateAccount(r.Context(), req.Email, req.Password, profile)
	if err != nil {
		logctx.From(r.Context()).Error("signup failed", slog.String("err", err.Error()))

		if badRequest(err) {
			writeJSON(w, http.StatusBadRequest, models.Response{Message: "Could not create user"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.Response{Message: "Could not create user"})
		return
	}

	writeJSON(w, http.StatusOK, models.Response{
		Message: "User created successfully",
		Content: user,
		Status:  true,
	})
}

// SignOut — GET /api/v1/auth/sign_out. Идемпотентен: повторный выход по
// уже инвалидированному токену — 400 "Already logged out", не 500.
// Куки не очищаются: протухшее значение отсечёт следующая проверка.
func (h *Handlers) SignOut(w http.ResponseWriter, r *http.Request) {
	token := middleware.BearerToken(r)
	if token == "" {
		if c, err := r.Cookie(h.cookies.AccessName); err == nil {
			token = c.Value
		}
	}

	if token == "" {
		writeJSON(w, http.StatusBadRequest, models.Response{Message: "Token is missing"})
		return
	}

	if _, err := h.identity.GetUserByToken(r.Context(), token); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Response{Message: "Already logged out"})
		return
	}

	if err := h.identity.Logout(r.Context(), token); err != nil {
		logctx.From(r.Context()).Error("logout failed", slog.String("err", err.Error()))

		writeJSON(w, http.StatusInternalServerError, models.Response{Message: "Could not log out"})
		return
	}

	writeJSON(w, http.StatusOK, models.Response{Message: "Successfully logged out", Status: true})
}

// ResetPassword — POST /api/v1/auth/reset_password. Просит бэкенд
// отправить письмо сброса; существование адреса не раскрываем.
func (h *Handlers) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req models.ResetPasswordRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Response{
			Message: "Email is missing",
			Content: models.Violations(err),
		})
		return
	}

	if err := h.identity.RequestPasswordReset(r.Context(), req.Email); err != nil {
		logctx.From(r.Context()).Error("password reset failed", slog.String("err", err.Error()))

		if badRequest(err) {
			writeJSON(w, http.StatusBadRequest, models.Response{Message: "Could not send recovery email"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.Response{Message: "Could not send recovery email"})
		return
	}

	writeJSON(w, http.StatusOK, models.Response{Message: "Recovery email sent", Status: true})
}

// Invite — POST /api/v1/auth/invite. Админская операция за процедурой
// аутентификации; письмо уходит от имени сервисного ключа.
func (h *Handlers) Invite(w http.ResponseWriter, r *http.Request) {
	var req models.InviteRequest
	if err := decode(r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Response{Message: "Invalid request body"})
		return
	}

	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, models.Response{
			Message: "Invalid email",
			Content: models.Violations(err),
		})
		return
	}

	profile := identity.Profile{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		DateOfBirth: req.DateOfBirth,
	}

	user, err := h.identity.InviteUser(r.Context(), req.Email, profile)
	if err != nil {
		logctx.From(r.Context()).Error("invite failed", slog.String("err", err.Error()))

		if badRequest(err) {
			writeJSON(w, http.StatusBadRequest, models.Response{Message: "Could not send invitation"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, models.Response{Message: "Could not send invitation"})
		return
	}

	writeJSON(w, http.StatusOK, models.Response{
		Message: "Invitation sent",
		Content: user,
		Status:  true,
	})
}

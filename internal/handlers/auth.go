package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/practicstudio/devtrack/internal/auth"
	"github.com/practicstudio/devtrack/internal/httpx"
	"github.com/practicstudio/devtrack/internal/services"
)

type AuthHandler struct {
	Auth   *services.AuthService
	Resets *services.PasswordResetService
	// AppURL is used to build the convenience reset link in the
	// forgot-password response.
	AppURL string
}

func NewAuthHandler(authSvc *services.AuthService, resets *services.PasswordResetService, appURL string) *AuthHandler {
	return &AuthHandler{Auth: authSvc, Resets: resets, AppURL: appURL}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	user, token, err := h.Auth.Register(input)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, map[string]any{"user": user, "token": token})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	user, token, err := h.Auth.Login(input)
	if err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user, "token": token})
}

// Logout revokes the presented token. A second logout with the same
// token succeeds too, revocation is idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(auth.BearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	var input services.ProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Auth.UpdateProfile(user, input); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	var input services.ChangePasswordInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Auth.ChangePassword(user, input); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "password changed"})
}

// ForgotPassword issues a reset token. No mail collaborator exists, so
// the token (and a ready-made link) is returned in the response body.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	token, err := h.Resets.RequestReset(input.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s&email=%s",
		h.AppURL, url.QueryEscape(token), url.QueryEscape(input.Email))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message":     "password reset link sent",
		"reset_token": token,
		"reset_url":   resetURL,
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var input services.ResetInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if err := h.Resets.ConsumeReset(input); err != nil {
		writeError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"message": "password reset"})
}

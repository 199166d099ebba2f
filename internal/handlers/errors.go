// Package handlers exposes the JSON API over the service layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/practicstudio/devtrack/internal/auth"
	"github.com/practicstudio/devtrack/internal/httpx"
	"github.com/practicstudio/devtrack/internal/services"
)

// writeError maps service failures to transport status codes. This is the
// only place the taxonomy meets HTTP; services never see status codes.
func writeError(w http.ResponseWriter, err error) {
	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		httpx.JSONError(w, http.StatusUnprocessableEntity, "validation_failed", ve.Violations)
	case errors.Is(err, services.ErrNotFound):
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
	case errors.Is(err, services.ErrForbidden):
		httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
	case errors.Is(err, auth.ErrUnauthenticated):
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
	case errors.Is(err, services.ErrEmailTaken):
		httpx.JSONError(w, http.StatusConflict, "email_already_taken", nil)
	case errors.Is(err, services.ErrWrongPassword):
		httpx.JSONError(w, http.StatusBadRequest, "wrong_password", nil)
	case errors.Is(err, services.ErrInvalidResetToken):
		httpx.JSONError(w, http.StatusBadRequest, "invalid_reset_token", nil)
	case errors.Is(err, services.ErrResetTokenExpired):
		httpx.JSONError(w, http.StatusBadRequest, "reset_token_expired", nil)
	default:
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
	}
}

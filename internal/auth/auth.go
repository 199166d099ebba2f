// Package auth implements the bearer-token session layer: issuing,
// revoking and resolving opaque API tokens, plus the HTTP middleware that
// threads the resolved user through the request context.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"

	"github.com/practicstudio/devtrack/internal/httpx"
	"github.com/practicstudio/devtrack/internal/models"
	"gorm.io/gorm"
)

// ErrUnauthenticated is returned when a token is missing, malformed or
// no longer present in the store (revoked).
var ErrUnauthenticated = errors.New("unauthenticated")

type ctxKey string

const userCtxKey = ctxKey("user")

// IssueToken mints a new opaque bearer token for the user and persists it.
// The plaintext is returned to the caller exactly once. The stored token
// is itself the lookup key (no hashing at rest), mirroring the original
// system's design; see DESIGN.md for the trade-off.
func IssueToken(db *gorm.DB, userID uint) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	if err := db.Create(&models.AuthToken{Token: token, UserID: userID}).Error; err != nil {
		return "", err
	}
	return token, nil
}

// RevokeToken deletes the token record. Revoking an unknown or already
// revoked token is not an error.
func RevokeToken(db *gorm.DB, token string) error {
	if token == "" {
		return nil
	}
	return db.Where("token = ?", token).Delete(&models.AuthToken{}).Error
}

// ResolveToken looks up the token and returns the owning user. It is a
// pure lookup: no sliding expiry, no last-used bookkeeping.
func ResolveToken(db *gorm.DB, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var rec models.AuthToken
	if err := db.Where("token = ?", token).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	var user models.User
	if err := db.First(&user, rec.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Token outlived its user; treat as revoked.
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return &user, nil
}

// BearerToken extracts the token from the Authorization header.
// Returns "" when the header is absent or not a Bearer scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// WithUser stores the resolved user in the context.
func WithUser(ctx context.Context, u *models.User) context.Context {
	return context.WithValue(ctx, userCtxKey, u)
}

// UserFromContext extracts the resolved user.
func UserFromContext(ctx context.Context) (*models.User, bool) {
	u, ok := ctx.Value(userCtxKey).(*models.User)
	return u, ok && u != nil
}

// Middleware resolves the bearer token, if any, and attaches the user to
// the request context. Resolution failures are not fatal here; RequireAuth
// decides whether the route needs an authenticated user.
func Middleware(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token := BearerToken(r); token != "" {
				if user, err := ResolveToken(db, token); err == nil {
					r = r.WithContext(WithUser(r.Context(), user))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAuth rejects requests whose token did not resolve to a user.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

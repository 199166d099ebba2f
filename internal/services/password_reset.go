package services

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/practicstudio/devtrack/internal/models"
	"github.com/practicstudio/devtrack/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// resetTokenTTL bounds a reset token's validity from issuance.
const resetTokenTTL = 60 * time.Minute

// PasswordResetService orchestrates the one-time-token recovery flow:
// NoRequest -> Issued -> Consumed, or Issued -> Expired (expiry is checked
// at consumption time, there is no background sweep).
type PasswordResetService struct {
	DB *gorm.DB

	// now is swappable for expiry tests.
	now func() time.Time
}

func NewPasswordResetService(db *gorm.DB) *PasswordResetService {
	return &PasswordResetService{DB: db, now: time.Now}
}

// RequestReset issues a one-time token for the email. Only a bcrypt hash
// is stored; a new request replaces any outstanding one for that email.
// The plaintext token is returned to the caller; delivering it out of
// band (email) is an external collaborator's job.
//
// An unknown email fails with ErrNotFound, which confirms account
// existence to the caller. See DESIGN.md.
func (s *PasswordResetService) RequestReset(email string) (string, error) {
	v := validation.Violations{}
	validation.Required("email", email, v)
	validation.Email("email", email, v)
	if !v.Empty() {
		return "", NewValidationError(v)
	}
	email = normalizeEmail(email)

	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	// At most one live request per email: drop the prior row, then insert.
	if err := s.DB.Where("email = ?", email).Delete(&models.PasswordReset{}).Error; err != nil {
		return "", err
	}
	reset := models.PasswordReset{Email: email, Token: string(hash), CreatedAt: s.now()}
	if err := s.DB.Create(&reset).Error; err != nil {
		return "", err
	}
	return token, nil
}

type ResetInput struct {
	Email                string `json:"email"`
	Token                string `json:"token"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ConsumeReset validates the token for the email and, if it is genuine
// and younger than 60 minutes, sets the new password and deletes the
// request (single use). An expired request is left in place; it stays
// unusable and the next RequestReset overwrites it.
func (s *PasswordResetService) ConsumeReset(input ResetInput) error {
	v := validation.Violations{}
	validation.Required("email", input.Email, v)
	validation.Email("email", input.Email, v)
	validation.Required("token", input.Token, v)
	validation.Required("password", input.Password, v)
	validation.MinLen("password", input.Password, 8, v)
	validation.Confirmed("password", input.Password, input.PasswordConfirmation, v)
	if !v.Empty() {
		return NewValidationError(v)
	}
	email := normalizeEmail(input.Email)

	var reset models.PasswordReset
	if err := s.DB.Where("email = ?", email).First(&reset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(reset.Token), []byte(input.Token)) != nil {
		return ErrInvalidResetToken
	}
	if s.now().Sub(reset.CreatedAt) > resetTokenTTL {
		return ErrResetTokenExpired
	}

	var user models.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.DB.Model(&user).Update("password", string(hash)).Error; err != nil {
		return err
	}
	return s.DB.Where("email = ?", email).Delete(&models.PasswordReset{}).Error
}

package services

import (
	"errors"
	"strings"

	"github.com/practicstudio/devtrack/internal/auth"
	"github.com/practicstudio/devtrack/internal/models"
	"github.com/practicstudio/devtrack/internal/validation"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// AuthService owns user registration, credential login, token revocation
// and profile/password changes.
type AuthService struct {
	DB *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService { return &AuthService{DB: db} }

type RegisterInput struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// Register creates a user and issues their first token.
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	v := validation.Violations{}
	validation.Required("name", input.Name, v)
	validation.MaxLen("name", input.Name, 255, v)
	validation.Required("email", input.Email, v)
	validation.Email("email", input.Email, v)
	validation.MaxLen("email", input.Email, 255, v)
	validation.Required("password", input.Password, v)
	validation.MinLen("password", input.Password, 8, v)
	validation.Confirmed("password", input.Password, input.PasswordConfirmation, v)
	if !v.Empty() {
		return nil, "", NewValidationError(v)
	}

	email := normalizeEmail(input.Email)
	var count int64
	if err := s.DB.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, "", err
	}
	if count > 0 {
		return nil, "", ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	user := models.User{Name: strings.TrimSpace(input.Name), Email: email, Password: string(hash)}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, "", err
	}
	token, err := auth.IssueToken(s.DB, user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and issues a fresh token. Every login gets
// its own token so multiple devices can hold sessions independently.
func (s *AuthService) Login(input LoginInput) (*models.User, string, error) {
	v := validation.Violations{}
	validation.Required("email", input.Email, v)
	validation.Email("email", input.Email, v)
	validation.Required("password", input.Password, v)
	if !v.Empty() {
		return nil, "", NewValidationError(v)
	}

	var user models.User
	if err := s.DB.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := auth.IssueToken(s.DB, user.ID)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Logout revokes the presented token. Idempotent.
func (s *AuthService) Logout(token string) error {
	return auth.RevokeToken(s.DB, token)
}

type ProfileInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// UpdateProfile applies a partial update to name and/or email.
// The email must stay unique across users (excluding the user itself).
func (s *AuthService) UpdateProfile(user *models.User, input ProfileInput) error {
	v := validation.Violations{}
	updates := map[string]any{}
	if input.Name != nil {
		validation.Required("name", *input.Name, v)
		validation.MaxLen("name", *input.Name, 255, v)
		updates["name"] = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		validation.Required("email", *input.Email, v)
		validation.Email("email", *input.Email, v)
		validation.MaxLen("email", *input.Email, 255, v)
		updates["email"] = normalizeEmail(*input.Email)
	}
	if !v.Empty() {
		return NewValidationError(v)
	}
	if len(updates) == 0 {
		return nil
	}

	if email, ok := updates["email"].(string); ok && email != user.Email {
		var count int64
		if err := s.DB.Model(&models.User{}).
			Where("email = ? AND id <> ?", email, user.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrEmailTaken
		}
	}
	return s.DB.Model(user).Updates(updates).Error
}

type ChangePasswordInput struct {
	CurrentPassword      string `json:"current_password"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// ChangePassword replaces the user's password after verifying the current one.
// Existing tokens stay valid; only an explicit logout revokes them.
func (s *AuthService) ChangePassword(user *models.User, input ChangePasswordInput) error {
	v := validation.Violations{}
	validation.Required("current_password", input.CurrentPassword, v)
	validation.Required("password", input.Password, v)
	validation.MinLen("password", input.Password, 8, v)
	validation.Confirmed("password", input.Password, input.PasswordConfirmation, v)
	if !v.Empty() {
		return NewValidationError(v)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.CurrentPassword)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.DB.Model(user).Update("password", string(hash)).Error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

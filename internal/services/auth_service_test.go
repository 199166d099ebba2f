package services

import (
	"errors"
	"testing"

	"github.com/practicstudio/devtrack/internal/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	user, token, err := svc.Register(RegisterInput{
		Name:                 "Alice",
		Email:                "Alice@Example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("email not normalized: %s", user.Email)
	}
	if token == "" {
		t.Fatal("expected a token on registration")
	}
	if user.Password == "password123" {
		t.Fatal("password stored in plaintext")
	}

	// The issued token resolves back to the same user.
	resolved, err := auth.ResolveToken(db, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.ID != user.ID {
		t.Fatalf("token resolves to wrong user")
	}

	// Login issues a second, independent token.
	_, token2, err := svc.Login(LoginInput{Email: "alice@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token2 == token {
		t.Fatal("login must issue a fresh token")
	}
}

func TestRegister_Validation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	_, _, err := svc.Register(RegisterInput{
		Name:                 "Bob",
		Email:                "not-an-email",
		Password:             "short",
		PasswordConfirmation: "different",
	})
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	for _, field := range []string{"email", "password"} {
		if _, ok := ve.Violations[field]; !ok {
			t.Errorf("expected violation on %s: %v", field, ve.Violations)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	createTestUser(t, db, "taken@example.com", "password123")

	_, _, err := svc.Register(RegisterInput{
		Name:                 "Other",
		Email:                "taken@example.com",
		Password:             "password123",
		PasswordConfirmation: "password123",
	})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	createTestUser(t, db, "a@example.com", "password123")

	if _, _, err := svc.Login(LoginInput{Email: "a@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := svc.Login(LoginInput{Email: "nobody@example.com", Password: "password123"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogout_RevokesOnlyThatToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	user := createTestUser(t, db, "a@example.com", "password123")

	t1, _ := auth.IssueToken(db, user.ID)
	t2, _ := auth.IssueToken(db, user.ID)

	if err := svc.Logout(t1); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := auth.ResolveToken(db, t1); !errors.Is(err, auth.ErrUnauthenticated) {
		t.Fatalf("revoked token still resolves: %v", err)
	}
	if _, err := auth.ResolveToken(db, t2); err != nil {
		t.Fatalf("other session's token must survive: %v", err)
	}
	// Second logout with the same token is a no-op, not an error.
	if err := svc.Logout(t1); err != nil {
		t.Fatalf("repeated logout: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	user := createTestUser(t, db, "a@example.com", "password123")
	other := createTestUser(t, db, "b@example.com", "password123")

	if err := svc.UpdateProfile(user, ProfileInput{Name: str("New Name")}); err != nil {
		t.Fatalf("update name: %v", err)
	}
	if user.Name != "New Name" {
		t.Fatalf("name not updated: %s", user.Name)
	}

	// Someone else's email is a conflict.
	if err := svc.UpdateProfile(user, ProfileInput{Email: str(other.Email)}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Re-submitting your own email is fine.
	if err := svc.UpdateProfile(user, ProfileInput{Email: str("a@example.com")}); err != nil {
		t.Fatalf("own email should not conflict: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)
	user := createTestUser(t, db, "a@example.com", "oldpassword")

	err := svc.ChangePassword(user, ChangePasswordInput{
		CurrentPassword:      "not-the-password",
		Password:             "newpassword1",
		PasswordConfirmation: "newpassword1",
	})
	if !errors.Is(err, ErrWrongPassword) {
		t.Fatalf("expected ErrWrongPassword, got %v", err)
	}

	err = svc.ChangePassword(user, ChangePasswordInput{
		CurrentPassword:      "oldpassword",
		Password:             "newpassword1",
		PasswordConfirmation: "newpassword1",
	})
	if err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, _, err := svc.Login(LoginInput{Email: "a@example.com", Password: "newpassword1"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := svc.Login(LoginInput{Email: "a@example.com", Password: "oldpassword"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
}

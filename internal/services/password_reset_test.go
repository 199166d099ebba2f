package services

import (
	"errors"
	"testing"
	"time"
)

func TestPasswordResetRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	resets := NewPasswordResetService(db)
	authSvc := NewAuthService(db)
	createTestUser(t, db, "a@example.com", "oldpassword")

	token, err := resets.RequestReset("a@example.com")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if token == "" {
		t.Fatal("expected plaintext token")
	}

	err = resets.ConsumeReset(ResetInput{
		Email:                "a@example.com",
		Token:                token,
		Password:             "newpassword1",
		PasswordConfirmation: "newpassword1",
	})
	if err != nil {
		t.Fatalf("consume: %v", err)
	}

	if _, _, err := authSvc.Login(LoginInput{Email: "a@example.com", Password: "newpassword1"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, _, err := authSvc.Login(LoginInput{Email: "a@example.com", Password: "oldpassword"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password must stop working, got %v", err)
	}
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	db := setupTestDB(t)
	resets := NewPasswordResetService(db)

	if _, err := resets.RequestReset("nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestConsumeReset_WrongToken(t *testing.T) {
	db := setupTestDB(t)
	resets := NewPasswordResetService(db)
	authSvc := NewAuthService(db)
	createTestUser(t, db, "a@example.com", "oldpassword")

	if _, err := resets.RequestReset("a@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	err := resets.ConsumeReset(ResetInput{
		Email:                "a@example.com",
		Token:                "completely-wrong",
		Password:             "newpassword1",
		PasswordConfirmation: "newpassword1",
	})
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
	// Credentials untouched on failure.
	if _, _, err := authSvc.Login(LoginInput{Email: "a@example.com", Password: "oldpassword"}); err != nil {
		t.Fatalf("old password must still work: %v", err)
	}
}

func TestConsumeReset_NoRequest(t *testing.T) {
	db := setupTestDB(t)
	resets := NewPasswordResetService(db)
	createTestUser(t, db, "a@example.com", "oldpassword")

	err := resets.ConsumeReset(ResetInput{
		Email:                "a@example.com",
		Token:                "whatever",
		Password:             "newpassword1",
		PasswordConfirmation: "newpassword1",
	})
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("expected ErrInvalidResetToken, got %v", err)
	}
}

func TestConsumeReset_Expired(t *testing.T) {
	db := setupTestDB(t)
	resets := NewPasswordResetService(db)
	authSvc := NewAuthService(db)
	createTestUser(t, db, "a@example.com", "oldpassword")

	issued := time.Now()
	resets.now = func() time.Time { return issued }
	token, err := resets.RequestReset("a@example.com")
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// 61 minutes later the token is past its 60-minute window.
	resets.now = func() time.Time { return issued.Add(61 * time.Minute) }
	err = resets.ConsumeReset(ResetInput{
		Email:                "a@example.com",
		Token:                token,
		Password:             "newpassword1",
		PasswordConfirmation: "newpassword1",
	})
	if !errors.Is(err, ErrResetTokenExpired) {
		t.Fatalf("expected ErrResetTokenExpired, got %v", err)
	}
	if _, _, err := authSvc.Login(LoginInput{Email: "a@example.com", Password: "oldpassword"}); err != nil {
		t.Fatalf("credentials must be unchanged after expiry: %v", err)
	}
}

func TestRequestReset_ReplacesPriorRequest(t *testing.T) {
	db := setupTestDB(t)
	resets := NewPasswordResetService(db)
	createTestUser(t, db, "a@example.com", "oldpassword")

	first, err := resets.RequestReset("a@example.com")
	if err != nil {
		t.Fatalf("first request: %v", err)
	}
	second, err := resets.RequestReset("a@example.com")
	if err != nil {
		t.Fatalf("second request: %v", err)
	}

	// The first token was overwritten and no longer matches.
	err = resets.ConsumeReset(ResetInput{
		Email:                "a@example.com",
		Token:                first,
		Password:             "newpassword1",
		PasswordConfirmation: "newpassword1",
	})
	if !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("stale token should fail, got %v", err)
	}
	// The latest one works.
	err = resets.ConsumeReset(ResetInput{
		Email:                "a@example.com",
		Token:                second,
		Password:             "newpassword1",
		PasswordConfirmation: "newpassword1",
	})
	if err != nil {
		t.Fatalf("latest token should succeed: %v", err)
	}
}

func TestConsumeReset_SingleUse(t *testing.T) {
	db := setupTestDB(t)
	resets := NewPasswordResetService(db)
	createTestUser(t, db, "a@example.com", "oldpassword")

	token, _ := resets.RequestReset("a@example.com")
	in := ResetInput{
		Email:                "a@example.com",
		Token:                token,
		Password:             "newpassword1",
		PasswordConfirmation: "newpassword1",
	}
	if err := resets.ConsumeReset(in); err != nil {
		t.Fatalf("first consume: %v", err)
	}
	if err := resets.ConsumeReset(in); !errors.Is(err, ErrInvalidResetToken) {
		t.Fatalf("token must be single-use, got %v", err)
	}
}

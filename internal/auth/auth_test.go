package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/practicstudio/devtrack/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Use a unique in-memory database per test to avoid cross-test collisions.
	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.AuthToken{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := models.User{Name: "Test", Email: email, Password: "hash"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return &u
}

func TestIssueAndResolveToken(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "a@example.com")

	token, err := IssueToken(db, u.ID)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if len(token) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(token))
	}

	got, err := ResolveToken(db, token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("resolved wrong user: %d != %d", got.ID, u.ID)
	}
}

func TestIssueToken_MultiDevice(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "a@example.com")

	t1, err := IssueToken(db, u.ID)
	if err != nil {
		t.Fatalf("issue t1: %v", err)
	}
	t2, err := IssueToken(db, u.ID)
	if err != nil {
		t.Fatalf("issue t2: %v", err)
	}
	if t1 == t2 {
		t.Fatal("expected distinct tokens")
	}
	// Revoking one device's token must not touch the other.
	if err := RevokeToken(db, t1); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := ResolveToken(db, t1); err != ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated for revoked token, got %v", err)
	}
	if _, err := ResolveToken(db, t2); err != nil {
		t.Fatalf("second token should still resolve: %v", err)
	}
}

func TestRevokeToken_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "a@example.com")

	token, _ := IssueToken(db, u.ID)
	if err := RevokeToken(db, token); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	if err := RevokeToken(db, token); err != nil {
		t.Fatalf("second revoke should not error: %v", err)
	}
	if err := RevokeToken(db, "never-issued"); err != nil {
		t.Fatalf("revoking unknown token should not error: %v", err)
	}
}

func TestResolveToken_Invalid(t *testing.T) {
	db := setupTestDB(t)
	if _, err := ResolveToken(db, ""); err != ErrUnauthenticated {
		t.Fatalf("empty token: expected ErrUnauthenticated, got %v", err)
	}
	if _, err := ResolveToken(db, "bogus"); err != ErrUnauthenticated {
		t.Fatalf("unknown token: expected ErrUnauthenticated, got %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	cases := []struct {
		header string
		want   string
	}{
		{"", ""},
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Basic dXNlcg==", ""},
		{"Bearer", ""},
	}
	for _, c := range cases {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.header != "" {
			r.Header.Set("Authorization", c.header)
		}
		if got := BearerToken(r); got != c.want {
			t.Errorf("header %q: got %q want %q", c.header, got, c.want)
		}
	}
}

func TestMiddlewareAndRequireAuth(t *testing.T) {
	db := setupTestDB(t)
	u := createUser(t, db, "a@example.com")
	token, _ := IssueToken(db, u.ID)

	var seen *models.User
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Middleware(db)(RequireAuth(inner))

	// No token -> 401, inner never runs.
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	// Valid token -> inner sees the user.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rr.Code)
	}
	if seen == nil || seen.ID != u.ID {
		t.Fatalf("context user not set correctly: %+v", seen)
	}

	// Revoked token -> 401 again.
	if err := RevokeToken(db, token); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after revoke got %d", rr.Code)
	}
}

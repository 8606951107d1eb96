package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret-0123456789"

func TestSessionIssueVerify(t *testing.T) {
	m, err := NewSessionManager(testSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}

	tok, err := m.Issue(Identity{UserID: 42, Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	id, err := m.Verify(tok)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if id.UserID != 42 || id.Email != "alice@example.com" {
		t.Fatalf("unexpected identity %+v", id)
	}
}

func TestSessionVerifyRejects(t *testing.T) {
	m, _ := NewSessionManager(testSecret, time.Hour)
	other, _ := NewSessionManager("another-secret-0123456789", time.Hour)

	foreign, _ := other.Issue(Identity{UserID: 1, Email: "a@b.c"})
	if _, err := m.Verify(foreign); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign signature, got %v", err)
	}

	if _, err := m.Verify("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}

	expired, _ := NewSessionManager(testSecret, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.Issue(Identity{UserID: 1, Email: "a@b.c"})
	if _, err := m.Verify(old); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 1})
	unsigned, _ := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if _, err := m.Verify(unsigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for alg none, got %v", err)
	}
}

func TestNewSessionManagerShortSecret(t *testing.T) {
	if _, err := NewSessionManager("short", time.Hour); err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestPIN(t *testing.T) {
	for _, bad := range []string{"123", "1234567", "12a4", "", " 1234"} {
		if err := ValidatePIN(bad); !errors.Is(err, ErrInvalidPINFormat) {
			t.Fatalf("ValidatePIN(%q) = %v", bad, err)
		}
	}

	hash, err := HashPIN("1234")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	if !VerifyPIN(hash, "1234") {
		t.Fatal("expected PIN to verify")
	}
	if VerifyPIN(hash, "4321") {
		t.Fatal("expected wrong PIN to fail")
	}
}

func TestMiddleware(t *testing.T) {
	m, _ := NewSessionManager(testSecret, time.Hour)
	tok, _ := m.Issue(Identity{UserID: 7, Email: "bob@example.com"})

	var seen Identity
	var seenToken string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		seenToken, _ = SessionTokenFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	h := Middleware(m, true)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if seen.UserID != 7 || seenToken != tok {
		t.Fatalf("unexpected context values %+v %q", seen, seenToken)
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	optional := Middleware(m, false)(next)
	rec = httptest.NewRecorder()
	optional.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected optional middleware to pass, got %d", rec.Code)
	}
}

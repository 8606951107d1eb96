package service

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	"github.com/chainsafe/token-wallet/pkg/auth"
	"github.com/chainsafe/token-wallet/pkg/user"
	"github.com/chainsafe/token-wallet/pkg/user/service/mocks"
)

type errorBody struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
}

func newUserTestServer(t *testing.T, svc Service) (http.Handler, *auth.SessionManager) {
	t.Helper()
	sessions, err := auth.NewSessionManager("test-secret-0123456789", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager() failed: %v", err)
	}
	r := chi.NewRouter()
	RegisterRoutes(r, svc, sessions, zap.NewNop())
	return r, sessions
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var got errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	return got
}

func TestRegisterHTTP_InvalidJSON_ReturnsBadRequest(t *testing.T) {
	handler, _ := newUserTestServer(t, mocks.NewService(t))

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString("{invalid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec); got.Error != "invalid JSON" || got.Code != http.StatusBadRequest {
		t.Fatalf("unexpected body %+v", got)
	}
}

func TestRegisterHTTP_MissingFields_ReturnsBadRequest(t *testing.T) {
	handler, _ := newUserTestServer(t, mocks.NewService(t))

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{"email":"a@b.co"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if got := decodeError(t, rec); got.Error != "email and pin required" {
		t.Fatalf("unexpected error %q", got.Error)
	}
}

func TestRegisterHTTP_Created(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		Register(mock.Anything, &user.RegisterRequest{Email: "alice@example.com", PIN: "1234"}).
		Return(&user.AuthResponse{Token: "tok", User: &user.Profile{ID: 1, Email: "alice@example.com"}}, nil).
		Once()
	handler, _ := newUserTestServer(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(`{"email":"alice@example.com","pin":"1234"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	var got user.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response JSON: %v", err)
	}
	if got.Token != "tok" || got.User.Email != "alice@example.com" {
		t.Fatalf("unexpected response %+v", got)
	}
}

func TestLoginHTTP_ServiceErrorMapped(t *testing.T) {
	svc := mocks.NewService(t)
	svc.EXPECT().
		Login(mock.Anything, mock.Anything).
		Return(nil, apperrors.UnAuthorizedError(ErrInvalidCredentials, "Invalid email or PIN")).
		Once()
	handler, _ := newUserTestServer(t, svc)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(`{"email":"a@b.co","pin":"9999"}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if got := decodeError(t, rec); got.Error != "Invalid email or PIN" {
		t.Fatalf("unexpected error %q", got.Error)
	}
}

func TestMeHTTP_RequiresSession(t *testing.T) {
	svc := mocks.NewService(t)
	handler, sessions := newUserTestServer(t, svc)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d without token, got %d", http.StatusUnauthorized, rec.Code)
	}

	token, err := sessions.Issue(auth.Identity{UserID: 42, Email: "eve@example.com"})
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}
	svc.EXPECT().Me(mock.Anything, int64(42)).Return(&user.Profile{ID: 42, Email: "eve@example.com"}, nil).Once()

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

func TestLinkStarknetAddressHTTP(t *testing.T) {
	svc := mocks.NewService(t)
	handler, sessions := newUserTestServer(t, svc)
	token, err := sessions.Issue(auth.Identity{UserID: 8, Email: "f@example.com"})
	if err != nil {
		t.Fatalf("Issue() failed: %v", err)
	}

	svc.EXPECT().
		LinkStarknetAddress(mock.Anything, int64(8), &user.LinkAddressRequest{StarknetAddress: "0x05b2"}).
		Return(&user.Profile{ID: 8, StarknetAddress: "0x05b2"}, nil).
		Once()

	req := httptest.NewRequest(http.MethodPut, "/me/starknet-address", bytes.NewBufferString(`{"starknet_address":"0x05b2"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}
}

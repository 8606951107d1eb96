package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
)

func TestHandleError_ServiceError(t *testing.T) {
	h := HandleError(func(w http.ResponseWriter, r *http.Request) error {
		err := apperrors.BadRequestError(errors.New("amount: not a number"), "invalid amount")
		return apperrors.WithDetail(err, "field", "amount")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "invalid amount" {
		t.Fatalf("unexpected error message %v", body["error"])
	}
	if body["field"] != "amount" {
		t.Fatalf("expected field detail, got %v", body["field"])
	}
	if body["code"] != float64(http.StatusBadRequest) {
		t.Fatalf("unexpected code %v", body["code"])
	}
}

func TestHandleError_UnknownErrorIsOpaque(t *testing.T) {
	h := HandleError(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("connection refused by 10.0.0.7")
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body map[string]any
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "Unexpected Service Error" {
		t.Fatalf("internal detail leaked: %v", body["error"])
	}
}

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperrors.UnAuthorizedError(nil, "Invalid PIN"), http.StatusUnauthorized},
		{apperrors.NotSupportedError(nil, "simulation"), http.StatusMethodNotAllowed},
		{apperrors.LockedError(nil, "too many attempts"), http.StatusLocked},
		{apperrors.DependencyError(nil, "dispatch failed"), http.StatusBadGateway},
		{apperrors.TimeoutError(nil, "dispatch timed out"), http.StatusGatewayTimeout},
		{apperrors.GeneralError(nil), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		DefaultErrorHandler(rec, tc.err)
		if rec.Code != tc.want {
			t.Fatalf("%v: expected %d, got %d", tc.err, tc.want, rec.Code)
		}
	}
}

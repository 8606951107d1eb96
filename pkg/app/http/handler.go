// Package http provides HTTP utilities including chi-compatible error handling
package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
)

// HandlerFunc defines a function that returns an error for clean error handling
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// HandleError adapts an error-returning HandlerFunc to http.HandlerFunc:
//
//	r.Post("/transfers", apphttp.HandleError(handler.submitTransfer))
func HandleError(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			DefaultErrorHandler(w, err)
		}
	}
}

// DefaultErrorHandler writes err as {"error", "code", ...details}. Anything that
// is not a ServiceError becomes an opaque 500.
func DefaultErrorHandler(w http.ResponseWriter, err error) {
	var svcErr *apperrors.ServiceError
	if errors.As(err, &svcErr) {
		body := map[string]any{
			"error": svcErr.Message,
			"code":  svcErr.StatusCode(),
		}
		for k, v := range svcErr.Details {
			if k == "error" || k == "code" {
				continue
			}
			body[k] = v
		}
		WriteJSON(w, svcErr.StatusCode(), body)
		return
	}

	WriteJSON(w, http.StatusInternalServerError, map[string]any{
		"error": "Unexpected Service Error",
		"code":  http.StatusInternalServerError,
	})
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// DecodeJSON reads at most 1MiB of the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	if err := dec.Decode(dst); err != nil {
		return apperrors.BadRequestError(err, "invalid JSON")
	}
	return nil
}

package service

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	apphttp "github.com/chainsafe/token-wallet/pkg/app/http"
	"github.com/chainsafe/token-wallet/pkg/auth"
	"github.com/chainsafe/token-wallet/pkg/user"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the user endpoints on r. sessions guards the
// routes that need a signed-in caller.
func RegisterRoutes(r chi.Router, service Service, sessions *auth.SessionManager, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Post("/auth/register", apphttp.HandleError(h.register))
	r.Post("/auth/login", apphttp.HandleError(h.login))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(sessions, true))
		r.Get("/me", apphttp.HandleError(h.me))
		r.Put("/me/starknet-address", apphttp.HandleError(h.linkStarknetAddress))
	})
}

func (h *HTTP) register(w http.ResponseWriter, r *http.Request) error {
	var req user.RegisterRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.Email == "" || req.PIN == "" {
		return apperrors.BadRequestError(nil, "email and pin required")
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, resp)
	return nil
}

func (h *HTTP) login(w http.ResponseWriter, r *http.Request) error {
	var req user.LoginRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.Email == "" || req.PIN == "" {
		return apperrors.BadRequestError(nil, "email and pin required")
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, resp)
	return nil
}

func (h *HTTP) me(w http.ResponseWriter, r *http.Request) error {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "Invalid or expired session")
	}
	profile, err := h.service.Me(r.Context(), id.UserID)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, profile)
	return nil
}

func (h *HTTP) linkStarknetAddress(w http.ResponseWriter, r *http.Request) error {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return apperrors.UnAuthorizedError(nil, "Invalid or expired session")
	}
	var req user.LinkAddressRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}
	if req.StarknetAddress == "" {
		return apperrors.BadRequestError(nil, "starknet_address required")
	}

	profile, err := h.service.LinkStarknetAddress(r.Context(), id.UserID, &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, profile)
	return nil
}

package service

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	apphttp "github.com/chainsafe/token-wallet/pkg/app/http"
	"github.com/chainsafe/token-wallet/pkg/auth"
	"github.com/chainsafe/token-wallet/pkg/wallet"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service Service
	logger  *zap.Logger
}

// RegisterRoutes registers the wallet endpoints on r. Bearer tokens are
// passed through to the service, which verifies them where needed.
func RegisterRoutes(r chi.Router, service Service, sessions *auth.SessionManager, logger *zap.Logger) {
	h := &HTTP{
		service: service,
		logger:  logger,
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(sessions, false))

		r.Post("/transfers", apphttp.HandleError(h.submitTransfer))
		r.Post("/transfers/simulate", apphttp.HandleError(h.simulateTransfer))

		r.Get("/transactions", apphttp.HandleError(h.listTransactions))
		r.Post("/transactions", apphttp.HandleError(h.recordTransaction))
		r.Get("/transactions/{hash}", apphttp.HandleError(h.getTransaction))

		r.Get("/portfolio", apphttp.HandleError(h.getPortfolio))
		r.Get("/portfolio/performance", apphttp.HandleError(h.getPortfolioPerformance))
	})
}

func sessionToken(r *http.Request) (string, error) {
	token, ok := auth.SessionTokenFromContext(r.Context())
	if !ok {
		return "", apperrors.UnAuthorizedError(nil, "Invalid or expired session")
	}
	return token, nil
}

func (h *HTTP) submitTransfer(w http.ResponseWriter, r *http.Request) error {
	token, err := sessionToken(r)
	if err != nil {
		return err
	}
	var req wallet.TransferRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}

	res, err := h.service.SubmitTransfer(r.Context(), token, &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, res)
	return nil
}

func (h *HTTP) simulateTransfer(w http.ResponseWriter, r *http.Request) error {
	var req wallet.SimulateRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}

	out, err := h.service.SimulateTransfer(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, out)
	return nil
}

func (h *HTTP) listTransactions(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	query := &wallet.HistoryQuery{
		WalletAddress: q.Get("wallet_address"),
		Network:       q.Get("network"),
	}
	if v := q.Get("cursor"); v != "" {
		cursor, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return apperrors.BadRequestError(err, "invalid cursor")
		}
		query.Cursor = &cursor
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return apperrors.BadRequestError(err, "invalid limit")
		}
		query.Limit = limit
	}

	page, err := h.service.ListTransactions(r.Context(), query)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, page)
	return nil
}

func (h *HTTP) getTransaction(w http.ResponseWriter, r *http.Request) error {
	view, err := h.service.GetTransaction(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, view)
	return nil
}

func (h *HTTP) recordTransaction(w http.ResponseWriter, r *http.Request) error {
	var req wallet.RecordRequest
	if err := apphttp.DecodeJSON(r, &req); err != nil {
		return err
	}

	view, err := h.service.RecordTransaction(r.Context(), &req)
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusCreated, view)
	return nil
}

func (h *HTTP) getPortfolio(w http.ResponseWriter, r *http.Request) error {
	token, err := sessionToken(r)
	if err != nil {
		return err
	}
	q := r.URL.Query()

	p, err := h.service.GetPortfolio(r.Context(), token, q.Get("network"), q.Get("wallet_address"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, p)
	return nil
}

func (h *HTTP) getPortfolioPerformance(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	perf, err := h.service.GetPortfolioPerformance(r.Context(), q.Get("wallet_address"), q.Get("network"))
	if err != nil {
		return err
	}
	apphttp.WriteJSON(w, http.StatusOK, perf)
	return nil
}

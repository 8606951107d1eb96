// Package submission drives an authorized transfer through dispatch and
// recording.
package submission

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/internal/metrics"
	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	"github.com/chainsafe/token-wallet/pkg/authz"
	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/intent"
	"github.com/chainsafe/token-wallet/pkg/network"
	"github.com/chainsafe/token-wallet/pkg/transaction"
	"github.com/chainsafe/token-wallet/pkg/txstore"
)

// State is a step of a submission's lifecycle.
type State string

const (
	StateBuilt       State = "built"
	StateAuthorized  State = "authorized"
	StateDispatching State = "dispatching"
	StateDispatched  State = "dispatched"
	StateRecorded    State = "recorded"
	StateRejected    State = "rejected"
	StateFailed      State = "failed"
)

// TicketConsumer redeems authorization tickets.
type TicketConsumer interface {
	Consume(ticket *authz.Ticket, in *intent.Intent) error
}

// AdapterResolver returns the chain adapter for a network.
type AdapterResolver interface {
	Adapter(id network.ID) (chain.Adapter, error)
}

// Recorder persists transaction records.
type Recorder interface {
	CreateTransaction(ctx context.Context, rec *transaction.Record) error
}

// Request is one authorized transfer.
type Request struct {
	Intent *intent.Intent
	Ticket *authz.Ticket
	Signer chain.Signer
	// WalletAddress is the sender recorded in history.
	WalletAddress string
}

// Result describes a recorded transfer.
type Result struct {
	TransactionHash string             `json:"transaction_hash,omitzero"`
	RecordID        int64              `json:"record_id"`
	Status          transaction.Status `json:"status"`
	ExplorerURL     string             `json:"explorer_url,omitzero"`
}

// Orchestrator sequences ticket consumption, dispatch and recording.
type Orchestrator struct {
	tickets  TicketConsumer
	adapters AdapterResolver
	recorder Recorder
	locks    *keyedMutex
	logger   *zap.Logger

	dispatchTimeout time.Duration
	gasFee          string
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(tickets TicketConsumer, adapters AdapterResolver, recorder Recorder, opts ...Option) *Orchestrator {
	s := applyOptions(opts)
	return &Orchestrator{
		tickets:         tickets,
		adapters:        adapters,
		recorder:        recorder,
		locks:           newKeyedMutex(),
		logger:          s.logger,
		dispatchTimeout: s.dispatchTimeout,
		gasFee:          s.gasFee,
	}
}

// Submit consumes the ticket, dispatches the transfer and records it.
// Custodial transfers re-read the sender's balance while the identity's lock
// is held, so two rapid submissions cannot both spend the same funds.
// Once dispatch begins it is not cancelled by ctx.
func (o *Orchestrator) Submit(ctx context.Context, req *Request) (*Result, error) {
	in := req.Intent
	netID := in.Network().ID
	log := o.logger.With(
		zap.String("network", string(netID)),
		zap.String("token", in.Token().Symbol),
		zap.String("fingerprint", in.Fingerprint()),
	)
	if req.Ticket != nil {
		log = log.With(zap.String("ticket_id", req.Ticket.ID.String()), zap.Int64("user_id", req.Ticket.Identity.UserID))
	}
	transition := func(s State, fields ...zap.Field) {
		log.Debug("Submission state changed", append(fields, zap.String("state", string(s)))...)
	}
	finish := func(s State) {
		transition(s)
		metrics.SubmissionsTotal.WithLabelValues(string(netID), string(s)).Inc()
	}
	transition(StateBuilt)

	if err := o.tickets.Consume(req.Ticket, in); err != nil {
		log.Warn("Submission rejected", zap.Error(err))
		finish(StateRejected)
		return nil, err
	}
	transition(StateAuthorized)

	adapter, err := o.adapters.Adapter(netID)
	if err != nil {
		finish(StateFailed)
		return nil, apperrors.GeneralError(err)
	}

	unlock := o.locks.Lock(req.Ticket.Identity.UserID)
	defer unlock()

	if _, ok := req.Signer.(chain.PreDispatched); !ok {
		if err := o.checkBalance(ctx, adapter, req); err != nil {
			log.Warn("Submission rejected", zap.Error(err))
			finish(StateRejected)
			return nil, err
		}
	}

	transition(StateDispatching)
	hash, err := o.dispatch(ctx, adapter, req)
	if err != nil {
		dfe := &DispatchFailedError{Network: netID, Cause: err}
		log.Error("Transfer dispatch failed", zap.Error(err), zap.Bool("timeout", dfe.Timeout()))
		metrics.ErrorsTotal.WithLabelValues("submission", "dispatch").Inc()
		finish(StateFailed)
		switch {
		case dfe.Timeout():
			return nil, apperrors.TimeoutError(dfe, "Transaction dispatch timed out")
		case errors.Is(err, chain.ErrBroadcastMismatch):
			return nil, apperrors.BadRequestError(dfe, "Transaction does not match the transfer")
		}
		return nil, apperrors.DependencyError(dfe, "Transaction dispatch failed")
	}
	transition(StateDispatched, zap.String("tx_hash", hash))

	rec := o.newRecord(req, hash)
	// Recording must not be lost to a client disconnect after dispatch.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.dispatchTimeout)
	defer cancel()
	err = o.recorder.CreateTransaction(recordCtx, rec)
	switch {
	case errors.Is(err, txstore.ErrDuplicateHash):
		// The transfer is already in history; nothing was lost.
		log.Warn("Transfer already recorded", zap.String("tx_hash", rec.Hash))
		finish(StateRejected)
		return nil, apperrors.WithDetail(
			apperrors.ConflictError(fmt.Errorf("%w: %w", ErrAlreadyRecorded, err), "Transaction already recorded"),
			"transaction_hash", rec.Hash)
	case err != nil:
		rfe := &RecordingFailedError{Hash: hash, Cause: err}
		log.Error("Transfer dispatched but not recorded", zap.String("tx_hash", hash), zap.Error(err))
		metrics.ErrorsTotal.WithLabelValues("submission", "record").Inc()
		finish(StateFailed)
		svcErr := apperrors.GeneralError(rfe)
		if hash != "" {
			svcErr = apperrors.WithDetail(svcErr, "transaction_hash", hash)
		}
		return nil, svcErr
	}
	finish(StateRecorded)

	log.Info("Transfer recorded",
		zap.String("tx_hash", hash),
		zap.Int64("record_id", rec.ID),
		zap.String("status", string(rec.Status)))

	return &Result{
		TransactionHash: hash,
		RecordID:        rec.ID,
		Status:          rec.Status,
		ExplorerURL:     in.Network().ExplorerTxURL(hash),
	}, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, adapter chain.Adapter, req *Request) (string, error) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.dispatchTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.DispatchDuration.WithLabelValues(string(req.Intent.Network().ID)).Observe(time.Since(start).Seconds())
	}()

	in := req.Intent
	return adapter.DispatchTransfer(dctx, req.Signer, in.Token(), in.Recipient(), in.AmountSmallestUnit())
}

func (o *Orchestrator) checkBalance(ctx context.Context, adapter chain.Adapter, req *Request) error {
	in := req.Intent
	balance, err := adapter.GetBalance(ctx, in.Token(), req.WalletAddress)
	if err != nil {
		return apperrors.DependencyError(err, "Failed to read balance")
	}
	if balance.Cmp(in.AmountSmallestUnit()) < 0 {
		return apperrors.BadRequestError(ErrInsufficientBalance, "Insufficient balance")
	}
	return nil
}

func (o *Orchestrator) newRecord(req *Request, hash string) *transaction.Record {
	in := req.Intent
	status := transaction.StatusPending
	if hash == "" {
		status = transaction.StatusCompleted
	}

	recipient := network.NormalizeAddress(in.Recipient())
	amount := in.AmountDecimal()
	usdPrice := decimal.NewFromInt(1)
	rec := &transaction.Record{
		Hash:              strings.ToLower(hash),
		Network:           string(in.Network().ID),
		WalletAddress:     network.NormalizeAddress(req.WalletAddress),
		Type:              transaction.TypeSend,
		Status:            status,
		FromToken:         in.Token().Symbol,
		Amount:            in.Amount(),
		Recipient:         &recipient,
		FromTokenUSDPrice: &usdPrice,
		TotalUSDValue:     &amount,
	}
	if o.gasFee != "" {
		fee := o.gasFee
		rec.GasFee = &fee
	}
	return rec
}

// IsDispatchFailure reports whether err came from a failed dispatch.
func IsDispatchFailure(err error) bool {
	var dfe *DispatchFailedError
	return errors.As(err, &dfe)
}

// RecordingFailureHash returns the hash carried by a recording failure.
func RecordingFailureHash(err error) (string, bool) {
	var rfe *RecordingFailedError
	if errors.As(err, &rfe) {
		return rfe.Hash, true
	}
	return "", false
}

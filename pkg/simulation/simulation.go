// Package simulation dry-runs transfers on networks that support it and
// normalizes the result for display.
package simulation

import (
	"context"
	"errors"
	"math/big"

	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/internal/metrics"
	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/intent"
	"github.com/chainsafe/token-wallet/pkg/network"
)

// ErrUnsupportedOperation is returned for networks without simulation.
var ErrUnsupportedOperation = errors.New("simulation is not supported on this network")

const (
	// feeDecimals is the precision of Starknet fee amounts.
	feeDecimals = 18
	// displayPlaces is the number of decimals shown for fees.
	displayPlaces = 6
)

// ExecutionStatus is the simulated execution result.
type ExecutionStatus string

const (
	StatusSucceeded ExecutionStatus = "SUCCEEDED"
	StatusReverted  ExecutionStatus = "REVERTED"
	StatusUnknown   ExecutionStatus = "UNKNOWN"
)

// Outcome is an advisory simulation result. It is never persisted.
type Outcome struct {
	Succeeded              bool            `json:"success"`
	EstimatedFee           *big.Int        `json:"gas_estimate"`
	EstimatedFeeDisplay    string          `json:"gas_estimate_formatted"`
	SuggestedMaxFee        *big.Int        `json:"suggested_max_fee"`
	SuggestedMaxFeeDisplay string          `json:"suggested_max_fee_formatted"`
	ExecutionStatus        ExecutionStatus `json:"execution_status"`
	RevertReason           string          `json:"revert_reason,omitzero"`
}

// AdapterResolver returns the chain adapter for a network.
type AdapterResolver interface {
	Adapter(id network.ID) (chain.Adapter, error)
}

// Service simulates transfers.
type Service struct {
	adapters AdapterResolver
	logger   *zap.Logger
}

// NewService creates a simulation Service.
func NewService(adapters AdapterResolver, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{adapters: adapters, logger: logger}
}

// Simulate dry-runs the intent's transfer from signer. Chain failures are
// reported in the Outcome; only unsupported networks and configuration
// problems return an error.
func (s *Service) Simulate(ctx context.Context, in *intent.Intent, signer chain.Signer) (*Outcome, error) {
	net := in.Network()
	if net.Family != network.FamilyCairo {
		return nil, apperrors.NotSupportedError(ErrUnsupportedOperation, "Simulation is only available on Starknet networks")
	}

	adapter, err := s.adapters.Adapter(net.ID)
	if err != nil {
		return nil, apperrors.GeneralError(err)
	}
	sim, ok := adapter.(chain.Simulator)
	if !ok {
		return nil, apperrors.NotSupportedError(ErrUnsupportedOperation, "Simulation is not available for this network")
	}

	raw, err := sim.SimulateTransfer(ctx, signer, in.Token(), in.Recipient(), in.AmountSmallestUnit())
	if err != nil {
		out := failedOutcome(ctx, err)
		s.logger.Warn("Transfer simulation failed",
			zap.String("network", string(net.ID)),
			zap.String("execution_status", string(out.ExecutionStatus)),
			zap.Error(err))
		metrics.SimulationsTotal.WithLabelValues(string(net.ID), string(out.ExecutionStatus)).Inc()
		return out, nil
	}

	out := normalize(raw)
	metrics.SimulationsTotal.WithLabelValues(string(net.ID), string(out.ExecutionStatus)).Inc()
	return out, nil
}

func normalize(raw *chain.RawSimulation) *Outcome {
	fee := raw.Fee
	if fee == nil {
		fee = new(big.Int)
	}
	maxFee := raw.SuggestedMaxFee
	if maxFee == nil || maxFee.Sign() == 0 {
		maxFee = new(big.Int).Mul(fee, big.NewInt(15))
		maxFee.Quo(maxFee, big.NewInt(10))
	}

	status := ExecutionStatus(raw.ExecutionStatus)
	switch status {
	case "":
		status = StatusSucceeded
	case StatusSucceeded, StatusReverted:
	default:
		status = StatusUnknown
	}

	out := &Outcome{
		Succeeded:              status == StatusSucceeded,
		EstimatedFee:           fee,
		EstimatedFeeDisplay:    chain.FormatUnits(fee, feeDecimals, displayPlaces),
		SuggestedMaxFee:        maxFee,
		SuggestedMaxFeeDisplay: chain.FormatUnits(maxFee, feeDecimals, displayPlaces),
		ExecutionStatus:        status,
	}
	if status != StatusSucceeded {
		out.RevertReason = raw.RevertReason
	}
	return out
}

func failedOutcome(ctx context.Context, err error) *Outcome {
	status := StatusReverted
	if ctx.Err() != nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		status = StatusUnknown
	}
	reason := err.Error()
	if reason == "" {
		reason = "Simulation failed"
	}
	zero := new(big.Int)
	return &Outcome{
		Succeeded:              false,
		EstimatedFee:           zero,
		EstimatedFeeDisplay:    chain.FormatUnits(zero, feeDecimals, displayPlaces),
		SuggestedMaxFee:        new(big.Int),
		SuggestedMaxFeeDisplay: chain.FormatUnits(zero, feeDecimals, displayPlaces),
		ExecutionStatus:        status,
		RevertReason:           reason,
	}
}

// Package chain defines the adapter contract every supported chain family
// implements, plus helpers shared by the adapters.
package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/token-wallet/pkg/network"
)

// ConfirmationStatus is the on-chain state of a dispatched transaction.
type ConfirmationStatus string

const (
	StatusPending   ConfirmationStatus = "pending"
	StatusConfirmed ConfirmationStatus = "confirmed"
	StatusReverted  ConfirmationStatus = "reverted"
	StatusUnknown   ConfirmationStatus = "unknown"
)

var (
	// ErrUnsupportedSigner is returned when an adapter cannot dispatch with the given signer.
	ErrUnsupportedSigner = errors.New("signer not supported by chain adapter")
	// ErrTransactionNotFound is returned when the chain has no record of a hash.
	ErrTransactionNotFound = errors.New("transaction not found on chain")
	// ErrBroadcastMismatch is returned when a wallet-broadcast transaction is
	// not the transfer it was submitted as.
	ErrBroadcastMismatch = errors.New("broadcast transaction does not match transfer")
)

// Signer is the signing context for a dispatch. Concrete adapters type-assert
// it to the capability they need.
type Signer interface {
	Address() string
}

// PreDispatched is a transfer the user's own wallet has already broadcast.
// Dispatching it checks that the chain knows the hash and that the broadcast
// transaction is a transfer of the same token, recipient and amount sent from
// From, then returns the hash.
type PreDispatched struct {
	From string
	Hash string
}

// Address returns the sending account.
func (p PreDispatched) Address() string { return p.From }

// Adapter is implemented once per chain family.
//
//go:generate mockery --name Adapter --output mocks --outpkg mocks --filename mock_adapter.go --with-expecter
type Adapter interface {
	Family() network.Family
	// GetBalance returns the token balance of address in the token's smallest unit.
	GetBalance(ctx context.Context, token network.Token, address string) (*big.Int, error)
	// DispatchTransfer submits a token transfer and returns its hash.
	DispatchTransfer(ctx context.Context, signer Signer, token network.Token, recipient string, amount *big.Int) (string, error)
	GetConfirmationStatus(ctx context.Context, hash string) (ConfirmationStatus, error)
}

// RawSimulation is an adapter's unnormalised simulation result. Fees are in
// the chain's native smallest fee unit.
type RawSimulation struct {
	Fee             *big.Int
	SuggestedMaxFee *big.Int
	ExecutionStatus string
	RevertReason    string
}

// Simulator is implemented by adapters that can dry-run a transfer.
//
//go:generate mockery --name Simulator --output mocks --outpkg mocks --filename mock_simulator.go --with-expecter
type Simulator interface {
	SimulateTransfer(ctx context.Context, signer Signer, token network.Token, recipient string, amount *big.Int) (*RawSimulation, error)
}

// Registry maps networks to their adapters.
type Registry struct {
	adapters map[network.ID]Adapter
}

// NewRegistry creates an empty adapter registry.
func NewRegistry() *Registry {
	return &Registry{adapters: make(map[network.ID]Adapter)}
}

// Register binds adapter to a network.
func (r *Registry) Register(id network.ID, adapter Adapter) {
	r.adapters[id] = adapter
}

// Adapter returns the adapter for a network.
func (r *Registry) Adapter(id network.ID) (Adapter, error) {
	a, ok := r.adapters[id]
	if !ok {
		return nil, fmt.Errorf("no chain adapter registered for %s", id)
	}
	return a, nil
}

// FormatDisplay renders a smallest-unit amount as a fixed 2 decimal string,
// truncating toward zero.
func FormatDisplay(amount *big.Int, decimals int32) string {
	return FormatUnits(amount, decimals, 2)
}

// FormatUnits renders a smallest-unit amount with places fractional digits,
// truncating toward zero.
func FormatUnits(amount *big.Int, decimals int32, places int32) string {
	if amount == nil {
		amount = new(big.Int)
	}
	return decimal.NewFromBigInt(amount, -decimals).Truncate(places).StringFixed(places)
}

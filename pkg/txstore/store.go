// Package txstore persists transaction history and portfolio snapshots.
package txstore

import (
	"context"
	"errors"
	"time"

	"github.com/chainsafe/token-wallet/pkg/transaction"
)

var (
	// ErrTransactionNotFound is returned when no transaction matches a lookup.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrDuplicateHash is returned when a transaction hash is recorded twice.
	ErrDuplicateHash = errors.New("transaction hash already recorded")
	// ErrInvalidTransition is returned when a status update is not allowed
	// or the record is no longer in the expected status.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrSnapshotNotFound is returned when no snapshot matches a lookup.
	ErrSnapshotNotFound = errors.New("portfolio snapshot not found")
)

// ListFilter selects transaction history for one wallet.
type ListFilter struct {
	WalletAddress string
	// Network restricts results to one network when non-empty.
	Network string
	// Cursor is the id of the last record of the previous page.
	Cursor *int64
	Limit  int
}

// TransactionStore persists transaction records.
type TransactionStore interface {
	CreateTransaction(ctx context.Context, rec *transaction.Record) error
	GetTransactionByHash(ctx context.Context, hash string) (*transaction.Record, error)
	GetTransactionByID(ctx context.Context, id int64) (*transaction.Record, error)
	ListTransactions(ctx context.Context, filter ListFilter) (*transaction.Page, error)
	RecentTransactions(ctx context.Context, walletAddress, network string, n int) ([]*transaction.Record, error)
	// ListPending pages through pending records by ascending id.
	ListPending(ctx context.Context, afterID int64, limit int) ([]*transaction.Record, error)
	UpdateStatus(ctx context.Context, id int64, from, to transaction.Status) error
}

// SnapshotStore persists portfolio snapshots.
type SnapshotStore interface {
	CreateSnapshot(ctx context.Context, snap *transaction.Snapshot) error
	LatestSnapshot(ctx context.Context, walletAddress, network string) (*transaction.Snapshot, error)
	SnapshotAtOrBefore(ctx context.Context, walletAddress, network string, at time.Time) (*transaction.Snapshot, error)
	SnapshotsSince(ctx context.Context, walletAddress, network string, since time.Time) ([]*transaction.Snapshot, error)
}

// Store is the full persistence surface.
type Store interface {
	TransactionStore
	SnapshotStore
}

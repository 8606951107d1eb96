package submission

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainsafe/token-wallet/pkg/network"
)

var (
	// ErrInsufficientBalance is returned when the sender's balance no longer
	// covers the transfer once the identity's dispatch slot is held.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrAlreadyRecorded is returned when the dispatched hash already has a
	// record.
	ErrAlreadyRecorded = errors.New("transaction already recorded")
)

// DispatchFailedError reports that the chain adapter rejected or failed to
// broadcast a transfer. No record is written when it is returned.
type DispatchFailedError struct {
	Network network.ID
	Cause   error
}

func (e *DispatchFailedError) Error() string {
	return fmt.Sprintf("dispatch on %s failed: %v", e.Network, e.Cause)
}

func (e *DispatchFailedError) Unwrap() error { return e.Cause }

// Timeout reports whether the dispatch ran out of time.
func (e *DispatchFailedError) Timeout() bool {
	if errors.Is(e.Cause, context.DeadlineExceeded) {
		return true
	}
	var t interface{ Timeout() bool }
	return errors.As(e.Cause, &t) && t.Timeout()
}

// RecordingFailedError reports that a transfer was dispatched but could not
// be stored. The hash identifies the on-chain transfer.
type RecordingFailedError struct {
	Hash  string
	Cause error
}

func (e *RecordingFailedError) Error() string {
	return fmt.Sprintf("transfer %s dispatched but not recorded: %v", e.Hash, e.Cause)
}

func (e *RecordingFailedError) Unwrap() error { return e.Cause }

// TransactionHash returns the hash of the dispatched transfer.
func (e *RecordingFailedError) TransactionHash() string { return e.Hash }

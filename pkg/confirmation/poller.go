// Package confirmation resolves pending transaction records against the chain.
package confirmation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/internal/metrics"
	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/network"
	"github.com/chainsafe/token-wallet/pkg/transaction"
	"github.com/chainsafe/token-wallet/pkg/txstore"
)

const runTimeout = 2 * time.Minute

// Store reads pending records and applies status transitions.
type Store interface {
	ListPending(ctx context.Context, afterID int64, limit int) ([]*transaction.Record, error)
	UpdateStatus(ctx context.Context, id int64, from, to transaction.Status) error
}

// AdapterResolver returns the chain adapter for a network.
type AdapterResolver interface {
	Adapter(id network.ID) (chain.Adapter, error)
}

// Summary counts the outcome of one run.
type Summary struct {
	Checked   int
	Completed int
	Failed    int
	Expired   int
	Unchanged int
	Errors    int
}

// Poller periodically moves pending records to completed or failed.
type Poller struct {
	store    Store
	adapters AdapterResolver
	logger   *zap.Logger

	batchSize     int
	maxPendingAge time.Duration
	now           func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New creates a Poller.
func New(store Store, adapters AdapterResolver, opts ...Option) *Poller {
	s := applyOptions(opts)
	return &Poller{
		store:         store,
		adapters:      adapters,
		logger:        s.logger,
		batchSize:     s.batchSize,
		maxPendingAge: s.maxPendingAge,
		now:           s.now,
		stopCh:        make(chan struct{}),
	}
}

// RunOnce checks every pending record, walking them in pages of the batch
// size by ascending id. Per-record failures are logged and counted in the
// Summary.
func (p *Poller) RunOnce(ctx context.Context) (*Summary, error) {
	start := time.Now()
	sum := &Summary{}

	var afterID int64
	for {
		pending, err := p.store.ListPending(ctx, afterID, p.batchSize)
		if err != nil {
			return sum, fmt.Errorf("failed to list pending transactions: %w", err)
		}
		for _, rec := range pending {
			if ctx.Err() != nil {
				return sum, ctx.Err()
			}
			sum.Checked++
			p.check(ctx, rec, sum)
			afterID = rec.ID
		}
		if len(pending) < p.batchSize {
			break
		}
	}
	metrics.PendingTransactions.Set(float64(sum.Checked - sum.Completed - sum.Failed))

	p.logger.Info("Confirmation run completed",
		zap.Int("checked", sum.Checked),
		zap.Int("completed", sum.Completed),
		zap.Int("failed", sum.Failed),
		zap.Int("expired", sum.Expired),
		zap.Int("errors", sum.Errors),
		zap.Duration("duration", time.Since(start)))
	return sum, nil
}

func (p *Poller) check(ctx context.Context, rec *transaction.Record, sum *Summary) {
	log := p.logger.With(
		zap.Int64("record_id", rec.ID),
		zap.String("network", rec.Network),
		zap.String("tx_hash", rec.Hash))

	adapter, err := p.adapters.Adapter(network.ID(rec.Network))
	if err != nil {
		sum.Errors++
		log.Warn("No adapter for pending transaction", zap.Error(err))
		return
	}

	status, err := adapter.GetConfirmationStatus(ctx, rec.Hash)
	switch {
	case errors.Is(err, chain.ErrTransactionNotFound):
		status = chain.StatusUnknown
	case err != nil:
		sum.Errors++
		metrics.ErrorsTotal.WithLabelValues("confirmation", "status").Inc()
		log.Warn("Failed to get confirmation status", zap.Error(err))
		return
	}

	var next transaction.Status
	switch status {
	case chain.StatusConfirmed:
		next = transaction.StatusCompleted
	case chain.StatusReverted:
		next = transaction.StatusFailed
	default:
		if !p.expired(rec) {
			sum.Unchanged++
			return
		}
		next = transaction.StatusFailed
		sum.Expired++
		log.Info("Pending transaction expired", zap.Time("created_at", rec.CreatedAt))
	}

	err = p.store.UpdateStatus(ctx, rec.ID, transaction.StatusPending, next)
	if errors.Is(err, txstore.ErrInvalidTransition) {
		// resolved concurrently
		sum.Unchanged++
		return
	}
	if err != nil {
		sum.Errors++
		metrics.ErrorsTotal.WithLabelValues("confirmation", "update").Inc()
		log.Error("Failed to update transaction status", zap.String("status", string(next)), zap.Error(err))
		return
	}

	metrics.ConfirmationsTotal.WithLabelValues(rec.Network, string(next)).Inc()
	if next == transaction.StatusCompleted {
		sum.Completed++
	} else {
		sum.Failed++
	}
	log.Debug("Transaction status updated", zap.String("status", string(next)))
}

func (p *Poller) expired(rec *transaction.Record) bool {
	return p.maxPendingAge > 0 && !rec.CreatedAt.IsZero() && p.now().Sub(rec.CreatedAt) > p.maxPendingAge
}

// Start runs RunOnce every interval until Stop is called.
func (p *Poller) Start(interval time.Duration) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		p.logger.Info("Started confirmation polling", zap.Duration("interval", interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
				if _, err := p.RunOnce(ctx); err != nil {
					p.logger.Error("Confirmation run failed", zap.Error(err))
				}
				cancel()
			case <-p.stopCh:
				p.logger.Info("Stopping confirmation polling")
				return
			}
		}
	}()
}

// Stop stops polling and waits for an in-flight run. It is safe to call twice.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
}

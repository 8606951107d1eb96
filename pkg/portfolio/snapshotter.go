package portfolio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/internal/metrics"
	"github.com/chainsafe/token-wallet/pkg/network"
	"github.com/chainsafe/token-wallet/pkg/transaction"
	"github.com/chainsafe/token-wallet/pkg/user"
)

const captureTimeout = 2 * time.Minute

// UserLister lists registered users.
type UserLister interface {
	ListUsers(ctx context.Context) ([]*user.User, error)
}

// SnapshotWriter stores portfolio snapshots.
type SnapshotWriter interface {
	CreateSnapshot(ctx context.Context, snap *transaction.Snapshot) error
}

// HoldingsReader reads a wallet's holdings on a network.
type HoldingsReader interface {
	Holdings(ctx context.Context, net *network.Network, wallet string) *Holdings
}

// Snapshotter periodically records the value of every user's wallets.
type Snapshotter struct {
	users     UserLister
	snapshots SnapshotWriter
	holdings  HoldingsReader
	networks  []*network.Network
	logger    *zap.Logger

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewSnapshotter creates a Snapshotter over the given networks.
func NewSnapshotter(users UserLister, snapshots SnapshotWriter, holdings HoldingsReader, networks []*network.Network, logger *zap.Logger) *Snapshotter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Snapshotter{
		users:     users,
		snapshots: snapshots,
		holdings:  holdings,
		networks:  networks,
		logger:    logger,
		stopCh:    make(chan struct{}),
	}
}

// CaptureAll writes one snapshot per user per network on which the user has
// an address. Individual capture failures are logged and counted; only a
// failure to list users is returned.
func (s *Snapshotter) CaptureAll(ctx context.Context) error {
	start := time.Now()
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	var captured, failed int
	for _, u := range users {
		for _, net := range s.networks {
			wallet := u.AddressFor(net.Family)
			if wallet == "" {
				continue
			}
			if err := s.capture(ctx, net, wallet); err != nil {
				failed++
				metrics.SnapshotsTotal.WithLabelValues(string(net.ID), "error").Inc()
				s.logger.Warn("Failed to capture portfolio snapshot",
					zap.Int64("user_id", u.ID),
					zap.String("network", string(net.ID)),
					zap.Error(err))
				continue
			}
			captured++
			metrics.SnapshotsTotal.WithLabelValues(string(net.ID), "success").Inc()
		}
	}

	s.logger.Info("Portfolio snapshot run completed",
		zap.Int("users", len(users)),
		zap.Int("captured", captured),
		zap.Int("failed", failed),
		zap.Duration("duration", time.Since(start)))
	return nil
}

func (s *Snapshotter) capture(ctx context.Context, net *network.Network, wallet string) error {
	h := s.holdings.Holdings(ctx, net, wallet)
	return s.snapshots.CreateSnapshot(ctx, &transaction.Snapshot{
		WalletAddress: network.NormalizeAddress(wallet),
		Network:       string(net.ID),
		TotalUSDValue: h.Total,
		TokenBalances: h.Balances,
	})
}

// Start runs CaptureAll every interval until Stop is called.
func (s *Snapshotter) Start(interval time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		s.logger.Info("Started portfolio snapshots", zap.Duration("interval", interval))

		for {
			select {
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), captureTimeout)
				if err := s.CaptureAll(ctx); err != nil {
					s.logger.Error("Portfolio snapshot run failed", zap.Error(err))
				}
				cancel()
			case <-s.stopCh:
				s.logger.Info("Stopping portfolio snapshots")
				return
			}
		}
	}()
}

// Stop stops the periodic capture and waits for an in-flight run.
func (s *Snapshotter) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}

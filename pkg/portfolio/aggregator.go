package portfolio

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/token-wallet/pkg/network"
	"github.com/chainsafe/token-wallet/pkg/transaction"
	"github.com/chainsafe/token-wallet/pkg/txstore"
)

const (
	day          = 24 * time.Hour
	historyRange = 30 * day
	changePlaces = 2
)

var hundred = decimal.NewFromInt(100)

// SnapshotReader reads stored portfolio snapshots.
type SnapshotReader interface {
	LatestSnapshot(ctx context.Context, walletAddress, network string) (*transaction.Snapshot, error)
	SnapshotAtOrBefore(ctx context.Context, walletAddress, network string, at time.Time) (*transaction.Snapshot, error)
	SnapshotsSince(ctx context.Context, walletAddress, network string, since time.Time) ([]*transaction.Snapshot, error)
}

// Point is one value on the performance chart.
type Point struct {
	Timestamp time.Time       `json:"timestamp"`
	Value     decimal.Decimal `json:"value"`
}

// Performance summarizes how a wallet's value changed over time.
type Performance struct {
	CurrentValue        decimal.Decimal   `json:"current_value"`
	PreviousValue24h    decimal.Decimal   `json:"previous_value_24h"`
	Change24h           decimal.Decimal   `json:"change_24h"`
	Change7d            decimal.Decimal   `json:"change_7d"`
	Change30d           decimal.Decimal   `json:"change_30d"`
	TokenBalances       map[string]string `json:"token_balances"`
	HistoricalSnapshots []Point           `json:"historical_snapshots"`
}

// Aggregator computes Performance from snapshots.
type Aggregator struct {
	snapshots SnapshotReader
	now       func() time.Time
}

// NewAggregator creates an Aggregator. A nil now uses time.Now.
func NewAggregator(snapshots SnapshotReader, now func() time.Time) *Aggregator {
	if now == nil {
		now = time.Now
	}
	return &Aggregator{snapshots: snapshots, now: now}
}

// Performance returns the wallet's current value, its percentage change over
// 24 hours, 7 days and 30 days, and the last 30 days of snapshots.
func (a *Aggregator) Performance(ctx context.Context, wallet string, id network.ID) (*Performance, error) {
	wallet = network.NormalizeAddress(wallet)
	net := string(id)
	now := a.now()

	out := &Performance{
		CurrentValue:        decimal.Zero,
		TokenBalances:       map[string]string{},
		HistoricalSnapshots: []Point{},
	}

	latest, err := a.find(a.snapshots.LatestSnapshot(ctx, wallet, net))
	if err != nil {
		return nil, fmt.Errorf("failed to load latest snapshot: %w", err)
	}
	if latest != nil {
		out.CurrentValue = latest.TotalUSDValue
		for k, v := range latest.TokenBalances {
			out.TokenBalances[k] = v
		}
	}
	out.PreviousValue24h = out.CurrentValue

	for _, p := range []struct {
		offset time.Duration
		change *decimal.Decimal
	}{
		{day, &out.Change24h},
		{7 * day, &out.Change7d},
		{historyRange, &out.Change30d},
	} {
		prev, err := a.find(a.snapshots.SnapshotAtOrBefore(ctx, wallet, net, now.Add(-p.offset)))
		if err != nil {
			return nil, fmt.Errorf("failed to load snapshot %s back: %w", p.offset, err)
		}
		if prev == nil {
			*p.change = decimal.Zero
			continue
		}
		if p.offset == day {
			out.PreviousValue24h = prev.TotalUSDValue
		}
		*p.change = PercentChange(out.CurrentValue, prev.TotalUSDValue)
	}

	history, err := a.snapshots.SnapshotsSince(ctx, wallet, net, now.Add(-historyRange))
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot history: %w", err)
	}
	for _, s := range history {
		out.HistoricalSnapshots = append(out.HistoricalSnapshots, Point{Timestamp: s.CreatedAt, Value: s.TotalUSDValue})
	}
	return out, nil
}

// find treats a missing snapshot as a nil result.
func (a *Aggregator) find(s *transaction.Snapshot, err error) (*transaction.Snapshot, error) {
	if errors.Is(err, txstore.ErrSnapshotNotFound) {
		return nil, nil
	}
	return s, err
}

// PercentChange returns (cur-prev)/prev*100 rounded to 2 places, or zero
// when prev is zero.
func PercentChange(cur, prev decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		return decimal.Zero
	}
	return cur.Sub(prev).Div(prev).Mul(hundred).Round(changePlaces)
}

package txstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/token-wallet/pkg/pgutil"
	mghelper "github.com/chainsafe/token-wallet/pkg/pgutil/migrations"
	"github.com/chainsafe/token-wallet/pkg/transaction"
)

const wallet = "0xabc0000000000000000000000000000000000001"

func setupStore(t *testing.T) (context.Context, *pgStore) {
	t.Helper()

	ctx := context.Background()
	db, cleanup := pgutil.SetupTestDB(t)
	t.Cleanup(cleanup)

	if err := mghelper.CreateSchema(ctx, db, &TransactionDao{}, &SnapshotDao{}); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
	return ctx, NewStore(db)
}

func newSend(hash, amount string) *transaction.Record {
	usd := decimal.RequireFromString(amount)
	fee := "0.35"
	to := "0xdef0000000000000000000000000000000000002"
	return &transaction.Record{
		Hash:          hash,
		Network:       "scroll",
		WalletAddress: "0xABC0000000000000000000000000000000000001",
		Type:          transaction.TypeSend,
		Status:        transaction.StatusPending,
		FromToken:     "USDT",
		Amount:        amount,
		Recipient:     &to,
		GasFee:        &fee,
		TotalUSDValue: &usd,
	}
}

func TestPGStore_CreateAndGet(t *testing.T) {
	ctx, store := setupStore(t)

	rec := newSend("0xaa01", "100.00")
	if err := store.CreateTransaction(ctx, rec); err != nil {
		t.Fatalf("CreateTransaction() failed: %v", err)
	}
	if rec.ID == 0 || rec.WalletAddress != wallet {
		t.Fatalf("unexpected stored record %+v", rec)
	}

	got, err := store.GetTransactionByHash(ctx, "0xAA01")
	if err != nil {
		t.Fatalf("GetTransactionByHash() failed: %v", err)
	}
	if got.ID != rec.ID || got.Amount != "100.00" || got.Status != transaction.StatusPending {
		t.Fatalf("unexpected record %+v", got)
	}
	if got.TotalUSDValue == nil || !got.TotalUSDValue.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected total usd value %v", got.TotalUSDValue)
	}
	if got.ToToken != nil || got.PriceImpact != nil {
		t.Fatal("expected nullable fields to stay nil")
	}

	if _, err := store.GetTransactionByHash(ctx, "0xmissing"); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	if err := store.CreateTransaction(ctx, newSend("0xaa01", "1")); !errors.Is(err, ErrDuplicateHash) {
		t.Fatalf("expected ErrDuplicateHash, got %v", err)
	}
}

func TestPGStore_HashStoredLowerCase(t *testing.T) {
	ctx, store := setupStore(t)

	rec := newSend("0xCC01", "1")
	if err := store.CreateTransaction(ctx, rec); err != nil {
		t.Fatalf("CreateTransaction() failed: %v", err)
	}
	if rec.Hash != "0xcc01" {
		t.Fatalf("expected lower-cased hash, got %s", rec.Hash)
	}
	if err := store.CreateTransaction(ctx, newSend("0xcc01", "1")); !errors.Is(err, ErrDuplicateHash) {
		t.Fatalf("expected ErrDuplicateHash for differently cased hash, got %v", err)
	}
}

func TestPGStore_ListPendingAfterID(t *testing.T) {
	ctx, store := setupStore(t)

	var ids []int64
	for _, h := range []string{"0xdd01", "0xdd02", "0xdd03"} {
		rec := newSend(h, "1")
		if err := store.CreateTransaction(ctx, rec); err != nil {
			t.Fatalf("CreateTransaction() failed: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	first, err := store.ListPending(ctx, 0, 2)
	if err != nil {
		t.Fatalf("ListPending() failed: %v", err)
	}
	if len(first) != 2 || first[0].ID != ids[0] || first[1].ID != ids[1] {
		t.Fatalf("unexpected first page %+v", first)
	}

	rest, err := store.ListPending(ctx, first[1].ID, 2)
	if err != nil {
		t.Fatalf("ListPending() failed: %v", err)
	}
	if len(rest) != 1 || rest[0].ID != ids[2] {
		t.Fatalf("unexpected second page %+v", rest)
	}
}

func TestPGStore_ListTransactionsPaging(t *testing.T) {
	ctx, store := setupStore(t)

	var ids []int64
	for _, h := range []string{"0x01", "0x02", "0x03", "0x04", "0x05"} {
		rec := newSend(h, "1")
		if err := store.CreateTransaction(ctx, rec); err != nil {
			t.Fatalf("CreateTransaction() failed: %v", err)
		}
		ids = append(ids, rec.ID)
	}
	other := newSend("0x06", "1")
	other.Network = "starknet"
	if err := store.CreateTransaction(ctx, other); err != nil {
		t.Fatalf("CreateTransaction() failed: %v", err)
	}

	page, err := store.ListTransactions(ctx, ListFilter{WalletAddress: wallet, Network: "scroll", Limit: 2})
	if err != nil {
		t.Fatalf("ListTransactions() failed: %v", err)
	}
	if len(page.Transactions) != 2 || page.Transactions[0].ID != ids[4] || page.Transactions[1].ID != ids[3] {
		t.Fatalf("unexpected first page %+v", page.Transactions)
	}
	if page.NextCursor == nil || *page.NextCursor != ids[3] {
		t.Fatalf("unexpected cursor %v", page.NextCursor)
	}

	page, err = store.ListTransactions(ctx, ListFilter{WalletAddress: wallet, Network: "scroll", Cursor: page.NextCursor, Limit: 3})
	if err != nil {
		t.Fatalf("ListTransactions() failed: %v", err)
	}
	if len(page.Transactions) != 3 || page.Transactions[0].ID != ids[2] {
		t.Fatalf("unexpected last page %+v", page.Transactions)
	}
	if page.NextCursor != nil {
		t.Fatalf("expected no further page, got cursor %d", *page.NextCursor)
	}

	all, err := store.ListTransactions(ctx, ListFilter{WalletAddress: wallet, Limit: 100})
	if err != nil {
		t.Fatalf("ListTransactions() failed: %v", err)
	}
	if len(all.Transactions) != 6 {
		t.Fatalf("expected 6 transactions across networks, got %d", len(all.Transactions))
	}

	recent, err := store.RecentTransactions(ctx, wallet, "scroll", 10)
	if err != nil {
		t.Fatalf("RecentTransactions() failed: %v", err)
	}
	if len(recent) != 5 {
		t.Fatalf("expected 5 recent transactions, got %d", len(recent))
	}
}

func TestPGStore_UpdateStatus(t *testing.T) {
	ctx, store := setupStore(t)

	rec := newSend("0xbb01", "5")
	if err := store.CreateTransaction(ctx, rec); err != nil {
		t.Fatalf("CreateTransaction() failed: %v", err)
	}

	pending, err := store.ListPending(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListPending() failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("expected 1 pending record, got %d", len(pending))
	}

	if err := store.UpdateStatus(ctx, rec.ID, transaction.StatusPending, transaction.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}
	err = store.UpdateStatus(ctx, rec.ID, transaction.StatusPending, transaction.StatusFailed)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for stale status, got %v", err)
	}
	err = store.UpdateStatus(ctx, rec.ID, transaction.StatusCompleted, transaction.StatusPending)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for disallowed move, got %v", err)
	}
	if err := store.UpdateStatus(ctx, rec.ID+99, transaction.StatusPending, transaction.StatusFailed); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}

	pending, err = store.ListPending(ctx, 0, 10)
	if err != nil {
		t.Fatalf("ListPending() failed: %v", err)
	}
	if len(pending) != 0 {
		t.Fatalf("expected no pending records, got %d", len(pending))
	}
}

func TestPGStore_Snapshots(t *testing.T) {
	ctx, store := setupStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	for _, s := range []struct {
		ago   time.Duration
		value int64
	}{
		{40 * 24 * time.Hour, 500},
		{8 * 24 * time.Hour, 800},
		{2 * 24 * time.Hour, 900},
		{time.Hour, 1000},
	} {
		snap := &transaction.Snapshot{
			WalletAddress: wallet,
			Network:       "scroll",
			TotalUSDValue: decimal.NewFromInt(s.value),
			TokenBalances: map[string]string{"USDT": decimal.NewFromInt(s.value).StringFixed(2)},
			CreatedAt:     now.Add(-s.ago),
		}
		if err := store.CreateSnapshot(ctx, snap); err != nil {
			t.Fatalf("CreateSnapshot() failed: %v", err)
		}
	}

	latest, err := store.LatestSnapshot(ctx, wallet, "scroll")
	if err != nil {
		t.Fatalf("LatestSnapshot() failed: %v", err)
	}
	if !latest.TotalUSDValue.Equal(decimal.NewFromInt(1000)) || latest.TokenBalances["USDT"] != "1000.00" {
		t.Fatalf("unexpected latest snapshot %+v", latest)
	}

	weekAgo, err := store.SnapshotAtOrBefore(ctx, wallet, "scroll", now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatalf("SnapshotAtOrBefore() failed: %v", err)
	}
	if !weekAgo.TotalUSDValue.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("expected 800, got %s", weekAgo.TotalUSDValue)
	}

	if _, err := store.SnapshotAtOrBefore(ctx, wallet, "scroll", now.Add(-60*24*time.Hour)); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}

	history, err := store.SnapshotsSince(ctx, wallet, "scroll", now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("SnapshotsSince() failed: %v", err)
	}
	if len(history) != 3 || !history[0].TotalUSDValue.Equal(decimal.NewFromInt(800)) {
		t.Fatalf("unexpected history %+v", history)
	}

	if _, err := store.LatestSnapshot(ctx, wallet, "starknet"); !errors.Is(err, ErrSnapshotNotFound) {
		t.Fatalf("expected ErrSnapshotNotFound, got %v", err)
	}
}

package submission

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	apperrors "github.com/chainsafe/token-wallet/pkg/app/errors"
	"github.com/chainsafe/token-wallet/pkg/auth"
	"github.com/chainsafe/token-wallet/pkg/authz"
	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/chain/mocks"
	"github.com/chainsafe/token-wallet/pkg/intent"
	"github.com/chainsafe/token-wallet/pkg/network"
	"github.com/chainsafe/token-wallet/pkg/transaction"
	"github.com/chainsafe/token-wallet/pkg/txstore"
	"github.com/chainsafe/token-wallet/pkg/user"
	"github.com/chainsafe/token-wallet/pkg/userstore"
)

const (
	sender    = "0xAbC0000000000000000000000000000000000001"
	recipient = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"
	txHash    = "0x9f2b6a4c1e0d3b5a7c9e1f2a4b6c8d0e1f3a5b7c9d1e3f5a7b9c1d3e5f7a9b1c"
)

type fakeUsers struct{ users map[int64]*user.User }

func (f *fakeUsers) GetUser(_ context.Context, opts ...userstore.QueryOption) (*user.User, error) {
	q := &userstore.QueryOptions{}
	for _, opt := range opts {
		opt(q)
	}
	if q.ID != nil {
		if u, ok := f.users[*q.ID]; ok {
			return u, nil
		}
	}
	return nil, userstore.ErrUserNotFound
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []*transaction.Record
	err     error
	nextID  int64
}

func (f *fakeRecorder) CreateTransaction(_ context.Context, rec *transaction.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.nextID++
	rec.ID = f.nextID
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRecorder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type harness struct {
	gate     *authz.Gate
	token    string
	builder  *intent.Builder
	adapter  *mocks.Adapter
	recorder *fakeRecorder
	orch     *Orchestrator
}

func newHarness(t *testing.T, opts ...Option) *harness {
	t.Helper()

	sessions, err := auth.NewSessionManager("submission-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionManager: %v", err)
	}
	hash, err := auth.HashPIN("1234")
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	users := &fakeUsers{users: map[int64]*user.User{1: {ID: 1, Email: "a@example.com", PINHash: hash}}}
	token, _ := sessions.Issue(auth.Identity{UserID: 1, Email: "a@example.com"})

	reg, err := network.Default()
	if err != nil {
		t.Fatalf("registry: %v", err)
	}

	adapter := mocks.NewAdapter(t)
	adapters := chain.NewRegistry()
	adapters.Register(network.Scroll, adapter)

	gate := authz.NewGate(sessions, users, authz.WithAttemptLimit(600, 100))
	recorder := &fakeRecorder{}
	opts = append([]Option{WithGasFeeDisplay("0.35")}, opts...)
	return &harness{
		gate:     gate,
		token:    token,
		builder:  intent.NewBuilder(reg),
		adapter:  adapter,
		recorder: recorder,
		orch:     NewOrchestrator(gate, adapters, recorder, opts...),
	}
}

func (h *harness) authorized(t *testing.T, amount string) *Request {
	t.Helper()
	in, err := h.builder.Build(intent.Fields{Network: "scroll", Token: "USDT", Recipient: recipient, Amount: amount})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ticket, err := h.gate.Authorize(context.Background(), in, h.token, "1234")
	if err != nil {
		t.Fatalf("Authorize: %v", err)
	}
	return &Request{Intent: in, Ticket: ticket, Signer: chain.PreDispatched{From: sender}, WalletAddress: sender}
}

// custodialSigner stands in for a server-held key.
type custodialSigner struct{ addr string }

func (c custodialSigner) Address() string { return c.addr }

func TestSubmit_RecordsPendingSend(t *testing.T) {
	h := newHarness(t)
	req := h.authorized(t, "100.00")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, req.Signer, req.Intent.Token(), recipient, big.NewInt(100_000_000)).
		Return(txHash, nil).Once()

	res, err := h.orch.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.TransactionHash != txHash || res.Status != transaction.StatusPending || res.RecordID != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.ExplorerURL != "https://scrollscan.com/tx/"+txHash {
		t.Fatalf("unexpected explorer url %q", res.ExplorerURL)
	}

	rec := h.recorder.records[0]
	if rec.Type != transaction.TypeSend || rec.FromToken != "USDT" || rec.Amount != "100.00" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if rec.WalletAddress != "0xabc0000000000000000000000000000000000001" {
		t.Fatalf("expected lower-cased wallet, got %s", rec.WalletAddress)
	}
	if rec.GasFee == nil || *rec.GasFee != "0.35" {
		t.Fatalf("unexpected gas fee %v", rec.GasFee)
	}
	if rec.TotalUSDValue == nil || rec.TotalUSDValue.String() != "100" {
		t.Fatalf("unexpected total usd value %v", rec.TotalUSDValue)
	}
}

func TestSubmit_RecordsTruncatedAmount(t *testing.T) {
	h := newHarness(t)
	req := h.authorized(t, "1.1234567")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, req.Signer, req.Intent.Token(), recipient, big.NewInt(1_123_456)).
		Return(txHash, nil).Once()

	if _, err := h.orch.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	rec := h.recorder.records[0]
	if rec.Amount != "1.123456" {
		t.Fatalf("expected recorded amount 1.123456, got %s", rec.Amount)
	}
	if rec.TotalUSDValue == nil || rec.TotalUSDValue.String() != "1.123456" {
		t.Fatalf("unexpected total usd value %v", rec.TotalUSDValue)
	}
}

func TestSubmit_LowerCasesRecordedHash(t *testing.T) {
	h := newHarness(t)
	req := h.authorized(t, "5")
	upper := "0x9F2B6A4C1E0D3B5A7C9E1F2A4B6C8D0E1F3A5B7C9D1E3F5A7B9C1D3E5F7A9B1C"

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(upper, nil).Once()

	if _, err := h.orch.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if got := h.recorder.records[0].Hash; got != txHash {
		t.Fatalf("expected lower-cased hash %s, got %s", txHash, got)
	}
}

func TestSubmit_AlreadyRecordedIsConflict(t *testing.T) {
	h := newHarness(t)
	h.recorder.err = txstore.ErrDuplicateHash
	req := h.authorized(t, "5")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(txHash, nil).Once()

	_, err := h.orch.Submit(context.Background(), req)
	if !apperrors.Is(err, apperrors.CategoryDataConflict) {
		t.Fatalf("expected CategoryDataConflict, got %v", err)
	}
	if !errors.Is(err, ErrAlreadyRecorded) || !errors.Is(err, txstore.ErrDuplicateHash) {
		t.Fatalf("expected already recorded error, got %v", err)
	}
	if _, ok := RecordingFailureHash(err); ok {
		t.Fatal("a duplicate hash is not a recording failure")
	}
	var svcErr *apperrors.ServiceError
	if !errors.As(err, &svcErr) || svcErr.StatusCode() != 409 || svcErr.Details["transaction_hash"] != txHash {
		t.Fatalf("unexpected service error %+v", svcErr)
	}
}

func TestSubmit_CustodialBalanceRecheckedUnderLock(t *testing.T) {
	h := newHarness(t)
	signer := custodialSigner{addr: sender}
	first := h.authorized(t, "3")
	first.Signer = signer
	second := h.authorized(t, "3")
	second.Signer = signer

	// Both submissions passed an earlier balance check; only one fits.
	var mu sync.Mutex
	balance := big.NewInt(5_000_000)
	h.adapter.EXPECT().
		GetBalance(mock.Anything, first.Intent.Token(), sender).
		RunAndReturn(func(context.Context, network.Token, string) (*big.Int, error) {
			mu.Lock()
			defer mu.Unlock()
			return new(big.Int).Set(balance), nil
		}).Times(2)
	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, signer, mock.Anything, recipient, big.NewInt(3_000_000)).
		RunAndReturn(func(context.Context, chain.Signer, network.Token, string, *big.Int) (string, error) {
			mu.Lock()
			defer mu.Unlock()
			balance.Sub(balance, big.NewInt(3_000_000))
			return txHash, nil
		}).Once()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, r := range []*Request{first, second} {
		wg.Add(1)
		go func(r *Request) {
			defer wg.Done()
			_, err := h.orch.Submit(context.Background(), r)
			errs <- err
		}(r)
	}
	wg.Wait()
	close(errs)

	var rejected int
	for err := range errs {
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrInsufficientBalance) || !apperrors.Is(err, apperrors.CategoryDataError) {
			t.Fatalf("expected insufficient balance, got %v", err)
		}
		rejected++
	}
	if rejected != 1 || h.recorder.count() != 1 {
		t.Fatalf("expected one transfer and one rejection, got %d rejected and %d records", rejected, h.recorder.count())
	}
}

func TestSubmit_ReplayedTicketDispatchesOnce(t *testing.T) {
	h := newHarness(t)
	req := h.authorized(t, "5")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(txHash, nil).Once()

	if _, err := h.orch.Submit(context.Background(), req); err != nil {
		t.Fatalf("first Submit: %v", err)
	}
	_, err := h.orch.Submit(context.Background(), req)
	if !errors.Is(err, authz.ErrTicketConsumed) {
		t.Fatalf("expected ErrTicketConsumed, got %v", err)
	}
	if h.recorder.count() != 1 {
		t.Fatalf("expected one record, got %d", h.recorder.count())
	}
}

func TestSubmit_IdenticalIntentsAreSeparateTransfers(t *testing.T) {
	h := newHarness(t)
	first := h.authorized(t, "5")
	second := h.authorized(t, "5")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("0x01", nil).Once()
	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("0x02", nil).Once()

	a, err := h.orch.Submit(context.Background(), first)
	if err != nil {
		t.Fatalf("Submit first: %v", err)
	}
	b, err := h.orch.Submit(context.Background(), second)
	if err != nil {
		t.Fatalf("Submit second: %v", err)
	}
	if a.RecordID == b.RecordID {
		t.Fatal("expected distinct record ids")
	}
}

func TestSubmit_DispatchFailureWritesNothing(t *testing.T) {
	h := newHarness(t)
	req := h.authorized(t, "5")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("insufficient funds for gas")).Once()

	_, err := h.orch.Submit(context.Background(), req)
	var dfe *DispatchFailedError
	if !errors.As(err, &dfe) {
		t.Fatalf("expected DispatchFailedError, got %v", err)
	}
	if dfe.Timeout() || dfe.Network != network.Scroll {
		t.Fatalf("unexpected dispatch error %+v", dfe)
	}
	if !apperrors.Is(err, apperrors.CategoryDependencyFailure) {
		t.Fatalf("expected CategoryDependencyFailure, got %v", err)
	}
	if h.recorder.count() != 0 {
		t.Fatal("expected no record after failed dispatch")
	}

	// The ticket stays consumed after a failed dispatch.
	if _, err := h.orch.Submit(context.Background(), req); !errors.Is(err, authz.ErrTicketConsumed) {
		t.Fatalf("expected ErrTicketConsumed, got %v", err)
	}
}

func TestSubmit_BroadcastMismatchIsBadRequest(t *testing.T) {
	h := newHarness(t)
	req := h.authorized(t, "5")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", fmt.Errorf("%w: amount 1", chain.ErrBroadcastMismatch)).Once()

	_, err := h.orch.Submit(context.Background(), req)
	if !errors.Is(err, chain.ErrBroadcastMismatch) || !apperrors.Is(err, apperrors.CategoryDataError) {
		t.Fatalf("expected bad request for mismatched broadcast, got %v", err)
	}
	if h.recorder.count() != 0 {
		t.Fatal("expected no record for a mismatched broadcast")
	}
}

func TestSubmit_DispatchTimeout(t *testing.T) {
	h := newHarness(t, WithDispatchTimeout(20*time.Millisecond))
	req := h.authorized(t, "5")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ chain.Signer, _ network.Token, _ string, _ *big.Int) (string, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}).Once()

	_, err := h.orch.Submit(context.Background(), req)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if !apperrors.Is(err, apperrors.CategoryConnectionTimeout) {
		t.Fatalf("expected CategoryConnectionTimeout, got %v", err)
	}
}

func TestSubmit_CallerCancellationDoesNotAbortDispatch(t *testing.T) {
	h := newHarness(t)
	req := h.authorized(t, "5")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ chain.Signer, _ network.Token, _ string, _ *big.Int) (string, error) {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return txHash, nil
		}).Once()

	if _, err := h.orch.Submit(ctx, req); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if h.recorder.count() != 1 {
		t.Fatal("expected record despite caller cancellation")
	}
}

func TestSubmit_RecordingFailureCarriesHash(t *testing.T) {
	h := newHarness(t)
	h.recorder.err = errors.New("connection reset")
	req := h.authorized(t, "5")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(txHash, nil).Once()

	_, err := h.orch.Submit(context.Background(), req)
	var rfe *RecordingFailedError
	if !errors.As(err, &rfe) {
		t.Fatalf("expected RecordingFailedError, got %v", err)
	}
	if rfe.TransactionHash() != txHash {
		t.Fatalf("expected hash %s, got %s", txHash, rfe.TransactionHash())
	}
	var svcErr *apperrors.ServiceError
	if !errors.As(err, &svcErr) || svcErr.Details["transaction_hash"] != txHash {
		t.Fatalf("expected transaction_hash detail, got %v", err)
	}
	if hash, ok := RecordingFailureHash(err); !ok || hash != txHash {
		t.Fatalf("RecordingFailureHash = %q, %v", hash, ok)
	}
}

func TestSubmit_NoHashRecordsCompleted(t *testing.T) {
	h := newHarness(t)
	req := h.authorized(t, "5")

	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", nil).Once()

	res, err := h.orch.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Status != transaction.StatusCompleted || res.TransactionHash != "" || res.ExplorerURL != "" {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestSubmit_SerializesPerIdentity(t *testing.T) {
	h := newHarness(t)
	reqs := []*Request{h.authorized(t, "1"), h.authorized(t, "2"), h.authorized(t, "3")}

	var inFlight, maxInFlight int32
	var n int32
	h.adapter.EXPECT().
		DispatchTransfer(mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, chain.Signer, network.Token, string, *big.Int) (string, error) {
			cur := atomic.AddInt32(&inFlight, 1)
			for {
				prev := atomic.LoadInt32(&maxInFlight)
				if cur <= prev || atomic.CompareAndSwapInt32(&maxInFlight, prev, cur) {
					break
				}
			}
			time.Sleep(20 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
			id := atomic.AddInt32(&n, 1)
			return "0x0" + string(rune('0'+id)), nil
		}).Times(len(reqs))

	var wg sync.WaitGroup
	for _, req := range reqs {
		wg.Add(1)
		go func(r *Request) {
			defer wg.Done()
			if _, err := h.orch.Submit(context.Background(), r); err != nil {
				t.Errorf("Submit: %v", err)
			}
		}(req)
	}
	wg.Wait()

	if maxInFlight != 1 {
		t.Fatalf("expected dispatches for one identity to be serialized, saw %d concurrent", maxInFlight)
	}
	if h.recorder.count() != len(reqs) {
		t.Fatalf("expected %d records, got %d", len(reqs), h.recorder.count())
	}
}

func TestKeyedMutex_ReleasesEntries(t *testing.T) {
	k := newKeyedMutex()
	unlock := k.Lock(7)
	unlock()
	if len(k.locks) != 0 {
		t.Fatalf("expected no retained locks, got %d", len(k.locks))
	}
}

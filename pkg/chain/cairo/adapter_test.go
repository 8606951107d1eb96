package cairo

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/network"
)

const (
	account   = "0x04a3f1b2c0ffee"
	recipient = "0x0123abc"
)

var usdt = network.Token{Symbol: "USDT", Decimals: 6, Address: "0x068f5c6a61780768455de69077e07e89787839bf8166decfbf92b645209c0fb8"}

type rpcError struct {
	code int
	msg  string
}

func (e rpcError) Error() string  { return e.msg }
func (e rpcError) ErrorCode() int { return e.code }

// fakeStarknet is served in-process under the "starknet" namespace.
type fakeStarknet struct {
	balance     *big.Int
	lastCall    FunctionCall
	simulated   []InvokeTxn
	flags       []string
	overallFee  string
	revert      string
	simulateErr error
	receipts    map[string]*Receipt
	txns        map[string]*Transaction
}

func (f *fakeStarknet) Call(req FunctionCall, blockID string) ([]string, error) {
	f.lastCall = req
	low, high := SplitUint256(f.balance)
	return []string{Felt(low), Felt(high)}, nil
}

func (f *fakeStarknet) GetNonce(blockID, address string) (string, error) {
	return "0x5", nil
}

func (f *fakeStarknet) SimulateTransactions(blockID string, txns []InvokeTxn, flags []string) ([]SimulatedTransaction, error) {
	if f.simulateErr != nil {
		return nil, f.simulateErr
	}
	f.simulated = txns
	f.flags = flags
	res := SimulatedTransaction{
		TransactionTrace: TransactionTrace{Type: "INVOKE", ExecuteInvocation: &ExecuteInvocation{RevertReason: f.revert}},
		FeeEstimation:    FeeEstimate{OverallFee: f.overallFee, Unit: "WEI"},
	}
	return []SimulatedTransaction{res}, nil
}

func (f *fakeStarknet) GetTransactionReceipt(hash string) (*Receipt, error) {
	r, ok := f.receipts[hash]
	if !ok {
		return nil, rpcError{code: 29, msg: "Transaction hash not found"}
	}
	return r, nil
}

func (f *fakeStarknet) GetTransactionByHash(hash string) (*Transaction, error) {
	t, ok := f.txns[hash]
	if !ok {
		return nil, rpcError{code: 29, msg: "Transaction hash not found"}
	}
	return t, nil
}

func newTestAdapter(t *testing.T, fake *fakeStarknet) *Adapter {
	t.Helper()
	server := rpc.NewServer()
	if err := server.RegisterName("starknet", fake); err != nil {
		t.Fatalf("register: %v", err)
	}
	client := rpc.DialInProc(server)
	t.Cleanup(func() {
		client.Close()
		server.Stop()
	})
	return NewAdapter(client)
}

func TestUint256RoundTrip(t *testing.T) {
	v, _ := new(big.Int).SetString("340282366920938463463374607431768211457", 10) // 2^128 + 1
	low, high := SplitUint256(v)
	if low.Int64() != 1 || high.Int64() != 1 {
		t.Fatalf("unexpected limbs %s %s", low, high)
	}
	if JoinUint256(low, high).Cmp(v) != 0 {
		t.Fatal("round trip mismatch")
	}
}

func TestSelector(t *testing.T) {
	// Well-known selector of "transfer".
	want := "0x83afd3f4caedc6eebf44246fe54e38c95e3179a5ec9ea81740eca5b482d12e"
	if got := Felt(Selector("transfer")); got != want {
		t.Fatalf("Selector(transfer) = %s, want %s", got, want)
	}
	if Selector("balance_of").BitLen() > 250 {
		t.Fatal("selector exceeds 250 bits")
	}
}

func TestGetBalance(t *testing.T) {
	fake := &fakeStarknet{balance: big.NewInt(250_000_000)}
	a := newTestAdapter(t, fake)

	bal, err := a.GetBalance(context.Background(), usdt, account)
	if err != nil {
		t.Fatalf("GetBalance: %v", err)
	}
	if bal.Int64() != 250_000_000 {
		t.Fatalf("unexpected balance %s", bal)
	}
	if fake.lastCall.EntryPointSelector != Felt(Selector("balance_of")) {
		t.Fatalf("unexpected selector %s", fake.lastCall.EntryPointSelector)
	}
	if len(fake.lastCall.Calldata) != 1 || fake.lastCall.Calldata[0] != account {
		t.Fatalf("unexpected calldata %v", fake.lastCall.Calldata)
	}
}

func TestGetBalance_ZeroTokenAddress(t *testing.T) {
	a := newTestAdapter(t, &fakeStarknet{balance: big.NewInt(1)})
	bal, err := a.GetBalance(context.Background(), network.Token{Symbol: "USDT", Address: "0x0"}, account)
	if err != nil || bal.Sign() != 0 {
		t.Fatalf("expected zero balance, got %v %v", bal, err)
	}
}

func TestSimulateTransfer_Succeeded(t *testing.T) {
	fake := &fakeStarknet{overallFee: "0x2386f26fc10000"} // 0.01 ETH
	a := newTestAdapter(t, fake)

	raw, err := a.SimulateTransfer(context.Background(), chain.PreDispatched{From: account}, usdt, recipient, big.NewInt(100_000_000))
	if err != nil {
		t.Fatalf("SimulateTransfer: %v", err)
	}
	if raw.ExecutionStatus != "SUCCEEDED" || raw.RevertReason != "" {
		t.Fatalf("unexpected outcome %+v", raw)
	}
	if raw.Fee.String() != "10000000000000000" {
		t.Fatalf("unexpected fee %s", raw.Fee)
	}

	if len(fake.simulated) != 1 {
		t.Fatalf("expected one simulated txn, got %d", len(fake.simulated))
	}
	txn := fake.simulated[0]
	if txn.SenderAddress != account || txn.Nonce != "0x5" || txn.Type != "INVOKE" {
		t.Fatalf("unexpected txn %+v", txn)
	}
	want := []string{"0x1", usdt.Address, Felt(Selector("transfer")), "0x3", recipient, "0x5f5e100", "0x0"}
	if len(txn.Calldata) != len(want) {
		t.Fatalf("unexpected calldata %v", txn.Calldata)
	}
	for i := range want {
		if txn.Calldata[i] != want[i] {
			t.Fatalf("calldata[%d] = %s, want %s", i, txn.Calldata[i], want[i])
		}
	}
	if len(fake.flags) != 2 || fake.flags[0] != "SKIP_VALIDATE" {
		t.Fatalf("unexpected flags %v", fake.flags)
	}
}

func TestSimulateTransfer_Reverted(t *testing.T) {
	fake := &fakeStarknet{overallFee: "0x10", revert: "u256_sub Overflow"}
	a := newTestAdapter(t, fake)

	raw, err := a.SimulateTransfer(context.Background(), chain.PreDispatched{From: account}, usdt, recipient, big.NewInt(1))
	if err != nil {
		t.Fatalf("SimulateTransfer: %v", err)
	}
	if raw.ExecutionStatus != "REVERTED" || raw.RevertReason != "u256_sub Overflow" {
		t.Fatalf("unexpected outcome %+v", raw)
	}
}

func TestSimulateTransfer_NodeError(t *testing.T) {
	fake := &fakeStarknet{simulateErr: rpcError{code: 41, msg: "Transaction execution error"}}
	a := newTestAdapter(t, fake)

	if _, err := a.SimulateTransfer(context.Background(), chain.PreDispatched{From: account}, usdt, recipient, big.NewInt(1)); err == nil {
		t.Fatal("expected simulation error")
	}
}

type fakeAccount struct {
	calls []FunctionCall
	hash  string
	err   error
}

func (f *fakeAccount) Address() string { return account }

func (f *fakeAccount) Execute(_ context.Context, calls []FunctionCall) (string, error) {
	f.calls = calls
	return f.hash, f.err
}

func TestDispatchTransfer_Account(t *testing.T) {
	a := newTestAdapter(t, &fakeStarknet{})
	acct := &fakeAccount{hash: "0x00ABC"}

	hash, err := a.DispatchTransfer(context.Background(), acct, usdt, recipient, big.NewInt(5))
	if err != nil {
		t.Fatalf("DispatchTransfer: %v", err)
	}
	if hash != "0xabc" {
		t.Fatalf("expected normalized hash, got %s", hash)
	}
	if len(acct.calls) != 1 || acct.calls[0].EntryPointSelector != Felt(Selector("transfer")) {
		t.Fatalf("unexpected calls %+v", acct.calls)
	}

	acct.err = errors.New("account not deployed")
	if _, err := a.DispatchTransfer(context.Background(), acct, usdt, recipient, big.NewInt(5)); err == nil {
		t.Fatal("expected execute error")
	}
}

func TestDispatchTransfer_PreDispatched(t *testing.T) {
	// A wallet multicall: a fee payment followed by the transfer, with
	// zero-padded felts.
	fee := FunctionCall{ContractAddress: "0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7", EntryPointSelector: Felt(Selector("transfer")), Calldata: []string{"0x1", "0x64", "0x0"}}
	transfer := FunctionCall{ContractAddress: usdt.Address, EntryPointSelector: Felt(Selector("transfer")), Calldata: []string{"0x000123abc", "0x5", "0x0"}}
	fake := &fakeStarknet{txns: map[string]*Transaction{
		"0xabc": {Type: "INVOKE", SenderAddress: account, Calldata: executeCalldata([]FunctionCall{fee, transfer})},
	}}
	a := newTestAdapter(t, fake)

	hash, err := a.DispatchTransfer(context.Background(), chain.PreDispatched{From: account, Hash: "0x0abc"}, usdt, recipient, big.NewInt(5))
	if err != nil {
		t.Fatalf("DispatchTransfer: %v", err)
	}
	if hash != "0xabc" {
		t.Fatalf("unexpected hash %s", hash)
	}

	_, err = a.DispatchTransfer(context.Background(), chain.PreDispatched{From: account, Hash: "0xdef"}, usdt, recipient, big.NewInt(5))
	if !errors.Is(err, chain.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestDispatchTransfer_PreDispatchedMismatch(t *testing.T) {
	fake := &fakeStarknet{txns: map[string]*Transaction{
		"0xabc": {Type: "INVOKE", SenderAddress: account, Calldata: executeCalldata([]FunctionCall{transferCall(usdt, recipient, big.NewInt(5))})},
		"0xbad": {Type: "INVOKE", SenderAddress: account, Calldata: []string{"0x2", "0x1"}},
	}}
	a := newTestAdapter(t, fake)
	usdc := network.Token{Symbol: "USDC", Decimals: 6, Address: "0x053c91253bc9682c04929ca02ed00b3e423f6710d2ee7e0d5ebb06f3ecf368a8"}

	cases := map[string]struct {
		signer chain.PreDispatched
		token  network.Token
		to     string
		amount int64
	}{
		"amount":    {chain.PreDispatched{From: account, Hash: "0xabc"}, usdt, recipient, 50},
		"recipient": {chain.PreDispatched{From: account, Hash: "0xabc"}, usdt, "0x0456", 5},
		"token":     {chain.PreDispatched{From: account, Hash: "0xabc"}, usdc, recipient, 5},
		"sender":    {chain.PreDispatched{From: "0x0777", Hash: "0xabc"}, usdt, recipient, 5},
		"calldata":  {chain.PreDispatched{From: account, Hash: "0xbad"}, usdt, recipient, 5},
	}
	for name, tc := range cases {
		_, err := a.DispatchTransfer(context.Background(), tc.signer, tc.token, tc.to, big.NewInt(tc.amount))
		if !errors.Is(err, chain.ErrBroadcastMismatch) {
			t.Fatalf("%s: expected ErrBroadcastMismatch, got %v", name, err)
		}
	}
}

func TestGetConfirmationStatus(t *testing.T) {
	fake := &fakeStarknet{receipts: map[string]*Receipt{
		"0x1": {ExecutionStatus: "SUCCEEDED", FinalityStatus: "ACCEPTED_ON_L2"},
		"0x2": {ExecutionStatus: "REVERTED", FinalityStatus: "ACCEPTED_ON_L2"},
		"0x3": {FinalityStatus: "RECEIVED"},
	}}
	a := newTestAdapter(t, fake)

	cases := map[string]chain.ConfirmationStatus{
		"0x1": chain.StatusConfirmed,
		"0x2": chain.StatusReverted,
		"0x3": chain.StatusUnknown,
		"0x4": chain.StatusPending,
	}
	for hash, want := range cases {
		got, err := a.GetConfirmationStatus(context.Background(), hash)
		if err != nil {
			t.Fatalf("%s: %v", hash, err)
		}
		if got != want {
			t.Fatalf("%s: expected %s, got %s", hash, want, got)
		}
	}
}

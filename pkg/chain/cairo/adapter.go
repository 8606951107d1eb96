// Package cairo implements the chain adapter for Cairo-family (Starknet)
// networks over the Starknet JSON-RPC API.
package cairo

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/rpc"
	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/network"
)

const blockLatest = "latest"

// Caller issues JSON-RPC calls. *rpc.Client satisfies it.
type Caller interface {
	CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error
}

// Account is an externally controlled Starknet account able to sign and
// broadcast a multicall.
type Account interface {
	chain.Signer
	Execute(ctx context.Context, calls []FunctionCall) (string, error)
}

// Adapter reads balances, simulates and dispatches transfers on Starknet.
type Adapter struct {
	caller Caller
	retry  chain.RetryConfig
	logger *zap.Logger
}

var (
	_ chain.Adapter   = (*Adapter)(nil)
	_ chain.Simulator = (*Adapter)(nil)
)

// Dial connects to a Starknet JSON-RPC endpoint.
func Dial(ctx context.Context, net *network.Network, opts ...Option) (*Adapter, *rpc.Client, error) {
	if net.Family != network.FamilyCairo {
		return nil, nil, fmt.Errorf("network %s is not Cairo", net.ID)
	}
	client, err := rpc.DialContext(ctx, net.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s RPC: %w", net.ID, err)
	}
	return NewAdapter(client, opts...), client, nil
}

// NewAdapter creates an adapter over caller.
func NewAdapter(caller Caller, opts ...Option) *Adapter {
	s := applyOptions(opts)
	return &Adapter{caller: caller, retry: s.retry, logger: s.logger}
}

// Family implements chain.Adapter.
func (a *Adapter) Family() network.Family { return network.FamilyCairo }

// GetBalance calls balance_of(address) and recombines the u256 result.
func (a *Adapter) GetBalance(ctx context.Context, token network.Token, address string) (*big.Int, error) {
	if err := network.ValidateAddress(network.FamilyCairo, address); err != nil {
		return nil, err
	}
	if network.IsZeroAddress(token.Address) {
		return new(big.Int), nil
	}

	call := FunctionCall{
		ContractAddress:    token.Address,
		EntryPointSelector: Felt(Selector("balance_of")),
		Calldata:           []string{address},
	}
	res, err := chain.Retry(ctx, a.retry, func(ctx context.Context) ([]string, error) {
		var out []string
		if err := a.caller.CallContext(ctx, &out, "starknet_call", call, blockLatest); err != nil {
			return nil, wrapTransport(err)
		}
		return out, nil
	})
	if err != nil {
		return nil, fmt.Errorf("balance_of %s: %w", token.Symbol, err)
	}
	if len(res) < 2 {
		return nil, fmt.Errorf("balance_of %s: expected u256, got %d felts", token.Symbol, len(res))
	}
	low, err := ParseFelt(res[0])
	if err != nil {
		return nil, err
	}
	high, err := ParseFelt(res[1])
	if err != nil {
		return nil, err
	}
	return JoinUint256(low, high), nil
}

// transferCall builds transfer(recipient, u256 amount) on the token contract.
func transferCall(token network.Token, recipient string, amount *big.Int) FunctionCall {
	low, high := SplitUint256(amount)
	return FunctionCall{
		ContractAddress:    token.Address,
		EntryPointSelector: Felt(Selector("transfer")),
		Calldata:           []string{recipient, Felt(low), Felt(high)},
	}
}

// decodeExecuteCalldata reverses executeCalldata.
func decodeExecuteCalldata(data []string) ([]FunctionCall, error) {
	next := func() (*big.Int, error) {
		if len(data) == 0 {
			return nil, fmt.Errorf("truncated calldata")
		}
		v, err := ParseFelt(data[0])
		data = data[1:]
		return v, err
	}
	n, err := next()
	if err != nil {
		return nil, err
	}
	if !n.IsInt64() || n.Int64() > int64(len(data)) {
		return nil, fmt.Errorf("call count %s exceeds calldata", n)
	}
	calls := make([]FunctionCall, 0, n.Int64())
	for i := int64(0); i < n.Int64(); i++ {
		to, err := next()
		if err != nil {
			return nil, err
		}
		selector, err := next()
		if err != nil {
			return nil, err
		}
		size, err := next()
		if err != nil {
			return nil, err
		}
		if !size.IsInt64() || size.Int64() > int64(len(data)) {
			return nil, fmt.Errorf("call %d calldata length %s exceeds calldata", i, size)
		}
		args := make([]string, size.Int64())
		for j := range args {
			v, err := next()
			if err != nil {
				return nil, err
			}
			args[j] = Felt(v)
		}
		calls = append(calls, FunctionCall{ContractAddress: Felt(to), EntryPointSelector: Felt(selector), Calldata: args})
	}
	return calls, nil
}

// sameCall compares two calls felt by felt.
func sameCall(a, b FunctionCall) bool {
	if !sameFelt(a.ContractAddress, b.ContractAddress) || !sameFelt(a.EntryPointSelector, b.EntryPointSelector) {
		return false
	}
	if len(a.Calldata) != len(b.Calldata) {
		return false
	}
	for i := range a.Calldata {
		if !sameFelt(a.Calldata[i], b.Calldata[i]) {
			return false
		}
	}
	return true
}

func sameFelt(a, b string) bool {
	x, err := ParseFelt(a)
	if err != nil {
		return false
	}
	y, err := ParseFelt(b)
	return err == nil && x.Cmp(y) == 0
}

// executeCalldata encodes calls for an account's __execute__ entry point.
func executeCalldata(calls []FunctionCall) []string {
	out := []string{Felt(big.NewInt(int64(len(calls))))}
	for _, c := range calls {
		out = append(out, c.ContractAddress, c.EntryPointSelector, Felt(big.NewInt(int64(len(c.Calldata)))))
		out = append(out, c.Calldata...)
	}
	return out
}

// DispatchTransfer executes the transfer through an Account, or verifies that
// a chain.PreDispatched hash is an invoke from the sender carrying the
// transfer call.
func (a *Adapter) DispatchTransfer(ctx context.Context, signer chain.Signer, token network.Token, recipient string, amount *big.Int) (string, error) {
	switch s := signer.(type) {
	case chain.PreDispatched:
		return a.verifyBroadcast(ctx, s, transferCall(token, recipient, amount))
	case *chain.PreDispatched:
		return a.verifyBroadcast(ctx, *s, transferCall(token, recipient, amount))
	case Account:
		if network.IsZeroAddress(token.Address) {
			return "", fmt.Errorf("%s has no contract on this network", token.Symbol)
		}
		hash, err := s.Execute(ctx, []FunctionCall{transferCall(token, recipient, amount)})
		if err != nil {
			return "", fmt.Errorf("failed to execute transfer: %w", err)
		}
		a.logger.Info("Token transfer submitted",
			zap.String("token", token.Symbol),
			zap.String("from", s.Address()),
			zap.String("to", recipient),
			zap.String("amount", amount.String()),
			zap.String("tx_hash", hash))
		return NormalizeFelt(hash)
	default:
		return "", chain.ErrUnsupportedSigner
	}
}

func (a *Adapter) verifyBroadcast(ctx context.Context, p chain.PreDispatched, want FunctionCall) (string, error) {
	norm, err := NormalizeFelt(p.Hash)
	if err != nil {
		return "", fmt.Errorf("invalid transaction hash: %w", err)
	}
	txn, err := chain.Retry(ctx, a.retry, func(ctx context.Context) (*Transaction, error) {
		var t Transaction
		if err := a.caller.CallContext(ctx, &t, "starknet_getTransactionByHash", norm); err != nil {
			return nil, wrapTransport(err)
		}
		return &t, nil
	})
	if isNotFound(err) {
		return "", fmt.Errorf("%w: %s", chain.ErrTransactionNotFound, norm)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up transaction: %w", err)
	}

	if txn.Type != "INVOKE" || !sameFelt(txn.SenderAddress, p.From) {
		return "", fmt.Errorf("%w: %s: %s sent by %s", chain.ErrBroadcastMismatch, norm, txn.Type, txn.SenderAddress)
	}
	calls, err := decodeExecuteCalldata(txn.Calldata)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", chain.ErrBroadcastMismatch, norm, err)
	}
	// Wallets may bundle other calls, such as fee payments, around the transfer.
	for _, c := range calls {
		if sameCall(c, want) {
			return norm, nil
		}
	}
	return "", fmt.Errorf("%w: %s: no matching transfer call", chain.ErrBroadcastMismatch, norm)
}

// GetConfirmationStatus reads execution_status from the receipt. A hash the
// node does not know yet is pending.
func (a *Adapter) GetConfirmationStatus(ctx context.Context, hash string) (chain.ConfirmationStatus, error) {
	norm, err := NormalizeFelt(hash)
	if err != nil {
		return chain.StatusUnknown, fmt.Errorf("invalid transaction hash: %w", err)
	}
	receipt, err := chain.Retry(ctx, a.retry, func(ctx context.Context) (*Receipt, error) {
		var r Receipt
		if err := a.caller.CallContext(ctx, &r, "starknet_getTransactionReceipt", norm); err != nil {
			return nil, wrapTransport(err)
		}
		return &r, nil
	})
	if isNotFound(err) {
		return chain.StatusPending, nil
	}
	if err != nil {
		return chain.StatusUnknown, fmt.Errorf("failed to get receipt: %w", err)
	}

	switch {
	case receipt.FinalityStatus == finalityRejected:
		return chain.StatusReverted, nil
	case receipt.ExecutionStatus == executionSucceeded:
		return chain.StatusConfirmed, nil
	case receipt.ExecutionStatus == executionReverted:
		return chain.StatusReverted, nil
	default:
		return chain.StatusUnknown, nil
	}
}

// SimulateTransfer dry-runs the transfer from the signer's account with
// validation and fee charging skipped.
func (a *Adapter) SimulateTransfer(ctx context.Context, signer chain.Signer, token network.Token, recipient string, amount *big.Int) (*chain.RawSimulation, error) {
	sender := signer.Address()
	if err := network.ValidateAddress(network.FamilyCairo, sender); err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}

	var nonce string
	if err := a.caller.CallContext(ctx, &nonce, "starknet_getNonce", blockLatest, sender); err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	txn := InvokeTxn{
		Type:          "INVOKE",
		Version:       "0x1",
		SenderAddress: sender,
		Calldata:      executeCalldata([]FunctionCall{transferCall(token, recipient, amount)}),
		MaxFee:        "0x0",
		Signature:     []string{},
		Nonce:         nonce,
	}

	var results []SimulatedTransaction
	flags := []string{"SKIP_VALIDATE", "SKIP_FEE_CHARGE"}
	if err := a.caller.CallContext(ctx, &results, "starknet_simulateTransactions", blockLatest, []InvokeTxn{txn}, flags); err != nil {
		return nil, fmt.Errorf("simulation failed: %w", err)
	}
	if len(results) == 0 {
		return nil, fmt.Errorf("simulation returned no result")
	}

	res := results[0]
	fee := new(big.Int)
	if res.FeeEstimation.OverallFee != "" {
		parsed, err := ParseFelt(res.FeeEstimation.OverallFee)
		if err != nil {
			return nil, fmt.Errorf("overall_fee: %w", err)
		}
		fee = parsed
	}

	raw := &chain.RawSimulation{Fee: fee, ExecutionStatus: executionSucceeded}
	if inv := res.TransactionTrace.ExecuteInvocation; inv != nil && inv.RevertReason != "" {
		raw.ExecutionStatus = executionReverted
		raw.RevertReason = inv.RevertReason
	}
	return raw, nil
}

func isNotFound(err error) bool {
	var rpcErr rpc.Error
	return errors.As(err, &rpcErr) && rpcErr.ErrorCode() == errTxnHashNotFound
}

// wrapTransport marks transport-level failures retryable. JSON-RPC errors
// returned by the node are final.
func wrapTransport(err error) error {
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return err
	}
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode < 500 && httpErr.StatusCode != 429 {
		return err
	}
	return chain.WrapRetryable(err)
}

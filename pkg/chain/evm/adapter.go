// Package evm implements the chain adapter for EVM-family networks.
package evm

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/network"
)

// Backend is the node access the adapter needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error)
}

// TransactorSigner is a signer holding a key the adapter can sign with.
type TransactorSigner interface {
	chain.Signer
	Transactor(chainID *big.Int) (*bind.TransactOpts, error)
}

// Adapter dispatches ERC-20 transfers and reads balances and receipts.
type Adapter struct {
	backend     Backend
	chainID     *big.Int
	gasLimit    uint64
	maxGasPrice *big.Int
	retry       chain.RetryConfig
	logger      *zap.Logger
}

var _ chain.Adapter = (*Adapter)(nil)

// Dial connects to an EVM JSON-RPC endpoint.
func Dial(ctx context.Context, net *network.Network, opts ...Option) (*Adapter, *ethclient.Client, error) {
	if net.Family != network.FamilyEVM {
		return nil, nil, fmt.Errorf("network %s is not EVM", net.ID)
	}
	chainID, ok := new(big.Int).SetString(net.ChainID, 10)
	if !ok {
		return nil, nil, fmt.Errorf("invalid chain id %q for %s", net.ChainID, net.ID)
	}
	client, err := ethclient.DialContext(ctx, net.RPCURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to %s RPC: %w", net.ID, err)
	}
	return NewAdapter(client, chainID, opts...), client, nil
}

// NewAdapter creates an adapter over backend for chainID.
func NewAdapter(backend Backend, chainID *big.Int, opts ...Option) *Adapter {
	s := applyOptions(opts)
	return &Adapter{
		backend:     backend,
		chainID:     chainID,
		gasLimit:    s.gasLimit,
		maxGasPrice: s.maxGasPrice,
		retry:       s.retry,
		logger:      s.logger,
	}
}

// Family implements chain.Adapter.
func (a *Adapter) Family() network.Family { return network.FamilyEVM }

// GetBalance returns the ERC-20 balance of address. Tokens without a deployed
// contract (zero address) have a zero balance.
func (a *Adapter) GetBalance(ctx context.Context, token network.Token, address string) (*big.Int, error) {
	if err := network.ValidateAddress(network.FamilyEVM, address); err != nil {
		return nil, err
	}
	if network.IsZeroAddress(token.Address) {
		return new(big.Int), nil
	}
	erc20, err := NewERC20(common.HexToAddress(token.Address), a.backend)
	if err != nil {
		return nil, err
	}
	account := common.HexToAddress(address)
	return chain.Retry(ctx, a.retry, func(ctx context.Context) (*big.Int, error) {
		bal, err := erc20.BalanceOf(&bind.CallOpts{Context: ctx}, account)
		if err != nil {
			return nil, fmt.Errorf("balanceOf %s: %w", token.Symbol, err)
		}
		return bal, nil
	})
}

// DispatchTransfer submits transfer(recipient, amount) on the token contract.
// A chain.PreDispatched signer is verified against the node instead.
func (a *Adapter) DispatchTransfer(ctx context.Context, signer chain.Signer, token network.Token, recipient string, amount *big.Int) (string, error) {
	switch s := signer.(type) {
	case chain.PreDispatched:
		return a.verifyBroadcast(ctx, s, token, recipient, amount)
	case *chain.PreDispatched:
		return a.verifyBroadcast(ctx, *s, token, recipient, amount)
	case TransactorSigner:
		return a.transfer(ctx, s, token, recipient, amount)
	default:
		return "", chain.ErrUnsupportedSigner
	}
}

func (a *Adapter) transfer(ctx context.Context, signer TransactorSigner, token network.Token, recipient string, amount *big.Int) (string, error) {
	if network.IsZeroAddress(token.Address) {
		return "", fmt.Errorf("%s has no contract on this network", token.Symbol)
	}
	erc20, err := NewERC20(common.HexToAddress(token.Address), a.backend)
	if err != nil {
		return "", err
	}

	opts, err := a.transactor(ctx, signer)
	if err != nil {
		return "", err
	}

	tx, err := erc20.Transfer(opts, common.HexToAddress(recipient), amount)
	if err != nil {
		return "", fmt.Errorf("failed to send transfer: %w", err)
	}

	a.logger.Info("Token transfer submitted",
		zap.String("token", token.Symbol),
		zap.String("from", opts.From.Hex()),
		zap.String("to", recipient),
		zap.String("amount", amount.String()),
		zap.String("tx_hash", tx.Hash().Hex()))

	return tx.Hash().Hex(), nil
}

// transactor prepares signing options with the pending nonce, the configured
// gas limit and the suggested gas price capped at the configured maximum.
func (a *Adapter) transactor(ctx context.Context, signer TransactorSigner) (*bind.TransactOpts, error) {
	opts, err := signer.Transactor(a.chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx

	nonce, err := a.backend.PendingNonceAt(ctx, opts.From)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}
	opts.Nonce = new(big.Int).SetUint64(nonce)
	opts.GasLimit = a.gasLimit

	gasPrice, err := a.backend.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to suggest gas price: %w", err)
	}
	if a.maxGasPrice != nil && gasPrice.Cmp(a.maxGasPrice) > 0 {
		a.logger.Warn("Suggested gas price exceeds maximum",
			zap.String("suggested", gasPrice.String()),
			zap.String("max", a.maxGasPrice.String()))
		gasPrice = new(big.Int).Set(a.maxGasPrice)
	}
	opts.GasPrice = gasPrice

	return opts, nil
}

// verifyBroadcast looks the hash up and checks that the transaction calls
// transfer(recipient, amount) on the token contract and was signed by the
// sender.
func (a *Adapter) verifyBroadcast(ctx context.Context, p chain.PreDispatched, token network.Token, recipient string, amount *big.Int) (string, error) {
	hash := p.Hash
	if !isTxHash(hash) {
		return "", fmt.Errorf("invalid transaction hash %q", hash)
	}
	tx, err := chain.Retry(ctx, a.retry, func(ctx context.Context) (*types.Transaction, error) {
		tx, _, err := a.backend.TransactionByHash(ctx, common.HexToHash(hash))
		return tx, err
	})
	if errors.Is(err, ethereum.NotFound) {
		return "", fmt.Errorf("%w: %s", chain.ErrTransactionNotFound, hash)
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up transaction: %w", err)
	}

	mismatch := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s: %s", chain.ErrBroadcastMismatch, hash, fmt.Sprintf(format, args...))
	}
	if tx.To() == nil || *tx.To() != common.HexToAddress(token.Address) {
		return "", mismatch("not sent to the %s contract", token.Symbol)
	}
	to, value, err := UnpackTransfer(tx.Data())
	if err != nil {
		return "", mismatch("%v", err)
	}
	if to != common.HexToAddress(recipient) {
		return "", mismatch("recipient %s", to.Hex())
	}
	if value.Cmp(amount) != 0 {
		return "", mismatch("amount %s", value)
	}
	from, err := types.Sender(types.LatestSignerForChainID(a.chainID), tx)
	if err != nil {
		return "", mismatch("sender: %v", err)
	}
	if from != common.HexToAddress(p.From) {
		return "", mismatch("sent by %s", from.Hex())
	}
	return strings.ToLower(hash), nil
}

// GetConfirmationStatus maps the receipt status. A transaction without a
// receipt is still pending.
func (a *Adapter) GetConfirmationStatus(ctx context.Context, hash string) (chain.ConfirmationStatus, error) {
	if !isTxHash(hash) {
		return chain.StatusUnknown, fmt.Errorf("invalid transaction hash %q", hash)
	}
	receipt, err := chain.Retry(ctx, a.retry, func(ctx context.Context) (*types.Receipt, error) {
		return a.backend.TransactionReceipt(ctx, common.HexToHash(hash))
	})
	if errors.Is(err, ethereum.NotFound) {
		return chain.StatusPending, nil
	}
	if err != nil {
		return chain.StatusUnknown, fmt.Errorf("failed to get receipt: %w", err)
	}
	if receipt.Status == types.ReceiptStatusSuccessful {
		return chain.StatusConfirmed, nil
	}
	return chain.StatusReverted, nil
}

func isTxHash(hash string) bool {
	if len(hash) != 66 || !strings.HasPrefix(hash, "0x") {
		return false
	}
	for _, c := range hash[2:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}

// Package portfolio values wallets from on-chain balances and summarizes
// their performance from stored snapshots.
package portfolio

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/pkg/chain"
	"github.com/chainsafe/token-wallet/pkg/network"
)

const zeroBalance = "0.00"

// AdapterResolver returns the chain adapter for a network.
type AdapterResolver interface {
	Adapter(id network.ID) (chain.Adapter, error)
}

// Holdings are a wallet's token balances on one network.
type Holdings struct {
	// Balances maps token symbol to a fixed 2 decimal display balance.
	Balances map[string]string
	// Total is the USD value of Balances. Supported tokens are stablecoins
	// and are valued 1:1.
	Total decimal.Decimal
}

// BalanceReader reads wallet balances from chain.
type BalanceReader struct {
	adapters AdapterResolver
	logger   *zap.Logger
}

// NewBalanceReader creates a BalanceReader.
func NewBalanceReader(adapters AdapterResolver, logger *zap.Logger) *BalanceReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BalanceReader{adapters: adapters, logger: logger}
}

// Holdings returns the balance of every token on net held by wallet. A token
// whose balance cannot be read reports "0.00"; an empty or zero wallet
// address reports zero for every token without touching the chain.
func (b *BalanceReader) Holdings(ctx context.Context, net *network.Network, wallet string) *Holdings {
	out := &Holdings{Balances: make(map[string]string, len(net.Tokens)), Total: decimal.Zero}
	if wallet == "" || network.IsZeroAddress(wallet) {
		for _, t := range net.Tokens {
			out.Balances[t.Symbol] = zeroBalance
		}
		return out
	}

	adapter, err := b.adapters.Adapter(net.ID)
	if err != nil {
		b.logger.Error("No adapter for balance read", zap.String("network", string(net.ID)), zap.Error(err))
		for _, t := range net.Tokens {
			out.Balances[t.Symbol] = zeroBalance
		}
		return out
	}

	for _, t := range net.Tokens {
		display := b.tokenBalance(ctx, adapter, net.ID, t, wallet)
		out.Balances[t.Symbol] = display
		// display strings are produced by FormatDisplay and always parse
		if v, err := decimal.NewFromString(display); err == nil {
			out.Total = out.Total.Add(v)
		}
	}
	return out
}

func (b *BalanceReader) tokenBalance(ctx context.Context, adapter chain.Adapter, id network.ID, t network.Token, wallet string) string {
	bal, err := adapter.GetBalance(ctx, t, wallet)
	if err != nil {
		b.logger.Warn("Failed to read token balance",
			zap.String("network", string(id)),
			zap.String("token", t.Symbol),
			zap.String("wallet", wallet),
			zap.Error(err))
		return zeroBalance
	}
	if bal == nil {
		bal = new(big.Int)
	}
	return chain.FormatDisplay(bal, t.Decimals)
}

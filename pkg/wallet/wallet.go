// Package wallet holds the request and response types of the wallet API.
package wallet

import (
	"github.com/shopspring/decimal"

	"github.com/chainsafe/token-wallet/pkg/transaction"
)

const (
	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
	// RecentTransactions is the number of transactions shown with a portfolio.
	RecentTransactions = 10
)

// TransferRequest asks to send tokens from the caller's wallet.
type TransferRequest struct {
	PIN       string `json:"pin"`
	Network   string `json:"network"`
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	// TxHash is set when the user's own wallet already broadcast the transfer.
	TxHash string `json:"tx_hash,omitzero"`
}

// SimulateRequest asks for a dry run of a transfer from From.
type SimulateRequest struct {
	Network   string `json:"network"`
	Token     string `json:"token"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
	From      string `json:"from"`
}

// HistoryQuery selects a page of transaction history.
type HistoryQuery struct {
	WalletAddress string
	Network       string
	Cursor        *int64
	Limit         int
}

// HistoryPage is one page of history, newest first.
type HistoryPage struct {
	Transactions []*transaction.View `json:"transactions"`
	NextCursor   *int64              `json:"next_cursor"`
}

// RecordRequest records a swap or send executed outside the wallet.
type RecordRequest struct {
	Hash              string           `json:"hash" validate:"required"`
	Network           string           `json:"network" validate:"required,oneof=scroll scroll-sepolia starknet starknet-sepolia"`
	WalletAddress     string           `json:"wallet_address" validate:"required"`
	Type              string           `json:"type" validate:"required,oneof=swap send"`
	Status            string           `json:"status" validate:"required,oneof=completed pending failed"`
	FromToken         string           `json:"from_token" validate:"required"`
	ToToken           *string          `json:"to_token,omitempty"`
	Amount            string           `json:"amount" validate:"required"`
	ToAmount          *string          `json:"to_amount,omitempty"`
	Recipient         *string          `json:"recipient,omitempty"`
	GasFee            *string          `json:"gas_fee,omitempty"`
	PriceImpact       *decimal.Decimal `json:"price_impact,omitempty"`
	ExchangeRate      *decimal.Decimal `json:"exchange_rate,omitempty"`
	FromTokenUSDPrice *decimal.Decimal `json:"from_token_usd_price,omitempty"`
	ToTokenUSDPrice   *decimal.Decimal `json:"to_token_usd_price,omitempty"`
	TotalUSDValue     *decimal.Decimal `json:"total_usd_value,omitempty"`
}

// Portfolio is the caller's live balances on one network.
type Portfolio struct {
	WalletAddress *string             `json:"wallet_address"`
	TotalBalance  decimal.Decimal     `json:"total_balance"`
	TokenBalances map[string]string   `json:"token_balances"`
	Transactions  []*transaction.View `json:"transactions"`
	Email         string              `json:"email"`
}

// Package transaction holds the persisted transaction history and portfolio
// snapshot domain types.
package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Type is the kind of a recorded transaction.
type Type string

const (
	TypeSwap Type = "swap"
	TypeSend Type = "send"
)

// Valid reports whether t is a known transaction type.
func (t Type) Valid() bool {
	return t == TypeSwap || t == TypeSend
}

// Status is the lifecycle status of a recorded transaction.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// CanTransition reports whether a record may move from s to next.
// Only pending records change status.
func (s Status) CanTransition(next Status) bool {
	return s == StatusPending && (next == StatusCompleted || next == StatusFailed)
}

// Record is an append-only transaction history entry.
type Record struct {
	ID                int64
	Hash              string
	Network           string
	WalletAddress     string
	Type              Type
	Status            Status
	FromToken         string
	ToToken           *string
	Amount            string
	ToAmount          *string
	Recipient         *string
	GasFee            *string
	PriceImpact       *decimal.Decimal
	ExchangeRate      *decimal.Decimal
	FromTokenUSDPrice *decimal.Decimal
	ToTokenUSDPrice   *decimal.Decimal
	TotalUSDValue     *decimal.Decimal
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Page is one page of transaction history, newest first.
type Page struct {
	Transactions []*Record
	// NextCursor is the id to pass as cursor for the next page, nil on the last page.
	NextCursor *int64
}

// Snapshot is a point-in-time portfolio valuation for one wallet on one network.
type Snapshot struct {
	ID            int64
	WalletAddress string
	Network       string
	TotalUSDValue decimal.Decimal
	TokenBalances map[string]string
	CreatedAt     time.Time
}

// View is the JSON representation of a Record.
type View struct {
	ID                int64            `json:"id"`
	TransactionHash   string           `json:"transaction_hash,omitzero"`
	Network           string           `json:"network"`
	WalletAddress     string           `json:"wallet_address"`
	Type              Type             `json:"type"`
	Status            Status           `json:"status"`
	FromToken         string           `json:"from_token"`
	ToToken           *string          `json:"to_token,omitempty"`
	Amount            string           `json:"amount"`
	ToAmount          *string          `json:"to_amount,omitempty"`
	Recipient         *string          `json:"recipient,omitempty"`
	GasFee            *string          `json:"gas_fee,omitempty"`
	PriceImpact       *decimal.Decimal `json:"price_impact,omitempty"`
	ExchangeRate      *decimal.Decimal `json:"exchange_rate,omitempty"`
	FromTokenUSDPrice *decimal.Decimal `json:"from_token_usd_price,omitempty"`
	ToTokenUSDPrice   *decimal.Decimal `json:"to_token_usd_price,omitempty"`
	TotalUSDValue     *decimal.Decimal `json:"total_usd_value,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToView converts a record for API responses.
func (r *Record) ToView() *View {
	return &View{
		ID:                r.ID,
		TransactionHash:   r.Hash,
		Network:           r.Network,
		WalletAddress:     r.WalletAddress,
		Type:              r.Type,
		Status:            r.Status,
		FromToken:         r.FromToken,
		ToToken:           r.ToToken,
		Amount:            r.Amount,
		ToAmount:          r.ToAmount,
		Recipient:         r.Recipient,
		GasFee:            r.GasFee,
		PriceImpact:       r.PriceImpact,
		ExchangeRate:      r.ExchangeRate,
		FromTokenUSDPrice: r.FromTokenUSDPrice,
		ToTokenUSDPrice:   r.ToTokenUSDPrice,
		TotalUSDValue:     r.TotalUSDValue,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

// ToViews converts a slice of records.
func ToViews(records []*Record) []*View {
	views := make([]*View, len(records))
	for i, r := range records {
		views[i] = r.ToView()
	}
	return views
}

package txstore

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"

	"github.com/chainsafe/token-wallet/pkg/transaction"
)

// TransactionDao maps to the 'transactions' table.
type TransactionDao struct {
	bun.BaseModel     `bun:"table:transactions,alias:tx"`
	ID                int64     `bun:"id,pk,autoincrement"`
	Hash              *string   `bun:"transaction_hash,unique,type:varchar(100)"`
	Network           string    `bun:"network,notnull,type:varchar(32)"`
	WalletAddress     string    `bun:"wallet_address,notnull,type:varchar(66)"`
	Type              string    `bun:"type,notnull,type:varchar(10)"`
	Status            string    `bun:"status,notnull,type:varchar(16)"`
	FromToken         string    `bun:"from_token,notnull,type:varchar(32)"`
	ToToken           *string   `bun:"to_token,type:varchar(32)"`
	Amount            string    `bun:"amount,notnull,type:varchar(80)"`
	ToAmount          *string   `bun:"to_amount,type:varchar(80)"`
	Recipient         *string   `bun:"recipient,type:varchar(66)"`
	GasFee            *string   `bun:"gas_fee,type:varchar(80)"`
	PriceImpact       *string   `bun:"price_impact,type:numeric(38,18)"`
	ExchangeRate      *string   `bun:"exchange_rate,type:numeric(38,18)"`
	FromTokenUSDPrice *string   `bun:"from_token_usd_price,type:numeric(38,18)"`
	ToTokenUSDPrice   *string   `bun:"to_token_usd_price,type:numeric(38,18)"`
	TotalUSDValue     *string   `bun:"total_usd_value,type:numeric(38,18)"`
	CreatedAt         time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt         time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp"`
}

// SnapshotDao maps to the 'portfolio_snapshots' table.
type SnapshotDao struct {
	bun.BaseModel `bun:"table:portfolio_snapshots,alias:ps"`
	ID            int64             `bun:"id,pk,autoincrement"`
	WalletAddress string            `bun:"wallet_address,notnull,type:varchar(66)"`
	Network       string            `bun:"network,notnull,type:varchar(32)"`
	TotalUSDValue string            `bun:"total_usd_value,notnull,type:numeric(38,18)"`
	TokenBalances map[string]string `bun:"token_balances,type:jsonb"`
	CreatedAt     time.Time         `bun:"created_at,nullzero,notnull,default:current_timestamp"`
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDecimal(s *string) *decimal.Decimal {
	if s == nil {
		return nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil
	}
	return &d
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toTransactionDao(rec *transaction.Record) *TransactionDao {
	return &TransactionDao{
		ID:                rec.ID,
		Hash:              nonEmpty(rec.Hash),
		Network:           rec.Network,
		WalletAddress:     rec.WalletAddress,
		Type:              string(rec.Type),
		Status:            string(rec.Status),
		FromToken:         rec.FromToken,
		ToToken:           rec.ToToken,
		Amount:            rec.Amount,
		ToAmount:          rec.ToAmount,
		Recipient:         rec.Recipient,
		GasFee:            rec.GasFee,
		PriceImpact:       decimalString(rec.PriceImpact),
		ExchangeRate:      decimalString(rec.ExchangeRate),
		FromTokenUSDPrice: decimalString(rec.FromTokenUSDPrice),
		ToTokenUSDPrice:   decimalString(rec.ToTokenUSDPrice),
		TotalUSDValue:     decimalString(rec.TotalUSDValue),
		CreatedAt:         rec.CreatedAt,
		UpdatedAt:         rec.UpdatedAt,
	}
}

func toRecord(dao *TransactionDao) *transaction.Record {
	rec := &transaction.Record{
		ID:                dao.ID,
		Network:           dao.Network,
		WalletAddress:     dao.WalletAddress,
		Type:              transaction.Type(dao.Type),
		Status:            transaction.Status(dao.Status),
		FromToken:         dao.FromToken,
		ToToken:           dao.ToToken,
		Amount:            dao.Amount,
		ToAmount:          dao.ToAmount,
		Recipient:         dao.Recipient,
		GasFee:            dao.GasFee,
		PriceImpact:       parseDecimal(dao.PriceImpact),
		ExchangeRate:      parseDecimal(dao.ExchangeRate),
		FromTokenUSDPrice: parseDecimal(dao.FromTokenUSDPrice),
		ToTokenUSDPrice:   parseDecimal(dao.ToTokenUSDPrice),
		TotalUSDValue:     parseDecimal(dao.TotalUSDValue),
		CreatedAt:         dao.CreatedAt,
		UpdatedAt:         dao.UpdatedAt,
	}
	if dao.Hash != nil {
		rec.Hash = *dao.Hash
	}
	return rec
}

func toRecords(daos []TransactionDao) []*transaction.Record {
	out := make([]*transaction.Record, len(daos))
	for i := range daos {
		out[i] = toRecord(&daos[i])
	}
	return out
}

func toSnapshotDao(snap *transaction.Snapshot) *SnapshotDao {
	return &SnapshotDao{
		ID:            snap.ID,
		WalletAddress: snap.WalletAddress,
		Network:       snap.Network,
		TotalUSDValue: snap.TotalUSDValue.String(),
		TokenBalances: snap.TokenBalances,
		CreatedAt:     snap.CreatedAt,
	}
}

func toSnapshot(dao *SnapshotDao) *transaction.Snapshot {
	total, err := decimal.NewFromString(dao.TotalUSDValue)
	if err != nil {
		total = decimal.Zero
	}
	return &transaction.Snapshot{
		ID:            dao.ID,
		WalletAddress: dao.WalletAddress,
		Network:       dao.Network,
		TotalUSDValue: total,
		TokenBalances: dao.TokenBalances,
		CreatedAt:     dao.CreatedAt,
	}
}

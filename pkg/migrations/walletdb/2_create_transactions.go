package walletdb

import (
	"context"

	"github.com/uptrace/bun"

	mghelper "github.com/chainsafe/token-wallet/pkg/pgutil/migrations"
	"github.com/chainsafe/token-wallet/pkg/txstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if err := mghelper.CreateSchema(ctx, db, &txstore.TransactionDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &txstore.TransactionDao{},
			"wallet_address, network",
			"status",
		)
	}, func(ctx context.Context, db *bun.DB) error {
		return mghelper.DropTables(ctx, db, &txstore.TransactionDao{})
	})
}

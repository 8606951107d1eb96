package walletdb

import (
	"context"

	"github.com/uptrace/bun"

	mghelper "github.com/chainsafe/token-wallet/pkg/pgutil/migrations"
	"github.com/chainsafe/token-wallet/pkg/txstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if err := mghelper.CreateSchema(ctx, db, &txstore.SnapshotDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &txstore.SnapshotDao{}, "wallet_address, network, created_at")
	}, func(ctx context.Context, db *bun.DB) error {
		return mghelper.DropTables(ctx, db, &txstore.SnapshotDao{})
	})
}

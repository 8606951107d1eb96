package walletdb

import (
	"context"

	"github.com/uptrace/bun"

	mghelper "github.com/chainsafe/token-wallet/pkg/pgutil/migrations"
	"github.com/chainsafe/token-wallet/pkg/userstore"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if err := mghelper.CreateSchema(ctx, db, &userstore.UserDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &userstore.UserDao{}, "starknet_address")
	}, func(ctx context.Context, db *bun.DB) error {
		return mghelper.DropTables(ctx, db, &userstore.UserDao{})
	})
}

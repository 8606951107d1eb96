package migrations

import (
	"context"
	"testing"

	"github.com/uptrace/bun/migrate"

	"github.com/chainsafe/token-wallet/pkg/migrations/walletdb"
	"github.com/chainsafe/token-wallet/pkg/pgutil"
	mghelper "github.com/chainsafe/token-wallet/pkg/pgutil/migrations"
)

func TestWalletDBMigrations_Apply(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, walletdb.Migrations)

	if err := mghelper.Run(ctx, migrator, nil, "up"); err != nil {
		t.Fatalf("up failed: %v", err)
	}

	for _, table := range []string{"users", "transactions", "portfolio_snapshots", "bun_migrations"} {
		pgutil.AssertTableExists(t, db, table)
	}

	pgutil.AssertIndexExists(t, db, "idx_users_starknet_address")
	pgutil.AssertIndexExists(t, db, "idx_transactions_wallet_address_network")
	pgutil.AssertIndexExists(t, db, "idx_transactions_status")
	pgutil.AssertIndexExists(t, db, "idx_portfolio_snapshots_wallet_address_network_created_at")

	// Running up again is a no-op.
	if err := mghelper.Run(ctx, migrator, nil, "up"); err != nil {
		t.Fatalf("second up failed: %v", err)
	}
	if err := mghelper.Run(ctx, migrator, nil, "status"); err != nil {
		t.Fatalf("status failed: %v", err)
	}
}

func TestWalletDBMigrations_Rollback(t *testing.T) {
	db, cleanup := pgutil.SetupTestDB(t)
	defer cleanup()
	ctx := context.Background()

	migrator := migrate.NewMigrator(db, walletdb.Migrations)
	if err := mghelper.Run(ctx, migrator, nil, "up"); err != nil {
		t.Fatalf("up failed: %v", err)
	}
	if err := mghelper.Run(ctx, migrator, nil, "down"); err != nil {
		t.Fatalf("down failed: %v", err)
	}

	for _, table := range []string{"users", "transactions", "portfolio_snapshots"} {
		pgutil.AssertTableNotExists(t, db, table)
	}

	if err := mghelper.Run(ctx, migrator, nil, "sideways"); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

// Package walletdb holds the migrations for the wallet database
package walletdb

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set of wallet database migrations.
var Migrations = migrate.NewMigrations()

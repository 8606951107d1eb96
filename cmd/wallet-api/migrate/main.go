package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/chainsafe/token-wallet/pkg/config"
	"github.com/chainsafe/token-wallet/pkg/migrations/walletdb"
	"github.com/chainsafe/token-wallet/pkg/pgutil"
	mghelper "github.com/chainsafe/token-wallet/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "", "Path to configuration file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: migrate [-config path] <%s>\n", strings.Join(mghelper.Commands, "|"))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := pgutil.ConnectDB(ctx, &cfg.Database, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() { _ = db.Close() }()

	logger.Info("Running wallet database migrations",
		zap.String("database", cfg.Database.Database),
		zap.String("command", flag.Arg(0)))

	migrator := migrate.NewMigrator(db, walletdb.Migrations)
	if err := mghelper.Run(ctx, migrator, logger, flag.Arg(0)); err != nil {
		logger.Error("Migration failed", zap.Error(err))
		_ = db.Close()
		os.Exit(1)
	}
}

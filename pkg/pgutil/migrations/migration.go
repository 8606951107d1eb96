// Package migrations holds migrations related helpers
package migrations

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

// Commands lists the commands accepted by Run.
var Commands = []string{"init", "up", "down", "status"}

// CreateSchema creates tables for the given models if they do not exist.
func CreateSchema(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// DropTables drops tables from database
func DropTables(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		_, err := db.NewDropTable().
			Model(model).
			IfExists().
			Cascade().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("drop table for %T: %w", model, err)
		}
	}
	return nil
}

// TruncateTables removes every row from the models' tables.
func TruncateTables(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		_, err := db.NewTruncateTable().
			Model(model).
			Cascade().
			Exec(ctx)
		if err != nil {
			return err
		}
	}
	return nil
}

// CreateModelIndexes creates one index per column on the model's table.
// Index names are idx_<table>_<column> with commas in composite columns
// replaced by underscores.
func CreateModelIndexes(ctx context.Context, db bun.IDB, model any, columns ...string) error {
	return createModelIndexes(ctx, db, model, false, columns...)
}

// CreateModelUniqueIndexes creates unique indexes on the model's table.
func CreateModelUniqueIndexes(ctx context.Context, db bun.IDB, model any, columns ...string) error {
	return createModelIndexes(ctx, db, model, true, columns...)
}

func createModelIndexes(ctx context.Context, db bun.IDB, model any, unique bool, columns ...string) error {
	for _, column := range columns {
		indexName, err := ModelIndexName(db, model, column)
		if err != nil {
			return err
		}
		q := db.NewCreateIndex().
			Model(model).
			Index(indexName).
			IfNotExists()
		for _, c := range strings.Split(column, ",") {
			q = q.Column(strings.TrimSpace(c))
		}
		if unique {
			q = q.Unique()
		}
		if _, err = q.Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", indexName, err)
		}
	}
	return nil
}

// ModelIndexName returns the generated index name for a model column.
func ModelIndexName(db bun.IDB, model any, column string) (string, error) {
	if model == nil {
		return "", fmt.Errorf("model cannot be nil")
	}
	tableName := db.NewCreateIndex().Model(model).GetTableName()
	if tableName == "" {
		return "", fmt.Errorf("failed to resolve table name for model %T", model)
	}

	r := strings.NewReplacer(`"`, "", ".", "_", ",", "_", " ", "")
	return fmt.Sprintf("idx_%s_%s", r.Replace(tableName), r.Replace(column)), nil
}

// Run executes a single migration command against the database.
func Run(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger, command string) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch command {
	case "init":
		if err := migrator.Init(ctx); err != nil {
			return err
		}
		logger.Info("Migration table created")
		return nil

	case "up":
		if err := migrator.Init(ctx); err != nil {
			return err
		}
		return withLock(ctx, migrator, logger, func() error {
			group, err := migrator.Migrate(ctx)
			if err != nil {
				return err
			}
			if group.IsZero() {
				logger.Info("No new migrations to run (database is up to date)")
			} else {
				logger.Info("Migrated", zap.String("group", group.String()))
			}
			return nil
		})

	case "down":
		return withLock(ctx, migrator, logger, func() error {
			group, err := migrator.Rollback(ctx)
			if err != nil {
				return err
			}
			if group.IsZero() {
				logger.Info("No migrations to roll back")
			} else {
				logger.Info("Rolled back", zap.String("group", group.String()))
			}
			return nil
		})

	case "status":
		ms, err := migrator.MigrationsWithStatus(ctx)
		if err != nil {
			return err
		}
		logger.Info("Migration status",
			zap.String("migrations", ms.String()),
			zap.String("unapplied", ms.Unapplied().String()),
			zap.String("last_group", ms.LastGroup().String()))
		return nil

	default:
		return fmt.Errorf("unknown command %q (expected one of %s)", command, strings.Join(Commands, ", "))
	}
}

func withLock(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger, fn func() error) error {
	if err := migrator.Lock(ctx); err != nil {
		return fmt.Errorf("failed to acquire migration lock: %w", err)
	}
	defer func() {
		if err := migrator.Unlock(ctx); err != nil {
			logger.Warn("Failed to release migration lock", zap.Error(err))
		}
	}()
	return fn()
}

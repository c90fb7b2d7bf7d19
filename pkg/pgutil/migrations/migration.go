// Package migrations holds schema helpers shared by the monitor database migrations
// and the command that runs them.
package migrations

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"
)

const usageText = `Usage:
  bridgewatch-migrate [-config path] <command>

Commands:
  - init   - creates the migration bookkeeping tables
  - up     - applies every pending migration (runs init first)
  - down   - reverts the last migration group
  - status - prints applied and pending migrations

Examples:
  go run ./cmd/bridgewatch/migrate -config config.yaml up
  go run ./cmd/bridgewatch/migrate -config config.yaml status
`

// Usage prints the command list and flag defaults to stderr.
func Usage() {
	fmt.Fprint(os.Stderr, usageText)
	flag.PrintDefaults()
}

// CreateSchema creates a table per model, skipping tables that already exist
func CreateSchema(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	return nil
}

// DropTables drops the model tables along with dependent objects
func DropTables(ctx context.Context, db bun.IDB, models ...any) error {
	for _, model := range models {
		if _, err := db.NewDropTable().Model(model).IfExists().Cascade().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", model, err)
		}
	}
	return nil
}

// CreateModelIndexes creates one index per column on the model's table.
// Index names are generated as idx_<table>_<column>.
func CreateModelIndexes(ctx context.Context, db bun.IDB, model any, columns ...string) error {
	for _, column := range columns {
		indexName, err := modelIndexName(db, model, column)
		if err != nil {
			return err
		}
		if _, err = db.NewCreateIndex().
			Model(model).
			Index(indexName).
			Column(column).
			IfNotExists().
			Exec(ctx); err != nil {
			return fmt.Errorf("create index %s: %w", indexName, err)
		}
	}
	return nil
}

// CreateCompositeIndex creates one index over several columns.
// A non-empty where makes it a partial index.
func CreateCompositeIndex(ctx context.Context, db bun.IDB, tableName, indexName string, unique bool, where string, columns ...string) error {
	q := db.NewCreateIndex().
		Table(tableName).
		Index(indexName).
		Column(columns...).
		IfNotExists()
	if unique {
		q = q.Unique()
	}
	if where != "" {
		q = q.Where(where)
	}
	if _, err := q.Exec(ctx); err != nil {
		return fmt.Errorf("create index %s: %w", indexName, err)
	}
	return nil
}

func modelIndexName(db bun.IDB, model any, column string) (string, error) {
	if model == nil {
		return "", fmt.Errorf("model cannot be nil")
	}
	tableName := db.NewCreateIndex().Model(model).GetTableName()
	if tableName == "" {
		return "", fmt.Errorf("failed to resolve table name for model %T", model)
	}

	indexTableName := strings.NewReplacer(`"`, "", ".", "_").Replace(tableName)
	return fmt.Sprintf("idx_%s_%s", indexTableName, column), nil
}

type command func(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error

var commands = map[string]command{
	"init": func(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error {
		if err := m.Init(ctx); err != nil {
			return fmt.Errorf("init migration tables: %w", err)
		}
		logger.Info("Migration tables ready")
		return nil
	},
	"up": func(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error {
		if err := m.Init(ctx); err != nil {
			return fmt.Errorf("init migration tables: %w", err)
		}
		return locked(ctx, m, logger, func() error {
			group, err := m.Migrate(ctx)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			if group.IsZero() {
				logger.Info("Monitor schema is up to date")
				return nil
			}
			logger.Info("Applied migrations", zap.Int64("group", group.ID), zap.Strings("migrations", names(group.Migrations)))
			return nil
		})
	},
	"down": func(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error {
		return locked(ctx, m, logger, func() error {
			group, err := m.Rollback(ctx)
			if err != nil {
				return fmt.Errorf("rollback: %w", err)
			}
			if group.IsZero() {
				logger.Info("Nothing to roll back")
				return nil
			}
			logger.Info("Rolled back migrations", zap.Int64("group", group.ID), zap.Strings("migrations", names(group.Migrations)))
			return nil
		})
	},
	"status": func(ctx context.Context, m *migrate.Migrator, logger *zap.Logger) error {
		ms, err := m.MigrationsWithStatus(ctx)
		if err != nil {
			return fmt.Errorf("read migration status: %w", err)
		}
		logger.Info("Migration status",
			zap.Strings("applied", names(ms.Applied())),
			zap.Strings("pending", names(ms.Unapplied())),
			zap.Int64("last_group", ms.LastGroupID()))
		return nil
	},
}

// RunMigrations executes one of init, up, down or status against migrator.
func RunMigrations(ctx context.Context, migrator *migrate.Migrator, logger *zap.Logger, args ...string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}
	cmd, ok := commands[args[0]]
	if !ok {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return cmd(ctx, migrator, logger)
}

func locked(ctx context.Context, m *migrate.Migrator, logger *zap.Logger, fn func() error) error {
	if err := m.Lock(ctx); err != nil {
		return fmt.Errorf("acquire migration lock: %w", err)
	}
	defer func() {
		if err := m.Unlock(ctx); err != nil {
			logger.Warn("Failed to release migration lock", zap.Error(err))
		}
	}()
	return fn()
}

func names(ms migrate.MigrationSlice) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.Name
	}
	return out
}

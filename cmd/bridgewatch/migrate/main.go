package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/uptrace/bun/migrate"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/config"
	"github.com/chainsafe/bridgewatch/pkg/migrations/monitordb"
	"github.com/chainsafe/bridgewatch/pkg/pgutil"
	mghelper "github.com/chainsafe/bridgewatch/pkg/pgutil/migrations"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to configuration file")
	flag.Usage = mghelper.Usage
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("error reading configuration file: %s", err.Error())
	}
	if cfg.Storage.Driver != "postgres" {
		log.Fatalf("storage driver %q has no schema to migrate", cfg.Storage.Driver)
	}

	logger, err := config.NewLogger(cfg.Logging, "bridgewatch-migrate")
	if err != nil {
		log.Fatalf("error creating logger: %s", err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	db, err := pgutil.ConnectDB(ctx, &cfg.Database, logger)
	if err != nil {
		log.Fatalf("error connecting to database: %s", err.Error())
	}
	defer db.Close()

	logger.Info("Running monitor database migrations", zap.String("database", cfg.Database.Database))

	migrator := migrate.NewMigrator(db, monitordb.Migrations)
	if err := mghelper.RunMigrations(ctx, migrator, logger, flag.Args()...); err != nil {
		logger.Error("Migration command failed", zap.Strings("args", flag.Args()), zap.Error(err))
		_ = db.Close()
		flag.Usage()
		os.Exit(2)
	}
}

package monitordb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/bridgewatch/pkg/monitorstore"
	mghelper "github.com/chainsafe/bridgewatch/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating monitor_rules table...")
		if err := mghelper.CreateSchema(ctx, db, &monitorstore.RuleDao{}); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &monitorstore.RuleDao{}, "enabled")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping monitor_rules table...")
		return mghelper.DropTables(ctx, db, &monitorstore.RuleDao{})
	})
}

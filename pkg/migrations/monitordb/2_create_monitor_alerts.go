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
		log.Println("creating monitor_alerts table...")
		if err := mghelper.CreateSchema(ctx, db, &monitorstore.AlertDao{}); err != nil {
			return err
		}
		_, err := db.ExecContext(ctx, `ALTER TABLE monitor_alerts
			ADD CONSTRAINT fk_monitor_alerts_rule FOREIGN KEY (rule_id) REFERENCES monitor_rules (id) ON DELETE CASCADE`)
		if err != nil {
			return err
		}
		if err := mghelper.CreateModelIndexes(ctx, db, &monitorstore.AlertDao{},
			"rule_id", "entity_id", "status", "last_seen_at", "first_seen_at"); err != nil {
			return err
		}
		// at most one open alert per (rule, entity); the consumer's upsert targets this index
		return mghelper.CreateCompositeIndex(ctx, db, "monitor_alerts", "idx_monitor_alerts_open_entity",
			true, "status = 'open'", "rule_id", "entity_type", "entity_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping monitor_alerts table...")
		return mghelper.DropTables(ctx, db, &monitorstore.AlertDao{})
	})
}

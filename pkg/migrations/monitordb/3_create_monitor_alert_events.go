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
		log.Println("creating monitor_alert_events table...")
		if err := mghelper.CreateSchema(ctx, db, &monitorstore.AlertEventDao{}); err != nil {
			return err
		}
		_, err := db.ExecContext(ctx, `ALTER TABLE monitor_alert_events
			ADD CONSTRAINT fk_monitor_alert_events_alert FOREIGN KEY (alert_id) REFERENCES monitor_alerts (id) ON DELETE CASCADE`)
		if err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &monitorstore.AlertEventDao{}, "alert_id")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping monitor_alert_events table...")
		return mghelper.DropTables(ctx, db, &monitorstore.AlertEventDao{})
	})
}

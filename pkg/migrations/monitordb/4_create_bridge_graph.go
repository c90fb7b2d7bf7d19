package monitordb

import (
	"context"
	"log"

	"github.com/uptrace/bun"

	"github.com/chainsafe/bridgewatch/pkg/bridgegraph"
	mghelper "github.com/chainsafe/bridgewatch/pkg/pgutil/migrations"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		log.Println("creating bridge graph tables...")
		if err := mghelper.CreateSchema(ctx, db, &bridgegraph.AddressDao{}, &bridgegraph.LinkDao{}); err != nil {
			return err
		}
		if err := mghelper.CreateCompositeIndex(ctx, db, "bridge_links", "idx_bridge_links_edge",
			true, "", "from_address", "to_address", "tx_hash", "chain_from", "chain_to"); err != nil {
			return err
		}
		if err := mghelper.CreateCompositeIndex(ctx, db, "bridge_links", "idx_bridge_links_from_node",
			false, "", "from_address", "chain_from"); err != nil {
			return err
		}
		return mghelper.CreateModelIndexes(ctx, db, &bridgegraph.LinkDao{}, "to_address", "observed_at")
	}, func(ctx context.Context, db *bun.DB) error {
		log.Println("dropping bridge graph tables...")
		return mghelper.DropTables(ctx, db, &bridgegraph.LinkDao{}, &bridgegraph.AddressDao{})
	})
}

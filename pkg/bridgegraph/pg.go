package bridgegraph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/chainsafe/bridgewatch/pkg/bridge"
)

type pgStore struct {
	db  *bun.DB
	now func() time.Time
}

// NewStore creates a new postgres implementation of the bridge graph store
func NewStore(db *bun.DB) *pgStore {
	return &pgStore{db: db, now: time.Now}
}

const upsertAddressQuery = `
INSERT INTO bridge_addresses (address, chain, first_seen, last_seen)
VALUES (?, ?, ?, ?)
ON CONFLICT (address, chain) DO UPDATE SET
	last_seen = GREATEST(bridge_addresses.last_seen, EXCLUDED.last_seen)`

// upsertLinkQuery relies on the unique index over the edge key.
// xmax is zero only for a row version created by this statement's insert.
const upsertLinkQuery = `
INSERT INTO bridge_links
	(id, from_address, to_address, chain_from, chain_to, tx_hash, bridge, value,
	 token_address, detected_via, confidence, observed_at, last_seen)
VALUES (?, ?, ?, ?, ?, ?, ?, ?::numeric, ?, ?, ?, ?, ?)
ON CONFLICT (from_address, to_address, tx_hash, chain_from, chain_to) DO UPDATE SET
	last_seen = GREATEST(bridge_links.last_seen, EXCLUDED.last_seen)
RETURNING id, (xmax = 0) AS inserted`

func (s *pgStore) SaveBridgeLink(ctx context.Context, from, to string, rec bridge.Record) (string, error) {
	link := newLink(from, to, rec, s.now())
	link.ID = uuid.NewString()
	dao := toLinkDao(link)

	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, node := range [][2]string{{link.FromAddress, link.ChainFrom}, {link.ToAddress, link.ChainTo}} {
			if _, err := tx.NewRaw(upsertAddressQuery, node[0], node[1], link.Timestamp, link.LastSeen).Exec(ctx); err != nil {
				return fmt.Errorf("failed to merge address %s: %w", node[0], err)
			}
		}
		err := tx.NewRaw(upsertLinkQuery,
			dao.ID, dao.FromAddress, dao.ToAddress, dao.ChainFrom, dao.ChainTo, dao.TxHash,
			dao.Bridge, dao.Value, dao.TokenAddress, dao.DetectedVia, dao.Confidence,
			dao.ObservedAt, dao.LastSeen,
		).Scan(ctx, dao)
		if err != nil {
			return fmt.Errorf("failed to merge bridge link: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if !dao.Inserted {
		return "", nil
	}
	return dao.ID, nil
}

func (s *pgStore) GetLinksForAddress(ctx context.Context, address string, direction Direction, limit int) ([]*Link, error) {
	address = bridge.NormalizeAddress(address)

	var daos []LinkDao
	query := s.db.NewSelect().Model(&daos)
	switch direction {
	case DirectionOutgoing:
		query = query.Where("from_address = ?", address)
	case DirectionIncoming:
		query = query.Where("to_address = ?", address)
	default:
		query = query.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("from_address = ?", address).WhereOr("to_address = ?", address)
		})
	}

	err := query.
		Order("observed_at DESC", "id ASC").
		Limit(linkLimit(limit)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get bridge links: %w", err)
	}

	links := make([]*Link, len(daos))
	for i := range daos {
		links[i] = toLink(&daos[i])
	}
	return links, nil
}

// findPathsQuery walks outgoing bridge links from the start address. A node is an
// address on a chain; a path never revisits one and stops expanding once it reaches
// the target chain.
const findPathsQuery = `
WITH RECURSIVE paths AS (
	SELECT l.to_address, l.chain_to,
		ARRAY[l.id]::text[] AS edge_ids,
		ARRAY[l.from_address || '@' || l.chain_from, l.to_address || '@' || l.chain_to]::text[] AS nodes,
		1 AS depth
	FROM bridge_links l
	WHERE l.from_address = ?
		AND (? = '' OR l.chain_from = ?)
		AND l.to_address || '@' || l.chain_to <> l.from_address || '@' || l.chain_from
	UNION ALL
	SELECT l.to_address, l.chain_to,
		p.edge_ids || l.id::text,
		p.nodes || (l.to_address || '@' || l.chain_to),
		p.depth + 1
	FROM paths p
	JOIN bridge_links l ON l.from_address = p.to_address AND l.chain_from = p.chain_to
	WHERE p.depth < ?
		AND p.chain_to <> ?
		AND NOT (l.to_address || '@' || l.chain_to) = ANY(p.nodes)
)
SELECT edge_ids FROM paths
WHERE chain_to = ?
ORDER BY depth ASC, edge_ids ASC
LIMIT ?`

type pathRow struct {
	EdgeIDs []string `bun:"edge_ids,array"`
}

func (s *pgStore) FindCrossChainPath(ctx context.Context, address, fromChain, toChain string, maxHops int) ([]Path, error) {
	address = bridge.NormalizeAddress(address)
	fromChain = bridge.NormalizeChain(fromChain)
	toChain = bridge.NormalizeChain(toChain)
	maxHops = clampHops(maxHops)

	var rows []pathRow
	err := s.db.NewRaw(findPathsQuery,
		address, fromChain, fromChain, maxHops, toChain, toChain, MaxPaths,
	).Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to find cross-chain paths: %w", err)
	}
	if len(rows) == 0 {
		return []Path{}, nil
	}

	ids := make([]string, 0, len(rows)*maxHops)
	for _, r := range rows {
		ids = append(ids, r.EdgeIDs...)
	}
	var daos []LinkDao
	if err := s.db.NewSelect().Model(&daos).Where("id IN (?)", bun.In(ids)).Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to load path links: %w", err)
	}
	byID := make(map[string]*Link, len(daos))
	for i := range daos {
		byID[daos[i].ID] = toLink(&daos[i])
	}

	paths := make([]Path, 0, len(rows))
	for _, r := range rows {
		p := Path{Hops: make([]*Link, 0, len(r.EdgeIDs))}
		for _, id := range r.EdgeIDs {
			if l, ok := byID[id]; ok {
				p.Hops = append(p.Hops, l)
			}
		}
		paths = append(paths, p)
	}
	return paths, nil
}

type statRow struct {
	Bridge     string `bun:"bridge"`
	ChainFrom  string `bun:"chain_from"`
	ChainTo    string `bun:"chain_to"`
	TxCount    int    `bun:"tx_count"`
	TotalValue string `bun:"total_value"`
}

func (s *pgStore) GetStatistics(ctx context.Context) (*Statistics, error) {
	var rows []statRow
	err := s.db.NewSelect().
		Model((*LinkDao)(nil)).
		Column("bridge", "chain_from", "chain_to").
		ColumnExpr("COUNT(*) AS tx_count").
		ColumnExpr("COALESCE(SUM(value), 0)::text AS total_value").
		Group("bridge", "chain_from", "chain_to").
		OrderExpr("tx_count DESC, bridge ASC, chain_from ASC, chain_to ASC").
		Scan(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("failed to get bridge statistics: %w", err)
	}

	stats := &Statistics{Breakdown: make([]BridgeStat, len(rows))}
	for i, r := range rows {
		stats.TotalTx += r.TxCount
		stats.Breakdown[i] = BridgeStat{
			Bridge:     r.Bridge,
			ChainFrom:  r.ChainFrom,
			ChainTo:    r.ChainTo,
			TxCount:    r.TxCount,
			TotalValue: amount(r.TotalValue),
		}
	}
	return stats, nil
}

var _ Store = (*pgStore)(nil)

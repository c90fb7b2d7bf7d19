package bridgegraph

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/bridgewatch/pkg/bridge"
)

// The tests in this file run against every Store implementation.

func newRecord(chainFrom, chainTo, txHash, value string, at time.Time) bridge.Record {
	return bridge.Record{
		ChainFrom:   chainFrom,
		ChainTo:     chainTo,
		BridgeName:  "Wormhole",
		TxHash:      txHash,
		Value:       value,
		DetectedVia: bridge.DetectedViaContractAddress,
		Confidence:  0.8,
		ObservedAt:  at.UTC().Truncate(time.Microsecond),
	}
}

func testSaveBridgeLinkIsIdempotent(t *testing.T, ctx context.Context, s Store) {
	at := time.Now().Add(-time.Hour)
	rec := newRecord("ethereum", "solana", "0xtx1", "1000", at)

	id, err := s.SaveBridgeLink(ctx, "0xAAA", "SoLRecipient", rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rec.ObservedAt = rec.ObservedAt.Add(10 * time.Minute)
	again, err := s.SaveBridgeLink(ctx, "0xaaa", "solrecipient", rec)
	require.NoError(t, err)
	assert.Empty(t, again, "re-observing an edge must not create a new one")

	links, err := s.GetLinksForAddress(ctx, "0xaaa", DirectionOutgoing, 0)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, id, links[0].ID)
	assert.True(t, links[0].LastSeen.Equal(rec.ObservedAt), "last_seen should move forward")
	assert.True(t, links[0].Timestamp.Equal(at.UTC().Truncate(time.Microsecond)), "timestamp keeps the first observation")

	other := newRecord("ethereum", "solana", "0xtx2", "5", at)
	id2, err := s.SaveBridgeLink(ctx, "0xaaa", "solrecipient", other)
	require.NoError(t, err)
	assert.NotEmpty(t, id2)
	assert.NotEqual(t, id, id2)

	links, err = s.GetLinksForAddress(ctx, "0xaaa", DirectionOutgoing, 0)
	require.NoError(t, err)
	assert.Len(t, links, 2)
}

func testGetLinksForAddress(t *testing.T, ctx context.Context, s Store) {
	base := time.Now().Add(-time.Hour)
	_, err := s.SaveBridgeLink(ctx, "0xaaa", "0xbbb", newRecord("ethereum", "base", "0x1", "1", base))
	require.NoError(t, err)
	_, err = s.SaveBridgeLink(ctx, "0xccc", "0xaaa", newRecord("arbitrum", "ethereum", "0x2", "2", base.Add(time.Minute)))
	require.NoError(t, err)
	_, err = s.SaveBridgeLink(ctx, "0xddd", "0xeee", newRecord("ethereum", "base", "0x3", "3", base))
	require.NoError(t, err)

	out, err := s.GetLinksForAddress(ctx, "0xAAA", DirectionOutgoing, 10)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "0xbbb", out[0].ToAddress)

	in, err := s.GetLinksForAddress(ctx, "0xaaa", DirectionIncoming, 10)
	require.NoError(t, err)
	require.Len(t, in, 1)
	assert.Equal(t, "0xccc", in[0].FromAddress)

	both, err := s.GetLinksForAddress(ctx, "0xaaa", DirectionBoth, 10)
	require.NoError(t, err)
	require.Len(t, both, 2)
	assert.Equal(t, "0x2", both[0].TxHash, "links are ordered newest first")

	limited, err := s.GetLinksForAddress(ctx, "0xaaa", DirectionBoth, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func testFindCrossChainPath(t *testing.T, ctx context.Context, s Store) {
	at := time.Now()
	save := func(from, to, chainFrom, chainTo, tx string) {
		t.Helper()
		_, err := s.SaveBridgeLink(ctx, from, to, newRecord(chainFrom, chainTo, tx, "1", at))
		require.NoError(t, err)
	}
	// a@ethereum -> b@arbitrum -> c@optimism -> d@base, plus a direct a@ethereum -> d@base
	save("0xa", "0xb", "ethereum", "arbitrum", "0x1")
	save("0xb", "0xc", "arbitrum", "optimism", "0x2")
	save("0xc", "0xd", "optimism", "base", "0x3")
	save("0xa", "0xd", "ethereum", "base", "0x4")
	// a cycle back to the start must not be walked again
	save("0xb", "0xa", "arbitrum", "ethereum", "0x5")

	paths, err := s.FindCrossChainPath(ctx, "0xA", "ethereum", "base", 5)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, 1, paths[0].Len())
	assert.Equal(t, 3, paths[1].Len())
	assert.Equal(t, []string{"0x1", "0x2", "0x3"}, txHashes(paths[1]))

	for _, p := range paths {
		for i := 1; i < p.Len(); i++ {
			assert.Equal(t, p.Hops[i-1].ToAddress, p.Hops[i].FromAddress)
			assert.Equal(t, p.Hops[i-1].ChainTo, p.Hops[i].ChainFrom)
		}
	}

	short, err := s.FindCrossChainPath(ctx, "0xa", "ethereum", "base", 2)
	require.NoError(t, err)
	require.Len(t, short, 1)
	assert.Equal(t, 1, short[0].Len())

	// hop counts below one are clamped rather than rejected
	clamped, err := s.FindCrossChainPath(ctx, "0xa", "ethereum", "base", 0)
	require.NoError(t, err)
	for _, p := range clamped {
		assert.LessOrEqual(t, p.Len(), 1)
	}

	none, err := s.FindCrossChainPath(ctx, "0xa", "ethereum", "polygon", 5)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testFindCrossChainPathCapsResults(t *testing.T, ctx context.Context, s Store) {
	at := time.Now()
	for i := 0; i < MaxPaths+5; i++ {
		_, err := s.SaveBridgeLink(ctx, "0xhub", fmt.Sprintf("0xdest%02d", i),
			newRecord("ethereum", "base", fmt.Sprintf("0xtx%02d", i), "1", at))
		require.NoError(t, err)
	}

	paths, err := s.FindCrossChainPath(ctx, "0xhub", "", "base", 99)
	require.NoError(t, err)
	assert.Len(t, paths, MaxPaths)
	for _, p := range paths {
		assert.LessOrEqual(t, p.Len(), MaxPathHops)
	}
}

func testGetStatistics(t *testing.T, ctx context.Context, s Store) {
	at := time.Now()
	_, err := s.SaveBridgeLink(ctx, "0xa", "0xb", newRecord("ethereum", "solana", "0x1", "250000000000000000000", at))
	require.NoError(t, err)
	_, err = s.SaveBridgeLink(ctx, "0xa", "0xc", newRecord("ethereum", "solana", "0x2", "750000000000000000000", at))
	require.NoError(t, err)
	// a re-observation does not count twice
	_, err = s.SaveBridgeLink(ctx, "0xa", "0xc", newRecord("ethereum", "solana", "0x2", "750000000000000000000", at))
	require.NoError(t, err)
	stargate := newRecord("ethereum", "base", "0x3", "not-a-number", at)
	stargate.BridgeName = "Stargate"
	_, err = s.SaveBridgeLink(ctx, "0xa", "0xd", stargate)
	require.NoError(t, err)

	stats, err := s.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalTx)
	require.Len(t, stats.Breakdown, 2)
	assert.Equal(t, BridgeStat{
		Bridge: "Wormhole", ChainFrom: "ethereum", ChainTo: "solana",
		TxCount: 2, TotalValue: "1000000000000000000000",
	}, stats.Breakdown[0])
	assert.Equal(t, "Stargate", stats.Breakdown[1].Bridge)
	assert.Equal(t, "0", stats.Breakdown[1].TotalValue)
}

func txHashes(p Path) []string {
	out := make([]string, p.Len())
	for i, l := range p.Hops {
		out[i] = l.TxHash
	}
	return out
}

// Package bridgegraph persists detected bridge transfers as cross-chain edges between addresses
// and answers bounded path queries over them.
package bridgegraph

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/chainsafe/bridgewatch/pkg/bridge"
)

const (
	// MaxPathHops is the deepest path FindCrossChainPath will search.
	MaxPathHops = 5
	// MaxPaths caps the number of paths returned by FindCrossChainPath.
	MaxPaths = 10
	// DefaultLinkLimit applies when GetLinksForAddress is called without a limit.
	DefaultLinkLimit = 50
	// MaxLinkLimit caps GetLinksForAddress.
	MaxLinkLimit = 500
)

// Direction selects which edges of an address GetLinksForAddress returns
type Direction string

const (
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
	DirectionBoth     Direction = "both"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	switch d {
	case DirectionOutgoing, DirectionIncoming, DirectionBoth:
		return true
	}
	return false
}

// Link is one BRIDGE_LINK edge between two addresses on (possibly) different chains.
type Link struct {
	ID           string             `json:"id"`
	FromAddress  string             `json:"from_address"`
	ToAddress    string             `json:"to_address"`
	ChainFrom    string             `json:"chain_from"`
	ChainTo      string             `json:"chain_to"`
	TxHash       string             `json:"tx_hash"`
	Bridge       string             `json:"bridge"`
	Value        string             `json:"value"`
	TokenAddress string             `json:"token_address,omitempty"`
	DetectedVia  bridge.DetectedVia `json:"detected_via"`
	Confidence   float64            `json:"confidence"`
	Timestamp    time.Time          `json:"timestamp"`
	LastSeen     time.Time          `json:"last_seen"`
}

// Path is a chain of links where each hop starts at the address and chain the previous one ended on.
type Path struct {
	Hops []*Link `json:"hops"`
}

// Len returns the number of hops.
func (p Path) Len() int { return len(p.Hops) }

// BridgeStat aggregates the edges of one bridge route.
type BridgeStat struct {
	Bridge     string `json:"bridge"`
	ChainFrom  string `json:"chain_from"`
	ChainTo    string `json:"chain_to"`
	TxCount    int    `json:"tx_count"`
	TotalValue string `json:"total_value"`
}

// Statistics summarizes the bridge graph
type Statistics struct {
	TotalTx   int          `json:"total_tx"`
	Breakdown []BridgeStat `json:"breakdown"`
}

// Store persists bridge links. Every write is an idempotent merge so redelivered events never
// duplicate edges.
type Store interface {
	// SaveBridgeLink merges both address nodes and the edge keyed by
	// (from, to, tx_hash, chain_from, chain_to). It returns the new edge id, or "" when the
	// edge already existed, in which case only its last_seen moves forward.
	SaveBridgeLink(ctx context.Context, from, to string, rec bridge.Record) (string, error)
	GetLinksForAddress(ctx context.Context, address string, direction Direction, limit int) ([]*Link, error)
	FindCrossChainPath(ctx context.Context, address, fromChain, toChain string, maxHops int) ([]Path, error)
	GetStatistics(ctx context.Context) (*Statistics, error)
}

// clampHops bounds a requested hop count to [1, MaxPathHops].
func clampHops(maxHops int) int {
	switch {
	case maxHops < 1:
		return 1
	case maxHops > MaxPathHops:
		return MaxPathHops
	}
	return maxHops
}

func linkLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLinkLimit
	case limit > MaxLinkLimit:
		return MaxLinkLimit
	}
	return limit
}

// newLink normalizes a detection record into the edge that will be stored.
func newLink(from, to string, rec bridge.Record, now time.Time) *Link {
	observed := rec.ObservedAt
	if observed.IsZero() {
		observed = now
	}
	observed = observed.UTC()
	return &Link{
		FromAddress:  bridge.NormalizeAddress(from),
		ToAddress:    bridge.NormalizeAddress(to),
		ChainFrom:    bridge.NormalizeChain(rec.ChainFrom),
		ChainTo:      bridge.NormalizeChain(rec.ChainTo),
		TxHash:       rec.TxHash,
		Bridge:       rec.BridgeName,
		Value:        amount(rec.Value),
		TokenAddress: rec.TokenAddress,
		DetectedVia:  rec.DetectedVia,
		Confidence:   rec.Confidence,
		Timestamp:    observed,
		LastSeen:     observed,
	}
}

// amount returns v as a canonical decimal string, or "0" when v is not a number.
func amount(v string) string {
	d, err := decimal.NewFromString(v)
	if err != nil {
		return "0"
	}
	return d.String()
}

package consumer

import (
	"time"

	"github.com/chainsafe/bridgewatch/pkg/bridge"
	"github.com/chainsafe/bridgewatch/pkg/event"
)

// Entity types an alert can attach to
const (
	EntityTx      = "tx"
	EntityAddress = "address"
	EntityUnknown = "unknown"

	// UnknownEntityID is the id of the unknown entity
	UnknownEntityID = "n/a"
)

// Entity is what an alert raised for an event attaches to
type Entity struct {
	Type string
	ID   string
}

// DeriveEntity picks the transaction, then the destination address, then the source address.
func DeriveEntity(ev *event.Event) Entity {
	switch {
	case ev.TxHash != "":
		return Entity{Type: EntityTx, ID: ev.TxHash}
	case ev.ToAddress != "":
		return Entity{Type: EntityAddress, ID: bridge.NormalizeAddress(ev.ToAddress)}
	case ev.FromAddress != "":
		return Entity{Type: EntityAddress, ID: bridge.NormalizeAddress(ev.FromAddress)}
	}
	return Entity{Type: EntityUnknown, ID: UnknownEntityID}
}

// Enriched is an event prepared for rule evaluation
type Enriched struct {
	Event   *event.Event
	Entity  Entity
	Bridge  *bridge.Record
	Context map[string]any
}

// Enrich builds the rule evaluation context for ev. rec is the bridge detection
// result and may be nil. Enrich is a pure in-memory transform.
func Enrich(ev *event.Event, rec *bridge.Record) *Enriched {
	md := ev.Metadata
	entity := DeriveEntity(ev)

	ctx := map[string]any{
		"chain":       ev.Chain,
		"entity_type": entity.Type,
		"entity_id":   entity.ID,
		"metadata":    md.Map(),
	}
	setString(ctx, "tx_hash", ev.TxHash)
	setString(ctx, "from_address", bridge.NormalizeAddress(ev.FromAddress))
	setString(ctx, "to_address", bridge.NormalizeAddress(ev.ToAddress))
	setString(ctx, "value", ev.Value)
	setString(ctx, "contract_address", bridge.NormalizeAddress(ev.ContractAddress))
	setString(ctx, "token_symbol", ev.TokenSymbol)
	setString(ctx, "event_type", firstNonEmpty(ev.EventType, md.EventType))
	if ev.BlockNumber > 0 {
		ctx["block_number"] = ev.BlockNumber
	}
	if !ev.Timestamp.IsZero() {
		ctx["timestamp"] = ev.Timestamp.UTC().Format(time.RFC3339)
	}
	labels := make([]any, len(ev.Labels))
	for i, l := range ev.Labels {
		labels[i] = l
	}
	ctx["labels"] = labels

	chainFrom := bridge.NormalizeChain(ev.Chain)
	chainTo := bridge.NormalizeChain(md.DestinationChain)
	bridgeName := md.Bridge
	if rec != nil {
		chainFrom = rec.ChainFrom
		if rec.ChainTo != bridge.UnknownChain {
			chainTo = rec.ChainTo
		}
		bridgeName = rec.BridgeName
		ctx["detected_via"] = string(rec.DetectedVia)
		ctx["bridge_confidence"] = rec.Confidence
		setString(ctx, "bridge_value", rec.Value)
		setString(ctx, "token_address", rec.TokenAddress)
	}
	setString(ctx, "bridge", bridgeName)
	setString(ctx, "chain_from", chainFrom)
	setString(ctx, "chain_to", chainTo)

	involved := chainsInvolved(chainFrom, chainTo)
	ctx["chains_involved"] = involved
	ctx["cross_chain_hops"] = crossChainHops(md.Hop, involved)

	return &Enriched{
		Event:   ev,
		Entity:  entity,
		Bridge:  rec,
		Context: ctx,
	}
}

// AlertContext is the subset of the evaluation context stored on an alert.
func (e *Enriched) AlertContext() map[string]any {
	out := make(map[string]any)
	for _, key := range []string{
		"chain", "tx_hash", "from_address", "to_address", "value", "event_type",
		"bridge", "chain_from", "chain_to", "chains_involved", "cross_chain_hops", "detected_via",
	} {
		if v, ok := e.Context[key]; ok {
			out[key] = v
		}
	}
	return out
}

// chainsInvolved is 2 when distinct source and destination chains are known,
// 1 when a single chain is known and 0 otherwise.
func chainsInvolved(from, to string) int {
	switch {
	case from != "" && to != "" && from != to:
		return 2
	case from != "" || to != "":
		return 1
	}
	return 0
}

func crossChainHops(hop *int, involved int) int {
	if hop != nil && *hop >= 0 {
		return *hop
	}
	if involved == 2 {
		return 1
	}
	return 0
}

func setString(ctx map[string]any, key, value string) {
	if value != "" {
		ctx[key] = value
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

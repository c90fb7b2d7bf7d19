// Package event defines the canonical, chain-agnostic event consumed by the monitor.
package event

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Log is a raw EVM log attached to an event
type Log struct {
	Address string   `json:"address,omitempty"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// Event is the normalized representation of one on-chain action.
type Event struct {
	Chain           string    `json:"chain"`
	TxHash          string    `json:"tx_hash,omitempty"`
	BlockNumber     uint64    `json:"block_number,omitempty"`
	Timestamp       time.Time `json:"timestamp,omitempty"`
	FromAddress     string    `json:"from_address,omitempty"`
	ToAddress       string    `json:"to_address,omitempty"`
	Value           string    `json:"value,omitempty"`
	EventType       string    `json:"event_type,omitempty"`
	ContractAddress string    `json:"contract_address,omitempty"`
	TokenSymbol     string    `json:"token_symbol,omitempty"`
	Labels          []string  `json:"labels,omitempty"`
	Metadata        Metadata  `json:"metadata"`
}

// Metadata holds the well-known optional attributes of an event.
// Anything else received on the wire is preserved in Extra.
type Metadata struct {
	EventType        string
	Bridge           string
	BridgeProgram    string
	DestinationChain string
	WormholeChainID  *int64
	LayerZeroChainID *int64
	Hop              *int
	Recipient        string
	Logs             []Log
	Extra            map[string]any
}

const (
	keyEventType        = "event_type"
	keyBridge           = "bridge"
	keyBridgeProgram    = "bridge_program"
	keyDestinationChain = "destination_chain"
	keyWormholeChainID  = "wormhole_chain_id"
	keyLayerZeroChainID = "layerzero_chain_id"
	keyHop              = "hop"
	keyRecipient        = "recipient"
	keyLogs             = "logs"
)

// Decode parses a JSON payload into an Event.
func Decode(data []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("decode canonical event: %w", err)
	}
	if ev.Chain == "" {
		return nil, fmt.Errorf("decode canonical event: chain is required")
	}
	ev.Chain = strings.ToLower(ev.Chain)
	return &ev, nil
}

// UnmarshalJSON splits the metadata object into typed fields and Extra.
func (m *Metadata) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*m = Metadata{}
	for key, value := range raw {
		var err error
		switch key {
		case keyEventType:
			err = json.Unmarshal(value, &m.EventType)
		case keyBridge:
			err = json.Unmarshal(value, &m.Bridge)
		case keyBridgeProgram:
			err = json.Unmarshal(value, &m.BridgeProgram)
		case keyDestinationChain:
			err = json.Unmarshal(value, &m.DestinationChain)
		case keyRecipient:
			err = json.Unmarshal(value, &m.Recipient)
		case keyWormholeChainID:
			m.WormholeChainID, err = parseInt64(value)
		case keyLayerZeroChainID:
			m.LayerZeroChainID, err = parseInt64(value)
		case keyHop:
			var hop *int64
			if hop, err = parseInt64(value); err == nil && hop != nil {
				h := int(*hop)
				m.Hop = &h
			}
		case keyLogs:
			err = json.Unmarshal(value, &m.Logs)
		default:
			var v any
			if err = json.Unmarshal(value, &v); err == nil {
				if m.Extra == nil {
					m.Extra = make(map[string]any)
				}
				m.Extra[key] = v
			}
		}
		if err != nil {
			return fmt.Errorf("metadata.%s: %w", key, err)
		}
	}
	return nil
}

// MarshalJSON flattens typed fields and Extra back into one object.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Map())
}

// Map returns metadata as a flat map, the shape rules see under "metadata".
func (m Metadata) Map() map[string]any {
	out := make(map[string]any, len(m.Extra)+9)
	for k, v := range m.Extra {
		out[k] = v
	}
	if m.EventType != "" {
		out[keyEventType] = m.EventType
	}
	if m.Bridge != "" {
		out[keyBridge] = m.Bridge
	}
	if m.BridgeProgram != "" {
		out[keyBridgeProgram] = m.BridgeProgram
	}
	if m.DestinationChain != "" {
		out[keyDestinationChain] = m.DestinationChain
	}
	if m.Recipient != "" {
		out[keyRecipient] = m.Recipient
	}
	if m.WormholeChainID != nil {
		out[keyWormholeChainID] = *m.WormholeChainID
	}
	if m.LayerZeroChainID != nil {
		out[keyLayerZeroChainID] = *m.LayerZeroChainID
	}
	if m.Hop != nil {
		out[keyHop] = *m.Hop
	}
	if len(m.Logs) > 0 {
		logs := make([]any, len(m.Logs))
		for i, l := range m.Logs {
			topics := make([]any, len(l.Topics))
			for j, t := range l.Topics {
				topics[j] = t
			}
			logs[i] = map[string]any{"address": l.Address, "topics": topics, "data": l.Data}
		}
		out[keyLogs] = logs
	}
	return out
}

// parseInt64 accepts JSON numbers and numeric strings; null yields nil.
func parseInt64(raw json.RawMessage) (*int64, error) {
	if string(raw) == "null" {
		return nil, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, fmt.Errorf("expected integer")
		}
		n = json.Number(s)
	}
	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("expected integer: %w", err)
	}
	return &v, nil
}

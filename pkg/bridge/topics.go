package bridge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
)

// TopicInfo names an event topic and says whether it signals a bridge transfer.
type TopicInfo struct {
	Name        string `json:"name"`
	Bridge      string `json:"bridge,omitempty"`
	BridgeEvent bool   `json:"bridge_event"`
}

// TopicTable maps topic0 hashes to event names.
type TopicTable struct {
	mu      sync.RWMutex
	entries map[string]TopicInfo
}

type builtinTopic struct {
	signature string
	info      TopicInfo
}

var builtinTopics = []builtinTopic{
	{"Transfer(address,address,uint256)", TopicInfo{Name: "Transfer"}},
	{"Approval(address,address,uint256)", TopicInfo{Name: "Approval"}},
	{"LogMessagePublished(address,uint64,uint32,bytes,uint8)", TopicInfo{Name: "LogMessagePublished", Bridge: "Wormhole", BridgeEvent: true}},
	{"TransferRedeemed(uint16,bytes32,uint64)", TopicInfo{Name: "TransferRedeemed", Bridge: "Wormhole", BridgeEvent: true}},
	{"LockedERC20(address,address,address,uint256)", TopicInfo{Name: "LockedERC20", Bridge: "Polygon PoS Bridge", BridgeEvent: true}},
	{"LockedEther(address,address,uint256)", TopicInfo{Name: "LockedEther", Bridge: "Polygon PoS Bridge", BridgeEvent: true}},
	{"ETHDepositInitiated(address,address,uint256,bytes)", TopicInfo{Name: "ETHDepositInitiated", Bridge: "Optimism Bridge", BridgeEvent: true}},
	{"ERC20DepositInitiated(address,address,address,address,uint256,bytes)", TopicInfo{Name: "ERC20DepositInitiated", Bridge: "Optimism Bridge", BridgeEvent: true}},
	{"DepositInitiated(address,address,address,uint256,uint256)", TopicInfo{Name: "DepositInitiated", Bridge: "Arbitrum Bridge", BridgeEvent: true}},
	{"Swap(uint16,uint256,address,uint256,uint256,uint256,uint256,uint256)", TopicInfo{Name: "Swap", Bridge: "Stargate", BridgeEvent: true}},
	{"PacketSent(bytes,bytes,address)", TopicInfo{Name: "PacketSent", Bridge: "LayerZero", BridgeEvent: true}},
	{"V3FundsDeposited(address,address,uint256,uint256,uint256,uint32,uint32,uint32,uint32,address,address,address,bytes)", TopicInfo{Name: "V3FundsDeposited", Bridge: "Across", BridgeEvent: true}},
}

// NewTopicTable creates a table seeded with the built-in well-known topics.
func NewTopicTable() *TopicTable {
	t := &TopicTable{entries: make(map[string]TopicInfo, len(builtinTopics))}
	for _, b := range builtinTopics {
		t.entries[normalizeTopic(TopicHash(b.signature))] = b.info
	}
	return t
}

// Lookup returns the entry for topic.
func (t *TopicTable) Lookup(topic string) (TopicInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	info, ok := t.entries[normalizeTopic(topic)]
	return info, ok
}

// Name returns the event name for topic, or "".
func (t *TopicTable) Name(topic string) string {
	info, _ := t.Lookup(topic)
	return info.Name
}

// IsBridgeEvent reports whether topic is a known bridge event signature.
func (t *TopicTable) IsBridgeEvent(topic string) bool {
	info, ok := t.Lookup(topic)
	return ok && info.BridgeEvent
}

// Set adds or replaces the entry for topic.
func (t *TopicTable) Set(topic string, info TopicInfo) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[normalizeTopic(topic)] = info
}

// Len returns the number of known topics.
func (t *TopicTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// LoadOverrides applies operator overrides: first the JSON file at path, then envJSON,
// so environment entries win on conflict. Either may be empty.
//
// Entries map a topic hash either to a bare event name or to a TopicInfo object.
func (t *TopicTable) LoadOverrides(path, envJSON string) error {
	data, err := readOptionalFile(path)
	if err != nil {
		return fmt.Errorf("read topic overrides: %w", err)
	}
	if err := t.applyJSON(data); err != nil {
		return fmt.Errorf("topic overrides file %s: %w", path, err)
	}
	if err := t.applyJSON([]byte(envJSON)); err != nil {
		return fmt.Errorf("topic overrides env: %w", err)
	}
	return nil
}

func (t *TopicTable) applyJSON(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for topic, value := range raw {
		value = bytes.TrimSpace(value)
		var info TopicInfo
		if len(value) > 0 && value[0] == '"' {
			if err := json.Unmarshal(value, &info.Name); err != nil {
				return fmt.Errorf("topic %s: %w", topic, err)
			}
			if existing, ok := t.Lookup(topic); ok {
				info.Bridge = existing.Bridge
				info.BridgeEvent = existing.BridgeEvent
			}
		} else if err := json.Unmarshal(value, &info); err != nil {
			return fmt.Errorf("topic %s: %w", topic, err)
		}
		t.Set(topic, info)
	}
	return nil
}

func normalizeTopic(topic string) string {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic != "" && !strings.HasPrefix(topic, "0x") {
		topic = "0x" + topic
	}
	return topic
}

func readOptionalFile(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s does not exist", path)
	}
	return data, err
}

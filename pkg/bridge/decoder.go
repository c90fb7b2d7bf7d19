package bridge

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
)

const (
	wordSize = 32

	confidenceFallbackSender = 0.5
	confidenceFallbackAmount = 0.6
	confidenceSpec           = 0.85
	confidenceERC20          = 0.95

	// ConfidenceUnverified is the threshold below which a decode is detected but unverified.
	ConfidenceUnverified = 0.5
)

// RawLog is an undecoded EVM log.
type RawLog struct {
	Topics []string `json:"topics"`
	Data   string   `json:"data"`
}

// EventSpec tells the decoder where the fields of one event live.
// Sender and receiver indexes point into topics; the amount index points into 32-byte data words.
type EventSpec struct {
	Name            string `json:"name"`
	SenderIndex     *int   `json:"sender_index,omitempty"`
	ReceiverIndex   *int   `json:"receiver_index,omitempty"`
	AmountWordIndex *int   `json:"amount_word_index,omitempty"`
	TokenIsContract bool   `json:"token_is_contract"`
}

// DecodedEvent is the best-effort interpretation of a RawLog.
type DecodedEvent struct {
	Chain      string  `json:"chain"`
	EventName  string  `json:"event_name,omitempty"`
	Sender     string  `json:"sender,omitempty"`
	Receiver   string  `json:"receiver,omitempty"`
	Amount     string  `json:"amount,omitempty"`
	Token      string  `json:"token,omitempty"`
	Confidence float64 `json:"confidence"`
}

// Verified reports whether the decode is trustworthy enough to act on.
func (d DecodedEvent) Verified() bool {
	return d.Confidence >= ConfidenceUnverified
}

// Decoder decodes logs heuristically using the topic table and per-event specs.
type Decoder struct {
	topics *TopicTable
	specs  map[string]EventSpec
}

func index(i int) *int { return &i }

// builtinSpecs covers bridge events whose layout is stable across deployments.
func builtinSpecs() map[string]EventSpec {
	specs := map[string]EventSpec{
		"LockedERC20(address,address,address,uint256)": {
			Name: "LockedERC20", SenderIndex: index(1), ReceiverIndex: index(2), AmountWordIndex: index(0),
		},
		"LockedEther(address,address,uint256)": {
			Name: "LockedEther", SenderIndex: index(1), ReceiverIndex: index(2), AmountWordIndex: index(0),
		},
		"ETHDepositInitiated(address,address,uint256,bytes)": {
			Name: "ETHDepositInitiated", SenderIndex: index(1), ReceiverIndex: index(2), AmountWordIndex: index(0),
		},
		"ERC20DepositInitiated(address,address,address,address,uint256,bytes)": {
			Name: "ERC20DepositInitiated", SenderIndex: index(3), AmountWordIndex: index(1),
		},
		"DepositInitiated(address,address,address,uint256,uint256)": {
			Name: "DepositInitiated", SenderIndex: index(1), ReceiverIndex: index(2), AmountWordIndex: index(1),
		},
	}
	out := make(map[string]EventSpec, len(specs))
	for sig, spec := range specs {
		out[normalizeTopic(TopicHash(sig))] = spec
	}
	return out
}

// NewDecoder creates a decoder. Operator specs replace built-in specs for the same topic.
func NewDecoder(topics *TopicTable, specs map[string]EventSpec) *Decoder {
	merged := builtinSpecs()
	for topic, spec := range specs {
		merged[normalizeTopic(topic)] = spec
	}
	return &Decoder{topics: topics, specs: merged}
}

// LoadEventSpecs reads operator event specs keyed by topic0: first the JSON file at path,
// then envJSON, so environment entries win on conflict.
func LoadEventSpecs(path, envJSON string) (map[string]EventSpec, error) {
	specs := make(map[string]EventSpec)

	data, err := readOptionalFile(path)
	if err != nil {
		return nil, fmt.Errorf("read event specs: %w", err)
	}
	for _, src := range [][]byte{data, []byte(envJSON)} {
		if len(bytes.TrimSpace(src)) == 0 {
			continue
		}
		var parsed map[string]EventSpec
		if err := json.Unmarshal(src, &parsed); err != nil {
			return nil, fmt.Errorf("parse event specs: %w", err)
		}
		for topic, spec := range parsed {
			specs[normalizeTopic(topic)] = spec
		}
	}
	return specs, nil
}

// DecodeBridgeLog infers event name, sender, receiver, amount and token from a raw log.
// It never fails: undecodable parts are left empty and lower the confidence.
func (d *Decoder) DecodeBridgeLog(chainID, contractAddress string, log RawLog) DecodedEvent {
	out := DecodedEvent{Chain: NormalizeChain(chainID)}
	if len(log.Topics) == 0 {
		return out
	}

	topic0 := normalizeTopic(log.Topics[0])
	out.EventName = d.topics.Name(topic0)
	contract := NormalizeAddress(contractAddress)
	words := dataWords(log.Data)

	if spec, ok := d.specs[topic0]; ok {
		if spec.Name != "" {
			out.EventName = spec.Name
		}
		extracted := false
		if addr, ok := topicAddressAt(log.Topics, spec.SenderIndex); ok {
			out.Sender = addr
			extracted = true
		}
		if addr, ok := topicAddressAt(log.Topics, spec.ReceiverIndex); ok {
			out.Receiver = addr
			extracted = true
		}
		if spec.AmountWordIndex != nil && *spec.AmountWordIndex >= 0 && *spec.AmountWordIndex < len(words) {
			out.Amount = wordToDecimal(words[*spec.AmountWordIndex])
			extracted = true
		}
		if spec.TokenIsContract && contract != "" {
			out.Token = contract
		}
		if extracted {
			out.Confidence = confidenceSpec
		}
	}

	if out.EventName == "Transfer" && len(log.Topics) >= 3 {
		sender, okFrom := decodeTopicAddress(log.Topics[1])
		receiver, okTo := decodeTopicAddress(log.Topics[2])
		if okFrom && okTo {
			out.Sender = sender
			out.Receiver = receiver
			if len(words) > 0 {
				out.Amount = wordToDecimal(words[0])
			}
			out.Token = contract
			out.Confidence = confidenceERC20
			return out
		}
	}

	if len(log.Topics) >= 2 && out.Sender == "" {
		if addr, ok := decodeTopicAddress(log.Topics[1]); ok {
			out.Sender = addr
			out.Confidence = max(out.Confidence, confidenceFallbackSender)
		}
	}
	if out.Amount == "" && (len(words) == 1 || len(words) == 2) && exactWords(log.Data) {
		out.Amount = wordToDecimal(words[0])
		out.Confidence = max(out.Confidence, confidenceFallbackAmount)
	}
	if out.Token == "" {
		out.Token = contract
	}
	return out
}

func topicAddressAt(topics []string, idx *int) (string, bool) {
	if idx == nil || *idx < 0 || *idx >= len(topics) {
		return "", false
	}
	return decodeTopicAddress(topics[*idx])
}

// decodeTopicAddress reads a 32-byte topic as a left-padded address, taking its last 20 bytes.
func decodeTopicAddress(topic string) (string, bool) {
	b, ok := decodeHex(topic)
	if !ok || len(b) != wordSize {
		return "", false
	}
	return strings.ToLower(common.BytesToAddress(b).Hex()), true
}

// dataWords splits hex data into whole 32-byte words; a trailing partial word is dropped.
func dataWords(data string) [][]byte {
	b, ok := decodeHex(data)
	if !ok {
		return nil
	}
	words := make([][]byte, 0, len(b)/wordSize)
	for i := 0; i+wordSize <= len(b); i += wordSize {
		words = append(words, b[i:i+wordSize])
	}
	return words
}

func exactWords(data string) bool {
	b, ok := decodeHex(data)
	return ok && len(b)%wordSize == 0
}

func decodeHex(s string) ([]byte, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" {
		return nil, false
	}
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, false
	}
	return b, true
}

func wordToDecimal(word []byte) string {
	return decimal.NewFromBigInt(new(big.Int).SetBytes(word), 0).String()
}

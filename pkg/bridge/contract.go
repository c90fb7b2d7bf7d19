// Package bridge detects cross-chain bridge transfers in canonical events without full contract ABIs.
package bridge

import (
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Type classifies a bridge contract
type Type string

const (
	TypeCanonical  Type = "canonical"
	TypeThirdParty Type = "third_party"
)

// DetectedVia records which detection step matched
type DetectedVia string

const (
	DetectedViaContractAddress DetectedVia = "contract_address"
	DetectedViaEventSignature  DetectedVia = "event_signature"
	DetectedViaMetadata        DetectedVia = "metadata"
)

// Contract is a known bridge contract on one chain.
type Contract struct {
	Address           string   `json:"address"`
	Chain             string   `json:"chain"`
	Name              string   `json:"name"`
	Type              Type     `json:"bridge_type"`
	CounterpartChains []string `json:"counterpart_chains"`
	MethodSelectors   []string `json:"method_selectors"`
}

// normalized returns a copy with lower-cased keys and selectors.
func (c Contract) normalized() Contract {
	out := c
	out.Address = NormalizeAddress(c.Address)
	out.Chain = NormalizeChain(c.Chain)
	if out.Type == "" {
		out.Type = TypeThirdParty
	}
	out.CounterpartChains = make([]string, 0, len(c.CounterpartChains))
	for _, ch := range c.CounterpartChains {
		if ch = NormalizeChain(ch); ch != "" {
			out.CounterpartChains = append(out.CounterpartChains, ch)
		}
	}
	out.MethodSelectors = make([]string, 0, len(c.MethodSelectors))
	for _, sel := range c.MethodSelectors {
		if sel = NormalizeSelector(sel); sel != "" {
			out.MethodSelectors = append(out.MethodSelectors, sel)
		}
	}
	return out
}

// Record is the normalized output of a positive bridge detection.
type Record struct {
	ChainFrom    string      `json:"chain_from"`
	ChainTo      string      `json:"chain_to"`
	BridgeName   string      `json:"bridge_name"`
	TxHash       string      `json:"tx_hash"`
	FromAddress  string      `json:"from_address"`
	ToAddress    string      `json:"to_address"`
	Value        string      `json:"value"`
	TokenAddress string      `json:"token_address,omitempty"`
	TokenSymbol  string      `json:"token_symbol,omitempty"`
	DetectedVia  DetectedVia `json:"detected_via"`
	ObservedAt   time.Time   `json:"observed_at"`
	// Confidence drops below 1 when the destination chain was inferred rather than read.
	Confidence float64 `json:"confidence"`
}

// NormalizeAddress lower-cases and trims an address or program id.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// NormalizeChain lower-cases and trims a chain name.
func NormalizeChain(chain string) string {
	return strings.ToLower(strings.TrimSpace(chain))
}

// NormalizeSelector returns a lower-case 0x-prefixed selector, or "" when sel is not 4 bytes of hex.
func NormalizeSelector(sel string) string {
	sel = strings.ToLower(strings.TrimSpace(sel))
	if !strings.HasPrefix(sel, "0x") {
		sel = "0x" + sel
	}
	b, err := hexutil.Decode(sel)
	if err != nil || len(b) != 4 {
		return ""
	}
	return sel
}

// Selector returns the 4-byte method selector of a Solidity method signature.
func Selector(signature string) string {
	return hexutil.Encode(crypto.Keccak256([]byte(signature))[:4])
}

// TopicHash returns the topic0 hash of a Solidity event signature.
func TopicHash(signature string) string {
	return crypto.Keccak256Hash([]byte(signature)).Hex()
}

package bridge

import (
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/chainsafe/bridgewatch/pkg/event"
)

const (
	confidenceExplicitDestination = 1.0
	confidenceSingleCounterpart   = 0.8
	confidenceFirstCounterpart    = 0.5
	confidenceUnknownDestination  = 0.3

	unknownBridge = "unknown"
)

// UnknownChain is the destination of a record whose target chain could not be resolved.
const UnknownChain = "unknown"

// Detector decides whether a canonical event is a bridge transfer.
type Detector struct {
	registry *Registry
	topics   *TopicTable
	decoder  *Decoder
	logger   *zap.Logger
}

// NewDetector creates a detector over a shared registry, topic table and decoder.
func NewDetector(registry *Registry, topics *TopicTable, decoder *Decoder, logger *zap.Logger) *Detector {
	return &Detector{
		registry: registry,
		topics:   topics,
		decoder:  decoder,
		logger:   logger,
	}
}

// DetectBridge returns a bridge record when ev matches, by precedence, a registered contract
// address, a known bridge event signature, or a registered metadata bridge program.
func (d *Detector) DetectBridge(ev *event.Event) (Record, bool) {
	if ev == nil {
		return Record{}, false
	}
	chain := NormalizeChain(ev.Chain)

	if c, ok := d.registry.GetContract(ev.ToAddress, chain); ok {
		return d.buildRecord(ev, &c, DetectedViaContractAddress, d.decodeLogs(ev, "")), true
	}

	for _, l := range ev.Metadata.Logs {
		if len(l.Topics) == 0 {
			continue
		}
		info, ok := d.topics.Lookup(l.Topics[0])
		if !ok || !info.BridgeEvent {
			continue
		}
		findings := d.decodeLogs(ev, l.Topics[0])

		var contract *Contract
		if c, ok := d.registry.GetContract(logAddress(ev, l), chain); ok {
			contract = &c
		}
		rec := d.buildRecord(ev, contract, DetectedViaEventSignature, findings)
		if contract == nil {
			rec.BridgeName = firstNonEmpty(info.Bridge, ev.Metadata.Bridge, unknownBridge)
		}
		return rec, true
	}

	if program := ev.Metadata.BridgeProgram; program != "" {
		if c, ok := d.registry.GetContract(program, chain); ok {
			return d.buildRecord(ev, &c, DetectedViaMetadata, d.decodeLogs(ev, "")), true
		}
	}

	return Record{}, false
}

// logFindings is what the event's logs add to a detection.
type logFindings struct {
	bridgeLog *DecodedEvent
	transfer  *DecodedEvent
}

// decodeLogs decodes every log, keeping the first bridge-event decode (preferring topic0 == want)
// and the first ERC-20 Transfer.
func (d *Detector) decodeLogs(ev *event.Event, want string) logFindings {
	var f logFindings
	for _, l := range ev.Metadata.Logs {
		if len(l.Topics) == 0 {
			continue
		}
		decoded := d.decoder.DecodeBridgeLog(ev.Chain, logAddress(ev, l), RawLog{Topics: l.Topics, Data: l.Data})
		switch {
		case decoded.EventName == "Transfer" && decoded.Confidence >= confidenceERC20:
			if f.transfer == nil {
				f.transfer = &decoded
			}
		case d.topics.IsBridgeEvent(l.Topics[0]):
			if f.bridgeLog == nil || (want != "" && normalizeTopic(l.Topics[0]) == normalizeTopic(want)) {
				f.bridgeLog = &decoded
			}
		}
	}
	return f
}

func (d *Detector) buildRecord(ev *event.Event, contract *Contract, via DetectedVia, f logFindings) Record {
	chainFrom := NormalizeChain(ev.Chain)
	chainTo, confidence := resolveDestination(ev, contract)

	rec := Record{
		ChainFrom:   chainFrom,
		ChainTo:     chainTo,
		BridgeName:  firstNonEmpty(ev.Metadata.Bridge, unknownBridge),
		TxHash:      ev.TxHash,
		FromAddress: NormalizeAddress(ev.FromAddress),
		ToAddress:   NormalizeAddress(ev.ToAddress),
		Value:       normalizeValue(ev.Value),
		TokenSymbol: ev.TokenSymbol,
		DetectedVia: via,
		ObservedAt:  ev.Timestamp,
		Confidence:  confidence,
	}
	if contract != nil {
		rec.BridgeName = contract.Name
	}

	if f.transfer != nil {
		rec.TokenAddress = f.transfer.Token
		if isZero(rec.Value) && f.transfer.Amount != "" {
			rec.Value = f.transfer.Amount
		}
	}
	if f.bridgeLog != nil && f.bridgeLog.Verified() {
		if rec.FromAddress == "" {
			rec.FromAddress = f.bridgeLog.Sender
		}
		if f.bridgeLog.Receiver != "" {
			rec.ToAddress = f.bridgeLog.Receiver
		}
		if isZero(rec.Value) && f.bridgeLog.Amount != "" {
			rec.Value = f.bridgeLog.Amount
		}
	}
	if ev.Metadata.Recipient != "" {
		rec.ToAddress = NormalizeAddress(ev.Metadata.Recipient)
	}

	if d.logger != nil {
		d.logger.Debug("Bridge transfer detected",
			zap.String("bridge", rec.BridgeName),
			zap.String("detected_via", string(via)),
			zap.String("chain_from", rec.ChainFrom),
			zap.String("chain_to", rec.ChainTo),
			zap.String("tx_hash", rec.TxHash),
			zap.Float64("confidence", rec.Confidence))
	}
	return rec
}

// resolveDestination reads an explicit destination from metadata, else takes the contract's
// first counterpart chain. Choosing among several counterparts lowers the confidence.
func resolveDestination(ev *event.Event, contract *Contract) (string, float64) {
	md := ev.Metadata
	switch {
	case md.DestinationChain != "":
		return NormalizeChain(md.DestinationChain), confidenceExplicitDestination
	case md.WormholeChainID != nil:
		return WormholeChainName(*md.WormholeChainID), confidenceExplicitDestination
	case md.LayerZeroChainID != nil:
		return LayerZeroChainName(*md.LayerZeroChainID), confidenceExplicitDestination
	}

	if contract == nil || len(contract.CounterpartChains) == 0 {
		return UnknownChain, confidenceUnknownDestination
	}
	confidence := confidenceFirstCounterpart
	if len(contract.CounterpartChains) == 1 {
		confidence = confidenceSingleCounterpart
	}
	return contract.CounterpartChains[0], confidence
}

func logAddress(ev *event.Event, l event.Log) string {
	return firstNonEmpty(l.Address, ev.ContractAddress, ev.ToAddress)
}

// normalizeValue keeps decimal strings exactly and converts 0x quantities; anything unparsable becomes "0".
func normalizeValue(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "0"
	}
	if strings.HasPrefix(v, "0x") {
		n, err := hexutil.DecodeBig(v)
		if err != nil {
			return "0"
		}
		return decimal.NewFromBigInt(n, 0).String()
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return "0"
	}
	return d.String()
}

func isZero(v string) bool {
	d, err := decimal.NewFromString(v)
	return err != nil || d.IsZero()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

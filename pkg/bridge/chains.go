package bridge

import "fmt"

// wormholeChains maps Wormhole chain ids to chain names.
var wormholeChains = map[int64]string{
	1:  "solana",
	2:  "ethereum",
	3:  "terra",
	4:  "bsc",
	5:  "polygon",
	6:  "avalanche",
	7:  "oasis",
	8:  "algorand",
	10: "fantom",
	13: "klaytn",
	14: "celo",
	15: "near",
	16: "moonbeam",
	21: "sui",
	22: "aptos",
	23: "arbitrum",
	24: "optimism",
	30: "base",
}

// layerZeroChains maps LayerZero v1 chain ids and v2 endpoint ids to chain names.
var layerZeroChains = map[int64]string{
	101:   "ethereum",
	102:   "bsc",
	106:   "avalanche",
	109:   "polygon",
	110:   "arbitrum",
	111:   "optimism",
	112:   "fantom",
	184:   "base",
	30101: "ethereum",
	30102: "bsc",
	30106: "avalanche",
	30109: "polygon",
	30110: "arbitrum",
	30111: "optimism",
	30112: "fantom",
	30184: "base",
}

// WormholeChainName maps a Wormhole chain id, falling back to "wormhole_chain_<id>".
func WormholeChainName(id int64) string {
	return chainName(wormholeChains, "wormhole", id)
}

// LayerZeroChainName maps a LayerZero chain or endpoint id, falling back to "layerzero_chain_<id>".
func LayerZeroChainName(id int64) string {
	return chainName(layerZeroChains, "layerzero", id)
}

func chainName(table map[int64]string, protocol string, id int64) string {
	if name, ok := table[id]; ok {
		return name
	}
	return fmt.Sprintf("%s_chain_%d", protocol, id)
}

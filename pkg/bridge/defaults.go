package bridge

// WormholeTokenBridgeEthereum is the Wormhole portal token bridge on Ethereum mainnet.
const WormholeTokenBridgeEthereum = "0x3ee18b2214aff97000d974cf647e7c347e8fa585"

func selectors(signatures ...string) []string {
	out := make([]string, len(signatures))
	for i, sig := range signatures {
		out[i] = Selector(sig)
	}
	return out
}

// DefaultContracts returns the built-in bridge contracts loaded at startup.
func DefaultContracts() []Contract {
	wormholeTargets := []string{"solana", "bsc", "polygon", "avalanche", "arbitrum", "optimism", "base"}
	return []Contract{
		{
			Address:           WormholeTokenBridgeEthereum,
			Chain:             "ethereum",
			Name:              "Wormhole",
			Type:              TypeThirdParty,
			CounterpartChains: wormholeTargets,
			MethodSelectors: selectors(
				"transferTokens(address,uint256,uint16,bytes32,uint256,uint32)",
				"wrapAndTransferETH(uint16,bytes32,uint256,uint32)",
				"completeTransfer(bytes)",
			),
		},
		{
			Address:           "0x98f3c9e6e3face36baad05fe09d375ef1464288b",
			Chain:             "ethereum",
			Name:              "Wormhole",
			Type:              TypeThirdParty,
			CounterpartChains: wormholeTargets,
			MethodSelectors:   selectors("publishMessage(uint32,bytes,uint8)"),
		},
		{
			Address:           "worm2ZoG2kUd4vFXhvjh93UUH596ayRfgQ2MgjNMTth",
			Chain:             "solana",
			Name:              "Wormhole",
			Type:              TypeThirdParty,
			CounterpartChains: []string{"ethereum", "bsc", "polygon", "avalanche", "arbitrum", "optimism", "base"},
		},
		{
			Address:           "wormDTUJ6AWPNvk59vGQbDvGJmqbDTdgWgAqcLBCgUb",
			Chain:             "solana",
			Name:              "Wormhole",
			Type:              TypeThirdParty,
			CounterpartChains: []string{"ethereum", "bsc", "polygon", "avalanche", "arbitrum", "optimism", "base"},
		},
		{
			Address:           "0xa0c68c638235ee32657e8f720a23cec1bfc77c77",
			Chain:             "ethereum",
			Name:              "Polygon PoS Bridge",
			Type:              TypeCanonical,
			CounterpartChains: []string{"polygon"},
			MethodSelectors: selectors(
				"depositFor(address,address,bytes)",
				"depositEtherFor(address)",
				"exit(bytes)",
			),
		},
		{
			Address:           "0x72ce9c846789fdb6fc1f34ac4ad25dd9ef7031ef",
			Chain:             "ethereum",
			Name:              "Arbitrum Bridge",
			Type:              TypeCanonical,
			CounterpartChains: []string{"arbitrum"},
			MethodSelectors: selectors(
				"outboundTransfer(address,address,uint256,uint256,uint256,bytes)",
				"outboundTransferCustomRefund(address,address,address,uint256,uint256,uint256,bytes)",
			),
		},
		{
			Address:           "0x99c9fc46f92e8a1c0dec1b1747d010903e884be1",
			Chain:             "ethereum",
			Name:              "Optimism Bridge",
			Type:              TypeCanonical,
			CounterpartChains: []string{"optimism"},
			MethodSelectors: selectors(
				"depositETH(uint32,bytes)",
				"depositETHTo(address,uint32,bytes)",
				"depositERC20(address,address,uint256,uint32,bytes)",
				"depositERC20To(address,address,address,uint256,uint32,bytes)",
			),
		},
		{
			Address:           "0x8731d54e9d02c286767d56ac03e8037c07e01e98",
			Chain:             "ethereum",
			Name:              "Stargate",
			Type:              TypeThirdParty,
			CounterpartChains: []string{"bsc", "avalanche", "polygon", "arbitrum", "optimism", "base"},
			MethodSelectors: selectors(
				"swap(uint16,uint256,uint256,address,uint256,uint256,(uint256,uint256,bytes),bytes,bytes)",
				"swapETH(uint16,address,bytes,uint256,uint256)",
			),
		},
		{
			Address:           "0x66a71dcef29a0ffbdbe3c6a460a3b5bc225cd675",
			Chain:             "ethereum",
			Name:              "LayerZero",
			Type:              TypeThirdParty,
			CounterpartChains: []string{"bsc", "avalanche", "polygon", "arbitrum", "optimism", "base"},
			MethodSelectors:   selectors("send(uint16,bytes,bytes,address,address,bytes)"),
		},
		{
			Address:           "0x5c7bcd6e7de5423a257d81b442095a1a6ced35c5",
			Chain:             "ethereum",
			Name:              "Across",
			Type:              TypeThirdParty,
			CounterpartChains: []string{"arbitrum", "optimism", "polygon", "base"},
			MethodSelectors: selectors(
				"depositV3(address,address,address,address,uint256,uint256,uint256,address,uint32,uint32,uint32,bytes)",
			),
		},
	}
}

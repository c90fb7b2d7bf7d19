package bridge

import (
	"sort"
	"sync"
)

type contractKey struct {
	chain   string
	address string
}

// Registry is the in-memory catalog of known bridge contracts.
// Reads take a shared lock; Register and Remove serialize.
type Registry struct {
	mu        sync.RWMutex
	contracts map[contractKey]Contract
	// selectors counts how many registered contracts declare each selector.
	selectors map[string]int
}

// RegistryStats summarizes registry contents
type RegistryStats struct {
	TotalContracts int `json:"total_contracts"`
	TotalChains    int `json:"total_chains"`
	TotalSelectors int `json:"total_selectors"`
}

// NewRegistry creates a registry seeded with contracts.
func NewRegistry(contracts ...Contract) *Registry {
	r := &Registry{
		contracts: make(map[contractKey]Contract),
		selectors: make(map[string]int),
	}
	for _, c := range contracts {
		r.Register(c)
	}
	return r
}

// Register upserts a contract keyed by (chain, address). It always succeeds.
func (r *Registry) Register(c Contract) bool {
	c = c.normalized()
	key := contractKey{chain: c.Chain, address: c.Address}

	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.contracts[key]; ok {
		r.releaseSelectors(old)
	}
	r.contracts[key] = c
	for _, sel := range c.MethodSelectors {
		r.selectors[sel]++
	}
	return true
}

// Remove deletes the contract at (address, chain) and reports whether it existed.
func (r *Registry) Remove(address, chain string) bool {
	key := contractKey{chain: NormalizeChain(chain), address: NormalizeAddress(address)}

	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.contracts[key]
	if !ok {
		return false
	}
	r.releaseSelectors(old)
	delete(r.contracts, key)
	return true
}

func (r *Registry) releaseSelectors(c Contract) {
	for _, sel := range c.MethodSelectors {
		if r.selectors[sel] <= 1 {
			delete(r.selectors, sel)
			continue
		}
		r.selectors[sel]--
	}
}

// IsBridgeContract reports whether address is a registered bridge on chain.
func (r *Registry) IsBridgeContract(address, chain string) bool {
	_, ok := r.GetContract(address, chain)
	return ok
}

// IsBridgeMethod reports whether selector belongs to any registered contract, on any chain.
func (r *Registry) IsBridgeMethod(selector string) bool {
	sel := NormalizeSelector(selector)
	if sel == "" {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.selectors[sel]
	return ok
}

// GetContract returns the contract registered at (address, chain).
func (r *Registry) GetContract(address, chain string) (Contract, bool) {
	if address == "" {
		return Contract{}, false
	}
	key := contractKey{chain: NormalizeChain(chain), address: NormalizeAddress(address)}

	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.contracts[key]
	return c, ok
}

// GetContractsByChain returns every contract registered on chain, ordered by address.
func (r *Registry) GetContractsByChain(chain string) []Contract {
	chain = NormalizeChain(chain)

	r.mu.RLock()
	out := make([]Contract, 0)
	for key, c := range r.contracts {
		if key.chain == chain {
			out = append(out, c)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

// All returns every registered contract ordered by chain then address.
func (r *Registry) All() []Contract {
	r.mu.RLock()
	out := make([]Contract, 0, len(r.contracts))
	for _, c := range r.contracts {
		out = append(out, c)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Chain != out[j].Chain {
			return out[i].Chain < out[j].Chain
		}
		return out[i].Address < out[j].Address
	})
	return out
}

// Stats reports contract, chain and selector counts.
func (r *Registry) Stats() RegistryStats {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chains := make(map[string]struct{})
	for key := range r.contracts {
		chains[key.chain] = struct{}{}
	}
	return RegistryStats{
		TotalContracts: len(r.contracts),
		TotalChains:    len(chains),
		TotalSelectors: len(r.selectors),
	}
}

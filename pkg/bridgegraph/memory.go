package bridgegraph

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/chainsafe/bridgewatch/pkg/bridge"
)

type node struct {
	address string
	chain   string
}

type linkKey struct {
	from, to           string
	txHash             string
	chainFrom, chainTo string
}

// memoryStore keeps the bridge graph in process memory, for development and tests.
type memoryStore struct {
	mu       sync.RWMutex
	nodes    map[node]time.Time
	links    map[linkKey]*Link
	outgoing map[node][]*Link
	now      func() time.Time
}

// NewMemoryStore creates an empty in-memory bridge graph
func NewMemoryStore() *memoryStore {
	return &memoryStore{
		nodes:    make(map[node]time.Time),
		links:    make(map[linkKey]*Link),
		outgoing: make(map[node][]*Link),
		now:      time.Now,
	}
}

func (s *memoryStore) SaveBridgeLink(_ context.Context, from, to string, rec bridge.Record) (string, error) {
	link := newLink(from, to, rec, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()

	s.touchLocked(node{link.FromAddress, link.ChainFrom}, link.LastSeen)
	s.touchLocked(node{link.ToAddress, link.ChainTo}, link.LastSeen)

	key := linkKey{
		from: link.FromAddress, to: link.ToAddress, txHash: link.TxHash,
		chainFrom: link.ChainFrom, chainTo: link.ChainTo,
	}
	if existing, ok := s.links[key]; ok {
		if link.LastSeen.After(existing.LastSeen) {
			existing.LastSeen = link.LastSeen
		}
		return "", nil
	}

	link.ID = uuid.NewString()
	s.links[key] = link
	start := node{link.FromAddress, link.ChainFrom}
	s.outgoing[start] = append(s.outgoing[start], link)
	return link.ID, nil
}

func (s *memoryStore) touchLocked(n node, seen time.Time) {
	if last, ok := s.nodes[n]; !ok || seen.After(last) {
		s.nodes[n] = seen
	}
}

func (s *memoryStore) GetLinksForAddress(_ context.Context, address string, direction Direction, limit int) ([]*Link, error) {
	address = bridge.NormalizeAddress(address)

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Link, 0)
	for _, l := range s.links {
		outgoing := l.FromAddress == address
		incoming := l.ToAddress == address
		switch direction {
		case DirectionOutgoing:
			if !outgoing {
				continue
			}
		case DirectionIncoming:
			if !incoming {
				continue
			}
		default:
			if !outgoing && !incoming {
				continue
			}
		}
		c := *l
		out = append(out, &c)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.After(out[j].Timestamp)
		}
		return out[i].ID < out[j].ID
	})
	if limit = linkLimit(limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type partialPath struct {
	at      node
	hops    []*Link
	visited map[node]bool
}

// FindCrossChainPath runs a breadth-first search so paths come out shortest first.
func (s *memoryStore) FindCrossChainPath(_ context.Context, address, fromChain, toChain string, maxHops int) ([]Path, error) {
	address = bridge.NormalizeAddress(address)
	fromChain = bridge.NormalizeChain(fromChain)
	toChain = bridge.NormalizeChain(toChain)
	maxHops = clampHops(maxHops)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var frontier []partialPath
	for n := range s.nodes {
		if n.address == address && (fromChain == "" || n.chain == fromChain) {
			frontier = append(frontier, partialPath{at: n, visited: map[node]bool{n: true}})
		}
	}
	sort.Slice(frontier, func(i, j int) bool { return frontier[i].at.chain < frontier[j].at.chain })

	paths := make([]Path, 0)
	for depth := 1; depth <= maxHops && len(frontier) > 0 && len(paths) < MaxPaths; depth++ {
		var next []partialPath
		for _, p := range frontier {
			for _, l := range s.sortedOutgoing(p.at) {
				dest := node{l.ToAddress, l.ChainTo}
				if p.visited[dest] {
					continue
				}
				hops := append(append([]*Link(nil), p.hops...), l)
				if l.ChainTo == toChain {
					paths = append(paths, Path{Hops: copyLinks(hops)})
					continue
				}
				visited := make(map[node]bool, len(p.visited)+1)
				for n := range p.visited {
					visited[n] = true
				}
				visited[dest] = true
				next = append(next, partialPath{at: dest, hops: hops, visited: visited})
			}
		}
		frontier = next
	}

	if len(paths) > MaxPaths {
		paths = paths[:MaxPaths]
	}
	return paths, nil
}

func (s *memoryStore) sortedOutgoing(n node) []*Link {
	links := append([]*Link(nil), s.outgoing[n]...)
	sort.Slice(links, func(i, j int) bool { return links[i].ID < links[j].ID })
	return links
}

func copyLinks(links []*Link) []*Link {
	out := make([]*Link, len(links))
	for i, l := range links {
		c := *l
		out[i] = &c
	}
	return out
}

func (s *memoryStore) GetStatistics(_ context.Context) (*Statistics, error) {
	type route struct{ bridge, from, to string }

	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[route]int)
	totals := make(map[route]decimal.Decimal)
	for _, l := range s.links {
		r := route{l.Bridge, l.ChainFrom, l.ChainTo}
		counts[r]++
		v, err := decimal.NewFromString(l.Value)
		if err != nil {
			v = decimal.Zero
		}
		totals[r] = totals[r].Add(v)
	}

	stats := &Statistics{Breakdown: make([]BridgeStat, 0, len(counts))}
	for r, n := range counts {
		stats.TotalTx += n
		stats.Breakdown = append(stats.Breakdown, BridgeStat{
			Bridge:     r.bridge,
			ChainFrom:  r.from,
			ChainTo:    r.to,
			TxCount:    n,
			TotalValue: totals[r].String(),
		})
	}
	sort.Slice(stats.Breakdown, func(i, j int) bool {
		a, b := stats.Breakdown[i], stats.Breakdown[j]
		if a.TxCount != b.TxCount {
			return a.TxCount > b.TxCount
		}
		if a.Bridge != b.Bridge {
			return a.Bridge < b.Bridge
		}
		if a.ChainFrom != b.ChainFrom {
			return a.ChainFrom < b.ChainFrom
		}
		return a.ChainTo < b.ChainTo
	})
	return stats, nil
}

var _ Store = (*memoryStore)(nil)

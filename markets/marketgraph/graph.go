// Package marketgraph turns a market snapshot into a directed multigraph of
// token-to-token swap edges. Token and market addresses are interned into
// arena-style integer indices at build time, so traversal code works on dense
// slices instead of hashing address strings on hot paths.
package marketgraph

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/tradestate/tradestate-client-go/engine"
)

// Edge is a resolved view of a single directed swap edge.
type Edge struct {
	From          common.Address
	To            common.Address
	MarketAddress common.Address

	// CapacityUsd is the USD value of the destination-side pool (the side the
	// swap draws from), at minimum price.
	CapacityUsd *uint256.Int

	// Fee is the routing weight: 1 when the swap would grow the already more
	// liquid side of the pool, 0 when it rebalances the pool.
	Fee uint8
}

// Graph is an immutable, arena-indexed routing graph for a single snapshot.
// It is rebuilt from scratch on every snapshot change and never mutated in
// place, so stale market references cannot survive a recomputation.
type Graph struct {
	tokenToIndex  map[common.Address]int
	marketToIndex map[common.Address]int

	// Core data stored in slices for cache-friendly access
	tokens          []common.Address
	markets         []common.Address
	adjacency       [][]int
	edgeSources     []int
	edgeTargets     []int
	edgeMarkets     []int
	edgeCapacityUsd []*uint256.Int
	edgeFees        []uint8
}

// Build constructs the routing graph from a snapshot. Every non-disabled
// market contributes exactly two directed edges, one per swap direction;
// disabled markets contribute nothing. Markets with empty pools still
// contribute zero-capacity edges. Build always produces a graph, possibly
// disconnected or empty.
func Build(snap *engine.Snapshot) *Graph {
	g := &Graph{
		tokenToIndex:  make(map[common.Address]int),
		marketToIndex: make(map[common.Address]int),
	}
	if snap == nil || len(snap.Markets) == 0 {
		return g
	}

	// Markets are iterated in sorted address order so arena indices are stable
	// for a given market set.
	addresses := make([]common.Address, 0, len(snap.Markets))
	for address := range snap.Markets {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) < 0
	})

	for _, address := range addresses {
		market := snap.Markets[address]
		if market.IsDisabled {
			continue
		}

		longUsd, shortUsd := snap.PoolValuesUsd(market)

		longIndex := g.addToken(market.LongTokenAddress)
		shortIndex := g.addToken(market.ShortTokenAddress)
		marketIndex := g.addMarket(address)

		g.addEdge(longIndex, shortIndex, marketIndex, shortUsd, feeWeight(longUsd, shortUsd))
		g.addEdge(shortIndex, longIndex, marketIndex, longUsd, feeWeight(shortUsd, longUsd))
	}

	return g
}

// feeWeight penalizes edges whose source-side pool is already the more liquid
// side: swapping through such an edge deposits into the heavy side and makes
// the imbalance worse.
func feeWeight(sourceSideUsd, destSideUsd *uint256.Int) uint8 {
	if sourceSideUsd.Cmp(destSideUsd) > 0 {
		return 1
	}
	return 0
}

func (g *Graph) addToken(address common.Address) int {
	index, exists := g.tokenToIndex[address]
	if exists {
		return index
	}
	index = len(g.tokens)
	g.tokens = append(g.tokens, address)
	g.tokenToIndex[address] = index
	g.adjacency = append(g.adjacency, nil)
	return index
}

func (g *Graph) addMarket(address common.Address) int {
	index, exists := g.marketToIndex[address]
	if exists {
		return index
	}
	index = len(g.markets)
	g.markets = append(g.markets, address)
	g.marketToIndex[address] = index
	return index
}

func (g *Graph) addEdge(fromIndex, toIndex, marketIndex int, capacityUsd *uint256.Int, fee uint8) {
	edgeIndex := len(g.edgeTargets)
	g.edgeSources = append(g.edgeSources, fromIndex)
	g.edgeTargets = append(g.edgeTargets, toIndex)
	g.edgeMarkets = append(g.edgeMarkets, marketIndex)
	g.edgeCapacityUsd = append(g.edgeCapacityUsd, capacityUsd)
	g.edgeFees = append(g.edgeFees, fee)
	g.adjacency[fromIndex] = append(g.adjacency[fromIndex], edgeIndex)
}

// NumTokens returns the number of token nodes in the graph.
func (g *Graph) NumTokens() int { return len(g.tokens) }

// NumEdges returns the number of directed edges in the graph.
func (g *Graph) NumEdges() int { return len(g.edgeTargets) }

// TokenIndex returns the arena index for a token address.
func (g *Graph) TokenIndex(address common.Address) (int, bool) {
	index, ok := g.tokenToIndex[address]
	return index, ok
}

// TokenAt returns the token address at an arena index.
func (g *Graph) TokenAt(index int) common.Address { return g.tokens[index] }

// AdjacentEdges returns the edge indices leaving a token node. The returned
// slice is shared internal state and MUST NOT be modified.
func (g *Graph) AdjacentEdges(tokenIndex int) []int { return g.adjacency[tokenIndex] }

// EdgeTarget returns the destination token index of an edge.
func (g *Graph) EdgeTarget(edgeIndex int) int { return g.edgeTargets[edgeIndex] }

// EdgeFee returns the routing weight of an edge.
func (g *Graph) EdgeFee(edgeIndex int) uint8 { return g.edgeFees[edgeIndex] }

// EdgeMarketAddress returns the address of the market that contributed an edge.
func (g *Graph) EdgeMarketAddress(edgeIndex int) common.Address {
	return g.markets[g.edgeMarkets[edgeIndex]]
}

// EdgeAt resolves an edge index into a full Edge view. The CapacityUsd value
// is shared and MUST NOT be modified.
func (g *Graph) EdgeAt(edgeIndex int) Edge {
	return Edge{
		From:          g.tokens[g.edgeSources[edgeIndex]],
		To:            g.tokens[g.edgeTargets[edgeIndex]],
		MarketAddress: g.markets[g.edgeMarkets[edgeIndex]],
		CapacityUsd:   g.edgeCapacityUsd[edgeIndex],
		Fee:           g.edgeFees[edgeIndex],
	}
}

// View is a complete, caller-owned snapshot of the graph's core data
// structures, for consumers who run their own traversal or analysis.
type View struct {
	Tokens          []common.Address `json:"tokens"`
	Markets         []common.Address `json:"markets"`
	Adjacency       [][]int          `json:"adjacency"`
	EdgeTargets     []int            `json:"edgeTargets"`
	EdgeMarkets     []int            `json:"edgeMarkets"`
	EdgeCapacityUsd []*uint256.Int   `json:"edgeCapacityUsd"`
	EdgeFees        []uint8          `json:"edgeFees"`
}

// View returns a deep copy of the graph's core data structures. The copy is
// safe for the caller to mutate.
func (g *Graph) View() *View {
	tokensCopy := make([]common.Address, len(g.tokens))
	copy(tokensCopy, g.tokens)

	marketsCopy := make([]common.Address, len(g.markets))
	copy(marketsCopy, g.markets)

	adjacencyCopy := make([][]int, len(g.adjacency))
	for i, adj := range g.adjacency {
		adjCopy := make([]int, len(adj))
		copy(adjCopy, adj)
		adjacencyCopy[i] = adjCopy
	}

	edgeTargetsCopy := make([]int, len(g.edgeTargets))
	copy(edgeTargetsCopy, g.edgeTargets)

	edgeMarketsCopy := make([]int, len(g.edgeMarkets))
	copy(edgeMarketsCopy, g.edgeMarkets)

	edgeCapacityCopy := make([]*uint256.Int, len(g.edgeCapacityUsd))
	for i, capacity := range g.edgeCapacityUsd {
		edgeCapacityCopy[i] = new(uint256.Int).Set(capacity)
	}

	edgeFeesCopy := make([]uint8, len(g.edgeFees))
	copy(edgeFeesCopy, g.edgeFees)

	return &View{
		Tokens:          tokensCopy,
		Markets:         marketsCopy,
		Adjacency:       adjacencyCopy,
		EdgeTargets:     edgeTargetsCopy,
		EdgeMarkets:     edgeMarketsCopy,
		EdgeCapacityUsd: edgeCapacityCopy,
		EdgeFees:        edgeFeesCopy,
	}
}

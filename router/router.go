// Package router finds multi-hop swap routes between arbitrary tokens over a
// marketgraph, bounded by a maximum hop count.
package router

import (
	"math"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tradestate/tradestate-client-go/bitset"
	"github.com/tradestate/tradestate-client-go/logger"
	marketgraph "github.com/tradestate/tradestate-client-go/markets/marketgraph"
)

// DefaultMaxHops bounds route length. The bound also bounds the search itself:
// termination takes time proportional to the number of markets, independent of
// any external timer.
const DefaultMaxHops = 5

const infinity = math.MaxUint64

// WeightFunc assigns a routing cost to an edge. Lower is better.
type WeightFunc func(edge marketgraph.Edge) uint64

// FeeWeight is the default weight: the edge's pool-balance fee flag.
func FeeWeight(edge marketgraph.Edge) uint64 { return uint64(edge.Fee) }

// Path is a resolved swap route: the token sequence visited and the market
// used for each hop. A zero-hop path has a single token and no markets.
type Path struct {
	Tokens  []common.Address
	Markets []common.Address
}

// HopCount returns the number of edges in the path.
func (p Path) HopCount() int { return len(p.Markets) }

// Router is a reusable, stateless search engine over a single graph snapshot.
type Router struct {
	graph  *marketgraph.Graph
	logger logger.Logger
}

// New creates a Router for a graph snapshot. A nil log discards diagnostics.
func New(graph *marketgraph.Graph, log logger.Logger) *Router {
	if log == nil {
		log = logger.Noop()
	}
	return &Router{graph: graph, logger: log}
}

// label is the best route found so far to one token node.
type label struct {
	cost  uint64
	edges []int
	known bitset.BitSet
}

// FindPath searches for the minimum-weight route from one token to another
// using at most maxHops edges. A same-token query returns a zero-hop path
// immediately, whether or not the token is in the graph. Failure to find a
// route is not an error: the caller receives (Path{}, false) and should treat
// the swap as currently infeasible. Tie-breaking between equal-weight routes
// is unspecified.
func (r *Router) FindPath(from, to common.Address, weigh WeightFunc, maxHops int) (Path, bool) {
	if weigh == nil {
		weigh = FeeWeight
	}
	if maxHops <= 0 {
		maxHops = DefaultMaxHops
	}

	if from == to {
		return Path{Tokens: []common.Address{from}}, true
	}

	sourceIndex, ok := r.graph.TokenIndex(from)
	if !ok {
		r.logger.Debug("route source token not in graph", "token", from.Hex())
		return Path{}, false
	}
	destIndex, ok := r.graph.TokenIndex(to)
	if !ok {
		r.logger.Debug("route destination token not in graph", "token", to.Hex())
		return Path{}, false
	}

	numTokens := r.graph.NumTokens()
	prev := make([]label, numTokens)
	for i := range prev {
		prev[i].cost = infinity
	}
	sourceKnown := bitset.NewBitSet(uint64(numTokens))
	sourceKnown.Set(uint64(sourceIndex))
	prev[sourceIndex] = label{cost: 0, known: sourceKnown}

	// Bounded relaxation: after h rounds every label holds the best route of
	// at most h edges, so the hop bound falls out of the round count.
	for hop := 0; hop < maxHops; hop++ {
		current := make([]label, numTokens)
		copy(current, prev)
		improved := false

		for u := 0; u < numTokens; u++ {
			if prev[u].cost == infinity {
				continue
			}
			for _, edgeIndex := range r.graph.AdjacentEdges(u) {
				target := r.graph.EdgeTarget(edgeIndex)
				// A route never visits the same token twice.
				if prev[u].known.IsSet(uint64(target)) {
					continue
				}

				candidate := prev[u].cost + weigh(r.graph.EdgeAt(edgeIndex))
				if candidate >= current[target].cost {
					continue
				}

				edges := make([]int, len(prev[u].edges)+1)
				copy(edges, prev[u].edges)
				edges[len(edges)-1] = edgeIndex

				known := bitset.NewBitSet(uint64(numTokens))
				known.SetFrom(prev[u].known)
				known.Set(uint64(target))

				current[target] = label{cost: candidate, edges: edges, known: known}
				improved = true
			}
		}

		prev = current
		if !improved {
			break
		}
	}

	if prev[destIndex].cost == infinity {
		r.logger.Debug("no swap route within hop bound",
			"from", from.Hex(), "to", to.Hex(), "maxHops", maxHops)
		return Path{}, false
	}

	return r.reconstruct(from, prev[destIndex].edges), true
}

func (r *Router) reconstruct(from common.Address, edges []int) Path {
	path := Path{
		Tokens:  make([]common.Address, 0, len(edges)+1),
		Markets: make([]common.Address, 0, len(edges)),
	}
	path.Tokens = append(path.Tokens, from)
	for _, edgeIndex := range edges {
		path.Tokens = append(path.Tokens, r.graph.TokenAt(r.graph.EdgeTarget(edgeIndex)))
		path.Markets = append(path.Markets, r.graph.EdgeMarketAddress(edgeIndex))
	}
	return path
}

// Package recompute drives the snapshot-to-state pipeline: each arriving
// market/token/price snapshot rebuilds the routing graph and liquidity
// aggregation from scratch, derives the available-token universe, and runs
// the trade-options repair pass. Unchanged inputs are memoized away: they
// produce no new graph, no persisted write, and no notification.
package recompute

import (
	"bytes"
	"errors"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tradestate/tradestate-client-go/engine"
	"github.com/tradestate/tradestate-client-go/logger"
	liquidity "github.com/tradestate/tradestate-client-go/markets/liquidity"
	marketgraph "github.com/tradestate/tradestate-client-go/markets/marketgraph"
	marketregistry "github.com/tradestate/tradestate-client-go/markets/marketregistry"
	marketindexer "github.com/tradestate/tradestate-client-go/markets/marketregistry/indexer"
	tokenregistry "github.com/tradestate/tradestate-client-go/markets/tokenregistry"
	tokenindexer "github.com/tradestate/tradestate-client-go/markets/tokenregistry/indexer"
	"github.com/tradestate/tradestate-client-go/router"
	"github.com/tradestate/tradestate-client-go/tradeoptions"
)

// Config holds the engine's dependencies.
type Config struct {
	Logger   logger.Logger
	Registry prometheus.Registerer
	Store    *tradeoptions.Store

	// MaxHops bounds swap route length. Zero means router.DefaultMaxHops.
	MaxHops int
}

// validate checks if the configuration is valid, ensuring required dependencies are present.
func (c *Config) validate() error {
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	if c.Registry == nil {
		return errors.New("config: Registry cannot be nil")
	}
	if c.Store == nil {
		return errors.New("config: Store cannot be nil")
	}
	return nil
}

// Engine is the recomputation pipeline plus the read-only query surface over
// its latest results.
type Engine struct {
	logger  logger.Logger
	metrics *Metrics
	store   *tradeoptions.Store
	maxHops int

	mu          sync.RWMutex
	snapshot    *engine.Snapshot
	graph       *marketgraph.Graph
	aggregation *liquidity.Aggregation
	pathRouter  *router.Router
	tokens      *tokenindexer.IndexableTokenSystem
	markets     *marketindexer.IndexableMarketSystem
	subscribers []func(*engine.Snapshot)
}

// New constructs an engine from a configuration, returning an error if the
// configuration is invalid.
func New(cfg *Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	maxHops := cfg.MaxHops
	if maxHops <= 0 {
		maxHops = router.DefaultMaxHops
	}

	return &Engine{
		logger:  cfg.Logger,
		metrics: NewMetrics(cfg.Registry),
		store:   cfg.Store,
		maxHops: maxHops,
	}, nil
}

// Subscribe registers a callback invoked after every applied (non-memoized)
// recomputation.
func (e *Engine) Subscribe(fn func(*engine.Snapshot)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

// Apply recomputes all derived state from a snapshot. A snapshot whose
// version was already applied is skipped entirely. Concurrent callers get
// last-write-wins semantics; each individual recomputation is internally
// consistent.
func (e *Engine) Apply(snap *engine.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.snapshot != nil && e.snapshot.Version == snap.Version {
		e.metrics.recomputesSkipped.Inc()
		return nil
	}

	timer := prometheus.NewTimer(e.metrics.recomputeDuration.WithLabelValues())
	defer timer.ObserveDuration()

	graph := marketgraph.Build(snap)
	aggregation := liquidity.Aggregate(snap)
	tokens := tokenindexer.NewIndexableTokenSystem(sortedTokens(snap))
	markets := marketindexer.NewIndexableMarketSystem(sortedMarkets(snap))
	universe := deriveUniverse(snap, aggregation, markets)

	e.snapshot = snap
	e.graph = graph
	e.aggregation = aggregation
	e.tokens = tokens
	e.markets = markets
	e.pathRouter = router.New(graph, e.logger)

	if e.store.Repair(universe) {
		e.metrics.repairWrites.Inc()
	}
	e.metrics.recomputesTotal.Inc()

	e.logger.Debug("recomputed market universe",
		"version", snap.Version,
		"tokens", graph.NumTokens(),
		"edges", graph.NumEdges())

	for _, fn := range e.subscribers {
		fn(snap)
	}
	return nil
}

// deriveUniverse extracts the ordered available-token lists from a snapshot:
// swap tokens are the collateral sides of enabled markets, index tokens the
// position targets of enabled non-spot-only markets. Address order makes the
// "first available" replacement in the repair pass deterministic.
func deriveUniverse(
	snap *engine.Snapshot,
	aggregation *liquidity.Aggregation,
	markets *marketindexer.IndexableMarketSystem,
) *tradeoptions.Universe {
	swapSet := mapset.NewThreadUnsafeSet[common.Address]()
	indexSet := mapset.NewThreadUnsafeSet[common.Address]()

	for _, market := range snap.Markets {
		if market.IsDisabled {
			continue
		}
		swapSet.Add(market.LongTokenAddress)
		swapSet.Add(market.ShortTokenAddress)
		if !market.IsSpotOnly {
			indexSet.Add(market.IndexTokenAddress)
		}
	}

	return tradeoptions.NewUniverse(
		sortedAddresses(swapSet.ToSlice()),
		sortedAddresses(indexSet.ToSlice()),
		aggregation,
		markets,
	)
}

func sortedAddresses(addresses []common.Address) []common.Address {
	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) < 0
	})
	return addresses
}

// sortedTokens flattens the snapshot's token map into address order so the
// indexer's All() is stable across recomputations.
func sortedTokens(snap *engine.Snapshot) []tokenregistry.Token {
	tokens := make([]tokenregistry.Token, 0, len(snap.Tokens))
	for _, token := range snap.Tokens {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		return bytes.Compare(tokens[i].Address[:], tokens[j].Address[:]) < 0
	})
	return tokens
}

// sortedMarkets flattens the snapshot's market map into address order.
func sortedMarkets(snap *engine.Snapshot) []marketregistry.Market {
	markets := make([]marketregistry.Market, 0, len(snap.Markets))
	for _, market := range snap.Markets {
		markets = append(markets, market)
	}
	sort.Slice(markets, func(i, j int) bool {
		return bytes.Compare(markets[i].MarketTokenAddress[:], markets[j].MarketTokenAddress[:]) < 0
	})
	return markets
}

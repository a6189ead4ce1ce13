package recompute

import (
	"github.com/ethereum/go-ethereum/common"

	liquidity "github.com/tradestate/tradestate-client-go/markets/liquidity"
	marketgraph "github.com/tradestate/tradestate-client-go/markets/marketgraph"
	marketregistry "github.com/tradestate/tradestate-client-go/markets/marketregistry"
	tokenregistry "github.com/tradestate/tradestate-client-go/markets/tokenregistry"
	"github.com/tradestate/tradestate-client-go/router"
	"github.com/tradestate/tradestate-client-go/tradeoptions"
)

// TradeFlags is the boolean decomposition of the current trade type and mode,
// for consumers that branch on the selection rather than compare enums.
type TradeFlags struct {
	IsLong     bool
	IsShort    bool
	IsSwap     bool
	IsPosition bool
	IsMarket   bool
	IsLimit    bool
	IsTrigger  bool
}

// Options returns a copy of the current trade options.
func (e *Engine) Options() tradeoptions.TradeOptions {
	return e.store.Current()
}

// TradeFlags derives the flags from the current trade options.
func (e *Engine) TradeFlags() TradeFlags {
	o := e.store.Current()
	return TradeFlags{
		IsLong:     o.TradeType.IsLong(),
		IsShort:    o.TradeType.IsShort(),
		IsSwap:     o.TradeType.IsSwap(),
		IsPosition: o.TradeType.IsPosition(),
		IsMarket:   o.TradeMode.IsMarket(),
		IsLimit:    o.TradeMode.IsLimit(),
		IsTrigger:  o.TradeMode.IsTrigger(),
	}
}

// FromToken resolves the current pay-side token against the latest snapshot.
func (e *Engine) FromToken() (tokenregistry.Token, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.tokens == nil {
		return tokenregistry.Token{}, false
	}
	return e.tokens.GetByAddress(e.store.Current().FromTokenAddress)
}

// ToToken resolves the current trade-target token against the latest
// snapshot: the swap destination for swaps, the index token for positions.
func (e *Engine) ToToken() (tokenregistry.Token, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.tokens == nil {
		return tokenregistry.Token{}, false
	}
	return e.tokens.GetByAddress(e.store.Current().ToTokenAddress())
}

// AvailableMarkets lists the enabled markets for the current index token.
func (e *Engine) AvailableMarkets() []marketregistry.Market {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.markets == nil {
		return nil
	}

	candidates := e.markets.ForIndexToken(e.store.Current().IndexTokenAddress)
	markets := candidates[:0]
	for _, market := range candidates {
		if !market.IsDisabled {
			markets = append(markets, market)
		}
	}
	if len(markets) == 0 {
		return nil
	}
	return markets
}

// SwapPath computes the lowest-fee route for the current selection: pay token
// to swap destination for swaps, pay token to collateral for positions. A
// false result means the route does not exist within the hop bound, or not
// enough of the selection is set yet.
func (e *Engine) SwapPath() (router.Path, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.pathRouter == nil {
		return router.Path{}, false
	}

	o := e.store.Current()
	target := o.SwapToTokenAddress
	if o.TradeType.IsPosition() {
		target = o.CollateralAddress
	}
	if o.FromTokenAddress == (common.Address{}) || target == (common.Address{}) {
		return router.Path{}, false
	}

	return e.pathRouter.FindPath(o.FromTokenAddress, target, router.FeeWeight, e.maxHops)
}

// GraphView returns a deep copy of the latest market graph, or nil before the
// first recomputation.
func (e *Engine) GraphView() *marketgraph.View {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.graph == nil {
		return nil
	}
	return e.graph.View()
}

// Liquidity returns the maximum open-interest liquidity for an index token.
func (e *Engine) Liquidity(indexToken common.Address) (liquidity.IndexLiquidity, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.aggregation == nil {
		return liquidity.IndexLiquidity{}, false
	}
	return e.aggregation.ForIndexToken(indexToken)
}

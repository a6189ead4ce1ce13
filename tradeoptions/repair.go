package tradeoptions

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/tradestate/tradestate-client-go/engine"
	marketregistry "github.com/tradestate/tradestate-client-go/markets/marketregistry"
	"github.com/tradestate/tradestate-client-go/selector"
)

// repairOptions restores the membership invariants of a value against the
// current universe:
//
//	a. the from token must be an available swap token,
//	b. the trade target must be an available index token,
//	c. the collateral must be the long or short token of the market resolved
//	   from the trade target and trade type.
//
// An empty universe (initial data load) leaves the value untouched; the next
// recomputation retries. Applying the repair twice yields a deep-equal result.
func repairOptions(o TradeOptions, u *Universe) TradeOptions {
	next := o.clone()

	if first, ok := u.FirstSwapToken(); ok && !u.HasSwapToken(next.FromTokenAddress) {
		next.FromTokenAddress = first
	}

	if first, ok := u.FirstIndexToken(); ok && !u.HasIndexToken(next.ToTokenAddress()) {
		if next.TradeType.IsSwap() {
			next.SwapToTokenAddress = first
		} else {
			next.IndexTokenAddress = first
			if sel := chooseFor(next.TradeType, u, first); sel != nil && sel.MarketAddress != zeroAddress {
				next.pin(first, next.TradeType, sel.MarketAddress)
			}
		}
	}

	next.TradeMode = clampMode(next.TradeType, next.TradeMode)

	if next.TradeType.IsPosition() {
		if market, ok := resolveActiveMarket(next, u); ok {
			next.pin(next.IndexTokenAddress, next.TradeType, market.MarketTokenAddress)
			if next.CollateralAddress != market.LongTokenAddress &&
				next.CollateralAddress != market.ShortTokenAddress {
				next.CollateralAddress = market.ShortTokenAddress
			}
		}
	}

	return next
}

// chooseFor selects a market for an index token using the liquidity maxima.
func chooseFor(tradeType engine.TradeType, u *Universe, indexToken common.Address) *selector.Selection {
	entry, ok := u.liquidity.ForIndexToken(indexToken)
	if !ok {
		return nil
	}
	maxLong := entry.MaxLong
	maxShort := entry.MaxShort
	return selector.ChooseMarket(indexToken, &maxLong, &maxShort,
		tradeType.IsSwap(), selector.PreferenceFor(tradeType))
}

// resolveActiveMarket resolves the concrete market for the current trade
// target and type: a still-valid pinned market wins, otherwise the liquidity
// maxima decide. A false result means no eligible market exists yet.
func resolveActiveMarket(o TradeOptions, u *Universe) (marketregistry.Market, bool) {
	indexToken := o.IndexTokenAddress

	if pinned := o.PinnedMarket(indexToken, o.TradeType); pinned != zeroAddress {
		if market, ok := u.markets.GetByAddress(pinned); ok &&
			market.IndexTokenAddress == indexToken && !market.IsDisabled {
			return market, true
		}
	}

	sel := chooseFor(o.TradeType, u, indexToken)
	if sel == nil || sel.MarketAddress == zeroAddress {
		return marketregistry.Market{}, false
	}
	return u.markets.GetByAddress(sel.MarketAddress)
}

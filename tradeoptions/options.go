// Package tradeoptions holds the persisted trade-selection state machine: the
// user's current trade type and mode, token addresses, per-market pinned
// sub-selections, and collateral, kept consistent as the available universe of
// tokens and markets changes over time.
package tradeoptions

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/tradestate/tradestate-client-go/engine"
)

var zeroAddress common.Address

// MarketPin records which concrete market is pinned for each position side of
// one index token, so switching between long and short restores the user's
// last market choice per side.
type MarketPin struct {
	LongMarketAddress  common.Address `json:"longMarketAddress,omitempty"`
	ShortMarketAddress common.Address `json:"shortMarketAddress,omitempty"`
}

// TradeOptions is the user's current trade selection. Values are immutable:
// every transition produces a new value, never a mutation in place.
type TradeOptions struct {
	TradeType engine.TradeType `json:"tradeType"`
	TradeMode engine.TradeMode `json:"tradeMode"`

	FromTokenAddress common.Address `json:"fromTokenAddress,omitempty"`

	// IndexTokenAddress is the trade target for position trades,
	// SwapToTokenAddress for swaps. ToTokenAddress resolves the active one.
	IndexTokenAddress  common.Address `json:"indexTokenAddress,omitempty"`
	SwapToTokenAddress common.Address `json:"swapToTokenAddress,omitempty"`

	MarketPins map[common.Address]MarketPin `json:"markets,omitempty"`

	CollateralAddress common.Address `json:"collateralAddress,omitempty"`
}

// Default is the documented initial state, used when nothing is persisted or
// the persisted state cannot be read.
func Default() TradeOptions {
	return TradeOptions{
		TradeType:  engine.TradeTypeLong,
		TradeMode:  engine.TradeModeMarket,
		MarketPins: make(map[common.Address]MarketPin),
	}
}

// ToTokenAddress returns the active trade-target address for the current
// trade type.
func (o TradeOptions) ToTokenAddress() common.Address {
	if o.TradeType.IsSwap() {
		return o.SwapToTokenAddress
	}
	return o.IndexTokenAddress
}

// PinnedMarket returns the market pinned for an index token and trade type,
// or the zero address when nothing is pinned.
func (o TradeOptions) PinnedMarket(indexToken common.Address, tradeType engine.TradeType) common.Address {
	pin, ok := o.MarketPins[indexToken]
	if !ok {
		return zeroAddress
	}
	if tradeType == engine.TradeTypeShort {
		return pin.ShortMarketAddress
	}
	return pin.LongMarketAddress
}

// Equal reports whether two values are deep-equal.
func (o TradeOptions) Equal(other TradeOptions) bool {
	if o.TradeType != other.TradeType ||
		o.TradeMode != other.TradeMode ||
		o.FromTokenAddress != other.FromTokenAddress ||
		o.IndexTokenAddress != other.IndexTokenAddress ||
		o.SwapToTokenAddress != other.SwapToTokenAddress ||
		o.CollateralAddress != other.CollateralAddress {
		return false
	}
	if len(o.MarketPins) != len(other.MarketPins) {
		return false
	}
	for indexToken, pin := range o.MarketPins {
		otherPin, ok := other.MarketPins[indexToken]
		if !ok || pin != otherPin {
			return false
		}
	}
	return true
}

// clone returns a deep copy the caller may mutate before committing.
func (o TradeOptions) clone() TradeOptions {
	next := o
	next.MarketPins = make(map[common.Address]MarketPin, len(o.MarketPins))
	for indexToken, pin := range o.MarketPins {
		next.MarketPins[indexToken] = pin
	}
	return next
}

// pin records a market for one side of an index token on a cloned value.
func (o *TradeOptions) pin(indexToken common.Address, tradeType engine.TradeType, marketAddress common.Address) {
	entry := o.MarketPins[indexToken]
	if tradeType == engine.TradeTypeShort {
		entry.ShortMarketAddress = marketAddress
	} else {
		entry.LongMarketAddress = marketAddress
	}
	o.MarketPins[indexToken] = entry
}

// clampMode resets the mode to the first allowed one when it is not available
// for the trade type.
func clampMode(tradeType engine.TradeType, mode engine.TradeMode) engine.TradeMode {
	modes := engine.AvailableTradeModes(tradeType)
	for _, allowed := range modes {
		if mode == allowed {
			return mode
		}
	}
	return modes[0]
}

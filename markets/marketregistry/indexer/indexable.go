package indexer

import (
	"github.com/ethereum/go-ethereum/common"

	marketregistry "github.com/tradestate/tradestate-client-go/markets/marketregistry"
)

// IndexableMarketSystem provides fast, indexed access to marketregistry data.
type IndexableMarketSystem struct {
	byAddress    map[common.Address]marketregistry.Market
	byIndexToken map[common.Address][]marketregistry.Market
	all          []marketregistry.Market
}

// NewIndexableMarketSystem creates a new indexed marketregistry system from a raw slice.
func NewIndexableMarketSystem(markets []marketregistry.Market) *IndexableMarketSystem {
	byAddress := make(map[common.Address]marketregistry.Market, len(markets))
	byIndexToken := make(map[common.Address][]marketregistry.Market)

	for _, m := range markets {
		byAddress[m.MarketTokenAddress] = m
		byIndexToken[m.IndexTokenAddress] = append(byIndexToken[m.IndexTokenAddress], m)
	}

	return &IndexableMarketSystem{
		byAddress:    byAddress,
		byIndexToken: byIndexToken,
		all:          markets,
	}
}

// GetByAddress retrieves a market by its pool-share token address.
func (ims *IndexableMarketSystem) GetByAddress(address common.Address) (marketregistry.Market, bool) {
	m, ok := ims.byAddress[address]
	return m, ok
}

// ForIndexToken returns a defensive copy of all markets sharing the given
// index token, in indexing order.
func (ims *IndexableMarketSystem) ForIndexToken(indexToken common.Address) []marketregistry.Market {
	markets := ims.byIndexToken[indexToken]
	if len(markets) == 0 {
		return nil
	}
	marketsCopy := make([]marketregistry.Market, len(markets))
	copy(marketsCopy, markets)
	return marketsCopy
}

// All returns a defensive copy of the slice of all markets in the system.
func (ims *IndexableMarketSystem) All() []marketregistry.Market {
	allCopy := make([]marketregistry.Market, len(ims.all))
	copy(allCopy, ims.all)
	return allCopy
}

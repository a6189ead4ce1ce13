package tradeoptions

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"

	liquidity "github.com/tradestate/tradestate-client-go/markets/liquidity"
	marketindexer "github.com/tradestate/tradestate-client-go/markets/marketregistry/indexer"
)

// Universe is the currently available token/market world the repair pass
// enforces invariants against. Token slices are ordered: the first element is
// the replacement used when a stored address falls out of the set.
type Universe struct {
	swapTokens  []common.Address
	indexTokens []common.Address
	swapSet     mapset.Set[common.Address]
	indexSet    mapset.Set[common.Address]
	liquidity   *liquidity.Aggregation
	markets     *marketindexer.IndexableMarketSystem
}

// NewUniverse builds a Universe from ordered token lists, the current
// liquidity aggregation, and the indexed market set.
func NewUniverse(
	swapTokens []common.Address,
	indexTokens []common.Address,
	agg *liquidity.Aggregation,
	markets *marketindexer.IndexableMarketSystem,
) *Universe {
	return &Universe{
		swapTokens:  swapTokens,
		indexTokens: indexTokens,
		swapSet:     mapset.NewThreadUnsafeSet(swapTokens...),
		indexSet:    mapset.NewThreadUnsafeSet(indexTokens...),
		liquidity:   agg,
		markets:     markets,
	}
}

// HasSwapToken reports membership in the available swap-token set.
func (u *Universe) HasSwapToken(address common.Address) bool {
	return u.swapSet.Contains(address)
}

// HasIndexToken reports membership in the available index-token set.
func (u *Universe) HasIndexToken(address common.Address) bool {
	return u.indexSet.Contains(address)
}

// FirstSwapToken returns the first available swap token.
func (u *Universe) FirstSwapToken() (common.Address, bool) {
	if len(u.swapTokens) == 0 {
		return zeroAddress, false
	}
	return u.swapTokens[0], true
}

// FirstIndexToken returns the first available index token.
func (u *Universe) FirstIndexToken() (common.Address, bool) {
	if len(u.indexTokens) == 0 {
		return zeroAddress, false
	}
	return u.indexTokens[0], true
}

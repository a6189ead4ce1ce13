// Package liquidity computes, per index token, the maximum available
// long-side and short-side liquidity across all markets sharing that index
// token. The liquidity figure is a simplified proxy: the USD value of the
// corresponding pool side at minimum price, not a reserve/open-interest
// adjusted amount.
package liquidity

import (
	"bytes"
	"sort"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/tradestate/tradestate-client-go/engine"
)

// PoolLiquidity attributes a liquidity figure to the specific market that
// provides it.
type PoolLiquidity struct {
	MarketAddress     common.Address
	IndexTokenAddress common.Address
	LiquidityUsd      *uint256.Int
}

// IndexLiquidity holds the two independent maxima for one index token. The
// max-long and max-short pools may be (and often are) different markets.
type IndexLiquidity struct {
	MaxLong  PoolLiquidity
	MaxShort PoolLiquidity
}

// Aggregation is the immutable result of one aggregation pass.
type Aggregation struct {
	byIndexToken map[common.Address]IndexLiquidity
	indexTokens  []common.Address
}

// Aggregate groups the snapshot's markets by index token and selects, per
// group, the market with the largest long-side liquidity and independently the
// market with the largest short-side liquidity. Disabled and spot-only markets
// back no positions and are excluded. Ties are broken by encounter order,
// which is the sorted market-address order, so results are stable for a given
// market set.
func Aggregate(snap *engine.Snapshot) *Aggregation {
	agg := &Aggregation{
		byIndexToken: make(map[common.Address]IndexLiquidity),
	}
	if snap == nil {
		return agg
	}

	addresses := make([]common.Address, 0, len(snap.Markets))
	for address := range snap.Markets {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return bytes.Compare(addresses[i][:], addresses[j][:]) < 0
	})

	for _, address := range addresses {
		market := snap.Markets[address]
		if market.IsDisabled || market.IsSpotOnly {
			continue
		}

		longUsd, shortUsd := snap.PoolValuesUsd(market)

		entry, seen := agg.byIndexToken[market.IndexTokenAddress]
		if !seen {
			agg.indexTokens = append(agg.indexTokens, market.IndexTokenAddress)
			entry = IndexLiquidity{
				MaxLong: PoolLiquidity{
					MarketAddress:     address,
					IndexTokenAddress: market.IndexTokenAddress,
					LiquidityUsd:      longUsd,
				},
				MaxShort: PoolLiquidity{
					MarketAddress:     address,
					IndexTokenAddress: market.IndexTokenAddress,
					LiquidityUsd:      shortUsd,
				},
			}
			agg.byIndexToken[market.IndexTokenAddress] = entry
			continue
		}

		// Strictly-greater comparison keeps the first-seen market on ties.
		if longUsd.Cmp(entry.MaxLong.LiquidityUsd) > 0 {
			entry.MaxLong = PoolLiquidity{
				MarketAddress:     address,
				IndexTokenAddress: market.IndexTokenAddress,
				LiquidityUsd:      longUsd,
			}
		}
		if shortUsd.Cmp(entry.MaxShort.LiquidityUsd) > 0 {
			entry.MaxShort = PoolLiquidity{
				MarketAddress:     address,
				IndexTokenAddress: market.IndexTokenAddress,
				LiquidityUsd:      shortUsd,
			}
		}
		agg.byIndexToken[market.IndexTokenAddress] = entry
	}

	return agg
}

// ForIndexToken returns the liquidity maxima for an index token.
func (a *Aggregation) ForIndexToken(indexToken common.Address) (IndexLiquidity, bool) {
	entry, ok := a.byIndexToken[indexToken]
	return entry, ok
}

// IndexTokens returns a defensive copy of the aggregated index token
// addresses, in first-seen order.
func (a *Aggregation) IndexTokens() []common.Address {
	tokensCopy := make([]common.Address, len(a.indexTokens))
	copy(tokensCopy, a.indexTokens)
	return tokensCopy
}

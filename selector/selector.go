// Package selector decides which concrete market and collateral side to use
// for a requested trade intent, given the per-index-token liquidity maxima.
package selector

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/tradestate/tradestate-client-go/engine"
	liquidity "github.com/tradestate/tradestate-client-go/markets/liquidity"
)

// Preference steers market selection for position trades.
type Preference string

const (
	PreferLong  Preference = "long"
	PreferShort Preference = "short"

	// PreferLargestPosition should pick the market backing the user's largest
	// existing position. Position accounting is not wired in yet, so it
	// currently falls back to the max-long-liquidity market.
	PreferLargestPosition Preference = "largest-position"
)

// PreferenceFor maps a trade type onto the matching selection preference.
func PreferenceFor(tradeType engine.TradeType) Preference {
	if tradeType == engine.TradeTypeShort {
		return PreferShort
	}
	return PreferLong
}

// Selection is the outcome of choosing a market for an index token.
type Selection struct {
	IndexTokenAddress common.Address
	MarketAddress     common.Address
	TradeType         engine.TradeType

	// CollateralAddress stays zero here; the trade-options repair pass
	// resolves it against the chosen market's long/short tokens.
	CollateralAddress common.Address
}

// ChooseMarket picks the market and trade type for an index token. Swaps
// resolve their own route separately, so isSwap returns a bare swap selection
// with no market. A nil result means no liquidity pool exists yet for the
// index token; callers must treat that as transient and retry on the next
// recomputation.
func ChooseMarket(
	indexToken common.Address,
	maxLong *liquidity.PoolLiquidity,
	maxShort *liquidity.PoolLiquidity,
	isSwap bool,
	preferred Preference,
) *Selection {
	if isSwap {
		return &Selection{
			IndexTokenAddress: indexToken,
			TradeType:         engine.TradeTypeSwap,
		}
	}

	switch preferred {
	case PreferShort:
		if maxShort == nil {
			return nil
		}
		return &Selection{
			IndexTokenAddress: indexToken,
			MarketAddress:     maxShort.MarketAddress,
			TradeType:         engine.TradeTypeShort,
		}
	default:
		// PreferLong, and PreferLargestPosition until position accounting lands.
		if maxLong == nil {
			return nil
		}
		return &Selection{
			IndexTokenAddress: indexToken,
			MarketAddress:     maxLong.MarketAddress,
			TradeType:         engine.TradeTypeLong,
		}
	}
}

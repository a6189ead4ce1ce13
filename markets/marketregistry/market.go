package marketregistry

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Market is a safe, structured representation of a single liquidity market:
// a pool pairing a long-side and a short-side collateral token, backing both
// swaps and leveraged positions on an index token.
type Market struct {
	// MarketTokenAddress is the pool-share (GM) token address and the market's
	// unique identifier.
	MarketTokenAddress common.Address `json:"marketTokenAddress"`
	IndexTokenAddress  common.Address `json:"indexTokenAddress"`
	LongTokenAddress   common.Address `json:"longTokenAddress"`
	ShortTokenAddress  common.Address `json:"shortTokenAddress"`

	// Pool amounts are fixed-point integers at the respective token's decimals.
	LongPoolAmount  *big.Int `json:"longPoolAmount"`
	ShortPoolAmount *big.Int `json:"shortPoolAmount"`

	IsSpotOnly bool `json:"isSpotOnly,omitempty"`
	IsDisabled bool `json:"isDisabled,omitempty"`
}

// IsSingle reports whether this is a single-collateral market, where the long
// and short sides share one token.
func (m Market) IsSingle() bool {
	return m.LongTokenAddress == m.ShortTokenAddress
}

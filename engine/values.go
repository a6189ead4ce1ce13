package engine

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"

	"github.com/tradestate/tradestate-client-go/amounts"
	marketregistry "github.com/tradestate/tradestate-client-go/markets/marketregistry"
)

// PoolValuesUsd computes the USD value of a market's long and short pools at
// minimum price. A side whose token, price, or pool amount is unavailable
// values at zero rather than failing: a market with an incomplete snapshot
// still contributes (unusable) zero-capacity edges downstream.
func (s *Snapshot) PoolValuesUsd(m marketregistry.Market) (longUsd, shortUsd *uint256.Int) {
	return s.sideValueUsd(m.LongTokenAddress, m.LongPoolAmount),
		s.sideValueUsd(m.ShortTokenAddress, m.ShortPoolAmount)
}

func (s *Snapshot) sideValueUsd(tokenAddress common.Address, poolAmount *big.Int) *uint256.Int {
	token, ok := s.Tokens[tokenAddress]
	if !ok {
		return uint256.NewInt(0)
	}
	price, ok := s.Prices[tokenAddress]
	if !ok || !price.IsValid() {
		return uint256.NewInt(0)
	}

	usd := amounts.ToUsd(poolAmount, token.Decimals, price.MinPrice)
	if usd == nil || usd.Sign() <= 0 {
		return uint256.NewInt(0)
	}

	value, overflow := uint256.FromBig(usd)
	if overflow {
		// Saturate: a pool worth more than 2^256-1 USD units is out of any
		// realistic range, but comparisons must still order it last.
		return new(uint256.Int).SetAllOne()
	}
	return value
}

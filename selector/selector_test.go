package selector

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradestate/tradestate-client-go/engine"
	liquidity "github.com/tradestate/tradestate-client-go/markets/liquidity"
)

func TestPreferenceFor(t *testing.T) {
	assert.Equal(t, PreferLong, PreferenceFor(engine.TradeTypeLong))
	assert.Equal(t, PreferShort, PreferenceFor(engine.TradeTypeShort))
	assert.Equal(t, PreferLong, PreferenceFor(engine.TradeTypeSwap))
}

func TestChooseMarket(t *testing.T) {
	solAddress := common.HexToAddress("0x0000000000000000000000000000000000000103")
	longMarketAddress := common.HexToAddress("0x00000000000000000000000000000000000000a2")
	shortMarketAddress := common.HexToAddress("0x00000000000000000000000000000000000000a3")

	maxLong := &liquidity.PoolLiquidity{
		MarketAddress:     longMarketAddress,
		IndexTokenAddress: solAddress,
		LiquidityUsd:      uint256.NewInt(100),
	}
	maxShort := &liquidity.PoolLiquidity{
		MarketAddress:     shortMarketAddress,
		IndexTokenAddress: solAddress,
		LiquidityUsd:      uint256.NewInt(200),
	}

	t.Run("Swap Ignores Markets", func(t *testing.T) {
		sel := ChooseMarket(solAddress, maxLong, maxShort, true, PreferLong)
		require.NotNil(t, sel)
		assert.Equal(t, engine.TradeTypeSwap, sel.TradeType)
		assert.Equal(t, solAddress, sel.IndexTokenAddress)
		assert.Equal(t, common.Address{}, sel.MarketAddress)
	})

	t.Run("Prefer Long", func(t *testing.T) {
		sel := ChooseMarket(solAddress, maxLong, maxShort, false, PreferLong)
		require.NotNil(t, sel)
		assert.Equal(t, engine.TradeTypeLong, sel.TradeType)
		assert.Equal(t, longMarketAddress, sel.MarketAddress)
	})

	t.Run("Prefer Short", func(t *testing.T) {
		sel := ChooseMarket(solAddress, maxLong, maxShort, false, PreferShort)
		require.NotNil(t, sel)
		assert.Equal(t, engine.TradeTypeShort, sel.TradeType)
		assert.Equal(t, shortMarketAddress, sel.MarketAddress)
	})

	t.Run("Largest Position Falls Back To Max Long", func(t *testing.T) {
		sel := ChooseMarket(solAddress, maxLong, maxShort, false, PreferLargestPosition)
		require.NotNil(t, sel)
		assert.Equal(t, longMarketAddress, sel.MarketAddress)
	})

	t.Run("No Liquidity Yields Nil", func(t *testing.T) {
		assert.Nil(t, ChooseMarket(solAddress, nil, maxShort, false, PreferLong))
		assert.Nil(t, ChooseMarket(solAddress, maxLong, nil, false, PreferShort))
	})
}

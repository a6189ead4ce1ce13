package liquidity

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradestate/tradestate-client-go/amounts"
	"github.com/tradestate/tradestate-client-go/engine"
	marketregistry "github.com/tradestate/tradestate-client-go/markets/marketregistry"
	tokenregistry "github.com/tradestate/tradestate-client-go/markets/tokenregistry"
)

var (
	solAddress  = common.HexToAddress("0x0000000000000000000000000000000000000103")
	usdcAddress = common.HexToAddress("0x0000000000000000000000000000000000000102")

	solMarketAAddress = common.HexToAddress("0x00000000000000000000000000000000000000a2")
	solMarketBAddress = common.HexToAddress("0x00000000000000000000000000000000000000a3")
)

func usdPrice(dollars int64) tokenregistry.Price {
	price := new(big.Int).Mul(big.NewInt(dollars), amounts.UsdPrecision())
	return tokenregistry.Price{MinPrice: price, MaxPrice: price}
}

// twoSolMarketsSnapshot holds two SOL/USD markets sharing the index token:
// market A has the deeper long side, market B the deeper short side.
func twoSolMarketsSnapshot() *engine.Snapshot {
	solMarket := func(address common.Address, longSol, shortUsdc string) marketregistry.Market {
		return marketregistry.Market{
			MarketTokenAddress: address,
			IndexTokenAddress:  solAddress,
			LongTokenAddress:   solAddress,
			ShortTokenAddress:  usdcAddress,
			LongPoolAmount:     amounts.ParseAmount(longSol, 9),
			ShortPoolAmount:    amounts.ParseAmount(shortUsdc, 6),
		}
	}

	return &engine.Snapshot{
		ChainID: 42161,
		Version: 1,
		Tokens: map[common.Address]tokenregistry.Token{
			solAddress:  {Address: solAddress, Symbol: "SOL", Decimals: 9},
			usdcAddress: {Address: usdcAddress, Symbol: "USDC", Decimals: 6},
		},
		Prices: map[common.Address]tokenregistry.Price{
			solAddress:  usdPrice(100),
			usdcAddress: usdPrice(1),
		},
		Markets: map[common.Address]marketregistry.Market{
			// A: 1,000 SOL ($100k) long vs 50,000 USDC short
			solMarketAAddress: solMarket(solMarketAAddress, "1000", "50000"),
			// B: 500 SOL ($50k) long vs 100,000 USDC short
			solMarketBAddress: solMarket(solMarketBAddress, "500", "100000"),
		},
	}
}

func usd(dollars int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(dollars), amounts.UsdPrecision())
}

func TestAggregate(t *testing.T) {
	t.Run("Independent Long And Short Maxima", func(t *testing.T) {
		agg := Aggregate(twoSolMarketsSnapshot())

		entry, ok := agg.ForIndexToken(solAddress)
		require.True(t, ok)

		assert.Equal(t, solMarketAAddress, entry.MaxLong.MarketAddress,
			"market A holds the deeper long side")
		assert.Equal(t, usd(100_000), entry.MaxLong.LiquidityUsd.ToBig())

		assert.Equal(t, solMarketBAddress, entry.MaxShort.MarketAddress,
			"market B holds the deeper short side")
		assert.Equal(t, usd(100_000), entry.MaxShort.LiquidityUsd.ToBig())
	})

	t.Run("Ties Keep The First Market In Address Order", func(t *testing.T) {
		snap := twoSolMarketsSnapshot()
		marketB := snap.Markets[solMarketBAddress]
		marketA := snap.Markets[solMarketAAddress]
		marketB.LongPoolAmount = new(big.Int).Set(marketA.LongPoolAmount)
		marketB.ShortPoolAmount = new(big.Int).Set(marketA.ShortPoolAmount)
		snap.Markets[solMarketBAddress] = marketB

		agg := Aggregate(snap)
		entry, ok := agg.ForIndexToken(solAddress)
		require.True(t, ok)

		assert.Equal(t, solMarketAAddress, entry.MaxLong.MarketAddress)
		assert.Equal(t, solMarketAAddress, entry.MaxShort.MarketAddress)
	})

	t.Run("Spot Only Markets Are Excluded", func(t *testing.T) {
		snap := twoSolMarketsSnapshot()
		marketA := snap.Markets[solMarketAAddress]
		marketA.IsSpotOnly = true
		snap.Markets[solMarketAAddress] = marketA

		agg := Aggregate(snap)
		entry, ok := agg.ForIndexToken(solAddress)
		require.True(t, ok)

		assert.Equal(t, solMarketBAddress, entry.MaxLong.MarketAddress,
			"only market B backs positions now")
	})

	t.Run("Disabled Markets Are Excluded", func(t *testing.T) {
		snap := twoSolMarketsSnapshot()
		for address, market := range snap.Markets {
			market.IsDisabled = true
			snap.Markets[address] = market
		}

		agg := Aggregate(snap)
		_, ok := agg.ForIndexToken(solAddress)
		assert.False(t, ok)
		assert.Empty(t, agg.IndexTokens())
	})

	t.Run("Unknown Index Token", func(t *testing.T) {
		agg := Aggregate(twoSolMarketsSnapshot())
		_, ok := agg.ForIndexToken(common.HexToAddress("0x1111111111111111111111111111111111111111"))
		assert.False(t, ok)
	})

	t.Run("Nil Snapshot", func(t *testing.T) {
		agg := Aggregate(nil)
		require.NotNil(t, agg)
		assert.Empty(t, agg.IndexTokens())
	})
}

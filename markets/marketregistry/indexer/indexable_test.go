package indexer

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketregistry "github.com/tradestate/tradestate-client-go/markets/marketregistry"
)

func TestIndexableMarketSystem(t *testing.T) {
	// --- Test Data Setup ---
	ethMarketAddress := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	solMarketAAddress := common.HexToAddress("0x00000000000000000000000000000000000000a2")
	solMarketBAddress := common.HexToAddress("0x00000000000000000000000000000000000000a3")
	nonExistentAddress := common.HexToAddress("0x1111111111111111111111111111111111111111")

	ethAddress := common.HexToAddress("0x0000000000000000000000000000000000000101")
	solAddress := common.HexToAddress("0x0000000000000000000000000000000000000103")

	testMarkets := []marketregistry.Market{
		{MarketTokenAddress: ethMarketAddress, IndexTokenAddress: ethAddress},
		{MarketTokenAddress: solMarketAAddress, IndexTokenAddress: solAddress},
		{MarketTokenAddress: solMarketBAddress, IndexTokenAddress: solAddress},
	}

	indexer := NewIndexableMarketSystem(testMarkets)
	require.NotNil(t, indexer)

	t.Run("Successful Lookups", func(t *testing.T) {
		market, found := indexer.GetByAddress(ethMarketAddress)
		assert.True(t, found, "ETH market should be found by its pool-share token address")
		assert.Equal(t, ethAddress, market.IndexTokenAddress)
	})

	t.Run("Not Found Lookups", func(t *testing.T) {
		_, found := indexer.GetByAddress(nonExistentAddress)
		assert.False(t, found)
	})

	t.Run("ForIndexToken Groups Markets", func(t *testing.T) {
		solMarkets := indexer.ForIndexToken(solAddress)
		require.Len(t, solMarkets, 2, "Both SOL markets should share the index token")
		assert.Equal(t, solMarketAAddress, solMarkets[0].MarketTokenAddress)
		assert.Equal(t, solMarketBAddress, solMarkets[1].MarketTokenAddress)

		// Verify it's a copy by modifying the returned slice and checking the original
		solMarkets[0].MarketTokenAddress = nonExistentAddress
		again := indexer.ForIndexToken(solAddress)
		assert.Equal(t, solMarketAAddress, again[0].MarketTokenAddress, "Modifying the returned slice should not affect the internal state")
	})

	t.Run("ForIndexToken Unknown Token", func(t *testing.T) {
		assert.Nil(t, indexer.ForIndexToken(nonExistentAddress))
	})

	t.Run("All Method", func(t *testing.T) {
		allMarkets := indexer.All()
		assert.Len(t, allMarkets, 3)
	})

	t.Run("Edge Case - Nil Slice", func(t *testing.T) {
		nilIndexer := NewIndexableMarketSystem(nil)
		require.NotNil(t, nilIndexer)

		_, found := nilIndexer.GetByAddress(ethMarketAddress)
		assert.False(t, found)

		allMarkets := nilIndexer.All()
		assert.Len(t, allMarkets, 0)
		assert.NotNil(t, allMarkets, "All() should return an empty slice, not nil")
	})
}

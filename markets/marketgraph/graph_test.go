package marketgraph

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

	solMarketAddress = common.HexToAddress("0x00000000000000000000000000000000000000a2")
)

func usdPrice(dollars int64) tokenregistry.Price {
	price := new(big.Int).Mul(big.NewInt(dollars), amounts.UsdPrecision())
	return tokenregistry.Price{MinPrice: price, MaxPrice: price}
}

// solUsdcSnapshot holds one SOL/USD market: 10,000 SOL at $100 against
// 100,000 USDC at $1, so the long side is worth 10x the short side.
func solUsdcSnapshot() *engine.Snapshot {
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
			solMarketAddress: {
				MarketTokenAddress: solMarketAddress,
				IndexTokenAddress:  solAddress,
				LongTokenAddress:   solAddress,
				ShortTokenAddress:  usdcAddress,
				LongPoolAmount:     amounts.ParseAmount("10000", 9),
				ShortPoolAmount:    amounts.ParseAmount("100000", 6),
			},
		},
	}
}

// findEdge returns the edge from one token to another, failing the test when
// it is absent.
func findEdge(t *testing.T, g *Graph, from, to common.Address) Edge {
	t.Helper()

	fromIndex, ok := g.TokenIndex(from)
	require.True(t, ok, "source token should be in the graph")

	for _, edgeIndex := range g.AdjacentEdges(fromIndex) {
		edge := g.EdgeAt(edgeIndex)
		if edge.To == to {
			return edge
		}
	}
	t.Fatalf("no edge from %s to %s", from.Hex(), to.Hex())
	return Edge{}
}

func TestBuild(t *testing.T) {
	t.Run("Two Edges Per Market", func(t *testing.T) {
		g := Build(solUsdcSnapshot())

		assert.Equal(t, 2, g.NumTokens())
		assert.Equal(t, 2, g.NumEdges())
	})

	t.Run("Fee Penalizes The Heavier Source Side", func(t *testing.T) {
		g := Build(solUsdcSnapshot())

		// SOL -> USDC deposits into the already heavier SOL side.
		solToUsdc := findEdge(t, g, solAddress, usdcAddress)
		assert.Equal(t, uint8(1), solToUsdc.Fee)

		// USDC -> SOL rebalances the pool.
		usdcToSol := findEdge(t, g, usdcAddress, solAddress)
		assert.Equal(t, uint8(0), usdcToSol.Fee)
	})

	t.Run("Capacity Is The Destination Side Value", func(t *testing.T) {
		g := Build(solUsdcSnapshot())

		// A SOL -> USDC swap draws from the 100,000 USDC side.
		solToUsdc := findEdge(t, g, solAddress, usdcAddress)
		expected := new(big.Int).Mul(big.NewInt(100_000), amounts.UsdPrecision())
		assert.Equal(t, expected, solToUsdc.CapacityUsd.ToBig())

		// A USDC -> SOL swap draws from the $1,000,000 SOL side.
		usdcToSol := findEdge(t, g, usdcAddress, solAddress)
		expected = new(big.Int).Mul(big.NewInt(1_000_000), amounts.UsdPrecision())
		assert.Equal(t, expected, usdcToSol.CapacityUsd.ToBig())
	})

	t.Run("Disabled Market Contributes Nothing", func(t *testing.T) {
		snap := solUsdcSnapshot()
		market := snap.Markets[solMarketAddress]
		market.IsDisabled = true
		snap.Markets[solMarketAddress] = market

		g := Build(snap)
		assert.Equal(t, 0, g.NumTokens())
		assert.Equal(t, 0, g.NumEdges())
	})

	t.Run("Missing Price Yields Zero Capacity Edges", func(t *testing.T) {
		snap := solUsdcSnapshot()
		delete(snap.Prices, usdcAddress)

		g := Build(snap)
		require.Equal(t, 2, g.NumEdges())

		solToUsdc := findEdge(t, g, solAddress, usdcAddress)
		assert.True(t, solToUsdc.CapacityUsd.IsZero())
	})

	t.Run("Nil Snapshot", func(t *testing.T) {
		g := Build(nil)
		require.NotNil(t, g)
		assert.Equal(t, 0, g.NumTokens())
		assert.Equal(t, 0, g.NumEdges())
	})
}

func TestGraph_View(t *testing.T) {
	g := Build(solUsdcSnapshot())

	view := g.View()
	require.NotNil(t, view)
	require.Len(t, view.Tokens, 2)
	require.Len(t, view.EdgeTargets, 2)

	// Mutating the view must not leak back into the graph.
	view.Tokens[0] = common.Address{}
	view.Adjacency[0] = nil
	view.EdgeCapacityUsd[0].Clear()

	assert.NotEqual(t, common.Address{}, g.TokenAt(0))
	assert.NotEmpty(t, g.AdjacentEdges(0))
	assert.False(t, g.EdgeAt(0).CapacityUsd.IsZero())
}

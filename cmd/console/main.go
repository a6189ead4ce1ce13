package main

import (
	"bufio"
	"flag"
	"fmt"
	"math/big"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/tradestate/tradestate-client-go/amounts"
	"github.com/tradestate/tradestate-client-go/engine"
	"github.com/tradestate/tradestate-client-go/logger"
	marketgraph "github.com/tradestate/tradestate-client-go/markets/marketgraph"
	marketregistry "github.com/tradestate/tradestate-client-go/markets/marketregistry"
	tokenregistry "github.com/tradestate/tradestate-client-go/markets/tokenregistry"
	"github.com/tradestate/tradestate-client-go/recompute"
	"github.com/tradestate/tradestate-client-go/router"
	"github.com/tradestate/tradestate-client-go/tradeoptions"
)

// --- VISUAL CONSTANTS ---
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
	Gray   = "\033[37m"
)

// header prints a styled section header
func header(title string) {
	fmt.Println("\n" + Bold + Cyan + ":: " + title + " ::" + Reset)
}

type console struct {
	snapshot *engine.Snapshot
	engine   *recompute.Engine
	store    *tradeoptions.Store
}

func main() {
	dbPath := flag.String("db", "", "Path to the trade options database. Empty keeps options in memory.")
	chainID := flag.Uint64("chain", 42161, "Chain ID used to key the stored trade options.")
	account := flag.String("account", "console", "Account label used to key the stored trade options.")
	flag.Parse()

	// --- 1. SETUP LOGGING (To File) ---
	logFile, err := os.OpenFile("console.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		panic(fmt.Sprintf("Failed to open log file: %v", err))
	}
	defer logFile.Close()
	log := logger.NewWithWriter(logFile, "console")

	closeApp := func() {
		fmt.Println("\n" + Red + "Fatal error occurred. Check console.log for details." + Reset)
		os.Exit(1)
	}

	// --- 2. PERSISTENCE & STORE ---
	var persistence tradeoptions.Persistence = tradeoptions.NewMemoryPersistence()
	if *dbPath != "" {
		db, err := tradeoptions.OpenLevelDB(*dbPath)
		if err != nil {
			log.Error("Failed to open trade options database", "path", *dbPath, "err", err.Error())
			closeApp()
		}
		defer db.Close()
		persistence = db
	}

	store, err := tradeoptions.NewStore(&tradeoptions.Config{
		Key:         tradeoptions.Key{ChainID: *chainID, Account: *account},
		Persistence: persistence,
		Logger:      log,
	})
	if err != nil {
		log.Error("Failed to initialize trade options store", "err", err.Error())
		closeApp()
	}

	// --- 3. RECOMPUTE ENGINE ---
	eng, err := recompute.New(&recompute.Config{
		Logger:   log,
		Registry: prometheus.NewRegistry(),
		Store:    store,
		MaxHops:  router.DefaultMaxHops,
	})
	if err != nil {
		log.Error("Failed to initialize recompute engine", "err", err.Error())
		closeApp()
	}

	// --- 4. DEMO SNAPSHOT ---
	snap := demoSnapshot(*chainID)
	if err := eng.Apply(snap); err != nil {
		log.Error("Failed to apply demo snapshot", "err", err.Error())
		closeApp()
	}

	fmt.Println(Green + "Starting Trade State Console..." + Reset)
	fmt.Println("Logs are being written to 'console.log'")

	c := &console{snapshot: snap, engine: eng, store: store}
	c.run()
}

func (c *console) run() {
	reader := bufio.NewReader(os.Stdin)

	for {
		printMenu()

		fmt.Print(Bold + "Enter selection: " + Reset)
		input, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println(Yellow + "Exiting..." + Reset)
			return
		}
		input = strings.TrimSpace(input)

		if input == "q" {
			fmt.Println(Yellow + "Exiting..." + Reset)
			return
		}
		c.handleCommand(input, reader)

		fmt.Println("\n" + Gray + "[Press Enter to continue]" + Reset)
		reader.ReadString('\n')
	}
}

func printMenu() {
	fmt.Print("\033[H\033[2J") // Clear screen
	fmt.Println(Bold + "TRADE STATE CONSOLE" + Reset + Gray + " | v0.1.0" + Reset)
	fmt.Println(Gray + "-----------------------------------" + Reset)
	fmt.Printf(" %s1.%s Snapshot Info\n", Cyan, Reset)
	fmt.Printf(" %s2.%s Trade Options %s(Current Selection)%s\n", Cyan, Reset, Gray, Reset)
	fmt.Printf(" %s3.%s Markets       %s(Pool Values)%s\n", Cyan, Reset, Gray, Reset)
	fmt.Printf(" %s4.%s Liquidity     %s(Max Long/Short per Index)%s\n", Cyan, Reset, Gray, Reset)
	fmt.Printf(" %s5.%s Route         %s(Lowest-Fee Swap Path)%s\n", Cyan, Reset, Gray, Reset)
	fmt.Printf(" %s6.%s Select Trade  %s(Type + Target Token)%s\n", Cyan, Reset, Gray, Reset)
	fmt.Printf(" %s7.%s Switch Tokens\n", Cyan, Reset)
	fmt.Println(Gray + "-----------------------------------" + Reset)
	fmt.Printf(" %sh.%s Help / Architecture\n", Yellow, Reset)
	fmt.Printf(" %sq.%s Quit\n", Red, Reset)
	fmt.Println("")
}

func (c *console) handleCommand(input string, reader *bufio.Reader) {
	switch input {
	case "1":
		c.printSnapshotInfo()
	case "2":
		c.printTradeOptions()
	case "3":
		c.printMarkets()
	case "4":
		c.printLiquidity()
	case "5":
		c.findRoute(reader)
	case "6":
		c.selectTrade(reader)
	case "7":
		c.switchTokens()
	case "h":
		printHelp()
	default:
		fmt.Println(Red + "Unknown command." + Reset)
	}
}

// --- COMMAND HANDLERS ---

func printHelp() {
	fmt.Print("\033[H\033[2J")

	header("TRADE STATE ARCHITECTURE")
	fmt.Println(Bold + "Concept: Snapshot-Driven Recomputation" + Reset)
	fmt.Println("Every market/token/price snapshot rebuilds all derived trading state")
	fmt.Println("from scratch. Nothing is patched in place.")
	fmt.Println("")

	fmt.Println(Bold + "1. THE DATA STRUCTURE" + Reset)
	fmt.Println("   The root object is " + Cyan + "Snapshot" + Reset + ", which contains:")
	fmt.Println("   - " + Yellow + "Tokens" + Reset + ": Address-keyed token metadata (Symbol, Decimals).")
	fmt.Println("   - " + Yellow + "Markets" + Reset + ": Liquidity pools (Index, Long, Short tokens + pool amounts).")
	fmt.Println("   - " + Yellow + "Prices" + Reset + ": Min/max oracle prices per token.")
	fmt.Println("")

	fmt.Println(Bold + "2. THE DERIVED STATE" + Reset)
	fmt.Printf("   A. %sMarket Graph%s\n", Cyan, Reset)
	fmt.Println("      - A directed multigraph: tokens are nodes, each enabled market")
	fmt.Println("        contributes one edge per swap direction.")
	fmt.Println("      - Edges carry a USD capacity and a pool-balance fee flag.")
	fmt.Println("")
	fmt.Printf("   B. %sLiquidity Aggregation%s\n", Cyan, Reset)
	fmt.Println("      - Per index token: the market with the deepest long side and,")
	fmt.Println("        independently, the market with the deepest short side.")
	fmt.Println("")
	fmt.Printf("   C. %sTrade Options%s\n", Cyan, Reset)
	fmt.Println("      - The persisted trade selection (type, mode, tokens, pinned markets).")
	fmt.Println("      - A repair pass after every recomputation keeps it consistent with")
	fmt.Println("        the available token/market universe.")
	fmt.Println("")

	fmt.Println(Gray + "---------------------------------------------------------------" + Reset)
	fmt.Println(Bold + "PURPOSE OF THIS CONSOLE" + Reset)
	fmt.Println("Explore the derived state over a built-in demo snapshot, and drive the")
	fmt.Println("trade options state machine the way an exchange frontend would.")
	fmt.Println(Gray + "---------------------------------------------------------------" + Reset)
}

func (c *console) printSnapshotInfo() {
	view := c.engine.GraphView()

	fmt.Printf("\n%sSTATUS  ::%s Snapshot %s#%d%s | Chain %s%d%s | Tokens %s%d%s | Markets %s%d%s | Graph Edges %s%d%s\n",
		Green, Reset,
		Bold, c.snapshot.Version, Reset,
		Bold, c.snapshot.ChainID, Reset,
		Bold, len(c.snapshot.Tokens), Reset,
		Bold, len(c.snapshot.Markets), Reset,
		Bold, len(view.EdgeTargets), Reset,
	)
}

func (c *console) printTradeOptions() {
	header("TRADE OPTIONS")

	o := c.engine.Options()
	flags := c.engine.TradeFlags()

	fmt.Printf(" %s%-12s%s %s\n", Gray, "Type:", Reset, o.TradeType)
	fmt.Printf(" %s%-12s%s %s\n", Gray, "Mode:", Reset, o.TradeMode)
	fmt.Printf(" %s%-12s%s %s\n", Gray, "From:", Reset, c.describeToken(o.FromTokenAddress))
	fmt.Printf(" %s%-12s%s %s\n", Gray, "To:", Reset, c.describeToken(o.ToTokenAddress()))
	if flags.IsPosition {
		fmt.Printf(" %s%-12s%s %s\n", Gray, "Collateral:", Reset, c.describeToken(o.CollateralAddress))
		pinned := o.PinnedMarket(o.IndexTokenAddress, o.TradeType)
		fmt.Printf(" %s%-12s%s %s\n", Gray, "Market:", Reset, c.describeMarket(pinned))
	}

	if len(o.MarketPins) > 0 {
		fmt.Println("\n" + Bold + "Pinned Markets:" + Reset)
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
		fmt.Fprintln(w, "INDEX TOKEN\tLONG MARKET\tSHORT MARKET\t")
		for indexToken, pin := range o.MarketPins {
			fmt.Fprintf(w, "%s\t%s\t%s\t\n",
				c.describeToken(indexToken),
				c.describeMarket(pin.LongMarketAddress),
				c.describeMarket(pin.ShortMarketAddress))
		}
		w.Flush()
	}
}

func (c *console) printMarkets() {
	header("MARKETS")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintln(w, "MARKET\tINDEX\tLONG SIDE\tSHORT SIDE\tLONG USD\tSHORT USD\tFLAGS\t")
	fmt.Fprintln(w, "------\t-----\t---------\t----------\t--------\t---------\t-----\t")

	for _, address := range sortedMarketAddresses(c.snapshot) {
		market := c.snapshot.Markets[address]
		longUsd, shortUsd := c.snapshot.PoolValuesUsd(market)

		flags := make([]string, 0, 2)
		if market.IsDisabled {
			flags = append(flags, Red+"DISABLED"+Reset)
		}
		if market.IsSpotOnly {
			flags = append(flags, Yellow+"SPOT"+Reset)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t\n",
			shortAddress(address),
			c.describeToken(market.IndexTokenAddress),
			c.describeToken(market.LongTokenAddress),
			c.describeToken(market.ShortTokenAddress),
			formatUsd(longUsd.ToBig()),
			formatUsd(shortUsd.ToBig()),
			strings.Join(flags, " "))
	}
	w.Flush()
}

func (c *console) printLiquidity() {
	header("LIQUIDITY (MAX PER INDEX TOKEN)")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 4, ' ', 0)
	fmt.Fprintln(w, "INDEX\tMAX LONG USD\tLONG MARKET\tMAX SHORT USD\tSHORT MARKET\t")
	fmt.Fprintln(w, "-----\t------------\t-----------\t-------------\t------------\t")

	seen := make(map[common.Address]bool)
	for _, address := range sortedMarketAddresses(c.snapshot) {
		market := c.snapshot.Markets[address]
		if seen[market.IndexTokenAddress] {
			continue
		}
		seen[market.IndexTokenAddress] = true

		entry, ok := c.engine.Liquidity(market.IndexTokenAddress)
		if !ok {
			continue
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t\n",
			c.describeToken(market.IndexTokenAddress),
			formatUsd(entry.MaxLong.LiquidityUsd.ToBig()),
			shortAddress(entry.MaxLong.MarketAddress),
			formatUsd(entry.MaxShort.LiquidityUsd.ToBig()),
			shortAddress(entry.MaxShort.MarketAddress))
	}
	w.Flush()
}

func (c *console) findRoute(reader *bufio.Reader) {
	header("ROUTE FINDER")

	fmt.Print(Bold + "1. Enter Input Token (symbol or address): " + Reset)
	from, err := c.readToken(reader)
	if err != nil {
		fmt.Println(Red + err.Error() + Reset)
		return
	}
	fmt.Printf("%s   Selected Input: %s (%d decimals)%s\n", Green, from.Symbol, from.Decimals, Reset)

	fmt.Print(Bold + "2. Enter Output Token (symbol or address): " + Reset)
	to, err := c.readToken(reader)
	if err != nil {
		fmt.Println(Red + err.Error() + Reset)
		return
	}
	fmt.Printf("%s   Selected Output: %s (%d decimals)%s\n", Green, to.Symbol, to.Decimals, Reset)

	graph := marketgraph.Build(c.snapshot)
	path, ok := router.New(graph, nil).FindPath(from.Address, to.Address, router.FeeWeight, router.DefaultMaxHops)
	if !ok {
		fmt.Println(Yellow + "No route found within the hop bound." + Reset)
		return
	}

	header("BEST ROUTE FOUND")
	fmt.Printf("%sHops:%s %d\n\n", Bold, Reset, path.HopCount())

	for i, marketAddress := range path.Markets {
		fmt.Printf(" [ Step %d ]\n", i+1)
		fmt.Printf("  %s%-6s%s\n", Cyan, c.describeToken(path.Tokens[i]), Reset)
		fmt.Printf("    %s|%s\n", Gray, Reset)
		fmt.Printf("    %s+---[%s %s %s]--->%s  %s%-6s%s\n",
			Gray,
			Reset, c.describeMarket(marketAddress),
			Gray,
			Reset,
			Cyan, c.describeToken(path.Tokens[i+1]), Reset)
		fmt.Println("")
	}
	if path.HopCount() == 0 {
		fmt.Println(Gray + "Input and output are the same token; nothing to swap." + Reset)
	}
}

func (c *console) selectTrade(reader *bufio.Reader) {
	header("SELECT TRADE")

	fmt.Print(Bold + "1. Trade type (long/short/swap): " + Reset)
	input, _ := reader.ReadString('\n')

	var tradeType engine.TradeType
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "long":
		tradeType = engine.TradeTypeLong
	case "short":
		tradeType = engine.TradeTypeShort
	case "swap":
		tradeType = engine.TradeTypeSwap
	default:
		fmt.Println(Red + "Unknown trade type." + Reset)
		return
	}

	fmt.Print(Bold + "2. Target token (symbol or address): " + Reset)
	token, err := c.readToken(reader)
	if err != nil {
		fmt.Println(Red + err.Error() + Reset)
		return
	}

	changed := c.store.SetToToken(token.Address, common.Address{}, tradeType)

	// Re-apply so the repair pass resolves the market and collateral for the
	// new target.
	next := *c.snapshot
	next.Version = c.snapshot.Version + 1
	c.snapshot = &next
	if err := c.engine.Apply(c.snapshot); err != nil {
		fmt.Println(Red + err.Error() + Reset)
		return
	}

	if changed {
		fmt.Println(Green + "Selection updated." + Reset)
	} else {
		fmt.Println(Gray + "Selection unchanged." + Reset)
	}
	c.printTradeOptions()
}

func (c *console) switchTokens() {
	if c.store.SwitchTokenAddresses() {
		fmt.Println(Green + "Tokens switched." + Reset)
	} else {
		fmt.Println(Gray + "Nothing to switch." + Reset)
	}
	c.printTradeOptions()
}

// --- HELPERS ---

func (c *console) readToken(reader *bufio.Reader) (tokenregistry.Token, error) {
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return tokenregistry.Token{}, fmt.Errorf("empty input")
	}

	if strings.HasPrefix(input, "0x") {
		address := common.HexToAddress(input)
		token, ok := c.snapshot.Tokens[address]
		if !ok {
			return tokenregistry.Token{}, fmt.Errorf("token address not found in snapshot")
		}
		return token, nil
	}

	for _, token := range c.snapshot.Tokens {
		if strings.EqualFold(token.Symbol, input) {
			return token, nil
		}
	}
	return tokenregistry.Token{}, fmt.Errorf("token symbol %q not found in snapshot", input)
}

func (c *console) describeToken(address common.Address) string {
	if address == (common.Address{}) {
		return Gray + "<unset>" + Reset
	}
	if token, ok := c.snapshot.Tokens[address]; ok {
		return token.Symbol
	}
	return shortAddress(address)
}

func (c *console) describeMarket(address common.Address) string {
	if address == (common.Address{}) {
		return Gray + "<unset>" + Reset
	}
	market, ok := c.snapshot.Markets[address]
	if !ok {
		return shortAddress(address)
	}
	return fmt.Sprintf("%s/%s [%s-%s]",
		c.describeToken(market.IndexTokenAddress), "USD",
		c.describeToken(market.LongTokenAddress),
		c.describeToken(market.ShortTokenAddress))
}

func shortAddress(address common.Address) string {
	hexAddr := address.Hex()
	return hexAddr[:6] + ".." + hexAddr[len(hexAddr)-4:]
}

// formatUsd renders a 1e30-scaled USD value as whole dollars with thousands
// separators.
func formatUsd(usd *big.Int) string {
	whole := new(big.Int).Quo(usd, amounts.UsdPrecision()).String()

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	return b.String() + " USD"
}

func sortedMarketAddresses(snap *engine.Snapshot) []common.Address {
	addresses := make([]common.Address, 0, len(snap.Markets))
	for address := range snap.Markets {
		addresses = append(addresses, address)
	}
	sort.Slice(addresses, func(i, j int) bool {
		return strings.Compare(addresses[i].Hex(), addresses[j].Hex()) < 0
	})
	return addresses
}

// --- DEMO SNAPSHOT ---

func demoSnapshot(chainID uint64) *engine.Snapshot {
	weth := token("0x0000000000000000000000000000000000000101", "WETH", 18)
	usdc := token("0x0000000000000000000000000000000000000102", "USDC", 6)
	sol := token("0x0000000000000000000000000000000000000103", "SOL", 9)
	wbtc := token("0x0000000000000000000000000000000000000104", "WBTC", 8)

	snap := &engine.Snapshot{
		ChainID:   chainID,
		Version:   1,
		Timestamp: 1724979600,
		Tokens: map[common.Address]tokenregistry.Token{
			weth.Address: weth,
			usdc.Address: usdc,
			sol.Address:  sol,
			wbtc.Address: wbtc,
		},
		Prices: map[common.Address]tokenregistry.Price{
			weth.Address: usdPrice(2500),
			usdc.Address: usdPrice(1),
			sol.Address:  usdPrice(150),
			wbtc.Address: usdPrice(65000),
		},
		Markets: map[common.Address]marketregistry.Market{},
	}

	addMarket := func(addr string, index, long, short tokenregistry.Token, longAmount, shortAmount string, spotOnly bool) {
		address := common.HexToAddress(addr)
		snap.Markets[address] = marketregistry.Market{
			MarketTokenAddress: address,
			IndexTokenAddress:  index.Address,
			LongTokenAddress:   long.Address,
			ShortTokenAddress:  short.Address,
			LongPoolAmount:     amounts.ParseAmount(longAmount, long.Decimals),
			ShortPoolAmount:    amounts.ParseAmount(shortAmount, short.Decimals),
			IsSpotOnly:         spotOnly,
		}
	}

	// ETH/USD: 1000 WETH vs 1,500,000 USDC
	addMarket("0x00000000000000000000000000000000000000A1", weth, weth, usdc, "1000", "1500000", false)
	// SOL/USD, market A: deep long side (20,000 SOL vs 1,500,000 USDC)
	addMarket("0x00000000000000000000000000000000000000A2", sol, sol, usdc, "20000", "1500000", false)
	// SOL/USD, market B: deep short side (10,000 SOL vs 2,500,000 USDC)
	addMarket("0x00000000000000000000000000000000000000A3", sol, sol, usdc, "10000", "2500000", false)
	// BTC/USD: 50 WBTC vs 2,000,000 USDC
	addMarket("0x00000000000000000000000000000000000000A4", wbtc, wbtc, usdc, "50", "2000000", false)
	// WBTC/WETH spot market: swap connectivity only, no positions
	addMarket("0x00000000000000000000000000000000000000A5", wbtc, wbtc, weth, "30", "800", true)

	return snap
}

func token(addr, symbol string, decimals uint8) tokenregistry.Token {
	return tokenregistry.Token{
		Address:  common.HexToAddress(addr),
		Symbol:   symbol,
		Decimals: decimals,
	}
}

func usdPrice(dollars int64) tokenregistry.Price {
	price := new(big.Int).Mul(big.NewInt(dollars), amounts.UsdPrecision())
	return tokenregistry.Price{MinPrice: price, MaxPrice: price}
}

package engine

// TradeType is the high-level trading intent.
type TradeType string

const (
	TradeTypeLong  TradeType = "Long"
	TradeTypeShort TradeType = "Short"
	TradeTypeSwap  TradeType = "Swap"
)

// IsLong reports whether the trade type is a long position.
func (t TradeType) IsLong() bool { return t == TradeTypeLong }

// IsShort reports whether the trade type is a short position.
func (t TradeType) IsShort() bool { return t == TradeTypeShort }

// IsSwap reports whether the trade type is a token swap.
func (t TradeType) IsSwap() bool { return t == TradeTypeSwap }

// IsPosition reports whether the trade type opens or modifies a leveraged position.
func (t TradeType) IsPosition() bool { return t == TradeTypeLong || t == TradeTypeShort }

// IsValid reports whether the value is one of the known trade types.
func (t TradeType) IsValid() bool {
	return t == TradeTypeLong || t == TradeTypeShort || t == TradeTypeSwap
}

// TradeMode is the execution timing intent.
type TradeMode string

const (
	TradeModeMarket  TradeMode = "Market"
	TradeModeLimit   TradeMode = "Limit"
	TradeModeTrigger TradeMode = "Trigger"
)

// IsMarket reports whether the mode executes immediately at market price.
func (m TradeMode) IsMarket() bool { return m == TradeModeMarket }

// IsLimit reports whether the mode waits for a limit price.
func (m TradeMode) IsLimit() bool { return m == TradeModeLimit }

// IsTrigger reports whether the mode fires against an existing position.
func (m TradeMode) IsTrigger() bool { return m == TradeModeTrigger }

// AvailableTradeModes returns the execution modes allowed for a trade type, in
// preference order. Trigger orders only make sense against a position.
func AvailableTradeModes(t TradeType) []TradeMode {
	if t.IsSwap() {
		return []TradeMode{TradeModeMarket, TradeModeLimit}
	}
	return []TradeMode{TradeModeMarket, TradeModeLimit, TradeModeTrigger}
}

package tradeoptions

import (
	"errors"
	"sync"

	"github.com/ethereum/go-ethereum/common"

	"github.com/tradestate/tradestate-client-go/engine"
	"github.com/tradestate/tradestate-client-go/logger"
)

// Config configures a Store.
type Config struct {
	Key         Key
	Persistence Persistence
	Logger      logger.Logger
}

// validate checks if the configuration is valid, ensuring required dependencies are present.
func (c *Config) validate() error {
	if c.Persistence == nil {
		return errors.New("config: Persistence cannot be nil")
	}
	if c.Logger == nil {
		return errors.New("config: Logger cannot be nil")
	}
	return nil
}

// Store owns the current TradeOptions value for one network/session key. All
// state changes flow through the named transition methods; each accepted
// transition replaces the value, persists it, and notifies subscribers.
type Store struct {
	key         Key
	persistence Persistence
	logger      logger.Logger

	mu          sync.RWMutex
	current     TradeOptions
	subscribers []func(TradeOptions)
}

// NewStore constructs a store, loading the persisted value for the key or
// falling back to the documented default when nothing usable is stored.
func NewStore(cfg *Config) (*Store, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Store{
		key:         cfg.Key,
		persistence: cfg.Persistence,
		logger:      cfg.Logger,
		current:     Default(),
	}

	loaded, err := cfg.Persistence.Load(cfg.Key)
	if err != nil {
		cfg.Logger.Warn("stored trade options unreadable, using defaults",
			"key", cfg.Key.String(), "err", err.Error())
	} else if loaded != nil {
		s.current = normalize(*loaded)
	}

	return s, nil
}

// normalize coerces a loaded value into a structurally valid one. Semantic
// consistency against the live universe is the repair pass's job.
func normalize(o TradeOptions) TradeOptions {
	if !o.TradeType.IsValid() {
		o.TradeType = engine.TradeTypeLong
	}
	o.TradeMode = clampMode(o.TradeType, o.TradeMode)
	if o.MarketPins == nil {
		o.MarketPins = make(map[common.Address]MarketPin)
	}
	return o
}

// Current returns a deep copy of the current value.
func (s *Store) Current() TradeOptions {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.clone()
}

// Key returns the store's identity.
func (s *Store) Key() Key { return s.key }

// Subscribe registers a callback invoked after every accepted transition with
// a copy of the new value.
func (s *Store) Subscribe(fn func(TradeOptions)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// commit installs next iff it differs from the current value. Unchanged
// values trigger neither a persistence write nor a notification. Caller must
// hold s.mu.
func (s *Store) commit(next TradeOptions) bool {
	if next.Equal(s.current) {
		return false
	}
	s.current = next

	if err := s.persistence.Save(s.key, next.clone()); err != nil {
		// Persistence failure degrades to in-memory state; the next accepted
		// transition retries the write.
		s.logger.Error("failed to persist trade options",
			"key", s.key.String(), "err", err.Error())
	}

	for _, fn := range s.subscribers {
		fn(next.clone())
	}
	return true
}

// SetTradeType replaces the trade type, resetting the trade mode when the
// current one is not allowed for the new type.
func (s *Store) SetTradeType(tradeType engine.TradeType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.clone()
	next.TradeType = tradeType
	next.TradeMode = clampMode(tradeType, next.TradeMode)
	return s.commit(next)
}

// SetTradeMode replaces the trade mode.
func (s *Store) SetTradeMode(tradeMode engine.TradeMode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.clone()
	next.TradeMode = tradeMode
	return s.commit(next)
}

// SetFromToken replaces the pay-side token address.
func (s *Store) SetFromToken(address common.Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.clone()
	next.FromTokenAddress = address
	return s.commit(next)
}

// SetToToken replaces the trade-target token. A non-zero marketAddress pins
// that market for the token under the (possibly newly set) trade type; a
// non-empty tradeType switches the trade type first.
func (s *Store) SetToToken(token common.Address, marketAddress common.Address, tradeType engine.TradeType) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.clone()
	applyToToken(&next, token, marketAddress, tradeType)
	return s.commit(next)
}

// Params is a partial update applied atomically by SetTradeParams. Nil fields
// are left untouched.
type Params struct {
	TradeType         *engine.TradeType
	TradeMode         *engine.TradeMode
	FromTokenAddress  *common.Address
	ToTokenAddress    *common.Address
	MarketAddress     *common.Address
	CollateralAddress *common.Address
}

// SetTradeParams merges any subset of fields in one transition, for flows
// where several fields must change together, like picking a token from search
// results along with its best market.
func (s *Store) SetTradeParams(params Params) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.clone()

	if params.TradeType != nil {
		next.TradeType = *params.TradeType
		next.TradeMode = clampMode(next.TradeType, next.TradeMode)
	}
	if params.TradeMode != nil {
		next.TradeMode = *params.TradeMode
	}
	if params.FromTokenAddress != nil {
		next.FromTokenAddress = *params.FromTokenAddress
	}
	if params.ToTokenAddress != nil {
		market := zeroAddress
		if params.MarketAddress != nil {
			market = *params.MarketAddress
		}
		applyToToken(&next, *params.ToTokenAddress, market, "")
	}
	if params.CollateralAddress != nil {
		next.CollateralAddress = *params.CollateralAddress
	}

	return s.commit(next)
}

// SwitchTokenAddresses swaps the roles of the "from" and "to" tokens for the
// current trade type.
func (s *Store) SwitchTokenAddresses() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.clone()
	if next.TradeType.IsSwap() {
		next.FromTokenAddress, next.SwapToTokenAddress = next.SwapToTokenAddress, next.FromTokenAddress
	} else {
		next.FromTokenAddress, next.IndexTokenAddress = next.IndexTokenAddress, next.FromTokenAddress
	}
	return s.commit(next)
}

// Repair enforces the universe-membership invariants on the current value.
// It is invoked after every recomputation of the available universe, not by
// user action, and is idempotent: repairing an already-consistent value
// changes nothing and writes nothing.
func (s *Store) Repair(universe *Universe) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := repairOptions(s.current, universe)
	return s.commit(next)
}

func applyToToken(next *TradeOptions, token, marketAddress common.Address, tradeType engine.TradeType) {
	if tradeType != "" {
		next.TradeType = tradeType
		next.TradeMode = clampMode(tradeType, next.TradeMode)
	}

	if next.TradeType.IsSwap() {
		next.SwapToTokenAddress = token
		return
	}

	next.IndexTokenAddress = token
	if marketAddress != zeroAddress {
		next.pin(token, next.TradeType, marketAddress)
	}
}

package tradeoptions

import (
	"fmt"
	"sync"
)

// envelopeVersion is the serialization contract version for persisted state.
const envelopeVersion = 1

// Key identifies one persisted trade-options record. One record exists per
// network/session context; it is never deleted, only overwritten.
type Key struct {
	ChainID uint64 `json:"chainId"`
	Account string `json:"account"`
}

// String renders the typed key into its storage form.
func (k Key) String() string {
	return fmt.Sprintf("tradeoptions/v%d/%d/%s", envelopeVersion, k.ChainID, k.Account)
}

// Persistence is the external storage collaborator. Load returns (nil, nil)
// when nothing is stored; any error is absorbed by the store, which falls
// back to the default state.
type Persistence interface {
	Load(key Key) (*TradeOptions, error)
	Save(key Key, value TradeOptions) error
}

// MemoryPersistence is a process-local Persistence, used in tests and by the
// console when no database path is configured.
type MemoryPersistence struct {
	mu     sync.Mutex
	values map[string]TradeOptions
	saves  int
}

// NewMemoryPersistence creates an empty in-memory backend.
func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{values: make(map[string]TradeOptions)}
}

// Load returns the stored value for a key, or (nil, nil).
func (p *MemoryPersistence) Load(key Key) (*TradeOptions, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	value, ok := p.values[key.String()]
	if !ok {
		return nil, nil
	}
	stored := value.clone()
	return &stored, nil
}

// Save overwrites the stored value for a key.
func (p *MemoryPersistence) Save(key Key, value TradeOptions) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key.String()] = value.clone()
	p.saves++
	return nil
}

// SaveCount returns how many writes have been accepted.
func (p *MemoryPersistence) SaveCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

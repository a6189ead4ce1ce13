package engine

import (
	"errors"

	"github.com/ethereum/go-ethereum/common"

	marketregistry "github.com/tradestate/tradestate-client-go/markets/marketregistry"
	tokenregistry "github.com/tradestate/tradestate-client-go/markets/tokenregistry"
)

// Snapshot is the market/token/price universe delivered by an external polling
// or subscription collaborator. It is the sole input to every recomputation:
// the engine never mutates a snapshot, it only derives from it.
type Snapshot struct {
	ChainID uint64 `json:"chainId"`

	// Version is a monotonically increasing identity assigned by the producer.
	// Two snapshots with the same version are treated as the same input.
	Version uint64 `json:"version"`

	Timestamp uint64 `json:"timestamp"`

	Tokens  map[common.Address]tokenregistry.Token   `json:"tokens"`
	Markets map[common.Address]marketregistry.Market `json:"markets"`
	Prices  map[common.Address]tokenregistry.Price   `json:"prices"`
}

// ErrNilSnapshot is returned when a nil snapshot is offered to the engine.
var ErrNilSnapshot = errors.New("nil snapshot")

// Validate checks the snapshot for structural problems. A valid snapshot may
// still be sparse: missing prices or tokens degrade to zero-value pools, not
// errors.
func (s *Snapshot) Validate() error {
	if s == nil {
		return ErrNilSnapshot
	}
	if s.Tokens == nil || s.Markets == nil || s.Prices == nil {
		return errors.New("snapshot maps must be non-nil")
	}
	return nil
}

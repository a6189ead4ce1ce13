package tokenregistry

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Token is a safe, structured representation of a token's data for external use.
type Token struct {
	Address        common.Address `json:"address"`
	Symbol         string         `json:"symbol"`
	Decimals       uint8          `json:"decimals"`
	IsNative       bool           `json:"isNative,omitempty"`
	IsWrapped      bool           `json:"isWrapped,omitempty"`
	WrappedAddress common.Address `json:"wrappedAddress,omitempty"`
}

// Price carries the min/max oracle price points for a token, as fixed-point
// integers at the common USD scale.
type Price struct {
	MinPrice *big.Int `json:"minPrice"`
	MaxPrice *big.Int `json:"maxPrice"`
}

// IsValid reports whether both price points are present and positive.
func (p Price) IsValid() bool {
	return p.MinPrice != nil && p.MaxPrice != nil && p.MinPrice.Sign() > 0 && p.MaxPrice.Sign() > 0
}

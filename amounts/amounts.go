// Package amounts converts raw user-entered strings into fixed-point token
// amounts, USD values, and token-pair price ratios. All arithmetic is integer
// fixed-point; no floating point is used anywhere.
package amounts

import (
	"errors"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// UsdDecimals is the fixed number of decimals shared by every USD-denominated
// value in the engine: prices, pool values, and edge capacities.
const UsdDecimals = 30

var (
	ten = big.NewInt(10)

	// usdPrecision is 10^UsdDecimals, the USD fixed-point unit.
	usdPrecision = new(big.Int).Exp(ten, big.NewInt(UsdDecimals), nil)

	// precomputed 10^dec for decimals up to the USD scale
	precomputedScales [UsdDecimals + 1]*big.Int

	// ErrMissingPrice is returned when a ratio is requested for a token with a
	// nil or non-positive price.
	ErrMissingPrice = errors.New("missing or non-positive token price")
)

func init() {
	// fill precomputedScales[0..UsdDecimals]
	precomputedScales[0] = big.NewInt(1)
	for i := 1; i < len(precomputedScales); i++ {
		precomputedScales[i] = new(big.Int).Mul(precomputedScales[i-1], ten)
	}
}

// UsdPrecision returns the USD fixed-point unit (10^30). The returned value is
// shared and MUST NOT be modified.
func UsdPrecision() *big.Int {
	return usdPrecision
}

// GetScaledDecimal returns 10^dec. It returns a *big.Int that MUST NOT be modified.
// If dec <= UsdDecimals we return the precomputed immutable value.
// If dec > UsdDecimals we compute it on the fly.
func GetScaledDecimal(dec uint8) *big.Int {
	if int(dec) < len(precomputedScales) {
		return precomputedScales[dec] // safe to return as read-only
	}

	// rare path: compute on the fly
	return new(big.Int).Exp(ten, big.NewInt(int64(dec)), nil)
}

// ParseAmount converts user-entered numeric text into a fixed-point integer
// amount at the given token decimals. Empty or invalid text yields zero; the
// function never panics. Fractional digits beyond the token's decimals are
// truncated.
func ParseAmount(text string, decimals uint8) *big.Int {
	text = strings.TrimSpace(text)
	if text == "" {
		return new(big.Int)
	}

	d, err := decimal.NewFromString(text)
	if err != nil {
		return new(big.Int)
	}

	// Shift into the token's fixed-point scale, then drop any remaining
	// fractional component.
	return d.Shift(int32(decimals)).BigInt()
}

// ToUsd converts a fixed-point token amount into a USD value at the common USD
// scale. It returns nil when the amount or price is unavailable, so callers
// can distinguish "unknown" from "zero".
func ToUsd(amount *big.Int, decimals uint8, price *big.Int) *big.Int {
	if amount == nil || price == nil {
		return nil
	}

	usd := new(big.Int).Mul(amount, price)
	return usd.Div(usd, GetScaledDecimal(decimals))
}

// Ratio is the fixed-point price ratio between two tokens, oriented from the
// higher-priced token to the lower-priced one. The token identities are
// retained so display code can keep the correct orientation regardless of the
// numeric order of the inputs.
type Ratio struct {
	Ratio         *big.Int
	LargestToken  common.Address
	SmallestToken common.Address
}

// TokensRatio orders the two tokens by price magnitude and computes
// largerPrice * 10^30 / smallerPrice. The result is independent of argument
// order. Both prices must share the common USD scale.
func TokensRatio(tokenA common.Address, priceA *big.Int, tokenB common.Address, priceB *big.Int) (*Ratio, error) {
	if priceA == nil || priceA.Sign() <= 0 || priceB == nil || priceB.Sign() <= 0 {
		return nil, ErrMissingPrice
	}

	largestToken, smallestToken := tokenA, tokenB
	largestPrice, smallestPrice := priceA, priceB
	if priceA.Cmp(priceB) < 0 {
		largestToken, smallestToken = tokenB, tokenA
		largestPrice, smallestPrice = priceB, priceA
	}

	ratio := new(big.Int).Mul(largestPrice, usdPrecision)
	ratio.Div(ratio, smallestPrice)

	return &Ratio{
		Ratio:         ratio,
		LargestToken:  largestToken,
		SmallestToken: smallestToken,
	}, nil
}

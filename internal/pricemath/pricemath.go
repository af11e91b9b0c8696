// Package pricemath converts between the pools' fixed-point square-root price
// encoding (Q64.96) and human-readable prices, and maps prices onto the
// discrete tick grid used by concentrated-liquidity positions.
package pricemath

import (
	"math"
	"math/big"
)

// Tick bounds from the concentrated-liquidity core contracts.
const (
	MinTick int32 = -887272
	MaxTick int32 = 887272
)

// Q96 is the fixed-point basis of the sqrt price encoding (2^96).
var Q96 = new(big.Int).Lsh(big.NewInt(1), 96)

// NormalizeSqrtPrice converts a Q64.96 sqrt price to a human-readable price.
//
// The encoded value squares to the raw token1-per-token0 price in smallest
// units; the result is rescaled by the token decimal difference. When
// quoteInSecondToken is true the reciprocal (token0 per token1) is returned.
//
// Callers must guard against sqrtPriceX96 == 0: this function performs no
// zero check and returns 0 or +Inf depending on direction.
func NormalizeSqrtPrice(sqrtPriceX96 *big.Int, decimals0, decimals1 int, quoteInSecondToken bool) float64 {
	q96 := new(big.Float).SetInt(Q96)
	ratio := new(big.Float).Quo(new(big.Float).SetInt(sqrtPriceX96), q96)
	price := new(big.Float).Mul(ratio, ratio)

	raw, _ := price.Float64()
	human := raw / math.Pow(10, float64(decimals1-decimals0))

	if quoteInSecondToken {
		return 1 / human
	}
	return human
}

// SqrtPriceX96FromPrice encodes a raw token1-per-token0 price as a Q64.96
// sqrt price. Inverse of NormalizeSqrtPrice for equal-decimal pairs.
func SqrtPriceX96FromPrice(price float64) *big.Int {
	sqrt := new(big.Float).Sqrt(big.NewFloat(price))
	scaled := new(big.Float).Mul(sqrt, new(big.Float).SetInt(Q96))
	out, _ := scaled.Int(nil)
	return out
}

// TickFromPrice returns the valid tick at or below the given price for the
// given tick spacing. The raw tick is floor(log(price)/log(1.0001)); a
// non-positive price maps to raw tick 0. Snapping always rounds toward
// negative infinity so the result lands in the correct price bucket.
func TickFromPrice(price float64, tickSpacing int32) int32 {
	var raw int32
	if price > 0 {
		raw = int32(math.Floor(math.Log(price) / math.Log(1.0001)))
	}
	return floorDiv(raw, tickSpacing) * tickSpacing
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

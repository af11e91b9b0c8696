package composer

import (
	"math"
	"math/big"
)

// Slippage factors are applied at parts-per-hundred-million resolution so a
// fractional percentage like 0.005% still divides an integer amount exactly.
const slippageScale = 100_000_000

// ApplySlippage returns the minimum acceptable amount after applying a
// slippage tolerance, i.e. amount * (1 - tolerancePct/100) floored. The
// result never exceeds the input and is never negative; tolerances outside
// 0-100 are clamped.
func ApplySlippage(tolerancePct float64, amount *big.Int) *big.Int {
	factor := slippageScale - int64(math.Round(tolerancePct*slippageScale/100))
	if factor < 0 {
		factor = 0
	}
	if factor > slippageScale {
		factor = slippageScale
	}

	out := new(big.Int).Mul(amount, big.NewInt(factor))
	return out.Div(out, big.NewInt(slippageScale))
}

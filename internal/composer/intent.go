package composer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Selora-Finance/interface-sub000/pkg/types"
)

// NativeSentinel is the reserved identifier meaning "the chain's native coin",
// distinct from the wrapped ERC20 representation.
var NativeSentinel = common.HexToAddress("0xEeeeeEeeeEeEeeEeEeEeeEEEeeeeEeeeeeeeEEeE")

// IsNative reports whether the address is the native-asset sentinel.
func IsNative(addr common.Address) bool {
	return addr == NativeSentinel
}

// IsZero reports whether the address is the zero identifier.
func IsZero(addr common.Address) bool {
	return addr == (common.Address{})
}

// Intent is a tagged financial action the composer can encode. Adding a new
// action means adding a variant here and a case to Composer.Compose - never
// branching on loosely-typed strings.
type Intent interface {
	Kind() types.IntentKind
}

// AddLiquidityIntent adds liquidity to a standard (stable or volatile) pool.
type AddLiquidityIntent struct {
	Token0         common.Address
	Token1         common.Address
	Stable         bool
	Amount0Desired *big.Int
	Amount1Desired *big.Int
	Amount0Min     *big.Int
	Amount1Min     *big.Int
	Recipient      common.Address
	Deadline       *big.Int
}

func (AddLiquidityIntent) Kind() types.IntentKind { return types.IntentAddLiquidity }

// AddConcentratedLiquidityIntent mints a new concentrated-liquidity position.
type AddConcentratedLiquidityIntent struct {
	Token0         common.Address
	Token1         common.Address
	TickSpacing    int32
	TickLower      int32
	TickUpper      int32
	Amount0Desired *big.Int
	Amount1Desired *big.Int
	Amount0Min     *big.Int
	Amount1Min     *big.Int
	Recipient      common.Address
	Deadline       *big.Int
	SqrtPriceX96   *big.Int // encoded starting price for uninitialized pools
}

func (AddConcentratedLiquidityIntent) Kind() types.IntentKind {
	return types.IntentAddConcentratedLiquidity
}

// IncreaseLiquidityIntent adds funds to an existing concentrated position.
// When HasNativeSide is set, NativeSide (0 or 1) names the side whose desired
// amount travels as the transaction value.
type IncreaseLiquidityIntent struct {
	TokenID        *big.Int
	Amount0Desired *big.Int
	Amount1Desired *big.Int
	Amount0Min     *big.Int
	Amount1Min     *big.Int
	Deadline       *big.Int
	HasNativeSide  bool
	NativeSide     int
}

func (IncreaseLiquidityIntent) Kind() types.IntentKind { return types.IntentIncreaseLiquidity }

// SwapIntent swaps TokenIn for TokenOut through the selected router family.
type SwapIntent struct {
	TokenIn      common.Address
	TokenOut     common.Address
	Recipient    common.Address
	AmountIn     *big.Int
	MinAmountOut *big.Int
	Router       types.RouterType
	Deadline     *big.Int
}

func (SwapIntent) Kind() types.IntentKind { return types.IntentSwap }

// ApproveIntent grants a spender an ERC20 allowance. Approvals of the native
// sentinel or the zero identifier compose to nothing.
type ApproveIntent struct {
	Token   common.Address
	Spender common.Address
	Amount  *big.Int
}

func (ApproveIntent) Kind() types.IntentKind { return types.IntentApprove }

// WrapIntent wraps the native asset into its ERC20 representation.
type WrapIntent struct {
	Amount *big.Int
}

func (WrapIntent) Kind() types.IntentKind { return types.IntentWrap }

// UnwrapIntent redeems wrapped tokens back to the native asset.
type UnwrapIntent struct {
	Amount *big.Int
}

func (UnwrapIntent) Kind() types.IntentKind { return types.IntentUnwrap }

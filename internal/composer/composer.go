// Package composer deterministically builds encoded contract calls for user
// financial intents. Composition is pure: no network I/O, no errors for
// well-formed input. All failure handling lives downstream in the wallet
// capability that submits the composed call.
package composer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Selora-Finance/interface-sub000/pkg/types"
)

// Composition is a composed contract call: target, calldata, and the native
// value to attach. Value is nil unless the intent involves the native asset
// as an input.
type Composition struct {
	To    common.Address
	Data  []byte
	Value *big.Int
}

// View converts the composition to its wire form.
func (c *Composition) View() types.CallComposition {
	value := "0"
	if c.Value != nil {
		value = c.Value.String()
	}
	return types.CallComposition{
		To:    c.To.Hex(),
		Data:  hexutil.Encode(c.Data),
		Value: value,
	}
}

// Addresses is the per-chain book of external contracts calls are encoded for.
type Addresses struct {
	RouterV2        common.Address // standard-pool router (addLiquidity, V2 executor)
	RouterV3        common.Address // V3 executor
	RouterAuto      common.Address // auto-routing executor, default swap target
	PositionManager common.Address
	WrappedNative   common.Address
}

// Composer builds call compositions against a fixed address book.
type Composer struct {
	addrs Addresses
}

// New creates a composer for the given chain address book.
func New(addrs Addresses) *Composer {
	return &Composer{addrs: addrs}
}

// Compose builds the call composition for the given intent. The returned
// composition is nil only when the intent requires no call at all (approving
// the native sentinel or the zero identifier).
func (c *Composer) Compose(intent Intent) *Composition {
	switch in := intent.(type) {
	case AddLiquidityIntent:
		return c.composeAddLiquidity(in)
	case AddConcentratedLiquidityIntent:
		return c.composeMint(in)
	case IncreaseLiquidityIntent:
		return c.composeIncrease(in)
	case SwapIntent:
		return c.composeSwap(in)
	case ApproveIntent:
		return c.composeApprove(in)
	case WrapIntent:
		return &Composition{To: c.addrs.WrappedNative, Data: encodeDeposit(), Value: in.Amount}
	case UnwrapIntent:
		return &Composition{To: c.addrs.WrappedNative, Data: encodeWithdraw(in.Amount)}
	}
	return nil
}

// composeAddLiquidity targets router.addLiquidity, or the ETH-flavored entry
// point with the native side's amount attached as value when either token is
// the native sentinel.
func (c *Composer) composeAddLiquidity(in AddLiquidityIntent) *Composition {
	if IsNative(in.Token0) || IsNative(in.Token1) {
		token := in.Token0
		tokenDesired, tokenMin := in.Amount0Desired, in.Amount0Min
		nativeDesired, nativeMin := in.Amount1Desired, in.Amount1Min
		if IsNative(in.Token0) {
			token = in.Token1
			tokenDesired, tokenMin = in.Amount1Desired, in.Amount1Min
			nativeDesired, nativeMin = in.Amount0Desired, in.Amount0Min
		}
		return &Composition{
			To:    c.addrs.RouterV2,
			Data:  encodeAddLiquidityETH(token, in.Stable, tokenDesired, tokenMin, nativeMin, in.Recipient, in.Deadline),
			Value: nativeDesired,
		}
	}

	return &Composition{
		To: c.addrs.RouterV2,
		Data: encodeAddLiquidity(in.Token0, in.Token1, in.Stable,
			in.Amount0Desired, in.Amount1Desired, in.Amount0Min, in.Amount1Min,
			in.Recipient, in.Deadline),
	}
}

// composeMint targets positionManager.mint. The position manager only knows
// ERC20 tokens, so the native sentinel is substituted with the wrapped-native
// identifier before encoding and that side's amount is attached as value.
func (c *Composer) composeMint(in AddConcentratedLiquidityIntent) *Composition {
	token0, token1 := in.Token0, in.Token1
	var value *big.Int
	if IsNative(token0) {
		token0 = c.addrs.WrappedNative
		value = in.Amount0Desired
	}
	if IsNative(token1) {
		token1 = c.addrs.WrappedNative
		value = in.Amount1Desired
	}

	return &Composition{
		To: c.addrs.PositionManager,
		Data: encodeMint(mintParams{
			Token0:         token0,
			Token1:         token1,
			TickSpacing:    in.TickSpacing,
			TickLower:      in.TickLower,
			TickUpper:      in.TickUpper,
			Amount0Desired: in.Amount0Desired,
			Amount1Desired: in.Amount1Desired,
			Amount0Min:     in.Amount0Min,
			Amount1Min:     in.Amount1Min,
			Recipient:      in.Recipient,
			Deadline:       in.Deadline,
			SqrtPriceX96:   in.SqrtPriceX96,
		}),
		Value: value,
	}
}

func (c *Composer) composeIncrease(in IncreaseLiquidityIntent) *Composition {
	var value *big.Int
	if in.HasNativeSide {
		if in.NativeSide == 0 {
			value = in.Amount0Desired
		} else {
			value = in.Amount1Desired
		}
	}

	return &Composition{
		To: c.addrs.PositionManager,
		Data: encodeIncreaseLiquidity(increaseParams{
			TokenID:        in.TokenID,
			Amount0Desired: in.Amount0Desired,
			Amount1Desired: in.Amount1Desired,
			Amount0Min:     in.Amount0Min,
			Amount1Min:     in.Amount1Min,
			Deadline:       in.Deadline,
		}),
		Value: value,
	}
}

// composeSwap targets the executor selected by the router preference. A native
// input attaches amountIn as value; the sentinel itself stays in the calldata,
// the executor resolves it on-chain.
func (c *Composer) composeSwap(in SwapIntent) *Composition {
	executor := c.addrs.RouterAuto
	switch in.Router {
	case types.RouterV2:
		executor = c.addrs.RouterV2
	case types.RouterV3:
		executor = c.addrs.RouterV3
	}

	// swapType 1 when no minimum output is set, 0 otherwise. This matches
	// what the deployed executors accept today.
	var swapType uint8
	if in.MinAmountOut == nil || in.MinAmountOut.Sign() == 0 {
		swapType = 1
	}

	var value *big.Int
	if IsNative(in.TokenIn) {
		value = in.AmountIn
	}

	return &Composition{
		To:    executor,
		Data:  encodeExecute(in.TokenIn, in.TokenOut, in.Recipient, in.AmountIn, in.MinAmountOut, swapType, in.Deadline),
		Value: value,
	}
}

// composeApprove returns nil for the native sentinel and the zero identifier:
// the native asset has no allowance to grant.
func (c *Composer) composeApprove(in ApproveIntent) *Composition {
	if IsNative(in.Token) || IsZero(in.Token) {
		return nil
	}
	return &Composition{To: in.Token, Data: encodeApprove(in.Spender, in.Amount)}
}

package composer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Function selectors (first 4 bytes of keccak256(signature))
var (
	// Standard-pool router selectors
	SelectorAddLiquidity    = selector("addLiquidity(address,address,bool,uint256,uint256,uint256,uint256,address,uint256)")
	SelectorAddLiquidityETH = selector("addLiquidityETH(address,bool,uint256,uint256,uint256,address,uint256)")

	// Position manager selectors
	SelectorMint              = selector("mint((address,address,int24,int24,int24,uint256,uint256,uint256,uint256,address,uint256,uint160))")
	SelectorIncreaseLiquidity = selector("increaseLiquidity((uint256,uint256,uint256,uint256,uint256,uint256))")

	// Swap executor selector, shared shape across the auto/V2/V3 variants
	SelectorExecute = selector("execute(address,address,address,uint256,uint256,uint8,uint256)")

	// ERC20 selectors
	SelectorApprove = selector("approve(address,uint256)")

	// Wrapped-native selectors
	SelectorDeposit  = selector("deposit()")
	SelectorWithdraw = selector("withdraw(uint256)")
)

// selector computes the 4-byte function selector from signature.
func selector(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}

// word writers: every ABI argument occupies one 32-byte word.

func putAddress(data []byte, offset int, addr common.Address) int {
	copy(data[offset+12:offset+32], addr.Bytes())
	return offset + 32
}

func putUint(data []byte, offset int, v *big.Int) int {
	if v != nil {
		v.FillBytes(data[offset : offset+32])
	}
	return offset + 32
}

func putBool(data []byte, offset int, v bool) int {
	if v {
		data[offset+31] = 1
	}
	return offset + 32
}

// putInt24 writes a signed tick value, sign-extended to int256 via two's
// complement (matches Solidity's int24 ABI representation).
func putInt24(data []byte, offset int, v int32) int {
	w := big.NewInt(int64(v))
	if v < 0 {
		w.Add(w, new(big.Int).Lsh(big.NewInt(1), 256))
	}
	w.FillBytes(data[offset : offset+32])
	return offset + 32
}

// encodeAddLiquidity encodes router.addLiquidity(tokenA, tokenB, stable,
// amountADesired, amountBDesired, amountAMin, amountBMin, to, deadline).
func encodeAddLiquidity(tokenA, tokenB common.Address, stable bool, amountADesired, amountBDesired, amountAMin, amountBMin *big.Int, to common.Address, deadline *big.Int) []byte {
	data := make([]byte, 4+9*32)
	copy(data[:4], SelectorAddLiquidity)

	offset := 4
	offset = putAddress(data, offset, tokenA)
	offset = putAddress(data, offset, tokenB)
	offset = putBool(data, offset, stable)
	offset = putUint(data, offset, amountADesired)
	offset = putUint(data, offset, amountBDesired)
	offset = putUint(data, offset, amountAMin)
	offset = putUint(data, offset, amountBMin)
	offset = putAddress(data, offset, to)
	putUint(data, offset, deadline)

	return data
}

// encodeAddLiquidityETH encodes router.addLiquidityETH(token, stable,
// amountTokenDesired, amountTokenMin, amountETHMin, to, deadline). The native
// amount travels as the transaction value, not as calldata.
func encodeAddLiquidityETH(token common.Address, stable bool, amountTokenDesired, amountTokenMin, amountETHMin *big.Int, to common.Address, deadline *big.Int) []byte {
	data := make([]byte, 4+7*32)
	copy(data[:4], SelectorAddLiquidityETH)

	offset := 4
	offset = putAddress(data, offset, token)
	offset = putBool(data, offset, stable)
	offset = putUint(data, offset, amountTokenDesired)
	offset = putUint(data, offset, amountTokenMin)
	offset = putUint(data, offset, amountETHMin)
	offset = putAddress(data, offset, to)
	putUint(data, offset, deadline)

	return data
}

// mintParams holds the positionManager.mint struct fields.
type mintParams struct {
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
	SqrtPriceX96   *big.Int
}

// encodeMint encodes positionManager.mint(...). The struct has all static
// types, so no offset pointer is needed - fields are encoded directly.
func encodeMint(p mintParams) []byte {
	data := make([]byte, 4+12*32)
	copy(data[:4], SelectorMint)

	offset := 4
	offset = putAddress(data, offset, p.Token0)
	offset = putAddress(data, offset, p.Token1)
	offset = putInt24(data, offset, p.TickSpacing)
	offset = putInt24(data, offset, p.TickLower)
	offset = putInt24(data, offset, p.TickUpper)
	offset = putUint(data, offset, p.Amount0Desired)
	offset = putUint(data, offset, p.Amount1Desired)
	offset = putUint(data, offset, p.Amount0Min)
	offset = putUint(data, offset, p.Amount1Min)
	offset = putAddress(data, offset, p.Recipient)
	offset = putUint(data, offset, p.Deadline)
	putUint(data, offset, p.SqrtPriceX96)

	return data
}

// increaseParams holds the positionManager.increaseLiquidity struct fields.
type increaseParams struct {
	TokenID        *big.Int
	Amount0Desired *big.Int
	Amount1Desired *big.Int
	Amount0Min     *big.Int
	Amount1Min     *big.Int
	Deadline       *big.Int
}

// encodeIncreaseLiquidity encodes positionManager.increaseLiquidity(...).
func encodeIncreaseLiquidity(p increaseParams) []byte {
	data := make([]byte, 4+6*32)
	copy(data[:4], SelectorIncreaseLiquidity)

	offset := 4
	offset = putUint(data, offset, p.TokenID)
	offset = putUint(data, offset, p.Amount0Desired)
	offset = putUint(data, offset, p.Amount1Desired)
	offset = putUint(data, offset, p.Amount0Min)
	offset = putUint(data, offset, p.Amount1Min)
	putUint(data, offset, p.Deadline)

	return data
}

// encodeExecute encodes executor.execute(tokenIn, tokenOut, to, amountIn,
// amountOutMin, swapType, deadline).
func encodeExecute(tokenIn, tokenOut, to common.Address, amountIn, amountOutMin *big.Int, swapType uint8, deadline *big.Int) []byte {
	data := make([]byte, 4+7*32)
	copy(data[:4], SelectorExecute)

	offset := 4
	offset = putAddress(data, offset, tokenIn)
	offset = putAddress(data, offset, tokenOut)
	offset = putAddress(data, offset, to)
	offset = putUint(data, offset, amountIn)
	offset = putUint(data, offset, amountOutMin)
	offset = putUint(data, offset, big.NewInt(int64(swapType)))
	putUint(data, offset, deadline)

	return data
}

// encodeApprove encodes ERC20.approve(spender, amount).
func encodeApprove(spender common.Address, amount *big.Int) []byte {
	data := make([]byte, 4+2*32)
	copy(data[:4], SelectorApprove)

	offset := 4
	offset = putAddress(data, offset, spender)
	putUint(data, offset, amount)

	return data
}

// encodeDeposit encodes wrappedNative.deposit() (no args, the amount is the
// transaction value). Returns a fresh slice: compositions own their calldata.
func encodeDeposit() []byte {
	data := make([]byte, 4)
	copy(data, SelectorDeposit)
	return data
}

// encodeWithdraw encodes wrappedNative.withdraw(amount).
func encodeWithdraw(amount *big.Int) []byte {
	data := make([]byte, 4+32)
	copy(data[:4], SelectorWithdraw)
	putUint(data, 4, amount)
	return data
}

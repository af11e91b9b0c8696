// Package types contains public API types for the interface core service.
// These types form the external interface and must remain backwards-compatible.
package types

// RouterType selects which deployed router/executor a swap is composed against.
type RouterType string

const (
	RouterAuto RouterType = "auto"
	RouterV2   RouterType = "v2"
	RouterV3   RouterType = "v3"
)

// Valid reports whether the router type is one of the supported values.
func (r RouterType) Valid() bool {
	switch r {
	case RouterAuto, RouterV2, RouterV3:
		return true
	}
	return false
}

// IntentKind identifies a financial action the composer can encode.
type IntentKind string

const (
	IntentAddLiquidity             IntentKind = "add-liquidity"
	IntentAddConcentratedLiquidity IntentKind = "add-concentrated-liquidity"
	IntentIncreaseLiquidity        IntentKind = "increase-liquidity"
	IntentSwap                     IntentKind = "swap"
	IntentApprove                  IntentKind = "approve"
	IntentWrap                     IntentKind = "wrap"
	IntentUnwrap                   IntentKind = "unwrap"
)

// SubmissionStatus is the terminal state of a submitted transaction as reported
// by the external wallet capability. There are exactly two outcomes.
type SubmissionStatus string

const (
	SubmissionSuccess SubmissionStatus = "success"
	SubmissionError   SubmissionStatus = "error"
)

// SubmissionResult is what a client reports back after handing a composition
// to its wallet. Failure causes are not distinguished further.
type SubmissionResult struct {
	Status SubmissionStatus `json:"status"`
	TxHash string           `json:"txHash,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// CallComposition is the wire form of a composed contract call: target address,
// 0x-prefixed calldata, and the native value to attach (decimal wei string,
// "0" when the intent has no native input).
type CallComposition struct {
	To    string `json:"to"`
	Data  string `json:"data"`
	Value string `json:"value"`
}

// AssetInfo is one entry of the externally hosted asset list.
type AssetInfo struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	LogoURI  string `json:"logoURI"`
	Decimals int    `json:"decimals"`
	ChainID  int64  `json:"chainId"`
}

// PoolView is a display-ready pool aggregate built from indexer records.
type PoolView struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Type        string `json:"type"` // pool type tag, lowercased
	Token0      string `json:"token0"`
	Token1      string `json:"token1"`
	Logo0       string `json:"logo0"`
	Logo1       string `json:"logo1"`
	TVL         string `json:"tvl"`
	Volume24h   string `json:"volume24h"`
	Fees24h     string `json:"fees24h"`
	APR         string `json:"apr"`
	TotalSupply string `json:"totalSupply"`
}

// PositionView is one row of a user's liquidity positions.
type PositionView struct {
	PoolID      string  `json:"poolId"`
	Symbol      string  `json:"symbol"`
	Logo0       string  `json:"logo0"`
	Logo1       string  `json:"logo1"`
	Balance     string  `json:"balance"`
	Share       float64 `json:"share"` // fraction of pool total supply, 0..1
	ReservesUSD string  `json:"reservesUsd"`
	FeesUSD     string  `json:"feesUsd"`
}

// GlobalStatsView is the display form of the indexer's statistics singleton.
type GlobalStatsView struct {
	TVL         string `json:"tvl"`
	TotalVolume string `json:"totalVolume"`
	TotalFees   string `json:"totalFees"`
	PoolCount   int    `json:"poolCount"`
}

// PricePoint is a (timestamp, price) charting sample. Series are sorted by
// timestamp ascending before rendering.
type PricePoint struct {
	Timestamp int64   `json:"timestamp"` // Unix seconds
	Price     float64 `json:"price"`
}

// Preferences holds the user-configurable settings shared by all composers.
type Preferences struct {
	SlippagePct     float64    `json:"slippagePct"`     // 0-100, fractional allowed
	DeadlineMinutes float64    `json:"deadlineMinutes"` // relative deadline, minutes
	Router          RouterType `json:"router"`
	Theme           string     `json:"theme"`
}

// ComposeRequest is the API request to compose a call. Kind selects the intent;
// only the fields relevant to that kind are read. Amounts are decimal strings
// in the token's smallest unit.
type ComposeRequest struct {
	Kind IntentKind `json:"kind"`

	Token0    string `json:"token0,omitempty"`
	Token1    string `json:"token1,omitempty"`
	Stable    bool   `json:"stable,omitempty"`
	Amount0   string `json:"amount0,omitempty"`
	Amount1   string `json:"amount1,omitempty"`
	Recipient string `json:"recipient,omitempty"`

	// Concentrated liquidity
	TickSpacing   int32   `json:"tickSpacing,omitempty"`
	TickLower     int32   `json:"tickLower,omitempty"`
	TickUpper     int32   `json:"tickUpper,omitempty"`
	StartPrice    float64 `json:"startPrice,omitempty"`
	PositionID    string  `json:"positionId,omitempty"`
	NativeSide    int     `json:"nativeSide,omitempty"` // 0 or 1
	HasNativeSide bool    `json:"hasNativeSide,omitempty"`

	// Swap
	AmountIn     string `json:"amountIn,omitempty"`
	MinAmountOut string `json:"minAmountOut,omitempty"`

	// Approve
	Spender string `json:"spender,omitempty"`
	Amount  string `json:"amount,omitempty"`
}

// ComposeResponse carries the composed call. Skipped is true when the intent
// requires no on-chain call at all (approving the native asset).
type ComposeResponse struct {
	Composition *CallComposition `json:"composition,omitempty"`
	Skipped     bool             `json:"skipped"`
}

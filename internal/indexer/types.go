package indexer

// Raw indexer records. Numeric fields arrive as decimal strings; optional
// nested objects are pointers so a missing gauge or token never fails the
// decode. Mapping to display form happens in the view package.

// Token is the token subobject nested in pool records.
type Token struct {
	ID       string `json:"id"`
	Symbol   string `json:"symbol"`
	Decimals string `json:"decimals"`
}

// Gauge carries reward emission data for incentivized pools.
type Gauge struct {
	ID         string `json:"id"`
	RewardRate string `json:"rewardRate"`
}

// Pool is one pool record as returned by the pool queries.
type Pool struct {
	ID          string `json:"id"`
	PoolType    string `json:"poolType"`
	Token0      Token  `json:"token0"`
	Token1      Token  `json:"token1"`
	TotalSupply string `json:"totalSupply"`
	ReserveUSD  string `json:"reserveUSD"`
	VolumeUSD   string `json:"volumeUSD"`
	FeesUSD     string `json:"feesUSD"`
	APR         string `json:"apr"`
	Gauge       *Gauge `json:"gauge"`
}

// LiquidityPosition is one LP position nested in an account record.
type LiquidityPosition struct {
	Balance string `json:"liquidityTokenBalance"`
	Pool    Pool   `json:"pool"`
}

// Account is the user account record with nested LP positions.
type Account struct {
	ID                 string              `json:"id"`
	LiquidityPositions []LiquidityPosition `json:"liquidityPositions"`
}

// GlobalStats is the protocol-wide statistics singleton.
type GlobalStats struct {
	TotalValueLockedUSD string `json:"totalValueLockedUSD"`
	TotalVolumeUSD      string `json:"totalVolumeUSD"`
	TotalFeesUSD        string `json:"totalFeesUSD"`
	PoolCount           int    `json:"poolCount"`
}

// TokenDayData is one day-level price sample for a token.
type TokenDayData struct {
	Date     int64  `json:"date"` // Unix seconds, start of day
	PriceUSD string `json:"priceUSD"`
}

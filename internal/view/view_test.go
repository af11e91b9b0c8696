package view

import (
	"testing"

	"github.com/Selora-Finance/interface-sub000/internal/assets"
	"github.com/Selora-Finance/interface-sub000/internal/indexer"
	"github.com/Selora-Finance/interface-sub000/pkg/types"
)

func testAssets(t *testing.T) *assets.List {
	t.Helper()
	l, err := assets.NewList([]types.AssetInfo{
		{Name: "Wrapped Ether", Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", LogoURI: "https://assets.example/weth.png", Decimals: 18, ChainID: 1},
		{Name: "USD Coin", Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", LogoURI: "https://assets.example/usdc.png", Decimals: 6, ChainID: 1},
	})
	if err != nil {
		t.Fatalf("building asset list: %v", err)
	}
	return l
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		opts  FormatOptions
		want  string
	}{
		{"thousands", 1200, FormatOptions{}, "1.2K"},
		{"millions currency", 4_500_000, FormatOptions{Currency: true}, "$4.5M"},
		{"billions", 7_250_000_000, FormatOptions{}, "7.25B"},
		{"trillions", 1.5e12, FormatOptions{}, "1.5T"},
		{"small value", 42.5, FormatOptions{}, "42.5"},
		{"integral strips zeros", 1000, FormatOptions{}, "1K"},
		{"integral plain", 7, FormatOptions{}, "7"},
		{"zero", 0, FormatOptions{}, "0"},
		{"zero currency", 0, FormatOptions{Currency: true}, "$0"},
		{"fraction digit cap", 1234.5, FormatOptions{}, "1.234K"}, // 1.2345K capped at 3 digits
		{"custom digits", 1250, FormatOptions{MaxFractionDigits: 1}, "1.2K"},
		{"negative", -1200, FormatOptions{}, "-1.2K"},
		{"negative currency", -4_500_000, FormatOptions{Currency: true}, "$-4.5M"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatCompact(tt.value, tt.opts); got != tt.want {
				t.Errorf("FormatCompact(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestFormatCompactString_MalformedIsZero(t *testing.T) {
	if got := FormatCompactString("not a number", FormatOptions{Currency: true}); got != "$0" {
		t.Errorf("FormatCompactString(garbage) = %q, want $0", got)
	}
}

func TestFormatPercent(t *testing.T) {
	if got := FormatPercent(12.5); got != "12.5%" {
		t.Errorf("FormatPercent(12.5) = %q, want 12.5%%", got)
	}
	if got := FormatPercent(8); got != "8%" {
		t.Errorf("FormatPercent(8) = %q, want 8%%", got)
	}
	if got := FormatPercent(0.08); got != "0.08%" {
		t.Errorf("FormatPercent(0.08) = %q, want 0.08%%", got)
	}
}

func poolFixture() indexer.Pool {
	return indexer.Pool{
		ID:       "0xp00l",
		PoolType: "Volatile",
		Token0:   indexer.Token{ID: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Decimals: "18"},
		Token1:   indexer.Token{ID: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Decimals: "6"},
		TotalSupply: "1000",
		ReserveUSD:  "4500000",
		VolumeUSD:   "125000",
		FeesUSD:     "375",
		APR:         "12.5",
		Gauge:       &indexer.Gauge{ID: "0xg", RewardRate: "0.08"},
	}
}

func TestMapPool(t *testing.T) {
	got := MapPool(poolFixture(), testAssets(t))

	if got.Symbol != "WETH/USDC" {
		t.Errorf("Symbol = %q, want WETH/USDC", got.Symbol)
	}
	if got.Type != "volatile" {
		t.Errorf("Type = %q, want lowercased volatile", got.Type)
	}
	if got.Logo0 != "https://assets.example/weth.png" {
		t.Errorf("Logo0 = %q, want the asset list logo", got.Logo0)
	}
	if got.TVL != "$4.5M" {
		t.Errorf("TVL = %q, want $4.5M", got.TVL)
	}
	if got.Volume24h != "$125K" {
		t.Errorf("Volume24h = %q, want $125K", got.Volume24h)
	}
	if got.APR != "12.5%" {
		t.Errorf("APR = %q, want 12.5%%", got.APR)
	}
}

func TestMapPool_Defaults(t *testing.T) {
	t.Run("gauge fallback", func(t *testing.T) {
		raw := poolFixture()
		raw.APR = ""
		got := MapPool(raw, testAssets(t))
		if got.APR != "0.08%" {
			t.Errorf("APR = %q, want the gauge reward rate 0.08%%", got.APR)
		}
	})

	t.Run("no apr and no gauge", func(t *testing.T) {
		raw := poolFixture()
		raw.APR = ""
		raw.Gauge = nil
		got := MapPool(raw, testAssets(t))
		if got.APR != "0%" {
			t.Errorf("APR = %q, want 0%%", got.APR)
		}
	})

	t.Run("unknown token logos empty", func(t *testing.T) {
		raw := poolFixture()
		raw.Token0.ID = "0x0000000000000000000000000000000000000009"
		got := MapPool(raw, testAssets(t))
		if got.Logo0 != "" {
			t.Errorf("Logo0 = %q, want empty for an unknown token", got.Logo0)
		}
	})
}

func TestMapUserPositions(t *testing.T) {
	acct := indexer.Account{
		ID: "0xuser",
		LiquidityPositions: []indexer.LiquidityPosition{
			{Balance: "250", Pool: poolFixture()},
		},
	}

	got := MapUserPositions(acct, testAssets(t))
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}

	row := got[0]
	if row.Share != 0.25 {
		t.Errorf("Share = %v, want 0.25", row.Share)
	}
	// 25% of $4.5M reserves and $375 fees.
	if row.ReservesUSD != "$1.125M" {
		t.Errorf("ReservesUSD = %q, want $1.125M", row.ReservesUSD)
	}
	if row.FeesUSD != "$93.75" {
		t.Errorf("FeesUSD = %q, want $93.75", row.FeesUSD)
	}
}

func TestMapUserPositions_Total(t *testing.T) {
	pool := poolFixture()
	pool.TotalSupply = "" // missing supply must not divide by zero
	pool.Gauge = nil
	acct := indexer.Account{
		ID:                 "0xuser",
		LiquidityPositions: []indexer.LiquidityPosition{{Balance: "", Pool: pool}},
	}

	got := MapUserPositions(acct, testAssets(t))
	if len(got) != 1 {
		t.Fatalf("got %d rows, want 1", len(got))
	}
	if got[0].Share != 0 {
		t.Errorf("Share = %v, want 0 for missing supply", got[0].Share)
	}
	if got[0].ReservesUSD != "$0" {
		t.Errorf("ReservesUSD = %q, want $0", got[0].ReservesUSD)
	}
}

func TestMapStats(t *testing.T) {
	got := MapStats(indexer.GlobalStats{
		TotalValueLockedUSD: "98700000",
		TotalVolumeUSD:      "1230000000",
		TotalFeesUSD:        "456000",
		PoolCount:           87,
	})

	if got.TVL != "$98.7M" {
		t.Errorf("TVL = %q, want $98.7M", got.TVL)
	}
	if got.TotalVolume != "$1.23B" {
		t.Errorf("TotalVolume = %q, want $1.23B", got.TotalVolume)
	}
	if got.PoolCount != 87 {
		t.Errorf("PoolCount = %d, want 87", got.PoolCount)
	}
}

func TestMapPricePoints_SortedAscending(t *testing.T) {
	raw := []indexer.TokenDayData{
		{Date: 1_700_200_000, PriceUSD: "3.0"},
		{Date: 1_700_000_000, PriceUSD: "1.0"},
		{Date: 1_700_100_000, PriceUSD: "bad"},
	}

	got := MapPricePoints(raw)
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp < got[i-1].Timestamp {
			t.Fatalf("series not sorted ascending: %+v", got)
		}
	}
	if got[1].Price != 0 {
		t.Errorf("malformed price should map to 0, got %v", got[1].Price)
	}
}

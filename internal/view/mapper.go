// Package view maps raw indexer records into display-ready view models.
// Mappers are pure and total: missing optional fields become defaults,
// never errors.
package view

import (
	"sort"
	"strings"

	"github.com/Selora-Finance/interface-sub000/internal/assets"
	"github.com/Selora-Finance/interface-sub000/internal/indexer"
	"github.com/Selora-Finance/interface-sub000/pkg/types"
)

var currency = FormatOptions{Locale: DefaultLocale, Currency: true}

// MapPool builds the display aggregate for one pool record.
func MapPool(raw indexer.Pool, list *assets.List) types.PoolView {
	apr := "0%"
	switch {
	case raw.APR != "":
		apr = FormatPercent(parseFloat(raw.APR))
	case raw.Gauge != nil:
		// No indexed APR: fall back to the gauge's raw reward rate.
		apr = FormatPercent(parseFloat(raw.Gauge.RewardRate))
	}

	return types.PoolView{
		ID:          raw.ID,
		Symbol:      raw.Token0.Symbol + "/" + raw.Token1.Symbol,
		Type:        strings.ToLower(raw.PoolType),
		Token0:      raw.Token0.ID,
		Token1:      raw.Token1.ID,
		Logo0:       list.LogoFor(raw.Token0.ID),
		Logo1:       list.LogoFor(raw.Token1.ID),
		TVL:         FormatCompactString(raw.ReserveUSD, currency),
		Volume24h:   FormatCompactString(raw.VolumeUSD, currency),
		Fees24h:     FormatCompactString(raw.FeesUSD, currency),
		APR:         apr,
		TotalSupply: raw.TotalSupply,
	}
}

// MapPools maps a page of pool records.
func MapPools(raw []indexer.Pool, list *assets.List) []types.PoolView {
	out := make([]types.PoolView, 0, len(raw))
	for _, p := range raw {
		out = append(out, MapPool(p, list))
	}
	return out
}

// MapUserPositions builds one row per LP position. The user's share of the
// pool is their balance over the pool's total supply; USD reserve and fee
// shares scale the pool aggregates by that fraction.
func MapUserPositions(acct indexer.Account, list *assets.List) []types.PositionView {
	out := make([]types.PositionView, 0, len(acct.LiquidityPositions))
	for _, pos := range acct.LiquidityPositions {
		balance := parseFloat(pos.Balance)
		supply := parseFloat(pos.Pool.TotalSupply)

		var share float64
		if supply > 0 {
			share = balance / supply
		}

		out = append(out, types.PositionView{
			PoolID:      pos.Pool.ID,
			Symbol:      pos.Pool.Token0.Symbol + "/" + pos.Pool.Token1.Symbol,
			Logo0:       list.LogoFor(pos.Pool.Token0.ID),
			Logo1:       list.LogoFor(pos.Pool.Token1.ID),
			Balance:     FormatCompactString(pos.Balance, FormatOptions{Locale: DefaultLocale}),
			Share:       share,
			ReservesUSD: FormatCompact(share*parseFloat(pos.Pool.ReserveUSD), currency),
			FeesUSD:     FormatCompact(share*parseFloat(pos.Pool.FeesUSD), currency),
		})
	}
	return out
}

// MapStats builds the display form of the global statistics singleton.
func MapStats(raw indexer.GlobalStats) types.GlobalStatsView {
	return types.GlobalStatsView{
		TVL:         FormatCompactString(raw.TotalValueLockedUSD, currency),
		TotalVolume: FormatCompactString(raw.TotalVolumeUSD, currency),
		TotalFees:   FormatCompactString(raw.TotalFeesUSD, currency),
		PoolCount:   raw.PoolCount,
	}
}

// MapPricePoints converts day-data samples to a chart series sorted by
// timestamp ascending, as required for a continuous line.
func MapPricePoints(raw []indexer.TokenDayData) []types.PricePoint {
	out := make([]types.PricePoint, 0, len(raw))
	for _, d := range raw {
		out = append(out, types.PricePoint{Timestamp: d.Date, Price: parseFloat(d.PriceUSD)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out
}

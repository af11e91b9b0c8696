package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Selora-Finance/interface-sub000/pkg/types"
)

// kv formats a key-value pair with aligned values (20 char key width).
func kv(key string, value any) string {
	return fmt.Sprintf("%-20s %v", key+":", value)
}

// section returns a markdown section header.
func section(title string) string {
	return "## " + title
}

// joinLines joins non-empty lines with newlines.
func joinLines(lines ...string) string {
	var result []string
	for _, l := range lines {
		if l != "" {
			result = append(result, l)
		}
	}
	return strings.Join(result, "\n")
}

func formatPools(raw json.RawMessage) string {
	var pools []types.PoolView
	if err := json.Unmarshal(raw, &pools); err != nil {
		return string(raw)
	}
	if len(pools) == 0 {
		return "No pools found."
	}

	lines := []string{section(fmt.Sprintf("Pools (%d)", len(pools)))}
	for _, p := range pools {
		lines = append(lines, fmt.Sprintf("- %s [%s]  TVL %s  24h vol %s  APR %s  (%s)",
			p.Symbol, p.Type, p.TVL, p.Volume24h, p.APR, p.ID))
	}
	return joinLines(lines...)
}

func formatPool(raw json.RawMessage) string {
	var p types.PoolView
	if err := json.Unmarshal(raw, &p); err != nil {
		return string(raw)
	}
	return joinLines(
		section("Pool "+p.Symbol),
		kv("ID", p.ID),
		kv("Type", p.Type),
		kv("TVL", p.TVL),
		kv("Volume 24h", p.Volume24h),
		kv("Fees 24h", p.Fees24h),
		kv("APR", p.APR),
	)
}

func formatPositions(raw json.RawMessage) string {
	var rows []types.PositionView
	if err := json.Unmarshal(raw, &rows); err != nil {
		return string(raw)
	}
	if len(rows) == 0 {
		return "No liquidity positions."
	}

	lines := []string{section(fmt.Sprintf("Positions (%d)", len(rows)))}
	for _, row := range rows {
		lines = append(lines, fmt.Sprintf("- %s  share %.2f%%  reserves %s  fees %s",
			row.Symbol, row.Share*100, row.ReservesUSD, row.FeesUSD))
	}
	return joinLines(lines...)
}

func formatStats(raw json.RawMessage) string {
	var s types.GlobalStatsView
	if err := json.Unmarshal(raw, &s); err != nil {
		return string(raw)
	}
	return joinLines(
		section("Protocol Stats"),
		kv("TVL", s.TVL),
		kv("Total volume", s.TotalVolume),
		kv("Total fees", s.TotalFees),
		kv("Pools", s.PoolCount),
	)
}

func formatComposition(raw json.RawMessage) string {
	var resp types.ComposeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return string(raw)
	}
	if resp.Skipped {
		return joinLines(
			section("Composition Skipped"),
			"No on-chain call is required for this intent.",
		)
	}
	if resp.Composition == nil {
		return string(raw)
	}
	return joinLines(
		section("Composed Call"),
		kv("To", resp.Composition.To),
		kv("Value (wei)", resp.Composition.Value),
		kv("Calldata", resp.Composition.Data),
	)
}

func formatPrefs(raw json.RawMessage) string {
	var p types.Preferences
	if err := json.Unmarshal(raw, &p); err != nil {
		return string(raw)
	}
	return joinLines(
		section("Preferences"),
		kv("Slippage", fmt.Sprintf("%g%%", p.SlippagePct)),
		kv("Deadline", fmt.Sprintf("%g min", p.DeadlineMinutes)),
		kv("Router", string(p.Router)),
		kv("Theme", p.Theme),
	)
}

func formatHealth(raw json.RawMessage) string {
	var health struct {
		Ready  bool `json:"ready"`
		Checks []struct {
			Name      string `json:"name"`
			Status    string `json:"status"`
			LatencyMs int64  `json:"latency_ms"`
			Error     string `json:"error"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(raw, &health); err != nil {
		return string(raw)
	}

	lines := []string{section("Health")}
	if health.Ready {
		lines = append(lines, "Service is ready.")
	} else {
		lines = append(lines, "Service is NOT ready.")
	}
	for _, c := range health.Checks {
		line := fmt.Sprintf("- %s: %s (%dms)", c.Name, c.Status, c.LatencyMs)
		if c.Error != "" {
			line += " - " + c.Error
		}
		lines = append(lines, line)
	}
	return joinLines(lines...)
}

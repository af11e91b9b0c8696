package mcp

import (
	"context"
	"fmt"
	"net/url"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterTools registers all dexd tools on the MCP server.
func RegisterTools(s *server.MCPServer, client *Client) {
	registerPools(s, client)
	registerPool(s, client)
	registerPositions(s, client)
	registerStats(s, client)
	registerChart(s, client)
	registerCompose(s, client)
	registerPrefsGet(s, client)
	registerPrefsSet(s, client)
	registerHealth(s, client)
}

func registerPools(s *server.MCPServer, client *Client) {
	tool := gomcp.NewTool("dex_pools",
		gomcp.WithDescription("List liquidity pools with TVL, 24h volume, fees and APR."),
		gomcp.WithNumber("skip",
			gomcp.Description("Number of pools to skip (pagination)"),
		),
		gomcp.WithNumber("limit",
			gomcp.Description("Page size, 1-100 (default 25)"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		q := url.Values{}
		if v := req.GetInt("skip", 0); v > 0 {
			q.Set("skip", fmt.Sprint(v))
		}
		if v := req.GetInt("limit", 0); v > 0 {
			q.Set("limit", fmt.Sprint(v))
		}
		path := "/v1/pools"
		if len(q) > 0 {
			path += "?" + q.Encode()
		}

		raw, err := client.Get(path)
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("dexd unreachable: %v", err)), nil
		}
		return gomcp.NewToolResultText(formatPools(raw)), nil
	})
}

func registerPool(s *server.MCPServer, client *Client) {
	tool := gomcp.NewTool("dex_pool",
		gomcp.WithDescription("Get one pool's display aggregate by pool address."),
		gomcp.WithString("id",
			gomcp.Required(),
			gomcp.Description("Pool address (0x-prefixed)"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		id, err := req.RequireString("id")
		if err != nil {
			return gomcp.NewToolResultError("id is required"), nil
		}

		raw, err := client.Get("/v1/pools/" + url.PathEscape(id))
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("Pool lookup failed: %v", err)), nil
		}
		return gomcp.NewToolResultText(formatPool(raw)), nil
	})
}

func registerPositions(s *server.MCPServer, client *Client) {
	tool := gomcp.NewTool("dex_positions",
		gomcp.WithDescription("List a wallet's liquidity positions with pool share and USD values."),
		gomcp.WithString("address",
			gomcp.Required(),
			gomcp.Description("Wallet address (0x-prefixed)"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		address, err := req.RequireString("address")
		if err != nil {
			return gomcp.NewToolResultError("address is required"), nil
		}

		raw, err := client.Get("/v1/positions/" + url.PathEscape(address))
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("Position lookup failed: %v", err)), nil
		}
		return gomcp.NewToolResultText(formatPositions(raw)), nil
	})
}

func registerStats(s *server.MCPServer, client *Client) {
	tool := gomcp.NewTool("dex_stats",
		gomcp.WithDescription("Get protocol-wide statistics: TVL, cumulative volume and fees, pool count."),
	)
	s.AddTool(tool, func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		raw, err := client.Get("/v1/stats")
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("dexd unreachable: %v", err)), nil
		}
		return gomcp.NewToolResultText(formatStats(raw)), nil
	})
}

func registerChart(s *server.MCPServer, client *Client) {
	tool := gomcp.NewTool("dex_chart",
		gomcp.WithDescription("Get a token's daily USD price series, sorted ascending by timestamp."),
		gomcp.WithString("token",
			gomcp.Required(),
			gomcp.Description("Token address (0x-prefixed)"),
		),
		gomcp.WithNumber("days",
			gomcp.Description("Number of days, 1-365 (default 30)"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		token, err := req.RequireString("token")
		if err != nil {
			return gomcp.NewToolResultError("token is required"), nil
		}

		path := "/v1/chart/" + url.PathEscape(token)
		if v := req.GetInt("days", 0); v > 0 {
			path += fmt.Sprintf("?days=%d", v)
		}

		raw, err := client.Get(path)
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("Chart lookup failed: %v", err)), nil
		}
		return gomcp.NewToolResultText(string(raw)), nil
	})
}

func registerCompose(s *server.MCPServer, client *Client) {
	tool := gomcp.NewTool("dex_compose",
		gomcp.WithDescription("Compose an encoded contract call for a trade intent. Kinds: add-liquidity, add-concentrated-liquidity, increase-liquidity, swap, approve, wrap, unwrap. Returns calldata for a wallet to sign, nothing is submitted on-chain."),
		gomcp.WithString("kind",
			gomcp.Required(),
			gomcp.Description("Intent kind"),
		),
		gomcp.WithString("token0",
			gomcp.Description("First token address (swap input / approve target); 0xEeee...EEeE means the native coin"),
		),
		gomcp.WithString("token1",
			gomcp.Description("Second token address (swap output)"),
		),
		gomcp.WithString("recipient",
			gomcp.Description("Recipient address"),
		),
		gomcp.WithBoolean("stable",
			gomcp.Description("Use the stable pool variant (add-liquidity)"),
		),
		gomcp.WithString("amount0",
			gomcp.Description("Desired amount of token0, decimal string in smallest units"),
		),
		gomcp.WithString("amount1",
			gomcp.Description("Desired amount of token1, decimal string in smallest units"),
		),
		gomcp.WithString("amount_in",
			gomcp.Description("Swap input amount, decimal string in smallest units"),
		),
		gomcp.WithString("min_amount_out",
			gomcp.Description("Minimum swap output, decimal string (optional)"),
		),
		gomcp.WithString("spender",
			gomcp.Description("Spender address (approve)"),
		),
		gomcp.WithString("amount",
			gomcp.Description("Amount for approve/wrap/unwrap, decimal string in smallest units"),
		),
		gomcp.WithNumber("tick_spacing",
			gomcp.Description("Tick spacing of the concentrated pool"),
		),
		gomcp.WithNumber("tick_lower",
			gomcp.Description("Lower tick of the position range"),
		),
		gomcp.WithNumber("tick_upper",
			gomcp.Description("Upper tick of the position range"),
		),
		gomcp.WithString("position_id",
			gomcp.Description("Position token ID (increase-liquidity)"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		kind, err := req.RequireString("kind")
		if err != nil {
			return gomcp.NewToolResultError("kind is required"), nil
		}

		payload := map[string]any{"kind": kind}
		for arg, field := range map[string]string{
			"token0":         "token0",
			"token1":         "token1",
			"recipient":      "recipient",
			"amount0":        "amount0",
			"amount1":        "amount1",
			"amount_in":      "amountIn",
			"min_amount_out": "minAmountOut",
			"spender":        "spender",
			"amount":         "amount",
			"position_id":    "positionId",
		} {
			if v := req.GetString(arg, ""); v != "" {
				payload[field] = v
			}
		}
		if req.GetBool("stable", false) {
			payload["stable"] = true
		}
		if v := req.GetInt("tick_spacing", 0); v != 0 {
			payload["tickSpacing"] = v
		}
		// Tick bounds may legitimately be zero or negative; send both when a
		// spacing was given.
		if _, ok := payload["tickSpacing"]; ok {
			payload["tickLower"] = req.GetInt("tick_lower", 0)
			payload["tickUpper"] = req.GetInt("tick_upper", 0)
		}

		raw, err := client.Post("/v1/compose", payload)
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("Compose failed: %v", err)), nil
		}
		return gomcp.NewToolResultText(formatComposition(raw)), nil
	})
}

func registerPrefsGet(s *server.MCPServer, client *Client) {
	tool := gomcp.NewTool("dex_prefs_get",
		gomcp.WithDescription("Get the stored trade preferences: slippage, deadline, router, theme."),
	)
	s.AddTool(tool, func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		raw, err := client.Get("/v1/prefs")
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("dexd unreachable: %v", err)), nil
		}
		return gomcp.NewToolResultText(formatPrefs(raw)), nil
	})
}

func registerPrefsSet(s *server.MCPServer, client *Client) {
	tool := gomcp.NewTool("dex_prefs_set",
		gomcp.WithDescription("Replace the stored trade preferences. This is a MUTATING operation."),
		gomcp.WithNumber("slippage_pct",
			gomcp.Required(),
			gomcp.Description("Slippage tolerance in percent, 0-100"),
		),
		gomcp.WithNumber("deadline_minutes",
			gomcp.Required(),
			gomcp.Description("Relative transaction deadline in minutes"),
		),
		gomcp.WithString("router",
			gomcp.Required(),
			gomcp.Description("Router preference: auto, v2, v3"),
		),
		gomcp.WithString("theme",
			gomcp.Required(),
			gomcp.Description("UI theme: dark or light"),
		),
	)
	s.AddTool(tool, func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		router, err := req.RequireString("router")
		if err != nil {
			return gomcp.NewToolResultError("router is required"), nil
		}
		theme, err := req.RequireString("theme")
		if err != nil {
			return gomcp.NewToolResultError("theme is required"), nil
		}

		payload := map[string]any{
			"slippagePct":     req.GetFloat("slippage_pct", 0),
			"deadlineMinutes": req.GetFloat("deadline_minutes", 0),
			"router":          router,
			"theme":           theme,
		}

		raw, err := client.Put("/v1/prefs", payload)
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("Preference update failed: %v", err)), nil
		}
		return gomcp.NewToolResultText(formatPrefs(raw)), nil
	})
}

func registerHealth(s *server.MCPServer, client *Client) {
	tool := gomcp.NewTool("dex_health",
		gomcp.WithDescription("Quick health check for dexd. Verifies the upstream indexer is reachable."),
	)
	s.AddTool(tool, func(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
		raw, err := client.Get("/ready")
		if err != nil {
			return gomcp.NewToolResultError(fmt.Sprintf("dexd unhealthy: %v", err)), nil
		}
		return gomcp.NewToolResultText(formatHealth(raw)), nil
	})
}

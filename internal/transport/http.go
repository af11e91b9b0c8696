// Package transport provides the HTTP API over the indexer views, the
// composer and the preference store.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Selora-Finance/interface-sub000/internal/assets"
	"github.com/Selora-Finance/interface-sub000/internal/composer"
	"github.com/Selora-Finance/interface-sub000/internal/indexer"
	"github.com/Selora-Finance/interface-sub000/internal/metrics"
	"github.com/Selora-Finance/interface-sub000/internal/prefs"
	"github.com/Selora-Finance/interface-sub000/internal/pricemath"
	"github.com/Selora-Finance/interface-sub000/internal/view"
	"github.com/Selora-Finance/interface-sub000/pkg/types"
)

// Pagination limits for list endpoints.
const (
	defaultPoolsLimit = 25
	maxPoolsLimit     = 100
	defaultChartDays  = 30
	maxChartDays      = 365
)

// Cache keys for the polled views. They double as websocket topics.
const (
	CachePools = "pools"
	CacheStats = "stats"
)

// Cache reads the poller's last good values.
type Cache interface {
	Last(key string) (any, bool)
}

// Indexer is the subset of the indexer client the handlers need.
type Indexer interface {
	Pools(ctx context.Context, skip, limit int) ([]indexer.Pool, error)
	PoolByID(ctx context.Context, id string) (*indexer.Pool, error)
	Account(ctx context.Context, address string) (*indexer.Account, error)
	Stats(ctx context.Context) (*indexer.GlobalStats, error)
	TokenDayData(ctx context.Context, token string, days int) ([]indexer.TokenDayData, error)
}

// HealthChecker reports whether the upstream indexer is reachable.
type HealthChecker interface {
	CheckIndexer(ctx context.Context) error
}

// Server handles HTTP requests for the API.
type Server struct {
	idx      Indexer
	assets   func() *assets.List
	comp     *composer.Composer
	clock    *composer.Clock
	prefs    *prefs.Store
	health   HealthChecker
	cache    Cache
	metrics  *metrics.Metrics
	logger   *slog.Logger
	wsServer *WebSocketServer

	startTime time.Time

	corsAllowedOrigins []string
	corsAllowAll       bool
}

// Config collects the server's dependencies.
type Config struct {
	Indexer            Indexer
	Assets             func() *assets.List
	Composer           *composer.Composer
	Clock              *composer.Clock
	Prefs              *prefs.Store
	Health             HealthChecker
	Cache              Cache
	Metrics            *metrics.Metrics
	Logger             *slog.Logger
	CORSAllowedOrigins string
}

// NewServer creates a new HTTP server.
func NewServer(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		idx:       cfg.Indexer,
		assets:    cfg.Assets,
		comp:      cfg.Composer,
		clock:     cfg.Clock,
		prefs:     cfg.Prefs,
		health:    cfg.Health,
		cache:     cfg.Cache,
		metrics:   cfg.Metrics,
		logger:    logger,
		startTime: time.Now(),
	}
	s.wsServer = NewWebSocketServer(logger, cfg.Metrics)

	origins := strings.TrimSpace(cfg.CORSAllowedOrigins)
	if origins == "" || origins == "*" {
		s.corsAllowAll = true
	} else {
		s.corsAllowedOrigins = strings.Split(origins, ",")
		for i, o := range s.corsAllowedOrigins {
			s.corsAllowedOrigins[i] = strings.TrimSpace(o)
		}
	}

	return s
}

// WebSocket returns the embedded websocket broadcaster.
func (s *Server) WebSocket() *WebSocketServer {
	return s.wsServer
}

// Handler returns an http.Handler with all routes configured.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/v1/pools", s.corsMiddleware(s.handlePools))
	mux.HandleFunc("/v1/pools/", s.corsMiddleware(s.handlePoolDetail))
	mux.HandleFunc("/v1/positions/", s.corsMiddleware(s.handlePositions))
	mux.HandleFunc("/v1/stats", s.corsMiddleware(s.handleStats))
	mux.HandleFunc("/v1/chart/", s.corsMiddleware(s.handleChart))
	mux.HandleFunc("/v1/compose", s.corsMiddleware(s.handleCompose))
	mux.HandleFunc("/v1/prefs", s.corsMiddleware(s.handlePrefs))
	mux.HandleFunc("/v1/ws", s.wsServer.Handler())

	// Health endpoints (unversioned - standard Kubernetes probes)
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)

	// Prometheus metrics (unversioned - standard path)
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

// corsMiddleware adds CORS headers based on the configured allowed origins.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if s.corsAllowAll {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if origin != "" {
			allowed := false
			for _, o := range s.corsAllowedOrigins {
				if o == origin {
					allowed = true
					break
				}
			}
			if allowed {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Vary", "Origin")
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

// handlePools returns a page of pool views.
func (s *Server) handlePools(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	skip := 0
	limit := defaultPoolsLimit
	if v := r.URL.Query().Get("skip"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			skip = n
		}
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxPoolsLimit {
			limit = n
		}
	}

	pools, err := s.idx.Pools(r.Context(), skip, limit)
	if err != nil {
		// A flaky indexer degrades the default page to the poller's last
		// good view instead of an error. Other pages have no cached form.
		if skip == 0 && s.cache != nil {
			if v, ok := s.cache.Last(CachePools); ok {
				if cached, ok := v.([]types.PoolView); ok {
					s.logger.Warn("serving cached pools, live fetch failed",
						slog.String("error", err.Error()))
					if limit < len(cached) {
						cached = cached[:limit]
					}
					s.writeJSON(w, cached)
					return
				}
			}
		}
		s.logger.Error("failed to fetch pools", slog.String("error", err.Error()))
		s.writeJSONError(w, "Failed to fetch pools: "+err.Error(), http.StatusBadGateway)
		return
	}

	s.writeJSON(w, view.MapPools(pools, s.assets()))
}

// handlePoolDetail handles GET /v1/pools/{id}.
func (s *Server) handlePoolDetail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/pools/")
	if id == "" || strings.Contains(id, "/") {
		s.writeJSONError(w, "Missing pool ID", http.StatusBadRequest)
		return
	}

	pool, err := s.idx.PoolByID(r.Context(), id)
	if err != nil {
		s.writeJSONError(w, "Failed to fetch pool: "+err.Error(), http.StatusBadGateway)
		return
	}
	if pool == nil {
		s.writeJSONError(w, "Pool not found", http.StatusNotFound)
		return
	}

	s.writeJSON(w, view.MapPool(*pool, s.assets()))
}

// handlePositions handles GET /v1/positions/{address}.
func (s *Server) handlePositions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	address := strings.TrimPrefix(r.URL.Path, "/v1/positions/")
	if !common.IsHexAddress(address) {
		s.writeJSONError(w, "Invalid address", http.StatusBadRequest)
		return
	}

	acct, err := s.idx.Account(r.Context(), strings.ToLower(address))
	if err != nil {
		s.writeJSONError(w, "Failed to fetch positions: "+err.Error(), http.StatusBadGateway)
		return
	}

	s.writeJSON(w, view.MapUserPositions(*acct, s.assets()))
}

// handleStats returns the protocol-wide statistics view.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := s.idx.Stats(r.Context())
	if err != nil {
		if s.cache != nil {
			if v, ok := s.cache.Last(CacheStats); ok {
				if cached, ok := v.(types.GlobalStatsView); ok {
					s.logger.Warn("serving cached stats, live fetch failed",
						slog.String("error", err.Error()))
					s.writeJSON(w, cached)
					return
				}
			}
		}
		s.writeJSONError(w, "Failed to fetch stats: "+err.Error(), http.StatusBadGateway)
		return
	}

	s.writeJSON(w, view.MapStats(*stats))
}

// handleChart handles GET /v1/chart/{token}?days=N.
func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := strings.TrimPrefix(r.URL.Path, "/v1/chart/")
	if !common.IsHexAddress(token) {
		s.writeJSONError(w, "Invalid token address", http.StatusBadRequest)
		return
	}

	days := defaultChartDays
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxChartDays {
			days = n
		}
	}

	samples, err := s.idx.TokenDayData(r.Context(), strings.ToLower(token), days)
	if err != nil {
		s.writeJSONError(w, "Failed to fetch chart data: "+err.Error(), http.StatusBadGateway)
		return
	}

	s.writeJSON(w, view.MapPricePoints(samples))
}

// handleCompose builds an encoded contract call for the requested intent.
func (s *Server) handleCompose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req types.ComposeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	p := s.prefs.Get()
	intent, err := buildIntent(req, p, s.clock)
	if err != nil {
		if s.metrics != nil {
			s.metrics.CompositionsTotal.WithLabelValues(string(req.Kind), "invalid").Inc()
		}
		s.writeJSONError(w, "Validation error: "+err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	composition := s.comp.Compose(intent)
	if s.metrics != nil {
		s.metrics.ComposeLatency.Observe(time.Since(start).Seconds())
	}

	resp := types.ComposeResponse{Skipped: composition == nil}
	outcome := "skipped"
	if composition != nil {
		v := composition.View()
		resp.Composition = &v
		outcome = "ok"
	}
	if s.metrics != nil {
		s.metrics.CompositionsTotal.WithLabelValues(string(req.Kind), outcome).Inc()
	}

	s.writeJSON(w, resp)
}

// handlePrefs reads or replaces the stored preferences.
func (s *Server) handlePrefs(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeJSON(w, s.prefs.Get())

	case http.MethodPut:
		var p types.Preferences
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			s.writeJSONError(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := s.prefs.Set(r.Context(), p); err != nil {
			s.writeJSONError(w, "Validation error: "+err.Error(), http.StatusBadRequest)
			return
		}
		s.writeJSON(w, s.prefs.Get())

	default:
		s.writeJSONError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleHealth handles liveness probes.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":         "healthy",
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
		"uptime_seconds": time.Since(s.startTime).Seconds(),
	})
}

// ReadinessCheck represents a single readiness check result.
type ReadinessCheck struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	LatencyMs int64  `json:"latency_ms,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleReady handles readiness probes.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	checks := []ReadinessCheck{}
	allHealthy := true

	if s.health != nil {
		start := time.Now()
		err := s.health.CheckIndexer(r.Context())
		check := ReadinessCheck{
			Name:      "indexer",
			LatencyMs: time.Since(start).Milliseconds(),
		}
		if err != nil {
			check.Status = "failed"
			check.Error = err.Error()
			allHealthy = false
		} else {
			check.Status = "ok"
		}
		checks = append(checks, check)
	}

	w.Header().Set("Content-Type", "application/json")
	if !allHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeJSONError writes a JSON error response.
func (s *Server) writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// buildIntent converts the API request plus the stored preferences into a
// typed composer intent. Minimum amounts derive from the slippage preference;
// deadlines come from the shared clock snapshot.
func buildIntent(req types.ComposeRequest, p types.Preferences, clock *composer.Clock) (composer.Intent, error) {
	deadline := clock.Deadline(p.DeadlineMinutes)

	switch req.Kind {
	case types.IntentAddLiquidity:
		token0, err := parseAddress("token0", req.Token0)
		if err != nil {
			return nil, err
		}
		token1, err := parseAddress("token1", req.Token1)
		if err != nil {
			return nil, err
		}
		recipient, err := parseAddress("recipient", req.Recipient)
		if err != nil {
			return nil, err
		}
		amount0, err := parseAmount("amount0", req.Amount0)
		if err != nil {
			return nil, err
		}
		amount1, err := parseAmount("amount1", req.Amount1)
		if err != nil {
			return nil, err
		}
		return composer.AddLiquidityIntent{
			Token0:         token0,
			Token1:         token1,
			Stable:         req.Stable,
			Amount0Desired: amount0,
			Amount1Desired: amount1,
			Amount0Min:     composer.ApplySlippage(p.SlippagePct, amount0),
			Amount1Min:     composer.ApplySlippage(p.SlippagePct, amount1),
			Recipient:      recipient,
			Deadline:       deadline,
		}, nil

	case types.IntentAddConcentratedLiquidity:
		token0, err := parseAddress("token0", req.Token0)
		if err != nil {
			return nil, err
		}
		token1, err := parseAddress("token1", req.Token1)
		if err != nil {
			return nil, err
		}
		recipient, err := parseAddress("recipient", req.Recipient)
		if err != nil {
			return nil, err
		}
		amount0, err := parseAmount("amount0", req.Amount0)
		if err != nil {
			return nil, err
		}
		amount1, err := parseAmount("amount1", req.Amount1)
		if err != nil {
			return nil, err
		}
		if req.TickSpacing <= 0 {
			return nil, fmt.Errorf("tickSpacing must be positive, got %d", req.TickSpacing)
		}
		if req.TickLower >= req.TickUpper {
			return nil, fmt.Errorf("tickLower %d must be below tickUpper %d", req.TickLower, req.TickUpper)
		}
		intent := composer.AddConcentratedLiquidityIntent{
			Token0:         token0,
			Token1:         token1,
			TickSpacing:    req.TickSpacing,
			TickLower:      req.TickLower,
			TickUpper:      req.TickUpper,
			Amount0Desired: amount0,
			Amount1Desired: amount1,
			Amount0Min:     composer.ApplySlippage(p.SlippagePct, amount0),
			Amount1Min:     composer.ApplySlippage(p.SlippagePct, amount1),
			Recipient:      recipient,
			Deadline:       deadline,
		}
		if req.StartPrice > 0 {
			intent.SqrtPriceX96 = pricemath.SqrtPriceX96FromPrice(req.StartPrice)
		}
		return intent, nil

	case types.IntentIncreaseLiquidity:
		tokenID, err := parseAmount("positionId", req.PositionID)
		if err != nil {
			return nil, err
		}
		amount0, err := parseAmount("amount0", req.Amount0)
		if err != nil {
			return nil, err
		}
		amount1, err := parseAmount("amount1", req.Amount1)
		if err != nil {
			return nil, err
		}
		if req.NativeSide != 0 && req.NativeSide != 1 {
			return nil, fmt.Errorf("nativeSide must be 0 or 1, got %d", req.NativeSide)
		}
		return composer.IncreaseLiquidityIntent{
			TokenID:        tokenID,
			Amount0Desired: amount0,
			Amount1Desired: amount1,
			Amount0Min:     composer.ApplySlippage(p.SlippagePct, amount0),
			Amount1Min:     composer.ApplySlippage(p.SlippagePct, amount1),
			Deadline:       deadline,
			HasNativeSide:  req.HasNativeSide,
			NativeSide:     req.NativeSide,
		}, nil

	case types.IntentSwap:
		tokenIn, err := parseAddress("token0", req.Token0)
		if err != nil {
			return nil, err
		}
		tokenOut, err := parseAddress("token1", req.Token1)
		if err != nil {
			return nil, err
		}
		recipient, err := parseAddress("recipient", req.Recipient)
		if err != nil {
			return nil, err
		}
		amountIn, err := parseAmount("amountIn", req.AmountIn)
		if err != nil {
			return nil, err
		}
		var minOut *big.Int
		if req.MinAmountOut != "" {
			minOut, err = parseAmount("minAmountOut", req.MinAmountOut)
			if err != nil {
				return nil, err
			}
		}
		return composer.SwapIntent{
			TokenIn:      tokenIn,
			TokenOut:     tokenOut,
			Recipient:    recipient,
			AmountIn:     amountIn,
			MinAmountOut: minOut,
			Router:       p.Router,
			Deadline:     deadline,
		}, nil

	case types.IntentApprove:
		token, err := parseAddress("token0", req.Token0)
		if err != nil {
			return nil, err
		}
		spender, err := parseAddress("spender", req.Spender)
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount("amount", req.Amount)
		if err != nil {
			return nil, err
		}
		return composer.ApproveIntent{Token: token, Spender: spender, Amount: amount}, nil

	case types.IntentWrap:
		amount, err := parseAmount("amount", req.Amount)
		if err != nil {
			return nil, err
		}
		return composer.WrapIntent{Amount: amount}, nil

	case types.IntentUnwrap:
		amount, err := parseAmount("amount", req.Amount)
		if err != nil {
			return nil, err
		}
		return composer.UnwrapIntent{Amount: amount}, nil
	}

	return nil, fmt.Errorf("unknown intent kind %q", req.Kind)
}

// parseAddress accepts the 0x-prefixed hex form, including the native
// sentinel.
func parseAddress(field, value string) (common.Address, error) {
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s is not a valid address: %q", field, value)
	}
	return common.HexToAddress(value), nil
}

// parseAmount parses a non-negative decimal amount in the token's smallest
// unit.
func parseAmount(field, value string) (*big.Int, error) {
	if value == "" {
		return nil, fmt.Errorf("%s is required", field)
	}
	n, ok := new(big.Int).SetString(value, 10)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("%s is not a valid amount: %q", field, value)
	}
	return n, nil
}

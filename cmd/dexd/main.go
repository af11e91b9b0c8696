// dexd serves display-ready DEX views over a GraphQL indexer and composes
// encoded contract calls for wallet submission.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/Selora-Finance/interface-sub000/internal/assets"
	"github.com/Selora-Finance/interface-sub000/internal/composer"
	"github.com/Selora-Finance/interface-sub000/internal/config"
	"github.com/Selora-Finance/interface-sub000/internal/indexer"
	"github.com/Selora-Finance/interface-sub000/internal/metrics"
	"github.com/Selora-Finance/interface-sub000/internal/poller"
	"github.com/Selora-Finance/interface-sub000/internal/prefs"
	"github.com/Selora-Finance/interface-sub000/internal/ratelimit"
	"github.com/Selora-Finance/interface-sub000/internal/transport"
	"github.com/Selora-Finance/interface-sub000/internal/view"
	"github.com/Selora-Finance/interface-sub000/pkg/types"
)

// assetRefreshInterval is how often the external asset list is re-fetched.
// The list changes rarely; an hour keeps logo churn invisible.
const assetRefreshInterval = time.Hour

// indexerQueryRate caps outbound GraphQL requests per second. Hosted
// subgraph endpoints throttle clients beyond roughly this rate.
const indexerQueryRate = 20

// measuredIndexer wraps the indexer client with request pacing and latency
// instrumentation.
type measuredIndexer struct {
	client  *indexer.Client
	limiter *ratelimit.Limiter
	metrics *metrics.Metrics
}

func (m *measuredIndexer) observe(query string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.metrics.IndexerLatency.WithLabelValues(query, status).Observe(time.Since(start).Seconds())
}

func (m *measuredIndexer) Pools(ctx context.Context, skip, limit int) ([]indexer.Pool, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	pools, err := m.client.Pools(ctx, skip, limit)
	m.observe("pools", start, err)
	return pools, err
}

func (m *measuredIndexer) PoolByID(ctx context.Context, id string) (*indexer.Pool, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	pool, err := m.client.PoolByID(ctx, id)
	m.observe("pool", start, err)
	return pool, err
}

func (m *measuredIndexer) Account(ctx context.Context, address string) (*indexer.Account, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	acct, err := m.client.Account(ctx, address)
	m.observe("account", start, err)
	return acct, err
}

func (m *measuredIndexer) Stats(ctx context.Context) (*indexer.GlobalStats, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	stats, err := m.client.Stats(ctx)
	m.observe("stats", start, err)
	return stats, err
}

func (m *measuredIndexer) TokenDayData(ctx context.Context, token string, days int) ([]indexer.TokenDayData, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	start := time.Now()
	samples, err := m.client.TokenDayData(ctx, token, days)
	m.observe("tokenDayData", start, err)
	return samples, err
}

// CheckIndexer satisfies the readiness probe by running the cheapest query.
func (m *measuredIndexer) CheckIndexer(ctx context.Context) error {
	_, err := m.Stats(ctx)
	return err
}

func main() {
	// Setup logger
	var level slog.Level
	switch os.Getenv("LOG_LEVEL") {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := prefs.Open(cfg.DatabasePath)
	if err != nil {
		logger.Error("failed to open preference store", "error", err, "path", cfg.DatabasePath)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("opened preference store", "path", cfg.DatabasePath)

	m := metrics.New(nil)
	httpClient := &http.Client{Timeout: 15 * time.Second}
	idx := &measuredIndexer{
		client:  indexer.NewClient(cfg.IndexerURL, httpClient),
		limiter: ratelimit.New(indexerQueryRate),
		metrics: m,
	}

	// The asset list starts empty and is filled by the first successful
	// fetch; an unreachable list host degrades logos, not the API.
	var assetList atomic.Pointer[assets.List]
	empty, _ := assets.NewList(nil)
	assetList.Store(empty)

	comp := composer.New(cfg.Addresses())
	clock := composer.NewClock(cfg.ClockRefresh)

	pol := poller.New(logger)
	defer pol.Close()

	server := transport.NewServer(transport.Config{
		Indexer:            idx,
		Assets:             assetList.Load,
		Composer:           comp,
		Clock:              clock,
		Prefs:              store,
		Health:             idx,
		Cache:              pol,
		Metrics:            m,
		Logger:             logger,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	// Preference changes and refreshed views stream to websocket clients.
	ws := server.WebSocket()
	defer store.Subscribe(func(p types.Preferences) { ws.Publish("prefs", p) })()

	defer pol.Subscribe(func(key string, value any) {
		if key == "assets" {
			return // internal cache, not a client-facing view
		}
		ws.Publish(key, value)
	})()

	pol.Register("assets", assetRefreshInterval, func(ctx context.Context) (any, error) {
		list, err := assets.Fetch(ctx, httpClient, cfg.AssetListURL)
		if err != nil {
			m.ErrorsTotal.WithLabelValues("assets", "fetch").Inc()
			return nil, err
		}
		assetList.Store(list)
		logger.Info("refreshed asset list", "entries", list.Len())
		return list, nil
	})
	pol.Register(transport.CachePools, cfg.PollInterval, func(ctx context.Context) (any, error) {
		pools, err := idx.Pools(ctx, 0, 25)
		if err != nil {
			m.ErrorsTotal.WithLabelValues("poller", "pools").Inc()
			return nil, err
		}
		return view.MapPools(pools, assetList.Load()), nil
	})
	pol.Register(transport.CacheStats, cfg.PollInterval, func(ctx context.Context) (any, error) {
		stats, err := idx.Stats(ctx)
		if err != nil {
			m.ErrorsTotal.WithLabelValues("poller", "stats").Inc()
			return nil, err
		}
		return view.MapStats(*stats), nil
	})
	m.ActivePollers.Set(3)

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server.Handler(),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down...")
		ws.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("starting HTTP server",
		"addr", cfg.ListenAddr,
		"indexer", cfg.IndexerURL,
		"chainId", cfg.ChainID)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("HTTP server failed", "error", err)
		os.Exit(1)
	}
}

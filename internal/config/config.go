// Package config handles configuration loading and validation.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Selora-Finance/interface-sub000/internal/composer"
)

// Config holds the API server configuration.
type Config struct {
	IndexerURL   string
	AssetListURL string
	ChainID      int64
	ListenAddr   string
	DatabasePath string
	PollInterval time.Duration
	ClockRefresh time.Duration

	// Deployed contract addresses the composer encodes calls against.
	RouterV2        string
	RouterV3        string
	RouterAuto      string
	PositionManager string
	WrappedNative   string

	CORSAllowedOrigins string // Comma-separated list of allowed origins, or "*" for all
}

// Defaults
const (
	DefaultIndexerURL         = "http://localhost:8000/subgraphs/name/selora"
	DefaultAssetListURL       = "https://assets.selora.finance/tokenlist.json"
	DefaultChainID            = 8453
	DefaultListenAddr         = ":3001"
	DefaultDatabasePath       = "./data/dexd.db"
	DefaultPollInterval       = 30 * time.Second
	DefaultCORSAllowedOrigins = "*"
)

// Load reads configuration from environment variables and command-line flags.
// Command-line flags take precedence over environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		IndexerURL:         DefaultIndexerURL,
		AssetListURL:       DefaultAssetListURL,
		ChainID:            DefaultChainID,
		ListenAddr:         DefaultListenAddr,
		DatabasePath:       DefaultDatabasePath,
		PollInterval:       DefaultPollInterval,
		ClockRefresh:       composer.DefaultClockRefresh,
		CORSAllowedOrigins: DefaultCORSAllowedOrigins,
	}

	// Load from environment variables first
	if v := os.Getenv("INDEXER_URL"); v != "" {
		cfg.IndexerURL = v
	}
	if v := os.Getenv("ASSET_LIST_URL"); v != "" {
		cfg.AssetListURL = v
	}
	if v := os.Getenv("CHAIN_ID"); v != "" {
		if id, err := strconv.ParseInt(v, 10, 64); err == nil && id > 0 {
			cfg.ChainID = id
		}
	}
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("DATABASE_PATH"); v != "" {
		cfg.DatabasePath = v
	}
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.PollInterval = d
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		cfg.CORSAllowedOrigins = v
	}
	if v := os.Getenv("ROUTER_V2"); v != "" {
		cfg.RouterV2 = v
	}
	if v := os.Getenv("ROUTER_V3"); v != "" {
		cfg.RouterV3 = v
	}
	if v := os.Getenv("ROUTER_AUTO"); v != "" {
		cfg.RouterAuto = v
	}
	if v := os.Getenv("POSITION_MANAGER"); v != "" {
		cfg.PositionManager = v
	}
	if v := os.Getenv("WRAPPED_NATIVE"); v != "" {
		cfg.WrappedNative = v
	}

	// Define command-line flags
	var (
		indexerURL   = flag.String("indexer", cfg.IndexerURL, "GraphQL indexer URL")
		assetListURL = flag.String("assetlist", cfg.AssetListURL, "Asset list URL")
		chainID      = flag.Int64("chainid", cfg.ChainID, "Chain ID")
		listenAddr   = flag.String("listen", cfg.ListenAddr, "HTTP listen address")
		databasePath = flag.String("db", cfg.DatabasePath, "Path to the SQLite preference database")
		pollInterval = flag.Duration("poll", cfg.PollInterval, "Indexer poll interval")
	)

	flag.Parse()

	cfg.IndexerURL = *indexerURL
	cfg.AssetListURL = *assetListURL
	cfg.ChainID = *chainID
	cfg.ListenAddr = *listenAddr
	cfg.DatabasePath = *databasePath
	cfg.PollInterval = *pollInterval

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.IndexerURL == "" {
		return fmt.Errorf("indexer URL is required")
	}
	if c.AssetListURL == "" {
		return fmt.Errorf("asset list URL is required")
	}
	if c.ChainID <= 0 {
		return fmt.Errorf("chain ID must be positive")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	for _, addr := range []struct{ name, value string }{
		{"ROUTER_V2", c.RouterV2},
		{"ROUTER_V3", c.RouterV3},
		{"ROUTER_AUTO", c.RouterAuto},
		{"POSITION_MANAGER", c.PositionManager},
		{"WRAPPED_NATIVE", c.WrappedNative},
	} {
		if addr.value != "" && !common.IsHexAddress(addr.value) {
			return fmt.Errorf("%s is not a valid address: %q", addr.name, addr.value)
		}
	}
	return nil
}

// Addresses converts the configured contract addresses into the composer's
// address book. Unset entries stay zero.
func (c *Config) Addresses() composer.Addresses {
	return composer.Addresses{
		RouterV2:        common.HexToAddress(c.RouterV2),
		RouterV3:        common.HexToAddress(c.RouterV3),
		RouterAuto:      common.HexToAddress(c.RouterAuto),
		PositionManager: common.HexToAddress(c.PositionManager),
		WrappedNative:   common.HexToAddress(c.WrappedNative),
	}
}

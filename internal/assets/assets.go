// Package assets ingests the externally hosted token asset list and offers
// case-insensitive address lookup for logo and decimals resolution.
package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/Selora-Finance/interface-sub000/pkg/types"
)

// fetchTimeout bounds a single asset list download.
const fetchTimeout = 30 * time.Second

// List is an immutable snapshot of the asset list, keyed by lowercased
// token address.
type List struct {
	byAddress map[string]types.AssetInfo
	entries   []types.AssetInfo
}

// Fetch downloads and validates the asset list. A single malformed entry
// rejects the whole fetch: a partially accepted list would silently hide
// tokens from the UI.
func Fetch(ctx context.Context, client *http.Client, url string) (*List, error) {
	if client == nil {
		client = &http.Client{Timeout: fetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build asset list request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset list: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("asset list fetch returned status %d", resp.StatusCode)
	}

	var entries []types.AssetInfo
	dec := json.NewDecoder(resp.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode asset list: %w", err)
	}

	return NewList(entries)
}

// NewList validates entries and builds the lookup. Exposed separately from
// Fetch so tests and embedded lists skip the HTTP round trip.
func NewList(entries []types.AssetInfo) (*List, error) {
	byAddress := make(map[string]types.AssetInfo, len(entries))
	for i, e := range entries {
		if err := validate(e); err != nil {
			return nil, fmt.Errorf("asset list entry %d (%s): %w", i, e.Symbol, err)
		}
		byAddress[strings.ToLower(e.Address)] = e
	}
	return &List{byAddress: byAddress, entries: entries}, nil
}

func validate(e types.AssetInfo) error {
	if !common.IsHexAddress(e.Address) {
		return fmt.Errorf("invalid address %q", e.Address)
	}
	if e.Symbol == "" {
		return fmt.Errorf("missing symbol")
	}
	if e.Name == "" {
		return fmt.Errorf("missing name")
	}
	if e.Decimals < 0 || e.Decimals > 36 {
		return fmt.Errorf("decimals %d out of range", e.Decimals)
	}
	if e.ChainID <= 0 {
		return fmt.Errorf("chainId %d out of range", e.ChainID)
	}
	return nil
}

// ByAddress looks up an asset by hex address. Comparison is case-insensitive
// on the hex form.
func (l *List) ByAddress(address string) (types.AssetInfo, bool) {
	a, ok := l.byAddress[strings.ToLower(address)]
	return a, ok
}

// LogoFor returns the logo URI for an address, or the empty string.
func (l *List) LogoFor(address string) string {
	if a, ok := l.ByAddress(address); ok {
		return a.LogoURI
	}
	return ""
}

// SymbolFor returns the symbol for an address, or the empty string.
func (l *List) SymbolFor(address string) string {
	if a, ok := l.ByAddress(address); ok {
		return a.Symbol
	}
	return ""
}

// Entries returns the validated entries in feed order.
func (l *List) Entries() []types.AssetInfo {
	return l.entries
}

// Len returns the number of assets in the list.
func (l *List) Len() int {
	return len(l.entries)
}

package indexer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// graphQLStub serves canned data keyed by a substring of the query document.
func graphQLStub(t *testing.T, responses map[string]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("stub failed to decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		for key, data := range responses {
			if strings.Contains(req.Query, key) {
				w.Write([]byte(`{"data":` + data + `}`))
				return
			}
		}
		w.Write([]byte(`{"errors":[{"message":"unknown query"}]}`))
	}))
}

const poolJSON = `{
	"id": "0xp00l",
	"poolType": "Volatile",
	"token0": {"id": "0xt0", "symbol": "WETH", "decimals": "18"},
	"token1": {"id": "0xt1", "symbol": "USDC", "decimals": "6"},
	"totalSupply": "1000",
	"reserveUSD": "4500000",
	"volumeUSD": "125000.5",
	"feesUSD": "375",
	"apr": "12.5",
	"gauge": {"id": "0xg", "rewardRate": "0.08"}
}`

func TestPoolByID(t *testing.T) {
	srv := graphQLStub(t, map[string]string{"pool(id:": `{"pool":` + poolJSON + `}`})
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	pool, err := c.PoolByID(context.Background(), "0xp00l")
	if err != nil {
		t.Fatalf("PoolByID() error = %v", err)
	}
	if pool.Token0.Symbol != "WETH" || pool.Token1.Symbol != "USDC" {
		t.Errorf("tokens = %s/%s, want WETH/USDC", pool.Token0.Symbol, pool.Token1.Symbol)
	}
	if pool.Gauge == nil || pool.Gauge.RewardRate != "0.08" {
		t.Errorf("gauge = %+v, want rewardRate 0.08", pool.Gauge)
	}
}

func TestPoolByID_MissingResolvesNil(t *testing.T) {
	srv := graphQLStub(t, map[string]string{"pool(id:": `{"pool":null}`})
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	pool, err := c.PoolByID(context.Background(), "0xmissing")
	if err != nil {
		t.Fatalf("PoolByID() error = %v, want nil for an unknown pool", err)
	}
	if pool != nil {
		t.Errorf("pool = %+v, want nil", pool)
	}
}

func TestPools_MissingOptionalFields(t *testing.T) {
	// No gauge, no apr: optional fields must decode to zero values.
	srv := graphQLStub(t, map[string]string{"pools(skip:": `{"pools":[{
		"id": "0xp",
		"poolType": "Stable",
		"token0": {"id": "0xt0", "symbol": "A", "decimals": "18"},
		"token1": {"id": "0xt1", "symbol": "B", "decimals": "18"},
		"totalSupply": "10",
		"reserveUSD": "100",
		"volumeUSD": "5",
		"feesUSD": "0.1"
	}]}`})
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	pools, err := c.Pools(context.Background(), 0, 25)
	if err != nil {
		t.Fatalf("Pools() error = %v", err)
	}
	if len(pools) != 1 {
		t.Fatalf("got %d pools, want 1", len(pools))
	}
	if pools[0].Gauge != nil {
		t.Errorf("Gauge = %+v, want nil when absent", pools[0].Gauge)
	}
	if pools[0].APR != "" {
		t.Errorf("APR = %q, want empty when absent", pools[0].APR)
	}
}

func TestAccount_MissingResolvesEmpty(t *testing.T) {
	srv := graphQLStub(t, map[string]string{"account(id:": `{"account":null}`})
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	acct, err := c.Account(context.Background(), "0xnobody")
	if err != nil {
		t.Fatalf("Account() error = %v", err)
	}
	if acct.ID != "0xnobody" || len(acct.LiquidityPositions) != 0 {
		t.Errorf("missing account should resolve empty, got %+v", acct)
	}
}

func TestStats(t *testing.T) {
	srv := graphQLStub(t, map[string]string{"globalStats": `{"globalStats":{
		"totalValueLockedUSD": "98765432.1",
		"totalVolumeUSD": "123456789",
		"totalFeesUSD": "54321",
		"poolCount": 87
	}}`})
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	stats, err := c.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.PoolCount != 87 {
		t.Errorf("PoolCount = %d, want 87", stats.PoolCount)
	}
}

func TestQuery_ErrorsFailWholeQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"field does not exist"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	if _, err := c.Stats(context.Background()); err == nil {
		t.Error("expected indexer errors to fail the query")
	}
}

func TestQuery_HTTPErrorFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, srv.Client())
	if _, err := c.TokenDayData(context.Background(), "0xt0", 30); err == nil {
		t.Error("expected a status error")
	}
}

// Package indexer queries the GraphQL indexer for pool, position, and
// statistics records. Responses are schema-checked on decode: a malformed
// response fails the whole query rather than producing a partial record set.
package indexer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const requestTimeout = 20 * time.Second

const poolFields = `
	id
	poolType
	token0 { id symbol decimals }
	token1 { id symbol decimals }
	totalSupply
	reserveUSD
	volumeUSD
	feesUSD
	apr
	gauge { id rewardRate }`

// Client issues GraphQL queries over HTTP POST.
type Client struct {
	url    string
	client *http.Client
}

// NewClient creates an indexer client for the given GraphQL endpoint.
func NewClient(url string, client *http.Client) *Client {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	return &Client{url: url, client: client}
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// query posts a GraphQL document and decodes the data payload into out.
func (c *Client) query(ctx context.Context, doc string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: doc, Variables: vars})
	if err != nil {
		return fmt.Errorf("marshal query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("post query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("indexer returned status %d", resp.StatusCode)
	}

	var gqlResp graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(gqlResp.Errors) > 0 {
		return fmt.Errorf("indexer error: %s", gqlResp.Errors[0].Message)
	}
	if gqlResp.Data == nil {
		return fmt.Errorf("indexer response had no data")
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// PoolByID fetches a single pool record. An unknown id resolves to nil with
// no error, so callers can tell "not found" from "indexer down".
func (c *Client) PoolByID(ctx context.Context, id string) (*Pool, error) {
	doc := fmt.Sprintf(`query ($id: ID!) { pool(id: $id) {%s
} }`, poolFields)

	var data struct {
		Pool *Pool `json:"pool"`
	}
	if err := c.query(ctx, doc, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	return data.Pool, nil
}

// Pools fetches a page of pool records, paginated by skip/limit.
func (c *Client) Pools(ctx context.Context, skip, limit int) ([]Pool, error) {
	doc := fmt.Sprintf(`query ($skip: Int!, $limit: Int!) { pools(skip: $skip, first: $limit, orderBy: reserveUSD, orderDirection: desc) {%s
} }`, poolFields)

	var data struct {
		Pools []Pool `json:"pools"`
	}
	if err := c.query(ctx, doc, map[string]any{"skip": skip, "limit": limit}, &data); err != nil {
		return nil, err
	}
	return data.Pools, nil
}

// Account fetches a user account with its nested LP positions. A missing
// account resolves to an empty account rather than an error.
func (c *Client) Account(ctx context.Context, address string) (*Account, error) {
	doc := fmt.Sprintf(`query ($id: ID!) { account(id: $id) {
	id
	liquidityPositions { liquidityTokenBalance pool {%s
	} }
} }`, poolFields)

	var data struct {
		Account *Account `json:"account"`
	}
	if err := c.query(ctx, doc, map[string]any{"id": address}, &data); err != nil {
		return nil, err
	}
	if data.Account == nil {
		return &Account{ID: address}, nil
	}
	return data.Account, nil
}

// Stats fetches the protocol-wide statistics singleton.
func (c *Client) Stats(ctx context.Context) (*GlobalStats, error) {
	doc := `query { globalStats(id: "1") { totalValueLockedUSD totalVolumeUSD totalFeesUSD poolCount } }`

	var data struct {
		GlobalStats *GlobalStats `json:"globalStats"`
	}
	if err := c.query(ctx, doc, nil, &data); err != nil {
		return nil, err
	}
	if data.GlobalStats == nil {
		return nil, fmt.Errorf("stats singleton missing")
	}
	return data.GlobalStats, nil
}

// TokenDayData fetches the day-level price series for a token, newest first.
func (c *Client) TokenDayData(ctx context.Context, token string, limit int) ([]TokenDayData, error) {
	doc := `query ($token: String!, $limit: Int!) {
	tokenDayDatas(where: { token: $token }, first: $limit, orderBy: date, orderDirection: desc) { date priceUSD }
}`

	var data struct {
		TokenDayDatas []TokenDayData `json:"tokenDayDatas"`
	}
	if err := c.query(ctx, doc, map[string]any{"token": token, "limit": limit}, &data); err != nil {
		return nil, err
	}
	return data.TokenDayDatas, nil
}

// Package prices fetches per-mint USD prices from the Jupiter lite price
// API. The pool pipeline consumes prices as already-resolved floats; this
// client is the external collaborator that resolves them.
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const priceTTL = 30 * time.Second

type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client

	mu    sync.RWMutex
	cache map[string]cachedPrice
}

type cachedPrice struct {
	price     float64
	fetchedAt time.Time
}

func NewClient(baseURL, apiKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = "https://lite-api.jup.ag/price/v3"
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  strings.TrimSpace(apiKey),
		HTTP: &http.Client{
			Timeout: 12 * time.Second,
		},
		cache: make(map[string]cachedPrice),
	}
}

type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	b := strings.TrimSpace(string(e.Body))
	if b == "" {
		return fmt.Sprintf("price api http %d", e.StatusCode)
	}
	return fmt.Sprintf("price api http %d: %s", e.StatusCode, b)
}

type priceEntry struct {
	USDPrice   float64 `json:"usdPrice"`
	BlockID    uint64  `json:"blockId,omitempty"`
	Decimals   uint8   `json:"decimals,omitempty"`
	PriceChg24 float64 `json:"priceChange24h,omitempty"`
}

// Fetch returns USD prices for up to 50 mints in one request.
func (c *Client) Fetch(ctx context.Context, mints []string) (map[string]float64, error) {
	if len(mints) == 0 {
		return map[string]float64{}, nil
	}

	q := url.Values{}
	q.Set("ids", strings.Join(mints, ","))

	u := c.BaseURL + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set("x-api-key", c.APIKey)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, &HTTPError{StatusCode: res.StatusCode, Body: body}
	}

	var entries map[string]priceEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode price response: %w", err)
	}

	out := make(map[string]float64, len(entries))
	now := time.Now()
	c.mu.Lock()
	for mint, e := range entries {
		out[mint] = e.USDPrice
		c.cache[mint] = cachedPrice{price: e.USDPrice, fetchedAt: now}
	}
	c.mu.Unlock()

	return out, nil
}

// USDPrice implements the pipeline's PriceSource. Recently fetched prices
// are served from the in-process cache to keep pool assembly from hitting
// the API once per pool side.
func (c *Client) USDPrice(ctx context.Context, mint string) (float64, error) {
	c.mu.RLock()
	entry, ok := c.cache[mint]
	c.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < priceTTL {
		return entry.price, nil
	}

	res, err := c.Fetch(ctx, []string{mint})
	if err != nil {
		return 0, err
	}
	return res[mint], nil
}

// StaticSource is a fixed mint→price table. Used in tests and as an
// offline fallback when no price API is configured.
type StaticSource map[string]float64

func (s StaticSource) USDPrice(_ context.Context, mint string) (float64, error) {
	return s[mint], nil
}

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poolworks/solana-pool-indexer/internal/cache"
	"github.com/poolworks/solana-pool-indexer/internal/pool"
)

// fakeCache serves a fixed pool set without Redis.
type fakeCache struct {
	pools  []*pool.OnchainPoolData
	prices map[string]float64
}

func (f *fakeCache) SetPools(context.Context, []*pool.OnchainPoolData) error { return nil }

func (f *fakeCache) GetPools(_ context.Context, limit int) ([]*pool.OnchainPoolData, error) {
	if limit > 0 && len(f.pools) > limit {
		return f.pools[:limit], nil
	}
	return f.pools, nil
}

func (f *fakeCache) GetPool(_ context.Context, address string) (*pool.OnchainPoolData, error) {
	for _, p := range f.pools {
		if p.Address == address {
			return p, nil
		}
	}
	return nil, cache.ErrPoolNotFound
}

func (f *fakeCache) UpdatePrice(context.Context, string, float64) error { return nil }

func (f *fakeCache) GetPrice(_ context.Context, mint string) (float64, error) {
	return f.prices[mint], nil
}

func (f *fakeCache) PublishPoolUpdate(context.Context, *pool.OnchainPoolData) error { return nil }

func (f *fakeCache) SubscribePoolUpdates(context.Context) (<-chan *pool.OnchainPoolData, error) {
	return nil, nil
}

func (f *fakeCache) Ping(context.Context) error { return nil }
func (f *fakeCache) Close() error               { return nil }

func testHandlers(pools ...*pool.OnchainPoolData) *Handlers {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return &Handlers{
		Cache:  &fakeCache{pools: pools, prices: map[string]float64{"mintA": 150.5}},
		Logger: logger,
	}
}

func solUsdcPool() *pool.OnchainPoolData {
	return &pool.OnchainPoolData{
		Address:   "pool1",
		ProgramID: "9W959DqEETiGZocYWCQPaJ6sBmUzgfxXfqGeTEdp3aQP",
		MintA:     pool.MintInfo{Address: "mintSOL", Symbol: "SOL", Decimals: 9},
		MintB:     pool.MintInfo{Address: "mintUSDC", Symbol: "USDC", Decimals: 6},
		ReserveA:  100_000_000_000, // 100 SOL
		ReserveB:  15_000_000_000,  // 15,000 USDC
		FeeRate:   0.0025,
		TVL:       30000,
	}
}

func doRequest(t *testing.T, h echo.HandlerFunc, target string, paramNames, paramValues []string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	require.NoError(t, h(c))
	return rec
}

func TestPools(t *testing.T) {
	h := testHandlers(solUsdcPool())

	rec := doRequest(t, h.Pools, "/v1/pools", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PoolListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "pool1", resp.Items[0].ID)
	assert.Equal(t, "SOL", resp.Items[0].MintA.Symbol)
	assert.InDelta(t, 30000, resp.Items[0].Liquidity, 1e-9)
}

func TestPools_InvalidLimit(t *testing.T) {
	h := testHandlers()

	for _, target := range []string{"/v1/pools?limit=0", "/v1/pools?limit=1000", "/v1/pools?limit=abc"} {
		rec := doRequest(t, h.Pools, target, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestPool_NotFound(t *testing.T) {
	h := testHandlers(solUsdcPool())

	rec := doRequest(t, h.Pool, "/v1/pools/missing", []string{"address"}, []string{"missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPrice(t *testing.T) {
	h := testHandlers()

	rec := doRequest(t, h.Price, "/v1/prices/mintA", []string{"mint"}, []string{"mintA"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp PriceResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 150.5, resp.Price)
}

func TestQuote(t *testing.T) {
	h := testHandlers(solUsdcPool())

	rec := doRequest(t, h.Quote, "/v1/quote?inputMint=mintSOL&outputMint=mintUSDC&amount=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp QuoteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pool1", resp.Pool)
	// 1 SOL into a 100/15000 pool with 25bps fee.
	assert.InDelta(t, 148.14, resp.OutputAmount, 0.05)
	assert.Greater(t, resp.PriceImpact, 0.0)
}

func TestQuote_Validation(t *testing.T) {
	h := testHandlers(solUsdcPool())

	targets := []string{
		"/v1/quote?outputMint=mintUSDC&amount=1",
		"/v1/quote?inputMint=mintSOL&amount=1",
		"/v1/quote?inputMint=mintSOL&outputMint=mintSOL&amount=1",
		"/v1/quote?inputMint=mintSOL&outputMint=mintUSDC&amount=0",
		"/v1/quote?inputMint=mintSOL&outputMint=mintUSDC&amount=abc",
	}
	for _, target := range targets {
		rec := doRequest(t, h.Quote, target, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestQuote_NoPool(t *testing.T) {
	h := testHandlers()

	rec := doRequest(t, h.Quote, "/v1/quote?inputMint=mintSOL&outputMint=mintUSDC&amount=1", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDepositOptimal(t *testing.T) {
	h := testHandlers(solUsdcPool())

	rec := doRequest(t, h.DepositOptimal, "/v1/deposit/optimal?pool=pool1&side=A&amount=1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DepositResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "B", resp.PairedSide)
	// 1 SOL pairs with 150 USDC at the pool ratio.
	assert.Equal(t, "150.000000", resp.PairedAmount)
}

func TestDepositOptimal_Validation(t *testing.T) {
	h := testHandlers(solUsdcPool())

	targets := []string{
		"/v1/deposit/optimal?side=A&amount=1",
		"/v1/deposit/optimal?pool=pool1&side=X&amount=1",
		"/v1/deposit/optimal?pool=pool1&side=A",
	}
	for _, target := range targets {
		rec := doRequest(t, h.DepositOptimal, target, nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

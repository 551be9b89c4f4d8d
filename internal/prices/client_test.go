package prices

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetch(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "mintA,mintB", r.URL.Query().Get("ids"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"mintA":{"usdPrice":150.5},"mintB":{"usdPrice":1.0}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")

	res, err := c.Fetch(context.Background(), []string{"mintA", "mintB"})
	require.NoError(t, err)
	assert.Equal(t, 150.5, res["mintA"])
	assert.Equal(t, 1.0, res["mintB"])
	assert.Equal(t, int64(1), calls.Load())
}

func TestFetch_Empty(t *testing.T) {
	c := NewClient("http://unreachable.invalid", "")
	res, err := c.Fetch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, res)
}

func TestFetch_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")

	_, err := c.Fetch(context.Background(), []string{"mintA"})
	require.Error(t, err)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.StatusCode)
}

func TestUSDPrice_CachesWithinTTL(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"mintA":{"usdPrice":150.5}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")

	for i := 0; i < 3; i++ {
		price, err := c.USDPrice(context.Background(), "mintA")
		require.NoError(t, err)
		assert.Equal(t, 150.5, price)
	}
	assert.Equal(t, int64(1), calls.Load())
}

func TestStaticSource(t *testing.T) {
	s := StaticSource{"mintA": 2.5}

	price, err := s.USDPrice(context.Background(), "mintA")
	require.NoError(t, err)
	assert.Equal(t, 2.5, price)

	price, err = s.USDPrice(context.Background(), "unknown")
	require.NoError(t, err)
	assert.Zero(t, price)
}

func TestNewClient_DefaultBaseURL(t *testing.T) {
	c := NewClient("", "")
	assert.Equal(t, "https://lite-api.jup.ag/price/v3", c.BaseURL)

	c = NewClient("https://example.com/price/", "")
	assert.Equal(t, "https://example.com/price", c.BaseURL)
}

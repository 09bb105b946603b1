package coinbase

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coinfeed/pkg/market"
)

func newMockProductServer(t *testing.T) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/products", r.URL.Path)
		if atomic.AddInt32(&calls, 1) > 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		writeJSON(t, w, []map[string]any{
			{
				"id":               "BTC-USD",
				"base_currency":    "BTC",
				"quote_currency":   "USD",
				"base_increment":   "0.00000001",
				"quote_increment":  "0.01",
				"display_name":     "BTC/USD",
				"status":           "online",
				"trading_disabled": false,
			},
			{
				"id":               "XRP-USD",
				"base_currency":    "XRP",
				"quote_currency":   "USD",
				"base_increment":   "0.000001",
				"quote_increment":  "0.0001",
				"display_name":     "XRP/USD",
				"status":           "delisted",
				"trading_disabled": true,
			},
		})
	}))
	return server, &calls
}

func TestProviderBuiltFromConfig(t *testing.T) {
	server, _, state := newMockCandleServer(t)
	defer server.Close()

	cfgYAML := fmt.Sprintf(`
default: coinbase
providers:
  coinbase:
    type: coinbase
    base_url: %s
    timeout: 5s
    max_retries: 0
`, server.URL)

	cfg, err := market.LoadConfigFromReader(strings.NewReader(cfgYAML))
	require.NoError(t, err)
	providers, err := cfg.BuildProviders()
	require.NoError(t, err)
	provider, ok := providers["coinbase"]
	require.True(t, ok)

	candles, err := provider.Candles(context.Background(), "BTC-USD", market.CandleQuery{
		Start:       mustParse(t, "2020-03-09T00:00:00Z"),
		End:         mustParse(t, "2020-03-15T23:59:59Z"),
		Granularity: 3600,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, state.count())
	assert.Len(t, candles, 168)
}

func TestProviderRejectsUnsupportedGranularity(t *testing.T) {
	provider := NewProvider()
	_, err := provider.Candles(context.Background(), "BTC-USD", market.CandleQuery{
		Start:       mustParse(t, "2020-03-09T00:00:00Z"),
		End:         mustParse(t, "2020-03-10T00:00:00Z"),
		Granularity: 1234,
	})
	require.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestProviderProductsCaching(t *testing.T) {
	server, calls := newMockProductServer(t)
	defer server.Close()

	provider := NewProvider(WithClientOptions(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithMaxRetries(0),
	))

	ctx := context.Background()
	products, err := provider.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "BTC-USD", products[0].ID)
	assert.True(t, products[0].IsActive)
	assert.False(t, products[1].IsActive)
	assert.Equal(t, "BTC/USD", products[0].RawMetadata["displayName"])

	// Second call is served from the cache; the stub would 500 otherwise.
	again, err := provider.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, products, again)
	assert.Equal(t, int32(1), atomic.LoadInt32(calls))
}

func TestProviderProductsServesStaleCacheOnRefreshFailure(t *testing.T) {
	server, calls := newMockProductServer(t)
	defer server.Close()

	provider := NewProvider(WithClientOptions(
		WithBaseURL(server.URL),
		WithHTTPClient(server.Client()),
		WithMaxRetries(0),
	))

	ctx := context.Background()
	fresh, err := provider.Products(ctx)
	require.NoError(t, err)

	// Age the cache past its TTL, then refresh against the now-failing stub.
	provider.cacheMu.Lock()
	provider.products.Fetched = time.Now().Add(-time.Hour)
	provider.cacheMu.Unlock()

	stale, err := provider.Products(ctx)
	require.NoError(t, err)
	assert.Equal(t, fresh, stale)
	assert.Equal(t, int32(2), atomic.LoadInt32(calls))
}

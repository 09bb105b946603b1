package coinbase

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/zeromicro/go-zero/core/logx"

	"coinfeed/pkg/market"
)

const (
	defaultProviderTimeout = 15 * time.Second
	productCacheTTL        = 5 * time.Minute
)

// Provider wraps Client calls behind the generic market.Provider contract.
// Candle series are never cached; every call builds its own value.
type Provider struct {
	client  *Client
	timeout time.Duration

	cacheMu  sync.RWMutex
	products cachedProducts
}

type cachedProducts struct {
	Products []market.Product
	Fetched  time.Time
}

type providerConfig struct {
	timeout      time.Duration
	clientConfig []Option
}

// ProviderOption customises the Coinbase provider.
type ProviderOption func(*providerConfig)

// WithTimeout overrides the default per-call timeout.
func WithTimeout(timeout time.Duration) ProviderOption {
	return func(cfg *providerConfig) {
		if timeout > 0 {
			cfg.timeout = timeout
		}
	}
}

// WithClientOptions passes options to the underlying Coinbase client.
func WithClientOptions(options ...Option) ProviderOption {
	return func(cfg *providerConfig) {
		cfg.clientConfig = append(cfg.clientConfig, options...)
	}
}

// NewProvider constructs a Coinbase market provider.
func NewProvider(opts ...ProviderOption) *Provider {
	cfg := &providerConfig{
		timeout: defaultProviderTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return &Provider{
		client:  NewClient(cfg.clientConfig...),
		timeout: cfg.timeout,
	}
}

func init() {
	market.RegisterProvider("coinbase", func(name string, cfg *market.ProviderConfig) (market.Provider, error) {
		opts := []ProviderOption{}
		clientOptions := []Option{}
		if cfg.Timeout > 0 {
			opts = append(opts, WithTimeout(cfg.Timeout))
		}
		if cfg.HTTPTimeout > 0 {
			clientOptions = append(clientOptions, WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}))
		}
		if cfg.BaseURL != "" {
			clientOptions = append(clientOptions, WithBaseURL(cfg.BaseURL))
		}
		if cfg.MaxRetries > 0 {
			clientOptions = append(clientOptions, WithMaxRetries(cfg.MaxRetries))
		}
		if len(clientOptions) > 0 {
			opts = append(opts, WithClientOptions(clientOptions...))
		}
		return NewProvider(opts...), nil
	})
}

// Candles implements market.Provider. Bucketing, merge order, and failure
// semantics are those of Client.GetHistoricRates.
func (p *Provider) Candles(ctx context.Context, productID string, query market.CandleQuery) ([]market.Candle, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	return p.client.GetHistoricRates(ctx, productID, CandleParams{
		Start:       query.Start,
		End:         query.End,
		Granularity: Granularity(query.Granularity),
	})
}

// Products implements market.Provider with a short TTL cache. A failed
// refresh falls back to the stale cache when one exists.
func (p *Provider) Products(ctx context.Context) ([]market.Product, error) {
	ctx, cancel := p.withTimeout(ctx)
	defer cancel()
	if products, ok := p.loadProducts(false); ok {
		return products, nil
	}

	wire, err := p.client.GetProducts(ctx)
	if err != nil {
		if stale, ok := p.loadProducts(true); ok {
			logx.WithContext(ctx).Errorf("coinbase: product refresh failed, serving stale cache: %v", err)
			return stale, nil
		}
		return nil, err
	}

	products := make([]market.Product, 0, len(wire))
	for _, product := range wire {
		products = append(products, market.Product{
			ID:       product.ID,
			Base:     product.BaseCurrency,
			Quote:    product.QuoteCurrency,
			IsActive: product.Status == "online" && !product.TradingDisabled,
			RawMetadata: map[string]any{
				"displayName":    product.DisplayName,
				"baseIncrement":  product.BaseIncrement,
				"quoteIncrement": product.QuoteIncrement,
				"postOnly":       product.PostOnly,
				"limitOnly":      product.LimitOnly,
				"cancelOnly":     product.CancelOnly,
				"statusMessage":  product.StatusMessage,
			},
		})
	}
	p.storeProducts(products)
	return products, nil
}

func (p *Provider) loadProducts(allowStale bool) ([]market.Product, bool) {
	p.cacheMu.RLock()
	defer p.cacheMu.RUnlock()
	if len(p.products.Products) == 0 {
		return nil, false
	}
	if !allowStale && time.Since(p.products.Fetched) > productCacheTTL {
		return nil, false
	}
	products := make([]market.Product, len(p.products.Products))
	copy(products, p.products.Products)
	return products, true
}

func (p *Provider) storeProducts(products []market.Product) {
	clone := make([]market.Product, len(products))
	copy(clone, products)
	p.cacheMu.Lock()
	defer p.cacheMu.Unlock()
	p.products = cachedProducts{Products: clone, Fetched: time.Now()}
}

func (p *Provider) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithTimeout(ctx, p.timeout)
}

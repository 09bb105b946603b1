package market

import (
	"context"
	"time"
)

// Provider exposes exchange-agnostic market data.
type Provider interface {
	// Candles returns a normalized, ascending candle series for the product.
	Candles(ctx context.Context, productID string, query CandleQuery) ([]Candle, error)
	// Products returns all tradeable products along with metadata.
	Products(ctx context.Context) ([]Product, error)
}

// CandleQuery bounds a historic candle request. When Start and End are both
// zero the exchange chooses its default recent window.
type CandleQuery struct {
	Start       time.Time
	End         time.Time
	Granularity int // candle bucket size in seconds
}

// Candle is one normalized OHLCV sample.
type Candle struct {
	Open    float64
	High    float64
	Low     float64
	Close   float64
	Volume  float64
	Time    int64  // bucket open time in milliseconds since epoch
	TimeISO string // RFC3339 rendering of Time
}

// Product describes a tradeable instrument.
type Product struct {
	ID          string         // Exchange-native product id, e.g. "BTC-USD"
	Base        string         // Base asset
	Quote       string         // Quote asset
	IsActive    bool           // Whether the product is currently tradeable
	RawMetadata map[string]any // Exchange-specific fields for callers that need more detail
}

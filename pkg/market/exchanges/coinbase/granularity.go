package coinbase

import (
	"errors"
	"time"
)

// Granularity is a candle bucket size in seconds.
type Granularity int

// Bucket sizes accepted by the historic-rates endpoint. The exchange rejects
// anything outside this set.
const (
	Granularity1m  Granularity = 60
	Granularity5m  Granularity = 300
	Granularity15m Granularity = 900
	Granularity1h  Granularity = 3600
	Granularity6h  Granularity = 21600
	Granularity1d  Granularity = 86400
)

// ErrInvalidGranularity indicates a bucket size the exchange does not serve.
var ErrInvalidGranularity = errors.New("coinbase: invalid granularity")

var validGranularities = map[Granularity]struct{}{
	Granularity1m:  {},
	Granularity5m:  {},
	Granularity15m: {},
	Granularity1h:  {},
	Granularity6h:  {},
	Granularity1d:  {},
}

// Valid reports whether g is one of the enumerated bucket sizes.
func (g Granularity) Valid() bool {
	_, ok := validGranularities[g]
	return ok
}

// Duration returns the bucket size as a time.Duration.
func (g Granularity) Duration() time.Duration {
	return time.Duration(g) * time.Second
}

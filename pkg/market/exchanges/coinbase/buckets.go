package coinbase

import (
	"fmt"
	"time"
)

// maxCandlesPerRequest is the exchange-imposed ceiling on how many candles a
// single historic-rates call may return.
const maxCandlesPerRequest = 300

// bucket is one sub-interval of a historic-rates range, sized so the exchange
// can answer it in a single page.
type bucket struct {
	from time.Time
	to   time.Time
}

// planBuckets splits the closed interval [start, end] into contiguous
// sub-intervals spanning at most maxCandlesPerRequest samples of the given
// granularity. The final bucket may be shorter; start == end yields a single
// zero-width bucket. Pure computation, no requests are issued here.
func planBuckets(start, end time.Time, g Granularity) ([]bucket, error) {
	if !g.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGranularity, g)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("coinbase: range end %s precedes start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	span := g.Duration() * maxCandlesPerRequest
	buckets := make([]bucket, 0, 1)
	cursor := start
	for {
		to := cursor.Add(span)
		if to.After(end) {
			to = end
		}
		buckets = append(buckets, bucket{from: cursor, to: to})
		if !to.Before(end) {
			return buckets, nil
		}
		cursor = to
	}
}

package coinbase

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"

	"coinfeed/pkg/market"
)

// CandleParams bounds a historic-rates request. Start and End must be set
// together; when both are zero the exchange serves its default recent window
// and no bucketing applies.
type CandleParams struct {
	Start       time.Time
	End         time.Time
	Granularity Granularity
}

// GetHistoricRates returns the candle series for the product over the
// requested range. Ranges spanning more than maxCandlesPerRequest samples are
// fetched as several sequential sub-requests and merged into one ascending,
// duplicate-free series. If any sub-fetch fails the whole call fails; a
// merged series with a missing interior bucket would silently misrepresent
// history.
func (c *Client) GetHistoricRates(ctx context.Context, productID string, params CandleParams) ([]market.Candle, error) {
	if !params.Granularity.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGranularity, params.Granularity)
	}
	if params.Start.IsZero() != params.End.IsZero() {
		return nil, fmt.Errorf("coinbase: candle range start and end must be supplied together")
	}

	if params.Start.IsZero() {
		raw, err := c.fetchCandles(ctx, productID, nil, params.Granularity)
		if err != nil {
			return nil, err
		}
		return normalizeSeries(decodeCandles(raw)), nil
	}

	buckets, err := planBuckets(params.Start, params.End, params.Granularity)
	if err != nil {
		return nil, err
	}

	// Buckets are fetched one at a time, in planner order. Sequential
	// issuance keeps the request cadence predictable for the exchange's
	// rate limiter and lets cancellation stop the remaining fetches.
	var candles []market.Candle
	for _, b := range buckets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := c.fetchCandles(ctx, productID, &b, params.Granularity)
		if err != nil {
			return nil, fmt.Errorf("coinbase: candles %s [%s, %s]: %w", productID,
				b.from.Format(time.RFC3339), b.to.Format(time.RFC3339), err)
		}
		candles = append(candles, decodeCandles(raw)...)
	}
	return normalizeSeries(candles), nil
}

// fetchCandles performs one historic-rates request. A nil bucket leaves the
// range unset so the exchange picks its default window.
func (c *Client) fetchCandles(ctx context.Context, productID string, b *bucket, g Granularity) ([]rawCandle, error) {
	query := url.Values{}
	query.Set("granularity", strconv.Itoa(int(g)))
	if b != nil {
		query.Set("start", b.from.UTC().Format(time.RFC3339))
		query.Set("end", b.to.UTC().Format(time.RFC3339))
	}
	var raw []rawCandle
	if err := c.get(ctx, "/products/"+productID+"/candles", query, &raw); err != nil {
		return nil, err
	}
	c.logf("coinbase: fetched %d candles for %s", len(raw), productID)
	return raw, nil
}

// decodeCandles maps wire tuples onto normalized candles. Decoding is pure:
// the same tuple always yields the same candle.
func decodeCandles(raw []rawCandle) []market.Candle {
	out := make([]market.Candle, len(raw))
	for i, rc := range raw {
		ms := rc.Time * 1000
		out[i] = market.Candle{
			Open:    rc.Open,
			High:    rc.High,
			Low:     rc.Low,
			Close:   rc.Close,
			Volume:  rc.Volume,
			Time:    ms,
			TimeISO: time.UnixMilli(ms).UTC().Format(time.RFC3339),
		}
	}
	return out
}

// normalizeSeries sorts candles ascending by time and collapses repeated
// timestamps, first occurrence winning. The exchange answers shared bucket
// boundaries on both sides and may return any one page in descending order;
// neither is trusted.
func normalizeSeries(candles []market.Candle) []market.Candle {
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Time < candles[j].Time
	})
	out := candles[:0]
	for i, candle := range candles {
		if i > 0 && candle.Time == out[len(out)-1].Time {
			continue
		}
		out = append(out, candle)
	}
	return out
}

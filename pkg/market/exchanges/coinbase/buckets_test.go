package coinbase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return ts
}

func TestPlanBucketsSingleBucketForSmallRange(t *testing.T) {
	// 2020-03-09 .. 2020-03-15 at 1h is under 300 samples: one bucket.
	start := mustParse(t, "2020-03-09T00:00:00Z")
	end := mustParse(t, "2020-03-15T23:59:59Z")

	buckets, err := planBuckets(start, end, Granularity1h)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, start, buckets[0].from)
	assert.Equal(t, end, buckets[0].to)
}

func TestPlanBucketsSplitsWideRange(t *testing.T) {
	// Same week at 1m is 10080 samples: ceil(10080/300) = 34 buckets.
	start := mustParse(t, "2020-03-09T00:00:00Z")
	end := mustParse(t, "2020-03-15T23:59:59Z")

	buckets, err := planBuckets(start, end, Granularity1m)
	require.NoError(t, err)
	require.Len(t, buckets, 34)
}

func TestPlanBucketsCoversRangeExactly(t *testing.T) {
	tests := []struct {
		name        string
		start       string
		end         string
		granularity Granularity
		wantBuckets int
	}{
		{"one minute granularity, one week", "2020-03-09T00:00:00Z", "2020-03-15T23:59:59Z", Granularity1m, 34},
		{"five minutes, exactly one page", "2021-01-01T00:00:00Z", "2021-01-02T01:00:00Z", Granularity5m, 1},
		{"five minutes, one page plus one sample", "2021-01-01T00:00:00Z", "2021-01-02T01:05:00Z", Granularity5m, 2},
		{"daily granularity, two years", "2019-01-01T00:00:00Z", "2021-01-01T00:00:00Z", Granularity1d, 3},
		{"six hours, single sample", "2021-06-01T00:00:00Z", "2021-06-01T06:00:00Z", Granularity6h, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start := mustParse(t, tt.start)
			end := mustParse(t, tt.end)
			buckets, err := planBuckets(start, end, tt.granularity)
			require.NoError(t, err)
			require.Len(t, buckets, tt.wantBuckets)

			maxSpan := tt.granularity.Duration() * maxCandlesPerRequest
			assert.Equal(t, start, buckets[0].from)
			assert.Equal(t, end, buckets[len(buckets)-1].to)
			for i, b := range buckets {
				assert.False(t, b.to.Before(b.from), "bucket %d inverted", i)
				assert.LessOrEqual(t, b.to.Sub(b.from), maxSpan, "bucket %d too wide", i)
				if i > 0 {
					assert.Equal(t, buckets[i-1].to, b.from, "gap or overlap before bucket %d", i)
				}
			}
		})
	}
}

func TestPlanBucketsZeroWidthRange(t *testing.T) {
	instant := mustParse(t, "2020-03-09T00:00:00Z")
	buckets, err := planBuckets(instant, instant, Granularity1h)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	assert.Equal(t, instant, buckets[0].from)
	assert.Equal(t, instant, buckets[0].to)
}

func TestPlanBucketsRejectsInvalidInput(t *testing.T) {
	start := mustParse(t, "2020-03-09T00:00:00Z")
	end := mustParse(t, "2020-03-15T23:59:59Z")

	_, err := planBuckets(start, end, Granularity(120))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidGranularity))

	_, err = planBuckets(end, start, Granularity1h)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "precedes")
}

func TestGranularityValidation(t *testing.T) {
	for _, g := range []Granularity{Granularity1m, Granularity5m, Granularity15m, Granularity1h, Granularity6h, Granularity1d} {
		assert.True(t, g.Valid(), "granularity %d", g)
	}
	for _, g := range []Granularity{0, -60, 1, 120, 7200, 604800} {
		assert.False(t, Granularity(g).Valid(), "granularity %d", g)
	}
	assert.Equal(t, time.Hour, Granularity1h.Duration())
}

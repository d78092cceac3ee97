package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestParseGranularity(t *testing.T) {
	for _, valid := range []string{"day", "week", "month"} {
		g, err := ParseGranularity(valid)
		require.NoError(t, err)
		assert.Equal(t, Granularity(valid), g)
	}
	_, err := ParseGranularity("quarter")
	require.ErrorIs(t, err, ErrInvalidGranularity)
	_, err = ParseGranularity("")
	require.ErrorIs(t, err, ErrInvalidGranularity)
}

func TestByPeriod_Day(t *testing.T) {
	records := []DatedAmount{
		{Date: day(2026, time.March, 2), Amount: 100},
		{Date: day(2026, time.March, 1), Amount: 50},
		{Date: day(2026, time.March, 2), Amount: 25},
	}
	buckets := ByPeriod(records, GranularityDay)
	require.Len(t, buckets, 2)
	assert.Equal(t, PeriodBucket{Period: "2026-03-01", Amount: 50, Count: 1}, buckets[0])
	assert.Equal(t, PeriodBucket{Period: "2026-03-02", Amount: 125, Count: 2}, buckets[1])
}

func TestByPeriod_Week(t *testing.T) {
	// Mon 2026-03-02 and Sun 2026-03-08 share an ISO week; Mon 2026-03-09 starts the next
	records := []DatedAmount{
		{Date: day(2026, time.March, 2), Amount: 10},
		{Date: day(2026, time.March, 8), Amount: 20},
		{Date: day(2026, time.March, 9), Amount: 30},
	}
	buckets := ByPeriod(records, GranularityWeek)
	require.Len(t, buckets, 2)
	assert.Equal(t, "2026-W10", buckets[0].Period)
	assert.Equal(t, 30.0, buckets[0].Amount)
	assert.Equal(t, 2, buckets[0].Count)
	assert.Equal(t, "2026-W11", buckets[1].Period)
}

func TestByPeriod_Month(t *testing.T) {
	records := []DatedAmount{
		{Date: day(2026, time.January, 31), Amount: 5},
		{Date: day(2026, time.March, 1), Amount: 7},
	}
	buckets := ByPeriod(records, GranularityMonth)
	require.Len(t, buckets, 2)
	// february had no records and is omitted, not zero-filled
	assert.Equal(t, "2026-01", buckets[0].Period)
	assert.Equal(t, "2026-03", buckets[1].Period)
}

func TestByPeriod_Empty(t *testing.T) {
	assert.Empty(t, ByPeriod(nil, GranularityDay))
}

package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var ErrInvalidGranularity = errors.New("granularity must be day, week or month")

type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

func ParseGranularity(s string) (Granularity, error) {
	switch Granularity(s) {
	case GranularityDay, GranularityWeek, GranularityMonth:
		return Granularity(s), nil
	}
	return "", ErrInvalidGranularity
}

// DatedAmount is the minimal shape ByPeriod needs; callers project their
// records (sales, movements) into it.
type DatedAmount struct {
	Date   time.Time
	Amount float64
}

type PeriodBucket struct {
	Period string  `json:"period"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

func periodKey(t time.Time, g Granularity) string {
	switch g {
	case GranularityWeek:
		year, week := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case GranularityMonth:
		return t.Format("2006-01")
	default:
		return t.Format("2006-01-02")
	}
}

// ByPeriod sums amounts per calendar period. Periods with no records are
// omitted rather than zero-filled; keys sort chronologically as strings.
func ByPeriod(records []DatedAmount, g Granularity) []PeriodBucket {
	byKey := make(map[string]*PeriodBucket)
	for _, r := range records {
		key := periodKey(r.Date, g)
		bucket, ok := byKey[key]
		if !ok {
			bucket = &PeriodBucket{Period: key}
			byKey[key] = bucket
		}
		bucket.Amount += r.Amount
		bucket.Count++
	}

	result := make([]PeriodBucket, 0, len(byKey))
	for _, b := range byKey {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Period < result[j].Period
	})
	return result
}

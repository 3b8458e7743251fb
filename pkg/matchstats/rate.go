package matchstats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/bussin/bussin/pkg/elastic_client"
)

type MatchRateStats struct {
	LastDay   *MatchRatePeriod
	LastWeek  *MatchRatePeriod
	LastMonth *MatchRatePeriod

	Rating string
}

type MatchRatePeriod struct {
	Total   int
	Matched int
	Rate    float64

	Rules map[string]int
}

func (p *MatchRatePeriod) add(rule string, count int) {
	p.Rules[rule] += count
	p.Total += count

	if rule != NoMatchRule {
		p.Matched += count
	}
}

func (p *MatchRatePeriod) finish() {
	if p.Total > 0 {
		p.Rate = float64(p.Matched) / float64(p.Total)
	}
}

type matchRateESResponse struct {
	Error map[string]interface{}

	Aggregations struct {
		Rules struct {
			Buckets []struct {
				Key      string
				DocCount int `json:"doc_count"`
			}
		}
	}
}

// BuildMatchRateQuery counts match events per rule inside timestampRange.
func BuildMatchRateQuery(timestampRange map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []map[string]interface{}{
					{
						"range": map[string]interface{}{
							"Timestamp": timestampRange,
						},
					},
				},
			},
		},
		"aggs": map[string]interface{}{
			"rules": map[string]interface{}{
				"terms": map[string]interface{}{
					"field": "Rule.keyword",
					"size":  100,
				},
			},
		},
	}
}

func ParseMatchRateResponse(body io.Reader) (*MatchRatePeriod, error) {
	var response matchRateESResponse
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode match rate response: %w", err)
	}

	if response.Error != nil {
		return nil, fmt.Errorf("match rate query failed: %v", response.Error["reason"])
	}

	period := &MatchRatePeriod{Rules: map[string]int{}}
	for _, bucket := range response.Aggregations.Rules.Buckets {
		period.add(bucket.Key, bucket.DocCount)
	}
	period.finish()

	return period, nil
}

func queryMatchRate(ctx context.Context, timestampRange map[string]interface{}) (*MatchRatePeriod, error) {
	if elastic_client.Client == nil {
		return nil, elastic_client.ErrNotConfigured
	}

	var queryBytes bytes.Buffer
	if err := json.NewEncoder(&queryBytes).Encode(BuildMatchRateQuery(timestampRange)); err != nil {
		return nil, err
	}

	res, err := elastic_client.Client.Search(
		elastic_client.Client.Search.WithContext(ctx),
		elastic_client.Client.Search.WithIndex(indexPrefix+"-*"),
		elastic_client.Client.Search.WithBody(&queryBytes),
		elastic_client.Client.Search.WithSize(0),
	)
	if err != nil {
		return nil, fmt.Errorf("query match events: %w", err)
	}
	defer res.Body.Close()

	return ParseMatchRateResponse(res.Body)
}

func GetMatchRateStats(ctx context.Context) (*MatchRateStats, error) {
	stats := &MatchRateStats{}

	periods := []struct {
		target **MatchRatePeriod
		from   string
	}{
		{target: &stats.LastDay, from: "now-1d/d"},
		{target: &stats.LastWeek, from: "now-7d/d"},
		{target: &stats.LastMonth, from: "now-31d/d"},
	}

	for _, period := range periods {
		result, err := queryMatchRate(ctx, map[string]interface{}{
			"gte": period.from,
			"lt":  "now/d",
		})
		if err != nil {
			return nil, err
		}

		*period.target = result
	}

	stats.Rating = Rating(stats.LastDay.Rate, stats.LastWeek.Rate)

	return stats, nil
}

func Rating(lastDayRate float64, lastWeekRate float64) string {
	switch {
	case lastDayRate >= 0.95:
		return "PERFECT"
	case lastDayRate >= 0.75:
		return "EXCELLENT"
	case lastDayRate <= 0.5 && lastWeekRate >= 0.75:
		return "TEMPORARY-ISSUES"
	case lastDayRate >= 0.6:
		return "GOOD"
	default:
		return "POOR"
	}
}

package matchstats

import (
	"bytes"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/bussin/bussin/pkg/ctdf"
	"github.com/bussin/bussin/pkg/elastic_client"
	"github.com/bussin/bussin/pkg/reconcile"
	"github.com/rs/zerolog/log"
)

// Recorder observes the reconciliation engine. Every match becomes a
// MatchEvent for Elasticsearch and is counted in memory per rule.
type Recorder struct {
	Index func(indexName string, document io.ReadSeeker)
	Now   func() time.Time

	mu     sync.Mutex
	counts map[string]int
}

func NewRecorder() *Recorder {
	return &Recorder{
		Index: elastic_client.IndexRequest,
		Now:   time.Now,
	}
}

func (r *Recorder) ObserveMatch(arrival *ctdf.Arrival, rule reconcile.MatchRule) {
	event := NewMatchEvent(arrival, rule, r.Now())

	r.mu.Lock()
	if r.counts == nil {
		r.counts = map[string]int{}
	}
	r.counts[event.Rule]++
	r.mu.Unlock()

	if r.Index == nil {
		return
	}

	elasticEvent, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode match event")
		return
	}

	r.Index(IndexName(event.Timestamp), bytes.NewReader(elasticEvent))
}

// Snapshot summarises everything recorded by this process.
func (r *Recorder) Snapshot() *MatchRatePeriod {
	r.mu.Lock()
	defer r.mu.Unlock()

	period := &MatchRatePeriod{Rules: map[string]int{}}
	for rule, count := range r.counts {
		period.add(rule, count)
	}
	period.finish()

	return period
}

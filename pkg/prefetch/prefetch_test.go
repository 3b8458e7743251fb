package prefetch_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/alicebob/miniredis/v2"
	"github.com/bussin/bussin/pkg/prefetch"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWarmer struct {
	mu     sync.Mutex
	warmed []string
	dates  []string
}

func (w *fakeWarmer) Warm(_ context.Context, haltenummer string, date time.Time) error {
	if haltenummer == "broken" {
		return errors.New("transit API returned 500")
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.warmed = append(w.warmed, haltenummer)
	w.dates = append(w.dates, date.Format("2006-01-02"))

	return nil
}

type fakePublisher struct {
	payloads [][]byte
}

func (p *fakePublisher) PublishBytes(payload ...[]byte) error {
	p.payloads = append(p.payloads, payload...)
	return nil
}

func (p *fakePublisher) tasks(t *testing.T) []prefetch.Task {
	t.Helper()

	var tasks []prefetch.Task
	for _, payload := range p.payloads {
		var task prefetch.Task
		require.NoError(t, json.Unmarshal(payload, &task))
		tasks = append(tasks, task)
	}

	return tasks
}

func newTracker(t *testing.T, now *time.Time) *prefetch.Tracker {
	t.Helper()

	redisServer := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})
	t.Cleanup(func() { client.Close() })

	tracker := prefetch.NewTracker(client)
	tracker.Now = func() time.Time { return *now }

	return tracker
}

func TestBatchConsumer(t *testing.T) {
	t.Parallel()

	brussels := time.FixedZone("CEST", 2*60*60)
	warmer := &fakeWarmer{}

	batchConsumer := prefetch.NewBatchConsumer(warmer, brussels)
	batchConsumer.Now = func() time.Time { return time.Date(2024, 4, 30, 23, 30, 0, 0, time.UTC) }

	deliveries := []*rmq.TestDelivery{
		rmq.NewTestDeliveryString(`{"haltenummer": "301012"}`),
		rmq.NewTestDeliveryString(`{"haltenummer": "301013", "date": "2024-05-02"}`),
		rmq.NewTestDeliveryString(`{"haltenummer": "301012"}`),
		rmq.NewTestDeliveryString(`not json`),
		rmq.NewTestDeliveryString(`{"haltenummer": "broken"}`),
	}

	batch := rmq.Deliveries{}
	for _, delivery := range deliveries {
		batch = append(batch, delivery)
	}

	batchConsumer.Consume(batch)

	assert.ElementsMatch(t, []string{"301012", "301013"}, warmer.warmed, "Duplicate stops are warmed once")
	assert.ElementsMatch(t, []string{"2024-05-01", "2024-05-02"}, warmer.dates, "Today is the service date in the configured timezone")

	assert.Equal(t, rmq.Acked, deliveries[0].State)
	assert.Equal(t, rmq.Acked, deliveries[1].State)
	assert.Equal(t, rmq.Acked, deliveries[2].State)
	assert.Equal(t, rmq.Rejected, deliveries[3].State)
	assert.Equal(t, rmq.Rejected, deliveries[4].State)
}

func TestTracker(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	tracker := newTracker(t, &now)
	ctx := context.Background()

	require.NoError(t, tracker.Touch(ctx, "301012"))
	now = now.Add(10 * time.Minute)
	require.NoError(t, tracker.Touch(ctx, "301013"))
	now = now.Add(10 * time.Minute)
	require.NoError(t, tracker.Touch(ctx, "301014"))

	recent, err := tracker.Recent(ctx, now.Add(-15*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, []string{"301013", "301014"}, recent)

	removed, err := tracker.Prune(ctx, now.Add(-10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed, "Stops touched exactly at the cutoff are kept")

	recent, err = tracker.Recent(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []string{"301013", "301014"}, recent)
}

func TestSchedulerTick(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	tracker := newTracker(t, &now)
	ctx := context.Background()

	require.NoError(t, tracker.Touch(ctx, "301012"))
	now = now.Add(30 * time.Minute)
	require.NoError(t, tracker.Touch(ctx, "301013"))
	require.NoError(t, tracker.Touch(ctx, "301014"))

	publisher := &fakePublisher{}
	scheduler := prefetch.Scheduler{
		Tracker:   tracker,
		Publisher: publisher,
		Interval:  time.Minute,
		Lookback:  15 * time.Minute,
	}

	queued, err := scheduler.Tick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, queued)

	var haltenummers []string
	for _, task := range publisher.tasks(t) {
		haltenummers = append(haltenummers, task.Haltenummer)
		assert.Empty(t, task.Date)
	}
	sort.Strings(haltenummers)
	assert.Equal(t, []string{"301013", "301014"}, haltenummers)

	now = now.Add(time.Hour)
	queued, err = scheduler.Tick(ctx)
	require.NoError(t, err)
	assert.Zero(t, queued, "Stops not asked for within the lookback are forgotten")
}

func TestTaskServiceDate(t *testing.T) {
	t.Parallel()

	brussels := time.FixedZone("CEST", 2*60*60)
	now := time.Date(2024, 4, 30, 22, 30, 0, 0, time.UTC)

	tests := map[string]struct {
		task prefetch.Task

		want    string
		wantErr bool
	}{
		"Today in the location": {task: prefetch.Task{Haltenummer: "1"}, want: "2024-05-01"},
		"Explicit date":         {task: prefetch.Task{Haltenummer: "1", Date: "2024-06-01"}, want: "2024-06-01"},
		"Invalid date":          {task: prefetch.Task{Haltenummer: "1", Date: "01/06/2024"}, wantErr: true},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			date, err := tc.task.ServiceDate(now, brussels)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, date.Format("2006-01-02"))
		})
	}
}

package prefetch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/adjust/rmq/v5"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

// Warmer refreshes the cached final schedule of a stop.
type Warmer interface {
	Warm(ctx context.Context, haltenummer string, date time.Time) error
}

// BatchConsumer warms every stop of a batch concurrently. Deliveries are
// acked once warmed and rejected when they cannot be decoded or warmed.
type BatchConsumer struct {
	Warmer         Warmer
	Location       *time.Location
	MaxConcurrency int
	Timeout        time.Duration
	Now            func() time.Time
}

func NewBatchConsumer(warmer Warmer, location *time.Location) *BatchConsumer {
	return &BatchConsumer{
		Warmer:         warmer,
		Location:       location,
		MaxConcurrency: 4,
		Timeout:        30 * time.Second,
		Now:            time.Now,
	}
}

func (c *BatchConsumer) Consume(batch rmq.Deliveries) {
	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	workers := pool.New().WithMaxGoroutines(c.MaxConcurrency)
	seen := map[Task]bool{}

	for _, delivery := range batch {
		var task Task
		if err := json.Unmarshal([]byte(delivery.Payload()), &task); err != nil || task.Haltenummer == "" {
			log.Error().Err(err).Str("payload", delivery.Payload()).Msg("Failed to decode prefetch task")
			c.reject(delivery)
			continue
		}

		if seen[task] {
			c.ack(delivery)
			continue
		}
		seen[task] = true

		delivery := delivery
		workers.Go(func() {
			if err := c.warm(ctx, task); err != nil {
				log.Error().Err(err).Str("haltenummer", task.Haltenummer).Msg("Failed to warm stop")
				c.reject(delivery)
				return
			}

			log.Debug().Str("haltenummer", task.Haltenummer).Msg("Warmed stop")
			c.ack(delivery)
		})
	}

	workers.Wait()
}

func (c *BatchConsumer) warm(ctx context.Context, task Task) error {
	location := c.Location
	if location == nil {
		location = time.Local
	}

	date, err := task.ServiceDate(c.Now(), location)
	if err != nil {
		return err
	}

	return c.Warmer.Warm(ctx, task.Haltenummer, date)
}

func (c *BatchConsumer) ack(delivery rmq.Delivery) {
	if err := delivery.Ack(); err != nil {
		log.Error().Err(err).Msg("Failed to ack prefetch task")
	}
}

func (c *BatchConsumer) reject(delivery rmq.Delivery) {
	if err := delivery.Reject(); err != nil {
		log.Error().Err(err).Msg("Failed to reject prefetch task")
	}
}

package prefetch

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTrackerKey = "bussin/prefetch/recent-stops"

// Tracker remembers when each stop was last asked for, in a Redis sorted set
// scored by unix time.
type Tracker struct {
	Client *redis.Client
	Key    string
	Now    func() time.Time
}

func NewTracker(client *redis.Client) *Tracker {
	return &Tracker{
		Client: client,
		Key:    defaultTrackerKey,
		Now:    time.Now,
	}
}

func (t *Tracker) Touch(ctx context.Context, haltenummer string) error {
	return t.Client.ZAdd(ctx, t.Key, redis.Z{
		Score:  float64(t.Now().Unix()),
		Member: haltenummer,
	}).Err()
}

// Recent returns the stops asked for at or after since, least recent first.
func (t *Tracker) Recent(ctx context.Context, since time.Time) ([]string, error) {
	return t.Client.ZRangeByScore(ctx, t.Key, &redis.ZRangeBy{
		Min: strconv.FormatInt(since.Unix(), 10),
		Max: "+inf",
	}).Result()
}

// Prune forgets the stops not asked for since before.
func (t *Tracker) Prune(ctx context.Context, before time.Time) (int64, error) {
	return t.Client.ZRemRangeByScore(ctx, t.Key, "-inf", "("+strconv.FormatInt(before.Unix(), 10)).Result()
}

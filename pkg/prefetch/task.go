package prefetch

import (
	"encoding/json"
	"time"

	"github.com/bussin/bussin/pkg/delijn"
	"github.com/bussin/bussin/pkg/util"
)

const QueueName = "prefetch-stops"

// Task asks for the final schedule of a stop to be refreshed in the cache.
type Task struct {
	Haltenummer string `json:"haltenummer"`

	// Date is a YYYY-MM-DD service date, today when empty
	Date string `json:"date,omitempty"`
}

// Publisher is the part of an rmq.Queue tasks are published with.
type Publisher interface {
	PublishBytes(payload ...[]byte) error
}

func Publish(publisher Publisher, tasks ...Task) error {
	if len(tasks) == 0 {
		return nil
	}

	payloads := make([][]byte, 0, len(tasks))
	for _, task := range tasks {
		payload, err := json.Marshal(task)
		if err != nil {
			return err
		}
		payloads = append(payloads, payload)
	}

	return publisher.PublishBytes(payloads...)
}

func (t Task) ServiceDate(now time.Time, location *time.Location) (time.Time, error) {
	if t.Date == "" {
		return util.StartOfDay(now, location), nil
	}

	return time.ParseInLocation(delijn.DateFormat, t.Date, location)
}

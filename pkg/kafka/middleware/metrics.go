package kafka_middleware

import (
	"context"
	"sync/atomic"
	"time"

	"storefront/pkg/kafka"
)

// Metrics holds producer counters
type Metrics struct {
	MessagesPublished       int64
	MessagesPublishedFailed int64
	PublishDurationTotal    int64 // Nanoseconds
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

// Reset resets all metrics (useful for testing)
func (m *Metrics) Reset() {
	atomic.StoreInt64(&m.MessagesPublished, 0)
	atomic.StoreInt64(&m.MessagesPublishedFailed, 0)
	atomic.StoreInt64(&m.PublishDurationTotal, 0)
}

// GetAvgPublishDuration returns average publish duration
func (m *Metrics) GetAvgPublishDuration() time.Duration {
	published := atomic.LoadInt64(&m.MessagesPublished)
	if published == 0 {
		return 0
	}
	total := atomic.LoadInt64(&m.PublishDurationTotal)
	return time.Duration(total / published)
}

// Snapshot returns the counters in a form the health endpoint can encode.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"published":            atomic.LoadInt64(&m.MessagesPublished),
		"failed":               atomic.LoadInt64(&m.MessagesPublishedFailed),
		"avg_publish_duration": m.GetAvgPublishDuration().String(),
	}
}

// MetricsProducerMiddleware tracks producer metrics
func MetricsProducerMiddleware(m *Metrics) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		duration := time.Since(start)

		if err != nil {
			atomic.AddInt64(&m.MessagesPublishedFailed, 1)
		} else {
			atomic.AddInt64(&m.MessagesPublished, 1)
			atomic.AddInt64(&m.PublishDurationTotal, int64(duration))
		}

		return err
	}
}

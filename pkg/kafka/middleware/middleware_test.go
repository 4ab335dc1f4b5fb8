package kafka_middleware

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"storefront/pkg/kafka"
	"storefront/pkg/logger"

	"github.com/stretchr/testify/assert"
)

func passThrough(err error) func(context.Context, kafka.Message) error {
	return func(ctx context.Context, msg kafka.Message) error { return err }
}

func TestMetricsProducerMiddleware(t *testing.T) {
	m := NewMetrics()
	mw := MetricsProducerMiddleware(m)
	msg := kafka.Message{Key: "k"}

	_ = mw(context.Background(), msg, passThrough(nil))
	_ = mw(context.Background(), msg, passThrough(nil))
	_ = mw(context.Background(), msg, passThrough(errors.New("down")))

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap["published"])
	assert.Equal(t, int64(1), snap["failed"])

	m.Reset()
	assert.Equal(t, int64(0), m.Snapshot()["published"])
}

func TestLoggingProducerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: logger.INFO, Output: &buf})
	mw := LoggingProducerMiddleware(log)

	boom := errors.New("broker down")
	err := mw(context.Background(), kafka.Message{Key: "exp_1", Topic: "t"}, passThrough(boom))

	assert.ErrorIs(t, err, boom)
	out := buf.String()
	assert.True(t, strings.Contains(out, "Failed to publish message"), out)
	assert.True(t, strings.Contains(out, `"key":"exp_1"`), out)
}

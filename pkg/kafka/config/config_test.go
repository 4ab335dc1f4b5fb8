package kafka_config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load([]string{" k1:9092 ", "", "k2:9092"})
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Brokers)
	assert.Equal(t, DefaultProducerMaxAttempts, cfg.ProducerMaxAttempts)
	assert.Equal(t, DefaultProducerCompression, cfg.ProducerCompression)
	assert.Equal(t, DefaultProducerWriteTimeout, cfg.ProducerWriteTimeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvKafkaProducerCompression, "GZIP")
	t.Setenv(EnvKafkaProducerRequireAcks, "1")
	t.Setenv(EnvKafkaProducerBatchTimeout, "50ms")

	cfg, err := Load([]string{"k1:9092"})
	require.NoError(t, err)

	assert.Equal(t, "gzip", cfg.ProducerCompression)
	assert.Equal(t, 1, cfg.ProducerRequireAcks)
	assert.Equal(t, 50*time.Millisecond, cfg.ProducerBatchTimeout)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv(EnvKafkaProducerCompression, "brotli")
	t.Setenv(EnvKafkaProducerRequireAcks, "7")

	_, err := Load(nil)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "1. At least one Kafka broker is required")
	assert.Contains(t, err.Error(), "ProducerCompression must be one of")
	assert.Contains(t, err.Error(), "ProducerRequireAcks must be -1, 0, or 1")
}

package config

import "time"

const (
	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultBookingAPIURL     = "http://localhost:5000/api"
	DefaultBookingAPITimeout = 10 * time.Second

	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"

	DefaultSessionBackend = SessionBackendMemory
	DefaultSessionTTL     = 30 * time.Minute
	DefaultSubmitLockTTL  = 30 * time.Second

	DefaultRedisAddr = "localhost:6379"
	DefaultRedisDB   = 0

	DefaultKafkaBookingTopic = "storefront.booking-outcomes"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 64 * 1024 // 64KB, forms only

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 35 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)

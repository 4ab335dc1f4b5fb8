package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"storefront/pkg/logger"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port      string `yaml:"port"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`

	BookingAPIURL     string        `yaml:"booking_api_url"`
	BookingAPITimeout time.Duration `yaml:"booking_api_timeout"`

	SessionBackend string        `yaml:"session_backend"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	SubmitLockTTL  time.Duration `yaml:"submit_lock_ttl"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`

	KafkaBrokers      []string `yaml:"kafka_brokers"`
	KafkaBookingTopic string   `yaml:"kafka_booking_topic"`

	RateLimitRequests int           `yaml:"rate_limit_requests"`
	RateLimitWindow   time.Duration `yaml:"rate_limit_window"`

	RequestTimeout time.Duration `yaml:"request_timeout"`
	MaxRequestSize int           `yaml:"max_request_size"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	Log *logger.Logger `yaml:"-"`
}

// Load builds the configuration for serviceName and exits the process when
// it is invalid.
func Load(serviceName string) *Config {
	cfg, err := LoadFromEnv(serviceName)
	if err != nil {
		if cfg != nil && cfg.Log != nil {
			cfg.Log.Fatal(err.Error())
		}
		logger.New(logger.Config{Service: serviceName}).Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// LoadFromEnv layers defaults, an optional YAML file (CONFIG_PATH) and the
// environment, in that order. A .env file in the working directory is
// loaded into the environment first when present.
func LoadFromEnv(serviceName string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Defaults()

	if path := os.Getenv(EnvConfigPath); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	cfg.mergeEnv()

	cfg.Log = logger.New(logger.Config{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		AddSource: true,
		Service:   serviceName,
	})

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func Defaults() *Config {
	return &Config{
		Port:      DefaultPort,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,

		BookingAPIURL:     DefaultBookingAPIURL,
		BookingAPITimeout: DefaultBookingAPITimeout,

		SessionBackend: DefaultSessionBackend,
		SessionTTL:     DefaultSessionTTL,
		SubmitLockTTL:  DefaultSubmitLockTTL,

		RedisAddr: DefaultRedisAddr,
		RedisDB:   DefaultRedisDB,

		KafkaBookingTopic: DefaultKafkaBookingTopic,

		RateLimitRequests: DefaultRateLimitRequests,
		RateLimitWindow:   DefaultRateLimitWindow,

		RequestTimeout: DefaultRequestTimeout,
		MaxRequestSize: DefaultMaxRequestSize,

		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
	}
}

func (cfg *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (cfg *Config) mergeEnv() {
	cfg.Port = getEnvStr(EnvPort, cfg.Port)
	cfg.LogLevel = getEnvStr(EnvLogLevel, cfg.LogLevel)
	cfg.LogFormat = getEnvStr(EnvLogFormat, cfg.LogFormat)

	cfg.BookingAPIURL = strings.TrimSuffix(getEnvStr(EnvBookingAPIURL, cfg.BookingAPIURL), "/")
	cfg.BookingAPITimeout = getEnvDuration(EnvBookingAPITimeout, cfg.BookingAPITimeout)

	cfg.SessionBackend = strings.ToLower(getEnvStr(EnvSessionBackend, cfg.SessionBackend))
	cfg.SessionTTL = getEnvDuration(EnvSessionTTL, cfg.SessionTTL)
	cfg.SubmitLockTTL = getEnvDuration(EnvSubmitLockTTL, cfg.SubmitLockTTL)

	cfg.RedisAddr = getEnvStr(EnvRedisAddr, cfg.RedisAddr)
	cfg.RedisPassword = getEnvStr(EnvRedisPassword, cfg.RedisPassword)
	cfg.RedisDB = getEnvNum(EnvRedisDB, cfg.RedisDB)

	cfg.KafkaBrokers = getEnvList(EnvKafkaBrokers, cfg.KafkaBrokers)
	cfg.KafkaBookingTopic = getEnvStr(EnvKafkaBookingTopic, cfg.KafkaBookingTopic)

	cfg.RateLimitRequests = getEnvNum(EnvRateLimitRequests, cfg.RateLimitRequests)
	cfg.RateLimitWindow = getEnvDuration(EnvRateLimitWindow, cfg.RateLimitWindow)

	cfg.RequestTimeout = getEnvDuration(EnvRequestTimeout, cfg.RequestTimeout)
	cfg.MaxRequestSize = getEnvNum(EnvMaxRequestSize, cfg.MaxRequestSize)

	cfg.ReadTimeout = getEnvDuration(EnvReadTimeout, cfg.ReadTimeout)
	cfg.WriteTimeout = getEnvDuration(EnvWriteTimeout, cfg.WriteTimeout)
	cfg.IdleTimeout = getEnvDuration(EnvIdleTimeout, cfg.IdleTimeout)
	cfg.ShutdownTimeout = getEnvDuration(EnvShutdownTimeout, cfg.ShutdownTimeout)
}

// KafkaEnabled reports whether booking outcome events should be published.
func (cfg *Config) KafkaEnabled() bool {
	return len(cfg.KafkaBrokers) > 0
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if u, err := url.Parse(cfg.BookingAPIURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, fmt.Sprintf("BookingAPIURL must be an absolute http(s) URL, got: %s", cfg.BookingAPIURL))
	}
	if cfg.BookingAPITimeout <= 0 {
		errors = append(errors, fmt.Sprintf("BookingAPITimeout must be positive, got: %s", cfg.BookingAPITimeout))
	}

	switch cfg.SessionBackend {
	case SessionBackendMemory:
	case SessionBackendRedis:
		if cfg.RedisAddr == "" {
			errors = append(errors, "RedisAddr cannot be empty when SessionBackend is redis")
		}
		if cfg.RedisDB < 0 {
			errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
		}
	default:
		errors = append(errors, fmt.Sprintf("SessionBackend must be one of [memory, redis], got: %s", cfg.SessionBackend))
	}
	if cfg.SessionTTL <= 0 {
		errors = append(errors, fmt.Sprintf("SessionTTL must be positive, got: %s", cfg.SessionTTL))
	}
	if cfg.SubmitLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("SubmitLockTTL must be positive, got: %s", cfg.SubmitLockTTL))
	}
	// The submit lock must outlive one booking request.
	if cfg.SubmitLockTTL <= cfg.BookingAPITimeout {
		errors = append(errors, fmt.Sprintf("SubmitLockTTL must exceed BookingAPITimeout, got: %s <= %s", cfg.SubmitLockTTL, cfg.BookingAPITimeout))
	}

	for i, broker := range cfg.KafkaBrokers {
		if broker == "" {
			errors = append(errors, fmt.Sprintf("Kafka broker %d cannot be empty", i))
		}
	}
	if cfg.KafkaEnabled() && cfg.KafkaBookingTopic == "" {
		errors = append(errors, "KafkaBookingTopic cannot be empty when KafkaBrokers are set")
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"booking_api_url", cfg.BookingAPIURL,
		"booking_api_timeout", cfg.BookingAPITimeout,
		"session_backend", cfg.SessionBackend,
		"session_ttl", cfg.SessionTTL,
		"submit_lock_ttl", cfg.SubmitLockTTL,
		"redis_addr", cfg.RedisAddr,
		"redis_password_set", cfg.RedisPassword != "",
		"redis_db", cfg.RedisDB,
		"kafka_brokers", cfg.KafkaBrokers,
		"kafka_booking_topic", cfg.KafkaBookingTopic,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
	)
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

package main

import (
	"context"
	"time"

	"storefront/internal/catalog/service"
	"storefront/internal/checkout/events"
	"storefront/internal/checkout/session"
	"storefront/internal/checkout/validator"
	"storefront/internal/storefront/handler"
	"storefront/internal/storefront/view"
	"storefront/pkg/app"
	"storefront/pkg/client"
	"storefront/pkg/config"
	"storefront/pkg/kafka"
	kafka_config "storefront/pkg/kafka/config"
	kafka_middleware "storefront/pkg/kafka/middleware"
)

const ServiceName = "storefront"

func main() {
	cfg := config.Load(ServiceName)

	cfg.Log.Info("Starting Storefront service")

	bookingAPI := client.NewClient(cfg.BookingAPIURL, cfg.BookingAPITimeout)
	sessions := initSessionStore(cfg)
	publisher, metrics := initPublisher(cfg)

	renderer, err := view.NewRenderer()
	if err != nil {
		cfg.Log.Fatal("Failed to parse page templates", "error", err)
	}

	storefrontHandler := handler.NewStorefrontHandler(handler.Dependencies{
		Catalog:   service.NewCatalogService(bookingAPI, cfg.Log),
		Renderer:  renderer,
		Sessions:  sessions,
		API:       bookingAPI,
		Validator: validator.NewContactValidator(),
		Publisher: publisher,
		Log:       cfg.Log,
	})

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(storefrontHandler, handler.NewHealthHandler(sessions, metrics, cfg.Log))
	serverApp.OnShutdown("booking events", publisher)
	serverApp.OnShutdown("checkout sessions", sessions)
	serverApp.Run()
}

func initSessionStore(cfg *config.Config) session.Store {
	if cfg.SessionBackend != config.SessionBackendRedis {
		cfg.Log.Info("Checkout sessions kept in memory", "ttl", cfg.SessionTTL)
		return session.NewMemoryStore(cfg.SessionTTL, cfg.SubmitLockTTL)
	}

	store := session.NewRedisStore(session.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, cfg.SessionTTL, cfg.SubmitLockTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := store.Ping(ctx); err != nil {
		cfg.Log.Fatal("Failed to connect to Redis",
			"error", err,
			"addr", cfg.RedisAddr,
		)
	}

	cfg.Log.Info("Checkout sessions kept in Redis", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL)
	return store
}

// initPublisher returns a no-op publisher and nil metrics when no brokers
// are configured.
func initPublisher(cfg *config.Config) (events.Publisher, handler.MetricsSource) {
	if !cfg.KafkaEnabled() {
		cfg.Log.Info("Booking events disabled, no Kafka brokers configured")
		return events.NoopPublisher{}, nil
	}

	kafkaCfg, err := kafka_config.Load(cfg.KafkaBrokers)
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, cfg.KafkaBookingTopic, cfg.Log)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	metrics := kafka_middleware.NewMetrics()
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))
	producer.Use(kafka_middleware.MetricsProducerMiddleware(metrics))

	cfg.Log.Info("Booking events enabled", "topic", cfg.KafkaBookingTopic)
	return events.NewKafkaPublisher(producer, cfg.Log), metrics
}

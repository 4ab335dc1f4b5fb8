package testutil

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"sync"
	"testing"

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
	kafka_middleware "storefront/pkg/kafka/middleware"
	"storefront/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

// TestEnv runs the whole storefront in-process: Redis sessions on
// miniredis, booking events on a recording writer and the Booking API on
// an httptest server.
type TestEnv struct {
	API      *BookingAPI
	Redis    *miniredis.Miniredis
	Sessions *session.RedisStore
	Events   *EventRecorder
	Metrics  *kafka_middleware.Metrics
	Client   *Client
}

func NewTestEnv(t *testing.T, fixtures ...ExperienceFixture) *TestEnv {
	t.Helper()

	cfg := config.Defaults()
	cfg.Log = logger.Nop()

	api := NewBookingAPI(t, fixtures...)
	cfg.BookingAPIURL = api.URL

	mr := miniredis.RunT(t)
	sessions := session.NewRedisStoreWithClient(
		redis.NewClient(&redis.Options{Addr: mr.Addr()}),
		cfg.SessionTTL,
		cfg.SubmitLockTTL,
	)

	recorder := &EventRecorder{}
	producer := kafka.NewProducerWithWriter(recorder, cfg.KafkaBookingTopic)
	metrics := kafka_middleware.NewMetrics()
	producer.Use(kafka_middleware.MetricsProducerMiddleware(metrics))
	publisher := events.NewKafkaPublisher(producer, cfg.Log)

	renderer, err := view.NewRenderer()
	if err != nil {
		t.Fatalf("failed to parse templates: %v", err)
	}

	bookingAPI := client.NewClient(cfg.BookingAPIURL, cfg.BookingAPITimeout)
	storefront := handler.NewStorefrontHandler(handler.Dependencies{
		Catalog:   service.NewCatalogService(bookingAPI, cfg.Log),
		Renderer:  renderer,
		Sessions:  sessions,
		API:       bookingAPI,
		Validator: validator.NewContactValidator(),
		Publisher: publisher,
		Log:       cfg.Log,
	})

	application := app.NewApplication(cfg)
	application.SetApp(storefront, handler.NewHealthHandler(sessions, metrics, cfg.Log))

	server := httptest.NewServer(application.Handler())
	t.Cleanup(func() {
		server.Close()
		_ = publisher.Close()
		_ = sessions.Close()
	})

	return &TestEnv{
		API:      api,
		Redis:    mr,
		Sessions: sessions,
		Events:   recorder,
		Metrics:  metrics,
		Client:   NewClient(server.URL),
	}
}

// EventRecorder is a kafka writer that keeps every message.
type EventRecorder struct {
	mu       sync.Mutex
	messages []kafkago.Message
}

func (r *EventRecorder) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, msgs...)
	return nil
}

func (r *EventRecorder) Close() error { return nil }

// Outcomes decodes every recorded booking outcome event.
func (r *EventRecorder) Outcomes(t *testing.T) []events.BookingOutcome {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]events.BookingOutcome, 0, len(r.messages))
	for _, m := range r.messages {
		var e events.BookingOutcome
		if err := json.Unmarshal(m.Value, &e); err != nil {
			t.Fatalf("failed to decode event: %v", err)
		}
		out = append(out, e)
	}
	return out
}

// EventTypes returns the event-type header of every recorded message.
func (r *EventRecorder) EventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.messages))
	for _, m := range r.messages {
		for _, h := range m.Headers {
			if h.Key == kafka.HeaderEventType {
				out = append(out, string(h.Value))
			}
		}
	}
	return out
}

// Package events announces booking outcomes. Publishing is best effort:
// failures are logged and never reach the customer.
package events

import (
	"context"
	"storefront/internal/checkout/flow"
	"storefront/pkg/kafka"
	"storefront/pkg/logger"
	"time"
)

const (
	EventBookingConfirmed = "booking.confirmed"
	EventBookingFailed    = "booking.failed"

	SchemaVersion = "1"
	Source        = "storefront"
)

// BookingOutcome is the event payload.
type BookingOutcome struct {
	SessionID    string    `json:"session_id"`
	ExperienceID string    `json:"experience_id"`
	SlotID       string    `json:"slot_id"`
	TotalPrice   int64     `json:"total_price"`
	PromoCode    string    `json:"promo_code,omitempty"`
	BookingID    string    `json:"booking_id,omitempty"`
	Error        string    `json:"error,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// NewBookingOutcome describes a finished checkout. It returns false when
// the snapshot has no outcome yet.
func NewBookingOutcome(sessionID string, snap flow.Snapshot) (string, BookingOutcome, bool) {
	if snap.Outcome == nil {
		return "", BookingOutcome{}, false
	}

	event := BookingOutcome{
		SessionID:    sessionID,
		ExperienceID: snap.Booking.Experience.ID,
		SlotID:       snap.Booking.Slot.ID,
		TotalPrice:   snap.Total(),
		PromoCode:    snap.Draft.PromoCode,
		OccurredAt:   time.Now().UTC(),
	}

	if snap.Outcome.Confirmed() {
		event.BookingID = snap.Outcome.Booking.Reference()
		return EventBookingConfirmed, event, true
	}
	event.Error = snap.Outcome.Error
	return EventBookingFailed, event, true
}

type Publisher interface {
	PublishBookingOutcome(ctx context.Context, eventType string, event BookingOutcome)
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishBookingOutcome(ctx context.Context, eventType string, event BookingOutcome) {
}

func (NoopPublisher) Close() error { return nil }

// MessagePublisher is satisfied by *kafka.Producer.
type MessagePublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

type KafkaPublisher struct {
	producer MessagePublisher
	log      *logger.Logger
}

func NewKafkaPublisher(producer MessagePublisher, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		log:      log,
	}
}

func (p *KafkaPublisher) PublishBookingOutcome(ctx context.Context, eventType string, event BookingOutcome) {
	msg, err := kafka.NewMessage().
		WithKey(event.ExperienceID).
		WithEventType(eventType).
		WithCorrelationID(event.SessionID).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithValue(event).
		Build()
	if err != nil {
		p.log.Error("Failed to build booking outcome event",
			"session_id", event.SessionID,
			"error", err,
		)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking outcome event",
			"session_id", event.SessionID,
			"event_type", eventType,
			"error", err,
		)
	}
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

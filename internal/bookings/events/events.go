package events

import (
	"context"

	"autobooking/pkg/kafka"
	"autobooking/pkg/logger"
	"autobooking/pkg/model"
)

const (
	TypeBookingCreated       = "booking.created"
	TypeBookingCancelled     = "booking.cancelled"
	TypeBookingStatusChanged = "booking.status_changed"

	schemaVersion = "1"
	source        = "autobooking-api"
)

// BookingEvent is the payload published for every booking lifecycle change.
type BookingEvent struct {
	BookingID       string     `json:"booking_id"`
	UserID          string     `json:"user_id"`
	ProductID       string     `json:"product_id"`
	StartDate       model.Date `json:"start_date"`
	EndDate         model.Date `json:"end_date"`
	Status          string     `json:"status"`
	TotalPriceCents int64      `json:"total_price_cents,omitempty"`
}

// Publisher emits booking lifecycle events. Publishing is best-effort: a
// failed publish must never fail the booking operation itself.
type Publisher interface {
	Publish(ctx context.Context, eventType string, event BookingEvent)
}

type kafkaPublisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, log *logger.Logger) Publisher {
	return &kafkaPublisher{producer: producer, log: log}
}

func (p *kafkaPublisher) Publish(ctx context.Context, eventType string, event BookingEvent) {
	msg, err := kafka.NewMessage().
		WithKey(event.ProductID).
		WithValue(event).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(source).
		Build()
	if err != nil {
		p.log.Error("Failed to build booking event", "event_type", eventType, "error", err)
		return
	}

	if err := p.producer.Publish(ctx, msg); err != nil {
		p.log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", event.BookingID,
			"error", err,
		)
		return
	}

	p.log.Debug("Booking event published",
		"event_type", eventType,
		"booking_id", event.BookingID,
	)
}

type nopPublisher struct{}

// NewNopPublisher is used when no Kafka brokers are configured.
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) Publish(context.Context, string, BookingEvent) {}

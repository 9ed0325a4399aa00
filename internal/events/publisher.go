// Package events publishes booking lifecycle messages for downstream
// consumers (notifications, analytics). The broker is optional: a nil
// *Publisher is a no-op so the binary runs without RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"rentalbackend/internal/logger"
)

const exchangeName = "booking.events"

type Publisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// BookingStatusChanged is the wire shape for lifecycle events.
type BookingStatusChanged struct {
	BookingID   int64     `json:"booking_id"`
	BookingCode string    `json:"booking_code"`
	VehicleID   int64     `json:"vehicle_id"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	ActorID     int64     `json:"actor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// Connect dials the broker and declares the topic exchange. An empty URL
// returns a nil publisher.
func Connect(url string) (*Publisher, error) {
	if url == "" {
		return nil, nil
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchangeName, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, channel: ch}, nil
}

func (p *Publisher) Close() {
	if p == nil {
		return
	}
	if p.channel != nil {
		_ = p.channel.Close()
	}
	if p.conn != nil {
		_ = p.conn.Close()
	}
}

// PublishStatusChanged emits booking.status.<to>. Publish failures are logged
// and swallowed: the booking transition already committed and must not be
// rolled back for a notification.
func (p *Publisher) PublishStatusChanged(ctx context.Context, msg BookingStatusChanged) {
	if p == nil || p.channel == nil {
		return
	}
	if msg.OccurredAt.IsZero() {
		msg.OccurredAt = time.Now().UTC()
	}
	body, err := json.Marshal(msg)
	if err != nil {
		logger.WithFields(map[string]any{"booking_id": msg.BookingID}).
			Errorf("marshal booking event: %v", err)
		return
	}
	routingKey := "booking.status." + msg.ToStatus
	err = p.channel.PublishWithContext(ctx, exchangeName, routingKey, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
	if err != nil {
		logger.WithFields(map[string]any{
			"booking_id":  msg.BookingID,
			"routing_key": routingKey,
		}).Errorf("publish booking event: %v", err)
	}
}

package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends persistent JSON messages to named queues. A Publisher with
// an empty URL drops everything silently, so an unconfigured broker never
// blocks tip traffic.
type Publisher struct {
	url string
}

func NewPublisher(url string) *Publisher {
	if url == "" {
		slog.Info("amqp not configured, notification events disabled")
	}
	return &Publisher{url: url}
}

func (p *Publisher) Enabled() bool { return p.url != "" }

// Publish declares queue (idempotent, durable) and sends event to it.
func (p *Publisher) Publish(ctx context.Context, queue string, event any) error {
	if p.url == "" {
		return nil
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		slog.Error("amqp dial failed", "error", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		slog.Error("amqp channel open failed", "error", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		slog.Error("amqp queue declare failed", "queue", queue, "error", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		slog.Error("amqp marshal event failed", "error", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		slog.Error("amqp publish failed", "queue", queue, "error", err)
		return err
	}
	return nil
}

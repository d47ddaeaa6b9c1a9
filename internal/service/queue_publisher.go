package service

import (
    "context"
    "encoding/json"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    "github.com/iliyamo/dining-hall-reservation/internal/logging"
    "github.com/iliyamo/dining-hall-reservation/internal/metrics"
    "github.com/iliyamo/dining-hall-reservation/internal/queue"
)

// EventPublisher delivers meal booking events.  Implementations must be
// safe for concurrent use.
type EventPublisher interface {
    Publish(ctx context.Context, ev queue.MealBookingEvent) error
}

// NopPublisher drops every event.  Used when EVENTS_ENABLED is false.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.MealBookingEvent) error { return nil }

// AMQPPublisher publishes events to the meal.booking queue on RabbitMQ.
// Each call opens its own connection, so a broker outage only costs the
// event and never blocks the request for longer than the context allows.
type AMQPPublisher struct {
    URL string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// Publish marshals ev and sends it as a persistent message.
func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.MealBookingEvent) error {
    conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(3 * time.Second)})
    if err != nil {
        return err
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return err
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        queue.QueueName, // name
        true,            // durable
        false,           // autoDelete
        false,           // exclusive
        false,           // noWait
        nil,             // args
    ); err != nil {
        return err
    }

    body, err := json.Marshal(ev)
    if err != nil {
        return err
    }

    return ch.PublishWithContext(ctx,
        "",              // default exchange
        queue.QueueName, // routing key = queue name
        false,           // mandatory
        false,           // immediate
        amqp.Publishing{
            ContentType:  "application/json",
            DeliveryMode: amqp.Persistent,
            Timestamp:    time.Now().UTC(),
            Body:         body,
        })
}

// publish sends ev and only logs failures; a lost event never fails the
// payment or cancellation that produced it.
func publish(ctx context.Context, pub EventPublisher, ev queue.MealBookingEvent) {
    if pub == nil {
        return
    }
    ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
    defer cancel()
    if err := pub.Publish(ctx, ev); err != nil {
        metrics.EventsPublishedTotal.WithLabelValues(ev.Status, "error").Inc()
        logging.Ctx(ctx).Warn().Err(err).Str("status", ev.Status).Ints64("booking_ids", ev.BookingIDs).Msg("publish meal booking event failed")
        return
    }
    metrics.EventsPublishedTotal.WithLabelValues(ev.Status, "ok").Inc()
}

package event

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/selimacar/cinema-reservation-engine/internal/domain"
)

const bookingConfirmedQueue = "booking.confirmed"

// RabbitMQPublisher publishes domain events to RabbitMQ. Channels are not
// safe for concurrent use, so each publish opens a short-lived channel on
// the shared connection.
type RabbitMQPublisher struct {
	conn *amqp.Connection
}

func NewRabbitMQPublisher(conn *amqp.Connection) (*RabbitMQPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()

	// Durable so messages survive broker restarts.
	_, err = ch.QueueDeclare(bookingConfirmedQueue, true, false, false, false, nil)
	if err != nil {
		return nil, err
	}

	return &RabbitMQPublisher{conn: conn}, nil
}

func (p *RabbitMQPublisher) PublishBookingConfirmed(ctx context.Context, event domain.BookingConfirmedEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return ch.PublishWithContext(
		ctx,
		"",
		bookingConfirmedQueue,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}

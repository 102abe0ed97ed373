package rabbitmq

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/corray333/backend-labs/storefront/internal/service/models/outbox"
	"github.com/streadway/amqp"
)

// Client represents a RabbitMQ client.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Close closes the channel and connection for graceful shutdown.
func (r *Client) Close() error {
	if r.channel != nil {
		if err := r.channel.Close(); err != nil {
			return err
		}
	}
	if r.conn != nil {
		return r.conn.Close()
	}

	return nil
}

// MustNewClient dials RABBITMQ_URL and opens a channel.
func MustNewClient() *Client {
	client, err := NewClient(os.Getenv("RABBITMQ_URL"))
	if err != nil {
		panic(err)
	}

	return client
}

// NewClient dials url and opens a channel.
func NewClient(url string) (*Client, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			slog.Error("Failed to close RabbitMQ connection", "error", closeErr)
		}

		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	slog.Info("RabbitMQ connected")

	return &Client{
		conn:    conn,
		channel: channel,
	}, nil
}

// DeclareExchange declares a durable topic exchange.
func (r *Client) DeclareExchange(name string) error {
	return r.channel.ExchangeDeclare(name, amqp.ExchangeTopic, true, false, false, false, nil)
}

// Publish sends an outbox message as a persistent delivery.
func (r *Client) Publish(msg outbox.OutboxMessage) error {
	return r.channel.Publish(
		msg.ExchangeName,
		msg.RoutingKey,
		false,
		false,
		amqp.Publishing{
			MessageId:    msg.MessageID,
			ContentType:  msg.ContentType,
			DeliveryMode: amqp.Persistent,
			Timestamp:    msg.CreatedAt,
			Body:         msg.Payload,
		},
	)
}

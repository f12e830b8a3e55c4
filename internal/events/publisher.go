// Package events publishes settlement and expense events to RabbitMQ
// so external consumers (notifiers, sync jobs) can react without
// polling the database.
package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

// Publisher is the event surface the services depend on. A nil
// Publisher disables events.
type Publisher interface {
	PublishExpenseSettled(ctx context.Context, msg *ExpenseSettledMessage) error
	PublishSettlementSuggested(ctx context.Context, msg *SettlementSuggestedMessage) error
	Close() error
}

// Client is an AMQP-backed Publisher using a durable direct exchange
// with one queue per message kind.
type Client struct {
	conn          *amqp091.Connection
	channel       *amqp091.Channel
	exchangeName  string
	settledQueue  string
	suggestsQueue string
}

var _ Publisher = (*Client)(nil)

// NewClient connects to the broker and declares the exchange and
// queues.
func NewClient(url, exchangeName, settledQueue, suggestsQueue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:          conn,
		channel:       channel,
		exchangeName:  exchangeName,
		settledQueue:  settledQueue,
		suggestsQueue: suggestsQueue,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange and queues: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	for _, queue := range []string{c.settledQueue, c.suggestsQueue} {
		_, err = c.channel.QueueDeclare(
			queue, // name
			true,  // durable
			false, // delete when unused
			false, // exclusive
			false, // no-wait
			nil,   // arguments
		)
		if err != nil {
			return fmt.Errorf("declare queue %s: %w", queue, err)
		}

		// Routing key matches the queue name on a direct exchange.
		err = c.channel.QueueBind(queue, queue, c.exchangeName, false, nil)
		if err != nil {
			return fmt.Errorf("bind queue %s: %w", queue, err)
		}
	}

	return nil
}

// PublishExpenseSettled publishes a settle announcement.
func (c *Client) PublishExpenseSettled(ctx context.Context, msg *ExpenseSettledMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, c.settledQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published expense settled message",
		"message_id", msg.MessageID,
		"expense_id", msg.ExpenseID,
		"household_id", msg.HouseholdID)
	return nil
}

// PublishSettlementSuggested publishes the netting instructions of one
// household.
func (c *Client) PublishSettlementSuggested(ctx context.Context, msg *SettlementSuggestedMessage) error {
	body, err := msg.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	if err := c.publish(ctx, c.suggestsQueue, body); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Published settlement suggestion",
		"message_id", msg.MessageID,
		"household_id", msg.HouseholdID,
		"payments", len(msg.Payments))
	return nil
}

func (c *Client) publish(ctx context.Context, routingKey string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}
	return nil
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

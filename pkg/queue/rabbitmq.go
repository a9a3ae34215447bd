package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"flyerhub/pkg/config"
	"flyerhub/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	PointsEventQueueName = "points_event_queue"
	PointsExchange       = "points"
	PointsRoutingKey     = "points_event"
)

// PointsEvent is the message published after a ledger transaction commits.
// Downstream consumers (push notifications, analytics) decide what to do with it.
type PointsEvent struct {
	TransactionID string `json:"transaction_id"`
	UserID        string `json:"user_id"`
	Type          string `json:"type"`
	Amount        int    `json:"amount"`
	BalanceAfter  int    `json:"balance_after"`
	Reason        string `json:"reason"`
	ReferenceID   string `json:"reference_id,omitempty"`
	ReferenceType string `json:"reference_type,omitempty"`
}

type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  *logger.Logger
}

func NewRabbitMQClient(cfg *config.Config, log *logger.Logger) (*Client, error) {
	url := fmt.Sprintf("amqp://%s:%s@%s:%s/",
		cfg.RabbitMQUser,
		cfg.RabbitMQPassword,
		cfg.RabbitMQHost,
		cfg.RabbitMQPort,
	)

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		PointsExchange, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		PointsEventQueueName, // name
		true,                 // durable
		false,                // delete when unused
		false,                // exclusive
		false,                // no-wait
		nil,                  // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	err = channel.QueueBind(
		PointsEventQueueName,
		PointsRoutingKey,
		PointsExchange,
		false,
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info("Connected to RabbitMQ at %s:%s", cfg.RabbitMQHost, cfg.RabbitMQPort)

	return &Client{
		conn:    conn,
		channel: channel,
		logger:  log,
	}, nil
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

// PublishPointsEvent publishes a committed ledger transaction to the points exchange.
func (c *Client) PublishPointsEvent(event PointsEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal points event: %w", err)
	}

	err = c.channel.Publish(
		PointsExchange,
		PointsRoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		c.logger.Error("[RABBITMQ] Failed to publish points event for user=%s: %v", event.UserID, err)
		return fmt.Errorf("failed to publish points event: %w", err)
	}

	return nil
}

// ConsumePointsEvents hands each queued event to handler; nacked events requeue.
func (c *Client) ConsumePointsEvents(handler func(event PointsEvent) error) error {
	msgs, err := c.channel.Consume(
		PointsEventQueueName,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s", PointsEventQueueName)

	go func() {
		for msg := range msgs {
			var event PointsEvent
			if err := json.Unmarshal(msg.Body, &event); err != nil {
				c.logger.Error("[RABBITMQ] Failed to unmarshal points event: %v, body=%s", err, string(msg.Body))
				msg.Nack(false, false)
				continue
			}

			if err := handler(event); err != nil {
				c.logger.Error("[RABBITMQ] Handler failed for points event user=%s: %v", event.UserID, err)
				msg.Nack(false, true)
				continue
			}

			msg.Ack(false)
		}
	}()

	return nil
}

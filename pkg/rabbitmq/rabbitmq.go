package rabbitmq

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	amqp "github.com/streadway/amqp"
)

// DefaultQueue receives user lifecycle events when no queue is configured.
const DefaultQueue = "user_events"

// Event types published after successful writes.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// UserEvent is the JSON body of every message on the queue.
type UserEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"userId"`
	Email      string    `json:"email,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	log     logrus.FieldLogger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL    string
	Queue  string
	Logger logrus.FieldLogger
}

// NewClient connects to RabbitMQ, opens a channel and declares the queue.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", cfg.Queue, err)
	}

	cfg.Logger.WithField("queue", cfg.Queue).Info("RabbitMQ client connected")

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		log:     cfg.Logger,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during RabbitMQ client close: %v", errs)
	}
	return nil
}

// Publish sends a persistent JSON message.
func (c *Client) Publish(exchange, routingKey string, body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	err := c.channel.Publish(
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishUserEvent publishes event to the configured queue via the default exchange.
func (c *Client) PublishUserEvent(event UserEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal user event: %w", err)
	}
	if err := c.Publish("", c.queue, body); err != nil {
		return err
	}
	c.log.WithFields(logrus.Fields{"type": event.Type, "user_id": event.UserID}).Debug("user event published")
	return nil
}

// ConsumeUserEvents registers a consumer and hands each delivery to handler
// on a separate goroutine. A handler error nacks without requeue so a bad
// message cannot loop forever. The returned channel is closed when the
// broker stops delivering, e.g. after the connection drops.
func (c *Client) ConsumeUserEvents(handler func(UserEvent) error) (<-chan struct{}, error) {
	if c.channel == nil {
		return nil, fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareQueue(c.channel, c.queue)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}

	c.log.WithField("queue", queue.Name).Info("waiting for user events")

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.consume(msgs, handler)
		c.log.WithField("queue", queue.Name).Warn("delivery channel closed, consumer stopped")
	}()

	return done, nil
}

func (c *Client) consume(msgs <-chan amqp.Delivery, handler func(UserEvent) error) {
	for msg := range msgs {
		entry := c.log.WithField("delivery_tag", msg.DeliveryTag)
		if err := handleDelivery(msg.Body, handler); err != nil {
			entry.WithError(err).Warn("user event rejected")
			if nackErr := msg.Nack(false, false); nackErr != nil {
				entry.WithError(nackErr).Error("nack failed")
			}
			continue
		}
		if ackErr := msg.Ack(false); ackErr != nil {
			entry.WithError(ackErr).Error("ack failed")
		}
	}
}

func handleDelivery(body []byte, handler func(UserEvent) error) error {
	var event UserEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("decode user event: %w", err)
	}
	return handler(event)
}

// Package queue is a small RabbitMQ-backed task queue. Tasks are enqueued by
// name with the ID of the entity they operate on; a consumer routes each
// delivery to a registered handler. Delivery is at-least-once: a task may be
// observed more than once and handlers must tolerate that.
package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

// Task is the unit of background work. Attempt starts at 1 and is
// incremented on every retry republish.
type Task struct {
	Name     string `json:"task"`
	EntityID string `json:"id"`
	Attempt  int    `json:"attempt"`
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL       string
	QueueName string
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

// NewClient connects to RabbitMQ, opens a channel and declares the durable
// task queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.QueueName, // name
		true,          // durable (persists messages across broker restarts)
		false,         // delete when unused
		false,         // exclusive
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.QueueName, err)
	}

	log.Printf("Task queue client connected, queue %s declared", cfg.QueueName)

	return &Client{
		conn:      conn,
		channel:   ch,
		queueName: cfg.QueueName,
	}, nil
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
		return fmt.Errorf("errors occurred during queue client close: %v", errs)
	}
	return nil
}

// Enqueue publishes a first-attempt task.
func (c *Client) Enqueue(taskName, entityID string) error {
	return c.publish(Task{Name: taskName, EntityID: entityID, Attempt: 1})
}

// EnqueueAfter republishes a task after the given delay. It is used by the
// worker to schedule retries; the delay timer runs in-process, so a crash
// before it fires drops the retry (acceptable for notification work).
func (c *Client) EnqueueAfter(task Task, delay time.Duration) error {
	time.AfterFunc(delay, func() {
		if err := c.publish(task); err != nil {
			log.Printf("Failed to republish task %s for %s (attempt %d): %v",
				task.Name, task.EntityID, task.Attempt, err)
		}
	})
	return nil
}

func (c *Client) publish(task Task) error {
	if c.channel == nil {
		return fmt.Errorf("queue channel is not available")
	}

	body, err := json.Marshal(task)
	if err != nil {
		return fmt.Errorf("failed to marshal task to JSON: %w", err)
	}

	err = c.channel.Publish(
		"",          // exchange: default exchange
		c.queueName, // routing key: the queue name
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish task: %w", err)
	}

	log.Printf(" [x] Enqueued task %s for %s (attempt %d)", task.Name, task.EntityID, task.Attempt)
	return nil
}

// Consume starts a goroutine that delivers each queued task to the handler.
// Every delivery is acked regardless of the handler outcome: retry policy is
// the handler's responsibility (via EnqueueAfter), and leaving poison
// messages to requeue forever helps nobody. Malformed payloads are logged
// and dropped.
func (c *Client) Consume(handler func(task Task)) error {
	if c.channel == nil {
		return fmt.Errorf("queue channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queueName, // queue
		"",          // consumer tag
		false,       // auto-ack: manual acknowledgement below
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	log.Printf(" [*] Waiting for tasks on %s", c.queueName)

	go func() {
		for msg := range msgs {
			var task Task
			if err := json.Unmarshal(msg.Body, &task); err != nil {
				log.Printf("Dropping malformed task payload (tag %d): %v", msg.DeliveryTag, err)
			} else {
				handler(task)
			}
			if ackErr := msg.Ack(false); ackErr != nil {
				log.Printf("Error acking message %d: %v", msg.DeliveryTag, ackErr)
			}
		}
	}()

	return nil
}

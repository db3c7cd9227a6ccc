package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher hands echo events to a broker.
type Publisher interface {
	PublishEchoEvent(ctx context.Context, event EchoEvent) error
}

// AMQPPublisher publishes events to a durable RabbitMQ queue.  The
// connection is dialed lazily and re-dialed after the broker drops it; a
// fresh channel is opened for every message.
type AMQPPublisher struct {
	url   string
	queue string

	mu   sync.Mutex
	conn *amqp.Connection
}

// NewAMQPPublisher returns a publisher for queue on the broker at url.  No
// connection is made until the first publish.
func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &AMQPPublisher{url: url, queue: queue}
}

func (p *AMQPPublisher) connection() (*amqp.Connection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		return p.conn, nil
	}
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	p.conn = conn
	return conn, nil
}

// PublishEchoEvent declares the queue (idempotent) and publishes event as a
// persistent JSON message through the default exchange.
func (p *AMQPPublisher) PublishEchoEvent(ctx context.Context, event EchoEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	conn, err := p.connection()
	if err != nil {
		return err
	}
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		pub,
	); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// Close releases the broker connection, if any.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"inventory-sync/internal/config"

	amqp "github.com/rabbitmq/amqp091-go"
)

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Broker publishes run summaries as JSON messages.
type Broker struct {
	channel    publisher
	exchange   string
	routingKey string
	now        func() time.Time
}

type brokerMessage struct {
	Subject string    `json:"subject"`
	Summary string    `json:"summary"`
	SentAt  time.Time `json:"sentAt"`
}

func newBroker(ch publisher, exchange, routingKey string) *Broker {
	return &Broker{channel: ch, exchange: exchange, routingKey: routingKey, now: time.Now}
}

// DialBroker connects to RabbitMQ and declares the durable summary queue
// when publishing to the default exchange. The returned close func releases
// the channel and the connection.
func DialBroker(cfg config.AMQPConfig) (*Broker, func() error, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	closer := func() error {
		_ = ch.Close()
		return conn.Close()
	}

	key := cfg.RoutingKey
	if cfg.Exchange == "" {
		q, err := ch.QueueDeclare(
			key,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,
		)
		if err != nil {
			_ = closer()
			return nil, nil, fmt.Errorf("declare queue %s: %w", key, err)
		}
		key = q.Name
	}
	return newBroker(ch, cfg.Exchange, key), closer, nil
}

func (b *Broker) Name() string { return "amqp" }

func (b *Broker) Send(ctx context.Context, subject, body string) error {
	payload, err := json.Marshal(brokerMessage{Subject: subject, Summary: body, SentAt: b.now().UTC()})
	if err != nil {
		return err
	}
	if err := b.channel.PublishWithContext(ctx, b.exchange, b.routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	}); err != nil {
		return fmt.Errorf("amqp publish: %w", err)
	}
	return nil
}

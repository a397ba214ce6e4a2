package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"channel_sync/internal/domain"
)

// RabbitMQ fans channel notifications out over a topic exchange. Each message
// is routed as <routing key>.<kind>, so consumers can bind to a single kind.
type RabbitMQ struct {
	conn       *amqp.Connection
	channel    *amqp.Channel
	exchange   string
	routingKey string
	logger     *slog.Logger
}

type Config struct {
	URL        string
	Exchange   string
	RoutingKey string
	QueueName  string
}

func NewRabbitMQ(cfg Config, logger *slog.Logger) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareNotifications(ch, cfg); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("connected to rabbitmq",
		"exchange", cfg.Exchange,
		"queue", cfg.QueueName,
		"binding", BindingKey(cfg.RoutingKey),
	)

	return &RabbitMQ{
		conn:       conn,
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		logger:     logger.With("component", "publisher"),
	}, nil
}

// declareNotifications sets up a durable topic exchange and a queue that
// receives every notification kind.
func declareNotifications(ch *amqp.Channel, cfg Config) error {
	if err := ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %s: %w", cfg.Exchange, err)
	}
	if cfg.QueueName == "" {
		return nil
	}

	q, err := ch.QueueDeclare(cfg.QueueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declare queue %s: %w", cfg.QueueName, err)
	}
	if err := ch.QueueBind(q.Name, BindingKey(cfg.RoutingKey), cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %s: %w", q.Name, err)
	}
	return nil
}

// RoutingKey is the key a notification of the given kind is published with.
func RoutingKey(prefix string, kind domain.NotificationKind) string {
	return prefix + "." + string(kind)
}

// BindingKey matches every notification kind published under prefix.
func BindingKey(prefix string) string {
	return prefix + ".#"
}

type NotificationMessage struct {
	Kind      domain.NotificationKind `json:"kind"`
	Text      string                  `json:"text"`
	Timestamp time.Time               `json:"timestamp"`
}

func NewNotificationMessage(n domain.Notification) NotificationMessage {
	ts := n.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return NotificationMessage{Kind: n.Kind, Text: n.Text, Timestamp: ts.UTC()}
}

func (r *RabbitMQ) Publish(ctx context.Context, n domain.Notification) error {
	msg := NewNotificationMessage(n)
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}

	key := RoutingKey(r.routingKey, n.Kind)
	publishing := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		Type:         string(n.Kind),
		Body:         body,
		Timestamp:    msg.Timestamp,
	}
	if err := r.channel.PublishWithContext(ctx, r.exchange, key, false, false, publishing); err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}

	r.logger.Debug("published notification", "routing_key", key)
	return nil
}

func (r *RabbitMQ) Close() error {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		return r.conn.Close()
	}
	return nil
}

package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"storefront-admin/config"
	"storefront-admin/models"
)

// Channel is the subset of *amqp.Channel the admin uses.
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel Channel
	Cfg     *config.Config
}

func NewRabbitMQ(cfg *config.Config) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &RabbitMQ{
		Conn:    conn,
		Channel: ch,
		Cfg:     cfg,
	}, nil
}

// NewWithChannel wraps an already opened channel.
func NewWithChannel(ch Channel, cfg *config.Config) *RabbitMQ {
	return &RabbitMQ{Channel: ch, Cfg: cfg}
}

func (r *RabbitMQ) deadLetterExchange() string {
	return r.Cfg.DeadLetterQueue + "_exchange"
}

func (r *RabbitMQ) SetupQueues() error {
	// 死信交换机和队列
	if err := r.Channel.ExchangeDeclare(
		r.deadLetterExchange(),
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return fmt.Errorf("declare dead letter exchange: %w", err)
	}

	if _, err := r.Channel.QueueDeclare(
		r.Cfg.DeadLetterQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-queue-type": "classic"},
	); err != nil {
		return fmt.Errorf("declare dead letter queue: %w", err)
	}

	if err := r.Channel.QueueBind(r.Cfg.DeadLetterQueue, r.Cfg.DeadLetterQueue, r.deadLetterExchange(), false, nil); err != nil {
		return fmt.Errorf("bind dead letter queue: %w", err)
	}

	// 管理端发出的状态变更事件
	if err := r.Channel.ExchangeDeclare(r.Cfg.AdminExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare admin exchange: %w", err)
	}

	// 后端推送的订单事件
	if err := r.Channel.ExchangeDeclare(r.Cfg.OrderEventsExchange, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare order events exchange: %w", err)
	}

	if _, err := r.Channel.QueueDeclare(
		r.Cfg.OrderEventsQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-max-priority":            r.Cfg.MaxPriority,
			"x-dead-letter-exchange":    r.deadLetterExchange(),
			"x-dead-letter-routing-key": r.Cfg.DeadLetterQueue,
		},
	); err != nil {
		return fmt.Errorf("declare order events queue: %w", err)
	}

	if err := r.Channel.QueueBind(r.Cfg.OrderEventsQueue, "", r.Cfg.OrderEventsExchange, false, nil); err != nil {
		return fmt.Errorf("bind order events queue: %w", err)
	}

	return nil
}

// PublishOrderEvent announces an accepted admin change. Routing key is the
// event type.
func (r *RabbitMQ) PublishOrderEvent(ctx context.Context, event models.OrderEvent, priority uint8) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}

	if priority > uint8(r.Cfg.MaxPriority) {
		priority = uint8(r.Cfg.MaxPriority)
	}

	msg := amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		ContentType:  "application/json",
		Body:         body,
		Priority:     priority,
	}

	if err := r.Channel.PublishWithContext(ctx, r.Cfg.AdminExchange, event.Type, false, false, msg); err != nil {
		return fmt.Errorf("publish %s for order %d: %w", event.Type, event.OrderID, err)
	}
	log.Debug().Int("order_id", event.OrderID).Str("type", event.Type).Uint8("priority", priority).Msg("order event published")
	return nil
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close rabbitmq channel")
		}
	}
	if r.Conn != nil {
		if err := r.Conn.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close rabbitmq connection")
		}
	}
}

package consumers

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"storefront-admin/config"
	"storefront-admin/models"
	"storefront-admin/rabbitmq"
)

// EventSink receives backend order events for every open admin session.
type EventSink interface {
	ApplyStatus(orderID int, status models.OrderStatus) int
	RefreshOrders(ctx context.Context) int
}

func StartOrderConsumer(ctx context.Context, ch rabbitmq.Channel, cfg *config.Config, sink EventSink) error {
	// 后端订单事件队列
	msgs, err := ch.Consume(
		cfg.OrderEventsQueue,
		"storefront-admin", // consumer tag
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register order events consumer: %w", err)
	}

	go func() {
		for msg := range msgs {
			processOrderMessage(ctx, msg, sink)
		}
	}()

	// 死信队列
	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"storefront-admin-dlq",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to register DLQ consumer")
		return nil
	}

	go func() {
		for msg := range dlqMsgs {
			processDeadLetterMessage(msg)
		}
	}()
	return nil
}

func processOrderMessage(ctx context.Context, msg amqp.Delivery, sink EventSink) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic in message processing")
			_ = msg.Nack(false, false)
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil || event.OrderID <= 0 {
		log.Warn().Bytes("body", msg.Body).Msg("invalid order event")
		_ = msg.Nack(false, false) // 不重新入队
		return
	}

	logger := log.With().Int("order_id", event.OrderID).Str("type", event.Type).Logger()

	switch event.Type {
	case "status_changed":
		if !event.Status.Valid() {
			logger.Warn().Str("status", string(event.Status)).Msg("order event with unknown status")
			_ = msg.Nack(false, false)
			return
		}
		n := sink.ApplyStatus(event.OrderID, event.Status)
		logger.Info().Str("status", event.Status.String()).Int("sessions", n).Msg("applied backend status change")
	case "payment_confirmed":
		n := sink.ApplyStatus(event.OrderID, models.StatusPaid)
		logger.Info().Int("sessions", n).Msg("applied payment confirmation")
	case "created", "order_placed":
		n := sink.RefreshOrders(ctx)
		logger.Info().Int("sessions", n).Msg("refreshed orders after new order")
	default:
		logger.Warn().Msg("unknown order event type")
	}

	if err := msg.Ack(false); err != nil {
		logger.Error().Err(err).Msg("failed to ack order event")
	}
}

func processDeadLetterMessage(msg amqp.Delivery) {
	log.Warn().Bytes("body", msg.Body).Msg("received dead letter")
	if err := msg.Ack(false); err != nil {
		log.Error().Err(err).Msg("failed to ack dead letter")
	}
}

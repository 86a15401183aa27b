// Package eventbus connects the API to RabbitMQ. Order lifecycle events are
// published here after commit and consumed by the notification worker.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"

	"github.com/matheusmosca/orders-api/internal/config"
)

const publishTimeout = 5 * time.Second

// MessageHandler processes one delivery. Returned errors are logged only;
// the delivery is acked either way (at-most-once consumption).
type MessageHandler func(ctx context.Context, delivery amqp.Delivery) error

// RabbitMQManager owns the connection and the publish/consume channels.
type RabbitMQManager struct {
	config        config.Config
	connection    *amqp.Connection
	producerChan  *amqp.Channel
	consumerChan  *amqp.Channel
	notifyConfirm chan amqp.Confirmation
}

// NewRabbitMQManager connects, declares the orders topology and puts the
// producer channel into confirm mode.
func NewRabbitMQManager(cfg config.Config) (*RabbitMQManager, error) {
	rmq := &RabbitMQManager{config: cfg}

	log.Info().Str("url", cfg.RabbitMQURL).Msg("Attempting to connect to RabbitMQ")
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	rmq.connection = conn

	if err := rmq.setupProducerChannel(); err != nil {
		conn.Close()
		return nil, err
	}
	if err := rmq.setupConsumerChannel(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Info().Msg("✅ RabbitMQ connected and channels initialized")
	return rmq, nil
}

func (rmq *RabbitMQManager) setupProducerChannel() error {
	ch, err := rmq.connection.Channel()
	if err != nil {
		return fmt.Errorf("failed to open producer channel: %w", err)
	}
	rmq.producerChan = ch

	if err := ch.Confirm(false); err != nil {
		return fmt.Errorf("producer channel could not be put into confirm mode: %w", err)
	}
	rmq.notifyConfirm = make(chan amqp.Confirmation, 1)
	ch.NotifyPublish(rmq.notifyConfirm)

	err = ch.ExchangeDeclare(
		rmq.config.OrdersExchange, // name
		"topic",                   // type
		true,                      // durable
		false,                     // auto-deleted
		false,                     // internal
		false,                     // no-wait
		nil,                       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", rmq.config.OrdersExchange, err)
	}
	return nil
}

func (rmq *RabbitMQManager) setupConsumerChannel() error {
	ch, err := rmq.connection.Channel()
	if err != nil {
		return fmt.Errorf("failed to open consumer channel: %w", err)
	}
	rmq.consumerChan = ch

	if err := ch.Qos(10, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	if _, err := ch.QueueDeclare(rmq.config.OrdersQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = ch.QueueBind(rmq.config.OrdersQueue, rmq.config.OrdersRoutingKey, rmq.config.OrdersExchange, false, nil)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	log.Info().Str("queue", rmq.config.OrdersQueue).Msg("Consumer topology setup complete.")
	return nil
}

// PublishOrderCreated publishes the event and waits for the broker confirm.
func (rmq *RabbitMQManager) PublishOrderCreated(ctx context.Context, event OrderCreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = rmq.producerChan.Publish(
		rmq.config.OrdersExchange,
		rmq.config.OrdersRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
			MessageId:    event.EventID,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	select {
	case confirm := <-rmq.notifyConfirm:
		if confirm.Ack {
			return nil
		}
		return errors.New("message published but not confirmed")
	case <-time.After(publishTimeout):
		return errors.New("publish confirmation timeout")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// StartConsuming delivers queued events to handler until ctx is cancelled.
// Every delivery is acked exactly once regardless of handler outcome.
func (rmq *RabbitMQManager) StartConsuming(ctx context.Context, handler MessageHandler) error {
	msgs, err := rmq.consumerChan.Consume(
		rmq.config.OrdersQueue,
		rmq.config.ConsumerTag,
		false, // auto-ack false
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case delivery, ok := <-msgs:
				if !ok {
					return
				}
				if err := handler(ctx, delivery); err != nil {
					log.Error().Err(err).Str("message_id", delivery.MessageId).Msg("❌ Failed to process delivery")
				}
				if err := delivery.Ack(false); err != nil {
					log.Error().Err(err).Msg("Failed to ack delivery")
				}
			}
		}
	}()

	return nil
}

// Close tears down channels and the connection.
func (rmq *RabbitMQManager) Close() {
	if rmq.producerChan != nil {
		rmq.producerChan.Close()
	}
	if rmq.consumerChan != nil {
		rmq.consumerChan.Close()
	}
	if rmq.connection != nil {
		rmq.connection.Close()
	}
}

// Package notifications consumes order events and delivers best-effort
// notifications. Delivery failures are logged, never retried and never
// reported back to the order flow.
package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/streadway/amqp"

	"github.com/matheusmosca/orders-api/internal/eventbus"
)

// Channel delivers one notification over a concrete transport.
type Channel interface {
	Name() string
	Send(ctx context.Context, recipient, subject, message string) error
}

// Dispatcher fans an order-created event out to every configured channel.
type Dispatcher struct {
	channels  []Channel
	recipient string
}

func NewDispatcher(recipient string, channels ...Channel) *Dispatcher {
	return &Dispatcher{channels: channels, recipient: recipient}
}

// HandleDelivery is the eventbus message handler. A malformed payload is an
// error; channel failures are not.
func (d *Dispatcher) HandleDelivery(ctx context.Context, delivery amqp.Delivery) error {
	var event eventbus.OrderCreatedEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		return fmt.Errorf("failed to unmarshal order created event: %w", err)
	}

	d.Dispatch(ctx, event)
	return nil
}

// Dispatch sends the order summary through every channel, best-effort.
func (d *Dispatcher) Dispatch(ctx context.Context, event eventbus.OrderCreatedEvent) {
	if d.recipient == "" {
		log.Debug().Str("order_id", event.OrderID).Msg("No notification recipient configured, skipping")
		return
	}

	subject := fmt.Sprintf("Novo Pedido Criado: #%s", event.OrderID)
	message := fmt.Sprintf(
		"Detalhes do pedido:\n\nID: %s\nCliente ID: %s\nStatus: %s\nData/Hora: %s\nTotal: %s",
		event.OrderID, event.ClientID, event.Status, event.Timestamp.Format("2006-01-02 15:04:05"), event.Total,
	)

	for _, channel := range d.channels {
		if err := channel.Send(ctx, d.recipient, subject, message); err != nil {
			log.Error().Err(err).
				Str("channel", channel.Name()).
				Str("order_id", event.OrderID).
				Msg("❌ Failed to deliver notification")
			continue
		}
		log.Info().
			Str("channel", channel.Name()).
			Str("order_id", event.OrderID).
			Msg("✅ Notification delivered")
	}
}

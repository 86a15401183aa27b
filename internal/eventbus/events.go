package eventbus

import (
	"time"

	"github.com/google/uuid"
)

// OrderCreatedItem is one line of the published order summary.
type OrderCreatedItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unitPrice"`
}

// OrderCreatedEvent is published after an order creation commits. It carries
// the full summary so consumers never have to read the database.
type OrderCreatedEvent struct {
	EventID   string             `json:"eventId"`
	OrderID   string             `json:"orderId"`
	ClientID  string             `json:"clientId"`
	CreatedBy string             `json:"createdBy"`
	Total     string             `json:"total"`
	Status    string             `json:"status"`
	Items     []OrderCreatedItem `json:"items"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewEventID returns a fresh event identifier.
func NewEventID() string {
	return uuid.New().String()
}

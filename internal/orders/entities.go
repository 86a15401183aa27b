// Package orders implements the order lifecycle: creation with atomic stock
// reservation and price snapshotting, ownership-scoped reads, status updates
// and deletion with stock release.
//
// Status transitions are deliberately unconstrained, and updating the status
// to cancelled does NOT release stock; only deletion does. This mirrors the
// accounting model where a cancelled order still holds its reservation until
// it is removed.
package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status enumerates the order life-cycle states.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Order is the aggregate root. It owns its items: their lifetime is tied to
// the order and deleting the order cascades to them.
type Order struct {
	ID        string          `json:"id" db:"id"`
	ClientID  string          `json:"client_id" db:"client_id"`
	CreatedBy string          `json:"created_by" db:"created_by"`
	Total     decimal.Decimal `json:"total" db:"total"`
	Status    Status          `json:"status" db:"status"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
	Items     []OrderItem     `json:"items"`
}

// OrderItem is one line of an order. UnitPrice is the price snapshot taken
// when the order was created and never changes afterwards, even if the
// product price does.
type OrderItem struct {
	ID        string          `json:"id" db:"id"`
	OrderID   string          `json:"order_id" db:"order_id"`
	ProductID string          `json:"product_id" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price" db:"unit_price"`
}

// NewOrder creates a pending Order with a fresh id and timestamps.
func NewOrder(clientID, createdBy string) *Order {
	now := time.Now()
	return &Order{
		ID:        uuid.New().String(),
		ClientID:  clientID,
		CreatedBy: createdBy,
		Total:     decimal.Zero,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NewOrderItem creates an item with the given price snapshot.
func NewOrderItem(orderID, productID string, quantity int, unitPrice decimal.Decimal) OrderItem {
	return OrderItem{
		ID:        uuid.New().String(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
	}
}

// AddItem appends the item and accumulates its line total into the order.
func (o *Order) AddItem(item OrderItem) {
	o.Items = append(o.Items, item)
	o.Total = o.Total.Add(item.LineTotal())
}

// LineTotal is quantity times the price snapshot.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal recomputes the total from the stored snapshots. For any
// persisted order it must reproduce Total exactly.
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

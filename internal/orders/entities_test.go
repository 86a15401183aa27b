package orders

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewOrder(t *testing.T) {
	// Act
	order := NewOrder("client-456", "user-789")

	// Assert
	assert.NotEmpty(t, order.ID)
	assert.Equal(t, "client-456", order.ClientID)
	assert.Equal(t, "user-789", order.CreatedBy)
	assert.Equal(t, StatusPending, order.Status)
	assert.True(t, order.Total.IsZero())
	assert.Empty(t, order.Items)

	now := time.Now()
	assert.False(t, order.CreatedAt.After(now))
	assert.False(t, order.CreatedAt.Before(now.Add(-time.Second)))
}

func TestOrder_AddItem(t *testing.T) {
	order := NewOrder("client-456", "user-789")

	order.AddItem(NewOrderItem(order.ID, "product-1", 2, decimal.NewFromFloat(10.0)))
	order.AddItem(NewOrderItem(order.ID, "product-2", 1, decimal.NewFromFloat(20.0)))

	assert.Len(t, order.Items, 2)
	assert.True(t, order.Total.Equal(decimal.NewFromFloat(40.0)),
		"expected total 40.0, got %s", order.Total)
}

func TestOrder_ComputeTotalMatchesTotal(t *testing.T) {
	order := NewOrder("client-456", "user-789")
	order.AddItem(NewOrderItem(order.ID, "product-1", 3, decimal.NewFromFloat(19.99)))
	order.AddItem(NewOrderItem(order.ID, "product-2", 7, decimal.NewFromFloat(0.35)))

	assert.True(t, order.ComputeTotal().Equal(order.Total))
}

func TestOrderItem_SnapshotIsIndependentOfProductPrice(t *testing.T) {
	price := decimal.NewFromFloat(10.0)
	item := NewOrderItem("order-1", "product-1", 2, price)

	// a later price change on the product side must not affect the snapshot
	price = price.Add(decimal.NewFromFloat(5.0))
	_ = price

	assert.True(t, item.UnitPrice.Equal(decimal.NewFromFloat(10.0)))
	assert.True(t, item.LineTotal().Equal(decimal.NewFromFloat(20.0)))
}

func TestParseStatus(t *testing.T) {
	for _, valid := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		status, err := ParseStatus(valid)
		assert.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	_, err := ParseStatus("finished")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = ParseStatus("")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestOrderPatch_Apply(t *testing.T) {
	order := NewOrder("client-456", "user-789")

	var patch OrderPatch
	patch.Status.Value = "shipped"
	patch.Status.Set = true

	err := patch.Apply(order)

	assert.NoError(t, err)
	assert.Equal(t, StatusShipped, order.Status)
}

func TestOrderPatch_Apply_AbsentFieldUntouched(t *testing.T) {
	order := NewOrder("client-456", "user-789")
	order.Status = StatusProcessing

	err := OrderPatch{}.Apply(order)

	assert.NoError(t, err)
	assert.Equal(t, StatusProcessing, order.Status)
}

func TestOrderPatch_Apply_InvalidStatus(t *testing.T) {
	order := NewOrder("client-456", "user-789")

	var patch OrderPatch
	patch.Status.Value = "done"
	patch.Status.Set = true

	err := patch.Apply(order)

	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Equal(t, StatusPending, order.Status)
}

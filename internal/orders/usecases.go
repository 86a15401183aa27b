package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/orders-api/internal/auth"
	"github.com/matheusmosca/orders-api/internal/eventbus"
	"github.com/matheusmosca/orders-api/internal/field"
	"github.com/matheusmosca/orders-api/internal/postgres"
	"github.com/matheusmosca/orders-api/internal/products"
)

var (
	// ErrOrderNotFound also covers orders owned by another user: a foreign
	// order is indistinguishable from a nonexistent one.
	ErrOrderNotFound   = errors.New("order not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrDuplicateItem   = errors.New("order contains the same product more than once")
	ErrInvalidQuantity = errors.New("item quantity must be positive")
	ErrInvalidStatus   = errors.New("invalid order status")
)

// OrderItemRequest is one requested line of a new order.
type OrderItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CreateOrderRequest is the payload for creating an order.
type CreateOrderRequest struct {
	ClientID string             `json:"client_id" binding:"required"`
	Items    []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderPatch carries the updatable fields of an order. Only the status can
// change after creation; absent fields are untouched.
type OrderPatch struct {
	Status field.Optional[string] `json:"status"`
}

// Apply merges the patch into the order.
func (p OrderPatch) Apply(order *Order) error {
	if v, ok := p.Status.Get(); ok {
		status, err := ParseStatus(v)
		if err != nil {
			return err
		}
		order.Status = status
	}
	return nil
}

// ProductStore is the product collaborator consumed by the lifecycle:
// pessimistic reads and stock adjustment inside the caller's transaction.
type ProductStore interface {
	GetProductForUpdate(ctx context.Context, tx postgres.Tx, id string) (*products.Product, error)
	AdjustStock(ctx context.Context, tx postgres.Tx, id string, delta int) error
}

// ClientStore is the client collaborator; existence check only.
type ClientStore interface {
	ClientExists(ctx context.Context, tx postgres.Tx, id string) (bool, error)
}

// EventPublisher emits the post-commit order-created event. Publishing is
// best-effort: failures are logged, never retried and never surfaced.
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event eventbus.OrderCreatedEvent) error
}

// OrderUseCase orchestrates the order lifecycle.
type OrderUseCase struct {
	repository Repository
	productSt  ProductStore
	clientSt   ClientStore
	publisher  EventPublisher
	tracer     trace.Tracer
}

func NewOrderUseCase(
	repository Repository,
	productStore ProductStore,
	clientStore ClientStore,
	publisher EventPublisher,
	tracer trace.Tracer,
) *OrderUseCase {
	return &OrderUseCase{
		repository: repository,
		productSt:  productStore,
		clientSt:   clientStore,
		publisher:  publisher,
		tracer:     tracer,
	}
}

// Create validates the client and every line, reserves stock, snapshots
// prices and persists the aggregate in one transaction. Either the full
// order lands (all lines, all stock decrements) or nothing does.
func (uc *OrderUseCase) Create(ctx context.Context, actor auth.Identity, req CreateOrderRequest) (*Order, error) {
	ctx, span := uc.tracer.Start(ctx, "create_order")
	defer span.End()

	// Duplicate products are rejected before any stock is touched.
	seen := make(map[string]struct{}, len(req.Items))
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if _, ok := seen[item.ProductID]; ok {
			return nil, ErrDuplicateItem
		}
		seen[item.ProductID] = struct{}{}
	}

	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	exists, err := uc.clientSt.ClientExists(ctx, tx, req.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to check client: %w", err)
	}
	if !exists {
		return nil, ErrClientNotFound
	}

	order := NewOrder(req.ClientID, actor.UserID)

	for _, item := range req.Items {
		// The row lock taken here serializes concurrent creates against the
		// same product, so the availability check below cannot race.
		product, err := uc.productSt.GetProductForUpdate(ctx, tx, item.ProductID)
		if errors.Is(err, products.ErrProductNotFound) {
			return nil, fmt.Errorf("%w: %s", products.ErrProductNotFound, item.ProductID)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}

		if product.StockQuantity < item.Quantity {
			return nil, &products.InsufficientStockError{
				ProductName: product.Name,
				Available:   product.StockQuantity,
				Requested:   item.Quantity,
			}
		}

		if err := uc.productSt.AdjustStock(ctx, tx, product.ID, -item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to reserve stock: %w", err)
		}

		order.AddItem(NewOrderItem(order.ID, product.ID, item.Quantity, product.Price))
	}

	if err := uc.repository.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order: %w", err)
	}

	span.SetAttributes(
		attribute.String("order_id", order.ID),
		attribute.String("client_id", order.ClientID),
		attribute.Int("item_count", len(order.Items)),
	)
	log.Info().Str("order_id", order.ID).Str("total", order.Total.String()).Msg("✅ Order created")

	uc.publishCreated(ctx, order)

	return order, nil
}

// publishCreated runs strictly after commit; at most one attempt, no
// delivery guarantee.
func (uc *OrderUseCase) publishCreated(ctx context.Context, order *Order) {
	event := eventbus.OrderCreatedEvent{
		EventID:   eventbus.NewEventID(),
		OrderID:   order.ID,
		ClientID:  order.ClientID,
		CreatedBy: order.CreatedBy,
		Total:     order.Total.String(),
		Status:    string(order.Status),
		Timestamp: time.Now(),
	}
	for _, item := range order.Items {
		event.Items = append(event.Items, eventbus.OrderCreatedItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.String(),
		})
	}

	if err := uc.publisher.PublishOrderCreated(ctx, event); err != nil {
		log.Error().Err(err).Str("order_id", order.ID).Msg("❌ Failed to publish order created event")
	}
}

// List returns the actor's orders matching the filters plus the de-duplicated
// total count.
func (uc *OrderUseCase) List(ctx context.Context, actor auth.Identity, filters ListFilters) ([]Order, int, error) {
	if filters.Status != "" {
		if _, err := ParseStatus(string(filters.Status)); err != nil {
			return nil, 0, err
		}
	}
	filters.ActorID = actor.UserID
	return uc.repository.ListOrders(ctx, filters)
}

// Get returns the order only when it exists and is owned by the actor.
func (uc *OrderUseCase) Get(ctx context.Context, actor auth.Identity, orderID string) (*Order, error) {
	order, err := uc.repository.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CreatedBy != actor.UserID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

// Update applies the status patch. It has no inventory side effect, even for
// a transition to cancelled; see the package doc.
func (uc *OrderUseCase) Update(ctx context.Context, actor auth.Identity, orderID string, patch OrderPatch) (*Order, error) {
	order, err := uc.Get(ctx, actor, orderID)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(order); err != nil {
		return nil, err
	}

	if err := uc.repository.UpdateOrderStatus(ctx, order.ID, order.Status); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	order.UpdatedAt = time.Now()
	return order, nil
}

// Delete releases the stock reserved by every line and removes the order and
// its items in one transaction. The lines are read before the delete since
// the cascade removes them.
func (uc *OrderUseCase) Delete(ctx context.Context, actor auth.Identity, orderID string) error {
	ctx, span := uc.tracer.Start(ctx, "delete_order")
	defer span.End()

	tx, err := uc.repository.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	order, err := uc.repository.GetOrderTx(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if order.CreatedBy != actor.UserID {
		return ErrOrderNotFound
	}

	for _, item := range order.Items {
		if err := uc.productSt.AdjustStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("failed to release stock: %w", err)
		}
	}

	if err := uc.repository.DeleteOrder(ctx, tx, order.ID); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	span.SetAttributes(attribute.String("order_id", order.ID))
	log.Info().Str("order_id", order.ID).Msg("♻️  Order deleted and stock released")
	return nil
}

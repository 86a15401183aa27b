package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/orders-api/internal/postgres"
)

// Repository defines the database operations for orders.
type Repository interface {
	BeginTx(ctx context.Context) (postgres.Tx, error)

	// CreateOrder persists the order and all of its items inside tx.
	CreateOrder(ctx context.Context, tx postgres.Tx, order *Order) error

	// GetOrder loads the order and its items.
	GetOrder(ctx context.Context, orderID string) (*Order, error)

	// GetOrderTx is GetOrder inside the caller's transaction; used by delete,
	// which must read the items before the cascade removes them.
	GetOrderTx(ctx context.Context, tx postgres.Tx, orderID string) (*Order, error)

	// ListOrders returns the filtered page and the filter-consistent total.
	ListOrders(ctx context.Context, filters ListFilters) ([]Order, int, error)

	UpdateOrderStatus(ctx context.Context, orderID string, status Status) error

	// DeleteOrder removes the order; items go with it via cascade.
	DeleteOrder(ctx context.Context, tx postgres.Tx, orderID string) error
}

// OrderRepository implements Repository using PostgreSQL.
type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) Repository {
	return &OrderRepository{db: db}
}

// BeginTx starts a transaction and wraps it in the explicit handle passed
// through the lifecycle call.
func (r *OrderRepository) BeginTx(ctx context.Context) (postgres.Tx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &postgres.PgTx{Tx: tx}, nil
}

func (r *OrderRepository) CreateOrder(ctx context.Context, tx postgres.Tx, order *Order) error {
	pgTx := postgres.Unwrap(tx)

	_, err := pgTx.Exec(ctx, `
		INSERT INTO orders (id, client_id, created_by, total, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, order.ID, order.ClientID, order.CreatedBy, order.Total, order.Status, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, item := range order.Items {
		_, err := pgTx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5)
		`, item.ID, item.OrderID, item.ProductID, item.Quantity, item.UnitPrice)
		if err != nil {
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	return nil
}

type rowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	return getOrder(ctx, r.db, orderID)
}

func (r *OrderRepository) GetOrderTx(ctx context.Context, tx postgres.Tx, orderID string) (*Order, error) {
	return getOrder(ctx, postgres.Unwrap(tx), orderID)
}

func getOrder(ctx context.Context, q rowQuerier, orderID string) (*Order, error) {
	var order Order
	err := q.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, orderID).
		Scan(&order.ID, &order.ClientID, &order.CreatedBy, &order.Total, &order.Status,
			&order.CreatedAt, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := loadItems(ctx, q, []string{order.ID})
	if err != nil {
		return nil, err
	}
	order.Items = items[order.ID]
	return &order, nil
}

func loadItems(ctx context.Context, q rowQuerier, orderIDs []string) (map[string][]OrderItem, error) {
	rows, err := q.Query(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price
		FROM order_items WHERE order_id = ANY($1)
	`, orderIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	items := make(map[string][]OrderItem, len(orderIDs))
	for rows.Next() {
		var item OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items[item.OrderID] = append(items[item.OrderID], item)
	}
	return items, rows.Err()
}

func (r *OrderRepository) ListOrders(ctx context.Context, filters ListFilters) ([]Order, int, error) {
	dataSQL, dataArgs, countSQL, countArgs := buildListQuery(filters)

	var total int
	if err := r.db.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := r.db.Query(ctx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	page := []Order{}
	ids := []string{}
	for rows.Next() {
		var order Order
		if err := rows.Scan(&order.ID, &order.ClientID, &order.CreatedBy, &order.Total,
			&order.Status, &order.CreatedAt, &order.UpdatedAt); err != nil {
			return nil, 0, err
		}
		page = append(page, order)
		ids = append(ids, order.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(ids) > 0 {
		items, err := loadItems(ctx, r.db, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range page {
			page[i].Items = items[page[i].ID]
		}
	}

	return page, total, nil
}

func (r *OrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, status Status) error {
	_, err := r.db.Exec(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, status, orderID)
	return err
}

func (r *OrderRepository) DeleteOrder(ctx context.Context, tx postgres.Tx, orderID string) error {
	tag, err := postgres.Unwrap(tx).Exec(ctx, `DELETE FROM orders WHERE id = $1`, orderID)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

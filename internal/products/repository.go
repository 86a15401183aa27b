package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/matheusmosca/orders-api/internal/postgres"
)

// ListFilters are the independently optional filters of the product listing.
type ListFilters struct {
	Search   string
	Status   Status
	Section  string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	Skip     int
	Limit    int
}

// Repository defines the database operations for products, including the
// stock ledger operations used by the order lifecycle.
type Repository interface {
	CreateProduct(ctx context.Context, product *Product) error
	GetProductByID(ctx context.Context, id string) (*Product, error)
	ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error)
	UpdateProduct(ctx context.Context, product *Product) error
	DeleteProduct(ctx context.Context, id string) error

	// GetProductForUpdate loads the product with a pessimistic row lock so
	// concurrent reserves against the same product serialize.
	GetProductForUpdate(ctx context.Context, tx postgres.Tx, id string) (*Product, error)
	// AdjustStock applies delta to the stock quantity inside the caller's
	// transaction. Negative delta reserves, positive releases.
	AdjustStock(ctx context.Context, tx postgres.Tx, id string, delta int) error
}

// ProductRepository implements Repository using PostgreSQL.
type ProductRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) Repository {
	return &ProductRepository{db: db}
}

const (
	uniqueViolationCode = "23505"
	checkViolationCode  = "23514"
)

const productColumns = `id, name, description, price, status, stock_quantity, barcode, section, expiration_date, images, active, created_at, updated_at`

func scanProduct(row pgx.Row) (*Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Status, &p.StockQuantity,
		&p.Barcode, &p.Section, &p.ExpirationDate, &p.Images, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *Product) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO products (id, name, description, price, status, stock_quantity, barcode, section, expiration_date, images, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, product.ID, product.Name, product.Description, product.Price, product.Status,
		product.StockQuantity, product.Barcode, product.Section, product.ExpirationDate,
		product.Images, product.Active, product.CreatedAt, product.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrBarcodeAlreadyExists
	}
	return err
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id string) (*Product, error) {
	return scanProduct(r.db.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
}

func (r *ProductRepository) ListProducts(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	var conditions []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Search != "" {
		p := arg("%" + filters.Search + "%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE %s OR description ILIKE %s)", p, p))
	}
	if filters.Status != "" {
		conditions = append(conditions, "status = "+arg(filters.Status))
	}
	if filters.Section != "" {
		conditions = append(conditions, "section ILIKE "+arg("%"+filters.Section+"%"))
	}
	if filters.MinPrice != nil {
		conditions = append(conditions, "price >= "+arg(*filters.MinPrice))
	}
	if filters.MaxPrice != nil {
		conditions = append(conditions, "price <= "+arg(*filters.MaxPrice))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM products %s ORDER BY created_at DESC OFFSET %s LIMIT %s`,
		productColumns, where, arg(filters.Skip), arg(filters.Limit))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	productsPage := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		productsPage = append(productsPage, *p)
	}
	return productsPage, total, rows.Err()
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *Product) error {
	_, err := r.db.Exec(ctx, `
		UPDATE products
		SET name = $1, description = $2, price = $3, status = $4, stock_quantity = $5,
		    barcode = $6, section = $7, expiration_date = $8, images = $9, active = $10,
		    updated_at = NOW()
		WHERE id = $11
	`, product.Name, product.Description, product.Price, product.Status, product.StockQuantity,
		product.Barcode, product.Section, product.ExpirationDate, product.Images, product.Active,
		product.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return ErrBarcodeAlreadyExists
		case checkViolationCode:
			return ErrStockConflict
		}
	}
	return err
}

func (r *ProductRepository) DeleteProduct(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

// GetProductForUpdate loads the product with SELECT ... FOR UPDATE so the row
// stays locked until the caller's transaction commits or rolls back.
func (r *ProductRepository) GetProductForUpdate(ctx context.Context, tx postgres.Tx, id string) (*Product, error) {
	return scanProduct(postgres.Unwrap(tx).QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id))
}

// AdjustStock moves the stock level by delta. A check-constraint violation
// means a concurrent reserve won the race; it surfaces as ErrStockConflict
// instead of a raw storage error.
func (r *ProductRepository) AdjustStock(ctx context.Context, tx postgres.Tx, id string, delta int) error {
	tag, err := postgres.Unwrap(tx).Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, id)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == checkViolationCode {
		return ErrStockConflict
	}
	if err != nil {
		return fmt.Errorf("failed to adjust stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}

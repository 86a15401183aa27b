package products

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status enumerates the possible product availability states.
type Status string

const (
	StatusInStock    Status = "in_stock"
	StatusRestocking Status = "restocking"
	StatusOutOfStock Status = "out_of_stock"
)

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusInStock, StatusRestocking, StatusOutOfStock:
		return Status(s), nil
	}
	return "", ErrInvalidStatus
}

// Product represents an item in the catalog together with its stock level.
// Stock is mutated by the admin CRUD and by the order lifecycle's
// reserve/release accounting; the database enforces it never goes negative.
type Product struct {
	ID             string          `json:"id" db:"id"`
	Name           string          `json:"name" db:"name"`
	Description    string          `json:"description" db:"description"`
	Price          decimal.Decimal `json:"price" db:"price"`
	Status         Status          `json:"status" db:"status"`
	StockQuantity  int             `json:"stock_quantity" db:"stock_quantity"`
	Barcode        string          `json:"barcode" db:"barcode"`
	Section        string          `json:"section" db:"section"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty" db:"expiration_date"`
	Images         []string        `json:"images,omitempty" db:"images"`
	Active         bool            `json:"active" db:"active"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
}

// NewProduct creates a new Product with a fresh id and timestamps.
func NewProduct(name, description string, price decimal.Decimal, status Status, stock int, barcode, section string, expiration *time.Time, images []string) *Product {
	now := time.Now()
	return &Product{
		ID:             uuid.New().String(),
		Name:           name,
		Description:    description,
		Price:          price,
		Status:         status,
		StockQuantity:  stock,
		Barcode:        barcode,
		Section:        section,
		ExpirationDate: expiration,
		Images:         images,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// InsufficientStockError reports a reserve that exceeds the available stock.
type InsufficientStockError struct {
	ProductName string
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s. available: %d, requested: %d",
		e.ProductName, e.Available, e.Requested)
}

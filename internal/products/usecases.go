package products

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/matheusmosca/orders-api/internal/field"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrBarcodeAlreadyExists = errors.New("barcode already registered")
	ErrInvalidStatus        = errors.New("invalid product status")
	ErrStockConflict        = errors.New("stock level conflict")
)

// CreateProductRequest is the payload for registering a product.
type CreateProductRequest struct {
	Name           string          `json:"name" binding:"required"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price" binding:"required"`
	Status         string          `json:"status" binding:"required"`
	StockQuantity  int             `json:"stock_quantity" binding:"gte=0"`
	Barcode        string          `json:"barcode" binding:"required"`
	Section        string          `json:"section" binding:"required"`
	ExpirationDate *time.Time      `json:"expiration_date"`
	Images         []string        `json:"images"`
}

// ProductPatch carries the partially updatable fields.
type ProductPatch struct {
	Name           field.Optional[string]          `json:"name"`
	Description    field.Optional[string]          `json:"description"`
	Price          field.Optional[decimal.Decimal] `json:"price"`
	Status         field.Optional[string]          `json:"status"`
	StockQuantity  field.Optional[int]             `json:"stock_quantity"`
	Barcode        field.Optional[string]          `json:"barcode"`
	Section        field.Optional[string]          `json:"section"`
	ExpirationDate field.Optional[*time.Time]      `json:"expiration_date"`
	Images         field.Optional[[]string]        `json:"images"`
	Active         field.Optional[bool]            `json:"active"`
}

// Apply merges the patch into the product.
func (p ProductPatch) Apply(product *Product) error {
	if v, ok := p.Name.Get(); ok {
		product.Name = v
	}
	if v, ok := p.Description.Get(); ok {
		product.Description = v
	}
	if v, ok := p.Price.Get(); ok {
		if v.IsNegative() {
			return fmt.Errorf("price must not be negative")
		}
		product.Price = v
	}
	if v, ok := p.Status.Get(); ok {
		status, err := ParseStatus(v)
		if err != nil {
			return err
		}
		product.Status = status
	}
	if v, ok := p.StockQuantity.Get(); ok {
		if v < 0 {
			return fmt.Errorf("stock quantity must not be negative")
		}
		product.StockQuantity = v
	}
	if v, ok := p.Barcode.Get(); ok {
		product.Barcode = v
	}
	if v, ok := p.Section.Get(); ok {
		product.Section = v
	}
	if v, ok := p.ExpirationDate.Get(); ok {
		product.ExpirationDate = v
	}
	if v, ok := p.Images.Get(); ok {
		product.Images = v
	}
	if v, ok := p.Active.Get(); ok {
		product.Active = v
	}
	return nil
}

// ProductUseCase contains the business logic for the product catalog.
type ProductUseCase struct {
	repository Repository
}

func NewProductUseCase(repository Repository) *ProductUseCase {
	return &ProductUseCase{repository: repository}
}

// Create registers a new product.
func (uc *ProductUseCase) Create(ctx context.Context, req CreateProductRequest) (*Product, error) {
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("price must not be negative")
	}

	product := NewProduct(req.Name, req.Description, req.Price, status, req.StockQuantity,
		req.Barcode, req.Section, req.ExpirationDate, req.Images)

	if err := uc.repository.CreateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	log.Info().Str("product_id", product.ID).Str("name", product.Name).Msg("✅ Product created")
	return product, nil
}

// List returns a page of products plus the unpaginated total.
func (uc *ProductUseCase) List(ctx context.Context, filters ListFilters) ([]Product, int, error) {
	if filters.Status != "" {
		if _, err := ParseStatus(string(filters.Status)); err != nil {
			return nil, 0, err
		}
	}
	return uc.repository.ListProducts(ctx, filters)
}

// Get returns a product by id.
func (uc *ProductUseCase) Get(ctx context.Context, id string) (*Product, error) {
	return uc.repository.GetProductByID(ctx, id)
}

// Update applies a partial update to the product.
func (uc *ProductUseCase) Update(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	product, err := uc.repository.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(product); err != nil {
		return nil, err
	}

	if err := uc.repository.UpdateProduct(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, nil
}

// Delete removes a product from the catalog.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	return uc.repository.DeleteProduct(ctx, id)
}

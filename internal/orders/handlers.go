package orders

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/orders-api/internal/auth"
	"github.com/matheusmosca/orders-api/internal/products"
)

// OrderUseCaseInterface defines the use case surface the handlers need.
type OrderUseCaseInterface interface {
	Create(ctx context.Context, actor auth.Identity, req CreateOrderRequest) (*Order, error)
	List(ctx context.Context, actor auth.Identity, filters ListFilters) ([]Order, int, error)
	Get(ctx context.Context, actor auth.Identity, orderID string) (*Order, error)
	Update(ctx context.Context, actor auth.Identity, orderID string, patch OrderPatch) (*Order, error)
	Delete(ctx context.Context, actor auth.Identity, orderID string) error
}

// OrderHandler contains the HTTP handlers for the order lifecycle.
type OrderHandler struct {
	useCase OrderUseCaseInterface
}

func NewOrderHandler(useCase OrderUseCaseInterface) *OrderHandler {
	return &OrderHandler{useCase: useCase}
}

// Create handles POST /orders.
func (h *OrderHandler) Create(c *gin.Context) {
	actor, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.useCase.Create(c.Request.Context(), actor, req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// List handles GET /orders.
func (h *OrderHandler) List(c *gin.Context) {
	actor, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if skip < 0 || limit <= 0 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination parameters"})
		return
	}

	filters := ListFilters{
		ClientID: c.Query("client_id"),
		OrderID:  c.Query("order_id"),
		Status:   Status(c.Query("status")),
		Section:  c.Query("section"),
		Skip:     skip,
		Limit:    limit,
	}

	var err error
	if filters.StartDate, err = parseDate(c.Query("start_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	if filters.EndDate, err = parseDate(c.Query("end_date")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}

	page, total, err := h.useCase.List(c.Request.Context(), actor, filters)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders":      page,
		"total":       total,
		"page":        skip/limit + 1,
		"page_size":   limit,
		"total_pages": (total + limit - 1) / limit,
	})
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c *gin.Context) {
	actor, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	order, err := h.useCase.Get(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// Update handles PUT /orders/:id.
func (h *OrderHandler) Update(c *gin.Context) {
	actor, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var patch OrderPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.useCase.Update(c.Request.Context(), actor, c.Param("id"), patch)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

// Delete handles DELETE /orders/:id.
func (h *OrderHandler) Delete(c *gin.Context) {
	actor, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func statusFor(err error) int {
	var stockErr *products.InsufficientStockError
	switch {
	case errors.Is(err, ErrOrderNotFound),
		errors.Is(err, ErrClientNotFound),
		errors.Is(err, products.ErrProductNotFound):
		return http.StatusNotFound
	case errors.As(err, &stockErr),
		errors.Is(err, products.ErrStockConflict),
		errors.Is(err, ErrDuplicateItem),
		errors.Is(err, ErrInvalidQuantity),
		errors.Is(err, ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

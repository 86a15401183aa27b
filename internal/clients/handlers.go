package clients

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ClientUseCaseInterface defines the use case surface the handlers need.
type ClientUseCaseInterface interface {
	Create(ctx context.Context, req CreateClientRequest) (*Client, error)
	List(ctx context.Context, search string, skip, limit int) ([]Client, int, error)
	Get(ctx context.Context, id string) (*Client, error)
	Update(ctx context.Context, id string, patch ClientPatch) (*Client, error)
	Delete(ctx context.Context, id string) error
}

// ClientHandler contains the HTTP handlers for clients.
type ClientHandler struct {
	useCase ClientUseCaseInterface
}

func NewClientHandler(useCase ClientUseCaseInterface) *ClientHandler {
	return &ClientHandler{useCase: useCase}
}

func (h *ClientHandler) Create(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.useCase.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if skip < 0 || limit <= 0 || limit > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pagination parameters"})
		return
	}

	clients, total, err := h.useCase.List(c.Request.Context(), c.Query("search"), skip, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients":     clients,
		"total":       total,
		"page":        skip/limit + 1,
		"page_size":   limit,
		"total_pages": (total + limit - 1) / limit,
	})
}

func (h *ClientHandler) Get(c *gin.Context) {
	client, err := h.useCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Update(c *gin.Context) {
	var patch ClientPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.useCase.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c *gin.Context) {
	if err := h.useCase.Delete(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrClientNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrClientAlreadyExists), errors.Is(err, ErrInvalidCPF):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

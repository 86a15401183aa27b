package users

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/orders-api/internal/auth"
)

// UserUseCaseInterface defines the use case surface the handlers need.
type UserUseCaseInterface interface {
	Register(ctx context.Context, req CreateUserRequest) (*User, error)
	Authenticate(ctx context.Context, username, password string) (*User, error)
	Get(ctx context.Context, id string) (*User, error)
}

// UserHandler contains the HTTP handlers for users and token issuance.
type UserHandler struct {
	useCase UserUseCaseInterface
	tokens  *auth.TokenManager
}

func NewUserHandler(useCase UserUseCaseInterface, tokens *auth.TokenManager) *UserHandler {
	return &UserHandler{useCase: useCase, tokens: tokens}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user account.
func (h *UserHandler) Register(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.useCase.Register(c.Request.Context(), req)
	if errors.Is(err, ErrUserAlreadyExists) {
		c.JSON(http.StatusConflict, gin.H{"error": ErrUserAlreadyExists.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// Login authenticates the credentials and issues an access token.
func (h *UserHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.useCase.Authenticate(c.Request.Context(), req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": ErrInvalidCredentials.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokens.Issue(auth.Identity{
		UserID:   user.ID,
		Username: user.Username,
		Admin:    user.Admin,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"access_token": token, "token_type": "bearer"})
}

// Me returns the authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	identity, ok := auth.IdentityFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	user, err := h.useCase.Get(c.Request.Context(), identity.UserID)
	if errors.Is(err, ErrUserNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrUserNotFound.Error()})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, user)
}

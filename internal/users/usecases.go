package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("username or email already registered")
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// CreateUserRequest is the registration payload.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name"`
	Password string `json:"password" binding:"required,min=6"`
}

// UserUseCase contains the business logic for user accounts.
type UserUseCase struct {
	repository Repository
}

func NewUserUseCase(repository Repository) *UserUseCase {
	return &UserUseCase{repository: repository}
}

// Register creates a new user with a bcrypt password hash.
func (uc *UserUseCase) Register(ctx context.Context, req CreateUserRequest) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := NewUser(req.Username, req.Email, req.FullName, string(hash))
	if err := uc.repository.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("✅ User registered")
	return user, nil
}

// Authenticate verifies the credentials and returns the matching user.
// Unknown usernames and wrong passwords are indistinguishable to the caller.
func (uc *UserUseCase) Authenticate(ctx context.Context, username, password string) (*User, error) {
	user, err := uc.repository.GetUserByUsername(ctx, username)
	if errors.Is(err, ErrUserNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.Active {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// Get returns a user by id.
func (uc *UserUseCase) Get(ctx context.Context, id string) (*User, error) {
	return uc.repository.GetUserByID(ctx, id)
}

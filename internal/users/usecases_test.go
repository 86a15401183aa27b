package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

// MockRepository simulates the user repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUser(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

func (m *MockRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	args := m.Called(ctx, username)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

func registeredUser(t *testing.T, password string) *User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return NewUser("joao", "joao@example.com", "João Silva", string(hash))
}

func TestRegister_HashesThePassword(t *testing.T) {
	repo := new(MockRepository)
	uc := NewUserUseCase(repo)

	var stored *User
	repo.On("CreateUser", mock.Anything, mock.AnythingOfType("*users.User")).
		Run(func(args mock.Arguments) {
			stored = args.Get(1).(*User)
		}).
		Return(nil)

	user, err := uc.Register(context.Background(), CreateUserRequest{
		Username: "joao",
		Email:    "joao@example.com",
		FullName: "João Silva",
		Password: "secret123",
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.True(t, user.Active)
	assert.False(t, user.Admin)
	// the clear text never reaches storage
	assert.NotEqual(t, "secret123", stored.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("secret123")))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := new(MockRepository)
	uc := NewUserUseCase(repo)

	repo.On("CreateUser", mock.Anything, mock.Anything).Return(ErrUserAlreadyExists)

	_, err := uc.Register(context.Background(), CreateUserRequest{
		Username: "joao",
		Email:    "joao@example.com",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthenticate_Success(t *testing.T) {
	repo := new(MockRepository)
	uc := NewUserUseCase(repo)
	existing := registeredUser(t, "secret123")

	repo.On("GetUserByUsername", mock.Anything, "joao").Return(existing, nil)

	user, err := uc.Authenticate(context.Background(), "joao", "secret123")

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, user.ID)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	repo := new(MockRepository)
	uc := NewUserUseCase(repo)
	existing := registeredUser(t, "secret123")
	inactive := registeredUser(t, "secret123")
	inactive.Active = false

	repo.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, ErrUserNotFound)
	repo.On("GetUserByUsername", mock.Anything, "joao").Return(existing, nil)
	repo.On("GetUserByUsername", mock.Anything, "maria").Return(inactive, nil)

	_, unknownErr := uc.Authenticate(context.Background(), "ghost", "whatever")
	_, wrongPassErr := uc.Authenticate(context.Background(), "joao", "not-the-password")
	_, inactiveErr := uc.Authenticate(context.Background(), "maria", "secret123")

	assert.ErrorIs(t, unknownErr, ErrInvalidCredentials)
	assert.ErrorIs(t, wrongPassErr, ErrInvalidCredentials)
	assert.ErrorIs(t, inactiveErr, ErrInvalidCredentials)
	assert.Equal(t, unknownErr, wrongPassErr)
}

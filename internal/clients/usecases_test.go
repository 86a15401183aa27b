package clients

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/matheusmosca/orders-api/internal/field"
	"github.com/matheusmosca/orders-api/internal/postgres"
)

// MockRepository simulates the client repository.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateClient(ctx context.Context, client *Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockRepository) GetClientByID(ctx context.Context, id string) (*Client, error) {
	args := m.Called(ctx, id)
	client, _ := args.Get(0).(*Client)
	return client, args.Error(1)
}

func (m *MockRepository) ClientExists(ctx context.Context, tx postgres.Tx, id string) (bool, error) {
	args := m.Called(ctx, tx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListClients(ctx context.Context, search string, skip, limit int) ([]Client, int, error) {
	args := m.Called(ctx, search, skip, limit)
	page, _ := args.Get(0).([]Client)
	return page, args.Int(1), args.Error(2)
}

func (m *MockRepository) UpdateClient(ctx context.Context, client *Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockRepository) DeleteClient(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func TestCreateClient_NormalizesCPF(t *testing.T) {
	repo := new(MockRepository)
	uc := NewClientUseCase(repo)

	repo.On("CreateClient", mock.Anything, mock.AnythingOfType("*clients.Client")).Return(nil)

	client, err := uc.Create(context.Background(), CreateClientRequest{
		Name:  "Maria Souza",
		Email: "maria@example.com",
		CPF:   "529.982.247-25",
	})

	assert.NoError(t, err)
	assert.Equal(t, "52998224725", client.CPF)
	assert.True(t, client.Active)
	repo.AssertExpectations(t)
}

func TestCreateClient_InvalidCPF(t *testing.T) {
	repo := new(MockRepository)
	uc := NewClientUseCase(repo)

	_, err := uc.Create(context.Background(), CreateClientRequest{
		Name:  "Maria Souza",
		Email: "maria@example.com",
		CPF:   "111.111.111-11",
	})

	assert.ErrorIs(t, err, ErrInvalidCPF)
	repo.AssertNotCalled(t, "CreateClient", mock.Anything, mock.Anything)
}

func TestCreateClient_DuplicateEmailOrCPF(t *testing.T) {
	repo := new(MockRepository)
	uc := NewClientUseCase(repo)

	repo.On("CreateClient", mock.Anything, mock.Anything).Return(ErrClientAlreadyExists)

	_, err := uc.Create(context.Background(), CreateClientRequest{
		Name:  "Maria Souza",
		Email: "maria@example.com",
		CPF:   "52998224725",
	})

	assert.ErrorIs(t, err, ErrClientAlreadyExists)
}

func TestUpdateClient_PartialPatch(t *testing.T) {
	repo := new(MockRepository)
	uc := NewClientUseCase(repo)

	existing := NewClient("Maria Souza", "maria@example.com", "52998224725", "", "")
	repo.On("GetClientByID", mock.Anything, existing.ID).Return(existing, nil)
	repo.On("UpdateClient", mock.Anything, existing).Return(nil)

	client, err := uc.Update(context.Background(), existing.ID, ClientPatch{
		Phone: field.Some("11 99999-0000"),
	})

	assert.NoError(t, err)
	assert.Equal(t, "11 99999-0000", client.Phone)
	// untouched fields keep their values
	assert.Equal(t, "Maria Souza", client.Name)
	assert.Equal(t, "52998224725", client.CPF)
	repo.AssertExpectations(t)
}

func TestUpdateClient_InvalidCPFPatchRejected(t *testing.T) {
	repo := new(MockRepository)
	uc := NewClientUseCase(repo)

	existing := NewClient("Maria Souza", "maria@example.com", "52998224725", "", "")
	repo.On("GetClientByID", mock.Anything, existing.ID).Return(existing, nil)

	_, err := uc.Update(context.Background(), existing.ID, ClientPatch{
		CPF: field.Some("12345678900"),
	})

	assert.ErrorIs(t, err, ErrInvalidCPF)
	repo.AssertNotCalled(t, "UpdateClient", mock.Anything, mock.Anything)
}

func TestUpdateClient_NotFound(t *testing.T) {
	repo := new(MockRepository)
	uc := NewClientUseCase(repo)

	repo.On("GetClientByID", mock.Anything, "ghost").Return(nil, ErrClientNotFound)

	_, err := uc.Update(context.Background(), "ghost", ClientPatch{Name: field.Some("x")})

	assert.ErrorIs(t, err, ErrClientNotFound)
}

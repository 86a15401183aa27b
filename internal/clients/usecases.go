package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/matheusmosca/orders-api/internal/field"
)

var (
	ErrClientNotFound      = errors.New("client not found")
	ErrClientAlreadyExists = errors.New("email or CPF already registered")
)

// CreateClientRequest is the payload for registering a client.
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required,max=100"`
	Email   string `json:"email" binding:"required,email,max=100"`
	CPF     string `json:"cpf" binding:"required"`
	Phone   string `json:"phone" binding:"omitempty,min=8,max=20"`
	Address string `json:"address" binding:"max=200"`
}

// ClientPatch carries the partially updatable fields. Absent fields keep the
// stored value.
type ClientPatch struct {
	Name    field.Optional[string] `json:"name"`
	Email   field.Optional[string] `json:"email"`
	CPF     field.Optional[string] `json:"cpf"`
	Phone   field.Optional[string] `json:"phone"`
	Address field.Optional[string] `json:"address"`
	Active  field.Optional[bool]   `json:"active"`
}

// Apply merges the patch into the client. CPF values are normalized and
// validated before being applied.
func (p ClientPatch) Apply(client *Client) error {
	if v, ok := p.Name.Get(); ok {
		client.Name = v
	}
	if v, ok := p.Email.Get(); ok {
		client.Email = v
	}
	if v, ok := p.CPF.Get(); ok {
		cpf, err := NormalizeCPF(v)
		if err != nil {
			return err
		}
		client.CPF = cpf
	}
	if v, ok := p.Phone.Get(); ok {
		client.Phone = v
	}
	if v, ok := p.Address.Get(); ok {
		client.Address = v
	}
	if v, ok := p.Active.Get(); ok {
		client.Active = v
	}
	return nil
}

// ClientUseCase contains the business logic for clients.
type ClientUseCase struct {
	repository Repository
}

func NewClientUseCase(repository Repository) *ClientUseCase {
	return &ClientUseCase{repository: repository}
}

// Create registers a new client after validating the CPF.
func (uc *ClientUseCase) Create(ctx context.Context, req CreateClientRequest) (*Client, error) {
	cpf, err := NormalizeCPF(req.CPF)
	if err != nil {
		return nil, err
	}

	client := NewClient(req.Name, req.Email, cpf, req.Phone, req.Address)
	if err := uc.repository.CreateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	log.Info().Str("client_id", client.ID).Msg("✅ Client created")
	return client, nil
}

// List returns a page of clients plus the unpaginated total.
func (uc *ClientUseCase) List(ctx context.Context, search string, skip, limit int) ([]Client, int, error) {
	return uc.repository.ListClients(ctx, search, skip, limit)
}

// Get returns a client by id.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*Client, error) {
	return uc.repository.GetClientByID(ctx, id)
}

// Update applies a partial update to the client.
func (uc *ClientUseCase) Update(ctx context.Context, id string, patch ClientPatch) (*Client, error) {
	client, err := uc.repository.GetClientByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := patch.Apply(client); err != nil {
		return nil, err
	}

	if err := uc.repository.UpdateClient(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

// Delete removes a client.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	return uc.repository.DeleteClient(ctx, id)
}

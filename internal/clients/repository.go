package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matheusmosca/orders-api/internal/postgres"
)

// Repository defines the database operations for clients.
type Repository interface {
	CreateClient(ctx context.Context, client *Client) error
	GetClientByID(ctx context.Context, id string) (*Client, error)
	ClientExists(ctx context.Context, tx postgres.Tx, id string) (bool, error)
	ListClients(ctx context.Context, search string, skip, limit int) ([]Client, int, error)
	UpdateClient(ctx context.Context, client *Client) error
	DeleteClient(ctx context.Context, id string) error
}

// ClientRepository implements Repository using PostgreSQL.
type ClientRepository struct {
	db *pgxpool.Pool
}

func NewClientRepository(db *pgxpool.Pool) Repository {
	return &ClientRepository{db: db}
}

const uniqueViolationCode = "23505"

const clientColumns = `id, name, email, cpf, phone, address, active, created_at, updated_at`

func (r *ClientRepository) CreateClient(ctx context.Context, client *Client) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO clients (id, name, email, cpf, phone, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, client.ID, client.Name, client.Email, client.CPF, client.Phone, client.Address,
		client.Active, client.CreatedAt, client.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrClientAlreadyExists
	}
	return err
}

func (r *ClientRepository) GetClientByID(ctx context.Context, id string) (*Client, error) {
	var client Client
	err := r.db.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id).
		Scan(&client.ID, &client.Name, &client.Email, &client.CPF, &client.Phone,
			&client.Address, &client.Active, &client.CreatedAt, &client.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrClientNotFound
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// ClientExists checks for the client inside the caller's transaction. Used
// by the order core as its read-side collaborator.
func (r *ClientRepository) ClientExists(ctx context.Context, tx postgres.Tx, id string) (bool, error) {
	var exists bool
	err := postgres.Unwrap(tx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1 AND active)`, id,
	).Scan(&exists)
	return exists, err
}

func (r *ClientRepository) ListClients(ctx context.Context, search string, skip, limit int) ([]Client, int, error) {
	where := ``
	args := []any{}
	if search != "" {
		where = `WHERE name ILIKE $1 OR email ILIKE $1`
		args = append(args, "%"+search+"%")
	}

	var total int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clients `+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count clients: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM clients %s ORDER BY created_at DESC OFFSET $%d LIMIT $%d`,
		clientColumns, where, len(args)+1, len(args)+2)
	args = append(args, skip, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := []Client{}
	for rows.Next() {
		var client Client
		if err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.CPF, &client.Phone,
			&client.Address, &client.Active, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, 0, err
		}
		clients = append(clients, client)
	}
	return clients, total, rows.Err()
}

func (r *ClientRepository) UpdateClient(ctx context.Context, client *Client) error {
	_, err := r.db.Exec(ctx, `
		UPDATE clients
		SET name = $1, email = $2, cpf = $3, phone = $4, address = $5, active = $6, updated_at = NOW()
		WHERE id = $7
	`, client.Name, client.Email, client.CPF, client.Phone, client.Address, client.Active, client.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrClientAlreadyExists
	}
	return err
}

func (r *ClientRepository) DeleteClient(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrClientNotFound
	}
	return nil
}

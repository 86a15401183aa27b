package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the database operations for users.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
}

// UserRepository implements Repository using PostgreSQL.
type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) Repository {
	return &UserRepository{db: db}
}

const uniqueViolationCode = "23505"

func (r *UserRepository) CreateUser(ctx context.Context, user *User) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO users (id, username, email, full_name, hashed_password, admin, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, user.ID, user.Username, user.Email, user.FullName, user.HashedPassword, user.Admin, user.Active, user.CreatedAt, user.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return ErrUserAlreadyExists
	}
	return err
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	return r.scanUser(ctx, `WHERE id = $1`, id)
}

func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	return r.scanUser(ctx, `WHERE username = $1`, username)
}

func (r *UserRepository) scanUser(ctx context.Context, where string, arg any) (*User, error) {
	var user User
	err := r.db.QueryRow(ctx, `
		SELECT id, username, email, full_name, hashed_password, admin, active, created_at, updated_at
		FROM users `+where,
		arg,
	).Scan(&user.ID, &user.Username, &user.Email, &user.FullName, &user.HashedPassword,
		&user.Admin, &user.Active, &user.CreatedAt, &user.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

package users

import (
	"time"

	"github.com/google/uuid"
)

// User represents an operator account of the API.
type User struct {
	ID             string    `json:"id" db:"id"`
	Username       string    `json:"username" db:"username"`
	Email          string    `json:"email" db:"email"`
	FullName       string    `json:"full_name" db:"full_name"`
	HashedPassword string    `json:"-" db:"hashed_password"`
	Admin          bool      `json:"admin" db:"admin"`
	Active         bool      `json:"active" db:"active"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User with a fresh id and timestamps.
func NewUser(username, email, fullName, hashedPassword string) *User {
	now := time.Now()
	return &User{
		ID:             uuid.New().String(),
		Username:       username,
		Email:          email,
		FullName:       fullName,
		HashedPassword: hashedPassword,
		Admin:          false,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

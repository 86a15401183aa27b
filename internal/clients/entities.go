package clients

import (
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

var ErrInvalidCPF = errors.New("invalid CPF")

// Client represents a customer that orders are placed for. The order core
// only reads clients; mutation happens through the admin CRUD here.
type Client struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	CPF       string    `json:"cpf" db:"cpf"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewClient creates a new Client with a fresh id and timestamps.
func NewClient(name, email, cpf, phone, address string) *Client {
	now := time.Now()
	return &Client{
		ID:        uuid.New().String(),
		Name:      name,
		Email:     email,
		CPF:       cpf,
		Phone:     phone,
		Address:   address,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeCPF strips formatting and validates the CPF check digits,
// returning the 11-digit canonical form.
func NormalizeCPF(cpf string) (string, error) {
	var digits strings.Builder
	for _, r := range cpf {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	s := digits.String()

	if len(s) != 11 {
		return "", ErrInvalidCPF
	}

	// CPFs with all digits equal pass the checksum but are not valid
	if strings.Count(s, s[:1]) == 11 {
		return "", ErrInvalidCPF
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(s[i]-'0') * (10 - i)
	}
	d1 := (sum * 10 % 11) % 10
	if int(s[9]-'0') != d1 {
		return "", ErrInvalidCPF
	}

	sum = 0
	for i := 0; i < 10; i++ {
		sum += int(s[i]-'0') * (11 - i)
	}
	d2 := (sum * 10 % 11) % 10
	if int(s[10]-'0') != d2 {
		return "", ErrInvalidCPF
	}

	return s, nil
}

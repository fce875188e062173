package domain

import (
	"errors"
	"time"
)

// Role represents a login identity's access level.
type Role string

const (
	// RoleAdmin can view every account and the ledger-wide reports.
	RoleAdmin Role = "Admin"

	// RoleCustomer can operate only on its own bound account.
	RoleCustomer Role = "Customer"
)

// IsValid checks if the role is a known role.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleCustomer
}

// CanViewAllAccounts reports whether the role may read arbitrary accounts.
func (r Role) CanViewAllAccounts() bool {
	return r == RoleAdmin
}

// Credential maps a login identity to at most one account. It is consumed
// only at the boundary; the transaction engine never reads it.
type Credential struct {
	ID            int64
	Username      string
	PasswordHash  string
	Role          Role
	AccountNumber *int64
	Active        bool
	CreatedAt     time.Time
}

// Authentication errors
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrUsernameTaken      = errors.New("username already taken")
)

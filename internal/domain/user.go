// Package domain contains the core data types for the fleet manager.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
//
// JSON field names follow the wire contract of the original API, which is in
// Portuguese; Go identifiers are English.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the authorization profile of a user.
// Managers have full CRUD rights; operators have read-only access plus the
// ability to start and finish their own trips.
type Role string

const (
	RoleManager  Role = "MANAGER"
	RoleOperator Role = "OPERATOR"
)

// Valid reports whether r is one of the two registerable roles.
func (r Role) Valid() bool {
	return r == RoleManager || r == RoleOperator
}

// User is an account that can authenticate against the API.
// PasswordHash is a bcrypt hash and is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

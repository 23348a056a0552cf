package domain

import (
	"time"

	"github.com/google/uuid"
)

// Driver is a person licensed to drive fleet vehicles.
// UserID links the driver to an operator account; nil means the driver has
// no login and can only be assigned to trips by a manager. At most one
// driver may be linked to a given user.
type Driver struct {
	ID              uuid.UUID  `json:"id"`
	FullName        string     `json:"nome_completo"`
	CPF             string     `json:"cpf"`
	LicenseNumber   string     `json:"cnh_numero"`
	LicenseCategory string     `json:"cnh_categoria"`
	LicenseDue      Date       `json:"cnh_validade"`
	Active          bool       `json:"ativo"`
	UserID          *uuid.UUID `json:"user_id,omitempty"`
	CreatedAt       time.Time  `json:"criado_em"`
	UpdatedAt       time.Time  `json:"atualizado_em"`
}

// LicenseExpired reports whether the driver's license lapsed before today.
func (d Driver) LicenseExpired(today Date) bool {
	return d.LicenseDue.Before(today)
}

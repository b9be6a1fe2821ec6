package events

import (
	"github.com/google/uuid"
)

// Estos son contratos de integración, NO entidades del dominio.
type UserCreated struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Status    string    `json:"status"`
}

type UserUpdated struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Status    string    `json:"status"`
}

type UserDeleted struct {
	ID uuid.UUID `json:"id"`
}

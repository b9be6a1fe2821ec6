package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
)

type UserStatus string

const (
	UserUnconfirmed UserStatus = "UNCONFIRMED"
	UserConfirmed   UserStatus = "CONFIRMED"
	UserBlocked     UserStatus = "BLOCKED"
)

func (s UserStatus) Valid() bool {
	switch s {
	case UserUnconfirmed, UserConfirmed, UserBlocked:
		return true
	}
	return false
}

// validate usa las mismas reglas que el binding de gin en los handlers.
var validate = validator.New()

// User representa un usuario del sistema.
type User struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Email     string     `json:"email" db:"email"`
	FirstName string     `json:"firstName" db:"first_name"`
	LastName  string     `json:"lastName" db:"last_name"`
	Status    UserStatus `json:"status" db:"status"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// NewUser crea un usuario pendiente de confirmar.
func NewUser(email, firstName, lastName string) (*User, error) {
	now := time.Now().UTC()
	u := &User{
		ID:        uuid.New(),
		Email:     strings.TrimSpace(email),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Status:    UserUnconfirmed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate comprueba los invariantes de la entidad.
func (u *User) Validate() error {
	if err := validate.Var(u.Email, "required,email"); err != nil {
		return fmt.Errorf("%w: email %q", ErrInvalidUser, u.Email)
	}
	if u.FirstName == "" || u.LastName == "" {
		return fmt.Errorf("%w: first and last name are required", ErrInvalidUser)
	}
	if !u.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidUser, u.Status)
	}
	return nil
}

// --- Métodos de dominio ---

// UserChanges son los campos modificables; nil significa sin cambio.
type UserChanges struct {
	Email     *string
	FirstName *string
	LastName  *string
	Status    *UserStatus
}

func (u *User) Apply(ch UserChanges) error {
	next := *u
	if ch.Email != nil {
		next.Email = strings.TrimSpace(*ch.Email)
	}
	if ch.FirstName != nil {
		next.FirstName = strings.TrimSpace(*ch.FirstName)
	}
	if ch.LastName != nil {
		next.LastName = strings.TrimSpace(*ch.LastName)
	}
	if ch.Status != nil {
		next.Status = *ch.Status
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*u = next
	return nil
}

func (u *User) PartitionKey() string {
	return u.ID.String()
}

// ColumnValue expone la fila al compilador de listados.
func (u User) ColumnValue(column string) (any, bool) {
	switch column {
	case "id":
		return u.ID, true
	case "email":
		return u.Email, true
	case "first_name":
		return u.FirstName, true
	case "last_name":
		return u.LastName, true
	case "status":
		return string(u.Status), true
	case "created_at":
		return u.CreatedAt, true
	case "updated_at":
		return u.UpdatedAt, true
	}
	return nil, false
}

var _ sharedBus.Keyer = (*User)(nil)

package events

import (
	"github.com/google/uuid"
)

// WishlistSaved se emite al crear o modificar una lista.
type WishlistSaved struct {
	ID      uuid.UUID `json:"id"`
	Title   string    `json:"title"`
	OwnerID uuid.UUID `json:"ownerId"`
}

type WishlistDeleted struct {
	ID uuid.UUID `json:"id"`
}

// WishSaved se emite al crear o modificar un deseo.
type WishSaved struct {
	ID         uuid.UUID `json:"id"`
	WishlistID uuid.UUID `json:"wishlistId"`
	Title      string    `json:"title"`
	Status     string    `json:"status"`
	Complexity string    `json:"complexity"`
	Priority   int       `json:"priority"`
}

type WishDeleted struct {
	ID         uuid.UUID `json:"id"`
	WishlistID uuid.UUID `json:"wishlistId"`
}

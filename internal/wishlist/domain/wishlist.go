package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
)

const maxTitleLength = 255

// WishList agrupa los deseos de un usuario.
type WishList struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Title     string    `json:"title" db:"title"`
	OwnerID   uuid.UUID `json:"ownerId" db:"owner_id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func NewWishList(title string, ownerID uuid.UUID) (*WishList, error) {
	now := time.Now().UTC()
	w := &WishList{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(title),
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *WishList) Validate() error {
	if err := validateTitle(w.Title); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWishlist, err)
	}
	if w.OwnerID == uuid.Nil {
		return fmt.Errorf("%w: owner is required", ErrInvalidWishlist)
	}
	return nil
}

// Rename cambia el título manteniendo los invariantes.
func (w *WishList) Rename(title string) error {
	title = strings.TrimSpace(title)
	if err := validateTitle(title); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWishlist, err)
	}
	w.Title = title
	w.UpdatedAt = time.Now().UTC()
	return nil
}

func (w *WishList) PartitionKey() string {
	return w.ID.String()
}

func (w WishList) ColumnValue(column string) (any, bool) {
	switch column {
	case "id":
		return w.ID, true
	case "title":
		return w.Title, true
	case "owner_id":
		return w.OwnerID, true
	case "created_at":
		return w.CreatedAt, true
	case "updated_at":
		return w.UpdatedAt, true
	}
	return nil, false
}

func validateTitle(title string) error {
	if title == "" {
		return fmt.Errorf("title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("title longer than %d characters", maxTitleLength)
	}
	return nil
}

var _ sharedBus.Keyer = (*WishList)(nil)

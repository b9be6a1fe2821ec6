package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
)

type WishStatus string

const (
	StatusCreated    WishStatus = "CREATED"
	StatusInProgress WishStatus = "IN PROGRESS"
	StatusCompleted  WishStatus = "COMPLETED"
	StatusArchived   WishStatus = "ARCHIVED"
	StatusOutdated   WishStatus = "OUTDATED"
)

func (s WishStatus) Valid() bool {
	switch s {
	case StatusCreated, StatusInProgress, StatusCompleted, StatusArchived, StatusOutdated:
		return true
	}
	return false
}

type Complexity string

const (
	ComplexityVeryEasy Complexity = "VERY EASY"
	ComplexityEasy     Complexity = "EASY"
	ComplexityNormal   Complexity = "NORMAL"
	ComplexityHard     Complexity = "HARD"
	ComplexityVeryHard Complexity = "VERY HARD"
	ComplexityEpic     Complexity = "EPIC"
)

func (c Complexity) Valid() bool {
	switch c {
	case ComplexityVeryEasy, ComplexityEasy, ComplexityNormal, ComplexityHard, ComplexityVeryHard, ComplexityEpic:
		return true
	}
	return false
}

// Priority se guarda como entero para poder ordenar: 1 LOW, 2 NORMAL, 3 HIGH.
type Priority int

const (
	PriorityLow    Priority = 1
	PriorityNormal Priority = 2
	PriorityHigh   Priority = 3
)

func (p Priority) Valid() bool { return p >= PriorityLow && p <= PriorityHigh }

// Wish es un deseo dentro de una lista.
type Wish struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	WishlistID  uuid.UUID  `json:"wishlistId" db:"wishlist_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      WishStatus `json:"status" db:"status"`
	Complexity  Complexity `json:"complexity" db:"complexity"`
	Priority    Priority   `json:"priority" db:"priority"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// NewWishParams son los datos de alta; los vacíos toman valores por defecto.
type NewWishParams struct {
	WishlistID  uuid.UUID
	Title       string
	Description *string
	Complexity  Complexity
	Priority    Priority
}

func NewWish(p NewWishParams) (*Wish, error) {
	now := time.Now().UTC()
	w := &Wish{
		ID:          uuid.New(),
		WishlistID:  p.WishlistID,
		Title:       strings.TrimSpace(p.Title),
		Description: p.Description,
		Status:      StatusCreated,
		Complexity:  p.Complexity,
		Priority:    p.Priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if w.Complexity == "" {
		w.Complexity = ComplexityNormal
	}
	if w.Priority == 0 {
		w.Priority = PriorityNormal
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *Wish) Validate() error {
	if err := validateTitle(w.Title); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWish, err)
	}
	if w.WishlistID == uuid.Nil {
		return fmt.Errorf("%w: wishlist is required", ErrInvalidWish)
	}
	if !w.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidWish, w.Status)
	}
	if !w.Complexity.Valid() {
		return fmt.Errorf("%w: complexity %q", ErrInvalidWish, w.Complexity)
	}
	if !w.Priority.Valid() {
		return fmt.Errorf("%w: priority %d", ErrInvalidWish, w.Priority)
	}
	return nil
}

// WishChanges son los campos modificables; nil significa sin cambio.
type WishChanges struct {
	Title       *string
	Description *string
	Status      *WishStatus
	Complexity  *Complexity
	Priority    *Priority
}

func (w *Wish) Apply(ch WishChanges) error {
	next := *w
	if ch.Title != nil {
		next.Title = strings.TrimSpace(*ch.Title)
	}
	if ch.Description != nil {
		next.Description = ch.Description
	}
	if ch.Status != nil {
		next.Status = *ch.Status
	}
	if ch.Complexity != nil {
		next.Complexity = *ch.Complexity
	}
	if ch.Priority != nil {
		next.Priority = *ch.Priority
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*w = next
	return nil
}

func (w *Wish) PartitionKey() string {
	return w.WishlistID.String()
}

func (w Wish) ColumnValue(column string) (any, bool) {
	switch column {
	case "id":
		return w.ID, true
	case "wishlist_id":
		return w.WishlistID, true
	case "title":
		return w.Title, true
	case "description":
		return w.Description, true
	case "status":
		return string(w.Status), true
	case "complexity":
		return string(w.Complexity), true
	case "priority":
		return int64(w.Priority), true
	case "created_at":
		return w.CreatedAt, true
	case "updated_at":
		return w.UpdatedAt, true
	}
	return nil, false
}

var _ sharedBus.Keyer = (*Wish)(nil)

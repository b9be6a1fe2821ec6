package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	sharedBus "github.com/davicafu/wishlab/shared/platform/bus"
)

type TodoStatus string

const (
	TodoCreated   TodoStatus = "CREATED"
	TodoInWork    TodoStatus = "IN WORK"
	TodoCompleted TodoStatus = "COMPLETED"
	TodoArchived  TodoStatus = "ARCHIVED"
)

func (s TodoStatus) Valid() bool {
	switch s {
	case TodoCreated, TodoInWork, TodoCompleted, TodoArchived:
		return true
	}
	return false
}

const maxTitleLength = 255

// Todo es una tarea suelta; el título es único.
type Todo struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      TodoStatus `json:"status" db:"status"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

func NewTodo(title string, description *string) (*Todo, error) {
	now := time.Now().UTC()
	t := &Todo{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(title),
		Description: description,
		Status:      TodoCreated,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Todo) Validate() error {
	if t.Title == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidTodo)
	}
	if len([]rune(t.Title)) > maxTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", ErrInvalidTodo, maxTitleLength)
	}
	if !t.Status.Valid() {
		return fmt.Errorf("%w: status %q", ErrInvalidTodo, t.Status)
	}
	return nil
}

// --- Métodos de dominio ---

type TodoChanges struct {
	Title       *string
	Description *string
	Status      *TodoStatus
}

func (t *Todo) Apply(ch TodoChanges) error {
	next := *t
	if ch.Title != nil {
		next.Title = strings.TrimSpace(*ch.Title)
	}
	if ch.Description != nil {
		next.Description = ch.Description
	}
	if ch.Status != nil {
		next.Status = *ch.Status
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.UpdatedAt = time.Now().UTC()
	*t = next
	return nil
}

func (t *Todo) Complete() error {
	done := TodoCompleted
	return t.Apply(TodoChanges{Status: &done})
}

func (t *Todo) PartitionKey() string {
	return t.ID.String()
}

func (t Todo) ColumnValue(column string) (any, bool) {
	switch column {
	case "id":
		return t.ID, true
	case "title":
		return t.Title, true
	case "description":
		return t.Description, true
	case "status":
		return string(t.Status), true
	case "created_at":
		return t.CreatedAt, true
	case "updated_at":
		return t.UpdatedAt, true
	}
	return nil, false
}

var _ sharedBus.Keyer = (*Todo)(nil)

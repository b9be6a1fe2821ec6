package domain

import (
	"reflect"

	"github.com/google/uuid"

	sharedDomain "github.com/davicafu/wishlab/shared/domain"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
)

const (
	WishlistCreated = "wishlist.created"
	WishlistUpdated = "wishlist.updated"
	WishlistDeleted = "wishlist.deleted"

	WishCreated = "wish.created"
	WishUpdated = "wish.updated"
	WishDeleted = "wish.deleted"
)

const (
	WishlistTopic         = "wishlist"
	WishlistAggregateType = "wishlist"
	WishAggregateType     = "wish"
)

func NewEventRegistry() map[string]sharedEvents.EventMetadata {
	saved := reflect.TypeOf(sharedEvents.WishlistSaved{})
	wishSaved := reflect.TypeOf(sharedEvents.WishSaved{})
	return map[string]sharedEvents.EventMetadata{
		WishlistCreated: {Type: saved, Topic: WishlistTopic},
		WishlistUpdated: {Type: saved, Topic: WishlistTopic},
		WishlistDeleted: {Type: reflect.TypeOf(sharedEvents.WishlistDeleted{}), Topic: WishlistTopic},
		WishCreated:     {Type: wishSaved, Topic: WishlistTopic},
		WishUpdated:     {Type: wishSaved, Topic: WishlistTopic},
		WishDeleted:     {Type: reflect.TypeOf(sharedEvents.WishDeleted{}), Topic: WishlistTopic},
	}
}

// ---------------- Eventos de outbox ----------------

func NewWishlistSavedEvent(eventType string, w *WishList) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(WishlistAggregateType, w.ID, eventType, sharedEvents.WishlistSaved{
		ID: w.ID, Title: w.Title, OwnerID: w.OwnerID,
	})
}

func NewWishlistDeletedEvent(id uuid.UUID) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(WishlistAggregateType, id, WishlistDeleted, sharedEvents.WishlistDeleted{ID: id})
}

func NewWishSavedEvent(eventType string, w *Wish) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(WishAggregateType, w.ID, eventType, sharedEvents.WishSaved{
		ID:         w.ID,
		WishlistID: w.WishlistID,
		Title:      w.Title,
		Status:     string(w.Status),
		Complexity: string(w.Complexity),
		Priority:   int(w.Priority),
	})
}

func NewWishDeletedEvent(w *Wish) sharedDomain.OutboxEvent {
	return sharedDomain.NewOutboxEvent(WishAggregateType, w.ID, WishDeleted, sharedEvents.WishDeleted{ID: w.ID, WishlistID: w.WishlistID})
}

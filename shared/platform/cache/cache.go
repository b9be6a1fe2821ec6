package cache

import (
	"context"
	"time"
)

// Cache es una caché clave-valor genérica; los valores viajan serializados en JSON.
type Cache interface {
	// Get rellena dest (un puntero) y devuelve true si hubo acierto.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set guarda val con un TTL; ttl <= 0 significa sin caducidad.
	Set(ctx context.Context, key string, val interface{}, ttl time.Duration) error

	Delete(ctx context.Context, key string) error
}

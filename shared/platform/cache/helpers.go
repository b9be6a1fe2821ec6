package cache

import (
	"context"
	"time"

	"go.uber.org/zap"

	sharedUtils "github.com/davicafu/wishlab/shared/utils"
)

// Tiempo máximo de una escritura de caché en segundo plano.
const asyncTimeout = 200 * time.Millisecond

// AsyncCacheSet actualiza la caché en segundo plano sin bloquear la petición.
// Usa un contexto propio: la escritura debe completarse aunque la petición ya haya terminado.
func AsyncCacheSet(cache Cache, key string, value interface{}, ttl time.Duration, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := cache.Set(ctx, key, value, ttl); err != nil {
			log.Warn("⚠️ Cache update failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

// AsyncCacheDelete invalida una clave en segundo plano.
func AsyncCacheDelete(cache Cache, key string, log *zap.Logger) {
	if cache == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), asyncTimeout)
		defer cancel()

		if err := cache.Delete(ctx, key); err != nil {
			log.Warn("⚠️ Cache deletion failed", zap.String("key", key), zap.Error(err))
		}
	}()
}

// GetOrLoad implementa cache-aside: busca en caché, si falla carga con reintentos
// y repuebla la caché en segundo plano. isPermanent marca los errores que no se reintentan.
func GetOrLoad[T any](
	ctx context.Context,
	cache Cache,
	key string,
	ttl time.Duration,
	log *zap.Logger,
	isPermanent func(error) bool,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	if cache != nil {
		var cached T
		if hit, err := cache.Get(ctx, key, &cached); err != nil {
			log.Debug("Cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	var value *T
	err := sharedUtils.Retry(ctx, 3, 100*time.Millisecond, func() error {
		var errLoad error
		value, errLoad = load(ctx)
		if errLoad != nil && isPermanent != nil && isPermanent(errLoad) {
			return sharedUtils.Permanent(errLoad)
		}
		return errLoad
	})
	if err != nil {
		return nil, err
	}

	AsyncCacheSet(cache, key, value, ttl, log)
	return value, nil
}

package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/wishlab/internal/user/domain"
	sharedCache "github.com/davicafu/wishlab/shared/platform/cache"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

// UserService define los casos de uso relacionados con User.
type UserService struct {
	repo     domain.UserRepository
	cache    sharedCache.Cache
	cacheTTL time.Duration
	list     *sharedQuery.Endpoint
	log      *zap.Logger
}

// NewUserService constructor. cache puede ser nil.
func NewUserService(repo domain.UserRepository, cache sharedCache.Cache, cacheTTL time.Duration, listDefaultLimit int, log *zap.Logger) *UserService {
	return &UserService{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
		list:     domain.NewUserListEndpoint(listDefaultLimit),
		log:      log,
	}
}

func (s *UserService) CreateUser(ctx context.Context, email, firstName, lastName string) (*domain.User, error) {
	user, err := domain.NewUser(email, firstName, lastName)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, user, domain.NewUserCreatedEvent(user)); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, domain.CacheKeyByID(user.ID), user, s.cacheTTL, s.log)
	return user, nil
}

// UpdateUser aplica los cambios sobre la versión persistida, nunca sobre la cacheada.
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, changes domain.UserChanges) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := user.Apply(changes); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, user, domain.NewUserUpdatedEvent(user)); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, domain.CacheKeyByID(user.ID), user, s.cacheTTL, s.log)
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteByID(ctx, id, domain.NewUserDeletedEvent(id)); err != nil {
		return err
	}

	sharedCache.AsyncCacheDelete(s.cache, domain.CacheKeyByID(id), s.log)
	return nil
}

// GetUser obtiene un usuario (primero intenta desde cache).
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := sharedCache.GetOrLoad(ctx, s.cache, domain.CacheKeyByID(id), s.cacheTTL, s.log,
		func(err error) bool { return errors.Is(err, domain.ErrUserNotFound) },
		func(ctx context.Context) (*domain.User, error) { return s.repo.GetByID(ctx, id) },
	)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.log.Debug("User not found", zap.String("user_id", id.String()))
		} else {
			s.log.Error("Failed to fetch user", zap.String("user_id", id.String()), zap.Error(err))
		}
		return nil, err
	}
	return user, nil
}

// ListUsers compila la petición y devuelve una página proyectada.
func (s *UserService) ListUsers(ctx context.Context, req sharedQuery.ListRequest) (sharedQuery.Page, error) {
	q, err := s.list.Compile(req, s.log)
	if err != nil {
		return sharedQuery.Page{}, err
	}

	total, users, err := s.repo.List(ctx, q)
	if err != nil {
		return sharedQuery.Page{}, err
	}
	return sharedQuery.NewPage(q, total, users)
}

// InvalidateUser descarta la copia cacheada; lo usan los consumidores de eventos.
func (s *UserService) InvalidateUser(ctx context.Context, id uuid.UUID) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Delete(ctx, domain.CacheKeyByID(id))
}

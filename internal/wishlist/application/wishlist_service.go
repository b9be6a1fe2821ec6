package application

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/davicafu/wishlab/internal/wishlist/domain"
	sharedCache "github.com/davicafu/wishlab/shared/platform/cache"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

// WishlistService agrupa los casos de uso de listas y de sus deseos.
type WishlistService struct {
	lists     domain.WishlistRepository
	wishes    domain.WishRepository
	cache     sharedCache.Cache
	cacheTTL  time.Duration
	listQuery *sharedQuery.Endpoint
	wishQuery *sharedQuery.Endpoint
	log       *zap.Logger
}

// NewWishlistService constructor. cache puede ser nil.
func NewWishlistService(lists domain.WishlistRepository, wishes domain.WishRepository, cache sharedCache.Cache, cacheTTL time.Duration, listDefaultLimit int, log *zap.Logger) *WishlistService {
	return &WishlistService{
		lists:     lists,
		wishes:    wishes,
		cache:     cache,
		cacheTTL:  cacheTTL,
		listQuery: domain.NewWishlistListEndpoint(listDefaultLimit),
		wishQuery: domain.NewWishListEndpoint(listDefaultLimit),
		log:       log,
	}
}

// ---------------- Listas ----------------

func (s *WishlistService) CreateWishlist(ctx context.Context, title string, ownerID uuid.UUID) (*domain.WishList, error) {
	list, err := domain.NewWishList(title, ownerID)
	if err != nil {
		return nil, err
	}

	if err := s.lists.Create(ctx, list, domain.NewWishlistSavedEvent(domain.WishlistCreated, list)); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, domain.WishlistCacheKeyByID(list.ID), list, s.cacheTTL, s.log)
	return list, nil
}

func (s *WishlistService) GetWishlist(ctx context.Context, id uuid.UUID) (*domain.WishList, error) {
	list, err := sharedCache.GetOrLoad(ctx, s.cache, domain.WishlistCacheKeyByID(id), s.cacheTTL, s.log,
		func(err error) bool { return errors.Is(err, domain.ErrWishlistNotFound) },
		func(ctx context.Context) (*domain.WishList, error) { return s.lists.GetByID(ctx, id) },
	)
	if err != nil && !errors.Is(err, domain.ErrWishlistNotFound) {
		s.log.Error("Failed to fetch wishlist", zap.String("wishlist_id", id.String()), zap.Error(err))
	}
	return list, err
}

func (s *WishlistService) RenameWishlist(ctx context.Context, id uuid.UUID, title string) (*domain.WishList, error) {
	list, err := s.lists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := list.Rename(title); err != nil {
		return nil, err
	}

	if err := s.lists.Update(ctx, list, domain.NewWishlistSavedEvent(domain.WishlistUpdated, list)); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, domain.WishlistCacheKeyByID(list.ID), list, s.cacheTTL, s.log)
	return list, nil
}

// DeleteWishlist borra la lista junto con sus deseos.
func (s *WishlistService) DeleteWishlist(ctx context.Context, id uuid.UUID) error {
	if err := s.lists.DeleteByID(ctx, id, domain.NewWishlistDeletedEvent(id)); err != nil {
		return err
	}

	sharedCache.AsyncCacheDelete(s.cache, domain.WishlistCacheKeyByID(id), s.log)
	return nil
}

func (s *WishlistService) ListWishlists(ctx context.Context, req sharedQuery.ListRequest) (sharedQuery.Page, error) {
	q, err := s.listQuery.Compile(req, s.log)
	if err != nil {
		return sharedQuery.Page{}, err
	}

	total, lists, err := s.lists.List(ctx, q)
	if err != nil {
		return sharedQuery.Page{}, err
	}
	return sharedQuery.NewPage(q, total, lists)
}

// ---------------- Deseos ----------------

func (s *WishlistService) CreateWish(ctx context.Context, params domain.NewWishParams) (*domain.Wish, error) {
	wish, err := domain.NewWish(params)
	if err != nil {
		return nil, err
	}

	if err := s.wishes.Create(ctx, wish, domain.NewWishSavedEvent(domain.WishCreated, wish)); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, domain.WishCacheKeyByID(wish.ID), wish, s.cacheTTL, s.log)
	return wish, nil
}

func (s *WishlistService) GetWish(ctx context.Context, id uuid.UUID) (*domain.Wish, error) {
	wish, err := sharedCache.GetOrLoad(ctx, s.cache, domain.WishCacheKeyByID(id), s.cacheTTL, s.log,
		func(err error) bool { return errors.Is(err, domain.ErrWishNotFound) },
		func(ctx context.Context) (*domain.Wish, error) { return s.wishes.GetByID(ctx, id) },
	)
	if err != nil && !errors.Is(err, domain.ErrWishNotFound) {
		s.log.Error("Failed to fetch wish", zap.String("wish_id", id.String()), zap.Error(err))
	}
	return wish, err
}

func (s *WishlistService) UpdateWish(ctx context.Context, id uuid.UUID, changes domain.WishChanges) (*domain.Wish, error) {
	wish, err := s.wishes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := wish.Apply(changes); err != nil {
		return nil, err
	}

	if err := s.wishes.Update(ctx, wish, domain.NewWishSavedEvent(domain.WishUpdated, wish)); err != nil {
		return nil, err
	}

	sharedCache.AsyncCacheSet(s.cache, domain.WishCacheKeyByID(wish.ID), wish, s.cacheTTL, s.log)
	return wish, nil
}

func (s *WishlistService) DeleteWish(ctx context.Context, id uuid.UUID) error {
	wish, err := s.wishes.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.wishes.DeleteByID(ctx, id, domain.NewWishDeletedEvent(wish)); err != nil {
		return err
	}

	sharedCache.AsyncCacheDelete(s.cache, domain.WishCacheKeyByID(id), s.log)
	return nil
}

func (s *WishlistService) ListWishes(ctx context.Context, req sharedQuery.ListRequest) (sharedQuery.Page, error) {
	q, err := s.wishQuery.Compile(req, s.log)
	if err != nil {
		return sharedQuery.Page{}, err
	}
	return s.listWishes(ctx, q)
}

// ListWishlistWishes lista los deseos de una lista. El ámbito se añade en el
// servidor, así que el cliente no puede salirse de la lista con sus filtros.
func (s *WishlistService) ListWishlistWishes(ctx context.Context, wishlistID uuid.UUID, req sharedQuery.ListRequest) (sharedQuery.Page, error) {
	q, err := s.wishQuery.Compile(req, s.log)
	if err != nil {
		return sharedQuery.Page{}, err
	}
	if _, err := s.GetWishlist(ctx, wishlistID); err != nil {
		return sharedQuery.Page{}, err
	}
	return s.listWishes(ctx, q.WithScope(sq.Eq{"wishlist_id": wishlistID.String()}))
}

func (s *WishlistService) listWishes(ctx context.Context, q *sharedQuery.ListQuery) (sharedQuery.Page, error) {
	total, wishes, err := s.wishes.List(ctx, q)
	if err != nil {
		return sharedQuery.Page{}, err
	}
	return sharedQuery.NewPage(q, total, wishes)
}

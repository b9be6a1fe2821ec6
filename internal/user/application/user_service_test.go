package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/davicafu/wishlab/internal/mocks"
	"github.com/davicafu/wishlab/internal/user/domain"
	sharedEvents "github.com/davicafu/wishlab/shared/events"
	sharedQuery "github.com/davicafu/wishlab/shared/platform/query"
)

func newService(t *testing.T) (*UserService, *mocks.InMemoryUserRepo, *mocks.DummyCache) {
	t.Helper()
	repo := mocks.NewInMemoryUserRepo()
	cache := mocks.NewDummyCache()
	return NewUserService(repo, cache, time.Minute, 0, zap.NewNop()), repo, cache
}

func TestCreateUser_Success(t *testing.T) {
	// Arrange
	service, repo, cache := newService(t)

	// Act
	user, err := service.CreateUser(context.Background(), " test@example.com ", "Pepe", "Pérez")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "test@example.com", user.Email)
	assert.Equal(t, domain.UserUnconfirmed, user.Status)

	require.Len(t, repo.Outbox, 1)
	assert.Equal(t, domain.UserCreated, repo.Outbox[0].EventType)
	assert.Equal(t, user.ID.String(), repo.Outbox[0].AggregateID)
	payload, ok := repo.Outbox[0].Payload.(sharedEvents.UserCreated)
	require.True(t, ok)
	assert.Equal(t, "Pepe", payload.FirstName)

	assert.Eventually(t, func() bool { return cache.Has(domain.CacheKeyByID(user.ID)) }, time.Second, 5*time.Millisecond)
}

func TestCreateUser_Invalid(t *testing.T) {
	service, repo, _ := newService(t)

	_, err := service.CreateUser(context.Background(), "no-es-un-email", "Pepe", "Pérez")

	assert.ErrorIs(t, err, domain.ErrInvalidUser)
	assert.Empty(t, repo.Outbox)
}

func TestCreateUser_AlreadyExists(t *testing.T) {
	service, repo, _ := newService(t)

	_, err := service.CreateUser(context.Background(), "dup@example.com", "Juan", "López")
	require.NoError(t, err)

	_, err = service.CreateUser(context.Background(), "dup@example.com", "Otro", "López")

	assert.ErrorIs(t, err, domain.ErrUserAlreadyExists)
	assert.Len(t, repo.Outbox, 1)
}

func TestGetUser_NotFound(t *testing.T) {
	service, _, _ := newService(t)

	start := time.Now()
	_, err := service.GetUser(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Less(t, time.Since(start), 100*time.Millisecond, "un not found no se reintenta")
}

func TestGetUser_CacheHit(t *testing.T) {
	// Arrange
	service, repo, cache := newService(t)
	cached := domain.User{ID: uuid.New(), Email: "cache@example.com", FirstName: "Ana", LastName: "Ruiz", Status: domain.UserConfirmed}
	require.NoError(t, cache.Set(context.Background(), domain.CacheKeyByID(cached.ID), cached, time.Minute))
	repo.Err = errors.New("no debería consultarse")

	// Act
	got, err := service.GetUser(context.Background(), cached.ID)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "cache@example.com", got.Email)
}

func TestGetUser_LoadsAndPopulatesCache(t *testing.T) {
	service, repo, cache := newService(t)
	user, err := domain.NewUser("load@example.com", "Luis", "Gómez")
	require.NoError(t, err)
	repo.Users[user.ID] = *user

	got, err := service.GetUser(context.Background(), user.ID)

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Eventually(t, func() bool { return cache.Has(domain.CacheKeyByID(user.ID)) }, time.Second, 5*time.Millisecond)
}

func TestUpdateUser_Success(t *testing.T) {
	// Arrange
	service, repo, _ := newService(t)
	user, err := service.CreateUser(context.Background(), "update@example.com", "Ana", "Sanz")
	require.NoError(t, err)
	name := "Ana María"
	status := domain.UserConfirmed

	// Act
	updated, err := service.UpdateUser(context.Background(), user.ID, domain.UserChanges{FirstName: &name, Status: &status})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Ana María", updated.FirstName)
	assert.Equal(t, "update@example.com", updated.Email)

	stored, _ := repo.GetByID(context.Background(), user.ID)
	assert.Equal(t, domain.UserConfirmed, stored.Status)
	require.Len(t, repo.Outbox, 2)
	assert.Equal(t, domain.UserUpdated, repo.Outbox[1].EventType)
}

func TestUpdateUser_InvalidChangesAreNotPersisted(t *testing.T) {
	service, repo, _ := newService(t)
	user, err := service.CreateUser(context.Background(), "keep@example.com", "Ana", "Sanz")
	require.NoError(t, err)
	status := domain.UserStatus("DELETED")

	_, err = service.UpdateUser(context.Background(), user.ID, domain.UserChanges{Status: &status})

	assert.ErrorIs(t, err, domain.ErrInvalidUser)
	assert.Len(t, repo.Outbox, 1)
}

func TestUpdateUser_NotFound(t *testing.T) {
	service, _, _ := newService(t)

	_, err := service.UpdateUser(context.Background(), uuid.New(), domain.UserChanges{})

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUser(t *testing.T) {
	// Arrange
	service, repo, cache := newService(t)
	user, err := service.CreateUser(context.Background(), "bye@example.com", "Eva", "Mora")
	require.NoError(t, err)
	key := domain.CacheKeyByID(user.ID)
	assert.Eventually(t, func() bool { return cache.Has(key) }, time.Second, 5*time.Millisecond)

	// Act
	err = service.DeleteUser(context.Background(), user.ID)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, repo.Users)
	assert.Equal(t, domain.UserDeleted, repo.Outbox[len(repo.Outbox)-1].EventType)
	assert.Eventually(t, func() bool { return !cache.Has(key) }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, service.DeleteUser(context.Background(), user.ID), domain.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	// Arrange
	service, repo, _ := newService(t)
	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := service.CreateUser(context.Background(), email, "Nombre", "Apellido")
		require.NoError(t, err)
	}
	limit := 2
	req := sharedQuery.ListRequest{
		Sorting:    []string{"-createdAt"},
		Projection: &sharedQuery.ProjectionSpec{Fields: sharedQuery.ProjectionFields{Names: []string{"email"}}},
		Pagination: &sharedQuery.PaginationSpec{Limit: &limit},
	}

	// Act
	page, err := service.ListUsers(context.Background(), req)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.TotalCount)
	require.Len(t, page.Objects, 2)
	assert.NotNil(t, page.NextToken)
	assert.ElementsMatch(t, []string{"id", "email", "createdAt"}, keysOf(page.Objects[0]))
	assert.Equal(t, "users", repo.LastQuery.Table)
}

func TestListUsers_ValidationErrorDoesNotHitRepository(t *testing.T) {
	service, repo, _ := newService(t)
	limit := 0

	_, err := service.ListUsers(context.Background(), sharedQuery.ListRequest{Pagination: &sharedQuery.PaginationSpec{Limit: &limit}})

	assert.True(t, sharedQuery.IsValidationError(err))
	assert.Nil(t, repo.LastQuery)
}

func keysOf(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/signin/internal/core/domain"
)

func TestNewSessionStore(t *testing.T) {
	store := NewSessionStore()
	require.NotNil(t, store)
	assert.NotNil(t, store.sessions)
	assert.Equal(t, 0, store.Len())
}

func TestSessionStore_Save_Success(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := *domain.NewSession("sess-1")
	session.Token = &domain.SessionToken{AccessToken: "token-1"}

	err := store.Save(ctx, session)
	require.NoError(t, err)

	saved, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", saved.ID)
	require.NotNil(t, saved.Token)
	assert.Equal(t, "token-1", saved.Token.AccessToken)
}

func TestSessionStore_Save_EmptyID(t *testing.T) {
	store := NewSessionStore()

	err := store.Save(context.Background(), domain.Session{})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSessionStore_Save_Update(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := *domain.NewSession("sess-1")
	session.State = "first"
	require.NoError(t, store.Save(ctx, session))

	session.State = "second"
	require.NoError(t, store.Save(ctx, session))

	saved, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "second", saved.State)
	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_Get_NotFound(t *testing.T) {
	store := NewSessionStore()

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSessionStore_Get_ReturnsCopy(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	session := *domain.NewSession("sess-1")
	session.Token = &domain.SessionToken{AccessToken: "original"}
	require.NoError(t, store.Save(ctx, session))

	// Mutating the caller's token must not leak into the store
	session.Token.AccessToken = "mutated"

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	got.Token.AccessToken = "mutated-again"

	again, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Token.AccessToken)
}

func TestSessionStore_Delete(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, *domain.NewSession("sess-1")))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Deleting again is not an error
	assert.NoError(t, store.Delete(ctx, "sess-1"))
}

func TestSessionStore_ConcurrentAccess(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			id := fmt.Sprintf("sess-%d", n)
			_ = store.Save(ctx, *domain.NewSession(id))
			_, _ = store.Get(ctx, id)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}

func TestSessionStore_DeleteIdle(t *testing.T) {
	store := NewSessionStore()
	ctx := context.Background()

	stale := domain.NewSession("stale")
	stale.UpdatedAt = time.Now().Add(-48 * time.Hour)
	require.NoError(t, store.Save(ctx, *stale))
	require.NoError(t, store.Save(ctx, *domain.NewSession("fresh")))

	removed, err := store.DeleteIdle(ctx, time.Now().Add(-24*time.Hour))

	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
	assert.Equal(t, 1, store.Len())
	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Get(ctx, "fresh")
	assert.NoError(t, err)
}

package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol-server/model"
	"github.com/sheikhrachel/go-gol-server/rules"
)

var blinker = []model.Entity{{X: 1, Y: 2}, {X: 2, Y: 2}, {X: 3, Y: 2}}

func testFactory() model.Factory {
	return model.Factory{Rules: rules.Conway()}
}

func newInMemoryBadger(t *testing.T) *Badger {
	t.Helper()
	r, err := OpenBadger(BadgerConfig{InMemory: true}, testFactory(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRepositoryContract(t *testing.T) {
	impls := map[string]func(t *testing.T) Repository{
		"memory": func(*testing.T) Repository { return NewInMemory(nil) },
		"badger": func(t *testing.T) Repository { return newInMemoryBadger(t) },
	}

	for name, newRepo := range impls {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			repo := newRepo(t)
			world := testFactory().Build(blinker)

			id, err := repo.Create(ctx, world)
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, id)

			got, err := repo.Retrieve(ctx, id)
			require.NoError(t, err)
			assert.Same(t, world, got)

			got.EvolveOneGeneration(ctx)
			require.NoError(t, repo.Save(ctx, id, got))

			_, err = repo.Retrieve(ctx, uuid.New())
			assert.True(t, errors.Is(err, ErrWorldNotFound))
		})
	}
}

func TestCreateMintsUniqueIdentifiers(t *testing.T) {
	repo := NewInMemory(nil)
	seen := map[uuid.UUID]bool{}
	for range 50 {
		id, err := repo.Create(context.Background(), testFactory().Build(nil))
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
	assert.Equal(t, 50, repo.Len())
}

func TestBadgerRehydratesSavedWorld(t *testing.T) {
	ctx := context.Background()
	r := newInMemoryBadger(t)
	world := testFactory().Build(blinker)

	id, err := r.Create(ctx, world)
	require.NoError(t, err)

	world.EvolveOneGeneration(ctx)
	require.NoError(t, r.Save(ctx, id, world))

	// drop the hot copy so Retrieve must go to the database
	r.mu.Lock()
	delete(r.cache, id)
	r.mu.Unlock()

	got, err := r.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.NotSame(t, world, got)
	assert.ElementsMatch(t,
		[]model.Entity{{X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}},
		got.LivingEntities())

	again, err := r.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.Same(t, got, again)
}

func TestBadgerPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := BadgerConfig{Path: dir, SyncWrites: true}

	r, err := OpenBadger(cfg, testFactory(), nil)
	require.NoError(t, err)
	id, err := r.Create(ctx, testFactory().Build(blinker))
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r, err = OpenBadger(cfg, testFactory(), nil)
	require.NoError(t, err)
	defer r.Close()

	world, err := r.Retrieve(ctx, id)
	require.NoError(t, err)
	assert.ElementsMatch(t, blinker, world.LivingEntities())
}

func TestOpenBadgerRequiresPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{}, testFactory(), nil)
	assert.Error(t, err)
}

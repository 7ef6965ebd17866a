package model

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikhrachel/go-gol-server/rules"
)

// recordingPublisher captures every published count
type recordingPublisher struct {
	mu         sync.Mutex
	births     []int
	deaths     []int
	population []int
	err        error
}

func (p *recordingPublisher) PublishBirthCount(_ context.Context, count int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.births = append(p.births, count)
	return p.err
}

func (p *recordingPublisher) PublishDeathCount(_ context.Context, count int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deaths = append(p.deaths, count)
	return p.err
}

func (p *recordingPublisher) PublishPopulationCount(_ context.Context, count int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.population = append(p.population, count)
	return p.err
}

func newConwayWorld(entities ...Entity) (*World, *recordingPublisher) {
	pub := &recordingPublisher{}
	w := Factory{Rules: rules.Conway(), Publisher: pub, Pool: NewCountPool()}.Build(entities)
	return w, pub
}

func entitySet(entities []Entity) map[Entity]struct{} {
	out := make(map[Entity]struct{}, len(entities))
	for _, e := range entities {
		out[e] = struct{}{}
	}
	return out
}

func TestInitializeRoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		entities []Entity
	}{
		{"empty", nil},
		{"single", []Entity{{0, 0}}},
		{"spread", []Entity{{0, 0}, {1, 1}, {-1000000, 999999}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := newConwayWorld(tt.entities...)
			assert.Equal(t, entitySet(tt.entities), entitySet(w.LivingEntities()))
		})
	}
}

func TestInitializeDeduplicates(t *testing.T) {
	w, _ := newConwayWorld(Entity{1, 1}, Entity{1, 1}, Entity{2, 2})
	assert.Len(t, w.LivingEntities(), 2)
	assert.Equal(t, 2, w.Population())
}

func TestReinitializeReplaces(t *testing.T) {
	w, _ := newConwayWorld(Entity{0, 0}, Entity{1, 1})
	w.Initialize([]Entity{{5, 5}, {6, 6}})
	assert.Equal(t, entitySet([]Entity{{5, 5}, {6, 6}}), entitySet(w.LivingEntities()))
}

func TestLivingEntitiesIsACopy(t *testing.T) {
	w, _ := newConwayWorld(Entity{0, 0}, Entity{1, 1})
	got := w.LivingEntities()
	got[0] = Entity{42, 42}

	assert.NotContains(t, w.LivingEntities(), Entity{42, 42})
}

func TestBlockIsStillLife(t *testing.T) {
	block := []Entity{{1, 1}, {1, 2}, {2, 1}, {2, 2}}
	w, _ := newConwayWorld(block...)

	stats := w.EvolveOneGeneration(context.Background())

	assert.False(t, stats.Evolved)
	assert.Equal(t, EvolutionStats{PopulationCount: 4}, stats)
	assert.Equal(t, entitySet(block), entitySet(w.LivingEntities()))
}

func TestBlinkerOscillates(t *testing.T) {
	horizontal := []Entity{{1, 2}, {2, 2}, {3, 2}}
	vertical := []Entity{{2, 1}, {2, 2}, {2, 3}}
	w, _ := newConwayWorld(horizontal...)

	stats := w.EvolveOneGeneration(context.Background())
	assert.True(t, stats.Evolved)
	assert.Equal(t, 2, stats.BirthCount)
	assert.Equal(t, 2, stats.DeathCount)
	assert.Equal(t, 3, stats.PopulationCount)
	assert.Equal(t, entitySet(vertical), entitySet(w.LivingEntities()))

	stats = w.EvolveOneGeneration(context.Background())
	assert.True(t, stats.Evolved)
	assert.Equal(t, entitySet(horizontal), entitySet(w.LivingEntities()))
}

func TestIsolatedCellDies(t *testing.T) {
	w, pub := newConwayWorld(Entity{5, 5})

	stats := w.EvolveOneGeneration(context.Background())

	assert.Equal(t, EvolutionStats{DeathCount: 1, Evolved: true}, stats)
	assert.Empty(t, w.LivingEntities())
	assert.Equal(t, []int{0}, pub.births)
	assert.Equal(t, []int{1}, pub.deaths)
	assert.Equal(t, []int{0}, pub.population)
}

func TestIsolatedCellSurvivesWhenZeroNeighborsAllowed(t *testing.T) {
	rs := rules.NewRuleSet([]rules.ProximityRule{rules.Exact(0)}, nil)
	w := Factory{Rules: rs}.Build([]Entity{{5, 5}})

	stats := w.EvolveOneGeneration(context.Background())

	assert.False(t, stats.Evolved)
	assert.Equal(t, []Entity{{5, 5}}, w.LivingEntities())
}

func TestEmptyWorldStaysEmptyAndPublishesZeros(t *testing.T) {
	w, pub := newConwayWorld()

	stats := w.EvolveOneGeneration(context.Background())

	assert.Equal(t, EvolutionStats{}, stats)
	assert.Empty(t, w.LivingEntities())
	assert.Equal(t, []int{0}, pub.births)
	assert.Equal(t, []int{0}, pub.deaths)
	assert.Equal(t, []int{0}, pub.population)
}

func TestGliderKeepsEvolvingWithConstantPopulation(t *testing.T) {
	glider := []Entity{{1, 0}, {2, 1}, {0, 2}, {1, 2}, {2, 2}}
	w, _ := newConwayWorld(glider...)

	for i := 0; i < 4; i++ {
		stats := w.EvolveOneGeneration(context.Background())
		assert.True(t, stats.Evolved, "generation %d", i)
		assert.Equal(t, 5, stats.PopulationCount)
	}

	shifted := make([]Entity, 0, len(glider))
	for _, e := range glider {
		shifted = append(shifted, Entity{e.X + 1, e.Y + 1})
	}
	assert.Equal(t, entitySet(shifted), entitySet(w.LivingEntities()))
}

func TestStableGenerationIsAFixedPoint(t *testing.T) {
	// beehive
	beehive := []Entity{{1, 0}, {2, 0}, {0, 1}, {3, 1}, {1, 2}, {2, 2}}
	w, _ := newConwayWorld(beehive...)

	first := w.EvolveOneGeneration(context.Background())
	require.False(t, first.Evolved)
	before := entitySet(w.LivingEntities())

	second := w.EvolveOneGeneration(context.Background())
	assert.False(t, second.Evolved)
	assert.Equal(t, before, entitySet(w.LivingEntities()))
}

func TestNoBirthInEmptySpace(t *testing.T) {
	// birth on any count from 1 to 8 to stress the frontier
	rs := rules.NewRuleSet([]rules.ProximityRule{rules.Range(0, 8)}, []rules.ProximityRule{rules.Range(1, 8)})
	start := []Entity{{0, 0}, {10, 10}, {11, 10}, {-3, 4}}
	w := Factory{Rules: rs}.Build(start)

	w.EvolveOneGeneration(context.Background())

	previous := entitySet(start)
	frontier := map[Entity]struct{}{}
	for _, e := range start {
		for _, n := range e.Neighbors() {
			frontier[n] = struct{}{}
		}
	}
	for _, e := range w.LivingEntities() {
		if _, survivor := previous[e]; survivor {
			continue
		}
		_, near := frontier[e]
		assert.True(t, near, "entity %v has no living neighbor in the previous generation", e)
	}
}

func TestDegenerateRulesKillEverything(t *testing.T) {
	w := Factory{Rules: rules.NewRuleSet(nil, nil)}.Build([]Entity{{0, 0}, {0, 1}, {1, 0}, {1, 1}})

	stats := w.EvolveOneGeneration(context.Background())

	assert.Equal(t, EvolutionStats{DeathCount: 4, Evolved: true}, stats)
	assert.Empty(t, w.LivingEntities())
}

func TestPublisherFailureDoesNotFailEvolution(t *testing.T) {
	w, pub := newConwayWorld(Entity{1, 2}, Entity{2, 2}, Entity{3, 2})
	pub.err = errors.New("sink unavailable")

	stats := w.EvolveOneGeneration(context.Background())

	assert.True(t, stats.Evolved)
	assert.Len(t, w.LivingEntities(), 3)
	assert.Len(t, pub.population, 1)
}

func TestDistinctWorldsEvolveConcurrently(t *testing.T) {
	const workers = 8
	var wg sync.WaitGroup
	worlds := make([]*World, workers)
	for i := range worlds {
		worlds[i], _ = newConwayWorld(Entity{1, 2}, Entity{2, 2}, Entity{3, 2})
	}

	for _, w := range worlds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				w.EvolveOneGeneration(context.Background())
			}
		}()
	}
	wg.Wait()

	for _, w := range worlds {
		assert.Equal(t, entitySet([]Entity{{1, 2}, {2, 2}, {3, 2}}), entitySet(w.LivingEntities()))
	}
}

func TestSameWorldIsSafeForConcurrentUse(t *testing.T) {
	w, pub := newConwayWorld(Entity{1, 2}, Entity{2, 2}, Entity{3, 2})
	var wg sync.WaitGroup

	for range 4 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			w.EvolveOneGeneration(context.Background())
		}()
		go func() {
			defer wg.Done()
			assert.Len(t, w.LivingEntities(), 3)
		}()
	}
	wg.Wait()

	// an even number of blinker generations lands back on the start
	assert.Equal(t, entitySet([]Entity{{1, 2}, {2, 2}, {3, 2}}), entitySet(w.LivingEntities()))
	assert.Len(t, pub.population, 4)
}

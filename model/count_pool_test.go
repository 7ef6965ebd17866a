package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountPoolReturnsEmptyMaps(t *testing.T) {
	pool := NewCountPool()

	counts := pool.Get()
	counts[NewEntity(1, 1)] = 3
	pool.Put(counts)

	assert.Empty(t, pool.Get())
}

func TestCountsWithoutPool(t *testing.T) {
	counts := countsFromPool(nil, 16)
	assert.NotNil(t, counts)
	assert.NotPanics(t, func() { countsToPool(counts, nil) })
}

package model

import "sync"

// neighborCounts maps every frontier entity to its number of living neighbors
type neighborCounts map[Entity]uint8

// CountPool recycles neighbor-count maps between generations
type CountPool struct {
	pool sync.Pool
}

// NewCountPool returns an empty pool
func NewCountPool() *CountPool {
	return &CountPool{
		pool: sync.Pool{
			New: func() interface{} {
				return make(neighborCounts)
			},
		},
	}
}

// Get retrieves an empty map from the pool
func (p *CountPool) Get() neighborCounts {
	return p.pool.Get().(neighborCounts)
}

// Put clears the map and returns it to the pool
func (p *CountPool) Put(counts neighborCounts) {
	clear(counts)
	p.pool.Put(counts)
}

// countsFromPool falls back to a fresh map when no pool is configured
func countsFromPool(pool *CountPool, sizeHint int) neighborCounts {
	if pool == nil {
		return make(neighborCounts, sizeHint)
	}
	return pool.Get()
}

// countsToPool returns counts to the pool for reuse
func countsToPool(counts neighborCounts, pool *CountPool) {
	if pool == nil {
		return
	}
	pool.Put(counts)
}

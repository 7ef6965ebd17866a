package model

import (
	"cmp"
	"slices"
)

// neighborOffsets are the 8 Moore-neighborhood offsets
var neighborOffsets = [8][2]int{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Entity is a single cell on the unbounded grid. It is comparable and used directly as a map key.
type Entity struct {
	X int
	Y int
}

// NewEntity returns the entity at (x, y)
func NewEntity(x, y int) Entity {
	return Entity{X: x, Y: y}
}

// Neighbors returns the 8 entities surrounding e, excluding e itself
func (e Entity) Neighbors() [8]Entity {
	var out [8]Entity
	for i, off := range neighborOffsets {
		out[i] = Entity{X: e.X + off[0], Y: e.Y + off[1]}
	}
	return out
}

// Compare orders entities by X, then Y
func (e Entity) Compare(o Entity) int {
	if c := cmp.Compare(e.X, o.X); c != 0 {
		return c
	}
	return cmp.Compare(e.Y, o.Y)
}

// SortEntities sorts entities in place by X, then Y
func SortEntities(entities []Entity) {
	slices.SortFunc(entities, Entity.Compare)
}

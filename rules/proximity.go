package rules

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidRule is returned when a proximity rule or rule descriptor cannot be built
var ErrInvalidRule = errors.New("invalid proximity rule")

// maxNeighborBound is the largest count a rule bound can hold
const maxNeighborBound = 255

// Kind tags which shape a ProximityRule has
type Kind uint8

const (
	// KindExact matches a single neighbor count
	KindExact Kind = iota + 1
	// KindRange matches an inclusive range of neighbor counts
	KindRange
)

func (k Kind) String() string {
	switch k {
	case KindExact:
		return "exact"
	case KindRange:
		return "range"
	default:
		return "unknown"
	}
}

/*
ProximityRule is a predicate over a living-neighbor count.

It is a closed variant: an Exact rule matches count == min, a Range rule matches
min <= count <= max. The zero value matches nothing.
*/
type ProximityRule struct {
	kind     Kind
	min, max uint8
}

// NewExact returns a rule matching exactly k living neighbors
func NewExact(k int) (ProximityRule, error) {
	if k < 0 || k > maxNeighborBound {
		return ProximityRule{}, errors.Wrapf(ErrInvalidRule, "[NewExact] value %d out of range [0, %d]", k, maxNeighborBound)
	}
	return ProximityRule{kind: KindExact, min: uint8(k), max: uint8(k)}, nil
}

// NewRange returns a rule matching min..max living neighbors, inclusive
func NewRange(min, max int) (ProximityRule, error) {
	if min < 0 || max < 0 {
		return ProximityRule{}, errors.Wrapf(ErrInvalidRule, "[NewRange] bounds cannot be negative: %d..%d", min, max)
	}
	if min > max {
		return ProximityRule{}, errors.Wrapf(ErrInvalidRule, "[NewRange] min %d is greater than max %d", min, max)
	}
	if max > maxNeighborBound {
		return ProximityRule{}, errors.Wrapf(ErrInvalidRule, "[NewRange] max %d exceeds %d", max, maxNeighborBound)
	}
	return ProximityRule{kind: KindRange, min: uint8(min), max: uint8(max)}, nil
}

// Exact is NewExact for bounds known to be valid, it panics otherwise
func Exact(k int) ProximityRule {
	r, err := NewExact(k)
	if err != nil {
		panic(err)
	}
	return r
}

// Range is NewRange for bounds known to be valid, it panics otherwise
func Range(min, max int) ProximityRule {
	r, err := NewRange(min, max)
	if err != nil {
		panic(err)
	}
	return r
}

// Kind returns the rule's shape
func (r ProximityRule) Kind() Kind { return r.kind }

// Bounds returns the inclusive bounds the rule matches
func (r ProximityRule) Bounds() (min, max uint8) { return r.min, r.max }

// HasSufficientNeighbors reports whether count satisfies the rule
func (r ProximityRule) HasSufficientNeighbors(count uint8) bool {
	switch r.kind {
	case KindExact:
		return count == r.min
	case KindRange:
		return count >= r.min && count <= r.max
	default:
		return false
	}
}

func (r ProximityRule) String() string {
	switch r.kind {
	case KindExact:
		return fmt.Sprintf("exact(%d)", r.min)
	case KindRange:
		return fmt.Sprintf("range(%d..%d)", r.min, r.max)
	default:
		return "none"
	}
}

package rules

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	descriptorSimple = "simple"
	descriptorRange  = "range"
)

// Descriptor is the configuration form of a ProximityRule
type Descriptor struct {
	// Type is "simple" for an exact match or "range" for an inclusive range
	Type string `json:"type" yaml:"type"`
	// Value is the exact count for simple rules and the minimum for range rules
	Value int `json:"value" yaml:"value"`
	// MaxValue is the range maximum, defaulting to Value when unset
	MaxValue *int `json:"maxValue,omitempty" yaml:"maxValue,omitempty"`
}

// Build converts the descriptor into a ProximityRule
func (d Descriptor) Build() (ProximityRule, error) {
	switch strings.ToLower(strings.TrimSpace(d.Type)) {
	case descriptorSimple:
		return NewExact(d.Value)
	case descriptorRange:
		max := d.Value
		if d.MaxValue != nil {
			max = *d.MaxValue
		}
		return NewRange(d.Value, max)
	default:
		return ProximityRule{}, errors.Wrapf(ErrInvalidRule, "[Descriptor.Build] unknown proximity rule type: %q", d.Type)
	}
}

// BuildRules converts every descriptor, failing on the first malformed one
func BuildRules(descriptors []Descriptor) ([]ProximityRule, error) {
	out := make([]ProximityRule, 0, len(descriptors))
	for i, d := range descriptors {
		r, err := d.Build()
		if err != nil {
			return nil, errors.Wrapf(err, "[BuildRules] descriptor %d", i)
		}
		out = append(out, r)
	}
	return out, nil
}

// FromDescriptors assembles a RuleSet from stay-alive and birth descriptors
func FromDescriptors(stayAlive, birth []Descriptor) (RuleSet, error) {
	sa, err := BuildRules(stayAlive)
	if err != nil {
		return RuleSet{}, errors.Wrap(err, "[FromDescriptors] stay-alive rules")
	}
	b, err := BuildRules(birth)
	if err != nil {
		return RuleSet{}, errors.Wrap(err, "[FromDescriptors] birth rules")
	}
	return NewRuleSet(sa, b), nil
}

package rules

import "slices"

// RuleSet holds the stay-alive and birth rules applied each generation.
// A RuleSet is immutable once built and safe to share across worlds.
type RuleSet struct {
	stayAlive []ProximityRule
	birth     []ProximityRule
}

// NewRuleSet copies the given rules into a new RuleSet
func NewRuleSet(stayAlive, birth []ProximityRule) RuleSet {
	return RuleSet{
		stayAlive: slices.Clone(stayAlive),
		birth:     slices.Clone(birth),
	}
}

// StayAlive returns a copy of the stay-alive rules
func (rs RuleSet) StayAlive() []ProximityRule { return slices.Clone(rs.stayAlive) }

// Birth returns a copy of the birth rules
func (rs RuleSet) Birth() []ProximityRule { return slices.Clone(rs.birth) }

// Survives reports whether a living cell with count living neighbors stays alive
func (rs RuleSet) Survives(count uint8) bool {
	return anyMatch(rs.stayAlive, count)
}

// Born reports whether a dead cell with count living neighbors comes alive
func (rs RuleSet) Born(count uint8) bool {
	return anyMatch(rs.birth, count)
}

func anyMatch(rules []ProximityRule, count uint8) bool {
	for _, r := range rules {
		if r.HasSufficientNeighbors(count) {
			return true
		}
	}
	return false
}

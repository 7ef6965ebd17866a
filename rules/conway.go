package rules

/*
Conway returns the standard Game of Life rules.

A living cell survives with 2 or 3 living neighbors, a dead cell is born with exactly 3.
*/
func Conway() RuleSet {
	return NewRuleSet(
		[]ProximityRule{Range(2, 3)},
		[]ProximityRule{Exact(3)},
	)
}

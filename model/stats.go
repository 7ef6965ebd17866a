package model

// EvolutionStats describes a single generation's transition
type EvolutionStats struct {
	BirthCount      int
	DeathCount      int
	PopulationCount int
	// Evolved is true when at least one birth or death happened
	Evolved bool
}

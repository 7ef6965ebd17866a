package utils

import "time"

// Stats accumulates evolution progress over a single evolve request
type Stats struct {
	Generations          int
	Births               int
	Deaths               int
	AveragePopulation    float64
	GenerationsPerSecond float64
	StartTime            time.Time
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Update folds one generation's counts into the running totals
func (s *Stats) Update(births, deaths, population int) {
	s.Generations++
	s.Births += births
	s.Deaths += deaths

	if elapsed := time.Since(s.StartTime); elapsed > 0 {
		s.GenerationsPerSecond = float64(s.Generations) / elapsed.Seconds()
	}

	// Simple moving average for population
	if s.Generations == 1 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}

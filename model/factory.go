package model

import (
	"log/slog"

	"github.com/sheikhrachel/go-gol-server/rules"
)

// Factory builds worlds that share a rule set, metric publisher and count pool
type Factory struct {
	Rules     rules.RuleSet
	Publisher MetricPublisher
	Pool      *CountPool
	Logger    *slog.Logger
}

// Build returns a new world initialized with entities
func (f Factory) Build(entities []Entity) *World {
	w := NewWorld(f.Rules, f.Publisher, f.Pool, f.Logger)
	w.Initialize(entities)
	return w
}

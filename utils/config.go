package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/sheikhrachel/go-gol-server/rules"
)

const (
	RulesModeConway       = "conway"
	RulesModeConfigurable = "configurable"

	RepositoryMemory = "memory"
	RepositoryBadger = "badger"

	MetricsLog        = "log"
	MetricsPrometheus = "prometheus"
)

// Config holds the configuration for the service
type Config struct {
	Server     ServerConfig     `json:"server" yaml:"server"`
	GameOfLife GameOfLifeConfig `json:"gameOfLife" yaml:"gameOfLife"`
	Repository RepositoryConfig `json:"repository" yaml:"repository"`
	Metrics    MetricsConfig    `json:"metrics" yaml:"metrics"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
}

type ServerConfig struct {
	Port            int           `json:"port" yaml:"port"`
	ShutdownTimeout time.Duration `json:"shutdownTimeout" yaml:"shutdownTimeout"`
}

type GameOfLifeConfig struct {
	// MaxAutoEvolution caps the generations attempted when evolving to a final state
	MaxAutoEvolution int         `json:"maxAutoEvolution" yaml:"maxAutoEvolution"`
	Rules            RulesConfig `json:"rules" yaml:"rules"`
}

type RulesConfig struct {
	Mode      string             `json:"mode" yaml:"mode"`
	StayAlive []rules.Descriptor `json:"stayAlive" yaml:"stayAlive"`
	Birth     []rules.Descriptor `json:"birth" yaml:"birth"`
}

type RepositoryConfig struct {
	Backend    string `json:"backend" yaml:"backend"`
	Path       string `json:"path" yaml:"path"`
	SyncWrites bool   `json:"syncWrites" yaml:"syncWrites"`
}

type MetricsConfig struct {
	Backend string `json:"backend" yaml:"backend"`
}

type LoggingConfig struct {
	Level string `json:"level" yaml:"level"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		},
		GameOfLife: GameOfLifeConfig{
			MaxAutoEvolution: 1000,
			Rules:            RulesConfig{Mode: RulesModeConway},
		},
		Repository: RepositoryConfig{
			Backend:    RepositoryMemory,
			Path:       "data",
			SyncWrites: true,
		},
		Metrics: MetricsConfig{Backend: MetricsLog},
		Logging: LoggingConfig{Level: "info"},
	}
}

// LoadConfig loads configuration from a JSON or YAML file on top of the defaults
func LoadConfig(filename string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to read file: %+v", filename)
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] failed to unmarshal data from file: %+v", filename)
	}

	if err = config.Validate(); err != nil {
		return config, errors.Wrapf(err, "[LoadConfig] invalid configuration in file: %+v", filename)
	}
	return config, nil
}

// Validate rejects settings the service cannot start with
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("[Validate] server port %d out of range", c.Server.Port)
	}
	if c.GameOfLife.MaxAutoEvolution <= 0 {
		return errors.Errorf("[Validate] maxAutoEvolution must be positive, got %d", c.GameOfLife.MaxAutoEvolution)
	}
	if _, err := c.RuleSet(); err != nil {
		return err
	}
	switch c.Repository.Backend {
	case RepositoryMemory:
	case RepositoryBadger:
		if c.Repository.Path == "" {
			return errors.New("[Validate] repository path is required for the badger backend")
		}
	default:
		return errors.Errorf("[Validate] unknown repository backend %q", c.Repository.Backend)
	}
	switch c.Metrics.Backend {
	case MetricsLog, MetricsPrometheus:
	default:
		return errors.Errorf("[Validate] unknown metrics backend %q", c.Metrics.Backend)
	}
	return nil
}

// RuleSet assembles the evolution rules selected by the configuration
func (c Config) RuleSet() (rules.RuleSet, error) {
	switch c.GameOfLife.Rules.Mode {
	case "", RulesModeConway:
		return rules.Conway(), nil
	case RulesModeConfigurable:
		rs, err := rules.FromDescriptors(c.GameOfLife.Rules.StayAlive, c.GameOfLife.Rules.Birth)
		if err != nil {
			return rules.RuleSet{}, errors.Wrap(err, "[RuleSet] invalid configurable rules")
		}
		return rs, nil
	default:
		return rules.RuleSet{}, errors.Wrapf(rules.ErrInvalidRule, "[RuleSet] unknown rules mode %q", c.GameOfLife.Rules.Mode)
	}
}

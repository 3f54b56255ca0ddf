// Package config loads the simulation run configuration from YAML.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aldred/star-concord/internal/empire"
)

// Config is the full run configuration.
type Config struct {
	Seed     int64          `yaml:"seed"`
	Turns    int            `yaml:"turns"`
	Database string         `yaml:"database"`
	APIPort  int            `yaml:"api_port"`
	Empires  []EmpireConfig `yaml:"empires"`
}

// EmpireConfig describes one empire in the roster.
type EmpireConfig struct {
	Name        string  `yaml:"name"`
	Human       bool    `yaml:"human"`
	Personality string  `yaml:"personality"`
	Objective   string  `yaml:"objective"`
	Production  float64 `yaml:"production"`
	FleetPower  float64 `yaml:"fleet_power"`
	Colonies    int     `yaml:"colonies"`
}

// Load reads and validates a configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Empires) < 2 {
		return fmt.Errorf("at least 2 empires are required, got %d", len(cfg.Empires))
	}
	if cfg.Turns < 0 {
		return fmt.Errorf("turns must not be negative")
	}
	seen := make(map[string]bool)
	for i, ec := range cfg.Empires {
		if strings.TrimSpace(ec.Name) == "" {
			return fmt.Errorf("empire %d: name is required", i)
		}
		if seen[ec.Name] {
			return fmt.Errorf("empire %d: duplicate name %q", i, ec.Name)
		}
		seen[ec.Name] = true
		if _, ok := empire.ParsePersonality(ec.Personality); !ok {
			return fmt.Errorf("empire %q: unknown personality %q", ec.Name, ec.Personality)
		}
		if _, ok := empire.ParseObjective(ec.Objective); !ok {
			return fmt.Errorf("empire %q: unknown objective %q", ec.Name, ec.Objective)
		}
		if ec.Production <= 0 {
			return fmt.Errorf("empire %q: production must be positive", ec.Name)
		}
	}
	return nil
}

// Roster converts the configured empires to the runtime roster.
func (cfg *Config) Roster() []*empire.Empire {
	out := make([]*empire.Empire, 0, len(cfg.Empires))
	for i, ec := range cfg.Empires {
		pers, _ := empire.ParsePersonality(ec.Personality)
		obj, _ := empire.ParseObjective(ec.Objective)
		out = append(out, &empire.Empire{
			ID:         empire.ID(i),
			Name:       ec.Name,
			Human:      ec.Human,
			Leader:     empire.Leader{Personality: pers, Objective: obj},
			Production: ec.Production,
			FleetPower: ec.FleetPower,
			Colonies:   ec.Colonies,
		})
	}
	return out
}

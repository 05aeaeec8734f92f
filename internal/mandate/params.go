package mandate

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Params are the tunable parameters of the mandate rules. They are the only
// part of the engine that may change while a session runs (see Reloader).
type Params struct {
	// FilesystemDay is the weekday on which prime-minute filesystem
	// lockouts apply (0 = Sunday, per time.Weekday).
	FilesystemDay time.Weekday `yaml:"filesystem_day"`
	// BacklogLockoutThreshold is the backlog size above which the
	// probabilistic lockout rule engages.
	BacklogLockoutThreshold int `yaml:"backlog_lockout_threshold"`
	// BacklogDenyChance is the denial probability once the backlog rule
	// engages.
	BacklogDenyChance float64 `yaml:"backlog_deny_chance"`
	// SpotCheckChance is the unconditional random denial probability.
	SpotCheckChance float64 `yaml:"spot_check_chance"`
}

// DefaultParams returns the built-in rule parameters.
func DefaultParams() Params {
	return Params{
		FilesystemDay:           time.Tuesday,
		BacklogLockoutThreshold: 10,
		BacklogDenyChance:       0.2,
		SpotCheckChance:         0.05,
	}
}

// LoadParams reads rule parameters from a YAML file overlaid on the
// defaults. An empty path or a missing file returns the defaults.
func LoadParams(path string) (Params, error) {
	p := DefaultParams()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, fmt.Errorf("read mandate params: %w", err)
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parse mandate params: %w", err)
	}
	return p, nil
}

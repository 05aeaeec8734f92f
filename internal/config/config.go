// Package config holds the tunable constants of the simulation. Defaults
// match the reference deployment; a YAML file overlays individual fields.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Delays are the base pacing delays, in milliseconds. Each consumer adds a
// small random jitter on top; see shell.Jitter.
type Delays struct {
	MessageMS     int `yaml:"message_ms"`
	InputProcMS   int `yaml:"input_proc_ms"`
	CheckShortMS  int `yaml:"check_short_ms"`
	CheckMediumMS int `yaml:"check_medium_ms"`
	CheckLongMS   int `yaml:"check_long_ms"`
	ForwardingMS  int `yaml:"forwarding_ms"`
}

// Config holds all configurable parameters of a KafkaOS node.
type Config struct {
	OSName   string `yaml:"os_name"`
	Version  string `yaml:"version"`
	NodeID   string `yaml:"node_id"`
	Location string `yaml:"location"`

	QuantumSeconds int    `yaml:"quantum_seconds"`
	QuantumMandate string `yaml:"quantum_mandate"`

	MinIdentityLength  int    `yaml:"min_identity_length"`
	ConfirmationPhrase string `yaml:"confirmation_phrase"`

	PurposeFS         string `yaml:"purpose_fs"`
	PurposeProc       string `yaml:"purpose_proc"`
	PurposeSecureComm string `yaml:"purpose_secure_comm"`
	PurposeStatus     string `yaml:"purpose_status"`
	ShutdownCodeBase  string `yaml:"shutdown_code_base"`

	FrictionThreshold int `yaml:"friction_threshold"`
	MaxRejectCycles   int `yaml:"max_reject_cycles"`

	Delays Delays `yaml:"delays"`
}

// Quantum returns the session time budget as a duration.
func (c *Config) Quantum() time.Duration {
	return time.Duration(c.QuantumSeconds) * time.Second
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		OSName:   "KafkaOS (Kernel v0.9m-Modular)",
		Version:  "Build 20250415-MESA-RC4 (Compliance Level: Delta-Fragmented)",
		NodeID:   "KOS-NODE-AZMESA-MOD-01",
		Location: "Mesa, Arizona Operations Sector",

		QuantumSeconds: 180,
		QuantumMandate: "KOS Temporal Mandate TM-CORE-SESS-MOD-79C",

		MinIdentityLength:  5,
		ConfirmationPhrase: "I_ACKNOWLEDGE_AND_COMPLY_WITH_ALL_PROTOCOLS",

		PurposeFS:         "FS-QUERY-7701",
		PurposeProc:       "PROC-EXEC-8804",
		PurposeSecureComm: "SEC-DATA-9901",
		PurposeStatus:     "SYS-HEALTH-0101",
		ShutdownCodeBase:  "HALT_SYS_MOD_",

		FrictionThreshold: 5,
		MaxRejectCycles:   3,

		Delays: Delays{
			MessageMS:     200,
			InputProcMS:   400,
			CheckShortMS:  800,
			CheckMediumMS: 1300,
			CheckLongMS:   2000,
			ForwardingMS:  750,
		},
	}
}

// Load reads configuration from a YAML file overlaid on the defaults.
// An empty path or a missing file returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

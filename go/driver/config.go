// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tiltworks/pinball/go/pinball"
)

// Config is the driver's YAML configuration. Command line flags take
// precedence over values found here.
type Config struct {
	// Interpreter is the registry name of the interpreter to use.
	Interpreter string `yaml:"interpreter"`

	// Database is the path of the leaderboard database. Empty disables
	// score recording.
	Database string `yaml:"database"`

	// StepBudget is the per-play step budget, SI prefixes allowed
	// (e.g. "1M"). Empty selects the interpreter default.
	StepBudget string `yaml:"step_budget"`

	// Operator holds the identities the service door recognizes.
	Operator OperatorConfig `yaml:"operator"`
}

// OperatorConfig configures the static identity capability of the driver.
// Identities are 32-byte hex strings, 0x prefix optional.
type OperatorConfig struct {
	Caller string `yaml:"caller"`
	Origin string `yaml:"origin"`
}

// verifier builds the identity capability from the configured identities.
// The result is nil when no operator is configured, failing all checks.
func (c OperatorConfig) verifier() (pinball.IdentityVerifier, error) {
	if c.Caller == "" && c.Origin == "" {
		return nil, nil
	}
	var v staticVerifier
	if c.Caller != "" {
		if err := v.caller.UnmarshalText([]byte(c.Caller)); err != nil {
			return nil, fmt.Errorf("invalid operator caller identity: %w", err)
		}
	}
	if c.Origin != "" {
		if err := v.origin.UnmarshalText([]byte(c.Origin)); err != nil {
			return nil, fmt.Errorf("invalid operator origin identity: %w", err)
		}
	}
	return v, nil
}

func defaultConfig() Config {
	return Config{
		Interpreter: "flipvm",
	}
}

// loadConfig reads the configuration file at the given path, or returns
// the defaults if the path is empty.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if cfg.Interpreter == "" {
		cfg.Interpreter = "flipvm"
	}
	return cfg, nil
}

// staticVerifier recognizes exactly one caller and one origin identity.
type staticVerifier struct {
	caller pinball.Identity
	origin pinball.Identity
}

func (v staticVerifier) VerifyCaller(caller pinball.Identity) bool {
	return caller == v.caller && caller != (pinball.Identity{})
}

func (v staticVerifier) VerifyOrigin(origin pinball.Identity) bool {
	return origin == v.origin && origin != (pinball.Identity{})
}

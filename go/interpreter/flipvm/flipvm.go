// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package flipvm

import "github.com/tiltworks/pinball/go/pinball"

// Registers the flipper VM as a possible interpreter implementation.
func init() {
	configs := map[string]Config{
		// This is the officially supported configuration to be used for
		// production purposes.
		"flipvm": {},
	}

	for name, config := range configs {
		config := config
		err := pinball.RegisterInterpreterFactory(name, func(any) (pinball.Interpreter, error) {
			return NewInterpreter(config)
		})
		if err != nil {
			panic(err)
		}
	}
}

// DefaultStepBudget bounds plays that neither configure a budget on the
// interpreter nor pass one per play. One step pays for one command or for
// one scanned data byte.
const DefaultStepBudget = 1 << 20

type Config struct {
	// DefaultStepBudget applies to plays without an explicit budget;
	// zero keeps the package default.
	DefaultStepBudget uint64
}

type flipvm struct {
	config Config
}

// NewInterpreter creates a flipper VM instance with the given configuration.
func NewInterpreter(config Config) (*flipvm, error) {
	if config.DefaultStepBudget == 0 {
		config.DefaultStepBudget = DefaultStepBudget
	}
	return &flipvm{config: config}, nil
}

func (vm *flipvm) Run(params pinball.Parameters) (pinball.Result, error) {
	return run(vm.config, params)
}

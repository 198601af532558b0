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

	"github.com/charmbracelet/log"
	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"

	"github.com/tiltworks/pinball/go/leaderboard"
	"github.com/tiltworks/pinball/go/pinball"
)

var RunCmd = cli.Command{
	Action:    doRun,
	Name:      "run",
	Usage:     "Run a ball file on the pinball machine",
	ArgsUsage: "<ball-file>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "driver configuration file",
		},
		&cli.StringFlag{
			Name:  "interpreter",
			Usage: "interpreter implementation to run the ball on",
		},
		&cli.StringFlag{
			Name:  "budget",
			Usage: "step budget for the play, SI prefixes allowed (e.g. 1M)",
		},
		&cli.StringFlag{
			Name:  "db",
			Usage: "leaderboard database recording the score",
		},
		&cli.StringFlag{
			Name:  "submitter",
			Usage: "hex identity the score is recorded under",
		},
		&cli.BoolFlag{
			Name:  "quiet",
			Usage: "suppress play events, print only the final score",
		},
	},
}

func doRun(context *cli.Context) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "pinball",
	})

	if context.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one ball file argument")
	}

	config, err := loadConfig(context.String("config"))
	if err != nil {
		return err
	}
	if name := context.String("interpreter"); name != "" {
		config.Interpreter = name
	}
	if budget := context.String("budget"); budget != "" {
		config.StepBudget = budget
	}
	if db := context.String("db"); db != "" {
		config.Database = db
	}

	ball, err := os.ReadFile(context.Args().Get(0))
	if err != nil {
		return fmt.Errorf("failed to read ball file: %w", err)
	}

	interpreter, err := pinball.NewInterpreter(config.Interpreter)
	if err != nil {
		return err
	}

	options := []pinball.MachineOption{}

	if config.StepBudget != "" {
		budget, err := unitconv.ParsePrefix(config.StepBudget, unitconv.SI)
		if err != nil {
			return fmt.Errorf("invalid step budget %q: %w", config.StepBudget, err)
		}
		options = append(options, pinball.WithStepBudget(uint64(budget)))
	}

	verifier, err := config.Operator.verifier()
	if err != nil {
		return err
	}
	if verifier != nil {
		options = append(options, pinball.WithVerifier(verifier))
	}

	if config.Database != "" {
		store, err := leaderboard.Open(config.Database)
		if err != nil {
			return err
		}
		defer store.Close()
		options = append(options, pinball.WithLeaderboard(store))
	}

	if !context.Bool("quiet") {
		options = append(options, pinball.WithEventSink(logSink{logger}))
	}

	var submitter pinball.Identity
	if s := context.String("submitter"); s != "" {
		if err := submitter.UnmarshalText([]byte(s)); err != nil {
			return fmt.Errorf("invalid submitter identity: %w", err)
		}
	}

	machine := pinball.NewMachine(interpreter, options...)
	result, err := machine.Play(submitter, ball)
	if err != nil {
		return fmt.Errorf("play failed: %w", err)
	}

	logger.Info("play completed", "score", result.Score, "steps_left", result.StepsLeft)
	fmt.Println(result.Score)
	return nil
}

// logSink forwards play events to the driver's logger.
type logSink struct {
	logger *log.Logger
}

func (s logSink) Emit(message string) {
	s.logger.Info(message)
}

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

import (
	"errors"
	"fmt"

	"github.com/tiltworks/pinball/go/pinball"
)

// tickBonus is granted for every command the play survives.
const tickBonus = 50

// context is the execution environment of one play. It contains all the
// state required to execute a ball: the game state, the remaining step
// budget, and the external collaborators. For each play, a new context is
// created.
type context struct {
	state    *gameState
	steps    uint64
	verifier pinball.IdentityVerifier
	sink     pinball.EventSink
}

// useSteps reduces the step budget by the given amount. Draining the budget
// voids the play; the caller must abort with the returned error.
func (c *context) useSteps(amount uint64) error {
	if c.steps < amount {
		return errOutOfSteps
	}
	c.steps -= amount
	return nil
}

func (c *context) emit(message string) {
	if c.sink != nil {
		c.sink.Emit(message)
	}
}

func (c *context) verifyCaller(id pinball.Identity) bool {
	return c.verifier != nil && c.verifier.VerifyCaller(id)
}

func (c *context) verifyOrigin(id pinball.Identity) bool {
	return c.verifier != nil && c.verifier.VerifyOrigin(id)
}

func run(config Config, params pinball.Parameters) (pinball.Result, error) {
	commands, err := parseBall(params.Ball)
	if err != nil {
		return pinball.Result{}, err
	}

	budget := params.StepBudget
	if budget == 0 {
		budget = config.DefaultStepBudget
	}

	ctxt := &context{
		state:    newGameState(params.Ball),
		steps:    budget,
		verifier: params.Verifier,
		sink:     params.Sink,
	}

	if err := ctxt.execute(commands); err != nil {
		return pinball.Result{}, asPlayError(err)
	}

	score, err := ctxt.finalScore()
	if err != nil {
		return pinball.Result{}, asPlayError(err)
	}
	return pinball.Result{
		Score:     score,
		StepsLeft: ctxt.steps,
	}, nil
}

// execute processes the command table in order until it is exhausted or a
// command ends the play. Commands whose data window reaches past the
// declared ball region end the play without being dispatched. Every
// survived command is worth the tick bonus; the ending command is not.
func (c *context) execute(commands []Command) error {
	for _, command := range commands {
		if err := c.useSteps(1); err != nil {
			return err
		}
		if int(command.DataOffset)+int(command.DataLength) >= BallSize {
			return nil
		}
		keepPlaying, err := c.dispatch(command)
		if err != nil {
			return err
		}
		if !keepPlaying {
			return nil
		}
		bonus, err := checkedAdd(c.state.bonusScore, tickBonus)
		if err != nil {
			return err
		}
		c.state.bonusScore = bonus
	}
	return nil
}

// dispatch executes a single command. The boolean result reports whether
// the play goes on; errors void the play entirely.
func (c *context) dispatch(command Command) (bool, error) {
	switch command.Opcode {
	case END:
		return opEnd(c)
	case PULL:
		return opPull(c)
	case TILT:
		return opTilt(c, command.DataOffset)
	case FLIP_LEFT:
		return opFlipLeft(c, command.DataOffset, command.DataLength)
	case FLIP_RIGHT:
		return opFlipRight(c, command.DataOffset)
	default:
		// Undefined opcodes end the play like any other refused command.
		return false, nil
	}
}

// finalScore reduces the game state into the play's final score.
func (c *context) finalScore() (uint64, error) {
	weighted, err := checkedMul(c.state.baseScore, c.state.scoreMultiplier)
	if err != nil {
		return 0, err
	}
	return checkedAdd(weighted, c.state.bonusScore)
}

// asPlayError maps internal failures onto the public error taxonomy.
func asPlayError(err error) error {
	switch {
	case errors.Is(err, errOutOfSteps):
		return fmt.Errorf("%w: %v", pinball.ErrResourceExhausted, err)
	case errors.Is(err, errOverflow), errors.Is(err, errUnderflow):
		return fmt.Errorf("%w: %v", pinball.ErrArithmeticAbort, err)
	}
	return err
}

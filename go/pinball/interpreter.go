// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package pinball

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package pinball

// Interpreter is a component capable of executing one play described by a
// 512-byte ball buffer. To obtain an Interpreter instance, client code
// should use NewInterpreter() provided by the registry file in this package.
type Interpreter interface {
	// Run executes the ball provided by the parameters and returns the
	// play's result. The returned error is nil whenever the ball was
	// correctly executed, including plays cut short by a command the
	// machine refuses (a drained tilt budget, a miss, an explicit end
	// command); the score accumulated up to that point is still valid.
	// A non-nil error means the play is void: ErrInvalidBall for buffers
	// rejected before execution, ErrArithmeticAbort for plays aborted by a
	// checked over- or underflow, and ErrResourceExhausted for plays
	// exceeding their step budget. In all error cases the result is
	// undefined and no score may be recorded.
	// Interpreters are required to be thread-safe; each play owns its
	// private state and multiple runs may be conducted in parallel.
	Run(Parameters) (Result, error)
}

// Parameters summarizes the list of input parameters required for one play.
type Parameters struct {
	// Ball is the 512-byte buffer describing the play. It is never
	// mutated by the interpreter.
	Ball []byte

	// StepBudget bounds the work of a single play. A zero budget selects
	// the interpreter's default. Every executed command and every scanned
	// data byte consumes one step; running dry voids the play with
	// ErrResourceExhausted.
	StepBudget uint64

	// Verifier is the identity capability consulted by the service-door
	// command. It may be nil, in which case all identity checks fail.
	Verifier IdentityVerifier

	// Sink receives the play's named event messages. It may be nil.
	// Delivery is fire-and-forget and has no effect on the outcome.
	Sink EventSink
}

// Result summarizes the result of a completed play.
type Result struct {
	// Score is the final score, baseScore * scoreMultiplier + bonusScore.
	Score uint64

	// StepsLeft is the unused remainder of the step budget.
	StepsLeft uint64
}

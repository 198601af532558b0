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

import (
	"fmt"
	"time"
)

// Machine ties one Interpreter to its external collaborators and drives
// complete plays: admission check, interpreter run, and exactly one
// leaderboard record per completed play. Failed plays (invalid balls,
// aborted arithmetic, exhausted budgets, rejected admissions) never reach
// the leaderboard.
type Machine struct {
	interpreter Interpreter
	admission   AdmissionGate    // may be nil, admitting everything
	leaderboard Leaderboard      // may be nil, discarding scores
	verifier    IdentityVerifier // may be nil, failing all identity checks
	sink        EventSink        // may be nil
	stepBudget  uint64
	now         func() time.Time
}

// MachineOption configures a Machine during construction.
type MachineOption func(*Machine)

func WithAdmission(gate AdmissionGate) MachineOption {
	return func(m *Machine) { m.admission = gate }
}

func WithLeaderboard(board Leaderboard) MachineOption {
	return func(m *Machine) { m.leaderboard = board }
}

func WithVerifier(verifier IdentityVerifier) MachineOption {
	return func(m *Machine) { m.verifier = verifier }
}

func WithEventSink(sink EventSink) MachineOption {
	return func(m *Machine) { m.sink = sink }
}

func WithStepBudget(budget uint64) MachineOption {
	return func(m *Machine) { m.stepBudget = budget }
}

// withClock fixes the machine's notion of time; used by tests.
func withClock(now func() time.Time) MachineOption {
	return func(m *Machine) { m.now = now }
}

// NewMachine creates a machine running plays on the given interpreter.
func NewMachine(interpreter Interpreter, options ...MachineOption) *Machine {
	m := &Machine{
		interpreter: interpreter,
		now:         time.Now,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// Play runs one complete play of the given ball on behalf of the submitter.
// The returned result is only valid if the error is nil. A successful play
// is recorded on the leaderboard exactly once, timestamped at completion.
func (m *Machine) Play(submitter Identity, ball []byte) (Result, error) {
	if m.admission != nil {
		if err := m.admission.Admit(submitter, ball); err != nil {
			return Result{}, fmt.Errorf("ball not admitted: %w", err)
		}
	}

	result, err := m.interpreter.Run(Parameters{
		Ball:       ball,
		StepBudget: m.stepBudget,
		Verifier:   m.verifier,
		Sink:       m.sink,
	})
	if err != nil {
		return Result{}, err
	}

	if m.leaderboard != nil {
		if err := m.leaderboard.Record(submitter, m.now(), result.Score); err != nil {
			return Result{}, fmt.Errorf("failed to record score: %w", err)
		}
	}
	return result, nil
}

// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package admission

import (
	"errors"
	"fmt"
	"testing"

	"github.com/tiltworks/pinball/go/pinball"
)

func TestGate_CommitAndReveal(t *testing.T) {
	height := uint64(100)
	gate, err := NewGate(5, func() uint64 { return height })
	if err != nil {
		t.Fatalf("failed to create gate: %v", err)
	}

	ball := []byte("a ball buffer")
	if err := gate.Commit(HashBall(ball)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Too recent at the commitment height and right before the delay.
	if err := gate.Admit(pinball.Identity{}, ball); !errors.Is(err, ErrEarlyReveal) {
		t.Errorf("expected ErrEarlyReveal, got %v", err)
	}
	height = 104
	if err := gate.Admit(pinball.Identity{}, ball); !errors.Is(err, ErrEarlyReveal) {
		t.Errorf("expected ErrEarlyReveal, got %v", err)
	}

	// Old enough once the delay has passed.
	height = 105
	if err := gate.Admit(pinball.Identity{}, ball); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestGate_UnknownCommitmentIsRejected(t *testing.T) {
	gate, err := NewGate(5, func() uint64 { return 100 })
	if err != nil {
		t.Fatalf("failed to create gate: %v", err)
	}
	err = gate.Admit(pinball.Identity{}, []byte("never committed"))
	if !errors.Is(err, ErrUnknownCommitment) {
		t.Errorf("expected ErrUnknownCommitment, got %v", err)
	}
}

func TestGate_CommitmentsAreOneShot(t *testing.T) {
	gate, err := NewGate(5, func() uint64 { return 100 })
	if err != nil {
		t.Fatalf("failed to create gate: %v", err)
	}
	commitment := HashBall([]byte("a ball"))
	if err := gate.Commit(commitment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := gate.Commit(commitment); !errors.Is(err, ErrDuplicateCommitment) {
		t.Errorf("expected ErrDuplicateCommitment, got %v", err)
	}
}

func TestGate_AnySubmitterMayReveal(t *testing.T) {
	// Commitments bind the ball, not the submitter.
	gate, err := NewGate(0, func() uint64 { return 100 })
	if err != nil {
		t.Fatalf("failed to create gate: %v", err)
	}
	ball := []byte("a shared ball")
	if err := gate.Commit(HashBall(ball)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		submitter := pinball.Identity{byte(i)}
		if err := gate.Admit(submitter, ball); err != nil {
			t.Errorf("submitter %d was rejected: %v", i, err)
		}
	}
}

func TestGate_HashBallIsCachedAndConsistent(t *testing.T) {
	gate, err := NewGate(0, func() uint64 { return 0 })
	if err != nil {
		t.Fatalf("failed to create gate: %v", err)
	}
	ball := []byte("hash me twice")
	first := gate.HashBall(ball)
	second := gate.HashBall(ball)
	if first != second {
		t.Errorf("cached hash differs: %v != %v", first, second)
	}
	if first != HashBall(ball) {
		t.Errorf("gate hash differs from the package-level hash")
	}
}

func TestHashBall_MatchesKnownKeccakValue(t *testing.T) {
	// keccak-256 of the empty input is a well-known constant.
	var want pinball.Hash
	if err := want.UnmarshalText([]byte(
		"0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := HashBall(nil); got != want {
		t.Errorf("got %v, wanted %v", got, want)
	}
}

func TestGate_ConcurrentCommitsAreSafe(t *testing.T) {
	gate, err := NewGate(0, func() uint64 { return 0 })
	if err != nil {
		t.Fatalf("failed to create gate: %v", err)
	}
	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func(i int) {
			ball := []byte(fmt.Sprintf("ball %d", i))
			if err := gate.Commit(gate.HashBall(ball)); err != nil {
				done <- err
				return
			}
			done <- gate.Admit(pinball.Identity{}, ball)
		}(i)
	}
	for i := 0; i < 10; i++ {
		if err := <-done; err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}
}

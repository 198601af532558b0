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

import "math/bits"

// The playing field is 100 cells wide, split into three regions.
const (
	leftEnd   = 33  // Left   = [0,33)
	centerEnd = 66  // Center = [33,66)
	fieldSize = 100 // Right  = [66,100)
)

// noBall marks a location without a ball in play.
const noBall = ^uint16(0)

// tiltLimit is the cumulative tilt spend at which the machine tilts out.
const tiltLimit = 100

// gameState is the mutable state of one play. It is created from a
// validated ball buffer, mutated exclusively by the command handlers and
// the run loop, and discarded after the final score reduction. Nothing of
// it survives across plays.
//
// All score and tilt fields use checked arithmetic: any over- or underflow
// voids the play. Only the random sequence and the mission product
// accumulator wrap, see instructions.go.
type gameState struct {
	arena *arena
	rng   linearRand

	location         uint16 // noBall, or a field cell in [0,100)
	missionAvailable bool
	currentMission   uint8 // 0..3
	currentPowerup   uint8 // 0..3

	totalTiltPrice  uint64
	baseScore       uint64
	bonusScore      uint64
	scoreMultiplier uint64 // always >= 1
}

func newGameState(ball []byte) *gameState {
	return &gameState{
		arena:           newArena(ball),
		rng:             linearRand{state: randSeed},
		location:        noBall,
		scoreMultiplier: 1,
	}
}

// relaunch puts the ball at a random field cell.
func (s *gameState) relaunch() {
	s.location = s.rng.next() % fieldSize
}

// advancePowerup moves the powerup progression one stage forward and grows
// the score multiplier accordingly. The last stage is final.
func (s *gameState) advancePowerup() {
	switch s.currentPowerup {
	case 0:
		s.currentPowerup = 1
		s.scoreMultiplier += 2
	case 1:
		s.currentPowerup = 2
		s.scoreMultiplier += 3
	case 2:
		s.currentPowerup = 3
		s.scoreMultiplier += 5
	}
}

func inLeft(location uint16) bool {
	return location < leftEnd
}

func inCenter(location uint16) bool {
	return location >= leftEnd && location < centerEnd
}

func inRight(location uint16) bool {
	return location >= centerEnd && location < fieldSize
}

// checkedAdd returns a+b, or errOverflow if the sum does not fit 64 bits.
func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, errOverflow
	}
	return sum, nil
}

// checkedSub returns a-b, or errUnderflow for negative results.
func checkedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, errUnderflow
	}
	return diff, nil
}

// checkedMul returns a*b, or errOverflow if the product does not fit 64 bits.
func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, errOverflow
	}
	return lo, nil
}

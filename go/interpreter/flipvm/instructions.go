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
	"encoding/hex"

	"github.com/holiman/uint256"

	"github.com/tiltworks/pinball/go/pinball"
)

// Selector values of the flipper commands, big-endian ASCII tags read from
// the first four bytes of the command's data window.
const (
	selectorBumper   = 0x42554D50 // "BUMP"
	selectorCraft    = 0x50575550 // "PWUP"
	selectorDoor     = 0x444F4F52 // "DOOR"
	selectorMission  = 0x4D53534E // "MSSN"
	selectorComplete = 0x434D504C // "CMPL"
)

const (
	pullAward   = 1000 // base score for launching the ball
	tiltPenalty = 50   // bonus cost of every survived nudge

	bumperScanSize = 256 // bytes counted by the bumper mini-game
	bumperWindow   = 260 // selector plus scan region
	bumperHitCount = 64  // exact count required for an award
	comboThreshold = 5   // combo repeats needed for the flat bonus
	comboBonus     = 3000

	craftBonus = 10 // granted for every craft attempt, crafted or not

	missionUnlockBonus = 500  // for unlocking missions 1 through 3
	finalTargetAward   = 5000 // base score for matching the last target
	missionReadCount   = 10   // strided 16-bit reads per completion check
	missionProduct     = 0x1337C0DE

	doorSeed     = 0xDEADBEEF // sequence state after an operator reset
	doorLocation = 77
	doorAward    = 1500
)

// missionTargets are the four fixed 32-byte calibration values the mission
// command matches against, keyed by the current mission.
var missionTargets = [4][32]byte{
	mustTarget("3d0a788a8c1ad37a14a0dafbdb37d79f0c3e49dde494120c451913854548514e"),
	mustTarget("f496adce5c718d50ddc14de616b43ae660c41c76da9cb830da511f518bdee1aa"),
	mustTarget("5b38dcaf08554eea8dbda29313bad7b3eef98724835c2ded6d9e8110cf5ef7de"),
	mustTarget("8864769880e1f0fc7c33f8d414d8aee01ceb64244d330b03afe8500d1abf8bf7"),
}

// missionRewards are the completion bonuses keyed by the current mission.
// Mission 0 has no completion; it is only ever the starting point.
var missionRewards = [4]uint64{0, 1000, 2000, 4000}

func mustTarget(s string) (target [32]byte) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != len(target) {
		panic("invalid mission target: " + s)
	}
	copy(target[:], raw)
	return target
}

func opEnd(*context) (bool, error) {
	return false, nil
}

// opPull launches the ball. It only works while no ball is in play; with a
// ball on the field the command is refused and the play ends.
func opPull(c *context) (bool, error) {
	s := c.state
	if s.location != noBall {
		return false, nil
	}
	s.relaunch()
	base, err := checkedAdd(s.baseScore, pullAward)
	if err != nil {
		return false, err
	}
	s.baseScore = base
	c.emit("GAME START")
	return true, nil
}

// opTilt nudges the machine. The spend is added to the cumulative tilt
// price first; crossing the limit tilts the game out regardless of the
// nudge outcome. A drawn price below the spend moves the ball toward the
// nearer rail, clamped at 90 respectively 10. A failed nudge with the ball
// deep in the middle of the field drains it. Every survived nudge costs
// bonus score, and an empty bonus account voids the play.
func opTilt(c *context, offset uint16) (bool, error) {
	s := c.state
	if s.location == noBall {
		return false, nil
	}
	spend := s.arena.u8(offset)
	amount := s.arena.u8(offset + 1)
	price := s.rng.next() % 100

	total, err := checkedAdd(s.totalTiltPrice, uint64(spend))
	if err != nil {
		return false, err
	}
	s.totalTiltPrice = total
	if s.totalTiltPrice >= tiltLimit {
		c.emit("TILT")
		return false, nil
	}

	if price < uint16(spend) {
		if s.location > 50 {
			s.location += uint16(amount)
			if s.location > 90 {
				s.location = 90
			}
		} else {
			if s.location < 10+uint16(amount) {
				s.location = 10
			} else {
				s.location -= uint16(amount)
			}
		}
	} else if s.location > leftEnd && s.location < centerEnd {
		return false, nil
	}

	bonus, err := checkedSub(s.bonusScore, tiltPenalty)
	if err != nil {
		return false, err
	}
	s.bonusScore = bonus
	return true, nil
}

// opFlipLeft operates the left flipper. It only connects with the ball in
// the Left region; a ball in the Center is a plain miss and a ball on the
// Right needed the other flipper, both ending the play. The selector picks
// one of three behaviors; unknown selectors swing through empty air.
func opFlipLeft(c *context, offset, length uint16) (bool, error) {
	location := c.state.location
	if !inLeft(location) {
		if inCenter(location) {
			c.emit("MISS")
		} else {
			c.emit("WRONG FLIPPER")
		}
		return false, nil
	}
	switch c.state.arena.u32(offset) {
	case selectorBumper:
		return opBumper(c, offset, length)
	case selectorCraft:
		return opCraftPowerup(c, offset)
	case selectorDoor:
		return opServiceDoor(c, offset)
	}
	return true, nil
}

// opBumper plays the bumper mini-game: of the 256 bytes following the
// selector, exactly 64 must equal the ball's position (mod 256) for an
// award. Each award is a random draw, repeated while the machine keeps
// drawing odd; five or more repeats score the flat combo bonus. The ball
// is relaunched afterwards no matter how the count came out.
func opBumper(c *context, offset, length uint16) (bool, error) {
	s := c.state
	if length == bumperWindow {
		if err := c.useSteps(bumperScanSize); err != nil {
			return false, err
		}
		needle := byte(s.location)
		count := 0
		for i := uint16(0); i < bumperScanSize; i++ {
			if s.arena.u8(offset+4+i) == needle {
				count++
			}
		}
		if count == bumperHitCount {
			c.emit("BUMPER")
			base, err := checkedAdd(s.baseScore, uint64(s.rng.next()%500))
			if err != nil {
				return false, err
			}
			s.baseScore = base
			combo := 0
			for {
				if err := c.useSteps(1); err != nil {
					return false, err
				}
				if s.rng.next()%2 != 1 {
					break
				}
				base, err := checkedAdd(s.baseScore, uint64(s.rng.next()%500))
				if err != nil {
					return false, err
				}
				s.baseScore = base
				combo++
			}
			if combo >= comboThreshold {
				bonus, err := checkedAdd(s.bonusScore, comboBonus)
				if err != nil {
					return false, err
				}
				s.bonusScore = bonus
				c.emit("COMBO")
			}
		}
	}
	s.relaunch()
	return true, nil
}

// opCraftPowerup advances the powerup progression. The craft cost depends
// on the marker byte and the current powerup stage; position 0 cannot
// craft. A craft succeeds if cost-many bytes after the marker all repeat
// the marker, raising the score multiplier per stage. The exponential cost
// of the last stage can exceed any buffer; whatever does not fit the
// remaining step budget voids the play instead of looping unbounded.
func opCraftPowerup(c *context, offset uint16) (bool, error) {
	s := c.state
	if s.location == 0 {
		return true, nil
	}
	first := s.arena.u8(offset + 4)
	cost := craftCost(first, s.currentPowerup, s.location)
	if !cost.IsZero() {
		if !cost.IsUint64() || cost.Uint64() > c.steps {
			return false, errOutOfSteps
		}
		amount := cost.Uint64()
		if err := c.useSteps(amount); err != nil {
			return false, err
		}
		crafted := true
		for i := uint64(0); i < amount; i++ {
			if s.arena.u8(offset+5+uint16(i)) != first {
				crafted = false
				break
			}
		}
		if crafted {
			s.advancePowerup()
			c.emit("POWERUP")
		}
	}
	bonus, err := checkedAdd(s.bonusScore, craftBonus)
	if err != nil {
		return false, err
	}
	s.bonusScore = bonus
	s.relaunch()
	return true, nil
}

// craftCost yields the number of marker repetitions required to craft, or
// zero if the marker does not fit the current powerup stage. The last
// stage is priced 10^location, which is why the result is a 256-bit value.
func craftCost(first byte, powerup uint8, location uint16) *uint256.Int {
	switch {
	case first == 0x65 && powerup == 0:
		return uint256.NewInt(10)
	case first == 0x66 && powerup == 1:
		return uint256.NewInt(10 * uint64(location))
	case first == 0x67 && powerup == 2:
		return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(location)))
	}
	return uint256.NewInt(0)
}

// opServiceDoor is the operator entrance. A recognized caller identity
// re-seeds the random sequence; field position and the score award
// additionally require the origin identity. Whatever fails, the flipper
// still connected, so the play goes on.
func opServiceDoor(c *context, offset uint16) (bool, error) {
	s := c.state
	caller := pinball.Identity(s.arena.bytes32(offset + 4))
	if !c.verifyCaller(caller) {
		return true, nil
	}
	s.rng.state = doorSeed
	origin := pinball.Identity(s.arena.bytes32(offset + 36))
	if !c.verifyOrigin(origin) {
		return true, nil
	}
	s.location = doorLocation
	base, err := checkedAdd(s.baseScore, doorAward)
	if err != nil {
		return false, err
	}
	s.baseScore = base
	c.emit("SERVICE DOOR")
	return true, nil
}

// opFlipRight operates the right flipper, the mirror image of opFlipLeft:
// it only connects in the Right region and serves the two mission
// behaviors.
func opFlipRight(c *context, offset uint16) (bool, error) {
	location := c.state.location
	if !inRight(location) {
		if inCenter(location) {
			c.emit("MISS")
		} else {
			c.emit("WRONG FLIPPER")
		}
		return false, nil
	}
	switch c.state.arena.u32(offset) {
	case selectorMission:
		return opMissionProgress(c, offset)
	case selectorComplete:
		return opMissionComplete(c, offset)
	}
	return true, nil
}

// opMissionProgress matches 32 data bytes against the current mission's
// target. Matching one of the first three targets unlocks the next mission
// for completion; the last target pays straight into the base score. Only
// one mission may be pending at a time.
func opMissionProgress(c *context, offset uint16) (bool, error) {
	s := c.state
	if s.missionAvailable {
		return true, nil
	}
	if err := c.useSteps(32); err != nil {
		return false, err
	}

	// Mix the 32 data bytes with the ball position, one random draw per
	// byte. The mask below was evidently meant to roll position and draw
	// bits across iterations, but the rolled value is never written back,
	// so every conditional XOR applies a zero mask and the mixed value
	// equals the raw input. Balls in circulation depend on both the
	// identity result and the 32 consumed draws, so both are reproduced
	// bit for bit here; the dead mask is suspected to be unintended in
	// the format's reference machine.
	var value [32]byte
	mask := byte(0)
	for i := range value {
		value[i] = s.arena.u8(offset + 4 + uint16(i))
		if s.rng.next()%2 == 1 {
			value[i] ^= mask // mask never advances, see above
		}
	}

	if value == missionTargets[s.currentMission] {
		if s.currentMission < 3 {
			s.currentMission++
			s.missionAvailable = true
			bonus, err := checkedAdd(s.bonusScore, missionUnlockBonus)
			if err != nil {
				return false, err
			}
			s.bonusScore = bonus
			c.emit("MISSION UNLOCKED")
		} else {
			base, err := checkedAdd(s.baseScore, finalTargetAward)
			if err != nil {
				return false, err
			}
			s.baseScore = base
			c.emit("GRAND TARGET")
		}
	}
	s.relaunch()
	return true, nil
}

// opMissionComplete settles a pending mission. Ten 16-bit values are read
// at a stride derived from the ball position and multiplied into a
// wrapping 32-bit product; hitting the magic product completes the mission
// and parks the ball at position 0. A miss keeps the mission pending and
// merely relaunches the ball.
func opMissionComplete(c *context, offset uint16) (bool, error) {
	s := c.state
	if !s.missionAvailable {
		return true, nil
	}
	if err := c.useSteps(2 * missionReadCount); err != nil {
		return false, err
	}
	skip := 3 * (s.location - 65) // location is in Right, so skip >= 3
	product := uint32(1)
	at := offset + 4
	for i := 0; i < missionReadCount; i++ {
		product *= uint32(s.arena.u16(at)) // wrapping accumulator
		at += skip                         // offsets wrap at 2^16
	}
	if product == missionProduct {
		bonus, err := checkedAdd(s.bonusScore, missionRewards[s.currentMission])
		if err != nil {
			return false, err
		}
		s.bonusScore = bonus
		s.location = 0
		s.missionAvailable = false
		c.emit("MISSION COMPLETE")
	} else {
		s.relaunch()
	}
	return true, nil
}

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

import "fmt"

// OpCode is the single-byte command identifier of the ball format.
type OpCode byte

// The ball format defines five commands. Any other value found in a command
// table entry ends the play when reached.
const (
	END        OpCode = 0 // < stop the play, no tick bonus
	PULL       OpCode = 1 // < launch the ball onto the field
	TILT       OpCode = 2 // < nudge the ball, spending tilt budget
	FLIP_LEFT  OpCode = 3 // < operate the left flipper
	FLIP_RIGHT OpCode = 4 // < operate the right flipper

	numOpCodes = 5
)

func (op OpCode) String() string {
	switch op {
	case END:
		return "END"
	case PULL:
		return "PULL"
	case TILT:
		return "TILT"
	case FLIP_LEFT:
		return "FLIP_LEFT"
	case FLIP_RIGHT:
		return "FLIP_RIGHT"
	default:
		return fmt.Sprintf("op(0x%02X)", byte(op))
	}
}

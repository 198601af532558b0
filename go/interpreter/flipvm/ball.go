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
	"encoding/binary"
	"fmt"

	"github.com/tiltworks/pinball/go/pinball"
)

// BallSize is the exact size of a ball buffer in bytes.
const BallSize = 512

// ballMagic are the first four bytes of every valid ball.
const ballMagic = "PCTF"

const (
	commandsOffsetPos = 4 // u16be position of the command table
	commandsLengthPos = 6 // u16be number of command table entries
	commandSize       = 5 // bytes per command table entry
)

// Command is one decoded instruction of a ball's command table: an opcode
// plus the data window the command may read from. Commands are derived
// read-only views; they are parsed once and never mutated.
type Command struct {
	Opcode     OpCode
	DataOffset uint16
	DataLength uint16
}

// parseBall validates the fixed ball layout and decodes the command table.
// It fails with pinball.ErrInvalidBall if the buffer is not exactly 512
// bytes, the magic is wrong, or the declared command table does not fit the
// buffer. Individual commands are not validated here; a command whose data
// window is out of bounds ends the play when it is reached.
func parseBall(ball []byte) ([]Command, error) {
	if len(ball) != BallSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", pinball.ErrInvalidBall, BallSize, len(ball))
	}
	if string(ball[:len(ballMagic)]) != ballMagic {
		return nil, fmt.Errorf("%w: bad magic", pinball.ErrInvalidBall)
	}

	offset := binary.BigEndian.Uint16(ball[commandsOffsetPos:])
	length := binary.BigEndian.Uint16(ball[commandsLengthPos:])
	if int(offset)+int(length)*commandSize >= BallSize {
		return nil, fmt.Errorf("%w: command table out of bounds", pinball.ErrInvalidBall)
	}

	commands := make([]Command, length)
	for i := range commands {
		entry := ball[int(offset)+i*commandSize:]
		commands[i] = Command{
			Opcode:     OpCode(entry[0]),
			DataOffset: binary.BigEndian.Uint16(entry[1:]),
			DataLength: binary.BigEndian.Uint16(entry[3:]),
		}
	}
	return commands, nil
}

// EncodeCommandTable renders the 5-byte-per-entry wire form of the given
// command list. Parsing a ball and re-encoding the resulting commands
// reproduces the original table bytes.
func EncodeCommandTable(commands []Command) []byte {
	table := make([]byte, len(commands)*commandSize)
	for i, command := range commands {
		entry := table[i*commandSize:]
		entry[0] = byte(command.Opcode)
		binary.BigEndian.PutUint16(entry[1:], command.DataOffset)
		binary.BigEndian.PutUint16(entry[3:], command.DataLength)
	}
	return table
}

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
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"pgregory.net/rand"

	"github.com/tiltworks/pinball/go/pinball"
)

// makeBall assembles a valid ball buffer with the given command table placed
// right after the header. Tests write command data into the returned buffer
// directly.
func makeBall(commands []Command) []byte {
	ball := make([]byte, BallSize)
	copy(ball, ballMagic)
	binary.BigEndian.PutUint16(ball[commandsOffsetPos:], 8)
	binary.BigEndian.PutUint16(ball[commandsLengthPos:], uint16(len(commands)))
	copy(ball[8:], EncodeCommandTable(commands))
	return ball
}

func TestParseBall_DetectsInvalidBalls(t *testing.T) {
	tests := map[string]func() []byte{
		"too short": func() []byte {
			return make([]byte, BallSize-1)
		},
		"too long": func() []byte {
			return make([]byte, BallSize+1)
		},
		"empty": func() []byte {
			return nil
		},
		"bad magic": func() []byte {
			ball := makeBall(nil)
			ball[0] = 'X'
			return ball
		},
		"command table past the end": func() []byte {
			ball := makeBall(nil)
			binary.BigEndian.PutUint16(ball[commandsOffsetPos:], 500)
			binary.BigEndian.PutUint16(ball[commandsLengthPos:], 3)
			return ball
		},
		"command table length overflows": func() []byte {
			ball := makeBall(nil)
			binary.BigEndian.PutUint16(ball[commandsLengthPos:], ^uint16(0))
			return ball
		},
	}

	for name, build := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseBall(build())
			if !errors.Is(err, pinball.ErrInvalidBall) {
				t.Errorf("expected ErrInvalidBall, got %v", err)
			}
		})
	}
}

func TestParseBall_DecodesCommandTable(t *testing.T) {
	commands := []Command{
		{Opcode: PULL},
		{Opcode: FLIP_LEFT, DataOffset: 0x0123, DataLength: 0x0104},
		{Opcode: END},
	}
	parsed, err := parseBall(makeBall(commands))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(parsed) != len(commands) {
		t.Fatalf("expected %d commands, got %d", len(commands), len(parsed))
	}
	for i, command := range commands {
		if parsed[i] != command {
			t.Errorf("command %d is %+v, wanted %+v", i, parsed[i], command)
		}
	}
}

func TestParseBall_CommandDataIsNotValidated(t *testing.T) {
	// A data window past the ball only ends the play when its command is
	// reached; the parse itself must accept it.
	commands := []Command{
		{Opcode: TILT, DataOffset: ^uint16(0), DataLength: ^uint16(0)},
	}
	if _, err := parseBall(makeBall(commands)); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEncodeCommandTable_RoundTrips(t *testing.T) {
	rng := rand.New(0)
	for i := 0; i < 100; i++ {
		count := rng.Intn(20)
		commands := make([]Command, count)
		for j := range commands {
			commands[j] = Command{
				Opcode:     OpCode(rng.Intn(256)),
				DataOffset: uint16(rng.Uint32()),
				DataLength: uint16(rng.Uint32()),
			}
		}
		ball := makeBall(commands)
		parsed, err := parseBall(ball)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		table := EncodeCommandTable(parsed)
		if want := ball[8 : 8+count*commandSize]; !bytes.Equal(table, want) {
			t.Fatalf("re-encoded table differs:\n got % x\nwant % x", table, want)
		}
	}
}

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

// arena is the backing store for all data reads of a play. The ball format
// declares 512 bytes, but several commands compute read offsets that run
// past the declared region; those reads are part of the format's observable
// behavior and must not fail. The arena therefore spans the full 16-bit
// offset space, zero-filled beyond the ball image, and all offset
// arithmetic wraps at 2^16. This makes every read total: callers need no
// bounds checks.
type arena struct {
	data [arenaSize]byte
}

const arenaSize = 1 << 16

// newArena creates an arena holding the given ball image at offset zero.
func newArena(ball []byte) *arena {
	a := &arena{}
	copy(a.data[:], ball)
	return a
}

func (a *arena) u8(offset uint16) byte {
	return a.data[offset]
}

// u16 reads a big-endian 16-bit value. The second byte wraps around to
// offset zero when reading at the very end of the arena.
func (a *arena) u16(offset uint16) uint16 {
	return uint16(a.data[offset])<<8 | uint16(a.data[offset+1])
}

// u32 reads a big-endian 32-bit value, wrapping like u16.
func (a *arena) u32(offset uint16) uint32 {
	return uint32(a.u16(offset))<<16 | uint32(a.u16(offset+2))
}

// bytes32 reads 32 consecutive bytes, wrapping like u16.
func (a *arena) bytes32(offset uint16) (result [32]byte) {
	for i := range result {
		result[i] = a.data[offset+uint16(i)]
	}
	return result
}

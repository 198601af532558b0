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

// linearRand is the play's pseudo random sequence, a 32-bit linear
// congruential generator. The recurrence wraps mod 2^32; every branch the
// machine takes is derived from this sequence, so plays are fully
// reproducible from the seed. Not suitable for anything requiring
// unpredictability.
type linearRand struct {
	state uint32
}

// randSeed is the state every play starts from.
const randSeed = 1337

const (
	randMultiplier = 1103515245
	randIncrement  = 12345
)

// next advances the state and returns the high 16 bits of the new state.
func (r *linearRand) next() uint16 {
	r.state = r.state*randMultiplier + randIncrement
	return uint16(r.state >> 16)
}

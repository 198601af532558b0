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

import "github.com/tiltworks/pinball/go/pinball"

const (
	errOverflow   = pinball.ConstError("arithmetic overflow")
	errUnderflow  = pinball.ConstError("arithmetic underflow")
	errOutOfSteps = pinball.ConstError("out of steps")
)

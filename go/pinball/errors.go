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

// ConstError is an error type that can be used to define immutable
// error constants.
type ConstError string

func (e ConstError) Error() string {
	return string(e)
}

const (
	// ErrInvalidBall is reported for malformed ball buffers: wrong size, bad
	// magic, or a command table that does not fit the declared 512 bytes.
	// No play state is created and no score is recorded.
	ErrInvalidBall = ConstError("invalid ball")

	// ErrArithmeticAbort is reported when a checked score or tilt
	// accumulation would overflow or underflow. The play is void; nothing
	// reaches the leaderboard.
	ErrArithmeticAbort = ConstError("arithmetic abort")

	// ErrResourceExhausted is reported when a play exceeds its step budget.
	// Like ErrArithmeticAbort it voids the play entirely.
	ErrResourceExhausted = ConstError("resource exhausted")
)

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

import "time"

//go:generate mockgen -source collaborators.go -destination collaborators_mock.go -package pinball

// Leaderboard is the persistent score sink. The machine calls Record exactly
// once per completed play; implementations append the play to the history
// and update the submitter's best score if it was exceeded.
type Leaderboard interface {
	Record(submitter Identity, timestamp time.Time, score uint64) error
}

// IdentityVerifier is the externally supplied identity capability consulted
// by the service-door command. The caller and the origin of a play are
// checked separately: a play may pass the caller check without passing the
// origin check, and the door grants progressively more for each check
// passed. The conjunction of both checks is the full verification.
type IdentityVerifier interface {
	VerifyCaller(caller Identity) bool
	VerifyOrigin(origin Identity) bool
}

// EventSink receives the discrete named messages a play emits as a side
// channel ("GAME START", "TILT", "BUMPER", mission and powerup flavor text).
// Delivery is fire-and-forget; sinks must not influence the play.
type EventSink interface {
	Emit(message string)
}

// AdmissionGate decides whether a ball buffer may be played at all. The
// canonical implementation is a commit-reveal scheme: a commitment to the
// ball's hash must have been registered a minimum number of blocks before
// the reveal. The interpreter itself never re-validates admission.
type AdmissionGate interface {
	Admit(submitter Identity, ball []byte) error
}

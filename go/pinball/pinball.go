// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package pinball defines the public interface of the pinball machine: the
// Interpreter abstraction executing 512-byte ball buffers, the collaborator
// interfaces the machine depends on (leaderboard, identity capability, event
// sink, admission gate), and the registry through which interpreter
// implementations are made available to client code.
package pinball

import (
	"encoding/hex"
	"fmt"
)

// Identity is an opaque 32-byte identity token. The interpreter never
// interprets identities itself; it only forwards them to an
// IdentityVerifier.
type Identity [32]byte

// Hash is a 32-byte hash value, used for ball commitments.
type Hash [32]byte

func (i Identity) String() string {
	return fmt.Sprintf("0x%x", i[:])
}

func (h Hash) String() string {
	return fmt.Sprintf("0x%x", h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return bytesToText(h[:])
}

func (h *Hash) UnmarshalText(data []byte) error {
	return textToBytes(h[:], data)
}

func (i Identity) MarshalText() ([]byte, error) {
	return bytesToText(i[:])
}

func (i *Identity) UnmarshalText(data []byte) error {
	return textToBytes(i[:], data)
}

func bytesToText(data []byte) ([]byte, error) {
	return []byte(fmt.Sprintf("0x%x", data)), nil
}

func textToBytes(dst []byte, text []byte) error {
	s := string(text)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return err
	}
	if len(raw) != len(dst) {
		return fmt.Errorf("invalid length, expected %d bytes, got %d", len(dst), len(raw))
	}
	copy(dst, raw)
	return nil
}

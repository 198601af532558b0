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

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIdentity_TextRoundTrip(t *testing.T) {
	var id Identity
	for i := range id {
		id[i] = byte(i)
	}
	text, err := id.MarshalText()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var restored Identity
	if err := restored.UnmarshalText(text); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored != id {
		t.Errorf("round trip changed the identity: %v != %v", restored, id)
	}
}

func TestIdentity_UnmarshalText(t *testing.T) {
	tests := map[string]struct {
		input string
		valid bool
	}{
		"with prefix":    {"0x" + strings.Repeat("ab", 32), true},
		"without prefix": {strings.Repeat("ab", 32), true},
		"upper prefix":   {"0X" + strings.Repeat("ab", 32), true},
		"too short":      {"0xabcd", false},
		"too long":       {"0x" + strings.Repeat("ab", 33), false},
		"not hex":        {"0x" + strings.Repeat("zz", 32), false},
	}
	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var id Identity
			err := id.UnmarshalText([]byte(test.input))
			if test.valid && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !test.valid && err == nil {
				t.Errorf("expected an error for %q", test.input)
			}
		})
	}
}

func TestHash_StringHasHexPrefix(t *testing.T) {
	hash := Hash{0xAB}
	want := "0xab" + strings.Repeat("00", 31)
	if got := hash.String(); got != want {
		t.Errorf("got %q, wanted %q", got, want)
	}
}

func TestConstError_SurvivesWrapping(t *testing.T) {
	for _, err := range []ConstError{ErrInvalidBall, ErrArithmeticAbort, ErrResourceExhausted} {
		wrapped := fmt.Errorf("play failed: %w", err)
		if !errors.Is(wrapped, err) {
			t.Errorf("wrapped %v is not recognized by errors.Is", err)
		}
		if err.Error() != string(err) {
			t.Errorf("message is %q, wanted %q", err.Error(), string(err))
		}
	}
}

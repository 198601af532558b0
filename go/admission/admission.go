// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package admission implements the commit-reveal scheme gating ball
// submissions: before a ball may be played, a commitment to its keccak-256
// hash must have been registered a minimum number of blocks earlier. This
// keeps submitters from observing other plays in the same block and
// assembling a reactive ball.
package admission

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"

	"github.com/tiltworks/pinball/go/pinball"
)

const (
	ErrUnknownCommitment   = pinball.ConstError("no commitment for this ball")
	ErrDuplicateCommitment = pinball.ConstError("commitment already registered")
	ErrEarlyReveal         = pinball.ConstError("commitment too recent")
)

// BlockSource yields the current block height of the hosting environment.
type BlockSource func() uint64

// defaultHashCacheSize bounds the ball-hash cache. Balls are rehashed on
// every admission attempt; the cache keeps repeated attempts with the same
// buffer from paying for keccak again.
const defaultHashCacheSize = 1 << 10

// Gate tracks commitments and admits balls whose commitment is old enough.
// It is safe for concurrent use.
type Gate struct {
	delay  uint64
	height BlockSource

	mu          sync.Mutex
	commitments map[pinball.Hash]uint64 // commitment -> height when registered

	hashes *lru.Cache[string, pinball.Hash]
}

// NewGate creates a gate requiring commitments to be at least delay blocks
// old at reveal time.
func NewGate(delay uint64, height BlockSource) (*Gate, error) {
	hashes, err := lru.New[string, pinball.Hash](defaultHashCacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create hash cache: %w", err)
	}
	return &Gate{
		delay:       delay,
		height:      height,
		commitments: map[pinball.Hash]uint64{},
		hashes:      hashes,
	}, nil
}

// Commit registers a commitment to a ball hash at the current height.
// Commitments are one-shot; registering the same hash twice fails.
func (g *Gate) Commit(commitment pinball.Hash) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, found := g.commitments[commitment]; found {
		return ErrDuplicateCommitment
	}
	g.commitments[commitment] = g.height()
	return nil
}

// Admit implements pinball.AdmissionGate. The submitter is not part of the
// commitment; anyone may reveal a ball once its commitment has aged.
func (g *Gate) Admit(_ pinball.Identity, ball []byte) error {
	commitment := g.HashBall(ball)
	g.mu.Lock()
	committedAt, found := g.commitments[commitment]
	g.mu.Unlock()
	if !found {
		return fmt.Errorf("%w: %v", ErrUnknownCommitment, commitment)
	}
	if current := g.height(); current < committedAt+g.delay {
		return fmt.Errorf("%w: registered at block %d, current block %d, need %d",
			ErrEarlyReveal, committedAt, current, committedAt+g.delay)
	}
	return nil
}

// HashBall computes the keccak-256 commitment hash of a ball buffer,
// backed by the gate's cache.
func (g *Gate) HashBall(ball []byte) pinball.Hash {
	if hash, found := g.hashes.Get(string(ball)); found {
		return hash
	}
	hash := keccak256(ball)
	g.hashes.Add(string(ball), hash)
	return hash
}

// HashBall computes the keccak-256 commitment hash of a ball buffer. This
// is the value to register via Commit before revealing the ball.
func HashBall(ball []byte) pinball.Hash {
	return keccak256(ball)
}

var keccakHasherPool = sync.Pool{New: func() any { return sha3.NewLegacyKeccak256() }}

type keccakHasher interface {
	Reset()
	Write(in []byte) (int, error)
	Read(out []byte) (int, error)
}

func keccak256(data []byte) (hash pinball.Hash) {
	hasher := keccakHasherPool.Get().(keccakHasher)
	hasher.Reset()
	hasher.Write(data)
	hasher.Read(hash[:])
	keccakHasherPool.Put(hasher)
	return hash
}

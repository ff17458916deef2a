// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/bureau-foundation/warden/lib/clock"
)

const (
	// MinCost and MaxCost bound the accepted bcrypt cost. bcrypt
	// itself allows up to 31, but anything past 14 takes seconds per
	// hash and would let a config typo freeze every login.
	MinCost = bcrypt.MinCost
	MaxCost = 14

	// DefaultTimeout bounds a single Hash or Verify call, including
	// time spent queueing for a worker slot.
	DefaultTimeout = 10 * time.Second
)

var (
	// ErrBadCost means the configured bcrypt cost is outside
	// [MinCost, MaxCost].
	ErrBadCost = errors.New("password: bcrypt cost out of range")

	// ErrTimeout means a hash or verify call did not complete within
	// the hasher's timeout.
	ErrTimeout = errors.New("password: hashing timed out")

	// ErrMismatch means the password does not match the stored hash.
	ErrMismatch = errors.New("password: password mismatch")
)

// Hasher hashes and verifies passwords with bcrypt at a fixed cost.
// It is safe for concurrent use.
type Hasher struct {
	cost    int
	timeout time.Duration
	sem     chan struct{}
	clock   clock.Clock

	junkOnce     sync.Once
	junkDuration time.Duration

	// Test seams. Production always uses the bcrypt functions.
	hashFunc    func(password []byte, cost int) ([]byte, error)
	compareFunc func(hashed, password []byte) error
}

// NewHasher validates the cost and builds a Hasher admitting at most
// GOMAXPROCS concurrent bcrypt operations.
func NewHasher(cost int, clk clock.Clock) (*Hasher, error) {
	if cost < MinCost || cost > MaxCost {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrBadCost, cost, MinCost, MaxCost)
	}
	return &Hasher{
		cost:        cost,
		timeout:     DefaultTimeout,
		sem:         make(chan struct{}, runtime.GOMAXPROCS(0)),
		clock:       clk,
		hashFunc:    bcrypt.GenerateFromPassword,
		compareFunc: bcrypt.CompareHashAndPassword,
	}, nil
}

// Cost returns the configured bcrypt cost.
func (h *Hasher) Cost() int { return h.cost }

// Hash computes the bcrypt hash of password. It fails with ErrTimeout
// if a worker slot plus the hash itself exceed the timeout, or with
// ctx.Err() if the context is canceled first.
func (h *Hasher) Hash(ctx context.Context, password string) (string, error) {
	type result struct {
		hash string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		h.sem <- struct{}{}
		defer func() { <-h.sem }()
		hash, err := h.hashFunc([]byte(password), h.cost)
		done <- result{string(hash), err}
	}()

	select {
	case r := <-done:
		return r.hash, r.err
	case <-h.clock.After(h.timeout):
		return "", ErrTimeout
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Verify compares password against a stored bcrypt hash. It returns
// nil on a match, ErrMismatch when the password is wrong, and the
// underlying error for malformed hashes. Timeout and cancellation
// behave as in Hash.
func (h *Hasher) Verify(ctx context.Context, hashed, password string) error {
	done := make(chan error, 1)
	go func() {
		h.sem <- struct{}{}
		defer func() { <-h.sem }()
		err := h.compareFunc([]byte(hashed), []byte(password))
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			err = ErrMismatch
		}
		done <- err
	}()

	select {
	case err := <-done:
		return err
	case <-h.clock.After(h.timeout):
		return ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// JunkDelay sleeps for roughly the duration of one bcrypt comparison
// at the configured cost. Handlers call it on the rejection paths that
// skip the real comparison, so those responses take about as long as a
// failed password check.
//
// The reference duration is measured once, on first use, by hashing a
// throwaway password.
func (h *Hasher) JunkDelay() {
	h.junkOnce.Do(func() {
		start := h.clock.Now()
		h.hashFunc([]byte("honeypot credentials"), h.cost)
		h.junkDuration = h.clock.Now().Sub(start)
	})
	h.clock.Sleep(h.junkDuration)
}

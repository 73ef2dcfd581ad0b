// Copyright 2024 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

package governance

import (
	"time"

	"github.com/ethereum/go-ethereum/common/mclock"
)

// MonotonicClock turns an mclock.Clock into unix seconds. The wall-clock
// epoch is sampled once; later readings only ever advance by the monotonic
// clock, so wall-clock adjustments on the host cannot move time backwards.
type MonotonicClock struct {
	clock mclock.Clock
	start mclock.AbsTime
	epoch uint64
}

// NewMonotonicClock anchors clock at the given unix time.
func NewMonotonicClock(clock mclock.Clock, epoch uint64) *MonotonicClock {
	return &MonotonicClock{
		clock: clock,
		start: clock.Now(),
		epoch: epoch,
	}
}

// NewSystemClock returns a monotonic clock anchored at the current wall time.
func NewSystemClock() *MonotonicClock {
	return NewMonotonicClock(mclock.System{}, uint64(time.Now().Unix()))
}

// Now implements Clock.
func (c *MonotonicClock) Now() uint64 {
	elapsed := c.clock.Now().Sub(c.start)
	if elapsed < 0 {
		elapsed = 0
	}
	return c.epoch + uint64(elapsed/time.Second)
}

// FixedClock always reports the same instant. Used for replaying operations
// at a known timestamp.
type FixedClock uint64

// Now implements Clock.
func (c FixedClock) Now() uint64 { return uint64(c) }

// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ratelimit

import (
	"context"
	"fmt"
	"math/bits"
	"time"

	"photogram/modules/clock"
)

var _ RateLimiter = (*SlidingWindowRateLimiter)(nil)

// SlidingWindowRateLimiter approximates a sliding window with two fixed
// windows: the previous window's count is weighted by how much of it still
// overlaps the sliding window.
type SlidingWindowRateLimiter struct {
	clock     clock.Clock
	counter   CounterStore
	keyPrefix string

	limit  uint64
	window time.Duration
}

func NewSlidingWindow(c clock.Clock, counter CounterStore, keyPrefix string, limit int64, window time.Duration) *SlidingWindowRateLimiter {
	return &SlidingWindowRateLimiter{
		clock:     c,
		counter:   counter,
		keyPrefix: keyPrefix,
		limit:     uint64(max(limit, 0)),
		window:    window,
	}
}

func SlidingWindowFactory(c clock.Clock, counter CounterStore, keyPrefix string) LimiterFactory {
	return func(limit int64, window time.Duration) RateLimiter {
		return NewSlidingWindow(c, counter, keyPrefix, limit, window)
	}
}

func (s *SlidingWindowRateLimiter) Allow(ctx context.Context, key Key) (Result, error) {
	nowNs := s.clock.Now().UnixNano()
	windowNs := s.window.Nanoseconds()
	idx := nowNs / windowNs

	current, err := s.counter.Incr(ctx, s.buildKey(key, idx), s.window*2)
	if err != nil {
		return Result{}, err
	}
	previous, err := s.counter.Get(ctx, s.buildKey(key, idx-1))
	if err != nil {
		return Result{}, err
	}

	elapsed := min(max(nowNs-idx*windowNs, 0), windowNs)
	resetIn := max(s.window-time.Duration(elapsed), 0)

	used, allowed := s.usage(uint64(max(current, 0)), uint64(max(previous, 0)), uint64(windowNs-elapsed))

	res := Result{
		Allowed:       allowed,
		Limit:         int64(s.limit),
		Window:        s.window,
		WindowResetIn: resetIn,
	}
	if used < s.limit {
		res.Remaining = int64(s.limit - used)
	}
	if !allowed {
		res.RetryAfter = resetIn
	}
	return res, nil
}

// usage weighs both windows in nanosecond units with 128-bit arithmetic so
// consecutive requests never round to the same remaining count. It returns
// the used request count rounded up and whether the request fits the limit.
func (s *SlidingWindowRateLimiter) usage(current, previous, previousWeight uint64) (uint64, bool) {
	window := uint64(s.window.Nanoseconds())

	curHi, curLo := bits.Mul64(current, window)
	prevHi, prevLo := bits.Mul64(previous, previousWeight)
	lo, carry := bits.Add64(curLo, prevLo, 0)
	hi, _ := bits.Add64(curHi, prevHi, carry)

	limitHi, limitLo := bits.Mul64(s.limit, window)
	allowed := hi < limitHi || (hi == limitHi && lo <= limitLo)

	used := ^uint64(0)
	switch {
	case hi == 0:
		used = lo / window
		if lo%window != 0 {
			used++
		}
	case hi < window:
		q, r := bits.Div64(hi, lo, window)
		used = q
		if r != 0 && used != ^uint64(0) {
			used++
		}
	}
	return used, allowed
}

func (s *SlidingWindowRateLimiter) buildKey(key Key, idx int64) string {
	return fmt.Sprintf("%s:%s:%d", s.keyPrefix, key, idx)
}

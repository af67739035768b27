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

// Package ratelimit counts requests per key over sliding windows. Counters
// live behind CounterStore so replicas can share them through redis.
package ratelimit

import (
	"context"
	"time"
)

// Key names whoever is being limited, for example a remote address.
type Key string

type (
	RateLimiter interface {
		// Allow records one request for key and reports whether it fits the limit.
		Allow(ctx context.Context, key Key) (Result, error)
	}

	// LimiterFactory builds a limiter admitting limit requests per window.
	LimiterFactory func(limit int64, window time.Duration) RateLimiter

	// CounterStore holds the per-window request counts.
	CounterStore interface {
		// Incr adds one to key and returns the new count. A key created by
		// Incr expires after ttl.
		Incr(ctx context.Context, key string, ttl time.Duration) (int64, error)

		// Get reads key; a missing key counts as 0.
		Get(ctx context.Context, key string) (int64, error)
	}
)

type Result struct {
	Allowed   bool
	Limit     int64
	Remaining int64
	Window    time.Duration

	// RetryAfter is zero for allowed requests.
	RetryAfter    time.Duration
	WindowResetIn time.Duration
}

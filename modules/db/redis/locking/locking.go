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

// Package locking runs tasks under a rueidislock distributed lock so a
// scheduled job executes on at most one replica at a time.
package locking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"photogram/modules/clock"

	"github.com/redis/rueidis/rueidislock"
)

var (
	ErrLockNotAcquired      = errors.New("locking: lock not acquired")
	ErrInvalidConfiguration = errors.New("locking: invalid lock configuration")
	ErrNilTask              = errors.New("locking: task must not be nil")
)

type (
	TaskFunc func(ctx context.Context) error

	// LockConfiguration bounds a single run. LockAtMostFor becomes the task
	// deadline; LockAtLeastFor keeps the lock after an early return so other
	// replicas do not rerun the task right away.
	LockConfiguration struct {
		Name           string
		LockAtMostFor  time.Duration
		LockAtLeastFor time.Duration
	}

	LockingTaskExecutor struct {
		locker         rueidislock.Locker
		clock          clock.Clock
		namePrefix     string
		waitForLock    bool
		acquireTimeout time.Duration
	}

	Option func(*LockingTaskExecutor)
)

// WithWaitForLock blocks until the lock is free instead of giving up with
// ErrLockNotAcquired.
func WithWaitForLock(wait bool) Option {
	return func(e *LockingTaskExecutor) { e.waitForLock = wait }
}

// WithAcquireTimeout bounds the wait when WithWaitForLock is set.
func WithAcquireTimeout(d time.Duration) Option {
	return func(e *LockingTaskExecutor) { e.acquireTimeout = d }
}

func WithNamePrefix(prefix string) Option {
	return func(e *LockingTaskExecutor) { e.namePrefix = prefix }
}

func WithClock(c clock.Clock) Option {
	return func(e *LockingTaskExecutor) {
		if c != nil {
			e.clock = c
		}
	}
}

func NewLockingTaskExecutor(locker rueidislock.Locker, opts ...Option) *LockingTaskExecutor {
	e := &LockingTaskExecutor{
		locker: locker,
		clock:  clock.RealClockProvider(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// Execute acquires cfg.Name and runs task with a context that is cancelled
// when the lock is lost or LockAtMostFor elapses. The lock is released when
// Execute returns.
func (e *LockingTaskExecutor) Execute(ctx context.Context, cfg LockConfiguration, task TaskFunc) error {
	if task == nil {
		return ErrNilTask
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	name := e.namePrefix + cfg.Name
	lockCtx, release, err := e.acquire(ctx, name)
	if err != nil {
		return err
	}
	defer release()

	slog.DebugContext(ctx, "lock acquired", slog.String("lock", name))

	var (
		taskCtx context.Context
		cancel  context.CancelFunc
	)
	if cfg.LockAtMostFor > 0 {
		taskCtx, cancel = context.WithTimeout(lockCtx, cfg.LockAtMostFor)
	} else {
		taskCtx, cancel = context.WithCancel(lockCtx)
	}
	defer cancel()

	started := e.clock.Now()
	err = task(taskCtx)
	elapsed := e.clock.Now().Sub(started)

	slog.InfoContext(ctx, "locked task finished",
		slog.String("lock", name),
		slog.Duration("duration", elapsed),
		slog.Any("error", err),
	)

	if hold := cfg.LockAtLeastFor - elapsed; cfg.LockAtLeastFor > 0 && hold > 0 {
		timer := time.NewTimer(hold)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
		case <-lockCtx.Done():
		}
	}
	return err
}

func (e *LockingTaskExecutor) acquire(ctx context.Context, name string) (context.Context, context.CancelFunc, error) {
	if !e.waitForLock {
		lockCtx, release, err := e.locker.TryWithContext(ctx, name)
		switch {
		case errors.Is(err, rueidislock.ErrNotLocked):
			slog.DebugContext(ctx, "lock held elsewhere", slog.String("lock", name))
			return nil, nil, ErrLockNotAcquired
		case err != nil:
			return nil, nil, fmt.Errorf("locking: try %q: %w", name, err)
		}
		return lockCtx, release, nil
	}

	acquireCtx := ctx
	if e.acquireTimeout > 0 {
		var cancel context.CancelFunc
		acquireCtx, cancel = context.WithTimeout(ctx, e.acquireTimeout)
		defer cancel()
	}

	lockCtx, release, err := e.locker.WithContext(acquireCtx, name)
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return nil, nil, err
	case err != nil:
		return nil, nil, fmt.Errorf("locking: acquire %q: %w", name, err)
	}
	return lockCtx, release, nil
}

func validateConfig(cfg LockConfiguration) error {
	switch {
	case cfg.Name == "":
		return fmt.Errorf("%w: empty lock name", ErrInvalidConfiguration)
	case cfg.LockAtMostFor < 0, cfg.LockAtLeastFor < 0:
		return fmt.Errorf("%w: negative duration", ErrInvalidConfiguration)
	case cfg.LockAtMostFor > 0 && cfg.LockAtLeastFor > cfg.LockAtMostFor:
		return fmt.Errorf("%w: lockAtLeastFor %s exceeds lockAtMostFor %s",
			ErrInvalidConfiguration, cfg.LockAtLeastFor, cfg.LockAtMostFor)
	}
	return nil
}

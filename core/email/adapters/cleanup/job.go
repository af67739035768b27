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

package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"photogram/modules/db/redis/locking"

	"github.com/robfig/cron/v3"
)

const lockName = "email-confirmation-purge"

type (
	Purger interface {
		PurgeExpired(ctx context.Context) (int64, error)
	}

	LockExecutor interface {
		Execute(ctx context.Context, cfg locking.LockConfiguration, task locking.TaskFunc) error
	}

	// Job periodically purges stale email confirmations. When a lock executor
	// is configured only one replica runs a given tick.
	Job struct {
		purger Purger
		locker LockExecutor
		cfg    Config
		cron   *cron.Cron

		mu  sync.Mutex
		ctx context.Context
	}
)

func NewJob(purger Purger, locker LockExecutor, cfg Config) (*Job, error) {
	j := &Job{
		purger: purger,
		locker: locker,
		cfg:    cfg,
		cron:   cron.New(),
		ctx:    context.Background(),
	}

	if _, err := j.cron.AddFunc(cfg.Schedule, j.tick); err != nil {
		return nil, fmt.Errorf("cleanup: schedule %q: %w", cfg.Schedule, err)
	}
	return j, nil
}

// Start runs the schedule in the background. ctx is handed to every run.
func (j *Job) Start(ctx context.Context) {
	j.mu.Lock()
	j.ctx = ctx
	j.mu.Unlock()

	j.cron.Start()
	slog.InfoContext(ctx, "cleanup job started", slog.String("schedule", j.cfg.Schedule))
}

// Stop prevents new runs and waits for a running one until ctx is done.
func (j *Job) Stop(ctx context.Context) error {
	stopped := j.cron.Stop()
	select {
	case <-stopped.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunOnce purges immediately under the distributed lock.
func (j *Job) RunOnce(ctx context.Context) error {
	task := func(ctx context.Context) error {
		_, err := j.purger.PurgeExpired(ctx)
		return err
	}

	if j.locker == nil {
		return task(ctx)
	}

	err := j.locker.Execute(ctx, locking.LockConfiguration{
		Name:           lockName,
		LockAtMostFor:  j.cfg.LockAtMostFor,
		LockAtLeastFor: j.cfg.LockAtLeastFor,
	}, task)
	if errors.Is(err, locking.ErrLockNotAcquired) {
		slog.DebugContext(ctx, "cleanup skipped, another replica holds the lock")
		return nil
	}
	return err
}

func (j *Job) tick() {
	j.mu.Lock()
	ctx := j.ctx
	j.mu.Unlock()

	if err := j.RunOnce(ctx); err != nil {
		slog.ErrorContext(ctx, "cleanup run failed", slog.Any("error", err))
	}
}

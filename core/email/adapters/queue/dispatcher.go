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

package queue

import (
	"context"
	"log/slog"
	"sync"

	"photogram/core/email/domain"
	"photogram/modules/telemetry"
	"photogram/worker"
)

var _ domain.MailQueue = (*Dispatcher)(nil)

type (
	// Dispatcher is a fire-and-forget mail queue drained by a fixed worker pool.
	//
	// Close stops intake and waits for the pool to drain the buffer. If the
	// context given to Close expires first, in-flight sends are cancelled.
	Dispatcher struct {
		sender  domain.Sender
		metrics *telemetry.MailMetrics
		workers int
		buffer  int

		mu     sync.RWMutex
		closed bool
		jobs   chan domain.Message
		cancel context.CancelFunc
		done   chan struct{}
	}

	Option func(*Dispatcher)
)

func WithWorkers(n int) Option {
	return func(d *Dispatcher) {
		d.workers = n
	}
}

func WithBuffer(n int) Option {
	return func(d *Dispatcher) {
		d.buffer = n
	}
}

func WithMetrics(m *telemetry.MailMetrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher starts the worker pool immediately.
func NewDispatcher(sender domain.Sender, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		sender:  sender,
		workers: 2,
		buffer:  64,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.jobs = make(chan domain.Message, max(d.buffer, 0))

	// detached from any request: queued mail outlives the request that queued it
	runCtx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel

	go func() {
		defer close(d.done)
		worker.BlockingPool(runCtx, d.workers, d.jobs, d.deliver)
	}()

	return d
}

// Enqueue hands m to the pool without waiting. A full buffer drops the
// message with ErrQueueFull.
func (d *Dispatcher) Enqueue(ctx context.Context, m domain.Message) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return domain.ErrQueueClosed
	}

	select {
	case d.jobs <- m:
		d.metrics.RecordDelivery(ctx, "queued")
		return nil
	default:
		d.metrics.RecordDelivery(ctx, "dropped")
		return domain.ErrQueueFull
	}
}

func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.jobs)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		d.cancel()
		return nil
	case <-ctx.Done():
		slog.WarnContext(ctx, "mail queue did not drain in time, cancelling pending sends",
			slog.Int("pending", len(d.jobs)))
		d.cancel()
		<-d.done
		return ctx.Err()
	}
}

func (d *Dispatcher) deliver(ctx context.Context, m domain.Message) {
	if err := d.sender.Send(ctx, m); err != nil {
		slog.ErrorContext(ctx, "mail delivery failed",
			slog.String("subject", m.Subject), slog.Any("error", err))
		d.metrics.RecordDelivery(ctx, "failed")
		return
	}
	slog.DebugContext(ctx, "mail delivered", slog.String("subject", m.Subject))
	d.metrics.RecordDelivery(ctx, "sent")
}

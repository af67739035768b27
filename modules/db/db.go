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

// Package db holds the storage contracts the persistence adapters are
// written against. Implementations live in the postgres and redis
// subpackages.
package db

import (
	"context"
	"time"

	"github.com/stephenafamo/bob"
)

type (
	// Querier is satisfied by both bob.DB and bob.Tx, so adapters run the
	// same statements inside and outside a transaction.
	Querier interface {
		bob.Executor
	}

	TxFn func(ctx context.Context, q Querier) error

	// ConnectionPool is the full surface of a primary plus read replicas.
	ConnectionPool interface {
		HealthManager
		ConnectionManager
		MigrationManager
		TxManager

		Shutdown(context.Context) error
	}

	HealthManager interface {
		HealthCheck(ctx context.Context) error
	}

	// ConnectionManager hands out the primary for writes and a replica
	// for reads.
	ConnectionManager interface {
		Writer() Querier
		ReaderConnectionManager
	}

	// ReaderConnectionManager is all a read-only adapter needs. Reader
	// falls back to the primary when no replica is configured, so
	// read-your-write paths must use Writer.
	ReaderConnectionManager interface {
		Reader() Querier
	}

	MigrationManager interface {
		GenerateMigration(name string) error
		MigrateUp() error
		MigrateDown() error
	}

	// TxManager runs fn in a transaction on the primary, committing when
	// fn returns nil and rolling back otherwise.
	TxManager interface {
		WithTx(ctx context.Context, fn TxFn) error
		WithTimeoutTx(ctx context.Context, timeout time.Duration, fn TxFn) error
	}

	// KV is a string-keyed store. A missing key reads as (nil, nil), and
	// AtomicSet returns the value it replaced, nil when there was none.
	// Values come back as []byte.
	KV interface {
		AtomicGet(ctx context.Context, key string) (any, error)
		AtomicSet(ctx context.Context, key string, value any) (any, error)
	}
)

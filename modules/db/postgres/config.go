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

package postgres

type (
	// Note: For env parsing to work, we must export all struct fields
	PostgresConfig struct {
		WriteConfig PoolConfig      `envPrefix:"PRIMARY_"`
		ReadConfigs []PoolConfig    `envPrefix:"REPLICA_"`
		Migrations  MigrationConfig `envPrefix:"MIGRATIONS_"`
	}

	PoolConfig struct {
		Host         string `env:"HOST"     envDefault:"localhost"`
		Port         uint16 `env:"PORT"     envDefault:"5432"`
		User         string `env:"USER"     envDefault:"postgres"`
		Password     string `env:"PASSWORD" envDefault:"postgres"`
		Database     string `env:"DATABASE" envDefault:"photogram"`
		SSLMode      string `env:"SSL_MODE" envDefault:"disable"`
		PoolMaxConns int    `env:"POOL_MAX_CONNS" envDefault:"5"`
	}

	MigrationConfig struct {
		// ApplyOnStart runs pending migrations against the primary at boot.
		ApplyOnStart bool   `env:"APPLY_ON_START" envDefault:"true"`
		Dir          string `env:"DIR"            envDefault:"db/migrations"`
		Table        string `env:"TABLE"          envDefault:"schema_migrations"`
	}
)

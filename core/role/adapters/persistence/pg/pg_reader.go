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

package pg

import (
	"context"
	"database/sql"
	"errors"

	"photogram/core/role/domain"
	"photogram/modules/db"
	"photogram/modules/entity"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ domain.RoleReadStore = (*PostgresRoleReader)(nil)

type (
	RoleRow struct {
		ID   int64  `db:"id"`
		Name string `db:"name"`
	}

	PostgresRoleReader struct {
		table string
		pool  db.ReaderConnectionManager
	}
)

func NewPostgresRoleReader(pool db.ReaderConnectionManager, table string) *PostgresRoleReader {
	return &PostgresRoleReader{table: table, pool: pool}
}

func (r *PostgresRoleReader) GetRoleByName(ctx context.Context, name string) (*domain.Role, error) {
	query := psql.Select(
		sm.Columns("id", "name"),
		sm.From(r.table),
		sm.Where(psql.Quote("name").EQ(psql.Arg(name))),
	)

	row, err := bob.One(ctx, r.pool.Reader(), query, scan.StructMapper[RoleRow]())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, err
	}
	return &domain.Role{ID: entity.ID(row.ID), Name: row.Name}, nil
}

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
	"fmt"

	"photogram/core/email/domain"
	"photogram/modules/db"
	"photogram/modules/entity"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ domain.ConfirmationReadStore = (*PostgresConfirmationReader)(nil)

type PostgresConfirmationReader struct {
	table string
	pool  db.ReaderConnectionManager
}

func NewPostgresConfirmationReader(pool db.ReaderConnectionManager, table string) *PostgresConfirmationReader {
	return &PostgresConfirmationReader{table: table, pool: pool}
}

func (r *PostgresConfirmationReader) GetByUserID(ctx context.Context, userID entity.ID) (*domain.EmailConfirmation, error) {
	return r.getBy(ctx, "user_id", int64(userID))
}

func (r *PostgresConfirmationReader) GetByToken(ctx context.Context, token uuid.UUID) (*domain.EmailConfirmation, error) {
	return r.getBy(ctx, "token", token)
}

func (r *PostgresConfirmationReader) ExistsByToken(ctx context.Context, token uuid.UUID) (bool, error) {
	q := psql.RawQuery(fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE token = $1)`, r.table), token)
	exists, err := bob.One(ctx, r.pool.Reader(), q, scan.SingleColumnMapper[bool])
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostgresConfirmationReader) getBy(ctx context.Context, column string, value any) (*domain.EmailConfirmation, error) {
	query := psql.Select(
		sm.Columns(confirmationColumns...),
		sm.From(r.table),
		sm.Where(psql.Quote(column).EQ(psql.Arg(value))),
	)

	row, err := bob.One(ctx, r.pool.Reader(), query, scan.StructMapper[ConfirmationRow]())
	if err != nil {
		return nil, wrapConfirmationError(err)
	}
	c := toConfirmation(row)
	return &c, nil
}

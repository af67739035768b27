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
	"time"

	"photogram/core/email/domain"
	"photogram/modules/db"

	"github.com/gofrs/uuid/v5"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

var _ domain.ConfirmationWriteStore = (*PostgresConfirmationWriter)(nil)

type (
	PostgresConfirmationWriter struct {
		table string
		db    *bob.DB

		insertStmt bob.QueryStmt[confirmationArgs, ConfirmationRow, []ConfirmationRow]
		updateStmt bob.QueryStmt[confirmationArgs, ConfirmationRow, []ConfirmationRow]
	}

	confirmationArgs struct {
		ID           int64     `db:"id"`
		UserID       int64     `db:"user_id"`
		Token        uuid.UUID `db:"token"`
		Confirmed    bool      `db:"confirmed"`
		CreationDate time.Time `db:"creation_date"`
	}
)

func NewPostgresConfirmationWriter(ctx context.Context, pool db.ConnectionManager, table string) (*PostgresConfirmationWriter, error) {
	primary := pool.Writer().(bob.DB)

	w := &PostgresConfirmationWriter{
		table: table,
		db:    &primary,
	}

	insertQuery := psql.Insert(
		im.Into(table, "user_id", "token", "confirmed", "creation_date"),
		im.Values(
			bob.Named("user_id"),
			bob.Named("token"),
			bob.Named("confirmed"),
			bob.Named("creation_date"),
		),
		im.Returning(confirmationColumns...),
	)
	insertStmt, err := bob.PrepareQuery[confirmationArgs](ctx, primary, insertQuery, scan.StructMapper[ConfirmationRow]())
	if err != nil {
		return nil, fmt.Errorf("prepare insert confirmation: %w", err)
	}
	w.insertStmt = insertStmt

	updateQuery := psql.Update(
		um.Table(table),
		um.SetCol("token").To(bob.Named("token")),
		um.SetCol("confirmed").To(bob.Named("confirmed")),
		um.SetCol("creation_date").To(bob.Named("creation_date")),
		um.Where(psql.Quote("id").EQ(bob.Named("id"))),
		um.Returning(confirmationColumns...),
	)
	updateStmt, err := bob.PrepareQuery[confirmationArgs](ctx, primary, updateQuery, scan.StructMapper[ConfirmationRow]())
	if err != nil {
		return nil, fmt.Errorf("prepare update confirmation: %w", err)
	}
	w.updateStmt = updateStmt

	return w, nil
}

func (w *PostgresConfirmationWriter) Save(ctx context.Context, c domain.EmailConfirmation) (*domain.EmailConfirmation, error) {
	args := confirmationArgs{
		ID:           int64(c.ID),
		UserID:       int64(c.UserID),
		Token:        c.Token,
		Confirmed:    c.Confirmed,
		CreationDate: c.CreationDate,
	}

	stmt := w.updateStmt
	if c.ID.IsNew() {
		stmt = w.insertStmt
	}

	row, err := stmt.One(ctx, args)
	if err != nil {
		return nil, wrapConfirmationError(err)
	}
	saved := toConfirmation(row)
	return &saved, nil
}

func (w *PostgresConfirmationWriter) DeleteUnconfirmedBefore(ctx context.Context, t time.Time) (int64, error) {
	q := psql.RawQuery(
		fmt.Sprintf(`DELETE FROM %s WHERE confirmed = false AND creation_date < $1`, w.table),
		t,
	)
	res, err := bob.Exec(ctx, w.db, q)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

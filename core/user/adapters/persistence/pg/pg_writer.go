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
	"fmt"
	"time"

	"photogram/core/user/domain"
	"photogram/modules/db"
	"photogram/modules/entity"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

var _ domain.UserWriteStore = (*PostgresUserWriter)(nil)

type (
	PostgresUserWriter struct {
		tables Tables
		db     *bob.DB // for prepared statements on primary
		txm    db.TxManager

		updateStmt bob.QueryStmt[updateUserArgs, UserRow, []UserRow]
	}

	updateUserArgs struct {
		ID        int64  `db:"id"`
		Username  string `db:"username"`
		Firstname string `db:"firstname"`
		Email     string `db:"email"`
		Password  string `db:"password"`
		Bio       string `db:"bio"`
		Version   int64  `db:"version_number"`
	}
)

func NewPostgresUserWriter(ctx context.Context, pool db.ConnectionManager, txm db.TxManager, tables Tables) (*PostgresUserWriter, error) {
	primary := pool.Writer().(bob.DB)

	w := &PostgresUserWriter{
		tables: tables,
		db:     &primary,
		txm:    txm,
	}

	// UPDATE ... SET ..., version_number = version_number + 1 WHERE id = :id AND version_number = :version_number
	updateQuery := psql.Update(
		um.Table(tables.Users),
		um.SetCol("username").To(bob.Named("username")),
		um.SetCol("firstname").To(bob.Named("firstname")),
		um.SetCol("email").To(bob.Named("email")),
		um.SetCol("password").To(bob.Named("password")),
		um.SetCol("bio").To(bob.Named("bio")),
		um.SetCol("version_number").To(psql.Raw("version_number + 1")),
		um.Where(psql.Quote("id").EQ(bob.Named("id"))),
		um.Where(psql.Quote("version_number").EQ(bob.Named("version_number"))),
		um.Returning(userColumns...),
	)
	updateStmt, err := bob.PrepareQuery[updateUserArgs](ctx, primary, updateQuery, scan.StructMapper[UserRow]())
	if err != nil {
		return nil, fmt.Errorf("prepare update user: %w", err)
	}
	w.updateStmt = updateStmt

	return w, nil
}

// UpdateUser returns ErrPrecondition when no row matched id and version;
// callers load the user first so a vanished row is reported the same way.
func (w *PostgresUserWriter) UpdateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	row, err := w.updateStmt.One(ctx, updateUserArgs{
		ID:        int64(u.ID),
		Username:  u.Username,
		Firstname: u.Firstname,
		Email:     u.Email,
		Password:  u.Password,
		Bio:       u.Bio,
		Version:   u.Version,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPrecondition
		}
		return nil, wrapUserError(err)
	}
	updated := toUser(row)
	return &updated, nil
}

func (w *PostgresUserWriter) DeleteUser(ctx context.Context, id entity.ID) error {
	q := psql.RawQuery(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, w.tables.Users), int64(id))
	return w.execOne(ctx, q)
}

func (w *PostgresUserWriter) SetPassword(ctx context.Context, id entity.ID, hash string) error {
	q := psql.RawQuery(
		fmt.Sprintf(`UPDATE %s SET password = $1, version_number = version_number + 1 WHERE id = $2`, w.tables.Users),
		hash, int64(id),
	)
	return w.execOne(ctx, q)
}

func (w *PostgresUserWriter) SetAvatar(ctx context.Context, id entity.ID, imageID entity.ID) error {
	q := psql.RawQuery(
		fmt.Sprintf(`UPDATE %s SET avatar_image_id = $1, version_number = version_number + 1 WHERE id = $2`, w.tables.Users),
		int64(imageID), int64(id),
	)
	return w.execOne(ctx, q)
}

func (w *PostgresUserWriter) execOne(ctx context.Context, q bob.Query) error {
	res, err := bob.Exec(ctx, w.db, q)
	if err != nil {
		return wrapUserError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (w *PostgresUserWriter) WithTx(
	ctx context.Context,
	fn func(ctx context.Context, tx domain.UserWriteTx) error,
) error {
	return w.txm.WithTx(ctx, w.bind(fn))
}

func (w *PostgresUserWriter) WithTimeoutTx(
	ctx context.Context,
	timeout time.Duration,
	fn func(ctx context.Context, tx domain.UserWriteTx) error,
) error {
	return w.txm.WithTimeoutTx(ctx, timeout, w.bind(fn))
}

func (w *PostgresUserWriter) bind(fn func(ctx context.Context, tx domain.UserWriteTx) error) db.TxFn {
	return func(ctx context.Context, q db.Querier) error {
		tx, ok := q.(bob.Tx)
		if !ok {
			return fmt.Errorf("querier is not a transaction")
		}
		return fn(ctx, &userWriterTx{parent: w, tx: tx})
	}
}

type userWriterTx struct {
	parent *PostgresUserWriter
	tx     bob.Tx
}

var _ domain.UserWriteTx = (*userWriterTx)(nil)

func (t *userWriterTx) CreateUser(ctx context.Context, u domain.User) (*domain.User, error) {
	query := psql.Insert(
		im.Into(t.parent.tables.Users, "username", "firstname", "email", "password", "bio"),
		im.Values(
			psql.Arg(u.Username),
			psql.Arg(u.Firstname),
			psql.Arg(u.Email),
			psql.Arg(u.Password),
			psql.Arg(u.Bio),
		),
		im.Returning(userColumns...),
	)

	row, err := bob.One(ctx, t.tx, query, scan.StructMapper[UserRow]())
	if err != nil {
		return nil, wrapUserError(err)
	}
	created := toUser(row)
	return &created, nil
}

func (t *userWriterTx) AssignRole(ctx context.Context, userID, roleID entity.ID) error {
	q := psql.RawQuery(
		fmt.Sprintf(`INSERT INTO %s (user_id, role_id) VALUES ($1, $2)`, t.parent.tables.UserRoles),
		int64(userID), int64(roleID),
	)
	if _, err := bob.Exec(ctx, t.tx, q); err != nil {
		return wrapUserError(err)
	}
	return nil
}

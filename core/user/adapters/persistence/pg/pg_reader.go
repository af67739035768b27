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

	roledomain "photogram/core/role/domain"
	"photogram/core/user/domain"
	"photogram/modules/db"
	"photogram/modules/entity"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/scan"
)

var _ domain.UserReadStore = (*PostgresUserReader)(nil)

type PostgresUserReader struct {
	tables Tables
	pool   db.ReaderConnectionManager
}

func NewPostgresUserReader(pool db.ReaderConnectionManager, tables Tables) *PostgresUserReader {
	return &PostgresUserReader{tables: tables, pool: pool}
}

// selectUsers joins the confirmation state so EmailConfirmed is never stored twice.
func (r *PostgresUserReader) selectUsers(where string) string {
	return fmt.Sprintf(`SELECT u.id, u.username, u.firstname, u.email, u.password, u.bio,
	u.avatar_image_id, u.creation_date, u.version_number,
	COALESCE(ec.confirmed, false) AS email_confirmed
FROM %s u
LEFT JOIN %s ec ON ec.user_id = u.id
%s
ORDER BY u.id`, r.tables.Users, r.tables.Confirmations, where)
}

func (r *PostgresUserReader) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := bob.All(ctx, r.pool.Reader(), psql.RawQuery(r.selectUsers("")), scan.StructMapper[UserRow]())
	if err != nil {
		return nil, err
	}

	roles, err := r.roles(ctx, nil)
	if err != nil {
		return nil, err
	}

	users := make([]domain.User, len(rows))
	for i, row := range rows {
		users[i] = toUser(row)
		users[i].Roles = roles[users[i].ID]
	}
	return users, nil
}

func (r *PostgresUserReader) GetUserByID(ctx context.Context, id entity.ID) (*domain.User, error) {
	return r.getBy(ctx, "u.id = $1", int64(id))
}

func (r *PostgresUserReader) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.getBy(ctx, "u.username = $1", username)
}

func (r *PostgresUserReader) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "lower(u.email) = lower($1)", email)
}

func (r *PostgresUserReader) getBy(ctx context.Context, cond string, arg any) (*domain.User, error) {
	q := psql.RawQuery(r.selectUsers("WHERE "+cond), arg)
	row, err := bob.One(ctx, r.pool.Reader(), q, scan.StructMapper[UserRow]())
	if err != nil {
		return nil, wrapUserError(err)
	}

	u := toUser(row)
	roles, err := r.roles(ctx, &u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles[u.ID]
	return &u, nil
}

// roles loads the role assignments of one user, or of everyone when userID is nil.
func (r *PostgresUserReader) roles(ctx context.Context, userID *entity.ID) (map[entity.ID][]roledomain.Role, error) {
	sql := fmt.Sprintf(`SELECT ur.user_id, r.id AS role_id, r.name
FROM %s ur
JOIN %s r ON r.id = ur.role_id`, r.tables.UserRoles, r.tables.Roles)

	var args []any
	if userID != nil {
		sql += "\nWHERE ur.user_id = $1"
		args = append(args, int64(*userID))
	}
	sql += "\nORDER BY ur.user_id, r.id"

	rows, err := bob.All(ctx, r.pool.Reader(), psql.RawQuery(sql, args...), scan.StructMapper[userRoleRow]())
	if err != nil {
		return nil, fmt.Errorf("load user roles: %w", err)
	}
	return groupRoles(rows), nil
}

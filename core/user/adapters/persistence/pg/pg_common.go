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
	"database/sql"
	"errors"
	"time"

	roledomain "photogram/core/role/domain"
	"photogram/core/user/domain"
	"photogram/modules/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

type (
	// Tables names the relations the user adapters touch.
	Tables struct {
		Users         string
		Roles         string
		UserRoles     string
		Confirmations string
	}

	UserRow struct {
		ID             int64         `db:"id"`
		Username       string        `db:"username"`
		Firstname      string        `db:"firstname"`
		Email          string        `db:"email"`
		Password       string        `db:"password"`
		Bio            string        `db:"bio"`
		AvatarImageID  sql.NullInt64 `db:"avatar_image_id"`
		EmailConfirmed bool          `db:"email_confirmed"`
		CreationDate   time.Time     `db:"creation_date"`
		Version        int64         `db:"version_number"`
	}

	userRoleRow struct {
		UserID int64  `db:"user_id"`
		RoleID int64  `db:"role_id"`
		Name   string `db:"name"`
	}
)

func DefaultTables() Tables {
	return Tables{
		Users:         "users",
		Roles:         "roles",
		UserRoles:     "user_roles",
		Confirmations: "email_confirmations",
	}
}

var userColumns = []any{
	"id", "username", "firstname", "email", "password", "bio",
	"avatar_image_id", "creation_date", "version_number",
}

func toUser(row UserRow) domain.User {
	return domain.User{
		ID:             entity.ID(row.ID),
		Username:       row.Username,
		Firstname:      row.Firstname,
		Email:          row.Email,
		Password:       row.Password,
		Bio:            row.Bio,
		AvatarImageID:  entity.ID(row.AvatarImageID.Int64),
		EmailConfirmed: row.EmailConfirmed,
		CreationDate:   row.CreationDate,
		Version:        row.Version,
	}
}

func groupRoles(rows []userRoleRow) map[entity.ID][]roledomain.Role {
	out := make(map[entity.ID][]roledomain.Role)
	for _, r := range rows {
		id := entity.ID(r.UserID)
		out[id] = append(out[id], roledomain.Role{ID: entity.ID(r.RoleID), Name: r.Name})
	}
	return out
}

func wrapUserError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return domain.ErrDuplicateUser
		case "40001": // serialization_failure
			return domain.ErrPrecondition
		}
	}

	return err
}

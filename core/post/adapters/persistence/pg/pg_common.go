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

	"photogram/core/post/domain"
	"photogram/modules/entity"

	"github.com/jackc/pgx/v5/pgconn"
)

type (
	Tables struct {
		Posts    string
		Likes    string
		Comments string
	}

	PostRow struct {
		ID           int64     `db:"id"`
		UserID       int64     `db:"user_id"`
		Caption      string    `db:"caption"`
		Location     string    `db:"location"`
		ImageID      int64     `db:"image_id"`
		Visibility   string    `db:"visibility"`
		CreationDate time.Time `db:"creation_date"`
		Version      int64     `db:"version_number"`
		Likes        int64     `db:"likes"`
	}

	CommentRow struct {
		ID           int64     `db:"id"`
		PostID       int64     `db:"post_id"`
		UserID       int64     `db:"user_id"`
		Content      string    `db:"content"`
		CreationDate time.Time `db:"creation_date"`
	}
)

func DefaultTables() Tables {
	return Tables{Posts: "posts", Likes: "post_likes", Comments: "comments"}
}

var (
	postColumns    = []any{"id", "user_id", "caption", "location", "image_id", "visibility", "creation_date", "version_number"}
	commentColumns = []any{"id", "post_id", "user_id", "content", "creation_date"}
)

func toPost(row PostRow) domain.Post {
	return domain.Post{
		ID:           entity.ID(row.ID),
		UserID:       entity.ID(row.UserID),
		Caption:      row.Caption,
		Location:     row.Location,
		ImageID:      entity.ID(row.ImageID),
		Likes:        row.Likes,
		Visibility:   domain.Visibility(row.Visibility),
		CreationDate: row.CreationDate,
		Version:      row.Version,
	}
}

func toComment(row CommentRow) domain.Comment {
	return domain.Comment{
		ID:           entity.ID(row.ID),
		PostID:       entity.ID(row.PostID),
		UserID:       entity.ID(row.UserID),
		Content:      row.Content,
		CreationDate: row.CreationDate,
	}
}

type postTransformer struct{}

func (postTransformer) TransformScanned(rows []PostRow) ([]domain.Post, error) {
	out := make([]domain.Post, len(rows))
	for i, r := range rows {
		out[i] = toPost(r)
	}
	return out, nil
}

// wrapPostError maps driver errors; notFound is returned for missing rows and
// for foreign key violations on the post reference.
func wrapPostError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return domain.ErrPostNotFound
		case "40001": // serialization_failure
			return domain.ErrPrecondition
		}
	}

	return err
}

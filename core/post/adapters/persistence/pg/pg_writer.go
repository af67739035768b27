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

	"photogram/core/post/domain"
	"photogram/modules/db"
	"photogram/modules/entity"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/um"
	"github.com/stephenafamo/scan"
)

var _ domain.PostWriteStore = (*PostgresPostWriter)(nil)

type (
	PostgresPostWriter struct {
		tables Tables
		db     *bob.DB // for prepared statements on primary

		insertStmt bob.QueryStmt[insertPostArgs, PostRow, []PostRow]
		updateStmt bob.QueryStmt[updatePostArgs, PostRow, []PostRow]
	}

	insertPostArgs struct {
		UserID     int64  `db:"user_id"`
		Caption    string `db:"caption"`
		Location   string `db:"location"`
		ImageID    int64  `db:"image_id"`
		Visibility string `db:"visibility"`
	}

	updatePostArgs struct {
		ID         int64  `db:"id"`
		Caption    string `db:"caption"`
		Location   string `db:"location"`
		Visibility string `db:"visibility"`
		Version    int64  `db:"version_number"`
	}
)

func NewPostgresPostWriter(ctx context.Context, pool db.ConnectionManager, tables Tables) (*PostgresPostWriter, error) {
	primary := pool.Writer().(bob.DB)

	w := &PostgresPostWriter{
		tables: tables,
		db:     &primary,
	}

	insertQuery := psql.Insert(
		im.Into(tables.Posts, "user_id", "caption", "location", "image_id", "visibility"),
		im.Values(
			bob.Named("user_id"),
			bob.Named("caption"),
			bob.Named("location"),
			bob.Named("image_id"),
			bob.Named("visibility"),
		),
		im.Returning(postColumns...),
	)
	insertStmt, err := bob.PrepareQuery[insertPostArgs](ctx, primary, insertQuery, scan.StructMapper[PostRow]())
	if err != nil {
		return nil, fmt.Errorf("prepare insert post: %w", err)
	}
	w.insertStmt = insertStmt

	updateQuery := psql.Update(
		um.Table(tables.Posts),
		um.SetCol("caption").To(bob.Named("caption")),
		um.SetCol("location").To(bob.Named("location")),
		um.SetCol("visibility").To(bob.Named("visibility")),
		um.SetCol("version_number").To(psql.Raw("version_number + 1")),
		um.Where(psql.Quote("id").EQ(bob.Named("id"))),
		um.Where(psql.Quote("version_number").EQ(bob.Named("version_number"))),
		um.Returning(postColumns...),
	)
	updateStmt, err := bob.PrepareQuery[updatePostArgs](ctx, primary, updateQuery, scan.StructMapper[PostRow]())
	if err != nil {
		return nil, fmt.Errorf("prepare update post: %w", err)
	}
	w.updateStmt = updateStmt

	return w, nil
}

func (w *PostgresPostWriter) CreatePost(ctx context.Context, p domain.Post) (*domain.Post, error) {
	row, err := w.insertStmt.One(ctx, insertPostArgs{
		UserID:     int64(p.UserID),
		Caption:    p.Caption,
		Location:   p.Location,
		ImageID:    int64(p.ImageID),
		Visibility: string(p.Visibility),
	})
	if err != nil {
		return nil, wrapPostError(err, domain.ErrPostNotFound)
	}
	created := toPost(row)
	return &created, nil
}

// UpdatePost leaves Likes at zero; the count is not part of the row.
func (w *PostgresPostWriter) UpdatePost(ctx context.Context, p domain.Post) (*domain.Post, error) {
	row, err := w.updateStmt.One(ctx, updatePostArgs{
		ID:         int64(p.ID),
		Caption:    p.Caption,
		Location:   p.Location,
		Visibility: string(p.Visibility),
		Version:    p.Version,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPrecondition
		}
		return nil, wrapPostError(err, domain.ErrPostNotFound)
	}
	updated := toPost(row)
	return &updated, nil
}

func (w *PostgresPostWriter) DeletePost(ctx context.Context, id entity.ID) error {
	q := psql.RawQuery(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, w.tables.Posts), int64(id))
	return w.execOne(ctx, q, domain.ErrPostNotFound)
}

func (w *PostgresPostWriter) AddLike(ctx context.Context, postID, userID entity.ID) error {
	q := psql.RawQuery(
		fmt.Sprintf(`INSERT INTO %s (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`, w.tables.Likes),
		int64(postID), int64(userID),
	)
	if _, err := bob.Exec(ctx, w.db, q); err != nil {
		return wrapPostError(err, domain.ErrPostNotFound)
	}
	return nil
}

func (w *PostgresPostWriter) RemoveLike(ctx context.Context, postID, userID entity.ID) error {
	q := psql.RawQuery(
		fmt.Sprintf(`DELETE FROM %s WHERE post_id = $1 AND user_id = $2`, w.tables.Likes),
		int64(postID), int64(userID),
	)
	if _, err := bob.Exec(ctx, w.db, q); err != nil {
		return wrapPostError(err, domain.ErrPostNotFound)
	}
	return nil
}

func (w *PostgresPostWriter) CreateComment(ctx context.Context, c domain.Comment) (*domain.Comment, error) {
	query := psql.Insert(
		im.Into(w.tables.Comments, "post_id", "user_id", "content"),
		im.Values(
			psql.Arg(int64(c.PostID)),
			psql.Arg(int64(c.UserID)),
			psql.Arg(c.Content),
		),
		im.Returning(commentColumns...),
	)
	row, err := bob.One(ctx, w.db, query, scan.StructMapper[CommentRow]())
	if err != nil {
		return nil, wrapPostError(err, domain.ErrPostNotFound)
	}
	created := toComment(row)
	return &created, nil
}

func (w *PostgresPostWriter) DeleteComment(ctx context.Context, id entity.ID) error {
	q := psql.RawQuery(fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, w.tables.Comments), int64(id))
	return w.execOne(ctx, q, domain.ErrCommentNotFound)
}

func (w *PostgresPostWriter) execOne(ctx context.Context, q bob.Query, notFound error) error {
	res, err := bob.Exec(ctx, w.db, q)
	if err != nil {
		return wrapPostError(err, notFound)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

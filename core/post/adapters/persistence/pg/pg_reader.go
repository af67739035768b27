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
	"strings"

	"photogram/core/post/domain"
	"photogram/modules/db"
	"photogram/modules/entity"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var _ domain.PostReadStore = (*PostgresPostReader)(nil)

type PostgresPostReader struct {
	tables Tables
	pool   db.ReaderConnectionManager
}

func NewPostgresPostReader(pool db.ReaderConnectionManager, tables Tables) *PostgresPostReader {
	return &PostgresPostReader{tables: tables, pool: pool}
}

func (r *PostgresPostReader) selectPosts() string {
	return fmt.Sprintf(`SELECT p.id, p.user_id, p.caption, p.location, p.image_id, p.visibility,
	p.creation_date, p.version_number,
	(SELECT count(*) FROM %s l WHERE l.post_id = p.id) AS likes
FROM %s p`, r.tables.Likes, r.tables.Posts)
}

// ListPosts implements PostReadStore (pivot-based cursor).
// Comparator is relative to ORDER BY creation_date DESC, id DESC.
func (r *PostgresPostReader) ListPosts(ctx context.Context, q domain.PostQuery) ([]domain.Post, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !q.IncludePrivate {
		conds = append(conds, fmt.Sprintf("(p.visibility = %s OR p.user_id = %s)", arg(string(domain.Public)), arg(int64(q.ViewerID))))
	}
	if !q.AuthorID.IsNew() {
		conds = append(conds, "p.user_id = "+arg(int64(q.AuthorID)))
	}
	if q.After != nil {
		conds = append(conds, fmt.Sprintf("(p.creation_date, p.id) < (%s, %s)", arg(q.After.CreationDate), arg(int64(q.After.ID))))
	}

	var sb strings.Builder
	sb.WriteString(r.selectPosts())
	if len(conds) > 0 {
		sb.WriteString("\nWHERE ")
		sb.WriteString(strings.Join(conds, " AND "))
	}
	sb.WriteString("\nORDER BY p.creation_date DESC, p.id DESC")
	if q.Limit > 0 {
		sb.WriteString("\nLIMIT " + arg(q.Limit))
	}

	posts, err := bob.Allx[postTransformer](ctx, r.pool.Reader(), psql.RawQuery(sb.String(), args...), scan.StructMapper[PostRow]())
	if err != nil {
		return nil, wrapPostError(err, domain.ErrPostNotFound)
	}
	return posts, nil
}

func (r *PostgresPostReader) GetPost(ctx context.Context, id entity.ID) (*domain.Post, error) {
	q := psql.RawQuery(r.selectPosts()+"\nWHERE p.id = $1", int64(id))
	row, err := bob.One(ctx, r.pool.Reader(), q, scan.StructMapper[PostRow]())
	if err != nil {
		return nil, wrapPostError(err, domain.ErrPostNotFound)
	}
	p := toPost(row)
	return &p, nil
}

func (r *PostgresPostReader) ListComments(ctx context.Context, postIDs ...entity.ID) (map[entity.ID][]domain.Comment, error) {
	out := make(map[entity.ID][]domain.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	placeholders := make([]string, len(postIDs))
	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = int64(id)
	}
	raw := fmt.Sprintf(`SELECT id, post_id, user_id, content, creation_date
FROM %s
WHERE post_id IN (%s)
ORDER BY post_id, id`, r.tables.Comments, strings.Join(placeholders, ", "))

	rows, err := bob.All(ctx, r.pool.Reader(), psql.RawQuery(raw, args...), scan.StructMapper[CommentRow]())
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		c := toComment(row)
		out[c.PostID] = append(out[c.PostID], c)
	}
	return out, nil
}

func (r *PostgresPostReader) GetComment(ctx context.Context, id entity.ID) (*domain.Comment, error) {
	query := psql.Select(
		sm.Columns(commentColumns...),
		sm.From(r.tables.Comments),
		sm.Where(psql.Quote("id").EQ(psql.Arg(int64(id)))),
	)
	row, err := bob.One(ctx, r.pool.Reader(), query, scan.StructMapper[CommentRow]())
	if err != nil {
		return nil, wrapPostError(err, domain.ErrCommentNotFound)
	}
	c := toComment(row)
	return &c, nil
}

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

	"photogram/core/image/domain"
	"photogram/modules/db"
	"photogram/modules/entity"

	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/psql"
	"github.com/stephenafamo/bob/dialect/psql/im"
	"github.com/stephenafamo/bob/dialect/psql/sm"
	"github.com/stephenafamo/scan"
)

var (
	_ domain.ImageReadStore  = (*PostgresImageStore)(nil)
	_ domain.ImageWriteStore = (*PostgresImageStore)(nil)
)

type (
	// PostgresImageStore keeps image bytes in a bytea column. Reads go to the
	// replica, inserts use a statement prepared on the primary.
	PostgresImageStore struct {
		table string
		pool  db.ReaderConnectionManager

		insertStmt bob.QueryStmt[createImageArgs, ImageRow, []ImageRow]
	}

	createImageArgs struct {
		OwnerID     int64  `db:"owner_id"`
		ContentType string `db:"content_type"`
		Data        []byte `db:"data"`
	}
)

func NewPostgresImageStore(ctx context.Context, pool db.ConnectionManager, table string) (*PostgresImageStore, error) {
	primary := pool.Writer().(bob.DB)

	insertQuery := psql.Insert(
		im.Into(table, "owner_id", "content_type", "data"),
		im.Values(
			bob.Named("owner_id"),
			bob.Named("content_type"),
			bob.Named("data"),
		),
		im.Returning("id", "owner_id", "content_type", "data", "creation_date"),
	)
	insertStmt, err := bob.PrepareQuery[createImageArgs](ctx, primary, insertQuery, scan.StructMapper[ImageRow]())
	if err != nil {
		return nil, fmt.Errorf("prepare insert image: %w", err)
	}

	return &PostgresImageStore{
		table:      table,
		pool:       pool,
		insertStmt: insertStmt,
	}, nil
}

func (s *PostgresImageStore) GetImage(ctx context.Context, id entity.ID) (*domain.Image, error) {
	query := psql.Select(
		sm.Columns("id", "owner_id", "content_type", "data", "creation_date"),
		sm.From(s.table),
		sm.Where(psql.Quote("id").EQ(psql.Arg(int64(id)))),
	)

	row, err := bob.One(ctx, s.pool.Reader(), query, scan.StructMapper[ImageRow]())
	if err != nil {
		return nil, wrapImageError(err)
	}
	img := toImage(row)
	return &img, nil
}

func (s *PostgresImageStore) CreateImage(ctx context.Context, img domain.Image) (*domain.Image, error) {
	row, err := s.insertStmt.One(ctx, createImageArgs{
		OwnerID:     int64(img.OwnerID),
		ContentType: img.ContentType,
		Data:        img.Data,
	})
	if err != nil {
		return nil, wrapImageError(err)
	}
	created := toImage(row)
	return &created, nil
}

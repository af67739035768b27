package pg

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"photogram/core/image/domain"
	"photogram/modules/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stephenafamo/bob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPool struct{ db bob.DB }

func (p testPool) Reader() db.Querier { return p.db }
func (p testPool) Writer() db.Querier { return p.db }

var containsMatcher = sqlmock.QueryMatcherFunc(func(expected, actual string) error {
	if !strings.Contains(actual, expected) {
		return fmt.Errorf("query %q does not contain %q", actual, expected)
	}
	return nil
})

var imageColumns = []string{"id", "owner_id", "content_type", "data", "creation_date"}

func newStore(t *testing.T) (*PostgresImageStore, sqlmock.Sqlmock, *sqlmock.ExpectedPrepare) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(containsMatcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	insert := mock.ExpectPrepare(`INSERT INTO`)
	s, err := NewPostgresImageStore(context.Background(), testPool{db: bob.NewDB(sqlDB)}, "images")
	require.NoError(t, err)
	return s, mock, insert
}

func TestImageStore_CreateAndGet(t *testing.T) {
	t.Parallel()

	s, mock, insert := newStore(t)
	created := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	data := []byte("GIF89a")

	insert.ExpectQuery().
		WithArgs(int64(2), "image/gif", data).
		WillReturnRows(sqlmock.NewRows(imageColumns).AddRow(10, 2, "image/gif", data, created))

	img, err := s.CreateImage(context.Background(), domain.Image{OwnerID: 2, ContentType: "image/gif", Data: data})
	require.NoError(t, err)
	assert.EqualValues(t, 10, img.ID)

	mock.ExpectQuery(`images`).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(imageColumns).AddRow(10, 2, "image/gif", data, created))

	got, err := s.GetImage(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, *img, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestImageStore_NotFound(t *testing.T) {
	t.Parallel()

	s, mock, _ := newStore(t)
	mock.ExpectQuery(`images`).WillReturnRows(sqlmock.NewRows(imageColumns))

	_, err := s.GetImage(context.Background(), 99)
	require.ErrorIs(t, err, domain.ErrImageNotFound)
}

package pg

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"photogram/core/role/domain"
	"photogram/modules/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stephenafamo/bob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type readerPool struct{ exec bob.Executor }

func (p readerPool) Reader() db.Querier { return p.exec }

var containsMatcher = sqlmock.QueryMatcherFunc(func(expected, actual string) error {
	if !strings.Contains(actual, expected) {
		return fmt.Errorf("query %q does not contain %q", actual, expected)
	}
	return nil
})

func newReader(t *testing.T) (*PostgresRoleReader, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(containsMatcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return NewPostgresRoleReader(readerPool{exec: bob.NewDB(sqlDB)}, "roles"), mock
}

// TestGetRoleByName_Found verifies a row is mapped to a domain role.
func TestGetRoleByName_Found(t *testing.T) {
	t.Parallel()

	r, mock := newReader(t)
	mock.ExpectQuery(`roles`).
		WithArgs("ADMIN").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "ADMIN"))

	got, err := r.GetRoleByName(context.Background(), "ADMIN")
	require.NoError(t, err)
	assert.Equal(t, domain.Role{ID: 2, Name: "ADMIN"}, *got)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestGetRoleByName_NotFound verifies an empty result maps to ErrRoleNotFound.
func TestGetRoleByName_NotFound(t *testing.T) {
	t.Parallel()

	r, mock := newReader(t)
	mock.ExpectQuery(`roles`).
		WithArgs("ROOT").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	_, err := r.GetRoleByName(context.Background(), "ROOT")
	require.ErrorIs(t, err, domain.ErrRoleNotFound)
}

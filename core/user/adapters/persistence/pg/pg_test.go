package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	roledomain "photogram/core/role/domain"
	"photogram/core/user/domain"
	"photogram/modules/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stephenafamo/bob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPool struct{ db bob.DB }

func (p testPool) Reader() db.Querier { return p.db }
func (p testPool) Writer() db.Querier { return p.db }

func (p testPool) WithTx(ctx context.Context, fn db.TxFn) error {
	return p.db.RunInTx(ctx, nil, func(ctx context.Context, exec bob.Executor) error {
		return fn(ctx, exec)
	})
}

func (p testPool) WithTimeoutTx(ctx context.Context, timeout time.Duration, fn db.TxFn) error {
	ctx, stop := context.WithTimeout(ctx, timeout)
	defer stop()
	return p.WithTx(ctx, fn)
}

var containsMatcher = sqlmock.QueryMatcherFunc(func(expected, actual string) error {
	if !strings.Contains(actual, expected) {
		return fmt.Errorf("query %q does not contain %q", actual, expected)
	}
	return nil
})

var (
	created     = time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	userCols    = []string{"id", "username", "firstname", "email", "password", "bio", "avatar_image_id", "creation_date", "version_number", "email_confirmed"}
	writtenCols = userCols[:len(userCols)-1]
	roleCols    = []string{"user_id", "role_id", "name"}
)

func newMock(t *testing.T) (testPool, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(containsMatcher))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return testPool{db: bob.NewDB(sqlDB)}, mock
}

func TestUserReader_GetUserByID(t *testing.T) {
	t.Parallel()

	pool, mock := newMock(t)
	r := NewPostgresUserReader(pool, DefaultTables())

	mock.ExpectQuery(`LEFT JOIN email_confirmations`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "alice", "Alice", "alice@example.com", "hash", "", 7, created, 3, true))
	mock.ExpectQuery(`JOIN roles`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(roleCols).AddRow(1, 1, "USER").AddRow(1, 2, "ADMIN"))

	u, err := r.GetUserByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.True(t, u.EmailConfirmed)
	assert.EqualValues(t, 7, u.AvatarImageID)
	assert.EqualValues(t, 3, u.Version)
	assert.Equal(t, []roledomain.Role{{ID: 1, Name: "USER"}, {ID: 2, Name: "ADMIN"}}, u.Roles)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserReader_NotFound(t *testing.T) {
	t.Parallel()

	pool, mock := newMock(t)
	r := NewPostgresUserReader(pool, DefaultTables())
	mock.ExpectQuery(`lower(u.email) = lower($1)`).
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := r.GetUserByEmail(context.Background(), "ghost@example.com")
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserReader_ListUsers(t *testing.T) {
	t.Parallel()

	pool, mock := newMock(t)
	r := NewPostgresUserReader(pool, DefaultTables())

	mock.ExpectQuery(`FROM users u`).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "alice", "Alice", "a@example.com", "h", "", nil, created, 1, true).
			AddRow(2, "bobby", "Bobby", "b@example.com", "h", "hi", nil, created, 1, false))
	mock.ExpectQuery(`FROM user_roles ur`).
		WillReturnRows(sqlmock.NewRows(roleCols).AddRow(1, 1, "USER"))

	users, err := r.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, []string{"USER"}, users[0].RoleNames())
	assert.Empty(t, users[1].Roles)
	assert.True(t, users[1].AvatarImageID.IsNew())
}

func newWriter(t *testing.T) (*PostgresUserWriter, sqlmock.Sqlmock, *sqlmock.ExpectedPrepare) {
	t.Helper()
	pool, mock := newMock(t)
	update := mock.ExpectPrepare(`UPDATE`)
	w, err := NewPostgresUserWriter(context.Background(), pool, pool, DefaultTables())
	require.NoError(t, err)
	return w, mock, update
}

func TestUserWriter_UpdateUser(t *testing.T) {
	t.Parallel()

	w, mock, update := newWriter(t)
	update.ExpectQuery().
		WithArgs("alice", "Alice", "alice@example.com", "hash", "bio", int64(1), int64(3)).
		WillReturnRows(sqlmock.NewRows(writtenCols).
			AddRow(1, "alice", "Alice", "alice@example.com", "hash", "bio", nil, created, 4))

	u, err := w.UpdateUser(context.Background(), domain.User{
		ID: 1, Username: "alice", Firstname: "Alice", Email: "alice@example.com",
		Password: "hash", Bio: "bio", Version: 3,
	})
	require.NoError(t, err)
	assert.EqualValues(t, 4, u.Version)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriter_UpdateUserStaleVersion(t *testing.T) {
	t.Parallel()

	w, _, update := newWriter(t)
	update.ExpectQuery().WillReturnRows(sqlmock.NewRows(writtenCols))

	_, err := w.UpdateUser(context.Background(), domain.User{ID: 1, Version: 1})
	require.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestUserWriter_UpdateUserDuplicate(t *testing.T) {
	t.Parallel()

	w, _, update := newWriter(t)
	update.ExpectQuery().WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := w.UpdateUser(context.Background(), domain.User{ID: 1, Version: 1})
	require.ErrorIs(t, err, domain.ErrDuplicateUser)
}

func TestUserWriter_Exec(t *testing.T) {
	t.Parallel()

	w, mock, _ := newWriter(t)
	ctx := context.Background()

	mock.ExpectExec(`DELETE FROM users`).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, w.DeleteUser(ctx, 4))

	mock.ExpectExec(`SET password`).WithArgs("h2", int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))
	require.ErrorIs(t, w.SetPassword(ctx, 4, "h2"), domain.ErrUserNotFound)

	mock.ExpectExec(`SET avatar_image_id`).WithArgs(int64(9), int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, w.SetAvatar(ctx, 4, 9))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriter_CreateInTx(t *testing.T) {
	t.Parallel()

	w, mock, _ := newWriter(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO`).
		WithArgs("carol", "Carol", "carol@example.com", "hash", "").
		WillReturnRows(sqlmock.NewRows(writtenCols).
			AddRow(5, "carol", "Carol", "carol@example.com", "hash", "", nil, created, 1))
	mock.ExpectExec(`INSERT INTO user_roles`).
		WithArgs(int64(5), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var got *domain.User
	err := w.WithTimeoutTx(context.Background(), time.Second, func(ctx context.Context, tx domain.UserWriteTx) error {
		u, err := tx.CreateUser(ctx, domain.User{Username: "carol", Firstname: "Carol", Email: "carol@example.com", Password: "hash"})
		if err != nil {
			return err
		}
		got = u
		return tx.AssignRole(ctx, u.ID, 1)
	})
	require.NoError(t, err)
	assert.EqualValues(t, 5, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserWriter_CreateDuplicateRollsBack(t *testing.T) {
	t.Parallel()

	w, mock, _ := newWriter(t)
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO`).WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := w.WithTx(context.Background(), func(ctx context.Context, tx domain.UserWriteTx) error {
		_, err := tx.CreateUser(ctx, domain.User{Username: "alice"})
		return err
	})
	require.ErrorIs(t, err, domain.ErrDuplicateUser)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWrapUserError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, wrapUserError(nil))
	assert.ErrorIs(t, wrapUserError(sql.ErrNoRows), domain.ErrUserNotFound)
	assert.ErrorIs(t, wrapUserError(&pgconn.PgError{Code: "40001"}), domain.ErrPrecondition)
}

package dbconn

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mitranim/sqld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T, dialect sqld.Dialect, opts ...Option) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	pool, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	return OpenDB(dialect, pool, opts...), mock
}

func TestDB_Exec(t *testing.T) {
	db, mock := newMock(t, sqld.Postgres, WithPrefix(`app_`))

	mock.ExpectExec(`DELETE FROM "app_sessions" WHERE "expired" = TRUE`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := db.Exec(context.Background(), sqld.NewDelete(sqld.Postgres, `sessions`).
		WhereFn(func(cond *sqld.Conditions) { cond.And(`expired`, `=`, true) }))

	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_Exec_compile_error(t *testing.T) {
	db, mock := newMock(t, sqld.Mysql)

	_, err := db.Exec(context.Background(), sqld.NewInsert(sqld.Mysql, `users`).
		Values(1).
		Returning(`id`))

	require.Error(t, err)
	assert.True(t, errors.Is(err, sqld.ErrUnsupported))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_Exec_driver_error(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db, mock := newMock(t, sqld.Sqlite, WithLogger(logger))

	fail := errors.New(`disk is full`)
	mock.ExpectExec(`DELETE FROM "logs"`).WillReturnError(fail)

	_, err := db.Exec(context.Background(), sqld.NewDelete(sqld.Sqlite, `logs`))
	require.Error(t, err)
	assert.ErrorIs(t, err, fail)
	assert.Contains(t, err.Error(), `dbconn: exec`)

	assert.Contains(t, buf.String(), `level=ERROR`)
	assert.Contains(t, buf.String(), `disk is full`)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_logging(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	db, mock := newMock(t, sqld.Postgres, WithLogger(logger))

	mock.ExpectExec(`DROP TABLE "one"`).WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := db.Exec(context.Background(), sqld.NewDropTable(sqld.Postgres, `one`))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `level=DEBUG`)
	assert.Contains(t, out, `msg="statement executed"`)
	assert.Contains(t, out, `dialect=postgres`)
	assert.Contains(t, out, `sql="DROP TABLE \"one\""`)
	assert.Contains(t, out, `elapsed=`)
}

func TestDB_Query(t *testing.T) {
	db, mock := newMock(t, sqld.Postgres)

	mock.ExpectQuery(`SELECT "id" FROM "users" LIMIT 1`).
		WillReturnRows(sqlmock.NewRows([]string{`id`}).AddRow(10))

	rows, err := db.Query(context.Background(), sqld.NewSelect(sqld.Postgres, `id`).
		From(`users`, ``).
		Limit(1))
	require.NoError(t, err)

	var ids []int64
	for rows.Next() {
		var id int64
		require.NoError(t, rows.Scan(&id))
		ids = append(ids, id)
	}
	require.NoError(t, rows.Err())
	require.NoError(t, rows.Close())

	assert.Equal(t, []int64{10}, ids)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_Insert_returning(t *testing.T) {
	db, mock := newMock(t, sqld.Postgres)

	mock.ExpectQuery(`INSERT INTO "users" ("name") VALUES ('one'), ('two') RETURNING "id"`).
		WillReturnRows(sqlmock.NewRows([]string{`id`}).AddRow(7).AddRow(8))

	res, err := db.Insert(context.Background(), sqld.NewInsert(sqld.Postgres, `users`).
		Columns(`name`).
		Values(`one`).
		Values(`two`).
		Identity(`id`))

	require.NoError(t, err)
	assert.Equal(t, InsertResult{RowsAffected: 2, LastInsertId: 8}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_Insert_last_insert_id(t *testing.T) {
	db, mock := newMock(t, sqld.Mysql)

	mock.ExpectExec("INSERT INTO `users` (`name`) VALUES ('one')").
		WillReturnResult(sqlmock.NewResult(42, 1))

	res, err := db.Insert(context.Background(), sqld.NewInsert(sqld.Mysql, `users`).
		Columns(`name`).
		Values(`one`).
		Identity(`id`))

	require.NoError(t, err)
	assert.Equal(t, InsertResult{RowsAffected: 1, LastInsertId: 42}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_Insert_without_identity(t *testing.T) {
	db, mock := newMock(t, sqld.Postgres)

	mock.ExpectExec(`INSERT INTO "users" DEFAULT VALUES`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := db.Insert(context.Background(), sqld.NewInsert(sqld.Postgres, `users`))
	require.NoError(t, err)
	assert.Equal(t, InsertResult{RowsAffected: 1}, res)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_With(t *testing.T) {
	db, mock := newMock(t, sqld.Postgres, WithPrefix(`app_`))

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "app_one"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	tx, err := db.Conn().(*sql.DB).BeginTx(context.Background(), nil)
	require.NoError(t, err)

	txDb := db.With(tx)
	assert.Equal(t, db.Ctx(), txDb.Ctx())

	_, err = txDb.Exec(context.Background(), sqld.NewDelete(sqld.Postgres, `one`))
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDB_Close(t *testing.T) {
	pool, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	require.NoError(t, OpenDB(sqld.Postgres, pool).Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

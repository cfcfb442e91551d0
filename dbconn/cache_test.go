package dbconn

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mitranim/sqld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	_, ok := cache.Get(`one`)
	assert.False(t, ok)

	cache.Set(`one`, []byte(`10`), time.Minute)
	cache.Set(`two`, []byte(`20`), 0)

	val, ok := cache.Get(`one`)
	assert.True(t, ok)
	assert.Equal(t, []byte(`10`), val)

	now = now.Add(time.Minute)

	_, ok = cache.Get(`one`)
	assert.False(t, ok, `entry must expire after its ttl`)

	val, ok = cache.Get(`two`)
	assert.True(t, ok, `entry without ttl must not expire`)
	assert.Equal(t, []byte(`20`), val)

	cache.Delete(`two`)
	assert.Equal(t, 0, cache.Len())
}

func TestFingerprint(t *testing.T) {
	one := Fingerprint(sqld.Postgres, `SELECT 1`)

	assert.Equal(t, one, Fingerprint(sqld.Postgres, `SELECT 1`))
	assert.NotEqual(t, one, Fingerprint(sqld.Mysql, `SELECT 1`))
	assert.NotEqual(t, one, Fingerprint(sqld.Postgres, `SELECT 2`))
	assert.Regexp(t, `^[0-9a-f]+$`, one)
}

func TestCachedQuery(t *testing.T) {
	db, mock := newMock(t, sqld.Postgres)
	query := NewCachedQuery(db, nil, time.Minute)
	stmt := sqld.NewSelect(sqld.Postgres, `id`, `name`).From(`users`, ``)

	mock.ExpectQuery(`SELECT "id", "name" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{`id`, `name`}).
			AddRow(int64(1), `one`).
			AddRow(int64(2), `two`))

	expected := Rows{
		{`id`: int64(1), `name`: `one`},
		{`id`: int64(2), `name`: `two`},
	}

	for range 3 {
		rows, err := query.Rows(context.Background(), stmt)
		require.NoError(t, err)
		assert.Equal(t, expected, rows)
	}
	require.NoError(t, mock.ExpectationsWereMet())

	require.NoError(t, query.Invalidate(stmt))

	mock.ExpectQuery(`SELECT "id", "name" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{`id`, `name`}))

	rows, err := query.Rows(context.Background(), stmt)
	require.NoError(t, err)
	assert.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedQuery_compile_error(t *testing.T) {
	db, mock := newMock(t, sqld.Sqlite)
	query := NewCachedQuery(db, NewMemoryCache(), 0)

	_, err := query.Rows(context.Background(), sqld.NewDelete(sqld.Sqlite, `one`).Returning(`id`))
	assert.ErrorIs(t, err, sqld.ErrUnsupported)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCachedQuery_concurrent(t *testing.T) {
	db := openSqlite(t)
	ctx := context.Background()

	_, err := db.Exec(ctx, sqld.NewCreateTable(sqld.Sqlite, `nums`).
		Column(sqld.NewColumn(`val`, `INTEGER`).NotNull()))
	require.NoError(t, err)

	_, err = db.Exec(ctx, sqld.NewInsert(sqld.Sqlite, `nums`).
		Columns(`val`).
		Rows([]any{1}, []any{2}, []any{3}))
	require.NoError(t, err)

	query := NewCachedQuery(db, NewMemoryCache(), time.Minute)
	stmt := sqld.NewSelect(sqld.Sqlite, `val`).From(`nums`, ``).OrderBy(`val`, sqld.DirAsc)

	var group sync.WaitGroup
	results := make([]Rows, 8)
	errs := make([]error, len(results))

	for ind := range results {
		group.Add(1)
		go func() {
			defer group.Done()
			results[ind], errs[ind] = query.Rows(ctx, stmt)
		}()
	}
	group.Wait()

	for ind := range results {
		require.NoError(t, errs[ind])
		assert.Equal(t, Rows{{`val`: int64(1)}, {`val`: int64(2)}, {`val`: int64(3)}}, results[ind])
	}
}

func TestConfig_CachedQuery_ttl(t *testing.T) {
	conf, err := ParseConfig([]byte("url: postgres://localhost/app\ncache:\n  ttl: 30s\n"))
	require.NoError(t, err)
	require.Equal(t, 30*time.Second, conf.Cache.TTL)

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cache := NewMemoryCache()
	cache.now = func() time.Time { return now }

	db, mock := newMock(t, sqld.Postgres)
	query := conf.CachedQuery(db, cache)
	stmt := sqld.NewSelect(sqld.Postgres, `id`).From(`users`, ``)

	mock.ExpectQuery(`SELECT "id" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{`id`}).AddRow(int64(1)))

	for range 2 {
		rows, err := query.Rows(context.Background(), stmt)
		require.NoError(t, err)
		assert.Equal(t, Rows{{`id`: int64(1)}}, rows)
	}
	require.NoError(t, mock.ExpectationsWereMet())

	now = now.Add(29 * time.Second)
	_, err = query.Rows(context.Background(), stmt)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet(), `entry must survive until its ttl`)

	now = now.Add(time.Second)
	mock.ExpectQuery(`SELECT "id" FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{`id`}).AddRow(int64(2)))

	rows, err := query.Rows(context.Background(), stmt)
	require.NoError(t, err)
	assert.Equal(t, Rows{{`id`: int64(2)}}, rows, `expired entry must be refetched`)
	require.NoError(t, mock.ExpectationsWereMet())
}

package dbconn

import (
	"context"
	"database/sql"
	"testing"

	"github.com/mitranim/sqld"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory databases are per connection, so the pool is limited to one.
func openSqlite(t *testing.T) *DB {
	t.Helper()
	db, err := Open(context.Background(), `sqlite::memory:`)
	require.NoError(t, err)
	db.Conn().(*sql.DB).SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestSqlite_end_to_end(t *testing.T) {
	db := openSqlite(t)
	ctx := context.Background()
	dialect := db.Dialect()
	require.Equal(t, sqld.Sqlite, dialect)

	_, err := db.Exec(ctx, sqld.NewCreateTable(dialect, `users`).
		Column(
			sqld.NewColumn(`id`, `INTEGER`).Identity(),
			sqld.NewColumn(`name`, `TEXT`).NotNull(),
			sqld.NewColumn(`active`, `BOOLEAN`).NotNull().Default(true),
		))
	require.NoError(t, err)

	res, err := db.Insert(ctx, sqld.NewInsert(dialect, `users`).
		Columns(`name`).
		Values(`one`).
		Identity(`id`))
	require.NoError(t, err)
	assert.Equal(t, InsertResult{RowsAffected: 1, LastInsertId: 1}, res)

	res, err = db.Insert(ctx, sqld.NewInsert(dialect, `users`).
		Columns(`name`, `active`).
		Rows([]any{`two`, false}, []any{`it's three`, true}).
		Identity(`id`))
	require.NoError(t, err)
	assert.Equal(t, InsertResult{RowsAffected: 2, LastInsertId: 3}, res)

	count, err := db.Exec(ctx, sqld.NewUpdate(dialect, `users`).
		Set(`active`, false).
		WhereFn(func(cond *sqld.Conditions) { cond.And(`active`, `=`, true) }).
		OrderBy(`id`, sqld.DirDesc).
		Limit(1))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	rows, err := NewCachedQuery(db, nil, 0).Rows(ctx, sqld.NewSelect(dialect, `id`, `name`).
		From(`users`, ``).
		WhereFn(func(cond *sqld.Conditions) { cond.And(`active`, `=`, false) }).
		OrderBy(`id`, sqld.DirAsc))
	require.NoError(t, err)
	assert.Equal(t, Rows{
		{`id`: int64(2), `name`: `two`},
		{`id`: int64(3), `name`: `it's three`},
	}, rows)

	count, err = db.Exec(ctx, sqld.NewDelete(dialect, `users`).
		WhereFn(func(cond *sqld.Conditions) { cond.And(`name`, `IN`, []string{`one`, `two`}) }))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	_, err = db.Exec(ctx, sqld.NewDropTable(dialect, `users`).IfExists())
	require.NoError(t, err)
}

func TestSqlite_struct(t *testing.T) {
	db := openSqlite(t)
	ctx := context.Background()

	type Person struct {
		Name  string  `db:"name"`
		Email *string `db:"email"`
		Note  string
	}

	_, err := db.Exec(ctx, sqld.NewCreateTable(sqld.Sqlite, `people`).
		Column(
			sqld.NewColumn(`name`, `TEXT`).NotNull(),
			sqld.NewColumn(`email`, `TEXT`),
		))
	require.NoError(t, err)

	_, err = db.Exec(ctx, sqld.NewInsert(sqld.Sqlite, `people`).Struct(Person{Name: `one`}))
	require.NoError(t, err)

	rows, err := NewCachedQuery(db, nil, 0).Rows(ctx, sqld.NewSelect(sqld.Sqlite, `name`).
		From(`people`, ``).
		Where(sqld.Cond().Struct(Person{Name: `one`})))
	require.NoError(t, err)
	assert.Equal(t, Rows{{`name`: `one`}}, rows)
}

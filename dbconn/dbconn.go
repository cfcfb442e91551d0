/*
Implementation of `sqld.Connection` over "database/sql". Opens connections by
URL, inferring the dialect from the scheme, logs executed statements via
"log/slog", and provides a simple key-based cache of materialized query
results.

	db, err := dbconn.Open(ctx, `sqlite::memory:`, dbconn.WithPrefix(`app_`))
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(ctx, sqld.NewDelete(db.Dialect(), `sessions`).
		WhereFn(func(cond *sqld.Conditions) { cond.And(`expired`, `=`, true) }))
*/
package dbconn

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/mitranim/sqld"
)

/*
Subset of `*sql.DB`, `*sql.Conn` and `*sql.Tx` used for executing statements.
Compiled statements carry no driver arguments: literal values are embedded in
the SQL text.
*/
type ExecQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Configures a `DB`.
type Option func(*DB)

// Sets the table prefix applied to every compiled statement.
func WithPrefix(val string) Option {
	return func(db *DB) { db.prefix = val }
}

// Sets the logger. Nil disables logging.
func WithLogger(val *slog.Logger) Option {
	return func(db *DB) { db.logger = val }
}

/*
Database handle bound to a dialect and a table prefix. Implements
`sqld.Connection`. Safe for concurrent use when the underlying `ExecQuerier`
is.
*/
type DB struct {
	conn    ExecQuerier
	dialect sqld.Dialect
	prefix  string
	logger  *slog.Logger
}

var _ sqld.Connection = (*DB)(nil)

// Wraps an arbitrary `ExecQuerier`, such as a transaction.
func New(dialect sqld.Dialect, conn ExecQuerier, opts ...Option) *DB {
	out := &DB{conn: conn, dialect: dialect}
	if out.dialect == nil {
		out.dialect = sqld.Standard
	}
	for _, opt := range opts {
		if opt != nil {
			opt(out)
		}
	}
	if out.logger == nil {
		out.logger = slog.New(slog.DiscardHandler)
	}
	return out
}

// Wraps an existing pool.
func OpenDB(dialect sqld.Dialect, db *sql.DB, opts ...Option) *DB {
	return New(dialect, db, opts...)
}

/*
Opens a pool for the given database URL and verifies it with a ping. Supports
`postgres://`, `mysql://` and `sqlite:` URLs; see `ParseURL`.
*/
func Open(ctx context.Context, src string, opts ...Option) (*DB, error) {
	conf, err := ParseURL(src)
	if err != nil {
		return nil, err
	}

	pool, err := sql.Open(conf.Driver, conf.DSN)
	if err != nil {
		return nil, fmt.Errorf(`dbconn: open %v: %w`, conf.Driver, err)
	}

	err = pool.PingContext(ctx)
	if err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf(`dbconn: ping %v: %w`, conf.Driver, err)
	}

	return OpenDB(conf.Dialect, pool, opts...), nil
}

// Implement `sqld.Connection`.
func (self *DB) Ctx() sqld.Ctx {
	return sqld.Ctx{Dialect: self.dialect, Prefix: self.prefix}
}

// Dialect of this connection.
func (self *DB) Dialect() sqld.Dialect { return self.dialect }

// Underlying executor.
func (self *DB) Conn() ExecQuerier { return self.conn }

/*
Returns a copy executing via the given `ExecQuerier`, typically a transaction,
keeping the dialect, prefix and logger.
*/
func (self *DB) With(conn ExecQuerier) *DB {
	out := *self
	out.conn = conn
	return &out
}

// Closes the underlying pool, if it's closable.
func (self *DB) Close() error {
	val, _ := self.conn.(io.Closer)
	if val == nil {
		return nil
	}
	return val.Close()
}

// Implement `sqld.Connection`. Returns the number of affected rows.
func (self *DB) Execute(ctx context.Context, text string) (int64, error) {
	res, err := self.exec(ctx, text)
	if err != nil {
		return 0, err
	}

	count, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf(`dbconn: rows affected: %w`, err)
	}
	return count, nil
}

// Implement `sqld.Connection`.
func (self *DB) ExecuteQuery(ctx context.Context, text string) (*sql.Rows, error) {
	start := time.Now()
	rows, err := self.conn.QueryContext(ctx, text)
	self.log(ctx, text, start, err)
	if err != nil {
		return nil, fmt.Errorf(`dbconn: query: %w`, err)
	}
	return rows, nil
}

// Shortcut for `sqld.Exec` with this connection.
func (self *DB) Exec(ctx context.Context, val sqld.Expr) (int64, error) {
	return sqld.Exec(ctx, self, val)
}

// Shortcut for `sqld.Query` with this connection.
func (self *DB) Query(ctx context.Context, val sqld.Expr) (*sql.Rows, error) {
	return sqld.Query(ctx, self, val)
}

/*
Result of `DB.Insert`. `LastInsertId` is the identity of the last inserted
row, or 0 when the statement has no identity column.
*/
type InsertResult struct {
	RowsAffected int64
	LastInsertId int64
}

/*
Executes the insert and retrieves the identity of the last inserted row. When
the dialect supports RETURNING (or OUTPUT), the identity is read from the
returned rows. Otherwise it comes from the driver's last insert id.
*/
func (self *DB) Insert(ctx context.Context, stmt *sqld.Insert) (InsertResult, error) {
	text, err := self.Ctx().Compile(stmt)
	if err != nil {
		return InsertResult{}, err
	}

	if stmt.GetIdentity() != nil && self.Ctx().DialectOf(stmt).SupportsReturning() {
		return self.insertReturning(ctx, text)
	}

	res, err := self.exec(ctx, text)
	if err != nil {
		return InsertResult{}, err
	}

	var out InsertResult
	out.RowsAffected, err = res.RowsAffected()
	if err != nil {
		return out, fmt.Errorf(`dbconn: rows affected: %w`, err)
	}

	if stmt.GetIdentity() != nil {
		out.LastInsertId, err = res.LastInsertId()
		if err != nil {
			return out, fmt.Errorf(`dbconn: last insert id: %w`, err)
		}
	}
	return out, nil
}

func (self *DB) insertReturning(ctx context.Context, text string) (out InsertResult, err error) {
	rows, err := self.ExecuteQuery(ctx, text)
	if err != nil {
		return out, err
	}
	defer func() { err = errors.Join(err, rows.Close()) }()

	for rows.Next() {
		err = rows.Scan(&out.LastInsertId)
		if err != nil {
			return out, fmt.Errorf(`dbconn: scan identity: %w`, err)
		}
		out.RowsAffected++
	}

	err = rows.Err()
	if err != nil {
		return out, fmt.Errorf(`dbconn: query: %w`, err)
	}
	return out, nil
}

func (self *DB) exec(ctx context.Context, text string) (sql.Result, error) {
	start := time.Now()
	res, err := self.conn.ExecContext(ctx, text)
	self.log(ctx, text, start, err)
	if err != nil {
		return nil, fmt.Errorf(`dbconn: exec: %w`, err)
	}
	return res, nil
}

func (self *DB) log(ctx context.Context, text string, start time.Time, err error) {
	attrs := []slog.Attr{
		slog.String(`dialect`, self.dialect.Name()),
		slog.String(`sql`, text),
		slog.Duration(`elapsed`, time.Since(start)),
	}

	if err != nil {
		self.logger.LogAttrs(ctx, slog.LevelError, `statement failed`, append(attrs, slog.Any(`err`, err))...)
		return
	}
	self.logger.LogAttrs(ctx, slog.LevelDebug, `statement executed`, attrs...)
}

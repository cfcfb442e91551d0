package sqld

import (
	"context"
	"database/sql"
)

/*
Database connection executing compiled statements. `Ctx` returns the dialect
context used for compiling statements sent through this connection. Implemented
by `dbconn.DB`.
*/
type Connection interface {
	Ctx() Ctx
	Execute(ctx context.Context, sql string) (int64, error)
	ExecuteQuery(ctx context.Context, sql string) (*sql.Rows, error)
}

// Compiles the expression in the connection's context and executes it,
// returning the number of affected rows.
func Exec(ctx context.Context, conn Connection, val Expr) (int64, error) {
	text, err := conn.Ctx().Compile(val)
	if err != nil {
		return 0, err
	}
	return conn.Execute(ctx, text)
}

// Compiles the expression in the connection's context and runs it as a query.
// The caller must close the rows.
func Query(ctx context.Context, conn Connection, val Expr) (*sql.Rows, error) {
	text, err := conn.Ctx().Compile(val)
	if err != nil {
		return nil, err
	}
	return conn.ExecuteQuery(ctx, text)
}

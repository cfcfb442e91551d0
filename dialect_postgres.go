package sqld

import (
	"encoding/hex"
	"strings"

	"github.com/lib/pq"
)

/*
PostgreSQL. Quoting is delegated to "github.com/lib/pq". Strings containing
backslashes are rendered as escape strings `E'...'`. Emulates LIMIT in UPDATE
and DELETE via `ctid`, which can't be combined with FROM or USING.
*/
type DialectPostgres struct{ DialectStandard }

func (DialectPostgres) Name() string { return `postgres` }

func (DialectPostgres) QuoteIdent(val string) string { return pq.QuoteIdentifier(val) }

func (DialectPostgres) QuoteString(val string) string {
	return strings.TrimPrefix(pq.QuoteLiteral(val), ` `)
}

// Hex-format bytea literal.
func (DialectPostgres) QuoteBytes(val []byte) string {
	return `'\x` + hex.EncodeToString(val) + `'`
}

func (DialectPostgres) limitExcludesJoin() bool { return true }

func (self DialectPostgres) Template(stmt Statement) *Expression {
	switch stmt := stmt.(type) {
	case *Update:
		return self.UpdateTemplate(stmt)
	case *Delete:
		return self.DeleteTemplate(stmt)
	case *CreateTable:
		return self.CreateTableTemplate(stmt)
	case *AlterTable:
		return self.AlterTableTemplate(stmt)
	default:
		return self.DialectStandard.Template(stmt)
	}
}

// Identity columns are `SERIAL`, or `BIGSERIAL` for 64-bit types.
func (DialectPostgres) ColumnTemplate(col *ColumnDef) *Expression {
	if !col.identity {
		return DialectStandard{}.ColumnTemplate(col)
	}

	var bui Bui
	appendColumnHead(&bui, col, pgSerial(col.typ))
	appendColumnDefault(&bui, col)
	bui.Str(`PRIMARY KEY`)
	appendColumnConstraints(&bui, col)
	appendColumnComment(&bui, col, false)
	return bui.Expression()
}

func (DialectPostgres) UpdateTemplate(stmt *Update) *Expression {
	if stmt.limit != nil && stmt.from != nil {
		checkLimitJoin(stmt.Dialect(), `UPDATE`, `FROM`)
	}

	var bui Bui
	appendUpdateHead(&bui, stmt)
	if stmt.from != nil {
		bui.Str(`FROM`)
		bui.Named(`from`, stmt.from)
	}
	appendRowIdLimit(&bui, stmt, `ctid`, stmt.table, stmt.where, stmt.orderBy, stmt.limit)
	appendReturning(&bui, stmt.returning)
	return bui.Expression()
}

func (DialectPostgres) DeleteTemplate(stmt *Delete) *Expression {
	if stmt.limit != nil && stmt.using != nil {
		checkLimitJoin(stmt.Dialect(), `DELETE`, `USING`)
	}

	var bui Bui
	bui.Str(`DELETE FROM`)
	appendTable(&bui, stmt.table, `DELETE table`)
	if stmt.using != nil {
		bui.Str(`USING`)
		bui.Named(`using`, stmt.using)
	}
	appendRowIdLimit(&bui, stmt, `ctid`, stmt.table, stmt.where, stmt.orderBy, stmt.limit)
	appendReturning(&bui, stmt.returning)
	return bui.Expression()
}

// Options are storage parameters: `WITH (key = value, ...)`.
func (DialectPostgres) CreateTableTemplate(stmt *CreateTable) *Expression {
	var bui Bui
	appendCreateTableHead(&bui, stmt)
	if len(stmt.options) > 0 {
		bui.Str(`WITH (`)
		bui.Named(`options`, stmt.options)
		bui.Str(`)`)
	}
	appendCreateTableQuery(&bui, stmt)
	return bui.Expression()
}

func (DialectPostgres) AlterTableTemplate(stmt *AlterTable) *Expression {
	return alterTemplate(stmt, postgresAlterAction)
}

func postgresAlterAction(val *alterAction) Expr {
	switch val.kind {
	case alterSetType:
		return Raw(`ALTER COLUMN ? TYPE ?`, val.name, Str(val.typ))
	case alterOption:
		return Raw(`SET (?)`, val.option)
	default:
		return standardAlterAction(val)
	}
}

func pgSerial(typ string) string {
	switch keyword(typ) {
	case `BIGINT`, `INT8`, `BIGSERIAL`:
		return `BIGSERIAL`
	case `SMALLINT`, `INT2`, `SMALLSERIAL`:
		return `SMALLSERIAL`
	default:
		return `SERIAL`
	}
}

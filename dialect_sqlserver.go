package sqld

import (
	"encoding/hex"
	"math"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

const (
	sqlserverRowNumber   = `sqld_row_number`
	sqlserverAliasPrefix = `sqld_`
)

/*
Microsoft SQL Server. Quotes identifiers with brackets and strings as Unicode
literals `N'...'`. A SELECT limit without offset renders as `TOP (n)`. An
offset wraps the query into a subquery numbering its rows via `ROW_NUMBER()`,
filtered by row number; the subquery alias is derived from a hash of the
inner SQL. RETURNING is rendered as `OUTPUT INSERTED.*` or `OUTPUT DELETED.*`
columns.
*/
type DialectSqlserver struct{ DialectStandard }

func (DialectSqlserver) Name() string { return `sqlserver` }

func (DialectSqlserver) QuoteIdent(val string) string {
	return quoteDoubling(val, '[', ']')
}

func (DialectSqlserver) QuoteString(val string) string {
	return `N` + quoteDoubling(val, quoteSingle, quoteSingle)
}

func (DialectSqlserver) QuoteBytes(val []byte) string {
	return `0x` + hex.EncodeToString(val)
}

func (DialectSqlserver) Bool(val bool) string { return boolInt(val) }

/*
`OFFSET m ROWS FETCH NEXT n ROWS ONLY`, which requires ORDER BY. Used by query
sets; SELECT uses TOP and row numbering instead.
*/
func (DialectSqlserver) Limit(limit, offset *uint64) string {
	if limit == nil && offset == nil {
		return ``
	}

	var start uint64
	if offset != nil {
		start = *offset
	}
	out := `OFFSET ` + uitoa(start) + ` ROWS`
	if limit != nil {
		out += ` FETCH NEXT ` + uitoa(*limit) + ` ROWS ONLY`
	}
	return out
}

func (DialectSqlserver) NullSafe(negate bool) string {
	if negate {
		return `? IS DISTINCT FROM ?`
	}
	return `? IS NOT DISTINCT FROM ?`
}

func (self DialectSqlserver) Template(stmt Statement) *Expression {
	switch stmt := stmt.(type) {
	case *Select:
		return self.SelectTemplate(stmt)
	case *Set:
		return self.SetTemplate(stmt)
	case *Insert:
		return self.InsertTemplate(stmt)
	case *Update:
		return self.UpdateTemplate(stmt)
	case *Delete:
		return self.DeleteTemplate(stmt)
	case *CreateTable:
		return self.CreateTableTemplate(stmt)
	case *AlterTable:
		return self.AlterTableTemplate(stmt)
	case *CreateIndex:
		return self.CreateIndexTemplate(stmt)
	case *CreateView:
		return self.CreateViewTemplate(stmt)
	case *Drop:
		return self.DropTemplate(stmt)
	default:
		return self.DialectStandard.Template(stmt)
	}
}

func (DialectSqlserver) ColumnTemplate(col *ColumnDef) *Expression {
	var bui Bui
	appendColumnHead(&bui, col, col.typ)
	if col.notNull {
		bui.Str(`NOT NULL`)
	}
	appendColumnDefault(&bui, col)
	if col.identity {
		bui.Str(`IDENTITY (`)
		bui.Arg(col.seed)
		bui.Str(`,`)
		bui.Arg(col.increment)
		bui.Str(`) PRIMARY KEY`)
	}
	appendColumnConstraints(&bui, col)
	appendColumnComment(&bui, col, false)
	return bui.Expression()
}

func (self DialectSqlserver) SelectTemplate(stmt *Select) *Expression {
	if stmt.offset != nil {
		return self.pagedSelectTemplate(stmt)
	}

	var bui Bui
	bui.Str(`SELECT`)
	if stmt.distinct {
		bui.Str(`DISTINCT`)
	}
	appendTop(&bui, stmt.limit)
	appendSelectBody(&bui, stmt)
	appendOrderBy(&bui, stmt.orderBy)
	return bui.Expression()
}

/*
Template of a SELECT with an offset:

	SELECT * FROM (:query) AS :alias WHERE :alias.:row_number > ? AND :alias.:row_number <= ?

The inner query has no ORDER BY; the ordering moves into `ROW_NUMBER() OVER`.
*/
func (DialectSqlserver) pagedSelectTemplate(stmt *Select) *Expression {
	var order Expr = Str(`(SELECT NULL)`)
	if len(stmt.orderBy) > 0 {
		order = stmt.orderBy
	}

	inner := *stmt
	inner.orderBy = nil
	inner.limit = nil
	inner.offset = nil
	cols := stmt.selectColumns()
	inner.columns = append(cols[:len(cols):len(cols)], Alias{
		Raw(`ROW_NUMBER() OVER(ORDER BY ?)`, order),
		sqlserverRowNumber,
	})

	offset := *stmt.offset

	var bui Bui
	bui.Str(`SELECT * FROM (`)
	bui.Named(`query`, &inner)
	bui.Str(`) AS`)
	bui.Named(`alias`, pageAlias{&inner})
	bui.Bind(`row_number`, Identifier{Name: sqlserverRowNumber})
	bui.Str(`WHERE :alias.:row_number >`)
	bui.Arg(offset)
	// No row number exceeds the maximum, so an overflowing bound is dropped.
	if stmt.limit != nil && *stmt.limit <= math.MaxUint64-offset {
		bui.Str(`AND :alias.:row_number <=`)
		bui.Arg(offset + *stmt.limit)
	}
	return bui.Expression()
}

// OFFSET and FETCH require ORDER BY, which defaults to `(SELECT NULL)`.
func (DialectSqlserver) SetTemplate(stmt *Set) *Expression {
	var bui Bui
	appendSetMembers(&bui, stmt, true)
	if len(stmt.orderBy) > 0 {
		appendOrderBy(&bui, stmt.orderBy)
	} else if stmt.limit != nil || stmt.offset != nil {
		bui.Str(`ORDER BY (SELECT NULL)`)
	}
	bui.Verbatim(stmt.Dialect().Limit(stmt.limit, stmt.offset))
	return bui.Expression()
}

func (DialectSqlserver) InsertTemplate(stmt *Insert) *Expression {
	var bui Bui
	appendInsertHead(&bui, stmt)
	appendOutput(&bui, `INSERTED`, stmt.outputColumns())
	appendInsertSource(&bui, stmt)
	return bui.Expression()
}

func (DialectSqlserver) UpdateTemplate(stmt *Update) *Expression {
	var bui Bui
	bui.Str(`UPDATE`)
	appendTop(&bui, stmt.limit)
	appendTable(&bui, stmt.table, `UPDATE table`)
	bui.Str(`SET`)
	bui.Named(`set`, stmt.assignments())
	appendOutput(&bui, `INSERTED`, stmt.returning)
	if stmt.from != nil {
		bui.Str(`FROM`)
		bui.Named(`from`, stmt.from)
	}
	appendWhere(&bui, stmt.where)
	rejectOrderBy(&bui, `UPDATE`, stmt.orderBy)
	return bui.Expression()
}

// Joined tables go into a second FROM clause.
func (DialectSqlserver) DeleteTemplate(stmt *Delete) *Expression {
	var bui Bui
	bui.Str(`DELETE`)
	appendTop(&bui, stmt.limit)
	bui.Str(`FROM`)
	appendTable(&bui, stmt.table, `DELETE table`)
	appendOutput(&bui, `DELETED`, stmt.returning)
	if stmt.using != nil {
		bui.Str(`FROM`)
		bui.Named(`using`, stmt.using)
	}
	appendWhere(&bui, stmt.where)
	rejectOrderBy(&bui, `DELETE`, stmt.orderBy)
	return bui.Expression()
}

func (DialectSqlserver) CreateTableTemplate(stmt *CreateTable) *Expression {
	head := *stmt
	head.temporary = false
	head.ifNotExists = false

	var bui Bui
	appendCreateTableHead(&bui, &head)
	if stmt.temporary {
		bui.Named(`temporary`, unsupported(`TEMPORARY TABLE`))
	}
	if stmt.ifNotExists {
		bui.Named(`if_not_exists`, unsupported(`CREATE TABLE IF NOT EXISTS`))
	}
	if len(stmt.options) > 0 {
		bui.Named(`options`, unsupported(`table options`))
	}
	if stmt.query != nil {
		bui.Named(`query`, unsupported(`CREATE TABLE AS`))
	}
	return bui.Expression()
}

func (DialectSqlserver) AlterTableTemplate(stmt *AlterTable) *Expression {
	return alterTemplate(stmt, singleAlterAction(stmt, sqlserverAlterAction))
}

func sqlserverAlterAction(val *alterAction) Expr {
	switch val.kind {
	case alterAddColumn:
		if val.first || val.after != nil {
			return unsupported(`column position FIRST/AFTER`)
		}
		return Raw(`ADD ?`, columnOrMissing(val.column))
	case alterAddConstraint, alterDropColumn:
		return standardAlterAction(val)
	case alterDropConstraint:
		if val.behavior != BehaviorNone {
			return unsupported(`DROP CONSTRAINT ` + string(val.behavior))
		}
		return dropConstraintAction(val.name, BehaviorNone)
	case alterSetType:
		return Raw(`ALTER COLUMN ? ?`, val.name, Str(val.typ))
	case alterSetDefault, alterDropDefault:
		return unsupported(`ALTER COLUMN DEFAULT`)
	case alterSetNotNull, alterDropNotNull:
		return unsupported(`ALTER COLUMN NOT NULL`)
	case alterRename:
		return unsupported(`ALTER TABLE RENAME TO`)
	default:
		return unsupported(`ALTER TABLE options`)
	}
}

func (DialectSqlserver) CreateIndexTemplate(stmt *CreateIndex) *Expression {
	var bui Bui
	appendCreateIndexHead(&bui, stmt, false)
	if stmt.using != `` {
		bui.Named(`using`, unsupported(`CREATE INDEX USING`))
	}
	appendIndexColumns(&bui, stmt)
	appendWhere(&bui, stmt.where)
	if len(stmt.with) > 0 {
		bui.Str(`WITH (`)
		bui.Named(`with`, stmt.with)
		bui.Str(`)`)
	}
	if stmt.tablespace != nil {
		bui.Named(`tablespace`, unsupported(`CREATE INDEX TABLESPACE`))
	}
	return bui.Expression()
}

func (DialectSqlserver) CreateViewTemplate(stmt *CreateView) *Expression {
	var bui Bui
	bui.Str(`CREATE`)
	if stmt.replace {
		bui.Str(`OR ALTER`)
	}
	if stmt.temporary {
		bui.Named(`temporary`, unsupported(`TEMPORARY VIEW`))
	}
	bui.Str(`VIEW`)
	appendCreateViewBody(&bui, stmt)
	return bui.Expression()
}

func (DialectSqlserver) DropTemplate(stmt *Drop) *Expression {
	var bui Bui
	appendDropHead(&bui, stmt, true)
	if stmt.kind == DropIndex {
		appendSingleDropName(&bui, stmt)
		appendDropOn(&bui, stmt)
	}
	appendDropBehavior(&bui, stmt, false)
	return bui.Expression()
}

func appendTop(bui *Bui, limit *uint64) {
	if limit != nil {
		bui.Str(`TOP (`)
		bui.Arg(*limit)
		bui.Str(`)`)
	}
}

func appendOutput(bui *Bui, table string, cols List) {
	if len(cols) > 0 {
		bui.Str(`OUTPUT`)
		bui.Named(`output`, pseudoColumns(table, cols))
	}
}

func rejectOrderBy(bui *Bui, stmt string, orderBy List) {
	if len(orderBy) > 0 {
		bui.Str(`ORDER BY`)
		bui.Named(`order_by`, unsupported(stmt+` ORDER BY`))
	}
}

/*
Alias of the paginated subquery: a hash of the inner SQL as rendered in the
current context, which keeps the alias stable for identical queries and
distinct for nested ones.
*/
type pageAlias [1]Expr

func (self pageAlias) AppendExpr(text []byte, ctx Ctx) []byte {
	inner := self[0].AppendExpr(nil, ctx)
	name := sqlserverAliasPrefix + strconv.FormatUint(xxhash.Sum64(inner), 16)
	return append(text, ctx.dialect().QuoteIdent(name)...)
}

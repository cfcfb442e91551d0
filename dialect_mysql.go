package sqld

import (
	"strings"
)

const mysqlMaxLimit = `18446744073709551615`

/*
MySQL and MariaDB. Quotes identifiers with backticks and escapes strings with
backslashes. Renders `LIMIT m,n`, null-safe comparison via `<=>`, and native
LIMIT in UPDATE and DELETE. Has no RETURNING: inserted identities are
retrieved via the last insert id.
*/
type DialectMysql struct{ DialectStandard }

func (DialectMysql) Name() string { return `mysql` }

func (DialectMysql) QuoteIdent(val string) string {
	return quoteDoubling(val, quoteGrave, quoteGrave)
}

func (DialectMysql) QuoteString(val string) string {
	var buf strings.Builder
	buf.Grow(len(val) + 2)
	buf.WriteByte(quoteSingle)

	for ind := 0; ind < len(val); ind++ {
		switch char := val[ind]; char {
		case 0:
			buf.WriteString(`\0`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\\':
			buf.WriteString(`\\`)
		case '\'':
			buf.WriteString(`\'`)
		case '"':
			buf.WriteString(`\"`)
		case '\x1a':
			buf.WriteString(`\Z`)
		default:
			buf.WriteByte(char)
		}
	}

	buf.WriteByte(quoteSingle)
	return buf.String()
}

func (DialectMysql) Bool(val bool) string { return boolInt(val) }

func (DialectMysql) SupportsReturning() bool { return false }

// Offset without limit uses the maximum unsigned bigint as the limit.
func (DialectMysql) Limit(limit, offset *uint64) string {
	return commaLimit(limit, offset, mysqlMaxLimit)
}

func (DialectMysql) NullSafe(negate bool) string {
	if negate {
		return `NOT (? <=> ?)`
	}
	return `? <=> ?`
}

func (self DialectMysql) Template(stmt Statement) *Expression {
	switch stmt := stmt.(type) {
	case *Insert:
		return self.InsertTemplate(stmt)
	case *Update:
		return self.UpdateTemplate(stmt)
	case *Delete:
		return self.DeleteTemplate(stmt)
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

func (DialectMysql) ColumnTemplate(col *ColumnDef) *Expression {
	var bui Bui
	appendColumnHead(&bui, col, col.typ)
	if col.notNull || col.identity {
		bui.Str(`NOT NULL`)
	}
	appendColumnDefault(&bui, col)
	if col.identity {
		bui.Str(`AUTO_INCREMENT PRIMARY KEY`)
	}
	appendColumnConstraints(&bui, col)
	appendColumnComment(&bui, col, true)
	return bui.Expression()
}

// The identity is omitted; it's retrieved via the last insert id.
func (DialectMysql) InsertTemplate(stmt *Insert) *Expression {
	var bui Bui
	appendInsertHead(&bui, stmt)
	appendInsertSource(&bui, stmt)
	rejectReturning(&bui, stmt.returning)
	return bui.Expression()
}

// Joined tables belong in the table expression, as in `UPDATE a JOIN b ON ...`.
func (DialectMysql) UpdateTemplate(stmt *Update) *Expression {
	var bui Bui
	appendUpdateHead(&bui, stmt)
	if stmt.from != nil {
		bui.Str(`FROM`)
		bui.Named(`from`, unsupported(`UPDATE FROM`))
	}
	appendWhere(&bui, stmt.where)
	appendOrderBy(&bui, stmt.orderBy)
	bui.Verbatim(stmt.Dialect().Limit(stmt.limit, nil))
	rejectReturning(&bui, stmt.returning)
	return bui.Expression()
}

func (DialectMysql) DeleteTemplate(stmt *Delete) *Expression {
	var bui Bui
	bui.Str(`DELETE FROM`)
	appendTable(&bui, stmt.table, `DELETE table`)
	if stmt.using != nil {
		bui.Str(`USING`)
		bui.Named(`using`, stmt.using)
	}
	appendWhere(&bui, stmt.where)
	appendOrderBy(&bui, stmt.orderBy)
	bui.Verbatim(stmt.Dialect().Limit(stmt.limit, nil))
	rejectReturning(&bui, stmt.returning)
	return bui.Expression()
}

func (DialectMysql) AlterTableTemplate(stmt *AlterTable) *Expression {
	return alterTemplate(stmt, mysqlAlterAction)
}

func mysqlAlterAction(val *alterAction) Expr {
	switch val.kind {
	case alterAddColumn:
		col := columnOrMissing(val.column)
		if val.first {
			return Raw(`ADD ? FIRST`, col)
		}
		if val.after != nil {
			return Raw(`ADD ? AFTER ?`, col, val.after)
		}
		return Raw(`ADD ?`, col)

	case alterDropColumn:
		return Raw(`DROP ?`, val.name)

	case alterDropConstraint:
		if val.behavior != BehaviorNone {
			return unsupported(`DROP CONSTRAINT ` + string(val.behavior))
		}
		switch val.constraintKind {
		case ConstraintForeign:
			return Raw(`DROP FOREIGN KEY ?`, val.name)
		case ConstraintPrimary:
			return Str(`DROP PRIMARY KEY`)
		case ConstraintUnique:
			return Raw(`DROP INDEX ?`, val.name)
		case ConstraintCheck:
			return Raw(`DROP CHECK ?`, val.name)
		default:
			return Raw(`DROP CONSTRAINT ?`, val.name)
		}

	case alterSetDefault:
		return Raw(`ALTER ? SET DEFAULT ?`, val.name, val.value)

	case alterDropDefault:
		return Raw(`ALTER ? DROP DEFAULT`, val.name)

	case alterSetNotNull, alterDropNotNull:
		return unsupported(`ALTER COLUMN NOT NULL`)

	case alterSetType:
		return unsupported(`ALTER COLUMN TYPE`)

	default:
		return standardAlterAction(val)
	}
}

// USING follows the column list. Partial indexes and storage parameters
// don't exist in MySQL.
func (DialectMysql) CreateIndexTemplate(stmt *CreateIndex) *Expression {
	var bui Bui
	appendCreateIndexHead(&bui, stmt, false)
	appendIndexColumns(&bui, stmt)
	if stmt.using != `` {
		bui.Str(`USING`)
		bui.Keyword(stmt.using)
	}
	if len(stmt.with) > 0 {
		bui.Named(`with`, unsupported(`CREATE INDEX WITH`))
	}
	if stmt.tablespace != nil {
		bui.Named(`tablespace`, unsupported(`CREATE INDEX TABLESPACE`))
	}
	if !stmt.where.IsEmpty() {
		bui.Named(`where`, unsupported(`partial index WHERE`))
	}
	return bui.Expression()
}

func (DialectMysql) CreateViewTemplate(stmt *CreateView) *Expression {
	var bui Bui
	bui.Str(`CREATE`)
	if stmt.replace {
		bui.Str(`OR REPLACE`)
	}
	if stmt.temporary {
		bui.Named(`temporary`, unsupported(`TEMPORARY VIEW`))
	}
	bui.Str(`VIEW`)
	appendCreateViewBody(&bui, stmt)
	return bui.Expression()
}

func (DialectMysql) DropTemplate(stmt *Drop) *Expression {
	var bui Bui
	if stmt.kind != DropIndex {
		appendDropHead(&bui, stmt, true)
		appendDropBehavior(&bui, stmt, true)
		return bui.Expression()
	}

	appendDropHead(&bui, stmt, false)
	appendSingleDropName(&bui, stmt)
	appendDropOn(&bui, stmt)
	appendDropBehavior(&bui, stmt, false)
	return bui.Expression()
}

func rejectReturning(bui *Bui, cols List) {
	if len(cols) > 0 {
		bui.Str(`RETURNING`)
		bui.Named(`returning`, unsupported(`RETURNING`))
	}
}

func boolInt(val bool) string {
	if val {
		return `1`
	}
	return `0`
}

// Renders `LIMIT m,n`, using the sentinel as the limit when only the offset
// is set.
func commaLimit(limit, offset *uint64, sentinel string) string {
	switch {
	case offset == nil && limit == nil:
		return ``
	case offset == nil:
		return `LIMIT ` + uitoa(*limit)
	case limit == nil:
		return `LIMIT ` + uitoa(*offset) + `,` + sentinel
	default:
		return `LIMIT ` + uitoa(*offset) + `,` + uitoa(*limit)
	}
}

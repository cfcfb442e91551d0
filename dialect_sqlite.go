package sqld

const sqliteMaxLimit = `9223372036854775807`

/*
SQLite. Renders `LIMIT m,n`, multi-row inserts as `INSERT ... SELECT ...
UNION ALL SELECT ...`, and emulates LIMIT in UPDATE and DELETE via `rowid`.
ALTER TABLE accepts a single ADD COLUMN, DROP COLUMN or RENAME TO action.
*/
type DialectSqlite struct{ DialectStandard }

func (DialectSqlite) Name() string { return `sqlite` }

func (DialectSqlite) Bool(val bool) string { return boolInt(val) }

func (DialectSqlite) SupportsReturning() bool { return false }

// Offset without limit uses the maximum signed bigint as the limit.
func (DialectSqlite) Limit(limit, offset *uint64) string {
	return commaLimit(limit, offset, sqliteMaxLimit)
}

func (self DialectSqlite) Template(stmt Statement) *Expression {
	switch stmt := stmt.(type) {
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

// Identity columns alias the rowid, which requires exactly `INTEGER PRIMARY
// KEY`.
func (DialectSqlite) ColumnTemplate(col *ColumnDef) *Expression {
	if !col.identity {
		return DialectStandard{}.ColumnTemplate(col)
	}

	var bui Bui
	appendColumnHead(&bui, col, `INTEGER`)
	bui.Str(`NOT NULL PRIMARY KEY`)
	appendColumnDefault(&bui, col)
	appendColumnConstraints(&bui, col)
	appendColumnComment(&bui, col, false)
	return bui.Expression()
}

// Compound members can't be parenthesized.
func (DialectSqlite) SetTemplate(stmt *Set) *Expression {
	var bui Bui
	appendSetMembers(&bui, stmt, false)
	appendOrderBy(&bui, stmt.orderBy)
	bui.Verbatim(stmt.Dialect().Limit(stmt.limit, stmt.offset))
	return bui.Expression()
}

func (DialectSqlite) InsertTemplate(stmt *Insert) *Expression {
	var bui Bui
	appendInsertHead(&bui, stmt)

	if stmt.query == nil && rowsHaveDefault(stmt.rows) {
		bui.Named(`values`, unsupported(`DEFAULT in INSERT values`))
	} else if stmt.query == nil && len(stmt.rows) > 1 {
		for ind, row := range stmt.rows {
			if ind > 0 {
				bui.Str(`UNION ALL`)
			}
			bui.Str(`SELECT`)
			bui.Named(`row`+uitoa(uint64(ind)), Values(row))
		}
	} else {
		appendInsertSource(&bui, stmt)
	}

	rejectReturning(&bui, stmt.returning)
	return bui.Expression()
}

// SQLite has no DEFAULT keyword for values; omitted columns take their default.
func rowsHaveDefault(rows []Tuple) bool {
	for _, row := range rows {
		for _, val := range row {
			if val, ok := val.(Str); ok && keyword(string(val)) == string(Default) {
				return true
			}
		}
	}
	return false
}

func (DialectSqlite) UpdateTemplate(stmt *Update) *Expression {
	var bui Bui
	appendUpdateHead(&bui, stmt)
	if stmt.from != nil {
		bui.Str(`FROM`)
		bui.Named(`from`, stmt.from)
	}
	appendRowIdLimit(&bui, stmt, `rowid`, stmt.table, stmt.where, stmt.orderBy, stmt.limit)
	rejectReturning(&bui, stmt.returning)
	return bui.Expression()
}

func (DialectSqlite) DeleteTemplate(stmt *Delete) *Expression {
	var bui Bui
	bui.Str(`DELETE FROM`)
	appendTable(&bui, stmt.table, `DELETE table`)
	if stmt.using != nil {
		bui.Str(`USING`)
		bui.Named(`using`, unsupported(`DELETE USING`))
	}
	appendRowIdLimit(&bui, stmt, `rowid`, stmt.table, stmt.where, stmt.orderBy, stmt.limit)
	rejectReturning(&bui, stmt.returning)
	return bui.Expression()
}

func (DialectSqlite) CreateTableTemplate(stmt *CreateTable) *Expression {
	var bui Bui
	appendCreateTableHead(&bui, stmt)
	if len(stmt.options) > 0 {
		bui.Named(`options`, unsupported(`table options`))
	}
	appendCreateTableQuery(&bui, stmt)
	return bui.Expression()
}

func (DialectSqlite) AlterTableTemplate(stmt *AlterTable) *Expression {
	return alterTemplate(stmt, singleAlterAction(stmt, sqliteAlterAction))
}

func sqliteAlterAction(val *alterAction) Expr {
	switch val.kind {
	case alterAddColumn, alterDropColumn, alterRename:
		return standardAlterAction(val)
	case alterAddConstraint:
		return unsupported(`ALTER TABLE ADD CONSTRAINT`)
	case alterDropConstraint:
		return unsupported(`ALTER TABLE DROP CONSTRAINT`)
	case alterSetDefault, alterDropDefault:
		return unsupported(`ALTER COLUMN DEFAULT`)
	case alterSetNotNull, alterDropNotNull:
		return unsupported(`ALTER COLUMN NOT NULL`)
	case alterSetType:
		return unsupported(`ALTER COLUMN TYPE`)
	default:
		return unsupported(`ALTER TABLE options`)
	}
}

func (DialectSqlite) CreateIndexTemplate(stmt *CreateIndex) *Expression {
	var bui Bui
	appendCreateIndexHead(&bui, stmt, true)
	appendIndexColumns(&bui, stmt)
	if stmt.using != `` {
		bui.Named(`using`, unsupported(`CREATE INDEX USING`))
	}
	if len(stmt.with) > 0 {
		bui.Named(`with`, unsupported(`CREATE INDEX WITH`))
	}
	if stmt.tablespace != nil {
		bui.Named(`tablespace`, unsupported(`CREATE INDEX TABLESPACE`))
	}
	appendWhere(&bui, stmt.where)
	return bui.Expression()
}

func (DialectSqlite) CreateViewTemplate(stmt *CreateView) *Expression {
	var bui Bui
	bui.Str(`CREATE`)
	if stmt.replace {
		bui.Named(`replace`, unsupported(`CREATE OR REPLACE VIEW`))
	}
	if stmt.temporary {
		bui.Str(`TEMPORARY`)
	}
	bui.Str(`VIEW`)
	appendCreateViewBody(&bui, stmt)
	return bui.Expression()
}

func (DialectSqlite) DropTemplate(stmt *Drop) *Expression {
	var bui Bui
	appendDropHead(&bui, stmt, true)
	appendSingleDropName(&bui, stmt)
	appendDropBehavior(&bui, stmt, false)
	return bui.Expression()
}

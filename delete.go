package sqld

/*
DELETE statement builder:

	sqld.NewDelete(sqld.Sqlite, `sessions`).
		WhereFn(func(cond *sqld.Conditions) { cond.And(`expires_at`, `<`, sqld.Str(`CURRENT_TIMESTAMP`)) }).
		OrderBy(`expires_at`, sqld.DirAsc).
		Limit(100)
	-> DELETE FROM "sessions" WHERE rowid IN (SELECT rowid FROM "sessions" WHERE "expires_at" < CURRENT_TIMESTAMP ORDER BY "expires_at" ASC LIMIT 100)

Tables joined into the deletion are specified with `Using`. In PostgreSQL,
`Using` and `Limit` exclude each other and setting both panics with
`ErrConflict`.
*/
type Delete struct {
	dialect   Dialect
	table     Expr
	using     Expr
	where     *Conditions
	orderBy   List
	limit     *uint64
	returning List
}

// Creates a DELETE for the given dialect and target table.
func NewDelete(dialect Dialect, table any) *Delete {
	return &Delete{dialect: dialect, table: ToTable(table)}
}

// Implement `Statement`.
func (self *Delete) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *Delete) Template() *Expression { return templateOf(self) }

func (self *Delete) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *Delete) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *Delete) String() string { return statementString(self) }

// Sets the target table with an optional alias.
func (self *Delete) From(table any, alias string) *Delete {
	self.table = fromSource(table, alias)
	return self
}

// Sets the tables joined into the deletion.
func (self *Delete) Using(table any, alias string) *Delete {
	if self.limit != nil {
		checkLimitJoin(self.dialect, `DELETE`, `USING`)
	}
	self.using = fromSource(table, alias)
	return self
}

// Replaces the WHERE conditions.
func (self *Delete) Where(cond *Conditions) *Delete {
	self.where = cond
	return self
}

// Passes the WHERE conditions to the given function, creating them if needed.
func (self *Delete) WhereFn(fun func(*Conditions)) *Delete {
	if fun != nil {
		fun(conditionsOf(&self.where))
	}
	return self
}

// Appends an ORDER BY element, used together with `Limit`.
func (self *Delete) OrderBy(col any, dir Dir) *Delete {
	self.orderBy = orderAppend(self.orderBy, col, dir, NullsNone)
	return self
}

// Limits the number of deleted rows.
func (self *Delete) Limit(val uint64) *Delete {
	if self.using != nil {
		checkLimitJoin(self.dialect, `DELETE`, `USING`)
	}
	self.limit = &val
	return self
}

// Sets the columns returned from deleted rows.
func (self *Delete) Returning(cols ...any) *Delete {
	self.returning = ToColumns(cols...)
	return self
}

func (DialectStandard) DeleteTemplate(stmt *Delete) *Expression {
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
	appendReturning(&bui, stmt.returning)
	return bui.Expression()
}

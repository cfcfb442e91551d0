package sqld

import (
	"sort"
)

/*
UPDATE statement builder:

	sqld.NewUpdate(sqld.Mysql, `users`).
		Set(`name`, `Bob`).
		WhereFn(func(cond *sqld.Conditions) { cond.And(`id`, `=`, 10) }).
		Limit(1)
	-> UPDATE `users` SET `name` = 'Bob' WHERE `id` = 10 LIMIT 1

LIMIT is native in MySQL and emulated through a row-id subquery in
PostgreSQL and SQLite. In PostgreSQL, the emulation can't be combined with
FROM: setting both panics with `ErrConflict`.
*/
type Update struct {
	dialect   Dialect
	table     Expr
	sets      List
	from      Expr
	where     *Conditions
	orderBy   List
	limit     *uint64
	returning List
}

// Creates an UPDATE for the given dialect and target table.
func NewUpdate(dialect Dialect, table any) *Update {
	return &Update{dialect: dialect, table: ToTable(table)}
}

// Implement `Statement`.
func (self *Update) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *Update) Template() *Expression { return templateOf(self) }

func (self *Update) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *Update) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *Update) String() string { return statementString(self) }

// Sets the target table with an optional alias.
func (self *Update) Table(table any, alias string) *Update {
	self.table = fromSource(table, alias)
	return self
}

// Appends a `"col" = value` assignment.
func (self *Update) Set(col any, val any) *Update {
	self.sets = append(self.sets, Assignment{ToColumn(col), val})
	return self
}

// Appends one assignment per map entry, in sorted key order.
func (self *Update) SetMap(vals map[string]any) *Update {
	keys := make([]string, 0, len(vals))
	for key := range vals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		self.Set(key, vals[key])
	}
	return self
}

// Sets the FROM source joined into the update.
func (self *Update) From(table any, alias string) *Update {
	if self.limit != nil {
		checkLimitJoin(self.dialect, `UPDATE`, `FROM`)
	}
	self.from = fromSource(table, alias)
	return self
}

// Replaces the WHERE conditions.
func (self *Update) Where(cond *Conditions) *Update {
	self.where = cond
	return self
}

// Passes the WHERE conditions to the given function, creating them if needed.
func (self *Update) WhereFn(fun func(*Conditions)) *Update {
	if fun != nil {
		fun(conditionsOf(&self.where))
	}
	return self
}

// Appends an ORDER BY element, used together with `Limit`.
func (self *Update) OrderBy(col any, dir Dir) *Update {
	self.orderBy = orderAppend(self.orderBy, col, dir, NullsNone)
	return self
}

// Limits the number of updated rows.
func (self *Update) Limit(val uint64) *Update {
	if self.from != nil {
		checkLimitJoin(self.dialect, `UPDATE`, `FROM`)
	}
	self.limit = &val
	return self
}

// Sets the columns returned from updated rows.
func (self *Update) Returning(cols ...any) *Update {
	self.returning = ToColumns(cols...)
	return self
}

func (self *Update) assignments() Expr {
	if len(self.sets) == 0 {
		return missing(`UPDATE assignments`)
	}
	return self.sets
}

func (DialectStandard) UpdateTemplate(stmt *Update) *Expression {
	var bui Bui
	appendUpdateHead(&bui, stmt)
	if stmt.from != nil {
		bui.Str(`FROM`)
		bui.Named(`from`, stmt.from)
	}
	appendWhere(&bui, stmt.where)
	appendOrderBy(&bui, stmt.orderBy)
	bui.Verbatim(stmt.Dialect().Limit(stmt.limit, nil))
	appendReturning(&bui, stmt.returning)
	return bui.Expression()
}

func appendUpdateHead(bui *Bui, stmt *Update) {
	bui.Str(`UPDATE`)
	appendTable(bui, stmt.table, `UPDATE table`)
	bui.Str(`SET`)
	bui.Named(`set`, stmt.assignments())
}

func appendTable(bui *Bui, table Expr, desc string) {
	if table == nil {
		bui.Named(`table`, missing(desc))
	} else {
		bui.Named(`table`, table)
	}
}

/*
Implemented by dialects whose UPDATE/DELETE LIMIT emulation conflicts with
joined tables.
*/
type limitJoinExcluder interface{ limitExcludesJoin() bool }

func checkLimitJoin(dialect Dialect, stmt, clause string) {
	val, _ := dialect.(limitJoinExcluder)
	if val != nil && val.limitExcludesJoin() {
		panic(errConflict(
			`building `+stmt+` for `+dialectName(dialect),
			`LIMIT can't be combined with `+clause,
		))
	}
}

/*
Shared by PostgreSQL and SQLite: emulates UPDATE/DELETE ... ORDER BY ... LIMIT
by restricting the statement to row ids selected by a subquery:

	WHERE ctid IN (SELECT ctid FROM :table WHERE :where ORDER BY :order_by LIMIT 10)
*/
func appendRowIdLimit(bui *Bui, stmt Statement, rowId string, table Expr, where *Conditions, orderBy List, limit *uint64) {
	if limit == nil && len(orderBy) == 0 {
		appendWhere(bui, where)
		return
	}

	bui.Str(`WHERE ` + rowId + ` IN (SELECT ` + rowId + ` FROM`)
	bui.Named(`table`, table)
	appendWhere(bui, where)
	appendOrderBy(bui, orderBy)
	bui.Verbatim(stmt.Dialect().Limit(limit, nil))
	bui.Str(`)`)
}

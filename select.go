package sqld

/*
SELECT statement builder. Every setter mutates and returns the receiver. The
SQL is produced lazily by the dialect template, which includes only the
clauses that were set:

	sqld.NewSelect(sqld.Postgres, `id`, `name`).
		From(`users`, ``).
		WhereFn(func(cond *sqld.Conditions) { cond.And(`active`, `=`, true) }).
		OrderBy(`name`, sqld.DirAsc).
		Limit(10)
	-> SELECT "id", "name" FROM "users" WHERE "active" = TRUE ORDER BY "name" ASC LIMIT 10

Without columns, selects `*`.
*/
type Select struct {
	dialect  Dialect
	distinct bool
	columns  List
	from     Expr
	where    *Conditions
	groupBy  List
	having   *Conditions
	orderBy  List
	limit    *uint64
	offset   *uint64
}

/*
Creates a SELECT for the given dialect. A nil dialect is taken from the
rendering context, defaulting to `Standard`. This applies to every statement
constructor.
*/
func NewSelect(dialect Dialect, cols ...any) *Select {
	return &Select{dialect: dialect, columns: ToColumns(cols...)}
}

// Implement `Statement`.
func (self *Select) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *Select) Template() *Expression { return templateOf(self) }

func (self *Select) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *Select) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *Select) String() string { return statementString(self) }

// Sets or clears DISTINCT.
func (self *Select) Distinct(val bool) *Select {
	self.distinct = val
	return self
}

// Appends columns, coerced via `ToColumns`.
func (self *Select) Columns(cols ...any) *Select {
	self.columns = append(self.columns, ToColumns(cols...)...)
	return self
}

// Appends a single column or expression with an optional alias.
func (self *Select) Column(col any, alias string) *Select {
	val := ToColumn(col)
	if alias != `` {
		val = Alias{val, alias}
	}
	self.columns = append(self.columns, val)
	return self
}

/*
Sets the FROM source: a table with an optional alias, a statement used as a
subquery, or a `*From` with joins.
*/
func (self *Select) From(table any, alias string) *Select {
	self.from = fromSource(table, alias)
	return self
}

// Appends a join. See `From.Join`.
func (self *Select) Join(kind string, table any, alias string) *Select {
	self.joins().Join(kind, table, alias)
	return self
}

// Shortcut for `.Join("INNER", ...)`.
func (self *Select) InnerJoin(table any, alias string) *Select {
	return self.Join(`INNER`, table, alias)
}

// Shortcut for `.Join("LEFT", ...)`.
func (self *Select) LeftJoin(table any, alias string) *Select {
	return self.Join(`LEFT`, table, alias)
}

// Shortcut for `.Join("RIGHT", ...)`.
func (self *Select) RightJoin(table any, alias string) *Select {
	return self.Join(`RIGHT`, table, alias)
}

// Shortcut for `.Join("FULL", ...)`.
func (self *Select) FullJoin(table any, alias string) *Select {
	return self.Join(`FULL`, table, alias)
}

// Shortcut for `.Join("CROSS", ...)`.
func (self *Select) CrossJoin(table any, alias string) *Select {
	return self.Join(`CROSS`, table, alias)
}

// Adds a column comparison to the ON clause of the last join.
func (self *Select) On(left any, op string, right any) *Select {
	self.joins().On(left, op, right)
	return self
}

// Sets the USING columns of the last join.
func (self *Select) Using(cols ...any) *Select {
	self.joins().Using(cols...)
	return self
}

// Replaces the WHERE conditions.
func (self *Select) Where(cond *Conditions) *Select {
	self.where = cond
	return self
}

// Passes the WHERE conditions to the given function, creating them if needed.
func (self *Select) WhereFn(fun func(*Conditions)) *Select {
	if fun != nil {
		fun(conditionsOf(&self.where))
	}
	return self
}

// Appends GROUP BY columns.
func (self *Select) GroupBy(cols ...any) *Select {
	self.groupBy = append(self.groupBy, ToColumns(cols...)...)
	return self
}

// Replaces the HAVING conditions.
func (self *Select) Having(cond *Conditions) *Select {
	self.having = cond
	return self
}

// Passes the HAVING conditions to the given function, creating them if
// needed.
func (self *Select) HavingFn(fun func(*Conditions)) *Select {
	if fun != nil {
		fun(conditionsOf(&self.having))
	}
	return self
}

// Appends an ORDER BY element. An `Order` input is used as-is.
func (self *Select) OrderBy(col any, dir Dir) *Select {
	self.orderBy = orderAppend(self.orderBy, col, dir, NullsNone)
	return self
}

// Appends an ORDER BY element with NULLS FIRST/LAST.
func (self *Select) OrderByNulls(col any, dir Dir, nulls Nulls) *Select {
	self.orderBy = orderAppend(self.orderBy, col, dir, nulls)
	return self
}

// Sets the LIMIT.
func (self *Select) Limit(val uint64) *Select {
	self.limit = &val
	return self
}

// Sets the OFFSET.
func (self *Select) Offset(val uint64) *Select {
	self.offset = &val
	return self
}

func (self *Select) joins() *From {
	out, ok := self.from.(*From)
	if !ok {
		out = &From{source: self.from}
		self.from = out
	}
	return out
}

func (self *Select) selectColumns() List {
	if len(self.columns) == 0 {
		return List{Column{Name: identStar}}
	}
	return self.columns
}

/*
Template of `Select` shared by dialects with LIMIT/OFFSET syntax. The limit
clause is produced by the dialect of the statement.
*/
func (DialectStandard) SelectTemplate(stmt *Select) *Expression {
	var bui Bui
	bui.Str(`SELECT`)
	if stmt.distinct {
		bui.Str(`DISTINCT`)
	}
	appendSelectBody(&bui, stmt)
	appendOrderBy(&bui, stmt.orderBy)
	bui.Verbatim(stmt.Dialect().Limit(stmt.limit, stmt.offset))
	return bui.Expression()
}

// Everything from the column list to HAVING.
func appendSelectBody(bui *Bui, stmt *Select) {
	bui.Named(`columns`, stmt.selectColumns())
	if stmt.from != nil {
		bui.Str(`FROM`)
		bui.Named(`from`, stmt.from)
	}
	appendWhere(bui, stmt.where)
	if len(stmt.groupBy) > 0 {
		bui.Str(`GROUP BY`)
		bui.Named(`group_by`, stmt.groupBy)
	}
	if !stmt.having.IsEmpty() {
		bui.Str(`HAVING`)
		bui.Named(`having`, stmt.having)
	}
}

func appendWhere(bui *Bui, where *Conditions) {
	if !where.IsEmpty() {
		bui.Str(`WHERE`)
		bui.Named(`where`, where)
	}
}

func appendOrderBy(bui *Bui, orderBy List) {
	if len(orderBy) > 0 {
		bui.Str(`ORDER BY`)
		bui.Named(`order_by`, orderBy)
	}
}

package sqld

/*
CREATE INDEX statement builder:

	sqld.NewCreateIndex(sqld.Postgres, `users_email`, `users`).
		Unique().
		Columns(`email`).
		Using(`btree`)
	-> CREATE UNIQUE INDEX "users_email" ON "users" USING btree ("email")

The index name is an identifier and isn't subject to the table prefix.
*/
type CreateIndex struct {
	dialect     Dialect
	name        Expr
	table       Expr
	kind        string
	ifNotExists bool
	columns     List
	using       string
	with        Options
	tablespace  Expr
	where       *Conditions
}

// Creates a CREATE INDEX for the given dialect, index name and table.
func NewCreateIndex(dialect Dialect, name any, table any) *CreateIndex {
	return &CreateIndex{
		dialect: dialect,
		name:    ToIdent(name),
		table:   ToTable(table),
	}
}

// Implement `Statement`.
func (self *CreateIndex) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *CreateIndex) Template() *Expression { return templateOf(self) }

func (self *CreateIndex) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *CreateIndex) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *CreateIndex) String() string { return statementString(self) }

// Shortcut for `.Kind("UNIQUE")`.
func (self *CreateIndex) Unique() *CreateIndex { return self.Kind(`UNIQUE`) }

// Sets the index kind keyword, such as "UNIQUE" or MySQL "FULLTEXT".
func (self *CreateIndex) Kind(val string) *CreateIndex {
	self.kind = keyword(val)
	return self
}

// Adds IF NOT EXISTS.
func (self *CreateIndex) IfNotExists() *CreateIndex {
	self.ifNotExists = true
	return self
}

// Appends indexed columns. `Order` values and arbitrary expressions are
// allowed.
func (self *CreateIndex) Columns(cols ...any) *CreateIndex {
	self.columns = append(self.columns, ToColumns(cols...)...)
	return self
}

// Sets the index method, such as "btree" or "gin". Verbatim SQL.
func (self *CreateIndex) Using(method string) *CreateIndex {
	self.using = method
	return self
}

// Sets storage parameters, rendered as `WITH (key = value, ...)` in sorted
// key order.
func (self *CreateIndex) With(vals map[string]any) *CreateIndex {
	self.with = OptionsOf(vals)
	return self
}

// Sets the tablespace.
func (self *CreateIndex) Tablespace(name any) *CreateIndex {
	self.tablespace = ToIdent(name)
	return self
}

// Makes this a partial index.
func (self *CreateIndex) Where(cond *Conditions) *CreateIndex {
	self.where = cond
	return self
}

/*
Template with every clause, used by PostgreSQL:

	CREATE :type INDEX :name ON :table USING a (:columns) WITH (:with) TABLESPACE :tablespace WHERE :where
*/
func (DialectStandard) CreateIndexTemplate(stmt *CreateIndex) *Expression {
	var bui Bui
	appendCreateIndexHead(&bui, stmt, true)
	if stmt.using != `` {
		bui.Str(`USING`)
		bui.Keyword(stmt.using)
	}
	appendIndexColumns(&bui, stmt)
	if len(stmt.with) > 0 {
		bui.Str(`WITH (`)
		bui.Named(`with`, stmt.with)
		bui.Str(`)`)
	}
	if stmt.tablespace != nil {
		bui.Str(`TABLESPACE`)
		bui.Named(`tablespace`, stmt.tablespace)
	}
	appendWhere(&bui, stmt.where)
	return bui.Expression()
}

func appendCreateIndexHead(bui *Bui, stmt *CreateIndex, ifNotExists bool) {
	bui.Str(`CREATE`)
	if stmt.kind != `` {
		bui.Named(`type`, Str(stmt.kind))
	}
	bui.Str(`INDEX`)
	if stmt.ifNotExists {
		if ifNotExists {
			bui.Str(`IF NOT EXISTS`)
		} else {
			bui.Named(`if_not_exists`, unsupported(`CREATE INDEX IF NOT EXISTS`))
		}
	}
	if stmt.name == nil {
		bui.Named(`name`, missing(`index name`))
	} else {
		bui.Named(`name`, stmt.name)
	}
	bui.Str(`ON`)
	appendTable(bui, stmt.table, `index table`)
}

func appendIndexColumns(bui *Bui, stmt *CreateIndex) {
	bui.Str(`(`)
	if len(stmt.columns) == 0 {
		bui.Named(`columns`, missing(`index columns`))
	} else {
		bui.Named(`columns`, stmt.columns)
	}
	bui.Str(`)`)
}

package sqld

/*
Column definition for CREATE TABLE and ALTER TABLE ADD:

	sqld.NewColumn(`email`, `VARCHAR(255)`).NotNull().Default(``)
	-> "email" VARCHAR(255) NOT NULL DEFAULT ''

The type is verbatim SQL. Rendering is delegated to `Dialect.ColumnTemplate`
of the context dialect, which decides identity syntax: `AUTO_INCREMENT` in
MySQL, `SERIAL` or `BIGSERIAL` in PostgreSQL, `INTEGER PRIMARY KEY` in SQLite,
`IDENTITY` in SQL Server.
*/
type ColumnDef struct {
	name        string
	typ         string
	notNull     bool
	hasDefault  bool
	def         any
	identity    bool
	seed        int64
	increment   int64
	constraints []*Constraint
	comment     string
}

// Creates a column definition with the given name and verbatim SQL type.
func NewColumn(name, typ string) *ColumnDef {
	return &ColumnDef{name: name, typ: typ, seed: 1, increment: 1}
}

// Adds NOT NULL.
func (self *ColumnDef) NotNull() *ColumnDef {
	self.notNull = true
	return self
}

// Sets the DEFAULT value, rendered via `AppendValue`. Use `Str` or `Raw` for
// SQL expressions such as `CURRENT_TIMESTAMP`.
func (self *ColumnDef) Default(val any) *ColumnDef {
	self.hasDefault = true
	self.def = val
	return self
}

// Makes this an auto-generated primary key column.
func (self *ColumnDef) Identity() *ColumnDef {
	self.identity = true
	return self
}

// Like `Identity`, with a seed and increment where the dialect supports them.
func (self *ColumnDef) IdentitySeed(seed, increment int64) *ColumnDef {
	self.identity = true
	self.seed = seed
	self.increment = increment
	return self
}

// Appends a column constraint. The constraint should have no columns.
func (self *ColumnDef) Constraint(val *Constraint) *ColumnDef {
	if val != nil {
		self.constraints = append(self.constraints, val)
	}
	return self
}

// Sets the column comment. Only MySQL supports inline column comments.
func (self *ColumnDef) Comment(val string) *ColumnDef {
	self.comment = val
	return self
}

// Column name.
func (self *ColumnDef) GetName() string { return self.name }

// Verbatim SQL type.
func (self *ColumnDef) GetType() string { return self.typ }

// True if the column is an identity column.
func (self *ColumnDef) IsIdentity() bool { return self.identity }

// Implement the `Expr` interface, making this a sub-expression.
func (self *ColumnDef) AppendExpr(text []byte, ctx Ctx) []byte {
	return ctx.dialect().ColumnTemplate(self).AppendExpr(text, ctx)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *ColumnDef) String() string { return exprString(self) }

func (DialectStandard) ColumnTemplate(col *ColumnDef) *Expression {
	var bui Bui
	appendColumnHead(&bui, col, col.typ)
	if col.notNull {
		bui.Str(`NOT NULL`)
	}
	appendColumnDefault(&bui, col)
	if col.identity {
		bui.Str(`GENERATED BY DEFAULT AS IDENTITY (START WITH`)
		bui.Arg(col.seed)
		bui.Str(`INCREMENT BY`)
		bui.Arg(col.increment)
		bui.Str(`) PRIMARY KEY`)
	}
	appendColumnConstraints(&bui, col)
	appendColumnComment(&bui, col, false)
	return bui.Expression()
}

func appendColumnHead(bui *Bui, col *ColumnDef, typ string) {
	bui.Named(`name`, Identifier{Name: col.name})
	bui.Named(`type`, Str(typ))
}

func appendColumnDefault(bui *Bui, col *ColumnDef) {
	if col.hasDefault {
		bui.Str(`DEFAULT`)
		bui.Named(`default`, col.def)
	}
}

func appendColumnConstraints(bui *Bui, col *ColumnDef) {
	if len(col.constraints) > 0 {
		out := make(spaced, 0, len(col.constraints))
		for _, val := range col.constraints {
			out = append(out, val)
		}
		bui.Named(`constraints`, out)
	}
}

func appendColumnComment(bui *Bui, col *ColumnDef, supported bool) {
	if col.comment == `` {
		return
	}
	bui.Str(`COMMENT`)
	if supported {
		bui.Named(`comment`, col.comment)
	} else {
		bui.Named(`comment`, unsupported(`column COMMENT`))
	}
}

// Kind of table or column constraint.
type ConstraintKind string

const (
	ConstraintNone    ConstraintKind = ``
	ConstraintPrimary ConstraintKind = `PRIMARY KEY`
	ConstraintUnique  ConstraintKind = `UNIQUE`
	ConstraintForeign ConstraintKind = `FOREIGN KEY`
	ConstraintCheck   ConstraintKind = `CHECK`
)

/*
Table or column constraint. With columns, renders as a table constraint:

	sqld.Foreign(`user_id`).References(`users`, `id`).OnDelete(`CASCADE`)
	-> FOREIGN KEY ("user_id") REFERENCES "users" ("id") ON DELETE CASCADE

Without columns, renders as a column constraint:

	sqld.Foreign().References(`users`, `id`)
	-> REFERENCES "users" ("id")
*/
type Constraint struct {
	kind       ConstraintKind
	name       string
	columns    List
	refTable   Expr
	refColumns List
	onDelete   string
	onUpdate   string
	check      Expr
}

// PRIMARY KEY constraint.
func Primary(cols ...any) *Constraint {
	return &Constraint{kind: ConstraintPrimary, columns: ToColumns(cols...)}
}

// UNIQUE constraint.
func Unique(cols ...any) *Constraint {
	return &Constraint{kind: ConstraintUnique, columns: ToColumns(cols...)}
}

// FOREIGN KEY constraint. Use `.References` to set the referenced table.
func Foreign(cols ...any) *Constraint {
	return &Constraint{kind: ConstraintForeign, columns: ToColumns(cols...)}
}

// CHECK constraint with an arbitrary predicate.
func Check(expr Expr) *Constraint {
	return &Constraint{kind: ConstraintCheck, check: expr}
}

// Sets the constraint name, rendering `CONSTRAINT "name"`.
func (self *Constraint) Named(name string) *Constraint {
	self.name = name
	return self
}

// Sets the table and columns referenced by a foreign key.
func (self *Constraint) References(table any, cols ...any) *Constraint {
	self.refTable = ToTable(table)
	self.refColumns = ToColumns(cols...)
	return self
}

// Sets the ON DELETE action of a foreign key, such as "CASCADE".
func (self *Constraint) OnDelete(action string) *Constraint {
	self.onDelete = keyword(action)
	return self
}

// Sets the ON UPDATE action of a foreign key, such as "SET NULL".
func (self *Constraint) OnUpdate(action string) *Constraint {
	self.onUpdate = keyword(action)
	return self
}

// Constraint kind.
func (self *Constraint) GetKind() ConstraintKind { return self.kind }

// Constraint name, possibly empty.
func (self *Constraint) GetName() string { return self.name }

// Implement the `Expr` interface, making this a sub-expression.
func (self *Constraint) AppendExpr(text []byte, ctx Ctx) []byte {
	return self.template().AppendExpr(text, ctx)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *Constraint) String() string { return exprString(self) }

func (self *Constraint) template() *Expression {
	var bui Bui
	if self.name != `` {
		bui.Str(`CONSTRAINT`)
		bui.Named(`name`, Identifier{Name: self.name})
	}

	switch self.kind {
	case ConstraintCheck:
		bui.Str(`CHECK (`)
		if self.check == nil {
			bui.Named(`check`, missing(`CHECK predicate`))
		} else {
			bui.Named(`check`, self.check)
		}
		bui.Str(`)`)
		return bui.Expression()

	case ConstraintForeign:
		if len(self.columns) > 0 {
			bui.Str(`FOREIGN KEY`)
			appendParenColumns(&bui, `columns`, self.columns)
		}
		bui.Str(`REFERENCES`)
		if self.refTable == nil {
			bui.Named(`references`, missing(`referenced table`))
		} else {
			bui.Named(`references`, self.refTable)
		}
		if len(self.refColumns) > 0 {
			appendParenColumns(&bui, `ref_columns`, self.refColumns)
		}
		if self.onDelete != `` {
			bui.Str(`ON DELETE`)
			bui.Keyword(self.onDelete)
		}
		if self.onUpdate != `` {
			bui.Str(`ON UPDATE`)
			bui.Keyword(self.onUpdate)
		}
		return bui.Expression()

	default:
		bui.Str(string(self.kind))
		if len(self.columns) > 0 {
			appendParenColumns(&bui, `columns`, self.columns)
		}
		return bui.Expression()
	}
}

func appendParenColumns(bui *Bui, name string, cols List) {
	bui.Str(`(`)
	bui.Named(name, cols)
	bui.Str(`)`)
}

/*
CREATE TABLE statement builder:

	sqld.NewCreateTable(sqld.Postgres, `users`).
		IfNotExists().
		Column(
			sqld.NewColumn(`id`, `BIGINT`).Identity(),
			sqld.NewColumn(`email`, `TEXT`).NotNull(),
		).
		Constraint(sqld.Unique(`email`))
	-> CREATE TABLE IF NOT EXISTS "users" ("id" BIGSERIAL PRIMARY KEY, "email" TEXT NOT NULL, UNIQUE ("email"))
*/
type CreateTable struct {
	dialect     Dialect
	table       Expr
	temporary   bool
	ifNotExists bool
	columns     []*ColumnDef
	constraints []*Constraint
	options     Options
	query       Expr
}

// Creates a CREATE TABLE for the given dialect and table.
func NewCreateTable(dialect Dialect, table any) *CreateTable {
	return &CreateTable{dialect: dialect, table: ToTable(table)}
}

// Implement `Statement`.
func (self *CreateTable) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *CreateTable) Template() *Expression { return templateOf(self) }

func (self *CreateTable) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *CreateTable) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *CreateTable) String() string { return statementString(self) }

// Adds TEMPORARY.
func (self *CreateTable) Temporary() *CreateTable {
	self.temporary = true
	return self
}

// Adds IF NOT EXISTS.
func (self *CreateTable) IfNotExists() *CreateTable {
	self.ifNotExists = true
	return self
}

// Appends column definitions.
func (self *CreateTable) Column(cols ...*ColumnDef) *CreateTable {
	for _, val := range cols {
		if val != nil {
			self.columns = append(self.columns, val)
		}
	}
	return self
}

// Appends table constraints.
func (self *CreateTable) Constraint(vals ...*Constraint) *CreateTable {
	for _, val := range vals {
		if val != nil {
			self.constraints = append(self.constraints, val)
		}
	}
	return self
}

// Appends a table option such as MySQL `ENGINE = InnoDB`. Values follow the
// usual rendering rules; use `Str` for bare words.
func (self *CreateTable) Option(key string, val any) *CreateTable {
	self.options = append(self.options, Option{key, val})
	return self
}

// Populates the table from the query, as in `CREATE TABLE ... AS SELECT`.
func (self *CreateTable) Query(query Expr) *CreateTable {
	self.query = query
	return self
}

func (self *CreateTable) definitions() List {
	out := make(List, 0, len(self.columns)+len(self.constraints))
	for _, val := range self.columns {
		out = append(out, val)
	}
	for _, val := range self.constraints {
		out = append(out, val)
	}
	return out
}

func (DialectStandard) CreateTableTemplate(stmt *CreateTable) *Expression {
	var bui Bui
	appendCreateTableHead(&bui, stmt)
	if len(stmt.options) > 0 {
		bui.Named(`options`, spacedOptions(stmt.options))
	}
	appendCreateTableQuery(&bui, stmt)
	return bui.Expression()
}

func appendCreateTableHead(bui *Bui, stmt *CreateTable) {
	bui.Str(`CREATE`)
	if stmt.temporary {
		bui.Str(`TEMPORARY`)
	}
	bui.Str(`TABLE`)
	if stmt.ifNotExists {
		bui.Str(`IF NOT EXISTS`)
	}
	appendTable(bui, stmt.table, `CREATE TABLE table`)

	defs := stmt.definitions()
	if len(defs) > 0 {
		appendParenColumns(bui, `definitions`, defs)
	} else if stmt.query == nil {
		bui.Str(`(`)
		bui.Named(`definitions`, missing(`column definitions`))
		bui.Str(`)`)
	}
}

func appendCreateTableQuery(bui *Bui, stmt *CreateTable) {
	if stmt.query != nil {
		bui.Str(`AS`)
		bui.Named(`query`, stmt.query)
	}
}

func spacedOptions(opts Options) spaced {
	out := make(spaced, 0, len(opts))
	for _, val := range opts {
		out = append(out, val)
	}
	return out
}

package sqld

/*
CREATE VIEW statement builder:

	sqld.NewCreateView(sqld.Postgres, `active_users`).
		Replace().
		Query(sqld.NewSelect(sqld.Postgres).From(`users`, ``))
	-> CREATE OR REPLACE VIEW "active_users" AS SELECT * FROM "users"

The view name is a table name, subject to the table prefix.
*/
type CreateView struct {
	dialect   Dialect
	name      Expr
	columns   List
	query     Expr
	replace   bool
	temporary bool
}

// Creates a CREATE VIEW for the given dialect and view name.
func NewCreateView(dialect Dialect, name any) *CreateView {
	return &CreateView{dialect: dialect, name: ToTable(name)}
}

// Implement `Statement`.
func (self *CreateView) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *CreateView) Template() *Expression { return templateOf(self) }

func (self *CreateView) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *CreateView) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *CreateView) String() string { return statementString(self) }

// Appends view column names.
func (self *CreateView) Columns(cols ...any) *CreateView {
	self.columns = append(self.columns, ToColumns(cols...)...)
	return self
}

// Sets the defining query.
func (self *CreateView) Query(query Expr) *CreateView {
	self.query = query
	return self
}

// Replaces an existing view of the same name.
func (self *CreateView) Replace() *CreateView {
	self.replace = true
	return self
}

// Adds TEMPORARY.
func (self *CreateView) Temporary() *CreateView {
	self.temporary = true
	return self
}

func (DialectStandard) CreateViewTemplate(stmt *CreateView) *Expression {
	var bui Bui
	bui.Str(`CREATE`)
	if stmt.replace {
		bui.Str(`OR REPLACE`)
	}
	if stmt.temporary {
		bui.Str(`TEMPORARY`)
	}
	bui.Str(`VIEW`)
	appendCreateViewBody(&bui, stmt)
	return bui.Expression()
}

func appendCreateViewBody(bui *Bui, stmt *CreateView) {
	if stmt.name == nil {
		bui.Named(`name`, missing(`view name`))
	} else {
		bui.Named(`name`, stmt.name)
	}
	if len(stmt.columns) > 0 {
		appendParenColumns(bui, `columns`, stmt.columns)
	}
	bui.Str(`AS`)
	if stmt.query == nil {
		bui.Named(`query`, missing(`view query`))
	} else {
		bui.Named(`query`, stmt.query)
	}
}

package sqld

/*
INSERT statement builder:

	sqld.NewInsert(sqld.Postgres, `users`).
		Columns(`name`, `email`).
		Values(`Alice`, `alice@example.com`).
		Identity(`id`)
	-> INSERT INTO "users" ("name", "email") VALUES ('Alice', 'alice@example.com') RETURNING "id"

The row source is either value rows or a query. Without either, renders
`DEFAULT VALUES`.

`Identity` and `Returning` exclude each other: setting one clears the other.
Identity is the single generated column retrieved after insertion; returning
is an arbitrary column list. Dialects without RETURNING omit the identity,
which drivers then retrieve via the last insert id, and reject `Returning`.
*/
type Insert struct {
	dialect   Dialect
	table     Expr
	columns   List
	rows      []Tuple
	query     Expr
	identity  Expr
	returning List
}

// Creates an INSERT for the given dialect and target table.
func NewInsert(dialect Dialect, table any) *Insert {
	return &Insert{dialect: dialect, table: ToTable(table)}
}

// Implement `Statement`.
func (self *Insert) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *Insert) Template() *Expression { return templateOf(self) }

func (self *Insert) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *Insert) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *Insert) String() string { return statementString(self) }

// Sets the target table.
func (self *Insert) Into(table any) *Insert {
	self.table = ToTable(table)
	return self
}

// Appends target columns.
func (self *Insert) Columns(cols ...any) *Insert {
	self.columns = append(self.columns, ToColumns(cols...)...)
	return self
}

// Appends one row of values, in column order.
func (self *Insert) Values(vals ...any) *Insert {
	self.rows = append(self.rows, Tuple(vals))
	return self
}

// Appends several rows of values.
func (self *Insert) Rows(rows ...[]any) *Insert {
	for _, row := range rows {
		self.Values(row...)
	}
	return self
}

// Uses the given query as the row source, as in `INSERT INTO ... SELECT`.
func (self *Insert) Query(query Expr) *Insert {
	self.query = query
	return self
}

/*
Sets the generated column to retrieve after insertion and clears `Returning`.
Nil or an empty name clears both, leaving neither clause.
*/
func (self *Insert) Identity(col any) *Insert {
	if isNil(col) || col == `` {
		self.identity = nil
		self.returning = nil
		return self
	}
	self.identity = ToColumn(col)
	self.returning = nil
	return self
}

/*
Sets the columns returned after insertion and clears `Identity`. No columns
clears the returning list.
*/
func (self *Insert) Returning(cols ...any) *Insert {
	self.returning = ToColumns(cols...)
	if len(self.returning) > 0 {
		self.identity = nil
	} else {
		self.returning = nil
	}
	return self
}

// Returns the identity column, or nil.
func (self *Insert) GetIdentity() Expr { return self.identity }

// Returns the returning columns, or nil.
func (self *Insert) GetReturning() List { return self.returning }

// Number of value rows.
func (self *Insert) Len() int { return len(self.rows) }

// Identity or returning columns, whichever is set.
func (self *Insert) outputColumns() List {
	if self.identity != nil {
		return List{self.identity}
	}
	return self.returning
}

func (DialectStandard) InsertTemplate(stmt *Insert) *Expression {
	var bui Bui
	appendInsertHead(&bui, stmt)
	appendInsertSource(&bui, stmt)
	appendReturning(&bui, stmt.outputColumns())
	return bui.Expression()
}

func appendInsertHead(bui *Bui, stmt *Insert) {
	bui.Str(`INSERT INTO`)
	if stmt.table == nil {
		bui.Named(`table`, missing(`INSERT table`))
	} else {
		bui.Named(`table`, stmt.table)
	}
	if len(stmt.columns) > 0 {
		bui.Str(`(`)
		bui.Named(`columns`, stmt.columns)
		bui.Str(`)`)
	}
}

func appendInsertSource(bui *Bui, stmt *Insert) {
	switch {
	case stmt.query != nil:
		bui.Named(`query`, stmt.query)
	case len(stmt.rows) > 0:
		bui.Str(`VALUES`)
		bui.Named(`values`, insertRows(stmt.rows))
	default:
		bui.Str(`DEFAULT VALUES`)
	}
}

func appendReturning(bui *Bui, cols List) {
	if len(cols) > 0 {
		bui.Str(`RETURNING`)
		bui.Named(`returning`, cols)
	}
}

func insertRows(rows []Tuple) List {
	out := make(List, 0, len(rows))
	for _, row := range rows {
		out = append(out, row)
	}
	return out
}

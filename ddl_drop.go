package sqld

/*
DROP TABLE, DROP VIEW and DROP INDEX statement builder:

	sqld.NewDropTable(sqld.Postgres, `one`, `two`).IfExists().Behavior(sqld.Cascade)
	-> DROP TABLE IF EXISTS "one", "two" CASCADE

Table and view names are subject to the table prefix, index names aren't.
MySQL and SQL Server require the table of a dropped index, set via `On`.
*/
type Drop struct {
	dialect  Dialect
	kind     DropKind
	names    List
	ifExists bool
	behavior Behavior
	on       Expr
}

// Kind of object dropped by `Drop`.
type DropKind string

const (
	DropTable DropKind = `TABLE`
	DropView  DropKind = `VIEW`
	DropIndex DropKind = `INDEX`
)

// Creates a DROP TABLE for the given dialect and tables.
func NewDropTable(dialect Dialect, names ...any) *Drop {
	return newDrop(dialect, DropTable).Names(names...)
}

// Creates a DROP VIEW for the given dialect and views.
func NewDropView(dialect Dialect, names ...any) *Drop {
	return newDrop(dialect, DropView).Names(names...)
}

// Creates a DROP INDEX for the given dialect and index.
func NewDropIndex(dialect Dialect, name any) *Drop {
	return newDrop(dialect, DropIndex).Names(name)
}

func newDrop(dialect Dialect, kind DropKind) *Drop {
	return &Drop{dialect: dialect, kind: kind}
}

// Implement `Statement`.
func (self *Drop) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *Drop) Template() *Expression { return templateOf(self) }

func (self *Drop) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *Drop) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *Drop) String() string { return statementString(self) }

// Kind of the dropped objects.
func (self *Drop) Kind() DropKind { return self.kind }

// Appends names of dropped objects.
func (self *Drop) Names(names ...any) *Drop {
	for _, val := range names {
		if self.kind == DropIndex {
			self.names = append(self.names, ToIdent(val))
		} else {
			self.names = append(self.names, ToTable(val))
		}
	}
	return self
}

// Adds IF EXISTS.
func (self *Drop) IfExists() *Drop {
	self.ifExists = true
	return self
}

// Sets CASCADE or RESTRICT.
func (self *Drop) Behavior(val Behavior) *Drop {
	self.behavior = val
	return self
}

// Sets the table of a dropped index. Ignored by dialects that don't need it.
func (self *Drop) On(table any) *Drop {
	self.on = ToTable(table)
	return self
}

func (DialectStandard) DropTemplate(stmt *Drop) *Expression {
	var bui Bui
	appendDropHead(&bui, stmt, true)
	appendDropBehavior(&bui, stmt, true)
	return bui.Expression()
}

func appendDropHead(bui *Bui, stmt *Drop, ifExists bool) {
	bui.Str(`DROP ` + string(stmt.kind))
	if stmt.ifExists {
		if ifExists {
			bui.Str(`IF EXISTS`)
		} else {
			bui.Named(`if_exists`, unsupported(`DROP `+string(stmt.kind)+` IF EXISTS`))
		}
	}
	if len(stmt.names) == 0 {
		bui.Named(`names`, missing(`dropped names`))
	} else {
		bui.Named(`names`, stmt.names)
	}
}

func appendDropBehavior(bui *Bui, stmt *Drop, supported bool) {
	if stmt.behavior == BehaviorNone {
		return
	}
	if supported {
		bui.Keyword(string(stmt.behavior))
	} else {
		bui.Named(`behavior`, unsupported(`DROP `+string(stmt.kind)+` `+string(stmt.behavior)))
	}
}

func appendDropOn(bui *Bui, stmt *Drop) {
	if stmt.kind != DropIndex {
		return
	}
	bui.Str(`ON`)
	if stmt.on == nil {
		bui.Named(`table`, missing(`table of dropped index`))
	} else {
		bui.Named(`table`, stmt.on)
	}
}

func appendSingleDropName(bui *Bui, stmt *Drop) {
	if len(stmt.names) > 1 {
		bui.Named(`several`, unsupported(`dropping several objects in one statement`))
	}
}

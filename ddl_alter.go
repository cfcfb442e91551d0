package sqld

/*
ALTER TABLE statement builder. Actions are rendered in order, joined with
", ":

	sqld.NewAlterTable(sqld.Mysql, `a`).
		AddColumn(sqld.NewColumn(`b`, `c`)).
		AddColumnFirst(sqld.NewColumn(`e`, `f`)).
		AddColumnAfter(sqld.NewColumn(`g`, `h`), `i`)
	-> ALTER TABLE `a` ADD `b` c, ADD `e` f FIRST, ADD `g` h AFTER `i`

Dialects reject the actions they can't express with `ErrUnsupported`. SQLite
and SQL Server accept one action per statement.
*/
type AlterTable struct {
	dialect Dialect
	table   Expr
	actions []*alterAction
}

type alterKind byte

const (
	alterAddColumn alterKind = iota + 1
	alterAddConstraint
	alterDropColumn
	alterDropConstraint
	alterSetDefault
	alterDropDefault
	alterSetNotNull
	alterDropNotNull
	alterSetType
	alterRename
	alterOption
)

type alterAction struct {
	kind           alterKind
	column         *ColumnDef
	first          bool
	after          Expr
	constraint     *Constraint
	name           Expr
	constraintKind ConstraintKind
	behavior       Behavior
	value          any
	typ            string
	option         Option
}

// Creates an ALTER TABLE for the given dialect and table.
func NewAlterTable(dialect Dialect, table any) *AlterTable {
	return &AlterTable{dialect: dialect, table: ToTable(table)}
}

// Implement `Statement`.
func (self *AlterTable) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *AlterTable) Template() *Expression { return templateOf(self) }

func (self *AlterTable) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *AlterTable) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *AlterTable) String() string { return statementString(self) }

// Adds a column.
func (self *AlterTable) AddColumn(col *ColumnDef) *AlterTable {
	return self.add(&alterAction{kind: alterAddColumn, column: col})
}

// Adds a column in the first position. MySQL only.
func (self *AlterTable) AddColumnFirst(col *ColumnDef) *AlterTable {
	return self.add(&alterAction{kind: alterAddColumn, column: col, first: true})
}

// Adds a column after the given column. MySQL only.
func (self *AlterTable) AddColumnAfter(col *ColumnDef, after any) *AlterTable {
	return self.add(&alterAction{kind: alterAddColumn, column: col, after: ToColumn(after)})
}

// Adds a table constraint.
func (self *AlterTable) AddConstraint(val *Constraint) *AlterTable {
	return self.add(&alterAction{kind: alterAddConstraint, constraint: val})
}

// Drops a column.
func (self *AlterTable) DropColumn(col any) *AlterTable {
	return self.add(&alterAction{kind: alterDropColumn, name: ToColumn(col)})
}

/*
Drops a constraint by name. The kind is needed by MySQL, which has different
syntax per constraint kind, and may be `ConstraintNone` elsewhere. The
behavior is PostgreSQL-only.
*/
func (self *AlterTable) DropConstraint(kind ConstraintKind, name string, behavior Behavior) *AlterTable {
	return self.add(&alterAction{
		kind:           alterDropConstraint,
		constraintKind: kind,
		name:           Identifier{Name: name},
		behavior:       behavior,
	})
}

// Sets the default value of a column.
func (self *AlterTable) SetDefault(col any, val any) *AlterTable {
	return self.add(&alterAction{kind: alterSetDefault, name: ToColumn(col), value: val})
}

// Drops the default value of a column.
func (self *AlterTable) DropDefault(col any) *AlterTable {
	return self.add(&alterAction{kind: alterDropDefault, name: ToColumn(col)})
}

// Sets or drops NOT NULL on a column.
func (self *AlterTable) SetNotNull(col any, notNull bool) *AlterTable {
	kind := alterDropNotNull
	if notNull {
		kind = alterSetNotNull
	}
	return self.add(&alterAction{kind: kind, name: ToColumn(col)})
}

// Changes the type of a column. The type is verbatim SQL.
func (self *AlterTable) SetType(col any, typ string) *AlterTable {
	return self.add(&alterAction{kind: alterSetType, name: ToColumn(col), typ: typ})
}

// Renames the table. The new name is subject to the table prefix.
func (self *AlterTable) RenameTo(table any) *AlterTable {
	return self.add(&alterAction{kind: alterRename, name: ToTable(table)})
}

// Sets a table option, such as MySQL `ENGINE` or PostgreSQL storage
// parameters.
func (self *AlterTable) Option(key string, val any) *AlterTable {
	return self.add(&alterAction{kind: alterOption, option: Option{key, val}})
}

// Number of actions.
func (self *AlterTable) Len() int { return len(self.actions) }

func (self *AlterTable) add(val *alterAction) *AlterTable {
	self.actions = append(self.actions, val)
	return self
}

func (DialectStandard) AlterTableTemplate(stmt *AlterTable) *Expression {
	return alterTemplate(stmt, standardAlterAction)
}

/*
Template shared by dialects: `ALTER TABLE :table :actions`, with each action
rendered by the given function.
*/
func alterTemplate(stmt *AlterTable, fun func(*alterAction) Expr) *Expression {
	var bui Bui
	bui.Str(`ALTER TABLE`)
	appendTable(&bui, stmt.table, `ALTER TABLE table`)

	if len(stmt.actions) == 0 {
		bui.Named(`actions`, missing(`ALTER TABLE actions`))
		return bui.Expression()
	}

	actions := make(List, 0, len(stmt.actions))
	for _, val := range stmt.actions {
		actions = append(actions, fun(val))
	}
	bui.Named(`actions`, actions)
	return bui.Expression()
}

/*
Wraps an action renderer to reject statements with several actions, for
dialects that accept only one per statement.
*/
func singleAlterAction(stmt *AlterTable, fun func(*alterAction) Expr) func(*alterAction) Expr {
	if len(stmt.actions) <= 1 {
		return fun
	}
	return func(*alterAction) Expr { return unsupported(`multiple ALTER TABLE actions`) }
}

func standardAlterAction(val *alterAction) Expr {
	switch val.kind {
	case alterAddColumn:
		if val.first || val.after != nil {
			return unsupported(`column position FIRST/AFTER`)
		}
		return Raw(`ADD COLUMN ?`, columnOrMissing(val.column))
	case alterAddConstraint:
		return Raw(`ADD ?`, constraintOrMissing(val.constraint))
	case alterDropColumn:
		return Raw(`DROP COLUMN ?`, val.name)
	case alterDropConstraint:
		return dropConstraintAction(val.name, val.behavior)
	case alterSetDefault:
		return Raw(`ALTER COLUMN ? SET DEFAULT ?`, val.name, val.value)
	case alterDropDefault:
		return Raw(`ALTER COLUMN ? DROP DEFAULT`, val.name)
	case alterSetNotNull:
		return Raw(`ALTER COLUMN ? SET NOT NULL`, val.name)
	case alterDropNotNull:
		return Raw(`ALTER COLUMN ? DROP NOT NULL`, val.name)
	case alterSetType:
		return Raw(`ALTER COLUMN ? SET DATA TYPE ?`, val.name, Str(val.typ))
	case alterRename:
		return Raw(`RENAME TO ?`, val.name)
	case alterOption:
		return val.option
	default:
		panic(ErrInternal.while(`rendering ALTER TABLE`).because(
			errf(`unknown action kind %v`, val.kind),
		))
	}
}

func dropConstraintAction(name Expr, behavior Behavior) Expr {
	if behavior == BehaviorNone {
		return Raw(`DROP CONSTRAINT ?`, name)
	}
	return Raw(`DROP CONSTRAINT ? ?`, name, Str(behavior))
}

func columnOrMissing(val *ColumnDef) Expr {
	if val == nil {
		return missing(`column definition`)
	}
	return val
}

func constraintOrMissing(val *Constraint) Expr {
	if val == nil {
		return missing(`constraint`)
	}
	return val
}

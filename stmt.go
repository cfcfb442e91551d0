package sqld

import (
	"sort"
)

/*
Referential action of DROP statements and DROP CONSTRAINT: none, "CASCADE",
"RESTRICT".
*/
type Behavior string

const (
	BehaviorNone Behavior = ``
	Cascade      Behavior = `CASCADE`
	Restrict     Behavior = `RESTRICT`
)

/*
Parenthesized comma-separated sequence of values, such as a row of VALUES.
Elements are rendered via `AppendValue`.

	sqld.Tuple{1, `two`, nil}
	-> (1, 'two', NULL)
*/
type Tuple []any

// Implement the `Expr` interface, making this a sub-expression.
func (self Tuple) AppendExpr(text []byte, ctx Ctx) []byte {
	text = append(text, `(`...)
	text = Values(self).AppendExpr(text, ctx)
	return append(text, `)`...)
}

// Implement `fmt.Stringer` for debug purposes.
func (self Tuple) String() string { return exprString(self) }

// Like `Tuple` but without the parens.
type Values []any

// Implement the `Expr` interface, making this a sub-expression.
func (self Values) AppendExpr(text []byte, ctx Ctx) []byte {
	for ind, val := range self {
		if ind > 0 {
			text = append(text, `, `...)
		}
		text = AppendValue(text, ctx, val)
	}
	return text
}

// Implement `fmt.Stringer` for debug purposes.
func (self Values) String() string { return exprString(self) }

/*
Column assignment in UPDATE: `"col" = value`. The value is rendered via
`AppendValue`, so expressions such as `sqld.Raw("? + 1", sqld.Col("hits"))`
work.
*/
type Assignment struct {
	Column Expr
	Value  any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Assignment) AppendExpr(text []byte, ctx Ctx) []byte {
	text = self.Column.AppendExpr(text, ctx)
	text = append(text, ` = `...)
	return AppendValue(text, ctx, self.Value)
}

// Implement `fmt.Stringer` for debug purposes.
func (self Assignment) String() string { return exprString(self) }

// Verbatim key and rendered value, used by table and index options.
type Option struct {
	Key   string
	Value any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Option) AppendExpr(text []byte, ctx Ctx) []byte {
	text = append(text, self.Key...)
	text = append(text, ` = `...)
	return AppendValue(text, ctx, self.Value)
}

// Sequence of options, joined with ", " when rendered as an expression.
type Options []Option

// Implement the `Expr` interface, making this a sub-expression.
func (self Options) AppendExpr(text []byte, ctx Ctx) []byte {
	for ind, val := range self {
		if ind > 0 {
			text = append(text, `, `...)
		}
		text = val.AppendExpr(text, ctx)
	}
	return text
}

// Converts a map to options in sorted key order.
func OptionsOf(src map[string]any) Options {
	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(Options, 0, len(keys))
	for _, key := range keys {
		out = append(out, Option{key, src[key]})
	}
	return out
}

// Renders the elements separated by single spaces, skipping nils.
type spaced []Expr

func (self spaced) AppendExpr(text []byte, ctx Ctx) []byte {
	var found bool
	for _, val := range self {
		if val == nil {
			continue
		}
		if found {
			text = append(text, ' ')
		}
		found = true
		text = val.AppendExpr(text, ctx)
	}
	return text
}

/*
Placeholder for a required clause that wasn't provided. Rendering it fails
with `ErrMissingArgument`.
*/
type missing string

func (self missing) AppendExpr([]byte, Ctx) []byte {
	panic(ErrMissingArgument.while(`rendering statement`).because(
		errf(`missing %v`, string(self)),
	))
}

/*
Column of a pseudo-table such as `INSERTED` or `DELETED` in SQL Server OUTPUT
clauses. Identifiers render their own name without namespace; other
expressions render verbatim.
*/
type pseudoColumn struct {
	table string
	col   Expr
}

func (self pseudoColumn) AppendExpr(text []byte, ctx Ctx) []byte {
	text = append(text, self.table...)
	text = append(text, identSeparator...)
	if val, ok := self.col.(Ident); ok {
		if val.GetName() == identStar {
			return append(text, identStar...)
		}
		return append(text, ctx.dialect().QuoteIdent(val.GetName())...)
	}
	panic(errUnsupported(ctx.dialect(), `OUTPUT of an expression other than a column`))
}

func pseudoColumns(table string, cols List) List {
	out := make(List, 0, len(cols))
	for _, val := range cols {
		if val != nil {
			out = append(out, pseudoColumn{table, val})
		}
	}
	return out
}

// Implemented by statement builders whose dialect may be left unset.
type dialectBinder interface {
	Statement
	withDialect(Dialect) Statement
}

func appendStatement(text []byte, ctx Ctx, stmt Statement) []byte {
	dialect := ctx.DialectOf(stmt)
	if val, ok := stmt.(dialectBinder); ok {
		stmt = val.withDialect(dialect)
	}
	return stmt.Template().AppendExpr(text, ctx.With(dialect))
}

func templateOf(stmt dialectBinder) *Expression {
	bound := stmt.withDialect(nil)
	return bound.Dialect().Template(bound)
}

// Rendering failures are reported in the output rather than panicking, since
// this is used by `fmt.Stringer` implementations.
func statementString(stmt Statement) string {
	out, err := Compile(Ctx{}, stmt)
	if err != nil {
		return err.Error()
	}
	return out
}

func dialectOr(val Dialect) Dialect {
	if val == nil {
		return Standard
	}
	return val
}

func conditionsOf(ptr **Conditions) *Conditions {
	if *ptr == nil {
		*ptr = Cond()
	}
	return *ptr
}

func orderAppend(list List, col any, dir Dir, nulls Nulls) List {
	if val, ok := col.(Order); ok {
		return append(list, val)
	}
	return append(list, orderOf(col, dir, nulls))
}

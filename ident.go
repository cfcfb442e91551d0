package sqld

import (
	"strings"
)

/*
Bare SQL identifier such as a schema or constraint name, optionally qualified
by a namespace. The name is always quoted by the dialect and never interpreted
as SQL syntax.

	sqld.Identifier{Name: `one`}
	-> "one"

	sqld.Id(`one.two`)
	-> "one"."two"
*/
type Identifier struct {
	Namespace Ident
	Name      string
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Identifier) AppendExpr(text []byte, ctx Ctx) []byte {
	text = appendNamespace(text, ctx, self.Namespace)
	return append(text, ctx.dialect().QuoteIdent(self.Name)...)
}

// Implement `fmt.Stringer` for debug purposes.
func (self Identifier) String() string { return exprString(self) }

// Implement `Ident`.
func (self Identifier) GetName() string { return self.Name }

// Implement `Ident`.
func (self Identifier) GetNamespace() Ident { return self.Namespace }

/*
Table name, optionally qualified by a schema. The table prefix of the dialect
context is prepended to the name at render time, exactly once:

	sqld.Compile(sqld.Ctx{Prefix: `pre_`}, sqld.Tab(`one`))
	-> "pre_one"

The prefix is never stored in the value. A namespace that is itself a `Table`
is prefixed too; an `Identifier` namespace is not.
*/
type Table struct {
	Namespace Ident
	Name      string
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Table) AppendExpr(text []byte, ctx Ctx) []byte {
	text = appendNamespace(text, ctx, self.Namespace)
	return append(text, ctx.dialect().QuoteIdent(ctx.Prefix+self.Name)...)
}

// Implement `fmt.Stringer` for debug purposes.
func (self Table) String() string { return exprString(self) }

// Implement `Ident`.
func (self Table) GetName() string { return self.Name }

// Implement `Ident`.
func (self Table) GetNamespace() Ident { return self.Namespace }

/*
Column name, optionally qualified by a table. The name `*` renders unquoted,
which allows `"table".*`.
*/
type Column struct {
	Namespace Ident
	Name      string
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Column) AppendExpr(text []byte, ctx Ctx) []byte {
	text = appendNamespace(text, ctx, self.Namespace)
	if self.Name == identStar {
		return append(text, identStar...)
	}
	return append(text, ctx.dialect().QuoteIdent(self.Name)...)
}

// Implement `fmt.Stringer` for debug purposes.
func (self Column) String() string { return exprString(self) }

// Implement `Ident`.
func (self Column) GetName() string { return self.Name }

// Implement `Ident`.
func (self Column) GetNamespace() Ident { return self.Namespace }

func appendNamespace(text []byte, ctx Ctx, val Ident) []byte {
	if val == nil {
		return text
	}
	text = val.AppendExpr(text, ctx)
	return append(text, identSeparator...)
}

// Parses a dot-separated path into nested `Identifier` values.
func Id(path string) Identifier {
	head, last := splitPath(path)
	if head == `` {
		return Identifier{Name: last}
	}
	return Identifier{Namespace: Id(head), Name: last}
}

/*
Parses a dot-separated path into a `Table`. Everything before the last dot is
the schema:

	sqld.Tab(`public.users`)
	-> sqld.Table{Namespace: sqld.Identifier{Name: `public`}, Name: `users`}
*/
func Tab(path string) Table {
	head, last := splitPath(path)
	if head == `` {
		return Table{Name: last}
	}
	return Table{Namespace: Id(head), Name: last}
}

/*
Parses a dot-separated path into a `Column`. Everything before the last dot is
the table, parsed via `Tab`:

	sqld.Col(`users.id`)
	-> sqld.Column{Namespace: sqld.Table{Name: `users`}, Name: `id`}
*/
func Col(path string) Column {
	head, last := splitPath(path)
	if head == `` {
		return Column{Name: last}
	}
	return Column{Namespace: Tab(head), Name: last}
}

// Shortcut for a list of columns parsed via `Col`.
func Cols(paths ...string) List {
	out := make(List, 0, len(paths))
	for _, path := range paths {
		out = append(out, Col(path))
	}
	return out
}

func splitPath(path string) (string, string) {
	ind := strings.LastIndex(path, identSeparator)
	if ind < 0 {
		return ``, path
	}
	return path[:ind], path[ind+len(identSeparator):]
}

/*
Coerces user input to an identifier expression. Expressions (including
identifiers of any kind) pass through unchanged, strings are parsed via `Id`,
nil stays nil. Other inputs cause a panic with `ErrInvalidInput`.
*/
func ToIdent(val any) Expr {
	return coerce(`coercing to identifier`, val, func(src string) Expr { return Id(src) })
}

// Like `ToIdent`, but parses strings via `Tab`.
func ToTable(val any) Expr {
	return coerce(`coercing to table`, val, func(src string) Expr { return Tab(src) })
}

// Like `ToIdent`, but parses strings via `Col`.
func ToColumn(val any) Expr {
	return coerce(`coercing to column`, val, func(src string) Expr { return Col(src) })
}

/*
Coerces each input via `ToColumn`. String slices are flattened, which allows
both `ToColumns("a", "b")` and `ToColumns([]string{"a", "b"})`.
*/
func ToColumns(vals ...any) List {
	out := make(List, 0, len(vals))
	for _, val := range vals {
		switch val := val.(type) {
		case nil:
		case []string:
			for _, path := range val {
				out = append(out, Col(path))
			}
		case List:
			out = append(out, val...)
		case []Expr:
			out = append(out, val...)
		default:
			out = append(out, ToColumn(val))
		}
	}
	return out
}

func coerce(while string, val any, parse func(string) Expr) Expr {
	switch val := val.(type) {
	case nil:
		return nil
	case Expr:
		return val
	case string:
		return parse(val)
	default:
		panic(errInvalidInput(while, val))
	}
}

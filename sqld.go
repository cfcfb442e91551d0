package sqld

import (
	"fmt"
)

/*
Short for "expression". Defines an arbitrary SQL expression. The method appends
arbitrary SQL text rendered for the given dialect context. Literal values are
embedded in the text, quoted and escaped by the dialect, so the output is a
complete statement. Both the input and output text may be nil.

This method is allowed to panic. Use `Compile` or `Ctx.Compile` to catch
panics and convert them to errors.
*/
type Expr interface {
	AppendExpr([]byte, Ctx) []byte
}

/*
Implemented by identifier nodes: `Identifier`, `Table`, `Column`. Identifiers
nest: the namespace of a column is usually a table, the namespace of a table
is usually a schema identifier.
*/
type Ident interface {
	Expr
	fmt.Stringer
	GetName() string
	GetNamespace() Ident
}

/*
Implemented by statement builders. A statement is created for a particular
dialect, which decides the shape of its template. `Dialect` returns nil when
the statement takes its dialect from the rendering context. `Template` returns
the template with named placeholders for every populated clause, before
substitution; without a dialect, the template is for `Standard`.
*/
type Statement interface {
	Expr
	Dialect() Dialect
	Template() *Expression
}

/*
Compiles the expression into a complete SQL string for the given context,
converting panics into errors.
*/
func Compile(ctx Ctx, val Expr) (_ string, err error) {
	defer rec(&err)
	if val == nil {
		return ``, nil
	}
	return string(val.AppendExpr(nil, ctx)), nil
}

// Variant of `Compile` that panics on error.
func TryCompile(ctx Ctx, val Expr) string { return try1(Compile(ctx, val)) }

package sqld

import (
	"sort"
)

/*
Single parameter of an `Expression`. An empty `.Name` makes the parameter
positional: it's consumed by the next `?` in the template. A non-empty name
binds every `:name` occurrence in the template.
*/
type Param struct {
	Name  string
	Value any
}

// True if the parameter is bound by name rather than by position.
func (self Param) IsNamed() bool { return self.Name != `` }

/*
Arbitrary SQL fragment: a template with `?` and `:name` placeholders and an
ordered sequence of parameters. Parameter values may be literals, identifiers,
or other expressions, forming a tree. See `(*Expression).AppendExpr` for the
substitution rules.

Methods that add parameters mutate and return the receiver:

	sqld.Raw(`? + :delta`, sqld.Col(`amount`)).Bind(`delta`, 10)
*/
type Expression struct {
	Text   string
	Params []Param
}

// Shortcut for making an `*Expression` with positional parameters.
func Raw(text string, args ...any) *Expression {
	out := &Expression{Text: text}
	return out.Arg(args...)
}

// Appends positional parameters, consumed by `?` left to right.
func (self *Expression) Arg(vals ...any) *Expression {
	for _, val := range vals {
		self.Params = append(self.Params, Param{Value: val})
	}
	return self
}

// Binds a named parameter. Binding the same name again overrides it.
func (self *Expression) Bind(name string, val any) *Expression {
	self.Params = append(self.Params, Param{Name: name, Value: val})
	return self
}

// Binds every entry of the map, in sorted key order.
func (self *Expression) BindMap(vals map[string]any) *Expression {
	keys := make([]string, 0, len(vals))
	for key := range vals {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		self.Bind(key, vals[key])
	}
	return self
}

/*
Returns the value bound to the given name. When a name is bound several times,
the last binding wins.
*/
func (self *Expression) Lookup(name string) (any, bool) {
	if self == nil {
		return nil, false
	}
	for ind := len(self.Params) - 1; ind >= 0; ind-- {
		param := self.Params[ind]
		if param.Name == name {
			return param.Value, true
		}
	}
	return nil, false
}

// True if both the template and the parameters are empty.
func (self *Expression) IsEmpty() bool {
	return self == nil || self.Text == `` && len(self.Params) == 0
}

// Implement `fmt.Stringer` for debug purposes. Renders with the standard
// dialect and no prefix.
func (self *Expression) String() string { return exprString(self) }

/*
Short for "string". Verbatim SQL text, appended as-is without any quoting or
placeholder substitution.
*/
type Str string

// Implement the `Expr` interface, making this a sub-expression.
func (self Str) AppendExpr(text []byte, _ Ctx) []byte {
	return append(text, self...)
}

// Implement `fmt.Stringer` for debug purposes.
func (self Str) String() string { return string(self) }

// SQL keyword used in column defaults and `VALUES` tuples.
const Default Str = `DEFAULT`

// SQL NULL literal.
const Null Str = `NULL`

/*
Comma-separated sequence of expressions. Nil elements are skipped. An empty
list renders nothing.
*/
type List []Expr

// Implement the `Expr` interface, making this a sub-expression.
func (self List) AppendExpr(text []byte, ctx Ctx) []byte {
	var found bool
	for _, val := range self {
		if val == nil {
			continue
		}
		if found {
			text = append(text, `, `...)
		}
		found = true
		text = val.AppendExpr(text, ctx)
	}
	return text
}

// Implement `fmt.Stringer` for debug purposes.
func (self List) String() string { return exprString(self) }

// Wraps an arbitrary expression in parens.
type Parens [1]Expr

// Implement the `Expr` interface, making this a sub-expression.
func (self Parens) AppendExpr(text []byte, ctx Ctx) []byte {
	text = append(text, `(`...)
	if self[0] != nil {
		text = self[0].AppendExpr(text, ctx)
	}
	return append(text, `)`...)
}

// Implement `fmt.Stringer` for debug purposes.
func (self Parens) String() string { return exprString(self) }

/*
Renders `<expr> AS <quoted name>`. Used for column and table aliases. An empty
name renders only the expression.
*/
type Alias struct {
	Expr Expr
	Name string
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Alias) AppendExpr(text []byte, ctx Ctx) []byte {
	if self.Expr != nil {
		text = self.Expr.AppendExpr(text, ctx)
	}
	if self.Name == `` {
		return text
	}
	text = append(text, ` AS `...)
	return append(text, ctx.dialect().QuoteIdent(self.Name)...)
}

// Implement `fmt.Stringer` for debug purposes.
func (self Alias) String() string { return exprString(self) }

/*
Function call such as `COUNT(*)` or `COALESCE("a", 'b')`. The name is
verbatim SQL. The arguments follow the usual value rendering rules.
*/
type Fn struct {
	Name string
	Args []any
}

// Shortcut for making `Fn`.
func Call(name string, args ...any) Fn { return Fn{name, args} }

// Implement the `Expr` interface, making this a sub-expression.
func (self Fn) AppendExpr(text []byte, ctx Ctx) []byte {
	text = append(text, self.Name...)
	text = append(text, `(`...)
	for ind, arg := range self.Args {
		if ind > 0 {
			text = append(text, `, `...)
		}
		text = AppendValue(text, ctx, arg)
	}
	return append(text, `)`...)
}

// Implement `fmt.Stringer` for debug purposes.
func (self Fn) String() string { return exprString(self) }

/*
Placeholder for a clause the target dialect can't express. Rendering it fails
with `ErrUnsupported`, which makes compilation of the enclosing statement fail
instead of silently dropping the clause.
*/
type unsupported string

func (self unsupported) AppendExpr(_ []byte, ctx Ctx) []byte {
	panic(errUnsupported(ctx.Dialect, string(self)))
}

func exprString(val Expr) string {
	return unsafeString(val.AppendExpr(nil, Ctx{}))
}

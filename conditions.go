package sqld

import (
	r "reflect"
	"strings"
)

/*
Stack-based predicate builder for WHERE, HAVING and ON clauses. Predicates are
connected with AND/OR, optionally negated, and grouped with parens:

	sqld.Cond().
		And(`a`, `=`, 1).
		OrOpen().
		And(`b`, `IS`, nil).
		And(`c`, `IN`, []int{2, 3}).
		Close()
	-> "a" = 1 OR ("b" IS NULL AND "c" IN (2, 3))

The connective of the first predicate in the list or in a group is omitted.
Every operation records a checkpoint in an undo log, and `Pop` reverts exactly
the last one, including a group removed by `CloseEmpty`.

The zero value is ready to use. Not safe for concurrent mutation.
*/
type Conditions struct {
	tokens []condToken
	undo   []condCheckpoint
}

// Shortcut for `new(Conditions)`.
func Cond() *Conditions { return new(Conditions) }

type condKind byte

const (
	condPredicate condKind = iota + 1
	condOpen
	condClose
)

type condToken struct {
	kind   condKind
	logic  string
	negate bool
	expr   Expr
}

/*
Undo entry. Reverting truncates the tokens to `size`, then restores the tokens
that the operation removed.
*/
type condCheckpoint struct {
	size    int
	removed []condToken
}

/*
Appends `<logic> <left> <op> <right>`. The logic is `AND`, `OR`, `AND NOT`,
`OR NOT` or `NOT` (same as `AND NOT`). The left operand is coerced via
`ToColumn`, the right operand is a value. See `Comparison` for the operators
with special rendering.
*/
func (self *Conditions) Add(logic string, left any, op string, right any) *Conditions {
	return self.push(predicateToken(logic, Comparison{ToColumn(left), op, right}))
}

// Shortcut for `.Add("AND", ...)`.
func (self *Conditions) And(left any, op string, right any) *Conditions {
	return self.Add(`AND`, left, op, right)
}

// Shortcut for `.Add("OR", ...)`.
func (self *Conditions) Or(left any, op string, right any) *Conditions {
	return self.Add(`OR`, left, op, right)
}

// Shortcut for `.Add("AND NOT", ...)`.
func (self *Conditions) AndNot(left any, op string, right any) *Conditions {
	return self.Add(`AND NOT`, left, op, right)
}

// Shortcut for `.Add("OR NOT", ...)`.
func (self *Conditions) OrNot(left any, op string, right any) *Conditions {
	return self.Add(`OR NOT`, left, op, right)
}

// Same as `.AndNot`.
func (self *Conditions) Not(left any, op string, right any) *Conditions {
	return self.AndNot(left, op, right)
}

// Like `.Add`, but the right operand is coerced via `ToColumn`, for
// comparing columns such as in join conditions.
func (self *Conditions) Column(logic string, left any, op string, right any) *Conditions {
	return self.push(predicateToken(logic, Comparison{ToColumn(left), op, ToColumn(right)}))
}

// Shortcut for `.Column("AND", ...)`.
func (self *Conditions) AndColumn(left any, op string, right any) *Conditions {
	return self.Column(`AND`, left, op, right)
}

// Shortcut for `.Column("OR", ...)`.
func (self *Conditions) OrColumn(left any, op string, right any) *Conditions {
	return self.Column(`OR`, left, op, right)
}

// Appends an arbitrary predicate expression.
func (self *Conditions) Expr(logic string, val Expr) *Conditions {
	return self.push(predicateToken(logic, val))
}

// Opens a parenthesized group connected by the given logic.
func (self *Conditions) Open(logic string) *Conditions {
	tok := predicateToken(logic, nil)
	tok.kind = condOpen
	return self.push(tok)
}

// Shortcut for `.Open("AND")`.
func (self *Conditions) AndOpen() *Conditions { return self.Open(`AND`) }

// Shortcut for `.Open("OR")`.
func (self *Conditions) OrOpen() *Conditions { return self.Open(`OR`) }

// Shortcut for `.Open("AND NOT")`.
func (self *Conditions) AndNotOpen() *Conditions { return self.Open(`AND NOT`) }

// Shortcut for `.Open("OR NOT")`.
func (self *Conditions) OrNotOpen() *Conditions { return self.Open(`OR NOT`) }

// Same as `.AndNotOpen`.
func (self *Conditions) NotOpen() *Conditions { return self.AndNotOpen() }

// Closes the innermost group.
func (self *Conditions) Close() *Conditions {
	return self.push(condToken{kind: condClose})
}

/*
Closes the innermost group, or removes it if nothing was added since it was
opened, which avoids emitting `()`. `Pop` restores a removed group.
*/
func (self *Conditions) CloseEmpty() *Conditions {
	size := len(self.tokens)
	if size > 0 && self.tokens[size-1].kind == condOpen {
		removed := self.tokens[size-1]
		self.tokens = self.tokens[:size-1]
		self.undo = append(self.undo, condCheckpoint{size: size - 1, removed: []condToken{removed}})
		return self
	}
	return self.Close()
}

// Appends `<logic> EXISTS (<sub>)`.
func (self *Conditions) Exists(logic string, sub Expr) *Conditions {
	return self.push(predicateToken(logic, exists{sub}))
}

// Shortcut for `.Exists("AND", sub)`.
func (self *Conditions) AndExists(sub Expr) *Conditions { return self.Exists(`AND`, sub) }

// Shortcut for `.Exists("OR", sub)`.
func (self *Conditions) OrExists(sub Expr) *Conditions { return self.Exists(`OR`, sub) }

// Shortcut for `.Exists("AND NOT", sub)`.
func (self *Conditions) NotExists(sub Expr) *Conditions { return self.Exists(`AND NOT`, sub) }

// Shortcut for `.Exists("OR NOT", sub)`.
func (self *Conditions) OrNotExists(sub Expr) *Conditions { return self.Exists(`OR NOT`, sub) }

/*
Reverts the most recent operation. Panics with `ErrInvalidUndo` when there is
nothing to revert.
*/
func (self *Conditions) Pop() *Conditions {
	size := len(self.undo)
	if size == 0 {
		panic(ErrInvalidUndo.while(`popping conditions`))
	}

	point := self.undo[size-1]
	self.undo = self.undo[:size-1]
	self.tokens = append(self.tokens[:point.size], point.removed...)
	return self
}

// Number of operations that can be reverted via `Pop`.
func (self *Conditions) Len() int {
	if self == nil {
		return 0
	}
	return len(self.undo)
}

// True if there are no predicates or groups.
func (self *Conditions) IsEmpty() bool {
	return self == nil || len(self.tokens) == 0
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *Conditions) AppendExpr(text []byte, ctx Ctx) []byte {
	if self == nil {
		return text
	}

	first := true
	for _, tok := range self.tokens {
		if tok.kind == condClose {
			text = append(text, `)`...)
			first = false
			continue
		}

		if !first {
			text = append(text, ' ')
			text = append(text, tok.logic...)
			text = append(text, ' ')
		}
		if tok.negate {
			text = append(text, `NOT `...)
		}

		if tok.kind == condOpen {
			text = append(text, `(`...)
			first = true
			continue
		}

		text = tok.expr.AppendExpr(text, ctx)
		first = false
	}
	return text
}

// Implement `fmt.Stringer` for debug purposes.
func (self *Conditions) String() string { return exprString(self) }

func (self *Conditions) push(tok condToken) *Conditions {
	self.undo = append(self.undo, condCheckpoint{size: len(self.tokens)})
	self.tokens = append(self.tokens, tok)
	return self
}

func predicateToken(logic string, val Expr) condToken {
	words := strings.Fields(strings.ToUpper(logic))
	tok := condToken{kind: condPredicate, logic: `AND`, expr: val}

	for _, word := range words {
		switch word {
		case `NOT`:
			tok.negate = true
		case `AND`, `OR`:
			tok.logic = word
		default:
			panic(ErrInvalidInput.while(`adding condition`).because(
				errf(`unrecognized logic %q, expected AND, OR, NOT or a combination`, logic),
			))
		}
	}
	return tok
}

/*
Binary predicate `<left> <op> <right>`. The operator is verbatim SQL, except:

	* `IN`, `NOT IN`: the right operand is wrapped in parens. An empty slice
	  or array renders the constant predicate `1 = 0` or `1 = 1`.

	* `BETWEEN`, `NOT BETWEEN`: the right operand must be a two-element slice
	  or array, rendered as `<a> AND <b>`.

	* `IS`, `IS NOT` with a non-NULL right operand: rendered via
	  `Dialect.NullSafe`, which is `<=>` in MySQL.
*/
type Comparison struct {
	Left  Expr
	Op    string
	Right any
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Comparison) AppendExpr(text []byte, ctx Ctx) []byte {
	op := keyword(self.Op)

	switch op {
	case `IN`, `NOT IN`:
		if isEmptyList(self.Right) {
			if op == `IN` {
				return append(text, `1 = 0`...)
			}
			return append(text, `1 = 1`...)
		}
		return Raw(`? ? (?)`, self.Left, Str(op), self.Right).AppendExpr(text, ctx)

	case `BETWEEN`, `NOT BETWEEN`:
		rval := valueDeref(r.ValueOf(self.Right))
		if !(rval.Kind() == r.Slice || rval.Kind() == r.Array) || rval.Len() != 2 {
			panic(errInvalidInput(`rendering `+op, self.Right))
		}
		return Raw(`? ? ? AND ?`, self.Left, Str(op), rval.Index(0).Interface(), rval.Index(1).Interface()).
			AppendExpr(text, ctx)

	case `IS`, `IS NOT`:
		if isNil(self.Right) {
			return Raw(`? ? NULL`, self.Left, Str(op)).AppendExpr(text, ctx)
		}
		return Raw(ctx.dialect().NullSafe(op == `IS NOT`), self.Left, self.Right).AppendExpr(text, ctx)

	default:
		return Raw(`? ? ?`, self.Left, Str(self.Op), self.Right).AppendExpr(text, ctx)
	}
}

// Non-expression slice or array without elements, other than bytes.
func isEmptyList(val any) bool {
	if _, ok := val.(Expr); ok {
		return false
	}
	rval := valueDeref(r.ValueOf(val))
	switch rval.Kind() {
	case r.Slice, r.Array:
		return rval.Type().Elem().Kind() != r.Uint8 && rval.Len() == 0
	}
	return false
}

// Implement `fmt.Stringer` for debug purposes.
func (self Comparison) String() string { return exprString(self) }

type exists [1]Expr

func (self exists) AppendExpr(text []byte, ctx Ctx) []byte {
	return Raw(`EXISTS (?)`, self[0]).AppendExpr(text, ctx)
}

package sqld

import (
	"database/sql/driver"
	"math"
	r "reflect"
	"strconv"
	"time"
)

// Layout used for `time.Time` literals. Times are converted to UTC.
const TimeLayout = `2006-01-02 15:04:05.999999`

/*
Implement the `Expr` interface. Scans the template left to right:

	* `?` consumes the next positional parameter. Running out of positional
	  parameters is an error; surplus parameters are ignored.

	* `:name` is replaced with the value bound to that name, at every
	  occurrence. Unbound names are left in the output verbatim.

	* `$N` is rejected: ordinal parameters belong to drivers, not templates.

	* Placeholders inside quotes and comments are plain text.

Each substituted value is rendered via the rules documented on `AppendValue`.
Nested expressions are not wrapped in parens; templates must include parens
where grouping matters. Rendering is pure: the same tree and context always
produce the same text.
*/
func (self *Expression) AppendExpr(text []byte, ctx Ctx) []byte {
	if self == nil {
		return text
	}

	prep := Preparse(self.Text)
	next := 0

	for _, tok := range prep.Tokens {
		switch tok.Type {
		case TokenTypePositionalParam:
			ind := self.nextPositional(next)
			if ind < 0 {
				panic(ErrMissingArgument.while(`compiling expression`).because(errf(
					`template %q has more "?" placeholders than positional parameters`,
					self.Text,
				)))
			}
			next = ind + 1
			text = AppendValue(text, ctx, self.Params[ind].Value)

		case TokenTypeNamedParam:
			val, ok := self.Lookup(tok.ParamName())
			if !ok {
				text = append(text, tok.Text...)
				continue
			}
			text = AppendValue(text, ctx, val)

		case TokenTypeOrdinalParam:
			panic(ErrUnexpectedParameter.while(`compiling expression`).because(errf(
				`unexpected ordinal parameter %q in template %q; use "?" or ":name"`,
				tok.Text, self.Text,
			)))

		default:
			text = append(text, tok.Text...)
		}
	}

	return text
}

func (self *Expression) nextPositional(start int) int {
	for ind := start; ind < len(self.Params); ind++ {
		if !self.Params[ind].IsNamed() {
			return ind
		}
	}
	return -1
}

/*
Appends an arbitrary value as an SQL literal for the given dialect context:

	* nil, nil pointers, nil `driver.Valuer`  -> `NULL`
	* `Expr` (identifiers, expressions, statements) -> rendered recursively
	* bool                                     -> dialect boolean literal
	* integers, floats                         -> unquoted decimal
	  (NaN and infinities panic with `ErrInvalidInput`)
	* string                                   -> dialect-quoted string literal
	* []byte                                   -> dialect bytes literal
	* `time.Time`                              -> quoted `TimeLayout`, UTC
	* `driver.Valuer`                          -> rendered from `.Value()`
	* other slices and arrays                  -> elements joined with ", "

Other types cause a panic with `ErrUnsupportedType`.
*/
func AppendValue(text []byte, ctx Ctx, src any) []byte {
	dialect := ctx.dialect()

	switch val := src.(type) {
	case nil:
		return append(text, `NULL`...)

	case Expr:
		if isNilPtr(val) {
			return append(text, `NULL`...)
		}
		return val.AppendExpr(text, ctx)

	case bool:
		return append(text, dialect.Bool(val)...)

	case string:
		return append(text, dialect.QuoteString(val)...)

	case []byte:
		if val == nil {
			return append(text, `NULL`...)
		}
		return append(text, dialect.QuoteBytes(val)...)

	case time.Time:
		return append(text, dialect.QuoteString(val.UTC().Format(TimeLayout))...)

	case driver.Valuer:
		if isNil(val) {
			return append(text, `NULL`...)
		}
		out, err := val.Value()
		if err != nil {
			panic(Err{Code: ErrCodeInvalidInput, While: `rendering driver.Valuer`, Cause: err})
		}
		return AppendValue(text, ctx, out)
	}

	rval := r.ValueOf(src)

	switch rval.Kind() {
	case r.Ptr, r.Interface:
		if rval.IsNil() {
			return append(text, `NULL`...)
		}
		return AppendValue(text, ctx, rval.Elem().Interface())

	case r.Bool:
		return append(text, dialect.Bool(rval.Bool())...)

	case r.Int8, r.Int16, r.Int32, r.Int64, r.Int:
		return strconv.AppendInt(text, rval.Int(), 10)

	case r.Uint8, r.Uint16, r.Uint32, r.Uint64, r.Uint, r.Uintptr:
		return strconv.AppendUint(text, rval.Uint(), 10)

	case r.Float32:
		return strconv.AppendFloat(text, finite(src, rval.Float()), 'f', -1, 32)

	case r.Float64:
		return strconv.AppendFloat(text, finite(src, rval.Float()), 'f', -1, 64)

	case r.String:
		return append(text, dialect.QuoteString(rval.String())...)

	case r.Slice, r.Array:
		if rval.Type().Elem().Kind() == r.Uint8 && rval.Kind() == r.Slice {
			if rval.IsNil() {
				return append(text, `NULL`...)
			}
			return append(text, dialect.QuoteBytes(rval.Bytes())...)
		}
		for ind := 0; ind < rval.Len(); ind++ {
			if ind > 0 {
				text = append(text, `, `...)
			}
			text = AppendValue(text, ctx, rval.Index(ind).Interface())
		}
		return text

	default:
		panic(errUnsupportedType(`rendering value`, rval.Type()))
	}
}

func finite(src any, val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		panic(ErrInvalidInput.while(`rendering float`).because(
			errf(`non-finite value %v of type %q has no SQL literal`, val, typeName(r.TypeOf(src))),
		))
	}
	return val
}

func isNilPtr(val any) bool {
	rval := r.ValueOf(val)
	return rval.Kind() == r.Ptr && rval.IsNil()
}

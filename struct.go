package sqld

import (
	r "reflect"

	"github.com/mitranim/refut"
)

// Struct tag naming the column of a field.
const TagName = `db`

/*
Single column of a struct scanned by `StructFields`: the column name taken
from the `db` tag and the field value.
*/
type Field struct {
	Name  string
	Value any
}

/*
Scans a struct, returning fields tagged with `db` in declaration order. Fields
without the tag or tagged `db:"-"` are skipped. Embedded structs are treated
as part of the enclosing struct. The input must be a struct or a struct
pointer; a nil pointer produces nil. Panics with `ErrInvalidInput` on other
inputs.
*/
func StructFields(input any) []Field {
	var out []Field
	traverseStructDbFields(input, func(name string, val any) {
		out = append(out, Field{name, val})
	})
	return out
}

/*
Returns identifiers of the columns of a struct type, in the order of
`StructFields`. Works on types rather than values: nil struct pointers and
slices of structs are accepted, which suits SELECT lists derived from scan
destinations:

	sqld.NewSelect(sqld.Postgres, sqld.StructColumns((*User)(nil))).From(`users`, ``)
*/
func StructColumns(dest any) List {
	rtype := typeDeref(r.TypeOf(dest))
	if rtype != nil && rtype.Kind() == r.Slice {
		rtype = typeDeref(rtype.Elem())
	}

	if rtype == nil || rtype.Kind() != r.Struct {
		panic(ErrInvalidInput.while(`generating struct columns`).because(
			errf(`expected struct, got %q`, typeName(rtype)),
		))
	}

	var out List
	try(refut.TraverseStructRtype(rtype, func(sfield r.StructField, _ []int) error {
		name := sfieldColumnName(sfield)
		if name != `` {
			out = append(out, Identifier{Name: name})
		}
		return nil
	}))
	return out
}

/*
Appends a value row taken from the struct's `db` fields. The first call on an
insert without columns also sets the columns, so repeated calls with structs
of the same type produce a multi-row insert. A struct without such fields
adds nothing, which renders as `DEFAULT VALUES` unless other rows were added.
*/
func (self *Insert) Struct(input any) *Insert {
	fields := StructFields(input)
	if len(fields) == 0 {
		return self
	}

	setCols := len(self.columns) == 0
	row := make([]any, 0, len(fields))
	for _, field := range fields {
		if setCols {
			self.columns = append(self.columns, Identifier{Name: field.Name})
		}
		row = append(row, field.Value)
	}
	return self.Values(row...)
}

// Appends one assignment per `db` field of the struct.
func (self *Update) Struct(input any) *Update {
	for _, field := range StructFields(input) {
		self.Set(Identifier{Name: field.Name}, field.Value)
	}
	return self
}

/*
Appends one AND-joined equality per `db` field of the struct. Nil values,
including nil pointers and nil `driver.Valuer`, compare with `IS NULL`.
*/
func (self *Conditions) Struct(input any) *Conditions {
	for _, field := range StructFields(input) {
		col := Identifier{Name: field.Name}
		if isNil(field.Value) {
			self.And(col, `IS`, nil)
		} else {
			self.And(col, `=`, field.Value)
		}
	}
	return self
}

func traverseStructDbFields(input any, fun func(string, any)) {
	if input == nil {
		return
	}

	rval := r.ValueOf(input)
	rtype := refut.RtypeDeref(rval.Type())

	if rtype.Kind() != r.Struct {
		panic(ErrInvalidInput.while(`traversing struct for DB fields`).because(
			errf(`expected struct, got %q`, rtype),
		))
	}

	if refut.IsRvalNil(rval) {
		return
	}

	try(refut.TraverseStructRval(rval, func(rval r.Value, sfield r.StructField, _ []int) error {
		name := sfieldColumnName(sfield)
		if name != `` {
			fun(name, rval.Interface())
		}
		return nil
	}))
}

func sfieldColumnName(sfield r.StructField) string {
	return refut.TagIdent(sfield.Tag.Get(TagName))
}

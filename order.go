package sqld

import (
	"regexp"
	"strings"
)

const (
	DirNone Dir = 0
	DirAsc  Dir = 1
	DirDesc Dir = 2
)

// Short for "direction". Enum for ordering direction: none, "ASC", "DESC".
type Dir byte

// Implement `fmt.Stringer`. Returns the SQL keyword.
func (self Dir) String() string {
	switch self {
	default:
		return ``
	case DirAsc:
		return `ASC`
	case DirDesc:
		return `DESC`
	}
}

// Parses from a string, which must be empty, "asc" or "desc" in any case.
func (self *Dir) Parse(src string) error {
	switch strings.ToLower(src) {
	case ``:
		*self = DirNone
		return nil
	case `asc`:
		*self = DirAsc
		return nil
	case `desc`:
		*self = DirDesc
		return nil
	default:
		return ErrInvalidInput.while(`parsing order direction`).because(
			errf(`unrecognized direction %q`, src),
		)
	}
}

// Implement `encoding.TextMarshaler`.
func (self Dir) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(self.String())), nil
}

// Implement `encoding.TextUnmarshaler`.
func (self *Dir) UnmarshalText(src []byte) error {
	return self.Parse(unsafeString(src))
}

// Implement `fmt.GoStringer` for debug purposes. Returns valid Go code
// representing this value.
func (self Dir) GoString() string {
	switch self {
	default:
		return `sqld.DirNone`
	case DirAsc:
		return `sqld.DirAsc`
	case DirDesc:
		return `sqld.DirDesc`
	}
}

const (
	NullsNone  Nulls = 0
	NullsFirst Nulls = 1
	NullsLast  Nulls = 2
)

// Enum for nulls handling in ordering: none, "NULLS FIRST", "NULLS LAST".
type Nulls byte

// Implement `fmt.Stringer`. Returns the SQL keywords.
func (self Nulls) String() string {
	switch self {
	case NullsFirst:
		return `NULLS FIRST`
	case NullsLast:
		return `NULLS LAST`
	default:
		return ``
	}
}

// Parses from a string, which must be empty, "first" or "last" in any case.
func (self *Nulls) Parse(src string) error {
	switch strings.ToLower(src) {
	case ``:
		*self = NullsNone
		return nil
	case `first`:
		*self = NullsFirst
		return nil
	case `last`:
		*self = NullsLast
		return nil
	default:
		return ErrInvalidInput.while(`parsing nulls order`).because(
			errf(`unrecognized nulls order %q`, src),
		)
	}
}

// Implement `fmt.GoStringer` for debug purposes. Returns valid Go code
// representing this value.
func (self Nulls) GoString() string {
	switch self {
	case NullsFirst:
		return `sqld.NullsFirst`
	case NullsLast:
		return `sqld.NullsLast`
	default:
		return `sqld.NullsNone`
	}
}

/*
Single element of an ORDER BY list:

	sqld.Order{sqld.Col(`created_at`), sqld.DirDesc, sqld.NullsLast}
	-> "created_at" DESC NULLS LAST

NULLS FIRST/LAST is rendered verbatim; MySQL and SQL Server reject it at the
database level.
*/
type Order struct {
	Expr  Expr
	Dir   Dir
	Nulls Nulls
}

// Implement the `Expr` interface, making this a sub-expression.
func (self Order) AppendExpr(text []byte, ctx Ctx) []byte {
	if self.Expr == nil {
		return text
	}
	text = self.Expr.AppendExpr(text, ctx)
	if self.Dir != DirNone {
		text = appendMaybeSpaced(text, self.Dir.String())
	}
	if self.Nulls != NullsNone {
		text = appendMaybeSpaced(text, self.Nulls.String())
	}
	return text
}

// Implement `fmt.Stringer` for debug purposes.
func (self Order) String() string { return exprString(self) }

// Shortcut for an ascending `Order` by a column path parsed via `ToColumn`.
func Asc(col any) Order { return Order{Expr: ToColumn(col), Dir: DirAsc} }

// Shortcut for a descending `Order` by a column path parsed via `ToColumn`.
func Desc(col any) Order { return Order{Expr: ToColumn(col), Dir: DirDesc} }

var ordReg = regexp.MustCompile(
	`^\s*((?:\w+\.)*\w+)(?i)(?:\s+(asc|desc))?(?:\s+nulls\s+(first|last))?\s*$`,
)

/*
Parses an ordering string such as "users.name desc nulls last". Accepts a
dot-separated column path, an optional direction and an optional nulls
clause, case-insensitive. Useful for orderings coming from URL queries.
Anything else, such as arbitrary SQL, is rejected with `ErrInvalidInput`.
*/
func ParseOrder(src string) (Order, error) {
	match := ordReg.FindStringSubmatch(src)
	if match == nil {
		return Order{}, ErrInvalidInput.while(`parsing ordering`).because(errf(
			`%q is not a valid ordering string; expected format: "<ident> [asc|desc] [nulls first|last]"`,
			src,
		))
	}

	var out Order
	out.Expr = Col(match[1])
	if err := out.Dir.Parse(match[2]); err != nil {
		return Order{}, err
	}
	if err := out.Nulls.Parse(match[3]); err != nil {
		return Order{}, err
	}
	return out, nil
}

// Parses each input via `ParseOrder`, stopping at the first error.
func ParseOrders(src ...string) (List, error) {
	out := make(List, 0, len(src))
	for _, val := range src {
		ord, err := ParseOrder(val)
		if err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	return out, nil
}

func orderOf(col any, dir Dir, nulls Nulls) Order {
	return Order{Expr: ToColumn(col), Dir: dir, Nulls: nulls}
}

package sqld

import (
	"encoding/hex"
	"strconv"
	"strings"
)

/*
Dialect context: everything that rendering needs to know about the target
database. Passed explicitly into every render and compile call, which keeps
identifiers and expressions free of connection state and reusable across
contexts. The zero value renders with `Standard` and no table prefix.
*/
type Ctx struct {
	Dialect Dialect
	Prefix  string
}

// Compiles the expression in this context. Shortcut for `Compile`.
func (self Ctx) Compile(val Expr) (string, error) { return Compile(self, val) }

// Returns a copy with the dialect replaced, unless the input is nil.
func (self Ctx) With(dialect Dialect) Ctx {
	if dialect != nil {
		self.Dialect = dialect
	}
	return self
}

/*
Dialect used to render the statement in this context: the statement's own
dialect when set, otherwise the context's, otherwise `Standard`.
*/
func (self Ctx) DialectOf(stmt Statement) Dialect {
	if stmt != nil {
		if val := stmt.Dialect(); val != nil {
			return val
		}
	}
	return self.dialect()
}

func (self Ctx) dialect() Dialect {
	if self.Dialect == nil {
		return Standard
	}
	return self.Dialect
}

/*
Strategy object supplying everything that differs between database engines:
literal spelling and the shape of statement templates. Implementations embed
`DialectStandard` and override what differs.

`Template` decides the template of a statement builder: which clauses appear
and in what syntax. `ColumnTemplate` does the same for column definitions,
which differ mostly in identity syntax. Implementations switch on the concrete
statement type and fall back on `DialectStandard.Template` for the rest. Hooks
such as `Limit` are always invoked through `Statement.Dialect`, so overrides
take effect inside the standard templates too.
*/
type Dialect interface {
	Name() string
	QuoteIdent(string) string
	QuoteString(string) string
	QuoteBytes([]byte) string
	Bool(bool) string
	SupportsReturning() bool
	Limit(limit, offset *uint64) string
	NullSafe(negate bool) string
	Template(Statement) *Expression
	ColumnTemplate(*ColumnDef) *Expression
}

var (
	Standard  Dialect = DialectStandard{}
	Mysql     Dialect = DialectMysql{}
	Postgres  Dialect = DialectPostgres{}
	Sqlite    Dialect = DialectSqlite{}
	Sqlserver Dialect = DialectSqlserver{}
)

/*
Returns the dialect registered under the given name. Accepts common aliases
such as "postgresql" and "sqlite3". Unknown names produce `ErrUnknownDialect`.
*/
func DialectByName(name string) (Dialect, error) {
	switch strings.ToLower(name) {
	case `standard`, `ansi`, ``:
		return Standard, nil
	case `mysql`, `mariadb`:
		return Mysql, nil
	case `postgres`, `postgresql`, `pgx`:
		return Postgres, nil
	case `sqlite`, `sqlite3`:
		return Sqlite, nil
	case `sqlserver`, `mssql`:
		return Sqlserver, nil
	default:
		return nil, ErrUnknownDialect.while(`looking up dialect`).because(
			errf(`unknown dialect %q`, name),
		)
	}
}

/*
ANSI-flavored dialect and the base of every other dialect. Quotes identifiers
with double quotes and strings with single quotes, doubling embedded quotes.
Renders `LIMIT n OFFSET m` and native `RETURNING`.
*/
type DialectStandard struct{}

func (DialectStandard) Name() string { return `standard` }

func (DialectStandard) QuoteIdent(val string) string {
	return quoteDoubling(val, '"', '"')
}

func (DialectStandard) QuoteString(val string) string {
	return quoteDoubling(val, '\'', '\'')
}

func (DialectStandard) QuoteBytes(val []byte) string {
	return `X'` + hex.EncodeToString(val) + `'`
}

func (DialectStandard) Bool(val bool) string {
	if val {
		return `TRUE`
	}
	return `FALSE`
}

func (DialectStandard) SupportsReturning() bool { return true }

func (DialectStandard) Limit(limit, offset *uint64) string {
	var buf []byte
	if limit != nil {
		buf = append(buf, `LIMIT `...)
		buf = strconv.AppendUint(buf, *limit, 10)
	}
	if offset != nil {
		buf = appendMaybeSpaced(buf, `OFFSET `)
		buf = strconv.AppendUint(buf, *offset, 10)
	}
	return string(buf)
}

func (DialectStandard) NullSafe(negate bool) string {
	if negate {
		return `? IS NOT ?`
	}
	return `? IS ?`
}

/*
Implement `Dialect.Template` for every statement type defined in this package.
Panics on unknown statement types.
*/
func (self DialectStandard) Template(stmt Statement) *Expression {
	switch stmt := stmt.(type) {
	case *Select:
		return self.SelectTemplate(stmt)
	case *Set:
		return self.SetTemplate(stmt)
	case *Insert:
		return self.InsertTemplate(stmt)
	case *Update:
		return self.UpdateTemplate(stmt)
	case *Delete:
		return self.DeleteTemplate(stmt)
	case *CreateTable:
		return self.CreateTableTemplate(stmt)
	case *AlterTable:
		return self.AlterTableTemplate(stmt)
	case *CreateIndex:
		return self.CreateIndexTemplate(stmt)
	case *CreateView:
		return self.CreateViewTemplate(stmt)
	case *Drop:
		return self.DropTemplate(stmt)
	default:
		panic(errInvalidInput(`choosing statement template`, stmt))
	}
}

func quoteDoubling(val string, open, close byte) string {
	var buf strings.Builder
	buf.Grow(len(val) + 2)
	buf.WriteByte(open)
	for ind := 0; ind < len(val); ind++ {
		char := val[ind]
		if char == close {
			buf.WriteByte(close)
		}
		buf.WriteByte(char)
	}
	buf.WriteByte(close)
	return buf.String()
}

package sqld

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"math"
	"testing"
	"time"
)

func TestExpression_positional(t *testing.T) {
	testSql(t, nil, `1 + 2`, Raw(`? + ?`, 1, 2))
	testSql(t, nil, `1`, Raw(`?`, 1, 2, 3))
	testSql(t, nil, `one`, Raw(`one`))
	testSql(t, nil, ``, Raw(``))

	testCompileErr(t, Ctx{}, ErrMissingArgument, `more "?" placeholders`, Raw(`? + ?`, 1))
}

func TestExpression_named(t *testing.T) {
	testSql(t, nil, `1 + 1`, Raw(`:one + :one`).Bind(`one`, 1))
	testSql(t, nil, `2`, Raw(`:one`).Bind(`one`, 1).Bind(`one`, 2))
	testSql(t, nil, `:missing`, Raw(`:missing`))
	testSql(t, nil, `'one' = 2`, Raw(`:a = :b`).BindMap(map[string]any{`b`: 2, `a`: `one`}))

	// Named and positional params don't interfere.
	testSql(t, nil, `1 10 2`, Raw(`? :named ?`, 1).Bind(`named`, 10).Arg(2))
}

func TestExpression_casts_quotes_comments(t *testing.T) {
	testSql(t, nil, `'one'::text`, Raw(`:val::text`).Bind(`val`, `one`))
	testSql(t, nil, `'? :one' = 1`, Raw(`'? :one' = ?`, 1).Bind(`one`, 2))
	testSql(t, nil, "-- ? :one\n1", Raw("-- ? :one\n?", 1))
	testSql(t, nil, `/* ? */ 1`, Raw(`/* ? */ ?`, 1))
	testSql(t, nil, `"col?" = 1`, Raw(`"col?" = ?`, 1))
}

func TestExpression_ordinal_rejected(t *testing.T) {
	testCompileErr(t, Ctx{}, ErrUnexpectedParameter, `unexpected ordinal parameter "$1"`, Raw(`$1`))
}

func TestExpression_nested(t *testing.T) {
	inner := Raw(`? + ?`, Col(`a`), 1)
	testSql(t, nil, `("a" + 1) * 2`, Raw(`(?) * ?`, inner, 2))
	testSql(t, Mysql, "(`a` + 1) * 2", Raw(`(?) * ?`, inner, 2))

	// Nested expressions get their own parameter scope.
	testSql(t, nil, `:one 1`, Raw(`? :one`, Raw(`:one`)).Bind(`one`, 1))
}

func TestExpression_IsEmpty(t *testing.T) {
	eq(t, true, (*Expression)(nil).IsEmpty())
	eq(t, true, Raw(``).IsEmpty())
	eq(t, false, Raw(`one`).IsEmpty())
	eq(t, false, Raw(``, 1).IsEmpty())
}

func TestExpression_Lookup(t *testing.T) {
	val, ok := (*Expression)(nil).Lookup(`one`)
	eq(t, nil, val)
	eq(t, false, ok)

	val, ok = Raw(`?`, 1).Bind(`one`, 2).Bind(`one`, 3).Lookup(`one`)
	eq(t, 3, val)
	eq(t, true, ok)
}

func TestExpression_String(t *testing.T) {
	eq(t, `"one" = 'two'`, Raw(`? = ?`, Col(`one`), `two`).String())
}

type testValuer struct{ val driver.Value }

func (self testValuer) Value() (driver.Value, error) { return self.val, nil }

type failingValuer struct{}

func (failingValuer) Value() (driver.Value, error) { return nil, errors.New(`valuer failure`) }

type testInt int

type testStr string

func TestAppendValue(t *testing.T) {
	test := func(dialect Dialect, exp string, val any) {
		t.Helper()
		eq(t, exp, string(AppendValue(nil, Ctx{Dialect: dialect}, val)))
	}

	test(nil, `NULL`, nil)
	test(nil, `NULL`, (*int)(nil))
	test(nil, `NULL`, (*Expression)(nil))
	test(nil, `NULL`, []byte(nil))
	test(nil, `NULL`, (*testValuer)(nil))

	test(nil, `TRUE`, true)
	test(nil, `FALSE`, false)
	test(Mysql, `1`, true)
	test(Sqlite, `0`, false)
	test(Sqlserver, `1`, true)
	test(Postgres, `TRUE`, true)

	test(nil, `-12`, -12)
	test(nil, `12`, uint8(12))
	test(nil, `18446744073709551615`, uint64(18446744073709551615))
	test(nil, `1.5`, 1.5)
	test(nil, `0.25`, float32(0.25))
	test(nil, `-0.000001`, -0.000001)
	test(nil, `7`, testInt(7))
	test(nil, `10`, func() *int { val := 10; return &val }())

	test(nil, `'one'`, `one`)
	test(nil, `'it''s'`, `it's`)
	test(nil, `'one'`, testStr(`one`))
	test(Sqlserver, `N'it''s'`, `it's`)

	test(nil, `X'0aff'`, []byte{0x0a, 0xff})
	test(Postgres, `'\x0aff'`, []byte{0x0a, 0xff})
	test(Sqlserver, `0x0aff`, []byte{0x0a, 0xff})

	test(nil, `'2024-01-02 03:04:05.5'`, time.Date(2024, 1, 2, 3, 4, 5, 500000000, time.UTC))
	test(nil, `'9999-01-01 00:00:00'`, parseTime(`9999-01-01T00:00:00Z`))
	test(nil, `'2024-01-02 01:04:05'`, time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone(``, 2*60*60)))

	test(nil, `'one'`, testValuer{`one`})
	test(nil, `NULL`, testValuer{nil})
	test(nil, `'one'`, sql.NullString{String: `one`, Valid: true})
	test(nil, `NULL`, sql.NullString{})
	test(nil, `10`, sql.NullInt64{Int64: 10, Valid: true})

	test(nil, `1, 2, 3`, []int{1, 2, 3})
	test(nil, `'one', NULL`, []any{`one`, nil})
	test(nil, `1, 2`, [2]int{1, 2})
	test(nil, ``, []int{})

	test(nil, `"one"`, Col(`one`))
	test(nil, `SELECT *`, NewSelect(nil))
}

func TestAppendValue_unsupported(t *testing.T) {
	panics(t, `unsupported type "map[string]int"`, func() {
		AppendValue(nil, Ctx{}, map[string]int{})
	})
	panics(t, `unsupported type "struct {}"`, func() {
		AppendValue(nil, Ctx{}, struct{}{})
	})
	panics(t, `valuer failure`, func() {
		AppendValue(nil, Ctx{}, failingValuer{})
	})

	testCompileErr(t, Ctx{}, ErrInvalidInput, `non-finite value NaN of type "float64"`, Raw(`?`, math.NaN()))
	testCompileErr(t, Ctx{Dialect: Postgres}, ErrInvalidInput, `non-finite value +Inf of type "float32"`,
		Raw(`?`, float32(math.Inf(1))))
	testCompileErr(t, Ctx{}, ErrInvalidInput, `non-finite value -Inf`, Raw(`? IN (?)`, 1, []float64{1, math.Inf(-1)}))
}

func TestBui(t *testing.T) {
	var bui Bui
	bui.Str(`SELECT`)
	bui.Named(`columns`, List{Col(`one`), Col(`two`)})
	bui.Str(`FROM (`)
	bui.Arg(Tab(`three`))
	bui.Str(`)`)
	bui.Str(`WHERE`)
	bui.Expr(Raw(`? = ?`, Col(`one`), 1))
	bui.Expr(nil)
	bui.Bind(`unused`, 10)

	eq(t, `SELECT :columns FROM (?) WHERE :p2`, bui.String())
	testSql(t, nil, `SELECT "one", "two" FROM ("three") WHERE "one" = 1`, bui.Expression())
}

func TestBui_Verbatim_Keyword(t *testing.T) {
	var bui Bui
	bui.Str(`USING`)
	bui.Keyword(`btree`)
	bui.Str(`ON DELETE`)
	bui.Keyword(`set null`)
	bui.Str(`ON UPDATE`)
	bui.Keyword(`:cascade ?`)
	bui.Verbatim(`LIMIT 10`)
	bui.Verbatim(``)
	bui.Keyword(``)

	eq(t, `USING btree ON DELETE set null ON UPDATE :p0 :p1`, bui.String())
	testSql(t, nil, `USING btree ON DELETE set null ON UPDATE :cascade ? LIMIT 10`, bui.Expression())
}

func TestBui_spacing(t *testing.T) {
	test := func(exp string, chunks ...string) {
		t.Helper()
		var bui Bui
		for _, val := range chunks {
			bui.Str(val)
		}
		eq(t, exp, bui.String())
	}

	test(``)
	test(`one`, `one`)
	test(`one two`, `one`, `two`)
	test(`one two`, `one `, `two`)
	test(`one two`, `one`, ` two`)
	test(`one`, `one`, ``)
	test(`one(two)`, `one(`, `two`, `)`)
	test(`one, two`, `one`, `, two`)
	test(`one.two`, `one.`, `two`)
}

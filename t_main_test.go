package sqld

import (
	"errors"
	"fmt"
	r "reflect"
	"runtime"
	"strings"
	"testing"
	"time"
)

type Internal struct {
	Id   string `json:"internalId"   db:"id"`
	Name string `json:"internalName" db:"name"`
}

type External struct {
	Id       string   `json:"externalId"       db:"id"`
	Name     string   `json:"externalName"     db:"name"`
	Internal Internal `json:"externalInternal"`
}

// nolint:govet
type Embed struct {
	Id        string `json:"embedId"      db:"embed_id"`
	Name      string `json:"embedName"    db:"embed_name"`
	private   string `json:"embedPrivate" db:"embed_private"`
	Untagged0 string ``
	Untagged1 string `db:"-"`
	_         string `db:"blank"`
}

type Outer struct {
	Embed
	Id       string `json:"outerId"   db:"outer_id"`
	Name     string `json:"outerName" db:"outer_name"`
	OnlyJson string `json:"onlyJson"`
}

var testOuter = Outer{
	Id:   `outer id`,
	Name: `outer name`,
	Embed: Embed{
		Id:        `embed id`,
		Name:      `embed name`,
		private:   `private`,
		Untagged0: `untagged 0`,
		Untagged1: `untagged 1`,
	},
}

type Nullable struct {
	Id    int64   `db:"id"`
	Email *string `db:"email"`
}

var allDialects = []Dialect{Standard, Mysql, Postgres, Sqlite, Sqlserver}

func testCompile(t testing.TB, ctx Ctx, exp string, val Expr) {
	t.Helper()
	act, err := ctx.Compile(val)
	if err != nil {
		t.Fatalf(`unexpected compilation error: %+v`, err)
	}
	eq(t, exp, act)
}

// Compiles in a context without a prefix.
func testSql(t testing.TB, dialect Dialect, exp string, val Expr) {
	t.Helper()
	testCompile(t, Ctx{Dialect: dialect}, exp, val)
}

func testCompileErr(t testing.TB, ctx Ctx, target error, msg string, val Expr) {
	t.Helper()
	out, err := ctx.Compile(val)
	if err == nil {
		t.Fatalf(`expected compilation to fail, got %q`, out)
	}
	if !errors.Is(err, target) {
		t.Fatalf(`expected error matching %v, got %+v`, target, err)
	}
	if !strings.Contains(err.Error(), msg) {
		t.Fatalf(`expected error containing %q, got %q`, msg, err.Error())
	}
}

func testUnsupported(t testing.TB, dialect Dialect, feature string, val Expr) {
	t.Helper()
	testCompileErr(t, Ctx{Dialect: dialect}, ErrUnsupported, feature+` is not supported`, val)
}

func eq(t testing.TB, exp, act any) {
	t.Helper()
	if !r.DeepEqual(exp, act) {
		t.Fatalf(`
expected (detailed):
	%#[1]v
actual (detailed):
	%#[2]v
expected (simple):
	%[1]v
actual (simple):
	%[2]v
`, exp, act)
	}
}

func notEq(t testing.TB, exp, act any) {
	t.Helper()
	if r.DeepEqual(exp, act) {
		t.Fatalf(`
unexpected equality (detailed):
	%#[1]v
unexpected equality (simple):
	%[1]v
`, exp, act)
	}
}

func panics(t testing.TB, msg string, fun func()) {
	t.Helper()
	val := catchAny(fun)

	if val == nil {
		t.Fatalf(`expected %v to panic, found no panic`, funcName(fun))
	}

	str := fmt.Sprint(val)
	if !strings.Contains(str, msg) {
		t.Fatalf(
			`expected %v to panic with a message containing %q, found %q`,
			funcName(fun), msg, str,
		)
	}
}

func funcName(val any) string {
	return runtime.FuncForPC(r.ValueOf(val).Pointer()).Name()
}

func catchAny(fun func()) (val any) {
	defer recAny(&val)
	fun()
	return
}

func recAny(ptr *any) { *ptr = recover() }

func parseTime(str string) time.Time { return try1(time.Parse(time.RFC3339, str)) }

func strPtr(val string) *string { return &val }

func counter(val int) []struct{} { return make([]struct{}, val) }

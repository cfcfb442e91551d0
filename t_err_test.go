package sqld

import (
	"errors"
	"fmt"
	"io"
	"testing"
)

type FakeTracedErr string

func (self FakeTracedErr) Error() string { return string(self) }

func (self FakeTracedErr) Format(out fmt.State, _ rune) {
	try1(io.WriteString(out, self.Error()))

	if out.Flag('+') {
		if self != `` {
			try1(io.WriteString(out, `; `))
		}
		try1(io.WriteString(out, `fake stack trace`))
		return
	}
}

func Benchmark_errf(b *testing.B) {
	for ind := 0; ind < b.N; ind++ {
		_ = errf(`error %v`, `message`)
	}
}

func TestErr_formatting(t *testing.T) {
	test := func(src Err, exp string) {
		t.Helper()
		eq(t, exp, src.Error())
		eq(t, exp, fmt.Sprintf(`%v`, src))
	}

	test(Err{}, ``)

	test(
		Err{While: `doing some operation`},
		`[sqld] while doing some operation`,
	)

	test(
		Err{Cause: errors.New(`some cause`)},
		`[sqld]: some cause`,
	)

	test(
		Err{Code: ErrCodeConflict, While: `doing some operation`, Cause: errors.New(`some cause`)},
		`[sqld] Conflict while doing some operation: some cause`,
	)

	test(
		Err{While: `doing some operation`, Cause: FakeTracedErr(`some cause`)},
		`[sqld] while doing some operation: some cause`,
	)

	test(
		errUnsupported(Mysql, `RETURNING`),
		`[sqld] Unsupported while rendering mysql: RETURNING is not supported`,
	)

	test(
		errUnsupported(nil, `RETURNING`),
		`[sqld] Unsupported while rendering standard: RETURNING is not supported`,
	)
}

func TestErr_Is(t *testing.T) {
	eq(t, true, errors.Is(ErrUnsupported, ErrUnsupported))
	eq(t, true, errors.Is(errUnsupported(Postgres, `one`), ErrUnsupported))
	eq(t, false, errors.Is(errUnsupported(Postgres, `one`), ErrConflict))
	eq(t, true, errors.Is(errConflict(`one`, `two`), ErrConflict))
	eq(t, true, errors.Is(ErrInvalidInput.while(`one`), ErrInvalidInput))
	eq(t, false, errors.Is(ErrInvalidInput, ErrMissingArgument))

	cause := errors.New(`some cause`)
	err := Err{Code: ErrCodeInvalidInput, Cause: cause}
	eq(t, true, errors.Is(err, cause))
	eq(t, true, errors.Is(err, ErrInvalidInput))
	eq(t, cause, errors.Unwrap(err))

	wrapped := fmt.Errorf(`outer: %w`, errUnsupported(Sqlite, `one`))
	eq(t, true, errors.Is(wrapped, ErrUnsupported))

	var target Err
	eq(t, true, errors.As(wrapped, &target))
	eq(t, ErrCodeUnsupported, target.Code)
}

func TestCompile_recovers_errors(t *testing.T) {
	_, err := Compile(Ctx{}, missing(`something`))
	eq(t, true, errors.Is(err, ErrMissingArgument))
	eq(t, `[sqld] MissingArgument while rendering statement: missing something`, err.Error())

	panics(t, `missing something`, func() { TryCompile(Ctx{}, missing(`something`)) })
}

func TestCompile_repanics_non_errors(t *testing.T) {
	panics(t, `non-error panic`, func() {
		_, _ = Compile(Ctx{}, panicExpr{})
	})
}

type panicExpr struct{}

func (panicExpr) AppendExpr([]byte, Ctx) []byte { panic(`non-error panic`) }

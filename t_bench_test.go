package sqld

import (
	"testing"
)

func Benchmark_select_create(b *testing.B) {
	for range counter(b.N) {
		_ = benchSelect()
	}
}

//go:noinline
func benchSelect() *Select {
	return NewSelect(Postgres, `id`, `name`, `email`).
		From(`users`, `u`).
		LeftJoin(`posts`, `p`).
		On(`u.id`, `=`, `p.user_id`).
		WhereFn(func(cond *Conditions) {
			cond.And(`u.active`, `=`, true).
				OrOpen().
				And(`u.role`, `IN`, []string{`admin`, `owner`}).
				Close()
		}).
		OrderBy(`u.name`, DirAsc).
		Limit(10).
		Offset(20)
}

func Benchmark_select_compile(b *testing.B) {
	for range counter(b.N) {
		benchSelectCompile()
	}
}

var exprSelect = benchSelect()

//go:noinline
func benchSelectCompile() { _ = TryCompile(Ctx{}, exprSelect) }

func Benchmark_select_compile_sqlserver_paged(b *testing.B) {
	for range counter(b.N) {
		benchSelectPaged()
	}
}

var exprSelectPaged = NewSelect(Sqlserver, `id`).From(`users`, ``).OrderBy(`id`, DirAsc).Limit(10).Offset(20)

//go:noinline
func benchSelectPaged() { _ = TryCompile(Ctx{}, exprSelectPaged) }

func Benchmark_insert_compile(b *testing.B) {
	for range counter(b.N) {
		benchInsertCompile()
	}
}

var exprInsert = NewInsert(Sqlite, `outers`).Struct(testOuter).Struct(testOuter)

//go:noinline
func benchInsertCompile() { _ = TryCompile(Ctx{}, exprInsert) }

func Benchmark_Preparse(b *testing.B) {
	for range counter(b.N) {
		benchPreparse()
	}
}

//go:noinline
func benchPreparse() {
	_ = Preparse(`SELECT :columns FROM :from WHERE :where ORDER BY :order_by LIMIT ?`)
}

func Benchmark_tokenize(b *testing.B) {
	for range counter(b.N) {
		benchTokenize()
	}
}

//go:noinline
func benchTokenize() {
	prep := Prep{Source: `select 'one' :: text, "two" from three where four = :five -- six`}
	prep.Parse()
}

func Benchmark_StructFields(b *testing.B) {
	for range counter(b.N) {
		benchStructFields()
	}
}

//go:noinline
func benchStructFields() { _ = StructFields(testOuter) }

func Benchmark_cond_append(b *testing.B) {
	for range counter(b.N) {
		benchCondAppend()
	}
}

var benchCond = Cond().
	And(`one`, `=`, 1).
	AndNot(`two`, `IS`, nil).
	OrOpen().
	And(`three`, `BETWEEN`, []int{1, 10}).
	Close()

//go:noinline
func benchCondAppend() { benchCond.AppendExpr(make([]byte, 0, 256), Ctx{}) }

package sqld

import (
	"testing"
)

func TestStructFields(t *testing.T) {
	eq(t, []Field(nil), StructFields(nil))
	eq(t, []Field(nil), StructFields((*Outer)(nil)))
	eq(t, []Field(nil), StructFields(struct{}{}))

	eq(
		t,
		[]Field{
			{`embed_id`, `embed id`},
			{`embed_name`, `embed name`},
			{`outer_id`, `outer id`},
			{`outer_name`, `outer name`},
		},
		StructFields(testOuter),
	)

	eq(t, StructFields(testOuter), StructFields(&testOuter))
	eq(t, []Field{{`id`, ``}, {`name`, ``}}, StructFields(External{}))

	panics(t, `expected struct, got "int"`, func() { StructFields(10) })
	panics(t, `traversing struct for DB fields`, func() { StructFields(`one`) })
}

func TestInsert_Struct(t *testing.T) {
	testSql(t, Postgres,
		`INSERT INTO "outers" ("embed_id", "embed_name", "outer_id", "outer_name") VALUES ('embed id', 'embed name', 'outer id', 'outer name')`,
		NewInsert(Postgres, `outers`).Struct(testOuter),
	)

	testSql(t, Postgres,
		`INSERT INTO "nullables" ("id", "email") VALUES (1, NULL)`,
		NewInsert(Postgres, `nullables`).Struct(&Nullable{Id: 1}),
	)

	testSql(t, Postgres,
		`INSERT INTO "nullables" ("id", "email") VALUES (1, NULL), (2, 'two@example.com')`,
		NewInsert(Postgres, `nullables`).
			Struct(Nullable{Id: 1}).
			Struct(Nullable{Id: 2, Email: strPtr(`two@example.com`)}),
	)

	testSql(t, Postgres,
		`INSERT INTO "nullables" DEFAULT VALUES`,
		NewInsert(Postgres, `nullables`).Struct(struct{}{}),
	)
}

func TestUpdate_Struct(t *testing.T) {
	testSql(t, Mysql,
		"UPDATE `nullables` SET `id` = 1, `email` = 'one@example.com' WHERE `id` = 1",
		NewUpdate(Mysql, `nullables`).
			Struct(Nullable{Id: 1, Email: strPtr(`one@example.com`)}).
			WhereFn(func(cond *Conditions) { cond.And(`id`, `=`, 1) }),
	)
}

func TestStructColumns(t *testing.T) {
	exp := List{
		Identifier{Name: `embed_id`},
		Identifier{Name: `embed_name`},
		Identifier{Name: `outer_id`},
		Identifier{Name: `outer_name`},
	}

	eq(t, exp, StructColumns(Outer{}))
	eq(t, exp, StructColumns((*Outer)(nil)))
	eq(t, exp, StructColumns([]*Outer(nil)))
	eq(t, List(nil), StructColumns(struct{}{}))

	testSql(t, Postgres,
		`SELECT "id", "email" FROM "nullables"`,
		NewSelect(Postgres, StructColumns((*Nullable)(nil))).From(`nullables`, ``),
	)

	panics(t, `expected struct, got "int"`, func() { StructColumns(10) })
	panics(t, `generating struct columns`, func() { StructColumns(nil) })
}

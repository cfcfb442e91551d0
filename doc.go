/*
SQL Dialects: multi-dialect SQL statement builder. Statements are built as Go
values and compiled into SQL text for a specific database engine, with values
inlined as literals quoted per dialect. The same builder calls produce valid
SQL for every supported engine.

Supported dialects: `Standard` (ANSI), `Mysql`, `Postgres`, `Sqlite`,
`Sqlserver`. Use `DialectByName` to look one up from configuration.

Key Features

• Statements: SELECT, compound set operations (UNION, INTERSECT, EXCEPT),
INSERT, UPDATE, DELETE, and DDL: CREATE/ALTER/DROP for tables, indexes and
views.

• Each statement is rendered through a dialect-specific template with named
parameters such as `:columns`, filled by the statement. Templates may be
parsed and inspected via `Statement.Template()`.

• Raw SQL fragments with `?` positional and `:name` named parameters, via
`Raw` and `Bui`. Statements used as arguments are embedded as subqueries in
their own dialect.

• Dialect differences are handled by the builder: identifier quoting, string
and blob literals, booleans, LIMIT/OFFSET (including ROW_NUMBER paging for SQL
Server), RETURNING/OUTPUT, limited UPDATE/DELETE, and DDL variations.
Constructs an engine cannot express fail with `ErrUnsupported` instead of
producing invalid SQL.

• Struct support: `StructFields` and `StructColumns` read `db` tags, and
`Insert.Struct` and `Update.Struct` build rows and assignments from structs.

• The sibling package `dbconn` connects the builder to `database/sql`:
URL parsing, dialect detection, YAML config, and a result cache.

Examples

	text, err := sqld.Compile(sqld.Ctx{}, sqld.NewSelect(sqld.Sqlserver, `id`).
		From(`users`, ``).
		WhereFn(func(cond *sqld.Conditions) { cond.And(`active`, `=`, true) }).
		Limit(10))

See the package examples for more.
*/
package sqld

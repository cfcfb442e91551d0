package sqld

import (
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Schema lifecycle rendered for every dialect. Regenerate the fixtures with
// `go test -run TestGolden -update`.
func ddlMatrix(dialect Dialect) []Statement {
	return []Statement{
		NewCreateTable(dialect, `users`).
			Column(
				NewColumn(`id`, `BIGINT`).Identity(),
				NewColumn(`email`, `VARCHAR(255)`).NotNull(),
				NewColumn(`created_at`, `TIMESTAMP`).NotNull().Default(Str(`CURRENT_TIMESTAMP`)),
			).
			Constraint(Unique(`email`).Named(`users_email_key`)),

		NewCreateTable(dialect, `posts`).
			Column(
				NewColumn(`id`, `BIGINT`).Identity(),
				NewColumn(`user_id`, `BIGINT`).NotNull(),
				NewColumn(`title`, `TEXT`).NotNull(),
			).
			Constraint(Foreign(`user_id`).References(`users`, `id`).OnDelete(`cascade`)),

		NewCreateIndex(dialect, `posts_user_id`, `posts`).Columns(`user_id`),

		NewCreateView(dialect, `titled_posts`).Query(
			NewSelect(dialect, `id`, `title`).
				From(`posts`, ``).
				WhereFn(func(cond *Conditions) { cond.And(`title`, `IS NOT`, nil) }),
		),

		NewAlterTable(dialect, `posts`).AddColumn(NewColumn(`body`, `TEXT`)),
		NewDropView(dialect, `titled_posts`),
		NewDropIndex(dialect, `posts_user_id`).On(`posts`),
		NewDropTable(dialect, `posts`),
	}
}

func TestGolden_ddl(t *testing.T) {
	gold := goldie.New(t,
		goldie.WithFixtureDir(`testdata/golden`),
		goldie.WithNameSuffix(`.sql`),
	)

	for _, dialect := range allDialects {
		t.Run(dialect.Name(), func(t *testing.T) {
			var buf strings.Builder
			for _, stmt := range ddlMatrix(dialect) {
				out, err := Compile(Ctx{}, stmt)
				if err != nil {
					t.Fatalf(`unexpected compilation error: %+v`, err)
				}
				buf.WriteString(out)
				buf.WriteString(";\n")
			}
			gold.Assert(t, `ddl_`+dialect.Name(), []byte(buf.String()))
		})
	}
}

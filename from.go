package sqld

/*
FROM clause source: a table, optionally aliased, followed by joins.

	sqld.NewFrom(`users`, `u`).
		LeftJoin(`posts`, `p`).
		On(`u.id`, `=`, `p.user_id`)
	-> "users" AS "u" LEFT JOIN "posts" AS "p" ON "u"."id" = "p"."user_id"

Table inputs are coerced via `ToTable`. Statements used as sources are
wrapped in parens, which allows subqueries in FROM and JOIN.
*/
type From struct {
	source Expr
	joins  []*join
}

type join struct {
	kind  string
	table Expr
	on    *Conditions
	using List
}

// Creates a FROM source from a table and an optional alias.
func NewFrom(table any, alias string) *From {
	return &From{source: fromSource(table, alias)}
}

/*
Appends a join of the given kind, such as "INNER", "LEFT", "LEFT OUTER" or
"CROSS". Subsequent `On` and `Using` calls apply to this join.
*/
func (self *From) Join(kind string, table any, alias string) *From {
	self.joins = append(self.joins, &join{
		kind:  keyword(kind),
		table: fromSource(table, alias),
	})
	return self
}

// Shortcut for `.Join("INNER", ...)`.
func (self *From) InnerJoin(table any, alias string) *From {
	return self.Join(`INNER`, table, alias)
}

// Shortcut for `.Join("LEFT", ...)`.
func (self *From) LeftJoin(table any, alias string) *From {
	return self.Join(`LEFT`, table, alias)
}

// Shortcut for `.Join("RIGHT", ...)`.
func (self *From) RightJoin(table any, alias string) *From {
	return self.Join(`RIGHT`, table, alias)
}

// Shortcut for `.Join("FULL", ...)`.
func (self *From) FullJoin(table any, alias string) *From {
	return self.Join(`FULL`, table, alias)
}

// Shortcut for `.Join("CROSS", ...)`.
func (self *From) CrossJoin(table any, alias string) *From {
	return self.Join(`CROSS`, table, alias)
}

/*
Adds a column comparison to the ON clause of the last join, connected with
AND. Both operands are coerced via `ToColumn`. Panics without a join.
*/
func (self *From) On(left any, op string, right any) *From {
	self.lastJoin(`adding ON condition`).conditions().AndColumn(left, op, right)
	return self
}

// Adds a column comparison to the ON clause of the last join, connected
// with OR.
func (self *From) OrOn(left any, op string, right any) *From {
	self.lastJoin(`adding ON condition`).conditions().OrColumn(left, op, right)
	return self
}

// Passes the ON conditions of the last join to the given function, for
// arbitrary predicates.
func (self *From) OnFn(fun func(*Conditions)) *From {
	if fun != nil {
		fun(self.lastJoin(`adding ON condition`).conditions())
	}
	return self
}

// Sets the USING column list of the last join.
func (self *From) Using(cols ...any) *From {
	self.lastJoin(`adding USING columns`).using = ToColumns(cols...)
	return self
}

// True if there are any joins.
func (self *From) HasJoins() bool { return self != nil && len(self.joins) > 0 }

// Implement the `Expr` interface, making this a sub-expression.
func (self *From) AppendExpr(text []byte, ctx Ctx) []byte {
	if self == nil {
		return text
	}
	if self.source != nil {
		text = self.source.AppendExpr(text, ctx)
	}

	for _, val := range self.joins {
		text = appendMaybeSpaced(text, val.kind)
		text = appendMaybeSpaced(text, `JOIN `)
		text = val.table.AppendExpr(text, ctx)

		if !val.on.IsEmpty() {
			text = append(text, ` ON `...)
			text = val.on.AppendExpr(text, ctx)
		} else if len(val.using) > 0 {
			text = append(text, ` USING (`...)
			text = val.using.AppendExpr(text, ctx)
			text = append(text, `)`...)
		}
	}
	return text
}

// Implement `fmt.Stringer` for debug purposes.
func (self *From) String() string { return exprString(self) }

func (self *From) lastJoin(while string) *join {
	if len(self.joins) == 0 {
		panic(ErrInvalidInput.while(while).because(errf(`no preceding join`)))
	}
	return self.joins[len(self.joins)-1]
}

func (self *join) conditions() *Conditions {
	if self.on == nil {
		self.on = Cond()
	}
	return self.on
}

func fromSource(table any, alias string) Expr {
	var val Expr
	switch table := table.(type) {
	case *From:
		val = table
	case Statement:
		val = Parens{table}
	default:
		val = ToTable(table)
	}
	if alias == `` {
		return val
	}
	return Alias{val, alias}
}

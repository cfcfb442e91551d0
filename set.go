package sqld

/*
Query set: queries combined with UNION, UNION ALL, INTERSECT or EXCEPT, with
an optional ORDER BY and LIMIT/OFFSET applying to the combined result.

	sqld.NewSet(sqld.Standard, one).UnionAll(two).Limit(10)
	-> (SELECT ...) UNION ALL (SELECT ...) LIMIT 10

Standard wraps every member in parens; SQLite doesn't allow that.
*/
type Set struct {
	dialect Dialect
	members []setMember
	orderBy List
	limit   *uint64
	offset  *uint64
}

type setMember struct {
	op    string
	query Expr
}

// Creates a query set for the given dialect, starting with the given query.
func NewSet(dialect Dialect, first Expr) *Set {
	out := &Set{dialect: dialect}
	if first != nil {
		out.members = append(out.members, setMember{query: first})
	}
	return out
}

// Implement `Statement`.
func (self *Set) Dialect() Dialect { return self.dialect }

// Implement `Statement`.
func (self *Set) Template() *Expression { return templateOf(self) }

func (self *Set) withDialect(val Dialect) Statement {
	if self.dialect != nil {
		return self
	}
	out := *self
	out.dialect = dialectOr(val)
	return &out
}

// Implement the `Expr` interface, making this a sub-expression.
func (self *Set) AppendExpr(text []byte, ctx Ctx) []byte {
	return appendStatement(text, ctx, self)
}

// Implement `fmt.Stringer` for debug purposes.
func (self *Set) String() string { return statementString(self) }

/*
Appends a query combined by the given set operator. The operator of the first
member is ignored.
*/
func (self *Set) Add(op string, query Expr) *Set {
	self.members = append(self.members, setMember{op: keyword(op), query: query})
	return self
}

// Shortcut for `.Add("UNION", query)`.
func (self *Set) Union(query Expr) *Set { return self.Add(`UNION`, query) }

// Shortcut for `.Add("UNION ALL", query)`.
func (self *Set) UnionAll(query Expr) *Set { return self.Add(`UNION ALL`, query) }

// Shortcut for `.Add("INTERSECT", query)`.
func (self *Set) Intersect(query Expr) *Set { return self.Add(`INTERSECT`, query) }

// Shortcut for `.Add("EXCEPT", query)`.
func (self *Set) Except(query Expr) *Set { return self.Add(`EXCEPT`, query) }

// Appends an ORDER BY element of the combined result.
func (self *Set) OrderBy(col any, dir Dir) *Set {
	self.orderBy = orderAppend(self.orderBy, col, dir, NullsNone)
	return self
}

// Sets the LIMIT of the combined result.
func (self *Set) Limit(val uint64) *Set {
	self.limit = &val
	return self
}

// Sets the OFFSET of the combined result.
func (self *Set) Offset(val uint64) *Set {
	self.offset = &val
	return self
}

// Number of member queries.
func (self *Set) Len() int { return len(self.members) }

func (DialectStandard) SetTemplate(stmt *Set) *Expression {
	var bui Bui
	appendSetMembers(&bui, stmt, true)
	appendOrderBy(&bui, stmt.orderBy)
	bui.Verbatim(stmt.Dialect().Limit(stmt.limit, stmt.offset))
	return bui.Expression()
}

func appendSetMembers(bui *Bui, stmt *Set, parens bool) {
	if len(stmt.members) == 0 {
		bui.Named(`queries`, missing(`queries of query set`))
		return
	}

	for ind, val := range stmt.members {
		if ind > 0 {
			bui.Str(val.op)
		}
		if parens {
			bui.Str(`(`)
		}
		bui.Named(`query`+uitoa(uint64(ind)), val.query)
		if parens {
			bui.Str(`)`)
		}
	}
}

package sqld

/*
Short for "builder". Accumulates a statement template: SQL keywords plus named
placeholders with their bound values. Used by dialects to assemble the
templates of statement builders. Adjacent chunks are delimited with a space
where necessary, so callers don't have to track whitespace:

	var bui sqld.Bui
	bui.Str(`DELETE FROM`)
	bui.Named(`table`, sqld.Tab(`users`))
	bui.Str(`WHERE`)
	bui.Named(`where`, where)
	-> `DELETE FROM :table WHERE :where`
*/
type Bui struct {
	Text   []byte
	Params []Param
}

// Appends verbatim template text, space-separated from the previous text if
// necessary.
func (self *Bui) Str(val string) {
	self.Text = appendMaybeSpaced(self.Text, val)
}

// Appends a `:name` placeholder and binds its value.
func (self *Bui) Named(name string, val any) {
	self.Str(string(namedParamPrefix) + name)
	self.Params = append(self.Params, Param{Name: name, Value: val})
}

// Binds a named value without appending text. Useful when the template
// references the same placeholder several times.
func (self *Bui) Bind(name string, val any) {
	self.Params = append(self.Params, Param{Name: name, Value: val})
}

// Appends a `?` placeholder and its positional value.
func (self *Bui) Arg(val any) {
	self.Str(string(positionalParamPrefix))
	self.Params = append(self.Params, Param{Value: val})
}

/*
Appends text rendered verbatim at compile time, under a generated placeholder
name. The template text doesn't depend on the value, and the value is never
scanned for placeholders. Empty input is a nop.
*/
func (self *Bui) Verbatim(val string) {
	if val != `` {
		self.Expr(Str(val))
	}
}

/*
Appends SQL keywords such as "SET NULL" or an index method. Text made only of
letters, digits, underscores and spaces goes into the template; other text is
appended like `Verbatim`.
*/
func (self *Bui) Keyword(val string) {
	if isPlainWords(val) {
		self.Str(val)
	} else {
		self.Verbatim(val)
	}
}

/*
Appends an arbitrary expression under a generated placeholder name. Nil input
is a nop.
*/
func (self *Bui) Expr(val Expr) {
	if val != nil {
		self.Named(bindName(len(self.Params)), val)
	}
}

// Returns the accumulated template.
func (self Bui) Expression() *Expression {
	return &Expression{Text: string(self.Text), Params: self.Params}
}

// Returns the accumulated template text, without substitution.
func (self Bui) String() string { return string(self.Text) }

func isPlainWords(val string) bool {
	for ind := 0; ind < len(val); ind++ {
		if char := val[ind]; char != ' ' && !charsetIdent.has(char) {
			return false
		}
	}
	return val != ``
}

func bindName(ind int) string { return `p` + uitoa(uint64(ind)) }

package sqld

import (
	r "reflect"
	"strconv"
	"strings"
	"sync"
	"unsafe"
)

const (
	positionalParamPrefix = '?'
	ordinalParamPrefix    = '$'
	namedParamPrefix      = ':'
	doubleColonPrefix     = `::`
	commentLinePrefix     = `--`
	commentBlockPrefix    = `/*`
	commentBlockSuffix    = `*/`
	quoteSingle           = '\''
	quoteDouble           = '"'
	quoteGrave            = '`'

	identSeparator = `.`
	identStar      = `*`
)

const (
	lowerLetters = `abcdefghijklmnopqrstuvwxyz`
	upperLetters = `ABCDEFGHIJKLMNOPQRSTUVWXYZ`
	decDigits    = `0123456789`
	whitespace   = " \t\v\r\n"
)

var (
	charsetDigitDec   = charsetOf(decDigits)
	charsetIdentStart = charsetOf(lowerLetters, upperLetters, `_`)
	charsetIdent      = charsetOf(lowerLetters, upperLetters, `_`, decDigits)
	charsetWhitespace = charsetOf(whitespace)

	// No space is inserted after these.
	charsetDelimStart = charsetOf(whitespace, `([.`)

	// No space is inserted before these.
	charsetDelimEnd = charsetOf(whitespace, `,])`)
)

// Bitset of ASCII bytes.
type charset [2]uint64

func charsetOf(groups ...string) *charset {
	var out charset
	for _, group := range groups {
		for ind := 0; ind < len(group); ind++ {
			char := group[ind]
			out[char>>6] |= 1 << (char & 63)
		}
	}
	return &out
}

func (self *charset) has(char byte) bool {
	return char < 128 && self[char>>6]&(1<<(char&63)) != 0
}

/*
Concurrency-safe memo of a pure function. Holds at most `limit` entries;
results for further keys are computed on every call and not retained. Zero
limit means unbounded.
*/
type boundedCache[Key comparable, Val any] struct {
	fun   func(Key) Val
	limit int
	lock  sync.RWMutex
	vals  map[Key]Val
}

func cacheOf[Key comparable, Val any](limit int, fun func(Key) Val) *boundedCache[Key, Val] {
	return &boundedCache[Key, Val]{fun: fun, limit: limit, vals: map[Key]Val{}}
}

func (self *boundedCache[Key, Val]) Get(key Key) Val {
	self.lock.RLock()
	val, ok := self.vals[key]
	self.lock.RUnlock()
	if ok {
		return val
	}

	val = self.fun(key)

	self.lock.Lock()
	defer self.lock.Unlock()
	if prev, ok := self.vals[key]; ok {
		return prev
	}
	if self.limit <= 0 || len(self.vals) < self.limit {
		self.vals[key] = val
	}
	return val
}

func (self *boundedCache[Key, Val]) Len() int {
	self.lock.RLock()
	defer self.lock.RUnlock()
	return len(self.vals)
}

// The result aliases the input; the input must not be modified afterwards.
func unsafeString(val []byte) string {
	return unsafe.String(unsafe.SliceData(val), len(val))
}

// Joins two chunks of SQL, adding a space unless either side is delimited.
func appendMaybeSpaced(text []byte, suffix string) []byte {
	if len(text) > 0 && len(suffix) > 0 &&
		!charsetDelimStart.has(text[len(text)-1]) &&
		!charsetDelimEnd.has(suffix[0]) {
		text = append(text, ' ')
	}
	return append(text, suffix...)
}

func try(err error) {
	if err != nil {
		panic(err)
	}
}

func try1[A any](val A, err error) A {
	try(err)
	return val
}

// Must be deferred. Converts a panic with an error into a returned error.
// Other panics are propagated.
func rec(out *error) {
	switch val := recover().(type) {
	case nil:
	case error:
		*out = val
	default:
		panic(val)
	}
}

// True for nil and for nil values of nilable kinds, such as `(*int)(nil)`.
func isNil(val any) bool {
	if val == nil {
		return true
	}
	rval := r.ValueOf(val)
	switch rval.Kind() {
	case r.Chan, r.Func, r.Interface, r.Map, r.Pointer, r.Slice:
		return rval.IsNil()
	}
	return false
}

func typeDeref(typ r.Type) r.Type {
	for typ != nil && typ.Kind() == r.Pointer {
		typ = typ.Elem()
	}
	return typ
}

// Zero value when any pointer on the way is nil.
func valueDeref(val r.Value) r.Value {
	for val.IsValid() && (val.Kind() == r.Pointer || val.Kind() == r.Interface) {
		if val.IsNil() {
			return r.Value{}
		}
		val = val.Elem()
	}
	return val
}

func typeName(typ r.Type) string {
	if typ = typeDeref(typ); typ != nil {
		return typ.String()
	}
	return `nil`
}

func dialectName(val Dialect) string {
	if val == nil {
		return `standard`
	}
	return val.Name()
}

// Uppercases and collapses whitespace in SQL keywords such as "left join" or
// "not in".
func keyword(val string) string {
	return strings.ToUpper(strings.Join(strings.Fields(val), ` `))
}

func uitoa(val uint64) string { return strconv.FormatUint(val, 10) }

package sqld

import (
	"fmt"
	"io"
	"strings"
)

/*
Partial SQL tokenizer used by the compiler to locate placeholders in templates.
Splits the source into runs of text, whitespace, quoted strings and
identifiers, comments, `::` casts, and the parameters `?`, `:ident` and `$N`.
Placeholders inside quotes and comments are part of those tokens.

Dollar-quoted strings are not recognized.
*/
type Tokenizer struct {
	Source string
	cursor int
}

/*
Returns the next token, or an empty `Token{}` at the end of the source. Panics
with `ErrInvalidInput` on an unterminated quote or block comment.
*/
func (self *Tokenizer) Next() Token {
	src, start := self.Source, self.cursor
	if start >= len(src) {
		return Token{}
	}

	typ, end := TokenTypeText, start+1
	if startsToken(src, start) {
		typ, end = scanToken(src, start)
	} else {
		for end < len(src) && !startsToken(src, end) {
			end++
		}
	}

	self.cursor = end
	return Token{src[start:end], typ}
}

// Every byte that begins a non-text token is ASCII, so the scan can be bytewise.
func startsToken(src string, pos int) bool {
	switch char := src[pos]; char {
	case quoteSingle, quoteDouble, quoteGrave, positionalParamPrefix:
		return true
	case '-':
		return strings.HasPrefix(src[pos:], commentLinePrefix)
	case '/':
		return strings.HasPrefix(src[pos:], commentBlockPrefix)
	case ordinalParamPrefix:
		return pos+1 < len(src) && charsetDigitDec.has(src[pos+1])
	case namedParamPrefix:
		return strings.HasPrefix(src[pos:], doubleColonPrefix) ||
			pos+1 < len(src) && charsetIdentStart.has(src[pos+1])
	default:
		return charsetWhitespace.has(char)
	}
}

// Assumes `startsToken(src, pos)`.
func scanToken(src string, pos int) (TokenType, int) {
	rest := src[pos:]

	switch char := src[pos]; {
	case charsetWhitespace.has(char):
		return TokenTypeWhitespace, skipCharset(src, pos, charsetWhitespace)
	case char == quoteSingle:
		return TokenTypeQuotedSingle, closingEnd(src, pos+1, `'`)
	case char == quoteDouble:
		return TokenTypeQuotedDouble, closingEnd(src, pos+1, `"`)
	case char == quoteGrave:
		return TokenTypeQuotedGrave, closingEnd(src, pos+1, "`")
	case char == positionalParamPrefix:
		return TokenTypePositionalParam, pos + 1
	case char == ordinalParamPrefix:
		return TokenTypeOrdinalParam, skipCharset(src, pos+1, charsetDigitDec)
	case strings.HasPrefix(rest, commentLinePrefix):
		return TokenTypeCommentLine, lineEnd(src, pos+len(commentLinePrefix))
	case strings.HasPrefix(rest, commentBlockPrefix):
		return TokenTypeCommentBlock, closingEnd(src, pos+len(commentBlockPrefix), commentBlockSuffix)
	case strings.HasPrefix(rest, doubleColonPrefix):
		return TokenTypeDoubleColon, pos + len(doubleColonPrefix)
	default:
		return TokenTypeNamedParam, skipCharset(src, pos+1, charsetIdent)
	}
}

func skipCharset(src string, pos int, set *charset) int {
	for pos < len(src) && set.has(src[pos]) {
		pos++
	}
	return pos
}

// Position after the first occurrence of the suffix at or after `pos`.
func closingEnd(src string, pos int, suffix string) int {
	ind := strings.Index(src[pos:], suffix)
	if ind < 0 {
		panic(ErrInvalidInput.while(`parsing SQL template`).because(
			fmt.Errorf(`expected closing %q, got unexpected %w`, suffix, io.EOF),
		))
	}
	return pos + ind + len(suffix)
}

// Position after the next newline, which is included in the line.
func lineEnd(src string, pos int) int {
	ind := strings.IndexAny(src[pos:], "\r\n")
	if ind < 0 {
		return len(src)
	}
	pos += ind + 1
	if src[pos-1] == '\r' && pos < len(src) && src[pos] == '\n' {
		pos++
	}
	return pos
}

const (
	TokenTypeInvalid TokenType = iota
	TokenTypeText
	TokenTypeWhitespace
	TokenTypeQuotedSingle
	TokenTypeQuotedDouble
	TokenTypeQuotedGrave
	TokenTypeCommentLine
	TokenTypeCommentBlock
	TokenTypeDoubleColon
	TokenTypePositionalParam
	TokenTypeOrdinalParam
	TokenTypeNamedParam
)

// Part of `Token`.
type TokenType byte

// Represents an arbitrary chunk of SQL text parsed by `Tokenizer`.
type Token struct {
	Text string
	Type TokenType
}

/*
True if the token's type is `TokenTypeInvalid`. This is used to detect end of
iteration when calling `(*Tokenizer).Next`.
*/
func (self Token) IsInvalid() bool { return self.Type == TokenTypeInvalid }

// Implement `fmt.Stringer` for debug purposes.
func (self Token) String() string { return self.Text }

// Assumes `TokenTypeNamedParam`. Returns the name without the leading ":".
func (self Token) ParamName() string {
	if len(self.Text) > 0 && self.Text[0] == namedParamPrefix {
		return self.Text[1:]
	}
	return self.Text
}

/*
Template pre-parsed into tokens, with adjacent text runs merged. `Preparse`
memoizes up to `PrepCacheLimit` distinct templates.
*/
type Prep struct {
	Source string
	Tokens []Token
}

// Parses the source. Panics on unterminated quotes or comments.
func (self *Prep) Parse() {
	self.Tokens = nil
	tokenizer := Tokenizer{Source: self.Source}
	var buf strings.Builder

	flush := func() {
		if buf.Len() > 0 {
			self.Tokens = append(self.Tokens, Token{buf.String(), TokenTypeText})
			buf.Reset()
		}
	}

	for {
		tok := tokenizer.Next()
		if tok.IsInvalid() {
			break
		}

		switch tok.Type {
		case TokenTypePositionalParam, TokenTypeOrdinalParam, TokenTypeNamedParam:
			flush()
			self.Tokens = append(self.Tokens, tok)
		default:
			buf.WriteString(tok.Text)
		}
	}
	flush()
}

/*
Returns a parsed `Prep` for the given source string. Panics if parsing fails.
*/
func Preparse(val string) Prep { return prepCache.Get(val) }

/*
Maximum number of templates memoized by `Preparse`. Templates beyond the limit
are parsed on every call.
*/
const PrepCacheLimit = 4096

var prepCache = cacheOf(PrepCacheLimit, func(src string) Prep {
	prep := Prep{Source: src}
	prep.Parse()
	return prep
})

package regexlib

import (
	"strconv"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	tEOF      tokenType = iota
	tChar               // 'c'
	tString             // "abc"
	tIdent              // named pattern reference
	tNumber             // bare digits inside {m,n}
	tLParen             // (
	tRParen             // )
	tStar               // *
	tPlus               // +
	tQMark              // ?
	tUnion              // |
	tLBracket           // [
	tRBracket           // ]
	tCaret              // ^
	tDash               // -
	tDot                // .
	tLBrace             // {
	tRBrace             // }
	tComma              // ,
	tIllegal
)

var tokenNames = [...]string{
	tEOF: "end of pattern", tChar: "character literal", tString: "string literal",
	tIdent: "identifier", tNumber: "number", tLParen: "'('", tRParen: "')'",
	tStar: "'*'", tPlus: "'+'", tQMark: "'?'", tUnion: "'|'", tLBracket: "'['",
	tRBracket: "']'", tCaret: "'^'", tDash: "'-'", tDot: "'.'", tLBrace: "'{'",
	tRBrace: "'}'", tComma: "','", tIllegal: "illegal token",
}

func (t tokenType) String() string { return tokenNames[t] }

type token struct {
	typ tokenType
	pos int
	ch  rune   // for tChar
	str string // tString text, tIdent name, tNumber digits, tIllegal message
}

type lexer struct {
	input string
	pos   int
}

func newLexer(s string) *lexer { return &lexer{input: s} }

func (l *lexer) illegal(pos int, msg string) token {
	l.pos = len(l.input)
	return token{typ: tIllegal, pos: pos, str: msg}
}

func (l *lexer) next() token {
	for l.pos < len(l.input) {
		r, size := utf8.DecodeRuneInString(l.input[l.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		l.pos += size
	}
	start := l.pos
	if l.pos >= len(l.input) {
		return token{typ: tEOF, pos: start}
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	simple := func(t tokenType) token { return token{typ: t, pos: start} }
	switch r {
	case '(':
		return simple(tLParen)
	case ')':
		return simple(tRParen)
	case '*':
		return simple(tStar)
	case '+':
		return simple(tPlus)
	case '?':
		return simple(tQMark)
	case '|':
		return simple(tUnion)
	case '[':
		return simple(tLBracket)
	case ']':
		return simple(tRBracket)
	case '^':
		return simple(tCaret)
	case '-':
		return simple(tDash)
	case '.':
		return simple(tDot)
	case '{':
		return simple(tLBrace)
	case '}':
		return simple(tRBrace)
	case ',':
		return simple(tComma)
	case '\'':
		return l.charLiteral(start)
	case '"':
		return l.stringLiteral(start)
	}
	switch {
	case r >= '0' && r <= '9':
		for l.pos < len(l.input) && l.input[l.pos] >= '0' && l.input[l.pos] <= '9' {
			l.pos++
		}
		return token{typ: tNumber, pos: start, str: l.input[start:l.pos]}
	case isIdentStart(r):
		for l.pos < len(l.input) {
			r2, s2 := utf8.DecodeRuneInString(l.input[l.pos:])
			if !isIdentStart(r2) && !(r2 >= '0' && r2 <= '9') {
				break
			}
			l.pos += s2
		}
		return token{typ: tIdent, pos: start, str: l.input[start:l.pos]}
	}
	return l.illegal(start, "unexpected character "+strconv.QuoteRune(r))
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func (l *lexer) charLiteral(start int) token {
	r, ok, msg := l.quotedRune('\'')
	if !ok {
		return l.illegal(start, msg)
	}
	if l.pos >= len(l.input) || l.input[l.pos] != '\'' {
		return l.illegal(start, "unterminated character literal")
	}
	l.pos++
	return token{typ: tChar, pos: start, ch: r}
}

func (l *lexer) stringLiteral(start int) token {
	var out []rune
	for {
		if l.pos >= len(l.input) {
			return l.illegal(start, "unterminated string literal")
		}
		if l.input[l.pos] == '"' {
			l.pos++
			break
		}
		r, ok, msg := l.quotedRune('"')
		if !ok {
			return l.illegal(start, msg)
		}
		out = append(out, r)
	}
	if len(out) == 0 {
		return l.illegal(start, "empty string literal")
	}
	return token{typ: tString, pos: start, str: string(out)}
}

// quotedRune decodes one (possibly escaped) rune of a literal closed by quote.
func (l *lexer) quotedRune(quote byte) (rune, bool, string) {
	if l.pos >= len(l.input) {
		return 0, false, "unterminated literal"
	}
	if l.input[l.pos] == quote {
		return 0, false, "empty character literal"
	}
	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += size
	if r != '\\' {
		return r, true, ""
	}
	if l.pos >= len(l.input) {
		return 0, false, "unterminated escape sequence"
	}
	e := l.input[l.pos]
	l.pos++
	switch e {
	case '\\', '\'', '"':
		return rune(e), true, ""
	case 'n':
		return '\n', true, ""
	case 't':
		return '\t', true, ""
	case 'r':
		return '\r', true, ""
	case '0':
		return 0, true, ""
	case 'x':
		if l.pos+2 > len(l.input) {
			return 0, false, "short \\x escape"
		}
		v, err := strconv.ParseUint(l.input[l.pos:l.pos+2], 16, 8)
		if err != nil {
			return 0, false, "invalid \\x escape"
		}
		l.pos += 2
		return rune(v), true, ""
	case 'u':
		if l.pos >= len(l.input) || l.input[l.pos] != '{' {
			return 0, false, "expected { after \\u"
		}
		end := l.pos + 1
		for end < len(l.input) && l.input[end] != '}' {
			end++
		}
		if end >= len(l.input) {
			return 0, false, "unterminated \\u{...} escape"
		}
		v, err := strconv.ParseUint(l.input[l.pos+1:end], 16, 32)
		if err != nil || v > MaxRune {
			return 0, false, "invalid \\u{...} escape"
		}
		l.pos = end + 1
		return rune(v), true, ""
	}
	return 0, false, "unknown escape \\" + string(rune(e))
}

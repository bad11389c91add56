package regexlib

import (
	"strconv"
)

// maxRepeat bounds {m,n} counts and the product of nested ones, so that
// expansion stays small.
const maxRepeat = 1000

type parser struct {
	name string
	src  string
	lex  *lexer
	look token
}

func newParser(name, pat string) *parser {
	p := &parser{name: name, src: pat, lex: newLexer(pat)}
	p.look = p.lex.next()
	return p
}

func (p *parser) scan() { p.look = p.lex.next() }

func (p *parser) errorf(pos int, format string, args ...interface{}) error {
	return defErrorf(p.name, p.src, pos, format, args...)
}

func (p *parser) unexpected() error {
	if p.look.typ == tIllegal {
		return p.errorf(p.look.pos, "%s", p.look.str)
	}
	return p.errorf(p.look.pos, "unexpected %v", p.look.typ)
}

// parse reads the whole pattern.
func (p *parser) parse() (*astNode, error) {
	if p.look.typ == tEOF {
		return nil, p.errorf(0, "empty pattern")
	}
	n, err := p.parseExpr(1)
	if err != nil {
		return nil, err
	}
	if p.look.typ != tEOF {
		return nil, p.unexpected()
	}
	return n, nil
}

// Pratt parser
func precedence(t tokenType) int {
	switch t {
	case tUnion:
		return 1
	case tChar, tString, tIdent, tDot, tLParen, tLBracket:
		return 2 // implicit concatenation
	default:
		return 0
	}
}

func (p *parser) parseExpr(minPrec int) (*astNode, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}
	if left, err = p.parsePostfix(left); err != nil {
		return nil, err
	}

	for precedence(p.look.typ) >= minPrec {
		prec := precedence(p.look.typ)
		union := p.look.typ == tUnion
		if union {
			p.scan()
		}
		// concatenation does not consume: the current token starts the RHS
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		if union {
			left = &astNode{typ: nUnion, left: left, right: right, pos: left.pos}
		} else {
			left = concat(left, right)
		}
	}
	return left, nil
}

func (p *parser) parsePrefix() (*astNode, error) {
	tok := p.look
	switch tok.typ {
	case tChar:
		p.scan()
		return setNode(Single(tok.ch), tok.pos), nil
	case tString:
		p.scan()
		var n *astNode
		for _, r := range tok.str {
			n = concat(n, setNode(Single(r), tok.pos))
		}
		return n, nil
	case tDot:
		p.scan()
		return setNode(AnyChar(), tok.pos), nil
	case tIdent:
		p.scan()
		return &astNode{typ: nRef, name: tok.str, pos: tok.pos}, nil
	case tLParen:
		p.scan()
		if p.look.typ == tRParen {
			return nil, p.errorf(p.look.pos, "empty group")
		}
		inner, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}
		if p.look.typ != tRParen {
			if p.look.typ == tEOF {
				return nil, p.errorf(tok.pos, "missing )")
			}
			return nil, p.unexpected()
		}
		p.scan()
		return &astNode{typ: nGroup, left: inner, pos: tok.pos}, nil
	case tLBracket:
		p.scan()
		set, err := p.parseCharClass(tok.pos)
		if err != nil {
			return nil, err
		}
		return setNode(set, tok.pos), nil
	}
	return nil, p.unexpected()
}

func (p *parser) parsePostfix(left *astNode) (*astNode, error) {
	for {
		switch p.look.typ {
		case tStar:
			left = &astNode{typ: nStar, left: left, pos: left.pos}
		case tPlus:
			left = &astNode{typ: nPlus, left: left, pos: left.pos}
		case tQMark:
			left = &astNode{typ: nQMark, left: left, pos: left.pos}
		case tLBrace:
			min, max, err := p.parseRepeat()
			if err != nil {
				return nil, err
			}
			left = &astNode{typ: nRepeat, left: left, min: min, max: max, pos: left.pos}
			continue
		default:
			return left, nil
		}
		p.scan()
	}
}

func (p *parser) parseCharClass(open int) (Charset, error) {
	negate := false
	if p.look.typ == tCaret {
		negate = true
		p.scan()
	}

	var set Charset
	for p.look.typ != tRBracket {
		switch p.look.typ {
		case tChar:
			lo := p.look
			p.scan()
			if p.look.typ != tDash {
				set = append(set, Range{Lo: lo.ch, Hi: lo.ch})
				continue
			}
			p.scan()
			if p.look.typ != tChar {
				return nil, p.errorf(p.look.pos, "incomplete range")
			}
			hi := p.look
			p.scan()
			if hi.ch < lo.ch {
				return nil, p.errorf(lo.pos, "inverted range %s-%s", quoteRune(lo.ch), quoteRune(hi.ch))
			}
			set = append(set, Range{Lo: lo.ch, Hi: hi.ch})
		case tString:
			set = append(set, FromString(p.look.str)...)
			p.scan()
		case tEOF:
			return nil, p.errorf(open, "missing ]")
		default:
			return nil, p.unexpected()
		}
	}
	p.scan() // ]

	set = normalize(set)
	if negate {
		set = set.Negate()
	}
	if set.IsEmpty() {
		return nil, p.errorf(open, "empty character class")
	}
	return set, nil
}

func (p *parser) parseRepeat() (int, int, error) {
	open := p.look.pos
	p.scan() // {
	if p.look.typ != tNumber {
		return 0, 0, p.errorf(p.look.pos, "expected number")
	}
	min, err := strconv.Atoi(p.look.str)
	if err != nil {
		return 0, 0, p.errorf(p.look.pos, "bad repeat count")
	}
	p.scan()
	max := min
	if p.look.typ == tComma {
		p.scan()
		max = -1
		if p.look.typ == tNumber {
			if max, err = strconv.Atoi(p.look.str); err != nil {
				return 0, 0, p.errorf(p.look.pos, "bad repeat count")
			}
			p.scan()
		}
	}
	if p.look.typ != tRBrace {
		return 0, 0, p.errorf(p.look.pos, "expected }")
	}
	p.scan()
	if max != -1 && max < min {
		return 0, 0, p.errorf(open, "repeat max < min")
	}
	if min > maxRepeat || max > maxRepeat {
		return 0, 0, p.errorf(open, "repeat count exceeds %d", maxRepeat)
	}
	if min == 0 && max == 0 {
		return 0, 0, p.errorf(open, "empty repeat")
	}
	return min, max, nil
}

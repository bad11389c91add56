package regexlib

import (
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// ------------------------------------------------------------------- helpers

func acc(t *testing.T, a *Automaton, in string, want bool) {
	t.Helper()
	if got := a.Match(in) >= 0; got != want {
		t.Fatalf("input %q want %v got %v", in, want, got)
	}
}

func compile(t *testing.T, pat string, named ...Named) *Automaton {
	t.Helper()
	a, err := CompilePattern(named, pat)
	if err != nil {
		t.Fatalf("compile %q: %v", pat, err)
	}
	return a
}

func defError(t *testing.T, err error) *DefinitionError {
	t.Helper()
	var de *DefinitionError
	if !errors.As(err, &de) {
		t.Fatalf("want *DefinitionError, got %v", err)
	}
	return de
}

// ------------------------------------------------------------------- Charset

func TestCharsetNormalize(t *testing.T) {
	cs := NewRange('d', 'f').Union(Single('a')).Union(NewRange('b', 'c')).Union(Single('x'))
	if got := cs.String(); got != "['a'-'f' 'x']" {
		t.Fatalf("got %s", got)
	}
	if !cs.Contains('e') || cs.Contains('g') || cs.Contains('w') {
		t.Fatalf("membership broken for %s", cs)
	}
	if NewRange('z', 'a') != nil {
		t.Fatalf("inverted range should be empty")
	}
}

func TestCharsetNegate(t *testing.T) {
	cs := FromString("b\n")
	neg := cs.Negate()
	for _, r := range []rune{0, 'a', 'c', 'é', MaxRune} {
		if !neg.Contains(r) {
			t.Fatalf("%q missing from %s", r, neg)
		}
	}
	if neg.Contains('b') || neg.Contains('\n') {
		t.Fatalf("negation kept members: %s", neg)
	}
	if got := neg.Negate().String(); got != cs.String() {
		t.Fatalf("double negation: want %s got %s", cs, got)
	}
	if !neg.Union(cs).IsAny() || !AnyChar().Negate().IsEmpty() {
		t.Fatalf("complement does not partition the universe")
	}
}

func TestPartition(t *testing.T) {
	atoms := partition([]Charset{NewRange('a', 'z'), NewRange('m', 'p'), Single('0')})
	want := []Range{{'0', '0'}, {'a', 'l'}, {'m', 'p'}, {'q', 'z'}}
	if len(atoms) != len(want) {
		t.Fatalf("want %v got %v", want, atoms)
	}
	for i := range want {
		if atoms[i] != want[i] {
			t.Fatalf("want %v got %v", want, atoms)
		}
	}
}

func TestQuoteRune(t *testing.T) {
	for r, want := range map[rune]string{
		'a': `'a'`, '\'': `'\''`, '\\': `'\\'`, '"': `'"'`, '\n': `'\n'`, 'é': `'\u{e9}'`,
	} {
		if got := quoteRune(r); got != want {
			t.Fatalf("quote %q: want %s got %s", r, want, got)
		}
	}
}

// ------------------------------------------------------------------- Lexer

func TestLexerTokens(t *testing.T) {
	l := newLexer(`'a' "bc" [^'x'-'z'] DIGIT{2,} .|()*+?`)
	want := []tokenType{
		tChar, tString, tLBracket, tCaret, tChar, tDash, tChar, tRBracket,
		tIdent, tLBrace, tNumber, tComma, tRBrace,
		tDot, tUnion, tLParen, tRParen, tStar, tPlus, tQMark, tEOF,
	}
	for i, typ := range want {
		if tok := l.next(); tok.typ != typ {
			t.Fatalf("tok %d want %v got %v", i, typ, tok.typ)
		}
	}
}

func TestLexerEscapes(t *testing.T) {
	for src, want := range map[string]rune{
		`'\n'`: '\n', `'\t'`: '\t', `'\r'`: '\r', `'\0'`: 0,
		`'\x41'`: 'A', `'\u{1F600}'`: 0x1F600, `'\''`: '\'', `'\\'`: '\\',
		`'\"'`: '"', `'é'`: 'é',
	} {
		tok := newLexer(src).next()
		if tok.typ != tChar || tok.ch != want {
			t.Fatalf("%s: want %q got %v %q (%s)", src, want, tok.typ, tok.ch, tok.str)
		}
	}
	if tok := newLexer(`"a\"b\n"`).next(); tok.typ != tString || tok.str != "a\"b\n" {
		t.Fatalf("string escapes: got %v %q", tok.typ, tok.str)
	}
}

func TestLexerIllegal(t *testing.T) {
	for _, src := range []string{`''`, `""`, `"abc`, `'ab'`, `'\q'`, `'\x4'`, `'\u{110000}'`, `#`, `'`} {
		if tok := newLexer(src).next(); tok.typ != tIllegal {
			t.Fatalf("%s: want illegal got %v", src, tok.typ)
		}
	}
}

// ------------------------------------------------------------------- Parser

func TestParserPrecedence(t *testing.T) {
	a := compile(t, `'a'|'b''c'*`)
	acc(t, a, "a", true)
	acc(t, a, "b", true)
	acc(t, a, "bccc", true)
	acc(t, a, "ab", false)
	acc(t, a, "ac", false)

	a = compile(t, `("ab"|'c')+`)
	acc(t, a, "abcab", true)
	acc(t, a, "abb", false)
}

func TestParserCharClass(t *testing.T) {
	a := compile(t, `['a'-'c' "xyz"]+`)
	acc(t, a, "abcxyz", true)
	acc(t, a, "d", false)

	a = compile(t, `[^'a'-'c']`)
	acc(t, a, "d", true)
	acc(t, a, "\n", true)
	acc(t, a, "é", true)
	acc(t, a, "b", false)
}

func TestDotMatchesNewline(t *testing.T) {
	a := compile(t, `'a'.'b'`)
	acc(t, a, "a\nb", true)
	acc(t, a, "a€b", true)
	acc(t, a, "ab", false)
}

func TestRepeat(t *testing.T) {
	a := compile(t, `'a'{2,3}`)
	acc(t, a, "a", false)
	acc(t, a, "aa", true)
	acc(t, a, "aaa", true)
	acc(t, a, "aaaa", false)

	a = compile(t, `'a'{2,}`)
	acc(t, a, "a", false)
	acc(t, a, strings.Repeat("a", 50), true)

	a = compile(t, `("ab"){3}`)
	acc(t, a, "ababab", true)
	acc(t, a, "abab", false)

	a = compile(t, `'x'{0,2}'y'`)
	acc(t, a, "y", true)
	acc(t, a, "xxy", true)
	acc(t, a, "xxxy", false)
}

func TestNestedRepeatLimit(t *testing.T) {
	for _, tc := range []struct {
		named   []Named
		src     string
		culprit string
		offset  int
	}{
		{nil, `('a'{100}){100}`, "rule #0", 0},
		{nil, `'x' ('a'{2}){501}`, "rule #0", 4},
		{nil, `('a'{500,}){2}`, "rule #0", 0},
		{nil, `(('a'{10}){10} | 'b'){11}`, "rule #0", 0},
		{[]Named{{"A", `'a'{100}`}}, `'b' A{20}`, "rule #0", 4},
		{[]Named{{"B", `('a'{50}){50}`}}, `B`, "B", 0},
	} {
		_, err := CompilePattern(tc.named, tc.src)
		if err == nil {
			t.Fatalf("%q: want error", tc.src)
		}
		de := defError(t, err)
		if de.Pattern != tc.culprit || de.Offset != tc.offset || de.Msg != "nested repeats expand past 1000 copies" {
			t.Fatalf("%q: got %+v", tc.src, de)
		}
	}

	a := compile(t, `('a'{2}){500}`)
	acc(t, a, strings.Repeat("a", 1000), true)
	acc(t, a, strings.Repeat("a", 999), false)

	// sequential repeats add up instead of multiplying
	a = compile(t, `'a'{1000} 'b'{1000}`)
	acc(t, a, strings.Repeat("a", 1000)+strings.Repeat("b", 1000), true)
}

func TestParserErrors(t *testing.T) {
	for _, tc := range []struct {
		src    string
		offset int
	}{
		{``, 0},
		{`('a'`, 0},
		{`'a')`, 3},
		{`()`, 1},
		{`['b'-'a']`, 1},
		{`[]`, 0},
		{`[^.]`, 2},
		{`'a'{0}`, 3},
		{`'a'{3,2}`, 3},
		{`'a'{1001}`, 3},
		{`'a'{x}`, 4},
		{`*`, 0},
		{`'a'||'b'`, 4},
		{`'a' #`, 4},
	} {
		_, err := CompilePattern(nil, tc.src)
		if err == nil {
			t.Fatalf("%q: want error", tc.src)
		}
		de := defError(t, err)
		if de.Offset != tc.offset || de.Pattern != "rule #0" || de.Source != tc.src {
			t.Fatalf("%q: got %+v", tc.src, de)
		}
	}
}

// ------------------------------------------------------------------- Named patterns

func TestNamedPatterns(t *testing.T) {
	named := []Named{
		{"NUM", `DIGIT+ ('.' DIGIT+)?`}, // declared before DIGIT
		{"DIGIT", `['0'-'9']`},
	}
	a := compile(t, `'-'? NUM`, named...)
	acc(t, a, "12", true)
	acc(t, a, "-3.25", true)
	acc(t, a, "3.", false)
	acc(t, a, "x", false)
}

func TestNamedPatternErrors(t *testing.T) {
	for _, tc := range []struct {
		named   []Named
		src     string
		culprit string
		msg     string
	}{
		{nil, `X`, "rule #0", "unknown pattern X"},
		{[]Named{{"A", `'a' A?`}}, `A`, "A", "cyclic reference to A"},
		{[]Named{{"A", `B`}, {"B", `C`}, {"C", `'c' A`}}, `'x'`, "A", "cyclic reference to A"},
		{[]Named{{"A", `'a'`}, {"A", `'b'`}}, `A`, "A", "duplicate pattern name"},
		{[]Named{{"9x", `'a'`}}, `'a'`, "9x", `invalid pattern name "9x"`},
		{[]Named{{"BAD", `'a'|`}}, `'a'`, "BAD", "unexpected end of pattern"},
	} {
		_, err := CompilePattern(tc.named, tc.src)
		de := defError(t, err)
		if de.Pattern != tc.culprit || de.Msg != tc.msg {
			t.Fatalf("%v %q: got %+v", tc.named, tc.src, de)
		}
	}
}

// ------------------------------------------------------------------- Rules

func TestCompileRules(t *testing.T) {
	a, err := Compile(nil, []Rule{
		{ID: 0, Source: `.`},
		{ID: 1, Source: `"if"`},
		{ID: 2, Source: `['a'-'z']+`},
	})
	if err != nil {
		t.Fatal(err)
	}
	for in, want := range map[string]int{"if": 1, "i": 2, "iff": 2, "?": 0, "": -1, "i?": -1} {
		if got := a.Match(in); got != want {
			t.Fatalf("%q: want rule %d got %d", in, want, got)
		}
	}
	if got := a.Rules(); len(got) != 3 {
		t.Fatalf("rules %v", got)
	}

	if _, err := Compile(nil, nil); err == nil {
		t.Fatalf("no rules should fail")
	}
	if _, err := Compile(nil, []Rule{{ID: 4, Source: `'a'`}, {ID: 4, Source: `'b'`}}); err == nil {
		t.Fatalf("duplicate rule id should fail")
	}
}

func TestNullableRules(t *testing.T) {
	a, err := Compile(nil, []Rule{{ID: 0, Source: `'a'*`}, {ID: 1, Source: `'b'`}, {ID: 2, Source: `('c'?){2}`}})
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Nullable(); len(got) != 2 || got[0] != 0 || got[1] != 2 {
		t.Fatalf("nullable %v", got)
	}
}

func TestClassOf(t *testing.T) {
	a := compile(t, `['a'-'z' 'α'-'ω']+ '!'`)
	if a.ClassOf('a') != a.ClassOf('q') {
		t.Fatalf("a and q should share a class")
	}
	if a.ClassOf('!') == a.ClassOf('a') || a.ClassOf('!') < 0 {
		t.Fatalf("'!' class %d", a.ClassOf('!'))
	}
	if a.ClassOf('β') < 0 || a.ClassOf('0') != -1 || a.ClassOf(0x10FFFF) != -1 {
		t.Fatalf("class lookup broken")
	}
	if a.Step(0, '0') != -1 {
		t.Fatalf("unknown rune must kill the automaton")
	}
}

// ------------------------------------------------------------------- Minimize

func TestMinimizeCount(t *testing.T) {
	for src, want := range map[string]int{
		`'a'|'a''b'`:           3,
		`['a'-'z']+`:           2,
		`'a'*`:                 1,
		`('a'|'b')*'a''b'`:     3,
		`'a''b'|'c''b'|'d''b'`: 3,
		`("ab"|"cb"){2}`:       5,
	} {
		if got := compile(t, src).NumStates(); got != want {
			t.Fatalf("%s: want %d states got %d", src, want, got)
		}
	}
}

func TestMinimizeKeepsRulesApart(t *testing.T) {
	a, err := Compile(nil, []Rule{{ID: 0, Source: `"ab"`}, {ID: 1, Source: `"cb"`}})
	if err != nil {
		t.Fatal(err)
	}
	if a.NumStates() != 5 {
		t.Fatalf("want 5 states got %d", a.NumStates())
	}
	if a.Match("ab") != 0 || a.Match("cb") != 1 {
		t.Fatalf("rules merged: ab=%d cb=%d", a.Match("ab"), a.Match("cb"))
	}
}

func TestMinimizeLongChain(t *testing.T) {
	start := time.Now()
	lit := strings.Repeat("ab", 1000)
	a := compile(t, `"`+lit+`"`)
	if a.NumStates() != len(lit)+1 {
		t.Fatalf("literal: want %d states got %d", len(lit)+1, a.NumStates())
	}
	acc(t, a, lit, true)

	if got := compile(t, `'a'{1000}`).NumStates(); got != 1001 {
		t.Fatalf("repeat: want 1001 states got %d", got)
	}
	if d := time.Since(start); d > 2*time.Second {
		t.Fatalf("minimizing long chains took %v", d)
	}
}

func TestMinimizeIdempotent(t *testing.T) {
	a := compile(t, `('a'|'b')*'a'('a'|'b'){2}`)
	b := Minimize(a)
	if a.NumStates() != b.NumStates() {
		t.Fatalf("minimizing twice changed the state count: %d -> %d", a.NumStates(), b.NumStates())
	}
	if ok, w := Equivalent(a, b); !ok {
		t.Fatalf("differ on %q", w)
	}
}

// ------------------------------------------------------------------- Equivalent

func TestEquivalent(t *testing.T) {
	for _, pair := range [][2]string{
		{`('a'|'b')*`, `('a'*'b'*)*`},
		{`'a'+`, `'a'*'a'`},
		{`'a'{2,3}`, `'a''a''a'?`},
		{`['a'-'c']`, `'a'|'b'|'c'`},
		{`[^'a']`, `[^'a'-'a']`},
	} {
		if ok, w := Equivalent(compile(t, pair[0]), compile(t, pair[1])); !ok {
			t.Fatalf("%s vs %s differ on %q", pair[0], pair[1], w)
		}
	}
}

func TestEquivalentWitness(t *testing.T) {
	for _, tc := range []struct{ a, b, witness string }{
		{`'a'+`, `'a'{1,5}`, "aaaaaa"},
		{`'a'|'b'`, `'a'`, "b"},
		{`'a'*`, `'a'+`, ""},
		{`['a'-'z']`, `['a'-'y']`, "z"},
	} {
		ok, w := Equivalent(compile(t, tc.a), compile(t, tc.b))
		if ok || w != tc.witness {
			t.Fatalf("%s vs %s: got %v %q", tc.a, tc.b, ok, w)
		}
	}
}

func TestEquivalentComparesRules(t *testing.T) {
	kwFirst := MustCompile(nil, []Rule{{0, `"if"`}, {1, `['a'-'z']+`}})
	idFirst := MustCompile(nil, []Rule{{1, `['a'-'z']+`}, {0, `"if"`}})
	ok, w := Equivalent(kwFirst, idFirst)
	if ok || w != "if" {
		t.Fatalf("got %v %q", ok, w)
	}
	again := MustCompile(nil, []Rule{{0, `"if"`}, {1, `['a'-'z']+`}})
	if ok, w := Equivalent(kwFirst, again); !ok {
		t.Fatalf("recompiling changed the language at %q", w)
	}
}

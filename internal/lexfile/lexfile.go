// Package lexfile reads lexer definitions from .lex files.
//
// A file is a list of named patterns, rules of the INITIAL condition and
// condition blocks:
//
//	// comment
//	let DIGIT = ['0'-'9'] ;
//	DIGIT+ => emit(Int) ;
//	'"' => begin(STR) ;
//	condition STR {
//	  [^'"']+ => emit(StrPart) ;
//	  '"' => begin(INITIAL) ;
//	}
//
// Patterns use the regexlib syntax and end at `=>` or `;`.
package lexfile

import (
	"io"
	"os"
	"strings"

	"github.com/alecthomas/participle/v2"
	plexer "github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

type File struct {
	Entries []*Entry `parser:"@@*"`
}

type Entry struct {
	Let       *Let       `parser:"  @@"`
	Condition *Condition `parser:"| @@"`
	Rule      *Rule      `parser:"| @@"`
}

type Let struct {
	Pos     plexer.Position
	Name    string   `parser:"'let' @Ident '='"`
	Pattern []string `parser:"@(Char | String | Ident | Number | Punct | LBrace | RBrace)+ ';'"`
}

type Condition struct {
	Pos   plexer.Position
	Name  string  `parser:"'condition' @Ident LBrace"`
	Rules []*Rule `parser:"@@* RBrace"`
}

type Rule struct {
	Pos     plexer.Position
	Pattern []string `parser:"@(Char | String | Ident | Number | Punct) @(Char | String | Ident | Number | Punct | LBrace | RBrace)*"`
	Actions []*Call  `parser:"Arrow @@ (',' @@)* ';'"`
}

type Call struct {
	Pos  plexer.Position
	Name string `parser:"@Ident"`
	Arg  string `parser:"( '(' @Ident ')' )?"`
}

var lex = plexer.MustSimple([]plexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Char", Pattern: `'(\\[^\n]|[^'\\\n])+'`},
	{Name: "String", Pattern: `"(\\[^\n]|[^"\\\n])*"`},
	{Name: "Arrow", Pattern: `=>`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+`},
	{Name: "LBrace", Pattern: `\{`},
	{Name: "RBrace", Pattern: `\}`},
	{Name: "Semi", Pattern: `;`},
	{Name: "Punct", Pattern: `[\[\]()|*+?^.,=-]`},
})

var parser = participle.MustBuild[File](
	participle.Lexer(lex),
	participle.Elide("Comment", "Whitespace"),
)

// Parse reads a definition file.
func Parse(filename string, r io.Reader) (*File, error) {
	return parser.Parse(filename, r)
}

// ParseString reads a definition from memory.
func ParseString(filename, src string) (*File, error) {
	return parser.ParseString(filename, src)
}

// Load reads the definition file at path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open definition")
	}
	defer f.Close()
	return Parse(path, f)
}

func joinPattern(toks []string) string { return strings.Join(toks, " ") }

func (c *Call) String() string {
	if c.Arg == "" {
		return c.Name
	}
	return c.Name + "(" + c.Arg + ")"
}

// Label describes the rule by its actions, e.g. "emit(Int)".
func (r *Rule) Label() string {
	parts := make([]string, len(r.Actions))
	for i, a := range r.Actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, ", ")
}

type scopedRule struct {
	condition string
	rule      *Rule
}

// rules lists rules in declaration order, which is also their rule id order.
func (f *File) rules() []scopedRule {
	var out []scopedRule
	for _, e := range f.Entries {
		switch {
		case e.Rule != nil:
			out = append(out, scopedRule{"", e.Rule})
		case e.Condition != nil:
			for _, r := range e.Condition.Rules {
				out = append(out, scopedRule{e.Condition.Name, r})
			}
		}
	}
	return out
}

// Labels returns the label of every rule indexed by rule id.
func (f *File) Labels() []string {
	rs := f.rules()
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.rule.Label()
	}
	return out
}

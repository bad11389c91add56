package lexfile

import (
	"github.com/alecthomas/participle/v2"
	"github.com/sirupsen/logrus"

	"lexkit/lexer"
)

// Token is what definition files emit: the kind named in emit(Kind) and the
// matched text.
type Token struct {
	Kind   string `json:"kind" yaml:"kind"`
	Text   string `json:"text" yaml:"text"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// Stats counts what a lexer of a definition file did. A nil *Stats is
// allowed and counts nothing.
type Stats struct {
	Tokens  map[string]int `json:"tokens" yaml:"tokens"`
	Skipped int            `json:"skipped" yaml:"skipped"`
}

func NewStats() *Stats { return &Stats{Tokens: map[string]int{}} }

func (s *Stats) emitted(kind string) {
	if s == nil {
		return
	}
	if s.Tokens == nil {
		s.Tokens = map[string]int{}
	}
	s.Tokens[kind]++
}

func (s *Stats) skipped() {
	if s != nil {
		s.Skipped++
	}
}

// Definition is a compiled definition file.
type Definition = lexer.Definition[*Stats, Token]

// Compile turns the file into a lexer definition. Unknown actions, missing
// action arguments and begin() targets that name no condition are reported
// with their position.
func (f *File) Compile(log logrus.FieldLogger) (*Definition, error) {
	b := lexer.NewBuilder[*Stats, Token]()
	if log != nil {
		b.Logger(log)
	}

	conds := map[string]bool{lexer.Initial: true}
	for _, e := range f.Entries {
		switch {
		case e.Let != nil:
			b.Define(e.Let.Name, joinPattern(e.Let.Pattern))
		case e.Condition != nil:
			if conds[e.Condition.Name] {
				return nil, participle.Errorf(e.Condition.Pos, "condition %s declared twice", e.Condition.Name)
			}
			conds[e.Condition.Name] = true
		}
	}

	for _, sr := range f.rules() {
		action, err := sr.rule.action(conds)
		if err != nil {
			return nil, err
		}
		cond := sr.condition
		if cond == "" {
			cond = lexer.Initial
		}
		b.RuleIn(cond, joinPattern(sr.rule.Pattern), action)
	}
	return b.Build()
}

func (r *Rule) action(conds map[string]bool) (lexer.Action[*Stats, Token], error) {
	var kind, begin string
	skip := false
	for _, c := range r.Actions {
		switch c.Name {
		case "skip":
			if c.Arg != "" {
				return nil, participle.Errorf(c.Pos, "skip takes no argument")
			}
			skip = true
		case "emit":
			if c.Arg == "" {
				return nil, participle.Errorf(c.Pos, "emit needs a token kind")
			}
			if kind != "" {
				return nil, participle.Errorf(c.Pos, "rule emits twice")
			}
			kind = c.Arg
		case "begin":
			if c.Arg == "" {
				return nil, participle.Errorf(c.Pos, "begin needs a condition")
			}
			if !conds[c.Arg] {
				return nil, participle.Errorf(c.Pos, "unknown condition %s", c.Arg)
			}
			begin = c.Arg
		default:
			return nil, participle.Errorf(c.Pos, "unknown action %s", c.Name)
		}
	}
	if skip && kind != "" {
		return nil, participle.Errorf(r.Pos, "rule both skips and emits")
	}

	return func(c *lexer.Context[*Stats]) (Token, bool, error) {
		if begin != "" {
			c.Begin(begin)
		}
		if kind == "" {
			c.State.skipped()
			return Token{}, false, nil
		}
		c.State.emitted(kind)
		return Token{Kind: kind, Text: c.Text(), Line: c.Match.Pos.Line, Column: c.Match.Pos.Column}, true, nil
	}, nil
}

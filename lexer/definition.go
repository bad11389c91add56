package lexer

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"lexkit/regexlib"
)

// Initial is the condition rules belong to unless declared otherwise.
const Initial = "INITIAL"

// Action turns a match into a token. Returning emit == false discards the
// match and scanning continues; a non-nil error ends the token sequence with
// a *ScanError.
type Action[S, T any] func(ctx *Context[S]) (tok T, emit bool, err error)

// Skip is an action that discards its match.
func Skip[S, T any](*Context[S]) (tok T, emit bool, err error) { return tok, false, nil }

type rule[S, T any] struct {
	id        int
	pattern   string
	condition string
	action    Action[S, T]
}

// Builder collects named patterns and rules in declaration order.
type Builder[S, T any] struct {
	named []regexlib.Named
	rules []rule[S, T]
	conds []string
	log   logrus.FieldLogger
}

// NewBuilder returns an empty builder for lexers carrying state S and
// producing tokens T.
func NewBuilder[S, T any]() *Builder[S, T] {
	return &Builder[S, T]{conds: []string{Initial}, log: logrus.StandardLogger()}
}

// Logger sets the logger used at build time and by lexers of the definition.
func (b *Builder[S, T]) Logger(l logrus.FieldLogger) *Builder[S, T] {
	b.log = l
	return b
}

// Define binds a named pattern usable by identifier in other patterns.
func (b *Builder[S, T]) Define(name, pattern string) *Builder[S, T] {
	b.named = append(b.named, regexlib.Named{Name: name, Source: pattern})
	return b
}

// Rule appends a rule to the INITIAL condition.
func (b *Builder[S, T]) Rule(pattern string, action Action[S, T]) *Builder[S, T] {
	return b.RuleIn(Initial, pattern, action)
}

// RuleIn appends a rule to the named condition, declaring it if needed.
func (b *Builder[S, T]) RuleIn(condition, pattern string, action Action[S, T]) *Builder[S, T] {
	if !b.hasCondition(condition) {
		b.conds = append(b.conds, condition)
	}
	b.rules = append(b.rules, rule[S, T]{id: len(b.rules), pattern: pattern, condition: condition, action: action})
	return b
}

func (b *Builder[S, T]) hasCondition(name string) bool {
	for _, c := range b.conds {
		if c == name {
			return true
		}
	}
	return false
}

// Build compiles every condition into its automaton. Errors are
// *regexlib.DefinitionError values, possibly wrapped.
func (b *Builder[S, T]) Build() (*Definition[S, T], error) {
	d := &Definition[S, T]{
		rules:    append([]rule[S, T](nil), b.rules...),
		conds:    append([]string(nil), b.conds...),
		automata: make(map[string]*regexlib.Automaton, len(b.conds)),
		log:      b.log,
	}
	for _, r := range d.rules {
		if r.action == nil {
			return nil, &regexlib.DefinitionError{Pattern: r.pattern, Source: r.pattern, Offset: -1, Msg: "rule has no action"}
		}
	}
	for _, cond := range d.conds {
		var ruleSet []regexlib.Rule
		for _, r := range d.rules {
			if r.condition == cond {
				ruleSet = append(ruleSet, regexlib.Rule{ID: r.id, Source: r.pattern})
			}
		}
		if len(ruleSet) == 0 {
			return nil, &regexlib.DefinitionError{Pattern: cond, Offset: -1, Msg: "condition has no rules"}
		}
		a, err := regexlib.Compile(b.named, ruleSet)
		if err != nil {
			return nil, errors.Wrapf(err, "condition %s", cond)
		}
		d.automata[cond] = a
		d.report(cond, ruleSet, a)
	}
	return d, nil
}

func (d *Definition[S, T]) report(cond string, ruleSet []regexlib.Rule, a *regexlib.Automaton) {
	d.log.WithFields(logrus.Fields{
		"condition": cond,
		"rules":     len(ruleSet),
		"states":    a.NumStates(),
		"classes":   a.NumClasses(),
	}).Debug("compiled condition")

	wins := map[int]bool{}
	for _, id := range a.Rules() {
		wins[id] = true
	}
	for _, s := range ruleSet {
		if !wins[s.ID] {
			d.log.WithFields(logrus.Fields{"condition": cond, "rule": s.ID, "pattern": s.Source}).
				Warn("rule never matches: shadowed by earlier or longer rules")
		}
	}
	for _, id := range a.Nullable() {
		d.log.WithFields(logrus.Fields{"condition": cond, "rule": id, "pattern": d.rules[id].pattern}).
			Warn("rule matches the empty string; zero-length matches are ignored")
	}
}

// Definition is an immutable compiled rule set. It can start any number of
// independent lexers.
type Definition[S, T any] struct {
	rules    []rule[S, T]
	conds    []string
	automata map[string]*regexlib.Automaton
	log      logrus.FieldLogger
}

// Conditions lists the declared conditions in declaration order.
func (d *Definition[S, T]) Conditions() []string { return append([]string(nil), d.conds...) }

// Automaton returns the compiled automaton of a condition.
func (d *Definition[S, T]) Automaton(condition string) (*regexlib.Automaton, bool) {
	a, ok := d.automata[condition]
	return a, ok
}

// Pattern returns the source of a rule.
func (d *Definition[S, T]) Pattern(rule int) string { return d.rules[rule].pattern }

// NumRules returns the number of rules over all conditions.
func (d *Definition[S, T]) NumRules() int { return len(d.rules) }

// Lex starts a lexer over r with the caller-owned state.
func (d *Definition[S, T]) Lex(r io.Reader, state S) *Lexer[S, T] {
	return d.LexCursor(NewCursor(r), state)
}

// LexString starts a lexer over an in-memory string.
func (d *Definition[S, T]) LexString(s string, state S) *Lexer[S, T] {
	return d.LexCursor(NewStringCursor(s), state)
}

// LexCursor starts a lexer over any Cursor. The lexer owns the cursor.
func (d *Definition[S, T]) LexCursor(cur Cursor, state S) *Lexer[S, T] {
	l := &Lexer[S, T]{def: d, sc: newScanner(cur, d.log)}
	l.ctx.State = state
	l.ctx.condition = Initial
	return l
}

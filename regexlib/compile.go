package regexlib

import (
	"strconv"
)

// Rule is one pattern of a rule set. Rules compete in slice order: on equal
// match length the earlier rule wins, except that catch-all rules (a pattern
// matching exactly one arbitrary character, such as `.`) always rank last.
type Rule struct {
	ID     int
	Source string
}

// Compile parses the named patterns and rules and merges the rules into a
// single minimal deterministic automaton whose accepting states report the
// winning rule id.
func Compile(named []Named, rules []Rule) (*Automaton, error) {
	res, err := newResolver(named)
	if err != nil {
		return nil, err
	}
	// unused named patterns are validated too
	for _, n := range named {
		if _, err := res.lookup(n.Name); err != nil {
			return nil, err
		}
	}
	if len(rules) == 0 {
		return nil, defErrorf("<rules>", "", -1, "no rules")
	}

	asts := make([]*astNode, len(rules))
	seen := map[int]bool{}
	var nullable []int
	var normal, catchAll []int
	for i, r := range rules {
		if seen[r.ID] {
			return nil, defErrorf(ruleLabel(r.ID), r.Source, -1, "duplicate rule id %d", r.ID)
		}
		seen[r.ID] = true
		n, err := res.pattern(ruleLabel(r.ID), r.Source)
		if err != nil {
			return nil, err
		}
		asts[i] = n
		if n.nullable() {
			nullable = append(nullable, r.ID)
		}
		if n.catchAll() {
			catchAll = append(catchAll, i)
		} else {
			normal = append(normal, i)
		}
	}

	var sets []Charset
	for _, n := range asts {
		sets = collectSets(n, sets)
	}
	atoms := partition(sets)

	m := &nfa{}
	start := m.newState()
	ids := make([]int, 0, len(rules))
	for rank, i := range append(normal, catchAll...) {
		s := m.addRule(asts[i], rank)
		m.states[start].eps = append(m.states[start].eps, s)
		ids = append(ids, rules[i].ID)
	}

	a := Minimize(determinize(m, start, atoms, ids))
	a.nullable = nullable
	return a, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(named []Named, rules []Rule) *Automaton {
	a, err := Compile(named, rules)
	if err != nil {
		panic(err)
	}
	return a
}

// CompilePattern compiles a single pattern as rule 0.
func CompilePattern(named []Named, src string) (*Automaton, error) {
	return Compile(named, []Rule{{ID: 0, Source: src}})
}

func ruleLabel(id int) string { return "rule #" + strconv.Itoa(id) }

func collectSets(n *astNode, out []Charset) []Charset {
	if n == nil {
		return out
	}
	if n.typ == nSet {
		out = append(out, n.set)
	}
	out = collectSets(n.left, out)
	return collectSets(n.right, out)
}

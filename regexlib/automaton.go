package regexlib

import (
	"sort"
	"unicode/utf8"
)

// Automaton is a deterministic automaton stored as flat tables. States are
// indices, state 0 is the start state, and transitions are labelled with
// character class ids.
type Automaton struct {
	atoms  []Range
	ascii  [utf8.RuneSelf]int32
	trans  []int32 // state*len(atoms)+class -> next state, -1 when dead
	accept []int   // rule id accepted in the state, -1 when not accepting

	nullable []int // rules whose pattern matches the empty string
}

func newAutomaton(atoms []Range) *Automaton {
	a := &Automaton{atoms: atoms}
	for i := range a.ascii {
		a.ascii[i] = -1
	}
	for c, r := range atoms {
		if r.Lo >= utf8.RuneSelf {
			break
		}
		hi := r.Hi
		if hi >= utf8.RuneSelf {
			hi = utf8.RuneSelf - 1
		}
		for x := r.Lo; x <= hi; x++ {
			a.ascii[x] = int32(c)
		}
	}
	return a
}

func (a *Automaton) addState(accept int) int {
	a.accept = append(a.accept, accept)
	for range a.atoms {
		a.trans = append(a.trans, -1)
	}
	return len(a.accept) - 1
}

func (a *Automaton) setTrans(from, class, to int) {
	a.trans[from*len(a.atoms)+class] = int32(to)
}

func (a *Automaton) next(state, class int) int {
	return int(a.trans[state*len(a.atoms)+class])
}

// NumStates returns the number of states, the dead state excluded.
func (a *Automaton) NumStates() int { return len(a.accept) }

// NumClasses returns the number of character classes labelling transitions.
func (a *Automaton) NumClasses() int { return len(a.atoms) }

// Class returns the runes of class c.
func (a *Automaton) Class(c int) Range { return a.atoms[c] }

// ClassOf maps r to its character class, -1 when no rule can consume r.
func (a *Automaton) ClassOf(r rune) int {
	if r >= 0 && r < utf8.RuneSelf {
		return int(a.ascii[r])
	}
	i := sort.Search(len(a.atoms), func(i int) bool { return a.atoms[i].Hi >= r })
	if i < len(a.atoms) && a.atoms[i].Lo <= r {
		return i
	}
	return -1
}

// Step follows the transition on r, returning -1 when the automaton dies.
func (a *Automaton) Step(state int, r rune) int {
	c := a.ClassOf(r)
	if c < 0 {
		return -1
	}
	return a.next(state, c)
}

// Accept returns the rule accepted in state, or -1.
func (a *Automaton) Accept(state int) int { return a.accept[state] }

// Match runs the automaton over the whole of s and returns the rule accepting
// it, or -1 when s is not in the language.
func (a *Automaton) Match(s string) int {
	state := 0
	for _, r := range s {
		if state = a.Step(state, r); state < 0 {
			return -1
		}
	}
	return a.accept[state]
}

// Nullable returns the ids of rules whose pattern matches the empty string.
// Scanners never report zero-length matches for them.
func (a *Automaton) Nullable() []int { return a.nullable }

// Rules returns the ids of all rules accepted by at least one state, sorted.
func (a *Automaton) Rules() []int {
	seen := map[int]bool{}
	var out []int
	for _, r := range a.accept {
		if r >= 0 && !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	sort.Ints(out)
	return out
}

// renumber returns a copy of a whose states are numbered in breadth-first
// order from the start state, dropping unreachable ones.
func (a *Automaton) renumber() *Automaton {
	order := []int{0}
	newID := map[int]int{0: 0}
	for i := 0; i < len(order); i++ {
		s := order[i]
		for c := range a.atoms {
			t := a.next(s, c)
			if t < 0 {
				continue
			}
			if _, ok := newID[t]; !ok {
				newID[t] = len(order)
				order = append(order, t)
			}
		}
	}
	out := newAutomaton(a.atoms)
	for _, s := range order {
		out.addState(a.accept[s])
	}
	for _, s := range order {
		for c := range a.atoms {
			if t := a.next(s, c); t >= 0 {
				out.setTrans(newID[s], c, newID[t])
			}
		}
	}
	return out
}

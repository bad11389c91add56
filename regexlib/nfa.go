package regexlib

const noState = -1

type nfaState struct {
	eps    []int
	set    Charset // label of the single character edge, if any
	to     int     // target of the character edge or noState
	accept int     // priority rank of the accepting rule, -1 otherwise
}

// nfa is an arena of Thompson states addressed by index.
type nfa struct {
	states []nfaState
}

type nfaFrag struct {
	start int
	outs  []int // states whose dangling ε edge still has to be patched
}

func (m *nfa) newState() int {
	m.states = append(m.states, nfaState{to: noState, accept: -1})
	return len(m.states) - 1
}

func (m *nfa) patchOuts(outs []int, to int) {
	for _, s := range outs {
		m.states[s].eps = append(m.states[s].eps, to)
	}
}

func (m *nfa) build(node *astNode) nfaFrag {
	switch node.typ {
	case nEmpty:
		s := m.newState()
		return nfaFrag{start: s, outs: []int{s}}
	case nSet:
		s1 := m.newState()
		s2 := m.newState()
		m.states[s1].set = node.set
		m.states[s1].to = s2
		return nfaFrag{start: s1, outs: []int{s2}}
	case nConcat:
		f1 := m.build(node.left)
		f2 := m.build(node.right)
		m.patchOuts(f1.outs, f2.start)
		return nfaFrag{start: f1.start, outs: f2.outs}
	case nUnion:
		s := m.newState()
		f1 := m.build(node.left)
		f2 := m.build(node.right)
		m.states[s].eps = append(m.states[s].eps, f1.start, f2.start)
		outs := append(f1.outs, f2.outs...)
		return nfaFrag{start: s, outs: outs}
	case nStar:
		s := m.newState()
		f := m.build(node.left)
		m.patchOuts(f.outs, s)
		m.states[s].eps = append(m.states[s].eps, f.start)
		return nfaFrag{start: s, outs: []int{s}}
	case nPlus:
		f := m.build(node.left)
		loop := m.newState()
		m.patchOuts(f.outs, loop)
		m.states[loop].eps = append(m.states[loop].eps, f.start)
		return nfaFrag{start: f.start, outs: []int{loop}}
	case nQMark:
		s := m.newState()
		f := m.build(node.left)
		m.states[s].eps = append(m.states[s].eps, f.start)
		return nfaFrag{start: s, outs: append(f.outs, s)}
	case nRepeat:
		return m.buildRepeat(node)
	case nGroup:
		return m.build(node.left)
	}
	panic("unknown ast node")
}

// buildRepeat expands x{m,n} into m copies of x followed by n-m optional
// copies, or a starred copy when the upper bound is open.
func (m *nfa) buildRepeat(node *astNode) nfaFrag {
	var frag nfaFrag
	first := true
	add := func(piece nfaFrag) {
		if first {
			frag, first = piece, false
			return
		}
		m.patchOuts(frag.outs, piece.start)
		frag.outs = piece.outs
	}
	for i := 0; i < node.min; i++ {
		add(m.build(node.left))
	}
	switch {
	case node.max == -1:
		add(m.build(&astNode{typ: nStar, left: node.left}))
	default:
		for i := node.min; i < node.max; i++ {
			add(m.build(&astNode{typ: nQMark, left: node.left}))
		}
	}
	return frag
}

// addRule appends the Thompson automaton of a rule and returns its start.
func (m *nfa) addRule(node *astNode, rank int) int {
	frag := m.build(node)
	accept := m.newState()
	m.states[accept].accept = rank
	m.patchOuts(frag.outs, accept)
	return frag.start
}

// closure extends set (a list of state ids) with everything reachable over ε.
// mark is scratch space of len(states) reset by the caller.
func (m *nfa) closure(set []int, mark []bool) []int {
	stack := append([]int(nil), set...)
	for _, s := range set {
		mark[s] = true
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, t := range m.states[s].eps {
			if !mark[t] {
				mark[t] = true
				set = append(set, t)
				stack = append(stack, t)
			}
		}
	}
	return set
}

package regexlib

import (
	"fmt"
	"sort"
)

// determinize runs the subset construction over the merged rule NFA. ids maps a
// priority rank to the rule id reported by accepting states.
func determinize(m *nfa, start int, atoms []Range, ids []int) *Automaton {
	a := newAutomaton(atoms)
	mark := make([]bool, len(m.states))
	closure := func(set []int) []int {
		set = m.closure(set, mark)
		for _, s := range set {
			mark[s] = false
		}
		sort.Ints(set)
		return set
	}
	key := func(set []int) string { return fmt.Sprint(set) }
	acceptOf := func(set []int) int {
		best := -1
		for _, s := range set {
			if r := m.states[s].accept; r >= 0 && (best < 0 || r < best) {
				best = r
			}
		}
		if best < 0 {
			return -1
		}
		return ids[best]
	}

	initSet := closure([]int{start})
	index := map[string]int{key(initSet): a.addState(acceptOf(initSet))}
	queue := [][]int{initSet}
	for cur := 0; len(queue) > 0; cur++ {
		curSet := queue[0]
		queue = queue[1:]
		for c, atom := range atoms {
			var moveSet []int
			for _, s := range curSet {
				st := &m.states[s]
				if st.to != noState && st.set.Contains(atom.Lo) && !mark[st.to] {
					mark[st.to] = true
					moveSet = append(moveSet, st.to)
				}
			}
			for _, s := range moveSet {
				mark[s] = false
			}
			if len(moveSet) == 0 {
				continue
			}
			clo := closure(moveSet)
			k := key(clo)
			d, exists := index[k]
			if !exists {
				d = a.addState(acceptOf(clo))
				index[k] = d
				queue = append(queue, clo)
			}
			a.setTrans(cur, c, d)
		}
	}
	return a
}

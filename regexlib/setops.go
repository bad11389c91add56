package regexlib

// Equivalent reports whether a and b accept the same language with the same
// rule reported for every accepted string. It walks the product automaton
// over the common refinement of both class partitions; the returned witness
// is a shortest distinguishing input when the automata differ.
func Equivalent(a, b *Automaton) (bool, string) {
	sets := make([]Charset, 0, len(a.atoms)+len(b.atoms))
	for _, r := range a.atoms {
		sets = append(sets, Charset{r})
	}
	for _, r := range b.atoms {
		sets = append(sets, Charset{r})
	}
	alpha := partition(sets)

	type pair struct{ i, j int }
	accept := func(x *Automaton, s int) int {
		if s < 0 {
			return -1
		}
		return x.accept[s]
	}
	step := func(x *Automaton, s int, r rune) int {
		if s < 0 {
			return -1
		}
		return x.Step(s, r)
	}

	start := pair{0, 0}
	prev := map[pair]pair{}
	via := map[pair]rune{}
	seen := map[pair]bool{start: true}
	queue := []pair{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if accept(a, p.i) != accept(b, p.j) {
			return false, witness(p, start, prev, via)
		}
		for _, c := range alpha {
			np := pair{step(a, p.i, c.Lo), step(b, p.j, c.Lo)}
			if np.i < 0 && np.j < 0 {
				continue
			}
			if !seen[np] {
				seen[np] = true
				prev[np] = p
				via[np] = c.Lo
				queue = append(queue, np)
			}
		}
	}
	return true, ""
}

func witness[P comparable](p, start P, prev map[P]P, via map[P]rune) string {
	var rs []rune
	for p != start {
		rs = append(rs, via[p])
		p = prev[p]
	}
	for i, j := 0, len(rs)-1; i < j; i, j = i+1, j-1 {
		rs[i], rs[j] = rs[j], rs[i]
	}
	return string(rs)
}

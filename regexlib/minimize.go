package regexlib

// Minimize merges equivalent states. States accepting different rules are
// never merged, so the result reports the same rule for every input.
//
// Refinement follows Hopcroft: a worklist of splitter blocks, each split
// queueing only the smaller half, over an automaton completed with an
// explicit dead state.
func Minimize(a *Automaton) *Automaton {
	if a == nil || a.NumStates() == 0 {
		return a
	}
	n := a.NumStates()
	k := len(a.atoms)
	dead := n
	total := n + 1
	target := func(s, c int) int {
		if s == dead {
			return dead
		}
		if t := a.next(s, c); t >= 0 {
			return t
		}
		return dead
	}

	// --- 1. inverse transitions: pred[c][off[c][t]:off[c][t+1]] -------------
	off := make([][]int32, k)
	pred := make([][]int32, k)
	for c := 0; c < k; c++ {
		o := make([]int32, total+1)
		for s := 0; s < total; s++ {
			o[target(s, c)+1]++
		}
		for t := 0; t < total; t++ {
			o[t+1] += o[t]
		}
		fill := append([]int32(nil), o[:total]...)
		p := make([]int32, total)
		for s := 0; s < total; s++ {
			t := target(s, c)
			p[fill[t]] = int32(s)
			fill[t]++
		}
		off[c], pred[c] = o, p
	}

	// --- 2. initial partition: one block per accepted rule -----------------
	acceptOf := func(s int) int {
		if s == dead {
			return -1
		}
		return a.accept[s]
	}
	byRule := map[int]int{}
	var buckets [][]int
	for s := 0; s < total; s++ {
		b, ok := byRule[acceptOf(s)]
		if !ok {
			b = len(buckets)
			byRule[acceptOf(s)] = b
			buckets = append(buckets, nil)
		}
		buckets[b] = append(buckets[b], s)
	}
	p := newRefinement(total, buckets)

	// --- 3. split against worklist blocks until nothing changes ------------
	work := make([]int, 0, len(buckets))
	inWork := make([]bool, len(buckets), total)
	for b := range buckets {
		work = append(work, b)
		inWork[b] = true
	}
	var splitter []int
	var touched []int
	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]
		inWork[b] = false
		splitter = append(splitter[:0], p.members(b)...)

		for c := 0; c < k; c++ {
			touched = touched[:0]
			for _, t := range splitter {
				for _, s := range pred[c][off[c][t]:off[c][t+1]] {
					if p.isMarked(int(s)) {
						continue
					}
					if p.marked[p.block[s]] == 0 {
						touched = append(touched, p.block[s])
					}
					p.mark(int(s))
				}
			}
			for _, tb := range touched {
				nb := p.split(tb)
				if nb < 0 {
					continue
				}
				inWork = append(inWork, false)
				switch {
				case inWork[tb]:
					work, inWork[nb] = append(work, nb), true
				case p.size(nb) <= p.size(tb):
					work, inWork[nb] = append(work, nb), true
				default:
					work, inWork[tb] = append(work, tb), true
				}
			}
		}
	}

	// --- 4. one state per block; ids follow state order so 0 stays start ---
	deadBlock := p.block[dead]
	id := make([]int, len(p.start))
	for i := range id {
		id[i] = -1
	}
	var reps []int
	for s := 0; s < n; s++ {
		if b := p.block[s]; b != deadBlock && id[b] < 0 {
			id[b] = len(reps)
			reps = append(reps, s)
		}
	}
	out := newAutomaton(a.atoms)
	for _, s := range reps {
		out.addState(a.accept[s])
	}
	for i, s := range reps {
		for c := 0; c < k; c++ {
			if t := a.next(s, c); t >= 0 && p.block[t] != deadBlock {
				out.setTrans(i, c, id[p.block[t]])
			}
		}
	}
	return out.renumber()
}

// refinement is a partition of states where every block is a contiguous run
// of elems. Marked states of a block are kept at the front of its run.
type refinement struct {
	elems  []int
	loc    []int // position of a state in elems
	block  []int
	start  []int // block b is elems[start[b]:end[b]]
	end    []int
	marked []int
}

func newRefinement(total int, buckets [][]int) *refinement {
	p := &refinement{
		elems: make([]int, 0, total),
		loc:   make([]int, total),
		block: make([]int, total),
	}
	for b, members := range buckets {
		p.start = append(p.start, len(p.elems))
		for _, s := range members {
			p.loc[s] = len(p.elems)
			p.block[s] = b
			p.elems = append(p.elems, s)
		}
		p.end = append(p.end, len(p.elems))
		p.marked = append(p.marked, 0)
	}
	return p
}

func (p *refinement) members(b int) []int { return p.elems[p.start[b]:p.end[b]] }

func (p *refinement) size(b int) int { return p.end[b] - p.start[b] }

func (p *refinement) isMarked(s int) bool {
	b := p.block[s]
	return p.loc[s] < p.start[b]+p.marked[b]
}

func (p *refinement) mark(s int) {
	b := p.block[s]
	i := p.start[b] + p.marked[b]
	other := p.elems[i]
	p.elems[i], p.elems[p.loc[s]] = s, other
	p.loc[other], p.loc[s] = p.loc[s], i
	p.marked[b]++
}

// split moves the marked states of b into a new block and returns it, or -1
// when b is marked entirely or not at all. Marks are cleared either way.
func (p *refinement) split(b int) int {
	m := p.marked[b]
	p.marked[b] = 0
	if m == 0 || m == p.size(b) {
		return -1
	}
	nb := len(p.start)
	p.start = append(p.start, p.start[b])
	p.end = append(p.end, p.start[b]+m)
	p.marked = append(p.marked, 0)
	p.start[b] += m
	for _, s := range p.members(nb) {
		p.block[s] = nb
	}
	return nb
}

package regexlib

type nodeType int

const (
	nEmpty  nodeType = iota // ε
	nSet                    // single character from a class ('a', ['a'-'z'], .)
	nConcat
	nUnion
	nStar
	nPlus
	nQMark
	nRepeat // {m,n}
	nGroup  // ( ... )
	nRef    // named pattern reference
)

type astNode struct {
	typ   nodeType
	left  *astNode
	right *astNode

	set      Charset // for nSet
	min, max int     // for nRepeat, max == -1 means unbounded
	name     string  // for nRef
	pos      int     // offset in the pattern source
}

func setNode(cs Charset, pos int) *astNode { return &astNode{typ: nSet, set: cs, pos: pos} }

func concat(l, r *astNode) *astNode {
	if l == nil {
		return r
	}
	return &astNode{typ: nConcat, left: l, right: r, pos: l.pos}
}

// nullable reports whether the node accepts the empty string. References must
// be resolved before calling it.
func (n *astNode) nullable() bool {
	switch n.typ {
	case nEmpty, nStar, nQMark:
		return true
	case nSet:
		return false
	case nConcat:
		return n.left.nullable() && n.right.nullable()
	case nUnion:
		return n.left.nullable() || n.right.nullable()
	case nPlus, nGroup:
		return n.left.nullable()
	case nRepeat:
		return n.min == 0 || n.left.nullable()
	}
	return false
}

// catchAll reports whether the node matches exactly one arbitrary character.
func (n *astNode) catchAll() bool {
	for n.typ == nGroup {
		n = n.left
	}
	return n.typ == nSet && n.set.IsAny()
}

// copies returns how many times the widest path through n gets duplicated by
// nested {m,n} expansion. An open bound counts as one copy more than its
// minimum since the tail is a single starred copy.
func (n *astNode) copies(memo map[*astNode]int) int {
	if n == nil {
		return 1
	}
	if c, ok := memo[n]; ok {
		return c
	}
	c := max(n.left.copies(memo), n.right.copies(memo))
	if n.typ == nRepeat {
		bound := n.max
		if bound == -1 {
			bound = n.min + 1
		}
		c *= bound
	}
	memo[n] = c
	return c
}

// overExpanded returns the outermost repeat whose expansion exceeds limit.
func (n *astNode) overExpanded(limit int, memo map[*astNode]int) *astNode {
	if n == nil || n.copies(memo) <= limit {
		return nil
	}
	if n.typ == nRepeat {
		return n
	}
	if bad := n.left.overExpanded(limit, memo); bad != nil {
		return bad
	}
	return n.right.overExpanded(limit, memo)
}

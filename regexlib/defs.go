package regexlib

// Named binds a pattern source to an identifier usable in other patterns.
type Named struct {
	Name   string
	Source string
}

// resolver parses named patterns on demand and inlines references, sharing
// the resolved tree of a name between all of its uses.
type resolver struct {
	sources  map[string]string
	parsed   map[string]*astNode
	resolved map[string]*astNode
	visiting map[string]bool
}

func newResolver(named []Named) (*resolver, error) {
	r := &resolver{
		sources:  make(map[string]string, len(named)),
		parsed:   map[string]*astNode{},
		resolved: map[string]*astNode{},
		visiting: map[string]bool{},
	}
	for _, n := range named {
		if !validName(n.Name) {
			return nil, defErrorf(n.Name, n.Source, -1, "invalid pattern name %q", n.Name)
		}
		if _, dup := r.sources[n.Name]; dup {
			return nil, defErrorf(n.Name, n.Source, -1, "duplicate pattern name")
		}
		r.sources[n.Name] = n.Source
	}
	return r, nil
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if !isIdentStart(c) && !(i > 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// pattern parses and resolves an anonymous rule pattern.
func (r *resolver) pattern(label, src string) (*astNode, error) {
	n, err := newParser(label, src).parse()
	if err != nil {
		return nil, err
	}
	res, err := r.inline(label, src, n)
	if err != nil {
		return nil, err
	}
	if err := checkExpansion(label, src, res); err != nil {
		return nil, err
	}
	return res, nil
}

// checkExpansion rejects trees whose nested repeats multiply past maxRepeat.
func checkExpansion(owner, src string, n *astNode) error {
	if bad := n.overExpanded(maxRepeat, map[*astNode]int{}); bad != nil {
		return defErrorf(owner, src, bad.pos, "nested repeats expand past %d copies", maxRepeat)
	}
	return nil
}

func (r *resolver) lookup(name string) (*astNode, error) {
	if n, ok := r.resolved[name]; ok {
		return n, nil
	}
	if r.visiting[name] {
		return nil, defErrorf(name, r.sources[name], -1, "cyclic reference to %s", name)
	}
	src := r.sources[name]
	n, ok := r.parsed[name]
	if !ok {
		var err error
		if n, err = newParser(name, src).parse(); err != nil {
			return nil, err
		}
		r.parsed[name] = n
	}
	r.visiting[name] = true
	res, err := r.inline(name, src, n)
	delete(r.visiting, name)
	if err == nil {
		err = checkExpansion(name, src, res)
	}
	if err != nil {
		return nil, err
	}
	r.resolved[name] = res
	return res, nil
}

// inline returns n with every reference replaced by the referenced tree.
// Subtrees without references are returned as is.
func (r *resolver) inline(owner, src string, n *astNode) (*astNode, error) {
	if n == nil {
		return nil, nil
	}
	if n.typ == nRef {
		if _, ok := r.sources[n.name]; !ok {
			return nil, defErrorf(owner, src, n.pos, "unknown pattern %s", n.name)
		}
		target, err := r.lookup(n.name)
		if err != nil {
			return nil, err
		}
		return &astNode{typ: nGroup, left: target, pos: n.pos}, nil
	}
	left, err := r.inline(owner, src, n.left)
	if err != nil {
		return nil, err
	}
	right, err := r.inline(owner, src, n.right)
	if err != nil {
		return nil, err
	}
	if left == n.left && right == n.right {
		return n, nil
	}
	cp := *n
	cp.left, cp.right = left, right
	return &cp, nil
}

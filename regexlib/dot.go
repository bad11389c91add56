package regexlib

import (
	"fmt"
	"io"
	"strings"
)

// WriteDOT prints a Graphviz representation of a to w. name labels accepting
// states with their rule; nil prints the rule id.
func WriteDOT(w io.Writer, a *Automaton, name func(rule int) string) error {
	if name == nil {
		name = func(rule int) string { return fmt.Sprintf("#%d", rule) }
	}
	var sb strings.Builder
	sb.WriteString("digraph G {\n")
	sb.WriteString("    rankdir=LR;\n")
	for s := 0; s < a.NumStates(); s++ {
		if r := a.accept[s]; r >= 0 {
			fmt.Fprintf(&sb, "    q%d [shape=doublecircle, label=\"q%d\\n%s\"];\n", s, s, dotEscape(name(r)))
		} else {
			fmt.Fprintf(&sb, "    q%d [shape=circle];\n", s)
		}
	}
	for s := 0; s < a.NumStates(); s++ {
		// one edge per target, labelled with the union of its classes
		var targets []int
		labels := map[int]Charset{}
		for c := range a.atoms {
			t := a.next(s, c)
			if t < 0 {
				continue
			}
			if _, ok := labels[t]; !ok {
				targets = append(targets, t)
			}
			labels[t] = append(labels[t], a.atoms[c])
		}
		for _, t := range targets {
			fmt.Fprintf(&sb, "    q%d -> q%d [label=\"%s\"];\n", s, t, dotEscape(normalize(labels[t]).String()))
		}
	}
	sb.WriteString("    _start [shape=point]; _start -> q0;\n")
	sb.WriteString("}\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func dotEscape(s string) string {
	return strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s)
}

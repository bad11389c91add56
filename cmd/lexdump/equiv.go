package main

import (
	"fmt"

	"github.com/pkg/errors"

	"lexkit/regexlib"
)

type equivCmd struct {
	Left  string `arg:"" type:"existingfile" help:"First definition file."`
	Right string `arg:"" type:"existingfile" help:"Second definition file."`
}

// Run compares the automata condition by condition. Rules are matched by
// their position in the file, so both files must declare them in the same
// order.
func (c *equivCmd) Run(a *app) error {
	_, left, err := loadDefinition(c.Left)
	if err != nil {
		return err
	}
	_, right, err := loadDefinition(c.Right)
	if err != nil {
		return err
	}

	conds := left.Conditions()
	for _, cond := range right.Conditions() {
		if _, ok := left.Automaton(cond); !ok {
			conds = append(conds, cond)
		}
	}

	differ := 0
	for _, cond := range conds {
		la, lok := left.Automaton(cond)
		ra, rok := right.Automaton(cond)
		switch {
		case !rok:
			fmt.Fprintf(a.stdout, "%s\tonly in %s\n", cond, c.Left)
			differ++
		case !lok:
			fmt.Fprintf(a.stdout, "%s\tonly in %s\n", cond, c.Right)
			differ++
		default:
			if ok, w := regexlib.Equivalent(la, ra); ok {
				fmt.Fprintf(a.stdout, "%s\tequivalent\n", cond)
			} else {
				fmt.Fprintf(a.stdout, "%s\tdiffers on %q\n", cond, w)
				differ++
			}
		}
	}
	if differ > 0 {
		return errors.Errorf("%d of %d conditions differ", differ, len(conds))
	}
	return nil
}

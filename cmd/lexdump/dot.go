package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"

	"lexkit/lexer"
	"lexkit/regexlib"
)

type dotCmd struct {
	Definition string `arg:"" type:"existingfile" help:"Definition file."`
	Condition  string `short:"c" default:"INITIAL" help:"Condition whose automaton is printed."`
	Output     string `short:"o" default:"-" help:"Output file, - for standard output."`
}

func (c *dotCmd) Run(a *app) error {
	f, def, err := loadDefinition(c.Definition)
	if err != nil {
		return err
	}
	aut, ok := def.Automaton(c.Condition)
	if !ok {
		return errors.Wrap(lexer.ErrUnknownCondition, c.Condition)
	}
	labels := f.Labels()
	name := func(rule int) string { return labels[rule] }

	if c.Output == "-" {
		return regexlib.WriteDOT(a.stdout, aut, name)
	}
	out, err := os.Create(c.Output)
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	if err := regexlib.WriteDOT(out, aut, name); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "DOT written to %s\n", c.Output)
	return nil
}

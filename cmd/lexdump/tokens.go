package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"lexkit/internal/lexfile"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type tokensCmd struct {
	Definition string `arg:"" type:"existingfile" help:"Definition file."`
	Input      string `arg:"" optional:"" type:"existingfile" help:"Input to tokenize; standard input when omitted."`
	Format     string `short:"f" default:"text" enum:"text,json,yaml" env:"LEXDUMP_FORMAT" help:"Output format (${enum})."`
	Stats      bool   `help:"Also print how many tokens of each kind were emitted."`
}

type report struct {
	Tokens []lexfile.Token `json:"tokens" yaml:"tokens"`
	Stats  *lexfile.Stats  `json:"stats,omitempty" yaml:"stats,omitempty"`
}

func (c *tokensCmd) Run(a *app) error {
	_, def, err := loadDefinition(c.Definition)
	if err != nil {
		return err
	}
	in := a.stdin
	if c.Input != "" {
		f, err := os.Open(c.Input)
		if err != nil {
			return errors.Wrap(err, "open input")
		}
		defer f.Close()
		in = f
	}

	stats := lexfile.NewStats()
	toks, lexErr := def.Lex(in, stats).Collect()
	// tokens read before a failure are still printed
	rep := report{Tokens: toks}
	if rep.Tokens == nil {
		rep.Tokens = []lexfile.Token{}
	}
	if c.Stats {
		rep.Stats = stats
	}
	if err := writeReport(a.stdout, c.Format, rep); err != nil {
		return err
	}
	return errors.Wrap(lexErr, "tokenize")
}

func writeReport(w io.Writer, format string, rep report) error {
	switch format {
	case "json":
		out, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode json")
		}
		_, err = fmt.Fprintf(w, "%s\n", out)
		return err
	case "yaml":
		out, err := yaml.Marshal(rep)
		if err != nil {
			return errors.Wrap(err, "encode yaml")
		}
		_, err = w.Write(out)
		return err
	}

	for _, t := range rep.Tokens {
		if _, err := fmt.Fprintf(w, "%d:%d\t%s\t%q\n", t.Line, t.Column, t.Kind, t.Text); err != nil {
			return err
		}
	}
	if rep.Stats == nil {
		return nil
	}
	kinds := make([]string, 0, len(rep.Stats.Tokens))
	for k := range rep.Stats.Tokens {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	fmt.Fprintln(w, "--")
	for _, k := range kinds {
		fmt.Fprintf(w, "%s\t%d\n", k, rep.Stats.Tokens[k])
	}
	_, err := fmt.Fprintf(w, "skipped\t%d\n", rep.Stats.Skipped)
	return err
}

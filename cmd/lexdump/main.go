// Command lexdump compiles .lex definition files and inspects the result:
// the tokens of an input, the automaton of a condition, or whether two
// definitions tokenize alike.
package main

import (
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"lexkit/internal/lexfile"
	"lexkit/internal/logger"
)

type CLI struct {
	LogLevel string `name:"log-level" default:"warn" env:"LEXDUMP_LOG_LEVEL" enum:"trace,debug,info,warn,error" help:"Log level (${enum})."`

	Tokens tokensCmd `cmd:"" help:"Print the tokens of an input."`
	Dot    dotCmd    `cmd:"" help:"Print the automaton of a condition in Graphviz DOT format."`
	Equiv  equivCmd  `cmd:"" help:"Check that two definitions accept the same tokens in every condition."`
}

// app carries the streams commands read from and write to.
type app struct {
	stdout io.Writer
	stdin  io.Reader
}

func run(args []string, stdout, stderr io.Writer, stdin io.Reader) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("lexdump"),
		kong.Description("Inspect lexer definition files."),
		kong.Writers(stdout, stderr),
		kong.UsageOnError(),
	)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	if err := logger.Init(cli.LogLevel, stderr); err != nil {
		return err
	}
	return ctx.Run(&app{stdout: stdout, stdin: stdin})
}

func loadDefinition(path string) (*lexfile.File, *lexfile.Definition, error) {
	f, err := lexfile.Load(path)
	if err != nil {
		return nil, nil, err
	}
	def, err := f.Compile(logger.WithField("file", path))
	if err != nil {
		return nil, nil, errors.Wrapf(err, "compile %s", path)
	}
	return f, def, nil
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr, os.Stdin); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

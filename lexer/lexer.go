package lexer

import (
	"io"
	"iter"

	"github.com/pkg/errors"
)

// Context is what an action sees: the current match and the caller-owned
// state. It is reused between actions of one lexer.
type Context[S any] struct {
	Match Match
	State S

	condition string
	pending   string
}

// Text returns the matched text.
func (c *Context[S]) Text() string { return c.Match.Text }

// Condition returns the condition the match was made in.
func (c *Context[S]) Condition() string { return c.condition }

// Begin switches the lexer to another condition from the next scan step on.
func (c *Context[S]) Begin(condition string) { c.pending = condition }

// Lexer is a forward-only sequence of tokens over one input. It is not safe
// for concurrent use.
type Lexer[S, T any] struct {
	def *Definition[S, T]
	sc  *scanner
	ctx Context[S]
	err error
}

// Condition returns the current condition.
func (l *Lexer[S, T]) Condition() string { return l.ctx.condition }

// State returns the caller-owned state.
func (l *Lexer[S, T]) State() S { return l.ctx.State }

// Next returns the next token. At the end of input it returns io.EOF. Every
// error, io.EOF included, is sticky: later calls return it again.
func (l *Lexer[S, T]) Next() (T, error) {
	var zero T
	if l.err != nil {
		return zero, l.err
	}
	for {
		tok, emit, err := l.step()
		if err != nil {
			l.err = err
			return zero, err
		}
		if emit {
			return tok, nil
		}
	}
}

// step scans one match and dispatches it to its rule's action.
func (l *Lexer[S, T]) step() (tok T, emit bool, err error) {
	a, ok := l.def.automata[l.ctx.condition]
	if !ok {
		return tok, false, errors.Wrap(ErrUnknownCondition, l.ctx.condition)
	}
	m, err := l.sc.next(a, l.ctx.condition)
	if err != nil {
		return tok, false, err
	}

	r := l.def.rules[m.Rule]
	l.ctx.Match = m
	l.ctx.pending = ""
	tok, emit, err = r.action(&l.ctx)
	if err != nil {
		return tok, false, &ScanError{Match: m, Pattern: r.pattern, Err: err}
	}
	if next := l.ctx.pending; next != "" {
		if _, ok := l.def.automata[next]; !ok {
			return tok, false, &ScanError{Match: m, Pattern: r.pattern, Err: errors.Wrap(ErrUnknownCondition, next)}
		}
		l.ctx.condition = next
	}
	return tok, emit, nil
}

// All returns the remaining tokens as an iterator. It stops silently at the
// end of input and yields a final zero token with the error otherwise.
func (l *Lexer[S, T]) All() iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		for {
			tok, err := l.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Collect drains the lexer. It returns the tokens read before the first
// error and that error, nil when the input was exhausted cleanly.
func (l *Lexer[S, T]) Collect() ([]T, error) {
	var out []T
	for tok, err := range l.All() {
		if err != nil {
			return out, err
		}
		out = append(out, tok)
	}
	return out, nil
}

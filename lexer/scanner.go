package lexer

import (
	"io"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"lexkit/regexlib"
)

// Match is the span consumed by one scan step and the rule that won it.
type Match struct {
	Rule int
	Pos  Position // start of the match
	End  int      // offset just past the match
	Text string
}

// scanner drives an automaton over the cursor with maximal munch: it keeps
// consuming while transitions exist, remembers the last accepting offset and
// rewinds there when the automaton dies.
type scanner struct {
	cur       Cursor
	line, col int
	log       logrus.FieldLogger
	trace     bool
}

func newScanner(cur Cursor, log logrus.FieldLogger) *scanner {
	return &scanner{cur: cur, line: 1, col: 1, log: log, trace: levelEnabled(log, logrus.TraceLevel)}
}

func (s *scanner) position() Position {
	return Position{Offset: s.cur.Offset(), Line: s.line, Column: s.col}
}

// next returns the next match, io.EOF when no input is left, a *NoMatchError
// when the input at the current position cannot start a token, or the read
// error of the cursor.
func (s *scanner) next(a *regexlib.Automaton, cond string) (Match, error) {
	s.cur.Mark()
	start := s.position()

	state := 0
	rule, end := -1, start.Offset
	var first rune
	consumed, died := false, false
	for {
		r, err := s.cur.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Match{}, err
		}
		if !consumed {
			first, consumed = r, true
		}
		if state = a.Step(state, r); state < 0 {
			died = true
			break
		}
		// accepting the empty string never counts: every step consumes input
		if acc := a.Accept(state); acc >= 0 {
			rule, end = acc, s.cur.Offset()
		}
	}

	if rule < 0 {
		if !consumed {
			return Match{}, io.EOF
		}
		if err := s.cur.Rewind(start.Offset); err != nil {
			return Match{}, err
		}
		return Match{}, &NoMatchError{Pos: start, Rune: first, Condition: cond, AtEOF: !died}
	}

	if err := s.cur.Rewind(end); err != nil {
		return Match{}, err
	}
	m := Match{Rule: rule, Pos: start, End: end, Text: s.cur.Text(start.Offset, end)}
	s.advance(m.Text)
	if s.trace {
		s.log.WithFields(logrus.Fields{
			"rule": rule, "condition": cond, "pos": start.String(), "text": m.Text,
		}).Trace("match")
	}
	return m, nil
}

func (s *scanner) advance(text string) {
	for len(text) > 0 {
		r, size := utf8.DecodeRuneInString(text)
		text = text[size:]
		if r == '\n' {
			s.line++
			s.col = 1
		} else {
			s.col++
		}
	}
}

func levelEnabled(log logrus.FieldLogger, level logrus.Level) bool {
	switch l := log.(type) {
	case *logrus.Logger:
		return l.IsLevelEnabled(level)
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(level)
	}
	return false
}

package lexer

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnknownCondition is wrapped by the ScanError of an action that switched
// to a condition the definition does not declare.
var ErrUnknownCondition = errors.New("unknown condition")

// Position locates a rune in the input. Line and Column are 1-based, Column
// counts runes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// NoMatchError reports input that cannot start any token of the current
// condition, or a trailing fragment that never reached an accepting state.
type NoMatchError struct {
	Pos       Position
	Rune      rune
	Condition string
	AtEOF     bool // input ended inside a partial match
}

func (e *NoMatchError) Error() string {
	if e.AtEOF {
		return fmt.Sprintf("%s: no rule matches the input before end of input (condition %s)", e.Pos, e.Condition)
	}
	return fmt.Sprintf("%s: no rule matches %q (condition %s)", e.Pos, e.Rune, e.Condition)
}

// ScanError wraps the failure of an action on an otherwise valid match.
type ScanError struct {
	Match   Match
	Pattern string
	Err     error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s: rule %d (%s) on %q: %v", e.Match.Pos, e.Match.Rule, e.Pattern, e.Match.Text, e.Err)
}

func (e *ScanError) Unwrap() error { return e.Err }

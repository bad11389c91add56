package regexlib

import "fmt"

// DefinitionError reports a pattern that cannot be compiled: malformed syntax,
// an unknown or cyclic named-pattern reference, or a duplicate name.
type DefinitionError struct {
	Pattern string // named pattern or rule the error belongs to
	Source  string
	Offset  int // offset into Source, -1 when not applicable
	Msg     string
}

func (e *DefinitionError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("pattern %s: %s at offset %d", e.Pattern, e.Msg, e.Offset)
	}
	return fmt.Sprintf("pattern %s: %s", e.Pattern, e.Msg)
}

func defErrorf(pattern, source string, offset int, format string, args ...interface{}) *DefinitionError {
	return &DefinitionError{Pattern: pattern, Source: source, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

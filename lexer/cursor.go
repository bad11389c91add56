package lexer

import (
	"io"
	"unicode/utf8"

	"github.com/pkg/errors"
)

const chunkSize = 4096

// Cursor is a forward reader of runes that can step back to any offset at or
// after its mark. Offsets are absolute byte offsets into the input.
type Cursor interface {
	// Next consumes one rune. It returns io.EOF at the end of input.
	Next() (rune, error)
	// Peek returns the next rune without consuming it.
	Peek() (rune, error)
	// Offset is the offset of the next rune.
	Offset() int
	// Mark pins the current offset; input before it may be discarded.
	Mark()
	// Rewind moves back (or forward) to an offset already read since the mark.
	Rewind(offset int) error
	// Text returns the input between two offsets at or after the mark.
	Text(from, to int) string
}

// ErrRewind is returned when rewinding outside the retained window.
var ErrRewind = errors.New("rewind outside buffered window")

// bufferedCursor keeps every byte read since the mark, so lookahead past the
// eventual match boundary can be given back without re-reading the source.
type bufferedCursor struct {
	r    io.Reader
	buf  []byte
	base int // absolute offset of buf[0]
	pos  int // index of the next rune in buf
	eof  bool
	err  error
}

// NewCursor returns a Cursor reading UTF-8 text from r. Invalid bytes decode
// as utf8.RuneError one byte at a time.
func NewCursor(r io.Reader) Cursor {
	return &bufferedCursor{r: r}
}

// NewStringCursor returns a Cursor over an in-memory string.
func NewStringCursor(s string) Cursor {
	return &bufferedCursor{buf: []byte(s), eof: true}
}

func (c *bufferedCursor) fill() {
	if c.eof || c.err != nil {
		return
	}
	if len(c.buf) == cap(c.buf) {
		grown := make([]byte, len(c.buf), 2*cap(c.buf)+chunkSize)
		copy(grown, c.buf)
		c.buf = grown
	}
	n, err := c.r.Read(c.buf[len(c.buf):cap(c.buf)])
	c.buf = c.buf[:len(c.buf)+n]
	if err == io.EOF {
		c.eof = true
	} else if err != nil {
		c.err = errors.Wrap(err, "read input")
	}
}

func (c *bufferedCursor) decode() (rune, int, error) {
	for {
		rest := c.buf[c.pos:]
		if len(rest) > 0 && (utf8.FullRune(rest) || c.eof || c.err != nil) {
			r, size := utf8.DecodeRune(rest)
			return r, size, nil
		}
		if c.err != nil {
			return 0, 0, c.err
		}
		if c.eof {
			return 0, 0, io.EOF
		}
		c.fill()
	}
}

func (c *bufferedCursor) Next() (rune, error) {
	r, size, err := c.decode()
	if err != nil {
		return 0, err
	}
	c.pos += size
	return r, nil
}

func (c *bufferedCursor) Peek() (rune, error) {
	r, _, err := c.decode()
	return r, err
}

func (c *bufferedCursor) Offset() int { return c.base + c.pos }

func (c *bufferedCursor) Mark() {
	// compact only once the dead prefix dominates the buffer; in-memory
	// input is never compacted
	if c.r == nil || c.pos == 0 || c.pos < len(c.buf)-c.pos {
		return
	}
	n := copy(c.buf, c.buf[c.pos:])
	c.buf = c.buf[:n]
	c.base += c.pos
	c.pos = 0
}

func (c *bufferedCursor) Rewind(offset int) error {
	i := offset - c.base
	if i < 0 || i > len(c.buf) {
		return errors.Wrapf(ErrRewind, "offset %d", offset)
	}
	c.pos = i
	return nil
}

func (c *bufferedCursor) Text(from, to int) string {
	return string(c.buf[from-c.base : to-c.base])
}

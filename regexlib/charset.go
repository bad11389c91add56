package regexlib

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// MaxRune is the upper bound of the universe that negated classes and `.` cover.
const MaxRune = unicode.MaxRune

// Range is an inclusive interval of runes.
type Range struct {
	Lo, Hi rune
}

// Charset is a set of runes kept as sorted, disjoint, non-adjacent ranges.
// The zero value is the empty set.
type Charset []Range

func Single(r rune) Charset { return Charset{{Lo: r, Hi: r}} }

func NewRange(lo, hi rune) Charset {
	if hi < lo {
		return nil
	}
	return Charset{{Lo: lo, Hi: hi}}
}

// AnyChar is the full universe.
func AnyChar() Charset { return Charset{{Lo: 0, Hi: MaxRune}} }

// FromString returns the set of runes appearing in s.
func FromString(s string) Charset {
	var out Charset
	for _, r := range s {
		out = append(out, Range{Lo: r, Hi: r})
	}
	return normalize(out)
}

func normalize(in Charset) Charset {
	if len(in) == 0 {
		return nil
	}
	rs := make(Charset, 0, len(in))
	for _, r := range in {
		if r.Hi < r.Lo || r.Hi < 0 || r.Lo > MaxRune {
			continue
		}
		if r.Lo < 0 {
			r.Lo = 0
		}
		if r.Hi > MaxRune {
			r.Hi = MaxRune
		}
		rs = append(rs, r)
	}
	if len(rs) == 0 {
		return nil
	}
	sort.Slice(rs, func(i, j int) bool {
		if rs[i].Lo != rs[j].Lo {
			return rs[i].Lo < rs[j].Lo
		}
		return rs[i].Hi < rs[j].Hi
	})
	out := rs[:1]
	for _, r := range rs[1:] {
		cur := &out[len(out)-1]
		if r.Lo <= cur.Hi+1 {
			if r.Hi > cur.Hi {
				cur.Hi = r.Hi
			}
			continue
		}
		out = append(out, r)
	}
	return out
}

// Union returns a ∪ b.
func (c Charset) Union(o Charset) Charset {
	merged := make(Charset, 0, len(c)+len(o))
	merged = append(merged, c...)
	merged = append(merged, o...)
	return normalize(merged)
}

// Negate returns the complement of c within [0, MaxRune].
func (c Charset) Negate() Charset {
	out := make(Charset, 0, len(c)+1)
	next := rune(0)
	for _, r := range c {
		if next < r.Lo {
			out = append(out, Range{Lo: next, Hi: r.Lo - 1})
		}
		next = r.Hi + 1
	}
	if next <= MaxRune {
		out = append(out, Range{Lo: next, Hi: MaxRune})
	}
	return out
}

// Contains reports whether r is a member of c.
func (c Charset) Contains(r rune) bool {
	i := sort.Search(len(c), func(i int) bool { return c[i].Hi >= r })
	return i < len(c) && c[i].Lo <= r
}

func (c Charset) IsEmpty() bool { return len(c) == 0 }

// IsAny reports whether c covers the whole universe.
func (c Charset) IsAny() bool {
	return len(c) == 1 && c[0].Lo == 0 && c[0].Hi == MaxRune
}

func (c Charset) String() string {
	if c.IsAny() {
		return "."
	}
	if len(c) == 1 && c[0].Lo == c[0].Hi {
		return quoteRune(c[0].Lo)
	}
	var sb strings.Builder
	sb.WriteByte('[')
	for i, r := range c {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(quoteRune(r.Lo))
		if r.Hi != r.Lo {
			sb.WriteByte('-')
			sb.WriteString(quoteRune(r.Hi))
		}
	}
	sb.WriteByte(']')
	return sb.String()
}

func quoteRune(r rune) string {
	switch r {
	case '\'':
		return `'\''`
	case '\\':
		return `'\\'`
	case '"':
		return `'"'`
	}
	q := strconv.QuoteRuneToASCII(r)
	if strings.HasPrefix(q, `'\U`) || strings.HasPrefix(q, `'\u`) {
		return "'\\u{" + strconv.FormatInt(int64(r), 16) + "}'"
	}
	return q
}

// partition splits the union of all sets into disjoint atoms such that each
// input set is exactly a union of atoms. Runes covered by no set belong to no
// atom.
func partition(sets []Charset) []Range {
	var bounds []rune
	for _, s := range sets {
		for _, r := range s {
			bounds = append(bounds, r.Lo, r.Hi+1)
		}
	}
	if len(bounds) == 0 {
		return nil
	}
	sort.Slice(bounds, func(i, j int) bool { return bounds[i] < bounds[j] })
	uniq := bounds[:1]
	for _, b := range bounds[1:] {
		if b != uniq[len(uniq)-1] {
			uniq = append(uniq, b)
		}
	}
	var all Charset
	for _, s := range sets {
		all = append(all, s...)
	}
	all = normalize(all)

	atoms := make([]Range, 0, len(uniq))
	for i := 0; i+1 < len(uniq); i++ {
		r := Range{Lo: uniq[i], Hi: uniq[i+1] - 1}
		if all.Contains(r.Lo) {
			atoms = append(atoms, r)
		}
	}
	return atoms
}

package wire

import (
	"strconv"
	"time"
)

// Builder accumulates a message's Fragments through fluent calls
// (Atom, SP, CRLF, QuotedString, Literal, ...). A Literal call ends the
// line fragment in progress and starts a new one after the literal's
// payload, so a synchronizing-literal boundary stays visible to the
// transport instead of being written straight through.
type Builder struct {
	frags []Fragment
	line  []byte
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder { return &Builder{} }

func (b *Builder) flushLine() {
	b.frags = append(b.frags, Line(b.line))
	b.line = nil
}

// Raw appends data verbatim to the line in progress.
func (b *Builder) Raw(data []byte) *Builder {
	b.line = append(b.line, data...)
	return b
}

// RawString is Raw for a string.
func (b *Builder) RawString(s string) *Builder { return b.Raw([]byte(s)) }

// SP appends a single space.
func (b *Builder) SP() *Builder { return b.Raw([]byte{' '}) }

// CRLF terminates and flushes the line in progress.
func (b *Builder) CRLF() *Builder {
	b.Raw([]byte{'\r', '\n'})
	b.flushLine()
	return b
}

// Atom appends s verbatim (caller is responsible for s being a valid atom).
func (b *Builder) Atom(s string) *Builder { return b.RawString(s) }

// QuotedString appends s wrapped in double quotes, escaping '"' and '\'.
func (b *Builder) QuotedString(s string) *Builder {
	b.line = append(b.line, '"')
	for i := 0; i < len(s); i++ {
		if IsQuotedSpecial(s[i]) {
			b.line = append(b.line, '\\')
		}
		b.line = append(b.line, s[i])
	}
	b.line = append(b.line, '"')
	return b
}

// Nil appends the literal bytes NIL.
func (b *Builder) Nil() *Builder { return b.RawString("NIL") }

// Number appends an unsigned 32-bit decimal number.
func (b *Builder) Number(n uint32) *Builder {
	return b.RawString(strconv.FormatUint(uint64(n), 10))
}

// Number64 appends an unsigned 64-bit decimal number.
func (b *Builder) Number64(n uint64) *Builder {
	return b.RawString(strconv.FormatUint(n, 10))
}

// Literal appends a literal's length prefix to the line in progress,
// flushes that line, and pushes data as its own FragmentLiteral so the
// caller can see where to wait for a continuation request.
func (b *Builder) Literal(data []byte, mode LiteralMode, binary bool) *Builder {
	if binary {
		b.line = append(b.line, '~')
	}
	b.line = append(b.line, '{')
	b.line = append(b.line, strconv.Itoa(len(data))...)
	if mode == LiteralNonSync {
		b.line = append(b.line, '+')
	}
	b.line = append(b.line, '}', '\r', '\n')
	b.flushLine()
	f := LiteralFragment(data, mode)
	f.Binary = binary
	b.frags = append(b.frags, f)
	return b
}

// String appends s using the most compact representation that
// round-trips it: a bare atom, a quoted string, or - if it contains
// CR/LF/NUL/non-ASCII - a literal in the given mode.
func (b *Builder) String(s string, mode LiteralMode) *Builder {
	switch {
	case NeedsLiteral(s):
		return b.Literal([]byte(s), mode, false)
	case NeedsQuoting(s):
		return b.QuotedString(s)
	default:
		return b.Atom(s)
	}
}

// AString is an alias for String: an astring and a string share an encoding.
func (b *Builder) AString(s string, mode LiteralMode) *Builder { return b.String(s, mode) }

// NString appends NIL for a nil s, else String(*s).
func (b *Builder) NString(s *string, mode LiteralMode) *Builder {
	if s == nil {
		return b.Nil()
	}
	return b.String(*s, mode)
}

// BeginList appends '('.
func (b *Builder) BeginList() *Builder { return b.Raw([]byte{'('}) }

// EndList appends ')'.
func (b *Builder) EndList() *Builder { return b.Raw([]byte{')'}) }

// List appends a space-separated parenthesized list, calling write for
// each item.
func (b *Builder) List(n int, write func(i int)) *Builder {
	b.BeginList()
	for i := 0; i < n; i++ {
		if i > 0 {
			b.SP()
		}
		write(i)
	}
	return b.EndList()
}

// Date appends a date-only quoted string in "dd-Mon-yyyy" form.
func (b *Builder) Date(t time.Time) *Builder {
	return b.QuotedString(t.UTC().Format("02-Jan-2006"))
}

// DateTime appends a date-time quoted string in
// "dd-Mon-yyyy HH:MM:SS +ZZZZ" form with locale-invariant month names
// (RFC 3501 date-time).
func (b *Builder) DateTime(t time.Time) *Builder {
	return b.QuotedString(t.Format("02-Jan-2006 15:04:05 -0700"))
}

// Tag appends a command tag verbatim.
func (b *Builder) Tag(tag string) *Builder { return b.RawString(tag) }

// Star appends the untagged response prefix "* ".
func (b *Builder) Star() *Builder { return b.RawString("* ") }

// Plus appends the continuation request prefix "+ ".
func (b *Builder) Plus() *Builder { return b.RawString("+ ") }

// Finish flushes any partial line - a safety net for a Builder that
// forgot a trailing CRLF - and returns the accumulated stream.
func (b *Builder) Finish() *FragmentStream {
	if len(b.line) > 0 {
		b.flushLine()
	}
	return NewFragmentStream(b.frags)
}

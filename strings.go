package imap

import (
	"github.com/meszmate/imap-codec/wire"
)

// IStringKind distinguishes IString's two forms.
type IStringKind int

const (
	IStringQuoted IStringKind = iota
	IStringLiteral
)

// IString is a Quoted string or a Literal.
type IString struct {
	kind   IStringKind
	data   []byte
	mode   wire.LiteralMode // meaningful only when kind == IStringLiteral
	binary bool
}

// NewQuoted validates s as Quoted text: UTF-8-safe, no CR/LF.
func NewQuoted(s string) (IString, error) {
	for i := 0; i < len(s); i++ {
		if s[i] == '\r' || s[i] == '\n' {
			return IString{}, errInvalidByteAt("Quoted", s[i], i)
		}
	}
	return IString{kind: IStringQuoted, data: []byte(s)}, nil
}

// NewLiteral wraps data as a Literal with the given synchronization mode.
// binary marks it a Literal8 (RFC 3516), which may contain NUL.
func NewLiteral(data []byte, mode wire.LiteralMode, binary bool) (IString, error) {
	if !binary {
		if i := indexNUL(data); i >= 0 {
			return IString{}, errInvalidByteAt("Literal", 0, i)
		}
	}
	if len(data) > 0xFFFFFFFF {
		return IString{}, errInvalid("Literal", "exceeds 2^32-1 bytes")
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return IString{kind: IStringLiteral, data: cp, mode: mode, binary: binary}, nil
}

func indexNUL(data []byte) int {
	for i, b := range data {
		if b == 0 {
			return i
		}
	}
	return -1
}

// Kind reports whether this is a Quoted or Literal IString.
func (s IString) Kind() IStringKind { return s.kind }

// Bytes returns the (unescaped) payload.
func (s IString) Bytes() []byte { return s.data }

// String returns the payload interpreted as UTF-8, replacing invalid
// sequences is the caller's responsibility - IString does not assume
// its bytes are valid UTF-8 (a Literal need not be).
func (s IString) String() string { return string(s.data) }

// Mode returns the literal's synchronization mode; meaningless for Quoted.
func (s IString) Mode() wire.LiteralMode { return s.mode }

// Binary reports whether this is a Literal8.
func (s IString) Binary() bool { return s.binary }

// AString is Atom ∪ IString.
type AString struct {
	atom    *Atom
	istring *IString
}

// NewAStringAtom wraps an Atom as an AString.
func NewAStringAtom(a Atom) AString { return AString{atom: &a} }

// NewAStringIString wraps an IString as an AString.
func NewAStringIString(s IString) AString { return AString{istring: &s} }

// IsAtom reports whether this AString holds an Atom.
func (a AString) IsAtom() bool { return a.atom != nil }

// AsAtom returns the held Atom; only valid when IsAtom is true.
func (a AString) AsAtom() Atom { return *a.atom }

// AsIString returns the held IString; only valid when IsAtom is false.
func (a AString) AsIString() IString { return *a.istring }

// String renders the AString's textual content regardless of which form it holds.
func (a AString) String() string {
	if a.atom != nil {
		return a.atom.String()
	}
	return a.istring.String()
}

// NString is an optional IString (NIL ≡ absent).
type NString struct {
	value *IString
}

// NewNString wraps an IString as a present NString.
func NewNString(s IString) NString { return NString{value: &s} }

// Nil returns the absent NString.
func Nil() NString { return NString{} }

// IsNil reports whether this NString is NIL.
func (n NString) IsNil() bool { return n.value == nil }

// Value returns the held IString; only valid when IsNil is false.
func (n NString) Value() IString { return *n.value }

// Text is a non-empty TEXT-CHAR sequence.
type Text struct {
	raw string
}

// NewText validates s as Text.
func NewText(s string) (Text, error) {
	if s == "" {
		return Text{}, errEmpty("Text")
	}
	for i := 0; i < len(s); i++ {
		if !wire.IsTextChar(s[i]) {
			return Text{}, errInvalidByteAt("Text", s[i], i)
		}
	}
	return Text{raw: s}, nil
}

func (t Text) String() string { return t.raw }

// QuotedChar is a single TEXT-CHAR other than '"' and '\', or either of
// those two escaped.
type QuotedChar struct {
	b byte
}

// NewQuotedChar validates b as a QuotedChar.
func NewQuotedChar(b byte) (QuotedChar, error) {
	if b == '"' || b == '\\' {
		return QuotedChar{b: b}, nil
	}
	if !wire.IsTextChar(b) {
		return QuotedChar{}, errInvalidByteAt("QuotedChar", b, 0)
	}
	return QuotedChar{b: b}, nil
}

func (q QuotedChar) Byte() byte { return q.b }

// ListCharString is a non-empty sequence of ATOM-CHAR plus '%', '*' and
// ']', used for mailbox list patterns.
type ListCharString struct {
	raw string
}

// NewListCharString validates s as a ListCharString.
func NewListCharString(s string) (ListCharString, error) {
	if s == "" {
		return ListCharString{}, errEmpty("ListCharString")
	}
	for i := 0; i < len(s); i++ {
		if !wire.IsListCharStringChar(s[i]) {
			return ListCharString{}, errInvalidByteAt("ListCharString", s[i], i)
		}
	}
	return ListCharString{raw: s}, nil
}

func (l ListCharString) String() string { return l.raw }

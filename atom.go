package imap

import (
	"strings"

	"github.com/meszmate/imap-codec/wire"
)

// Atom is a validated ATOM: one or more ATOM-CHARs. Atoms are
// compared case-insensitively per RFC 3501 §9, so Atom carries its
// original spelling but Equal/String comparisons should prefer EqualFold.
type Atom struct {
	raw string
}

// NewAtom validates s as an Atom.
func NewAtom(s string) (Atom, error) {
	if s == "" {
		return Atom{}, errEmpty("Atom")
	}
	for i := 0; i < len(s); i++ {
		if !wire.IsAtomChar(s[i]) {
			return Atom{}, errInvalidByteAt("Atom", s[i], i)
		}
	}
	return Atom{raw: s}, nil
}

// String returns the atom's original spelling.
func (a Atom) String() string { return a.raw }

// EqualFold reports whether a and b are the same atom, ignoring case.
func (a Atom) EqualFold(b Atom) bool { return strings.EqualFold(a.raw, b.raw) }

// Inner returns the validated string, for callers bridging to wire.Builder.
func (a Atom) Inner() string { return a.raw }

package imap

import "github.com/meszmate/imap-codec/wire"

// FlagKind distinguishes Flag's three forms: a well-known
// system flag, a backslash-prefixed extension flag the client defined
// itself, or a bare keyword. \Recent is deliberately absent here - it is
// a server-only marker clients may never set, so it lives only in
// FlagFetch.
type FlagKind int

const (
	FlagSystem FlagKind = iota
	FlagExtension
	FlagKeyword
)

// well-known system flags, canonicalized case-insensitively.
const (
	FlagNameSeen     = "Seen"
	FlagNameAnswered = "Answered"
	FlagNameFlagged  = "Flagged"
	FlagNameDeleted  = "Deleted"
	FlagNameDraft    = "Draft"
)

// Flag is a message flag: \Seen/\Answered/\Flagged/\Deleted/\Draft
// (system), \Xyzzy (extension) or Xyzzy (keyword atom).
type Flag struct {
	kind FlagKind
	atom Atom // extension/keyword spelling, or the canonical system name
}

func systemFlag(name string) Flag {
	a, _ := NewAtom(name)
	return Flag{kind: FlagSystem, atom: a}
}

// Well-known system flags.
func FlagSeen() Flag     { return systemFlag(FlagNameSeen) }
func FlagAnswered() Flag { return systemFlag(FlagNameAnswered) }
func FlagFlagged() Flag  { return systemFlag(FlagNameFlagged) }
func FlagDeleted() Flag  { return systemFlag(FlagNameDeleted) }
func FlagDraft() Flag    { return systemFlag(FlagNameDraft) }

// NewExtensionFlag wraps a as a "\Xyzzy"-shaped extension flag.
func NewExtensionFlag(a Atom) Flag { return Flag{kind: FlagExtension, atom: a} }

// NewKeywordFlag wraps a as a bare keyword flag.
func NewKeywordFlag(a Atom) Flag { return Flag{kind: FlagKeyword, atom: a} }

// flagFromParts canonicalizes an already-parsed "\"-prefixed or bare
// Atom spelling into a Flag, folding well-known system names to their
// canonical form so equality is semantic rather than textual.
func flagFromParts(backslash bool, a Atom) Flag {
	if backslash {
		for _, name := range []string{FlagNameSeen, FlagNameAnswered, FlagNameFlagged, FlagNameDeleted, FlagNameDraft} {
			if a.EqualFold(mustAtom(name)) {
				return systemFlag(name)
			}
		}
		return Flag{kind: FlagExtension, atom: a}
	}
	return Flag{kind: FlagKeyword, atom: a}
}

func mustAtom(s string) Atom { a, _ := NewAtom(s); return a }

// Kind reports which of Flag's three forms this is.
func (f Flag) Kind() FlagKind { return f.kind }

// Atom returns the flag's atom spelling (without the leading backslash
// for System/Extension flags).
func (f Flag) Atom() Atom { return f.atom }

// Equal compares two flags canonically: system flags compare by
// canonical name; extension/keyword flags compare case-insensitively by
// spelling and kind.
func (f Flag) Equal(o Flag) bool {
	return f.kind == o.kind && f.atom.EqualFold(o.atom)
}

func (f Flag) String() string {
	switch f.kind {
	case FlagSystem, FlagExtension:
		return "\\" + f.atom.String()
	default:
		return f.atom.String()
	}
}

// Encode writes this Flag's wire form.
func (f Flag) Encode(b *wire.Builder) {
	if f.kind != FlagKeyword {
		b.RawString("\\")
	}
	b.Atom(f.atom.String())
}

// ParseFlag consumes a Flag: an optional leading '\' followed by an atom
// (system/extension), or a bare atom (keyword). "\*" (the permanent-flags
// wildcard) is handled separately by ParseFlagPerm.
func ParseFlag(b []byte) ([]byte, Flag, error) {
	c, err := wire.PeekByte(b)
	if err != nil {
		return nil, Flag{}, err
	}
	if c != '\\' {
		rest, tok, err := wire.ParseAtom(b)
		if err != nil {
			return nil, Flag{}, err
		}
		a, verr := NewAtom(string(tok))
		if verr != nil {
			return nil, Flag{}, verr
		}
		return rest, flagFromParts(false, a), nil
	}
	rest, tok, err := wire.ParseAtom(b[1:])
	if err != nil {
		return nil, Flag{}, err
	}
	a, verr := NewAtom(string(tok))
	if verr != nil {
		return nil, Flag{}, verr
	}
	if a.EqualFold(mustAtom("Recent")) {
		// \Recent is fetch-only: clients may never set it, so it is not a
		// member of Flag at all. ParseFlagFetch handles it.
		return nil, Flag{}, errInvalid("Flag", `\Recent is not a settable flag`)
	}
	return rest, flagFromParts(true, a), nil
}

// FlagPerm is a permanent-flags list entry: either a Flag or the "\*"
// wildcard meaning "a new keyword may be created".
type FlagPerm struct {
	flag     Flag
	wildcard bool
}

// NewFlagPermWildcard is the "\*" wildcard entry.
func NewFlagPermWildcard() FlagPerm { return FlagPerm{wildcard: true} }

// NewFlagPerm wraps a concrete Flag.
func NewFlagPerm(f Flag) FlagPerm { return FlagPerm{flag: f} }

// IsWildcard reports whether this is the "\*" entry.
func (p FlagPerm) IsWildcard() bool { return p.wildcard }

// Flag returns the wrapped Flag; only valid when !IsWildcard().
func (p FlagPerm) Flag() Flag { return p.flag }

func (p FlagPerm) Encode(b *wire.Builder) {
	if p.wildcard {
		b.RawString("\\*")
		return
	}
	p.flag.Encode(b)
}

// ParseFlagPerm consumes a FlagPerm.
func ParseFlagPerm(b []byte) ([]byte, FlagPerm, error) {
	if len(b) >= 2 && b[0] == '\\' && b[1] == '*' {
		return b[2:], NewFlagPermWildcard(), nil
	}
	rest, f, err := ParseFlag(b)
	if err != nil {
		return nil, FlagPerm{}, err
	}
	return rest, NewFlagPerm(f), nil
}

// FlagFetch is FETCH's flag-fetch production: any Flag, or the
// server-only \Recent marker that clients may never set.
type FlagFetch struct {
	flag   Flag
	recent bool
}

// NewFlagFetchRecent is the "\Recent" marker.
func NewFlagFetchRecent() FlagFetch { return FlagFetch{recent: true} }

// NewFlagFetch wraps a concrete Flag.
func NewFlagFetch(f Flag) FlagFetch { return FlagFetch{flag: f} }

// IsRecent reports whether this is the "\Recent" marker.
func (f FlagFetch) IsRecent() bool { return f.recent }

// Flag returns the wrapped Flag; only valid when !IsRecent().
func (f FlagFetch) Flag() Flag { return f.flag }

func (f FlagFetch) Encode(b *wire.Builder) {
	if f.recent {
		b.RawString("\\Recent")
		return
	}
	f.flag.Encode(b)
}

// ParseFlagFetch consumes a FlagFetch.
func ParseFlagFetch(b []byte) ([]byte, FlagFetch, error) {
	if wire.HasPrefixFold(b, "\\Recent") {
		after := b[len("\\Recent"):]
		if len(after) == 0 {
			return nil, FlagFetch{}, wire.ErrIncomplete
		}
		if !wire.IsAtomChar(after[0]) {
			return after, NewFlagFetchRecent(), nil
		}
	}
	rest, f, err := ParseFlag(b)
	if err != nil {
		return nil, FlagFetch{}, err
	}
	return rest, NewFlagFetch(f), nil
}

// FlagNameAttribute is a mailbox-selectability or special-use attribute
// returned by LIST: \Noinferiors, \Noselect,
// \Marked, \Unmarked, plus the RFC 6154 special-use attributes.
type FlagNameAttribute struct {
	name string // canonical without backslash, or "" for Other
	atom Atom   // set when name == ""
}

var wellKnownFlagNameAttrs = []string{
	"Noinferiors", "Noselect", "Marked", "Unmarked", "HasChildren", "HasNoChildren",
	"NonExistent", "Subscribed", "Remote",
	"All", "Archive", "Drafts", "Flagged", "Junk", "Sent", "Trash",
}

// NewFlagNameAttribute canonicalizes a from a "\"-prefixed atom.
func NewFlagNameAttribute(a Atom) FlagNameAttribute {
	for _, name := range wellKnownFlagNameAttrs {
		if a.EqualFold(mustAtom(name)) {
			return FlagNameAttribute{name: name}
		}
	}
	return FlagNameAttribute{atom: a}
}

func (a FlagNameAttribute) String() string {
	if a.name != "" {
		return "\\" + a.name
	}
	return "\\" + a.atom.String()
}

func (a FlagNameAttribute) Encode(b *wire.Builder) { b.RawString(a.String()) }

// ParseFlagNameAttribute consumes a "\"-prefixed mailbox attribute.
func ParseFlagNameAttribute(b []byte) ([]byte, FlagNameAttribute, error) {
	rest, err := wire.ParseByte(b, '\\')
	if err != nil {
		return nil, FlagNameAttribute{}, err
	}
	rest2, tok, err := wire.ParseAtom(rest)
	if err != nil {
		return nil, FlagNameAttribute{}, err
	}
	a, verr := NewAtom(string(tok))
	if verr != nil {
		return nil, FlagNameAttribute{}, verr
	}
	return rest2, NewFlagNameAttribute(a), nil
}

// StoreType distinguishes STORE's three flag-update forms.
type StoreType int

const (
	StoreReplace StoreType = iota // FLAGS
	StoreAdd                      // +FLAGS
	StoreRemove                   // -FLAGS
)

// StoreResponse controls whether the server echoes the updated flags.
type StoreResponse int

const (
	StoreResponseAnswer StoreResponse = iota // server replies with the new flag list
	StoreResponseSilent                      // .SILENT: no untagged FETCH reply expected
)

// FlagList is a possibly-empty parenthesized list of Flags, as used by
// STORE and SELECT's untagged FLAGS response.
type FlagList struct{ flags []Flag }

func NewFlagList(flags []Flag) FlagList {
	cp := make([]Flag, len(flags))
	copy(cp, flags)
	return FlagList{flags: cp}
}

func (l FlagList) Flags() []Flag { return l.flags }

func (l FlagList) Encode(b *wire.Builder) {
	b.List(len(l.flags), func(i int) { l.flags[i].Encode(b) })
}

// ParseFlagList consumes a parenthesized Flag list, tolerating zero
// entries.
func ParseFlagList(b []byte, cfg *wire.Config) ([]byte, FlagList, error) {
	var flags []Flag
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		r, f, err := ParseFlag(b)
		if err != nil {
			return nil, err
		}
		flags = append(flags, f)
		return r, nil
	})
	if err != nil {
		return nil, FlagList{}, err
	}
	return rest, NewFlagList(flags), nil
}

// ParseMbxListFlags consumes a non-empty parenthesized FlagNameAttribute
// list.
func ParseMbxListFlags(b []byte, cfg *wire.Config) ([]byte, []FlagNameAttribute, error) {
	var attrs []FlagNameAttribute
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		r, a, err := ParseFlagNameAttribute(b)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, a)
		return r, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(attrs) == 0 {
		return nil, nil, errNotEnough("mbx-list-flags", 1)
	}
	return rest, attrs, nil
}

package imap

import "github.com/meszmate/imap-codec/wire"

// Utf8KindKind canonicalizes RFC 6855's ENABLE argument: UTF8=ACCEPT or
// UTF8=ONLY.
type Utf8KindKind int

const (
	Utf8KindAccept Utf8KindKind = iota
	Utf8KindOnly
)

// Utf8Kind is the UTF8= capability/ENABLE argument.
type Utf8Kind struct{ kind Utf8KindKind }

func NewUtf8KindAccept() Utf8Kind { return Utf8Kind{kind: Utf8KindAccept} }
func NewUtf8KindOnly() Utf8Kind   { return Utf8Kind{kind: Utf8KindOnly} }

func (k Utf8Kind) Kind() Utf8KindKind { return k.kind }

func (k Utf8Kind) Encode(b *wire.Builder) {
	if k.kind == Utf8KindOnly {
		b.Atom("UTF8=ONLY")
		return
	}
	b.Atom("UTF8=ACCEPT")
}

// ParseUtf8Kind consumes "UTF8=ACCEPT" or "UTF8=ONLY".
func ParseUtf8Kind(b []byte) ([]byte, Utf8Kind, error) {
	if wire.HasPrefixFold(b, "UTF8=ACCEPT") {
		return b[len("UTF8=ACCEPT"):], NewUtf8KindAccept(), nil
	}
	if wire.HasPrefixFold(b, "UTF8=ONLY") {
		return b[len("UTF8=ONLY"):], NewUtf8KindOnly(), nil
	}
	if len(b) < len("UTF8=ACCEPT") {
		return nil, Utf8Kind{}, wire.ErrIncomplete
	}
	return nil, Utf8Kind{}, &wire.SyntaxError{Msg: "expected UTF8=ACCEPT or UTF8=ONLY", At: 0}
}

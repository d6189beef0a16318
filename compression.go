package imap

import "github.com/meszmate/imap-codec/wire"

// CompressionAlgorithmKind canonicalizes RFC 4978 COMPRESS algorithm names.
type CompressionAlgorithmKind int

const (
	CompressionDeflate CompressionAlgorithmKind = iota
	CompressionOther
)

// CompressionAlgorithm is COMPRESS's algorithm argument.
type CompressionAlgorithm struct {
	kind CompressionAlgorithmKind
	atom Atom
}

// NewCompressionAlgorithm canonicalizes a.
func NewCompressionAlgorithm(a Atom) CompressionAlgorithm {
	if wire.EqualFold([]byte(a.String()), []byte("DEFLATE")) {
		return CompressionAlgorithm{kind: CompressionDeflate, atom: a}
	}
	return CompressionAlgorithm{kind: CompressionOther, atom: a}
}

func (c CompressionAlgorithm) Kind() CompressionAlgorithmKind { return c.kind }
func (c CompressionAlgorithm) Atom() Atom                     { return c.atom }
func (c CompressionAlgorithm) Encode(b *wire.Builder)         { b.Atom(c.atom.String()) }

// ParseCompressionAlgorithm consumes COMPRESS's single atom argument.
func ParseCompressionAlgorithm(b []byte) ([]byte, CompressionAlgorithm, error) {
	rest, tok, err := wire.ParseAtom(b)
	if err != nil {
		return nil, CompressionAlgorithm{}, err
	}
	a, verr := NewAtom(string(tok))
	if verr != nil {
		return nil, CompressionAlgorithm{}, verr
	}
	return rest, NewCompressionAlgorithm(a), nil
}

package imap

import "github.com/meszmate/imap-codec/wire"

// NamespaceData is the untagged NAMESPACE response body: the personal,
// other-users and shared namespace lists (RFC 2342). A nil slice is the
// NIL form; an empty non-nil slice is "()" (not grammatical on the
// wire, so constructors should use nil for absence).
type NamespaceData struct {
	Personal []NamespaceDescriptor
	Other    []NamespaceDescriptor
	Shared   []NamespaceDescriptor
}

// NamespaceDescriptor describes a single namespace: its prefix and its
// hierarchy delimiter (0 when the delimiter was NIL).
type NamespaceDescriptor struct {
	Prefix string
	Delim  byte
	// HasDelim is false when the delimiter was NIL (Delim is then 0).
	HasDelim bool
}

func (d NamespaceData) Encode(b *wire.Builder) {
	b.Star().Atom("NAMESPACE").SP()
	encodeNamespaceList(b, d.Personal)
	b.SP()
	encodeNamespaceList(b, d.Other)
	b.SP()
	encodeNamespaceList(b, d.Shared)
}

func encodeNamespaceList(b *wire.Builder, descs []NamespaceDescriptor) {
	if descs == nil {
		b.Nil()
		return
	}
	b.BeginList()
	for _, d := range descs {
		b.BeginList()
		b.QuotedString(d.Prefix).SP()
		if d.HasDelim {
			b.QuotedString(string(d.Delim))
		} else {
			b.Nil()
		}
		b.EndList()
	}
	b.EndList()
}

// ParseNamespaceData consumes NAMESPACE's three namespace lists.
func ParseNamespaceData(b []byte, cfg *wire.Config) ([]byte, NamespaceData, error) {
	var d NamespaceData
	rest, personal, err := parseNamespaceList(b, cfg)
	if err != nil {
		return nil, d, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, d, err
	}
	rest, other, err := parseNamespaceList(rest, cfg)
	if err != nil {
		return nil, d, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, d, err
	}
	rest, shared, err := parseNamespaceList(rest, cfg)
	if err != nil {
		return nil, d, err
	}
	d.Personal, d.Other, d.Shared = personal, other, shared
	return rest, d, nil
}

func parseNamespaceList(b []byte, cfg *wire.Config) ([]byte, []NamespaceDescriptor, error) {
	rest, isNil, err := peekNil(b)
	if err != nil {
		return nil, nil, err
	}
	if isNil {
		return rest, nil, nil
	}
	descs := []NamespaceDescriptor{}
	rest, err = wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		r, err := wire.ParseByte(b, '(')
		if err != nil {
			return nil, err
		}
		var desc NamespaceDescriptor
		r, prefix, err := wire.ParseIString(r, cfg)
		if err != nil {
			return nil, err
		}
		desc.Prefix = string(prefix)
		r, err = wire.ParseSP(r)
		if err != nil {
			return nil, err
		}
		r, delim, isNil, err := wire.ParseNString(r, cfg)
		if err != nil {
			return nil, err
		}
		if !isNil {
			if len(delim) != 1 {
				return nil, &wire.SyntaxError{Msg: "namespace delimiter must be one char", At: 0}
			}
			desc.Delim = delim[0]
			desc.HasDelim = true
		}
		// Namespace-response extensions are skipped: consume through the
		// descriptor's closing paren, tracking nesting.
		depth := 1
		i := 0
		for depth > 0 {
			if i >= len(r) {
				return nil, wire.ErrIncomplete
			}
			switch r[i] {
			case '(':
				depth++
			case ')':
				depth--
			case '"':
				j := i + 1
				for j < len(r) && r[j] != '"' {
					if r[j] == '\\' {
						j++
					}
					j++
				}
				if j >= len(r) {
					return nil, wire.ErrIncomplete
				}
				i = j
			}
			i++
		}
		descs = append(descs, desc)
		return r[i:], nil
	})
	if err != nil {
		return nil, nil, err
	}
	return rest, descs, nil
}

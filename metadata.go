package imap

import "github.com/meszmate/imap-codec/wire"

// MetadataEntry is one (entry-name, value) pair of a SETMETADATA command
// or a METADATA response with values (RFC 5464). A NIL value removes
// the entry.
type MetadataEntry struct {
	Name  string
	Value NString
}

// MetadataDepth is GETMETADATA's DEPTH option.
type MetadataDepth int

const (
	MetadataDepthNone MetadataDepth = iota // option absent
	MetadataDepthZero
	MetadataDepthOne
	MetadataDepthInfinity
)

// GetMetadataOptions carries GETMETADATA's optional parenthesized
// option list.
type GetMetadataOptions struct {
	// MaxSize limits the size of returned values. Nil means absent.
	MaxSize *uint32
	Depth   MetadataDepth
}

func (o GetMetadataOptions) empty() bool {
	return o.MaxSize == nil && o.Depth == MetadataDepthNone
}

func (o GetMetadataOptions) encodePrefix(b *wire.Builder) {
	if o.empty() {
		return
	}
	b.RawString("(")
	first := true
	if o.MaxSize != nil {
		b.Atom("MAXSIZE").SP().Number(*o.MaxSize)
		first = false
	}
	if o.Depth != MetadataDepthNone {
		if !first {
			b.SP()
		}
		b.Atom("DEPTH").SP()
		switch o.Depth {
		case MetadataDepthZero:
			b.Atom("0")
		case MetadataDepthOne:
			b.Atom("1")
		default:
			b.Atom("infinity")
		}
	}
	b.RawString(") ")
}

func parseGetMetadataOptions(b []byte, cfg *wire.Config) ([]byte, GetMetadataOptions, error) {
	var o GetMetadataOptions
	if len(b) == 0 {
		return nil, o, wire.ErrIncomplete
	}
	if b[0] != '(' {
		return b, o, nil
	}
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		switch {
		case wire.HasPrefixFold(b, "MAXSIZE"):
			r := b[len("MAXSIZE"):]
			r, err := wire.ParseSP(r)
			if err != nil {
				return nil, err
			}
			r, n, err := wire.ParseNumber(r, cfg)
			if err != nil {
				return nil, err
			}
			o.MaxSize = &n
			return r, nil
		case wire.HasPrefixFold(b, "DEPTH"):
			r := b[len("DEPTH"):]
			r, err := wire.ParseSP(r)
			if err != nil {
				return nil, err
			}
			switch {
			case wire.HasPrefixFold(r, "infinity"):
				o.Depth = MetadataDepthInfinity
				return r[len("infinity"):], nil
			case len(r) > 0 && r[0] == '0':
				o.Depth = MetadataDepthZero
				return r[1:], nil
			case len(r) > 0 && r[0] == '1':
				o.Depth = MetadataDepthOne
				return r[1:], nil
			case len(r) == 0:
				return nil, wire.ErrIncomplete
			}
			return nil, &wire.SyntaxError{Msg: "invalid DEPTH value", At: 0}
		}
		return nil, &wire.SyntaxError{Msg: "unrecognized GETMETADATA option", At: 0}
	})
	if err != nil {
		return nil, o, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, o, err
	}
	return rest, o, nil
}

// MetadataData is the untagged METADATA response body: either the
// requested entries with their values, or - for an unsolicited change
// notification - just the entry names.
type MetadataData struct {
	// Mailbox is the mailbox the entries belong to; the empty-name
	// server-level form is a Mailbox built from "".
	Mailbox   Mailbox
	HasValues bool
	Entries   []MetadataEntry // HasValues
	Names     []string        // !HasValues
}

func (d MetadataData) Encode(b *wire.Builder) {
	b.Star().Atom("METADATA").SP()
	b.AString(d.Mailbox.WireName(), wire.LiteralSync).SP()
	if !d.HasValues {
		for i, n := range d.Names {
			if i > 0 {
				b.SP()
			}
			b.AString(n, wire.LiteralSync)
		}
		return
	}
	b.List(len(d.Entries)*2, func(i int) {
		e := d.Entries[i/2]
		if i%2 == 0 {
			b.AString(e.Name, wire.LiteralSync)
			return
		}
		if e.Value.IsNil() {
			b.Nil()
			return
		}
		encodeIString(b, e.Value.Value())
	})
}

// ParseMetadataData consumes METADATA's "mailbox (entry value ...)" or
// "mailbox entry-name ..." body.
func ParseMetadataData(b []byte, cfg *wire.Config) ([]byte, MetadataData, error) {
	var d MetadataData
	rest, raw, err := wire.ParseAString(b, cfg)
	if err != nil {
		return nil, d, err
	}
	d.Mailbox, err = MailboxFromWire(raw)
	if err != nil {
		return nil, d, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, d, err
	}
	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, d, err
	}
	if c == '(' {
		d.HasValues = true
		rest, d.Entries, err = parseMetadataEntryValues(rest, cfg)
		if err != nil {
			return nil, d, err
		}
		return rest, d, nil
	}
	for {
		var raw []byte
		rest, raw, err = wire.ParseAString(rest, cfg)
		if err != nil {
			return nil, d, err
		}
		d.Names = append(d.Names, string(raw))
		if len(rest) == 0 || rest[0] != ' ' {
			break
		}
		rest = rest[1:]
	}
	return rest, d, nil
}

func parseMetadataEntryValues(b []byte, cfg *wire.Config) ([]byte, []MetadataEntry, error) {
	var entries []MetadataEntry
	var pending string
	havePending := false
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		if !havePending {
			r, raw, err := wire.ParseAString(b, cfg)
			if err != nil {
				return nil, err
			}
			pending = string(raw)
			havePending = true
			return r, nil
		}
		r, n, err := parseNStringValue(b, cfg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, MetadataEntry{Name: pending, Value: n})
		havePending = false
		return r, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if havePending {
		return nil, nil, &wire.SyntaxError{Msg: "METADATA entry list has odd length", At: 0}
	}
	return rest, entries, nil
}

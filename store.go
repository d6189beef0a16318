package imap

import "github.com/meszmate/imap-codec/wire"

// StoreFlags is a STORE command's flag-update argument: which of the
// three update forms, whether the server should stay silent, and the
// flag list itself.
type StoreFlags struct {
	Type     StoreType
	Response StoreResponse
	Flags    FlagList
}

func (s StoreFlags) Encode(b *wire.Builder) {
	switch s.Type {
	case StoreAdd:
		b.RawString("+")
	case StoreRemove:
		b.RawString("-")
	}
	b.Atom("FLAGS")
	if s.Response == StoreResponseSilent {
		b.Atom(".SILENT")
	}
	b.SP()
	s.Flags.Encode(b)
}

// ParseStoreFlags consumes "[+|-]FLAGS[.SILENT] SP flag-list". The flag
// list's parens are optional on the wire (RFC 3501 store-att-flags), so
// a bare space-separated flag run is accepted too.
func ParseStoreFlags(b []byte, cfg *wire.Config) ([]byte, StoreFlags, error) {
	var s StoreFlags
	rest := b
	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, StoreFlags{}, err
	}
	switch c {
	case '+':
		s.Type = StoreAdd
		rest = rest[1:]
	case '-':
		s.Type = StoreRemove
		rest = rest[1:]
	}
	if len(rest) < len("FLAGS") {
		return nil, StoreFlags{}, wire.ErrIncomplete
	}
	if !wire.HasPrefixFold(rest, "FLAGS") {
		return nil, StoreFlags{}, &wire.SyntaxError{Msg: "expected FLAGS", At: 0}
	}
	rest = rest[len("FLAGS"):]
	if len(rest) == 0 {
		return nil, StoreFlags{}, wire.ErrIncomplete
	}
	if wire.HasPrefixFold(rest, ".SILENT") {
		s.Response = StoreResponseSilent
		rest = rest[len(".SILENT"):]
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, StoreFlags{}, err
	}
	c, err = wire.PeekByte(rest)
	if err != nil {
		return nil, StoreFlags{}, err
	}
	if c == '(' {
		rest, s.Flags, err = ParseFlagList(rest, cfg)
		if err != nil {
			return nil, StoreFlags{}, err
		}
		return rest, s, nil
	}
	var flags []Flag
	for {
		var f Flag
		rest, f, err = ParseFlag(rest)
		if err != nil {
			return nil, StoreFlags{}, err
		}
		flags = append(flags, f)
		if len(rest) == 0 || rest[0] != ' ' {
			break
		}
		rest = rest[1:]
	}
	s.Flags = NewFlagList(flags)
	return rest, s, nil
}

// StoreModifiers carries STORE's optional parenthesized modifier list
// (RFC 7162 UNCHANGEDSINCE).
type StoreModifiers struct {
	// UnchangedSince applies the update only to messages whose
	// mod-sequence is at most this value. Zero means absent.
	UnchangedSince uint64
}

func (m StoreModifiers) encodeSuffix(b *wire.Builder) {
	if m.UnchangedSince != 0 {
		b.RawString("(UNCHANGEDSINCE ").Number64(m.UnchangedSince).RawString(") ")
	}
}

func parseStoreModifiers(b []byte, cfg *wire.Config) ([]byte, StoreModifiers, error) {
	var m StoreModifiers
	if len(b) == 0 {
		return nil, m, wire.ErrIncomplete
	}
	if b[0] != '(' {
		return b, m, nil
	}
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		if !wire.HasPrefixFold(b, "UNCHANGEDSINCE") {
			return nil, &wire.SyntaxError{Msg: "unrecognized STORE modifier", At: 0}
		}
		r := b[len("UNCHANGEDSINCE"):]
		r, err := wire.ParseSP(r)
		if err != nil {
			return nil, err
		}
		r, n, err := wire.ParseNumber64(r, cfg)
		if err != nil {
			return nil, err
		}
		m.UnchangedSince = n
		return r, nil
	})
	if err != nil {
		return nil, m, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, m, err
	}
	return rest, m, nil
}

package imap

import "github.com/meszmate/imap-codec/wire"

// AppendMessage is APPEND's argument list after the mailbox: optional
// flag list, optional internal date, and the message itself as a
// literal (RFC 3501 §6.3.11; a Literal8 when the message was sent with
// the BINARY extension's "~{N}" notation).
type AppendMessage struct {
	Flags []Flag
	// Date is the message's internal date, or nil to let the server
	// assign one.
	Date    *DateTime
	Message IString
}

func (m AppendMessage) encodeSuffix(b *wire.Builder) {
	if len(m.Flags) > 0 {
		b.SP().List(len(m.Flags), func(i int) { m.Flags[i].Encode(b) })
	}
	if m.Date != nil {
		b.SP()
		m.Date.EncodeQuoted(b)
	}
	b.SP()
	encodeIString(b, m.Message)
}

func parseAppendSuffix(b []byte, cfg *wire.Config) ([]byte, AppendMessage, error) {
	var m AppendMessage
	rest, err := wire.ParseSP(b)
	if err != nil {
		return nil, m, err
	}
	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, m, err
	}
	if c == '(' {
		var list FlagList
		rest, list, err = ParseFlagList(rest, cfg)
		if err != nil {
			return nil, m, err
		}
		m.Flags = list.Flags()
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, m, err
		}
		c, err = wire.PeekByte(rest)
		if err != nil {
			return nil, m, err
		}
	}
	if c == '"' {
		var dt DateTime
		rest, dt, err = ParseQuotedDateTime(rest)
		if err != nil {
			return nil, m, err
		}
		m.Date = &dt
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, m, err
		}
	}
	rest, m.Message, err = parseLiteralIString(rest, cfg)
	if err != nil {
		return nil, m, err
	}
	return rest, m, nil
}

// parseLiteralIString consumes a literal (plain or Literal8) into an
// IString, preserving its sync mode and binary marker for round-trip
// fidelity.
func parseLiteralIString(b []byte, cfg *wire.Config) ([]byte, IString, error) {
	c, err := wire.PeekByte(b)
	if err != nil {
		return nil, IString{}, err
	}
	binary := c == '~'
	rest, info, err := wire.ParseLiteralPrefix(b, cfg)
	if err != nil {
		return nil, IString{}, err
	}
	if len(rest) < int(info.Length) {
		return nil, IString{}, &wire.LiteralRequest{Length: info.Length, Mode: info.Mode, Binary: binary}
	}
	data := rest[:info.Length]
	s, err := NewLiteral(data, info.Mode, binary)
	if err != nil {
		return nil, IString{}, err
	}
	return rest[info.Length:], s, nil
}

// encodeIString writes an IString in the representation it was
// constructed with: quoted stays quoted, literal stays a literal of the
// same mode.
func encodeIString(b *wire.Builder, s IString) {
	if s.Kind() == IStringQuoted {
		b.QuotedString(s.String())
		return
	}
	b.Literal(s.Bytes(), s.Mode(), s.Binary())
}

package imap

import "github.com/meszmate/imap-codec/wire"

// Address is a single RFC 2822 address structure within an Envelope: a
// fixed four-tuple of NStrings.
type Address struct {
	Name    NString
	Adl     NString
	Mailbox NString
	Host    NString
}

func (a Address) Encode(b *wire.Builder) {
	b.BeginList()
	encodeNString(b, a.Name)
	b.SP()
	encodeNString(b, a.Adl)
	b.SP()
	encodeNString(b, a.Mailbox)
	b.SP()
	encodeNString(b, a.Host)
	b.EndList()
}

func encodeNString(b *wire.Builder, n NString) {
	if n.IsNil() {
		b.Nil()
		return
	}
	v := n.Value()
	if v.Kind() == IStringLiteral {
		b.Literal(v.Bytes(), v.Mode(), v.Binary())
		return
	}
	b.QuotedString(v.String())
}

// ParseAddress consumes one parenthesized address structure.
func ParseAddress(b []byte, cfg *wire.Config) ([]byte, Address, error) {
	rest, err := wire.ParseByte(b, '(')
	if err != nil {
		return nil, Address{}, err
	}
	var fields [4]NString
	for i := 0; i < 4; i++ {
		if i > 0 {
			rest, err = wire.ParseSP(rest)
			if err != nil {
				return nil, Address{}, err
			}
		}
		r2, raw, isNil, err := wire.ParseNString(rest, cfg)
		if err != nil {
			return nil, Address{}, err
		}
		if isNil {
			fields[i] = Nil()
		} else {
			is, verr := NewQuoted(string(raw))
			if verr != nil {
				// raw may be a literal payload, which need not be UTF-8-safe
				// quoted text; fall back to the literal form unconditionally.
				is, verr = NewLiteral(raw, wire.LiteralSync, false)
				if verr != nil {
					return nil, Address{}, verr
				}
			}
			fields[i] = NewNString(is)
		}
		rest = r2
	}
	rest, err = wire.ParseByte(rest, ')')
	if err != nil {
		return nil, Address{}, err
	}
	return rest, Address{Name: fields[0], Adl: fields[1], Mailbox: fields[2], Host: fields[3]}, nil
}

// Envelope is a message's ENVELOPE fetch item: the parsed RFC 2822
// header fields IMAP surfaces structurally.
type Envelope struct {
	Date      NString
	Subject   NString
	From      []Address
	Sender    []Address
	ReplyTo   []Address
	To        []Address
	Cc        []Address
	Bcc       []Address
	InReplyTo NString
	MessageID NString
}

func (e Envelope) Encode(b *wire.Builder) {
	b.BeginList()
	encodeNString(b, e.Date)
	b.SP()
	encodeNString(b, e.Subject)
	b.SP()
	encodeAddressList(b, e.From)
	b.SP()
	encodeAddressList(b, e.Sender)
	b.SP()
	encodeAddressList(b, e.ReplyTo)
	b.SP()
	encodeAddressList(b, e.To)
	b.SP()
	encodeAddressList(b, e.Cc)
	b.SP()
	encodeAddressList(b, e.Bcc)
	b.SP()
	encodeNString(b, e.InReplyTo)
	b.SP()
	encodeNString(b, e.MessageID)
	b.EndList()
}

func encodeAddressList(b *wire.Builder, addrs []Address) {
	if addrs == nil {
		b.Nil()
		return
	}
	b.List(len(addrs), func(i int) { addrs[i].Encode(b) })
}

func parseAddressList(b []byte, cfg *wire.Config) ([]byte, []Address, error) {
	rest, isNil, err := peekNil(b)
	if err != nil {
		return nil, nil, err
	}
	if isNil {
		return rest, nil, nil
	}
	var out []Address
	rest, err = wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		r, addr, err := ParseAddress(b, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, addr)
		return r, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if out == nil {
		out = []Address{}
	}
	return rest, out, nil
}

func peekNil(b []byte) ([]byte, bool, error) {
	if len(b) >= 3 && wire.EqualFold(b[:3], []byte("NIL")) {
		if len(b) == 3 {
			return nil, false, wire.ErrIncomplete
		}
		if !wire.IsAtomChar(b[3]) {
			return b[3:], true, nil
		}
	}
	return b, false, nil
}

// ParseEnvelope consumes a parenthesized ENVELOPE structure.
func ParseEnvelope(b []byte, cfg *wire.Config) ([]byte, Envelope, error) {
	rest, err := wire.ParseByte(b, '(')
	if err != nil {
		return nil, Envelope{}, err
	}
	date, err := parseNStringField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	subject, err := parseNStringField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	from, err := parseAddrListField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	sender, err := parseAddrListField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	replyTo, err := parseAddrListField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	to, err := parseAddrListField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	cc, err := parseAddrListField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	bcc, err := parseAddrListField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	inReplyTo, err := parseNStringField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	// The last field has no trailing separator; the closing ')' follows
	// directly.
	messageID, err := parseFinalNStringField(&rest, cfg)
	if err != nil {
		return nil, Envelope{}, err
	}
	rest, err = wire.ParseByte(rest, ')')
	if err != nil {
		return nil, Envelope{}, err
	}
	return rest, Envelope{
		Date: date, Subject: subject, From: from, Sender: sender, ReplyTo: replyTo,
		To: to, Cc: cc, Bcc: bcc, InReplyTo: inReplyTo, MessageID: messageID,
	}, nil
}

func parseNStringField(rest *[]byte, cfg *wire.Config) (NString, error) {
	n, err := parseFinalNStringField(rest, cfg)
	if err != nil {
		return NString{}, err
	}
	*rest, err = wire.ParseSP(*rest)
	if err != nil {
		return NString{}, err
	}
	return n, nil
}

func parseFinalNStringField(rest *[]byte, cfg *wire.Config) (NString, error) {
	r2, raw, isNil, err := wire.ParseNString(*rest, cfg)
	if err != nil {
		return NString{}, err
	}
	*rest = r2
	if isNil {
		return Nil(), nil
	}
	is, verr := NewQuoted(string(raw))
	if verr != nil {
		is, verr = NewLiteral(raw, wire.LiteralSync, false)
		if verr != nil {
			return NString{}, verr
		}
	}
	return NewNString(is), nil
}

func parseAddrListField(rest *[]byte, cfg *wire.Config) ([]Address, error) {
	r2, addrs, err := parseAddressList(*rest, cfg)
	if err != nil {
		return nil, err
	}
	*rest, err = wire.ParseSP(r2)
	if err != nil {
		return nil, err
	}
	return addrs, nil
}

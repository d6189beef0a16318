package imap

import "github.com/meszmate/imap-codec/wire"

// ListSelectOptions is LIST's optional leading selection-options list
// (RFC 5258 LIST-EXTENDED §3): which mailboxes the pattern is allowed
// to match, not what's returned about them.
type ListSelectOptions struct {
	Subscribed     bool
	Remote         bool
	RecursiveMatch bool
	SpecialUse     bool
}

func (o ListSelectOptions) empty() bool {
	return !o.Subscribed && !o.Remote && !o.RecursiveMatch && !o.SpecialUse
}

func (o ListSelectOptions) encodePrefix(b *wire.Builder) {
	if o.empty() {
		return
	}
	b.RawString("(")
	first := true
	write := func(s string) {
		if !first {
			b.SP()
		}
		first = false
		b.Atom(s)
	}
	if o.Subscribed {
		write("SUBSCRIBED")
	}
	if o.Remote {
		write("REMOTE")
	}
	if o.RecursiveMatch {
		write("RECURSIVEMATCH")
	}
	if o.SpecialUse {
		write("SPECIAL-USE")
	}
	b.RawString(")").SP()
}

func parseListSelectOptions(b []byte, cfg *wire.Config) ([]byte, ListSelectOptions, error) {
	if len(b) == 0 || b[0] != '(' {
		return b, ListSelectOptions{}, nil
	}
	var opts ListSelectOptions
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		r, tok, err := wire.ParseAtom(b)
		if err != nil {
			return nil, err
		}
		switch {
		case wire.EqualFold(tok, []byte("SUBSCRIBED")):
			opts.Subscribed = true
		case wire.EqualFold(tok, []byte("REMOTE")):
			opts.Remote = true
		case wire.EqualFold(tok, []byte("RECURSIVEMATCH")):
			opts.RecursiveMatch = true
		case wire.EqualFold(tok, []byte("SPECIAL-USE")):
			opts.SpecialUse = true
		}
		return r, nil
	})
	if err != nil {
		return nil, ListSelectOptions{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, ListSelectOptions{}, err
	}
	return rest, opts, nil
}

// ListReturnMetadataOpts is LIST-EXTENDED's METADATA return option
// (RFC 9590), bundling the entry names the client wants surfaced.
type ListReturnMetadataOpts struct {
	Entries []string
}

// ListReturnOptions is LIST's trailing "RETURN (...)" clause: which
// extended data items the server should attach to each LIST response.
type ListReturnOptions struct {
	Subscribed bool
	Children   bool
	SpecialUse bool
	MyRights   bool
	Status     []StatusAttribute
	Metadata   *ListReturnMetadataOpts
}

func (o ListReturnOptions) empty() bool {
	return !o.Subscribed && !o.Children && !o.SpecialUse && !o.MyRights &&
		len(o.Status) == 0 && o.Metadata == nil
}

func (o ListReturnOptions) encodeSuffix(b *wire.Builder) {
	if o.empty() {
		return
	}
	b.SP().Atom("RETURN").SP().RawString("(")
	first := true
	sep := func() {
		if !first {
			b.SP()
		}
		first = false
	}
	if o.Subscribed {
		sep()
		b.Atom("SUBSCRIBED")
	}
	if o.Children {
		sep()
		b.Atom("CHILDREN")
	}
	if o.SpecialUse {
		sep()
		b.Atom("SPECIAL-USE")
	}
	if o.MyRights {
		sep()
		b.Atom("MYRIGHTS")
	}
	if len(o.Status) > 0 {
		sep()
		b.Atom("STATUS").SP().List(len(o.Status), func(i int) { o.Status[i].Encode(b) })
	}
	if o.Metadata != nil {
		sep()
		b.Atom("METADATA").SP().List(len(o.Metadata.Entries), func(i int) { b.AString(o.Metadata.Entries[i], wire.LiteralSync) })
	}
	b.RawString(")")
}

func parseListReturnOptions(b []byte, cfg *wire.Config) ([]byte, ListReturnOptions, error) {
	if !wire.HasPrefixFold(b, " RETURN") {
		return b, ListReturnOptions{}, nil
	}
	rest := b[len(" RETURN"):]
	rest, err := wire.ParseSP(rest)
	if err != nil {
		return nil, ListReturnOptions{}, err
	}
	var opts ListReturnOptions
	rest, err = wire.ParseList(rest, cfg, func(b []byte) ([]byte, error) {
		switch {
		case wire.HasPrefixFold(b, "SUBSCRIBED"):
			opts.Subscribed = true
			return b[len("SUBSCRIBED"):], nil
		case wire.HasPrefixFold(b, "CHILDREN"):
			opts.Children = true
			return b[len("CHILDREN"):], nil
		case wire.HasPrefixFold(b, "SPECIAL-USE"):
			opts.SpecialUse = true
			return b[len("SPECIAL-USE"):], nil
		case wire.HasPrefixFold(b, "MYRIGHTS"):
			opts.MyRights = true
			return b[len("MYRIGHTS"):], nil
		case wire.HasPrefixFold(b, "STATUS"):
			r := b[len("STATUS"):]
			r, err := wire.ParseSP(r)
			if err != nil {
				return nil, err
			}
			r, err = wire.ParseList(r, cfg, func(b []byte) ([]byte, error) {
				rr, item, err := ParseStatusAttribute(b)
				if err != nil {
					return nil, err
				}
				opts.Status = append(opts.Status, item)
				return rr, nil
			})
			return r, err
		case wire.HasPrefixFold(b, "METADATA"):
			r := b[len("METADATA"):]
			r, err := wire.ParseSP(r)
			if err != nil {
				return nil, err
			}
			md := &ListReturnMetadataOpts{}
			c, err := wire.PeekByte(r)
			if err != nil {
				return nil, err
			}
			if c == '(' {
				r, err = wire.ParseList(r, cfg, func(b []byte) ([]byte, error) {
					rr, raw, err := wire.ParseAString(b, cfg)
					if err != nil {
						return nil, err
					}
					md.Entries = append(md.Entries, string(raw))
					return rr, nil
				})
			} else {
				var raw []byte
				r, raw, err = wire.ParseAString(r, cfg)
				md.Entries = []string{string(raw)}
			}
			opts.Metadata = md
			return r, err
		}
		return nil, &wire.SyntaxError{Msg: "unrecognized LIST RETURN option", At: 0}
	})
	return rest, opts, err
}

// ListData is the untagged LIST/LSUB response body.
type ListData struct {
	Attrs    []FlagNameAttribute
	Delim    byte
	HasDelim bool
	Mailbox  Mailbox

	// RFC 5258 extended data items. A requested STATUS return arrives
	// as its own untagged STATUS response, not here.
	OldName   *Mailbox
	ChildInfo []string
}

func (d ListData) Encode(b *wire.Builder, command string) {
	b.Star().Atom(command).SP()
	b.List(len(d.Attrs), func(i int) { d.Attrs[i].Encode(b) })
	b.SP()
	if d.HasDelim {
		b.QuotedString(string(d.Delim))
	} else {
		b.Nil()
	}
	b.SP().AString(d.Mailbox.WireName(), wire.LiteralSync)
	var extended []func()
	if d.OldName != nil {
		on := *d.OldName
		extended = append(extended, func() { b.Atom("OLDNAME").SP().RawString("(").AString(on.WireName(), wire.LiteralSync).RawString(")") })
	}
	if d.ChildInfo != nil {
		extended = append(extended, func() {
			b.Atom("CHILDINFO").SP().List(len(d.ChildInfo), func(i int) { b.AString(d.ChildInfo[i], wire.LiteralSync) })
		})
	}
	if len(extended) > 0 {
		b.SP().RawString("(")
		for i, f := range extended {
			if i > 0 {
				b.SP()
			}
			f()
		}
		b.RawString(")")
	}
}

// ParseListData consumes LIST's mailbox-attrs, delimiter, name, and
// any RFC 5258 extended-data tail.
func ParseListData(b []byte, cfg *wire.Config) ([]byte, ListData, error) {
	// mailbox-list's flag list is "(" [mbx-list-flags] ")": the
	// production itself is non-empty but may be absent entirely, so bare
	// "()" is fine here.
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
		return nil, ListData{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, ListData{}, err
	}
	var d ListData
	d.Attrs = attrs
	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, ListData{}, err
	}
	if c == '"' {
		r, tok, err := wire.ParseQuoted(rest)
		if err != nil {
			return nil, ListData{}, err
		}
		if len(tok) != 1 {
			return nil, ListData{}, &wire.SyntaxError{Msg: "hierarchy delimiter must be one char", At: 0}
		}
		d.Delim = tok[0]
		d.HasDelim = true
		rest = r
	} else {
		r, isNil, err := peekNil(rest)
		if err != nil {
			return nil, ListData{}, err
		}
		if !isNil {
			return nil, ListData{}, &wire.SyntaxError{Msg: "expected quoted delimiter or NIL", At: 0}
		}
		rest = r
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, ListData{}, err
	}
	rest, mbox, err := parseMailboxName(rest, cfg)
	if err != nil {
		return nil, ListData{}, err
	}
	d.Mailbox = mbox
	if len(rest) > 0 && rest[0] == ' ' && len(rest) > 1 && rest[1] == '(' {
		r := rest[2:]
		for {
			switch {
			case wire.HasPrefixFold(r, "OLDNAME"):
				r = r[len("OLDNAME"):]
				r, err = wire.ParseSP(r)
				if err != nil {
					return nil, ListData{}, err
				}
				r, err = wire.ParseByte(r, '(')
				if err != nil {
					return nil, ListData{}, err
				}
				r2, old, err := parseMailboxName(r, cfg)
				if err != nil {
					return nil, ListData{}, err
				}
				d.OldName = &old
				r, err = wire.ParseByte(r2, ')')
				if err != nil {
					return nil, ListData{}, err
				}
			case wire.HasPrefixFold(r, "CHILDINFO"):
				r = r[len("CHILDINFO"):]
				r, err = wire.ParseSP(r)
				if err != nil {
					return nil, ListData{}, err
				}
				r, err = wire.ParseList(r, cfg, func(b []byte) ([]byte, error) {
					rr, raw, err := wire.ParseAString(b, cfg)
					if err != nil {
						return nil, err
					}
					d.ChildInfo = append(d.ChildInfo, string(raw))
					return rr, nil
				})
				if err != nil {
					return nil, ListData{}, err
				}
			default:
				return nil, ListData{}, &wire.SyntaxError{Msg: "unrecognized LIST extended data", At: 0}
			}
			if len(r) > 0 && r[0] == ' ' {
				r = r[1:]
				continue
			}
			break
		}
		rest, err = wire.ParseByte(r, ')')
		if err != nil {
			return nil, ListData{}, err
		}
	}
	return rest, d, nil
}

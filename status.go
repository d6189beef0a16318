package imap

import "github.com/meszmate/imap-codec/wire"

// StatusAttributeKind enumerates the status-att names STATUS, and
// LIST's RETURN (STATUS (...)) option, can request.
type StatusAttributeKind int

const (
	StatusMessages StatusAttributeKind = iota
	StatusUIDNext
	StatusUIDValidity
	StatusUnseen
	StatusRecent
	StatusHighestModSeq
	StatusSize
	StatusMailboxID
	StatusDeleted
)

var statusAttrNames = map[StatusAttributeKind]string{
	StatusMessages:      "MESSAGES",
	StatusUIDNext:       "UIDNEXT",
	StatusUIDValidity:   "UIDVALIDITY",
	StatusUnseen:        "UNSEEN",
	StatusRecent:        "RECENT",
	StatusHighestModSeq: "HIGHESTMODSEQ",
	StatusSize:          "SIZE",
	StatusMailboxID:     "MAILBOXID",
	StatusDeleted:       "DELETED",
}

// StatusAttribute is one entry of STATUS's requested item list.
type StatusAttribute struct {
	Kind StatusAttributeKind
}

func (a StatusAttribute) Encode(b *wire.Builder) { b.Atom(statusAttrNames[a.Kind]) }

// ParseStatusAttribute requires a word boundary after the matched name,
// so "UIDNEXT" and "UIDVALIDITY", which share the "UID" prefix, cannot
// be confused.
func ParseStatusAttribute(b []byte) ([]byte, StatusAttribute, error) {
	order := []StatusAttributeKind{
		StatusHighestModSeq, StatusUIDValidity, StatusUIDNext, StatusMailboxID,
		StatusMessages, StatusUnseen, StatusRecent, StatusSize, StatusDeleted,
	}
	for _, k := range order {
		name := statusAttrNames[k]
		if wire.HasPrefixFold(b, name) && isWordBoundary(b, len(name)) {
			return b[len(name):], StatusAttribute{Kind: k}, nil
		}
	}
	if len(b) < len("HIGHESTMODSEQ") {
		return nil, StatusAttribute{}, wire.ErrIncomplete
	}
	return nil, StatusAttribute{}, &wire.SyntaxError{Msg: "unrecognized status attribute", At: 0}
}

// StatusData is the untagged STATUS response body: the mailbox plus
// whichever attribute values the server chose to report, in the order
// they appear in the response.
type StatusData struct {
	Mailbox Mailbox
	Items   []StatusItem
}

// StatusItem is one (attribute, value) pair of a STATUS response.
type StatusItem struct {
	Attr    StatusAttribute
	Num32   uint32
	Num64   uint64
	IsNum64 bool
}

func (d StatusData) Encode(b *wire.Builder) {
	b.Star().Atom("STATUS").SP().AString(d.Mailbox.WireName(), wire.LiteralSync).SP()
	b.List(len(d.Items)*2, func(i int) {
		item := d.Items[i/2]
		if i%2 == 0 {
			item.Attr.Encode(b)
			return
		}
		if item.IsNum64 {
			b.Number64(item.Num64)
		} else {
			b.Number(item.Num32)
		}
	})
}

// ParseStatusData consumes STATUS's "mailbox (att value ...)" body.
func ParseStatusData(b []byte, cfg *wire.Config) ([]byte, StatusData, error) {
	rest, mbox, err := parseMailboxName(b, cfg)
	if err != nil {
		return nil, StatusData{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, StatusData{}, err
	}
	var items []StatusItem
	rest, err = wire.ParseList(rest, cfg, func(b []byte) ([]byte, error) {
		r, attr, err := ParseStatusAttribute(b)
		if err != nil {
			return nil, err
		}
		r, err = wire.ParseSP(r)
		if err != nil {
			return nil, err
		}
		switch attr.Kind {
		case StatusHighestModSeq:
			r, n, err := wire.ParseNumber64(r, cfg)
			if err != nil {
				return nil, err
			}
			items = append(items, StatusItem{Attr: attr, Num64: n, IsNum64: true})
			return r, nil
		default:
			r, n, err := wire.ParseNumber(r, cfg)
			if err != nil {
				return nil, err
			}
			items = append(items, StatusItem{Attr: attr, Num32: n})
			return r, nil
		}
	})
	if err != nil {
		return nil, StatusData{}, err
	}
	return rest, StatusData{Mailbox: mbox, Items: items}, nil
}

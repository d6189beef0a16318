package imap

import "github.com/meszmate/imap-codec/wire"

// Well-known quota resource names (RFC 2087, RFC 9208). Resources are
// atoms; unknown names round-trip untouched.
const (
	QuotaResourceStorage           = "STORAGE"
	QuotaResourceMessage           = "MESSAGE"
	QuotaResourceMailbox           = "MAILBOX"
	QuotaResourceAnnotationStorage = "ANNOTATION-STORAGE"
)

// QuotaResourceData is one (resource, usage, limit) triple of a QUOTA
// response.
type QuotaResourceData struct {
	Name  Atom
	Usage uint64
	Limit uint64
}

// QuotaLimit is one (resource, limit) pair of a SETQUOTA command.
type QuotaLimit struct {
	Name  Atom
	Limit uint64
}

// QuotaData is the untagged QUOTA response body.
type QuotaData struct {
	Root      string
	Resources []QuotaResourceData
}

func (d QuotaData) Encode(b *wire.Builder) {
	b.Star().Atom("QUOTA").SP().AString(d.Root, wire.LiteralSync).SP()
	b.List(len(d.Resources)*3, func(i int) {
		r := d.Resources[i/3]
		switch i % 3 {
		case 0:
			b.Atom(r.Name.String())
		case 1:
			b.Number64(r.Usage)
		default:
			b.Number64(r.Limit)
		}
	})
}

// ParseQuotaData consumes QUOTA's "root (resource usage limit ...)" body.
func ParseQuotaData(b []byte, cfg *wire.Config) ([]byte, QuotaData, error) {
	var d QuotaData
	rest, raw, err := wire.ParseAString(b, cfg)
	if err != nil {
		return nil, d, err
	}
	d.Root = string(raw)
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, d, err
	}
	pos := 0
	var cur QuotaResourceData
	rest, err = wire.ParseList(rest, cfg, func(b []byte) ([]byte, error) {
		switch pos % 3 {
		case 0:
			r, tok, err := wire.ParseAtom(b)
			if err != nil {
				return nil, err
			}
			a, verr := NewAtom(string(tok))
			if verr != nil {
				return nil, verr
			}
			cur = QuotaResourceData{Name: a}
			pos++
			return r, nil
		case 1:
			r, n, err := wire.ParseNumber64(b, cfg)
			if err != nil {
				return nil, err
			}
			cur.Usage = n
			pos++
			return r, nil
		default:
			r, n, err := wire.ParseNumber64(b, cfg)
			if err != nil {
				return nil, err
			}
			cur.Limit = n
			d.Resources = append(d.Resources, cur)
			pos++
			return r, nil
		}
	})
	if err != nil {
		return nil, d, err
	}
	if pos%3 != 0 {
		return nil, d, &wire.SyntaxError{Msg: "QUOTA resource list not a multiple of three", At: 0}
	}
	return rest, d, nil
}

// QuotaRootData is the untagged QUOTAROOT response body: the mailbox and
// the quota roots that apply to it.
type QuotaRootData struct {
	Mailbox Mailbox
	Roots   []string
}

func (d QuotaRootData) Encode(b *wire.Builder) {
	b.Star().Atom("QUOTAROOT").SP()
	d.Mailbox.Encode(b)
	for _, root := range d.Roots {
		b.SP().AString(root, wire.LiteralSync)
	}
}

// ParseQuotaRootData consumes QUOTAROOT's "mailbox *(SP root)" body.
func ParseQuotaRootData(b []byte, cfg *wire.Config) ([]byte, QuotaRootData, error) {
	var d QuotaRootData
	rest, mbox, err := parseMailboxName(b, cfg)
	if err != nil {
		return nil, d, err
	}
	d.Mailbox = mbox
	for len(rest) > 0 && rest[0] == ' ' {
		var raw []byte
		rest, raw, err = wire.ParseAString(rest[1:], cfg)
		if err != nil {
			return nil, d, err
		}
		d.Roots = append(d.Roots, string(raw))
	}
	return rest, d, nil
}

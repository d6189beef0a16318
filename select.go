package imap

import "github.com/meszmate/imap-codec/wire"

// SelectParams carries SELECT/EXAMINE's optional CONDSTORE and QRESYNC
// extension arguments (RFC 7162 §3.1.1, §3.2.5).
type SelectParams struct {
	CondStore bool
	QResync   *QResyncParams
}

// QResyncParams is QRESYNC's parenthesized argument list.
type QResyncParams struct {
	UIDValidity uint32
	ModSeq      uint64
	KnownUIDs   *SequenceSet
	SeqMatch    *QResyncSeqMatch
}

// QResyncSeqMatch pairs a known sequence-number set with the UID set
// it corresponds to, QRESYNC's optional fourth argument.
type QResyncSeqMatch struct {
	KnownSeqSet SequenceSet
	KnownUIDSet SequenceSet
}

func (p SelectParams) encodeSuffix(b *wire.Builder) {
	if p.QResync != nil {
		b.SP().RawString("(QRESYNC (")
		b.Number(p.QResync.UIDValidity).SP().Number64(p.QResync.ModSeq)
		if p.QResync.KnownUIDs != nil {
			b.SP()
			p.QResync.KnownUIDs.Encode(b)
			if p.QResync.SeqMatch != nil {
				b.SP().RawString("(")
				p.QResync.SeqMatch.KnownSeqSet.Encode(b)
				b.SP()
				p.QResync.SeqMatch.KnownUIDSet.Encode(b)
				b.RawString(")")
			}
		}
		b.RawString("))")
		return
	}
	if p.CondStore {
		b.SP().RawString("(CONDSTORE)")
	}
}

func parseSelectParamsSuffix(b []byte, cfg *wire.Config) ([]byte, SelectParams, error) {
	if len(b) == 0 || b[0] != ' ' {
		return b, SelectParams{}, nil
	}
	switch {
	case wire.HasPrefixFold(b[1:], "(CONDSTORE)"):
		return b[1+len("(CONDSTORE)"):], SelectParams{CondStore: true}, nil
	case wire.HasPrefixFold(b[1:], "(QRESYNC"):
		rest := b[1+len("(QRESYNC"):]
		rest, err := wire.ParseSP(rest)
		if err != nil {
			return nil, SelectParams{}, err
		}
		rest, err = wire.ParseByte(rest, '(')
		if err != nil {
			return nil, SelectParams{}, err
		}
		rest, uidValidity, err := wire.ParseNZNumber(rest, cfg)
		if err != nil {
			return nil, SelectParams{}, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, SelectParams{}, err
		}
		rest, modSeq, err := wire.ParseNumber64(rest, cfg)
		if err != nil {
			return nil, SelectParams{}, err
		}
		q := &QResyncParams{UIDValidity: uidValidity, ModSeq: modSeq}
		if len(rest) > 0 && rest[0] == ' ' {
			r2, set, err := ParseSequenceSet(rest[1:], cfg)
			if err != nil {
				return nil, SelectParams{}, err
			}
			q.KnownUIDs = &set
			rest = r2
			if len(rest) > 0 && rest[0] == ' ' {
				r3, err := wire.ParseByte(rest[1:], '(')
				if err != nil {
					return nil, SelectParams{}, err
				}
				r3, seqSet, err := ParseSequenceSet(r3, cfg)
				if err != nil {
					return nil, SelectParams{}, err
				}
				r3, err = wire.ParseSP(r3)
				if err != nil {
					return nil, SelectParams{}, err
				}
				r3, uidSet, err := ParseSequenceSet(r3, cfg)
				if err != nil {
					return nil, SelectParams{}, err
				}
				r3, err = wire.ParseByte(r3, ')')
				if err != nil {
					return nil, SelectParams{}, err
				}
				q.SeqMatch = &QResyncSeqMatch{KnownSeqSet: seqSet, KnownUIDSet: uidSet}
				rest = r3
			}
		}
		rest, err = wire.ParseByte(rest, ')')
		if err != nil {
			return nil, SelectParams{}, err
		}
		rest, err = wire.ParseByte(rest, ')')
		if err != nil {
			return nil, SelectParams{}, err
		}
		return rest, SelectParams{QResync: q}, nil
	}
	return b, SelectParams{}, nil
}

// SelectData is the set of untagged responses a successful SELECT or
// EXAMINE produces, gathered into one value for callers that want the
// whole mailbox-open result rather than the individual Data values.
type SelectData struct {
	Flags          []Flag
	PermanentFlags []FlagPerm
	Exists         uint32
	Recent         uint32
	UIDNext        uint32
	UIDValidity    uint32
	FirstUnseen    uint32
	HighestModSeq  uint64
	ReadOnly       bool
	MailboxID      string
}

// Absorb folds one untagged response of a SELECT/EXAMINE exchange into
// the aggregate. Responses that carry no mailbox-open state are ignored,
// so a client can feed it everything it reads until the tagged OK.
func (d *SelectData) Absorb(r Response) {
	switch r.Kind {
	case ResponseData:
		switch r.Data.Kind {
		case DataFlags:
			d.Flags = r.Data.Flags.Flags()
		case DataExists:
			d.Exists = r.Data.Number
		case DataRecent:
			d.Recent = r.Data.Number
		}
	case ResponseStatus:
		if r.Status.Code == nil {
			return
		}
		switch c := r.Status.Code; c.Kind {
		case CodePermanentFlags:
			d.PermanentFlags = c.PermFlags
		case CodeUIDNext:
			d.UIDNext = c.Number
		case CodeUIDValidity:
			d.UIDValidity = c.Number
		case CodeUnseen:
			d.FirstUnseen = c.Number
		case CodeHighestModSeq:
			d.HighestModSeq = c.Number64
		case CodeReadOnly:
			d.ReadOnly = true
		case CodeReadWrite:
			d.ReadOnly = false
		case CodeMailboxID:
			d.MailboxID = c.MailboxID
		}
	}
}

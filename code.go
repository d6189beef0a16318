package imap

import "github.com/meszmate/imap-codec/wire"

// CodeKind enumerates Code's variants.
type CodeKind int

const (
	CodeAlert CodeKind = iota
	CodeBadCharset
	CodeCapability
	CodeParse
	CodePermanentFlags
	CodeReadOnly
	CodeReadWrite
	CodeTryCreate
	CodeUIDNext
	CodeUIDValidity
	CodeUnseen
	CodeAppendUID
	CodeCopyUID
	CodeUIDNotSticky
	CodeHighestModSeq
	CodeModified
	CodeNoModSeq
	CodeClosed
	CodeOverQuota
	CodeAlreadyExists
	CodeNonExistent
	CodeMetadataLongEntries
	CodeMetadataMaxSize
	CodeMetadataTooMany
	CodeMetadataNoPrivate
	CodeNotSaved
	CodeUseAttr
	CodeMailboxID
	CodeOther
)

var codeNames = map[CodeKind]string{
	CodeAlert: "ALERT", CodeParse: "PARSE", CodeReadOnly: "READ-ONLY",
	CodeReadWrite: "READ-WRITE", CodeTryCreate: "TRYCREATE",
	CodeUIDNotSticky: "UIDNOTSTICKY", CodeNoModSeq: "NOMODSEQ",
	CodeClosed: "CLOSED", CodeOverQuota: "OVERQUOTA",
	CodeAlreadyExists: "ALREADYEXISTS", CodeNonExistent: "NONEXISTENT",
	CodeNotSaved: "NOTSAVED", CodeUseAttr: "USEATTR",
}

// Code is an IMAP response code: the bracketed token in a status
// response's text, e.g. "[ALERT]" or "[UIDVALIDITY 3857529045]".
// Only the fields relevant to Kind are meaningful.
type Code struct {
	Kind CodeKind

	Charsets   []Charset    // BadCharset
	Capability []Capability // Capability
	PermFlags  []FlagPerm   // PermanentFlags (may include the "\*" wildcard)
	Number     uint32       // UIDNext, UIDValidity, Unseen, MetadataLongEntries/MaxSize
	Number64   uint64       // HighestModSeq
	AppendUID  AppendUIDArg // AppendUID
	CopyUID    CopyUIDArg   // CopyUID
	Modified   SequenceSet  // Modified
	MailboxID  string       // MailboxID (astring content)
	Other      Atom         // Other
	OtherText  *Text        // Other's optional trailing text argument
}

// AppendUIDArg is APPENDUID's argument: uidvalidity and the UID assigned
// to the appended message.
type AppendUIDArg struct {
	UIDValidity uint32
	UID         SeqOrUid
}

// CopyUIDArg is COPYUID's argument: uidvalidity plus the source and
// destination UID sets, positionally paired.
type CopyUIDArg struct {
	UIDValidity uint32
	Source      SequenceSet
	Dest        SequenceSet
}

func (c Code) Encode(b *wire.Builder) {
	if name, ok := codeNames[c.Kind]; ok {
		b.Atom(name)
		return
	}
	switch c.Kind {
	case CodeBadCharset:
		b.Atom("BADCHARSET")
		if len(c.Charsets) > 0 {
			b.SP()
			b.List(len(c.Charsets), func(i int) { b.Atom(c.Charsets[i].String()) })
		}
	case CodeCapability:
		b.Atom("CAPABILITY")
		for _, cap := range c.Capability {
			b.SP()
			cap.Encode(b)
		}
	case CodePermanentFlags:
		b.Atom("PERMANENTFLAGS")
		b.SP()
		b.List(len(c.PermFlags), func(i int) { c.PermFlags[i].Encode(b) })
	case CodeUIDNext:
		b.Atom("UIDNEXT").SP().Number(c.Number)
	case CodeUIDValidity:
		b.Atom("UIDVALIDITY").SP().Number(c.Number)
	case CodeUnseen:
		b.Atom("UNSEEN").SP().Number(c.Number)
	case CodeAppendUID:
		b.Atom("APPENDUID").SP().Number(c.AppendUID.UIDValidity).SP()
		c.AppendUID.UID.Encode(b)
	case CodeCopyUID:
		b.Atom("COPYUID").SP().Number(c.CopyUID.UIDValidity).SP()
		c.CopyUID.Source.Encode(b)
		b.SP()
		c.CopyUID.Dest.Encode(b)
	case CodeHighestModSeq:
		b.Atom("HIGHESTMODSEQ").SP().Number64(c.Number64)
	case CodeModified:
		b.Atom("MODIFIED").SP()
		c.Modified.Encode(b)
	case CodeMetadataLongEntries:
		b.Atom("METADATA").SP().Atom("LONGENTRIES").SP().Number(c.Number)
	case CodeMetadataMaxSize:
		b.Atom("METADATA").SP().Atom("MAXSIZE").SP().Number(c.Number)
	case CodeMetadataTooMany:
		b.Atom("METADATA").SP().Atom("TOOMANY")
	case CodeMetadataNoPrivate:
		b.Atom("METADATA").SP().Atom("NOPRIVATE")
	case CodeMailboxID:
		b.Atom("MAILBOXID").SP().RawString("(").String(c.MailboxID, wire.LiteralSync).RawString(")")
	case CodeOther:
		b.Atom(c.Other.String())
		if c.OtherText != nil {
			b.SP().RawString(c.OtherText.String())
		}
	default:
		b.Atom(codeNames[c.Kind])
	}
}

// ParseCode consumes the body of a response code (the text between the
// enclosing '[' and ']', which the caller strips).
func ParseCode(b []byte, cfg *wire.Config) ([]byte, Code, error) {
	rest, tok, err := wire.ParseAtom(b)
	if err != nil {
		return nil, Code{}, err
	}
	name := string(tok)
	switch {
	case wire.EqualFold(tok, []byte("ALERT")):
		return rest, Code{Kind: CodeAlert}, nil
	case wire.EqualFold(tok, []byte("PARSE")):
		return rest, Code{Kind: CodeParse}, nil
	case wire.EqualFold(tok, []byte("READ-ONLY")):
		return rest, Code{Kind: CodeReadOnly}, nil
	case wire.EqualFold(tok, []byte("READ-WRITE")):
		return rest, Code{Kind: CodeReadWrite}, nil
	case wire.EqualFold(tok, []byte("TRYCREATE")):
		return rest, Code{Kind: CodeTryCreate}, nil
	case wire.EqualFold(tok, []byte("UIDNOTSTICKY")):
		return rest, Code{Kind: CodeUIDNotSticky}, nil
	case wire.EqualFold(tok, []byte("NOMODSEQ")):
		return rest, Code{Kind: CodeNoModSeq}, nil
	case wire.EqualFold(tok, []byte("CLOSED")):
		return rest, Code{Kind: CodeClosed}, nil
	case wire.EqualFold(tok, []byte("OVERQUOTA")):
		return rest, Code{Kind: CodeOverQuota}, nil
	case wire.EqualFold(tok, []byte("ALREADYEXISTS")):
		return rest, Code{Kind: CodeAlreadyExists}, nil
	case wire.EqualFold(tok, []byte("NONEXISTENT")):
		return rest, Code{Kind: CodeNonExistent}, nil
	case wire.EqualFold(tok, []byte("NOTSAVED")):
		return rest, Code{Kind: CodeNotSaved}, nil
	case wire.EqualFold(tok, []byte("USEATTR")):
		return rest, Code{Kind: CodeUseAttr}, nil
	case wire.EqualFold(tok, []byte("BADCHARSET")):
		return parseBadCharsetCode(rest, cfg)
	case wire.EqualFold(tok, []byte("CAPABILITY")):
		return parseCapabilityCode(rest, cfg)
	case wire.EqualFold(tok, []byte("PERMANENTFLAGS")):
		return parsePermanentFlagsCode(rest, cfg)
	case wire.EqualFold(tok, []byte("UIDNEXT")):
		return parseNumberCode(rest, cfg, CodeUIDNext)
	case wire.EqualFold(tok, []byte("UIDVALIDITY")):
		return parseNumberCode(rest, cfg, CodeUIDValidity)
	case wire.EqualFold(tok, []byte("UNSEEN")):
		return parseNumberCode(rest, cfg, CodeUnseen)
	case wire.EqualFold(tok, []byte("HIGHESTMODSEQ")):
		return parseNumber64Code(rest, cfg)
	case wire.EqualFold(tok, []byte("MODIFIED")):
		return parseModifiedCode(rest, cfg)
	case wire.EqualFold(tok, []byte("APPENDUID")):
		return parseAppendUIDCode(rest, cfg)
	case wire.EqualFold(tok, []byte("COPYUID")):
		return parseCopyUIDCode(rest, cfg)
	case wire.EqualFold(tok, []byte("MAILBOXID")):
		return parseMailboxIDCode(rest, cfg)
	case wire.EqualFold(tok, []byte("METADATA")):
		return parseMetadataCode(rest, cfg)
	default:
		a, verr := NewAtom(name)
		if verr != nil {
			return nil, Code{}, verr
		}
		if len(rest) == 0 {
			return nil, Code{}, wire.ErrIncomplete
		}
		if rest[0] != ' ' {
			return rest, Code{Kind: CodeOther, Other: a}, nil
		}
		// The argument runs to the closing ']' and may contain spaces.
		i := 1
		for i < len(rest) && rest[i] != ']' && rest[i] != '\r' && rest[i] != '\n' {
			i++
		}
		if i == len(rest) {
			return nil, Code{}, wire.ErrIncomplete
		}
		if rest[i] != ']' {
			return nil, Code{}, &wire.SyntaxError{Msg: "unterminated response code", At: i}
		}
		txt, verr := NewText(string(rest[1:i]))
		if verr != nil {
			return nil, Code{}, verr
		}
		return rest[i:], Code{Kind: CodeOther, Other: a, OtherText: &txt}, nil
	}
}

func parseBadCharsetCode(rest []byte, cfg *wire.Config) ([]byte, Code, error) {
	if len(rest) == 0 || rest[0] != ' ' {
		return rest, Code{Kind: CodeBadCharset}, nil
	}
	var charsets []Charset
	r2, err := wire.ParseList(rest[1:], cfg, func(b []byte) ([]byte, error) {
		r, tok, err := wire.ParseAString(b, cfg)
		if err != nil {
			return nil, err
		}
		cs, verr := NewCharset(string(tok))
		if verr != nil {
			return nil, verr
		}
		charsets = append(charsets, cs)
		return r, nil
	})
	if err != nil {
		return nil, Code{}, err
	}
	return r2, Code{Kind: CodeBadCharset, Charsets: charsets}, nil
}

func parseCapabilityCode(rest []byte, cfg *wire.Config) ([]byte, Code, error) {
	var caps []Capability
	r := rest
	for len(r) > 0 && r[0] == ' ' {
		r2, tok, err := wire.ParseAtom(r[1:])
		if err != nil {
			return nil, Code{}, err
		}
		a, verr := NewAtom(string(tok))
		if verr != nil {
			return nil, Code{}, verr
		}
		caps = append(caps, CapabilityFromAtom(a))
		r = r2
	}
	return r, Code{Kind: CodeCapability, Capability: caps}, nil
}

func parsePermanentFlagsCode(rest []byte, cfg *wire.Config) ([]byte, Code, error) {
	r, err := wire.ParseSP(rest)
	if err != nil {
		return nil, Code{}, err
	}
	var flags []FlagPerm
	r2, err := wire.ParseList(r, cfg, func(b []byte) ([]byte, error) {
		rr, fp, err := ParseFlagPerm(b)
		if err != nil {
			return nil, err
		}
		flags = append(flags, fp)
		return rr, nil
	})
	if err != nil {
		return nil, Code{}, err
	}
	return r2, Code{Kind: CodePermanentFlags, PermFlags: flags}, nil
}

func parseNumberCode(rest []byte, cfg *wire.Config, kind CodeKind) ([]byte, Code, error) {
	r, err := wire.ParseSP(rest)
	if err != nil {
		return nil, Code{}, err
	}
	r2, n, err := wire.ParseNumber(r, cfg)
	if err != nil {
		return nil, Code{}, err
	}
	return r2, Code{Kind: kind, Number: n}, nil
}

func parseNumber64Code(rest []byte, cfg *wire.Config) ([]byte, Code, error) {
	r, err := wire.ParseSP(rest)
	if err != nil {
		return nil, Code{}, err
	}
	r2, n, err := wire.ParseNumber64(r, cfg)
	if err != nil {
		return nil, Code{}, err
	}
	return r2, Code{Kind: CodeHighestModSeq, Number64: n}, nil
}

func parseModifiedCode(rest []byte, cfg *wire.Config) ([]byte, Code, error) {
	r, err := wire.ParseSP(rest)
	if err != nil {
		return nil, Code{}, err
	}
	r2, set, err := ParseSequenceSet(r, cfg)
	if err != nil {
		return nil, Code{}, err
	}
	return r2, Code{Kind: CodeModified, Modified: set}, nil
}

func parseAppendUIDCode(rest []byte, cfg *wire.Config) ([]byte, Code, error) {
	r, err := wire.ParseSP(rest)
	if err != nil {
		return nil, Code{}, err
	}
	r, uidValidity, err := wire.ParseNumber(r, cfg)
	if err != nil {
		return nil, Code{}, err
	}
	r, err = wire.ParseSP(r)
	if err != nil {
		return nil, Code{}, err
	}
	r, uid, err := ParseSeqOrUid(r, cfg)
	if err != nil {
		return nil, Code{}, err
	}
	return r, Code{Kind: CodeAppendUID, AppendUID: AppendUIDArg{UIDValidity: uidValidity, UID: uid}}, nil
}

func parseCopyUIDCode(rest []byte, cfg *wire.Config) ([]byte, Code, error) {
	r, err := wire.ParseSP(rest)
	if err != nil {
		return nil, Code{}, err
	}
	r, uidValidity, err := wire.ParseNumber(r, cfg)
	if err != nil {
		return nil, Code{}, err
	}
	r, err = wire.ParseSP(r)
	if err != nil {
		return nil, Code{}, err
	}
	r, src, err := ParseSequenceSet(r, cfg)
	if err != nil {
		return nil, Code{}, err
	}
	r, err = wire.ParseSP(r)
	if err != nil {
		return nil, Code{}, err
	}
	r, dst, err := ParseSequenceSet(r, cfg)
	if err != nil {
		return nil, Code{}, err
	}
	return r, Code{Kind: CodeCopyUID, CopyUID: CopyUIDArg{UIDValidity: uidValidity, Source: src, Dest: dst}}, nil
}

func parseMailboxIDCode(rest []byte, cfg *wire.Config) ([]byte, Code, error) {
	r, err := wire.ParseSP(rest)
	if err != nil {
		return nil, Code{}, err
	}
	r, err = wire.ParseByte(r, '(')
	if err != nil {
		return nil, Code{}, err
	}
	r, tok, err := wire.ParseAString(r, cfg)
	if err != nil {
		return nil, Code{}, err
	}
	r, err = wire.ParseByte(r, ')')
	if err != nil {
		return nil, Code{}, err
	}
	return r, Code{Kind: CodeMailboxID, MailboxID: string(tok)}, nil
}

func parseMetadataCode(rest []byte, cfg *wire.Config) ([]byte, Code, error) {
	r, err := wire.ParseSP(rest)
	if err != nil {
		return nil, Code{}, err
	}
	r2, tok, err := wire.ParseAtom(r)
	if err != nil {
		return nil, Code{}, err
	}
	switch {
	case wire.EqualFold(tok, []byte("LONGENTRIES")):
		r3, err := wire.ParseSP(r2)
		if err != nil {
			return nil, Code{}, err
		}
		r4, n, err := wire.ParseNumber(r3, cfg)
		if err != nil {
			return nil, Code{}, err
		}
		return r4, Code{Kind: CodeMetadataLongEntries, Number: n}, nil
	case wire.EqualFold(tok, []byte("MAXSIZE")):
		r3, err := wire.ParseSP(r2)
		if err != nil {
			return nil, Code{}, err
		}
		r4, n, err := wire.ParseNumber(r3, cfg)
		if err != nil {
			return nil, Code{}, err
		}
		return r4, Code{Kind: CodeMetadataMaxSize, Number: n}, nil
	case wire.EqualFold(tok, []byte("TOOMANY")):
		return r2, Code{Kind: CodeMetadataTooMany}, nil
	case wire.EqualFold(tok, []byte("NOPRIVATE")):
		return r2, Code{Kind: CodeMetadataNoPrivate}, nil
	default:
		return nil, Code{}, &wire.SyntaxError{Msg: "unknown METADATA response code", At: 0}
	}
}

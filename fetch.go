package imap

import "github.com/meszmate/imap-codec/wire"

// SectionPart is a MIME part-specifier: a dot-separated chain of
// nz-numbers, e.g. "1.2.3".
type SectionPart []uint32

func (p SectionPart) Encode(b *wire.Builder) {
	for i, n := range p {
		if i > 0 {
			b.RawString(".")
		}
		b.Number(n)
	}
}

func parseSectionPart(b []byte, cfg *wire.Config) ([]byte, SectionPart, error) {
	var part SectionPart
	rest := b
	for {
		c, err := wire.PeekByte(rest)
		if err != nil || c < '0' || c > '9' {
			break
		}
		var n uint32
		rest, n, err = wire.ParseNZNumber(rest, cfg)
		if err != nil {
			return nil, nil, err
		}
		part = append(part, n)
		c2, err2 := wire.PeekByte(rest)
		if err2 != nil || c2 != '.' {
			break
		}
		// Only consume the '.' if another number follows; otherwise it
		// belongs to a trailing section-text specifier like "1.HEADER".
		if len(rest) < 2 {
			return nil, nil, wire.ErrIncomplete
		}
		if rest[1] < '0' || rest[1] > '9' {
			break
		}
		rest = rest[1:]
	}
	return rest, part, nil
}

// SectionTextKind is the trailing text-specifier of a section.
type SectionTextKind int

const (
	SectionTextNone SectionTextKind = iota
	SectionTextHeader
	SectionTextHeaderFields
	SectionTextHeaderFieldsNot
	SectionTextText
	SectionTextMime
)

// SectionText is a section's optional trailing specifier, e.g. "HEADER"
// or "HEADER.FIELDS (SUBJECT TO)".
type SectionText struct {
	Kind   SectionTextKind
	Fields []AString // only meaningful for HeaderFields/HeaderFieldsNot
}

func (t SectionText) Encode(b *wire.Builder) {
	switch t.Kind {
	case SectionTextHeader:
		b.Atom("HEADER")
	case SectionTextHeaderFields:
		b.Atom("HEADER.FIELDS").SP()
		encodeHeaderList(b, t.Fields)
	case SectionTextHeaderFieldsNot:
		b.Atom("HEADER.FIELDS.NOT").SP()
		encodeHeaderList(b, t.Fields)
	case SectionTextText:
		b.Atom("TEXT")
	case SectionTextMime:
		b.Atom("MIME")
	}
}

func encodeHeaderList(b *wire.Builder, fields []AString) {
	b.List(len(fields), func(i int) { encodeAString(b, fields[i]) })
}

func encodeAString(b *wire.Builder, a AString) {
	if a.IsAtom() {
		b.Atom(a.AsAtom().String())
		return
	}
	s := a.AsIString()
	if s.Kind() == IStringLiteral {
		b.Literal(s.Bytes(), s.Mode(), s.Binary())
		return
	}
	b.QuotedString(s.String())
}

// Section is a BODY/BINARY section-spec: an optional MIME part chain
// followed by an optional trailing text specifier.
type Section struct {
	Part SectionPart
	Text SectionText // Kind == SectionTextNone when the part names the whole part
}

func (s Section) Encode(b *wire.Builder) {
	s.Part.Encode(b)
	if s.Text.Kind != SectionTextNone {
		if len(s.Part) > 0 {
			b.RawString(".")
		}
		s.Text.Encode(b)
	}
}

// ParseSection consumes the contents of "BODY[...]"/"BINARY[...]",
// without the surrounding brackets.
func ParseSection(b []byte, cfg *wire.Config) ([]byte, Section, error) {
	rest, part, err := parseSectionPart(b, cfg)
	if err != nil {
		return nil, Section{}, err
	}
	if len(part) > 0 {
		c, err := wire.PeekByte(rest)
		if err == nil && c == '.' {
			rest = rest[1:]
		} else {
			return rest, Section{Part: part}, nil
		}
	}
	c, err := wire.PeekByte(rest)
	if err != nil {
		if len(part) > 0 {
			return rest, Section{Part: part}, nil
		}
		return nil, Section{}, err
	}
	if c != 'H' && c != 'h' && c != 'T' && c != 't' && c != 'M' && c != 'm' {
		return rest, Section{Part: part}, nil
	}
	switch {
	case wire.HasPrefixFold(rest, "HEADER.FIELDS.NOT"):
		rest = rest[len("HEADER.FIELDS.NOT"):]
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, Section{}, err
		}
		rest, fields, err := parseHeaderList(rest, cfg)
		if err != nil {
			return nil, Section{}, err
		}
		return rest, Section{Part: part, Text: SectionText{Kind: SectionTextHeaderFieldsNot, Fields: fields}}, nil
	case wire.HasPrefixFold(rest, "HEADER.FIELDS"):
		rest = rest[len("HEADER.FIELDS"):]
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, Section{}, err
		}
		rest, fields, err := parseHeaderList(rest, cfg)
		if err != nil {
			return nil, Section{}, err
		}
		return rest, Section{Part: part, Text: SectionText{Kind: SectionTextHeaderFields, Fields: fields}}, nil
	case wire.HasPrefixFold(rest, "HEADER"):
		return rest[len("HEADER"):], Section{Part: part, Text: SectionText{Kind: SectionTextHeader}}, nil
	case wire.HasPrefixFold(rest, "TEXT"):
		return rest[len("TEXT"):], Section{Part: part, Text: SectionText{Kind: SectionTextText}}, nil
	case wire.HasPrefixFold(rest, "MIME"):
		return rest[len("MIME"):], Section{Part: part, Text: SectionText{Kind: SectionTextMime}}, nil
	}
	return rest, Section{Part: part}, nil
}

func parseHeaderList(b []byte, cfg *wire.Config) ([]byte, []AString, error) {
	var out []AString
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		r, a, err := parseAStringValue(b, cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
		return r, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if len(out) == 0 {
		return nil, nil, errNotEnough("header-list", 1)
	}
	return rest, out, nil
}

// SectionPartial is a fetch item's "<offset.count>" suffix. Count is
// non-zero by construction.
type SectionPartial struct {
	Offset uint32
	Count  uint32
}

// NewSectionPartial validates count != 0.
func NewSectionPartial(offset, count uint32) (SectionPartial, error) {
	if count == 0 {
		return SectionPartial{}, errInvalid("SectionPartial", "count must be non-zero")
	}
	return SectionPartial{Offset: offset, Count: count}, nil
}

func (p SectionPartial) Encode(b *wire.Builder) {
	b.RawString("<")
	b.Number(p.Offset)
	b.RawString(".")
	b.Number(p.Count)
	b.RawString(">")
}

func parseSectionPartial(b []byte, cfg *wire.Config) ([]byte, *SectionPartial, error) {
	c, err := wire.PeekByte(b)
	if err != nil || c != '<' {
		if err != nil {
			return nil, nil, err
		}
		return b, nil, nil
	}
	rest := b[1:]
	rest, offset, err := wire.ParseNumber(rest, cfg)
	if err != nil {
		return nil, nil, err
	}
	rest, err = wire.ParseByte(rest, '.')
	if err != nil {
		return nil, nil, err
	}
	rest, count, err := wire.ParseNZNumber(rest, cfg)
	if err != nil {
		return nil, nil, err
	}
	rest, err = wire.ParseByte(rest, '>')
	if err != nil {
		return nil, nil, err
	}
	p, verr := NewSectionPartial(offset, count)
	if verr != nil {
		return nil, nil, verr
	}
	return rest, &p, nil
}

// FetchAttributeKind enumerates every FETCH data-item name a command can
// request.
type FetchAttributeKind int

const (
	FetchEnvelope FetchAttributeKind = iota
	FetchFlags
	FetchInternalDate
	FetchRFC822Size
	FetchUID
	FetchBodyStructure  // BODY (non-extensible)
	FetchBodyStructExt  // BODYSTRUCTURE
	FetchBodySection    // BODY[section]<partial>
	FetchRFC822
	FetchRFC822Header
	FetchRFC822Text
	FetchBinarySection     // BINARY[part]<partial>
	FetchBinarySizeSection // BINARY.SIZE[part]
	FetchModSeq            // CONDSTORE
	FetchPreview           // RFC 8970
	FetchSaveDate          // RFC 8514
	FetchEmailID           // RFC 8474
	FetchThreadID          // RFC 8474
)

// FetchAttribute is one item of a FETCH command's data-item list.
type FetchAttribute struct {
	Kind FetchAttributeKind

	// Section/BinarySection/BinarySizeSection
	Section *Section
	Part    SectionPart

	Peek        bool
	Partial     *SectionPartial
	PreviewLazy bool // FetchPreview's "(LAZY)" modifier
}

func (a FetchAttribute) Encode(b *wire.Builder) {
	switch a.Kind {
	case FetchEnvelope:
		b.Atom("ENVELOPE")
	case FetchFlags:
		b.Atom("FLAGS")
	case FetchInternalDate:
		b.Atom("INTERNALDATE")
	case FetchRFC822Size:
		b.Atom("RFC822.SIZE")
	case FetchUID:
		b.Atom("UID")
	case FetchBodyStructure:
		b.Atom("BODY")
	case FetchBodyStructExt:
		b.Atom("BODYSTRUCTURE")
	case FetchRFC822:
		b.Atom("RFC822")
	case FetchRFC822Header:
		b.Atom("RFC822.HEADER")
	case FetchRFC822Text:
		b.Atom("RFC822.TEXT")
	case FetchModSeq:
		b.Atom("MODSEQ")
	case FetchSaveDate:
		b.Atom("SAVEDATE")
	case FetchEmailID:
		b.Atom("EMAILID")
	case FetchThreadID:
		b.Atom("THREADID")
	case FetchPreview:
		if a.Peek {
			b.Atom("PREVIEW").SP().Atom("(LAZY)")
		} else {
			b.Atom("PREVIEW")
		}
	case FetchBodySection:
		if a.Peek {
			b.Atom("BODY.PEEK")
		} else {
			b.Atom("BODY")
		}
		b.RawString("[")
		if a.Section != nil {
			a.Section.Encode(b)
		}
		b.RawString("]")
		if a.Partial != nil {
			a.Partial.Encode(b)
		}
	case FetchBinarySection:
		if a.Peek {
			b.Atom("BINARY.PEEK")
		} else {
			b.Atom("BINARY")
		}
		b.RawString("[")
		a.Part.Encode(b)
		b.RawString("]")
		if a.Partial != nil {
			a.Partial.Encode(b)
		}
	case FetchBinarySizeSection:
		b.Atom("BINARY.SIZE")
		b.RawString("[")
		a.Part.Encode(b)
		b.RawString("]")
	}
}

// ParseFetchAttribute consumes one data-item, resolving the ambiguous
// atom prefixes in longest-match-first order (BODY.PEEK/BODYSTRUCTURE
// before BODY, RFC822.HEADER/SIZE/TEXT before bare RFC822, BINARY.SIZE
// before BINARY).
func ParseFetchAttribute(b []byte, cfg *wire.Config) ([]byte, FetchAttribute, error) {
	switch {
	case wire.HasPrefixFold(b, "ENVELOPE"):
		return afterAtom(b, "ENVELOPE"), FetchAttribute{Kind: FetchEnvelope}, nil
	case wire.HasPrefixFold(b, "FLAGS"):
		return afterAtom(b, "FLAGS"), FetchAttribute{Kind: FetchFlags}, nil
	case wire.HasPrefixFold(b, "INTERNALDATE"):
		return afterAtom(b, "INTERNALDATE"), FetchAttribute{Kind: FetchInternalDate}, nil
	case wire.HasPrefixFold(b, "RFC822.SIZE"):
		return afterAtom(b, "RFC822.SIZE"), FetchAttribute{Kind: FetchRFC822Size}, nil
	case wire.HasPrefixFold(b, "RFC822.HEADER"):
		return afterAtom(b, "RFC822.HEADER"), FetchAttribute{Kind: FetchRFC822Header}, nil
	case wire.HasPrefixFold(b, "RFC822.TEXT"):
		return afterAtom(b, "RFC822.TEXT"), FetchAttribute{Kind: FetchRFC822Text}, nil
	case wire.HasPrefixFold(b, "RFC822"):
		return afterAtom(b, "RFC822"), FetchAttribute{Kind: FetchRFC822}, nil
	case wire.HasPrefixFold(b, "UID"):
		return afterAtom(b, "UID"), FetchAttribute{Kind: FetchUID}, nil
	case wire.HasPrefixFold(b, "BODYSTRUCTURE"):
		return afterAtom(b, "BODYSTRUCTURE"), FetchAttribute{Kind: FetchBodyStructExt}, nil
	case wire.HasPrefixFold(b, "BODY.PEEK"):
		return parseBodySection(b, cfg, len("BODY.PEEK"), true)
	case wire.HasPrefixFold(b, "BODY"):
		if len(b) == len("BODY") {
			return nil, FetchAttribute{}, wire.ErrIncomplete
		}
		if b[len("BODY")] != '[' {
			return afterAtom(b, "BODY"), FetchAttribute{Kind: FetchBodyStructure}, nil
		}
		return parseBodySection(b, cfg, len("BODY"), false)
	case wire.HasPrefixFold(b, "BINARY.SIZE"):
		return parseBinarySizeSection(b, cfg)
	case wire.HasPrefixFold(b, "BINARY.PEEK"):
		return parseBinarySection(b, cfg, len("BINARY.PEEK"), true)
	case wire.HasPrefixFold(b, "BINARY"):
		return parseBinarySection(b, cfg, len("BINARY"), false)
	case wire.HasPrefixFold(b, "MODSEQ"):
		return afterAtom(b, "MODSEQ"), FetchAttribute{Kind: FetchModSeq}, nil
	case wire.HasPrefixFold(b, "SAVEDATE"):
		return afterAtom(b, "SAVEDATE"), FetchAttribute{Kind: FetchSaveDate}, nil
	case wire.HasPrefixFold(b, "EMAILID"):
		return afterAtom(b, "EMAILID"), FetchAttribute{Kind: FetchEmailID}, nil
	case wire.HasPrefixFold(b, "THREADID"):
		return afterAtom(b, "THREADID"), FetchAttribute{Kind: FetchThreadID}, nil
	case wire.HasPrefixFold(b, "PREVIEW"):
		rest := b[len("PREVIEW"):]
		if wire.HasPrefixFold(rest, " (LAZY)") {
			return rest[len(" (LAZY)"):], FetchAttribute{Kind: FetchPreview, Peek: true}, nil
		}
		return rest, FetchAttribute{Kind: FetchPreview}, nil
	}
	if len(b) < len("BODYSTRUCTURE") {
		return nil, FetchAttribute{}, wire.ErrIncomplete
	}
	return nil, FetchAttribute{}, &wire.SyntaxError{Msg: "unrecognized fetch attribute", At: 0}
}

// afterAtom returns b with the matched keyword of length len(kw) removed.
func afterAtom(b []byte, kw string) []byte { return b[len(kw):] }

func parseBodySection(b []byte, cfg *wire.Config, skip int, peek bool) ([]byte, FetchAttribute, error) {
	rest := b[skip:]
	rest, err := wire.ParseByte(rest, '[')
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	var section Section
	if c != ']' {
		rest, section, err = ParseSection(rest, cfg)
		if err != nil {
			return nil, FetchAttribute{}, err
		}
	}
	rest, err = wire.ParseByte(rest, ']')
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	rest, partial, err := parseSectionPartial(rest, cfg)
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	return rest, FetchAttribute{Kind: FetchBodySection, Section: &section, Peek: peek, Partial: partial}, nil
}

func parseBinarySection(b []byte, cfg *wire.Config, skip int, peek bool) ([]byte, FetchAttribute, error) {
	rest := b[skip:]
	rest, err := wire.ParseByte(rest, '[')
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	rest, part, err := parseSectionPart(rest, cfg)
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	rest, err = wire.ParseByte(rest, ']')
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	rest, partial, err := parseSectionPartial(rest, cfg)
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	return rest, FetchAttribute{Kind: FetchBinarySection, Part: part, Peek: peek, Partial: partial}, nil
}

func parseBinarySizeSection(b []byte, cfg *wire.Config) ([]byte, FetchAttribute, error) {
	rest := b[len("BINARY.SIZE"):]
	rest, err := wire.ParseByte(rest, '[')
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	rest, part, err := parseSectionPart(rest, cfg)
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	rest, err = wire.ParseByte(rest, ']')
	if err != nil {
		return nil, FetchAttribute{}, err
	}
	return rest, FetchAttribute{Kind: FetchBinarySizeSection, Part: part}, nil
}

// FetchMessageData is one untagged FETCH response's payload: a message's
// sequence number paired with the values of the attributes it was asked
// to return.
type FetchMessageData struct {
	SeqNum uint32
	Items  []FetchItem
}

// FetchItem is one returned (name, value) pair within a FETCH response.
// Only the fields relevant to Attr.Kind are populated; this mirrors
// FetchAttribute's shape deliberately so request/response stay in sync.
type FetchItem struct {
	Attr FetchAttribute

	Envelope      *Envelope
	BodyStructure *BodyStructure
	Flags         []FlagFetch
	InternalDate  DateTime
	SaveDate      *DateTime
	RFC822Size    uint32
	UID           uint32
	ModSeq        uint64
	Preview       NString
	EmailID       string
	ThreadID      string

	// Body/Binary section payloads are carried out-of-band as literals by
	// the fragment stream; Raw holds the decoded bytes once reassembled.
	Raw     []byte
	BinSize uint32
}

// Encode writes the untagged FETCH response form: "* n FETCH (item ...)".
// Section payloads are emitted as literals, which is what servers do in
// practice and the only form that survives arbitrary content.
func (d FetchMessageData) Encode(b *wire.Builder) {
	b.Star().Number(d.SeqNum).SP().Atom("FETCH").SP()
	b.List(len(d.Items), func(i int) { d.Items[i].encode(b) })
}

func (it FetchItem) encode(b *wire.Builder) {
	a := it.Attr
	switch a.Kind {
	case FetchEnvelope:
		b.Atom("ENVELOPE").SP()
		it.Envelope.Encode(b)
	case FetchFlags:
		b.Atom("FLAGS").SP()
		b.List(len(it.Flags), func(i int) { it.Flags[i].Encode(b) })
	case FetchInternalDate:
		b.Atom("INTERNALDATE").SP()
		it.InternalDate.EncodeQuoted(b)
	case FetchRFC822Size:
		b.Atom("RFC822.SIZE").SP().Number(it.RFC822Size)
	case FetchUID:
		b.Atom("UID").SP().Number(it.UID)
	case FetchBodyStructure:
		b.Atom("BODY").SP()
		it.BodyStructure.Encode(b)
	case FetchBodyStructExt:
		b.Atom("BODYSTRUCTURE").SP()
		it.BodyStructure.Encode(b)
	case FetchRFC822, FetchRFC822Header, FetchRFC822Text:
		a.Encode(b)
		b.SP()
		encodeFetchPayload(b, it.Raw, false)
	case FetchBodySection:
		b.Atom("BODY").RawString("[")
		if a.Section != nil {
			a.Section.Encode(b)
		}
		b.RawString("]")
		if a.Partial != nil {
			// The response form carries only the origin octet.
			b.RawString("<").Number(a.Partial.Offset).RawString(">")
		}
		b.SP()
		encodeFetchPayload(b, it.Raw, false)
	case FetchBinarySection:
		b.Atom("BINARY").RawString("[")
		a.Part.Encode(b)
		b.RawString("]").SP()
		encodeFetchPayload(b, it.Raw, true)
	case FetchBinarySizeSection:
		b.Atom("BINARY.SIZE").RawString("[")
		a.Part.Encode(b)
		b.RawString("]").SP().Number(it.BinSize)
	case FetchModSeq:
		b.Atom("MODSEQ").SP().RawString("(").Number64(it.ModSeq).RawString(")")
	case FetchPreview:
		b.Atom("PREVIEW").SP()
		if it.Preview.IsNil() {
			b.Nil()
		} else {
			b.QuotedString(it.Preview.Value().String())
		}
	case FetchSaveDate:
		b.Atom("SAVEDATE").SP()
		if it.SaveDate == nil {
			b.Nil()
		} else {
			it.SaveDate.EncodeQuoted(b)
		}
	case FetchEmailID:
		b.Atom("EMAILID").SP().RawString("(").Atom(it.EmailID).RawString(")")
	case FetchThreadID:
		if it.ThreadID == "" {
			b.Atom("THREADID").SP().Nil()
		} else {
			b.Atom("THREADID").SP().RawString("(").Atom(it.ThreadID).RawString(")")
		}
	}
}

func encodeFetchPayload(b *wire.Builder, data []byte, binary bool) {
	if data == nil {
		b.Nil()
		return
	}
	// Server-to-client literals need no continuation handshake; they are
	// written in the plain "{N}" form.
	b.Literal(data, wire.LiteralSync, binary)
}

// ParseFetchItems consumes a FETCH response's parenthesized item list.
func ParseFetchItems(b []byte, cfg *wire.Config) ([]byte, []FetchItem, error) {
	var items []FetchItem
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		r, it, err := parseFetchItem(b, cfg)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
		return r, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return rest, items, nil
}

func parseFetchItem(b []byte, cfg *wire.Config) ([]byte, FetchItem, error) {
	var it FetchItem
	switch {
	case wire.HasPrefixFold(b, "ENVELOPE "):
		it.Attr = FetchAttribute{Kind: FetchEnvelope}
		rest, env, err := ParseEnvelope(b[len("ENVELOPE "):], cfg)
		if err != nil {
			return nil, it, err
		}
		it.Envelope = &env
		return rest, it, nil
	case wire.HasPrefixFold(b, "FLAGS "):
		it.Attr = FetchAttribute{Kind: FetchFlags}
		rest, err := wire.ParseList(b[len("FLAGS "):], cfg, func(b []byte) ([]byte, error) {
			r, f, err := ParseFlagFetch(b)
			if err != nil {
				return nil, err
			}
			it.Flags = append(it.Flags, f)
			return r, nil
		})
		if err != nil {
			return nil, it, err
		}
		return rest, it, nil
	case wire.HasPrefixFold(b, "INTERNALDATE "):
		it.Attr = FetchAttribute{Kind: FetchInternalDate}
		rest, dt, err := ParseQuotedDateTime(b[len("INTERNALDATE "):])
		if err != nil {
			return nil, it, err
		}
		it.InternalDate = dt
		return rest, it, nil
	case wire.HasPrefixFold(b, "RFC822.SIZE "):
		it.Attr = FetchAttribute{Kind: FetchRFC822Size}
		rest, n, err := wire.ParseNumber(b[len("RFC822.SIZE "):], cfg)
		if err != nil {
			return nil, it, err
		}
		it.RFC822Size = n
		return rest, it, nil
	case wire.HasPrefixFold(b, "RFC822.HEADER "):
		it.Attr = FetchAttribute{Kind: FetchRFC822Header}
		return parseFetchPayload(b[len("RFC822.HEADER "):], cfg, &it)
	case wire.HasPrefixFold(b, "RFC822.TEXT "):
		it.Attr = FetchAttribute{Kind: FetchRFC822Text}
		return parseFetchPayload(b[len("RFC822.TEXT "):], cfg, &it)
	case wire.HasPrefixFold(b, "RFC822 "):
		it.Attr = FetchAttribute{Kind: FetchRFC822}
		return parseFetchPayload(b[len("RFC822 "):], cfg, &it)
	case wire.HasPrefixFold(b, "UID "):
		it.Attr = FetchAttribute{Kind: FetchUID}
		rest, n, err := wire.ParseNumber(b[len("UID "):], cfg)
		if err != nil {
			return nil, it, err
		}
		it.UID = n
		return rest, it, nil
	case wire.HasPrefixFold(b, "BODYSTRUCTURE "):
		it.Attr = FetchAttribute{Kind: FetchBodyStructExt}
		rest, bs, err := ParseBodyStructure(b[len("BODYSTRUCTURE "):], cfg)
		if err != nil {
			return nil, it, err
		}
		it.BodyStructure = &bs
		return rest, it, nil
	case wire.HasPrefixFold(b, "BODY ("):
		it.Attr = FetchAttribute{Kind: FetchBodyStructure}
		rest, bs, err := ParseBodyStructure(b[len("BODY "):], cfg)
		if err != nil {
			return nil, it, err
		}
		it.BodyStructure = &bs
		return rest, it, nil
	case wire.HasPrefixFold(b, "BODY["):
		return parseFetchBodySection(b[len("BODY"):], cfg)
	case wire.HasPrefixFold(b, "BINARY.SIZE["):
		rest, part, err := parseSectionPart(b[len("BINARY.SIZE["):], cfg)
		if err != nil {
			return nil, it, err
		}
		rest, err = wire.ParseByte(rest, ']')
		if err != nil {
			return nil, it, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, it, err
		}
		rest, n, err := wire.ParseNumber(rest, cfg)
		if err != nil {
			return nil, it, err
		}
		it.Attr = FetchAttribute{Kind: FetchBinarySizeSection, Part: part}
		it.BinSize = n
		return rest, it, nil
	case wire.HasPrefixFold(b, "BINARY["):
		rest, part, err := parseSectionPart(b[len("BINARY["):], cfg)
		if err != nil {
			return nil, it, err
		}
		rest, err = wire.ParseByte(rest, ']')
		if err != nil {
			return nil, it, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, it, err
		}
		it.Attr = FetchAttribute{Kind: FetchBinarySection, Part: part}
		return parseFetchPayload(rest, cfg, &it)
	case wire.HasPrefixFold(b, "MODSEQ ("):
		rest, n, err := wire.ParseNumber64(b[len("MODSEQ ("):], cfg)
		if err != nil {
			return nil, it, err
		}
		rest, err = wire.ParseByte(rest, ')')
		if err != nil {
			return nil, it, err
		}
		it.Attr = FetchAttribute{Kind: FetchModSeq}
		it.ModSeq = n
		return rest, it, nil
	case wire.HasPrefixFold(b, "PREVIEW "):
		it.Attr = FetchAttribute{Kind: FetchPreview}
		rest, n, err := parseNStringValue(b[len("PREVIEW "):], cfg)
		if err != nil {
			return nil, it, err
		}
		it.Preview = n
		return rest, it, nil
	case wire.HasPrefixFold(b, "SAVEDATE "):
		it.Attr = FetchAttribute{Kind: FetchSaveDate}
		rest := b[len("SAVEDATE "):]
		r, isNil, err := peekNil(rest)
		if err != nil {
			return nil, it, err
		}
		if isNil {
			return r, it, nil
		}
		rest, dt, err := ParseQuotedDateTime(rest)
		if err != nil {
			return nil, it, err
		}
		it.SaveDate = &dt
		return rest, it, nil
	case wire.HasPrefixFold(b, "EMAILID ("):
		rest, tok, err := wire.ParseAtom(b[len("EMAILID ("):])
		if err != nil {
			return nil, it, err
		}
		rest, err = wire.ParseByte(rest, ')')
		if err != nil {
			return nil, it, err
		}
		it.Attr = FetchAttribute{Kind: FetchEmailID}
		it.EmailID = string(tok)
		return rest, it, nil
	case wire.HasPrefixFold(b, "THREADID "):
		it.Attr = FetchAttribute{Kind: FetchThreadID}
		rest := b[len("THREADID "):]
		r, isNil, err := peekNil(rest)
		if err != nil {
			return nil, it, err
		}
		if isNil {
			return r, it, nil
		}
		rest, err = wire.ParseByte(rest, '(')
		if err != nil {
			return nil, it, err
		}
		rest, tok, err := wire.ParseAtom(rest)
		if err != nil {
			return nil, it, err
		}
		rest, err = wire.ParseByte(rest, ')')
		if err != nil {
			return nil, it, err
		}
		it.ThreadID = string(tok)
		return rest, it, nil
	}
	if len(b) < len("BODYSTRUCTURE ") {
		return nil, it, wire.ErrIncomplete
	}
	return nil, it, &wire.SyntaxError{Msg: "unrecognized fetch response item", At: 0}
}

func parseFetchBodySection(b []byte, cfg *wire.Config) ([]byte, FetchItem, error) {
	var it FetchItem
	attr := FetchAttribute{Kind: FetchBodySection}
	rest, err := wire.ParseByte(b, '[')
	if err != nil {
		return nil, it, err
	}
	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, it, err
	}
	if c != ']' {
		var sec Section
		rest, sec, err = ParseSection(rest, cfg)
		if err != nil {
			return nil, it, err
		}
		attr.Section = &sec
	}
	rest, err = wire.ParseByte(rest, ']')
	if err != nil {
		return nil, it, err
	}
	c, err = wire.PeekByte(rest)
	if err != nil {
		return nil, it, err
	}
	if c == '<' {
		rest, err = wire.ParseByte(rest, '<')
		if err != nil {
			return nil, it, err
		}
		var origin uint32
		rest, origin, err = wire.ParseNumber(rest, cfg)
		if err != nil {
			return nil, it, err
		}
		rest, err = wire.ParseByte(rest, '>')
		if err != nil {
			return nil, it, err
		}
		attr.Partial = &SectionPartial{Offset: origin, Count: 1}
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, it, err
	}
	it.Attr = attr
	return parseFetchPayload(rest, cfg, &it)
}

func parseFetchPayload(b []byte, cfg *wire.Config, it *FetchItem) ([]byte, FetchItem, error) {
	rest, n, err := parseNStringValue(b, cfg)
	if err != nil {
		return nil, *it, err
	}
	if !n.IsNil() {
		it.Raw = n.Value().Bytes()
	}
	return rest, *it, nil
}

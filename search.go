package imap

import "github.com/meszmate/imap-codec/wire"

// SearchKeyKind enumerates every SEARCH criterion name.
type SearchKeyKind int

const (
	SearchAll SearchKeyKind = iota
	SearchAnswered
	SearchBcc
	SearchBefore
	SearchBody
	SearchCc
	SearchDeleted
	SearchDraft
	SearchFlagged
	SearchFrom
	SearchHeader
	SearchKeyword
	SearchLarger
	SearchNew
	SearchNot
	SearchOld
	SearchOn
	SearchOr
	SearchRecent
	SearchSeen
	SearchSentBefore
	SearchSentOn
	SearchSentSince
	SearchSince
	SearchSmaller
	SearchSubject
	SearchText
	SearchTo
	SearchUID
	SearchUnanswered
	SearchUndeleted
	SearchUndraft
	SearchUnflagged
	SearchUnkeyword
	SearchUnseen
	SearchSequenceSet
	SearchYounger
	SearchOlder
	SearchModSeq
	SearchAnd // implicit conjunction: the parenthesized/top-level list form
)

// SearchKey is a tree-shaped SEARCH criterion: a leaf predicate, or one
// of the three structural combinators (And/Or/Not). Constructing an And
// requires at least one child, matching the ABNF's search-key list
// production which is never empty.
type SearchKey struct {
	Kind SearchKeyKind

	// leaf payloads, meaningful only for the matching Kind
	Text     string      // Bcc/Body/Cc/From/Keyword/Subject/Text/To/Unkeyword
	Header   HeaderField // Header
	Date     NaiveDate   // Before/On/SentBefore/SentOn/SentSince/Since
	Number   uint32      // Larger/Smaller/Younger/Older (seconds for the latter two)
	Sequence SequenceSet // SequenceSet/UID
	ModSeq   ModSeqCriterion

	Children []SearchKey // And/Or(2)/Not(1)
}

// HeaderField is a SEARCH HEADER criterion's (field-name, value) pair.
type HeaderField struct {
	Name  string
	Value string
}

// ModSeqCriterion is the MODSEQ search criterion's optional entry-name
// qualifier (RFC 7162 §3.1.5).
type ModSeqCriterion struct {
	EntryName *string
	EntryType *MetadataEntryType
	ModSeq    uint64
}

// MetadataEntryType distinguishes MODSEQ's optional "priv"/"shared"/"all"
// qualifier.
type MetadataEntryType int

const (
	MetadataEntryAll MetadataEntryType = iota
	MetadataEntryPriv
	MetadataEntryShared
)

// NewAnd builds a conjunction of at least one SearchKey.
func NewAnd(keys []SearchKey) (SearchKey, error) {
	if len(keys) == 0 {
		return SearchKey{}, errNotEnough("SearchKey And", 1)
	}
	return SearchKey{Kind: SearchAnd, Children: keys}, nil
}

// NewOr builds a disjunction of exactly two SearchKeys.
func NewOr(a, b SearchKey) SearchKey {
	return SearchKey{Kind: SearchOr, Children: []SearchKey{a, b}}
}

// NewNot negates a single SearchKey.
func NewNot(a SearchKey) SearchKey {
	return SearchKey{Kind: SearchNot, Children: []SearchKey{a}}
}

func (k SearchKey) Encode(b *wire.Builder) {
	switch k.Kind {
	case SearchAll:
		b.Atom("ALL")
	case SearchAnswered:
		b.Atom("ANSWERED")
	case SearchDeleted:
		b.Atom("DELETED")
	case SearchDraft:
		b.Atom("DRAFT")
	case SearchFlagged:
		b.Atom("FLAGGED")
	case SearchNew:
		b.Atom("NEW")
	case SearchOld:
		b.Atom("OLD")
	case SearchRecent:
		b.Atom("RECENT")
	case SearchSeen:
		b.Atom("SEEN")
	case SearchUnanswered:
		b.Atom("UNANSWERED")
	case SearchUndeleted:
		b.Atom("UNDELETED")
	case SearchUndraft:
		b.Atom("UNDRAFT")
	case SearchUnflagged:
		b.Atom("UNFLAGGED")
	case SearchUnseen:
		b.Atom("UNSEEN")
	case SearchBcc:
		b.Atom("BCC").SP().String(k.Text, wire.LiteralSync)
	case SearchBody:
		b.Atom("BODY").SP().String(k.Text, wire.LiteralSync)
	case SearchCc:
		b.Atom("CC").SP().String(k.Text, wire.LiteralSync)
	case SearchFrom:
		b.Atom("FROM").SP().String(k.Text, wire.LiteralSync)
	case SearchKeyword:
		b.Atom("KEYWORD").SP().Atom(k.Text)
	case SearchSubject:
		b.Atom("SUBJECT").SP().String(k.Text, wire.LiteralSync)
	case SearchText:
		b.Atom("TEXT").SP().String(k.Text, wire.LiteralSync)
	case SearchTo:
		b.Atom("TO").SP().String(k.Text, wire.LiteralSync)
	case SearchUnkeyword:
		b.Atom("UNKEYWORD").SP().Atom(k.Text)
	case SearchHeader:
		b.Atom("HEADER").SP().String(k.Header.Name, wire.LiteralSync).SP().String(k.Header.Value, wire.LiteralSync)
	case SearchBefore:
		b.Atom("BEFORE").SP()
		k.Date.Encode(b)
	case SearchOn:
		b.Atom("ON").SP()
		k.Date.Encode(b)
	case SearchSince:
		b.Atom("SINCE").SP()
		k.Date.Encode(b)
	case SearchSentBefore:
		b.Atom("SENTBEFORE").SP()
		k.Date.Encode(b)
	case SearchSentOn:
		b.Atom("SENTON").SP()
		k.Date.Encode(b)
	case SearchSentSince:
		b.Atom("SENTSINCE").SP()
		k.Date.Encode(b)
	case SearchLarger:
		b.Atom("LARGER").SP().Number(k.Number)
	case SearchSmaller:
		b.Atom("SMALLER").SP().Number(k.Number)
	case SearchYounger:
		b.Atom("YOUNGER").SP().Number(k.Number)
	case SearchOlder:
		b.Atom("OLDER").SP().Number(k.Number)
	case SearchUID:
		b.Atom("UID").SP().Atom(k.Sequence.String())
	case SearchSequenceSet:
		b.Atom(k.Sequence.String())
	case SearchModSeq:
		b.Atom("MODSEQ").SP()
		if k.ModSeq.EntryName != nil {
			b.QuotedString(*k.ModSeq.EntryName).SP()
			switch {
			case k.ModSeq.EntryType == nil:
			case *k.ModSeq.EntryType == MetadataEntryPriv:
				b.Atom("priv").SP()
			case *k.ModSeq.EntryType == MetadataEntryShared:
				b.Atom("shared").SP()
			default:
				b.Atom("all").SP()
			}
		}
		b.Number64(k.ModSeq.ModSeq)
	case SearchNot:
		b.Atom("NOT").SP()
		k.Children[0].Encode(b)
	case SearchOr:
		b.Atom("OR").SP()
		k.Children[0].Encode(b)
		b.SP()
		k.Children[1].Encode(b)
	case SearchAnd:
		// A conjunction is always the parenthesized list form; the
		// top-level space-separated run of a SEARCH command is the
		// command's criteria slice, not an And.
		b.List(len(k.Children), func(i int) { k.Children[i].Encode(b) })
	}
}

var searchKeywords = []struct {
	name string
	kind SearchKeyKind
}{
	{"ALL", SearchAll}, {"ANSWERED", SearchAnswered}, {"DELETED", SearchDeleted},
	{"DRAFT", SearchDraft}, {"FLAGGED", SearchFlagged}, {"NEW", SearchNew},
	{"OLD", SearchOld}, {"RECENT", SearchRecent}, {"SEEN", SearchSeen},
	{"UNANSWERED", SearchUnanswered}, {"UNDELETED", SearchUndeleted},
	{"UNDRAFT", SearchUndraft}, {"UNFLAGGED", SearchUnflagged}, {"UNSEEN", SearchUnseen},
}

// ParseSearchKey consumes one SEARCH criterion. A flag keyword from the
// lookup table matches only when a word boundary follows it, so a name
// that is a prefix of a longer one (e.g. SEEN inside SEENX) cannot
// match early; among the argument-taking keys, the longer names
// (SENTBEFORE before BEFORE, UNKEYWORD before KEYWORD) are tried first.
func ParseSearchKey(b []byte, cfg *wire.Config) ([]byte, SearchKey, error) {
	c, err := wire.PeekByte(b)
	if err != nil {
		return nil, SearchKey{}, err
	}
	if c == '(' {
		var keys []SearchKey
		rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
			r, k, err := ParseSearchKey(b, cfg)
			if err != nil {
				return nil, err
			}
			keys = append(keys, k)
			return r, nil
		})
		if err != nil {
			return nil, SearchKey{}, err
		}
		key, verr := NewAnd(keys)
		if verr != nil {
			return nil, SearchKey{}, verr
		}
		return rest, key, nil
	}
	if c >= '0' && c <= '9' || c == '*' || c == '$' {
		rest, seq, err := ParseSequenceSet(b, cfg)
		if err != nil {
			return nil, SearchKey{}, err
		}
		return rest, SearchKey{Kind: SearchSequenceSet, Sequence: seq}, nil
	}
	for _, kw := range searchKeywords {
		if wire.HasPrefixFold(b, kw.name) && isWordBoundary(b, len(kw.name)) {
			return b[len(kw.name):], SearchKey{Kind: kw.kind}, nil
		}
	}
	switch {
	case wire.HasPrefixFold(b, "SENTBEFORE"):
		return parseSearchDate(b, cfg, "SENTBEFORE", SearchSentBefore)
	case wire.HasPrefixFold(b, "SENTSINCE"):
		return parseSearchDate(b, cfg, "SENTSINCE", SearchSentSince)
	case wire.HasPrefixFold(b, "SENTON"):
		return parseSearchDate(b, cfg, "SENTON", SearchSentOn)
	case wire.HasPrefixFold(b, "BEFORE"):
		return parseSearchDate(b, cfg, "BEFORE", SearchBefore)
	case wire.HasPrefixFold(b, "SINCE"):
		return parseSearchDate(b, cfg, "SINCE", SearchSince)
	case wire.HasPrefixFold(b, "ON"):
		return parseSearchDate(b, cfg, "ON", SearchOn)
	case wire.HasPrefixFold(b, "BCC"):
		return parseSearchText(b, cfg, "BCC", SearchBcc)
	case wire.HasPrefixFold(b, "BODY"):
		return parseSearchText(b, cfg, "BODY", SearchBody)
	case wire.HasPrefixFold(b, "CC"):
		return parseSearchText(b, cfg, "CC", SearchCc)
	case wire.HasPrefixFold(b, "FROM"):
		return parseSearchText(b, cfg, "FROM", SearchFrom)
	case wire.HasPrefixFold(b, "SUBJECT"):
		return parseSearchText(b, cfg, "SUBJECT", SearchSubject)
	case wire.HasPrefixFold(b, "TEXT"):
		return parseSearchText(b, cfg, "TEXT", SearchText)
	case wire.HasPrefixFold(b, "TO"):
		return parseSearchText(b, cfg, "TO", SearchTo)
	case wire.HasPrefixFold(b, "UNKEYWORD"):
		return parseSearchAtomArg(b, cfg, "UNKEYWORD", SearchUnkeyword)
	case wire.HasPrefixFold(b, "KEYWORD"):
		return parseSearchAtomArg(b, cfg, "KEYWORD", SearchKeyword)
	case wire.HasPrefixFold(b, "HEADER"):
		rest := b[len("HEADER"):]
		rest, err := wire.ParseSP(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		rest, name, err := wire.ParseAString(rest, cfg)
		if err != nil {
			return nil, SearchKey{}, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		rest, val, err := wire.ParseAString(rest, cfg)
		if err != nil {
			return nil, SearchKey{}, err
		}
		return rest, SearchKey{Kind: SearchHeader, Header: HeaderField{Name: string(name), Value: string(val)}}, nil
	case wire.HasPrefixFold(b, "LARGER"):
		return parseSearchNumberArg(b, cfg, "LARGER", SearchLarger)
	case wire.HasPrefixFold(b, "SMALLER"):
		return parseSearchNumberArg(b, cfg, "SMALLER", SearchSmaller)
	case wire.HasPrefixFold(b, "YOUNGER"):
		return parseSearchNumberArg(b, cfg, "YOUNGER", SearchYounger)
	case wire.HasPrefixFold(b, "OLDER"):
		return parseSearchNumberArg(b, cfg, "OLDER", SearchOlder)
	case wire.HasPrefixFold(b, "UID"):
		rest := b[len("UID"):]
		rest, err := wire.ParseSP(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		rest, seq, err := ParseSequenceSet(rest, cfg)
		if err != nil {
			return nil, SearchKey{}, err
		}
		return rest, SearchKey{Kind: SearchUID, Sequence: seq}, nil
	case wire.HasPrefixFold(b, "MODSEQ"):
		return parseSearchModSeq(b, cfg)
	case wire.HasPrefixFold(b, "NOT"):
		rest := b[len("NOT"):]
		rest, err := wire.ParseSP(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		rest, inner, err := ParseSearchKey(rest, cfg)
		if err != nil {
			return nil, SearchKey{}, err
		}
		return rest, NewNot(inner), nil
	case wire.HasPrefixFold(b, "OR"):
		rest := b[len("OR"):]
		rest, err := wire.ParseSP(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		rest, left, err := ParseSearchKey(rest, cfg)
		if err != nil {
			return nil, SearchKey{}, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		rest, right, err := ParseSearchKey(rest, cfg)
		if err != nil {
			return nil, SearchKey{}, err
		}
		return rest, NewOr(left, right), nil
	}
	if len(b) < len("UNANSWERED") {
		return nil, SearchKey{}, wire.ErrIncomplete
	}
	return nil, SearchKey{}, &wire.SyntaxError{Msg: "unrecognized search key", At: 0}
}

func isWordBoundary(b []byte, at int) bool {
	if at >= len(b) {
		return true
	}
	return !wire.IsAtomChar(b[at])
}

func parseSearchDate(b []byte, cfg *wire.Config, kw string, kind SearchKeyKind) ([]byte, SearchKey, error) {
	rest := b[len(kw):]
	rest, err := wire.ParseSP(rest)
	if err != nil {
		return nil, SearchKey{}, err
	}
	rest, date, err := ParseNaiveDate(rest)
	if err != nil {
		return nil, SearchKey{}, err
	}
	return rest, SearchKey{Kind: kind, Date: date}, nil
}

func parseSearchText(b []byte, cfg *wire.Config, kw string, kind SearchKeyKind) ([]byte, SearchKey, error) {
	rest := b[len(kw):]
	rest, err := wire.ParseSP(rest)
	if err != nil {
		return nil, SearchKey{}, err
	}
	rest, raw, err := wire.ParseAString(rest, cfg)
	if err != nil {
		return nil, SearchKey{}, err
	}
	return rest, SearchKey{Kind: kind, Text: string(raw)}, nil
}

func parseSearchAtomArg(b []byte, cfg *wire.Config, kw string, kind SearchKeyKind) ([]byte, SearchKey, error) {
	rest := b[len(kw):]
	rest, err := wire.ParseSP(rest)
	if err != nil {
		return nil, SearchKey{}, err
	}
	rest, raw, err := wire.ParseAString(rest, cfg)
	if err != nil {
		return nil, SearchKey{}, err
	}
	return rest, SearchKey{Kind: kind, Text: string(raw)}, nil
}

func parseSearchNumberArg(b []byte, cfg *wire.Config, kw string, kind SearchKeyKind) ([]byte, SearchKey, error) {
	rest := b[len(kw):]
	rest, err := wire.ParseSP(rest)
	if err != nil {
		return nil, SearchKey{}, err
	}
	rest, n, err := wire.ParseNumber(rest, cfg)
	if err != nil {
		return nil, SearchKey{}, err
	}
	return rest, SearchKey{Kind: kind, Number: n}, nil
}

func parseSearchModSeq(b []byte, cfg *wire.Config) ([]byte, SearchKey, error) {
	rest := b[len("MODSEQ"):]
	rest, err := wire.ParseSP(rest)
	if err != nil {
		return nil, SearchKey{}, err
	}
	var entryName *string
	var entryType *MetadataEntryType
	c, err := wire.PeekByte(rest)
	if err != nil {
		return nil, SearchKey{}, err
	}
	if c == '"' {
		rest, raw, err := wire.ParseQuoted(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		name := string(raw)
		entryName = &name
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		var typTok []byte
		rest, typTok, err = wire.ParseAtom(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		var t MetadataEntryType
		switch upperASCII(string(typTok)) {
		case "PRIV":
			t = MetadataEntryPriv
		case "SHARED":
			t = MetadataEntryShared
		default:
			t = MetadataEntryAll
		}
		entryType = &t
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, SearchKey{}, err
		}
		modSeq, n, err := wire.ParseNumber64(rest, cfg)
		if err != nil {
			return nil, SearchKey{}, err
		}
		return modSeq, SearchKey{Kind: SearchModSeq, ModSeq: ModSeqCriterion{EntryName: entryName, EntryType: entryType, ModSeq: n}}, nil
	}
	rest, n, err := wire.ParseNumber64(rest, cfg)
	if err != nil {
		return nil, SearchKey{}, err
	}
	return rest, SearchKey{Kind: SearchModSeq, ModSeq: ModSeqCriterion{ModSeq: n}}, nil
}

// SearchReturnOption is the set of options in SEARCH's "RETURN (...)"
// list (RFC 4731/9394), one field per option.
type SearchReturnOption struct {
	Min     bool
	Max     bool
	All     bool
	Count   bool
	Save    bool
	Partial *SearchReturnPartial
}

// SearchReturnPartial is RFC 9394's PARTIAL return option.
type SearchReturnPartial struct {
	Offset int32 // negative = end-relative
	Count  uint32
}

// SearchData is the untagged SEARCH/ESEARCH response's body.
type SearchData struct {
	// AllSeqNums/AllUIDs hold the classic (non-ESEARCH) response's
	// space-separated number list.
	AllSeqNums []uint32
	AllUIDs    []uint32

	// ESEARCH fields
	IsESearch bool
	// Tag is RFC 4731's search-correlator, echoing the tag of the
	// command this result answers.
	Tag     *Tag
	UID     bool
	Min     *uint32
	Max     *uint32
	All     *SequenceSet
	Count   *uint32
	ModSeq  *uint64
	Partial *SearchPartialData
}

// SearchPartialData is RFC 9394's PARTIAL result.
type SearchPartialData struct {
	Offset int32
	Total  uint32
	UIDs   SequenceSet
}

// encodeSearchReturn writes "RETURN (...)" for a non-empty option set.
func encodeSearchReturn(b *wire.Builder, o SearchReturnOption) {
	b.Atom("RETURN").SP().RawString("(")
	first := true
	item := func(name string) {
		if !first {
			b.SP()
		}
		b.Atom(name)
		first = false
	}
	if o.Min {
		item("MIN")
	}
	if o.Max {
		item("MAX")
	}
	if o.All {
		item("ALL")
	}
	if o.Count {
		item("COUNT")
	}
	if o.Save {
		item("SAVE")
	}
	if o.Partial != nil {
		item("PARTIAL")
		b.SP()
		encodePartialRange(b, o.Partial.Offset, o.Partial.Count)
	}
	b.RawString(")")
}

func encodePartialRange(b *wire.Builder, offset int32, count uint32) {
	if offset < 0 {
		b.RawString("-")
		b.Number(uint32(-int64(offset)))
		b.RawString(":-")
	} else {
		b.Number(uint32(offset))
		b.RawString(":")
	}
	b.Number(count)
}

func parseSearchReturnOptions(b []byte, cfg *wire.Config) ([]byte, SearchReturnOption, error) {
	var o SearchReturnOption
	rest, err := wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		switch {
		case wire.HasPrefixFold(b, "MIN") && isWordBoundary(b, 3):
			o.Min = true
			return b[3:], nil
		case wire.HasPrefixFold(b, "MAX") && isWordBoundary(b, 3):
			o.Max = true
			return b[3:], nil
		case wire.HasPrefixFold(b, "ALL") && isWordBoundary(b, 3):
			o.All = true
			return b[3:], nil
		case wire.HasPrefixFold(b, "COUNT") && isWordBoundary(b, 5):
			o.Count = true
			return b[5:], nil
		case wire.HasPrefixFold(b, "SAVE") && isWordBoundary(b, 4):
			o.Save = true
			return b[4:], nil
		case wire.HasPrefixFold(b, "PARTIAL"):
			r := b[len("PARTIAL"):]
			r, err := wire.ParseSP(r)
			if err != nil {
				return nil, err
			}
			r, offset, count, err := parsePartialRange(r, cfg)
			if err != nil {
				return nil, err
			}
			o.Partial = &SearchReturnPartial{Offset: offset, Count: count}
			return r, nil
		}
		return nil, &wire.SyntaxError{Msg: "unrecognized SEARCH return option", At: 0}
	})
	if err != nil {
		return nil, o, err
	}
	return rest, o, nil
}

func parsePartialRange(b []byte, cfg *wire.Config) (rest []byte, offset int32, count uint32, err error) {
	rest = b
	neg := false
	if len(rest) > 0 && rest[0] == '-' {
		neg = true
		rest = rest[1:]
	}
	rest, first, err := wire.ParseNZNumber(rest, cfg)
	if err != nil {
		return nil, 0, 0, err
	}
	rest, err = wire.ParseByte(rest, ':')
	if err != nil {
		return nil, 0, 0, err
	}
	if neg {
		rest, err = wire.ParseByte(rest, '-')
		if err != nil {
			return nil, 0, 0, err
		}
	}
	rest, last, err := wire.ParseNZNumber(rest, cfg)
	if err != nil {
		return nil, 0, 0, err
	}
	offset = int32(first)
	if neg {
		offset = -offset
	}
	return rest, offset, last, nil
}

// Encode writes the untagged SEARCH (classic) or ESEARCH form, whichever
// d describes.
func (d SearchData) Encode(b *wire.Builder) {
	if !d.IsESearch {
		b.Star().Atom("SEARCH")
		nums := d.AllSeqNums
		if nums == nil {
			nums = d.AllUIDs
		}
		for _, n := range nums {
			b.SP().Number(n)
		}
		if d.ModSeq != nil {
			b.SP().RawString("(MODSEQ ").Number64(*d.ModSeq).RawString(")")
		}
		return
	}
	b.Star().Atom("ESEARCH")
	if d.Tag != nil {
		b.SP().RawString("(TAG ").QuotedString(d.Tag.String()).RawString(")")
	}
	if d.UID {
		b.SP().Atom("UID")
	}
	if d.Min != nil {
		b.SP().Atom("MIN").SP().Number(*d.Min)
	}
	if d.Max != nil {
		b.SP().Atom("MAX").SP().Number(*d.Max)
	}
	if d.All != nil {
		b.SP().Atom("ALL").SP()
		d.All.Encode(b)
	}
	if d.Count != nil {
		b.SP().Atom("COUNT").SP().Number(*d.Count)
	}
	if d.ModSeq != nil {
		b.SP().Atom("MODSEQ").SP().Number64(*d.ModSeq)
	}
	if d.Partial != nil {
		b.SP().Atom("PARTIAL").SP().RawString("(")
		encodePartialRange(b, d.Partial.Offset, d.Partial.Total)
		b.SP()
		if d.Partial.UIDs.Sequences() == nil {
			b.Nil()
		} else {
			d.Partial.UIDs.Encode(b)
		}
		b.RawString(")")
	}
}

// ParseSearchData consumes a classic SEARCH response body: the number
// run after "* SEARCH", plus RFC 7162's optional "(MODSEQ n)" tail.
func ParseSearchData(b []byte, cfg *wire.Config) ([]byte, SearchData, error) {
	var d SearchData
	rest := b
	for len(rest) > 0 && rest[0] == ' ' {
		if len(rest) > 1 && rest[1] == '(' {
			r := rest[2:]
			if !wire.HasPrefixFold(r, "MODSEQ") {
				return nil, d, &wire.SyntaxError{Msg: "expected MODSEQ", At: 0}
			}
			r, err := wire.ParseSP(r[len("MODSEQ"):])
			if err != nil {
				return nil, d, err
			}
			r, n, err := wire.ParseNumber64(r, cfg)
			if err != nil {
				return nil, d, err
			}
			r, err = wire.ParseByte(r, ')')
			if err != nil {
				return nil, d, err
			}
			d.ModSeq = &n
			rest = r
			break
		}
		r, n, err := wire.ParseNZNumber(rest[1:], cfg)
		if err != nil {
			return nil, d, err
		}
		d.AllSeqNums = append(d.AllSeqNums, n)
		rest = r
	}
	return rest, d, nil
}

// ParseESearchData consumes an extended ESEARCH response body (RFC
// 4731/7162/9394) after the "ESEARCH" keyword.
func ParseESearchData(b []byte, cfg *wire.Config) ([]byte, SearchData, error) {
	d := SearchData{IsESearch: true}
	rest := b
	if wire.HasPrefixFold(rest, " (TAG ") {
		r := rest[len(" (TAG "):]
		r, raw, err := wire.ParseQuoted(r)
		if err != nil {
			return nil, d, err
		}
		tag, verr := NewTag(string(raw))
		if verr != nil {
			return nil, d, verr
		}
		d.Tag = &tag
		r, err = wire.ParseByte(r, ')')
		if err != nil {
			return nil, d, err
		}
		rest = r
	}
	if wire.HasPrefixFold(rest, " UID") && (len(rest) == 4 || !wire.IsAtomChar(rest[4])) {
		d.UID = true
		rest = rest[4:]
	}
	for len(rest) > 0 && rest[0] == ' ' {
		r := rest[1:]
		switch {
		case wire.HasPrefixFold(r, "MIN "):
			r, n, err := wire.ParseNumber(r[4:], cfg)
			if err != nil {
				return nil, d, err
			}
			d.Min = &n
			rest = r
		case wire.HasPrefixFold(r, "MAX "):
			r, n, err := wire.ParseNumber(r[4:], cfg)
			if err != nil {
				return nil, d, err
			}
			d.Max = &n
			rest = r
		case wire.HasPrefixFold(r, "ALL "):
			r, set, err := ParseSequenceSet(r[4:], cfg)
			if err != nil {
				return nil, d, err
			}
			d.All = &set
			rest = r
		case wire.HasPrefixFold(r, "COUNT "):
			r, n, err := wire.ParseNumber(r[6:], cfg)
			if err != nil {
				return nil, d, err
			}
			d.Count = &n
			rest = r
		case wire.HasPrefixFold(r, "MODSEQ "):
			r, n, err := wire.ParseNumber64(r[7:], cfg)
			if err != nil {
				return nil, d, err
			}
			d.ModSeq = &n
			rest = r
		case wire.HasPrefixFold(r, "PARTIAL "):
			r = r[len("PARTIAL "):]
			r, err := wire.ParseByte(r, '(')
			if err != nil {
				return nil, d, err
			}
			r, offset, total, err := parsePartialRange(r, cfg)
			if err != nil {
				return nil, d, err
			}
			r, err = wire.ParseSP(r)
			if err != nil {
				return nil, d, err
			}
			part := SearchPartialData{Offset: offset, Total: total}
			r2, isNil, err := peekNil(r)
			if err != nil {
				return nil, d, err
			}
			if isNil {
				r = r2
			} else {
				r, part.UIDs, err = ParseSequenceSet(r, cfg)
				if err != nil {
					return nil, d, err
				}
			}
			r, err = wire.ParseByte(r, ')')
			if err != nil {
				return nil, d, err
			}
			d.Partial = &part
			rest = r
		default:
			return rest, d, nil
		}
	}
	return rest, d, nil
}

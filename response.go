package imap

import (
	"encoding/base64"

	"github.com/meszmate/imap-codec/wire"
)

// StatusKind enumerates the five condition keywords a status response
// can carry.
type StatusKind int

const (
	StatusOk StatusKind = iota
	StatusNo
	StatusBad
	StatusBye
	StatusPreAuth
)

func (k StatusKind) String() string {
	switch k {
	case StatusNo:
		return "NO"
	case StatusBad:
		return "BAD"
	case StatusBye:
		return "BYE"
	case StatusPreAuth:
		return "PREAUTH"
	default:
		return "OK"
	}
}

// Status is a tagged or untagged status response. An
// untagged status has a nil Tag; BYE and PREAUTH are always untagged.
type Status struct {
	Tag  *Tag
	Kind StatusKind
	Code *Code
	Text Text
}

func (s Status) Encode(b *wire.Builder) {
	if s.Tag != nil {
		b.Tag(s.Tag.String())
	} else {
		b.RawString("*")
	}
	b.SP().Atom(s.Kind.String()).SP()
	encodeRespText(b, s.Code, s.Text)
}

// DataKind enumerates the untagged data responses.
type DataKind int

const (
	DataCapability DataKind = iota
	DataEnabled
	DataList
	DataLsub
	DataStatus
	DataSearch
	DataSort
	DataThread
	DataFlags
	DataExists
	DataRecent
	DataExpunge
	DataFetch
	DataNamespace
	DataID
	DataQuota
	DataQuotaRoot
	DataMetadata
	DataVanished
)

// Data is one untagged data response. Only the fields relevant to Kind
// are meaningful.
type Data struct {
	Kind DataKind

	Capabilities []Capability // Capability/Enabled
	List         ListData     // List/Lsub
	Status       StatusData
	Search       SearchData
	Sort         SortData
	Thread       ThreadData
	Flags        FlagList
	Number       uint32 // Exists/Recent/Expunge (message count or sequence number)
	Fetch        FetchMessageData
	Namespace    NamespaceData
	ID           IDParams
	Quota        QuotaData
	QuotaRoot    QuotaRootData
	Metadata     MetadataData

	// Vanished (RFC 7162 §3.2.10)
	VanishedEarlier bool
	Vanished        SequenceSet
}

func (d Data) Encode(b *wire.Builder) {
	switch d.Kind {
	case DataCapability:
		b.Star().Atom("CAPABILITY")
		for _, c := range d.Capabilities {
			b.SP()
			c.Encode(b)
		}
	case DataEnabled:
		b.Star().Atom("ENABLED")
		for _, c := range d.Capabilities {
			b.SP()
			c.Encode(b)
		}
	case DataList:
		d.List.Encode(b, "LIST")
	case DataLsub:
		d.List.Encode(b, "LSUB")
	case DataStatus:
		d.Status.Encode(b)
	case DataSearch:
		d.Search.Encode(b)
	case DataSort:
		b.Star().Atom("SORT")
		if len(d.Sort.Nums) > 0 {
			b.SP()
			d.Sort.Encode(b)
		}
	case DataThread:
		b.Star().Atom("THREAD")
		if len(d.Thread.Threads) > 0 {
			b.SP()
			d.Thread.Encode(b)
		}
	case DataFlags:
		b.Star().Atom("FLAGS").SP()
		d.Flags.Encode(b)
	case DataExists:
		b.Star().Number(d.Number).SP().Atom("EXISTS")
	case DataRecent:
		b.Star().Number(d.Number).SP().Atom("RECENT")
	case DataExpunge:
		b.Star().Number(d.Number).SP().Atom("EXPUNGE")
	case DataFetch:
		d.Fetch.Encode(b)
	case DataNamespace:
		d.Namespace.Encode(b)
	case DataID:
		b.Star().Atom("ID").SP()
		d.ID.encode(b, nil)
	case DataQuota:
		d.Quota.Encode(b)
	case DataQuotaRoot:
		d.QuotaRoot.Encode(b)
	case DataMetadata:
		d.Metadata.Encode(b)
	case DataVanished:
		b.Star().Atom("VANISHED").SP()
		if d.VanishedEarlier {
			b.RawString("(EARLIER) ")
		}
		d.Vanished.Encode(b)
	}
}

// Continue is a command continuation request: "+ " followed by either
// resp-text or a base64 SASL challenge.
type Continue struct {
	Code *Code
	Text Text

	IsBase64 bool
	Base64   []byte
}

func (c Continue) Encode(b *wire.Builder) {
	b.Plus()
	if c.IsBase64 {
		b.RawString(base64.StdEncoding.EncodeToString(c.Base64))
		return
	}
	encodeRespText(b, c.Code, c.Text)
}

// ResponseKind distinguishes Response's three shapes.
type ResponseKind int

const (
	ResponseStatus ResponseKind = iota
	ResponseData
	ResponseContinue
)

// Response is any server-to-client message after the greeting: a status
// response, an untagged data response, or a continuation request.
type Response struct {
	Kind     ResponseKind
	Status   *Status
	Data     *Data
	Continue *Continue
}

// StatusResponse wraps a Status as a Response.
func StatusResponse(s Status) Response {
	return Response{Kind: ResponseStatus, Status: &s}
}

// DataResponse wraps a Data as a Response.
func DataResponse(d Data) Response {
	return Response{Kind: ResponseData, Data: &d}
}

// ContinueResponse wraps a Continue as a Response.
func ContinueResponse(c Continue) Response {
	return Response{Kind: ResponseContinue, Continue: &c}
}

func (r Response) Encode(b *wire.Builder) {
	switch r.Kind {
	case ResponseData:
		r.Data.Encode(b)
	case ResponseContinue:
		r.Continue.Encode(b)
	default:
		r.Status.Encode(b)
	}
	b.CRLF()
}

// ParseResponse consumes one complete response line (through its CRLF,
// including any literals its data carries).
func ParseResponse(b []byte, cfg *wire.Config) ([]byte, Response, error) {
	if len(b) == 0 {
		return nil, Response{}, wire.ErrIncomplete
	}
	if b[0] == '+' {
		return parseContinue(b, cfg)
	}
	if len(b) >= 2 && b[0] == '*' && b[1] == ' ' {
		return parseUntagged(b[2:], cfg)
	}
	return parseTaggedStatus(b, cfg)
}

func parseContinue(b []byte, cfg *wire.Config) ([]byte, Response, error) {
	rest := b[1:]
	if len(rest) == 0 {
		return nil, Response{}, wire.ErrIncomplete
	}
	if rest[0] == ' ' {
		rest = rest[1:]
	}
	i := 0
	for i < len(rest) && rest[i] != '\r' && rest[i] != '\n' {
		i++
	}
	if i == len(rest) {
		return nil, Response{}, wire.ErrIncomplete
	}
	line := rest[:i]
	var c Continue
	if decoded, ok := decodeBase64Line(line); ok {
		c.IsBase64 = true
		c.Base64 = decoded
		rest, err := wire.ParseCRLF(rest[i:], cfg)
		if err != nil {
			return nil, Response{}, err
		}
		return rest, ContinueResponse(c), nil
	}
	rest, code, text, err := parseRespText(rest, cfg)
	if err != nil {
		return nil, Response{}, err
	}
	rest, err = wire.ParseCRLF(rest, cfg)
	if err != nil {
		return nil, Response{}, err
	}
	c.Code, c.Text = code, text
	return rest, ContinueResponse(c), nil
}

// decodeBase64Line reports whether line is a plausible base64 challenge:
// non-empty, a multiple of four, and decodable. Resp-text that happens
// to satisfy all three (rare: text almost always contains a space) is
// treated as base64, matching the greedy base64-first rule of the
// continuation grammar.
func decodeBase64Line(line []byte) ([]byte, bool) {
	if len(line) == 0 || len(line)%4 != 0 {
		return nil, false
	}
	decoded, err := base64.StdEncoding.DecodeString(string(line))
	if err != nil {
		return nil, false
	}
	return decoded, true
}

func parseTaggedStatus(b []byte, cfg *wire.Config) ([]byte, Response, error) {
	rest, tok, err := wire.ParseTagToken(b)
	if err != nil {
		return nil, Response{}, err
	}
	tag, verr := NewTag(string(tok))
	if verr != nil {
		return nil, Response{}, verr
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, Response{}, err
	}
	rest, s, err := parseStatusBody(rest, cfg)
	if err != nil {
		return nil, Response{}, err
	}
	if s.Kind == StatusBye || s.Kind == StatusPreAuth {
		return nil, Response{}, &wire.SyntaxError{Msg: "BYE/PREAUTH cannot be tagged", At: 0}
	}
	s.Tag = &tag
	return rest, StatusResponse(s), nil
}

func parseStatusBody(b []byte, cfg *wire.Config) ([]byte, Status, error) {
	var s Status
	switch {
	case wire.HasPrefixFold(b, "OK "):
		s.Kind = StatusOk
		b = b[len("OK "):]
	case wire.HasPrefixFold(b, "NO "):
		s.Kind = StatusNo
		b = b[len("NO "):]
	case wire.HasPrefixFold(b, "BAD "):
		s.Kind = StatusBad
		b = b[len("BAD "):]
	case wire.HasPrefixFold(b, "BYE "):
		s.Kind = StatusBye
		b = b[len("BYE "):]
	case wire.HasPrefixFold(b, "PREAUTH "):
		s.Kind = StatusPreAuth
		b = b[len("PREAUTH "):]
	default:
		if len(b) < len("PREAUTH ") {
			return nil, s, wire.ErrIncomplete
		}
		return nil, s, &wire.SyntaxError{Msg: "expected status condition", At: 0}
	}
	rest, code, text, err := parseRespText(b, cfg)
	if err != nil {
		return nil, s, err
	}
	rest, err = wire.ParseCRLF(rest, cfg)
	if err != nil {
		return nil, s, err
	}
	s.Code, s.Text = code, text
	return rest, s, nil
}

func parseUntagged(b []byte, cfg *wire.Config) ([]byte, Response, error) {
	// Untagged status responses first: their keywords collide with
	// nothing in the data-response set.
	switch {
	case wire.HasPrefixFold(b, "OK "), wire.HasPrefixFold(b, "NO "),
		wire.HasPrefixFold(b, "BAD "), wire.HasPrefixFold(b, "BYE "),
		wire.HasPrefixFold(b, "PREAUTH "):
		rest, s, err := parseStatusBody(b, cfg)
		if err != nil {
			return nil, Response{}, err
		}
		return rest, StatusResponse(s), nil
	}
	if len(b) > 0 && b[0] >= '0' && b[0] <= '9' {
		return parseNumberedData(b, cfg)
	}
	rest, d, err := parseKeywordData(b, cfg)
	if err != nil {
		return nil, Response{}, err
	}
	rest, err = wire.ParseCRLF(rest, cfg)
	if err != nil {
		return nil, Response{}, err
	}
	return rest, DataResponse(d), nil
}

func parseNumberedData(b []byte, cfg *wire.Config) ([]byte, Response, error) {
	rest, n, err := wire.ParseNumber(b, cfg)
	if err != nil {
		return nil, Response{}, err
	}
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, Response{}, err
	}
	var d Data
	d.Number = n
	switch {
	case wire.HasPrefixFold(rest, "EXISTS"):
		d.Kind = DataExists
		rest = rest[len("EXISTS"):]
	case wire.HasPrefixFold(rest, "RECENT"):
		d.Kind = DataRecent
		rest = rest[len("RECENT"):]
	case wire.HasPrefixFold(rest, "EXPUNGE"):
		d.Kind = DataExpunge
		rest = rest[len("EXPUNGE"):]
	case wire.HasPrefixFold(rest, "FETCH "):
		d.Kind = DataFetch
		d.Fetch.SeqNum = n
		var items []FetchItem
		rest, items, err = ParseFetchItems(rest[len("FETCH "):], cfg)
		if err != nil {
			return nil, Response{}, err
		}
		d.Fetch.Items = items
	default:
		if len(rest) < len("EXPUNGE") {
			return nil, Response{}, wire.ErrIncomplete
		}
		return nil, Response{}, &wire.SyntaxError{Msg: "unrecognized numbered response", At: 0}
	}
	rest, err = wire.ParseCRLF(rest, cfg)
	if err != nil {
		return nil, Response{}, err
	}
	return rest, DataResponse(d), nil
}

func parseKeywordData(b []byte, cfg *wire.Config) ([]byte, Data, error) {
	var d Data
	var err error
	switch {
	case wire.HasPrefixFold(b, "CAPABILITY"):
		d.Kind = DataCapability
		rest := b[len("CAPABILITY"):]
		rest, d.Capabilities, err = parseCapabilityRun(rest)
		return rest, d, err
	case wire.HasPrefixFold(b, "ENABLED"):
		d.Kind = DataEnabled
		rest := b[len("ENABLED"):]
		rest, d.Capabilities, err = parseCapabilityRun(rest)
		return rest, d, err
	case wire.HasPrefixFold(b, "LIST "):
		d.Kind = DataList
		rest, ld, err := ParseListData(b[len("LIST "):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.List = ld
		return rest, d, nil
	case wire.HasPrefixFold(b, "LSUB "):
		d.Kind = DataLsub
		rest, ld, err := ParseListData(b[len("LSUB "):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.List = ld
		return rest, d, nil
	case wire.HasPrefixFold(b, "STATUS "):
		d.Kind = DataStatus
		rest, sd, err := ParseStatusData(b[len("STATUS "):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.Status = sd
		return rest, d, nil
	case wire.HasPrefixFold(b, "ESEARCH"):
		d.Kind = DataSearch
		rest, sd, err := ParseESearchData(b[len("ESEARCH"):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.Search = sd
		return rest, d, nil
	case wire.HasPrefixFold(b, "SEARCH"):
		d.Kind = DataSearch
		rest, sd, err := ParseSearchData(b[len("SEARCH"):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.Search = sd
		return rest, d, nil
	case wire.HasPrefixFold(b, "SORT"):
		d.Kind = DataSort
		rest := b[len("SORT"):]
		if len(rest) > 0 && rest[0] == ' ' {
			rest, d.Sort, err = ParseSortData(rest[1:], cfg)
			if err != nil {
				return nil, d, err
			}
		}
		return rest, d, nil
	case wire.HasPrefixFold(b, "THREAD"):
		d.Kind = DataThread
		rest := b[len("THREAD"):]
		if len(rest) > 0 && rest[0] == ' ' {
			rest, d.Thread, err = ParseThreadData(rest[1:], cfg)
			if err != nil {
				return nil, d, err
			}
		}
		return rest, d, nil
	case wire.HasPrefixFold(b, "FLAGS "):
		d.Kind = DataFlags
		rest, fl, err := ParseFlagList(b[len("FLAGS "):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.Flags = fl
		return rest, d, nil
	case wire.HasPrefixFold(b, "NAMESPACE "):
		d.Kind = DataNamespace
		rest, nd, err := ParseNamespaceData(b[len("NAMESPACE "):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.Namespace = nd
		return rest, d, nil
	case wire.HasPrefixFold(b, "ID "):
		d.Kind = DataID
		rest, id, err := parseIDParams(b[len("ID "):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.ID = id
		return rest, d, nil
	case wire.HasPrefixFold(b, "QUOTAROOT "):
		d.Kind = DataQuotaRoot
		rest, qr, err := ParseQuotaRootData(b[len("QUOTAROOT "):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.QuotaRoot = qr
		return rest, d, nil
	case wire.HasPrefixFold(b, "QUOTA "):
		d.Kind = DataQuota
		rest, qd, err := ParseQuotaData(b[len("QUOTA "):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.Quota = qd
		return rest, d, nil
	case wire.HasPrefixFold(b, "METADATA "):
		d.Kind = DataMetadata
		rest, md, err := ParseMetadataData(b[len("METADATA "):], cfg)
		if err != nil {
			return nil, d, err
		}
		d.Metadata = md
		return rest, d, nil
	case wire.HasPrefixFold(b, "VANISHED "):
		d.Kind = DataVanished
		rest := b[len("VANISHED "):]
		if wire.HasPrefixFold(rest, "(EARLIER) ") {
			d.VanishedEarlier = true
			rest = rest[len("(EARLIER) "):]
		}
		rest, set, err := ParseSequenceSet(rest, cfg)
		if err != nil {
			return nil, d, err
		}
		d.Vanished = set
		return rest, d, nil
	}
	if len(b) < len("QUOTAROOT ") {
		return nil, d, wire.ErrIncomplete
	}
	return nil, d, &wire.SyntaxError{Msg: "unrecognized data response", At: 0}
}

func parseCapabilityRun(b []byte) ([]byte, []Capability, error) {
	var caps []Capability
	rest := b
	for len(rest) > 0 && rest[0] == ' ' {
		var c Capability
		var err error
		rest, c, err = ParseCapability(rest[1:])
		if err != nil {
			return nil, nil, err
		}
		caps = append(caps, c)
	}
	if len(rest) == 0 {
		return nil, nil, wire.ErrIncomplete
	}
	return rest, caps, nil
}

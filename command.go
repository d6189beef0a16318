package imap

import (
	"encoding/base64"

	"github.com/meszmate/imap-codec/wire"
)

// Command is one client request: a client-chosen tag correlating the
// eventual tagged status response, plus the command body.
type Command struct {
	Tag  Tag
	Body CommandBody
}

// CommandBodyKind enumerates every command this codec understands
// (RFC 3501 plus the extensions listed in the package documentation).
type CommandBodyKind int

const (
	CmdCapability CommandBodyKind = iota
	CmdNoop
	CmdLogout
	CmdStartTLS
	CmdAuthenticate
	CmdLogin
	CmdSelect
	CmdExamine
	CmdCreate
	CmdDelete
	CmdRename
	CmdSubscribe
	CmdUnsubscribe
	CmdList
	CmdLsub
	CmdStatus
	CmdAppend
	CmdCheck
	CmdClose
	CmdUnselect
	CmdExpunge
	CmdSearch
	CmdFetch
	CmdStore
	CmdCopy
	CmdMove
	CmdIdle
	CmdEnable
	CmdCompress
	CmdGetQuota
	CmdGetQuotaRoot
	CmdSetQuota
	CmdID
	CmdSort
	CmdThread
	CmdNamespace
	CmdGetMetadata
	CmdSetMetadata
)

// FetchMacro is FETCH's shorthand for a fixed attribute set.
type FetchMacro int

const (
	FetchMacroNone FetchMacro = iota // explicit attribute list
	FetchMacroAll
	FetchMacroFast
	FetchMacroFull
)

// CommandBody is the tagged union of every command's arguments. Only the
// fields relevant to Kind are meaningful; UID marks the UID-qualified
// variants of Search/Fetch/Store/Copy/Move/Sort/Thread/Expunge, under
// which the sequence set is interpreted as UIDs.
type CommandBody struct {
	Kind CommandBodyKind
	UID  bool

	Mailbox     Mailbox // Select/Examine/Create/Delete/Rename/Subscribe/Unsubscribe/Status/Append/Copy/Move/GetQuotaRoot/GetMetadata/SetMetadata
	DestMailbox Mailbox // Rename's new name, Copy/Move's destination

	Select SelectParams // Select/Examine extension parameters

	// Authenticate
	Mechanism AuthMechanism
	// InitialResponse is the SASL-IR initial client response;
	// HasInitialResponse distinguishes an absent one from the empty "=".
	InitialResponse    []byte
	HasInitialResponse bool

	// Login
	Username AString
	Password AString

	// List/Lsub
	ListSelect ListSelectOptions
	Reference  Mailbox
	Patterns   []string
	ListReturn ListReturnOptions

	StatusAttrs []StatusAttribute // Status

	Append AppendMessage // Append

	Sequence SequenceSet // Fetch/Store/Copy/Move/UID Expunge

	// Search/Sort/Thread. Criteria is the top-level space-separated
	// search-key run; a parenthesized sub-list within it parses as one
	// SearchAnd element.
	Charset      *Charset
	Criteria     []SearchKey
	SearchReturn *SearchReturnOption

	// Fetch
	FetchMacro   FetchMacro
	FetchAttrs   []FetchAttribute
	ChangedSince uint64 // CONDSTORE FETCH modifier; zero = absent
	Vanished     bool   // QRESYNC FETCH modifier

	// Store
	Store     StoreFlags
	StoreMods StoreModifiers

	Enable []Capability // Enable

	Compression CompressionAlgorithm // Compress

	// GetQuota/SetQuota
	QuotaRoot   string
	QuotaLimits []QuotaLimit

	ID IDParams // Id

	SortCriteria []SortCriterion    // Sort
	Threading    ThreadingAlgorithm // Thread

	// GetMetadata/SetMetadata
	MetadataOptions GetMetadataOptions
	MetadataNames   []string
	MetadataEntries []MetadataEntry
}

var commandNames = map[CommandBodyKind]string{
	CmdCapability: "CAPABILITY", CmdNoop: "NOOP", CmdLogout: "LOGOUT",
	CmdStartTLS: "STARTTLS", CmdAuthenticate: "AUTHENTICATE", CmdLogin: "LOGIN",
	CmdSelect: "SELECT", CmdExamine: "EXAMINE", CmdCreate: "CREATE",
	CmdDelete: "DELETE", CmdRename: "RENAME", CmdSubscribe: "SUBSCRIBE",
	CmdUnsubscribe: "UNSUBSCRIBE", CmdList: "LIST", CmdLsub: "LSUB",
	CmdStatus: "STATUS", CmdAppend: "APPEND", CmdCheck: "CHECK",
	CmdClose: "CLOSE", CmdUnselect: "UNSELECT", CmdExpunge: "EXPUNGE",
	CmdSearch: "SEARCH", CmdFetch: "FETCH", CmdStore: "STORE",
	CmdCopy: "COPY", CmdMove: "MOVE", CmdIdle: "IDLE", CmdEnable: "ENABLE",
	CmdCompress: "COMPRESS", CmdGetQuota: "GETQUOTA",
	CmdGetQuotaRoot: "GETQUOTAROOT", CmdSetQuota: "SETQUOTA", CmdID: "ID",
	CmdSort: "SORT", CmdThread: "THREAD", CmdNamespace: "NAMESPACE",
	CmdGetMetadata: "GETMETADATA", CmdSetMetadata: "SETMETADATA",
}

// Name returns the command's wire keyword, including the "UID " prefix
// for UID-qualified variants.
func (c CommandBody) Name() string {
	if c.UID {
		return "UID " + commandNames[c.Kind]
	}
	return commandNames[c.Kind]
}

func (c Command) Encode(b *wire.Builder) {
	b.Tag(c.Tag.String()).SP()
	c.Body.Encode(b)
	b.CRLF()
}

func (c CommandBody) Encode(b *wire.Builder) {
	if c.UID {
		b.Atom("UID").SP()
	}
	b.Atom(commandNames[c.Kind])
	switch c.Kind {
	case CmdCapability, CmdNoop, CmdLogout, CmdStartTLS, CmdCheck, CmdClose,
		CmdUnselect, CmdIdle, CmdNamespace:
		// no arguments
	case CmdExpunge:
		if c.UID {
			b.SP()
			c.Sequence.Encode(b)
		}
	case CmdAuthenticate:
		b.SP()
		c.Mechanism.Encode(b)
		if c.HasInitialResponse {
			b.SP()
			if len(c.InitialResponse) == 0 {
				b.RawString("=")
			} else {
				b.RawString(base64.StdEncoding.EncodeToString(c.InitialResponse))
			}
		}
	case CmdLogin:
		b.SP()
		encodeAString(b, c.Username)
		b.SP()
		encodeAString(b, c.Password)
	case CmdSelect, CmdExamine:
		b.SP()
		c.Mailbox.Encode(b)
		c.Select.encodeSuffix(b)
	case CmdCreate, CmdDelete, CmdSubscribe, CmdUnsubscribe, CmdGetQuotaRoot:
		b.SP()
		c.Mailbox.Encode(b)
	case CmdRename:
		b.SP()
		c.Mailbox.Encode(b)
		b.SP()
		c.DestMailbox.Encode(b)
	case CmdList, CmdLsub:
		b.SP()
		if c.Kind == CmdList {
			c.ListSelect.encodePrefix(b)
		}
		c.Reference.Encode(b)
		b.SP()
		if len(c.Patterns) > 1 {
			b.List(len(c.Patterns), func(i int) { encodeListMailbox(b, c.Patterns[i]) })
		} else if len(c.Patterns) == 1 {
			encodeListMailbox(b, c.Patterns[0])
		} else {
			encodeListMailbox(b, "")
		}
		if c.Kind == CmdList {
			c.ListReturn.encodeSuffix(b)
		}
	case CmdStatus:
		b.SP()
		c.Mailbox.Encode(b)
		b.SP()
		b.List(len(c.StatusAttrs), func(i int) { c.StatusAttrs[i].Encode(b) })
	case CmdAppend:
		b.SP()
		c.Mailbox.Encode(b)
		c.Append.encodeSuffix(b)
	case CmdSearch:
		b.SP()
		if c.SearchReturn != nil {
			encodeSearchReturn(b, *c.SearchReturn)
			b.SP()
		}
		if c.Charset != nil {
			b.Atom("CHARSET").SP().Atom(c.Charset.String()).SP()
		}
		encodeSearchCriteria(b, c.Criteria)
	case CmdFetch:
		b.SP()
		c.Sequence.Encode(b)
		b.SP()
		switch c.FetchMacro {
		case FetchMacroAll:
			b.Atom("ALL")
		case FetchMacroFast:
			b.Atom("FAST")
		case FetchMacroFull:
			b.Atom("FULL")
		default:
			if len(c.FetchAttrs) == 1 {
				c.FetchAttrs[0].Encode(b)
			} else {
				b.List(len(c.FetchAttrs), func(i int) { c.FetchAttrs[i].Encode(b) })
			}
		}
		if c.ChangedSince != 0 {
			b.SP().RawString("(CHANGEDSINCE ").Number64(c.ChangedSince)
			if c.Vanished {
				b.SP().Atom("VANISHED")
			}
			b.RawString(")")
		}
	case CmdStore:
		b.SP()
		c.Sequence.Encode(b)
		b.SP()
		c.StoreMods.encodeSuffix(b)
		c.Store.Encode(b)
	case CmdCopy, CmdMove:
		b.SP()
		c.Sequence.Encode(b)
		b.SP()
		c.DestMailbox.Encode(b)
	case CmdEnable:
		for _, cap := range c.Enable {
			b.SP()
			cap.Encode(b)
		}
	case CmdCompress:
		b.SP()
		c.Compression.Encode(b)
	case CmdGetQuota:
		b.SP().AString(c.QuotaRoot, wire.LiteralSync)
	case CmdSetQuota:
		b.SP().AString(c.QuotaRoot, wire.LiteralSync).SP()
		b.List(len(c.QuotaLimits)*2, func(i int) {
			l := c.QuotaLimits[i/2]
			if i%2 == 0 {
				b.Atom(l.Name.String())
			} else {
				b.Number64(l.Limit)
			}
		})
	case CmdID:
		b.SP()
		c.ID.encode(b, nil)
	case CmdSort:
		b.SP()
		b.List(len(c.SortCriteria), func(i int) { c.SortCriteria[i].Encode(b) })
		b.SP()
		charset := UTF8Charset()
		if c.Charset != nil {
			charset = *c.Charset
		}
		b.Atom(charset.String()).SP()
		encodeSearchCriteria(b, c.Criteria)
	case CmdThread:
		b.SP()
		c.Threading.Encode(b)
		b.SP()
		charset := UTF8Charset()
		if c.Charset != nil {
			charset = *c.Charset
		}
		b.Atom(charset.String()).SP()
		encodeSearchCriteria(b, c.Criteria)
	case CmdGetMetadata:
		b.SP()
		c.MetadataOptions.encodePrefix(b)
		c.Mailbox.Encode(b)
		b.SP()
		if len(c.MetadataNames) == 1 {
			b.AString(c.MetadataNames[0], wire.LiteralSync)
		} else {
			b.List(len(c.MetadataNames), func(i int) { b.AString(c.MetadataNames[i], wire.LiteralSync) })
		}
	case CmdSetMetadata:
		b.SP()
		c.Mailbox.Encode(b)
		b.SP()
		b.List(len(c.MetadataEntries)*2, func(i int) {
			e := c.MetadataEntries[i/2]
			if i%2 == 0 {
				b.AString(e.Name, wire.LiteralSync)
				return
			}
			if e.Value.IsNil() {
				b.Nil()
				return
			}
			encodeIString(b, e.Value.Value())
		})
	}
}

// ParseCommand consumes one complete command line (through its CRLF).
// On a synchronizing-literal boundary it returns *wire.LiteralRequest;
// the CommandCodec attaches the already-parsed tag so a server can
// reject the literal with a correctly-tagged NO.
func ParseCommand(b []byte, cfg *wire.Config) ([]byte, Command, error) {
	var cmd Command
	rest, tok, err := wire.ParseTagToken(b)
	if err != nil {
		return nil, cmd, err
	}
	tag, verr := NewTag(string(tok))
	if verr != nil {
		return nil, cmd, verr
	}
	cmd.Tag = tag
	rest, err = wire.ParseSP(rest)
	if err != nil {
		return nil, cmd, err
	}
	rest, body, err := parseCommandBody(rest, cfg)
	if err != nil {
		return nil, cmd, err
	}
	rest, err = wire.ParseCRLF(rest, cfg)
	if err != nil {
		return nil, cmd, err
	}
	cmd.Body = body
	return rest, cmd, nil
}

var commandKeywords = []struct {
	name string
	kind CommandBodyKind
}{
	// Longest-match-first within shared prefixes: GETQUOTAROOT before
	// GETQUOTA, UNSUBSCRIBE before UNSELECT's "UNS" run doesn't collide
	// but keep the longer names early for the ones that do.
	{"CAPABILITY", CmdCapability}, {"NOOP", CmdNoop}, {"LOGOUT", CmdLogout},
	{"STARTTLS", CmdStartTLS}, {"AUTHENTICATE", CmdAuthenticate},
	{"LOGIN", CmdLogin}, {"SELECT", CmdSelect}, {"EXAMINE", CmdExamine},
	{"CREATE", CmdCreate}, {"DELETE", CmdDelete}, {"RENAME", CmdRename},
	{"SUBSCRIBE", CmdSubscribe}, {"UNSUBSCRIBE", CmdUnsubscribe},
	{"LSUB", CmdLsub}, {"LIST", CmdList}, {"STATUS", CmdStatus},
	{"APPEND", CmdAppend}, {"CHECK", CmdCheck}, {"CLOSE", CmdClose},
	{"UNSELECT", CmdUnselect}, {"EXPUNGE", CmdExpunge},
	{"SEARCH", CmdSearch}, {"FETCH", CmdFetch}, {"STORE", CmdStore},
	{"COPY", CmdCopy}, {"MOVE", CmdMove}, {"IDLE", CmdIdle},
	{"ENABLE", CmdEnable}, {"COMPRESS", CmdCompress},
	{"GETQUOTAROOT", CmdGetQuotaRoot}, {"GETQUOTA", CmdGetQuota},
	{"SETQUOTA", CmdSetQuota}, {"ID", CmdID}, {"SORT", CmdSort},
	{"THREAD", CmdThread}, {"NAMESPACE", CmdNamespace},
	{"GETMETADATA", CmdGetMetadata}, {"SETMETADATA", CmdSetMetadata},
}

func parseCommandBody(b []byte, cfg *wire.Config) ([]byte, CommandBody, error) {
	var body CommandBody
	if wire.HasPrefixFold(b, "UID ") {
		rest, inner, err := parseCommandBody(b[len("UID "):], cfg)
		if err != nil {
			return nil, body, err
		}
		switch inner.Kind {
		case CmdSearch, CmdFetch, CmdStore, CmdCopy, CmdMove, CmdSort, CmdThread, CmdExpunge:
			inner.UID = true
			return rest, inner, nil
		}
		return nil, body, &wire.SyntaxError{Msg: "command cannot be UID-qualified", At: 0}
	}
	for _, kw := range commandKeywords {
		if !wire.HasPrefixFold(b, kw.name) || !isWordBoundary(b, len(kw.name)) {
			continue
		}
		body.Kind = kw.kind
		return parseCommandArgs(b[len(kw.name):], cfg, body)
	}
	// The longest keyword not yet matchable decides between "wait for
	// more bytes" and "unknown command".
	if len(b) < len("AUTHENTICATE") {
		return nil, body, wire.ErrIncomplete
	}
	return nil, body, &wire.SyntaxError{Msg: "unrecognized command", At: 0}
}

func parseCommandArgs(b []byte, cfg *wire.Config, body CommandBody) ([]byte, CommandBody, error) {
	var err error
	rest := b
	switch body.Kind {
	case CmdCapability, CmdNoop, CmdLogout, CmdStartTLS, CmdCheck, CmdClose,
		CmdUnselect, CmdIdle, CmdNamespace:
		return rest, body, nil
	case CmdExpunge:
		// A sequence set follows only in the UID EXPUNGE form; the caller
		// flips UID afterwards, so accept either shape here.
		if len(rest) > 0 && rest[0] == ' ' {
			rest, body.Sequence, err = ParseSequenceSet(rest[1:], cfg)
			if err != nil {
				return nil, body, err
			}
		}
		return rest, body, nil
	case CmdAuthenticate:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Mechanism, err = ParseAuthMechanism(rest)
		if err != nil {
			return nil, body, err
		}
		if len(rest) > 0 && rest[0] == ' ' {
			rest = rest[1:]
			i := 0
			for i < len(rest) && rest[i] != '\r' && rest[i] != '\n' {
				i++
			}
			if i == len(rest) {
				return nil, body, wire.ErrIncomplete
			}
			body.HasInitialResponse = true
			if !(i == 1 && rest[0] == '=') {
				decoded, derr := base64.StdEncoding.DecodeString(string(rest[:i]))
				if derr != nil {
					return nil, body, &wire.SyntaxError{Msg: "invalid base64 initial response", At: 0}
				}
				body.InitialResponse = decoded
			}
			rest = rest[i:]
		}
		return rest, body, nil
	case CmdLogin:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Username, err = parseAStringValue(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Password, err = parseAStringValue(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		return rest, body, nil
	case CmdSelect, CmdExamine:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Mailbox, err = parseMailboxName(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, body.Select, err = parseSelectParamsSuffix(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		return rest, body, nil
	case CmdCreate, CmdDelete, CmdSubscribe, CmdUnsubscribe, CmdGetQuotaRoot:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Mailbox, err = parseMailboxName(rest, cfg)
		return rest, body, err
	case CmdRename:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Mailbox, err = parseMailboxName(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.DestMailbox, err = parseMailboxName(rest, cfg)
		return rest, body, err
	case CmdList, CmdLsub:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		if body.Kind == CmdList {
			rest, body.ListSelect, err = parseListSelectOptions(rest, cfg)
			if err != nil {
				return nil, body, err
			}
		}
		rest, body.Reference, err = parseMailboxName(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		if len(rest) > 0 && rest[0] == '(' {
			rest, err = wire.ParseList(rest, cfg, func(b []byte) ([]byte, error) {
				r, pat, err := parseListMailbox(b, cfg)
				if err != nil {
					return nil, err
				}
				body.Patterns = append(body.Patterns, pat)
				return r, nil
			})
			if err != nil {
				return nil, body, err
			}
		} else {
			var pat string
			rest, pat, err = parseListMailbox(rest, cfg)
			if err != nil {
				return nil, body, err
			}
			body.Patterns = []string{pat}
		}
		if body.Kind == CmdList {
			rest, body.ListReturn, err = parseListReturnOptions(rest, cfg)
			if err != nil {
				return nil, body, err
			}
		}
		return rest, body, nil
	case CmdStatus:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Mailbox, err = parseMailboxName(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseList(rest, cfg, func(b []byte) ([]byte, error) {
			r, attr, err := ParseStatusAttribute(b)
			if err != nil {
				return nil, err
			}
			body.StatusAttrs = append(body.StatusAttrs, attr)
			return r, nil
		})
		return rest, body, err
	case CmdAppend:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Mailbox, err = parseMailboxName(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, body.Append, err = parseAppendSuffix(rest, cfg)
		return rest, body, err
	case CmdSearch:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		if wire.HasPrefixFold(rest, "RETURN ") {
			var ret SearchReturnOption
			rest, ret, err = parseSearchReturnOptions(rest[len("RETURN "):], cfg)
			if err != nil {
				return nil, body, err
			}
			body.SearchReturn = &ret
			rest, err = wire.ParseSP(rest)
			if err != nil {
				return nil, body, err
			}
		}
		if wire.HasPrefixFold(rest, "CHARSET ") {
			var cs Charset
			rest, cs, err = parseCharsetValue(rest[len("CHARSET "):], cfg)
			if err != nil {
				return nil, body, err
			}
			body.Charset = &cs
			rest, err = wire.ParseSP(rest)
			if err != nil {
				return nil, body, err
			}
		}
		rest, body.Criteria, err = parseSearchKeyRun(rest, cfg)
		return rest, body, err
	case CmdFetch:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Sequence, err = ParseSequenceSet(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		switch {
		case wire.HasPrefixFold(rest, "ALL") && isWordBoundary(rest, 3):
			body.FetchMacro = FetchMacroAll
			rest = rest[3:]
		case wire.HasPrefixFold(rest, "FAST") && isWordBoundary(rest, 4):
			body.FetchMacro = FetchMacroFast
			rest = rest[4:]
		case wire.HasPrefixFold(rest, "FULL") && isWordBoundary(rest, 4):
			body.FetchMacro = FetchMacroFull
			rest = rest[4:]
		default:
			if len(rest) > 0 && rest[0] == '(' {
				rest, err = wire.ParseList(rest, cfg, func(b []byte) ([]byte, error) {
					r, attr, err := ParseFetchAttribute(b, cfg)
					if err != nil {
						return nil, err
					}
					body.FetchAttrs = append(body.FetchAttrs, attr)
					return r, nil
				})
				if err != nil {
					return nil, body, err
				}
			} else {
				var attr FetchAttribute
				rest, attr, err = ParseFetchAttribute(rest, cfg)
				if err != nil {
					return nil, body, err
				}
				body.FetchAttrs = []FetchAttribute{attr}
			}
		}
		if wire.HasPrefixFold(rest, " (CHANGEDSINCE ") {
			r := rest[len(" (CHANGEDSINCE "):]
			r, body.ChangedSince, err = wire.ParseNumber64(r, cfg)
			if err != nil {
				return nil, body, err
			}
			if wire.HasPrefixFold(r, " VANISHED") {
				body.Vanished = true
				r = r[len(" VANISHED"):]
			}
			rest, err = wire.ParseByte(r, ')')
			if err != nil {
				return nil, body, err
			}
		}
		return rest, body, nil
	case CmdStore:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Sequence, err = ParseSequenceSet(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.StoreMods, err = parseStoreModifiers(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, body.Store, err = ParseStoreFlags(rest, cfg)
		return rest, body, err
	case CmdCopy, CmdMove:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Sequence, err = ParseSequenceSet(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.DestMailbox, err = parseMailboxName(rest, cfg)
		return rest, body, err
	case CmdEnable:
		for len(rest) > 0 && rest[0] == ' ' {
			var cap Capability
			rest, cap, err = ParseCapability(rest[1:])
			if err != nil {
				return nil, body, err
			}
			body.Enable = append(body.Enable, cap)
		}
		if len(body.Enable) == 0 {
			return nil, body, errNotEnough("ENABLE capability list", 1)
		}
		return rest, body, nil
	case CmdCompress:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Compression, err = ParseCompressionAlgorithm(rest)
		return rest, body, err
	case CmdGetQuota:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		var raw []byte
		rest, raw, err = wire.ParseAString(rest, cfg)
		body.QuotaRoot = string(raw)
		return rest, body, err
	case CmdSetQuota:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		var raw []byte
		rest, raw, err = wire.ParseAString(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		body.QuotaRoot = string(raw)
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		var pendingName Atom
		havePending := false
		rest, err = wire.ParseList(rest, cfg, func(b []byte) ([]byte, error) {
			if !havePending {
				r, tok, err := wire.ParseAtom(b)
				if err != nil {
					return nil, err
				}
				a, verr := NewAtom(string(tok))
				if verr != nil {
					return nil, verr
				}
				pendingName = a
				havePending = true
				return r, nil
			}
			r, n, err := wire.ParseNumber64(b, cfg)
			if err != nil {
				return nil, err
			}
			body.QuotaLimits = append(body.QuotaLimits, QuotaLimit{Name: pendingName, Limit: n})
			havePending = false
			return r, nil
		})
		if err != nil {
			return nil, body, err
		}
		if havePending {
			return nil, body, &wire.SyntaxError{Msg: "SETQUOTA list has odd length", At: 0}
		}
		return rest, body, nil
	case CmdID:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.ID, err = parseIDParams(rest, cfg)
		return rest, body, err
	case CmdSort:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.SortCriteria, err = ParseSortCriteria(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		var cs Charset
		rest, cs, err = parseCharsetValue(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		body.Charset = &cs
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Criteria, err = parseSearchKeyRun(rest, cfg)
		return rest, body, err
	case CmdThread:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Threading, err = ParseThreadingAlgorithm(rest)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		var cs Charset
		rest, cs, err = parseCharsetValue(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		body.Charset = &cs
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Criteria, err = parseSearchKeyRun(rest, cfg)
		return rest, body, err
	case CmdGetMetadata:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.MetadataOptions, err = parseGetMetadataOptions(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, body.Mailbox, err = parseMailboxName(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		if len(rest) > 0 && rest[0] == '(' {
			rest, err = wire.ParseList(rest, cfg, func(b []byte) ([]byte, error) {
				r, raw, err := wire.ParseAString(b, cfg)
				if err != nil {
					return nil, err
				}
				body.MetadataNames = append(body.MetadataNames, string(raw))
				return r, nil
			})
			return rest, body, err
		}
		var raw []byte
		rest, raw, err = wire.ParseAString(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		body.MetadataNames = []string{string(raw)}
		return rest, body, nil
	case CmdSetMetadata:
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.Mailbox, err = parseMailboxName(rest, cfg)
		if err != nil {
			return nil, body, err
		}
		rest, err = wire.ParseSP(rest)
		if err != nil {
			return nil, body, err
		}
		rest, body.MetadataEntries, err = parseMetadataEntryValues(rest, cfg)
		return rest, body, err
	}
	return nil, body, &wire.SyntaxError{Msg: "unrecognized command", At: 0}
}

// parseSearchKeyRun consumes the space-separated search-key run that
// ends a SEARCH/SORT/THREAD command.
func parseSearchKeyRun(b []byte, cfg *wire.Config) ([]byte, []SearchKey, error) {
	var keys []SearchKey
	rest := b
	for {
		var k SearchKey
		var err error
		rest, k, err = ParseSearchKey(rest, cfg)
		if err != nil {
			return nil, nil, err
		}
		keys = append(keys, k)
		if len(rest) == 0 {
			return nil, nil, wire.ErrIncomplete
		}
		if rest[0] != ' ' {
			break
		}
		rest = rest[1:]
	}
	return rest, keys, nil
}

// encodeSearchCriteria writes the top-level key run, space-separated.
func encodeSearchCriteria(b *wire.Builder, keys []SearchKey) {
	for i, k := range keys {
		if i > 0 {
			b.SP()
		}
		k.Encode(b)
	}
}

// parseAStringValue consumes an astring into the typed AString form,
// preserving whether it arrived as an atom, quoted string or literal.
func parseAStringValue(b []byte, cfg *wire.Config) ([]byte, AString, error) {
	c, err := wire.PeekByte(b)
	if err != nil {
		return nil, AString{}, err
	}
	switch c {
	case '"':
		rest, raw, err := wire.ParseQuoted(b)
		if err != nil {
			return nil, AString{}, err
		}
		s, verr := NewQuoted(string(raw))
		if verr != nil {
			return nil, AString{}, verr
		}
		return rest, NewAStringIString(s), nil
	case '{', '~':
		rest, s, err := parseLiteralIString(b, cfg)
		if err != nil {
			return nil, AString{}, err
		}
		return rest, NewAStringIString(s), nil
	default:
		rest, tok, err := wire.ParseAStringAtom(b)
		if err != nil {
			return nil, AString{}, err
		}
		a, verr := NewAtom(string(tok))
		if verr != nil {
			// ']' is legal in an astring atom but not in Atom proper;
			// carry such tokens as a quoted IString instead.
			s, qerr := NewQuoted(string(tok))
			if qerr != nil {
				return nil, AString{}, verr
			}
			return rest, NewAStringIString(s), nil
		}
		return rest, NewAStringAtom(a), nil
	}
}

func parseCharsetValue(b []byte, cfg *wire.Config) ([]byte, Charset, error) {
	c, err := wire.PeekByte(b)
	if err != nil {
		return nil, Charset{}, err
	}
	var raw []byte
	var rest []byte
	if c == '"' {
		rest, raw, err = wire.ParseQuoted(b)
	} else {
		rest, raw, err = wire.ParseAtom(b)
	}
	if err != nil {
		return nil, Charset{}, err
	}
	cs, verr := NewCharset(string(raw))
	if verr != nil {
		return nil, Charset{}, verr
	}
	return rest, cs, nil
}

// encodeListMailbox writes a LIST pattern: raw when every byte is a
// list-char, quoted otherwise.
func encodeListMailbox(b *wire.Builder, pat string) {
	if pat == "" {
		b.QuotedString("")
		return
	}
	for i := 0; i < len(pat); i++ {
		if !wire.IsListCharStringChar(pat[i]) {
			b.QuotedString(pat)
			return
		}
	}
	b.RawString(pat)
}

// parseListMailbox consumes a list-mailbox: a run of list-chars, or a
// quoted string / literal.
func parseListMailbox(b []byte, cfg *wire.Config) ([]byte, string, error) {
	c, err := wire.PeekByte(b)
	if err != nil {
		return nil, "", err
	}
	if c == '"' || c == '{' || c == '~' {
		rest, raw, err := wire.ParseIString(b, cfg)
		if err != nil {
			return nil, "", err
		}
		return rest, string(raw), nil
	}
	i := 0
	for i < len(b) && wire.IsListCharStringChar(b[i]) {
		i++
	}
	if i == len(b) {
		return nil, "", wire.ErrIncomplete
	}
	if i == 0 {
		return nil, "", &wire.SyntaxError{Msg: "expected list-mailbox", At: 0}
	}
	return b[i:], string(b[:i]), nil
}

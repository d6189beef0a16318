package imap

import "github.com/meszmate/imap-codec/wire"

// CapabilityKind enumerates the well-known capability spellings
// canonicalized from an Atom; every AUTH=<mechanism> token maps to
// CapabilityAuth, and CapabilityOther is the fall-through tail for
// anything else.
type CapabilityKind int

const (
	CapabilityIMAP4rev1 CapabilityKind = iota
	CapabilityIMAP4rev2
	CapabilityStartTLS
	CapabilityLoginDisabled
	CapabilityAuth
	CapabilitySASLIR
	CapabilityIdle
	CapabilityNamespace
	CapabilityID
	CapabilityChildren
	CapabilityBinary
	CapabilityUnselect
	CapabilityUIDPlus
	CapabilityESearch
	CapabilityCompressDeflate
	CapabilityEnable
	CapabilitySort
	CapabilityThread
	CapabilityListExtended
	CapabilityMetadata
	CapabilityMetadataServer
	CapabilityNotify
	CapabilityListStatus
	CapabilitySpecialUse
	CapabilityCreateSpecialUse
	CapabilityMove
	CapabilityUTF8Accept
	CapabilityUTF8Only
	CapabilityCondStore
	CapabilityQResync
	CapabilityLiteralPlus
	CapabilityLiteralMinus
	CapabilityAppendLimit
	CapabilityUnauthenticate
	CapabilityStatusSize
	CapabilityObjectID
	CapabilityReplace
	CapabilitySaveDate
	CapabilityPreview
	CapabilityQuota
	CapabilityUIDOnly
	CapabilityOther
)

// Capability is a single token from the CAPABILITY response or the
// STARTTLS/LOGINDISABLED-style capability advertisement. Well-known
// names fold case-insensitively to their canonical variant.
type Capability struct {
	kind CapabilityKind
	atom Atom // the original spelling, always retained for round-trip fidelity
}

var wellKnownCapabilities = map[string]CapabilityKind{
	"IMAP4REV1": CapabilityIMAP4rev1, "IMAP4REV2": CapabilityIMAP4rev2,
	"STARTTLS": CapabilityStartTLS, "LOGINDISABLED": CapabilityLoginDisabled,
	"SASL-IR": CapabilitySASLIR, "IDLE": CapabilityIdle,
	"NAMESPACE": CapabilityNamespace, "ID": CapabilityID,
	"CHILDREN": CapabilityChildren, "BINARY": CapabilityBinary,
	"UNSELECT": CapabilityUnselect, "UIDPLUS": CapabilityUIDPlus,
	"ESEARCH": CapabilityESearch, "COMPRESS=DEFLATE": CapabilityCompressDeflate,
	"ENABLE": CapabilityEnable, "SORT": CapabilitySort, "THREAD": CapabilityThread,
	"LIST-EXTENDED": CapabilityListExtended, "METADATA": CapabilityMetadata,
	"METADATA-SERVER": CapabilityMetadataServer, "NOTIFY": CapabilityNotify,
	"LIST-STATUS": CapabilityListStatus, "SPECIAL-USE": CapabilitySpecialUse,
	"CREATE-SPECIAL-USE": CapabilityCreateSpecialUse, "MOVE": CapabilityMove,
	"UTF8=ACCEPT": CapabilityUTF8Accept, "UTF8=ONLY": CapabilityUTF8Only,
	"CONDSTORE": CapabilityCondStore, "QRESYNC": CapabilityQResync,
	"LITERAL+": CapabilityLiteralPlus, "LITERAL-": CapabilityLiteralMinus,
	"APPENDLIMIT": CapabilityAppendLimit, "UNAUTHENTICATE": CapabilityUnauthenticate,
	"STATUS=SIZE": CapabilityStatusSize, "OBJECTID": CapabilityObjectID,
	"REPLACE": CapabilityReplace, "SAVEDATE": CapabilitySaveDate,
	"PREVIEW": CapabilityPreview, "QUOTA": CapabilityQuota, "UIDONLY": CapabilityUIDOnly,
}

// CapabilityFromAtom canonicalizes a parsed Atom into a Capability,
// folding any ASCII-case spelling of a well-known token to its
// canonical variant, mapping any "AUTH=xxx" to CapabilityAuth, and
// keeping everything else as CapabilityOther.
func CapabilityFromAtom(a Atom) Capability {
	upper := upperASCII(a.String())
	if kind, ok := wellKnownCapabilities[upper]; ok {
		return Capability{kind: kind, atom: a}
	}
	if len(upper) > 5 && upper[:5] == "AUTH=" {
		return Capability{kind: CapabilityAuth, atom: a}
	}
	return Capability{kind: CapabilityOther, atom: a}
}

func upperASCII(s string) string {
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}

// Kind returns the canonicalized capability variant.
func (c Capability) Kind() CapabilityKind { return c.kind }

// Atom returns the capability's original spelling.
func (c Capability) Atom() Atom { return c.atom }

// AuthMechanismName returns the mechanism name following "AUTH="; only
// meaningful when Kind() == CapabilityAuth.
func (c Capability) AuthMechanismName() string {
	s := c.atom.String()
	if len(s) > 5 {
		return s[5:]
	}
	return ""
}

func (c Capability) String() string { return c.atom.String() }

func (c Capability) Encode(b *wire.Builder) { b.Atom(c.atom.String()) }

// ParseCapability consumes one CAPABILITY-response atom.
func ParseCapability(b []byte) ([]byte, Capability, error) {
	rest, tok, err := wire.ParseAtom(b)
	if err != nil {
		return nil, Capability{}, err
	}
	a, verr := NewAtom(string(tok))
	if verr != nil {
		return nil, Capability{}, verr
	}
	return rest, CapabilityFromAtom(a), nil
}

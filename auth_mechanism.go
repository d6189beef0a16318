package imap

import "github.com/meszmate/imap-codec/wire"

// AuthMechanismKind canonicalizes SASL mechanism names.
type AuthMechanismKind int

const (
	AuthMechanismPlain AuthMechanismKind = iota
	AuthMechanismLogin
	AuthMechanismCRAMMD5
	AuthMechanismSCRAMSHA1
	AuthMechanismSCRAMSHA1Plus
	AuthMechanismSCRAMSHA256
	AuthMechanismSCRAMSHA256Plus
	AuthMechanismXOAuth2
	AuthMechanismOAuthBearer
	AuthMechanismExternal
	AuthMechanismAnonymous
	AuthMechanismOther
)

var wellKnownAuthMechanisms = map[string]AuthMechanismKind{
	"PLAIN": AuthMechanismPlain, "LOGIN": AuthMechanismLogin,
	"CRAM-MD5": AuthMechanismCRAMMD5, "SCRAM-SHA-1": AuthMechanismSCRAMSHA1,
	"SCRAM-SHA-1-PLUS": AuthMechanismSCRAMSHA1Plus,
	"SCRAM-SHA-256": AuthMechanismSCRAMSHA256,
	"SCRAM-SHA-256-PLUS": AuthMechanismSCRAMSHA256Plus,
	"XOAUTH2": AuthMechanismXOAuth2, "OAUTHBEARER": AuthMechanismOAuthBearer,
	"EXTERNAL": AuthMechanismExternal, "ANONYMOUS": AuthMechanismAnonymous,
}

// AuthMechanism is AUTHENTICATE's mechanism-name argument: well-known
// SASL mechanism spellings fold case-insensitively to their canonical
// variant; anything else keeps its original Atom in AuthMechanismOther.
type AuthMechanism struct {
	kind AuthMechanismKind
	atom Atom
}

// NewAuthMechanism canonicalizes a from its AUTHENTICATE-command spelling.
func NewAuthMechanism(a Atom) AuthMechanism {
	if kind, ok := wellKnownAuthMechanisms[upperASCII(a.String())]; ok {
		return AuthMechanism{kind: kind, atom: a}
	}
	return AuthMechanism{kind: AuthMechanismOther, atom: a}
}

func (m AuthMechanism) Kind() AuthMechanismKind { return m.kind }
func (m AuthMechanism) Atom() Atom              { return m.atom }
func (m AuthMechanism) String() string          { return m.atom.String() }

func (m AuthMechanism) Encode(b *wire.Builder) { b.Atom(m.atom.String()) }

// ParseAuthMechanism consumes a SASL mechanism name atom.
func ParseAuthMechanism(b []byte) ([]byte, AuthMechanism, error) {
	rest, tok, err := wire.ParseAtom(b)
	if err != nil {
		return nil, AuthMechanism{}, err
	}
	a, verr := NewAtom(string(tok))
	if verr != nil {
		return nil, AuthMechanism{}, verr
	}
	return rest, NewAuthMechanism(a), nil
}

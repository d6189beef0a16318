package imap

import (
	"strings"

	"github.com/meszmate/imap-codec/wire"
	"github.com/meszmate/imap-codec/wire/utf7"
)

// Mailbox is either the case-insensitive marker INBOX or an AString that
// does not case-fold to "inbox". The wire representation of
// a non-ASCII mailbox name is modified UTF-7 (RFC 3501 §5.1.3); Mailbox
// stores the decoded UTF-8 name and re-encodes it on output.
type Mailbox struct {
	inbox bool
	name  string
}

// Inbox is the canonical INBOX mailbox.
func Inbox() Mailbox { return Mailbox{inbox: true} }

// NewMailbox validates and constructs a Mailbox from a decoded (UTF-8)
// name. Any ASCII case variant of "inbox" yields Inbox().
func NewMailbox(name string) (Mailbox, error) {
	if name == "" {
		return Mailbox{}, errEmpty("Mailbox")
	}
	if strings.EqualFold(name, "inbox") {
		return Inbox(), nil
	}
	return Mailbox{name: name}, nil
}

// IsInbox reports whether m is the INBOX mailbox.
func (m Mailbox) IsInbox() bool { return m.inbox }

// Name returns the decoded mailbox name ("INBOX" for the inbox marker).
func (m Mailbox) Name() string {
	if m.inbox {
		return "INBOX"
	}
	return m.name
}

// WireName returns the mailbox name as it must appear on the wire: the
// literal bytes "INBOX", or the modified-UTF-7 encoding of Name().
func (m Mailbox) WireName() string {
	if m.inbox {
		return "INBOX"
	}
	return utf7.Encode(m.name)
}

// MailboxFromWire decodes a wire-form mailbox name (modified UTF-7,
// already astring-decoded) into a Mailbox, recognizing INBOX
// case-insensitively before attempting UTF-7 decoding.
func MailboxFromWire(raw []byte) (Mailbox, error) {
	if len(raw) == 5 && strings.EqualFold(string(raw), "inbox") {
		return Inbox(), nil
	}
	decoded, err := utf7.Decode(string(raw))
	if err != nil {
		// Not valid modified UTF-7: keep the raw bytes as the name verbatim.
		return Mailbox{name: string(raw)}, nil
	}
	if strings.EqualFold(decoded, "inbox") {
		return Inbox(), nil
	}
	return Mailbox{name: decoded}, nil
}

// Encode writes the mailbox as an astring in its wire (modified UTF-7)
// form.
func (m Mailbox) Encode(b *wire.Builder) {
	b.AString(m.WireName(), wire.LiteralSync)
}

// parseMailboxName consumes an astring and decodes it into a Mailbox.
func parseMailboxName(b []byte, cfg *wire.Config) ([]byte, Mailbox, error) {
	rest, raw, err := wire.ParseAString(b, cfg)
	if err != nil {
		return nil, Mailbox{}, err
	}
	m, err := MailboxFromWire(raw)
	if err != nil {
		return nil, Mailbox{}, err
	}
	return rest, m, nil
}

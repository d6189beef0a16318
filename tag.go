package imap

import "github.com/meszmate/imap-codec/wire"

// Tag is a client-chosen identifier correlating a command with its
// eventual tagged status response: non-empty ASTRING-CHAR
// sequence excluding '+'.
type Tag struct {
	raw string
}

// NewTag validates s as a Tag.
func NewTag(s string) (Tag, error) {
	if s == "" {
		return Tag{}, errEmpty("Tag")
	}
	for i := 0; i < len(s); i++ {
		if !wire.IsTagChar(s[i]) {
			return Tag{}, errInvalidByteAt("Tag", s[i], i)
		}
	}
	return Tag{raw: s}, nil
}

func (t Tag) String() string { return t.raw }

// EqualFold reports whether two tags are the same, ignoring case (tags
// are client-chosen tokens compared case-insensitively on the wire).
func (t Tag) EqualFold(o Tag) bool { return wire.EqualFold([]byte(t.raw), []byte(o.raw)) }

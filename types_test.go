package imap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meszmate/imap-codec/wire"
)

func TestAtomValidation(t *testing.T) {
	tests := []struct {
		input   string
		wantErr ValidationErrorKind
		ok      bool
	}{
		{input: "INBOX", ok: true},
		{input: "Content-Type", ok: true},
		{input: "1.2.3", ok: true},
		{input: "", wantErr: Empty},
		{input: "a b", wantErr: InvalidByteAt},
		{input: "a(b", wantErr: InvalidByteAt},
		{input: "a\\b", wantErr: InvalidByteAt},
		{input: "bra]cket", wantErr: InvalidByteAt},
	}
	for _, tt := range tests {
		a, err := NewAtom(tt.input)
		if tt.ok {
			require.NoError(t, err, tt.input)
			assert.Equal(t, tt.input, a.String())
			continue
		}
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, tt.input)
		assert.Equal(t, tt.wantErr, verr.Kind, tt.input)
	}
}

func TestTagValidation(t *testing.T) {
	tag, err := NewTag("A142")
	require.NoError(t, err)
	assert.Equal(t, "A142", tag.String())

	_, err = NewTag("")
	assert.Error(t, err)
	_, err = NewTag("A+1")
	assert.Error(t, err)

	// ']' is an ASTRING-CHAR, so it is legal in a tag.
	_, err = NewTag("A]1")
	assert.NoError(t, err)
}

func TestTextValidation(t *testing.T) {
	_, err := NewText("")
	assert.Error(t, err)
	_, err = NewText("line\rbreak")
	assert.Error(t, err)
	_, err = NewText("nul\x00byte")
	assert.Error(t, err)
	txt, err := NewText("LOGIN completed")
	require.NoError(t, err)
	assert.Equal(t, "LOGIN completed", txt.String())
}

func TestQuotedCharValidation(t *testing.T) {
	q, err := NewQuotedChar('a')
	require.NoError(t, err)
	assert.Equal(t, byte('a'), q.Byte())

	// '"' and '\' are representable (escaped on the wire).
	_, err = NewQuotedChar('"')
	assert.NoError(t, err)
	_, err = NewQuotedChar('\\')
	assert.NoError(t, err)

	_, err = NewQuotedChar('\r')
	assert.Error(t, err)
}

func TestQuotedRejectsCRLF(t *testing.T) {
	_, err := NewQuoted("line\r\nbreak")
	assert.Error(t, err)
	s, err := NewQuoted(`say "hi"`)
	require.NoError(t, err)
	assert.Equal(t, IStringQuoted, s.Kind())
}

func TestLiteralRejectsNULUnlessBinary(t *testing.T) {
	_, err := NewLiteral([]byte("a\x00b"), wire.LiteralSync, false)
	assert.Error(t, err)
	l, err := NewLiteral([]byte("a\x00b"), wire.LiteralSync, true)
	require.NoError(t, err)
	assert.True(t, l.Binary())
}

// Any ASCII case variant of INBOX yields the canonical inbox marker.
func TestMailboxInboxEquivalence(t *testing.T) {
	for _, name := range []string{"INBOX", "inbox", "Inbox", "iNbOx"} {
		m, err := NewMailbox(name)
		require.NoError(t, err, name)
		assert.True(t, m.IsInbox(), name)
		assert.Equal(t, "INBOX", m.Name(), name)
	}
	m, err := NewMailbox("Archive")
	require.NoError(t, err)
	assert.False(t, m.IsInbox())

	m, err = MailboxFromWire([]byte("inBOX"))
	require.NoError(t, err)
	assert.True(t, m.IsInbox())
}

func TestMailboxUTF7WireName(t *testing.T) {
	m, err := NewMailbox("Entwürfe")
	require.NoError(t, err)
	wireName := m.WireName()
	assert.NotContains(t, wireName, "ü")

	back, err := MailboxFromWire([]byte(wireName))
	require.NoError(t, err)
	assert.Equal(t, "Entwürfe", back.Name())
}

func TestSeqOrUidValidation(t *testing.T) {
	_, err := NewSeqOrUid(0)
	assert.Error(t, err)
	v, err := NewSeqOrUid(1)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v.Value())
	assert.True(t, Star().IsStar())
}

// Range endpoints are unordered: 2:4 and 4:2 denote the same range.
func TestSequenceRangeSymmetry(t *testing.T) {
	two, err := NewSeqOrUid(2)
	require.NoError(t, err)
	four, err := NewSeqOrUid(4)
	require.NoError(t, err)
	a := NewSequenceRange(two, four)
	b := NewSequenceRange(four, two)
	assert.True(t, a.Equal(b))
	assert.True(t, b.Equal(a))

	// The parser preserves wire order.
	codecCfg := (*wire.Config)(nil)
	_, parsed, err := ParseSequence([]byte("4:2 "), codecCfg)
	require.NoError(t, err)
	start, end := parsed.Range()
	assert.Equal(t, uint32(4), start.Value())
	assert.Equal(t, uint32(2), end.Value())
	assert.True(t, parsed.Equal(a))
}

func TestSequenceSetNonEmpty(t *testing.T) {
	_, err := NewSequenceSet(nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, NotEnough, verr.Kind)
}

func TestVec1NonEmpty(t *testing.T) {
	_, err := NewVec1[int](nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, NotEnough, verr.Kind)
	assert.Equal(t, 1, verr.Min)

	v := NewVec1Single("x")
	assert.Equal(t, 1, v.Len())
	assert.Equal(t, "x", v.First())
}

// Well-known names canonicalize case-insensitively to their variant,
// never to the Other tail; original spelling survives for round-trips.
func TestCapabilityCanonicalization(t *testing.T) {
	for spelling, kind := range map[string]CapabilityKind{
		"IMAP4rev1":        CapabilityIMAP4rev1,
		"imap4rev1":        CapabilityIMAP4rev1,
		"starttls":         CapabilityStartTLS,
		"literal+":         CapabilityLiteralPlus,
		"compress=deflate": CapabilityCompressDeflate,
		"utf8=accept":      CapabilityUTF8Accept,
		"auth=plain":       CapabilityAuth,
		"AUTH=SCRAM-SHA-1": CapabilityAuth,
		"X-CUSTOM":         CapabilityOther,
	} {
		c := CapabilityFromAtom(mustAtom(spelling))
		assert.Equal(t, kind, c.Kind(), spelling)
		assert.Equal(t, spelling, c.String(), spelling)
	}
}

func TestAuthMechanismCanonicalization(t *testing.T) {
	for spelling, kind := range map[string]AuthMechanismKind{
		"PLAIN":       AuthMechanismPlain,
		"plain":       AuthMechanismPlain,
		"scram-sha-1": AuthMechanismSCRAMSHA1,
		"XOAUTH2":     AuthMechanismXOAuth2,
		"X-UNKNOWN":   AuthMechanismOther,
	} {
		m := NewAuthMechanism(mustAtom(spelling))
		assert.Equal(t, kind, m.Kind(), spelling)
		assert.Equal(t, spelling, m.String(), spelling)
	}
}

func TestCompressionCanonicalization(t *testing.T) {
	assert.Equal(t, CompressionDeflate, NewCompressionAlgorithm(mustAtom("deflate")).Kind())
	assert.Equal(t, CompressionOther, NewCompressionAlgorithm(mustAtom("brotli")).Kind())
}

func TestFlagEquality(t *testing.T) {
	rest, f, err := ParseFlag([]byte("\\SEEN "))
	require.NoError(t, err)
	assert.Equal(t, " ", string(rest))
	assert.True(t, f.Equal(FlagSeen()))

	_, keyword, err := ParseFlag([]byte("$Forwarded "))
	require.NoError(t, err)
	assert.Equal(t, FlagKeyword, keyword.Kind())

	_, ext, err := ParseFlag([]byte("\\Xyzzy "))
	require.NoError(t, err)
	assert.Equal(t, FlagExtension, ext.Kind())
	assert.False(t, ext.Equal(FlagSeen()))
}

func TestRecentLivesOnlyInFlagFetch(t *testing.T) {
	// \Recent is not constructible as a plain Flag; it only appears in
	// FETCH responses.
	_, _, err := ParseFlag([]byte("\\Recent "))
	assert.Error(t, err)

	_, ff, err := ParseFlagFetch([]byte("\\Recent "))
	require.NoError(t, err)
	assert.True(t, ff.IsRecent())
}

func TestNaiveDateValidation(t *testing.T) {
	_, err := NewNaiveDate(1994, 2, 1)
	assert.NoError(t, err)
	_, err = NewNaiveDate(1994, 13, 1)
	assert.Error(t, err)
	_, err = NewNaiveDate(1994, 2, 32)
	assert.Error(t, err)
}

func TestDateTimeValidation(t *testing.T) {
	date, err := NewNaiveDate(1996, 7, 17)
	require.NoError(t, err)
	dt, err := NewDateTime(date, 2, 44, 25, -7*60)
	require.NoError(t, err)
	assert.Equal(t, int16(-420), dt.TZOffsetMinutes)

	_, err = NewDateTime(date, 24, 0, 0, 0)
	assert.Error(t, err)
	_, err = NewDateTime(date, 0, 60, 0, 0)
	assert.Error(t, err)
	_, err = NewDateTime(date, 0, 0, 0, 1440)
	assert.Error(t, err)
}

func TestValidationErrorsAreTyped(t *testing.T) {
	_, err := NewAtom("")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Atom", verr.Type)
	assert.False(t, errors.Is(err, wire.ErrIncomplete))
}

func TestSearchAndRequiresChildren(t *testing.T) {
	_, err := NewAnd(nil)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	all := SearchKey{Kind: SearchAll}
	and, err := NewAnd([]SearchKey{all})
	require.NoError(t, err)
	assert.Len(t, and.Children, 1)

	or := NewOr(all, SearchKey{Kind: SearchSeen})
	assert.Len(t, or.Children, 2)
	not := NewNot(all)
	assert.Len(t, not.Children, 1)
}

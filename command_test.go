package imap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meszmate/imap-codec/wire"
)

// Byte-exact decode/encode round-trips over the command grammar. Each
// input is written the way this codec itself writes it, so a decode
// followed by an encode must reproduce the input bit for bit.
func TestCommandWireRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"capability", "A1 CAPABILITY\r\n"},
		{"noop", "A2 NOOP\r\n"},
		{"logout", "A3 LOGOUT\r\n"},
		{"starttls", "a4 STARTTLS\r\n"},
		{"login atoms", "A5 LOGIN alice secret\r\n"},
		{"login quoted", "A6 LOGIN \"al ice\" \"pa\\\"ss\"\r\n"},
		{"select", "A7 SELECT INBOX\r\n"},
		{"select condstore", "A8 SELECT INBOX (CONDSTORE)\r\n"},
		{"examine", "A9 EXAMINE Archive\r\n"},
		{"create", "A10 CREATE owatagusiam/blurdybloop\r\n"},
		{"delete", "A11 DELETE blurdybloop\r\n"},
		{"rename", "A12 RENAME blurdybloop sarasoop\r\n"},
		{"subscribe", "A13 SUBSCRIBE news.comp.mail.mime\r\n"},
		{"unsubscribe", "A14 UNSUBSCRIBE news.comp.mail.mime\r\n"},
		{"list", "A15 LIST \"\" *\r\n"},
		{"list percent", "A16 LIST /usr/staff/jones %\r\n"},
		{"list extended", "A17 LIST (SUBSCRIBED) \"\" % RETURN (CHILDREN)\r\n"},
		{"list return status", "A18 LIST \"\" % RETURN (STATUS (MESSAGES UNSEEN))\r\n"},
		{"lsub", "A19 LSUB #news. comp.mail.*\r\n"},
		{"status", "A20 STATUS blurdybloop (UIDNEXT MESSAGES)\r\n"},
		{"append", "A21 APPEND saved-messages (\\Seen) {4+}\r\nTest\r\n"},
		{"check", "A22 CHECK\r\n"},
		{"close", "A23 CLOSE\r\n"},
		{"unselect", "A24 UNSELECT\r\n"},
		{"expunge", "A25 EXPUNGE\r\n"},
		{"uid expunge", "A26 UID EXPUNGE 3:3400\r\n"},
		{"search", "A27 SEARCH UNSEEN FROM alice\r\n"},
		{"search charset", "A28 SEARCH CHARSET UTF-8 TEXT water\r\n"},
		{"search deleted since", "A29 SEARCH DELETED SINCE 01-Feb-1994\r\n"},
		{"search or not", "A30 SEARCH OR SEEN NOT FLAGGED\r\n"},
		{"search paren", "A31 SEARCH (ANSWERED DRAFT) LARGER 1024\r\n"},
		{"uid search return", "A32 UID SEARCH RETURN (MIN MAX) ALL\r\n"},
		{"search modseq", "A33 SEARCH MODSEQ 620162338\r\n"},
		{"fetch single", "A34 FETCH 1 BODY[]\r\n"},
		{"fetch macro", "A35 FETCH 1:3 FULL\r\n"},
		{"fetch list", "A36 FETCH 2:4 (FLAGS RFC822.SIZE INTERNALDATE)\r\n"},
		{"fetch peek partial", "A37 FETCH 12 BODY.PEEK[HEADER.FIELDS (DATE FROM)]<0.250>\r\n"},
		{"uid fetch changedsince", "A38 UID FETCH 1:* (FLAGS UID) (CHANGEDSINCE 12345 VANISHED)\r\n"},
		{"store", "A39 STORE 2:4 +FLAGS.SILENT (\\Deleted)\r\n"},
		{"store unchangedsince", "A40 STORE 1 (UNCHANGEDSINCE 320162338) FLAGS (\\Seen)\r\n"},
		{"copy", "A41 COPY 2:4 MEETING\r\n"},
		{"uid move", "A42 UID MOVE 112:113 Trash\r\n"},
		{"idle", "A43 IDLE\r\n"},
		{"enable", "A44 ENABLE QRESYNC CONDSTORE\r\n"},
		{"compress", "A45 COMPRESS DEFLATE\r\n"},
		{"getquota", "A46 GETQUOTA \"\"\r\n"},
		{"setquota", "A47 SETQUOTA \"\" (STORAGE 512)\r\n"},
		{"getquotaroot", "A48 GETQUOTAROOT INBOX\r\n"},
		{"id nil", "A49 ID NIL\r\n"},
		{"id params", "A50 ID (\"name\" \"imap-codec\" \"version\" \"1.0\")\r\n"},
		{"id nil value", "A51 ID (\"name\" NIL)\r\n"},
		{"sort", "A52 SORT (DATE REVERSE SUBJECT) UTF-8 ALL\r\n"},
		{"uid sort", "A53 UID SORT (SIZE) US-ASCII SEEN\r\n"},
		{"thread", "A54 THREAD REFERENCES UTF-8 ALL\r\n"},
		{"namespace", "A55 NAMESPACE\r\n"},
		{"getmetadata", "A56 GETMETADATA INBOX /private/comment\r\n"},
		{"getmetadata options", "A57 GETMETADATA (MAXSIZE 1024) \"\" (/shared/comment /private/comment)\r\n"},
		{"setmetadata", "A58 SETMETADATA INBOX (/private/comment \"my comment\")\r\n"},
		{"setmetadata nil", "A59 SETMETADATA INBOX (/private/comment NIL)\r\n"},
		{"authenticate", "A60 AUTHENTICATE PLAIN\r\n"},
		{"authenticate initial", "A61 AUTHENTICATE PLAIN dGVzdA==\r\n"},
		{"authenticate empty initial", "A62 AUTHENTICATE EXTERNAL =\r\n"},
		{"login sync literal", "A63 LOGIN {5}\r\nalice {8}\r\npassword\r\n"},
		{"login nonsync literal", "A64 LOGIN {5+}\r\nalice {8+}\r\npassword\r\n"},
	}

	codec := NewCommandCodec(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, cmd, err := codec.Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, tt.input, string(codec.Encode(cmd).Collect()))

			// And decoding the re-encoded bytes yields the same value.
			_, again, err := codec.Decode(codec.Encode(cmd).Collect())
			require.NoError(t, err)
			assert.Equal(t, cmd, again)
		})
	}
}

func TestCommandUIDVariants(t *testing.T) {
	codec := NewCommandCodec(nil)
	for input, kind := range map[string]CommandBodyKind{
		"A1 UID SEARCH UNSEEN\r\n":        CmdSearch,
		"A2 UID FETCH 1 FLAGS\r\n":        CmdFetch,
		"A3 UID STORE 1 FLAGS (\\Seen)\r\n": CmdStore,
		"A4 UID COPY 1 Trash\r\n":         CmdCopy,
		"A5 UID MOVE 1 Trash\r\n":         CmdMove,
		"A6 UID EXPUNGE 1:4\r\n":          CmdExpunge,
	} {
		_, cmd, err := codec.Decode([]byte(input))
		require.NoError(t, err, input)
		assert.Equal(t, kind, cmd.Body.Kind, input)
		assert.True(t, cmd.Body.UID, input)
	}

	// UID does not qualify arbitrary commands.
	_, _, err := codec.Decode([]byte("A7 UID NOOP\r\n"))
	var fe *FailedError
	assert.ErrorAs(t, err, &fe)
}

func TestCommandKeywordsAreCaseInsensitive(t *testing.T) {
	codec := NewCommandCodec(nil)
	_, cmd, err := codec.Decode([]byte("A1 sElEcT INBOX\r\n"))
	require.NoError(t, err)
	assert.Equal(t, CmdSelect, cmd.Body.Kind)
	assert.True(t, cmd.Body.Mailbox.IsInbox())
}

func TestSelectQResyncParams(t *testing.T) {
	codec := NewCommandCodec(nil)
	input := "A1 SELECT INBOX (QRESYNC (67890007 20050715194045000 41,43:211,214:541))\r\n"
	rest, cmd, err := codec.Decode([]byte(input))
	require.NoError(t, err)
	assert.Empty(t, rest)
	require.NotNil(t, cmd.Body.Select.QResync)
	assert.Equal(t, uint32(67890007), cmd.Body.Select.QResync.UIDValidity)
	assert.Equal(t, uint64(20050715194045000), cmd.Body.Select.QResync.ModSeq)
	assert.Equal(t, input, string(codec.Encode(cmd).Collect()))
}

func TestAppendLiteralPreservesBinaryMarker(t *testing.T) {
	codec := NewCommandCodec(nil)
	input := "A1 APPEND INBOX ~{4+}\r\n\x00\x01\x02\x03\r\n"
	rest, cmd, err := codec.Decode([]byte(input))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.True(t, cmd.Body.Append.Message.Binary())
	assert.Equal(t, input, string(codec.Encode(cmd).Collect()))
}

func TestLiteralRejectedOverMaxLength(t *testing.T) {
	// A sync literal exceeding max_literal_length fails instead of asking
	// the transport to collect it.
	codec := NewCommandCodec(&wire.Config{MaxLiteralLength: 1024})
	_, _, err := codec.Decode([]byte("A1 LOGIN {1048576}\r\n"))
	var fe *FailedError
	assert.ErrorAs(t, err, &fe)
}

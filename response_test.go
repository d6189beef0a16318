package imap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meszmate/imap-codec/wire"
)

// Byte-exact decode/encode round-trips over the response grammar.
func TestResponseWireRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"tagged ok", "A1 OK LOGIN completed\r\n"},
		{"tagged no", "A2 NO COPY failed: disk is full\r\n"},
		{"tagged bad", "A3 BAD command unknown\r\n"},
		{"tagged ok code", "A142 OK [READ-WRITE] SELECT completed\r\n"},
		{"untagged ok", "* OK IMAP4rev1 server ready\r\n"},
		{"untagged bye", "* BYE autologout; idle for too long\r\n"},
		{"uidvalidity", "* OK [UIDVALIDITY 3857529045] UIDs valid\r\n"},
		{"uidnext", "* OK [UIDNEXT 4392] predicted next UID\r\n"},
		{"unseen", "* OK [UNSEEN 12] message 12 is first unseen\r\n"},
		{"permanentflags", "* OK [PERMANENTFLAGS (\\Deleted \\Seen \\*)] limited\r\n"},
		{"badcharset", "* NO [BADCHARSET (UTF-8)] try another charset\r\n"},
		{"appenduid", "A4 OK [APPENDUID 38505 3955] APPEND completed\r\n"},
		{"copyuid", "A5 OK [COPYUID 38505 304,319:320 3956:3958] done\r\n"},
		{"highestmodseq", "* OK [HIGHESTMODSEQ 715194045007] ready\r\n"},
		{"unknown code", "* OK [XCUSTOM has an argument] hello\r\n"},
		{"capability", "* CAPABILITY IMAP4rev1 STARTTLS AUTH=PLAIN LITERAL+\r\n"},
		{"enabled", "* ENABLED QRESYNC\r\n"},
		{"flags", "* FLAGS (\\Answered \\Flagged \\Deleted \\Seen \\Draft)\r\n"},
		{"exists", "* 23 EXISTS\r\n"},
		{"recent", "* 5 RECENT\r\n"},
		{"expunge", "* 44 EXPUNGE\r\n"},
		{"list", "* LIST (\\Noselect) \"/\" foo\r\n"},
		{"list nil delim", "* LIST (\\Marked) NIL inbox-alias\r\n"},
		{"lsub", "* LSUB () \".\" INBOX.Sent\r\n"},
		{"status", "* STATUS blurdybloop (MESSAGES 231 UIDNEXT 44292)\r\n"},
		{"status modseq", "* STATUS INBOX (HIGHESTMODSEQ 7011231777)\r\n"},
		{"search empty", "* SEARCH\r\n"},
		{"search", "* SEARCH 2 3 6\r\n"},
		{"search modseq", "* SEARCH 2 5 6 (MODSEQ 917162500)\r\n"},
		{"esearch", "* ESEARCH (TAG \"A282\") MIN 2 COUNT 3\r\n"},
		{"esearch uid", "* ESEARCH (TAG \"A283\") UID MIN 7 MAX 3800 ALL 4:10,12\r\n"},
		{"sort", "* SORT 2 3 6\r\n"},
		{"sort empty", "* SORT\r\n"},
		{"thread", "* THREAD (2)(3 6 (4 23)(44 7 96))\r\n"},
		{"fetch flags uid", "* 12 FETCH (FLAGS (\\Seen) UID 4827313)\r\n"},
		{"fetch size date", "* 14 FETCH (RFC822.SIZE 44827 INTERNALDATE \"17-Jul-1996 02:44:25 -0700\")\r\n"},
		{"fetch modseq", "* 50 FETCH (MODSEQ (12111230047))\r\n"},
		{"fetch body literal", "* 12 FETCH (BODY[HEADER] {14}\r\nheader: data\r\n)\r\n"},
		{"fetch body nil", "* 13 FETCH (BODY[1] NIL)\r\n"},
		{"namespace", "* NAMESPACE ((\"\" \"/\")) NIL NIL\r\n"},
		{"id", "* ID (\"name\" \"Cyrus\" \"version\" \"1.5\")\r\n"},
		{"id nil", "* ID NIL\r\n"},
		{"quota", "* QUOTA \"\" (STORAGE 10 512)\r\n"},
		{"quotaroot", "* QUOTAROOT comp.mail.mime\r\n"},
		{"quotaroot with root", "* QUOTAROOT INBOX \"\"\r\n"},
		{"metadata values", "* METADATA \"\" (/shared/comment \"Shared comment\")\r\n"},
		{"metadata names", "* METADATA INBOX /shared/comment /private/comment\r\n"},
		{"vanished", "* VANISHED (EARLIER) 41,43:116\r\n"},
		{"vanished plain", "* VANISHED 41\r\n"},
		{"continue text", "+ idling\r\n"},
		{"continue base64", "+ dGVzdA==\r\n"},
	}

	codec := NewResponseCodec(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, r, err := codec.Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Empty(t, rest)
			assert.Equal(t, tt.input, string(codec.Encode(r).Collect()))

			_, again, err := codec.Decode([]byte(tt.input))
			require.NoError(t, err)
			assert.Equal(t, r, again)
		})
	}
}

func TestResponseKinds(t *testing.T) {
	codec := NewResponseCodec(nil)

	_, r, err := codec.Decode([]byte("A1 OK done\r\n"))
	require.NoError(t, err)
	assert.Equal(t, ResponseStatus, r.Kind)
	require.NotNil(t, r.Status.Tag)
	assert.Equal(t, "A1", r.Status.Tag.String())
	assert.Equal(t, StatusOk, r.Status.Kind)

	_, r, err = codec.Decode([]byte("* BYE shutting down\r\n"))
	require.NoError(t, err)
	assert.Equal(t, ResponseStatus, r.Kind)
	assert.Nil(t, r.Status.Tag)
	assert.Equal(t, StatusBye, r.Status.Kind)

	_, r, err = codec.Decode([]byte("* 23 EXISTS\r\n"))
	require.NoError(t, err)
	assert.Equal(t, ResponseData, r.Kind)
	assert.Equal(t, DataExists, r.Data.Kind)
	assert.Equal(t, uint32(23), r.Data.Number)

	_, r, err = codec.Decode([]byte("+ send literal\r\n"))
	require.NoError(t, err)
	assert.Equal(t, ResponseContinue, r.Kind)
	assert.False(t, r.Continue.IsBase64)
	assert.Equal(t, "send literal", r.Continue.Text.String())
}

func TestTaggedByeRejected(t *testing.T) {
	codec := NewResponseCodec(nil)
	_, _, err := codec.Decode([]byte("A1 BYE bye\r\n"))
	var fe *FailedError
	assert.ErrorAs(t, err, &fe)
}

func TestStatusMissingTextQuirk(t *testing.T) {
	strict := NewResponseCodec(nil)
	_, _, err := strict.Decode([]byte("A1 OK [READ-ONLY]\r\n"))
	var fe *FailedError
	assert.ErrorAs(t, err, &fe)

	relaxed := NewResponseCodec(&wire.Config{MissingText: true})
	_, r, err := relaxed.Decode([]byte("A1 OK [READ-ONLY]\r\n"))
	require.NoError(t, err)
	require.NotNil(t, r.Status.Code)
	assert.Equal(t, CodeReadOnly, r.Status.Code.Kind)
	assert.Equal(t, "", r.Status.Text.String())
}

func TestFetchResponseItems(t *testing.T) {
	codec := NewResponseCodec(nil)
	_, r, err := codec.Decode([]byte("* 12 FETCH (FLAGS (\\Seen \\Recent) UID 4827313 RFC822.SIZE 44827)\r\n"))
	require.NoError(t, err)
	require.Equal(t, DataFetch, r.Data.Kind)
	f := r.Data.Fetch
	assert.Equal(t, uint32(12), f.SeqNum)
	require.Len(t, f.Items, 3)
	assert.Equal(t, FetchFlags, f.Items[0].Attr.Kind)
	require.Len(t, f.Items[0].Flags, 2)
	assert.True(t, f.Items[0].Flags[1].IsRecent())
	assert.Equal(t, uint32(4827313), f.Items[1].UID)
	assert.Equal(t, uint32(44827), f.Items[2].RFC822Size)
}

func TestESearchFields(t *testing.T) {
	codec := NewResponseCodec(nil)
	_, r, err := codec.Decode([]byte("* ESEARCH (TAG \"A282\") UID MIN 2 MAX 47 COUNT 20\r\n"))
	require.NoError(t, err)
	require.Equal(t, DataSearch, r.Data.Kind)
	sd := r.Data.Search
	assert.True(t, sd.IsESearch)
	require.NotNil(t, sd.Tag)
	assert.Equal(t, "A282", sd.Tag.String())
	assert.True(t, sd.UID)
	require.NotNil(t, sd.Min)
	assert.Equal(t, uint32(2), *sd.Min)
	require.NotNil(t, sd.Max)
	assert.Equal(t, uint32(47), *sd.Max)
	require.NotNil(t, sd.Count)
	assert.Equal(t, uint32(20), *sd.Count)
}

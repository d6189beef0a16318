package imap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meszmate/imap-codec/fragmentizer"
	"github.com/meszmate/imap-codec/wire"
)

func TestGreetingDecodeWithAlertCode(t *testing.T) {
	codec := NewGreetingCodec(nil)
	rest, g, err := codec.Decode([]byte("* OK [ALERT] Hello, World!\r\n<rest>"))
	require.NoError(t, err)
	assert.Equal(t, "<rest>", string(rest))
	assert.Equal(t, GreetingOk, g.Kind)
	require.NotNil(t, g.Code)
	assert.Equal(t, CodeAlert, g.Code.Kind)
	assert.Equal(t, "Hello, World!", g.Text.String())
}

func TestGreetingRoundTrip(t *testing.T) {
	for _, input := range []string{
		"* OK IMAP4rev1 server ready\r\n",
		"* PREAUTH logged in as per TLS certificate\r\n",
		"* BYE shutting down\r\n",
		"* OK [CAPABILITY IMAP4rev1 STARTTLS LOGINDISABLED] ready\r\n",
	} {
		codec := NewGreetingCodec(nil)
		rest, g, err := codec.Decode([]byte(input))
		require.NoError(t, err, input)
		assert.Empty(t, rest, input)
		assert.Equal(t, input, string(codec.Encode(g).Collect()), input)
	}
}

func TestGreetingIncomplete(t *testing.T) {
	codec := NewGreetingCodec(nil)
	for _, input := range []string{"", "*", "* OK", "* OK hello", "* OK hello\r"} {
		_, _, err := codec.Decode([]byte(input))
		assert.ErrorIs(t, err, ErrIncomplete, "%q", input)
	}
}

func TestCommandSyncLiteralReportsTag(t *testing.T) {
	codec := NewCommandCodec(nil)
	_, _, err := codec.Decode([]byte("A LOGIN {5}\r\n"))
	var lf *LiteralFoundError
	require.ErrorAs(t, err, &lf)
	require.NotNil(t, lf.Tag)
	assert.Equal(t, "A", lf.Tag.String())
	assert.Equal(t, uint32(5), lf.Length)
	assert.Equal(t, wire.LiteralSync, lf.Mode)

	// Feeding the announced bytes (and the next literal's worth) completes
	// the command.
	rest, cmd, err := codec.Decode([]byte("A LOGIN {5}\r\nalice {8}\r\npassword\r\n"))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, "A", cmd.Tag.String())
	assert.Equal(t, CmdLogin, cmd.Body.Kind)
	assert.Equal(t, "alice", cmd.Body.Username.String())
	assert.Equal(t, "password", cmd.Body.Password.String())
}

func TestCommandNonSyncLiteralDecodesInOnePass(t *testing.T) {
	codec := NewCommandCodec(nil)
	rest, cmd, err := codec.Decode([]byte("A LOGIN {5+}\r\nalice {8+}\r\npassword\r\n"))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, CmdLogin, cmd.Body.Kind)
	assert.Equal(t, "alice", cmd.Body.Username.String())
	assert.Equal(t, "password", cmd.Body.Password.String())
}

func TestFetchCommandRoundTrip(t *testing.T) {
	seq := func(n uint32) SeqOrUid {
		v, err := NewSeqOrUid(n)
		require.NoError(t, err)
		return v
	}
	seqs := []Sequence{NewSequenceRange(seq(1), Star())}
	for n := uint32(2); n <= 9; n++ {
		seqs = append(seqs, NewSequenceSingle(seq(n)))
	}
	set, err := NewSequenceSet(seqs)
	require.NoError(t, err)

	partial, err := NewSectionPartial(1, 100)
	require.NoError(t, err)
	tag, err := NewTag("C123")
	require.NoError(t, err)
	cmd := Command{
		Tag: tag,
		Body: CommandBody{
			Kind:     CmdFetch,
			Sequence: set,
			FetchAttrs: []FetchAttribute{
				{Kind: FetchRFC822Size},
				{Kind: FetchBodySection, Section: &Section{Text: SectionText{Kind: SectionTextText}}, Peek: true, Partial: &partial},
				{Kind: FetchBodyStructExt},
				{Kind: FetchBodyStructure},
				{Kind: FetchEnvelope},
			},
		},
	}

	codec := NewCommandCodec(nil)
	encoded := codec.Encode(cmd).Collect()
	want := "C123 FETCH 1:*,2,3,4,5,6,7,8,9 (RFC822.SIZE BODY.PEEK[TEXT]<1.100> BODYSTRUCTURE BODY ENVELOPE)\r\n"
	assert.Equal(t, want, string(encoded))

	rest, decoded, err := codec.Decode(encoded)
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.Equal(t, cmd, decoded)
}

func TestCommandDecodeFailed(t *testing.T) {
	codec := NewCommandCodec(nil)
	_, _, err := codec.Decode([]byte("A1 BOGUSCOMMAND please\r\n"))
	var fe *FailedError
	assert.ErrorAs(t, err, &fe)
}

func TestCommandDecodeIncomplete(t *testing.T) {
	codec := NewCommandCodec(nil)
	for _, input := range []string{"A1", "A1 ", "A1 NO", "A1 NOOP", "A1 NOOP\r"} {
		_, _, err := codec.Decode([]byte(input))
		assert.ErrorIs(t, err, ErrIncomplete, "%q", input)
	}
}

func TestResponseLiteralCarriesNoTag(t *testing.T) {
	codec := NewResponseCodec(nil)
	_, _, err := codec.Decode([]byte("* 12 FETCH (BODY[] {100}\r\n"))
	var lf *LiteralFoundError
	require.ErrorAs(t, err, &lf)
	assert.Nil(t, lf.Tag)
	assert.Equal(t, uint32(100), lf.Length)
}

func TestIdleDoneCodec(t *testing.T) {
	codec := NewIdleDoneCodec(nil)

	rest, _, err := codec.Decode([]byte("DONE\r\n"))
	require.NoError(t, err)
	assert.Empty(t, rest)

	_, _, err = codec.Decode([]byte("done\r\n"))
	require.NoError(t, err)

	_, _, err = codec.Decode([]byte(" DONE\r\n"))
	var fe *FailedError
	assert.ErrorAs(t, err, &fe)

	assert.Equal(t, "DONE\r\n", string(codec.Encode(IdleDone{}).Collect()))
}

func TestAuthenticateDataCodec(t *testing.T) {
	codec := NewAuthenticateDataCodec(nil)

	rest, d, err := codec.Decode([]byte("dGVzdA==\r\n"))
	require.NoError(t, err)
	assert.Empty(t, rest)
	assert.False(t, d.Cancel)
	assert.Equal(t, []byte("test"), d.Data)
	assert.Equal(t, "dGVzdA==\r\n", string(codec.Encode(d).Collect()))

	_, d, err = codec.Decode([]byte("*\r\n"))
	require.NoError(t, err)
	assert.True(t, d.Cancel)
	assert.Equal(t, "*\r\n", string(codec.Encode(d).Collect()))

	_, _, err = codec.Decode([]byte("not&base64\r\n"))
	var fe *FailedError
	assert.ErrorAs(t, err, &fe)

	_, _, err = codec.Decode([]byte("dGVzdA=="))
	assert.ErrorIs(t, err, ErrIncomplete)
}

func TestAuthenticateDataRedactsPayload(t *testing.T) {
	d := AuthenticateData{Data: []byte("hunter2")}
	assert.NotContains(t, d.String(), "hunter2")
}

// The fragmentizer and command codec cooperating: an over-limit message
// is reported once and the following message still decodes.
func TestFragmentizerDiscardThenDecode(t *testing.T) {
	fz := fragmentizer.New(fragmentizer.Config{MaxMessageSize: fragmentizer.Limited(16)})
	fz.EnqueueBytes([]byte("A NOOP with extra text\r\nB NOOP\r\n"))

	info, err := fz.Progress()
	assert.Nil(t, info)
	var fe *fragmentizer.FramingError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fragmentizer.ErrMessageTooLarge, fe.Kind)

	info, err = fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	require.True(t, fz.IsMessageComplete())

	cmd, err := fragmentizer.DecodeMessage[Command](fz, NewCommandCodec(nil))
	require.NoError(t, err)
	assert.Equal(t, "B", cmd.Tag.String())
	assert.Equal(t, CmdNoop, cmd.Body.Kind)
}

func TestFragmentizerDrivesSyncLiteralCommand(t *testing.T) {
	fz := fragmentizer.New(fragmentizer.Config{MaxMessageSize: fragmentizer.Unlimited()})
	codec := NewCommandCodec(nil)

	// Bytes arrive in arbitrary chunks; the fragmentizer only reports a
	// complete message once the final no-literal line lands.
	for _, chunk := range []string{"A LOGIN {5}", "\r\nali", "ce {8}\r\npass", "word\r\n"} {
		fz.EnqueueBytes([]byte(chunk))
		for {
			info, err := fz.Progress()
			require.NoError(t, err)
			if info == nil {
				break
			}
		}
	}
	require.True(t, fz.IsMessageComplete())

	cmd, err := fragmentizer.DecodeMessage[Command](fz, codec)
	require.NoError(t, err)
	assert.Equal(t, CmdLogin, cmd.Body.Kind)
	assert.Equal(t, "alice", cmd.Body.Username.String())
	assert.Equal(t, 0, fz.Buffered())
}

// Decoding is a pure function of its input.
func TestDecodeDeterminism(t *testing.T) {
	input := []byte("A1 SELECT INBOX (CONDSTORE)\r\n")
	codec := NewCommandCodec(nil)
	_, first, err := codec.Decode(input)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, again, err := codec.Decode(input)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// Every prefix of a decodable message is Incomplete or LiteralFound,
// never Ok or Failed.
func TestDecodePrefixMonotonicity(t *testing.T) {
	input := []byte("A1 APPEND INBOX (\\Seen) {5+}\r\nhello\r\n")
	codec := NewCommandCodec(nil)
	_, _, err := codec.Decode(input)
	require.NoError(t, err)
	for i := 0; i < len(input); i++ {
		_, _, err := codec.Decode(input[:i])
		if err == nil {
			t.Fatalf("prefix of length %d decoded successfully", i)
		}
		var lf *LiteralFoundError
		if !errors.Is(err, ErrIncomplete) && !errors.As(err, &lf) {
			t.Fatalf("prefix of length %d: unexpected error %v", i, err)
		}
	}
}

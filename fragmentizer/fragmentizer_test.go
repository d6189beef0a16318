package fragmentizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meszmate/imap-codec/wire"
)

type stringDecoder struct{}

func (stringDecoder) Decode(data []byte) ([]byte, string, error) {
	return nil, string(data), nil
}

func TestSimpleLineMessage(t *testing.T) {
	fz := New(Config{MaxMessageSize: Unlimited()})
	fz.EnqueueBytes([]byte("A1 NOOP\r\n"))

	info, err := fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, FragLine, info.Kind)
	assert.Equal(t, 0, info.Offset)
	assert.Equal(t, len("A1 NOOP\r\n"), info.Length)
	assert.True(t, fz.IsMessageComplete())
	assert.Equal(t, "A1 NOOP\r\n", string(fz.MessageBytes()))

	msg, err := DecodeMessage[string](fz, stringDecoder{})
	require.NoError(t, err)
	assert.Equal(t, "A1 NOOP\r\n", msg)
	assert.False(t, fz.IsMessageComplete())
	assert.Equal(t, 0, fz.Buffered())
}

func TestPartialLineNeedsMoreBytes(t *testing.T) {
	fz := New(Config{MaxMessageSize: Unlimited()})
	fz.EnqueueBytes([]byte("A1 NO"))

	info, err := fz.Progress()
	require.NoError(t, err)
	assert.Nil(t, info)
	assert.False(t, fz.IsMessageComplete())

	fz.EnqueueBytes([]byte("OP\r\n"))
	info, err = fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, fz.IsMessageComplete())
}

func TestLiteralRoundTrip(t *testing.T) {
	fz := New(Config{MaxMessageSize: Unlimited()})
	fz.EnqueueBytes([]byte("A1 LOGIN {5}\r\n"))

	info, err := fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, FragLiteralPrefix, info.Kind)
	assert.Equal(t, wire.LiteralSync, info.Mode)
	assert.False(t, fz.IsMessageComplete())

	// Literal payload not fully arrived yet.
	fz.EnqueueBytes([]byte("alic"))
	info, err = fz.Progress()
	require.NoError(t, err)
	assert.Nil(t, info)

	fz.EnqueueBytes([]byte("e secret\r\n"))
	info, err = fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, FragLiteralData, info.Kind)
	assert.Equal(t, 5, info.Length)
	assert.False(t, fz.IsMessageComplete())

	info, err = fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, FragLine, info.Kind)
	assert.Equal(t, len("A1 LOGIN {5}\r\nalice"), info.Offset)
	assert.Equal(t, len(" secret\r\n"), info.Length)
	assert.True(t, fz.IsMessageComplete())
	assert.Equal(t, "A1 LOGIN {5}\r\nalice secret\r\n", string(fz.MessageBytes()))
}

func TestNonSyncLiteralSuffix(t *testing.T) {
	fz := New(Config{MaxMessageSize: Unlimited()})
	fz.EnqueueBytes([]byte("A1 LOGIN {5+}\r\nalice secret\r\n"))

	prefix, err := fz.Progress()
	require.NoError(t, err)
	assert.Equal(t, FragLiteralPrefix, prefix.Kind)
	assert.Equal(t, wire.LiteralNonSync, prefix.Mode)

	data, err := fz.Progress()
	require.NoError(t, err)
	assert.Equal(t, FragLiteralData, data.Kind)
	assert.Equal(t, 5, data.Length)

	line, err := fz.Progress()
	require.NoError(t, err)
	assert.Equal(t, FragLine, line.Kind)
	assert.True(t, fz.IsMessageComplete())
}

func TestMessageTooLargeDiscardsAndResets(t *testing.T) {
	fz := New(Config{MaxMessageSize: Limited(10)})
	fz.EnqueueBytes([]byte("A1 NOOP WITH A VERY LONG LINE\r\n"))

	info, err := fz.Progress()
	assert.Nil(t, info)
	require.Error(t, err)
	fe, ok := err.(*FramingError)
	require.True(t, ok)
	assert.Equal(t, ErrMessageTooLarge, fe.Kind)
	assert.False(t, fz.IsMessageComplete())

	// Fragmentizer discarded through the CRLF and is ready for the next message.
	fz.EnqueueBytes([]byte("A2 NOOP\r\n"))
	info, err = fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, fz.IsMessageComplete())
	assert.Equal(t, "A2 NOOP\r\n", string(fz.MessageBytes()))
}

func TestLiteralTooLarge(t *testing.T) {
	fz := New(Config{MaxMessageSize: Limited(4)})
	fz.EnqueueBytes([]byte("A1 LOGIN {100}\r\n"))

	info, err := fz.Progress()
	assert.Nil(t, info)
	require.Error(t, err)
	fe, ok := err.(*FramingError)
	require.True(t, ok)
	assert.Equal(t, ErrLiteralTooLarge, fe.Kind)
}

func TestBareLFRejectedByDefault(t *testing.T) {
	fz := New(Config{MaxMessageSize: Unlimited()})
	fz.EnqueueBytes([]byte("A1 NOOP\n"))

	info, err := fz.Progress()
	assert.Nil(t, info)
	require.Error(t, err)
	fe, ok := err.(*FramingError)
	require.True(t, ok)
	assert.Equal(t, ErrNotCrLf, fe.Kind)
	assert.Equal(t, 0, fz.Buffered())
}

func TestBareLFAcceptedWhenRelaxed(t *testing.T) {
	fz := New(Config{MaxMessageSize: Unlimited(), CRLFRelaxed: true})
	fz.EnqueueBytes([]byte("A1 NOOP\n"))

	info, err := fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, fz.IsMessageComplete())
	assert.Equal(t, "A1 NOOP\n", string(fz.MessageBytes()))
}

func TestMultipleMessagesInOneChunk(t *testing.T) {
	fz := New(Config{MaxMessageSize: Unlimited()})
	fz.EnqueueBytes([]byte("A1 NOOP\r\nA2 NOOP\r\n"))

	info, err := fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, fz.IsMessageComplete())

	msg, err := DecodeMessage[string](fz, stringDecoder{})
	require.NoError(t, err)
	assert.Equal(t, "A1 NOOP\r\n", msg)

	info, err = fz.Progress()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, fz.IsMessageComplete())

	msg, err = DecodeMessage[string](fz, stringDecoder{})
	require.NoError(t, err)
	assert.Equal(t, "A2 NOOP\r\n", msg)
	assert.Equal(t, 0, fz.Buffered())
}

// Package fragmentizer implements transport-level framing for an IMAP
// byte stream: it segments arriving bytes into lines and literals using
// only length-prefix lookahead, without parsing the grammar, bounded by
// a configurable maximum message size, and then hands the accumulated
// bytes of a complete message to a typed Decoder.
package fragmentizer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/meszmate/imap-codec/wire"
)

// MessageSizeLimit is either Unlimited or Limited(n).
type MessageSizeLimit struct {
	limited bool
	max     uint32
}

// Unlimited imposes no cap on message size.
func Unlimited() MessageSizeLimit { return MessageSizeLimit{} }

// Limited caps a message (including any literals it carries) at n bytes.
func Limited(n uint32) MessageSizeLimit { return MessageSizeLimit{limited: true, max: n} }

// Config is the fragmentizer's configuration surface.
type Config struct {
	MaxMessageSize MessageSizeLimit
	// CRLFRelaxed accepts a bare LF as a line terminator, matching the
	// grammar-level quirk of the same name so the two layers agree on
	// what counts as a terminator.
	CRLFRelaxed bool
}

// FramingErrorKind enumerates the ways an incoming stream can violate
// framing rules.
type FramingErrorKind int

const (
	ErrNotCrLf FramingErrorKind = iota
	ErrLineTooLarge
	ErrMessageTooLarge
	ErrLiteralTooLarge
)

// FramingError is returned by Progress when the incoming stream
// violates framing rules. It is always fatal for the in-flight message:
// the fragmentizer discards up through the next top-level CRLF and
// resets.
type FramingError struct {
	Kind             FramingErrorKind
	MaxMessageLength uint32
	MaxLiteralLength uint32
	Length           uint32
}

func (e *FramingError) Error() string {
	switch e.Kind {
	case ErrNotCrLf:
		return "fragmentizer: expected CRLF, got bare LF"
	case ErrLineTooLarge:
		return fmt.Sprintf("fragmentizer: line exceeds max_message_size of %d bytes", e.MaxMessageLength)
	case ErrMessageTooLarge:
		return fmt.Sprintf("fragmentizer: message exceeds max_message_size of %d bytes", e.MaxMessageLength)
	case ErrLiteralTooLarge:
		return fmt.Sprintf("fragmentizer: literal of %d bytes exceeds max_message_size of %d bytes", e.Length, e.MaxLiteralLength)
	default:
		return "fragmentizer: framing error"
	}
}

// FragmentKind distinguishes the three shapes Progress can report.
type FragmentKind int

const (
	// FragLine is a complete CRLF-terminated line carrying no literal
	// announcement: the message is complete once this is reported.
	FragLine FragmentKind = iota
	// FragLiteralPrefix is a complete CRLF-terminated line that ends in
	// a literal length announcement ("{N}" or "{N+}"); a FragLiteralData
	// fragment of N bytes follows before the message can complete.
	FragLiteralPrefix
	// FragLiteralData is the raw payload of an announced literal.
	FragLiteralData
)

// FragmentInfo describes one fragment consumed by Progress, as a byte
// range within the in-flight message (offsets are relative to the start
// of that message, i.e. to MessageBytes()[0]).
type FragmentInfo struct {
	Kind   FragmentKind
	Offset int
	Length int
	// Mode is meaningful for FragLiteralPrefix only: a synchronizing
	// announcement means the peer is waiting for a continuation before
	// it sends the literal's payload.
	Mode wire.LiteralMode
}

type stateKind int

const (
	stateReadLine stateKind = iota
	stateReadLiteral
	stateDiscard
)

// Fragmentizer is a per-connection framer. It holds a growing buffer and
// framing state but no concurrency of its own: multiple
// connections need multiple independent instances.
type Fragmentizer struct {
	cfg   Config
	buf   []byte
	state stateKind

	// toConsumeAcc is, depending on state, either the number of bytes of
	// the in-flight message already resolved into lines/literals (while
	// reading a line, the offset to resume the CRLF scan from), or - once
	// complete - the total length of the message.
	toConsumeAcc int
	literalLen   int
	complete     bool
}

// New returns a Fragmentizer ready to read the first message.
func New(cfg Config) *Fragmentizer {
	return &Fragmentizer{cfg: cfg, state: stateReadLine}
}

// EnqueueBytes appends newly-arrived bytes to the internal buffer.
func (fz *Fragmentizer) EnqueueBytes(data []byte) {
	fz.buf = append(fz.buf, data...)
}

// IsMessageComplete reports whether a full message (one that ends in a
// CRLF-terminated line carrying no further literal announcement) is
// available via MessageBytes.
func (fz *Fragmentizer) IsMessageComplete() bool { return fz.complete }

// MessageBytes returns the concatenation of all fragments of the
// in-flight (or, once complete, the just-finished) message.
func (fz *Fragmentizer) MessageBytes() []byte {
	return fz.buf[:fz.toConsumeAcc]
}

// Buffered returns the number of bytes currently held, including bytes
// belonging to a not-yet-complete message.
func (fz *Fragmentizer) Buffered() int { return len(fz.buf) }

// Progress attempts to advance the state machine by exactly one
// fragment. It returns (nil, nil) when more bytes are needed before any
// further progress can be made. A non-nil FramingError means the
// in-flight message was discarded; the fragmentizer has already reset
// and the caller should simply keep calling Progress/EnqueueBytes for
// the next message.
func (fz *Fragmentizer) Progress() (*FragmentInfo, error) {
	switch fz.state {
	case stateDiscard:
		return fz.progressDiscard()
	case stateReadLiteral:
		return fz.progressReadLiteral()
	default:
		return fz.progressReadLine()
	}
}

func (fz *Fragmentizer) progressReadLine() (*FragmentInfo, error) {
	if fz.complete {
		// Caller has not yet consumed the previous message.
		return nil, nil
	}
	consume, ok, found := findCRLFInclusive(fz.toConsumeAcc, fz.buf, fz.cfg.CRLFRelaxed)
	if !found {
		if fz.overLimit(len(fz.buf)) {
			max := fz.cfg.MaxMessageSize.max
			fz.enterDiscard(len(fz.buf))
			return nil, &FramingError{Kind: ErrLineTooLarge, MaxMessageLength: max}
		}
		return nil, nil
	}
	if !ok {
		// Bare LF without a preceding CR, and quirk_crlf_relaxed is off:
		// fatal for this message. Discard through the bad terminator.
		fz.buf = fz.buf[consume:]
		fz.toConsumeAcc = 0
		fz.state = stateReadLine
		return nil, &FramingError{Kind: ErrNotCrLf}
	}

	lineEnd := consume
	termLen := 2
	if lineEnd < 2 || fz.buf[lineEnd-2] != '\r' {
		termLen = 1
	}
	content := fz.buf[fz.toConsumeAcc : lineEnd-termLen]

	length, mode, hasLiteral := detectLiteralSuffix(content)
	if hasLiteral && fz.cfg.MaxMessageSize.limited && length > fz.cfg.MaxMessageSize.max {
		// The announced literal alone already busts the cap; report that
		// before the coarser message-size verdict.
		fz.enterDiscard(lineEnd)
		return nil, &FramingError{Kind: ErrLiteralTooLarge, MaxLiteralLength: fz.cfg.MaxMessageSize.max, Length: length}
	}
	if fz.overLimit(lineEnd) {
		max := fz.cfg.MaxMessageSize.max
		if hasLiteral {
			// A literal follows the terminator we just found: keep
			// scanning forward for the next top-level CRLF before
			// resetting.
			fz.enterDiscard(lineEnd)
		} else {
			// The over-limit message ends right here; drop it and reset.
			fz.buf = fz.buf[lineEnd:]
			fz.toConsumeAcc = 0
			fz.state = stateReadLine
		}
		return nil, &FramingError{Kind: ErrMessageTooLarge, MaxMessageLength: max}
	}
	if !hasLiteral {
		prevAcc := fz.toConsumeAcc
		fz.toConsumeAcc = lineEnd
		fz.complete = true
		return &FragmentInfo{Kind: FragLine, Offset: prevAcc, Length: lineEnd - prevAcc}, nil
	}

	if fz.overLimit(lineEnd + int(length)) {
		max := fz.cfg.MaxMessageSize.max
		fz.enterDiscard(lineEnd)
		return nil, &FramingError{Kind: ErrMessageTooLarge, MaxMessageLength: max}
	}

	prevAcc := fz.toConsumeAcc
	fz.toConsumeAcc = lineEnd
	fz.literalLen = int(length)
	fz.state = stateReadLiteral
	return &FragmentInfo{Kind: FragLiteralPrefix, Offset: prevAcc, Length: lineEnd - prevAcc, Mode: mode}, nil
}

func (fz *Fragmentizer) progressReadLiteral() (*FragmentInfo, error) {
	need := fz.toConsumeAcc + fz.literalLen
	if len(fz.buf) < need {
		return nil, nil
	}
	info := &FragmentInfo{Kind: FragLiteralData, Offset: fz.toConsumeAcc, Length: fz.literalLen}
	fz.toConsumeAcc = need
	fz.literalLen = 0
	fz.state = stateReadLine
	return info, nil
}

func (fz *Fragmentizer) progressDiscard() (*FragmentInfo, error) {
	consume, _, found := findCRLFInclusive(fz.toConsumeAcc, fz.buf, fz.cfg.CRLFRelaxed)
	if !found {
		fz.toConsumeAcc = len(fz.buf)
		return nil, nil
	}
	fz.buf = fz.buf[consume:]
	fz.toConsumeAcc = 0
	fz.state = stateReadLine
	return nil, nil
}

func (fz *Fragmentizer) enterDiscard(scannedSoFar int) {
	fz.state = stateDiscard
	fz.toConsumeAcc = scannedSoFar
	fz.literalLen = 0
	fz.complete = false
}

func (fz *Fragmentizer) overLimit(n int) bool {
	return fz.cfg.MaxMessageSize.limited && n > int(fz.cfg.MaxMessageSize.max)
}

// Reset discards the in-flight message's bytes without decoding them,
// returning the fragmentizer to a fresh state. Useful after a Decoder
// reports a permanent Failed error for the accumulated message.
func (fz *Fragmentizer) Reset() {
	fz.buf = fz.buf[fz.toConsumeAcc:]
	fz.toConsumeAcc = 0
	fz.literalLen = 0
	fz.complete = false
	fz.state = stateReadLine
}

// advanceMessage drops the bytes of the just-decoded message.
func (fz *Fragmentizer) advanceMessage() {
	fz.buf = fz.buf[fz.toConsumeAcc:]
	fz.toConsumeAcc = 0
	fz.complete = false
	fz.state = stateReadLine
}

// Decoder is implemented by each of package imap's codec façades
// (GreetingCodec, CommandCodec, ResponseCodec, AuthenticateDataCodec,
// IdleDoneCodec), binding a Fragmentizer to the typed message it should
// produce once a message is complete.
type Decoder[M any] interface {
	Decode(data []byte) (rest []byte, msg M, err error)
}

// DecodeMessage hands the in-flight complete message to dec and, on
// success, discards the consumed bytes and resets the fragmentizer for
// the next message. It is an error to call this before
// IsMessageComplete reports true.
func DecodeMessage[M any](fz *Fragmentizer, dec Decoder[M]) (M, error) {
	var zero M
	if !fz.complete {
		return zero, fmt.Errorf("fragmentizer: no complete message available")
	}
	data := fz.MessageBytes()
	rest, msg, err := dec.Decode(data)
	if err != nil {
		return zero, err
	}
	if len(rest) != 0 {
		return zero, fmt.Errorf("fragmentizer: codec left %d unexpected trailing byte(s)", len(rest))
	}
	fz.advanceMessage()
	return msg, nil
}

// findCRLFInclusive scans buf[skip:] for the next '\n'.
//
//	found=false: no '\n' in range yet - need more bytes.
//	found=true, ok=true: consume is the inclusive length from 0 covering
//	  a valid terminator (CRLF, or a bare LF when relaxed is set).
//	found=true, ok=false: consume is the inclusive length from 0 covering
//	  through a bare LF that is missing its CR (invalid under strict
//	  CRLF rules) - the caller discards through consume.
func findCRLFInclusive(skip int, buf []byte, relaxed bool) (consume int, ok bool, found bool) {
	idx := bytes.IndexByte(buf[skip:], '\n')
	if idx < 0 {
		return 0, false, false
	}
	pos := skip + idx
	hasCR := pos > 0 && buf[pos-1] == '\r'
	if hasCR || relaxed {
		return pos + 1, true, true
	}
	return pos + 1, false, true
}

// detectLiteralSuffix scans a line (with its CRLF already stripped)
// from the right for a trailing
// "{N}" or "{N+}" (the leading '~' of a Literal8 prefix, if present,
// does not affect this scan - only the digits and the optional '+'
// immediately before the final '}' matter).
func detectLiteralSuffix(line []byte) (length uint32, mode wire.LiteralMode, ok bool) {
	if len(line) == 0 || line[len(line)-1] != '}' {
		return 0, 0, false
	}
	i := len(line) - 2
	nonSync := false
	if i >= 0 && line[i] == '+' {
		nonSync = true
		i--
	}
	end := i + 1
	start := end
	for start > 0 && line[start-1] >= '0' && line[start-1] <= '9' {
		start--
	}
	if start == end {
		return 0, 0, false
	}
	if start == 0 || line[start-1] != '{' {
		return 0, 0, false
	}
	n, err := strconv.ParseUint(string(line[start:end]), 10, 32)
	if err != nil {
		return 0, 0, false
	}
	mode = wire.LiteralSync
	if nonSync {
		mode = wire.LiteralNonSync
	}
	return uint32(n), mode, true
}

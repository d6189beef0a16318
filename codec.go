// Package imap models IMAP4rev1 messages (greetings, commands,
// continuations, responses) as validated Go values and converts them to
// and from their wire form. Parsing is incremental over byte slices:
// a decode either succeeds, needs more bytes, or - for commands and
// responses - stops at a synchronizing-literal boundary so the
// transport can drive the continuation handshake.
package imap

import (
	"errors"
	"fmt"

	"github.com/meszmate/imap-codec/wire"
)

// ErrIncomplete reports that the buffer does not yet hold a complete
// message. It is the same sentinel the wire package's scan primitives
// use, re-exported so callers need only one import.
var ErrIncomplete = wire.ErrIncomplete

// LiteralFoundError reports that decoding stopped right after a
// synchronizing (or non-synchronizing, when its payload hasn't arrived)
// literal prefix: the caller must supply Length more bytes before
// retrying the decode. For a command the in-flight tag is attached so a
// server can reject the literal with a correctly-tagged NO; a response's
// literal carries no tag.
type LiteralFoundError struct {
	Tag    *Tag
	Length uint32
	Mode   wire.LiteralMode
	Binary bool
}

func (e *LiteralFoundError) Error() string {
	if e.Tag != nil {
		return fmt.Sprintf("imap: literal found (tag %q, %d bytes, %s)", e.Tag.String(), e.Length, e.Mode)
	}
	return fmt.Sprintf("imap: literal found (%d bytes, %s)", e.Length, e.Mode)
}

// FailedError reports that the buffered bytes can never parse as a
// message of the codec's kind, no matter how many more arrive. The
// transport should discard through the next top-level CRLF.
type FailedError struct {
	Err error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("imap: decode failed: %v", e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }

// failed wraps any non-Incomplete, non-literal error as a FailedError.
func failed(err error) error {
	if errors.Is(err, wire.ErrIncomplete) {
		return wire.ErrIncomplete
	}
	return &FailedError{Err: err}
}

// literalOrFailed maps a parse error for codecs whose grammar can pause
// at a literal boundary.
func literalOrFailed(err error, tag *Tag) error {
	var lr *wire.LiteralRequest
	if errors.As(err, &lr) {
		return &LiteralFoundError{Tag: tag, Length: lr.Length, Mode: lr.Mode, Binary: lr.Binary}
	}
	return failed(err)
}

// noLiteral maps a parse error for codecs whose grammar has no literal
// production: a literal prefix there is simply a syntax error.
func noLiteral(err error) error {
	var lr *wire.LiteralRequest
	if errors.As(err, &lr) {
		return &FailedError{Err: err}
	}
	return failed(err)
}

// GreetingCodec decodes and encodes the server's connection-opening
// greeting. Greetings never carry literals.
type GreetingCodec struct {
	cfg *wire.Config
}

// NewGreetingCodec returns a GreetingCodec using cfg's quirks. A nil
// cfg is strict RFC behavior.
func NewGreetingCodec(cfg *wire.Config) *GreetingCodec {
	return &GreetingCodec{cfg: cfg}
}

func (c *GreetingCodec) Decode(data []byte) ([]byte, Greeting, error) {
	rest, g, err := ParseGreeting(data, c.cfg)
	if err != nil {
		return nil, Greeting{}, noLiteral(err)
	}
	return rest, g, nil
}

func (c *GreetingCodec) Encode(g Greeting) *wire.FragmentStream {
	b := wire.NewBuilder()
	g.Encode(b)
	return b.Finish()
}

// CommandCodec decodes and encodes client commands. A decode stopping
// at a synchronizing-literal boundary reports *LiteralFoundError with
// the command's tag attached.
type CommandCodec struct {
	cfg *wire.Config
}

func NewCommandCodec(cfg *wire.Config) *CommandCodec {
	return &CommandCodec{cfg: cfg}
}

func (c *CommandCodec) Decode(data []byte) ([]byte, Command, error) {
	rest, cmd, err := ParseCommand(data, c.cfg)
	if err != nil {
		return nil, Command{}, literalOrFailed(err, peekCommandTag(data))
	}
	return rest, cmd, nil
}

// peekCommandTag extracts the tag from a command's first bytes without
// committing to the rest of the parse, so a literal-reject NO can be
// tagged even when the command body is still incomplete.
func peekCommandTag(data []byte) *Tag {
	rest, tok, err := wire.ParseTagToken(data)
	if err != nil || len(rest) == 0 || rest[0] != ' ' {
		return nil
	}
	tag, verr := NewTag(string(tok))
	if verr != nil {
		return nil
	}
	return &tag
}

func (c *CommandCodec) Encode(cmd Command) *wire.FragmentStream {
	if c.cfg != nil && c.cfg.IDEmptyToNil && cmd.Body.Kind == CmdID &&
		cmd.Body.ID != nil && len(cmd.Body.ID) == 0 {
		cmd.Body.ID = nil
	}
	b := wire.NewBuilder()
	cmd.Encode(b)
	return b.Finish()
}

// ResponseCodec decodes and encodes server responses. A response's
// literal boundary carries no tag.
type ResponseCodec struct {
	cfg *wire.Config
}

func NewResponseCodec(cfg *wire.Config) *ResponseCodec {
	return &ResponseCodec{cfg: cfg}
}

func (c *ResponseCodec) Decode(data []byte) ([]byte, Response, error) {
	rest, r, err := ParseResponse(data, c.cfg)
	if err != nil {
		return nil, Response{}, literalOrFailed(err, nil)
	}
	return rest, r, nil
}

func (c *ResponseCodec) Encode(r Response) *wire.FragmentStream {
	if c.cfg != nil && c.cfg.IDEmptyToNil && r.Kind == ResponseData &&
		r.Data != nil && r.Data.Kind == DataID && r.Data.ID != nil && len(r.Data.ID) == 0 {
		data := *r.Data
		data.ID = nil
		r.Data = &data
	}
	b := wire.NewBuilder()
	r.Encode(b)
	return b.Finish()
}

// AuthenticateDataCodec decodes and encodes one SASL continuation line.
type AuthenticateDataCodec struct {
	cfg *wire.Config
}

func NewAuthenticateDataCodec(cfg *wire.Config) *AuthenticateDataCodec {
	return &AuthenticateDataCodec{cfg: cfg}
}

func (c *AuthenticateDataCodec) Decode(data []byte) ([]byte, AuthenticateData, error) {
	rest, d, err := ParseAuthenticateData(data, c.cfg)
	if err != nil {
		return nil, AuthenticateData{}, noLiteral(err)
	}
	return rest, d, nil
}

func (c *AuthenticateDataCodec) Encode(d AuthenticateData) *wire.FragmentStream {
	b := wire.NewBuilder()
	d.Encode(b)
	return b.Finish()
}

// IdleDoneCodec decodes and encodes the DONE line ending an IDLE.
type IdleDoneCodec struct {
	cfg *wire.Config
}

func NewIdleDoneCodec(cfg *wire.Config) *IdleDoneCodec {
	return &IdleDoneCodec{cfg: cfg}
}

func (c *IdleDoneCodec) Decode(data []byte) ([]byte, IdleDone, error) {
	rest, d, err := ParseIdleDone(data, c.cfg)
	if err != nil {
		return nil, IdleDone{}, noLiteral(err)
	}
	return rest, d, nil
}

func (c *IdleDoneCodec) Encode(d IdleDone) *wire.FragmentStream {
	b := wire.NewBuilder()
	d.Encode(b)
	return b.Finish()
}

// ConnectionState names the grammar a connection-level parser should
// currently apply. The codec itself is stateless; this
// enum exists for callers that track which of the five codecs to hand
// the fragmentizer next.
type ConnectionState int

const (
	// StateGreeting precedes the server's opening line.
	StateGreeting ConnectionState = iota
	// StateCommand is the server side's steady state.
	StateCommand
	// StateAuthenticateData holds while a SASL exchange is in flight.
	StateAuthenticateData
	// StateIdle holds between IDLE's continuation and the client's DONE.
	StateIdle
	// StateResponse is the client side's steady state.
	StateResponse
)

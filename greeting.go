package imap

import "github.com/meszmate/imap-codec/wire"

// GreetingKind distinguishes the three greetings a server may open a
// connection with.
type GreetingKind int

const (
	// GreetingOk puts the connection in the not-authenticated state.
	GreetingOk GreetingKind = iota
	// GreetingPreAuth skips authentication entirely.
	GreetingPreAuth
	// GreetingBye rejects the connection.
	GreetingBye
)

func (k GreetingKind) String() string {
	switch k {
	case GreetingPreAuth:
		return "PREAUTH"
	case GreetingBye:
		return "BYE"
	default:
		return "OK"
	}
}

// Greeting is the server's connection-opening line.
type Greeting struct {
	Kind GreetingKind
	Code *Code
	Text Text
}

func (g Greeting) Encode(b *wire.Builder) {
	b.Star().Atom(g.Kind.String()).SP()
	encodeRespText(b, g.Code, g.Text)
	b.CRLF()
}

func encodeRespText(b *wire.Builder, code *Code, text Text) {
	if code != nil {
		b.RawString("[")
		code.Encode(b)
		b.RawString("]")
		if text.String() != "" {
			b.SP()
		}
	}
	b.RawString(text.String())
}

// ParseGreeting consumes a complete greeting line.
func ParseGreeting(b []byte, cfg *wire.Config) ([]byte, Greeting, error) {
	var g Greeting
	if len(b) < 2 {
		return nil, g, wire.ErrIncomplete
	}
	if b[0] != '*' || b[1] != ' ' {
		return nil, g, &wire.SyntaxError{Msg: "greeting must start with '* '", At: 0}
	}
	rest := b[2:]
	switch {
	case wire.HasPrefixFold(rest, "PREAUTH "):
		g.Kind = GreetingPreAuth
		rest = rest[len("PREAUTH "):]
	case wire.HasPrefixFold(rest, "BYE "):
		g.Kind = GreetingBye
		rest = rest[len("BYE "):]
	case wire.HasPrefixFold(rest, "OK "):
		g.Kind = GreetingOk
		rest = rest[len("OK "):]
	default:
		if len(rest) < len("PREAUTH ") {
			return nil, g, wire.ErrIncomplete
		}
		return nil, g, &wire.SyntaxError{Msg: "expected OK, PREAUTH or BYE", At: 2}
	}
	rest, code, text, err := parseRespText(rest, cfg)
	if err != nil {
		return nil, g, err
	}
	rest, err = wire.ParseCRLF(rest, cfg)
	if err != nil {
		return nil, g, err
	}
	g.Code, g.Text = code, text
	return rest, g, nil
}

// parseRespText consumes "[code] text" up to (but not including) the
// line terminator. The text element is mandatory per RFC 3501 but may be
// absent under quirk_missing_text.
func parseRespText(b []byte, cfg *wire.Config) (rest []byte, code *Code, text Text, err error) {
	rest = b
	if len(rest) == 0 {
		return nil, nil, Text{}, wire.ErrIncomplete
	}
	if rest[0] == '[' {
		var c Code
		rest, c, err = ParseCode(rest[1:], cfg)
		if err != nil {
			return nil, nil, Text{}, err
		}
		rest, err = wire.ParseByte(rest, ']')
		if err != nil {
			return nil, nil, Text{}, err
		}
		code = &c
		if len(rest) == 0 {
			return nil, nil, Text{}, wire.ErrIncomplete
		}
		if rest[0] != ' ' {
			// "[code]" immediately followed by CRLF: no text element.
			if cfg != nil && cfg.MissingText {
				return rest, code, Text{}, nil
			}
			return nil, nil, Text{}, &wire.SyntaxError{Msg: "missing text after response code", At: 0}
		}
		rest = rest[1:]
	}
	i := 0
	for i < len(rest) && rest[i] != '\r' && rest[i] != '\n' {
		if !wire.IsTextChar(rest[i]) {
			return nil, nil, Text{}, &wire.SyntaxError{Msg: "invalid byte in response text", At: i}
		}
		i++
	}
	if i == len(rest) {
		return nil, nil, Text{}, wire.ErrIncomplete
	}
	if i == 0 {
		if cfg != nil && cfg.MissingText {
			return rest, code, Text{}, nil
		}
		return nil, nil, Text{}, &wire.SyntaxError{Msg: "empty response text", At: 0}
	}
	t, verr := NewText(string(rest[:i]))
	if verr != nil {
		return nil, nil, Text{}, verr
	}
	return rest[i:], code, t, nil
}

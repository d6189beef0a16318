package imap

import (
	"encoding/base64"

	"github.com/meszmate/imap-codec/wire"
)

// AuthenticateData is one client line of an in-flight SASL exchange:
// a single CRLF-terminated base64 chunk, or the "*" cancellation. A
// multi-step exchange is modeled by decoding repeatedly; the codec
// deliberately holds no exchange state.
type AuthenticateData struct {
	Cancel bool
	Data   []byte
}

// String redacts the payload: SASL continuations routinely carry
// credentials and must not leak into logs via %v.
func (d AuthenticateData) String() string {
	if d.Cancel {
		return "AuthenticateData(*)"
	}
	return "AuthenticateData(<redacted>)"
}

func (d AuthenticateData) Encode(b *wire.Builder) {
	if d.Cancel {
		b.RawString("*")
	} else {
		b.RawString(base64.StdEncoding.EncodeToString(d.Data))
	}
	b.CRLF()
}

// ParseAuthenticateData consumes one complete authenticate-data line.
func ParseAuthenticateData(b []byte, cfg *wire.Config) ([]byte, AuthenticateData, error) {
	var d AuthenticateData
	i := 0
	for i < len(b) && b[i] != '\r' && b[i] != '\n' {
		i++
	}
	if i == len(b) {
		return nil, d, wire.ErrIncomplete
	}
	line := b[:i]
	rest, err := wire.ParseCRLF(b[i:], cfg)
	if err != nil {
		return nil, d, err
	}
	if len(line) == 1 && line[0] == '*' {
		d.Cancel = true
		return rest, d, nil
	}
	decoded, derr := base64.StdEncoding.DecodeString(string(line))
	if derr != nil {
		return nil, d, &wire.SyntaxError{Msg: "invalid base64 in authenticate data", At: 0}
	}
	d.Data = decoded
	return rest, d, nil
}

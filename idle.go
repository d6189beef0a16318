package imap

import "github.com/meszmate/imap-codec/wire"

// IdleDone is the client line that ends an IDLE (RFC 2177): the bare
// word DONE. It carries no payload.
type IdleDone struct{}

func (IdleDone) Encode(b *wire.Builder) {
	b.Atom("DONE").CRLF()
}

// ParseIdleDone consumes "DONE" CRLF, case-insensitively. Leading
// whitespace is not tolerated.
func ParseIdleDone(b []byte, cfg *wire.Config) ([]byte, IdleDone, error) {
	if len(b) < 4 {
		return nil, IdleDone{}, wire.ErrIncomplete
	}
	if !wire.HasPrefixFold(b, "DONE") {
		return nil, IdleDone{}, &wire.SyntaxError{Msg: "expected DONE", At: 0}
	}
	rest, err := wire.ParseCRLF(b[4:], cfg)
	if err != nil {
		return nil, IdleDone{}, err
	}
	return rest, IdleDone{}, nil
}

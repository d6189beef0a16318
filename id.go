package imap

import "github.com/meszmate/imap-codec/wire"

// ID field names as defined in RFC 2971.
const (
	IDFieldName        = "name"
	IDFieldVersion     = "version"
	IDFieldOS          = "os"
	IDFieldOSVersion   = "os-version"
	IDFieldVendor      = "vendor"
	IDFieldSupportURL  = "support-url"
	IDFieldAddress     = "address"
	IDFieldDate        = "date"
	IDFieldCommand     = "command"
	IDFieldArguments   = "arguments"
	IDFieldEnvironment = "environment"
)

// IDField is one (name, value) pair of an ID parameter list. A nil
// Value is the NIL placeholder.
type IDField struct {
	Name  string
	Value *string
}

// IDParams is an ID command's or response's parameter list. Nil means
// the whole list was NIL; an empty non-nil slice is the empty list "()".
// Order is preserved for round-trip fidelity; RFC 2971 field names are
// matched case-insensitively by consumers.
type IDParams []IDField

// Get returns the value for name (case-insensitive), or nil.
func (p IDParams) Get(name string) *string {
	for _, f := range p {
		if wire.EqualFold([]byte(f.Name), []byte(name)) {
			return f.Value
		}
	}
	return nil
}

func (p IDParams) encode(b *wire.Builder, cfg *wire.Config) {
	if p == nil || (len(p) == 0 && cfg != nil && cfg.IDEmptyToNil) {
		b.Nil()
		return
	}
	// RFC 2971's id-params-list holds strings, never bare atoms.
	b.List(len(p)*2, func(i int) {
		f := p[i/2]
		if i%2 == 0 {
			encodeIDString(b, f.Name)
			return
		}
		if f.Value == nil {
			b.Nil()
			return
		}
		encodeIDString(b, *f.Value)
	})
}

func parseIDParams(b []byte, cfg *wire.Config) ([]byte, IDParams, error) {
	rest, isNil, err := peekNil(b)
	if err != nil {
		return nil, nil, err
	}
	if isNil {
		return rest, nil, nil
	}
	params := IDParams{}
	var pending *string
	havePending := false
	rest, err = wire.ParseList(b, cfg, func(b []byte) ([]byte, error) {
		if !havePending {
			r, raw, err := wire.ParseIString(b, cfg)
			if err != nil {
				return nil, err
			}
			s := string(raw)
			pending = &s
			havePending = true
			return r, nil
		}
		r, raw, isNil, err := wire.ParseNString(b, cfg)
		if err != nil {
			return nil, err
		}
		f := IDField{Name: *pending}
		if !isNil {
			v := string(raw)
			f.Value = &v
		}
		params = append(params, f)
		havePending = false
		return r, nil
	})
	if err != nil {
		return nil, nil, err
	}
	if havePending {
		return nil, nil, &wire.SyntaxError{Msg: "ID parameter list has odd length", At: 0}
	}
	return rest, params, nil
}

func encodeIDString(b *wire.Builder, s string) {
	if wire.NeedsLiteral(s) {
		b.Literal([]byte(s), wire.LiteralSync, false)
		return
	}
	b.QuotedString(s)
}
